package preprocessor

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/primitives"
)

func TestCompilationResultsMergeHeadersPreservesInsertionOrder(t *testing.T) {
	acc := newCompilationResults()
	acc.mergeHeaders(map[uint64]primitives.ProcessedHeader{10: {BlockNumber: 10}})
	acc.mergeHeaders(map[uint64]primitives.ProcessedHeader{5: {BlockNumber: 5}})
	acc.mergeMMRMetas([]primitives.MMRMeta{{Id: 1}})

	proofs := acc.blockProofs()
	if len(proofs.MMRWithHeaders) != 1 {
		t.Fatalf("got %d mmr groups, want 1", len(proofs.MMRWithHeaders))
	}
	headers := proofs.MMRWithHeaders[0].Headers
	if len(headers) != 2 || headers[0].BlockNumber != 10 || headers[1].BlockNumber != 5 {
		t.Errorf("headers out of insertion order: %+v", headers)
	}
}

func TestCompilationResultsMergeAccountDedupsByAddress(t *testing.T) {
	acc := newCompilationResults()
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	acc.mergeAccount(primitives.ProcessedAccount{
		Address: addr,
		Proofs:  []primitives.ProcessedMPTProof{{BlockNumber: 1}},
	})
	acc.mergeAccount(primitives.ProcessedAccount{
		Address: addr,
		Proofs:  []primitives.ProcessedMPTProof{{BlockNumber: 2}},
	})

	proofs := acc.blockProofs()
	if len(proofs.Accounts) != 1 {
		t.Fatalf("got %d accounts, want 1 (deduped by address)", len(proofs.Accounts))
	}
	if len(proofs.Accounts[0].Proofs) != 2 {
		t.Errorf("got %d proofs merged into the one account, want 2", len(proofs.Accounts[0].Proofs))
	}
}

func TestCompilationResultsMergeStorageDedupsByAddressAndSlot(t *testing.T) {
	acc := newCompilationResults()
	addr := common.HexToAddress("0x2222222222222222222222222222222222222222")
	slot := common.HexToHash("0x01")
	acc.mergeStorage(primitives.ProcessedStorage{Address: addr, Slot: slot, Proofs: []primitives.ProcessedMPTProof{{BlockNumber: 1}}})
	acc.mergeStorage(primitives.ProcessedStorage{Address: addr, Slot: slot, Proofs: []primitives.ProcessedMPTProof{{BlockNumber: 2}}})
	acc.mergeStorage(primitives.ProcessedStorage{Address: addr, Slot: common.HexToHash("0x02"), Proofs: []primitives.ProcessedMPTProof{{BlockNumber: 1}}})

	proofs := acc.blockProofs()
	if len(proofs.Storages) != 2 {
		t.Fatalf("got %d storage slots, want 2", len(proofs.Storages))
	}
	if len(proofs.Storages[0].Proofs) != 2 {
		t.Errorf("got %d proofs merged for the repeated slot, want 2", len(proofs.Storages[0].Proofs))
	}
}

func TestCompilationResultsMergeTransactionsOverwritesByKey(t *testing.T) {
	acc := newCompilationResults()
	acc.mergeTransactions([]primitives.ProcessedTransaction{{BlockNumber: 1, TxIndex: 0, ProofNodes: [][]byte{{0x01}}}})
	acc.mergeTransactions([]primitives.ProcessedTransaction{{BlockNumber: 1, TxIndex: 0, ProofNodes: [][]byte{{0x02}}}})
	acc.mergeTransactions([]primitives.ProcessedTransaction{{BlockNumber: 1, TxIndex: 1}})

	proofs := acc.blockProofs()
	if len(proofs.Transactions) != 2 {
		t.Fatalf("got %d transactions, want 2 distinct (block, index) keys", len(proofs.Transactions))
	}
	if proofs.Transactions[0].ProofNodes[0][0] != 0x02 {
		t.Errorf("re-merge of the same key did not overwrite the proof nodes")
	}
}
