package preprocessor

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/primitives"
)

// MMRWithHeaders pairs one MMR identity with the headers proved against it
// (spec §6 "proofs: mmrWithHeaders").
type MMRWithHeaders struct {
	MMR     primitives.MMRMeta
	Headers []primitives.ProcessedHeader
}

// ProcessedBlockProofs is the de-duplicated proof bundle shared across
// every task in a run (spec §4.6 step 6).
type ProcessedBlockProofs struct {
	MMRWithHeaders      []MMRWithHeaders
	Accounts            []primitives.ProcessedAccount
	Storages            []primitives.ProcessedStorage
	Transactions        []primitives.ProcessedTransaction
	TransactionReceipts []primitives.ProcessedReceipt
}

// ProcessedDatalakeCompute is the per-task record assembled for a
// DatalakeCompute task (spec §4.6 step 5). Result and ResultCommitment are
// nil when the task's aggregation is not pre-processable (MERKLE, SLR) or
// when the run-wide pre_processable flag is false, per spec §4.2/§4.6.
type ProcessedDatalakeCompute struct {
	EncodedTask      []byte
	TaskCommitment   common.Hash
	Result           *primitives.U256
	ResultCommitment *common.Hash
	TaskProof        []common.Hash
	ResultProof      []common.Hash
	EncodedDatalake  []byte
	DatalakeTypeTag  primitives.DatalakeKind
	PropertyTypeTag  uint8
}

// ProcessedModule is the per-task record assembled for a Module task: a
// commitment and its task_proof, with no datalake/result fields (the
// pipeline never executes module bytecode, spec §1).
type ProcessedModule struct {
	EncodedTask    []byte
	TaskCommitment common.Hash
	TaskProof      []common.Hash
}

// ProcessedFullInput is process(tasks)'s return value (spec §4.6 step 6).
// Tasks holds a ProcessedDatalakeCompute or ProcessedModule per submitted
// task, in submission order.
type ProcessedFullInput struct {
	ResultRoot *common.Hash
	TaskRoot   common.Hash
	Proofs     ProcessedBlockProofs
	Tasks      []any
	OutputPath string
}

// accountSlotKey identifies one (address, slot) pair for storage-proof
// de-duplication during accumulation.
type accountSlotKey struct {
	address common.Address
	slot    common.Hash
}

// txKey identifies one (block, tx_index) pair for transaction/receipt
// proof de-duplication during accumulation.
type txKey struct {
	block uint64
	index uint64
}

// compilationResults is the per-run accumulator named in spec §4.6 step 2
// (`CompilationResults`). commitResults maps a task_commitment to its
// aggregated U256 result, recorded only for pre-processable aggregations.
// preProcessable is the conjunction of every task's aggregation
// IsPreProcessable(), computed as results accumulate. Every proof set is
// kept both as a dedup index and as an insertion-ordered slice, since spec
// §4.7 requires sets to serialize "in insertion-observed order".
type compilationResults struct {
	commitResults map[common.Hash]primitives.U256

	headerOrder []uint64
	headers     map[uint64]primitives.ProcessedHeader

	mmrOrder []uint64
	mmrMetas map[uint64]primitives.MMRMeta

	accountOrder []common.Address
	accounts     map[common.Address]*primitives.ProcessedAccount

	storageOrder []accountSlotKey
	storages     map[accountSlotKey]*primitives.ProcessedStorage

	txOrder      []txKey
	transactions map[txKey]primitives.ProcessedTransaction

	receiptOrder []txKey
	receipts     map[txKey]primitives.ProcessedReceipt

	preProcessable bool
}

func newCompilationResults() *compilationResults {
	return &compilationResults{
		commitResults:  make(map[common.Hash]primitives.U256),
		headers:        make(map[uint64]primitives.ProcessedHeader),
		mmrMetas:       make(map[uint64]primitives.MMRMeta),
		accounts:       make(map[common.Address]*primitives.ProcessedAccount),
		storages:       make(map[accountSlotKey]*primitives.ProcessedStorage),
		transactions:   make(map[txKey]primitives.ProcessedTransaction),
		receipts:       make(map[txKey]primitives.ProcessedReceipt),
		preProcessable: true,
	}
}

// merge folds one datalake's fetchable.Result into the run-wide
// accumulator, de-duplicating proofs by their natural key.
func (c *compilationResults) mergeHeaders(headers map[uint64]primitives.ProcessedHeader) {
	for block, h := range headers {
		if _, ok := c.headers[block]; !ok {
			c.headerOrder = append(c.headerOrder, block)
		}
		c.headers[block] = h
	}
}

func (c *compilationResults) mergeMMRMetas(metas []primitives.MMRMeta) {
	for _, m := range metas {
		if _, ok := c.mmrMetas[m.Id]; !ok {
			c.mmrOrder = append(c.mmrOrder, m.Id)
		}
		c.mmrMetas[m.Id] = m
	}
}

func (c *compilationResults) mergeAccount(a primitives.ProcessedAccount) {
	existing, ok := c.accounts[a.Address]
	if !ok {
		cp := a
		c.accounts[a.Address] = &cp
		c.accountOrder = append(c.accountOrder, a.Address)
		return
	}
	existing.Proofs = append(existing.Proofs, a.Proofs...)
}

func (c *compilationResults) mergeStorage(s primitives.ProcessedStorage) {
	key := accountSlotKey{address: s.Address, slot: s.Slot}
	existing, ok := c.storages[key]
	if !ok {
		cp := s
		c.storages[key] = &cp
		c.storageOrder = append(c.storageOrder, key)
		return
	}
	existing.Proofs = append(existing.Proofs, s.Proofs...)
}

func (c *compilationResults) mergeTransactions(ts []primitives.ProcessedTransaction) {
	for _, t := range ts {
		key := txKey{block: t.BlockNumber, index: t.TxIndex}
		if _, ok := c.transactions[key]; !ok {
			c.txOrder = append(c.txOrder, key)
		}
		c.transactions[key] = t
	}
}

func (c *compilationResults) mergeReceipts(rs []primitives.ProcessedReceipt) {
	for _, r := range rs {
		key := txKey{block: r.BlockNumber, index: r.TxIndex}
		if _, ok := c.receipts[key]; !ok {
			c.receiptOrder = append(c.receiptOrder, key)
		}
		c.receipts[key] = r
	}
}

// blockProofs flattens the accumulator into the wire-shaped
// ProcessedBlockProofs, in insertion-observed order, grouping headers
// under the MMR identity each was proved against.
func (c *compilationResults) blockProofs() ProcessedBlockProofs {
	// A header's MMR identity isn't carried on ProcessedHeader itself; with
	// a single run-wide accumulator there is exactly one MMR epoch in the
	// common case, so headers are attached to the sole meta when there is
	// one, else left ungrouped under meta id 0.
	soleID := uint64(0)
	if len(c.mmrOrder) == 1 {
		soleID = c.mmrOrder[0]
	}
	grouped := make(map[uint64][]primitives.ProcessedHeader, len(c.mmrOrder))
	for _, block := range c.headerOrder {
		grouped[soleID] = append(grouped[soleID], c.headers[block])
	}

	mmrWithHeaders := make([]MMRWithHeaders, 0, len(c.mmrOrder))
	for _, id := range c.mmrOrder {
		mmrWithHeaders = append(mmrWithHeaders, MMRWithHeaders{MMR: c.mmrMetas[id], Headers: grouped[id]})
	}

	accounts := make([]primitives.ProcessedAccount, 0, len(c.accountOrder))
	for _, addr := range c.accountOrder {
		accounts = append(accounts, *c.accounts[addr])
	}
	storages := make([]primitives.ProcessedStorage, 0, len(c.storageOrder))
	for _, key := range c.storageOrder {
		storages = append(storages, *c.storages[key])
	}
	transactions := make([]primitives.ProcessedTransaction, 0, len(c.txOrder))
	for _, key := range c.txOrder {
		transactions = append(transactions, c.transactions[key])
	}
	receipts := make([]primitives.ProcessedReceipt, 0, len(c.receiptOrder))
	for _, key := range c.receiptOrder {
		receipts = append(receipts, c.receipts[key])
	}

	return ProcessedBlockProofs{
		MMRWithHeaders:      mmrWithHeaders,
		Accounts:            accounts,
		Storages:            storages,
		Transactions:        transactions,
		TransactionReceipts: receipts,
	}
}
