package primitives

import "github.com/ethereum/go-ethereum/common"

// MMRMeta identifies the Merkle Mountain Range accumulator a batch of
// header proofs was drawn from (spec §3, §4.4 "MMR identity").
type MMRMeta struct {
	Id      uint64
	Root    common.Hash
	Size    uint64
	Peaks   []common.Hash
	ChainId ChainId
}

// ProcessedHeader is a header together with its MMR inclusion proof
// (spec §3).
type ProcessedHeader struct {
	BlockNumber   uint64
	RLP           []byte
	MMRLeafIndex  uint64
	MMRSiblings   []common.Hash
}

// ProcessedMPTProof is one Merkle-Patricia inclusion proof anchored at a
// given block's state root (spec §3).
type ProcessedMPTProof struct {
	BlockNumber uint64
	Nodes       [][]byte
}

// ProcessedAccount collects every per-block account proof fetched for a
// single address (spec §3). Sets are deduplicated by address on insertion.
type ProcessedAccount struct {
	Address common.Address
	Proofs  []ProcessedMPTProof
}

// ProcessedStorage collects every per-block storage proof fetched for a
// single (address, slot) pair (spec §3). Sets are deduplicated by
// (address, slot) on insertion.
type ProcessedStorage struct {
	Address common.Address
	Slot    common.Hash
	Proofs  []ProcessedMPTProof
}

// ProcessedTransaction is a single transaction's trie-inclusion proof
// (spec §3). Sets are deduplicated by (block, tx_index) on insertion.
type ProcessedTransaction struct {
	BlockNumber uint64
	TxIndex     uint64
	ProofNodes  [][]byte
}

// ProcessedReceipt is a single receipt's trie-inclusion proof (spec §3).
// Sets are deduplicated by (block, tx_index) on insertion.
type ProcessedReceipt struct {
	BlockNumber uint64
	TxIndex     uint64
	ProofNodes  [][]byte
}
