package provider

import (
	"fmt"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/herodotus/hdp-go/primitives"
)

// FetchKeyKind is the wire discriminant for FetchKeyEnvelope (spec §4.4
// "Key categorization").
type FetchKeyKind uint8

const (
	FetchKeyHeader FetchKeyKind = iota
	FetchKeyAccount
	FetchKeyStorage
	FetchKeyTx
	FetchKeyTxReceipt
)

func (k FetchKeyKind) String() string {
	switch k {
	case FetchKeyHeader:
		return "header"
	case FetchKeyAccount:
		return "account"
	case FetchKeyStorage:
		return "storage"
	case FetchKeyTx:
		return "tx"
	case FetchKeyTxReceipt:
		return "tx_receipt"
	default:
		return "unknown"
	}
}

// FetchKeyEnvelope is a single unit of proof-fetching work: one (chain,
// block, kind) tuple, plus the address/slot/index fields relevant to its
// kind. Grouped and deduplicated by Categorize before dispatch to the
// sub-providers (spec §4.4, SPEC_FULL §7 grounded on
// hdp/src/provider/key.rs + envelope/evm/from_keys.rs).
type FetchKeyEnvelope struct {
	Kind    FetchKeyKind
	Chain   primitives.ChainId
	Block   uint64
	Address common.Address
	Slot    common.Hash
	TxIndex uint64
}

func (k FetchKeyEnvelope) String() string {
	switch k.Kind {
	case FetchKeyHeader:
		return fmt.Sprintf("header(chain=%s,block=%d)", k.Chain, k.Block)
	case FetchKeyAccount:
		return fmt.Sprintf("account(chain=%s,block=%d,addr=%s)", k.Chain, k.Block, k.Address)
	case FetchKeyStorage:
		return fmt.Sprintf("storage(chain=%s,block=%d,addr=%s,slot=%s)", k.Chain, k.Block, k.Address, k.Slot)
	case FetchKeyTx:
		return fmt.Sprintf("tx(chain=%s,block=%d,index=%d)", k.Chain, k.Block, k.TxIndex)
	case FetchKeyTxReceipt:
		return fmt.Sprintf("tx_receipt(chain=%s,block=%d,index=%d)", k.Chain, k.Block, k.TxIndex)
	default:
		return "unknown-key"
	}
}

// accountSlotKey identifies one (address, slot) pair for storage grouping.
type accountSlotKey struct {
	Address common.Address
	Slot    common.Hash
}

// ChainKeys is the per-chain grouping of categorized fetch keys: blocks
// needing a header+MMR proof, addresses needing account proofs (at which
// blocks), (address, slot) pairs needing storage proofs, and per-block
// transaction/receipt indices.
type ChainKeys struct {
	Chain        primitives.ChainId
	Headers      map[uint64]struct{}
	Accounts     map[common.Address]map[uint64]struct{}
	Storages     map[accountSlotKey]map[uint64]struct{}
	Transactions map[uint64]map[uint64]struct{}
	Receipts     map[uint64]map[uint64]struct{}
}

func newChainKeys(chain primitives.ChainId) *ChainKeys {
	return &ChainKeys{
		Chain:        chain,
		Headers:      make(map[uint64]struct{}),
		Accounts:     make(map[common.Address]map[uint64]struct{}),
		Storages:     make(map[accountSlotKey]map[uint64]struct{}),
		Transactions: make(map[uint64]map[uint64]struct{}),
		Receipts:     make(map[uint64]map[uint64]struct{}),
	}
}

// Categorize groups raw keys first by chain then by kind, and synthesizes
// a Header key for every (chain, block) observed in an Account, Storage,
// Tx, or TxReceipt key, per spec §4.4: "Observing an Account/Storage/
// Tx/Receipt key implies a Header key for the same (chain, block)".
func Categorize(keys []FetchKeyEnvelope) map[primitives.ChainId]*ChainKeys {
	out := make(map[primitives.ChainId]*ChainKeys)

	chainOf := func(c primitives.ChainId) *ChainKeys {
		ck, ok := out[c]
		if !ok {
			ck = newChainKeys(c)
			out[c] = ck
		}
		return ck
	}

	for _, k := range keys {
		ck := chainOf(k.Chain)
		switch k.Kind {
		case FetchKeyHeader:
			ck.Headers[k.Block] = struct{}{}

		case FetchKeyAccount:
			ck.Headers[k.Block] = struct{}{}
			if ck.Accounts[k.Address] == nil {
				ck.Accounts[k.Address] = make(map[uint64]struct{})
			}
			ck.Accounts[k.Address][k.Block] = struct{}{}

		case FetchKeyStorage:
			ck.Headers[k.Block] = struct{}{}
			sk := accountSlotKey{Address: k.Address, Slot: k.Slot}
			if ck.Storages[sk] == nil {
				ck.Storages[sk] = make(map[uint64]struct{})
			}
			ck.Storages[sk][k.Block] = struct{}{}

		case FetchKeyTx:
			ck.Headers[k.Block] = struct{}{}
			if ck.Transactions[k.Block] == nil {
				ck.Transactions[k.Block] = make(map[uint64]struct{})
			}
			ck.Transactions[k.Block][k.TxIndex] = struct{}{}

		case FetchKeyTxReceipt:
			ck.Headers[k.Block] = struct{}{}
			if ck.Receipts[k.Block] == nil {
				ck.Receipts[k.Block] = make(map[uint64]struct{})
			}
			ck.Receipts[k.Block][k.TxIndex] = struct{}{}
		}
	}

	return out
}

// SortedBlocks returns the Headers set as an ascending slice, the input
// shape the chunking logic in fetch.go expects.
func (ck *ChainKeys) SortedBlocks() []uint64 {
	blocks := make([]uint64, 0, len(ck.Headers))
	for b := range ck.Headers {
		blocks = append(blocks, b)
	}
	sort.Slice(blocks, func(i, j int) bool { return blocks[i] < blocks[j] })
	return blocks
}
