package primitives

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// DatalakeKind is the wire discriminant for the Datalake tagged union
// (spec §3, §4.1 "datalake_code").
type DatalakeKind uint8

const (
	DatalakeKindBlockSampled       DatalakeKind = 0
	DatalakeKindTransactionsInBlock DatalakeKind = 1
)

// Datalake is the two-variant tagged union of sampleable historical state
// (spec §3). Implementations: BlockSampledDatalake, TransactionsInBlockDatalake.
type Datalake interface {
	Kind() DatalakeKind
}

// SampledPropertyKind is the wire discriminant for BlockSampled's
// sampled_property (spec §4.1).
type SampledPropertyKind uint8

const (
	SampledPropertyHeader  SampledPropertyKind = 1
	SampledPropertyAccount SampledPropertyKind = 2
	SampledPropertyStorage SampledPropertyKind = 3
)

// SampledProperty is the sum type sampled per-block by a BlockSampled
// datalake. Do not collapse to a string at this layer (spec §9): keep it
// typed and stringify only at the CLI/JSON boundary.
type SampledProperty interface {
	Kind() SampledPropertyKind
}

type HeaderSampledProperty struct {
	Field HeaderField
}

func (HeaderSampledProperty) Kind() SampledPropertyKind { return SampledPropertyHeader }

type AccountSampledProperty struct {
	Address common.Address
	Field   AccountField
}

func (AccountSampledProperty) Kind() SampledPropertyKind { return SampledPropertyAccount }

// StorageSampledProperty identifies a single storage slot. The slot is kept
// as a 32-byte B256 throughout, per the Open Question (ii) resolution in
// spec §9 / SPEC_FULL §5: conversion to U256 happens only once the *value*
// is decoded, never for the key.
type StorageSampledProperty struct {
	Address common.Address
	Slot    common.Hash
}

func (StorageSampledProperty) Kind() SampledPropertyKind { return SampledPropertyStorage }

// BlockSampledDatalake samples one property across a range of blocks
// (spec §3).
type BlockSampledDatalake struct {
	ChainId          ChainId
	BlockRangeStart  uint64
	BlockRangeEnd    uint64
	Increment        uint64
	SampledProperty  SampledProperty
}

func (BlockSampledDatalake) Kind() DatalakeKind { return DatalakeKindBlockSampled }

// BlockNumbers returns the ascending sequence start, start+increment, ...,
// <= end, or ErrDatalakeMalformed for any degenerate range (spec §4.5).
func (d BlockSampledDatalake) BlockNumbers() ([]uint64, error) {
	if d.BlockRangeStart > d.BlockRangeEnd {
		return nil, fmt.Errorf("%w: block_range_start %d > block_range_end %d", ErrDatalakeMalformed, d.BlockRangeStart, d.BlockRangeEnd)
	}
	if d.Increment == 0 {
		return nil, fmt.Errorf("%w: increment must be non-zero", ErrDatalakeMalformed)
	}
	var out []uint64
	for b := d.BlockRangeStart; b <= d.BlockRangeEnd; b += d.Increment {
		out = append(out, b)
	}
	return out, nil
}

// TxSampledPropertyKind is the wire discriminant for TransactionsInBlock's
// sampled_property (spec §4.1).
type TxSampledPropertyKind uint8

const (
	TxSampledPropertyTransaction TxSampledPropertyKind = 1
	TxSampledPropertyReceipt     TxSampledPropertyKind = 2
)

type TxSampledProperty interface {
	Kind() TxSampledPropertyKind
}

type TransactionSampledProperty struct {
	Field TransactionField
}

func (TransactionSampledProperty) Kind() TxSampledPropertyKind { return TxSampledPropertyTransaction }

type ReceiptSampledProperty struct {
	Field TransactionReceiptField
}

func (ReceiptSampledProperty) Kind() TxSampledPropertyKind { return TxSampledPropertyReceipt }

// IncludedTypesMask selects which EIP-2718 transaction types count toward
// start/end_index: [legacy, eip2930, eip1559, eip4844] (spec §3, §4.1).
type IncludedTypesMask [4]bool

// Includes reports whether txType (the EIP-2718 type byte, 0 for legacy)
// is selected by the mask.
func (m IncludedTypesMask) Includes(txType uint8) bool {
	switch txType {
	case 0:
		return m[0]
	case 1:
		return m[1]
	case 2:
		return m[2]
	case 3:
		return m[3]
	default:
		return false
	}
}

// AnySet reports whether at least one type is selected; an all-false mask
// is malformed per spec §4.5.
func (m IncludedTypesMask) AnySet() bool {
	return m[0] || m[1] || m[2] || m[3]
}

// TransactionsInBlockDatalake samples one property across a window of a
// single block's transaction list (spec §3).
type TransactionsInBlockDatalake struct {
	ChainId          ChainId
	TargetBlock      uint64
	SampledProperty  TxSampledProperty
	StartIndex       uint64
	EndIndex         uint64
	Increment        uint64
	IncludedTypes    IncludedTypesMask
}

func (TransactionsInBlockDatalake) Kind() DatalakeKind { return DatalakeKindTransactionsInBlock }

// Validate checks the edge cases named in spec §4.5: start > end, empty
// included-types mask, increment = 0.
func (d TransactionsInBlockDatalake) Validate() error {
	if d.StartIndex > d.EndIndex {
		return fmt.Errorf("%w: start_index %d > end_index %d", ErrDatalakeMalformed, d.StartIndex, d.EndIndex)
	}
	if d.Increment == 0 {
		return fmt.Errorf("%w: increment must be non-zero", ErrDatalakeMalformed)
	}
	if !d.IncludedTypes.AnySet() {
		return fmt.Errorf("%w: included_types mask selects no transaction type", ErrDatalakeMalformed)
	}
	return nil
}
