package codec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/primitives"
)

// EncodeDatalake dispatches to the variant-specific encoder and ABI-encodes
// the result (spec §4.1).
func EncodeDatalake(d primitives.Datalake) ([]byte, error) {
	switch v := d.(type) {
	case primitives.BlockSampledDatalake:
		return EncodeBlockSampled(v)
	case primitives.TransactionsInBlockDatalake:
		return EncodeTransactionsInBlock(v)
	default:
		return nil, fmt.Errorf("codec: unknown datalake type %T", d)
	}
}

// DecodeDatalake peeks the first 32-byte word of payload and switches on
// its low byte (the datalake_code) to select the variant decoder, per
// spec §4.1 "Decoder dispatch".
func DecodeDatalake(payload []byte) (primitives.Datalake, error) {
	if len(payload) < 32 {
		return nil, fmt.Errorf("%w: payload shorter than one word", ErrInvalidAbiLayout)
	}
	code := payload[31]
	switch primitives.DatalakeKind(code) {
	case primitives.DatalakeKindBlockSampled:
		return DecodeBlockSampled(payload)
	case primitives.DatalakeKindTransactionsInBlock:
		return DecodeTransactionsInBlock(payload)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownDatalakeKind, code)
	}
}

// EncodeSampledProperty implements the `sampled_property` byte layout for
// BlockSampled (spec §4.1): [kind] followed by the kind-specific payload.
func EncodeSampledProperty(p primitives.SampledProperty) ([]byte, error) {
	switch v := p.(type) {
	case primitives.HeaderSampledProperty:
		return append([]byte{byte(primitives.SampledPropertyHeader)}, byte(v.Field)), nil
	case primitives.AccountSampledProperty:
		buf := make([]byte, 0, 1+20+1)
		buf = append(buf, byte(primitives.SampledPropertyAccount))
		buf = append(buf, v.Address[:]...)
		buf = append(buf, byte(v.Field))
		return buf, nil
	case primitives.StorageSampledProperty:
		buf := make([]byte, 0, 1+20+32)
		buf = append(buf, byte(primitives.SampledPropertyStorage))
		buf = append(buf, v.Address[:]...)
		buf = append(buf, v.Slot[:]...)
		return buf, nil
	default:
		return nil, fmt.Errorf("codec: unknown sampled property type %T", p)
	}
}

// DecodeSampledProperty is the inverse of EncodeSampledProperty.
func DecodeSampledProperty(b []byte) (primitives.SampledProperty, error) {
	if len(b) < 1 {
		return nil, ErrSampledPropertyShort
	}
	kind := primitives.SampledPropertyKind(b[0])
	rest := b[1:]
	switch kind {
	case primitives.SampledPropertyHeader:
		if len(rest) < 1 {
			return nil, ErrSampledPropertyShort
		}
		field, err := primitives.HeaderFieldFromIndex(rest[0])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return primitives.HeaderSampledProperty{Field: field}, nil
	case primitives.SampledPropertyAccount:
		if len(rest) < 21 {
			return nil, ErrSampledPropertyShort
		}
		var addr common.Address
		copy(addr[:], rest[:20])
		field, err := primitives.AccountFieldFromIndex(rest[20])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return primitives.AccountSampledProperty{Address: addr, Field: field}, nil
	case primitives.SampledPropertyStorage:
		if len(rest) < 52 {
			return nil, ErrSampledPropertyShort
		}
		var addr common.Address
		copy(addr[:], rest[:20])
		var slot common.Hash
		copy(slot[:], rest[20:52])
		return primitives.StorageSampledProperty{Address: addr, Slot: slot}, nil
	default:
		return nil, fmt.Errorf("%w: sampled property kind %d", ErrUnknownField, kind)
	}
}

// EncodeBlockSampled ABI-encodes a BlockSampledDatalake as the 5-tuple
// (datalake_code=0, block_range_start, block_range_end, increment,
// sampled_property) per spec §4.1.
func EncodeBlockSampled(d primitives.BlockSampledDatalake) ([]byte, error) {
	prop, err := EncodeSampledProperty(d.SampledProperty)
	if err != nil {
		return nil, err
	}
	packed, err := blockSampledArgs.Pack(
		big.NewInt(int64(primitives.DatalakeKindBlockSampled)),
		new(big.Int).SetUint64(d.BlockRangeStart),
		new(big.Int).SetUint64(d.BlockRangeEnd),
		new(big.Int).SetUint64(d.Increment),
		prop,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	return packed, nil
}

// DecodeBlockSampled is the inverse of EncodeBlockSampled.
func DecodeBlockSampled(payload []byte) (primitives.BlockSampledDatalake, error) {
	values, err := blockSampledArgs.Unpack(payload)
	if err != nil {
		return primitives.BlockSampledDatalake{}, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	if len(values) != 5 {
		return primitives.BlockSampledDatalake{}, ErrInvalidAbiLayout
	}
	start := values[1].(*big.Int)
	end := values[2].(*big.Int)
	incr := values[3].(*big.Int)
	propBytes := values[4].([]byte)

	prop, err := DecodeSampledProperty(propBytes)
	if err != nil {
		return primitives.BlockSampledDatalake{}, err
	}

	return primitives.BlockSampledDatalake{
		BlockRangeStart: start.Uint64(),
		BlockRangeEnd:   end.Uint64(),
		Increment:       incr.Uint64(),
		SampledProperty: prop,
	}, nil
}

// EncodeTxSampledProperty implements sampled_property for
// TransactionsInBlock (spec §4.1): [tag, field_index].
func EncodeTxSampledProperty(p primitives.TxSampledProperty) ([]byte, error) {
	switch v := p.(type) {
	case primitives.TransactionSampledProperty:
		return []byte{byte(primitives.TxSampledPropertyTransaction), byte(v.Field)}, nil
	case primitives.ReceiptSampledProperty:
		return []byte{byte(primitives.TxSampledPropertyReceipt), byte(v.Field)}, nil
	default:
		return nil, fmt.Errorf("codec: unknown tx sampled property type %T", p)
	}
}

// DecodeTxSampledProperty is the inverse of EncodeTxSampledProperty.
func DecodeTxSampledProperty(b []byte) (primitives.TxSampledProperty, error) {
	if len(b) < 2 {
		return nil, ErrSampledPropertyShort
	}
	switch primitives.TxSampledPropertyKind(b[0]) {
	case primitives.TxSampledPropertyTransaction:
		field, err := primitives.TransactionFieldFromIndex(b[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return primitives.TransactionSampledProperty{Field: field}, nil
	case primitives.TxSampledPropertyReceipt:
		field, err := primitives.TransactionReceiptFieldFromIndex(b[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownField, err)
		}
		return primitives.ReceiptSampledProperty{Field: field}, nil
	default:
		return nil, fmt.Errorf("%w: tx sampled property kind %d", ErrUnknownField, b[0])
	}
}

// EncodeTransactionsInBlock ABI-encodes a TransactionsInBlockDatalake as
// the 7-tuple (datalake_code=1, target_block, start_index, end_index,
// increment, included_types, sampled_property) per spec §4.1.
func EncodeTransactionsInBlock(d primitives.TransactionsInBlockDatalake) ([]byte, error) {
	prop, err := EncodeTxSampledProperty(d.SampledProperty)
	if err != nil {
		return nil, err
	}
	mask := []byte{
		boolByte(d.IncludedTypes[0]), boolByte(d.IncludedTypes[1]),
		boolByte(d.IncludedTypes[2]), boolByte(d.IncludedTypes[3]),
	}
	packed, err := transactionsInBlockArgs.Pack(
		big.NewInt(int64(primitives.DatalakeKindTransactionsInBlock)),
		new(big.Int).SetUint64(d.TargetBlock),
		new(big.Int).SetUint64(d.StartIndex),
		new(big.Int).SetUint64(d.EndIndex),
		new(big.Int).SetUint64(d.Increment),
		mask,
		prop,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	return packed, nil
}

// DecodeTransactionsInBlock is the inverse of EncodeTransactionsInBlock.
func DecodeTransactionsInBlock(payload []byte) (primitives.TransactionsInBlockDatalake, error) {
	values, err := transactionsInBlockArgs.Unpack(payload)
	if err != nil {
		return primitives.TransactionsInBlockDatalake{}, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	if len(values) != 7 {
		return primitives.TransactionsInBlockDatalake{}, ErrInvalidAbiLayout
	}
	target := values[1].(*big.Int)
	start := values[2].(*big.Int)
	end := values[3].(*big.Int)
	incr := values[4].(*big.Int)
	maskBytes := values[5].([]byte)
	propBytes := values[6].([]byte)

	if len(maskBytes) != 4 {
		return primitives.TransactionsInBlockDatalake{}, ErrInvalidAbiLayout
	}
	var mask primitives.IncludedTypesMask
	for i := 0; i < 4; i++ {
		mask[i] = maskBytes[i] != 0
	}

	prop, err := DecodeTxSampledProperty(propBytes)
	if err != nil {
		return primitives.TransactionsInBlockDatalake{}, err
	}

	return primitives.TransactionsInBlockDatalake{
		TargetBlock:   target.Uint64(),
		StartIndex:    start.Uint64(),
		EndIndex:      end.Uint64(),
		Increment:     incr.Uint64(),
		IncludedTypes: mask,
		SampledProperty: prop,
	}, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// EncodeBatch ABI-encodes a bytes[] array of per-item encoded payloads,
// per spec §4.1 "Batch encoding".
func EncodeBatch(items [][]byte) ([]byte, error) {
	packed, err := batchArgs.Pack(items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	return packed, nil
}

// DecodeBatch is the inverse of EncodeBatch.
func DecodeBatch(payload []byte) ([][]byte, error) {
	values, err := batchArgs.Unpack(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	items, ok := values[0].([][]byte)
	if !ok {
		return nil, ErrInvalidAbiLayout
	}
	return items, nil
}
