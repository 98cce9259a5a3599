package primitives

import (
	"fmt"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TransactionReceiptField enumerates the 4 receipt fields a
// TransactionsInBlock datalake may sample (spec §3).
type TransactionReceiptField uint8

const (
	ReceiptSuccess TransactionReceiptField = iota
	ReceiptCumulativeGasUsed
	ReceiptLogs
	ReceiptBloom
	receiptFieldCount
)

var receiptFieldNames = [...]string{"SUCCESS", "CUMULATIVE_GAS_USED", "LOGS", "BLOOM"}

func (f TransactionReceiptField) String() string {
	if int(f) < len(receiptFieldNames) {
		return receiptFieldNames[f]
	}
	return fmt.Sprintf("RECEIPT_FIELD_%d", uint8(f))
}

func TransactionReceiptFieldVariants() []TransactionReceiptField {
	out := make([]TransactionReceiptField, receiptFieldCount)
	for i := range out {
		out[i] = TransactionReceiptField(i)
	}
	return out
}

func TransactionReceiptFieldFromIndex(i uint8) (TransactionReceiptField, error) {
	if i >= uint8(receiptFieldCount) {
		return 0, fmt.Errorf("primitives: unknown receipt field index %d", i)
	}
	return TransactionReceiptField(i), nil
}

// notRepresentableReceiptFields marks Logs (variable-length) and Bloom
// (a fixed-width 2048-bit filter, wider than any U256) as non-representable,
// per spec §4.3.
var notRepresentableReceiptFields = map[TransactionReceiptField]bool{
	ReceiptLogs:  true,
	ReceiptBloom: true,
}

// DecodeReceiptField extracts field from a full, type-enveloped receipt
// (EIP-2718 encoding via go-ethereum's Receipt.UnmarshalBinary), per spec
// §4.3.
func DecodeReceiptField(field TransactionReceiptField, receiptRLP []byte) (U256, error) {
	if notRepresentableReceiptFields[field] {
		return U256{}, fmt.Errorf("%w: %s", ErrFieldNotRepresentable, field)
	}

	var r gethtypes.Receipt
	if err := r.UnmarshalBinary(receiptRLP); err != nil {
		return U256{}, fmt.Errorf("primitives: decode receipt rlp: %w", err)
	}

	switch field {
	case ReceiptSuccess:
		if r.Status == gethtypes.ReceiptStatusSuccessful {
			return U256FromUint64(1), nil
		}
		return ZeroU256, nil
	case ReceiptCumulativeGasUsed:
		return U256FromUint64(r.CumulativeGasUsed), nil
	default:
		return U256{}, fmt.Errorf("primitives: unhandled receipt field %s", field)
	}
}
