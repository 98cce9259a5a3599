package primitives

import (
	"errors"
	"fmt"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
)

// TransactionField enumerates the 15 transaction fields a TransactionsInBlock
// datalake may sample (spec §3), spanning legacy/2930/1559/4844 transactions.
type TransactionField uint8

const (
	TxNonce TransactionField = iota
	TxGasPrice
	TxGasLimit
	TxTo
	TxValue
	TxInput
	TxV
	TxR
	TxS
	TxChainId
	TxAccessList
	TxMaxFeePerGas
	TxMaxPriorityFeePerGas
	TxBlobVersionedHashes
	TxMaxFeePerBlobGas
	txFieldCount
)

var txFieldNames = [...]string{
	"NONCE", "GAS_PRICE", "GAS_LIMIT", "TO", "VALUE", "INPUT", "V", "R", "S",
	"CHAIN_ID", "ACCESS_LIST", "MAX_FEE_PER_GAS", "MAX_PRIORITY_FEE_PER_GAS",
	"BLOB_VERSIONED_HASHES", "MAX_FEE_PER_BLOB_GAS",
}

func (f TransactionField) String() string {
	if int(f) < len(txFieldNames) {
		return txFieldNames[f]
	}
	return fmt.Sprintf("TRANSACTION_FIELD_%d", uint8(f))
}

func TransactionFieldVariants() []TransactionField {
	out := make([]TransactionField, txFieldCount)
	for i := range out {
		out[i] = TransactionField(i)
	}
	return out
}

func TransactionFieldFromIndex(i uint8) (TransactionField, error) {
	if i >= uint8(txFieldCount) {
		return 0, fmt.Errorf("primitives: unknown transaction field index %d", i)
	}
	return TransactionField(i), nil
}

var notRepresentableTxFields = map[TransactionField]bool{
	TxAccessList:          true,
	TxBlobVersionedHashes: true,
	TxInput:               true,
}

// errTxFieldNotApplicable is returned (wrapping ErrFieldAbsentAtBlock's sibling
// concept for tx-type applicability) when a field has no meaning for the
// transaction's own type, e.g. MaxFeePerGas on a legacy transaction.
var errTxFieldNotApplicable = errors.New("primitives: field not applicable to this transaction type")

// DecodeTransactionField extracts field from a full, type-enveloped
// transaction (EIP-2718 encoding, decoded via go-ethereum's
// Transaction.UnmarshalBinary so every legacy/2930/1559/4844 shape is
// handled uniformly), per spec §4.3.
func DecodeTransactionField(field TransactionField, txRLP []byte) (U256, error) {
	if notRepresentableTxFields[field] {
		return U256{}, fmt.Errorf("%w: %s", ErrFieldNotRepresentable, field)
	}

	var tx gethtypes.Transaction
	if err := tx.UnmarshalBinary(txRLP); err != nil {
		return U256{}, fmt.Errorf("primitives: decode transaction rlp: %w", err)
	}

	switch field {
	case TxNonce:
		return U256FromUint64(tx.Nonce()), nil
	case TxGasPrice:
		if tx.GasPrice() == nil {
			return ZeroU256, nil
		}
		return U256FromBig(tx.GasPrice())
	case TxGasLimit:
		return U256FromUint64(tx.Gas()), nil
	case TxTo:
		if tx.To() == nil {
			return ZeroU256, nil
		}
		return U256FromBytes(tx.To()[:]), nil
	case TxValue:
		if tx.Value() == nil {
			return ZeroU256, nil
		}
		return U256FromBig(tx.Value())
	case TxV:
		v, _, _ := tx.RawSignatureValues()
		if v == nil {
			return ZeroU256, nil
		}
		return U256FromBig(v)
	case TxR:
		_, r, _ := tx.RawSignatureValues()
		if r == nil {
			return ZeroU256, nil
		}
		return U256FromBig(r)
	case TxS:
		_, _, s := tx.RawSignatureValues()
		if s == nil {
			return ZeroU256, nil
		}
		return U256FromBig(s)
	case TxChainId:
		if tx.ChainId() == nil {
			return ZeroU256, nil
		}
		return U256FromBig(tx.ChainId())
	case TxMaxPriorityFeePerGas:
		if tx.Type() == gethtypes.LegacyTxType || tx.Type() == gethtypes.AccessListTxType {
			return U256{}, fmt.Errorf("%w: %s on tx type %d", errTxFieldNotApplicable, field, tx.Type())
		}
		return U256FromBig(tx.GasTipCap())
	case TxMaxFeePerGas:
		if tx.Type() == gethtypes.LegacyTxType || tx.Type() == gethtypes.AccessListTxType {
			return U256{}, fmt.Errorf("%w: %s on tx type %d", errTxFieldNotApplicable, field, tx.Type())
		}
		return U256FromBig(tx.GasFeeCap())
	case TxMaxFeePerBlobGas:
		if tx.Type() != gethtypes.BlobTxType {
			return U256{}, fmt.Errorf("%w: %s on tx type %d", errTxFieldNotApplicable, field, tx.Type())
		}
		if tx.BlobGasFeeCap() == nil {
			return ZeroU256, nil
		}
		return U256FromBig(tx.BlobGasFeeCap())
	default:
		return U256{}, fmt.Errorf("primitives: unhandled transaction field %s", field)
	}
}
