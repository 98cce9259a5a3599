package primitives

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
)

// AccountField enumerates the 4 account fields a BlockSampled datalake may
// sample (spec §3).
type AccountField uint8

const (
	AccountNonce AccountField = iota
	AccountBalance
	AccountStorageRoot
	AccountCodeHash
	accountFieldCount
)

var accountFieldNames = [...]string{"NONCE", "BALANCE", "STORAGE_ROOT", "CODE_HASH"}

func (f AccountField) String() string {
	if int(f) < len(accountFieldNames) {
		return accountFieldNames[f]
	}
	return fmt.Sprintf("ACCOUNT_FIELD_%d", uint8(f))
}

func AccountFieldVariants() []AccountField {
	out := make([]AccountField, accountFieldCount)
	for i := range out {
		out[i] = AccountField(i)
	}
	return out
}

func AccountFieldFromIndex(i uint8) (AccountField, error) {
	if i >= uint8(accountFieldCount) {
		return 0, fmt.Errorf("primitives: unknown account field index %d", i)
	}
	return AccountField(i), nil
}

// rlpAccount mirrors the canonical 4-element Ethereum account encoding:
// [nonce, balance, storageRoot, codeHash].
type rlpAccount struct {
	Nonce       uint64
	Balance     *big.Int
	StorageRoot [32]byte
	CodeHash    []byte
}

// DecodeAccountField extracts field from the RLP encoding of an account leaf
// value (the 4-element [nonce, balance, storageRoot, codeHash] list) per
// spec §4.3.
func DecodeAccountField(field AccountField, accountRLP []byte) (U256, error) {
	var raw rlpAccount
	if err := rlp.DecodeBytes(accountRLP, &raw); err != nil {
		return U256{}, fmt.Errorf("primitives: decode account rlp: %w", err)
	}

	switch field {
	case AccountNonce:
		return U256FromUint64(raw.Nonce), nil
	case AccountBalance:
		if raw.Balance == nil {
			return ZeroU256, nil
		}
		return U256FromBig(raw.Balance)
	case AccountStorageRoot:
		return U256FromBytes(raw.StorageRoot[:]), nil
	case AccountCodeHash:
		return U256FromBytes(raw.CodeHash), nil
	default:
		return U256{}, fmt.Errorf("primitives: unhandled account field %s", field)
	}
}
