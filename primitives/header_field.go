package primitives

import (
	"errors"
	"fmt"

	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
)

// HeaderField enumerates the 20 header fields a BlockSampled datalake may
// sample (spec §3). Index is the stable on-wire ordinal; Name is the
// UPPER_SNAKE CLI-facing spelling.
type HeaderField uint8

const (
	HeaderParentHash HeaderField = iota
	HeaderUncleHash
	HeaderCoinbase
	HeaderStateRoot
	HeaderTransactionsRoot
	HeaderReceiptsRoot
	HeaderLogsBloom
	HeaderDifficulty
	HeaderNumber
	HeaderGasLimit
	HeaderGasUsed
	HeaderTimestamp
	HeaderExtraData
	HeaderMixHash
	HeaderNonce
	HeaderBaseFeePerGas
	HeaderWithdrawalsRoot
	HeaderBlobGasUsed
	HeaderExcessBlobGas
	HeaderParentBeaconBlockRoot
	headerFieldCount
)

var headerFieldNames = [...]string{
	"PARENT_HASH", "UNCLE_HASH", "COINBASE", "STATE_ROOT", "TRANSACTIONS_ROOT",
	"RECEIPTS_ROOT", "LOGS_BLOOM", "DIFFICULTY", "NUMBER", "GAS_LIMIT",
	"GAS_USED", "TIMESTAMP", "EXTRA_DATA", "MIX_HASH", "NONCE",
	"BASE_FEE_PER_GAS", "WITHDRAWALS_ROOT", "BLOB_GAS_USED", "EXCESS_BLOB_GAS",
	"PARENT_BEACON_BLOCK_ROOT",
}

func (f HeaderField) String() string {
	if int(f) < len(headerFieldNames) {
		return headerFieldNames[f]
	}
	return fmt.Sprintf("HEADER_FIELD_%d", uint8(f))
}

// HeaderFieldVariants enumerates every HeaderField in wire-index order.
func HeaderFieldVariants() []HeaderField {
	out := make([]HeaderField, headerFieldCount)
	for i := range out {
		out[i] = HeaderField(i)
	}
	return out
}

func HeaderFieldFromIndex(i uint8) (HeaderField, error) {
	if i >= uint8(headerFieldCount) {
		return 0, fmt.Errorf("primitives: unknown header field index %d", i)
	}
	return HeaderField(i), nil
}

// optionalHeaderFields marks the five post-London/post-Cancun fields that
// may be legitimately absent on older blocks (spec §4.3, §9 Open Question iv).
var optionalHeaderFields = map[HeaderField]bool{
	HeaderBaseFeePerGas:         true,
	HeaderWithdrawalsRoot:       true,
	HeaderBlobGasUsed:           true,
	HeaderExcessBlobGas:         true,
	HeaderParentBeaconBlockRoot: true,
}

// notRepresentableHeaderFields marks fields that cannot be squeezed into a
// single U256 (spec §4.3).
// notRepresentableHeaderFields marks fields whose RLP content cannot be
// squeezed into a single 256-bit word: ExtraData is variable-length, and
// LogsBloom is a fixed-width 2048-bit filter, wider than any U256.
var notRepresentableHeaderFields = map[HeaderField]bool{
	HeaderExtraData: true,
	HeaderLogsBloom: true,
}

// ErrFieldNotRepresentable is returned for a field whose RLP content has no
// single-U256 representation (spec §4.3). It is a user-input error: a
// request that samples such a field is malformed, not a runtime failure.
var ErrFieldNotRepresentable = errors.New("primitives: field not representable as u256")

// ErrFieldAbsentAtBlock is returned when an optional post-fork field is
// requested on a block where the fork had not yet activated (spec §4.3,
// §9 Open Question iv: this must be a typed error, never a panic).
var ErrFieldAbsentAtBlock = errors.New("primitives: field absent at this block")

// DecodeHeaderField extracts field from the RLP encoding of a full block
// header and returns it as a zero-extended or numeric U256, per spec §4.3.
func DecodeHeaderField(field HeaderField, headerRLP []byte) (U256, error) {
	if notRepresentableHeaderFields[field] {
		return U256{}, fmt.Errorf("%w: %s", ErrFieldNotRepresentable, field)
	}

	var h gethtypes.Header
	if err := rlp.DecodeBytes(headerRLP, &h); err != nil {
		return U256{}, fmt.Errorf("primitives: decode header rlp: %w", err)
	}

	if optionalHeaderFields[field] {
		if absent := headerFieldAbsent(field, &h); absent {
			return U256{}, fmt.Errorf("%w: %s", ErrFieldAbsentAtBlock, field)
		}
	}

	switch field {
	case HeaderParentHash:
		return U256FromBytes(h.ParentHash[:]), nil
	case HeaderUncleHash:
		return U256FromBytes(h.UncleHash[:]), nil
	case HeaderCoinbase:
		return U256FromBytes(h.Coinbase[:]), nil
	case HeaderStateRoot:
		return U256FromBytes(h.Root[:]), nil
	case HeaderTransactionsRoot:
		return U256FromBytes(h.TxHash[:]), nil
	case HeaderReceiptsRoot:
		return U256FromBytes(h.ReceiptHash[:]), nil
	case HeaderDifficulty:
		if h.Difficulty == nil {
			return ZeroU256, nil
		}
		return U256FromBig(h.Difficulty)
	case HeaderNumber:
		if h.Number == nil {
			return ZeroU256, nil
		}
		return U256FromBig(h.Number)
	case HeaderGasLimit:
		return U256FromUint64(h.GasLimit), nil
	case HeaderGasUsed:
		return U256FromUint64(h.GasUsed), nil
	case HeaderTimestamp:
		return U256FromUint64(h.Time), nil
	case HeaderMixHash:
		return U256FromBytes(h.MixDigest[:]), nil
	case HeaderNonce:
		return U256FromBytes(h.Nonce[:]), nil
	case HeaderBaseFeePerGas:
		return U256FromBig(h.BaseFee)
	case HeaderWithdrawalsRoot:
		return U256FromBytes(h.WithdrawalsHash[:]), nil
	case HeaderBlobGasUsed:
		return U256FromUint64(*h.BlobGasUsed), nil
	case HeaderExcessBlobGas:
		return U256FromUint64(*h.ExcessBlobGas), nil
	case HeaderParentBeaconBlockRoot:
		return U256FromBytes(h.ParentBeaconRoot[:]), nil
	default:
		return U256{}, fmt.Errorf("primitives: unhandled header field %s", field)
	}
}

func headerFieldAbsent(field HeaderField, h *gethtypes.Header) bool {
	switch field {
	case HeaderBaseFeePerGas:
		return h.BaseFee == nil
	case HeaderWithdrawalsRoot:
		return h.WithdrawalsHash == nil
	case HeaderBlobGasUsed:
		return h.BlobGasUsed == nil
	case HeaderExcessBlobGas:
		return h.ExcessBlobGas == nil
	case HeaderParentBeaconBlockRoot:
		return h.ParentBeaconRoot == nil
	default:
		return false
	}
}
