// Package codec implements the canonical byte encoding of datalakes and
// computations (spec §4.1) and the keccak commitment scheme (spec §3,
// §4.1 "Commitments").
package codec

import "errors"

var (
	ErrInvalidHex           = errors.New("codec: invalid hex")
	ErrInvalidAbiLayout     = errors.New("codec: invalid abi layout")
	ErrUnknownDatalakeKind  = errors.New("codec: unknown datalake kind")
	ErrUnknownField         = errors.New("codec: unknown field")
	ErrSampledPropertyShort = errors.New("codec: sampled property too short")
	ErrAddressLengthMismatch = errors.New("codec: address length mismatch")
	ErrSlotLengthMismatch   = errors.New("codec: slot length mismatch")
)
