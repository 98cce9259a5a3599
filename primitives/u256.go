package primitives

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// U256 is a native 256-bit unsigned integer, the value type carried by
// every field decoder, aggregation, and commitment input in this package.
type U256 struct {
	v uint256.Int
}

// ErrU256Overflow is returned by checked arithmetic that would wrap past
// 2^256-1.
var ErrU256Overflow = fmt.Errorf("primitives: u256 overflow")

// ZeroU256 is the additive identity.
var ZeroU256 = U256{}

// U256FromUint64 builds a U256 from a native uint64.
func U256FromUint64(x uint64) U256 {
	var u U256
	u.v.SetUint64(x)
	return u
}

// U256FromBig converts a non-negative big.Int. Values outside [0, 2^256)
// are rejected.
func U256FromBig(x *big.Int) (U256, error) {
	if x.Sign() < 0 {
		return U256{}, fmt.Errorf("primitives: negative value %s cannot be a U256", x)
	}
	var u U256
	overflow := u.v.SetFromBig(x)
	if overflow {
		return U256{}, ErrU256Overflow
	}
	return u, nil
}

// U256FromBytes interprets b as a big-endian unsigned integer, zero-padded
// on the left if shorter than 32 bytes. Used for zero-extending fixed-width
// hash/address fields per spec §4.3.
func U256FromBytes(b []byte) U256 {
	var u U256
	u.v.SetBytes(b)
	return u
}

// Bytes32 returns the big-endian 32-byte representation.
func (u U256) Bytes32() [32]byte {
	return u.v.Bytes32()
}

// Big returns the value as a math/big.Int.
func (u U256) Big() *big.Int {
	return u.v.ToBig()
}

// String renders the decimal form, the canonical JSON representation for
// U256 values in the general (non-Cairo) bundle output.
func (u U256) String() string {
	return u.v.Dec()
}

// Cmp returns -1, 0, or 1 as u is less than, equal to, or greater than o.
func (u U256) Cmp(o U256) int {
	return u.v.Cmp(&o.v)
}

// Eq reports whether u and o hold the same value.
func (u U256) Eq(o U256) bool {
	return u.v.Eq(&o.v)
}

// IsZero reports whether u is the zero value.
func (u U256) IsZero() bool {
	return u.v.IsZero()
}

// AddChecked returns a+b, failing with ErrU256Overflow instead of wrapping.
// This backs the SUM aggregation's "overflow is fatal" rule (spec §4.2, §8.3).
func AddChecked(a, b U256) (U256, error) {
	var r U256
	overflow := r.v.AddOverflow(&a.v, &b.v)
	if overflow {
		return U256{}, ErrU256Overflow
	}
	return r, nil
}

// DivMod returns (quotient, remainder) of a/b. b must be non-zero.
func DivMod(a, b U256) (U256, U256) {
	var q, m U256
	q.v.DivMod(&a.v, &b.v, &m.v)
	return q, m
}

// Half returns floor(u/2).
func (u U256) Half() U256 {
	var r U256
	r.v.Rsh(&u.v, 1)
	return r
}

// IsEven reports whether the low bit of u is zero.
func (u U256) IsEven() bool {
	return u.v[0]&1 == 0
}

// AddOne returns u+1. Only used post-division in banker's rounding, where
// overflow cannot occur for any divisor-bounded quotient derived from a
// checked sum.
func (u U256) AddOne() U256 {
	one := U256FromUint64(1)
	var r U256
	r.v.Add(&u.v, &one.v)
	return r
}

// Uint256Split is the (high, low) 128-bit-limb split required by the
// Cairo-format bundle serializer (spec §3, §4.7) and by commitment byte
// layout (each commitment input word is a 32-byte-aligned big-endian value,
// i.e. effectively a U256 with a zero high limb for small scalars).
type Uint256Split struct {
	Low  U256
	High U256
}

// Split divides u into its big-endian low and high 128-bit halves.
func (u U256) Split() Uint256Split {
	b := u.Bytes32()
	var high, low [32]byte
	copy(high[16:], b[0:16])
	copy(low[16:], b[16:32])
	return Uint256Split{
		Low:  U256FromBytes(low[:]),
		High: U256FromBytes(high[:]),
	}
}

// Combine reassembles a U256 from its high/low halves. Combine(Split(x)) ==
// x is the round-trip invariant required by spec §8.1.
func (s Uint256Split) Combine() U256 {
	var buf [32]byte
	hb := s.High.Bytes32()
	lb := s.Low.Bytes32()
	copy(buf[0:16], hb[16:32])
	copy(buf[16:32], lb[16:32])
	return U256FromBytes(buf[:])
}
