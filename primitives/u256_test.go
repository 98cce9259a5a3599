package primitives

import (
	"math/big"
	"testing"
)

func TestU256FromBigRejectsNegative(t *testing.T) {
	if _, err := U256FromBig(big.NewInt(-1)); err == nil {
		t.Error("U256FromBig(-1) = nil error, want error")
	}
}

func TestU256FromBigRejectsOverflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	if _, err := U256FromBig(tooBig); err == nil {
		t.Error("U256FromBig(2^256) = nil error, want ErrU256Overflow")
	}
}

func TestU256BytesZeroExtends(t *testing.T) {
	u := U256FromBytes([]byte{0x01, 0x02})
	b := u.Bytes32()
	for i := 0; i < 30; i++ {
		if b[i] != 0 {
			t.Fatalf("Bytes32()[%d] = %d, want 0", i, b[i])
		}
	}
	if b[30] != 0x01 || b[31] != 0x02 {
		t.Errorf("Bytes32() tail = %x, want 0102", b[30:32])
	}
}

func TestAddCheckedOverflows(t *testing.T) {
	max := U256FromBytes(bytesOfOnes(32))
	one := U256FromUint64(1)
	if _, err := AddChecked(max, one); err == nil {
		t.Error("AddChecked(max, 1) = nil error, want ErrU256Overflow")
	}
}

func TestAddCheckedWithinRange(t *testing.T) {
	a := U256FromUint64(100)
	b := U256FromUint64(23)
	sum, err := AddChecked(a, b)
	if err != nil {
		t.Fatalf("AddChecked(100, 23) error: %v", err)
	}
	if sum.String() != "123" {
		t.Errorf("AddChecked(100, 23) = %s, want 123", sum.String())
	}
}

func TestDivModMatchesEuclideanDivision(t *testing.T) {
	a := U256FromUint64(17)
	b := U256FromUint64(5)
	q, m := DivMod(a, b)
	if q.String() != "3" || m.String() != "2" {
		t.Errorf("DivMod(17, 5) = (%s, %s), want (3, 2)", q.String(), m.String())
	}
}

func TestHalfAndIsEven(t *testing.T) {
	even := U256FromUint64(10)
	if !even.IsEven() {
		t.Error("IsEven(10) = false, want true")
	}
	if even.Half().String() != "5" {
		t.Errorf("Half(10) = %s, want 5", even.Half().String())
	}

	odd := U256FromUint64(7)
	if odd.IsEven() {
		t.Error("IsEven(7) = true, want false")
	}
}

func TestCmpAndEq(t *testing.T) {
	a := U256FromUint64(5)
	b := U256FromUint64(9)
	if a.Cmp(b) >= 0 {
		t.Errorf("Cmp(5, 9) = %d, want < 0", a.Cmp(b))
	}
	if !a.Eq(U256FromUint64(5)) {
		t.Error("Eq(5, 5) = false, want true")
	}
}

func TestSplitCombineRoundTrips(t *testing.T) {
	cases := []uint64{0, 1, 12345, 1 << 40}
	for _, v := range cases {
		u := U256FromUint64(v)
		got := u.Split().Combine()
		if !got.Eq(u) {
			t.Errorf("Split(%d).Combine() = %s, want %d", v, got.String(), v)
		}
	}

	big1, _ := U256FromBig(new(big.Int).Lsh(big.NewInt(1), 200))
	if got := big1.Split().Combine(); !got.Eq(big1) {
		t.Errorf("Split(2^200).Combine() = %s, want %s", got.String(), big1.String())
	}
}

func TestSplitLowHighHalves(t *testing.T) {
	// 2^128 splits to High=1, Low=0.
	v := new(big.Int).Lsh(big.NewInt(1), 128)
	u, err := U256FromBig(v)
	if err != nil {
		t.Fatalf("U256FromBig(2^128) error: %v", err)
	}
	split := u.Split()
	if split.High.String() != "1" {
		t.Errorf("Split(2^128).High = %s, want 1", split.High.String())
	}
	if !split.Low.IsZero() {
		t.Errorf("Split(2^128).Low = %s, want 0", split.Low.String())
	}
}

func TestIsZero(t *testing.T) {
	if !ZeroU256.IsZero() {
		t.Error("ZeroU256.IsZero() = false, want true")
	}
	if U256FromUint64(1).IsZero() {
		t.Error("U256FromUint64(1).IsZero() = true, want false")
	}
}

func bytesOfOnes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xff
	}
	return b
}
