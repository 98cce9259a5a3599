package primitives

import "testing"

func TestOperatorApply(t *testing.T) {
	five := U256FromUint64(5)
	ten := U256FromUint64(10)

	cases := []struct {
		op   Operator
		a, b U256
		want bool
	}{
		{OperatorEq, five, five, true},
		{OperatorEq, five, ten, false},
		{OperatorNeq, five, ten, true},
		{OperatorGt, ten, five, true},
		{OperatorGt, five, ten, false},
		{OperatorGte, five, five, true},
		{OperatorLt, five, ten, true},
		{OperatorLte, five, five, true},
	}
	for _, tc := range cases {
		got, err := tc.op.Apply(tc.a, tc.b)
		if err != nil {
			t.Fatalf("%s.Apply(%s, %s) error: %v", tc.op, tc.a, tc.b, err)
		}
		if got != tc.want {
			t.Errorf("%s.Apply(%s, %s) = %v, want %v", tc.op, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestOperatorApplyNoneFails(t *testing.T) {
	if _, err := OperatorNone.Apply(U256FromUint64(1), U256FromUint64(1)); err == nil {
		t.Error("OperatorNone.Apply(...) = nil error, want error")
	}
}

func TestOperatorFromIndexRoundTrips(t *testing.T) {
	for i, op := range OperatorVariants() {
		got, err := OperatorFromIndex(uint8(i))
		if err != nil {
			t.Fatalf("OperatorFromIndex(%d) error: %v", i, err)
		}
		if got != op {
			t.Errorf("OperatorFromIndex(%d) = %s, want %s", i, got, op)
		}
	}
}

func TestOperatorFromIndexRejectsOutOfRange(t *testing.T) {
	if _, err := OperatorFromIndex(255); err == nil {
		t.Error("OperatorFromIndex(255) = nil error, want error")
	}
}
