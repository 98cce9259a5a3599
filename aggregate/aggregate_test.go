package aggregate

import (
	"errors"
	"testing"

	"github.com/herodotus/hdp-go/primitives"
)

func u64s(values ...uint64) []primitives.U256 {
	out := make([]primitives.U256, len(values))
	for i, v := range values {
		out[i] = primitives.U256FromUint64(v)
	}
	return out
}

func TestSum(t *testing.T) {
	got, err := Sum(u64s(1, 2, 3))
	if err != nil {
		t.Fatalf("Sum error: %v", err)
	}
	if got.String() != "6" {
		t.Errorf("Sum(1,2,3) = %s, want 6", got.String())
	}
}

func TestSumEmptyInput(t *testing.T) {
	if _, err := Sum(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("Sum(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestAvgRoundsHalfToEven(t *testing.T) {
	// (1+2)/2 = 1.5, remainder == half, divisor 2 is even -> round up to 2.
	got, err := Avg(u64s(1, 2))
	if err != nil {
		t.Fatalf("Avg error: %v", err)
	}
	if got.String() != "2" {
		t.Errorf("Avg(1,2) = %s, want 2 (round half to even)", got.String())
	}
}

func TestAvgRoundsUpAboveHalf(t *testing.T) {
	got, err := Avg(u64s(1, 2, 2))
	if err != nil {
		t.Fatalf("Avg error: %v", err)
	}
	// sum=5, divisor=3, q=1 r=2, half=1 (floor(3/2)), r>half -> round up to 2.
	if got.String() != "2" {
		t.Errorf("Avg(1,2,2) = %s, want 2", got.String())
	}
}

func TestAvgExact(t *testing.T) {
	got, err := Avg(u64s(2, 4, 6))
	if err != nil {
		t.Fatalf("Avg error: %v", err)
	}
	if got.String() != "4" {
		t.Errorf("Avg(2,4,6) = %s, want 4", got.String())
	}
}

func TestMinMax(t *testing.T) {
	min, err := Min(u64s(5, 1, 9))
	if err != nil {
		t.Fatalf("Min error: %v", err)
	}
	if min.String() != "1" {
		t.Errorf("Min(5,1,9) = %s, want 1", min.String())
	}

	max, err := Max(u64s(5, 1, 9))
	if err != nil {
		t.Fatalf("Max error: %v", err)
	}
	if max.String() != "9" {
		t.Errorf("Max(5,1,9) = %s, want 9", max.String())
	}
}

func TestCountNeedsOperator(t *testing.T) {
	_, err := Count(u64s(1, 2), primitives.OperatorNone, primitives.ZeroU256)
	if !errors.Is(err, ErrCountNeedsOperator) {
		t.Errorf("Count with OperatorNone error = %v, want ErrCountNeedsOperator", err)
	}
}

func TestCountGreaterThan(t *testing.T) {
	got, err := Count(u64s(1, 5, 10, 20), primitives.OperatorGt, primitives.U256FromUint64(5))
	if err != nil {
		t.Fatalf("Count error: %v", err)
	}
	if got.String() != "2" {
		t.Errorf("Count(>5) = %s, want 2", got.String())
	}
}

func TestRunRejectsMerkleAndSlr(t *testing.T) {
	for _, fn := range []primitives.AggregateFnId{primitives.AggregateMerkle, primitives.AggregateSlr} {
		_, err := Run(fn, u64s(1), primitives.ComputationCtx{})
		if !errors.Is(err, ErrNotPreProcessable) {
			t.Errorf("Run(%s) error = %v, want ErrNotPreProcessable", fn, err)
		}
	}
}

func TestRunDispatchesSum(t *testing.T) {
	got, err := Run(primitives.AggregateSum, u64s(1, 2, 3), primitives.ComputationCtx{})
	if err != nil {
		t.Fatalf("Run(SUM) error: %v", err)
	}
	if got.String() != "6" {
		t.Errorf("Run(SUM) = %s, want 6", got.String())
	}
}

func TestAllAggregationsRejectEmptyInput(t *testing.T) {
	fns := []primitives.AggregateFnId{primitives.AggregateSum, primitives.AggregateAvg, primitives.AggregateMin, primitives.AggregateMax, primitives.AggregateCount}
	for _, fn := range fns {
		_, err := Run(fn, nil, primitives.ComputationCtx{Operator: primitives.OperatorGt})
		if !errors.Is(err, ErrEmptyInput) {
			t.Errorf("Run(%s, nil) error = %v, want ErrEmptyInput", fn, err)
		}
	}
}
