// Package aggregate implements the integer aggregations over U256 values
// named in spec §4.2.
package aggregate

import (
	"errors"
	"fmt"

	"github.com/herodotus/hdp-go/primitives"
)

// ErrEmptyInput is returned by every aggregation over an empty value set
// (spec §4.2).
var ErrEmptyInput = errors.New("aggregate: empty input")

// ErrCountNeedsOperator is returned by COUNT when operator = None
// (spec §4.2).
var ErrCountNeedsOperator = errors.New("aggregate: count needs operator")

// ErrNotPreProcessable is returned by Run for MERKLE/SLR, which never
// produce an off-circuit result (spec §4.2, §9 "Pre-processable").
var ErrNotPreProcessable = errors.New("aggregate: function is not pre-processable")

// Run dispatches to the aggregation named by fn over values, honoring ctx
// (only consumed by COUNT). Callers must first check fn.IsPreProcessable()
// before calling Run: MERKLE and SLR fail with ErrNotPreProcessable.
func Run(fn primitives.AggregateFnId, values []primitives.U256, ctx primitives.ComputationCtx) (primitives.U256, error) {
	if !fn.IsPreProcessable() {
		return primitives.U256{}, fmt.Errorf("%w: %s", ErrNotPreProcessable, fn)
	}
	switch fn {
	case primitives.AggregateSum:
		return Sum(values)
	case primitives.AggregateAvg:
		return Avg(values)
	case primitives.AggregateMin:
		return Min(values)
	case primitives.AggregateMax:
		return Max(values)
	case primitives.AggregateCount:
		return Count(values, ctx.Operator, ctx.ValueToCompare)
	default:
		return primitives.U256{}, fmt.Errorf("aggregate: unhandled function %s", fn)
	}
}

// Sum is checked addition; a true sum exceeding 2^256-1 fails rather than
// silently wrapping (spec §4.2, §8.3).
func Sum(values []primitives.U256) (primitives.U256, error) {
	if len(values) == 0 {
		return primitives.U256{}, ErrEmptyInput
	}
	acc := primitives.ZeroU256
	for _, v := range values {
		var err error
		acc, err = primitives.AddChecked(acc, v)
		if err != nil {
			return primitives.U256{}, fmt.Errorf("aggregate: sum overflow: %w", err)
		}
	}
	return acc, nil
}

// Avg computes the banker's-rounded (round-half-to-even) mean: quotient q,
// remainder r, half h = divisor/2; if r > h, or r == h and divisor is even,
// return q+1, else q (spec §4.2).
func Avg(values []primitives.U256) (primitives.U256, error) {
	if len(values) == 0 {
		return primitives.U256{}, ErrEmptyInput
	}
	sum, err := Sum(values)
	if err != nil {
		return primitives.U256{}, err
	}
	divisor := primitives.U256FromUint64(uint64(len(values)))
	q, r := primitives.DivMod(sum, divisor)
	h := divisor.Half()
	if r.Cmp(h) > 0 || (r.Cmp(h) == 0 && divisor.IsEven()) {
		return q.AddOne(), nil
	}
	return q, nil
}

// Min returns the least element under U256's total order (spec §4.2).
func Min(values []primitives.U256) (primitives.U256, error) {
	if len(values) == 0 {
		return primitives.U256{}, ErrEmptyInput
	}
	min := values[0]
	for _, v := range values[1:] {
		if v.Cmp(min) < 0 {
			min = v
		}
	}
	return min, nil
}

// Max returns the greatest element under U256's total order (spec §4.2).
func Max(values []primitives.U256) (primitives.U256, error) {
	if len(values) == 0 {
		return primitives.U256{}, ErrEmptyInput
	}
	max := values[0]
	for _, v := range values[1:] {
		if v.Cmp(max) > 0 {
			max = v
		}
	}
	return max, nil
}

// Count returns the number of elements satisfying `v OP value`. operator =
// None fails with ErrCountNeedsOperator (spec §4.2).
func Count(values []primitives.U256, op primitives.Operator, value primitives.U256) (primitives.U256, error) {
	if len(values) == 0 {
		return primitives.U256{}, ErrEmptyInput
	}
	if op == primitives.OperatorNone {
		return primitives.U256{}, ErrCountNeedsOperator
	}
	var n uint64
	for _, v := range values {
		ok, err := op.Apply(v, value)
		if err != nil {
			return primitives.U256{}, err
		}
		if ok {
			n++
		}
	}
	return primitives.U256FromUint64(n), nil
}
