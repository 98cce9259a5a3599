package primitives

import "fmt"

// AggregateFnId selects the aggregation applied over a datalake's decoded
// values (spec §3).
type AggregateFnId uint8

const (
	AggregateAvg    AggregateFnId = 0
	AggregateSum    AggregateFnId = 1
	AggregateMin    AggregateFnId = 2
	AggregateMax    AggregateFnId = 3
	AggregateCount  AggregateFnId = 4
	AggregateMerkle AggregateFnId = 5
	AggregateSlr    AggregateFnId = 6
)

var aggregateFnNames = [...]string{"AVG", "SUM", "MIN", "MAX", "COUNT", "MERKLE", "SLR"}

func (f AggregateFnId) String() string {
	if int(f) < len(aggregateFnNames) {
		return aggregateFnNames[f]
	}
	return fmt.Sprintf("AGGREGATE_FN_%d", uint8(f))
}

// AggregateFnVariants enumerates every AggregateFnId in wire-index order.
func AggregateFnVariants() []AggregateFnId {
	return []AggregateFnId{AggregateAvg, AggregateSum, AggregateMin, AggregateMax, AggregateCount, AggregateMerkle, AggregateSlr}
}

func AggregateFnFromIndex(i uint8) (AggregateFnId, error) {
	if int(i) >= len(aggregateFnNames) {
		return 0, fmt.Errorf("primitives: unknown aggregate_fn_id %d", i)
	}
	return AggregateFnId(i), nil
}

// IsPreProcessable reports whether this aggregation's result can be
// computed off-circuit and committed (spec §4.2, §9 "Pre-processable").
// MERKLE and SLR defer their result entirely to the downstream prover.
func (f AggregateFnId) IsPreProcessable() bool {
	return f != AggregateMerkle && f != AggregateSlr
}

// ComputationCtx carries the operator/value context consumed only by
// COUNT; every other aggregation accepts the default (None, 0) (spec §3).
type ComputationCtx struct {
	Operator        Operator
	ValueToCompare  U256
}

// Computation pairs an aggregation selector with its context (spec §3).
type Computation struct {
	AggregateFnId AggregateFnId
	Ctx           ComputationCtx
}
