package primitives

import "fmt"

// Operator is the predicate operator consumed by the COUNT aggregation
// (spec §3 "Computation"). It is a total-enumeration sum type: to_index /
// from_index are bijective and variants() supports CLI rendering, per the
// tagged-union design note in spec §9.
type Operator uint8

const (
	OperatorNone Operator = 0
	OperatorEq   Operator = 1
	OperatorNeq  Operator = 2
	OperatorGt   Operator = 3
	OperatorGte  Operator = 4
	OperatorLt   Operator = 5
	OperatorLte  Operator = 6
)

var operatorNames = [...]string{"NONE", "EQ", "NEQ", "GT", "GTE", "LT", "LTE"}

func (o Operator) String() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("OPERATOR_%d", uint8(o))
}

// OperatorVariants enumerates every Operator in wire-index order.
func OperatorVariants() []Operator {
	return []Operator{OperatorNone, OperatorEq, OperatorNeq, OperatorGt, OperatorGte, OperatorLt, OperatorLte}
}

// OperatorFromIndex is the inverse of Operator's own numeric index.
func OperatorFromIndex(i uint8) (Operator, error) {
	if int(i) >= len(operatorNames) {
		return 0, fmt.Errorf("primitives: unknown operator index %d", i)
	}
	return Operator(i), nil
}

// Apply evaluates `v OP value` for the COUNT aggregation.
func (o Operator) Apply(v, value U256) (bool, error) {
	switch o {
	case OperatorEq:
		return v.Eq(value), nil
	case OperatorNeq:
		return !v.Eq(value), nil
	case OperatorGt:
		return v.Cmp(value) > 0, nil
	case OperatorGte:
		return v.Cmp(value) >= 0, nil
	case OperatorLt:
		return v.Cmp(value) < 0, nil
	case OperatorLte:
		return v.Cmp(value) <= 0, nil
	default:
		return false, fmt.Errorf("primitives: operator %s cannot be applied", o)
	}
}
