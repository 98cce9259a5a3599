package codec

import (
	"fmt"
	"math/big"

	"github.com/herodotus/hdp-go/primitives"
)

// EncodeComputation ABI-encodes a Computation as the 3-tuple
// (aggregate_fn_id: uint8, operator: uint8, value_to_compare: uint256),
// per spec §4.1.
func EncodeComputation(c primitives.Computation) ([]byte, error) {
	packed, err := computationArgs.Pack(
		uint8(c.AggregateFnId),
		uint8(c.Ctx.Operator),
		c.Ctx.ValueToCompare.Big(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	return packed, nil
}

// DecodeComputation is the inverse of EncodeComputation.
func DecodeComputation(payload []byte) (primitives.Computation, error) {
	values, err := computationArgs.Unpack(payload)
	if err != nil {
		return primitives.Computation{}, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	if len(values) != 3 {
		return primitives.Computation{}, ErrInvalidAbiLayout
	}
	fnId, err := primitives.AggregateFnFromIndex(values[0].(uint8))
	if err != nil {
		return primitives.Computation{}, fmt.Errorf("%w: %v", ErrUnknownField, err)
	}
	op, err := primitives.OperatorFromIndex(values[1].(uint8))
	if err != nil {
		return primitives.Computation{}, fmt.Errorf("%w: %v", ErrUnknownField, err)
	}
	value, err := primitives.U256FromBig(values[2].(*big.Int))
	if err != nil {
		return primitives.Computation{}, err
	}
	return primitives.Computation{
		AggregateFnId: fnId,
		Ctx: primitives.ComputationCtx{
			Operator:       op,
			ValueToCompare: value,
		},
	}, nil
}
