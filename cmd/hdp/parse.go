package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/herodotus/hdp-go/primitives"
)

func parseAggregateFn(name string) (primitives.AggregateFnId, error) {
	for _, fn := range primitives.AggregateFnVariants() {
		if strings.EqualFold(fn.String(), name) {
			return fn, nil
		}
	}
	return 0, fmt.Errorf("hdp: unknown aggregate-fn-id %q", name)
}

func parseOperator(name string) (primitives.Operator, error) {
	for _, op := range primitives.OperatorVariants() {
		if strings.EqualFold(op.String(), name) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("hdp: unknown operator %q", name)
}

func parseHeaderField(name string) (primitives.HeaderField, error) {
	for _, f := range primitives.HeaderFieldVariants() {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("hdp: unknown header field %q", name)
}

func parseAccountField(name string) (primitives.AccountField, error) {
	for _, f := range primitives.AccountFieldVariants() {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("hdp: unknown account field %q", name)
}

func parseTransactionField(name string) (primitives.TransactionField, error) {
	for _, f := range primitives.TransactionFieldVariants() {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("hdp: unknown transaction field %q", name)
}

func parseReceiptField(name string) (primitives.TransactionReceiptField, error) {
	for _, f := range primitives.TransactionReceiptFieldVariants() {
		if strings.EqualFold(f.String(), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("hdp: unknown receipt field %q", name)
}

// parseComputation reads --aggregate-fn-id and --aggregate-fn-ctx
// ("OP.VALUE", e.g. "GT.100") into a primitives.Computation (spec §6).
func parseComputation(c *cli.Context) (primitives.Computation, error) {
	fn, err := parseAggregateFn(c.String("aggregate-fn-id"))
	if err != nil {
		return primitives.Computation{}, err
	}

	ctx := primitives.ComputationCtx{}
	if raw := c.String("aggregate-fn-ctx"); raw != "" {
		parts := strings.SplitN(raw, ".", 2)
		if len(parts) != 2 {
			return primitives.Computation{}, fmt.Errorf("hdp: --aggregate-fn-ctx must be OP.VALUE, got %q", raw)
		}
		op, err := parseOperator(parts[0])
		if err != nil {
			return primitives.Computation{}, err
		}
		value, ok := new(big.Int).SetString(parts[1], 10)
		if !ok {
			return primitives.Computation{}, fmt.Errorf("hdp: invalid --aggregate-fn-ctx value %q", parts[1])
		}
		u, err := primitives.U256FromBig(value)
		if err != nil {
			return primitives.Computation{}, err
		}
		ctx.Operator = op
		ctx.ValueToCompare = u
	}

	return primitives.Computation{AggregateFnId: fn, Ctx: ctx}, nil
}

// parseSampledProperty reads --property for a BlockSampled datalake.
// Accepted forms: "header:FIELD", "account:ADDRESS:FIELD",
// "storage:ADDRESS:SLOT".
func parseSampledProperty(spec string) (primitives.SampledProperty, error) {
	parts := strings.Split(spec, ":")
	switch strings.ToLower(parts[0]) {
	case "header":
		if len(parts) != 2 {
			return nil, fmt.Errorf("hdp: --property header:FIELD, got %q", spec)
		}
		field, err := parseHeaderField(parts[1])
		if err != nil {
			return nil, err
		}
		return primitives.HeaderSampledProperty{Field: field}, nil
	case "account":
		if len(parts) != 3 {
			return nil, fmt.Errorf("hdp: --property account:ADDRESS:FIELD, got %q", spec)
		}
		field, err := parseAccountField(parts[2])
		if err != nil {
			return nil, err
		}
		return primitives.AccountSampledProperty{Address: common.HexToAddress(parts[1]), Field: field}, nil
	case "storage":
		if len(parts) != 3 {
			return nil, fmt.Errorf("hdp: --property storage:ADDRESS:SLOT, got %q", spec)
		}
		return primitives.StorageSampledProperty{
			Address: common.HexToAddress(parts[1]),
			Slot:    common.HexToHash(parts[2]),
		}, nil
	default:
		return nil, fmt.Errorf("hdp: unknown --property kind %q", parts[0])
	}
}

// parseTxSampledProperty reads --property for a TransactionsInBlock
// datalake. Accepted forms: "transaction:FIELD", "receipt:FIELD".
func parseTxSampledProperty(spec string) (primitives.TxSampledProperty, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("hdp: --property transaction:FIELD or receipt:FIELD, got %q", spec)
	}
	switch strings.ToLower(parts[0]) {
	case "transaction":
		field, err := parseTransactionField(parts[1])
		if err != nil {
			return nil, err
		}
		return primitives.TransactionSampledProperty{Field: field}, nil
	case "receipt":
		field, err := parseReceiptField(parts[1])
		if err != nil {
			return nil, err
		}
		return primitives.ReceiptSampledProperty{Field: field}, nil
	default:
		return nil, fmt.Errorf("hdp: unknown --property kind %q", parts[0])
	}
}

// parseIncludedTypes reads --included-types as a comma-separated list of
// legacy,eip2930,eip1559,eip4844 into an IncludedTypesMask. An empty spec
// selects every type (spec §3 default).
func parseIncludedTypes(spec string) (primitives.IncludedTypesMask, error) {
	if spec == "" {
		return primitives.IncludedTypesMask{true, true, true, true}, nil
	}
	var mask primitives.IncludedTypesMask
	for _, name := range strings.Split(spec, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "legacy":
			mask[0] = true
		case "eip2930":
			mask[1] = true
		case "eip1559":
			mask[2] = true
		case "eip4844":
			mask[3] = true
		default:
			return primitives.IncludedTypesMask{}, fmt.Errorf("hdp: unknown included-types entry %q", name)
		}
	}
	return mask, nil
}

// parseU256Decimal parses a base-10 string into a U256, as used for
// request-file valueToCompare fields.
func parseU256Decimal(s string) (primitives.U256, error) {
	value, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return primitives.U256{}, fmt.Errorf("hdp: invalid decimal value %q", s)
	}
	return primitives.U256FromBig(value)
}

// parseU256Hex parses a 0x-prefixed hex string into a U256, as used for
// module task inputs in the batch request file.
func parseU256Hex(s string) (primitives.U256, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return primitives.U256{}, fmt.Errorf("hdp: module input %q must be 0x-prefixed hex", s)
	}
	value, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return primitives.U256{}, fmt.Errorf("hdp: invalid hex value %q", s)
	}
	return primitives.U256FromBig(value)
}

// parseDatalake builds a Datalake from the --datalake, block-range/index,
// and --property flags (spec §6 "run-datalake").
func parseDatalake(c *cli.Context) (primitives.Datalake, error) {
	switch strings.ToLower(c.String("datalake")) {
	case "block-sampled":
		prop, err := parseSampledProperty(c.String("property"))
		if err != nil {
			return nil, err
		}
		return primitives.BlockSampledDatalake{
			ChainId:         primitives.ChainId(c.Uint64("chain-id")),
			BlockRangeStart: c.Uint64("block-range-start"),
			BlockRangeEnd:   c.Uint64("block-range-end"),
			Increment:       c.Uint64("increment"),
			SampledProperty: prop,
		}, nil
	case "transactions-in-block":
		prop, err := parseTxSampledProperty(c.String("property"))
		if err != nil {
			return nil, err
		}
		mask, err := parseIncludedTypes(c.String("included-types"))
		if err != nil {
			return nil, err
		}
		return primitives.TransactionsInBlockDatalake{
			ChainId:         primitives.ChainId(c.Uint64("chain-id")),
			TargetBlock:     c.Uint64("target-block"),
			StartIndex:      c.Uint64("start-index"),
			EndIndex:        c.Uint64("end-index"),
			Increment:       c.Uint64("increment"),
			IncludedTypes:   mask,
			SampledProperty: prop,
		}, nil
	default:
		return nil, fmt.Errorf("hdp: --datalake must be block-sampled or transactions-in-block, got %q", c.String("datalake"))
	}
}
