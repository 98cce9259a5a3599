package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/primitives"
)

// requestFile mirrors spec §6's batch-mode request JSON. datalake/compute
// are kept as a small human-writable JSON shape distinct from the
// ABI-encoded wire format codec deals in; the CLI is the only place that
// parses it.
type requestFile struct {
	DestinationChainId uint64        `json:"destinationChainId"`
	Tasks              []requestTask `json:"tasks"`
}

type requestTask struct {
	Type        string          `json:"type"`
	Datalake    json.RawMessage `json:"datalake,omitempty"`
	Compute     json.RawMessage `json:"compute,omitempty"`
	ProgramHash string          `json:"programHash,omitempty"`
	Inputs      []string        `json:"inputs,omitempty"`
}

type requestDatalake struct {
	Kind            string `json:"kind"`
	ChainId         uint64 `json:"chainId"`
	BlockRangeStart uint64 `json:"blockRangeStart"`
	BlockRangeEnd   uint64 `json:"blockRangeEnd"`
	TargetBlock     uint64 `json:"targetBlock"`
	StartIndex      uint64 `json:"startIndex"`
	EndIndex        uint64 `json:"endIndex"`
	Increment       uint64 `json:"increment"`
	IncludedTypes   string `json:"includedTypes"`
	Property        string `json:"property"`
}

type requestComputation struct {
	AggregateFnId  string `json:"aggregateFnId"`
	Operator       string `json:"operator"`
	ValueToCompare string `json:"valueToCompare"`
}

// loadRequestFile reads and parses a batch-mode request file into task
// envelopes (spec §6 "Request JSON (batch mode)").
func loadRequestFile(path string) ([]primitives.TaskEnvelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hdp: read request file: %w", err)
	}
	var req requestFile
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("hdp: parse request file: %w", err)
	}

	tasks := make([]primitives.TaskEnvelope, len(req.Tasks))
	for i, rt := range req.Tasks {
		task, err := parseRequestTask(rt)
		if err != nil {
			return nil, fmt.Errorf("hdp: task %d: %w", i, err)
		}
		tasks[i] = task
	}
	return tasks, nil
}

func parseRequestTask(rt requestTask) (primitives.TaskEnvelope, error) {
	switch rt.Type {
	case "DatalakeCompute":
		var rd requestDatalake
		if err := json.Unmarshal(rt.Datalake, &rd); err != nil {
			return nil, fmt.Errorf("parse datalake: %w", err)
		}
		var rc requestComputation
		if err := json.Unmarshal(rt.Compute, &rc); err != nil {
			return nil, fmt.Errorf("parse compute: %w", err)
		}

		datalake, err := requestToDatalake(rd)
		if err != nil {
			return nil, err
		}
		computation, err := requestToComputation(rc)
		if err != nil {
			return nil, err
		}
		return primitives.DatalakeComputeTask{Datalake: datalake, Computation: computation}, nil

	case "Module":
		inputs := make([]primitives.U256, len(rt.Inputs))
		for i, s := range rt.Inputs {
			v, err := parseU256Hex(s)
			if err != nil {
				return nil, fmt.Errorf("module input %d: %w", i, err)
			}
			inputs[i] = v
		}
		programHash := common.HexToHash(rt.ProgramHash)
		return primitives.ModuleTask{
			Class:       primitives.ModuleClassProgramHash,
			ProgramHash: programHash,
			Inputs:      inputs,
		}, nil

	default:
		return nil, fmt.Errorf("unknown task type %q", rt.Type)
	}
}

func requestToDatalake(rd requestDatalake) (primitives.Datalake, error) {
	switch rd.Kind {
	case "block-sampled":
		prop, err := parseSampledProperty(rd.Property)
		if err != nil {
			return nil, err
		}
		return primitives.BlockSampledDatalake{
			ChainId:         primitives.ChainId(rd.ChainId),
			BlockRangeStart: rd.BlockRangeStart,
			BlockRangeEnd:   rd.BlockRangeEnd,
			Increment:       rd.Increment,
			SampledProperty: prop,
		}, nil
	case "transactions-in-block":
		prop, err := parseTxSampledProperty(rd.Property)
		if err != nil {
			return nil, err
		}
		mask, err := parseIncludedTypes(rd.IncludedTypes)
		if err != nil {
			return nil, err
		}
		return primitives.TransactionsInBlockDatalake{
			ChainId:         primitives.ChainId(rd.ChainId),
			TargetBlock:     rd.TargetBlock,
			StartIndex:      rd.StartIndex,
			EndIndex:        rd.EndIndex,
			Increment:       rd.Increment,
			IncludedTypes:   mask,
			SampledProperty: prop,
		}, nil
	default:
		return nil, fmt.Errorf("unknown datalake kind %q", rd.Kind)
	}
}

func requestToComputation(rc requestComputation) (primitives.Computation, error) {
	fn, err := parseAggregateFn(rc.AggregateFnId)
	if err != nil {
		return primitives.Computation{}, err
	}
	ctx := primitives.ComputationCtx{}
	if rc.Operator != "" {
		op, err := parseOperator(rc.Operator)
		if err != nil {
			return primitives.Computation{}, err
		}
		ctx.Operator = op
	}
	if rc.ValueToCompare != "" {
		v, err := parseU256Decimal(rc.ValueToCompare)
		if err != nil {
			return primitives.Computation{}, err
		}
		ctx.ValueToCompare = v
	}
	return primitives.Computation{AggregateFnId: fn, Ctx: ctx}, nil
}
