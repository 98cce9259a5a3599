// Package preprocessor implements the orchestration step named in spec
// §4.6: for every submitted task, sample its datalake, aggregate the
// sampled values, and assemble a proof-backed, Merkle-rooted bundle ready
// for output serialization.
package preprocessor

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/aggregate"
	"github.com/herodotus/hdp-go/codec"
	"github.com/herodotus/hdp-go/fetchable"
	"github.com/herodotus/hdp-go/log"
	"github.com/herodotus/hdp-go/merkle"
	"github.com/herodotus/hdp-go/primitives"
	"github.com/herodotus/hdp-go/provider"
)

// Run drives a single process(tasks) invocation, tracking the
// Init->Compile->TreesBuilt->Assembled->Emitted state machine (spec §4.6).
// Provider and Run are both constructed fresh per run (spec §5 "No global
// mutable state").
type Run struct {
	state RunState
	log   *log.Logger
}

// NewRun constructs a fresh Run in StateInit.
func NewRun() *Run {
	return &Run{state: StateInit, log: log.Module("preprocessor")}
}

// State reports the run's current state.
func (r *Run) State() RunState { return r.state }

func (r *Run) transition(to RunState) {
	r.log.Info("state transition", "from", r.state.String(), "to", to.String())
	r.state = to
}

// compiledTask holds the intermediate per-task data gathered during
// compile, ahead of tree-building and final assembly.
type compiledTask struct {
	kind             primitives.TaskKind
	encodedTask      []byte
	taskCommitment   common.Hash
	encodedDatalake  []byte
	datalakeTypeTag  primitives.DatalakeKind
	propertyTypeTag  uint8
	isDatalakeCompute bool
	taskPreProcessable bool
	result           *primitives.U256
	resultCommitment *common.Hash
}

// Process implements process(tasks) -> ProcessedFullInput (spec §4.6).
func (r *Run) Process(ctx context.Context, p *provider.Provider, tasks []primitives.TaskEnvelope, outputPath string) (*ProcessedFullInput, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("preprocessor: process called with zero tasks")
	}

	r.transition(StateCompile)
	compiled, acc, err := r.compile(ctx, p, tasks)
	if err != nil {
		return nil, err
	}

	r.transition(StateTreesBuilt)
	taskLeaves := make([]common.Hash, len(compiled))
	for i, c := range compiled {
		taskLeaves[i] = c.taskCommitment
	}
	taskTree, err := merkle.NewTree(taskLeaves)
	if err != nil {
		return nil, fmt.Errorf("preprocessor: build task tree: %w", err)
	}

	var resultTree *merkle.Tree
	if acc.preProcessable {
		var resultLeaves []common.Hash
		for _, c := range compiled {
			if c.resultCommitment != nil {
				resultLeaves = append(resultLeaves, *c.resultCommitment)
			}
		}
		if len(resultLeaves) > 0 {
			resultTree, err = merkle.NewTree(resultLeaves)
			if err != nil {
				return nil, fmt.Errorf("preprocessor: build result tree: %w", err)
			}
		}
	}

	r.transition(StateAssembled)
	records := make([]any, len(compiled))
	resultLeafIndex := 0
	for i, c := range compiled {
		taskProof, err := taskTree.Proof(i)
		if err != nil {
			return nil, fmt.Errorf("preprocessor: task proof for index %d: %w", i, err)
		}

		if !c.isDatalakeCompute {
			records[i] = ProcessedModule{
				EncodedTask:    c.encodedTask,
				TaskCommitment: c.taskCommitment,
				TaskProof:      taskProof,
			}
			continue
		}

		record := ProcessedDatalakeCompute{
			EncodedTask:     c.encodedTask,
			TaskCommitment:  c.taskCommitment,
			TaskProof:       taskProof,
			EncodedDatalake: c.encodedDatalake,
			DatalakeTypeTag: c.datalakeTypeTag,
			PropertyTypeTag: c.propertyTypeTag,
		}
		if resultTree != nil && c.resultCommitment != nil {
			resultProof, err := resultTree.Proof(resultLeafIndex)
			if err != nil {
				return nil, fmt.Errorf("preprocessor: result proof for index %d: %w", resultLeafIndex, err)
			}
			record.Result = c.result
			record.ResultCommitment = c.resultCommitment
			record.ResultProof = resultProof
			resultLeafIndex++
		}
		records[i] = record
	}

	out := &ProcessedFullInput{
		TaskRoot:   taskTree.Root(),
		Proofs:     acc.blockProofs(),
		Tasks:      records,
		OutputPath: outputPath,
	}
	if resultTree != nil {
		root := resultTree.Root()
		out.ResultRoot = &root
	}

	r.transition(StateEmitted)
	return out, nil
}

// compile implements spec §4.6 steps 1-2: compute every task's
// task_commitment, sample its datalake, and fold the results into the
// run-wide CompilationResults accumulator.
func (r *Run) compile(ctx context.Context, p *provider.Provider, tasks []primitives.TaskEnvelope) ([]compiledTask, *compilationResults, error) {
	acc := newCompilationResults()
	compiled := make([]compiledTask, len(tasks))

	for i, task := range tasks {
		switch t := task.(type) {
		case primitives.DatalakeComputeTask:
			c, err := r.compileDatalakeTask(ctx, p, acc, t)
			if err != nil {
				return nil, nil, fmt.Errorf("preprocessor: compile task %d: %w", i, err)
			}
			compiled[i] = c
		case primitives.ModuleTask:
			c, err := r.compileModuleTask(t)
			if err != nil {
				return nil, nil, fmt.Errorf("preprocessor: compile task %d: %w", i, err)
			}
			compiled[i] = c
		default:
			return nil, nil, fmt.Errorf("preprocessor: unknown task kind %T at index %d", task, i)
		}
	}
	return compiled, acc, nil
}

func (r *Run) compileDatalakeTask(ctx context.Context, p *provider.Provider, acc *compilationResults, t primitives.DatalakeComputeTask) (compiledTask, error) {
	encodedTask, err := codec.EncodeTask(t.Datalake, t.Computation)
	if err != nil {
		return compiledTask{}, err
	}
	taskCommitment, err := codec.TaskCommitment(t.Datalake, t.Computation)
	if err != nil {
		return compiledTask{}, err
	}
	encodedDatalake, err := codec.EncodeDatalake(t.Datalake)
	if err != nil {
		return compiledTask{}, err
	}

	sampled, err := fetchable.Sample(ctx, p, t.Datalake)
	if err != nil {
		return compiledTask{}, err
	}
	acc.mergeHeaders(sampled.Headers)
	acc.mergeMMRMetas(sampled.MMRMetas)
	for _, a := range sampled.Accounts {
		acc.mergeAccount(a)
	}
	for _, s := range sampled.Storages {
		acc.mergeStorage(s)
	}
	acc.mergeTransactions(sampled.Transactions)
	acc.mergeReceipts(sampled.Receipts)

	c := compiledTask{
		kind:              primitives.TaskKindDatalakeCompute,
		encodedTask:       encodedTask,
		taskCommitment:    taskCommitment,
		encodedDatalake:   encodedDatalake,
		datalakeTypeTag:   t.Datalake.Kind(),
		propertyTypeTag:   propertyTag(t.Datalake),
		isDatalakeCompute: true,
		taskPreProcessable: t.Computation.AggregateFnId.IsPreProcessable(),
	}

	if !c.taskPreProcessable {
		acc.preProcessable = false
		return c, nil
	}

	result, err := aggregate.Run(t.Computation.AggregateFnId, sampled.Values, t.Computation.Ctx)
	if err != nil {
		return compiledTask{}, err
	}
	resultCommitment := codec.ResultCommitment(taskCommitment, result)
	acc.commitResults[taskCommitment] = result

	c.result = &result
	c.resultCommitment = &resultCommitment
	return c, nil
}

func (r *Run) compileModuleTask(t primitives.ModuleTask) (compiledTask, error) {
	encodedTask, err := codec.EncodeModuleTask(t)
	if err != nil {
		return compiledTask{}, err
	}
	taskCommitment, err := codec.ModuleTaskCommitment(t)
	if err != nil {
		return compiledTask{}, err
	}
	return compiledTask{
		kind:              primitives.TaskKindModule,
		encodedTask:       encodedTask,
		taskCommitment:    taskCommitment,
		isDatalakeCompute: false,
	}, nil
}

// propertyTag extracts the sampled-property discriminant from a datalake's
// property selector, unifying BlockSampled's SampledPropertyKind and
// TransactionsInBlock's TxSampledPropertyKind into one byte tag for
// ProcessedDatalakeCompute.PropertyTypeTag (spec §4.6 step 5).
func propertyTag(d primitives.Datalake) uint8 {
	switch v := d.(type) {
	case primitives.BlockSampledDatalake:
		return uint8(v.SampledProperty.Kind())
	case primitives.TransactionsInBlockDatalake:
		return uint8(v.SampledProperty.Kind())
	default:
		return 0
	}
}
