package primitives

// TaskKind is the wire discriminant for TaskEnvelope (spec §3).
type TaskKind uint8

const (
	TaskKindDatalakeCompute TaskKind = iota
	TaskKindModule
)

// TaskEnvelope is the sum type submitted to the pre-processor (spec §3):
// DatalakeCompute carries a datalake+computation pair; Module carries an
// opaque compiled-bytecode container that the pipeline only commits to and
// never executes (spec §1 "Non-goals").
type TaskEnvelope interface {
	TaskKind() TaskKind
}

// DatalakeComputeTask is the common case: sample a datalake, aggregate it.
type DatalakeComputeTask struct {
	Datalake    Datalake
	Computation Computation
}

func (DatalakeComputeTask) TaskKind() TaskKind { return TaskKindDatalakeCompute }

// ModuleClass distinguishes how a module's bytecode is addressed (carried
// through from the original implementation's module registry, spec §1 and
// SPEC_FULL §7 "Module task registry skeleton").
type ModuleClass uint8

const (
	ModuleClassProgramHash ModuleClass = iota
	ModuleClassLocalPath
)

// ModuleTask carries a reference to externally-executed, compiled module
// bytecode plus its inputs. The pipeline commits to it but never executes
// it (spec §1).
type ModuleTask struct {
	Class       ModuleClass
	ProgramHash [32]byte
	LocalPath   string
	Inputs      []U256
}

func (ModuleTask) TaskKind() TaskKind { return TaskKindModule }
