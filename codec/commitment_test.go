package codec

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/primitives"
)

func sampleBlockDatalake() primitives.BlockSampledDatalake {
	return primitives.BlockSampledDatalake{
		ChainId:         1,
		BlockRangeStart: 100,
		BlockRangeEnd:   200,
		Increment:       1,
		SampledProperty: primitives.HeaderSampledProperty{Field: primitives.HeaderNumber},
	}
}

func TestDatalakeCommitmentIsDeterministic(t *testing.T) {
	d := sampleBlockDatalake()
	a, err := DatalakeCommitment(d)
	if err != nil {
		t.Fatalf("DatalakeCommitment error: %v", err)
	}
	b, err := DatalakeCommitment(d)
	if err != nil {
		t.Fatalf("DatalakeCommitment error: %v", err)
	}
	if a != b {
		t.Errorf("DatalakeCommitment not deterministic: %x != %x", a, b)
	}
}

func TestDatalakeCommitmentDiffersOnBlockRange(t *testing.T) {
	a, err := DatalakeCommitment(sampleBlockDatalake())
	if err != nil {
		t.Fatalf("DatalakeCommitment error: %v", err)
	}
	other := sampleBlockDatalake()
	other.BlockRangeEnd = 300
	b, err := DatalakeCommitment(other)
	if err != nil {
		t.Fatalf("DatalakeCommitment error: %v", err)
	}
	if a == b {
		t.Error("DatalakeCommitment identical for different block ranges")
	}
}

func TestTaskCommitmentDiffersOnAggregateFn(t *testing.T) {
	d := sampleBlockDatalake()
	sum := primitives.Computation{AggregateFnId: primitives.AggregateSum}
	avg := primitives.Computation{AggregateFnId: primitives.AggregateAvg}

	a, err := TaskCommitment(d, sum)
	if err != nil {
		t.Fatalf("TaskCommitment error: %v", err)
	}
	b, err := TaskCommitment(d, avg)
	if err != nil {
		t.Fatalf("TaskCommitment error: %v", err)
	}
	if a == b {
		t.Error("TaskCommitment identical for SUM and AVG")
	}
}

func TestResultCommitmentDiffersOnResult(t *testing.T) {
	taskCommitment := common.HexToHash("0x01")
	a := ResultCommitment(taskCommitment, primitives.U256FromUint64(1))
	b := ResultCommitment(taskCommitment, primitives.U256FromUint64(2))
	if a == b {
		t.Error("ResultCommitment identical for different results")
	}
}

func TestModuleTaskCommitmentDiffersOnInputs(t *testing.T) {
	base := primitives.ModuleTask{
		Class:       primitives.ModuleClassProgramHash,
		ProgramHash: common.HexToHash("0xaa"),
		Inputs:      []primitives.U256{primitives.U256FromUint64(1)},
	}
	other := base
	other.Inputs = []primitives.U256{primitives.U256FromUint64(2)}

	a, err := ModuleTaskCommitment(base)
	if err != nil {
		t.Fatalf("ModuleTaskCommitment error: %v", err)
	}
	b, err := ModuleTaskCommitment(other)
	if err != nil {
		t.Fatalf("ModuleTaskCommitment error: %v", err)
	}
	if a == b {
		t.Error("ModuleTaskCommitment identical for different inputs")
	}
}

func TestEncodeTaskConcatenatesDatalakeAndComputation(t *testing.T) {
	d := sampleBlockDatalake()
	c := primitives.Computation{AggregateFnId: primitives.AggregateSum}

	encodedDatalake, err := EncodeDatalake(d)
	if err != nil {
		t.Fatalf("EncodeDatalake error: %v", err)
	}
	encodedComputation, err := EncodeComputation(c)
	if err != nil {
		t.Fatalf("EncodeComputation error: %v", err)
	}
	want := append(append([]byte(nil), encodedDatalake...), encodedComputation...)

	got, err := EncodeTask(d, c)
	if err != nil {
		t.Fatalf("EncodeTask error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("EncodeTask length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("EncodeTask differs from EncodeDatalake+EncodeComputation at byte %d", i)
		}
	}
}
