package preprocessor

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/primitives"
)

func TestRunStateTransitionsFollowInitToEmitted(t *testing.T) {
	r := NewRun()
	if r.State() != StateInit {
		t.Fatalf("new run state = %s, want init", r.State())
	}
	order := []RunState{StateCompile, StateTreesBuilt, StateAssembled, StateEmitted}
	for _, next := range order {
		r.transition(next)
		if r.State() != next {
			t.Fatalf("state = %s, want %s", r.State(), next)
		}
	}
}

func TestPropertyTagHeaderBlockSampled(t *testing.T) {
	d := primitives.BlockSampledDatalake{
		SampledProperty: primitives.HeaderSampledProperty{Field: primitives.HeaderNumber},
	}
	if got := propertyTag(d); got != uint8(primitives.SampledPropertyHeader) {
		t.Errorf("propertyTag(header) = %d, want %d", got, primitives.SampledPropertyHeader)
	}
}

func TestPropertyTagStorageBlockSampled(t *testing.T) {
	d := primitives.BlockSampledDatalake{
		SampledProperty: primitives.StorageSampledProperty{
			Address: common.HexToAddress("0x01"),
			Slot:    common.HexToHash("0x02"),
		},
	}
	if got := propertyTag(d); got != uint8(primitives.SampledPropertyStorage) {
		t.Errorf("propertyTag(storage) = %d, want %d", got, primitives.SampledPropertyStorage)
	}
}

func TestPropertyTagTransactionsInBlock(t *testing.T) {
	d := primitives.TransactionsInBlockDatalake{
		SampledProperty: primitives.ReceiptSampledProperty{Field: primitives.ReceiptSuccess},
	}
	if got := propertyTag(d); got != uint8(primitives.TxSampledPropertyReceipt) {
		t.Errorf("propertyTag(receipt) = %d, want %d", got, primitives.TxSampledPropertyReceipt)
	}
}
