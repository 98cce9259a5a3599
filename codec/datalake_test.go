package codec

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/primitives"
)

func TestBlockSampledDatalakeRoundTrips(t *testing.T) {
	d := primitives.BlockSampledDatalake{
		ChainId:         1,
		BlockRangeStart: 100,
		BlockRangeEnd:   200,
		Increment:       2,
		SampledProperty: primitives.HeaderSampledProperty{Field: primitives.HeaderNumber},
	}
	encoded, err := EncodeDatalake(d)
	if err != nil {
		t.Fatalf("EncodeDatalake error: %v", err)
	}
	decoded, err := DecodeDatalake(encoded)
	if err != nil {
		t.Fatalf("DecodeDatalake error: %v", err)
	}
	got, ok := decoded.(primitives.BlockSampledDatalake)
	if !ok {
		t.Fatalf("DecodeDatalake returned %T, want BlockSampledDatalake", decoded)
	}
	if got != d {
		t.Errorf("round-tripped datalake = %+v, want %+v", got, d)
	}
}

func TestAccountSampledPropertyRoundTrips(t *testing.T) {
	prop := primitives.AccountSampledProperty{
		Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
		Field:   primitives.AccountFieldVariants()[0],
	}
	encoded, err := EncodeSampledProperty(prop)
	if err != nil {
		t.Fatalf("EncodeSampledProperty error: %v", err)
	}
	decoded, err := DecodeSampledProperty(encoded)
	if err != nil {
		t.Fatalf("DecodeSampledProperty error: %v", err)
	}
	got, ok := decoded.(primitives.AccountSampledProperty)
	if !ok {
		t.Fatalf("DecodeSampledProperty returned %T, want AccountSampledProperty", decoded)
	}
	if got != prop {
		t.Errorf("round-tripped property = %+v, want %+v", got, prop)
	}
}

func TestStorageSampledPropertyRoundTrips(t *testing.T) {
	prop := primitives.StorageSampledProperty{
		Address: common.HexToAddress("0x2222222222222222222222222222222222222222"),
		Slot:    common.HexToHash("0x01"),
	}
	encoded, err := EncodeSampledProperty(prop)
	if err != nil {
		t.Fatalf("EncodeSampledProperty error: %v", err)
	}
	decoded, err := DecodeSampledProperty(encoded)
	if err != nil {
		t.Fatalf("DecodeSampledProperty error: %v", err)
	}
	got, ok := decoded.(primitives.StorageSampledProperty)
	if !ok {
		t.Fatalf("DecodeSampledProperty returned %T, want StorageSampledProperty", decoded)
	}
	if got != prop {
		t.Errorf("round-tripped property = %+v, want %+v", got, prop)
	}
}

func TestTransactionsInBlockDatalakeRoundTrips(t *testing.T) {
	d := primitives.TransactionsInBlockDatalake{
		ChainId:         1,
		TargetBlock:     500,
		StartIndex:      0,
		EndIndex:        10,
		Increment:       1,
		IncludedTypes:   primitives.IncludedTypesMask{true, true, true, true},
		SampledProperty: primitives.TransactionSampledProperty{Field: primitives.TransactionFieldVariants()[0]},
	}
	encoded, err := EncodeDatalake(d)
	if err != nil {
		t.Fatalf("EncodeDatalake error: %v", err)
	}
	decoded, err := DecodeDatalake(encoded)
	if err != nil {
		t.Fatalf("DecodeDatalake error: %v", err)
	}
	got, ok := decoded.(primitives.TransactionsInBlockDatalake)
	if !ok {
		t.Fatalf("DecodeDatalake returned %T, want TransactionsInBlockDatalake", decoded)
	}
	if got != d {
		t.Errorf("round-tripped datalake = %+v, want %+v", got, d)
	}
}

func TestDecodeDatalakeRejectsShortPayload(t *testing.T) {
	if _, err := DecodeDatalake([]byte{0x01, 0x02}); err == nil {
		t.Error("DecodeDatalake(short payload) = nil error, want error")
	}
}

func TestComputationRoundTrips(t *testing.T) {
	c := primitives.Computation{
		AggregateFnId: primitives.AggregateCount,
		Ctx: primitives.ComputationCtx{
			Operator:       primitives.OperatorGt,
			ValueToCompare: primitives.U256FromUint64(42),
		},
	}
	encoded, err := EncodeComputation(c)
	if err != nil {
		t.Fatalf("EncodeComputation error: %v", err)
	}
	decoded, err := DecodeComputation(encoded)
	if err != nil {
		t.Fatalf("DecodeComputation error: %v", err)
	}
	if decoded.AggregateFnId != c.AggregateFnId || decoded.Ctx.Operator != c.Ctx.Operator || !decoded.Ctx.ValueToCompare.Eq(c.Ctx.ValueToCompare) {
		t.Errorf("round-tripped computation = %+v, want %+v", decoded, c)
	}
}
