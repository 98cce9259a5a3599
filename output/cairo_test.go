package output

import (
	"testing"

	"github.com/herodotus/hdp-go/primitives"
)

func TestToCairoBytesChunksExactMultipleOfEight(t *testing.T) {
	s := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	got := toCairoBytes(s)
	if got.ChunksLen != 8 {
		t.Fatalf("ChunksLen = %d, want 8", got.ChunksLen)
	}
	if len(got.Chunks) != 1 {
		t.Fatalf("len(Chunks) = %d, want 1", len(got.Chunks))
	}
	// little-endian read of {1,2,...,8}
	want := uint64(0x0807060504030201)
	if got.Chunks[0] != want {
		t.Errorf("Chunks[0] = %#x, want %#x", got.Chunks[0], want)
	}
}

func TestToCairoBytesPadsLastChunk(t *testing.T) {
	s := []byte{1, 2, 3}
	got := toCairoBytes(s)
	if got.ChunksLen != 3 {
		t.Fatalf("ChunksLen = %d, want 3", got.ChunksLen)
	}
	if len(got.Chunks) != 1 {
		t.Fatalf("len(Chunks) = %d, want 1", len(got.Chunks))
	}
	want := uint64(0x030201)
	if got.Chunks[0] != want {
		t.Errorf("Chunks[0] = %#x, want %#x", got.Chunks[0], want)
	}
}

func TestToCairoBytesEmpty(t *testing.T) {
	got := toCairoBytes(nil)
	if got.ChunksLen != 0 || len(got.Chunks) != 0 {
		t.Errorf("toCairoBytes(nil) = %+v, want zero value", got)
	}
}

func TestToCairoUint256LowHighMatchSplit(t *testing.T) {
	u := primitives.U256FromUint64(0xDEADBEEF)
	got := toCairoUint256(u)
	want := u.Split()
	if got.Low != want.Low.String() {
		t.Errorf("Low = %s, want %s", got.Low, want.Low.String())
	}
	if got.High != want.High.String() {
		t.Errorf("High = %s, want %s", got.High, want.High.String())
	}
	if got.High != "0" {
		t.Errorf("High = %s, want 0 for a value under 2^128", got.High)
	}
}
