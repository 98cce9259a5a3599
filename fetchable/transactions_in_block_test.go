package fetchable

import "testing"

func TestEip2718TypeLegacy(t *testing.T) {
	legacyRLP := []byte{0xc0} // empty RLP list, prefix >= 0xc0
	if got := eip2718Type(legacyRLP); got != 0 {
		t.Errorf("eip2718Type(legacy) = %d, want 0", got)
	}
}

func TestEip2718TypeTyped(t *testing.T) {
	for _, typ := range []uint8{1, 2, 3} {
		rlpBytes := []byte{typ, 0xc0}
		if got := eip2718Type(rlpBytes); got != typ {
			t.Errorf("eip2718Type(type %d) = %d, want %d", typ, got, typ)
		}
	}
}

func TestEip2718TypeEmpty(t *testing.T) {
	if got := eip2718Type(nil); got != 0 {
		t.Errorf("eip2718Type(nil) = %d, want 0", got)
	}
}
