package merkle

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func leafHash(label string) common.Hash {
	return crypto.Keccak256Hash([]byte(label))
}

func TestNewTreeRejectsEmptyInput(t *testing.T) {
	if _, err := NewTree(nil); err != ErrEmptyTree {
		t.Errorf("NewTree(nil) error = %v, want ErrEmptyTree", err)
	}
}

func TestSingleLeafRootIsTheLeaf(t *testing.T) {
	leaf := leafHash("a")
	tree, err := NewTree([]common.Hash{leaf})
	if err != nil {
		t.Fatalf("NewTree error: %v", err)
	}
	if tree.Root() != leaf {
		t.Errorf("Root() = %x, want %x", tree.Root(), leaf)
	}
}

func TestEveryLeafVerifiesAgainstRoot(t *testing.T) {
	leaves := []common.Hash{leafHash("a"), leafHash("b"), leafHash("c"), leafHash("d"), leafHash("e")}
	tree, err := NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree error: %v", err)
	}
	root := tree.Root()

	for i, leaf := range leaves {
		proof, err := tree.Proof(i)
		if err != nil {
			t.Fatalf("Proof(%d) error: %v", i, err)
		}
		if !VerifyProof(root, leaf, proof) {
			t.Errorf("VerifyProof failed for leaf %d", i)
		}
	}
}

func TestProofRejectsOutOfRangeIndex(t *testing.T) {
	tree, err := NewTree([]common.Hash{leafHash("a")})
	if err != nil {
		t.Fatalf("NewTree error: %v", err)
	}
	if _, err := tree.Proof(1); err != ErrIndexOutOfRange {
		t.Errorf("Proof(1) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := tree.Proof(-1); err != ErrIndexOutOfRange {
		t.Errorf("Proof(-1) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestVerifyProofRejectsTamperedLeaf(t *testing.T) {
	leaves := []common.Hash{leafHash("a"), leafHash("b"), leafHash("c")}
	tree, err := NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree error: %v", err)
	}
	proof, err := tree.Proof(0)
	if err != nil {
		t.Fatalf("Proof(0) error: %v", err)
	}
	if VerifyProof(tree.Root(), leafHash("not-a"), proof) {
		t.Error("VerifyProof accepted a tampered leaf")
	}
}

func TestHashPairIsOrderIndependent(t *testing.T) {
	a, b := leafHash("a"), leafHash("b")
	if hashPair(a, b) != hashPair(b, a) {
		t.Error("hashPair(a, b) != hashPair(b, a), want sorted-pair hashing to be order-independent")
	}
}

func TestOddLeafCarriesUpUnchanged(t *testing.T) {
	// Odd leaf count: the tree must still build and verify for all leaves.
	leaves := []common.Hash{leafHash("a"), leafHash("b"), leafHash("c")}
	tree, err := NewTree(leaves)
	if err != nil {
		t.Fatalf("NewTree error: %v", err)
	}
	proof, err := tree.Proof(2)
	if err != nil {
		t.Fatalf("Proof(2) error: %v", err)
	}
	if !VerifyProof(tree.Root(), leaves[2], proof) {
		t.Error("VerifyProof failed for the carried-up odd leaf")
	}
}
