// Package merkle implements the Standard Binary Merkle Tree used for the
// task-commitment and result-commitment trees (spec §4.6, §9 "Merkle
// library"): keccak leaves, sorted-pair inner hashing. This diverges
// deliberately from the generalized-index binary-tree style used
// elsewhere in the wider codebase (which concatenates children in raw
// left/right order); sorted-pair hashing is required so that a proof
// verifies independent of whether the leaf was the left or right sibling,
// matching the on-chain reference (OpenZeppelin's StandardMerkleTree).
package merkle

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrEmptyTree is returned by NewTree for a zero-leaf input; the
// pre-processor must not attempt to build a tree with no tasks.
var ErrEmptyTree = errors.New("merkle: cannot build a tree with zero leaves")

// ErrIndexOutOfRange is returned by Proof for an out-of-bounds leaf index.
var ErrIndexOutOfRange = errors.New("merkle: leaf index out of range")

// Tree is a Standard Binary Merkle Tree over pre-hashed (keccak) leaves.
// Leaves must appear in the order tasks were submitted (spec §5
// "Ordering guarantees": the task-commitment tree is order-sensitive).
type Tree struct {
	layers [][]common.Hash
}

// NewTree builds a tree over leaves, which must already be keccak hashes
// (task_commitment / result_commitment values, spec §3) — this tree never
// re-hashes a leaf, it only combines them.
func NewTree(leaves []common.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}
	layers := [][]common.Hash{append([]common.Hash(nil), leaves...)}
	current := layers[0]
	for len(current) > 1 {
		next := make([]common.Hash, 0, (len(current)+1)/2)
		for i := 0; i < len(current); i += 2 {
			if i+1 < len(current) {
				next = append(next, hashPair(current[i], current[i+1]))
			} else {
				// Odd node out: carries up unchanged to the next layer.
				next = append(next, current[i])
			}
		}
		layers = append(layers, next)
		current = next
	}
	return &Tree{layers: layers}, nil
}

// Root returns the tree's root hash.
func (t *Tree) Root() common.Hash {
	top := t.layers[len(t.layers)-1]
	return top[0]
}

// Proof returns the sibling path for leaf index, bottom layer first. An
// odd node with no sibling at a given layer contributes no entry (it was
// carried up unchanged), so a proof may be shorter than ceil(log2(n)).
func (t *Tree) Proof(index int) ([]common.Hash, error) {
	if index < 0 || index >= len(t.layers[0]) {
		return nil, ErrIndexOutOfRange
	}
	var proof []common.Hash
	idx := index
	for layer := 0; layer < len(t.layers)-1; layer++ {
		nodes := t.layers[layer]
		var sibling int
		if idx%2 == 0 {
			sibling = idx + 1
		} else {
			sibling = idx - 1
		}
		if sibling < len(nodes) {
			proof = append(proof, nodes[sibling])
		}
		idx /= 2
	}
	return proof, nil
}

// VerifyProof reconstructs the root from leaf and proof and compares it
// against root. Because inner hashing sorts each pair before hashing, the
// verifier needs no positional (left/right) information.
func VerifyProof(root common.Hash, leaf common.Hash, proof []common.Hash) bool {
	cur := leaf
	for _, sibling := range proof {
		cur = hashPair(cur, sibling)
	}
	return bytes.Equal(cur[:], root[:])
}

// hashPair returns keccak256 of a and b concatenated in ascending
// lexicographic order (spec §9 "sorted-pair inner hashing").
func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	buf := make([]byte, 0, 64)
	buf = append(buf, a[:]...)
	buf = append(buf, b[:]...)
	return crypto.Keccak256Hash(buf)
}
