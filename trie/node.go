// Package trie implements an in-memory Merkle-Patricia Trie sufficient to
// build a block's per-transaction and per-receipt trie locally and to
// generate/verify Merkle-Patricia inclusion proofs against a remote state
// root (spec §4.4 "Tx trie provider", §1 "Proof acquisition").
package trie

// node is the interface implemented by all trie node types.
type node interface {
	cache() (hashNode, bool)
}

// fullNode is a branch node with 16 children (one per hex nibble) plus an
// optional value. Children[16] is the value slot.
type fullNode struct {
	Children [17]node
	flags    nodeFlag
}

// shortNode is an extension or leaf node. The terminator nibble (0x10)
// present in Key marks it as a leaf; its absence marks it as an extension.
type shortNode struct {
	Key   []byte
	Val   node
	flags nodeFlag
}

// hashNode is a 32-byte Keccak-256 reference to a node.
type hashNode []byte

// valueNode is raw value data stored at a leaf.
type valueNode []byte

type nodeFlag struct {
	hash  hashNode
	dirty bool
}

func (n *fullNode) cache() (hashNode, bool)  { return n.flags.hash, n.flags.dirty }
func (n *shortNode) cache() (hashNode, bool) { return n.flags.hash, n.flags.dirty }
func (n hashNode) cache() (hashNode, bool)   { return nil, true }
func (n valueNode) cache() (hashNode, bool)  { return nil, true }

func (n *fullNode) copy() *fullNode {
	cp := *n
	return &cp
}

func (n *shortNode) copy() *shortNode {
	cp := *n
	return &cp
}
