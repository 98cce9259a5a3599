package provider

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/herodotus/hdp-go/trie"
)

// BlockBody holds the full transaction and receipt list of one block, as
// returned by the RPC provider, keyed for the local trie builder (spec
// §4.4 "Tx trie provider").
type BlockBody struct {
	BlockNumber uint64
	Transactions [][]byte // EIP-2718 binary encoding per tx, canonical order
	Receipts     [][]byte // EIP-2718 binary encoding per receipt, canonical order
}

// GetBlockBody fetches a block's full transaction and receipt lists via
// eth_getBlockByNumber (full transaction objects) and eth_getBlockReceipts.
func (c *RPCClient) GetBlockBody(ctx context.Context, blockNumber uint64) (BlockBody, error) {
	var block struct {
		Transactions []*gethtypes.Transaction `json:"transactions"`
	}
	blockTag := blockTagOf(blockNumber)
	if err := c.client.CallContext(ctx, &block, "eth_getBlockByNumber", blockTag, true); err != nil {
		return BlockBody{}, fmt.Errorf("provider: eth_getBlockByNumber(block=%d): %w", blockNumber, err)
	}

	var receipts []*gethtypes.Receipt
	if err := c.client.CallContext(ctx, &receipts, "eth_getBlockReceipts", blockTag); err != nil {
		return BlockBody{}, fmt.Errorf("provider: eth_getBlockReceipts(block=%d): %w", blockNumber, err)
	}

	body := BlockBody{
		BlockNumber:  blockNumber,
		Transactions: make([][]byte, len(block.Transactions)),
		Receipts:     make([][]byte, len(receipts)),
	}
	for i, tx := range block.Transactions {
		enc, err := tx.MarshalBinary()
		if err != nil {
			return BlockBody{}, fmt.Errorf("provider: marshal tx %d of block %d: %w", i, blockNumber, err)
		}
		body.Transactions[i] = enc
	}
	for i, r := range receipts {
		enc, err := r.MarshalBinary()
		if err != nil {
			return BlockBody{}, fmt.Errorf("provider: marshal receipt %d of block %d: %w", i, blockNumber, err)
		}
		body.Receipts[i] = enc
	}
	return body, nil
}

func blockTagOf(blockNumber uint64) string {
	return hexutil.EncodeUint64(blockNumber)
}

// BuildTxTrie constructs the canonical Ethereum transaction trie for a
// block: key is rlp.EncodeToBytes(index), value is the transaction's
// EIP-2718 binary encoding.
func BuildTxTrie(transactions [][]byte) (*trie.Trie, error) {
	return buildIndexTrie(transactions)
}

// BuildReceiptTrie constructs the canonical Ethereum receipt trie for a
// block, same keying convention as BuildTxTrie.
func BuildReceiptTrie(receipts [][]byte) (*trie.Trie, error) {
	return buildIndexTrie(receipts)
}

func buildIndexTrie(items [][]byte) (*trie.Trie, error) {
	t := trie.New()
	for i, item := range items {
		key, err := rlp.EncodeToBytes(uint64(i))
		if err != nil {
			return nil, fmt.Errorf("provider: encode trie index %d: %w", i, err)
		}
		if err := t.Put(key, item); err != nil {
			return nil, fmt.Errorf("provider: insert trie index %d: %w", i, err)
		}
	}
	return t, nil
}

// ProveIndex returns the inclusion proof for transaction/receipt index in
// a trie built by BuildTxTrie/BuildReceiptTrie.
func ProveIndex(t *trie.Trie, index uint64) ([][]byte, error) {
	key, err := rlp.EncodeToBytes(index)
	if err != nil {
		return nil, fmt.Errorf("provider: encode trie index %d: %w", index, err)
	}
	return t.Prove(key)
}
