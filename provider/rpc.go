package provider

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrlp "github.com/ethereum/go-ethereum/rlp"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/time/rate"

	"github.com/herodotus/hdp-go/log"
)

// rpcRateLimit caps eth_getProof calls per RPCClient: a courtesy throttle
// against public RPC endpoints, which a block-range sample can otherwise
// burst at in the hundreds.
const rpcRateLimit = rate.Limit(25)
const rpcRateBurst = 50

// RPCClient wraps go-ethereum's JSON-RPC client to call eth_getProof,
// returning EIP-1186 proof responses (spec §4.4 "RPC provider").
type RPCClient struct {
	client  *rpc.Client
	limiter *rate.Limiter
	log     *log.Logger
}

// DialRPC connects to an Ethereum JSON-RPC endpoint.
func DialRPC(ctx context.Context, url string) (*RPCClient, error) {
	c, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("provider: dial rpc %s: %w", url, err)
	}
	return &RPCClient{
		client:  c,
		limiter: rate.NewLimiter(rpcRateLimit, rpcRateBurst),
		log:     log.Module("rpc"),
	}, nil
}

// Close releases the underlying connection.
func (c *RPCClient) Close() { c.client.Close() }

// eip1186StorageProof mirrors one entry of the eth_getProof "storageProof"
// array, matching the shape documented in the teacher's pkg/trie/proof.go
// AccountProof/StorageProof types (SPEC_FULL §6.2).
type eip1186StorageProof struct {
	Key   hexutil.Big    `json:"key"`
	Value hexutil.Big    `json:"value"`
	Proof []hexutil.Bytes `json:"proof"`
}

type eip1186ProofResponse struct {
	Address      common.Address        `json:"address"`
	AccountProof []hexutil.Bytes       `json:"accountProof"`
	Balance      *hexutil.Big          `json:"balance"`
	CodeHash     common.Hash           `json:"codeHash"`
	Nonce        hexutil.Uint64        `json:"nonce"`
	StorageHash  common.Hash           `json:"storageHash"`
	StorageProof []eip1186StorageProof `json:"storageProof"`
}

// AccountProof is the decoded result of one eth_getProof call restricted
// to the account fields; Nodes is the raw MPT proof from the state root
// down to the account leaf.
type AccountProof struct {
	BlockNumber uint64
	Nodes       [][]byte
	AccountRLP  []byte
}

// StorageProof is the decoded storage-slot proof for one (address, slot,
// block) triple. Nodes is the raw MPT proof from the account's storage
// root down to the slot's leaf (empty when the slot is absent).
type StorageProof struct {
	BlockNumber uint64
	Nodes       [][]byte
	Value       *big.Int
}

// GetAccountProof calls eth_getProof for address at blockNumber and
// returns the account MPT proof plus the RLP-reencoded account leaf
// value, suitable for primitives.DecodeAccountField.
func (c *RPCClient) GetAccountProof(ctx context.Context, address common.Address, blockNumber uint64) (AccountProof, error) {
	resp, err := c.getProof(ctx, address, nil, blockNumber)
	if err != nil {
		return AccountProof{}, err
	}

	nodes := make([][]byte, len(resp.AccountProof))
	for i, n := range resp.AccountProof {
		nodes[i] = n
	}

	balance := new(big.Int)
	if resp.Balance != nil {
		balance = resp.Balance.ToInt()
	}
	accountRLP, err := gethrlp.EncodeToBytes([]any{
		uint64(resp.Nonce),
		balance,
		resp.StorageHash,
		resp.CodeHash.Bytes(),
	})
	if err != nil {
		return AccountProof{}, fmt.Errorf("provider: re-encode account rlp: %w", err)
	}

	return AccountProof{BlockNumber: blockNumber, Nodes: nodes, AccountRLP: accountRLP}, nil
}

// GetStorageProof calls eth_getProof for (address, slot) at blockNumber
// and returns the storage MPT proof plus the decoded slot value.
func (c *RPCClient) GetStorageProof(ctx context.Context, address common.Address, slot common.Hash, blockNumber uint64) (StorageProof, error) {
	resp, err := c.getProof(ctx, address, []common.Hash{slot}, blockNumber)
	if err != nil {
		return StorageProof{}, err
	}
	if len(resp.StorageProof) == 0 {
		return StorageProof{BlockNumber: blockNumber}, nil
	}

	sp := resp.StorageProof[0]
	nodes := make([][]byte, len(sp.Proof))
	for i, n := range sp.Proof {
		nodes[i] = n
	}
	value := sp.Value.ToInt()

	return StorageProof{BlockNumber: blockNumber, Nodes: nodes, Value: value}, nil
}

func (c *RPCClient) getProof(ctx context.Context, address common.Address, slots []common.Hash, blockNumber uint64) (*eip1186ProofResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("provider: rate limit wait: %w", err)
	}

	keys := make([]string, len(slots))
	for i, s := range slots {
		keys[i] = s.Hex()
	}
	blockTag := hexutil.EncodeUint64(blockNumber)

	var resp eip1186ProofResponse
	if err := c.client.CallContext(ctx, &resp, "eth_getProof", address, keys, blockTag); err != nil {
		return nil, fmt.Errorf("provider: eth_getProof(%s, block=%d): %w", address, blockNumber, err)
	}
	return &resp, nil
}
