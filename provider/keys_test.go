package provider

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/herodotus/hdp-go/primitives"
)

func TestCategorizeSynthesizesHeaderKeys(t *testing.T) {
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	keys := []FetchKeyEnvelope{
		{Kind: FetchKeyAccount, Chain: primitives.ChainEthereumMainnet, Block: 100, Address: addr},
		{Kind: FetchKeyStorage, Chain: primitives.ChainEthereumMainnet, Block: 200, Address: addr, Slot: common.HexToHash("0x1")},
		{Kind: FetchKeyTx, Chain: primitives.ChainEthereumMainnet, Block: 300, TxIndex: 5},
	}

	byChain := Categorize(keys)
	ck, ok := byChain[primitives.ChainEthereumMainnet]
	if !ok {
		t.Fatal("expected chain entry for Ethereum mainnet")
	}

	for _, block := range []uint64{100, 200, 300} {
		if _, ok := ck.Headers[block]; !ok {
			t.Errorf("expected synthesized header key for block %d", block)
		}
	}
	if _, ok := ck.Accounts[addr][100]; !ok {
		t.Error("expected account key for block 100")
	}
	if _, ok := ck.Transactions[300][5]; !ok {
		t.Error("expected tx key for block 300 index 5")
	}
}

func TestCategorizeGroupsByChainFirst(t *testing.T) {
	keys := []FetchKeyEnvelope{
		{Kind: FetchKeyHeader, Chain: primitives.ChainEthereumMainnet, Block: 1},
		{Kind: FetchKeyHeader, Chain: primitives.ChainSepolia, Block: 1},
	}
	byChain := Categorize(keys)
	if len(byChain) != 2 {
		t.Fatalf("chains = %d, want 2", len(byChain))
	}
}

func TestChainKeysSortedBlocks(t *testing.T) {
	keys := []FetchKeyEnvelope{
		{Kind: FetchKeyHeader, Chain: primitives.ChainEthereumMainnet, Block: 30},
		{Kind: FetchKeyHeader, Chain: primitives.ChainEthereumMainnet, Block: 10},
		{Kind: FetchKeyHeader, Chain: primitives.ChainEthereumMainnet, Block: 20},
	}
	ck := Categorize(keys)[primitives.ChainEthereumMainnet]
	got := ck.SortedBlocks()
	want := []uint64{10, 20, 30}
	for i, b := range want {
		if got[i] != b {
			t.Errorf("SortedBlocks()[%d] = %d, want %d", i, got[i], b)
		}
	}
}
