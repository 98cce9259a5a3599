package provider

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/herodotus/hdp-go/log"
	"github.com/herodotus/hdp-go/primitives"
)

// Config holds the external endpoints a Provider talks to (spec §6
// "External interfaces" / SPEC_FULL §9).
type Config struct {
	IndexerBaseURL string
	RPCURL         string
	CacheBytes     int
}

// Provider is a stateless, clonable bundle of the three sub-providers
// (header/Indexer, RPC, tx trie), constructed fresh per run per spec §5
// "No global mutable state".
type Provider struct {
	chain primitives.ChainId

	indexer *IndexerClient
	rpc     *RPCClient
	cache   *Cache
	sem     *semaphore.Weighted

	log *log.Logger
}

// New constructs a Provider for chain, dialing the configured RPC
// endpoint.
func New(ctx context.Context, chain primitives.ChainId, cfg Config) (*Provider, error) {
	rpcClient, err := DialRPC(ctx, cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	cacheBytes := cfg.CacheBytes
	if cacheBytes <= 0 {
		cacheBytes = 64 << 20
	}
	return &Provider{
		chain:   chain,
		indexer: NewIndexerClient(cfg.IndexerBaseURL),
		rpc:     rpcClient,
		cache:   NewCache(cacheBytes),
		sem:     semaphore.NewWeighted(maxFanOut),
		log:     log.Module("provider").With("chain", chain),
	}, nil
}

// Close releases the RPC connection.
func (p *Provider) Close() { p.rpc.Close() }

// FetchHeaders fetches header+MMR proofs for every block in blocks,
// chunking the request per spec §4.4. A single batch may only carry one
// MMR identity at a time; callers combining chunks from different MMR
// epochs get one MMRMeta per chunk back.
func (p *Provider) FetchHeaders(ctx context.Context, blocks []uint64) ([]primitives.MMRMeta, map[uint64]primitives.ProcessedHeader, error) {
	sorted := append([]uint64(nil), blocks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	chunks := chunkBlocks(sorted)

	var mu sync.Mutex
	metas := make([]primitives.MMRMeta, 0, len(chunks))
	headers := make(map[uint64]primitives.ProcessedHeader, len(sorted))

	g, gctx := errgroup.WithContext(ctx)
	for _, chunk := range chunks {
		chunk := chunk
		if err := p.sem.Acquire(gctx, 1); err != nil {
			return nil, nil, err
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			from, to := chunk[0], chunk[len(chunk)-1]

			cacheKey := p.headerChunkCacheKey(from, to)
			raw, err := p.cache.GetOrFetch(cacheKey, func() ([]byte, error) {
				return p.fetchHeaderChunk(gctx, from, to)
			})
			if err != nil {
				return &FetchKeyError{Key: FetchKeyEnvelope{Kind: FetchKeyHeader, Chain: p.chain, Block: from}, Cause: err}
			}

			meta, hs, err := decodeHeaderChunk(raw)
			if err != nil {
				return err
			}

			mu.Lock()
			metas = append(metas, meta)
			for blockNumber, h := range hs {
				headers[blockNumber] = h
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if len(metas) == 0 {
		return nil, nil, ErrMmrNotFound
	}
	return metas, headers, nil
}

func (p *Provider) fetchHeaderChunk(ctx context.Context, from, to uint64) ([]byte, error) {
	var encoded []byte
	err := withRetry(ctx, func() error {
		meta, hs, err := p.indexer.GetHeadersProof(ctx, p.chain, from, to)
		if err != nil {
			return err
		}
		encoded = encodeHeaderChunk(meta, hs)
		return nil
	})
	return encoded, err
}

// GetAccounts fetches an account MPT proof for address at every block in
// blocks, honoring the fan-out bound (spec
// §4.4 "RPC account/storage calls are issued in parallel").
func (p *Provider) GetAccounts(ctx context.Context, address common.Address, blocks []uint64) (*primitives.ProcessedAccount, map[uint64][]byte, error) {
	result := &primitives.ProcessedAccount{Address: address}
	accountRLPByBlock := make(map[uint64][]byte, len(blocks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, block := range blocks {
		block := block
		if err := p.sem.Acquire(gctx, 1); err != nil {
			return nil, nil, err
		}
		g.Go(func() error {
			defer p.sem.Release(1)

			cacheKey := p.accountCacheKey(address, block)
			raw, err := p.cache.GetOrFetch(cacheKey, func() ([]byte, error) {
				var proof AccountProof
				err := withRetry(gctx, func() error {
					var innerErr error
					proof, innerErr = p.rpc.GetAccountProof(gctx, address, block)
					return innerErr
				})
				if err != nil {
					return nil, err
				}
				return encodeAccountProof(proof), nil
			})
			if err != nil {
				return &FetchKeyError{Key: FetchKeyEnvelope{Kind: FetchKeyAccount, Chain: p.chain, Block: block, Address: address}, Cause: err}
			}

			proof := decodeAccountProof(raw, block)
			mu.Lock()
			result.Proofs = append(result.Proofs, primitives.ProcessedMPTProof{BlockNumber: proof.BlockNumber, Nodes: proof.Nodes})
			accountRLPByBlock[proof.BlockNumber] = proof.AccountRLP
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, accountRLPByBlock, nil
}

// GetStorages fetches a storage-slot MPT proof for (address, slot) at
// every block in blocks.
func (p *Provider) GetStorages(ctx context.Context, address common.Address, slot common.Hash, blocks []uint64) (*primitives.ProcessedStorage, map[uint64]primitives.U256, error) {
	result := &primitives.ProcessedStorage{Address: address, Slot: slot}
	valueByBlock := make(map[uint64]primitives.U256, len(blocks))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, block := range blocks {
		block := block
		if err := p.sem.Acquire(gctx, 1); err != nil {
			return nil, nil, err
		}
		g.Go(func() error {
			defer p.sem.Release(1)

			cacheKey := p.storageCacheKey(address, slot, block)
			raw, err := p.cache.GetOrFetch(cacheKey, func() ([]byte, error) {
				var proof StorageProof
				err := withRetry(gctx, func() error {
					var innerErr error
					proof, innerErr = p.rpc.GetStorageProof(gctx, address, slot, block)
					return innerErr
				})
				if err != nil {
					return nil, err
				}
				return encodeStorageProof(proof), nil
			})
			if err != nil {
				return &FetchKeyError{Key: FetchKeyEnvelope{Kind: FetchKeyStorage, Chain: p.chain, Block: block, Address: address, Slot: slot}, Cause: err}
			}

			proof := decodeStorageProof(raw, block)
			value, err := primitives.U256FromBig(nonNilBig(proof.Value))
			if err != nil {
				return fmt.Errorf("provider: storage value at block %d out of u256 range: %w", block, err)
			}
			mu.Lock()
			result.Proofs = append(result.Proofs, primitives.ProcessedMPTProof{BlockNumber: proof.BlockNumber, Nodes: proof.Nodes})
			valueByBlock[proof.BlockNumber] = value
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return result, valueByBlock, nil
}

func nonNilBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// GetBlockBody fetches and caches the full tx/receipt list of one block.
func (p *Provider) GetBlockBody(ctx context.Context, block uint64) (BlockBody, error) {
	cacheKey := p.blockBodyCacheKey(block)
	raw, err := p.cache.GetOrFetch(cacheKey, func() ([]byte, error) {
		var body BlockBody
		err := withRetry(ctx, func() error {
			var innerErr error
			body, innerErr = p.rpc.GetBlockBody(ctx, block)
			return innerErr
		})
		if err != nil {
			return nil, err
		}
		return encodeBlockBody(body), nil
	})
	if err != nil {
		return BlockBody{}, fmt.Errorf("provider: fetch block body %d: %w", block, err)
	}
	return decodeBlockBody(raw, block), nil
}
