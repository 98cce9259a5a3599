package fetchable

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/herodotus/hdp-go/primitives"
	"github.com/herodotus/hdp-go/provider"
)

// SampleBlockSampled samples one property across d's block range (spec
// §4.5 "BlockSampled over Header/Account/Storage").
func SampleBlockSampled(ctx context.Context, p *provider.Provider, d primitives.BlockSampledDatalake) (*Result, error) {
	blocks, err := d.BlockNumbers()
	if err != nil {
		return nil, err
	}

	switch prop := d.SampledProperty.(type) {
	case primitives.HeaderSampledProperty:
		return sampleHeaderProperty(ctx, p, blocks, prop.Field)
	case primitives.AccountSampledProperty:
		return sampleAccountProperty(ctx, p, blocks, prop.Address, prop.Field)
	case primitives.StorageSampledProperty:
		return sampleStorageProperty(ctx, p, blocks, prop.Address, prop.Slot)
	default:
		return nil, fmt.Errorf("fetchable: unknown sampled property %T", prop)
	}
}

// sampleHeaderProperty requests a header+MMR proof for every block and
// decodes field from each (spec §4.5 "BlockSampled over Header").
func sampleHeaderProperty(ctx context.Context, p *provider.Provider, blocks []uint64, field primitives.HeaderField) (*Result, error) {
	metas, headers, err := p.FetchHeaders(ctx, blocks)
	if err != nil {
		return nil, err
	}

	result := newResult()
	result.MMRMetas = metas
	result.mergeHeaders(headers)

	result.Values = make([]primitives.U256, len(blocks))
	for i, block := range blocks {
		h, ok := headers[block]
		if !ok {
			return nil, fmt.Errorf("fetchable: no header proof fetched for block %d", block)
		}
		v, err := primitives.DecodeHeaderField(field, h.RLP)
		if err != nil {
			return nil, fmt.Errorf("fetchable: decode header field at block %d: %w", block, err)
		}
		result.Values[i] = v
	}
	return result, nil
}

// sampleAccountProperty requests a header+MMR proof and an account MPT
// proof for every block, decoding field from each account leaf (spec
// §4.5 "BlockSampled over Account").
func sampleAccountProperty(ctx context.Context, p *provider.Provider, blocks []uint64, address common.Address, field primitives.AccountField) (*Result, error) {
	metas, headers, err := p.FetchHeaders(ctx, blocks)
	if err != nil {
		return nil, err
	}

	account, accountRLPByBlock, err := p.GetAccounts(ctx, address, blocks)
	if err != nil {
		return nil, err
	}

	result := newResult()
	result.MMRMetas = metas
	result.mergeHeaders(headers)
	result.Accounts = append(result.Accounts, *account)

	result.Values = make([]primitives.U256, len(blocks))
	for i, block := range blocks {
		accountRLP, ok := accountRLPByBlock[block]
		if !ok {
			return nil, fmt.Errorf("fetchable: no account proof fetched for block %d", block)
		}
		v, err := primitives.DecodeAccountField(field, accountRLP)
		if err != nil {
			return nil, fmt.Errorf("fetchable: decode account field at block %d: %w", block, err)
		}
		result.Values[i] = v
	}
	return result, nil
}

// sampleStorageProperty requests a header+MMR proof and a storage MPT
// proof for every block, pushing the already-decoded slot value (spec
// §4.5 "BlockSampled over Storage").
func sampleStorageProperty(ctx context.Context, p *provider.Provider, blocks []uint64, address common.Address, slot common.Hash) (*Result, error) {
	metas, headers, err := p.FetchHeaders(ctx, blocks)
	if err != nil {
		return nil, err
	}

	storage, valueByBlock, err := p.GetStorages(ctx, address, slot, blocks)
	if err != nil {
		return nil, err
	}

	result := newResult()
	result.MMRMetas = metas
	result.mergeHeaders(headers)
	result.Storages = append(result.Storages, *storage)

	result.Values = make([]primitives.U256, len(blocks))
	for i, block := range blocks {
		v, ok := valueByBlock[block]
		if !ok {
			return nil, fmt.Errorf("fetchable: no storage proof fetched for block %d", block)
		}
		result.Values[i] = v
	}
	return result, nil
}
