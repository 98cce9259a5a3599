package fetchable

import (
	"context"
	"fmt"

	"github.com/herodotus/hdp-go/primitives"
	"github.com/herodotus/hdp-go/provider"
)

// SampleTransactionsInBlock requests the target block's header+MMR proof
// once, fetches its full transaction (or receipt) trie, and iterates
// indices honoring included_types and increment (spec §4.5
// "TransactionsInBlock").
func SampleTransactionsInBlock(ctx context.Context, p *provider.Provider, d primitives.TransactionsInBlockDatalake) (*Result, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	metas, headers, err := p.FetchHeaders(ctx, []uint64{d.TargetBlock})
	if err != nil {
		return nil, err
	}

	body, err := p.GetBlockBody(ctx, d.TargetBlock)
	if err != nil {
		return nil, err
	}

	result := newResult()
	result.MMRMetas = metas
	result.mergeHeaders(headers)

	switch prop := d.SampledProperty.(type) {
	case primitives.TransactionSampledProperty:
		return sampleTransactionIndices(result, body, d, prop.Field)
	case primitives.ReceiptSampledProperty:
		return sampleReceiptIndices(result, body, d, prop.Field)
	default:
		return nil, fmt.Errorf("fetchable: unknown tx-sampled property %T", prop)
	}
}

// sampledCounterMatches reports whether counter (the Nth mask-matching
// transaction seen so far, 0-based) falls on a sampled step: within
// [StartIndex, EndIndex] and aligned to Increment (spec §4.1
// "included_types ... selects which tx-types count toward start/end_index").
func sampledCounterMatches(d primitives.TransactionsInBlockDatalake, counter uint64) bool {
	if counter < d.StartIndex || counter > d.EndIndex {
		return false
	}
	return (counter-d.StartIndex)%d.Increment == 0
}

func sampleTransactionIndices(result *Result, body provider.BlockBody, d primitives.TransactionsInBlockDatalake, field primitives.TransactionField) (*Result, error) {
	trie, err := provider.BuildTxTrie(body.Transactions)
	if err != nil {
		return nil, err
	}

	var counter uint64
	for rawIndex, txRLP := range body.Transactions {
		if !d.IncludedTypes.Includes(eip2718Type(txRLP)) {
			continue
		}
		matched := sampledCounterMatches(d, counter)
		counter++
		if !matched {
			continue
		}

		proofNodes, err := provider.ProveIndex(trie, uint64(rawIndex))
		if err != nil {
			return nil, fmt.Errorf("fetchable: prove tx index %d: %w", rawIndex, err)
		}
		result.Transactions = append(result.Transactions, primitives.ProcessedTransaction{
			BlockNumber: d.TargetBlock,
			TxIndex:     uint64(rawIndex),
			ProofNodes:  proofNodes,
		})

		v, err := primitives.DecodeTransactionField(field, txRLP)
		if err != nil {
			return nil, fmt.Errorf("fetchable: decode tx field at index %d: %w", rawIndex, err)
		}
		result.Values = append(result.Values, v)
	}
	if counter == 0 || counter-1 < d.EndIndex {
		return nil, fmt.Errorf("fetchable: fewer than %d matching transactions in block %d (included_types selected %d)", d.EndIndex+1, d.TargetBlock, counter)
	}
	return result, nil
}

func sampleReceiptIndices(result *Result, body provider.BlockBody, d primitives.TransactionsInBlockDatalake, field primitives.TransactionReceiptField) (*Result, error) {
	trie, err := provider.BuildReceiptTrie(body.Receipts)
	if err != nil {
		return nil, err
	}

	var counter uint64
	for rawIndex, receiptRLP := range body.Receipts {
		txType := eip2718Type(body.Transactions[rawIndex])
		if !d.IncludedTypes.Includes(txType) {
			continue
		}
		matched := sampledCounterMatches(d, counter)
		counter++
		if !matched {
			continue
		}

		proofNodes, err := provider.ProveIndex(trie, uint64(rawIndex))
		if err != nil {
			return nil, fmt.Errorf("fetchable: prove receipt index %d: %w", rawIndex, err)
		}
		result.Receipts = append(result.Receipts, primitives.ProcessedReceipt{
			BlockNumber: d.TargetBlock,
			TxIndex:     uint64(rawIndex),
			ProofNodes:  proofNodes,
		})

		v, err := primitives.DecodeReceiptField(field, receiptRLP)
		if err != nil {
			return nil, fmt.Errorf("fetchable: decode receipt field at index %d: %w", rawIndex, err)
		}
		result.Values = append(result.Values, v)
	}
	if counter == 0 || counter-1 < d.EndIndex {
		return nil, fmt.Errorf("fetchable: fewer than %d matching receipts in block %d (included_types selected %d)", d.EndIndex+1, d.TargetBlock, counter)
	}
	return result, nil
}

// eip2718Type returns a transaction's EIP-2718 type byte: a legacy
// transaction's RLP encoding starts with a list prefix (>= 0xc0) and has
// no type byte, synthesized here as type 0 (spec §7 "Included-types mask
// semantics").
func eip2718Type(txRLP []byte) uint8 {
	if len(txRLP) == 0 {
		return 0
	}
	if txRLP[0] >= 0xc0 {
		return 0
	}
	return txRLP[0]
}
