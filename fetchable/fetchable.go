// Package fetchable implements the datalake → proofs → values step (spec
// §4.5): one method per datalake variant, each returning the sampled U256
// values plus every proof record accumulated along the way.
package fetchable

import (
	"context"
	"fmt"

	"github.com/herodotus/hdp-go/primitives"
	"github.com/herodotus/hdp-go/provider"
)

// Result is the tuple every datalake-sampling method returns (spec §4.5):
// the ordered sampled values plus every proof record gathered to witness
// them, ready to fold into the pre-processor's CompilationResults.
type Result struct {
	Values       []primitives.U256
	Headers      map[uint64]primitives.ProcessedHeader
	Accounts     []primitives.ProcessedAccount
	Storages     []primitives.ProcessedStorage
	Transactions []primitives.ProcessedTransaction
	Receipts     []primitives.ProcessedReceipt
	MMRMetas     []primitives.MMRMeta
}

func newResult() *Result {
	return &Result{Headers: make(map[uint64]primitives.ProcessedHeader)}
}

func (r *Result) mergeHeaders(headers map[uint64]primitives.ProcessedHeader) {
	for block, h := range headers {
		r.Headers[block] = h
	}
}

// Sample dispatches to the datalake-specific sampling method, per spec
// §4.5.
func Sample(ctx context.Context, p *provider.Provider, dl primitives.Datalake) (*Result, error) {
	switch d := dl.(type) {
	case primitives.BlockSampledDatalake:
		return SampleBlockSampled(ctx, p, d)
	case primitives.TransactionsInBlockDatalake:
		return SampleTransactionsInBlock(ctx, p, d)
	default:
		return nil, fmt.Errorf("fetchable: unknown datalake type %T", dl)
	}
}
