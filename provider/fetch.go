package provider

import (
	"context"
	"errors"
	"time"
)

// maxHeadersPerChunk bounds a single indexer call (spec §4.4 "≤ 800 blocks
// per indexer call").
const maxHeadersPerChunk = 800

// maxFanOut bounds concurrent RPC account/storage requests in flight
// (spec §4.4 "default 100 in-flight").
const maxFanOut = 100

// maxRateLimitRetries caps the number of HTTP-429 backoff retries; each
// attempt sleeps rateLimitBackoffUnit*attempt (spec §4.4 "short back-off,
// linear, capped at a few attempts").
const maxRateLimitRetries = 5

const rateLimitBackoffUnit = 1 * time.Second

// maxRetryBudget is the number of non-429 retries allowed before a fetch
// gives up and surfaces FetchKeyError (spec §4.4 "e.g. 50 tries per
// address").
const maxRetryBudget = 50

// withRetry runs fn, retrying HTTP-429 responses with a linear backoff
// capped at maxRateLimitRetries attempts, and any other transient error up
// to maxRetryBudget attempts. It returns the last error once a budget is
// exhausted or ctx is done.
func withRetry(ctx context.Context, fn func() error) error {
	rateAttempts := 0
	otherAttempts := 0
	for {
		err := fn()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if errors.Is(err, errStatusTooManyRequests) {
			rateAttempts++
			if rateAttempts > maxRateLimitRetries {
				return err
			}
			select {
			case <-time.After(time.Duration(rateAttempts) * rateLimitBackoffUnit):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		otherAttempts++
		if otherAttempts > maxRetryBudget {
			return err
		}
	}
}

// chunkBlocks splits a sorted, deduplicated ascending block list into runs
// no wider than maxHeadersPerChunk, merging consecutive blocks into the
// same chunk as long as they stay within maxHeadersPerChunk of the first
// element of the run (spec §4.4).
func chunkBlocks(blocks []uint64) [][]uint64 {
	if len(blocks) == 0 {
		return nil
	}
	var chunks [][]uint64
	start := 0
	for i := 1; i <= len(blocks); i++ {
		if i == len(blocks) || blocks[i]-blocks[start] >= maxHeadersPerChunk {
			chunks = append(chunks, blocks[start:i])
			start = i
		}
	}
	return chunks
}
