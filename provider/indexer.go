package provider

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/herodotus/hdp-go/log"
	"github.com/herodotus/hdp-go/primitives"
)

// IndexerClient is the HTTP client to the external header-accumulator
// (MMR) service, grounded on arejula27-p2pool-go's RPCClient shape: a
// struct holding a base URL and *http.Client, building requests with
// http.NewRequestWithContext and decoding a typed JSON response body
// (spec §4.4 "Header provider (Indexer)", SPEC_FULL §6.2).
type IndexerClient struct {
	baseURL    string
	httpClient *http.Client
	log        *log.Logger
}

// NewIndexerClient builds a client against baseURL (e.g.
// "https://api.herodotus.cloud/mmr").
func NewIndexerClient(baseURL string) *IndexerClient {
	return &IndexerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.Module("indexer"),
	}
}

// mmrProofResponse mirrors one entry of a `proofs` array in the
// Accumulator REST response (spec.md:186): `{block_number, element_hash,
// element_index, rlp_block_header, siblings_hashes}`.
type mmrProofResponse struct {
	BlockNumber    uint64   `json:"block_number"`
	ElementHash    string   `json:"element_hash"`
	ElementIndex   uint64   `json:"element_index"`
	RlpBlockHeader string   `json:"rlp_block_header"`
	SiblingsHashes []string `json:"siblings_hashes"`
}

// mmrMetaResponse mirrors the `meta` object of the Accumulator REST
// response: `{mmr_id, mmr_root, mmr_size, mmr_peaks}`.
type mmrMetaResponse struct {
	Id    uint64   `json:"mmr_id"`
	Root  string   `json:"mmr_root"`
	Size  uint64   `json:"mmr_size"`
	Peaks []string `json:"mmr_peaks"`
}

// mmrDataResponse is one `data[]` entry: a single MMR tree's meta plus its
// block proofs.
type mmrDataResponse struct {
	Meta   mmrMetaResponse    `json:"meta"`
	Proofs []mmrProofResponse `json:"proofs"`
}

// proofsEnvelope is the Accumulator REST response's top-level shape:
// `{data: [...]}`.
type proofsEnvelope struct {
	Data []mmrDataResponse `json:"data"`
}

// HeaderProof is one block's decoded RLP plus its MMR inclusion proof.
type HeaderProof struct {
	BlockNumber uint64
	RLP         []byte
	LeafIndex   uint64
	Siblings    []common.Hash
}

// GetHeadersProof fetches header+MMR proofs for every block in [start,
// end], chunked by the caller per spec §4.4 ("≤800 blocks per indexer
// call"), via the literal Accumulator REST contract (spec.md:186):
//
//	GET <indexer>/proofs?deployed_on_chain=…&accumulates_chain=…
//	    &from_block_number_inclusive=…&to_block_number_inclusive=…
//	    &hashing_function=poseidon&contract_type=AGGREGATOR
//	    &is_meta_included=true&is_whole_tree=true&is_rlp_included=true
//	    &is_pure_rlp=true
//
// The core assumes exactly one `data` entry per request; zero or more than
// one is an error (ErrMmrNotFound / ErrMmrAmbiguous).
func (c *IndexerClient) GetHeadersProof(ctx context.Context, chain primitives.ChainId, start, end uint64) (primitives.MMRMeta, map[uint64]HeaderProof, error) {
	q := url.Values{}
	q.Set("deployed_on_chain", strconv.FormatUint(uint64(chain), 10))
	q.Set("accumulates_chain", strconv.FormatUint(uint64(chain), 10))
	q.Set("from_block_number_inclusive", strconv.FormatUint(start, 10))
	q.Set("to_block_number_inclusive", strconv.FormatUint(end, 10))
	q.Set("hashing_function", "poseidon")
	q.Set("contract_type", "AGGREGATOR")
	q.Set("is_meta_included", "true")
	q.Set("is_whole_tree", "true")
	q.Set("is_rlp_included", "true")
	q.Set("is_pure_rlp", "true")

	reqURL := c.baseURL + "/proofs?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return primitives.MMRMeta{}, nil, fmt.Errorf("indexer: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return primitives.MMRMeta{}, nil, fmt.Errorf("indexer: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return primitives.MMRMeta{}, nil, errStatusTooManyRequests
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return primitives.MMRMeta{}, nil, fmt.Errorf("indexer: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return primitives.MMRMeta{}, nil, fmt.Errorf("indexer: status %d: %s", resp.StatusCode, string(body))
	}

	var envelope proofsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return primitives.MMRMeta{}, nil, fmt.Errorf("indexer: unmarshal response: %w", err)
	}
	if len(envelope.Data) == 0 {
		return primitives.MMRMeta{}, nil, ErrMmrNotFound
	}
	if len(envelope.Data) > 1 {
		return primitives.MMRMeta{}, nil, fmt.Errorf("%w: got %d", ErrMmrAmbiguous, len(envelope.Data))
	}
	data := envelope.Data[0]

	meta := decodeMMRMeta(data.Meta, chain)

	headers := make(map[uint64]HeaderProof, len(data.Proofs))
	for _, p := range data.Proofs {
		rlpBytes, err := hex.DecodeString(trimHexPrefix(p.RlpBlockHeader))
		if err != nil {
			return primitives.MMRMeta{}, nil, fmt.Errorf("indexer: decode header rlp for block %d: %w", p.BlockNumber, err)
		}
		siblings := make([]common.Hash, len(p.SiblingsHashes))
		for i, s := range p.SiblingsHashes {
			siblings[i] = common.HexToHash(s)
		}
		headers[p.BlockNumber] = HeaderProof{
			BlockNumber: p.BlockNumber,
			RLP:         rlpBytes,
			LeafIndex:   p.ElementIndex,
			Siblings:    siblings,
		}
	}

	c.log.Debug("fetched header proofs", "chain", chain, "count", len(headers), "mmr_id", meta.Id)
	return meta, headers, nil
}

func decodeMMRMeta(m mmrMetaResponse, chain primitives.ChainId) primitives.MMRMeta {
	peaks := make([]common.Hash, len(m.Peaks))
	for i, p := range m.Peaks {
		peaks[i] = common.HexToHash(p)
	}
	return primitives.MMRMeta{
		Id:      m.Id,
		Root:    common.HexToHash(m.Root),
		Size:    m.Size,
		Peaks:   peaks,
		ChainId: chain,
	}
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
