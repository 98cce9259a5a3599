package provider

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/herodotus/hdp-go/primitives"
)

// This file holds the cache wire format: every fetch result is
// JSON-encoded before being handed to Cache.Set/GetOrFetch, so that the
// in-flight/committed cache stays a plain byte-keyed, byte-valued store
// (spec §9 "Provider cache") regardless of the richer Go types the rest
// of the package works with.

func (p *Provider) headerChunkCacheKey(from, to uint64) []byte {
	return []byte(fmt.Sprintf("hdr:%d:%d:%d", p.chain, from, to))
}

func (p *Provider) accountCacheKey(address common.Address, block uint64) []byte {
	return []byte(fmt.Sprintf("acct:%d:%d:%s", p.chain, block, address.Hex()))
}

func (p *Provider) storageCacheKey(address common.Address, slot common.Hash, block uint64) []byte {
	return []byte(fmt.Sprintf("slot:%d:%d:%s:%s", p.chain, block, address.Hex(), slot.Hex()))
}

func (p *Provider) blockBodyCacheKey(block uint64) []byte {
	return []byte(fmt.Sprintf("body:%d:%d", p.chain, block))
}

type headerChunkWire struct {
	Meta    primitives.MMRMeta
	Headers map[uint64]HeaderProof
}

func encodeHeaderChunk(meta primitives.MMRMeta, headers map[uint64]HeaderProof) []byte {
	b, _ := json.Marshal(headerChunkWire{Meta: meta, Headers: headers})
	return b
}

func decodeHeaderChunk(raw []byte) (primitives.MMRMeta, map[uint64]primitives.ProcessedHeader, error) {
	var wire headerChunkWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return primitives.MMRMeta{}, nil, fmt.Errorf("provider: decode cached header chunk: %w", err)
	}
	out := make(map[uint64]primitives.ProcessedHeader, len(wire.Headers))
	for block, h := range wire.Headers {
		out[block] = primitives.ProcessedHeader{
			BlockNumber:  h.BlockNumber,
			RLP:          h.RLP,
			MMRLeafIndex: h.LeafIndex,
			MMRSiblings:  h.Siblings,
		}
	}
	return wire.Meta, out, nil
}

func encodeAccountProof(p AccountProof) []byte {
	b, _ := json.Marshal(p)
	return b
}

func decodeAccountProof(raw []byte, block uint64) AccountProof {
	var p AccountProof
	_ = json.Unmarshal(raw, &p)
	p.BlockNumber = block
	return p
}

type storageProofWire struct {
	BlockNumber uint64
	Nodes       [][]byte
	Value       string
}

func encodeStorageProof(p StorageProof) []byte {
	value := "0"
	if p.Value != nil {
		value = p.Value.String()
	}
	b, _ := json.Marshal(storageProofWire{BlockNumber: p.BlockNumber, Nodes: p.Nodes, Value: value})
	return b
}

func decodeStorageProof(raw []byte, block uint64) StorageProof {
	var wire storageProofWire
	_ = json.Unmarshal(raw, &wire)
	value, ok := new(big.Int).SetString(wire.Value, 10)
	if !ok {
		value = new(big.Int)
	}
	return StorageProof{BlockNumber: block, Nodes: wire.Nodes, Value: value}
}

func encodeBlockBody(b BlockBody) []byte {
	out, _ := json.Marshal(b)
	return out
}

func decodeBlockBody(raw []byte, block uint64) BlockBody {
	var b BlockBody
	_ = json.Unmarshal(raw, &b)
	b.BlockNumber = block
	return b
}
