package output

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/herodotus/hdp-go/preprocessor"
	"github.com/herodotus/hdp-go/primitives"
)

// cairoBytes is the Cairo-format rendering of a byte string (spec §4.7):
// 8-byte little-endian chunks, zero-padded in the last chunk, plus the
// original unpadded length.
type cairoBytes struct {
	Chunks    []uint64 `json:"chunks"`
	ChunksLen int      `json:"chunks_len"`
}

// toCairoBytes chunks s into 8-byte little-endian words, per spec §4.7.
func toCairoBytes(s []byte) cairoBytes {
	n := (len(s) + 7) / 8
	chunks := make([]uint64, n)
	for i := 0; i < n; i++ {
		var word [8]byte
		copy(word[:], s[i*8:])
		chunks[i] = binary.LittleEndian.Uint64(word[:])
	}
	return cairoBytes{Chunks: chunks, ChunksLen: len(s)}
}

// cairoUint256 is the (low, high) field-element split of a U256 or a
// Merkle root (spec §3, §4.7).
type cairoUint256 struct {
	Low  string `json:"low"`
	High string `json:"high"`
}

func toCairoUint256(u primitives.U256) cairoUint256 {
	s := u.Split()
	return cairoUint256{Low: s.Low.String(), High: s.High.String()}
}

func hashToCairoUint256(h common.Hash) cairoUint256 {
	return toCairoUint256(primitives.U256FromBytes(h[:]))
}

// CairoBundle is the Cairo-format rendering of a ProcessedFullInput (spec
// §4.7): every byte string is chunked, every U256 and Merkle root is
// limb-split, and every set is emitted in insertion-observed order.
type CairoBundle struct {
	CairoRunOutputPath string              `json:"cairo_run_output_path"`
	ResultsRoot        *cairoUint256       `json:"results_root,omitempty"`
	TasksRoot          cairoUint256        `json:"tasks_root"`
	Proofs             cairoProofs         `json:"proofs"`
	Tasks              []any               `json:"tasks"`
}

type cairoMMR struct {
	Id      uint64         `json:"id"`
	Root    cairoUint256   `json:"root"`
	Size    uint64         `json:"size"`
	Peaks   []cairoUint256 `json:"peaks"`
	ChainId uint64         `json:"chain_id"`
}

type cairoHeader struct {
	BlockNumber  uint64         `json:"block_number"`
	RLP          cairoBytes     `json:"rlp"`
	MMRLeafIndex uint64         `json:"mmr_leaf_index"`
	MMRSiblings  []cairoUint256 `json:"mmr_siblings"`
}

type cairoMMRWithHeaders struct {
	MMR     cairoMMR      `json:"mmr"`
	Headers []cairoHeader `json:"headers"`
}

type cairoMPTProof struct {
	BlockNumber uint64       `json:"block_number"`
	Nodes       []cairoBytes `json:"nodes"`
}

type cairoAccount struct {
	Address cairoBytes      `json:"address"`
	Proofs  []cairoMPTProof `json:"proofs"`
}

type cairoStorage struct {
	Address cairoBytes      `json:"address"`
	Slot    cairoUint256    `json:"slot"`
	Proofs  []cairoMPTProof `json:"proofs"`
}

type cairoTxProof struct {
	BlockNumber uint64       `json:"block_number"`
	TxIndex     uint64       `json:"tx_index"`
	ProofNodes  []cairoBytes `json:"proof_nodes"`
}

type cairoProofs struct {
	MMRWithHeaders      []cairoMMRWithHeaders `json:"mmr_with_headers"`
	Accounts            []cairoAccount        `json:"accounts"`
	Storages            []cairoStorage        `json:"storages"`
	Transactions        []cairoTxProof        `json:"transactions"`
	TransactionReceipts []cairoTxProof        `json:"transaction_receipts"`
}

type cairoDatalakeCompute struct {
	EncodedTask      cairoBytes     `json:"encoded_task"`
	TaskCommitment   cairoUint256   `json:"task_commitment"`
	Result           *cairoUint256  `json:"result,omitempty"`
	ResultCommitment *cairoUint256  `json:"result_commitment,omitempty"`
	TaskProof        []cairoUint256 `json:"task_proof"`
	ResultProof      []cairoUint256 `json:"result_proof,omitempty"`
	EncodedDatalake  cairoBytes     `json:"encoded_datalake"`
	DatalakeTypeTag  uint8          `json:"datalake_type_tag"`
	PropertyTypeTag  uint8          `json:"property_type_tag"`
}

type cairoModule struct {
	EncodedTask    cairoBytes     `json:"encoded_task"`
	TaskCommitment cairoUint256   `json:"task_commitment"`
	TaskProof      []cairoUint256 `json:"task_proof"`
}

// ToCairoBundle renders full in Cairo-format (spec §4.7).
func ToCairoBundle(full *preprocessor.ProcessedFullInput) (*CairoBundle, error) {
	b := &CairoBundle{
		CairoRunOutputPath: full.OutputPath,
		TasksRoot:          hashToCairoUint256(full.TaskRoot),
		Proofs:             renderCairoProofs(full.Proofs),
	}
	if full.ResultRoot != nil {
		root := hashToCairoUint256(*full.ResultRoot)
		b.ResultsRoot = &root
	}

	tasks := make([]any, len(full.Tasks))
	for i, t := range full.Tasks {
		rendered, err := renderCairoTask(t)
		if err != nil {
			return nil, fmt.Errorf("output: render cairo task %d: %w", i, err)
		}
		tasks[i] = rendered
	}
	b.Tasks = tasks
	return b, nil
}

func renderCairoTask(t any) (any, error) {
	switch v := t.(type) {
	case preprocessor.ProcessedDatalakeCompute:
		rec := cairoDatalakeCompute{
			EncodedTask:     toCairoBytes(v.EncodedTask),
			TaskCommitment:  hashToCairoUint256(v.TaskCommitment),
			TaskProof:       cairoUint256Hashes(v.TaskProof),
			EncodedDatalake: toCairoBytes(v.EncodedDatalake),
			DatalakeTypeTag: uint8(v.DatalakeTypeTag),
			PropertyTypeTag: v.PropertyTypeTag,
		}
		if v.Result != nil {
			r := toCairoUint256(*v.Result)
			rec.Result = &r
		}
		if v.ResultCommitment != nil {
			rc := hashToCairoUint256(*v.ResultCommitment)
			rec.ResultCommitment = &rc
			rec.ResultProof = cairoUint256Hashes(v.ResultProof)
		}
		return rec, nil
	case preprocessor.ProcessedModule:
		return cairoModule{
			EncodedTask:    toCairoBytes(v.EncodedTask),
			TaskCommitment: hashToCairoUint256(v.TaskCommitment),
			TaskProof:      cairoUint256Hashes(v.TaskProof),
		}, nil
	default:
		return nil, fmt.Errorf("output: unknown task record type %T", t)
	}
}

func renderCairoProofs(p preprocessor.ProcessedBlockProofs) cairoProofs {
	out := cairoProofs{
		MMRWithHeaders:      make([]cairoMMRWithHeaders, len(p.MMRWithHeaders)),
		Accounts:            make([]cairoAccount, len(p.Accounts)),
		Storages:            make([]cairoStorage, len(p.Storages)),
		Transactions:        make([]cairoTxProof, len(p.Transactions)),
		TransactionReceipts: make([]cairoTxProof, len(p.TransactionReceipts)),
	}
	for i, mh := range p.MMRWithHeaders {
		headers := make([]cairoHeader, len(mh.Headers))
		for j, h := range mh.Headers {
			headers[j] = cairoHeader{
				BlockNumber:  h.BlockNumber,
				RLP:          toCairoBytes(h.RLP),
				MMRLeafIndex: h.MMRLeafIndex,
				MMRSiblings:  cairoUint256Hashes(h.MMRSiblings),
			}
		}
		out.MMRWithHeaders[i] = cairoMMRWithHeaders{
			MMR: cairoMMR{
				Id:      mh.MMR.Id,
				Root:    hashToCairoUint256(mh.MMR.Root),
				Size:    mh.MMR.Size,
				Peaks:   cairoUint256Hashes(mh.MMR.Peaks),
				ChainId: uint64(mh.MMR.ChainId),
			},
			Headers: headers,
		}
	}
	for i, a := range p.Accounts {
		out.Accounts[i] = cairoAccount{
			Address: toCairoBytes(a.Address[:]),
			Proofs:  renderCairoMPTProofs(a.Proofs),
		}
	}
	for i, s := range p.Storages {
		out.Storages[i] = cairoStorage{
			Address: toCairoBytes(s.Address[:]),
			Slot:    hashToCairoUint256(s.Slot),
			Proofs:  renderCairoMPTProofs(s.Proofs),
		}
	}
	for i, t := range p.Transactions {
		out.Transactions[i] = cairoTxProof{
			BlockNumber: t.BlockNumber,
			TxIndex:     t.TxIndex,
			ProofNodes:  cairoBytesList(t.ProofNodes),
		}
	}
	for i, r := range p.TransactionReceipts {
		out.TransactionReceipts[i] = cairoTxProof{
			BlockNumber: r.BlockNumber,
			TxIndex:     r.TxIndex,
			ProofNodes:  cairoBytesList(r.ProofNodes),
		}
	}
	return out
}

func renderCairoMPTProofs(ps []primitives.ProcessedMPTProof) []cairoMPTProof {
	out := make([]cairoMPTProof, len(ps))
	for i, p := range ps {
		out[i] = cairoMPTProof{BlockNumber: p.BlockNumber, Nodes: cairoBytesList(p.Nodes)}
	}
	return out
}

func cairoUint256Hashes(hs []common.Hash) []cairoUint256 {
	out := make([]cairoUint256, len(hs))
	for i, h := range hs {
		out[i] = hashToCairoUint256(h)
	}
	return out
}

func cairoBytesList(bs [][]byte) []cairoBytes {
	out := make([]cairoBytes, len(bs))
	for i, b := range bs {
		out[i] = toCairoBytes(b)
	}
	return out
}
