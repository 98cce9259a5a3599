// Package output implements the two bundle serializers named in spec §4.7:
// a general hex-as-string JSON form and a Cairo-format form for the
// external ZK prover.
package output

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/herodotus/hdp-go/preprocessor"
	"github.com/herodotus/hdp-go/primitives"
)

// Bundle is the general (hex-as-string) JSON rendering of a
// ProcessedFullInput (spec §6 "Persisted output (bundle JSON)"). Field
// naming is lowerCamelCase; byte strings are hex-prefixed; U256 values are
// decimal strings.
type Bundle struct {
	CairoRunOutputPath string            `json:"cairoRunOutputPath"`
	ResultsRoot        *string           `json:"resultsRoot,omitempty"`
	TasksRoot          string            `json:"tasksRoot"`
	Proofs             bundleProofs      `json:"proofs"`
	Tasks              []json.RawMessage `json:"tasks"`
}

type bundleMMR struct {
	Id      uint64   `json:"id"`
	Root    string   `json:"root"`
	Size    uint64   `json:"size"`
	Peaks   []string `json:"peaks"`
	ChainId uint64   `json:"chainId"`
}

type bundleHeader struct {
	BlockNumber  uint64   `json:"blockNumber"`
	RLP          string   `json:"rlp"`
	MMRLeafIndex uint64   `json:"mmrLeafIndex"`
	MMRSiblings  []string `json:"mmrSiblings"`
}

type bundleMMRWithHeaders struct {
	MMR     bundleMMR      `json:"mmr"`
	Headers []bundleHeader `json:"headers"`
}

type bundleMPTProof struct {
	BlockNumber uint64   `json:"blockNumber"`
	Nodes       []string `json:"nodes"`
}

type bundleAccount struct {
	Address string           `json:"address"`
	Proofs  []bundleMPTProof `json:"proofs"`
}

type bundleStorage struct {
	Address string           `json:"address"`
	Slot    string           `json:"slot"`
	Proofs  []bundleMPTProof `json:"proofs"`
}

type bundleTxProof struct {
	BlockNumber uint64   `json:"blockNumber"`
	TxIndex     uint64   `json:"txIndex"`
	ProofNodes  []string `json:"proofNodes"`
}

type bundleProofs struct {
	MMRWithHeaders      []bundleMMRWithHeaders `json:"mmrWithHeaders"`
	Accounts            []bundleAccount        `json:"accounts"`
	Storages            []bundleStorage        `json:"storages"`
	Transactions        []bundleTxProof        `json:"transactions"`
	TransactionReceipts []bundleTxProof        `json:"transactionReceipts"`
}

type bundleDatalakeCompute struct {
	Type             string  `json:"type"`
	EncodedTask      string  `json:"encodedTask"`
	TaskCommitment   string  `json:"taskCommitment"`
	Result           *string `json:"result,omitempty"`
	ResultCommitment *string `json:"resultCommitment,omitempty"`
	TaskProof        []string `json:"taskProof"`
	ResultProof      []string `json:"resultProof,omitempty"`
	EncodedDatalake  string   `json:"encodedDatalake"`
	DatalakeTypeTag  uint8    `json:"datalakeTypeTag"`
	PropertyTypeTag  uint8    `json:"propertyTypeTag"`
}

type bundleModule struct {
	Type           string   `json:"type"`
	EncodedTask    string    `json:"encodedTask"`
	TaskCommitment string    `json:"taskCommitment"`
	TaskProof      []string `json:"taskProof"`
}

// ToBundle renders full as the general bundle form.
func ToBundle(full *preprocessor.ProcessedFullInput) (*Bundle, error) {
	b := &Bundle{
		CairoRunOutputPath: full.OutputPath,
		TasksRoot:          full.TaskRoot.Hex(),
		Proofs:             renderProofs(full.Proofs),
	}
	if full.ResultRoot != nil {
		root := full.ResultRoot.Hex()
		b.ResultsRoot = &root
	}

	tasks := make([]json.RawMessage, len(full.Tasks))
	for i, t := range full.Tasks {
		raw, err := renderTask(t)
		if err != nil {
			return nil, fmt.Errorf("output: render task %d: %w", i, err)
		}
		tasks[i] = raw
	}
	b.Tasks = tasks
	return b, nil
}

func renderTask(t any) (json.RawMessage, error) {
	switch v := t.(type) {
	case preprocessor.ProcessedDatalakeCompute:
		rec := bundleDatalakeCompute{
			Type:            "DatalakeCompute",
			EncodedTask:     hexutil.Encode(v.EncodedTask),
			TaskCommitment:  v.TaskCommitment.Hex(),
			TaskProof:       hexHashes(v.TaskProof),
			EncodedDatalake: hexutil.Encode(v.EncodedDatalake),
			DatalakeTypeTag: uint8(v.DatalakeTypeTag),
			PropertyTypeTag: v.PropertyTypeTag,
		}
		if v.Result != nil {
			s := v.Result.String()
			rec.Result = &s
		}
		if v.ResultCommitment != nil {
			s := v.ResultCommitment.Hex()
			rec.ResultCommitment = &s
			rec.ResultProof = hexHashes(v.ResultProof)
		}
		return json.Marshal(rec)
	case preprocessor.ProcessedModule:
		rec := bundleModule{
			Type:           "Module",
			EncodedTask:    hexutil.Encode(v.EncodedTask),
			TaskCommitment: v.TaskCommitment.Hex(),
			TaskProof:      hexHashes(v.TaskProof),
		}
		return json.Marshal(rec)
	default:
		return nil, fmt.Errorf("output: unknown task record type %T", t)
	}
}

func renderProofs(p preprocessor.ProcessedBlockProofs) bundleProofs {
	out := bundleProofs{
		MMRWithHeaders:      make([]bundleMMRWithHeaders, len(p.MMRWithHeaders)),
		Accounts:            make([]bundleAccount, len(p.Accounts)),
		Storages:            make([]bundleStorage, len(p.Storages)),
		Transactions:        make([]bundleTxProof, len(p.Transactions)),
		TransactionReceipts: make([]bundleTxProof, len(p.TransactionReceipts)),
	}
	for i, mh := range p.MMRWithHeaders {
		out.MMRWithHeaders[i] = bundleMMRWithHeaders{
			MMR:     renderMMR(mh.MMR),
			Headers: renderHeaders(mh.Headers),
		}
	}
	for i, a := range p.Accounts {
		out.Accounts[i] = bundleAccount{
			Address: a.Address.Hex(),
			Proofs:  renderMPTProofs(a.Proofs),
		}
	}
	for i, s := range p.Storages {
		out.Storages[i] = bundleStorage{
			Address: s.Address.Hex(),
			Slot:    s.Slot.Hex(),
			Proofs:  renderMPTProofs(s.Proofs),
		}
	}
	for i, t := range p.Transactions {
		out.Transactions[i] = bundleTxProof{
			BlockNumber: t.BlockNumber,
			TxIndex:     t.TxIndex,
			ProofNodes:  hexBytesList(t.ProofNodes),
		}
	}
	for i, rc := range p.TransactionReceipts {
		out.TransactionReceipts[i] = bundleTxProof{
			BlockNumber: rc.BlockNumber,
			TxIndex:     rc.TxIndex,
			ProofNodes:  hexBytesList(rc.ProofNodes),
		}
	}
	return out
}

func renderMMR(m primitives.MMRMeta) bundleMMR {
	return bundleMMR{
		Id:      m.Id,
		Root:    m.Root.Hex(),
		Size:    m.Size,
		Peaks:   hexHashes(m.Peaks),
		ChainId: uint64(m.ChainId),
	}
}

func renderHeaders(hs []primitives.ProcessedHeader) []bundleHeader {
	out := make([]bundleHeader, len(hs))
	for i, h := range hs {
		out[i] = bundleHeader{
			BlockNumber:  h.BlockNumber,
			RLP:          hexutil.Encode(h.RLP),
			MMRLeafIndex: h.MMRLeafIndex,
			MMRSiblings:  hexHashes(h.MMRSiblings),
		}
	}
	return out
}

func renderMPTProofs(ps []primitives.ProcessedMPTProof) []bundleMPTProof {
	out := make([]bundleMPTProof, len(ps))
	for i, p := range ps {
		out[i] = bundleMPTProof{BlockNumber: p.BlockNumber, Nodes: hexBytesList(p.Nodes)}
	}
	return out
}

func hexHashes(hs []common.Hash) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = h.Hex()
	}
	return out
}

func hexBytesList(bs [][]byte) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = hexutil.Encode(b)
	}
	return out
}
