package codec

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/herodotus/hdp-go/primitives"
)

// EncodeTask ABI-encodes a DatalakeCompute task's wire payload as the
// concatenation of its encoded datalake and encoded computation (spec §4.6
// "encoded_task").
func EncodeTask(d primitives.Datalake, c primitives.Computation) ([]byte, error) {
	encodedDatalake, err := EncodeDatalake(d)
	if err != nil {
		return nil, err
	}
	encodedComputation, err := EncodeComputation(c)
	if err != nil {
		return nil, err
	}
	return append(encodedDatalake, encodedComputation...), nil
}

// EncodeModuleTask ABI-encodes a ModuleTask as the 3-tuple (class: uint8,
// program_hash: bytes32, inputs: uint256[]), per SPEC_FULL §7 "Module task
// registry skeleton".
func EncodeModuleTask(m primitives.ModuleTask) ([]byte, error) {
	inputs := make([]*big.Int, len(m.Inputs))
	for i, v := range m.Inputs {
		inputs[i] = v.Big()
	}
	packed, err := moduleTaskArgs.Pack(uint8(m.Class), m.ProgramHash, inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAbiLayout, err)
	}
	return packed, nil
}

// ModuleTaskCommitment computes keccak(encode(module_task)), mirroring
// DatalakeCommitment's scheme for the module-task variant (SPEC_FULL §7).
// Execution of the referenced bytecode is out of scope; only its commitment
// flows through the pipeline.
func ModuleTaskCommitment(m primitives.ModuleTask) (common.Hash, error) {
	encoded, err := EncodeModuleTask(m)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}
