package codec

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/herodotus/hdp-go/primitives"
)

// DatalakeCommitment computes `keccak(encode(datalake))` (spec §3).
func DatalakeCommitment(d primitives.Datalake) (common.Hash, error) {
	encoded, err := EncodeDatalake(d)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(encoded), nil
}

// TaskCommitment computes
//
//	keccak(32-byte datalake_commitment ‖ 32-byte be aggregate_fn_id ‖
//	       32-byte be operator ‖ 32-byte be value_to_compare)
//
// per spec §3. The 32-byte alignment and big-endian layout of every word is
// part of the wire contract, matched bit-for-bit against the on-chain
// contract's commitment scheme.
func TaskCommitment(d primitives.Datalake, c primitives.Computation) (common.Hash, error) {
	dlCommit, err := DatalakeCommitment(d)
	if err != nil {
		return common.Hash{}, err
	}
	fnWord := primitives.U256FromUint64(uint64(c.AggregateFnId)).Bytes32()
	opWord := primitives.U256FromUint64(uint64(c.Ctx.Operator)).Bytes32()
	valWord := c.Ctx.ValueToCompare.Bytes32()

	buf := make([]byte, 0, 128)
	buf = append(buf, dlCommit[:]...)
	buf = append(buf, fnWord[:]...)
	buf = append(buf, opWord[:]...)
	buf = append(buf, valWord[:]...)
	return crypto.Keccak256Hash(buf), nil
}

// ResultCommitment computes `keccak(32-byte task_commitment ‖ 32-byte be
// result)` (spec §3). Only called for pre-processable aggregations.
func ResultCommitment(taskCommitment common.Hash, result primitives.U256) common.Hash {
	resultWord := result.Bytes32()
	buf := make([]byte, 0, 64)
	buf = append(buf, taskCommitment[:]...)
	buf = append(buf, resultWord[:]...)
	return crypto.Keccak256Hash(buf)
}
