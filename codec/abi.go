package codec

import (
	"github.com/ethereum/go-ethereum/accounts/abi"
)

// abiArgs builds a reusable abi.Arguments schema from bare type strings.
// This is the "minimal self-contained implementation" spec §9 calls for:
// rather than hand-rolling dynamic-tail offset arithmetic, the canonical
// Ethereum ABI tuple/bytes packer from go-ethereum/accounts/abi is reused
// for exactly the shapes this codec needs (uint256, uint8, bytes).
func abiArgs(types ...string) abi.Arguments {
	args := make(abi.Arguments, len(types))
	for i, t := range types {
		typ, err := abi.NewType(t, "", nil)
		if err != nil {
			// Every type string used in this package is a compile-time
			// constant from the set {uint256, uint8, bytes}; a failure
			// here is a programming error, not a runtime condition.
			panic("codec: invalid abi type " + t + ": " + err.Error())
		}
		args[i] = abi.Argument{Type: typ}
	}
	return args
}

var (
	blockSampledArgs       = abiArgs("uint256", "uint256", "uint256", "uint256", "bytes")
	transactionsInBlockArgs = abiArgs("uint256", "uint256", "uint256", "uint256", "uint256", "bytes", "bytes")
	computationArgs        = abiArgs("uint8", "uint8", "uint256")
	batchArgs              = abiArgs("bytes[]")
	moduleTaskArgs         = abiArgs("uint8", "bytes32", "uint256[]")
)
