package primitives

import "fmt"

// ChainId identifies a supported chain by its stable, bit-exact numeric id
// (spec §3 "ChainId"). The id is stored as a uint64 since every chain this
// pipeline targets today fits comfortably below 2^64; the wire/commitment
// layer still treats it as a 128-bit field by zero-extending to U256.
type ChainId uint64

const (
	ChainEthereumMainnet ChainId = 1
	ChainSepolia         ChainId = 11155111
	ChainGoerli          ChainId = 5
	ChainStarknetMainnet ChainId = 23448594291968334
	ChainStarknetSepolia ChainId = 393402133025997798
)

var chainNames = map[ChainId]string{
	ChainEthereumMainnet: "ETHEREUM_MAINNET",
	ChainSepolia:         "ETHEREUM_SEPOLIA",
	ChainGoerli:          "ETHEREUM_GOERLI",
	ChainStarknetMainnet: "STARKNET_MAINNET",
	ChainStarknetSepolia: "STARKNET_SEPOLIA",
}

// String renders the UPPER_SNAKE chain name used on the CLI surface.
func (c ChainId) String() string {
	if name, ok := chainNames[c]; ok {
		return name
	}
	return fmt.Sprintf("CHAIN_%d", uint64(c))
}

// U256 zero-extends the chain id into the 256-bit commitment value space.
func (c ChainId) U256() U256 {
	return U256FromUint64(uint64(c))
}
