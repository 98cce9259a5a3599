package main

import (
	"github.com/urfave/cli/v2"

	"github.com/herodotus/hdp-go/config"
)

// ioFlags is the set of I/O flags common to every verb that emits a bundle
// (spec §6: --rpc-url, --chain-id, --preprocessor-output-file,
// --output-file, --cairo-pie-file).
func ioFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "rpc-url", Usage: "Ethereum JSON-RPC endpoint"},
		&cli.StringFlag{Name: "indexer-url", Usage: "header-proof indexer base URL"},
		&cli.Uint64Flag{Name: "chain-id", Usage: "chain id to fetch from"},
		&cli.StringFlag{Name: "config-file", Usage: "path to a YAML config file"},
		&cli.StringFlag{Name: "preprocessor-output-file", Usage: "path to write the general (hex) bundle"},
		&cli.StringFlag{Name: "output-file", Usage: "alias for --preprocessor-output-file"},
		&cli.StringFlag{Name: "cairo-pie-file", Usage: "path to write the Cairo-format bundle"},
	}
}

// loadConfig layers config.Load's file/env defaults under the CLI's own
// flag values, the highest-priority layer (spec §6 "Environment").
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config-file"))
	if err != nil {
		return nil, err
	}

	outputFile := c.String("preprocessor-output-file")
	if outputFile == "" {
		outputFile = c.String("output-file")
	}

	config.MergeFlags(cfg, config.Config{
		RPCURL:                 c.String("rpc-url"),
		IndexerBaseURL:         c.String("indexer-url"),
		ChainID:                c.Uint64("chain-id"),
		PreprocessorOutputFile: outputFile,
		CairoPieFile:           c.String("cairo-pie-file"),
	})

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
