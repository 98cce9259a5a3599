// Package config loads hdp-go's runtime configuration from, in increasing
// priority order, built-in defaults, an optional YAML file, an optional
// .env file, and environment variables (spec §6 "Environment": ".env is
// loaded if present; no variable is mandatory for the core").
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"github.com/herodotus/hdp-go/primitives"
)

// ErrInvalidConfig wraps every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full set of knobs the CLI and provider need (spec §6 CLI
// surface: --rpc-url, --chain-id, --preprocessor-output-file,
// --output-file, --cairo-pie-file).
type Config struct {
	RPCURL                 string `yaml:"rpcUrl"`
	IndexerBaseURL         string `yaml:"indexerBaseUrl"`
	ChainID                uint64 `yaml:"chainId"`
	CacheBytes             int    `yaml:"cacheBytes"`
	LogLevel               string `yaml:"logLevel"`
	OutputFile             string `yaml:"outputFile"`
	PreprocessorOutputFile string `yaml:"preprocessorOutputFile"`
	CairoPieFile           string `yaml:"cairoPieFile"`
}

// Default returns the built-in baseline, matching the teacher's
// DefaultConfig convention: every field has a usable zero-network value.
func Default() Config {
	return Config{
		RPCURL:         "http://127.0.0.1:8545",
		IndexerBaseURL: "https://rs-indexer.api.herodotus.cloud",
		ChainID:        uint64(primitives.ChainEthereumMainnet),
		CacheBytes:     64 << 20,
		LogLevel:       "info",
	}
}

// Load builds a Config by layering, lowest priority first: Default(), the
// YAML file at path (skipped if path is empty or missing), a .env file in
// the working directory (skipped if missing), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := mergeYAMLFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	ApplyEnvironment(&cfg)
	return &cfg, nil
}

func mergeYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnvironment overrides cfg's fields from HDP_-prefixed environment
// variables, matching the teacher's ETH2028_-prefixed override convention.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv("HDP_RPC_URL"); v != "" {
		cfg.RPCURL = v
	}
	if v := os.Getenv("HDP_INDEXER_URL"); v != "" {
		cfg.IndexerBaseURL = v
	}
	if v := os.Getenv("HDP_CHAIN_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.ChainID = n
		}
	}
	if v := os.Getenv("HDP_CACHE_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheBytes = n
		}
	}
	if v := os.Getenv("HDP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HDP_OUTPUT_FILE"); v != "" {
		cfg.OutputFile = v
	}
	if v := os.Getenv("HDP_PREPROCESSOR_OUTPUT_FILE"); v != "" {
		cfg.PreprocessorOutputFile = v
	}
	if v := os.Getenv("HDP_CAIRO_PIE_FILE"); v != "" {
		cfg.CairoPieFile = v
	}
}

// MergeFlags applies CLI-flag-sourced overrides, the highest-priority
// layer, matching the teacher's MergeCLIFlags convention. Zero-valued
// fields in override leave cfg unchanged.
func MergeFlags(cfg *Config, override Config) {
	if override.RPCURL != "" {
		cfg.RPCURL = override.RPCURL
	}
	if override.IndexerBaseURL != "" {
		cfg.IndexerBaseURL = override.IndexerBaseURL
	}
	if override.ChainID != 0 {
		cfg.ChainID = override.ChainID
	}
	if override.CacheBytes != 0 {
		cfg.CacheBytes = override.CacheBytes
	}
	if override.LogLevel != "" {
		cfg.LogLevel = override.LogLevel
	}
	if override.OutputFile != "" {
		cfg.OutputFile = override.OutputFile
	}
	if override.PreprocessorOutputFile != "" {
		cfg.PreprocessorOutputFile = override.PreprocessorOutputFile
	}
	if override.CairoPieFile != "" {
		cfg.CairoPieFile = override.CairoPieFile
	}
}

// Validate checks cfg for the minimum viable run: a non-empty RPC URL, a
// non-zero chain id and a non-negative cache size.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if cfg.RPCURL == "" {
		return fmt.Errorf("%w: rpc_url is required", ErrInvalidConfig)
	}
	if cfg.ChainID == 0 {
		return fmt.Errorf("%w: chain_id is required", ErrInvalidConfig)
	}
	if cfg.CacheBytes < 0 {
		return fmt.Errorf("%w: cache_bytes must be >= 0", ErrInvalidConfig)
	}
	return nil
}
