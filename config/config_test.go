package config

import "testing"

func TestDefaultHasNoEmptyRequiredFields(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("Validate(Default()) = %v, want nil", err)
	}
}

func TestApplyEnvironmentOverridesRPCURL(t *testing.T) {
	cfg := Default()
	t.Setenv("HDP_RPC_URL", "http://example.invalid:9999")
	ApplyEnvironment(&cfg)
	if cfg.RPCURL != "http://example.invalid:9999" {
		t.Errorf("RPCURL = %q, want override", cfg.RPCURL)
	}
}

func TestApplyEnvironmentLeavesUnsetFieldsAlone(t *testing.T) {
	cfg := Default()
	want := cfg.IndexerBaseURL
	ApplyEnvironment(&cfg)
	if cfg.IndexerBaseURL != want {
		t.Errorf("IndexerBaseURL changed with no env var set: got %q, want %q", cfg.IndexerBaseURL, want)
	}
}

func TestMergeFlagsOnlyOverridesNonZeroFields(t *testing.T) {
	cfg := Default()
	originalIndexer := cfg.IndexerBaseURL
	MergeFlags(&cfg, Config{RPCURL: "http://override:1"})
	if cfg.RPCURL != "http://override:1" {
		t.Errorf("RPCURL = %q, want override", cfg.RPCURL)
	}
	if cfg.IndexerBaseURL != originalIndexer {
		t.Errorf("IndexerBaseURL = %q, want unchanged %q", cfg.IndexerBaseURL, originalIndexer)
	}
}

func TestValidateRejectsEmptyRPCURL(t *testing.T) {
	cfg := Default()
	cfg.RPCURL = ""
	if err := Validate(&cfg); err == nil {
		t.Error("Validate accepted an empty rpc_url")
	}
}

func TestValidateRejectsZeroChainID(t *testing.T) {
	cfg := Default()
	cfg.ChainID = 0
	if err := Validate(&cfg); err == nil {
		t.Error("Validate accepted a zero chain_id")
	}
}

func TestLoadWithMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/path/does-not-exist.yaml")
	if err != nil {
		t.Fatalf("Load(missing file) = %v, want nil error (missing config is not fatal)", err)
	}
	if cfg.RPCURL != Default().RPCURL {
		t.Errorf("RPCURL = %q, want default %q", cfg.RPCURL, Default().RPCURL)
	}
}
