package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ucan-wg/go-ucan/pkg/did"
	"github.com/ucan-wg/go-ucan/pkg/envelope"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: development\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Envelope.DefaultCodec != "DagCbor" {
		t.Fatalf("got default codec %q, want DagCbor", cfg.Envelope.DefaultCodec)
	}
	kts, err := cfg.EnabledKeyTypes()
	if err != nil {
		t.Fatalf("EnabledKeyTypes: %v", err)
	}
	if len(kts) != len(allKeyTypes) {
		t.Fatalf("expected all key types enabled by default, got %d", len(kts))
	}
}

func TestLoadExplicitKeysAndCodec(t *testing.T) {
	path := writeConfig(t, `
environment: production
keys:
  enabled:
    - EdDSA
    - ES256K
envelope:
  default_codec: DagCbor
clock:
  skew_tolerance: 30s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	kts, err := cfg.EnabledKeyTypes()
	if err != nil {
		t.Fatalf("EnabledKeyTypes: %v", err)
	}
	if len(kts) != 2 || kts[0] != did.KeyTypeEdDSA || kts[1] != did.KeyTypeES256K {
		t.Fatalf("unexpected key types: %+v", kts)
	}

	codec, err := cfg.DefaultEnvelopeCodec()
	if err != nil {
		t.Fatalf("DefaultEnvelopeCodec: %v", err)
	}
	if codec != envelope.CodecDagCbor {
		t.Fatalf("got codec %v, want DagCbor", codec)
	}

	if cfg.ClockSkewTolerance().Seconds() != 30 {
		t.Fatalf("got skew tolerance %v, want 30s", cfg.ClockSkewTolerance())
	}
}

func TestLoadUnknownKeyTypeFailsValidate(t *testing.T) {
	path := writeConfig(t, `
keys:
  enabled:
    - NotARealAlgorithm
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected Validate to reject an unknown key type")
	}
}

func TestLoadEnvVarSubstitution(t *testing.T) {
	t.Setenv("UCAN_ENVIRONMENT", "staging")
	path := writeConfig(t, "environment: ${UCAN_ENVIRONMENT:-development}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "staging" {
		t.Fatalf("got environment %q, want staging", cfg.Environment)
	}
}

func TestLoadEnvVarSubstitutionDefault(t *testing.T) {
	path := writeConfig(t, "environment: ${UCAN_ENVIRONMENT_UNSET:-development}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Environment != "development" {
		t.Fatalf("got environment %q, want development", cfg.Environment)
	}
}
