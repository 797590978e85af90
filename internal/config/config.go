// Package config loads runtime configuration for a UCAN validating
// party: which signature algorithms it accepts, the codec new envelopes
// are signed under, and how much clock skew it tolerates when checking a
// delegation or invocation's time window. It is a pure data object
// passed to constructors, never a package-level singleton.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ucan-wg/go-ucan/pkg/did"
	"github.com/ucan-wg/go-ucan/pkg/envelope"
)

// Config is the top-level runtime configuration document.
type Config struct {
	Environment string         `yaml:"environment"`
	Keys        KeySettings    `yaml:"keys"`
	Envelope    EnvelopeSettings `yaml:"envelope"`
	Clock       ClockSettings  `yaml:"clock"`
}

// KeySettings names the subset of the closed did:key algorithm set this
// party accepts as issuer or audience keys. An empty list means every
// algorithm pkg/did implements is accepted.
type KeySettings struct {
	Enabled []string `yaml:"enabled"`
}

// EnvelopeSettings controls how this party's own envelopes are encoded.
// It never restricts which codec an incoming envelope may use —
// pkg/envelope already validates that against the closed codec set.
type EnvelopeSettings struct {
	DefaultCodec string `yaml:"default_codec"`
}

// ClockSettings bounds how far a checker's nbf/exp comparisons may drift
// from a delegation or invocation's claimed time window.
type ClockSettings struct {
	SkewTolerance Duration `yaml:"skew_tolerance"`
}

// Duration wraps time.Duration for YAML unmarshaling as a string like
// "30s" rather than a raw nanosecond integer.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads a YAML configuration document from path, substituting
// ${VAR_NAME} / ${VAR_NAME:-default} references against the environment
// before parsing, then applies defaults for anything left unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := substituteEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Envelope.DefaultCodec == "" {
		c.Envelope.DefaultCodec = "DagCbor"
	}
	if c.Clock.SkewTolerance == 0 {
		c.Clock.SkewTolerance = Duration(0)
	}
}

// keyTypesByName maps the YAML-facing algorithm names to pkg/did's
// KeyType values, the inverse of KeyType.String.
var keyTypesByName = map[string]did.KeyType{
	"EdDSA":      did.KeyTypeEdDSA,
	"ES256":      did.KeyTypeES256,
	"ES256K":     did.KeyTypeES256K,
	"ES384":      did.KeyTypeES384,
	"ES512":      did.KeyTypeES512,
	"RS256":      did.KeyTypeRS256,
	"RS512":      did.KeyTypeRS512,
	"BLS12381G1": did.KeyTypeBLS12381G1,
	"BLS12381G2": did.KeyTypeBLS12381G2,
}

var allKeyTypes = []did.KeyType{
	did.KeyTypeEdDSA, did.KeyTypeES256, did.KeyTypeES256K, did.KeyTypeES384,
	did.KeyTypeES512, did.KeyTypeRS256, did.KeyTypeRS512,
	did.KeyTypeBLS12381G1, did.KeyTypeBLS12381G2,
}

var codecsByName = map[string]envelope.Codec{
	"Identity": envelope.CodecIdentity,
	"DagPb":    envelope.CodecDagPb,
	"DagCbor":  envelope.CodecDagCbor,
	"DagJson":  envelope.CodecDagJson,
	"Jwt":      envelope.CodecJwt,
	"Eip191":   envelope.CodecEip191,
}

// EnabledKeyTypes resolves Keys.Enabled to pkg/did key types. An empty
// list resolves to every key type pkg/did implements.
func (c *Config) EnabledKeyTypes() ([]did.KeyType, error) {
	if len(c.Keys.Enabled) == 0 {
		return allKeyTypes, nil
	}
	kts := make([]did.KeyType, 0, len(c.Keys.Enabled))
	for _, name := range c.Keys.Enabled {
		kt, ok := keyTypesByName[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("config: unknown key type %q", name)
		}
		kts = append(kts, kt)
	}
	return kts, nil
}

// DefaultEnvelopeCodec resolves Envelope.DefaultCodec to a pkg/envelope
// codec value.
func (c *Config) DefaultEnvelopeCodec() (envelope.Codec, error) {
	codec, ok := codecsByName[c.Envelope.DefaultCodec]
	if !ok {
		return 0, fmt.Errorf("config: unknown envelope codec %q", c.Envelope.DefaultCodec)
	}
	return codec, nil
}

// ClockSkewTolerance returns the configured clock skew tolerance.
func (c *Config) ClockSkewTolerance() time.Duration {
	return c.Clock.SkewTolerance.Duration()
}

// Validate checks that every configured name resolves to a value this
// module knows how to use.
func (c *Config) Validate() error {
	if _, err := c.EnabledKeyTypes(); err != nil {
		return err
	}
	if _, err := c.DefaultEnvelopeCodec(); err != nil {
		return err
	}
	if c.Clock.SkewTolerance.Duration() < 0 {
		return fmt.Errorf("config: clock.skew_tolerance must not be negative")
	}
	return nil
}
