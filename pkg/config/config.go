// Package config provides configuration for the validation harness.
//
// Values are resolved in three layers, later layers winning: hardcoded
// defaults, an optional YAML file, and WINPATH_VALIDATE_* environment
// variables (WINPATH_VALIDATE_CARGO_BINARY overrides cargo_binary, and
// so on).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix selects the environment variables that override config fields.
const envPrefix = "WINPATH_VALIDATE_"

// Duration wraps time.Duration for text unmarshaling from YAML and
// environment variables.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if parsed < 0 {
		return fmt.Errorf("duration cannot be negative: %s", text)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration().String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config holds the harness settings.
type Config struct {
	// ProjectRoot is the winutils workspace root containing the library.
	ProjectRoot string `koanf:"project_root"`

	// WinpathDir is the library directory, joined to ProjectRoot unless
	// absolute.
	WinpathDir string `koanf:"winpath_dir"`

	// ResultsDir is where report artifacts are written, joined to
	// ProjectRoot unless absolute.
	ResultsDir string `koanf:"results_dir"`

	// CargoBinary is the build tool invoked for every check.
	CargoBinary string `koanf:"cargo_binary"`

	// CommandTimeout bounds each individual tool invocation.
	CommandTimeout Duration `koanf:"command_timeout"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ProjectRoot:    ".",
		WinpathDir:     filepath.Join("shared", "winpath"),
		ResultsDir:     "test-results",
		CargoBinary:    "cargo",
		CommandTimeout: Duration(300 * time.Second),
	}
}

// Load resolves configuration from defaults, the optional YAML file at
// path, and environment variables. An empty path skips the file layer;
// a non-empty path must exist and parse.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	// Environment variables map flat: WINPATH_VALIDATE_PROJECT_ROOT
	// becomes project_root.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks invariants the resolved config must satisfy.
func (c *Config) Validate() error {
	if c.ProjectRoot == "" {
		return fmt.Errorf("project root must not be empty")
	}
	if c.WinpathDir == "" {
		return fmt.Errorf("winpath directory must not be empty")
	}
	if c.CargoBinary == "" {
		return fmt.Errorf("cargo binary must not be empty")
	}
	if c.CommandTimeout.Duration() <= 0 {
		return fmt.Errorf("command timeout must be positive, got %v", c.CommandTimeout.Duration())
	}
	return nil
}

// WinpathPath returns the resolved library directory.
func (c *Config) WinpathPath() string {
	if filepath.IsAbs(c.WinpathDir) {
		return c.WinpathDir
	}
	return filepath.Join(c.ProjectRoot, c.WinpathDir)
}

// ResultsPath returns the resolved report directory.
func (c *Config) ResultsPath() string {
	if filepath.IsAbs(c.ResultsDir) {
		return c.ResultsDir
	}
	return filepath.Join(c.ProjectRoot, c.ResultsDir)
}
