// Package config loads the CLI configuration file.
//
// Example file:
//
//	dim: 3
//	format: json
//	parallel:
//	  enabled: true
//	  workers: 8
//	  min_chunk_size: 64
//	cache:
//	  path: ~/.cache/isoortho.db
//	log:
//	  level: debug
//	  format: json
//	metrics:
//	  textfile: /var/lib/node_exporter/isoortho.prom
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lbtheory/isoortho/internal/kronecker"
	"github.com/lbtheory/isoortho/internal/parallel"
)

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("config: invalid value")

// Output and log formats.
var (
	ValidFormats    = []string{"text", "json", "yaml"}
	ValidLogFormats = []string{"text", "json"}
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
)

// Config is the CLI configuration.
type Config struct {
	// Dim is the default space dimension for commands taking --dim.
	Dim int `yaml:"dim"`

	// Format is the default output format.
	Format string `yaml:"format"`

	Parallel parallel.Config `yaml:"parallel"`
	Cache    CacheConfig     `yaml:"cache"`
	Log      LogConfig       `yaml:"log"`
	Metrics  MetricsConfig   `yaml:"metrics"`
}

// CacheConfig selects the persistent tensor cache.
// An empty Path disables it.
type CacheConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LogConfig configures diagnostic logging on stderr.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig selects where Prometheus metrics are written after each
// command. An empty Textfile disables metrics.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Dim:      3,
		Format:   "text",
		Parallel: parallel.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults.
// An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the user's --config flag
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed values.
func (c Config) Validate() error {
	if !kronecker.Supported(c.Dim) {
		return fmt.Errorf("%w: dim %d (must be %d..%d)", ErrInvalid, c.Dim, kronecker.MinDim, kronecker.MaxDim)
	}
	if !oneOf(c.Format, ValidFormats) {
		return fmt.Errorf("%w: format %q (must be one of %v)", ErrInvalid, c.Format, ValidFormats)
	}
	if c.Parallel.NumWorkers < 0 {
		return fmt.Errorf("%w: parallel.workers %d", ErrInvalid, c.Parallel.NumWorkers)
	}
	if c.Parallel.MinChunkSize < 0 {
		return fmt.Errorf("%w: parallel.min_chunk_size %d", ErrInvalid, c.Parallel.MinChunkSize)
	}
	if !oneOf(c.Log.Level, ValidLogLevels) {
		return fmt.Errorf("%w: log.level %q (must be one of %v)", ErrInvalid, c.Log.Level, ValidLogLevels)
	}
	if !oneOf(c.Log.Format, ValidLogFormats) {
		return fmt.Errorf("%w: log.format %q (must be one of %v)", ErrInvalid, c.Log.Format, ValidLogFormats)
	}
	return nil
}

func oneOf(s string, allowed []string) bool {
	for _, a := range allowed {
		if a == s {
			return true
		}
	}
	return false
}
