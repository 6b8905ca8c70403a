package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/bcl"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

// Config is the vx runtime configuration. Zero fields fall back to the
// defaults filled in by Load and Default.
type Config struct {
	LogLevel      string   `json:"log_level" yaml:"log_level"`
	MaxCallDepth  int      `json:"max_call_depth" yaml:"max_call_depth"`
	ModulePaths   []string `json:"module_paths" yaml:"module_paths"`
	Extension     string   `json:"extension" yaml:"extension"`
	HistoryFile   string   `json:"history_file" yaml:"history_file"`
	JoinedResults int64    `json:"joined_results" yaml:"joined_results"`
}

const (
	DefaultLogLevel      = "warn"
	DefaultMaxCallDepth  = 10000
	DefaultExtension     = ".vx"
	DefaultJoinedResults = 1024
)

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.MaxCallDepth == 0 {
		cfg.MaxCallDepth = DefaultMaxCallDepth
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.JoinedResults == 0 {
		cfg.JoinedResults = DefaultJoinedResults
	}
	if cfg.HistoryFile == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.HistoryFile = filepath.Join(home, ".vx_history")
		}
	}
}

// Load reads a config file, choosing the decoder by extension: .yaml/.yml,
// .json or .bcl.
func Load(path string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return load(path, yaml.Unmarshal)
	case ".json":
		return load(path, func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
	case ".bcl":
		return load(path, func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		})
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
}

func load(path string, fn func([]byte, any) error) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(data, fn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func decode(data []byte, fn func([]byte, any) error) (*Config, error) {
	var cfg Config
	if err := fn(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	switch strings.ToLower(cfg.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal":
	default:
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	if cfg.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", cfg.MaxCallDepth)
	}
	if cfg.JoinedResults < 0 {
		return fmt.Errorf("joined_results must be positive, got %d", cfg.JoinedResults)
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		return fmt.Errorf("extension must start with '.', got %q", cfg.Extension)
	}
	return nil
}
