// Package config provides typed configuration for the triage core with
// sensible defaults, YAML file loading and validation. It only carries knobs
// the orchestration core consumes; transport and persistence layers configure
// themselves.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/triagemesh/core"
)

// Mode selects the execution strategy of the orchestrator.
type Mode string

const (
	// ModeFull runs the multi-agent workflow state machine.
	ModeFull Mode = "full"
	// ModeFast issues a single structured completion, bypassing the graph.
	ModeFast Mode = "fast"
)

// CacheConfig bounds the idempotency cache.
type CacheConfig struct {
	// TTL is how long a cached recommendation stays valid.
	TTL time.Duration `yaml:"ttl"`
	// Capacity caps the number of entries; the oldest entry is evicted
	// once the cap is reached. 0 means unbounded.
	Capacity int `yaml:"capacity"`
}

// ModelConfig tunes completion requests issued by agents and the fast path.
type ModelConfig struct {
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// Config is the full orchestration configuration.
type Config struct {
	Mode Mode `yaml:"mode"`

	// MaxIterations bounds the reflection loop.
	MaxIterations int `yaml:"max_iterations"`
	// QualityThreshold is the reflector score at or above which the run
	// proceeds to the checkpoint instead of looping back.
	QualityThreshold float64 `yaml:"quality_threshold"`
	// RetrievalTopK caps hits per evidence collection.
	RetrievalTopK int `yaml:"retrieval_top_k"`

	Cache CacheConfig `yaml:"cache"`
	Model ModelConfig `yaml:"model"`
}

// Default returns the production baseline configuration.
func Default() Config {
	return Config{
		Mode:             ModeFull,
		MaxIterations:    core.DefaultMaxIterations,
		QualityThreshold: 0.7,
		RetrievalTopK:    5,
		Cache: CacheConfig{
			TTL:      24 * time.Hour,
			Capacity: 4096,
		},
		Model: ModelConfig{
			Temperature: 0.3,
			MaxTokens:   1024,
		},
	}
}

// Load reads a YAML file and merges it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the core cannot operate with.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeFull, ModeFast:
	default:
		return fmt.Errorf("invalid mode %q", c.Mode)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.QualityThreshold < 0 || c.QualityThreshold > 1 {
		return fmt.Errorf("quality_threshold must be in [0,1], got %v", c.QualityThreshold)
	}
	if c.RetrievalTopK < 1 {
		return fmt.Errorf("retrieval_top_k must be >= 1, got %d", c.RetrievalTopK)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %v", c.Cache.TTL)
	}
	return nil
}
