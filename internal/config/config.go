// Package config loads edugen settings from an optional YAML file and
// EDUGEN_* environment variables. Precedence, lowest first: built-in
// defaults, the YAML file, the environment, then command-line flags applied
// by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/edugen/internal/generator"
	"github.com/abhisek/edugen/internal/llm"
	"github.com/abhisek/edugen/internal/validation"
)

// Config is the complete edugen configuration.
type Config struct {
	LLM       llm.Config                `yaml:"llm"`
	Generator generator.Config          `yaml:"generator"`
	Agent     validation.ReviewerConfig `yaml:"agent"`
	Log       LogConfig                 `yaml:"log"`

	// DB is the SQLite database path. Empty means the default data path.
	DB string `yaml:"db"`
}

// LogConfig controls logger construction.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM:       llm.DefaultConfig(),
		Generator: generator.DefaultConfig(),
		Agent:     validation.ReviewerConfig{Concurrency: 4, MaxTokens: 1024},
		Log:       LogConfig{Level: "warn"},
	}
}

// DefaultPath returns $EDUGEN_CONFIG, else $XDG_CONFIG_HOME/edugen/config.yaml,
// else ~/.config/edugen/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("EDUGEN_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "edugen", "config.yaml")
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. A missing file is not an error unless required is
// set.
func Load(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode unmarshals data over cfg. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv() error {
	llm.ApplyEnv(&c.LLM)

	if v := os.Getenv("EDUGEN_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("EDUGEN_DB"); v != "" {
		c.DB = v
	}
	if v := os.Getenv("EDUGEN_MAX_BACKFILL_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EDUGEN_MAX_BACKFILL_ATTEMPTS: %w", err)
		}
		c.Generator.MaxBackfillAttempts = n
	}
	if v := os.Getenv("EDUGEN_CALL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("EDUGEN_CALL_TIMEOUT: %w", err)
		}
		c.Generator.CallTimeout = d
	}
	if v := os.Getenv("EDUGEN_AGENT_VALIDATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EDUGEN_AGENT_VALIDATION: %w", err)
		}
		c.Generator.AgentValidation = b
	}
	if v := os.Getenv("EDUGEN_AGENT_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EDUGEN_AGENT_CONCURRENCY: %w", err)
		}
		c.Agent.Concurrency = n
	}
	return nil
}

// Validate checks values a YAML file or the environment could get wrong.
// Provider credentials are checked later, when the provider is built.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	g := c.Generator
	if g.MaxBackfillAttempts < 0 {
		return fmt.Errorf("max_backfill_attempts must be >= 0, got %d", g.MaxBackfillAttempts)
	}
	if g.CallTimeout < 0 {
		return fmt.Errorf("call_timeout must be >= 0, got %s", g.CallTimeout)
	}
	if g.DefaultSlides != 0 && (g.DefaultSlides < generator.MinSlideCount || g.DefaultSlides > generator.MaxSlideCount) {
		return fmt.Errorf("default_slides must be within %d..%d, got %d", generator.MinSlideCount, generator.MaxSlideCount, g.DefaultSlides)
	}
	for format, spec := range g.Formats {
		if len(spec.Variants) == 0 {
			return fmt.Errorf("format %q has no variants", format)
		}
		for i, v := range spec.Variants {
			if v.Open < 0 || v.Selection < 0 || v.Total() == 0 {
				return fmt.Errorf("format %q variant %d: counts must be non-negative and not both zero", format, i)
			}
		}
		for _, t := range spec.ItemTypes {
			if !t.Known() {
				return fmt.Errorf("format %q: unknown item type %q", format, t)
			}
		}
	}
	if c.Agent.Concurrency < 0 {
		return fmt.Errorf("agent concurrency must be >= 0, got %d", c.Agent.Concurrency)
	}
	return nil
}

// GeneratorConfig returns the generator settings with the model tiers of
// the llm section.
func (c *Config) GeneratorConfig() generator.Config {
	gc := c.Generator
	gc.Tiers = c.LLM.Tiers
	return gc
}

// ReviewerConfig returns the agent settings. Reviews default to the
// free-tier model.
func (c *Config) ReviewerConfig() validation.ReviewerConfig {
	rc := c.Agent
	if rc.Model == "" {
		rc.Model = c.LLM.Tiers.Free
	}
	return rc
}
