package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects the backend: "anthropic", "openai", "gemini",
	// "openrouter" or "mock".
	Provider string `yaml:"provider"`

	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	OpenAI     OpenAIConfig     `yaml:"openai"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Retry      RetryConfig      `yaml:"retry"`

	// Tiers picks the model per request tier. Empty entries use the
	// selected provider's model.
	Tiers Tiers `yaml:"tiers"`
}

// AnthropicConfig configures the Anthropic Messages API.
type AnthropicConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// OpenAIConfig configures the OpenAI chat completions API or any
// compatible endpoint set through BaseURL.
type OpenAIConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// GeminiConfig configures the Gemini API.
type GeminiConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// OpenRouterConfig configures OpenRouter. Models use OpenRouter's
// "vendor/model" names.
type OpenRouterConfig struct {
	APIKey  string `yaml:"-"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RetryConfig configures retries of transient failures. See WithRetry.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// DefaultConfig returns the built-in LLM configuration.
func DefaultConfig() Config {
	return Config{
		Provider:   "anthropic",
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.0-flash-exp"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
	}
}

// endpoint points at the credential fields of one provider section.
type endpoint struct {
	name    string
	apiKey  *string
	model   *string
	baseURL *string
}

// endpoints lists the remote providers in key discovery order.
func (c *Config) endpoints() []endpoint {
	return []endpoint{
		{"gemini", &c.Gemini.APIKey, &c.Gemini.Model, &c.Gemini.BaseURL},
		{"openai", &c.OpenAI.APIKey, &c.OpenAI.Model, &c.OpenAI.BaseURL},
		{"anthropic", &c.Anthropic.APIKey, &c.Anthropic.Model, &c.Anthropic.BaseURL},
		{"openrouter", &c.OpenRouter.APIKey, &c.OpenRouter.Model, &c.OpenRouter.BaseURL},
	}
}

func (c *Config) endpoint(name string) (endpoint, bool) {
	for _, ep := range c.endpoints() {
		if ep.name == name {
			return ep, true
		}
	}
	return endpoint{}, false
}

// envName returns EDUGEN_<PROVIDER>_<FIELD>.
func envName(provider, field string) string {
	return "EDUGEN_" + strings.ToUpper(provider) + "_" + field
}

func setFromEnv(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// ApplyEnv overrides cfg with the EDUGEN_* variables that are set:
// EDUGEN_LLM_PROVIDER, EDUGEN_FREE_MODEL, EDUGEN_PAID_MODEL and
// EDUGEN_<PROVIDER>_API_KEY, _MODEL and _BASE_URL for each provider.
func ApplyEnv(cfg *Config) {
	setFromEnv(&cfg.Provider, "EDUGEN_LLM_PROVIDER")
	for _, ep := range cfg.endpoints() {
		setFromEnv(ep.apiKey, envName(ep.name, "API_KEY"))
		setFromEnv(ep.model, envName(ep.name, "MODEL"))
		setFromEnv(ep.baseURL, envName(ep.name, "BASE_URL"))
	}
	setFromEnv(&cfg.Tiers.Free, "EDUGEN_FREE_MODEL")
	setFromEnv(&cfg.Tiers.Paid, "EDUGEN_PAID_MODEL")
}

// Resolve returns cfg when its provider is usable. Otherwise it switches to
// the first provider whose standard key variable (GEMINI_API_KEY,
// OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY) is set, keeping
// the rest of cfg.
func Resolve(cfg Config) (Config, error) {
	err := cfg.Validate()
	if err == nil {
		return cfg, nil
	}
	for _, ep := range cfg.endpoints() {
		if k := os.Getenv(strings.ToUpper(ep.name) + "_API_KEY"); k != "" {
			*ep.apiKey = k
			cfg.Provider = ep.name
			return cfg, nil
		}
	}
	return cfg, err
}

// Validate checks that the selected provider exists and has an API key.
func (c Config) Validate() error {
	if c.Provider == "mock" {
		return nil
	}
	ep, ok := c.endpoint(c.Provider)
	if !ok {
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if *ep.apiKey == "" {
		return fmt.Errorf("%s is required for the %s provider", envName(ep.name, "API_KEY"), ep.name)
	}
	return nil
}
