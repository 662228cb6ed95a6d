package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/edugen/internal/content"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"EDUGEN_LLM_PROVIDER", "EDUGEN_OPENAI_MODEL", "EDUGEN_FREE_MODEL", "EDUGEN_PAID_MODEL",
		"EDUGEN_LOG_LEVEL", "EDUGEN_DB", "EDUGEN_MAX_BACKFILL_ATTEMPTS", "EDUGEN_CALL_TIMEOUT",
		"EDUGEN_AGENT_VALIDATION", "EDUGEN_AGENT_CONCURRENCY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 3, cfg.Generator.MaxBackfillAttempts)
	assert.Equal(t, 90*time.Second, cfg.Generator.CallTimeout)
	assert.True(t, cfg.Generator.AgentValidation)
	assert.Len(t, cfg.Generator.Formats, 3)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingRequiredFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
llm:
  provider: openai
  openai:
    model: gpt-4o
  tiers:
    free: gpt-4o-mini
    paid: gpt-4o
  retry:
    max_attempts: 5
    initial_wait: 500ms
generator:
  max_backfill_attempts: 2
  call_timeout: 45s
  agent_validation: false
  formats:
    test:
      item_types: [single_choice]
      variants:
        - {selection: 4}
agent:
  concurrency: 2
log:
  level: debug
  development: true
db: /tmp/edugen-test.db
`)
	cfg, err := Load(path, true)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model, "untouched sections keep defaults")
	assert.Equal(t, 5, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, 10*time.Second, cfg.LLM.Retry.MaxWait)

	assert.Equal(t, 2, cfg.Generator.MaxBackfillAttempts)
	assert.Equal(t, 45*time.Second, cfg.Generator.CallTimeout)
	assert.False(t, cfg.Generator.AgentValidation)
	assert.Equal(t, []content.TargetCounts{{Selection: 4}}, cfg.Generator.Formats[content.FormatTest].Variants)
	assert.Contains(t, cfg.Generator.Formats, content.FormatMixed, "other formats keep defaults")

	assert.Equal(t, 2, cfg.Agent.Concurrency)
	assert.Equal(t, LogConfig{Level: "debug", Development: true}, cfg.Log)
	assert.Equal(t, "/tmp/edugen-test.db", cfg.DB)

	gc := cfg.GeneratorConfig()
	assert.Equal(t, "gpt-4o", gc.Tiers.SelectModel(true))
	assert.Equal(t, "gpt-4o-mini", cfg.ReviewerConfig().Model)
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "generator:\n  max_backfill_attempts: 2\nlog:\n  level: debug\n")
	t.Setenv("EDUGEN_MAX_BACKFILL_ATTEMPTS", "1")
	t.Setenv("EDUGEN_LOG_LEVEL", "error")
	t.Setenv("EDUGEN_CALL_TIMEOUT", "10s")
	t.Setenv("EDUGEN_AGENT_VALIDATION", "false")
	t.Setenv("EDUGEN_PAID_MODEL", "big-model")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Generator.MaxBackfillAttempts)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 10*time.Second, cfg.Generator.CallTimeout)
	assert.False(t, cfg.Generator.AgentValidation)
	assert.Equal(t, "big-model", cfg.LLM.Tiers.Paid)
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""), true)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Generator.MaxBackfillAttempts)
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "unknown key", yaml: "generator:\n  max_backfil_attempts: 2\n"},
		{name: "negative attempts", yaml: "generator:\n  max_backfill_attempts: -1\n"},
		{name: "bad level", yaml: "log:\n  level: loud\n"},
		{name: "empty variant", yaml: "generator:\n  formats:\n    open:\n      variants: [{open: 0}]\n"},
		{name: "unknown item type", yaml: "generator:\n  formats:\n    open:\n      item_types: [essay]\n      variants: [{open: 3}]\n"},
		{name: "slides out of range", yaml: "generator:\n  default_slides: 50\n"},
		{name: "bad env duration", env: map[string]string{"EDUGEN_CALL_TIMEOUT": "soon"}},
		{name: "bad env bool", env: map[string]string{"EDUGEN_AGENT_VALIDATION": "maybe"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(writeConfig(t, tt.yaml), true)
			assert.Error(t, err)
		})
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("EDUGEN_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", "edugen", "config.yaml"), DefaultPath())

	t.Setenv("EDUGEN_CONFIG", "/etc/edugen.yaml")
	assert.Equal(t, "/etc/edugen.yaml", DefaultPath())
}
