package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maestro-agents/maestro/core"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MAESTRO_NTFY_TOPIC", "maestro-alerts")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.Addr)
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, 4*time.Hour, cfg.EmailSweepInterval)
	assert.Equal(t, 5*time.Minute, cfg.ReminderSweepInterval)
	assert.Equal(t, 30*time.Minute, cfg.DeadlineSweepInterval)
	assert.Zero(t, cfg.MaxSteps)
}

func TestLoad_MissingKeyForProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MAESTRO_NTFY_TOPIC", "maestro-alerts")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *core.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "config", cfgErr.Component)
}

func TestLoad_AnthropicProvider(t *testing.T) {
	t.Setenv("MAESTRO_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("MAESTRO_NTFY_TOPIC", "maestro-alerts")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
}

func TestLoad_UnknownProvider(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MAESTRO_PROVIDER", "gemini")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MissingNtfyTopic(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("MAESTRO_NTFY_TOPIC", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_IntervalOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MAESTRO_EMAIL_SWEEP_INTERVAL", "1h")
	t.Setenv("MAESTRO_MAX_STEPS", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.EmailSweepInterval)
	assert.Equal(t, 12, cfg.MaxSteps)
}

func TestLoad_InvalidDuration(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("MAESTRO_REMINDER_SWEEP_INTERVAL", "often")

	_, err := Load()
	require.Error(t, err)
}
