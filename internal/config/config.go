// Package config loads the process configuration from the environment.
// Validation is fail-fast: a missing required value surfaces as a
// ConfigurationError at startup, never at request time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/maestro-agents/maestro/core"
	"github.com/maestro-agents/maestro/scheduler"
)

// Provider selects which model backend the assistant runs on.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config is the resolved process configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// Provider is the model backend, openai or anthropic.
	Provider string
	// Model overrides the provider's default model name when set.
	Model string
	// OpenAIAPIKey authenticates against OpenAI. Required for the openai
	// provider and for chromem memory embeddings.
	OpenAIAPIKey string
	// AnthropicAPIKey authenticates against Anthropic. Required for the
	// anthropic provider.
	AnthropicAPIKey string

	// MemoryUserID scopes long-term memory retrieval and recording. Empty
	// disables personalized memory.
	MemoryUserID string
	// MemoryPath persists the memory database on disk. Empty keeps memory
	// in process only.
	MemoryPath string

	// NtfyTopic is the ntfy.sh topic notifications are published to.
	NtfyTopic string
	// NtfyBaseURL overrides the ntfy server.
	NtfyBaseURL string

	// EmailSweepInterval is how often the background email workflow runs.
	EmailSweepInterval time.Duration
	// ReminderSweepInterval is how often due reminders are checked.
	ReminderSweepInterval time.Duration
	// DeadlineSweepInterval is how often event deadlines are checked.
	DeadlineSweepInterval time.Duration

	// MaxSteps overrides the orchestration step ceiling when > 0.
	MaxSteps int
}

// EmailSweepInterval is the default cadence of the background email workflow.
const EmailSweepInterval = 4 * time.Hour

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Addr:                  envOr("MAESTRO_ADDR", ":8000"),
		Provider:              envOr("MAESTRO_PROVIDER", ProviderOpenAI),
		Model:                 os.Getenv("MAESTRO_MODEL"),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:       os.Getenv("ANTHROPIC_API_KEY"),
		MemoryUserID:          os.Getenv("MAESTRO_MEMORY_USER_ID"),
		MemoryPath:            os.Getenv("MAESTRO_MEMORY_PATH"),
		NtfyTopic:             os.Getenv("MAESTRO_NTFY_TOPIC"),
		NtfyBaseURL:           os.Getenv("MAESTRO_NTFY_BASE_URL"),
		EmailSweepInterval:    EmailSweepInterval,
		ReminderSweepInterval: scheduler.ReminderSweepInterval,
		DeadlineSweepInterval: scheduler.DeadlineSweepInterval,
	}

	var err error
	if cfg.EmailSweepInterval, err = envDuration("MAESTRO_EMAIL_SWEEP_INTERVAL", cfg.EmailSweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.ReminderSweepInterval, err = envDuration("MAESTRO_REMINDER_SWEEP_INTERVAL", cfg.ReminderSweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.DeadlineSweepInterval, err = envDuration("MAESTRO_DEADLINE_SWEEP_INTERVAL", cfg.DeadlineSweepInterval); err != nil {
		return Config{}, err
	}
	if cfg.MaxSteps, err = envInt("MAESTRO_MAX_STEPS", 0); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &core.ConfigurationError{Component: "config", Reason: "OPENAI_API_KEY is required for the openai provider"}
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return &core.ConfigurationError{Component: "config", Reason: "ANTHROPIC_API_KEY is required for the anthropic provider"}
		}
	default:
		return &core.ConfigurationError{Component: "config", Reason: fmt.Sprintf("unknown provider %q", c.Provider)}
	}

	if c.NtfyTopic == "" {
		return &core.ConfigurationError{Component: "config", Reason: "MAESTRO_NTFY_TOPIC is required"}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, &core.ConfigurationError{Component: "config", Reason: fmt.Sprintf("%s: invalid duration %q", key, raw)}
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &core.ConfigurationError{Component: "config", Reason: fmt.Sprintf("%s: invalid integer %q", key, raw)}
	}
	return n, nil
}
