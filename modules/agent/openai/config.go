package openai

import (
	"fmt"
	"time"
)

// Config holds the configuration for the OpenAI Assistants agent module.
type Config struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`

	// DatasetPath is the local context artifact uploaded to the
	// backend at the start of every invocation.
	DatasetPath string `yaml:"dataset_path"`

	// Instructions overrides the built-in analyst instruction
	// template. Supports {{now}} and {{dataset}} placeholders.
	Instructions string `yaml:"instructions"`

	// Temperature for assistant runs. Defaults to 0 (deterministic
	// analytical output).
	Temperature float64 `yaml:"temperature"`

	// PollInterval is the delay between run-status checks.
	PollInterval string `yaml:"poll_interval"`

	// RunTimeout bounds one whole invocation, upload through
	// extraction. Exceeding it yields a timeout outcome, not a failure.
	RunTimeout string `yaml:"run_timeout"`

	// Timeout is the per-HTTP-request timeout.
	Timeout string `yaml:"timeout"`
}

// defaults fills zero-valued fields with sensible defaults.
func (c *Config) defaults() {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Model == "" {
		c.Model = "gpt-4.1"
	}
	if c.PollInterval == "" {
		c.PollInterval = "200ms"
	}
	if c.RunTimeout == "" {
		c.RunTimeout = "10m"
	}
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

// parsedDuration returns the named duration field, falling back when
// the value has not been validated.
func parsedDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func (c *Config) pollInterval() time.Duration {
	return parsedDuration(c.PollInterval, 200*time.Millisecond)
}
func (c *Config) runTimeout() time.Duration  { return parsedDuration(c.RunTimeout, 10*time.Minute) }
func (c *Config) httpTimeout() time.Duration { return parsedDuration(c.Timeout, 60*time.Second) }

// validateDurations checks that all duration strings parse.
func (c *Config) validateDurations() error {
	for name, value := range map[string]string{
		"poll_interval": c.PollInterval,
		"run_timeout":   c.RunTimeout,
		"timeout":       c.Timeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("agent.openai: invalid %s %q: %w", name, value, err)
		}
	}
	return nil
}
