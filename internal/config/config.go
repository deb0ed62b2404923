// Package config loads the process-wide provider and participant
// configuration from environment-style key/value pairs. The result is one
// immutable value built at startup and injected into the evaluation engine;
// nothing reads configuration after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredential is returned when a backend referenced by a
// participant has no API key. This is fatal at startup: runs must never
// fail lazily on a missing credential.
var ErrMissingCredential = errors.New("missing API credential")

// Backend describes one chat-completion provider endpoint.
type Backend struct {
	Name         string `json:"name"`
	BaseURL      string `json:"base_url"`
	APIKey       string `json:"-"`
	DefaultModel string `json:"default_model"`

	// FlexibleFormat marks the backend whose models do not reliably honor
	// a forced-JSON response format; the gateway retries such calls once
	// without the constraint.
	FlexibleFormat bool `json:"flexible_format"`
}

// Participant binds a role (reviewer A, reviewer B, judge) to a backend
// and model.
type Participant struct {
	DisplayName string `json:"display_name"`
	Provider    string `json:"provider"`
	Model       string `json:"model"`
}

// Config is the full process configuration. Read-only after Load.
type Config struct {
	AgentName      string
	Timeout        time.Duration
	Backends       map[string]Backend
	DefaultBackend string

	ReviewerA Participant
	ReviewerB Participant
	Judge     Participant
}

// LoadDotenv loads variables from .env.mozart / env.mozart next to the
// working directory, falling back to a plain .env. Missing files are not
// an error; the real environment always wins.
func LoadDotenv() {
	for _, cand := range []string{".env.mozart", "env.mozart"} {
		if _, err := os.Stat(cand); err == nil {
			_ = godotenv.Load(cand)
			return
		}
	}
	_ = godotenv.Load()
}

// SetDefaults registers every configuration key with its default on the
// given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("agent_name", "Mozart")
	v.SetDefault("timeout_seconds", 60)

	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "https://api.openai.com")
	v.SetDefault("openai_model", "gpt-4o")

	v.SetDefault("deepseek_api_key", "")
	v.SetDefault("deepseek_base_url", "https://api.deepseek.com")
	v.SetDefault("deepseek_model", "deepseek-coder")

	v.SetDefault("reviewer_a_name", "Reviewer A")
	v.SetDefault("reviewer_a_provider", "openai")
	v.SetDefault("reviewer_a_model", "")

	v.SetDefault("reviewer_b_name", "Reviewer B")
	v.SetDefault("reviewer_b_provider", "deepseek")
	v.SetDefault("reviewer_b_model", "")

	v.SetDefault("judge_provider", "openai")
	v.SetDefault("judge_model", "")
}

// Load builds the immutable configuration from the given viper instance
// and validates that every referenced backend has a credential.
func Load(v *viper.Viper) (*Config, error) {
	openai := Backend{
		Name:         "openai",
		BaseURL:      strings.TrimRight(v.GetString("openai_base_url"), "/"),
		APIKey:       v.GetString("openai_api_key"),
		DefaultModel: v.GetString("openai_model"),
	}
	deepseek := Backend{
		Name:           "deepseek",
		BaseURL:        strings.TrimRight(v.GetString("deepseek_base_url"), "/"),
		APIKey:         v.GetString("deepseek_api_key"),
		DefaultModel:   v.GetString("deepseek_model"),
		FlexibleFormat: true,
	}

	cfg := &Config{
		AgentName:      v.GetString("agent_name"),
		Timeout:        time.Duration(v.GetInt("timeout_seconds")) * time.Second,
		Backends:       map[string]Backend{"openai": openai, "deepseek": deepseek},
		DefaultBackend: "openai",
		ReviewerA: Participant{
			DisplayName: v.GetString("reviewer_a_name"),
			Provider:    strings.ToLower(v.GetString("reviewer_a_provider")),
			Model:       v.GetString("reviewer_a_model"),
		},
		ReviewerB: Participant{
			DisplayName: v.GetString("reviewer_b_name"),
			Provider:    strings.ToLower(v.GetString("reviewer_b_provider")),
			Model:       v.GetString("reviewer_b_model"),
		},
		Judge: Participant{
			DisplayName: "Judge",
			Provider:    strings.ToLower(v.GetString("judge_provider")),
			Model:       v.GetString("judge_model"),
		},
	}

	// Participants without an explicit model use the backend's default.
	cfg.ReviewerA.Model = cfg.participantModel(cfg.ReviewerA)
	cfg.ReviewerB.Model = cfg.participantModel(cfg.ReviewerB)
	cfg.Judge.Model = cfg.participantModel(cfg.Judge)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve maps a provider name to its backend, routing unknown or empty
// names to the default backend rather than failing.
func (c *Config) Resolve(name string) Backend {
	if b, ok := c.Backends[strings.ToLower(name)]; ok {
		return b
	}
	return c.Backends[c.DefaultBackend]
}

func (c *Config) participantModel(p Participant) string {
	if p.Model != "" {
		return p.Model
	}
	return c.Resolve(p.Provider).DefaultModel
}

// validate refuses any configuration where a participant references a
// backend without a credential.
func (c *Config) validate() error {
	refs := []struct {
		role     string
		provider string
	}{
		{c.ReviewerA.DisplayName, c.ReviewerA.Provider},
		{c.ReviewerB.DisplayName, c.ReviewerB.Provider},
		{"judge", c.Judge.Provider},
	}
	for _, ref := range refs {
		backend := c.Resolve(ref.provider)
		if backend.APIKey == "" {
			return fmt.Errorf("%w: backend %q referenced by %s has no key set", ErrMissingCredential, backend.Name, ref.role)
		}
	}
	return nil
}
