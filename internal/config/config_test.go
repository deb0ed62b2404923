package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.Set("openai_api_key", "sk-openai")
	v.Set("deepseek_api_key", "sk-deepseek")
	return v
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newTestViper())
	require.NoError(t, err)

	assert.Equal(t, "Mozart", cfg.AgentName)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, "openai", cfg.ReviewerA.Provider)
	assert.Equal(t, "deepseek", cfg.ReviewerB.Provider)
	assert.Equal(t, "openai", cfg.Judge.Provider)

	// Models default to the backend's default model.
	assert.Equal(t, "gpt-4o", cfg.ReviewerA.Model)
	assert.Equal(t, "deepseek-coder", cfg.ReviewerB.Model)
	assert.Equal(t, "gpt-4o", cfg.Judge.Model)
}

func TestLoadTrimsBaseURL(t *testing.T) {
	v := newTestViper()
	v.Set("openai_base_url", "https://proxy.example.com/")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "https://proxy.example.com", cfg.Backends["openai"].BaseURL)
}

func TestLoadMissingCredential(t *testing.T) {
	t.Run("reviewer backend without key", func(t *testing.T) {
		v := newTestViper()
		v.Set("deepseek_api_key", "")

		_, err := Load(v)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingCredential)
		assert.Contains(t, err.Error(), "deepseek")
	})

	t.Run("unused backend may stay keyless", func(t *testing.T) {
		v := newTestViper()
		v.Set("deepseek_api_key", "")
		v.Set("reviewer_b_provider", "openai")

		_, err := Load(v)
		assert.NoError(t, err)
	})

	t.Run("duplicate display names do not mask a check", func(t *testing.T) {
		v := newTestViper()
		v.Set("deepseek_api_key", "")
		v.Set("reviewer_a_name", "Reviewer")
		v.Set("reviewer_b_name", "Reviewer")

		_, err := Load(v)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingCredential)
		assert.Contains(t, err.Error(), "deepseek")
	})
}

func TestResolve(t *testing.T) {
	cfg, err := Load(newTestViper())
	require.NoError(t, err)

	t.Run("known backend", func(t *testing.T) {
		assert.Equal(t, "deepseek", cfg.Resolve("deepseek").Name)
		assert.Equal(t, "deepseek", cfg.Resolve("DeepSeek").Name)
	})

	t.Run("unknown or empty routes to default", func(t *testing.T) {
		assert.Equal(t, "openai", cfg.Resolve("mystery").Name)
		assert.Equal(t, "openai", cfg.Resolve("").Name)
	})
}

func TestFlexibleFormatBackend(t *testing.T) {
	cfg, err := Load(newTestViper())
	require.NoError(t, err)

	assert.True(t, cfg.Backends["deepseek"].FlexibleFormat)
	assert.False(t, cfg.Backends["openai"].FlexibleFormat)
}

func TestParticipantModelOverride(t *testing.T) {
	v := newTestViper()
	v.Set("reviewer_a_model", "gpt-4o-mini")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", cfg.ReviewerA.Model)
}
