package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, 600, cfg.InitialTimeSeconds)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.Empty(t, cfg.APIKeys)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("INITIAL_TIME_SECONDS", "300")
	t.Setenv("TICK_INTERVAL", "250ms")
	t.Setenv("API_KEYS", "alpha,beta")
	t.Setenv("FRONTEND_PATH", "https://example.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 300, cfg.InitialTimeSeconds)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, []string{"alpha", "beta"}, cfg.APIKeys)
	assert.Equal(t, "https://example.test", cfg.FrontendPath)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("INITIAL_TIME_SECONDS", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}
