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

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.PhaseOneDuration)
	assert.Equal(t, 5*time.Second, cfg.PeekDuration)
	assert.Equal(t, 10*time.Second, cfg.StackWindowDuration)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.ForfeitOnDisconnect)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("PHASE_ONE_DURATION", "3s")
	t.Setenv("STACK_WINDOW_DURATION", "0s")
	t.Setenv("FORFEIT_ON_DISCONNECT", "true")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ListenAddr)
	assert.Equal(t, 3*time.Second, cfg.PhaseOneDuration)
	assert.Zero(t, cfg.StackWindowDuration)
	assert.True(t, cfg.ForfeitOnDisconnect)
	assert.Equal(t, 2, cfg.RedisDB)
}

func TestLoadRejectsBadDurations(t *testing.T) {
	t.Setenv("PEEK_DURATION", "0s")
	_, err := Load()
	assert.Error(t, err)
}
