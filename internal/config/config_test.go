package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/interview-coach/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 90, cfg.FuzzyCutoff)
	assert.InDelta(t, 0.72, cfg.SemanticThreshold, 1e-9)
	assert.Equal(t, 3, cfg.RetrievalTopK)
	assert.InDelta(t, 0.1, cfg.RetrievalThreshold, 1e-9)
	assert.Equal(t, 3, cfg.AIRetryMaxAttempts)
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.ChatEnabled())
	assert.False(t, cfg.QdrantEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("FUZZY_CUTOFF", "80")
	t.Setenv("CHAT_API_KEY", "k")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 80, cfg.FuzzyCutoff)
	assert.True(t, cfg.ChatEnabled())
}

func TestAIRetryPolicyTestMode(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := config.Load()
	require.NoError(t, err)
	attempts, interval, mult := cfg.AIRetryPolicy()
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 10*time.Millisecond, interval)
	assert.InDelta(t, 2.0, mult, 1e-9)
}
