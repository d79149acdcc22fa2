package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseEnv_PopulatesNestedStructs verifies that env vars with the
// configured prefixes land in the right nested fields.
func TestParseEnv_PopulatesNestedStructs(t *testing.T) {
	t.Setenv("REMOTE_BASE_URL", "https://env.example")
	t.Setenv("REMOTE_ANON_KEY", "env-anon")
	t.Setenv("REMOTE_REQUEST_TIMEOUT", "20s")
	t.Setenv("STORAGE_CACHE_DSN", "/data/cache.db")
	t.Setenv("STORAGE_GROUP_DIR", "/data/group")
	t.Setenv("VENDORS_LLM_MODEL", "gpt-4o-mini")
	t.Setenv("WORKERS_DRAIN_INTERVAL", "45s")

	var cfg StructuredConfig
	require.NoError(t, parseEnv(&cfg))

	assert.Equal(t, "https://env.example", cfg.Remote.BaseURL)
	assert.Equal(t, "env-anon", cfg.Remote.AnonKey)
	assert.Equal(t, 20*time.Second, cfg.Remote.RequestTimeout)
	assert.Equal(t, "/data/cache.db", cfg.Storage.CacheDSN)
	assert.Equal(t, "/data/group", cfg.Storage.GroupDir)
	assert.Equal(t, "gpt-4o-mini", cfg.Vendors.LLMModel)
	assert.Equal(t, 45*time.Second, cfg.Workers.DrainInterval)
}

// TestParseEnv_BadDuration verifies that an unparsable duration is reported
// as a wrapped error.
func TestParseEnv_BadDuration(t *testing.T) {
	t.Setenv("REMOTE_REQUEST_TIMEOUT", "not-a-duration")

	var cfg StructuredConfig
	err := parseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env configs")
}
