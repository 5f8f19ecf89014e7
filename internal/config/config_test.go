package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.construction-management.com/v1", cfg.APIURL)
	assert.Equal(t, ":memory:", cfg.DB)
	assert.Equal(t, 500*time.Millisecond, cfg.Latency)
	assert.Equal(t, 60*time.Second, cfg.StaleTime)
	assert.Zero(t, cfg.FailureRate)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.LogCalls)

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BUILDOPS_API_URL", "http://localhost:9000/v1/")
	t.Setenv("BUILDOPS_DB", "/tmp/buildops.db")
	t.Setenv("BUILDOPS_LATENCY", "0s")
	t.Setenv("BUILDOPS_STALE_TIME", "5s")
	t.Setenv("BUILDOPS_FAILURE_RATE", "0.25")
	t.Setenv("BUILDOPS_LOG_LEVEL", "DEBUG")
	t.Setenv("BUILDOPS_LOG_CALLS", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/buildops.db", cfg.DB)
	assert.Zero(t, cfg.Latency)
	assert.Equal(t, 5*time.Second, cfg.StaleTime)
	assert.Equal(t, 0.25, cfg.FailureRate)
	assert.True(t, cfg.LogCalls)
	assert.Equal(t, "http://localhost:9000/v1/reports/REP-001/pdf", cfg.ExportURL("/reports/REP-001/pdf"))

	lvl, err := cfg.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unparseable latency", "BUILDOPS_LATENCY", "soon"},
		{"negative latency", "BUILDOPS_LATENCY", "-1s"},
		{"failure rate above one", "BUILDOPS_FAILURE_RATE", "1.5"},
		{"unknown log level", "BUILDOPS_LOG_LEVEL", "chatty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
