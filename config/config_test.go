package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Port)
	assert.Equal(t, "http", cfg.FetchBackend)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.InDelta(t, 2.0, cfg.RateLimit, 0.0001)
	assert.Equal(t, 5, cfg.RateBurst)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_BACKEND", "chrome")
	t.Setenv("PROBE_TIMEOUT", "2s")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "chrome", cfg.FetchBackend)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout)
	assert.True(t, cfg.DevMode)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inspector.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: "1", FetchTimeout: time.Second, ProbeTimeout: time.Second, RateLimit: 1, RateBurst: 1}
	assert.NoError(t, cfg.Validate())

	cfg.RateBurst = 0
	assert.Error(t, cfg.Validate())

	cfg.RateBurst = 1
	cfg.Port = ""
	assert.Error(t, cfg.Validate())
}
