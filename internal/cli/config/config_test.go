package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.Server)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
	assert.Equal(t, 3*time.Second, cfg.SummaryRefreshDelay)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	data := []byte("server: http://rag.internal:9000\ntimeout: 30s\nlog_level: debug\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	cfg, err := load(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://rag.internal:9000", cfg.Server)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.SummaryRefreshDelay, "unset keys keep their defaults")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte("server: http://from-file:8000\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))
	t.Setenv("RAGCHAT_SERVER", "http://from-env:8000")

	cfg, err := load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env:8000", cfg.Server)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	data := []byte("log_level: loud\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))

	_, err := load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o644))

	_, err := load(dir)
	require.Error(t, err)
}
