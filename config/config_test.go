package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "START", cfg.Extract.Start)
	assert.Equal(t, "END", cfg.Extract.End)
	assert.Equal(t, 20, cfg.Extract.PathLimit)
	assert.Equal(t, "file", cfg.Store.Backend)
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
log_level: debug
extract:
  path_limit: 12
  fail_on_truncation: true
store:
  backend: redis
  dsn: localhost:6379
  ttl: 24h
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 12, cfg.Extract.PathLimit)
	assert.True(t, cfg.Extract.FailOnTruncation)
	assert.Equal(t, "START", cfg.Extract.Start)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad level":      "log_level: loud\n",
		"bad format":     "output: {format: pdf}\n",
		"bad backend":    "store: {backend: s3, dsn: x}\n",
		"missing dsn":    "store: {backend: sqlite, dsn: \"\"}\n",
		"zero limit":     "extract: {path_limit: 0}\n",
		"same endpoints": "extract: {start: A, end: A}\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	_, err := Load(writeFile(t, "log_level: [unterminated\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_MemoryNeedsNoDSN(t *testing.T) {
	cfg, err := Load(writeFile(t, "store: {backend: memory, dsn: \"\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Output.Title = "Support agent"
	require.NoError(t, Write(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
