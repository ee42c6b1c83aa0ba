package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	withWorkdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Cache.Driver)
	assert.Equal(t, "v1", cfg.Cache.PromptVersion)
	assert.Equal(t, 80.0, cfg.Resolver.NameThreshold)
	assert.Equal(t, 60.0, cfg.Resolver.AddressThreshold)
	assert.Equal(t, 20.0, cfg.Resolver.Weights.Name)
	assert.Equal(t, 100.0, cfg.Resolver.Watermarks.For("registry_found"))
	assert.Equal(t, 50.0, cfg.Resolver.Watermarks.For("name"))
}

func TestLoad_ConfigFileOverrides(t *testing.T) {
	dir := t.TempDir()
	data := []byte("log:\n  level: debug\ncache:\n  driver: postgres\n  dsn: postgres://localhost/cache\nresolver:\n  name_threshold: 90\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o644))
	withWorkdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "postgres", cfg.Cache.Driver)
	assert.Equal(t, 90.0, cfg.Resolver.NameThreshold)
	// Untouched keys keep defaults.
	assert.Equal(t, 60.0, cfg.Resolver.AddressThreshold)
}

func TestLoad_EnvOverrides(t *testing.T) {
	withWorkdir(t, t.TempDir())
	t.Setenv("CONSENSUS_CACHE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Cache.Driver)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	assert.Error(t, err)
}

func TestInitLogger_Console(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	assert.NoError(t, err)
}

// withWorkdir switches the working directory for the duration of a test.
func withWorkdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}
