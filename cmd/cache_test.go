//go:build !integration

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/consensus-cli/internal/cache"
	"github.com/sells-group/consensus-cli/internal/config"
	"github.com/sells-group/consensus-cli/internal/model"
)

func TestOpenCacheStore_UnknownDriver(t *testing.T) {
	_, err := openCacheStore(context.Background(), config.CacheConfig{Driver: "redis"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpenCacheStore_Memory(t *testing.T) {
	store, err := openCacheStore(context.Background(), config.CacheConfig{Driver: "memory"})
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.(*cache.MemoryStore)
	assert.True(t, ok)
}

func TestRunCacheStats_EmptySQLite(t *testing.T) {
	cacheCfg := config.CacheConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "cache.db"),
	}

	var buf bytes.Buffer
	require.NoError(t, runCacheStats(context.Background(), cacheCfg, &buf))
	assert.Contains(t, buf.String(), "entries: 0")
	assert.Contains(t, buf.String(), "hits:    0")
}

func TestRunCacheInvalidate_RequiresFlag(t *testing.T) {
	err := runCacheInvalidate(context.Background(), config.CacheConfig{Driver: "memory"}, "", "", &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--version or --category")
}

func TestRunCacheInvalidate_ByVersionSQLite(t *testing.T) {
	cacheCfg := config.CacheConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "cache.db"),
	}

	ctx := context.Background()
	store, err := openCacheStore(ctx, cacheCfg)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, &cache.Entry{
		Key:      cache.Key([]byte("padaria sao jose")),
		Result:   model.ClassifierResult{Category: "bakery", Confidence: 0.9},
		Version:  "v1",
		Category: "bakery",
	}))
	require.NoError(t, store.Close())

	var buf bytes.Buffer
	require.NoError(t, runCacheInvalidate(ctx, cacheCfg, "v1", "", &buf))
	assert.Contains(t, buf.String(), "removed: 1")

	buf.Reset()
	require.NoError(t, runCacheStats(ctx, cacheCfg, &buf))
	assert.Contains(t, buf.String(), "entries: 0")
}
