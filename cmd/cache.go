package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/consensus-cli/internal/cache"
	"github.com/sells-group/consensus-cli/internal/config"
)

var (
	invalidateVersion  string
	invalidateCategory string
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and maintain the classifier result cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache entry and hit counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCacheStats(cmd.Context(), cfg.Cache, cmd.OutOrStdout())
	},
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Delete cache entries by prompt version or category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCacheInvalidate(cmd.Context(), cfg.Cache, invalidateVersion, invalidateCategory, cmd.OutOrStdout())
	},
}

func init() {
	cacheInvalidateCmd.Flags().StringVar(&invalidateVersion, "version", "", "retired prompt version to invalidate")
	cacheInvalidateCmd.Flags().StringVar(&invalidateCategory, "category", "", "result category to invalidate")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheInvalidateCmd)
	rootCmd.AddCommand(cacheCmd)
}

// openCacheStore creates the configured cache store backend.
func openCacheStore(ctx context.Context, cfg config.CacheConfig) (cache.Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		s, err := cache.NewSQLite(cfg.DSN)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := cache.NewPostgres(ctx, cfg.DSN, &cache.PoolConfig{MaxConns: cfg.MaxConns, MinConns: cfg.MinConns})
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "memory":
		return cache.NewMemory(), nil
	default:
		return nil, eris.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

func runCacheStats(ctx context.Context, cacheCfg config.CacheConfig, out io.Writer) error {
	store, err := openCacheStore(ctx, cacheCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "entries: %d\nhits:    %d\n", stats.Entries, stats.TotalHits)
	return nil
}

func runCacheInvalidate(ctx context.Context, cacheCfg config.CacheConfig, version, category string, out io.Writer) error {
	if version == "" && category == "" {
		return eris.New("cache: --version or --category is required")
	}

	store, err := openCacheStore(ctx, cacheCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	removed := 0
	if version != "" {
		n, err := store.DeleteByVersion(ctx, version)
		if err != nil {
			return err
		}
		removed += n
	}
	if category != "" {
		n, err := store.DeleteByCategory(ctx, category)
		if err != nil {
			return err
		}
		removed += n
	}

	fmt.Fprintf(out, "removed: %d\n", removed)
	return nil
}
