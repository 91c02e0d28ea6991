package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/tempex/annotate"
	"github.com/teranos/tempex/config"
	"github.com/teranos/tempex/errors"
	"github.com/teranos/tempex/logger"
)

// CacheCmd represents the cache command
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the annotation cache",
	Long: `tempex cache — manage cached annotator output.

The cache stores linguistic annotation keyed by annotator version and text
content, so retraining or re-annotating never repeats annotator work.

Examples:
  tempex cache stats   # Entry counts
  tempex cache evict   # Drop entries from older annotator versions
  tempex cache clear   # Drop everything`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show annotation cache statistics",
	RunE:  runCacheStats,
}

var cacheEvictCmd = &cobra.Command{
	Use:   "evict",
	Short: "Drop cache entries from older annotator versions",
	RunE:  runCacheEvict,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cache entry",
	RunE:  runCacheClear,
}

func init() {
	CacheCmd.AddCommand(cacheStatsCmd)
	CacheCmd.AddCommand(cacheEvictCmd)
	CacheCmd.AddCommand(cacheClearCmd)
}

// openPersistentCache opens the configured cache and fails when caching is
// disabled or memory-only: there is nothing on disk to manage then.
func openPersistentCache() (*annotate.Cache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading configuration")
	}
	if cfg.Cache.Disabled || cfg.Cache.Path == "" {
		return nil, errors.New("no persistent annotation cache is configured")
	}
	return annotate.OpenCache(annotate.CacheOptions{
		Path:   cfg.Cache.Path,
		Logger: logger.Logger,
	})
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	cache, err := openPersistentCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	memory, persisted, err := cache.Stats()
	if err != nil {
		return err
	}
	cmd.Printf("Annotation cache\n")
	cmd.Printf("  In-memory entries: %d\n", memory)
	cmd.Printf("  Persisted entries: %d\n", persisted)
	return nil
}

func runCacheEvict(cmd *cobra.Command, args []string) error {
	cache, err := openPersistentCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	removed, err := cache.EvictOtherVersions(annotate.NewBuiltin().Version())
	if err != nil {
		return err
	}
	cmd.Printf("Evicted %d stale entries\n", removed)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	cache, err := openPersistentCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	if err := cache.Clear(); err != nil {
		return err
	}
	cmd.Println("Cache cleared")
	return nil
}
