package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/artemave/super-video-grep/internal/transcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the transcript cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show transcript cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, warn, err := cacheStore(ctx)
			if warn != "" {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			stats, err := store.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", store.Path())
			fmt.Fprintf(out, "Entries:  %d\n", stats.Entries)
			fmt.Fprintf(out, "Size:     %s\n", humanBytes(stats.SizeBytes))
			if stats.Entries > 0 {
				const stampLayout = "2006-01-02 15:04"
				fmt.Fprintf(out, "Oldest:   %s\n", stats.Oldest.Local().Format(stampLayout))
				fmt.Fprintf(out, "Newest:   %s\n", stats.Newest.Local().Format(stampLayout))
			}
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var maxAgeDays int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached transcripts older than the retention age",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, warn, err := cacheStore(ctx)
			if warn != "" {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			days := maxAgeDays
			if days <= 0 {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				days = cfg.Cache.MaxAgeDays
			}
			if days <= 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No retention age configured; nothing pruned")
				return nil
			}

			pruned, err := store.Prune(cmd.Context(), time.Duration(days)*24*time.Hour)
			if err != nil {
				return err
			}
			if pruned == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cached transcripts pruned")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d cached transcripts older than %d days\n", pruned, days)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAgeDays, "max-age-days", 0, "Retention age in days (default: cache.max_age_days from config)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, warn, err := cacheStore(ctx)
			if warn != "" {
				fmt.Fprintln(cmd.OutOrStdout(), warn)
			}
			if err != nil || store == nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached transcripts\n", removed)
			return nil
		},
	}
}

// cacheStore opens the transcript cache named in config. The warning string
// is set, with a nil store and nil error, when the cache is disabled.
func cacheStore(ctx *commandContext) (*transcache.Store, string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, "", err
	}
	if !cfg.Cache.Enabled {
		return nil, "Transcript cache is disabled (set enabled = true under [cache] in config.toml)", nil
	}
	if strings.TrimSpace(cfg.Paths.CacheDir) == "" {
		return nil, "Cache directory is not configured", nil
	}
	store, err := transcache.Open(filepath.Join(cfg.Paths.CacheDir, transcache.FileName))
	if err != nil {
		return nil, "", err
	}
	return store, "", nil
}

func humanBytes(v int64) string {
	const unit = 1024
	if v < unit {
		return fmt.Sprintf("%d B", v)
	}
	div := int64(unit)
	exp := 0
	for n := v / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	value := float64(v) / float64(div)
	return fmt.Sprintf("%.1f %ciB", value, "KMGTPEZY"[exp])
}
