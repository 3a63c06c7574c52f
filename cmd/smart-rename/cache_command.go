package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/repository"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the recognized-text cache",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show text cache usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(cmd, func(cache *repository.TextCache) error {
				stats, err := cache.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printCacheStats(cmd.OutOrStdout(), stats)
				return nil
			})
		},
	}
}

func printCacheStats(out io.Writer, stats repository.CacheStats) {
	const stampLayout = "2006-01-02 15:04"
	stamp := func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Local().Format(stampLayout)
	}
	fmt.Fprintf(out, "Path:    %s\n", stats.Path)
	fmt.Fprintf(out, "Entries: %d\n", stats.Entries)
	fmt.Fprintf(out, "Size:    %s\n", humanBytes(stats.SizeBytes))
	fmt.Fprintf(out, "Oldest:  %s\n", stamp(stats.Oldest))
	fmt.Fprintf(out, "Newest:  %s\n", stamp(stats.Newest))
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cache entries older than a given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			age := cfg.Cache.MaxAge()
			if strings.TrimSpace(olderThan) != "" {
				if age, err = parseAge(olderThan); err != nil {
					return err
				}
			}
			if age <= 0 {
				return fmt.Errorf("%w: no age given; pass --older-than or set cache.max_age_days", common.ErrInvalidInput)
			}
			return ctx.withCache(cmd, func(cache *repository.TextCache) error {
				n, err := cache.Prune(cmd.Context(), age)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entr%s older than %s\n", n, plural(n, "y", "ies"), olderThanLabel(age))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "", "Age threshold such as 30d or 12h (default: cache.max_age_days)")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cache entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCache(cmd, func(cache *repository.TextCache) error {
				n, err := cache.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entr%s\n", n, plural(n, "y", "ies"))
				return nil
			})
		},
	}
}

func (c *commandContext) withCache(cmd *cobra.Command, fn func(*repository.TextCache) error) error {
	cfg, err := c.ensureConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !cfg.Cache.Enabled {
		fmt.Fprintln(cmd.ErrOrStderr(), "Note: the text cache is disabled in the configuration")
	}
	cache, err := repository.OpenTextCache(cmd.Context(), cfg.Cache.Path, cfg.Cache.MaxAge(), c.log())
	if err != nil {
		return err
	}
	defer cache.Close()
	return fn(cache)
}

// parseAge accepts Go durations plus a day suffix ("30d").
func parseAge(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: invalid age %q", common.ErrInvalidInput, s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: invalid age %q", common.ErrInvalidInput, s)
	}
	return d, nil
}

func olderThanLabel(d time.Duration) string {
	if d%(24*time.Hour) == 0 {
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
	return d.String()
}

func plural(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
