package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/smart-rename/constants"
)

// ExpandPaths turns CLI arguments into absolute file paths, keeping argument
// order. Directories are replaced by the files they contain (sorted by name).
// Plain file arguments pass through even when they cannot be stat'ed, so the
// failure surfaces per file later on. Duplicates are dropped.
func ExpandPaths(ctx context.Context, inputs []string, opts Options, logger *slog.Logger) ([]string, DirStats, error) {
	if logger == nil {
		logger = slog.Default()
	}
	stats := DirStats{Inputs: len(inputs)}
	seen := make(map[string]struct{}, len(inputs))
	var out []string

	add := func(path string) {
		if _, dup := seen[path]; dup {
			stats.Skipped++
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
		stats.Files++
	}

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return out, stats, err
		}
		if strings.TrimSpace(in) == "" {
			continue
		}
		abs, err := filepath.Abs(in)
		if err != nil {
			return nil, stats, fmt.Errorf("abs path %q: %w", in, err)
		}

		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			add(abs)
			continue
		}

		stats.Dirs++
		files, err := listDir(ctx, abs, opts, &stats, logger)
		if err != nil {
			return out, stats, err
		}
		for _, f := range files {
			add(f)
		}
	}

	logger.Debug("expanded input paths",
		"inputs", stats.Inputs,
		"dirs", stats.Dirs,
		"files", stats.Files,
		"skipped", stats.Skipped,
	)
	return out, stats, nil
}

// listDir walks root, skips hidden entries if requested,
// and collects regular files.
func listDir(ctx context.Context, root string, opts Options, stats *DirStats, logger *slog.Logger) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			if walkErr != nil {
				return walkErr
			}
			return nil
		}
		stats.Scanned++
		if walkErr != nil {
			logger.Warn("skipping unreadable entry", "path", path, "error", walkErr)
			stats.WalkError++
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if opts.SkipHidden && IsHidden(path) {
			stats.Skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipDir) {
		return files, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, nil
}

// FilterPDFs keeps the paths whose name ends in ".pdf", ignoring case.
func FilterPDFs(paths []string) ([]string, PDFStats) {
	var out []string
	var stats PDFStats
	for _, p := range paths {
		if constants.IsPDFName(filepath.Base(p)) {
			out = append(out, p)
			stats.Matched++
			continue
		}
		stats.Rejected++
	}
	return out, stats
}
