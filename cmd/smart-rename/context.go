package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/entity"
	"github.com/joseph-ayodele/smart-rename/internal/extract"
	"github.com/joseph-ayodele/smart-rename/internal/ingest"
	"github.com/joseph-ayodele/smart-rename/internal/ocr"
	"github.com/joseph-ayodele/smart-rename/internal/pipeline"
	"github.com/joseph-ayodele/smart-rename/internal/rename"
	"github.com/joseph-ayodele/smart-rename/internal/repository"
)

// sourceOpener builds the text source for a run and returns its cleanup.
type sourceOpener func(ctx context.Context, cfg *common.Config, logger *slog.Logger) (extract.TextSource, func(), error)

type commandContext struct {
	configFlag string
	verbose    bool

	configOnce   sync.Once
	config       *common.Config
	configPath   string
	configExists bool
	configErr    error
	logger       *slog.Logger

	openSource  sourceOpener
	renamer     rename.Renamer
	interactive func(io.Reader) bool
}

func newCommandContext() *commandContext {
	return &commandContext{
		openSource:  openTextSource,
		interactive: isInteractive,
	}
}

func (c *commandContext) ensureConfig(errOut io.Writer) (*common.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := common.LoadConfig(c.configFlag)
		c.configPath = path
		c.configExists = exists
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
			return
		}
		c.config = cfg
		c.logger = newLogger(cfg.Log, c.verbose, errOut)
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	if c.logger == nil {
		return slog.Default()
	}
	return c.logger
}

// session is one analyze/rename run wired from the loaded configuration.
type session struct {
	source    extract.TextSource
	processor *pipeline.Processor
	logger    *slog.Logger
	close     func()
}

func (c *commandContext) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := c.ensureConfig(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	logger := c.log()

	src, closeSrc, err := c.openSource(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, err
	}
	renamer := c.renamer
	if renamer == nil {
		renamer = rename.NewFSRenamer(logger)
	}
	exec := rename.NewExecutor(renamer, cfg.Rename.LockPath, logger)
	proc := pipeline.NewProcessor(src, exec, newNotifier(cmd.ErrOrStderr()), logger)

	return &session{source: src, processor: proc, logger: logger, close: closeSrc}, nil
}

// analyze expands the CLI arguments and builds the batch of suggestions.
func (s *session) analyze(ctx context.Context, args []string, in inputOptions) (*entity.Batch, error) {
	ctx = common.WithLogger(ctx, s.logger)
	paths, _, err := ingest.ExpandPaths(ctx, args, in.options(), s.logger)
	if err != nil {
		return nil, fmt.Errorf("collect input files: %w", err)
	}
	return s.processor.Analyze(ctx, paths)
}

// openTextSource builds the OCR-backed text source. Missing OCR tools do not
// stop the run: every file then reports the tool failure on its own. A cache
// that cannot be opened is skipped with a warning.
func openTextSource(ctx context.Context, cfg *common.Config, logger *slog.Logger) (extract.TextSource, func(), error) {
	noop := func() {}

	extractor, err := ocr.NewExtractor(ocr.ConfigFrom(cfg.OCR), logger)
	if err != nil {
		logger.Warn("ocr engine unavailable", "error", err)
		return extract.NewUnavailableSource(err), noop, nil
	}
	adapter := extract.NewOCRAdapter(extractor, logger)
	if !cfg.Cache.Enabled {
		return adapter, noop, nil
	}

	cache, err := repository.OpenTextCache(ctx, cfg.Cache.Path, cfg.Cache.MaxAge(), logger)
	if err != nil {
		logger.Warn("text cache unavailable, continuing without it", "path", cfg.Cache.Path, "error", err)
		return adapter, noop, nil
	}
	closeCache := func() {
		if err := cache.Close(); err != nil {
			logger.Warn("close text cache", "error", err)
		}
	}
	return extract.NewCachedSource(adapter, cache, ingest.HashFile, logger), closeCache, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func isInteractive(r io.Reader) bool {
	return isTerminal(r)
}

func shouldColorize(writer io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(writer)
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
