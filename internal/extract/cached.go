package extract

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/smart-rename/internal/repository"
)

// Cache is the subset of repository.TextCache used here.
type Cache interface {
	Get(ctx context.Context, hash, engine string) (repository.CacheEntry, bool, error)
	Put(ctx context.Context, hash, engine, method, text string) error
}

// EngineSource is a TextSource that can name its engine configuration.
type EngineSource interface {
	TextSource
	Engine() string
}

// CachedSource serves text from the cache when the file content was seen
// before and stores fresh successful results. Cache problems are logged and
// never turn into extraction failures.
type CachedSource struct {
	next   EngineSource
	cache  Cache
	hash   func(path string) (string, error)
	logger *slog.Logger
}

func NewCachedSource(next EngineSource, cache Cache, hash func(string) (string, error), logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSource{next: next, cache: cache, hash: hash, logger: logger}
}

func (c *CachedSource) GetText(ctx context.Context, path string) TextResult {
	sum, err := c.hash(path)
	if err != nil {
		// unreadable file: let the engine produce the real failure
		c.logger.Debug("cache bypass, cannot hash file", "path", path, "error", err)
		return c.next.GetText(ctx, path)
	}

	engine := c.next.Engine()
	if e, ok, err := c.cache.Get(ctx, sum, engine); err != nil {
		c.logger.Warn("text cache lookup failed", "path", path, "error", err)
	} else if ok {
		c.logger.Debug("text cache hit", "path", path, "hash", sum)
		return TextResult{
			SourcePath: path,
			SourceName: filepath.Base(path),
			Text:       e.Text,
			Method:     e.Method,
			Pages:      1,
			Cached:     true,
		}
	}

	res := c.next.GetText(ctx, path)
	if res.OK() {
		if err := c.cache.Put(ctx, sum, engine, res.Method, res.Text); err != nil {
			c.logger.Warn("text cache store failed", "path", path, "error", err)
		}
	}
	return res
}
