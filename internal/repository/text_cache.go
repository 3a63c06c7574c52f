package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

const textCacheTable = "ocr_cache"

// CacheEntry is one cached recognition result.
type CacheEntry struct {
	Hash      string
	Engine    string
	Method    string
	Text      string
	CreatedAt time.Time
}

// CacheStats describes the cache contents.
type CacheStats struct {
	Path      string
	Entries   int64
	Oldest    time.Time
	Newest    time.Time
	SizeBytes int64
}

// TextCache stores recognized text keyed by file content hash and engine, so
// a file that was already recognized (possibly under another name) is not
// sent through OCR again.
type TextCache struct {
	drv    *entsql.Driver
	path   string
	maxAge time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// OpenTextCache opens the cache database at path and creates its table.
// Entries older than maxAge are ignored by Get; zero keeps them forever.
func OpenTextCache(ctx context.Context, path string, maxAge time.Duration, logger *slog.Logger) (*TextCache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	drv, err := Open(ctx, path, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCache, err)
	}
	c := &TextCache{drv: drv, path: path, maxAge: maxAge, now: time.Now, logger: logger}
	if err := c.initSchema(ctx); err != nil {
		Close(drv, logger)
		return nil, err
	}
	return c, nil
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (c *TextCache) initSchema(ctx context.Context) error {
	query, args := builder().CreateTable(textCacheTable).
		IfNotExists().
		Columns(
			entsql.Column("hash").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("engine").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("method").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("text").Type("TEXT").Attr("NOT NULL"),
			entsql.Column("created_at").Type("INTEGER").Attr("NOT NULL"),
		).
		PrimaryKey("hash", "engine").
		Query()
	if err := c.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("%w: init schema: %v", common.ErrCache, err)
	}
	return nil
}

// Get returns the cached text for a content hash and engine.
func (c *TextCache) Get(ctx context.Context, hash, engine string) (CacheEntry, bool, error) {
	preds := []*entsql.Predicate{
		entsql.EQ("hash", hash),
		entsql.EQ("engine", engine),
	}
	if c.maxAge > 0 {
		preds = append(preds, entsql.GTE("created_at", c.now().Add(-c.maxAge).Unix()))
	}
	query, args := builder().
		Select("method", "text", "created_at").
		From(entsql.Table(textCacheTable)).
		Where(entsql.And(preds...)).
		Limit(1).
		Query()

	var rows entsql.Rows
	if err := c.drv.Query(ctx, query, args, &rows); err != nil {
		return CacheEntry{}, false, fmt.Errorf("%w: get: %v", common.ErrCache, err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return CacheEntry{}, false, rows.Err()
	}
	e := CacheEntry{Hash: hash, Engine: engine}
	var created int64
	if err := rows.Scan(&e.Method, &e.Text, &created); err != nil {
		return CacheEntry{}, false, fmt.Errorf("%w: scan: %v", common.ErrCache, err)
	}
	e.CreatedAt = time.Unix(created, 0).UTC()
	return e, true, nil
}

// Put inserts or replaces the text for a content hash and engine.
func (c *TextCache) Put(ctx context.Context, hash, engine, method, text string) error {
	query, args := builder().
		Insert(textCacheTable).
		Columns("hash", "engine", "method", "text", "created_at").
		Values(hash, engine, method, text, c.now().Unix()).
		OnConflict(
			entsql.ConflictColumns("hash", "engine"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if err := c.drv.Exec(ctx, query, args, nil); err != nil {
		c.logger.Error("failed to store cached text", "hash", hash, "error", err)
		return fmt.Errorf("%w: put: %v", common.ErrCache, err)
	}
	return nil
}

// Prune deletes entries older than olderThan and reports how many went.
func (c *TextCache) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := c.now().Add(-olderThan).Unix()
	query, args := builder().
		Delete(textCacheTable).
		Where(entsql.LT("created_at", cutoff)).
		Query()
	return c.execCount(ctx, "prune", query, args)
}

// Clear deletes every entry.
func (c *TextCache) Clear(ctx context.Context) (int64, error) {
	query, args := builder().Delete(textCacheTable).Query()
	return c.execCount(ctx, "clear", query, args)
}

func (c *TextCache) execCount(ctx context.Context, op, query string, args []any) (int64, error) {
	var res sql.Result
	if err := c.drv.Exec(ctx, query, args, &res); err != nil {
		return 0, fmt.Errorf("%w: %s: %v", common.ErrCache, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", common.ErrCache, op, err)
	}
	c.logger.Debug("text cache "+op, "deleted", n)
	return n, nil
}

// Stats counts entries and reports the age range and file size.
func (c *TextCache) Stats(ctx context.Context) (CacheStats, error) {
	st := CacheStats{Path: c.path}
	query, args := builder().
		Select(entsql.Count("*"), entsql.Min("created_at"), entsql.Max("created_at")).
		From(entsql.Table(textCacheTable)).
		Query()

	var rows entsql.Rows
	if err := c.drv.Query(ctx, query, args, &rows); err != nil {
		return st, fmt.Errorf("%w: stats: %v", common.ErrCache, err)
	}
	defer func() { _ = rows.Close() }()

	if rows.Next() {
		var oldest, newest sql.NullInt64
		if err := rows.Scan(&st.Entries, &oldest, &newest); err != nil {
			return st, fmt.Errorf("%w: stats: %v", common.ErrCache, err)
		}
		if oldest.Valid {
			st.Oldest = time.Unix(oldest.Int64, 0).UTC()
		}
		if newest.Valid {
			st.Newest = time.Unix(newest.Int64, 0).UTC()
		}
	}
	if err := rows.Err(); err != nil {
		return st, fmt.Errorf("%w: stats: %v", common.ErrCache, err)
	}

	if info, err := os.Stat(c.path); err == nil {
		st.SizeBytes = info.Size()
	} else if !errors.Is(err, os.ErrNotExist) {
		c.logger.Debug("stat cache file", "path", c.path, "error", err)
	}
	return st, nil
}

// Close releases the database.
func (c *TextCache) Close() error {
	if c == nil || c.drv == nil {
		return nil
	}
	return c.drv.Close()
}
