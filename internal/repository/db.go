package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	_ "modernc.org/sqlite"
)

// Open opens (creating if needed) the sqlite file at path and wraps it for
// Ent's SQL builder.
func Open(ctx context.Context, path string, logger *slog.Logger) (*entsql.Driver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	logger.Debug("opening sqlite database", "path", path)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error("failed to open database", "path", path, "error", err)
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	return entsql.OpenDB(dialect.SQLite, db), nil
}

// Close closes the database connection
func Close(drv *entsql.Driver, logger *slog.Logger) {
	if drv == nil {
		return
	}
	if err := drv.Close(); err != nil && logger != nil {
		logger.Error("failed to close database", "error", err)
	}
}
