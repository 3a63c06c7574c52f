package rename

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/entity"
)

// Result aggregates the outcomes of one Apply call, in operation order.
type Result struct {
	Outcomes  []entity.RenameOutcome
	Succeeded int
}

// OK reports whether every operation succeeded.
func (r Result) OK() bool { return r.Succeeded == len(r.Outcomes) }

// Failed returns the outcomes that did not succeed.
func (r Result) Failed() []entity.RenameOutcome {
	var out []entity.RenameOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded() {
			out = append(out, o)
		}
	}
	return out
}

// Executor applies rename operations one by one. A failed operation never
// stops the ones after it.
type Executor struct {
	renamer  Renamer
	lockPath string
	logger   *slog.Logger
}

// NewExecutor builds an Executor. With a non-empty lockPath, Apply holds an
// advisory file lock for its whole run so two batches never overlap.
func NewExecutor(r Renamer, lockPath string, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{renamer: r, lockPath: lockPath, logger: logger}
}

// Apply runs every operation and reports each outcome. The returned error is
// only set when the batch could not start at all.
func (e *Executor) Apply(ctx context.Context, ops []entity.RenameOperation) (Result, error) {
	unlock, err := e.lock()
	if err != nil {
		return Result{}, err
	}
	defer unlock()

	res := Result{Outcomes: make([]entity.RenameOutcome, 0, len(ops))}
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			res.Outcomes = append(res.Outcomes, entity.RenameOutcome{
				Operation: op,
				Err:       fmt.Errorf("%w: not attempted: %v", common.ErrRenameFailed, err),
				Reason:    entity.ReasonCancelled,
			})
			continue
		}

		out := e.applyOne(ctx, op)
		res.Outcomes = append(res.Outcomes, out)
		if out.Succeeded() {
			res.Succeeded++
			continue
		}
		e.logger.Warn("rename failed",
			"index", i,
			"from", op.SourcePath,
			"to", op.NewName,
			"reason", out.Reason,
			"error", out.Err,
		)
	}

	e.logger.Info("rename batch finished", "operations", len(ops), "succeeded", res.Succeeded)
	return res, nil
}

func (e *Executor) applyOne(ctx context.Context, op entity.RenameOperation) (out entity.RenameOutcome) {
	out.Operation = op
	if err := validateTarget(op); err != nil {
		out.Err = err
		out.Reason = entity.ReasonInvalidTarget
		return out
	}

	if err := e.renamer.Rename(ctx, op.SourcePath, op.NewName); err != nil {
		switch {
		case errors.Is(err, common.ErrCollision):
			out.Reason = entity.ReasonCollision
		case errors.Is(err, common.ErrInvalidTarget):
			out.Reason = entity.ReasonInvalidTarget
		default:
			out.Reason = entity.ReasonPrimitive
		}
		out.Err = err
	}
	return out
}

// validateTarget rejects operations that cannot be valid before touching the
// file system.
func validateTarget(op entity.RenameOperation) error {
	name := op.NewName
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty name", common.ErrInvalidTarget)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", common.ErrInvalidTarget, name)
	case strings.TrimSpace(strings.TrimSuffix(name, filepath.Ext(name))) == "":
		return fmt.Errorf("%w: name has no stem: %q", common.ErrInvalidTarget, name)
	case strings.ContainsRune(name, '/') || strings.ContainsRune(name, os.PathSeparator):
		return fmt.Errorf("%w: name contains a path separator: %q", common.ErrInvalidTarget, name)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: name contains NUL", common.ErrInvalidTarget)
	}

	info, err := os.Lstat(op.SourcePath)
	if err != nil {
		return fmt.Errorf("%w: source: %v", common.ErrInvalidTarget, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: source is a directory", common.ErrInvalidTarget)
	}
	if filepath.Base(op.SourcePath) == name {
		return fmt.Errorf("%w: name unchanged", common.ErrInvalidTarget)
	}
	if dir, err := os.Stat(filepath.Dir(op.SourcePath)); err != nil || !dir.IsDir() {
		return fmt.Errorf("%w: destination directory missing", common.ErrInvalidTarget)
	}
	return nil
}

func (e *Executor) lock() (func(), error) {
	if e.lockPath == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(e.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fl := flock.New(e.lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: lock %s is held", common.ErrBatchInProgress, e.lockPath)
	}
	return func() {
		if err := fl.Unlock(); err != nil {
			e.logger.Warn("failed to release rename lock", "path", e.lockPath, "error", err)
		}
	}, nil
}
