package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *slog.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		logger.Debug("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10), // cap at 8KB
		)
	} else {
		logger.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
			"stderr_bytes", errb.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

// runTool runs a command and classifies its failure. A binary that cannot be
// started maps to common.ErrToolUnavailable, everything else to
// common.ErrExtractionFailed. A tool that exits 0 but prints an ERROR line is
// treated as failed.
func runTool(ctx context.Context, r Runner, name string, args ...string) ([]byte, error) {
	out, errb, err := r.Run(ctx, name, args...)
	if err != nil {
		if isNotInvocable(err) {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrToolUnavailable, name, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %s: %v", common.ErrExtractionFailed, name, ctxErr)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", common.ErrExtractionFailed, name, err, firstLine(errb))
	}
	if msg, failed := reportedError(out, errb); failed {
		return nil, fmt.Errorf("%w: %s: %s", common.ErrExtractionFailed, name, msg)
	}
	return out, nil
}

func isNotInvocable(err error) bool {
	var execErr *exec.Error
	return errors.Is(err, exec.ErrNotFound) ||
		errors.As(err, &execErr) ||
		errors.Is(err, fs.ErrNotExist) ||
		errors.Is(err, fs.ErrPermission)
}

// reportedError detects the ERROR convention: stdout beginning with
// "ERROR:" or stderr mentioning ERROR.
func reportedError(stdout, stderr []byte) (string, bool) {
	if bytes.HasPrefix(bytes.TrimSpace(stdout), []byte("ERROR:")) {
		return firstLine(stdout), true
	}
	if bytes.Contains(stderr, []byte("ERROR")) {
		return firstLine(stderr[bytes.Index(stderr, []byte("ERROR")):]), true
	}
	return "", false
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return truncate(s, 200)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
