package rename

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

// Renamer is the rename primitive: give sourcePath the base name newName in
// its own directory. It must not overwrite an existing file.
type Renamer interface {
	Rename(ctx context.Context, sourcePath, newName string) error
}

// FSRenamer renames files on the local file system.
type FSRenamer struct {
	logger *slog.Logger
}

func NewFSRenamer(logger *slog.Logger) *FSRenamer {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSRenamer{logger: logger}
}

func (r *FSRenamer) Rename(_ context.Context, sourcePath, newName string) error {
	dest := filepath.Join(filepath.Dir(sourcePath), newName)
	if err := renameNoReplace(sourcePath, dest); err != nil {
		return err
	}
	r.logger.Debug("renamed file", "from", sourcePath, "to", dest)
	return nil
}

// renameChecked is the portable fallback. The existence check and the
// rename are two steps, so a file created in between is overwritten.
func renameChecked(oldpath, newpath string) error {
	if _, err := os.Lstat(newpath); err == nil {
		return fmt.Errorf("%w: %s", common.ErrCollision, newpath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.Rename(oldpath, newpath)
}
