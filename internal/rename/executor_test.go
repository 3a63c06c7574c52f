package rename

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/entity"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
	return p
}

func op(src, newName string) entity.RenameOperation {
	return entity.RenameOperation{
		SourcePath:      src,
		DestinationPath: filepath.Join(filepath.Dir(src), newName),
		OriginalName:    filepath.Base(src),
		NewName:         newName,
	}
}

type recordingRenamer struct {
	calls []string
	fail  map[string]error
}

func (r *recordingRenamer) Rename(_ context.Context, sourcePath, newName string) error {
	r.calls = append(r.calls, filepath.Base(sourcePath))
	if err, ok := r.fail[filepath.Base(sourcePath)]; ok {
		return err
	}
	return nil
}

func TestApplyFirstFailsSecondSucceeds(t *testing.T) {
	dir := t.TempDir()
	b := writeFile(t, dir, "b.pdf")

	ex := NewExecutor(NewFSRenamer(nil), filepath.Join(dir, "lock", "rename.lock"), nil)
	res, err := ex.Apply(context.Background(), []entity.RenameOperation{
		op(filepath.Join(dir, "a.pdf"), "A renamed.pdf"), // source missing
		op(b, "B renamed.pdf"),
	})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 2)
	assert.False(t, res.OK())
	assert.Equal(t, 1, res.Succeeded)

	assert.Equal(t, entity.ReasonInvalidTarget, res.Outcomes[0].Reason)
	assert.ErrorIs(t, res.Outcomes[0].Err, common.ErrInvalidTarget)
	assert.True(t, res.Outcomes[1].Succeeded())
	require.Len(t, res.Failed(), 1)

	assert.FileExists(t, filepath.Join(dir, "B renamed.pdf"))
	assert.NoFileExists(t, b)
}

func TestApplyPrimitiveFailureDoesNotStopBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf")
	b := writeFile(t, dir, "b.pdf")
	r := &recordingRenamer{fail: map[string]error{"a.pdf": errors.New("read-only file system")}}

	res, err := NewExecutor(r, "", nil).Apply(context.Background(), []entity.RenameOperation{
		op(a, "x.pdf"),
		op(b, "y.pdf"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, r.calls)
	assert.Equal(t, entity.ReasonPrimitive, res.Outcomes[0].Reason)
	assert.EqualError(t, res.Outcomes[0].Err, "read-only file system")
	assert.NoError(t, res.Outcomes[1].Err)
	assert.False(t, res.OK())
}

func TestApplyCollision(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf")
	writeFile(t, dir, "taken.pdf")

	res, err := NewExecutor(NewFSRenamer(nil), "", nil).Apply(context.Background(), []entity.RenameOperation{op(a, "taken.pdf")})
	require.NoError(t, err)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, entity.ReasonCollision, res.Outcomes[0].Reason)
	assert.ErrorIs(t, res.Outcomes[0].Err, common.ErrCollision)

	// neither file was touched
	got, err := os.ReadFile(filepath.Join(dir, "taken.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "taken.pdf", string(got))
	assert.FileExists(t, a)
}

func TestApplyInvalidTargets(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf")

	tests := []struct {
		name    string
		newName string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"separator", "sub/x.pdf"},
		{"dot dot", ".."},
		{"extension only", ".pdf"},
		{"blank stem", "  .pdf"},
		{"unchanged", "a.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRenamer{}
			res, err := NewExecutor(r, "", nil).Apply(context.Background(), []entity.RenameOperation{op(a, tt.newName)})
			require.NoError(t, err)
			assert.Equal(t, entity.ReasonInvalidTarget, res.Outcomes[0].Reason)
			assert.Empty(t, r.calls)
		})
	}
}

func TestApplyFailsWhenBatchLockHeld(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf")
	lockPath := filepath.Join(dir, "rename.lock")

	held := flock.New(lockPath)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer func() { _ = held.Unlock() }()

	r := &recordingRenamer{}
	_, err = NewExecutor(r, lockPath, nil).Apply(context.Background(), []entity.RenameOperation{op(a, "x.pdf")})
	assert.ErrorIs(t, err, common.ErrBatchInProgress)
	assert.Empty(t, r.calls)
}

func TestApplyStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.pdf")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &recordingRenamer{}
	res, err := NewExecutor(r, "", nil).Apply(ctx, []entity.RenameOperation{op(a, "x.pdf")})
	require.NoError(t, err)
	assert.Equal(t, entity.ReasonCancelled, res.Outcomes[0].Reason)
	assert.Empty(t, r.calls)
}
