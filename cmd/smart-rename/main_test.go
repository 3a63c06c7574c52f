package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/smart-rename/internal/common"
	"github.com/joseph-ayodele/smart-rename/internal/extract"
	"github.com/joseph-ayodele/smart-rename/internal/pipeline"
	"github.com/joseph-ayodele/smart-rename/internal/repository"
)

const (
	invoiceText = "From: Acme Corp GmbH\n12.03.2024\nInvoice for March Services"
	invoiceName = "2024-03-12 Acme Corp GmbH - Invoice for March Services.pdf"
)

// stubSource serves text by file name; names without an entry fail.
type stubSource map[string]string

func (s stubSource) GetText(_ context.Context, path string) extract.TextResult {
	res := extract.TextResult{SourcePath: path, SourceName: filepath.Base(path), Method: "pdf-text"}
	text, ok := s[res.SourceName]
	if !ok {
		res.Failure = &extract.Failure{Kind: extract.FailureExtractionFailed, Message: "no text recognized"}
		return res
	}
	res.Text = text
	return res
}

type cliEnv struct {
	dir        string
	configPath string
	cachePath  string
	source     stubSource
}

func setupCLI(t *testing.T, cacheEnabled bool) *cliEnv {
	t.Helper()
	base := t.TempDir()
	t.Setenv("HOME", base)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(base, "cache"))
	t.Setenv("TESSDATA_PREFIX", "")

	env := &cliEnv{
		dir:        filepath.Join(base, "scans"),
		configPath: filepath.Join(base, "smart-rename.toml"),
		cachePath:  filepath.Join(base, "state", "text-cache.db"),
		source:     stubSource{"scan1.pdf": invoiceText},
	}
	require.NoError(t, os.MkdirAll(env.dir, 0o755))

	cfg := fmt.Sprintf("[cache]\nenabled = %t\npath = %q\n\n[rename]\nlock_path = %q\n",
		cacheEnabled, env.cachePath, filepath.Join(base, "state", "rename.lock"))
	require.NoError(t, os.WriteFile(env.configPath, []byte(cfg), 0o644))
	return env
}

func (e *cliEnv) touch(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(e.dir, n), []byte("%PDF-1.4"), 0o644))
	}
}

type runOpts struct {
	stdin       string
	interactive bool
}

func (e *cliEnv) run(t *testing.T, o runOpts, args ...string) (string, string, error) {
	t.Helper()
	cc := newCommandContext()
	cc.openSource = func(context.Context, *common.Config, *slog.Logger) (extract.TextSource, func(), error) {
		return e.source, func() {}, nil
	}
	cc.interactive = func(io.Reader) bool { return o.interactive }

	cmd := newRootCommandWith(cc)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(o.stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) exists(name string) bool {
	_, err := os.Stat(filepath.Join(e.dir, name))
	return err == nil
}

func TestSuggestPrintsTable(t *testing.T) {
	env := setupCLI(t, false)
	env.touch(t, "scan1.pdf", "broken.pdf", "notes.txt")

	out, errOut, err := env.run(t, runOpts{}, "suggest", env.dir)
	require.NoError(t, err)

	assert.Contains(t, out, invoiceName)
	assert.Contains(t, out, "Rename suggested")
	assert.Contains(t, out, "Error")
	assert.Contains(t, out, "no text recognized")
	assert.NotContains(t, out, "notes.txt")
	assert.Contains(t, out, "2 file(s): 1 to rename, 0 unchanged, 1 failed")
	assert.Contains(t, errOut, "Analyzing 2 PDF file(s)...")

	assert.True(t, env.exists("scan1.pdf"), "suggest must not rename")
}

func TestSuggestJSONAndXLSX(t *testing.T) {
	env := setupCLI(t, false)
	env.touch(t, "scan1.pdf", "broken.pdf")
	xlsx := filepath.Join(t.TempDir(), "suggestions.xlsx")

	out, _, err := env.run(t, runOpts{}, "suggest", "--json", "--xlsx", xlsx, env.dir)
	require.NoError(t, err)

	var report struct {
		Total       int `json:"total"`
		Errors      int `json:"errors"`
		Suggestions []struct {
			OriginalName  string `json:"original_name"`
			SuggestedName string `json:"suggested_name"`
			Status        string `json:"status"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Errors)
	require.Len(t, report.Suggestions, 2)
	assert.Equal(t, "broken.pdf", report.Suggestions[0].SuggestedName)
	assert.Equal(t, "error", report.Suggestions[0].Status)
	assert.Equal(t, invoiceName, report.Suggestions[1].SuggestedName)

	info, err := os.Stat(xlsx)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestNothingToDo(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		wantErr error
		wantMsg string
	}{
		{name: "empty directory", wantErr: common.ErrNoFilesSelected, wantMsg: "No files selected."},
		{name: "no pdf", files: []string{"notes.txt"}, wantErr: common.ErrNoPDFFiles, wantMsg: "No PDF files among the selected files."},
		{name: "already named", files: []string{"scan1.pdf"}, wantErr: common.ErrNothingToRename, wantMsg: "No renames needed."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupCLI(t, false)
			env.touch(t, tt.files...)
			env.source = stubSource{"scan1.pdf": "nothing useful here"}

			_, errOut, err := env.run(t, runOpts{}, "apply", "--yes", env.dir)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, errOut, tt.wantMsg)

			var stderr bytes.Buffer
			assert.Equal(t, 0, exitCode(err, &stderr))
			assert.Empty(t, stderr.String())
		})
	}
}

func TestApplyWithYes(t *testing.T) {
	env := setupCLI(t, false)
	env.touch(t, "scan1.pdf", "broken.pdf")
	report := filepath.Join(t.TempDir(), "report.json")

	out, errOut, err := env.run(t, runOpts{}, "apply", "--yes", "--report", report, env.dir)
	require.NoError(t, err)

	assert.True(t, env.exists(invoiceName))
	assert.False(t, env.exists("scan1.pdf"))
	assert.True(t, env.exists("broken.pdf"), "failed items keep their name")
	assert.Contains(t, out, "renamed")
	assert.Contains(t, errOut, "Renamed 1 file(s).")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var r struct {
		Renames []struct {
			DestinationPath string `json:"destination_path"`
			OK              bool   `json:"ok"`
		} `json:"renames"`
	}
	require.NoError(t, json.Unmarshal(data, &r))
	require.Len(t, r.Renames, 1)
	assert.True(t, r.Renames[0].OK)
	assert.Equal(t, filepath.Join(env.dir, invoiceName), r.Renames[0].DestinationPath)
}

func TestApplyDryRun(t *testing.T) {
	env := setupCLI(t, false)
	env.touch(t, "scan1.pdf")

	out, _, err := env.run(t, runOpts{}, "apply", "--dry-run", env.dir)
	require.NoError(t, err)
	assert.Contains(t, out, "would rename scan1.pdf -> "+invoiceName)
	assert.True(t, env.exists("scan1.pdf"))
}

func TestApplyConfirmation(t *testing.T) {
	tests := []struct {
		name        string
		opts        runOpts
		wantErr     error
		wantRenamed bool
		wantOut     string
	}{
		{name: "no terminal", opts: runOpts{}, wantErr: common.ErrInvalidInput},
		{name: "declined", opts: runOpts{stdin: "n\n", interactive: true}, wantOut: "Aborted"},
		{name: "empty answer", opts: runOpts{stdin: "\n", interactive: true}, wantOut: "Aborted"},
		{name: "accepted", opts: runOpts{stdin: "y\n", interactive: true}, wantRenamed: true, wantOut: "Rename 1 file(s)? [y/N]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupCLI(t, false)
			env.touch(t, "scan1.pdf")

			out, _, err := env.run(t, tt.opts, "apply", env.dir)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantRenamed, env.exists(invoiceName))
			assert.Equal(t, !tt.wantRenamed, env.exists("scan1.pdf"))
			if tt.wantOut != "" {
				assert.Contains(t, out, tt.wantOut)
			}
		})
	}
}

func TestApplyOnly(t *testing.T) {
	t.Run("failed item", func(t *testing.T) {
		env := setupCLI(t, false)
		env.touch(t, "broken.pdf", "scan1.pdf")

		_, errOut, err := env.run(t, runOpts{}, "apply", "--yes", "--only", "1", env.dir)
		require.ErrorIs(t, err, common.ErrCannotRename)
		assert.Contains(t, errOut, "Cannot rename: no text recognized")
		assert.True(t, env.exists("scan1.pdf"))
	})

	t.Run("out of range", func(t *testing.T) {
		env := setupCLI(t, false)
		env.touch(t, "scan1.pdf")

		_, _, err := env.run(t, runOpts{}, "apply", "--yes", "--only", "5", env.dir)
		require.ErrorIs(t, err, common.ErrInvalidInput)
		assert.True(t, env.exists("scan1.pdf"))
	})

	t.Run("single item", func(t *testing.T) {
		env := setupCLI(t, false)
		env.touch(t, "broken.pdf", "scan1.pdf")
		env.source["other.pdf"] = "Betreff: Kündigung\nVon: Stadtwerke Köln\n1.2.23"
		env.touch(t, "other.pdf")

		_, _, err := env.run(t, runOpts{}, "apply", "--yes", "--only", "3", env.dir)
		require.NoError(t, err)
		assert.True(t, env.exists(invoiceName))
		assert.True(t, env.exists("other.pdf"), "only the selected item is renamed")
	})
}

func TestOCRCommand(t *testing.T) {
	env := setupCLI(t, false)
	env.touch(t, "scan1.pdf", "broken.pdf")

	out, _, err := env.run(t, runOpts{}, "ocr", "--fields", filepath.Join(env.dir, "scan1.pdf"))
	require.NoError(t, err)
	assert.Contains(t, out, "Sender:    Acme Corp GmbH")
	assert.Contains(t, out, "Suggested: "+invoiceName)
	assert.True(t, strings.HasSuffix(out, "Invoice for March Services\n"))

	_, _, err = env.run(t, runOpts{}, "ocr", filepath.Join(env.dir, "broken.pdf"))
	require.ErrorIs(t, err, common.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLI(t, false)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := env.run(t, runOpts{}, "config", "init", "--path", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote sample configuration to "+target)

	_, _, err = env.run(t, runOpts{}, "config", "init", "--path", target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = env.run(t, runOpts{}, "config", "init", "--path", target, "--overwrite")
	require.NoError(t, err)

	cfg, _, exists, err := common.LoadConfig(target)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, common.DefaultConfig().OCR, cfg.OCR)

	out, _, err = env.run(t, runOpts{}, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "# Config path: "+env.configPath)
	assert.Contains(t, out, "[ocr]")
	assert.Contains(t, out, env.cachePath)
}

func TestConfigErrorsSurface(t *testing.T) {
	env := setupCLI(t, false)
	require.NoError(t, os.WriteFile(env.configPath, []byte("[ocr]\ndpi = 5\n"), 0o644))

	_, _, err := env.run(t, runOpts{}, "suggest", env.dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "ocr.dpi")
}

func TestCacheCommands(t *testing.T) {
	env := setupCLI(t, true)
	ctx := context.Background()

	cache, err := repository.OpenTextCache(ctx, env.cachePath, 0, nil)
	require.NoError(t, err)
	require.NoError(t, cache.Put(ctx, "h1", "tesseract:deu+eng:300dpi", "pdf-ocr", "hello"))
	require.NoError(t, cache.Close())

	out, _, err := env.run(t, runOpts{}, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 1")
	assert.Contains(t, out, env.cachePath)

	out, _, err = env.run(t, runOpts{}, "cache", "prune", "--older-than", "1h")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 cache entries older than 1h0m0s")

	_, _, err = env.run(t, runOpts{}, "cache", "prune", "--older-than", "soon")
	require.ErrorIs(t, err, common.ErrInvalidInput)

	out, _, err = env.run(t, runOpts{}, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 cache entry")

	out, _, err = env.run(t, runOpts{}, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Entries: 0")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		want      int
		wantPrint bool
	}{
		{name: "success", want: 0},
		{name: "no files", err: common.ErrNoFilesSelected, want: 0},
		{name: "nothing to rename", err: fmt.Errorf("wrap: %w", common.ErrNothingToRename), want: 0},
		{name: "cancelled", err: context.Canceled, want: 1},
		{name: "rename failed", err: fmt.Errorf("%w: 1 of 2 failed", common.ErrRenameFailed), want: 1, wantPrint: true},
		{name: "other", err: errors.New("boom"), want: 1, wantPrint: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.want, exitCode(tt.err, &stderr))
			assert.Equal(t, tt.wantPrint, stderr.Len() > 0)
		})
	}
}

func TestParseAge(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "30d", want: 30 * 24 * time.Hour},
		{in: "0d", want: 0},
		{in: "12h", want: 12 * time.Hour},
		{in: " 90m ", want: 90 * time.Minute},
		{in: "xd", wantErr: true},
		{in: "-1d", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAge(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventMessage(t *testing.T) {
	assert.Empty(t, eventMessage(pipeline.Event{Kind: pipeline.EventState, Message: "idle -> collecting"}))
	assert.Equal(t, "[2/3] b.pdf: no text", eventMessage(pipeline.Event{
		Kind: pipeline.EventFileAnalyzed, Index: 1, Total: 3, Path: "/x/b.pdf", Reason: "no text",
	}))
	assert.Equal(t, "Renamed 2 file(s).", eventMessage(pipeline.Event{Kind: pipeline.EventRenamed, Message: "Renamed 2 file(s)."}))
}
