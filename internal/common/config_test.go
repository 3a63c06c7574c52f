package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))
	t.Setenv("TESSDATA_PREFIX", "")
	return home
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, path, exists, err := LoadConfig("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, DefaultConfigPath(), path)
	assert.Equal(t, DefaultConfig(), *cfg)
	assert.Equal(t, "deu+eng", cfg.OCR.TesseractLang)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadConfigExplicitMissingFile(t *testing.T) {
	isolateEnv(t)

	_, _, exists, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, exists)
}

func TestLoadConfigLayers(t *testing.T) {
	home := isolateEnv(t)
	path := writeConfig(t, `
[ocr]
tesseract_lang = "eng"
dpi = 200

[cache]
path = "~/state/cache.db"

[log]
level = "INFO"
`)
	t.Setenv("SMART_RENAME_DPI", "400")
	t.Setenv("SMART_RENAME_LOG_FORMAT", " JSON ")
	t.Setenv("TESSDATA_PREFIX", "/opt/tessdata")

	cfg, resolved, exists, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, path, resolved)

	assert.Equal(t, "eng", cfg.OCR.TesseractLang, "file overrides default")
	assert.Equal(t, 400, cfg.OCR.DPI, "env overrides file")
	assert.Equal(t, "/opt/tessdata", cfg.OCR.TessdataDir)
	assert.Equal(t, filepath.Join(home, "state", "cache.db"), cfg.Cache.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "pdftoppm", cfg.OCR.Pdftoppm, "untouched keys keep defaults")
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "[ocr]\nresolution = 300\n")

	_, _, _, err := LoadConfig(path)
	require.Error(t, err)
	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{
			name:       "out of range",
			body:       "[ocr]\ndpi = 10\ntimeout_seconds = 0\n",
			wantFields: []string{"ocr.dpi", "ocr.timeout_seconds"},
		},
		{
			name:       "bad log settings",
			body:       "[log]\nlevel = \"loud\"\nformat = \"xml\"\n",
			wantFields: []string{"log.level", "log.format"},
		},
		{
			name:       "cache path required when enabled",
			body:       "[cache]\nenabled = true\npath = \"\"\n",
			wantFields: []string{"cache.path"},
		},
		{
			name:       "text layer needs pdftotext",
			body:       "[ocr]\nuse_text_layer = true\npdftotext = \" \"\n",
			wantFields: []string{"ocr.pdftotext"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			_, _, _, err := LoadConfig(writeConfig(t, tt.body))
			require.ErrorIs(t, err, ErrValidation)
			for _, f := range tt.wantFields {
				assert.Contains(t, err.Error(), f)
			}
		})
	}
}

func TestLoadConfigDisabledCacheNeedsNoPath(t *testing.T) {
	isolateEnv(t)
	cfg, _, _, err := LoadConfig(writeConfig(t, "[cache]\nenabled = false\npath = \"\"\n"))
	require.NoError(t, err)
	assert.False(t, cfg.Cache.Enabled)
}

func TestEncodeTOMLRoundTrip(t *testing.T) {
	isolateEnv(t)
	want := DefaultConfig()
	want.OCR.DPI = 150
	want.Rename.LockPath = filepath.Join(t.TempDir(), "rename.lock")

	data, err := want.EncodeTOML()
	require.NoError(t, err)

	got, _, _, err := LoadConfig(writeConfig(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, want, *got)
}

func TestExpandPath(t *testing.T) {
	home := isolateEnv(t)
	tests := []struct{ in, want string }{
		{in: "", want: ""},
		{in: "  ", want: ""},
		{in: "~", want: home},
		{in: "~/a/../b", want: filepath.Join(home, "b")},
		{in: "/tmp//x/", want: "/tmp/x"},
		{in: "rel/./dir", want: "rel/dir"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
