//go:build !gosseract

package ocr

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

func TestTesseractCLI(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		stderr  string
		err     error
		want    string
		wantErr error
	}{
		{name: "text on stdout", out: "Hello\n", stderr: "Estimating resolution as 300", want: "Hello\n"},
		{name: "ERROR on stdout", out: "ERROR: image unreadable", wantErr: common.ErrExtractionFailed},
		{name: "ERROR on stderr", out: "", stderr: "Error opening data file\nERROR: could not initialize", wantErr: common.ErrExtractionFailed},
		{name: "binary missing", err: &exec.Error{Name: "tesseract", Err: exec.ErrNotFound}, wantErr: common.ErrToolUnavailable},
		{name: "non-zero exit", err: errors.New("exit status 1"), wantErr: common.ErrExtractionFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &fakeRunner{handlers: map[string]func([]string) ([]byte, []byte, error){
				"/bin/tesseract": func([]string) ([]byte, []byte, error) { return []byte(tt.out), []byte(tt.stderr), tt.err },
			}}
			cfg := testConfig()
			cfg.TessdataDir = "/data/tessdata"
			rec := newRecognizer(cfg, r)

			got, err := rec.Recognize(context.Background(), "/tmp/page.png")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			require.Len(t, r.calls, 1)
			assert.Equal(t, []string{"/tmp/page.png", "stdout", "-l", "deu+eng", "--tessdata-dir", "/data/tessdata"}, r.calls[0].args)
		})
	}
}

func TestResolveRequiresTesseract(t *testing.T) {
	lookPath := func(file string) (string, error) {
		if file == "tesseract" {
			return "", exec.ErrNotFound
		}
		return "/usr/bin/" + file, nil
	}
	_, _, err := Resolve(Config{}, lookPath)
	assert.ErrorIs(t, err, common.ErrToolUnavailable)
}
