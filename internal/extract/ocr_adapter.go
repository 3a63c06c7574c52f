package extract

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/smart-rename/internal/ocr"
)

// Recognizer is what the adapter needs from the OCR engine.
type Recognizer interface {
	Extract(ctx context.Context, path string) (ocr.Result, error)
	Engine() string
}

// OCRAdapter exposes an OCR engine as a TextSource.
type OCRAdapter struct {
	e      Recognizer
	logger *slog.Logger
}

func NewOCRAdapter(e Recognizer, logger *slog.Logger) *OCRAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAdapter{e: e, logger: logger}
}

// Engine identifies the underlying engine configuration.
func (a *OCRAdapter) Engine() string { return a.e.Engine() }

func (a *OCRAdapter) GetText(ctx context.Context, path string) TextResult {
	res := TextResult{SourcePath: path, SourceName: filepath.Base(path)}
	r, err := a.e.Extract(ctx, path)
	res.Method = r.Method
	res.Pages = r.Pages
	res.Duration = r.Duration
	if err != nil {
		res.Failure = FailureFromError(err)
		a.logger.Warn("text extraction failed", "path", path, "kind", res.Failure.Kind, "error", err)
		return res
	}
	for _, w := range r.Warnings {
		a.logger.Debug("text extraction warning", "path", path, "warning", w)
	}
	res.Text = r.Text
	return res
}
