package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

const (
	MethodTextLayer = "pdf-text"
	MethodOCR       = "pdf-ocr"
)

type Config struct {
	Pdftotext string // resolved path; empty disables the text-layer fast path
	Pdftoppm  string
	Tesseract string

	TesseractLang string // default "deu+eng"
	TessdataDir   string
	DPI           int // rasterization DPI for scanned pages, default 300

	UseTextLayer bool
	Timeout      time.Duration // per file; 0 = no limit
}

// ConfigFrom maps the application config onto the extractor config. Paths are
// not resolved yet; call Resolve.
func ConfigFrom(c common.OCRConfig) Config {
	return Config{
		Pdftotext:     c.Pdftotext,
		Pdftoppm:      c.Pdftoppm,
		Tesseract:     c.Tesseract,
		TesseractLang: c.TesseractLang,
		TessdataDir:   c.TessdataDir,
		DPI:           c.DPI,
		UseTextLayer:  c.UseTextLayer,
		Timeout:       c.Timeout(),
	}
}

type Result struct {
	Text     string
	Pages    int
	Method   string // MethodTextLayer | MethodOCR
	Language string
	Quality  float32
	Duration time.Duration
	Warnings []string
}

// Extractor recognizes the first page of a PDF. Tool locations are fixed at
// construction.
type Extractor struct {
	cfg        Config
	runner     Runner
	recognizer Recognizer
	logger     *slog.Logger
}

// NewExtractor resolves the configured binaries and builds an Extractor.
// A missing required binary yields an error wrapping common.ErrToolUnavailable.
func NewExtractor(cfg Config, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	resolved, warns, err := Resolve(cfg, nil)
	if err != nil {
		return nil, err
	}
	for _, w := range warns {
		logger.Warn("ocr tool check", "warning", w)
	}
	runner := execRunner{logger: logger}
	return newExtractor(resolved, runner, newRecognizer(resolved, runner), logger), nil
}

func newExtractor(cfg Config, runner Runner, rec Recognizer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = withDefaults(cfg)
	return &Extractor{cfg: cfg, runner: runner, recognizer: rec, logger: logger}
}

func withDefaults(cfg Config) Config {
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "deu+eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return cfg
}

// Engine identifies the recognition setup. Cached text is only reused for the
// same engine string.
func (e *Extractor) Engine() string {
	parts := []string{e.recognizer.Name(), e.cfg.TesseractLang, fmt.Sprintf("%ddpi", e.cfg.DPI)}
	if e.cfg.UseTextLayer && e.cfg.Pdftotext != "" {
		parts = append(parts, "textlayer")
	}
	return strings.Join(parts, ":")
}

// Extract returns the text of the first page of the PDF at path.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	e.logger.Debug("starting text extraction", "path", path, "engine", e.Engine())
	res, err := e.extractPDF(ctx, path)
	res.Duration = time.Since(start)
	res.Language = e.cfg.TesseractLang
	if err != nil {
		e.logger.Debug("text extraction failed", "path", path, "duration_ms", res.Duration.Milliseconds(), "error", err)
		return res, err
	}
	e.logger.Debug("text extraction done",
		"path", path,
		"method", res.Method,
		"chars", len(res.Text),
		"quality", res.Quality,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
