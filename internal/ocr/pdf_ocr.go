package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (Result, error) {
	var warns []string
	if e.cfg.UseTextLayer && e.cfg.Pdftotext != "" {
		text, err := e.pdfToText(ctx, path)
		switch {
		case err != nil:
			// fall through to OCR, the page may still rasterize
			warns = append(warns, err.Error())
		case textLayerUsable(text):
			return Result{Text: text, Pages: 1, Method: MethodTextLayer, Quality: textQuality(text), Warnings: warns}, nil
		default:
			e.logger.Debug("text layer unusable, running ocr", "path", path, "chars", len(text))
		}
	}

	text, err := e.pdfToOCR(ctx, path)
	if err != nil {
		return Result{Method: MethodOCR, Warnings: warns}, err
	}
	return Result{Text: text, Pages: 1, Method: MethodOCR, Quality: textQuality(text), Warnings: warns}, nil
}

// pdfToText reads the embedded text layer of page 1.
func (e *Extractor) pdfToText(ctx context.Context, path string) (string, error) {
	// pdftotext -f 1 -l 1 -layout -enc UTF-8 -eol unix <path> -
	out, err := runTool(ctx, e.runner, e.cfg.Pdftotext, "-f", "1", "-l", "1", "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", err
	}
	return Normalize(string(out)), nil
}

// pdfToOCR rasterizes page 1 and hands the image to the recognizer.
func (e *Extractor) pdfToOCR(ctx context.Context, path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "smart-rename-*")
	if err != nil {
		return "", fmt.Errorf("%w: temp dir: %v", common.ErrExtractionFailed, err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f 1 -l 1 -singlefile -r 300 -png <in.pdf> <tmp/page>
	if _, err := runTool(ctx, e.runner, e.cfg.Pdftoppm,
		"-f", "1", "-l", "1", "-singlefile", "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix); err != nil {
		return "", err
	}

	img := prefix + ".png"
	if _, err := os.Stat(img); err != nil {
		return "", fmt.Errorf("%w: pdftoppm produced no image", common.ErrExtractionFailed)
	}

	raw, err := e.recognizer.Recognize(ctx, img)
	if err != nil {
		if errors.Is(err, common.ErrToolUnavailable) || errors.Is(err, common.ErrExtractionFailed) {
			return "", err
		}
		return "", fmt.Errorf("%w: %s: %v", common.ErrExtractionFailed, e.recognizer.Name(), err)
	}

	text := Normalize(raw)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text recognized", common.ErrExtractionFailed)
	}
	return text, nil
}
