//go:build !gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

const recognizerNeedsBinary = true

func newRecognizer(cfg Config, r Runner) Recognizer {
	return &tesseractCLI{bin: cfg.Tesseract, lang: cfg.TesseractLang, tessdata: cfg.TessdataDir, runner: r}
}

// tesseractCLI runs the tesseract binary once per image.
type tesseractCLI struct {
	bin      string
	lang     string
	tessdata string
	runner   Runner
}

func (t *tesseractCLI) Name() string { return "tesseract" }

func (t *tesseractCLI) Recognize(ctx context.Context, imagePath string) (string, error) {
	if t.bin == "" {
		return "", fmt.Errorf("%w: tesseract path not resolved", common.ErrToolUnavailable)
	}
	// tesseract <file> stdout -l <lang>
	args := []string{imagePath, "stdout", "-l", t.lang}
	if t.tessdata != "" {
		args = append(args, "--tessdata-dir", t.tessdata)
	}
	out, err := runTool(ctx, t.runner, t.bin, args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
