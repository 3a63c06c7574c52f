//go:build gosseract

package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

const recognizerNeedsBinary = false

func newRecognizer(cfg Config, _ Runner) Recognizer {
	return &gosseractRecognizer{lang: cfg.TesseractLang, tessdata: cfg.TessdataDir}
}

// gosseractRecognizer calls libtesseract in process.
type gosseractRecognizer struct {
	lang     string
	tessdata string
}

func (g *gosseractRecognizer) Name() string { return "gosseract" }

func (g *gosseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if g.tessdata != "" {
		if err := client.SetTessdataPrefix(g.tessdata); err != nil {
			return "", fmt.Errorf("%w: tessdata: %v", common.ErrToolUnavailable, err)
		}
	}
	if err := client.SetLanguage(strings.Split(g.lang, "+")...); err != nil {
		return "", fmt.Errorf("%w: language %q: %v", common.ErrToolUnavailable, g.lang, err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrExtractionFailed, err)
	}
	return text, nil
}
