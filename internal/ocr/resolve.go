package ocr

import (
	"fmt"
	"os/exec"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

// LookPathFunc finds an executable; exec.LookPath by default.
type LookPathFunc func(file string) (string, error)

// Resolve turns the configured binary names into absolute paths once, so no
// file system search happens per document. pdftoppm is required, and so is
// tesseract unless the in-process recognizer is compiled in. A missing
// pdftotext only disables the text-layer fast path and is reported as a
// warning.
func Resolve(cfg Config, lookPath LookPathFunc) (Config, []string, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	cfg = withDefaults(cfg)

	var warns []string
	if cfg.UseTextLayer {
		if p, err := lookPath(orDefault(cfg.Pdftotext, "pdftotext")); err != nil {
			warns = append(warns, fmt.Sprintf("pdftotext not found, text layer disabled: %v", err))
			cfg.Pdftotext = ""
		} else {
			cfg.Pdftotext = p
		}
	} else {
		cfg.Pdftotext = ""
	}

	p, err := lookPath(orDefault(cfg.Pdftoppm, "pdftoppm"))
	if err != nil {
		return cfg, warns, fmt.Errorf("%w: pdftoppm: %v", common.ErrToolUnavailable, err)
	}
	cfg.Pdftoppm = p

	if recognizerNeedsBinary {
		p, err := lookPath(orDefault(cfg.Tesseract, "tesseract"))
		if err != nil {
			return cfg, warns, fmt.Errorf("%w: tesseract: %v", common.ErrToolUnavailable, err)
		}
		cfg.Tesseract = p
	}
	return cfg, warns, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
