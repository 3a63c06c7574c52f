package extract

import (
	"context"
	"errors"
	"time"

	"github.com/joseph-ayodele/smart-rename/internal/common"
)

// TextSource produces the text of a document. It never returns an error:
// failures are carried on the result so one bad file cannot stop a batch.
type TextSource interface {
	GetText(ctx context.Context, path string) TextResult
}

// FailureKind separates "the engine is not there" from "the engine ran and
// could not read this file".
type FailureKind string

const (
	FailureToolUnavailable  FailureKind = "tool_unavailable"
	FailureExtractionFailed FailureKind = "extraction_failed"
)

// Failure explains why a TextResult has no usable text.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	return string(f.Kind) + ": " + f.Message
}

// Unwrap maps the failure back onto the shared sentinel errors.
func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	if f.Kind == FailureToolUnavailable {
		return common.ErrToolUnavailable
	}
	return common.ErrExtractionFailed
}

// TextResult is the outcome of GetText. Text is only meaningful when
// Failure is nil.
type TextResult struct {
	SourcePath string
	SourceName string
	Text       string
	Failure    *Failure
	Method     string // "pdf-text" | "pdf-ocr"
	Pages      int
	Cached     bool
	Duration   time.Duration
}

// OK reports whether the result carries usable text.
func (r TextResult) OK() bool { return r.Failure == nil }

// FailureFromError classifies an extraction error.
func FailureFromError(err error) *Failure {
	if err == nil {
		return nil
	}
	kind := FailureExtractionFailed
	if errors.Is(err, common.ErrToolUnavailable) {
		kind = FailureToolUnavailable
	}
	return &Failure{Kind: kind, Message: err.Error()}
}
