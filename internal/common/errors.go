package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Input errors end a run without retaining any state.
var (
	ErrNoFilesSelected = errors.New("no files selected")
	ErrNoPDFFiles      = errors.New("no PDF files among selection")
)

// Per-file text extraction errors.
var (
	ErrToolUnavailable  = errors.New("text extraction tool unavailable")
	ErrExtractionFailed = errors.New("text extraction failed")
)

// Rename stage errors.
var (
	ErrNothingToRename = errors.New("no renames needed")
	ErrCannotRename    = errors.New("cannot rename")
	ErrRenameFailed    = errors.New("rename failed")
	ErrInvalidTarget   = errors.New("invalid rename target")
	ErrCollision       = errors.New("target name already exists")
	ErrBatchInProgress = errors.New("another rename batch is in progress")
)

// Generic errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnexpected   = errors.New("unexpected error")
	ErrCache        = errors.New("text cache error")
	ErrValidation   = errors.New("validation failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNothingToDo reports whether err ends a run without anything having gone
// wrong (empty selection, no PDFs, nothing to rename).
func IsNothingToDo(err error) bool {
	return errors.Is(err, ErrNoFilesSelected) ||
		errors.Is(err, ErrNoPDFFiles) ||
		errors.Is(err, ErrNothingToRename)
}
