package extract

import (
	"context"
	"path/filepath"
)

// UnavailableSource answers every request with the same failure. It stands
// in for the OCR engine when its tools could not be set up, so each file
// still gets a suggestion carrying the reason.
type UnavailableSource struct {
	failure *Failure
}

func NewUnavailableSource(err error) *UnavailableSource {
	return &UnavailableSource{failure: FailureFromError(err)}
}

func (u *UnavailableSource) GetText(_ context.Context, path string) TextResult {
	f := *u.failure
	return TextResult{SourcePath: path, SourceName: filepath.Base(path), Failure: &f}
}
