package ocr

import "context"

// Recognizer turns a page image into raw text.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
	Name() string
}
