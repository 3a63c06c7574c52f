package naming

import (
	"strings"

	"github.com/joseph-ayodele/smart-rename/constants"
)

// defaultBaseName names a document whose fallback sanitizes to nothing.
const defaultBaseName = "document"

// SynthesizeName assembles "{date} {sender} - {subject}.pdf" from the parts
// that are present, after sanitizing them. When none are, the sanitized
// fallback is used, or defaultBaseName if that is empty too. The result
// always ends in ".pdf" and never consists of the extension alone.
func SynthesizeName(f Fields, fallbackBaseName string) string {
	f = f.clean()
	var b strings.Builder
	if f.Date != "" {
		b.WriteString(f.Date)
	}
	if f.Sender != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(f.Sender)
	}
	if f.Subject != "" {
		if b.Len() > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(f.Subject)
	}

	base := b.String()
	if base == "" {
		base = Sanitize(fallbackBaseName)
	}
	if base == "" {
		base = defaultBaseName
	}
	return base + constants.PDFSuffix
}

// FallbackBaseName strips a trailing ".pdf" (any case) from a file name.
func FallbackBaseName(originalName string) string {
	return constants.TrimPDFSuffix(originalName)
}

// SuggestName extracts fields from text and builds a file name, falling back
// to the original name when nothing usable was found.
func SuggestName(text, originalName string) string {
	return SynthesizeName(ExtractFields(text), FallbackBaseName(originalName))
}
