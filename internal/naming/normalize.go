// Package naming turns recognized document text into a canonical
// "{date} {sender} - {subject}.pdf" file name.
package naming

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize prepares OCR text for field extraction. It composes Unicode
// (so a decomposed "a" + diaeresis matches "ä"), collapses every run of
// horizontal whitespace to one space, trims each line and drops blank lines.
// Line breaks survive: a labelled value never extends past its line.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := lines[:0]
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}
