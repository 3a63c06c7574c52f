package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// illegalChars are the characters no target filesystem accepts in a name.
var illegalChars = strings.NewReplacer(
	"<", "",
	">", "",
	":", "",
	"\"", "",
	"/", "",
	"\\", "",
	"|", "",
	"?", "",
	"*", "",
)

// Sanitize removes characters that are illegal in file names, drops control
// characters, collapses whitespace runs to single spaces and trims.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = illegalChars.Replace(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// truncateRunes cuts s to at most n runes and trims what is left.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
