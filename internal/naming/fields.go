package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxSenderRunes  = 30
	maxSubjectRunes = 50

	// subject line fallback
	minSubjectLineRunes = 11
	maxSubjectLineRunes = 81
)

// Fields are the metadata pulled out of a document's text. Empty means the
// field was not found.
type Fields struct {
	Date    string `json:"date"`
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
}

// IsEmpty reports whether no field was found.
func (f Fields) IsEmpty() bool {
	return f.Date == "" && f.Sender == "" && f.Subject == ""
}

var (
	reSenderLabel      = regexp.MustCompile(`(?im)(?:^|[^\p{L}\d])(?:Von|From|Absender|Sender):[ ]*([^\n]{1,50})`)
	reSenderLabelStrip = regexp.MustCompile(`(?i)(^|[^\p{L}\d])(?:Von|From|Absender|Sender):\s*`)
	reLegalEntity      = regexp.MustCompile(`((?:[A-ZÄÖÜ][a-zäöüß]+ ){1,3}(?:GmbH|AG|Ltd|LLC|Inc|Co)\b\.?)`)
	reTwoWordName      = regexp.MustCompile(`(?m)([A-ZÄÖÜ][a-zäöüß]+ [A-ZÄÖÜ][a-zäöüß]+)(?:\s|$)`)

	reSubjectLabel      = regexp.MustCompile(`(?im)(?:^|[^\p{L}\d])(?:Betreff|Subject|Re):[ ]*([^\n]{1,80})`)
	reSubjectLabelStrip = regexp.MustCompile(`(?i)(^|[^\p{L}\d])(?:Betreff|Subject|Re):\s*`)

	reHeaderLine = regexp.MustCompile(`^[\p{L}\p{M}-]+:`)
)

// ExtractFields pulls date, sender and subject out of recognized text. Each
// field takes the first match of a fixed list of patterns; no match leaves the
// field empty. The result is sanitized and length-capped.
func ExtractFields(text string) Fields {
	text = Normalize(text)
	if text == "" {
		return Fields{}
	}

	sender := extractSender(text)
	return Fields{
		Date:    extractDate(text),
		Sender:  sender,
		Subject: extractSubject(text, sender),
	}.clean()
}

// clean sanitizes every field and applies the length caps.
func (f Fields) clean() Fields {
	return Fields{
		Date:    Sanitize(f.Date),
		Sender:  truncateRunes(Sanitize(f.Sender), maxSenderRunes),
		Subject: truncateRunes(Sanitize(f.Subject), maxSubjectRunes),
	}
}

func extractSender(text string) string {
	if m := reSenderLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(reSenderLabelStrip.ReplaceAllString(m[1], "${1}"))
	}
	if m := reLegalEntity.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	if m := reTwoWordName.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// extractSubject takes a labelled subject, or else the first line that
// reads like a sentence. A line holding nothing but the sender is skipped.
func extractSubject(text, sender string) string {
	if m := reSubjectLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(reSubjectLabelStrip.ReplaceAllString(m[1], "${1}"))
	}

	for _, line := range strings.Split(text, "\n") {
		if line == sender || reHeaderLine.MatchString(line) {
			continue
		}
		first, _ := utf8.DecodeRuneInString(line)
		if !unicode.IsUpper(first) {
			continue
		}
		head, _, _ := strings.Cut(line, ".")
		if utf8.RuneCountInString(head) < minSubjectLineRunes {
			continue
		}
		return truncateRunes(head, maxSubjectLineRunes)
	}
	return ""
}
