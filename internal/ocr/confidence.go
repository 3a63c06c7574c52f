package ocr

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minTextLayerLetters = 20
	minTextLayerRatio   = 0.5
)

var (
	reDateLike   = regexp.MustCompile(`\d{1,2}[./-]\d{1,2}[./-]\d{2,4}`)
	reLabelLike  = regexp.MustCompile(`(?i)\b(von|from|absender|sender|betreff|subject|re):`)
	reEntityLike = regexp.MustCompile(`\b(GmbH|AG|Ltd|LLC|Inc)\b`)
)

// textLayerUsable decides whether pdftotext output is real text rather than
// an empty or garbage layer left by a scanner.
func textLayerUsable(txt string) bool {
	var letters, visible int
	for _, r := range txt {
		if unicode.IsSpace(r) {
			continue
		}
		visible++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minTextLayerLetters {
		return false
	}
	return float64(letters)/float64(visible) >= minTextLayerRatio
}

// textQuality is a naive 0..1 score of how much naming material the text
// holds. It is reported, never used to reject text.
func textQuality(txt string) float32 {
	score := float32(0.2) // base
	if reDateLike.MatchString(txt) {
		score += 0.3
	}
	if reLabelLike.MatchString(txt) {
		score += 0.25
	}
	if reEntityLike.MatchString(txt) {
		score += 0.15
	}
	if len(strings.Fields(txt)) > 20 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
