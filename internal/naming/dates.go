package naming

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// monthNumbers maps lower-case German and English month names and their
// abbreviations to the month number.
var monthNumbers = map[string]int{
	"januar": 1, "january": 1, "jan": 1,
	"februar": 2, "february": 2, "feb": 2,
	"märz": 3, "maerz": 3, "march": 3, "mär": 3, "mar": 3,
	"april": 4, "apr": 4,
	"mai": 5, "may": 5,
	"juni": 6, "june": 6, "jun": 6,
	"juli": 7, "july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sept": 9, "sep": 9,
	"oktober": 10, "october": 10, "okt": 10, "oct": 10,
	"november": 11, "nov": 11,
	"dezember": 12, "december": 12, "dez": 12, "dec": 12,
}

var reDate = regexp.MustCompile(`(?i)(?:^|[^\p{L}\d])(?:` +
	`(\d{1,2})[./-](\d{1,2})[./-](\d{4}|\d{2})` +
	`|(\d{1,2})\.?\s*(` + monthAlternation() + `)\.?\s*(\d{4}|\d{2})` +
	`|(` + monthAlternation() + `)\.?\s+(\d{1,2}),?\s+(\d{4}|\d{2})` +
	`)(?:\D|$)`)

var reDateSep = regexp.MustCompile(`[./-]`)

// monthAlternation lists the month names longest first, so "Januar" is
// preferred over "Jan" at the same position.
func monthAlternation() string {
	names := make([]string, 0, len(monthNumbers))
	for name := range monthNumbers {
		names = append(names, regexp.QuoteMeta(name))
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return strings.Join(names, "|")
}

// extractDate returns the first date in text as YYYY-MM-DD, or "".
func extractDate(text string) string {
	m := reDate.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	var day, month, year string
	switch {
	case m[1] != "":
		day, month, year = m[1], m[2], m[3]
	case m[4] != "":
		day, month, year = m[4], monthToken(m[5]), m[6]
	default:
		day, month, year = m[8], monthToken(m[7]), m[9]
	}

	parts := reDateSep.Split(day+"."+month+"."+year, -1)
	if len(parts) != 3 {
		return ""
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return ""
		}
		nums[i] = n
	}

	y := nums[2]
	if y < 100 {
		if y < 50 {
			y += 2000
		} else {
			y += 1900
		}
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, nums[1], nums[0])
}

func monthToken(name string) string {
	n, ok := monthNumbers[strings.ToLower(name)]
	if !ok {
		return ""
	}
	return strconv.Itoa(n)
}
