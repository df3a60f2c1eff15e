package dates

import (
	"regexp"
	"strings"
	"time"
)

var ordinalExpr = regexp.MustCompile(`(?i)(\d{1,2})(st|nd|rd|th)`)

// layouts are tried in order; English month names only.
var layouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2 2006",
	"January 2 2006",
}

// Parse normalizes a free-text publication date into a calendar date.
// Ordinal day suffixes and commas are stripped before matching. The second
// return value is false when no layout matches.
func Parse(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	s = ordinalExpr.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, ",", "")

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
