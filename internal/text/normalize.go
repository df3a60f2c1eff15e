package text

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	hspaceExpr   = regexp.MustCompile(`[ \t]+`)
	newlinesExpr = regexp.MustCompile(`\n{3,}`)

	nbspReplacer = strings.NewReplacer("&nbsp;", " ", " ", " ")
)

// Normalize converts raw article HTML into plain text: tags stripped,
// non-breaking spaces replaced, horizontal whitespace runs collapsed to one
// space, three or more newlines collapsed to two, and the result trimmed.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	stripped := stripTags(raw)
	stripped = nbspReplacer.Replace(stripped)
	stripped = hspaceExpr.ReplaceAllString(stripped, " ")
	stripped = newlinesExpr.ReplaceAllString(stripped, "\n\n")
	return strings.TrimSpace(stripped)
}

// stripTags removes tag markup and keeps text content byte for byte. Entity
// references stay encoded, so text that happens to contain encoded markup is
// not turned into markup on a later pass.
func stripTags(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}
