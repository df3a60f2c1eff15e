package language

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detect returns a best-effort ISO 639-1 tag for the text. The second return
// value is false for empty input or when classification produces nothing
// usable; detection never returns an error. The trigram classifier is
// deterministic for a given input.
func Detect(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}

	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" {
		return "", false
	}
	return code, true
}
