package links

import (
	"net/url"
	"strings"
)

// Absolutize resolves href against base. The second return value is false for
// an empty href or an unparseable base/href.
func Absolutize(base, href string) (string, bool) {
	if href == "" {
		return "", false
	}

	b, err := url.Parse(base)
	if err != nil {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}

	return b.ResolveReference(ref).String(), true
}

// Internal reports whether the URL's host, case-folded, ends with one of the
// configured site domain suffixes. Malformed URLs are external, never an error.
func Internal(rawurl string, domains []string) bool {
	u, err := url.Parse(rawurl)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	for _, d := range domains {
		if strings.HasSuffix(host, strings.ToLower(d)) {
			return true
		}
	}
	return false
}
