// Package catalog implements the deduplication core of the link catalog:
// URL canonicalization, the persisted duplicate index, and the tag
// hierarchy built from slash-delimited tags.
package catalog

import (
	"errors"
	"net/url"
	"strings"
)

// ErrEmptyURL is returned when a URL is blank after trimming.
var ErrEmptyURL = errors.New("catalog: empty URL")

// schemePrefixes are stripped case-insensitively before parsing. Longest
// match first, so "https://www." is removed as a unit instead of leaving a
// dangling "www.".
var schemePrefixes = []string{
	"https://www.",
	"http://www.",
	"https://",
	"http://",
	"www.",
}

// Normalize returns the canonical form of a URL, used as the deduplication
// identity: https scheme, lower-cased host without www., no trailing slash
// (root path stays "/"), query preserved, fragment dropped. Inputs like
// "pytorch.org", "www.pytorch.org" and "HTTP://PyTorch.org/" all map to the
// same key. The result is a fixed point of Normalize itself.
//
// Unparseable input degrades to the lower-cased, trimmed raw string rather
// than failing: duplicate detection should never crash the caller. The only
// error condition is a blank URL.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrEmptyURL
	}

	lower := strings.ToLower(s)
	for _, p := range schemePrefixes {
		if strings.HasPrefix(lower, p) {
			s = s[len(p):]
			break
		}
	}
	if !hasScheme(s) {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return degraded(raw), nil
	}

	// Best-effort recovery for inputs that a naive parse reads as a bare
	// path (e.g. "github.com/user/repo" without a scheme). There is no
	// formal grammar behind this; it is a heuristic patch.
	if u.Host == "" && u.Path != "" {
		if fixed, err := url.Parse("https://" + u.Path); err == nil {
			u = fixed
		}
	}
	if u.Host == "" {
		return degraded(raw), nil
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	path := strings.TrimRight(u.Path, "/")
	if path == "" {
		path = "/"
	}

	var b strings.Builder
	b.WriteString("https://")
	b.WriteString(host)
	b.WriteString(path)
	if u.RawQuery != "" {
		b.WriteByte('?')
		b.WriteString(u.RawQuery)
	}
	return b.String(), nil
}

func hasScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// degraded is the fallback canonical form when parsing is unrecoverable.
func degraded(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
