package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Slugify derives the directory/file key for a title: NFKD-normalize, drop
// anything outside ASCII word/space/hyphen, trim, collapse whitespace runs to
// single hyphens. Pure and deterministic, so pull and push map the same title
// to the same path.
func Slugify(title string) string {
	s := norm.NFKD.String(title)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '_', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r', r == '\f', r == '\v':
			b.WriteRune(' ')
		}
		// combining marks and other symbols are dropped
	}

	out := strings.TrimSpace(b.String())
	return strings.Join(strings.Fields(out), "-")
}
