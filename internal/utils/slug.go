package utils

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug from a post title: lowercased, ampersands
// and runs of whitespace become single hyphens, every other non-word rune is
// dropped. The derivation is deterministic so the same title always yields
// the same slug.
func Slugify(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range title {
		switch {
		case unicode.IsSpace(r), r == '&':
			if b.Len() > 0 {
				pendingHyphen = true
			}
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			if pendingHyphen {
				b.WriteByte('-')
				pendingHyphen = false
			}
			b.WriteRune(r)
		default:
			// Other punctuation is stripped entirely.
		}
	}
	return b.String()
}
