package markdown

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Anchor turns heading text into a fragment identifier the way GitHub does:
// lower-case, punctuation and symbols dropped, each space replaced by a
// hyphen. Letters of any script survive, so Korean headings keep their
// Hangul.
func Anchor(s string) string {
	s = cases.Lower(language.Und).String(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
