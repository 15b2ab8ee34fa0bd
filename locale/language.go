// Package locale holds the site's language model: which languages exist,
// how the chosen one is persisted in the "language" cookie, and where the
// browser goes after the visitor switches language.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnsupportedLanguage is returned when a value names neither English
// nor Korean.
var ErrUnsupportedLanguage = errors.New("locale: unsupported language")

// Language is a supported site language code.
type Language string

const (
	English Language = "en"
	Korean  Language = "ko"

	// Default is used whenever no language has been chosen.
	Default = English
)

// Supported lists the site languages in display order.
var Supported = []Language{English, Korean}

var matcher = language.NewMatcher([]language.Tag{language.English, language.Korean})

// Parse maps a cookie or form value onto a Language. Besides the canonical
// codes it accepts "kr", which older cookies carry, and regional tags such
// as "ko-KR" or "en-GB".
func Parse(s string) (Language, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "en":
		return English, nil
	case "ko", "kr":
		return Korean, nil
	case "":
		return "", fmt.Errorf("%w: empty value", ErrUnsupportedLanguage)
	}
	tag, err := language.Parse(v)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return Supported[idx], nil
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == English || l == Korean
}

func (l Language) String() string { return string(l) }

// Tag returns the BCP 47 tag for l.
func (l Language) Tag() language.Tag {
	if l == Korean {
		return language.Korean
	}
	return language.English
}

// Name returns the language's name written in that language ("English",
// "한국어"), as shown in the language menu.
func (l Language) Name() string {
	return display.Self.Name(l.Tag())
}
