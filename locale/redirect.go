package locale

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jakeryu/codewise/urlpath"
)

// Marker is the suffix that marks the Korean variant of a post slug:
// /blog/clean-architecture/ is English, /blog/clean-architecture-ko/ Korean.
const Marker = "-ko"

// ActionKind says what the browser should do after a language change.
type ActionKind int

const (
	NoOp ActionKind = iota
	ReloadInPlace
	StripQueryAndNavigate
	RewritePathAndNavigate
)

func (k ActionKind) String() string {
	switch k {
	case ReloadInPlace:
		return "reload"
	case StripQueryAndNavigate:
		return "strip-query"
	case RewritePathAndNavigate:
		return "rewrite-path"
	default:
		return "noop"
	}
}

// Action is the outcome of DecideRedirect. URL is the navigation target for
// the navigate kinds and the current URL for ReloadInPlace.
type Action struct {
	Kind ActionKind
	URL  string
}

// DecideRedirect returns where a visitor on currentURL should end up after
// switching to target.
//
//   - blog index: drop the query (pagination is per language) and navigate
//   - tags index, tag page, home, about: reload in place
//   - blog post: swap the slug to the target language's variant
//   - anything else, including unparseable URLs: no-op
func DecideRedirect(currentURL string, target Language) Action {
	switch urlpath.Classify(currentURL) {
	case urlpath.BlogIndex:
		u, err := urlpath.StripQuery(currentURL)
		if err != nil {
			return Action{Kind: NoOp}
		}
		return Action{Kind: StripQueryAndNavigate, URL: u}
	case urlpath.TagsIndex, urlpath.TagPage, urlpath.Home, urlpath.About:
		return Action{Kind: ReloadInPlace, URL: currentURL}
	case urlpath.BlogPost:
		u, err := RewritePostURL(currentURL, target)
		if err != nil {
			return Action{Kind: NoOp}
		}
		return Action{Kind: RewritePathAndNavigate, URL: u}
	}
	return Action{Kind: NoOp}
}

// RewritePostURL rewrites the last path segment of a post URL to the slug
// variant for lang. Query, fragment and trailing slash are kept.
func RewritePostURL(raw string, lang Language) (string, error) {
	u, err := urlpath.Parse(raw)
	if err != nil {
		return "", err
	}
	p := u.EscapedPath()
	end := len(strings.TrimRight(p, "/"))
	start := strings.LastIndex(p[:end], "/") + 1
	if start >= end {
		return "", fmt.Errorf("%w: %q has no path segment", urlpath.ErrInvalidURL, raw)
	}
	rewritten := p[:start] + LocalizedSlug(p[start:end], lang) + p[end:]
	decoded, err := url.PathUnescape(rewritten)
	if err != nil {
		return "", err
	}
	u.Path = decoded
	u.RawPath = rewritten
	return u.String(), nil
}

// ToEnglish returns the English variant of a post URL.
func ToEnglish(raw string) (string, error) { return RewritePostURL(raw, English) }

// ToKorean returns the Korean variant of a post URL.
func ToKorean(raw string) (string, error) { return RewritePostURL(raw, Korean) }

// LocalizedSlug returns the slug of the lang variant of slug. It never
// doubles the marker and never strips what is not there.
func LocalizedSlug(slug string, lang Language) string {
	base := BaseSlug(slug)
	if lang == Korean {
		return base + Marker
	}
	return base
}

// BaseSlug strips the Korean marker from slug.
func BaseSlug(slug string) string {
	return strings.TrimSuffix(slug, Marker)
}

// SlugLanguage infers a post's language from its slug.
func SlugLanguage(slug string) Language {
	if strings.HasSuffix(slug, Marker) {
		return Korean
	}
	return English
}
