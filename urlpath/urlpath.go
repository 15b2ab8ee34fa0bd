// Package urlpath classifies site URLs by inspecting their path segments.
//
// The predicates (IsBlog, IsTagPage, ...) swallow parse failures and report
// false, logging the failure. Classify reports Invalid instead, for callers
// that need to tell an unparseable URL apart from one that simply does not
// match.
package urlpath

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned for input that cannot be parsed as an absolute
// URL or a rooted path.
var ErrInvalidURL = errors.New("urlpath: invalid URL")

// Path segment names the site routes are built from.
const (
	SegmentAbout = "about"
	SegmentBlog  = "blog"
	SegmentTags  = "tags"
)

// Reserved reports whether segment names a section of the site. Such a
// segment cannot be a post slug or a tag slug: /blog/blog/ would read as the
// blog index.
func Reserved(segment string) bool {
	switch segment {
	case SegmentAbout, SegmentBlog, SegmentTags:
		return true
	}
	return false
}

// Category is the kind of page a URL points at.
type Category int

const (
	Unknown Category = iota
	Home
	About
	BlogIndex
	BlogPost
	TagsIndex
	TagPage
	Invalid
)

var categoryNames = [...]string{
	Unknown:   "unknown",
	Home:      "home",
	About:     "about",
	BlogIndex: "blog-index",
	BlogPost:  "blog-post",
	TagsIndex: "tags-index",
	TagPage:   "tag-page",
	Invalid:   "invalid",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// Parse parses raw and rejects anything that is neither an absolute URL
// nor a rooted path.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Opaque != "" {
		return nil, fmt.Errorf("%w: opaque URL %q", ErrInvalidURL, raw)
	}
	if !u.IsAbs() && !strings.HasPrefix(u.Path, "/") {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	if u.IsAbs() && u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidURL, raw)
	}
	return u, nil
}

// Segments returns the non-empty, still escaped path segments of raw.
// Leading, trailing and repeated slashes never produce empty entries.
func Segments(raw string) ([]string, error) {
	u, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return SplitPath(u.EscapedPath()), nil
}

// SplitPath splits p on "/" and drops empty segments.
func SplitPath(p string) []string {
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func segments(raw string) ([]string, bool) {
	segs, err := Segments(raw)
	if err != nil {
		slog.Warn("urlpath: invalid URL provided", "url", raw, "error", err)
		return nil, false
	}
	return segs, true
}

// LastSegment returns the final path segment of raw.
func LastSegment(raw string) (string, bool) {
	segs, ok := segments(raw)
	if !ok || len(segs) == 0 {
		return "", false
	}
	return segs[len(segs)-1], true
}

// SecondToLastSegment returns the path segment before the last one. It
// reports false when the path has fewer than two segments.
func SecondToLastSegment(raw string) (string, bool) {
	segs, ok := segments(raw)
	if !ok || len(segs) < 2 {
		return "", false
	}
	return segs[len(segs)-2], true
}

func lastIs(raw, name string) bool {
	s, ok := LastSegment(raw)
	return ok && s == name
}

func secondToLastIs(raw, name string) bool {
	s, ok := SecondToLastSegment(raw)
	return ok && s == name
}

// IsHome reports whether raw is the site root.
func IsHome(raw string) bool {
	segs, ok := segments(raw)
	return ok && len(segs) == 0
}

func IsAbout(raw string) bool { return lastIs(raw, SegmentAbout) }

// IsBlog reports whether raw is the blog index.
func IsBlog(raw string) bool { return lastIs(raw, SegmentBlog) }

// IsBlogPage reports whether raw is a single post under /blog/. A reserved
// last segment is never a post, so IsBlog and IsBlogPage never both hold.
func IsBlogPage(raw string) bool {
	s, ok := LastSegment(raw)
	return ok && !Reserved(s) && secondToLastIs(raw, SegmentBlog)
}

func IsTags(raw string) bool { return lastIs(raw, SegmentTags) }

func IsTagPage(raw string) bool { return secondToLastIs(raw, SegmentTags) }

// Classify maps raw onto a Category. The checks follow the same segment
// rules as the predicates, evaluated once.
func Classify(raw string) Category {
	segs, err := Segments(raw)
	if err != nil {
		slog.Warn("urlpath: invalid URL provided", "url", raw, "error", err)
		return Invalid
	}
	n := len(segs)
	if n == 0 {
		return Home
	}
	switch segs[n-1] {
	case SegmentBlog:
		return BlogIndex
	case SegmentTags:
		return TagsIndex
	case SegmentAbout:
		return About
	}
	if n >= 2 {
		switch segs[n-2] {
		case SegmentBlog:
			return BlogPost
		case SegmentTags:
			return TagPage
		}
	}
	return Unknown
}

// StripQuery returns raw without its query string and fragment.
func StripQuery(raw string) (string, error) {
	u, err := Parse(raw)
	if err != nil {
		return "", err
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String(), nil
}
