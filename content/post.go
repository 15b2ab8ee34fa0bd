// Package content models blog posts and the pure operations the site runs
// over the post collection: sorting, tag counting, tag filtering, language
// filtering and pagination. It also loads posts from Markdown sources.
package content

import (
	"errors"
	"time"

	"github.com/jakeryu/codewise/locale"
)

// ErrInvalidPost is wrapped by every validation error of the loader.
var ErrInvalidPost = errors.New("content: invalid post")

// DateLayout is the front matter and database date format.
const DateLayout = "2006-01-02"

// Post is a compiled blog post. Posts are immutable once loaded; the
// collection helpers never reorder their input in place.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Tags        []string
	Language    locale.Language
	Published   bool
	Body        string // Markdown source
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// DateString formats the post date as YYYY-MM-DD.
func (p Post) DateString() string {
	return p.Date.Format(DateLayout)
}

// Translation returns the slug of this post in lang.
func (p Post) Translation(lang locale.Language) string {
	return locale.LocalizedSlug(p.Slug, lang)
}
