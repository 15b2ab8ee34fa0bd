package views

import (
	"time"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/locale"
)

// Site holds site-wide settings every page renders.
type Site struct {
	Name        string
	URL         string
	Description string
	Author      string
	Email       string
	Links       []Link
}

// Link is a named external profile link.
type Link struct {
	Name string
	URL  string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      any    // encoded as JSON inside a ld+json script
	NoIndex     bool
}

// Translator resolves UI strings.
type Translator interface {
	Message(lang locale.Language, id string, data map[string]any) string
	Plural(lang locale.Language, id string, n int) string
}

// Layout is the data shared by every page.
type Layout struct {
	Site    Site
	Lang    locale.Language
	Meta    PageMeta
	Current string // request URI, posted back by the language toggle
	Section string // highlighted nav item: home, blog, tags or about
	CSRF    string
	Tr      Translator
}

// T returns the UI string id in the page language.
func (l Layout) T(id string) string {
	return l.Tr.Message(l.Lang, id, nil)
}

// TData is T with template data given as key/value pairs.
func (l Layout) TData(id string, kv ...any) string {
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			data[k] = kv[i+1]
		}
	}
	return l.Tr.Message(l.Lang, id, data)
}

// TIn returns the UI string id in lang.
func (l Layout) TIn(lang locale.Language, id string) string {
	return l.Tr.Message(lang, id, nil)
}

// N returns the plural form of id for n.
func (l Layout) N(id string, n int) string {
	return l.Tr.Plural(l.Lang, id, n)
}

func (l Layout) Languages() []locale.Language { return locale.Supported }

func (l Layout) FormatDate(t time.Time) string { return FormatDate(l.Lang, t) }

func (l Layout) Year() int { return time.Now().Year() }

// OGLocale returns the og:locale value for the page language.
func (l Layout) OGLocale() string {
	if l.Lang == locale.Korean {
		return "ko_KR"
	}
	return "en_US"
}

// TagCount is a tag with the number of posts carrying it.
type TagCount struct {
	Name  string
	Slug  string
	Count int
}

type HomePage struct {
	Layout
	Posts []content.Post
}

type AboutPage struct {
	Layout
}

type BlogPage struct {
	Layout
	Page content.Page
	Tags []TagCount
}

func (p BlogPage) Posts() []content.Post { return p.Page.Posts }

type PostPage struct {
	Layout
	Post        content.Post
	Related     []content.Post
	Translation *content.Post // same post in the other language, if published
	Draft       bool          // admin preview of an unpublished post
}

type TagsPage struct {
	Layout
	Tags []TagCount
}

type TagPage struct {
	Layout
	Tag   string
	Posts []content.Post
}

type ErrorPage struct {
	Layout
	Status int
}

type AdminLoginPage struct {
	Layout
	ShowError bool
}

type AdminDashboardPage struct {
	Layout
	Posts   []content.Post
	Message string
}
