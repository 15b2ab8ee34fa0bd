package views

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/locale"
)

// echoTranslator renders "lang:id" so tests can see which string was used.
type echoTranslator struct{}

func (echoTranslator) Message(lang locale.Language, id string, data map[string]any) string {
	if len(data) > 0 {
		return fmt.Sprintf("%s:%s%v", lang, id, data)
	}
	return fmt.Sprintf("%s:%s", lang, id)
}

func (echoTranslator) Plural(lang locale.Language, id string, n int) string {
	return fmt.Sprintf("%s:%s(%d)", lang, id, n)
}

func layout(lang locale.Language) Layout {
	return Layout{
		Site:    Site{Name: "CodeWise", URL: "https://jakeryu.test"},
		Lang:    lang,
		Current: "/blog/clean-architecture/",
		Section: "blog",
		CSRF:    "tok",
		Tr:      echoTranslator{},
	}
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

var post = content.Post{
	Slug:     "clean-architecture",
	Title:    "Clean Architecture",
	Date:     time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
	Tags:     []string{"Clean Architecture"},
	Language: locale.English,
	Body:     "## Layers\n\nDependencies point inwards.",
}

func TestLanguageToggle(t *testing.T) {
	out := render(t, Home(HomePage{Layout: layout(locale.Korean), Posts: []content.Post{post}}))

	assert.Contains(t, out, `<html lang="ko">`)
	assert.Contains(t, out, `action="/language/"`)
	assert.Contains(t, out, `name="_csrf" value="tok"`)
	assert.Contains(t, out, `name="current" value="/blog/clean-architecture/"`)
	assert.Contains(t, out, `value="ko" lang="ko" aria-pressed="true"`)
	assert.Contains(t, out, `value="en" lang="en">English`)
	assert.Contains(t, out, `<meta property="og:locale" content="ko_KR">`)
	assert.Contains(t, out, "ko:LatestPosts")
	assert.Contains(t, out, "2024년 3월 1일")
}

func TestPostPage(t *testing.T) {
	ko := post
	ko.Slug, ko.Title, ko.Language = "clean-architecture-ko", "클린 아키텍처", locale.Korean
	l := layout(locale.English)
	l.Meta = PageMeta{Title: post.Title, JSONLD: map[string]any{"@type": "BlogPosting"}}

	out := render(t, Post(PostPage{Layout: l, Post: post, Translation: &ko}))

	assert.Contains(t, out, `<h2 id="layers">Layers</h2>`)
	assert.Contains(t, out, `href="/blog/clean-architecture-ko/" hreflang="ko" lang="ko">ko:Translation`)
	assert.Contains(t, out, `href="/tags/clean-architecture/"`)
	assert.Contains(t, out, `"@type":"BlogPosting"`)
	assert.Contains(t, out, `<time datetime="2024-03-01">March 1, 2024</time>`)
	assert.Contains(t, out, `aria-current="page">en:NavBlog`)
	assert.NotContains(t, out, `class="draft"`)
	assert.NotContains(t, out, "noindex")
}

func TestBlogPager(t *testing.T) {
	out := render(t, Blog(BlogPage{
		Layout: layout(locale.English),
		Page:   content.Page{Posts: []content.Post{post}, Number: 2, Total: 3},
	}))
	assert.Contains(t, out, `href="/blog/?page=1" rel="prev"`)
	assert.Contains(t, out, `href="/blog/?page=3" rel="next"`)
}

func TestErrorPage(t *testing.T) {
	out := render(t, Error(ErrorPage{Layout: layout(locale.Korean), Status: 404}))
	assert.Contains(t, out, "ko:NotFoundTitle")

	out = render(t, Error(ErrorPage{Layout: layout(locale.English), Status: 500}))
	assert.Contains(t, out, "en:ServerErrorTitle")
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2023, time.December, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "December 25, 2023", FormatDate(locale.English, d))
	assert.Equal(t, "2023년 12월 25일", FormatDate(locale.Korean, d))
}
