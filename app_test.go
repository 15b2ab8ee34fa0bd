package codewise

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakeryu/codewise/locale"
)

const testCSRF = "test-csrf-token"

var testContent = map[string]string{
	"clean-architecture.md": `---
title: Clean Architecture
date: 2024-03-01
tags: [Clean Architecture, DDD]
---
Dependencies point inwards.`,
	"clean-architecture-ko.md": `---
title: 클린 아키텍처
date: 2024-03-01
tags: [아키텍처, DDD]
---
의존성은 안쪽을 향합니다.`,
	"draft-post.md": `---
title: Unfinished Thoughts
date: 2024-04-01
published: false
---
Not ready.`,
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	files := make(map[string]string, len(testContent)+6)
	for name, body := range testContent {
		files[name] = body
	}
	for i := 1; i <= 6; i++ {
		files[fmt.Sprintf("note-%d.md", i)] = fmt.Sprintf("---\ntitle: Note %d\ndate: 2023-01-%02d\ntags: [Notes]\n---\nbody", i, i)
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(contentDir, name), []byte(body), 0o644))
	}

	a := New(SiteConfig{
		Name:          "CodeWise",
		URL:           "https://jakeryu.test",
		AdminPassword: "secret",
		SessionSecret: "0123456789abcdef0123456789abcdef",
		DatabasePath:  filepath.Join(dir, "blog.db"),
		ContentDir:    contentDir,
		StaticDir:     filepath.Join(dir, "public"),
	}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, a.Init(context.Background()))
	t.Cleanup(func() { a.Close() })
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	return rec
}

func get(a *App, target string, lang locale.Language) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if lang != "" {
		req.AddCookie(locale.NewCookie(lang, false))
	}
	return serve(a, req)
}

func switchLanguage(a *App, form url.Values, header map[string]string) *httptest.ResponseRecorder {
	form.Set("_csrf", testCSRF)
	req := httptest.NewRequest(http.MethodPost, "/language/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return serve(a, req)
}

func cookieValue(rec *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestHomeDefaultsToEnglish(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="en">`)
	assert.Contains(t, body, "Clean Architecture")
	assert.NotContains(t, body, "클린 아키텍처")
	assert.NotContains(t, body, "Unfinished Thoughts")
	assert.Contains(t, rec.Header().Values("Vary"), "Cookie")

	v, ok := cookieValue(rec, locale.CookieName)
	assert.True(t, ok, "first visit must store the default language")
	assert.Equal(t, "en", v)
}

func TestHomeInKorean(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/", locale.Korean)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<html lang="ko">`)
	assert.Contains(t, body, "클린 아키텍처")
	assert.Contains(t, body, "최신 글")
	assert.NotContains(t, body, "Note 1")
	_, ok := cookieValue(rec, locale.CookieName)
	assert.False(t, ok)
}

func TestLegacyCookieValue(t *testing.T) {
	a := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: locale.CookieName, Value: "kr"})
	rec := serve(a, req)
	assert.Contains(t, rec.Body.String(), `<html lang="ko">`)
}

func TestLanguageSwitch(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		current  string
		location string
	}{
		{"post to korean", "ko", "/blog/clean-architecture/", "/blog/clean-architecture-ko/"},
		{"post to english", "en", "https://jakeryu.test/blog/clean-architecture-ko/", "/blog/clean-architecture/"},
		{"blog index drops query", "ko", "/blog/?page=2", "/blog/"},
		{"tags index reloads", "ko", "/tags/", "/tags/"},
		{"tag page reloads", "ko", "/tags/ddd/", "/tags/ddd/"},
		{"home reloads", "ko", "/", "/"},
		{"unknown page stays", "ko", "/feed.xml", "/feed.xml"},
		{"cross origin ignored", "ko", "https://evil.example/blog/x/", "/"},
		{"scheme relative ignored", "ko", "//evil.example/blog/x/", "/"},
		{"script url ignored", "ko", "javascript:alert(1)", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			rec := switchLanguage(a, url.Values{"lang": {tt.lang}, "current": {tt.current}}, nil)
			require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
			assert.Equal(t, tt.location, rec.Header().Get("Location"))
			v, ok := cookieValue(rec, locale.CookieName)
			require.True(t, ok)
			assert.Equal(t, tt.lang, v)
		})
	}
}

func TestLanguageSwitchUsesReferer(t *testing.T) {
	a := newTestApp(t)
	rec := switchLanguage(a, url.Values{"lang": {"ko"}}, map[string]string{
		"Referer": "https://jakeryu.test/blog/clean-architecture/",
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/blog/clean-architecture-ko/", rec.Header().Get("Location"))
}

func TestLanguageSwitchHTMX(t *testing.T) {
	a := newTestApp(t)
	htmx := map[string]string{"HX-Request": "true"}

	rec := switchLanguage(a, url.Values{"lang": {"ko"}, "current": {"/blog/clean-architecture/"}}, htmx)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/blog/clean-architecture-ko/", rec.Header().Get("HX-Redirect"))

	rec = switchLanguage(a, url.Values{"lang": {"ko"}, "current": {"/about/"}}, htmx)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "true", rec.Header().Get("HX-Refresh"))

	rec = switchLanguage(a, url.Values{"lang": {"ko"}, "current": {"/feed.xml"}}, htmx)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLanguageSwitchRejects(t *testing.T) {
	a := newTestApp(t)

	rec := switchLanguage(a, url.Values{"lang": {"fr"}, "current": {"/"}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/language/", strings.NewReader("lang=ko&current=/"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(a, req)
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing CSRF token")
}

func TestPostPage(t *testing.T) {
	a := newTestApp(t)

	rec := get(a, "/blog/clean-architecture/", locale.English)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Dependencies point inwards.")
	assert.Contains(t, body, `href="/blog/clean-architecture-ko/"`)
	assert.Contains(t, body, "한국어로 읽기")
	assert.Contains(t, body, `application/ld+json`)

	rec = get(a, "/blog/clean-architecture", locale.English)
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/blog/clean-architecture/", rec.Header().Get("Location"))
}

func TestDraftsAreHidden(t *testing.T) {
	a := newTestApp(t)

	rec := get(a, "/blog/draft-post/", locale.English)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = get(a, "/blog/draft-post/", locale.Korean)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "페이지를 찾을 수 없습니다")

	rec = get(a, "/sitemap.xml", "")
	assert.NotContains(t, rec.Body.String(), "draft-post")
}

func TestBlogPagination(t *testing.T) {
	a := newTestApp(t)

	rec := get(a, "/blog/", locale.English)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Page 1 of 2")
	assert.Contains(t, body, `href="/blog/?page=2"`)
	assert.Contains(t, body, "Notes (6)")

	rec = get(a, "/blog/?page=2", locale.English)
	body = rec.Body.String()
	assert.Contains(t, body, "Page 2 of 2")
	assert.Contains(t, body, "Note 1")
}

func TestTagPages(t *testing.T) {
	a := newTestApp(t)

	rec := get(a, "/tags/", locale.Korean)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "아키텍처")
	assert.NotContains(t, rec.Body.String(), "Notes")

	rec = get(a, "/tags/clean-architecture/", locale.English)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Clean Architecture")

	rec = get(a, "/tags/"+url.PathEscape("아키텍처")+"/", locale.Korean)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "클린 아키텍처")

	// Known only in Korean: the English page is empty rather than missing.
	rec = get(a, "/tags/"+url.PathEscape("아키텍처")+"/", locale.English)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = get(a, "/tags/no-such-tag/", locale.English)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFeed(t *testing.T) {
	a := newTestApp(t)

	rec := get(a, "/feed.xml?lang=ko", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<language>ko</language>")
	assert.Contains(t, body, "클린 아키텍처")
	assert.NotContains(t, body, "Note 1")

	rec = get(a, "/feed.xml", "")
	assert.Contains(t, rec.Body.String(), "<language>en</language>")

	rec = get(a, "/feed.xml?lang=xx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSitemapAndRobots(t *testing.T) {
	a := newTestApp(t)

	rec := get(a, "/sitemap.xml", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<loc>https://jakeryu.test/blog/clean-architecture/</loc>")
	assert.Contains(t, body, "<loc>https://jakeryu.test/tags/ddd/</loc>")
	assert.Equal(t, 1, strings.Count(body, "/tags/ddd/"))

	rec = get(a, "/robots.txt", "")
	assert.Contains(t, rec.Body.String(), "Sitemap: https://jakeryu.test/sitemap.xml")
}

func TestStaticFallsBackToEmbedded(t *testing.T) {
	a := newTestApp(t)
	rec := get(a, "/public/style.css", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".lang-toggle")
	rec = get(a, "/favicon.svg", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminPreview(t *testing.T) {
	a := newTestApp(t)

	rec := get(a, "/admin/preview/draft-post/", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	form := url.Values{"password": {"secret"}, "_csrf": {testCSRF}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	rec = serve(a, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionName {
			session = c
		}
	}
	require.NotNil(t, session)

	req = httptest.NewRequest(http.MethodGet, "/admin/preview/draft-post/", nil)
	req.AddCookie(session)
	rec = serve(a, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unfinished Thoughts")
	assert.Contains(t, rec.Body.String(), `class="draft"`)
	assert.Contains(t, rec.Body.String(), `content="noindex"`)

	req = httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(session)
	rec = serve(a, req)
	assert.Contains(t, rec.Body.String(), "draft-post")
}

func TestAdminLoginFailure(t *testing.T) {
	a := newTestApp(t)
	form := url.Values{"password": {"wrong"}, "_csrf": {testCSRF}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "_csrf", Value: testCSRF})
	rec := serve(a, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong password.")
}

func TestInitRequiresSecrets(t *testing.T) {
	a := New(SiteConfig{DatabasePath: filepath.Join(t.TempDir(), "blog.db")})
	assert.Error(t, a.Init(context.Background()))
}
