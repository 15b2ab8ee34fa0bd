package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakeryu/codewise/locale"
)

const sitemap = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
<url><loc>https://example.test/</loc></url>
<url><loc>https://example.test/blog/hello/</loc></url>
<url><loc>https://example.test/english-only/</loc></url>
<url><loc>https://example.test/gone/</loc></url>
</urlset>`

func testSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, sitemap)
	})
	page := func(w http.ResponseWriter, r *http.Request) {
		lang := locale.Current(locale.NewRequestStore(w, r))
		fmt.Fprintf(w, "<!doctype html><html lang=%q><body>hi</body></html>", lang)
	}
	mux.HandleFunc("/{$}", page)
	mux.HandleFunc("/blog/hello/", page)
	mux.HandleFunc("/english-only/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html lang="en"><body></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSitemapRebasesURLs(t *testing.T) {
	srv := testSite(t)
	c, err := New(srv.URL + "/ignored/path")
	require.NoError(t, err)

	pages, err := c.Sitemap(context.Background())
	require.NoError(t, err)
	require.Len(t, pages, 4)
	assert.Equal(t, srv.URL+"/", pages[0])
	assert.Equal(t, srv.URL+"/blog/hello/", pages[1])
}

func TestRunChecksEveryLanguage(t *testing.T) {
	srv := testSite(t)
	c, err := New(srv.URL, WithRate(1000))
	require.NoError(t, err)

	report, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Results, 4*len(locale.Supported))

	var failed []string
	for _, r := range report.Failures() {
		failed = append(failed, r.String())
	}
	assert.ElementsMatch(t, []string{
		srv.URL + "/english-only/ [ko]: page language \"en\"",
		srv.URL + "/gone/ [en]: status 404",
		srv.URL + "/gone/ [ko]: status 404",
	}, failed)
}

func TestRunFailsWithoutSitemap(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	c, err := New(srv.URL)
	require.NoError(t, err)
	_, err = c.Run(context.Background())
	assert.ErrorContains(t, err, "status 404")
}

func TestNewRejectsRelativeBase(t *testing.T) {
	_, err := New("/blog/")
	assert.Error(t, err)
}

func TestDocumentLang(t *testing.T) {
	got, err := documentLang(strings.NewReader(`<!doctype html><!-- x --><html class="a" lang="ko"><p>`))
	require.NoError(t, err)
	assert.Equal(t, "ko", got)

	_, err = documentLang(strings.NewReader("plain text"))
	assert.Error(t, err)
}
