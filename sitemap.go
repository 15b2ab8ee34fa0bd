package codewise

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jakeryu/codewise/content"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.Posts(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

// renderSitemap lists the fixed pages, every published post in both
// languages, and every tag page.
func (a *App) renderSitemap(c echo.Context, posts []content.Post) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: BuildURL(base)},
		{Loc: BuildURL(base, "about")},
		{Loc: BuildURL(base, "blog")},
		{Loc: BuildURL(base, "tags")},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     BuildURL(base, "blog", p.Slug),
			LastMod: p.DateString(),
		})
	}
	seen := make(map[string]bool)
	for _, t := range content.SortTagsByCount(content.AllTags(posts)) {
		slug := content.Slugify(t)
		if seen[slug] {
			continue
		}
		seen[slug] = true
		urls = append(urls, sitemapURL{Loc: BuildURL(base, "tags", slug)})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
