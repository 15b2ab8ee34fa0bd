package codewise

import (
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/locale"
	"github.com/jakeryu/codewise/urlpath"
	"github.com/jakeryu/codewise/views"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// pathParam returns the unescaped route parameter name.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if s, err := url.PathUnescape(v); err == nil {
		return s
	}
	return v
}

// localURL returns raw as a site-relative URL, falling back to the
// Referer when raw is empty. URLs on another host become the site root.
func (a *App) localURL(c echo.Context, raw string) string {
	if raw == "" {
		raw = c.Request().Referer()
	}
	u, err := urlpath.Parse(raw)
	if err != nil {
		return "/"
	}
	if u.Host != "" && !strings.EqualFold(u.Host, c.Request().Host) && !strings.EqualFold(u.Host, a.Config.Host()) {
		return "/"
	}
	return u.RequestURI()
}

// tagCounts returns the tags of posts, most used first.
func tagCounts(posts []content.Post) []views.TagCount {
	counts := content.AllTags(posts)
	tags := make([]views.TagCount, 0, len(counts))
	for _, t := range content.SortTagsByCount(counts) {
		tags = append(tags, views.TagCount{Name: t, Slug: content.Slugify(t), Count: counts[t]})
	}
	return tags
}

// WebsiteJsonLD returns a Schema.org WebSite object for the home page.
func WebsiteJsonLD(cfg SiteConfig, lang locale.Language) map[string]any {
	data := map[string]any{
		"@context":   "https://schema.org",
		"@type":      "WebSite",
		"name":       cfg.Name,
		"url":        BuildURL(cfg.URL),
		"inLanguage": lang.String(),
	}
	if cfg.Description != "" {
		data["description"] = cfg.Description
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	return data
}

// BlogPostingJsonLD returns a Schema.org BlogPosting object for a post.
func BlogPostingJsonLD(post content.Post, cfg SiteConfig) map[string]any {
	postURL := BuildURL(cfg.URL, "blog", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.DateString(),
		"inLanguage":    post.Language.String(),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return data
}
