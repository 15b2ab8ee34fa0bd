package codewise

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/locale"
	"github.com/jakeryu/codewise/views"
)

const (
	homePostCount    = 5
	relatedPostCount = 3
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	lang := locale.LanguageOf(ctx)
	posts, err := a.Cache.Posts(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Home(views.HomePage{
		Layout: a.layout(c, "home", views.PageMeta{
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL),
			JSONLD:      WebsiteJsonLD(a.Config, lang),
		}),
		Posts: content.Latest(content.FilterLanguage(posts, lang), homePostCount),
	}))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(views.AboutPage{
		Layout: a.layout(c, "about", views.PageMeta{
			Title: a.translator.Message(locale.LanguageOf(c.Request().Context()), "AboutTitle", nil),
			URL:   BuildURL(a.Config.URL, "about"),
		}),
	}))
}

func (a *App) handleBlog(c echo.Context) error {
	ctx := c.Request().Context()
	lang := locale.LanguageOf(ctx)
	all, err := a.Cache.Posts(ctx)
	if err != nil {
		return err
	}
	posts := content.SortPosts(content.FilterLanguage(all, lang))
	n, _ := strconv.Atoi(c.QueryParam("page"))
	return Render(c, a.Views.Blog(views.BlogPage{
		Layout: a.layout(c, "blog", views.PageMeta{
			Title: a.translator.Message(lang, "BlogTitle", nil),
			URL:   BuildURL(a.Config.URL, "blog"),
		}),
		Page: content.Paginate(posts, n, a.Config.PostsPerPage),
		Tags: tagCounts(posts),
	}))
}

func (a *App) handlePost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Cache.Post(ctx, pathParam(c, "slug"))
	if errors.Is(err, ErrNotFound) {
		return a.renderError(c, http.StatusNotFound)
	}
	if err != nil {
		return err
	}
	posts, err := a.Cache.Posts(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Post(a.postPage(c, post, posts)))
}

// postPage assembles a post view: related posts in the post's language and
// the published translation, if any.
func (a *App) postPage(c echo.Context, post content.Post, posts []content.Post) views.PostPage {
	related := content.RelatedPosts(post, posts)
	if len(related) > relatedPostCount {
		related = related[:relatedPostCount]
	}
	page := views.PostPage{
		Layout: a.layout(c, "blog", views.PageMeta{
			Title:       post.Title,
			Description: post.Description,
			URL:         BuildURL(a.Config.URL, "blog", post.Slug),
			OGType:      "article",
			JSONLD:      BlogPostingJsonLD(post, a.Config),
		}),
		Post:    post,
		Related: related,
	}
	for _, lang := range locale.Supported {
		if lang == post.Language {
			continue
		}
		if tr, err := a.Cache.Post(c.Request().Context(), post.Translation(lang)); err == nil {
			page.Translation = &tr
		}
	}
	return page
}

func (a *App) handleTags(c echo.Context) error {
	ctx := c.Request().Context()
	lang := locale.LanguageOf(ctx)
	posts, err := a.Cache.Posts(ctx)
	if err != nil {
		return err
	}
	return Render(c, a.Views.Tags(views.TagsPage{
		Layout: a.layout(c, "tags", views.PageMeta{
			Title: a.translator.Message(lang, "TagsTitle", nil),
			URL:   BuildURL(a.Config.URL, "tags"),
		}),
		Tags: tagCounts(content.FilterLanguage(posts, lang)),
	}))
}

// handleTag lists the current language's posts for a tag. A tag known only
// in the other language renders an empty list rather than a 404 so a
// language switch on this page stays in place.
func (a *App) handleTag(c echo.Context) error {
	ctx := c.Request().Context()
	lang := locale.LanguageOf(ctx)
	slug := pathParam(c, "tag")
	posts, err := a.Cache.Posts(ctx)
	if err != nil {
		return err
	}
	name, ok := content.TagBySlug(posts, slug)
	if !ok {
		return a.renderError(c, http.StatusNotFound)
	}
	return Render(c, a.Views.Tag(views.TagPage{
		Layout: a.layout(c, "tags", views.PageMeta{
			Title: name,
			URL:   BuildURL(a.Config.URL, "tags", slug),
		}),
		Tag:   name,
		Posts: content.SortPosts(content.PostsByTagSlug(content.FilterLanguage(posts, lang), slug)),
	}))
}

// handleLanguage persists the selected language and sends the visitor to
// the equivalent page. HTMX requests are answered with HX-* headers.
func (a *App) handleLanguage(c echo.Context) error {
	lang, err := locale.Parse(c.FormValue("lang"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	current := a.localURL(c, c.FormValue("current"))

	s, err := locale.FromEcho(c)
	if err != nil {
		return err
	}
	action, err := s.Select(lang, current)
	if err != nil {
		return err
	}
	a.Logger.Debug("language switched", "lang", lang, "current", current, "action", action.Kind)

	htmx := c.Request().Header.Get("HX-Request") == "true"
	switch action.Kind {
	case locale.NoOp:
		if htmx {
			return c.NoContent(http.StatusNoContent)
		}
		return c.Redirect(http.StatusSeeOther, current)
	case locale.ReloadInPlace:
		if htmx {
			c.Response().Header().Set("HX-Refresh", "true")
			return c.NoContent(http.StatusOK)
		}
	default:
		if htmx {
			c.Response().Header().Set("HX-Redirect", action.URL)
			return c.NoContent(http.StatusOK)
		}
	}
	return c.Redirect(http.StatusSeeOther, action.URL)
}

func (a *App) handleRobots(c echo.Context) error {
	if p := filepath.Join(a.Config.StaticDir, "robots.txt"); fileExists(p) {
		return c.File(p)
	}
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\nDisallow: /admin/\n\n")
	b.WriteString("Sitemap: " + a.Config.URL + "/sitemap.xml\n")
	return c.String(http.StatusOK, b.String())
}

// staticOrEmbedded serves name from StaticDir, falling back to the copy
// shipped in the binary.
func (a *App) staticOrEmbedded(embedded fs.FS, name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if p := filepath.Join(a.Config.StaticDir, name); fileExists(p) {
			return c.File(p)
		}
		return echo.StaticFileHandler(name, embedded)(c)
	}
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	code := http.StatusInternalServerError
	if errors.As(err, &he) {
		code = he.Code
	}
	switch {
	case code == http.StatusNotFound:
		_ = a.renderError(c, code)
	case code >= 500:
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
		_ = a.renderError(c, code)
	default:
		a.Echo.DefaultHTTPErrorHandler(err, c)
	}
}
