package codewise

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/jakeryu/codewise/locale"
	"github.com/jakeryu/codewise/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
// Pages depend on the language cookie, so responses vary on it.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	h := c.Response().Header()
	h.Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	h.Add(echo.HeaderVary, "Cookie")
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) site() views.Site {
	site := views.Site{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
		Author:      a.Config.Author,
		Email:       a.Config.Email,
	}
	for _, l := range a.Config.SortedLinks() {
		site.Links = append(site.Links, views.Link{Name: l.Name, URL: l.URL})
	}
	return site
}

// layout builds the data every page shares for the current request.
func (a *App) layout(c echo.Context, section string, meta views.PageMeta) views.Layout {
	return views.Layout{
		Site:    a.site(),
		Lang:    locale.LanguageOf(c.Request().Context()),
		Meta:    meta,
		Current: c.Request().URL.RequestURI(),
		Section: section,
		CSRF:    CsrfToken(c),
		Tr:      a.translator,
	}
}

func (a *App) renderError(c echo.Context, code int) error {
	return RenderStatus(c, code, a.Views.Error(views.ErrorPage{
		Layout: a.layout(c, "", views.PageMeta{NoIndex: true}),
		Status: code,
	}))
}
