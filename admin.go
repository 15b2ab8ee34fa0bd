package codewise

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jakeryu/codewise/locale"
	"github.com/jakeryu/codewise/views"
)

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return a.renderAdminLogin(c, false)
	}
	return a.renderAdminDashboard(c, "")
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.Logger.Warn("admin login rate limited", "ip", ip)
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.Logger.Warn("admin login failed", "ip", ip)
	return a.renderAdminLogin(c, true)
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// handleAdminPreview renders any post, drafts included.
func (a *App) handleAdminPreview(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ctx := c.Request().Context()
	post, err := a.Store.GetPostAny(ctx, pathParam(c, "slug"))
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
	page := a.postPage(c, post, posts)
	page.Draft = !post.Published
	page.Meta.NoIndex = true
	page.Meta.JSONLD = nil
	return Render(c, a.Views.Post(page))
}

// handleAdminReload re-imports ContentDir.
func (a *App) handleAdminReload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	if a.Config.ContentDir == "" {
		return a.renderAdminDashboard(c, "CONTENT_DIR is not set.")
	}
	n, err := a.Import(c.Request().Context())
	if err != nil {
		a.Logger.Error("content reload failed", "err", err)
		return a.renderAdminDashboard(c, err.Error())
	}
	lang := locale.LanguageOf(c.Request().Context())
	return a.renderAdminDashboard(c, a.translator.Plural(lang, "AdminReloaded", n))
}

func (a *App) renderAdminLogin(c echo.Context, showError bool) error {
	return Render(c, a.Views.AdminLogin(views.AdminLoginPage{
		Layout:    a.layout(c, "", views.PageMeta{Title: "Admin", NoIndex: true}),
		ShowError: showError,
	}))
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	posts, err := a.Store.ListAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(views.AdminDashboardPage{
		Layout:  a.layout(c, "", views.PageMeta{Title: "Admin", NoIndex: true}),
		Posts:   posts,
		Message: msg,
	}))
}
