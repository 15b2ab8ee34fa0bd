// Package codewise is a personal blog that serves every page in English or
// Korean. The visitor's choice lives in a long-lived cookie; switching
// languages keeps them on the equivalent page where one exists.
//
// Posts are compiled from Markdown into SQLite by the build command and
// served from an in-memory cache. Pages are rendered through ViewFuncs so a
// deployment can replace any template.
package codewise

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/views"
)

// ViewFuncs holds the components the handlers render. DefaultViews returns
// the built-in set.
type ViewFuncs struct {
	Home           func(views.HomePage) templ.Component
	About          func(views.AboutPage) templ.Component
	Blog           func(views.BlogPage) templ.Component
	Post           func(views.PostPage) templ.Component
	Tags           func(views.TagsPage) templ.Component
	Tag            func(views.TagPage) templ.Component
	Error          func(views.ErrorPage) templ.Component
	AdminLogin     func(views.AdminLoginPage) templ.Component
	AdminDashboard func(views.AdminDashboardPage) templ.Component
}

// DefaultViews returns the embedded templates.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		About:          views.About,
		Blog:           views.Blog,
		Post:           views.Post,
		Tags:           views.Tags,
		Tag:            views.Tag,
		Error:          views.Error,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
	}
}

// App wires together the store, cache, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *PostCache
	Views  ViewFuncs
	Logger *slog.Logger

	translator   *Translator
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  DefaultViews(),
		Logger: slog.Default(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, imports ContentDir when set, and registers
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Init(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("codewise: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("codewise: SessionSecret is required")
	}

	tr, err := NewTranslator(EmbeddedAssets)
	if err != nil {
		return err
	}
	a.translator = tr

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("codewise: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(a.Config.LoginAttempts, a.Config.LoginWindow)

	if a.Config.ContentDir != "" {
		if _, err := a.Import(ctx); err != nil {
			return err
		}
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("server started", "addr", a.Config.Addr, "url", a.Config.URL)
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownPeriod)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

// Import compiles ContentDir and replaces the stored posts with it.
func (a *App) Import(ctx context.Context) (int, error) {
	posts, err := content.LoadDir(os.DirFS(a.Config.ContentDir), ".")
	if err != nil {
		return 0, fmt.Errorf("codewise: import %s: %w", a.Config.ContentDir, err)
	}
	if err := a.Store.ReplacePosts(ctx, posts); err != nil {
		return 0, fmt.Errorf("codewise: store posts: %w", err)
	}
	a.Cache.Invalidate()
	a.Logger.Info("content imported", "dir", a.Config.ContentDir, "posts", len(posts))
	return len(posts), nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Files in StaticDir take precedence over the embedded defaults.
	embedded, _ := fs.Sub(EmbeddedAssets, "static")
	e.Static("/public", a.Config.StaticDir)
	e.GET("/public/style.css", a.staticOrEmbedded(embedded, "style.css"))
	e.GET("/favicon.svg", a.staticOrEmbedded(embedded, "favicon.svg"))
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/about/", a.handleAbout)
	e.GET("/blog/", a.handleBlog)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.POST("/language/", a.handleLanguage, a.languageRateLimiter())

	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/preview/:slug/", a.handleAdminPreview)
	e.POST("/admin/reload/", a.handleAdminReload)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
