package codewise

import (
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// SiteConfig holds all configuration for the site. Every field can be set
// from the environment; LoadConfig fills it and setDefaults guards values
// built by hand.
type SiteConfig struct {
	Name        string            `env:"SITE_NAME" envDefault:"CodeWise"`
	URL         string            `env:"SITE_URL" envDefault:"http://localhost:3000"`
	Description string            `env:"SITE_DESCRIPTION"`
	Author      string            `env:"SITE_AUTHOR"`
	Email       string            `env:"SITE_EMAIL"`
	Links       map[string]string `env:"SITE_LINKS" envSeparator:"," envKeyValSeparator:"|"` // github|https://github.com/...

	Addr         string `env:"ADDR" envDefault:":3000"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"data/blog.db"`
	ContentDir   string `env:"CONTENT_DIR"` // imported on start when set
	StaticDir    string `env:"STATIC_DIR" envDefault:"public"`

	AdminPassword string `env:"ADMIN_PASSWORD"`
	SessionSecret string `env:"SESSION_SECRET"`
	CookieSecure  bool   `env:"COOKIE_SECURE"`

	PostCacheTTL   time.Duration `env:"POST_CACHE_TTL" envDefault:"5m"`
	PostsPerPage   int           `env:"POSTS_PER_PAGE" envDefault:"5"`
	LanguageRate   float64       `env:"LANGUAGE_RATE" envDefault:"2"` // switches per second per IP
	LanguageBurst  int           `env:"LANGUAGE_BURST" envDefault:"10"`
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"info"`
	LogColor       bool          `env:"LOG_COLOR" envDefault:"true"`
	LoginAttempts  int           `env:"LOGIN_ATTEMPTS" envDefault:"5"`
	LoginWindow    time.Duration `env:"LOGIN_WINDOW" envDefault:"1m"`
	ShutdownPeriod time.Duration `env:"SHUTDOWN_PERIOD" envDefault:"10s"`
}

// LoadConfig reads a SiteConfig from the process environment.
func LoadConfig() (SiteConfig, error) {
	cfg, err := env.ParseAs[SiteConfig]()
	if err != nil {
		return SiteConfig{}, fmt.Errorf("codewise: parse config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "CodeWise"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/blog.db"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
	if c.PostsPerPage <= 0 {
		c.PostsPerPage = 5
	}
	if c.LanguageRate <= 0 {
		c.LanguageRate = 2
	}
	if c.LanguageBurst <= 0 {
		c.LanguageBurst = 10
	}
	if c.LoginAttempts <= 0 {
		c.LoginAttempts = 5
	}
	if c.LoginWindow == 0 {
		c.LoginWindow = time.Minute
	}
	if c.ShutdownPeriod == 0 {
		c.ShutdownPeriod = 10 * time.Second
	}
}

// Host returns the host of the canonical site URL.
func (c SiteConfig) Host() string {
	u, err := url.Parse(c.URL)
	if err != nil {
		return ""
	}
	return u.Host
}

// Link is one named social link.
type Link struct {
	Name string
	URL  string
}

// SortedLinks returns Links ordered by name.
func (c SiteConfig) SortedLinks() []Link {
	links := make([]Link, 0, len(c.Links))
	for name, u := range c.Links {
		links = append(links, Link{Name: name, URL: u})
	}
	slices.SortFunc(links, func(a, b Link) int { return strings.Compare(a.Name, b.Name) })
	return links
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithViews replaces the built-in page templates.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = v
	}
}
