package locale

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ErrNoSwitcher is returned when a handler asks for the language switcher
// outside the locale middleware.
var ErrNoSwitcher = errors.New("locale: no language switcher in context")

// ContextKey is the echo.Context key the middleware stores the Switcher under.
const ContextKey = "locale.switcher"

// Switcher carries the current language of one request together with the
// capability to change it. Handlers receive it explicitly through the
// request context; it is not safe for concurrent use.
type Switcher struct {
	store   CookieStore
	secure  bool
	current Language
}

// NewSwitcher reads the current language from store.
func NewSwitcher(store CookieStore, secure bool) *Switcher {
	return &Switcher{store: store, secure: secure, current: Current(store)}
}

// Language returns the language the request is rendered in.
func (s *Switcher) Language() Language {
	return s.current
}

// Select persists lang and returns where the visitor on currentURL should
// be sent next.
func (s *Switcher) Select(lang Language, currentURL string) (Action, error) {
	if err := Persist(s.store, lang, s.secure); err != nil {
		return Action{}, err
	}
	s.current = lang
	return DecideRedirect(currentURL, lang), nil
}

type switcherKey struct{}

// WithSwitcher returns a copy of ctx carrying s.
func WithSwitcher(ctx context.Context, s *Switcher) context.Context {
	return context.WithValue(ctx, switcherKey{}, s)
}

// FromContext returns the switcher stored by WithSwitcher.
func FromContext(ctx context.Context) (*Switcher, error) {
	s, ok := ctx.Value(switcherKey{}).(*Switcher)
	if !ok || s == nil {
		return nil, ErrNoSwitcher
	}
	return s, nil
}

// MustFromContext is FromContext for code that cannot run without the
// middleware installed. It panics with ErrNoSwitcher.
func MustFromContext(ctx context.Context) *Switcher {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}

// LanguageOf returns the request language, or Default when the middleware
// did not run.
func LanguageOf(ctx context.Context) Language {
	if s, err := FromContext(ctx); err == nil {
		return s.Language()
	}
	return Default
}

// MiddlewareConfig configures Middleware.
type MiddlewareConfig struct {
	Skipper middleware.Skipper
	// Secure marks the language cookie Secure.
	Secure bool
}

// Middleware installs a Switcher backed by the request's cookies and
// writes the default language cookie on a visitor's first request.
func Middleware(cfg MiddlewareConfig) echo.MiddlewareFunc {
	if cfg.Skipper == nil {
		cfg.Skipper = middleware.DefaultSkipper
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.Skipper(c) {
				return next(c)
			}
			store := NewRequestStore(c.Response(), c.Request())
			EnsureDefault(store, cfg.Secure)
			s := NewSwitcher(store, cfg.Secure)
			c.Set(ContextKey, s)
			c.SetRequest(c.Request().WithContext(WithSwitcher(c.Request().Context(), s)))
			return next(c)
		}
	}
}

// FromEcho returns the switcher of an Echo request.
func FromEcho(c echo.Context) (*Switcher, error) {
	if s, ok := c.Get(ContextKey).(*Switcher); ok && s != nil {
		return s, nil
	}
	return FromContext(c.Request().Context())
}
