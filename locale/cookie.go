package locale

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// CookieName is the cookie that carries the chosen language.
const CookieName = "language"

// CookieExpiry is far enough in the future to never expire in practice.
var CookieExpiry = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// CookieStore is a key-value view of a cookie store. The server side reads
// from the request and writes to the response; a client keeps cookies in a
// jar.
type CookieStore interface {
	Get(name string) (string, bool)
	Set(c *http.Cookie)
}

// NewCookie builds the language cookie for lang.
func NewCookie(lang Language, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    lang.String(),
		Path:     "/",
		Expires:  CookieExpiry,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// Current returns the language stored in store, or Default when the cookie
// is missing or holds an unsupported value. It never writes.
func Current(store CookieStore) Language {
	v, ok := store.Get(CookieName)
	if !ok {
		return Default
	}
	lang, err := Parse(v)
	if err != nil {
		return Default
	}
	return lang
}

// Persist writes lang to store.
func Persist(store CookieStore, lang Language, secure bool) error {
	if !lang.Valid() {
		return ErrUnsupportedLanguage
	}
	store.Set(NewCookie(lang, secure))
	return nil
}

// EnsureDefault writes Default to store when no usable language is stored
// yet, and returns the effective language.
func EnsureDefault(store CookieStore, secure bool) Language {
	if v, ok := store.Get(CookieName); ok {
		if lang, err := Parse(v); err == nil {
			return lang
		}
	}
	store.Set(NewCookie(Default, secure))
	return Default
}

// RequestStore is the server-side CookieStore for one request. Cookies set
// during the request are visible to later Gets on the same store.
type RequestStore struct {
	w       http.ResponseWriter
	r       *http.Request
	written map[string]string
}

// NewRequestStore wraps the request/response pair of one HTTP exchange.
func NewRequestStore(w http.ResponseWriter, r *http.Request) *RequestStore {
	return &RequestStore{w: w, r: r, written: make(map[string]string)}
}

func (s *RequestStore) Get(name string) (string, bool) {
	if v, ok := s.written[name]; ok {
		return v, v != ""
	}
	c, err := s.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Set writes c to the response, replacing a cookie of the same name set
// earlier in this request.
func (s *RequestStore) Set(c *http.Cookie) {
	if _, seen := s.written[c.Name]; seen {
		prefix := c.Name + "="
		var kept []string
		for _, v := range s.w.Header().Values("Set-Cookie") {
			if !strings.HasPrefix(v, prefix) {
				kept = append(kept, v)
			}
		}
		s.w.Header().Del("Set-Cookie")
		for _, v := range kept {
			s.w.Header().Add("Set-Cookie", v)
		}
	}
	http.SetCookie(s.w, c)
	if c.MaxAge < 0 {
		s.written[c.Name] = ""
		return
	}
	s.written[c.Name] = c.Value
}

// JarStore is the client-side CookieStore: the cookies a jar holds for one
// site.
type JarStore struct {
	jar  http.CookieJar
	site *url.URL
}

// NewJarStore scopes jar to site.
func NewJarStore(jar http.CookieJar, site *url.URL) *JarStore {
	return &JarStore{jar: jar, site: site}
}

func (s *JarStore) Get(name string) (string, bool) {
	for _, c := range s.jar.Cookies(s.site) {
		if c.Name == name && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

func (s *JarStore) Set(c *http.Cookie) {
	s.jar.SetCookies(s.site, []*http.Cookie{c})
}
