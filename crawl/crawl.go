// Package crawl smoke-tests a running site: it reads the sitemap and fetches
// every page once per language, with the language cookie set the way a
// browser would hold it.
package crawl

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/time/rate"

	"github.com/jakeryu/codewise/locale"
)

// Result is the outcome of fetching one page in one language.
type Result struct {
	URL      string
	Language locale.Language
	Status   int
	DocLang  string // lang attribute of the <html> element
	Err      error
}

// OK reports whether the page answered 200 in the requested language.
func (r Result) OK() bool {
	return r.Err == nil && r.Status == http.StatusOK && r.DocLang == r.Language.String()
}

func (r Result) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s [%s]: %v", r.URL, r.Language, r.Err)
	case r.Status != http.StatusOK:
		return fmt.Sprintf("%s [%s]: status %d", r.URL, r.Language, r.Status)
	case !r.OK():
		return fmt.Sprintf("%s [%s]: page language %q", r.URL, r.Language, r.DocLang)
	}
	return fmt.Sprintf("%s [%s]: ok", r.URL, r.Language)
}

// Report collects every Result of a run.
type Report struct {
	Results []Result
}

// Failures returns the results that are not OK.
func (r Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Crawler fetches the pages listed in a site's sitemap.
type Crawler struct {
	base      *url.URL
	transport http.RoundTripper
	limiter   *rate.Limiter
	timeout   time.Duration
	logger    *slog.Logger
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithTransport sets the transport used for every request.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Crawler) { c.transport = rt }
}

// WithRate limits the crawler to n requests per second.
func WithRate(n float64) Option {
	return func(c *Crawler) { c.limiter = rate.NewLimiter(rate.Limit(n), 1) }
}

// WithLogger sets the logger; progress is logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Crawler) { c.logger = l }
}

// New returns a Crawler for the site at base.
func New(base string, opts ...Option) (*Crawler, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("crawl: base URL %q must be absolute", base)
	}
	u.Path, u.RawQuery, u.Fragment = "", "", ""
	c := &Crawler{
		base:      u,
		transport: http.DefaultTransport,
		limiter:   rate.NewLimiter(rate.Inf, 1),
		timeout:   10 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run fetches the sitemap and then every listed page in each supported
// language. The returned error covers the sitemap only; page failures are
// in the Report.
func (c *Crawler) Run(ctx context.Context) (Report, error) {
	var report Report
	pages, err := c.Sitemap(ctx)
	if err != nil {
		return report, err
	}
	for _, lang := range locale.Supported {
		client, err := c.client(lang)
		if err != nil {
			return report, err
		}
		for _, page := range pages {
			if err := c.limiter.Wait(ctx); err != nil {
				return report, err
			}
			res := c.fetch(ctx, client, page, lang)
			c.logger.Debug("crawled", "url", res.URL, "lang", lang, "status", res.Status, "ok", res.OK())
			report.Results = append(report.Results, res)
		}
	}
	return report, nil
}

// client returns an HTTP client whose jar holds the lang cookie for the
// site, as if the visitor had already picked lang.
func (c *Crawler) client(lang locale.Language) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	if err := locale.Persist(locale.NewJarStore(jar, c.base), lang, c.base.Scheme == "https"); err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: c.transport,
		Jar:       jar,
		Timeout:   c.timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

type urlSet struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

// Sitemap returns the page URLs listed in /sitemap.xml, rebased onto the
// crawler's base URL.
func (c *Crawler) Sitemap(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base.JoinPath("sitemap.xml").String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := (&http.Client{Transport: c.transport, Timeout: c.timeout}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("crawl: sitemap: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crawl: sitemap: status %d", resp.StatusCode)
	}
	var set urlSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("crawl: sitemap: %w", err)
	}
	pages := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		loc, err := url.Parse(strings.TrimSpace(u.Loc))
		if err != nil {
			return nil, fmt.Errorf("crawl: sitemap entry %q: %w", u.Loc, err)
		}
		loc.Scheme, loc.Host = c.base.Scheme, c.base.Host
		pages = append(pages, loc.String())
	}
	return pages, nil
}

func (c *Crawler) fetch(ctx context.Context, client *http.Client, page string, lang locale.Language) Result {
	res := Result{URL: page, Language: lang}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page, nil)
	if err != nil {
		res.Err = err
		return res
	}
	resp, err := client.Do(req)
	if err != nil {
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	res.Status = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return res
	}
	res.DocLang, res.Err = documentLang(resp.Body)
	return res
}

var errNoHTML = errors.New("crawl: no <html> element")

// documentLang returns the lang attribute of the root element.
func documentLang(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return "", errNoHTML
			}
			return "", z.Err()
		case html.StartTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Html {
				continue
			}
			for _, a := range tok.Attr {
				if a.Key == "lang" {
					return a.Val, nil
				}
			}
			return "", nil
		}
	}
}
