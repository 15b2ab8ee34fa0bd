// Package views renders the site's pages. Templates are html/template files
// embedded in the binary and exposed as templ components so handlers can
// treat built-in and custom pages alike.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/a-h/templ"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/locale"
	"github.com/jakeryu/codewise/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"markdown": func(md string) template.HTML {
		return template.HTML(markdown.ToHTML(md))
	},
	"tagSlug": content.Slugify,
}

var pages = parsePages(
	"home", "about", "blog", "post", "tags", "tag", "error",
	"admin_login", "admin_dashboard",
)

func parsePages(names ...string) map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))
	m := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(base.Clone())
		m[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
	return m
}

func page(name string, data any) templ.Component {
	t, ok := pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return templ.FromGoHTML(t, data)
}

func Home(p HomePage) templ.Component                     { return page("home", p) }
func About(p AboutPage) templ.Component                   { return page("about", p) }
func Blog(p BlogPage) templ.Component                     { return page("blog", p) }
func Post(p PostPage) templ.Component                     { return page("post", p) }
func Tags(p TagsPage) templ.Component                     { return page("tags", p) }
func Tag(p TagPage) templ.Component                       { return page("tag", p) }
func Error(p ErrorPage) templ.Component                   { return page("error", p) }
func AdminLogin(p AdminLoginPage) templ.Component         { return page("admin_login", p) }
func AdminDashboard(p AdminDashboardPage) templ.Component { return page("admin_dashboard", p) }

// FormatDate formats t the way dates are written in lang.
func FormatDate(lang locale.Language, t time.Time) string {
	if lang == locale.Korean {
		return fmt.Sprintf("%d년 %d월 %d일", t.Year(), int(t.Month()), t.Day())
	}
	return t.Format("January 2, 2006")
}
