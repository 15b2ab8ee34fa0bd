// Package scaffold writes new post files for the codewise CLI.
package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/jakeryu/codewise/content"
	"github.com/jakeryu/codewise/locale"
)

// Templates contains the scaffold template files. They use Go text/template
// syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

var postTemplate = template.Must(template.New("post.md.tmpl").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).ParseFS(Templates, "templates/post.md.tmpl"))

// ErrExists is returned when the target file is already there.
var ErrExists = errors.New("scaffold: post already exists")

// Post describes the file NewPost writes.
type Post struct {
	Title       string
	Slug        string // derived from Title when empty
	Description string
	Tags        []string
	Language    locale.Language
	Date        time.Time
}

// Render returns the Markdown source for p.
func Render(p Post) ([]byte, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, errors.New("scaffold: title is required")
	}
	if p.Language == "" {
		p.Language = locale.Default
	}
	if !p.Language.Valid() {
		return nil, locale.ErrUnsupportedLanguage
	}
	var buf bytes.Buffer
	err := postTemplate.Execute(&buf, map[string]any{
		"Title":       p.Title,
		"Description": p.Description,
		"Tags":        p.Tags,
		"Language":    p.Language.String(),
		"Date":        p.Date.Format(content.DateLayout),
	})
	return buf.Bytes(), err
}

// SlugFor returns the file slug for p: its slug or title slugified, with the
// language marker applied.
func SlugFor(p Post) string {
	base := p.Slug
	if base == "" {
		base = p.Title
	}
	lang := p.Language
	if lang == "" {
		lang = locale.Default
	}
	return locale.LocalizedSlug(content.Slugify(locale.BaseSlug(base)), lang)
}

// NewPost writes p to dir as <slug>.md and returns the path. The file is
// checked with the content loader before it is written.
func NewPost(dir string, p Post) (string, error) {
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	slug := SlugFor(p)
	if slug == "" || slug == locale.Marker {
		return "", fmt.Errorf("scaffold: cannot derive a slug from %q", p.Title)
	}
	data, err := Render(p)
	if err != nil {
		return "", err
	}
	if _, err := content.Parse(slug, data); err != nil {
		return "", fmt.Errorf("scaffold: %w", err)
	}

	path := filepath.Join(dir, slug+".md")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}
