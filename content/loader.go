package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jakeryu/codewise/locale"
	"github.com/jakeryu/codewise/markdown"
	"github.com/jakeryu/codewise/urlpath"
)

// DescriptionLength caps descriptions derived from the post body.
const DescriptionLength = 160

type frontMatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Date        postDate `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Language    string   `yaml:"language"`
	Published   *bool    `yaml:"published"`
}

// postDate accepts both bare YAML timestamps and quoted strings.
type postDate struct{ time.Time }

func (d *postDate) UnmarshalYAML(n *yaml.Node) error {
	v := strings.TrimSpace(n.Value)
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("date %q is not YYYY-MM-DD", n.Value)
}

// LoadDir reads every .md and .mdx file below root in fsys. All invalid
// files are reported together; no posts are returned in that case.
func LoadDir(fsys fs.FS, root string) ([]Post, error) {
	var (
		posts []Post
		errs  []error
		seen  = make(map[string]string)
	)
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		ext := path.Ext(p)
		if d.IsDir() || (ext != ".md" && ext != ".mdx") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		post, err := Parse(strings.TrimSuffix(path.Base(p), ext), data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			return nil
		}
		if prev, dup := seen[post.Slug]; dup {
			errs = append(errs, fmt.Errorf("%s: %w: slug %q already used by %s", p, ErrInvalidPost, post.Slug, prev))
			return nil
		}
		seen[post.Slug] = p
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("content: walk %s: %w", root, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return SortPosts(posts), nil
}

// Parse builds a post from a Markdown document with YAML front matter.
// name is the file name without extension and becomes the slug unless the
// front matter sets one.
func Parse(name string, data []byte) (Post, error) {
	head, body, err := splitFrontMatter(string(data))
	if err != nil {
		return Post{}, err
	}
	var fm frontMatter
	if err := yaml.Unmarshal([]byte(head), &fm); err != nil {
		return Post{}, fmt.Errorf("%w: front matter: %v", ErrInvalidPost, err)
	}

	p := Post{
		Slug:        strings.TrimSpace(fm.Slug),
		Title:       strings.TrimSpace(fm.Title),
		Description: strings.TrimSpace(fm.Description),
		Date:        fm.Date.Time,
		Published:   fm.Published == nil || *fm.Published,
		Body:        strings.TrimSpace(body),
	}
	if p.Slug == "" {
		p.Slug = name
	}
	if p.Title == "" {
		return Post{}, fmt.Errorf("%w: missing title", ErrInvalidPost)
	}
	if p.Date.IsZero() {
		return Post{}, fmt.Errorf("%w: missing date", ErrInvalidPost)
	}
	if p.Slug != Slugify(p.Slug) {
		return Post{}, fmt.Errorf("%w: slug %q is not URL safe", ErrInvalidPost, p.Slug)
	}
	if urlpath.Reserved(locale.BaseSlug(p.Slug)) {
		return Post{}, fmt.Errorf("%w: slug %q is a reserved path", ErrInvalidPost, p.Slug)
	}

	p.Language = locale.SlugLanguage(p.Slug)
	if fm.Language != "" {
		lang, err := locale.Parse(fm.Language)
		if err != nil {
			return Post{}, fmt.Errorf("%w: %v", ErrInvalidPost, err)
		}
		if lang != p.Language {
			return Post{}, fmt.Errorf("%w: language %s does not match slug %q", ErrInvalidPost, lang, p.Slug)
		}
	}

	for _, t := range fm.Tags {
		t = strings.TrimSpace(t)
		switch {
		case t == "":
			continue
		case strings.Contains(t, ","):
			return Post{}, fmt.Errorf("%w: tag %q contains a comma", ErrInvalidPost, t)
		}
		p.Tags = append(p.Tags, t)
	}

	if p.Description == "" {
		p.Description = Summarize(markdown.ToHTML(p.Body), DescriptionLength)
	}
	return p, nil
}

// splitFrontMatter separates a leading "---" delimited block from the body.
func splitFrontMatter(s string) (head, body string, err error) {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", "", fmt.Errorf("%w: missing front matter", ErrInvalidPost)
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", fmt.Errorf("%w: unterminated front matter", ErrInvalidPost)
}
