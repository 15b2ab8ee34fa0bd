package content

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/jakeryu/codewise/locale"
)

// SortPosts returns a copy of posts ordered newest first. Posts with equal
// dates keep their relative order.
func SortPosts(posts []Post) []Post {
	out := slices.Clone(posts)
	slices.SortStableFunc(out, func(a, b Post) int {
		return b.Date.Compare(a.Date)
	})
	return out
}

// AllTags counts how often each tag occurs across posts.
func AllTags(posts []Post) map[string]int {
	tags := make(map[string]int)
	for _, p := range posts {
		for _, t := range p.Tags {
			tags[t]++
		}
	}
	return tags
}

// SortTagsByCount returns the tags of counts, most used first. Ties are
// ordered by name.
func SortTagsByCount(counts map[string]int) []string {
	tags := slices.Collect(maps.Keys(counts))
	slices.SortFunc(tags, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return tags
}

// PostsByTagSlug returns the posts carrying a tag whose slug is tagSlug.
func PostsByTagSlug(posts []Post, tagSlug string) []Post {
	var out []Post
	for _, p := range posts {
		for _, t := range p.Tags {
			if Slugify(t) == tagSlug {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// TagBySlug returns the display form of the first tag in posts whose slug
// is tagSlug.
func TagBySlug(posts []Post, tagSlug string) (string, bool) {
	for _, p := range posts {
		for _, t := range p.Tags {
			if Slugify(t) == tagSlug {
				return t, true
			}
		}
	}
	return "", false
}

// FilterLanguage returns the published posts written in lang.
func FilterLanguage(posts []Post, lang locale.Language) []Post {
	var out []Post
	for _, p := range posts {
		if p.Published && p.Language == lang {
			out = append(out, p)
		}
	}
	return out
}

// Latest returns the n newest posts.
func Latest(posts []Post, n int) []Post {
	sorted := SortPosts(posts)
	n = max(n, 0)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// RelatedPosts returns posts in the same language as current that share at
// least one tag with it.
func RelatedPosts(current Post, posts []Post) []Post {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tagSet[Slugify(t)] = struct{}{}
	}
	var related []Post
	for _, p := range posts {
		if p.Slug == current.Slug || p.Language != current.Language {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[Slugify(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// Page is one page of a paginated post listing. Number is 1-based.
type Page struct {
	Posts  []Post
	Number int
	Total  int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.Total }
func (p Page) Prev() int     { return p.Number - 1 }
func (p Page) Next() int     { return p.Number + 1 }

// Paginate slices posts into pages of perPage and returns page number n,
// clamped into the valid range.
func Paginate(posts []Post, n, perPage int) Page {
	if perPage < 1 {
		perPage = 1
	}
	total := (len(posts) + perPage - 1) / perPage
	if total == 0 {
		return Page{Number: 1, Total: 1}
	}
	n = max(1, min(n, total))
	start := (n - 1) * perPage
	end := min(start+perPage, len(posts))
	return Page{Posts: posts[start:end], Number: n, Total: total}
}
