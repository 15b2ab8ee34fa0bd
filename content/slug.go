package content

import "github.com/jakeryu/codewise/markdown"

// Slugify turns a title or tag into its URL slug. Tags and headings share
// one slug rule so /tags/<slug>/ and #<slug> agree.
func Slugify(s string) string {
	return markdown.Anchor(s)
}
