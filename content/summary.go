package content

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Summarize returns the text of the leading paragraphs of an HTML fragment,
// cut at a word boundary so it fits in limit runes.
func Summarize(fragment string, limit int) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return ""
	}

	var words []string
	for _, n := range nodes {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			words = append(words, strings.Fields(textOf(n))...)
		}
		if utf8.RuneCountInString(strings.Join(words, " ")) > limit {
			break
		}
	}
	return truncate(strings.Join(words, " "), limit)
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.DataAtom == atom.Br {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(textOf(c))
	}
	return b.String()
}

func truncate(s string, limit int) string {
	if limit < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)[:limit-1]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
