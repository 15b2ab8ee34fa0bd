// Package markdown renders the Markdown subset used by blog posts to HTML,
// either as a string or as a templ component.
package markdown

import (
	"bytes"
	"context"
	"html"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

var (
	reBold             = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldUnderscore   = regexp.MustCompile(`__(.+?)__`)
	reItalic           = regexp.MustCompile(`\*([^*]+)\*`)
	reItalicUnderscore = regexp.MustCompile(`_([^_]+)_`)
	reInlineCode       = regexp.MustCompile("`([^`]+)`")
	reLink             = regexp.MustCompile(`\[(.*?)\]\((.*?)\)(\^)?`)
	reOrderedList      = regexp.MustCompile(`^(\d+)\.\s`)
	// ![alt](url){style} or ![alt](url){style|width|height}
	reImg = regexp.MustCompile(`\!\[(.*?)\]\((.*?)\)\{([^|}]*?)(?:\|(\d+)\|(\d+))?\}`)
	// > [!NOTE], > [!WARNING], ...
	reCallout = regexp.MustCompile(`^\[!(NOTE|TIP|IMPORTANT|WARNING|CAUTION)\]$`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		RenderMarkdown(&buf, content)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// ToHTML returns the HTML representation of md.
func ToHTML(md string) string {
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	return buf.String()
}

// RenderMarkdown writes the HTML representation of md to buf.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	r := &renderer{buf: buf}
	for _, line := range strings.Split(md, "\n") {
		r.line(strings.TrimRight(line, "\r"))
	}
	r.close()
}

// block is the kind of element left open between lines.
type block int

const (
	blockNone block = iota
	blockPara
	blockList
	blockOrdered
	blockQuote
	blockTable
	blockCode
)

var closers = map[block]string{
	blockPara:    "</p>",
	blockList:    "</ul>",
	blockOrdered: "</ol>",
	blockQuote:   "</blockquote>",
}

type renderer struct {
	buf    *bytes.Buffer
	open   block
	images int

	codeBadge  bool // code block is wrapped with a language badge
	tableBody  bool // <tbody> has been opened
	quoteFresh bool // nothing written inside the quote yet
}

// close ends the open block, if any.
func (r *renderer) close() {
	switch r.open {
	case blockNone:
		return
	case blockCode:
		r.buf.WriteString("</code></pre>")
		if r.codeBadge {
			r.buf.WriteString("</div>")
		}
		r.codeBadge = false
	case blockTable:
		if r.tableBody {
			r.buf.WriteString("</tbody>")
		}
		r.buf.WriteString("</table>")
		r.tableBody = false
	default:
		r.buf.WriteString(closers[r.open])
	}
	r.open = blockNone
}

// enter closes whatever is open and writes tag, unless b is already open.
// It reports whether a new block was started.
func (r *renderer) enter(b block, tag string) bool {
	if r.open == b {
		return false
	}
	r.close()
	r.buf.WriteString(tag)
	r.open = b
	return true
}

func (r *renderer) inline(s string) string {
	return FormatInline(s, &r.images)
}

func (r *renderer) line(line string) {
	if strings.HasPrefix(line, "```") {
		r.fence(strings.TrimSpace(line[3:]))
		return
	}
	if r.open == blockCode {
		r.buf.WriteString(html.EscapeString(line))
		r.buf.WriteByte('\n')
		return
	}

	text := strings.TrimSpace(line)
	switch {
	case text == "":
		r.close()
	case strings.HasPrefix(line, "---"):
		r.close()
		r.buf.WriteString("<hr/>")
	case headingLevel(line) > 0:
		r.close()
		level := headingLevel(line)
		r.heading(level, strings.TrimSpace(line[level+1:]))
	case strings.HasPrefix(line, "|"):
		r.tableRow(line)
	case strings.HasPrefix(line, "- "):
		r.enter(blockList, "<ul>")
		r.buf.WriteString("<li>" + r.inline(strings.TrimSpace(line[2:])) + "</li>")
	case reOrderedList.MatchString(line):
		r.enter(blockOrdered, "<ol>")
		item := reOrderedList.ReplaceAllString(line, "")
		r.buf.WriteString("<li>" + r.inline(strings.TrimSpace(item)) + "</li>")
	case strings.HasPrefix(line, "> "):
		r.quote(strings.TrimSpace(line[2:]))
	default:
		if !r.enter(blockPara, "<p>") {
			r.buf.WriteByte(' ')
		}
		r.buf.WriteString(r.inline(text) + "\n")
	}
}

// fence opens or closes a fenced code block.
func (r *renderer) fence(lang string) {
	if r.open == blockCode {
		r.close()
		return
	}
	r.close()
	r.open = blockCode
	if lang == "" {
		r.buf.WriteString(`<pre class="code-block"><code>`)
		return
	}
	r.codeBadge = true
	l := html.EscapeString(lang)
	r.buf.WriteString(`<div class="code-block-wrapper"><span class="code-lang code-lang-` + l + `">` + l + `</span>`)
	r.buf.WriteString(`<pre class="code-block"><code class="language-` + l + `">`)
}

// headingLevel returns 1 to 4 for "# " through "#### ", else 0.
func headingLevel(line string) int {
	n := 0
	for n < len(line) && line[n] == '#' {
		n++
	}
	if n == 0 || n > 4 || n >= len(line) || line[n] != ' ' {
		return 0
	}
	return n
}

// heading writes h1..h4. Section headings get an id for in-page links; the
// title heading does not.
func (r *renderer) heading(level int, text string) {
	tag := "h" + strconv.Itoa(level)
	if level == 1 {
		r.buf.WriteString("<" + tag + ">")
	} else {
		r.buf.WriteString("<" + tag + ` id="` + html.EscapeString(Anchor(text)) + `">`)
	}
	r.buf.WriteString(r.inline(text) + "</" + tag + ">")
}

// tableRow writes one pipe table line. The first row is the header and a
// |---| line opens the body.
func (r *renderer) tableRow(line string) {
	if r.enter(blockTable, "<table>") {
		r.buf.WriteString("<thead><tr>")
		for _, cell := range parseTableCells(line) {
			r.buf.WriteString("<th>" + r.inline(cell) + "</th>")
		}
		r.buf.WriteString("</tr></thead>")
		return
	}
	if !r.tableBody {
		r.buf.WriteString("<tbody>")
		r.tableBody = true
	}
	if isTableSeparator(line) {
		return
	}
	r.buf.WriteString("<tr>")
	for _, cell := range parseTableCells(line) {
		r.buf.WriteString("<td>" + r.inline(cell) + "</td>")
	}
	r.buf.WriteString("</tr>")
}

// quote joins consecutive "> " lines into one blockquote. A leading
// [!KIND] marker turns it into a titled callout.
func (r *renderer) quote(text string) {
	if r.open != blockQuote {
		r.close()
		r.open = blockQuote
		r.quoteFresh = true
		if m := reCallout.FindStringSubmatch(text); m != nil {
			kind := strings.ToLower(m[1])
			r.buf.WriteString(`<blockquote class="callout callout-` + kind + `"><p class="callout-title">` + m[1][:1] + kind[1:] + `</p>`)
			return
		}
		r.buf.WriteString("<blockquote>")
	}
	if !r.quoteFresh {
		r.buf.WriteByte(' ')
	}
	r.quoteFresh = false
	r.buf.WriteString(r.inline(text))
}

func parseTableCells(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func isTableSeparator(line string) bool {
	line = strings.TrimSpace(line)
	line = strings.Trim(line, "|")
	for _, cell := range strings.Split(line, "|") {
		cell = strings.TrimSpace(cell)
		cleaned := strings.ReplaceAll(strings.ReplaceAll(cell, "-", ""), ":", "")
		if cleaned != "" {
			return false
		}
	}
	return true
}

// ApplyOutsideTags applies fn only to text segments outside HTML tags,
// so that formatting regexes never touch URLs inside href attributes, etc.
func ApplyOutsideTags(s string, fn func(string) string) string {
	var buf strings.Builder
	for len(s) > 0 {
		lt := strings.Index(s, "<")
		if lt < 0 {
			buf.WriteString(fn(s))
			break
		}
		if lt > 0 {
			buf.WriteString(fn(s[:lt]))
		}
		gt := strings.Index(s[lt:], ">")
		if gt < 0 {
			buf.WriteString(s[lt:])
			break
		}
		buf.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return buf.String()
}

// FormatInline applies inline formatting (bold, italic, links, images) to s.
func FormatInline(s string, imageCount *int) string {
	escaped := html.EscapeString(s)
	// ![alt](url){style} or ![alt](url){style|width|height}
	escaped = reImg.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reImg.FindStringSubmatch(m)
		if len(match) < 4 {
			return m
		}
		src := SafeURL(match[2])
		if src == "" {
			return match[1]
		}

		alt := match[1]
		style := match[3]
		width := "1024"
		height := "768"
		if len(match) >= 6 && match[4] != "" && match[5] != "" {
			width = match[4]
			height = match[5]
		}

		*imageCount++
		var loadAttr string
		if *imageCount == 1 {
			loadAttr = `fetchpriority="high"`
		} else {
			loadAttr = `loading="eager"`
		}

		return `<img ` + loadAttr + ` width="` + width + `" height="` + height + `" alt="` + alt + `" src="` + src + `" style="` + style + `" decoding="async"/>`
	})
	escaped = reLink.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reLink.FindStringSubmatch(m)
		if len(match) < 3 {
			return m
		}
		href := SafeURL(match[2])
		if href == "" {
			return match[1]
		}
		if external(href) || (len(match) >= 4 && match[3] == "^") {
			return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + match[1] + `</a>`
		}
		return `<a href="` + href + `">` + match[1] + `</a>`
	})
	// Inline code: extract and replace with placeholders so bold/italic
	// regex does not format content inside backticks.
	var inlineCodeBlocks []string
	escaped = reInlineCode.ReplaceAllStringFunc(escaped, func(m string) string {
		match := reInlineCode.FindStringSubmatch(m)
		placeholder := "\x00IC" + strconv.Itoa(len(inlineCodeBlocks)) + "\x00"
		inlineCodeBlocks = append(inlineCodeBlocks, "<code>"+match[1]+"</code>")
		return placeholder
	})
	// Apply bold/italic only outside HTML tags so URLs in href are not corrupted
	escaped = ApplyOutsideTags(escaped, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldUnderscore.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicUnderscore.ReplaceAllString(seg, "<em>$1</em>")
		return seg
	})
	// Restore inline code blocks
	for i, code := range inlineCodeBlocks {
		escaped = strings.Replace(escaped, "\x00IC"+strconv.Itoa(i)+"\x00", code, 1)
	}
	return escaped
}

// external reports whether href leaves the site.
func external(href string) bool {
	return !strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "#")
}

// SafeURL validates and sanitizes a URL for use in HTML attributes.
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		return html.EscapeString(val)
	}
	parsed, err := url.Parse(val)
	if err != nil || parsed.Scheme == "" {
		return ""
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https", "mailto", "tel":
		return html.EscapeString(val)
	default:
		return ""
	}
}
