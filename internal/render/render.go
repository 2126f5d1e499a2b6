// Package render turns sanitized HTML into Markdown and short plain-text
// previews.
package render

import (
	"regexp"
	"strings"
	"unicode/utf8"

	markdown "github.com/JohannesKaufmann/html-to-markdown"
)

const fallbackMax = 4000

var wsRegexp = regexp.MustCompile(`\s+`)

type Renderer struct {
	converter *markdown.Converter
}

func NewRenderer() *Renderer {
	c := markdown.NewConverter("", true, nil)
	return &Renderer{converter: c}
}

// HTMLToMarkdown converts already sanitized HTML. When conversion fails the
// whitespace-compacted input is returned instead.
func (r *Renderer) HTMLToMarkdown(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	out, err := r.converter.ConvertString(html)
	if err != nil {
		return CompactText(html, fallbackMax)
	}
	return strings.TrimSpace(out)
}

// CompactText collapses whitespace runs and cuts v to at most max runes,
// marking a cut with "...".
func CompactText(v string, max int) string {
	v = strings.TrimSpace(wsRegexp.ReplaceAllString(v, " "))
	if max <= 0 || utf8.RuneCountInString(v) <= max {
		return v
	}
	if max <= 3 {
		return string([]rune(v)[:max])
	}
	return strings.TrimSpace(string([]rune(v)[:max-3])) + "..."
}
