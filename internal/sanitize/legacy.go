package sanitize

import (
	"regexp"
	"strings"
)

var (
	legacyScriptBlock = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	legacyEventDouble = regexp.MustCompile(`(?i)on\w+\s*=\s*"[^"]*"`)
	legacyEventSingle = regexp.MustCompile(`(?i)on\w+\s*=\s*'[^']*'`)
	legacyEventBare   = regexp.MustCompile(`(?i)on\w+\s*=\s*[^\s>]+`)
	legacyJavascript  = regexp.MustCompile(`(?i)javascript:`)
	legacyDataHTML    = regexp.MustCompile(`(?i)data:text/html`)
	legacyTag         = regexp.MustCompile(`</?([A-Za-z][A-Za-z0-9]*)\b[^>]*>`)
	anyTag            = regexp.MustCompile(`<[^>]*>`)
)

// Legacy sanitizes html with the Legacy profile used by short description
// fields. It removes script blocks, event handlers, javascript: and
// data:text/html, then keeps only the twelve basic formatting tags with every
// attribute dropped. A '<' that does not open a recognised tag is written as
// "&lt;"; no other character is escaped.
func Legacy(html string) string {
	if html == "" {
		return ""
	}
	s := legacyScriptBlock.ReplaceAllString(html, "")
	s = legacyEventDouble.ReplaceAllString(s, "")
	s = legacyEventSingle.ReplaceAllString(s, "")
	s = legacyEventBare.ReplaceAllString(s, "")
	s = legacyJavascript.ReplaceAllString(s, "")
	s = legacyDataHTML.ReplaceAllString(s, "")
	return legacyFilterTags(s)
}

func legacyFilterTags(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, m := range legacyTag.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(escapeStrayLT(s[last:m[0]]))
		last = m[1]

		name := strings.ToLower(s[m[2]:m[3]])
		if _, ok := legacyTags[name]; !ok {
			continue
		}
		raw := s[m[0]:m[1]]
		switch {
		case strings.HasPrefix(raw, "</"):
			b.WriteString("</" + name + ">")
		case strings.HasSuffix(raw, "/>"):
			b.WriteString("<" + name + " />")
		default:
			b.WriteString("<" + name + ">")
		}
	}
	b.WriteString(escapeStrayLT(s[last:]))
	return b.String()
}

func escapeStrayLT(s string) string {
	return strings.ReplaceAll(s, "<", "&lt;")
}

// NL2BR replaces every "\n" with "<br>".
func NL2BR(text string) string {
	return strings.ReplaceAll(text, "\n", "<br>")
}

// StripHTML removes every tag and keeps the text between them. The result is
// meant for plain-text previews, not for an HTML sink.
func StripHTML(html string) string {
	return anyTag.ReplaceAllString(html, "")
}
