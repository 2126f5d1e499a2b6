package sanitize

import (
	"strings"
	"unicode"
)

type scanState int

const (
	inText scanState = iota
	inComment
	inTag
)

// scanner is the per-call cursor of the Strict profile. pos only moves
// forward, so a call is linear in the input length.
type scanner struct {
	src string
	pos int
	out strings.Builder
}

// Strict sanitizes html with the Strict profile. The empty string yields "".
//
// Text is escaped, comments are dropped, tags outside the allowlist lose
// their markup but keep their content, and <script> elements are removed
// together with their body. Kept tags are re-emitted with only allowlisted,
// re-escaped attributes.
func Strict(html string) string {
	if html == "" {
		return ""
	}
	s := &scanner{src: html}
	s.out.Grow(len(html))

	state := inText
	for s.pos < len(s.src) {
		switch state {
		case inText:
			state = s.text()
		case inComment:
			s.comment()
			state = inText
		case inTag:
			s.tag()
			state = inText
		}
	}
	return s.out.String()
}

// text copies escaped text up to the next '<' and decides what it opens.
func (s *scanner) text() scanState {
	rest := s.src[s.pos:]
	i := strings.IndexByte(rest, '<')
	if i < 0 {
		s.out.WriteString(escapeText(rest))
		s.pos = len(s.src)
		return inText
	}
	s.out.WriteString(escapeText(rest[:i]))
	s.pos += i
	if strings.HasPrefix(s.src[s.pos:], "<!--") {
		return inComment
	}
	return inTag
}

// comment skips past the closing "-->". An unterminated comment swallows the
// rest of the input.
func (s *scanner) comment() {
	body := s.pos + len("<!--")
	end := strings.Index(s.src[body:], "-->")
	if end < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos = body + end + len("-->")
}

// tag handles one "<...>" run. Without a closing '>' the remainder is
// escaped as text.
func (s *scanner) tag() {
	rest := s.src[s.pos:]
	end := strings.IndexByte(rest, '>')
	if end < 0 {
		s.out.WriteString(escapeText(rest))
		s.pos = len(s.src)
		return
	}
	s.pos += end + 1

	t := parseTag(rest[1:end])
	if t.name == "script" && !t.closing {
		s.skipRawText("script")
		return
	}
	if _, ok := strictTags[t.name]; !ok {
		return
	}
	s.writeTag(t)
}

// skipRawText drops everything up to and including the matching end tag.
func (s *scanner) skipRawText(name string) {
	rest := s.src[s.pos:]
	i := indexFold(rest, "</"+name)
	if i < 0 {
		s.pos = len(s.src)
		return
	}
	j := strings.IndexByte(rest[i:], '>')
	if j < 0 {
		s.pos = len(s.src)
		return
	}
	s.pos += i + j + 1
}

func (s *scanner) writeTag(t tagToken) {
	if t.closing {
		s.out.WriteString("</")
		s.out.WriteString(t.name)
		s.out.WriteByte('>')
		return
	}
	s.out.WriteByte('<')
	s.out.WriteString(t.name)
	for _, a := range filterAttributes(t.name, parseAttributes(t.attrs)) {
		s.out.WriteByte(' ')
		s.out.WriteString(a.name)
		s.out.WriteString(`="`)
		s.out.WriteString(escapeText(a.value))
		s.out.WriteByte('"')
	}
	if t.selfClosing {
		s.out.WriteString(" />")
		return
	}
	s.out.WriteByte('>')
}

type tagToken struct {
	name        string
	attrs       string
	closing     bool
	selfClosing bool
}

// parseTag splits the text between '<' and '>' into its parts. The name runs
// up to the first whitespace or '/'.
func parseTag(body string) tagToken {
	var t tagToken
	if strings.HasPrefix(body, "/") {
		t.closing = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "/") {
		t.selfClosing = true
		body = body[:len(body)-1]
	}
	n := strings.IndexFunc(body, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r)
	})
	if n < 0 {
		n = len(body)
	}
	t.name = strings.ToLower(body[:n])
	t.attrs = body[n:]
	return t
}
