package sanitize

import "strings"

func attributeAllowed(tag, name string) bool {
	if _, ok := strictAttrs[tag][name]; ok {
		return true
	}
	_, ok := strictAttrs["*"][name]
	return ok
}

// filterAttributes applies the Strict attribute policy to one opening tag.
func filterAttributes(tag string, attrs attrList) attrList {
	out := make(attrList, 0, len(attrs)+1)
	blank := false
	for _, a := range attrs {
		if !attributeAllowed(tag, a.name) {
			continue
		}
		switch a.name {
		case "href", "src":
			if isDangerousURL(a.value) {
				continue
			}
		case "style":
			a.value = scrubStyle(a.value)
		case "target":
			blank = strings.EqualFold(strings.TrimSpace(a.value), blankTarget)
		}
		out = append(out, a)
	}
	if tag == "a" && blank && !attrs.has("rel") {
		out = append(out, attribute{name: "rel", value: safeRel})
	}
	return out
}

// IsDangerousURL reports whether v uses a scheme the strict profile refuses
// in href and src. Surrounding space, case and embedded control characters
// are ignored.
func IsDangerousURL(v string) bool {
	return isDangerousURL(v)
}

// isDangerousURL reports whether v starts with a rejected protocol. Control
// characters and whitespace are removed first because URL parsers skip them
// inside the scheme.
func isDangerousURL(v string) bool {
	v = normalizeURL(v)
	for _, p := range dangerousProtocols {
		if strings.HasPrefix(v, p) {
			return true
		}
	}
	return false
}

func normalizeURL(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	return strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, v)
}

// scrubStyle deletes every dangerous token from a style value, including
// tokens that only appear once an inner occurrence has been removed.
func scrubStyle(v string) string {
	out := make([]byte, 0, len(v))
	for i := 0; i < len(v); i++ {
		out = append(out, v[i])
		for _, tok := range dangerousStyleTokens {
			if endsWithToken(out, tok) {
				out = out[:len(out)-len(tok)]
				break
			}
		}
	}
	return string(out)
}

func endsWithToken(b []byte, lowerTok string) bool {
	if len(b) < len(lowerTok) {
		return false
	}
	b = b[len(b)-len(lowerTok):]
	for i := 0; i < len(lowerTok); i++ {
		if lowerASCII(b[i]) != lowerTok[i] {
			return false
		}
	}
	return true
}
