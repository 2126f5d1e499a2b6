package sanitize

// strictTags is the Strict profile tag allowlist.
var strictTags = setOf(
	"p", "br", "hr", "div", "span",
	"b", "i", "u", "s", "strong", "em", "mark", "small", "sub", "sup",
	"h1", "h2", "h3", "h4", "h5", "h6",
	"ul", "ol", "li",
	"blockquote", "pre", "code",
	"a", "img",
	"table", "thead", "tbody", "tr", "th", "td",
)

// strictAttrs maps a tag (or "*" for every tag) to the attributes the Strict
// profile keeps on it.
var strictAttrs = map[string]map[string]struct{}{
	"*":   setOf("class", "style", "title"),
	"a":   setOf("href", "target", "rel"),
	"img": setOf("src", "alt", "width", "height"),
	"td":  setOf("colspan", "rowspan"),
	"th":  setOf("colspan", "rowspan"),
}

// dangerousProtocols are rejected as href/src prefixes, compared lowercase.
var dangerousProtocols = []string{"javascript:", "vbscript:", "data:", "file:"}

// dangerousStyleTokens are deleted from style values, compared without case.
var dangerousStyleTokens = []string{"expression(", "javascript:", "vbscript:", "@import", "behavior:"}

// legacyTags is the Legacy profile tag allowlist. Legacy keeps no attributes.
var legacyTags = setOf("b", "i", "u", "strong", "em", "br", "p", "ul", "ol", "li", "span", "div")

const (
	blankTarget = "_blank"
	safeRel     = "noopener noreferrer"
)

func setOf(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}
