package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrict(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "plain text", input: "Hello World", expected: "Hello World"},
		{name: "script block removed with body", input: `<script>alert(1)</script><p>hi</p>`, expected: `<p>hi</p>`},
		{name: "script block any case", input: `<SCRIPT type="text/javascript">a</ScRiPt >b`, expected: `b`},
		{name: "unterminated script drops remainder", input: `x<script>never closed <p>y</p>`, expected: `x`},
		{name: "stray closing script dropped", input: `</script>tail`, expected: `tail`},
		{name: "event handler dropped", input: `<p onclick="evil()">hi</p>`, expected: `<p>hi</p>`},
		{name: "javascript href dropped", input: `<a href="javascript:alert(1)">x</a>`, expected: `<a>x</a>`},
		{name: "text escaped", input: `5 < 6 & "quoted"`, expected: `5 &lt; 6 &amp; &quot;quoted&quot;`},
		{name: "apostrophe escaped", input: `it's`, expected: `it&#39;s`},
		{name: "unknown tag keeps content", input: `<marquee>hi</marquee>`, expected: `hi`},
		{name: "tag and attribute names lowercased", input: `<P CLASS="x">Hi</P>`, expected: `<p class="x">Hi</p>`},
		{name: "comment dropped", input: `<!-- hidden --><b>x</b>`, expected: `<b>x</b>`},
		{name: "unterminated comment absorbs rest", input: `a<!-- never closed <b>x</b>`, expected: `a`},
		{name: "unterminated tag escaped", input: `a <b class="x"`, expected: `a &lt;b class=&quot;x&quot;`},
		{name: "open tag without close", input: `<b>bold`, expected: `<b>bold`},
		{name: "closing tag attributes ignored", input: `</a href="x">`, expected: `</a>`},
		{name: "self closing br", input: `<br/>`, expected: `<br />`},
		{name: "plain br", input: `<br>`, expected: `<br>`},
		{name: "self closing img", input: `<img src="/a.png" alt="A"/>`, expected: `<img src="/a.png" alt="A" />`},
		{name: "empty tag name dropped", input: `< p>hi<>`, expected: `hi`},
		{name: "doctype dropped", input: `<!DOCTYPE html><p>x</p>`, expected: `<p>x</p>`},
		{name: "slash separated attribute", input: `<p/onclick=alert(1)>x</p>`, expected: `<p>x</p>`},
		{name: "unquoted event handler", input: `<img src=x onerror=alert(1)>`, expected: `<img src="x">`},
		{name: "svg dropped", input: `<svg onload=alert(1)>x</svg>`, expected: `x`},
		{name: "iframe dropped", input: `<iframe src="javascript:alert(1)"></iframe>after`, expected: `after`},
		{name: "attribute not allowed on tag", input: `<p href="/x">y</p>`, expected: `<p>y</p>`},
		{name: "table attributes", input: `<td nowrap colspan=2 rowspan='3'>c</td>`, expected: `<td colspan="2" rowspan="3">c</td>`},
		{name: "boolean attribute gets empty value", input: `<div title>x</div>`, expected: `<div title="">x</div>`},
		{name: "duplicate attribute last wins", input: `<a title="t" href="/one" title="u">x</a>`, expected: `<a title="u" href="/one">x</a>`},
		{name: "attribute value re-escaped", input: `<p title='say "hi" &amp; go'>x</p>`, expected: `<p title="say &quot;hi&quot; &amp;amp; go">x</p>`},
		{name: "query string ampersand escaped", input: `<a href="/r?a=1&b=2">x</a>`, expected: `<a href="/r?a=1&amp;b=2">x</a>`},
		{name: "quote in unquoted position cannot break out", input: `<a title="a>b">x</a>`, expected: `<a title="">b&quot;&gt;x</a>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Strict(tc.input))
		})
	}
}

func TestStrictURLProtocols(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "mixed case with spaces", input: `<a href="  JavaScript:alert(1)">x</a>`, expected: `<a>x</a>`},
		{name: "embedded tab", input: "<a href=\"java\tscript:alert(1)\">x</a>", expected: `<a>x</a>`},
		{name: "embedded newline", input: "<a href=\"java\nscript:alert(1)\">x</a>", expected: `<a>x</a>`},
		{name: "vbscript", input: `<a href="vbscript:msgbox(1)">x</a>`, expected: `<a>x</a>`},
		{name: "file", input: `<a href="file:///etc/passwd">x</a>`, expected: `<a>x</a>`},
		{name: "data image src", input: `<img src="data:image/png;base64,AAAA" alt="p">`, expected: `<img alt="p">`},
		{name: "single quoted javascript src", input: `<img src='javascript:alert(1)'>`, expected: `<img>`},
		{name: "entity encoded scheme stays inert", input: `<a href="&#106;avascript:alert(1)">x</a>`, expected: `<a href="&amp;#106;avascript:alert(1)">x</a>`},
		{name: "https kept", input: `<a href="https://example.com/a">x</a>`, expected: `<a href="https://example.com/a">x</a>`},
		{name: "mailto kept", input: `<a href="mailto:intern@example.com">x</a>`, expected: `<a href="mailto:intern@example.com">x</a>`},
		{name: "relative kept", input: `<img src="/img/logo.png">`, expected: `<img src="/img/logo.png">`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Strict(tc.input))
		})
	}
}

func TestStrictStyleScrub(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "safe style kept", input: `<span style="color:red">x</span>`, expected: `<span style="color:red">x</span>`},
		{name: "javascript url in style", input: `<span style="color:red;background:url(javascript:alert(1))">x</span>`, expected: `<span style="color:red;background:url(alert(1))">x</span>`},
		{name: "expression upper case", input: `<div style="width:EXPRESSION(alert(1))">x</div>`, expected: `<div style="width:alert(1))">x</div>`},
		{name: "nested expression", input: `<div style="width:expexpression(ression(1)">x</div>`, expected: `<div style="width:1)">x</div>`},
		{name: "import", input: `<p style="@import url(x.css)">x</p>`, expected: `<p style=" url(x.css)">x</p>`},
		{name: "behavior and vbscript", input: `<p style="behavior:url(x.htc);VBScript:x">y</p>`, expected: `<p style="url(x.htc);x">y</p>`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Strict(tc.input))
		})
	}
}

func TestStrictBlankTargetGetsRel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "rel added",
			input:    `<a href="https://e.com" target="_blank">x</a>`,
			expected: `<a href="https://e.com" target="_blank" rel="noopener noreferrer">x</a>`,
		},
		{
			name:     "target keyword any case",
			input:    `<a target="_BLANK">x</a>`,
			expected: `<a target="_BLANK" rel="noopener noreferrer">x</a>`,
		},
		{
			name:     "supplied rel kept",
			input:    `<a href="https://e.com" target="_blank" rel="nofollow">x</a>`,
			expected: `<a href="https://e.com" target="_blank" rel="nofollow">x</a>`,
		},
		{
			name:     "other target untouched",
			input:    `<a href="/x" target="_self">x</a>`,
			expected: `<a href="/x" target="_self">x</a>`,
		},
		{
			name:     "only anchors",
			input:    `<span target="_blank">x</span>`,
			expected: `<span>x</span>`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Strict(tc.input))
		})
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		body string
		want tagToken
	}{
		{body: "p", want: tagToken{name: "p"}},
		{body: "/P", want: tagToken{name: "p", closing: true}},
		{body: "br/", want: tagToken{name: "br", selfClosing: true}},
		{body: `img src="x" /`, want: tagToken{name: "img", attrs: ` src="x" `, selfClosing: true}},
		{body: "A\nhref=x", want: tagToken{name: "a", attrs: "\nhref=x"}},
		{body: "p/onclick=1", want: tagToken{name: "p", attrs: "/onclick=1"}},
		{body: "", want: tagToken{}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, parseTag(tc.body), "body %q", tc.body)
	}
}
