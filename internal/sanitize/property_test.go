package sanitize

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emittedTag = regexp.MustCompile(`<(/?)([^\s/>]*)([^>]*)>`)

// emittedTags checks the raw output string: every '<' must open a tag from
// the profile's allowlist.
func emittedTags(t *testing.T, p Profile, out string) {
	t.Helper()
	allowed := strictTags
	if p == ProfileLegacy {
		allowed = legacyTags
	}
	require.Equal(t, strings.Count(out, "<"), len(emittedTag.FindAllString(out, -1)), "stray '<' in %q", out)
	for _, m := range emittedTag.FindAllStringSubmatch(out, -1) {
		_, ok := allowed[m[2]]
		assert.True(t, ok, "tag %q not allowed in %q", m[2], out)
		attrs := strings.TrimSuffix(strings.TrimSpace(m[3]), "/")
		if p == ProfileLegacy || m[1] == "/" {
			assert.Empty(t, strings.TrimSpace(attrs), "attributes on %q in %q", m[0], out)
			continue
		}
		for _, a := range parseAttributes(attrs) {
			assert.True(t, attributeAllowed(m[2], a.name), "attribute %q on <%s> in %q", a.name, m[2], out)
		}
	}
}

func TestStrictSafetyClosure(t *testing.T) {
	for _, in := range attackCorpus {
		out := Strict(in)
		assert.False(t, ContainsDangerous(out), "input %q produced dangerous output %q (%v)", in, out, MatchDangerous(out))
		require.NoError(t, checkDOM(ProfileStrict, out), "input %q", in)
		emittedTags(t, ProfileStrict, out)
	}
}

func TestStrictResidueIsInertText(t *testing.T) {
	for _, in := range residueCorpus {
		out := Strict(in)
		require.NoError(t, checkDOM(ProfileStrict, out), "input %q", in)
		emittedTags(t, ProfileStrict, out)
	}
}

func TestLegacyAllowlistClosure(t *testing.T) {
	inputs := append(append(append([]string{}, attackCorpus...), residueCorpus...), benignCorpus...)
	for _, in := range inputs {
		out := Legacy(in)
		require.NoError(t, checkDOM(ProfileLegacy, out), "input %q", in)
		emittedTags(t, ProfileLegacy, out)
	}
}

func TestStrictIdempotent(t *testing.T) {
	inputs := append(append([]string{}, benignCorpus...),
		`<script>alert(1)</script><p>hi</p>`,
		`<p onclick="evil()">hi</p>`,
		`<a href="javascript:alert(1)">x</a>`,
		`<img src=x onerror=alert(1)>`,
		`<div style="width:expexpression(ression(1)">x</div>`,
		`<svg onload=alert(1)>svg</svg>`,
		`<!-- note --><b>x</b>`,
		`<P CLASS=big>Loud</P>`,
	)
	for _, in := range inputs {
		once := Strict(in)
		assert.Equal(t, once, Strict(once), "input %q", in)
	}
}

func TestLegacyIdempotent(t *testing.T) {
	inputs := append(append([]string{}, benignCorpus...), attackCorpus...)
	for _, in := range inputs {
		once := Legacy(in)
		assert.Equal(t, once, Legacy(once), "input %q", in)
	}
}

// Escaping is not entity-aware, so text holding one of the five escaped
// characters grows on every pass. The output of each pass is still safe.
func TestStrictReescapesEntities(t *testing.T) {
	once := Strict(`a & b`)
	assert.Equal(t, `a &amp; b`, once)
	assert.Equal(t, `a &amp;amp; b`, Strict(once))
}

func TestSafeMarkupSurvives(t *testing.T) {
	for _, in := range benignCorpus {
		out := Strict(in)
		require.NoError(t, checkDOM(ProfileStrict, out))
		assert.NotEmpty(t, out)
	}
}

func TestStrictLargeInputsStayLinear(t *testing.T) {
	const n = 200_000
	inputs := map[string]string{
		"repeated lt":            strings.Repeat("<", n),
		"many short tags":        strings.Repeat("<b>x</b>", n),
		"many disallowed tags":   strings.Repeat("<x>", n),
		"repeated comment opens": strings.Repeat("<!--", n),
		"repeated script opens":  strings.Repeat("<script>", n),
		"script close prefixes":  "<script>" + strings.Repeat("</scrip", n),
		"unclosed attribute":     "<a title='" + strings.Repeat("x", n),
		"many attributes":        "<a " + strings.Repeat(`title="x" `, n) + ">",
		"nested style tokens":    `<p style="` + strings.Repeat("exp", n) + strings.Repeat("ression(", n) + `">`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			out := Strict(in)
			assert.NoError(t, checkDOM(ProfileStrict, out))
		})
	}

	assert.Equal(t, strings.Repeat("&lt;", n), Strict(strings.Repeat("<", n)))
	assert.Equal(t, strings.Repeat("<b>x</b>", n), Strict(strings.Repeat("<b>x</b>", n)))
	assert.Equal(t, "", Strict(strings.Repeat("<x>", n)))
	assert.Equal(t, `<p style="">`, Strict(`<p style="`+strings.Repeat("exp", n)+strings.Repeat("ression(", n)+`">`))
}

func TestLegacyLargeInputs(t *testing.T) {
	const n = 50_000
	assert.Equal(t, strings.Repeat("&lt;", n), Legacy(strings.Repeat("<", n)))
	assert.Equal(t, strings.Repeat("<b>x</b>", n), Legacy(strings.Repeat("<b class=y>x</b>", n)))
	assert.Equal(t, "", Legacy(strings.Repeat("<x>", n)))
	out := Legacy(strings.Repeat("<script>", n))
	assert.NoError(t, checkDOM(ProfileLegacy, out))
}

func BenchmarkStrict(b *testing.B) {
	in := strings.Repeat(`<p class="x" onclick="y">Week <b>1</b> &amp; <a href="https://e.com" target="_blank">link</a></p>`, 100)
	b.SetBytes(int64(len(in)))
	for i := 0; i < b.N; i++ {
		_ = Strict(in)
	}
}

func BenchmarkLegacy(b *testing.B) {
	in := strings.Repeat(`<p class="x" onclick="y">Week <b>1</b> <script>x</script><a href="https://e.com">link</a></p>`, 100)
	b.SetBytes(int64(len(in)))
	for i := 0; i < b.N; i++ {
		_ = Legacy(in)
	}
}
