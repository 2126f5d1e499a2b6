package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsDangerous(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "benign", input: `<p>Hello <b>there</b></p>`, expected: nil},
		{name: "script", input: `<SCRIPT>x</SCRIPT>`, expected: []string{"script-tag"}},
		{name: "iframe", input: `<iframe src=x>`, expected: []string{"iframe-tag"}},
		{name: "object and embed", input: `<object></object><embed>`, expected: []string{"object-tag", "embed-tag"}},
		{name: "form", input: `<form action=x>`, expected: []string{"form-tag"}},
		{name: "javascript url", input: `<a href="JavaScript:x">`, expected: []string{"javascript-url"}},
		{name: "vbscript url", input: `vbscript:msgbox`, expected: []string{"vbscript-url"}},
		{name: "event handler with spaces", input: `<img onerror  = x>`, expected: []string{"event-handler"}},
		{name: "link and meta", input: `<link rel=x><meta http-equiv=refresh>`, expected: []string{"link-tag", "meta-tag"}},
		{
			name:     "several",
			input:    `<script>a</script><a href="javascript:b" onclick="c">`,
			expected: []string{"script-tag", "javascript-url", "event-handler"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, MatchDangerous(tc.input))
			assert.Equal(t, len(tc.expected) > 0, ContainsDangerous(tc.input))
		})
	}
}

func TestContainsDangerousDoesNotMutate(t *testing.T) {
	in := `<script>alert(1)</script>`
	copied := string([]byte(in))
	assert.True(t, ContainsDangerous(in))
	assert.Equal(t, copied, in)
}

func TestIsDangerousURLExported(t *testing.T) {
	assert.True(t, IsDangerousURL(" JavaScript:alert(1)"))
	assert.True(t, IsDangerousURL("file:///etc/passwd"))
	assert.False(t, IsDangerousURL("https://example.com/a?next=javascript:x"))
	assert.False(t, IsDangerousURL(""))
}
