package sanitize

import "strings"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeText is the only escaper in the package. Text runs, attribute values
// and absorbed remainders all go through it.
func escapeText(s string) string {
	if s == "" {
		return ""
	}
	return textEscaper.Replace(s)
}

func lowerASCII(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// hasSuffixFold reports whether s ends with lowerSuffix, ignoring ASCII case.
func hasSuffixFold(s, lowerSuffix string) bool {
	if len(s) < len(lowerSuffix) {
		return false
	}
	s = s[len(s)-len(lowerSuffix):]
	for i := 0; i < len(lowerSuffix); i++ {
		if lowerASCII(s[i]) != lowerSuffix[i] {
			return false
		}
	}
	return true
}

// indexFold is strings.Index with ASCII case folding. lowerSub must already be
// lowercase.
func indexFold(s, lowerSub string) int {
	n := len(lowerSub)
	if n == 0 {
		return 0
	}
	first := lowerSub[0]
	for i := 0; i+n <= len(s); i++ {
		if lowerASCII(s[i]) != first {
			continue
		}
		if hasSuffixFold(s[i:i+n], lowerSub) {
			return i
		}
	}
	return -1
}
