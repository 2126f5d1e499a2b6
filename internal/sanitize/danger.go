package sanitize

import "regexp"

type signature struct {
	name    string
	pattern *regexp.Regexp
}

var dangerSignatures = []signature{
	{"script-tag", regexp.MustCompile(`(?i)<script`)},
	{"iframe-tag", regexp.MustCompile(`(?i)<iframe`)},
	{"object-tag", regexp.MustCompile(`(?i)<object`)},
	{"embed-tag", regexp.MustCompile(`(?i)<embed`)},
	{"form-tag", regexp.MustCompile(`(?i)<form`)},
	{"javascript-url", regexp.MustCompile(`(?i)javascript:`)},
	{"vbscript-url", regexp.MustCompile(`(?i)vbscript:`)},
	{"event-handler", regexp.MustCompile(`(?i)on\w+\s*=`)},
	{"link-tag", regexp.MustCompile(`(?i)<link`)},
	{"meta-tag", regexp.MustCompile(`(?i)<meta`)},
}

// ContainsDangerous reports whether raw html matches any known XSS signature.
// It is a diagnostic: sanitizing does not depend on it.
func ContainsDangerous(html string) bool {
	if html == "" {
		return false
	}
	for _, sig := range dangerSignatures {
		if sig.pattern.MatchString(html) {
			return true
		}
	}
	return false
}

// MatchDangerous returns the name of every signature html matches, in a fixed
// order. It returns nil when nothing matches.
func MatchDangerous(html string) []string {
	if html == "" {
		return nil
	}
	var names []string
	for _, sig := range dangerSignatures {
		if sig.pattern.MatchString(html) {
			names = append(names, sig.name)
		}
	}
	return names
}
