package sanitize

import (
	"fmt"
	"sort"
	"strings"
)

// Profile names one of the two sanitizer policies.
type Profile int

const (
	ProfileStrict Profile = iota
	ProfileLegacy
)

func (p Profile) String() string {
	switch p {
	case ProfileStrict:
		return "strict"
	case ProfileLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Profile(%d)", int(p))
	}
}

// ParseProfile accepts "strict" or "legacy", ignoring case and surrounding
// space. The empty string selects strict.
func ParseProfile(s string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return ProfileStrict, nil
	case "legacy":
		return ProfileLegacy, nil
	default:
		return 0, fmt.Errorf("unknown sanitize profile %q (expected strict|legacy)", s)
	}
}

// Sanitize runs html through the profile. Unknown profiles fall back to
// Strict.
func (p Profile) Sanitize(html string) string {
	if p == ProfileLegacy {
		return Legacy(html)
	}
	return Strict(html)
}

// AllowedTags lists the tags the profile keeps, sorted.
func (p Profile) AllowedTags() []string {
	set := strictTags
	if p == ProfileLegacy {
		set = legacyTags
	}
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
