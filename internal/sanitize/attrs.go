package sanitize

import (
	"regexp"
	"strings"
)

// attrPattern matches one attribute: a name, then optionally '=' and a double
// quoted, single quoted or bare value. Anything between matches is ignored.
var attrPattern = regexp.MustCompile(`([A-Za-z_:][-A-Za-z0-9_:.]*)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)

type attribute struct {
	name  string
	value string
}

// attrList keeps attributes in first-seen order.
type attrList []attribute

func (l attrList) has(name string) bool {
	for _, a := range l {
		if a.name == name {
			return true
		}
	}
	return false
}

// parseAttributes reads the attribute text of a tag. Names are lowercased. A
// repeated name overwrites the earlier value but keeps its position.
func parseAttributes(s string) attrList {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var attrs attrList
	seen := make(map[string]int)
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		name := strings.ToLower(m[1])
		value := m[2] + m[3] + m[4]
		if i, ok := seen[name]; ok {
			attrs[i].value = value
			continue
		}
		seen[name] = len(attrs)
		attrs = append(attrs, attribute{name: name, value: value})
	}
	return attrs
}
