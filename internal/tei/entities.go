package tei

import (
	"bytes"
	"regexp"
	"strings"
)

var (
	doctypeStart = []byte("<!DOCTYPE")
	entityDecl   = regexp.MustCompile(`<!ENTITY\s+([A-Za-z_:][\w.:-]*)\s+(?:"([^"]*)"|'([^']*)')\s*>`)
	entityRef    = regexp.MustCompile(`&([A-Za-z_:][\w.:-]*);`)
	subsetEnd    = regexp.MustCompile(`\]\s*>`)
)

// internalEntities collects the general entities declared with a literal
// value in the document's internal DTD subset. Parameter and external
// entities are not included. A value may refer to entities declared
// before it.
func internalEntities(data []byte) map[string]string {
	start := bytes.Index(data, doctypeStart)
	if start < 0 {
		return nil
	}
	subset := data[start:]
	open := bytes.IndexByte(subset, '[')
	if open < 0 || open > bytes.IndexByte(subset, '>') {
		return nil
	}
	loc := subsetEnd.FindIndex(subset[open:])
	if loc == nil {
		return nil
	}

	out := make(map[string]string)
	for _, m := range entityDecl.FindAllSubmatch(subset[open:open+loc[0]], -1) {
		name := string(m[1])
		if _, dup := out[name]; dup {
			// first declaration wins
			continue
		}
		value := string(m[2])
		if m[3] != nil {
			value = string(m[3])
		}
		out[name] = expand(value, out)
	}
	return out
}

func expand(value string, known map[string]string) string {
	if !strings.Contains(value, "&") {
		return value
	}
	return entityRef.ReplaceAllStringFunc(value, func(ref string) string {
		if v, ok := known[ref[1:len(ref)-1]]; ok {
			return v
		}
		return ref
	})
}
