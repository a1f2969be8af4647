// Package maps provides the loosely typed parameter maps used for site
// data and frontmatter.
package maps

import (
	"strings"

	"github.com/spf13/cast"
)

// ToParamsAndPrepare converts in to Params with all keys lower cased,
// recursively. If in is nil, an empty map is returned. The second
// return value is false when in is not map-shaped.
func ToParamsAndPrepare(in any) (Params, bool) {
	if in == nil {
		return Params{}, true
	}
	m, err := cast.ToStringMapE(in)
	if err != nil {
		return nil, false
	}
	return prepare(m), true
}

func prepare(m map[string]any) Params {
	p := make(Params, len(m))
	for k, v := range m {
		p[lowerKey(k)] = prepareValue(v)
	}
	return p
}

func prepareValue(v any) any {
	switch vv := v.(type) {
	case map[any]any:
		if m, err := cast.ToStringMapE(vv); err == nil {
			return prepare(m)
		}
		return vv
	case map[string]any:
		return prepare(vv)
	case []any:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = prepareValue(e)
		}
		return out
	default:
		return v
	}
}

func lowerKey(k string) string {
	return strings.ToLower(k)
}
