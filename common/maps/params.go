package maps

import (
	"strings"

	"github.com/spf13/cast"
)

// Params is a map where all keys are lower case.
type Params map[string]any

// Set overwrites values in p with values in pp for common or new keys.
// This is done recursively.
func (p Params) Set(pp Params) {
	for k, v := range pp {
		vv, found := p[k]
		if !found {
			p[k] = v
			continue
		}
		if pm, ok := vv.(Params); ok {
			if vm, ok := v.(Params); ok {
				pm.Set(vm)
				continue
			}
		}
		p[k] = v
	}
}

// SetDefault sets key to value only when the key is absent.
func (p Params) SetDefault(key string, value any) {
	key = strings.ToLower(key)
	if _, found := p[key]; !found {
		p[key] = value
	}
}

// Get does a lower case and nested search in this map.
// It will return nil if none found.
func (p Params) Get(indices ...string) any {
	v, _ := getNested(p, indices)
	return v
}

// GetString returns the string value for key, or "" when absent.
func (p Params) GetString(indices ...string) string {
	return cast.ToString(p.Get(indices...))
}

func getNested(m map[string]any, indices []string) (any, bool) {
	if len(indices) == 0 {
		return nil, false
	}

	v, found := m[strings.ToLower(indices[0])]
	if !found {
		return nil, false
	}
	if len(indices) == 1 {
		return v, true
	}

	switch mm := v.(type) {
	case Params:
		return getNested(mm, indices[1:])
	case map[string]any:
		return getNested(mm, indices[1:])
	default:
		return nil, false
	}
}
