// Package fieldpath resolves dotted path expressions against decoded JSON
// graphs (map[string]any, []any, scalars), in the way a client would address
// a field like "category.name" inside a product record.
package fieldpath

import (
	"strconv"
	"strings"
)

// Get resolves a dot-delimited path against a record graph. It returns the
// value at the path and true, or nil and false the moment any intermediate
// segment is nil, absent, or not traversable. It never panics.
func Get(record any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}
	return GetSegments(record, strings.Split(path, "."))
}

// GetSegments resolves a pre-split ordered sequence of path segments.
func GetSegments(record any, segments []string) (any, bool) {
	current := record
	for _, seg := range segments {
		if current == nil {
			return nil, false
		}
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	if current == nil {
		return nil, false
	}
	return current, true
}

// Set writes value at the dot-delimited path inside record, creating
// intermediate map[string]any segments as needed. Non-map intermediates are
// overwritten.
func Set(record map[string]any, path string, value any) {
	if record == nil || path == "" {
		return
	}
	segments := strings.Split(path, ".")

	current := record
	for _, seg := range segments[:len(segments)-1] {
		next, ok := current[seg].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[seg] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = value
}

// String coerces a resolved value to its string form. Strings pass through;
// numbers and booleans are formatted; everything else (including nil, maps,
// and slices) reports false.
func String(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// Number coerces a resolved value to a float64. JSON numbers decode as
// float64; numeric strings are parsed as a convenience. Everything else
// reports false.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
