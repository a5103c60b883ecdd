package reference

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Records walks a decoded JSON tree and returns every object that carries all
// of keys as siblings. Objects deeper than maxDepth are not visited. Matching
// objects are still descended into, since entries may nest further entries.
func Records(tree any, maxDepth int, keys ...string) []map[string]any {
	var out []map[string]any
	walk(tree, 0, maxDepth, keys, &out)
	return out
}

func walk(node any, depth, maxDepth int, keys []string, out *[]map[string]any) {
	if depth > maxDepth {
		return
	}
	switch v := node.(type) {
	case map[string]any:
		if hasAll(v, keys) {
			*out = append(*out, v)
		}
		for _, child := range v {
			walk(child, depth+1, maxDepth, keys, out)
		}
	case []any:
		for _, child := range v {
			walk(child, depth+1, maxDepth, keys, out)
		}
	}
}

func hasAll(m map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// code reads an integer id that may be encoded as a JSON number or a string.
func code(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}
