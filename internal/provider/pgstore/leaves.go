package pgstore

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

// leaf is one stored row: a scalar (or empty object) at a full path.
type leaf struct {
	Path  string
	Value json.RawMessage
}

// flatten turns a JSON-shaped value into leaf rows under base.
// Objects recurse, arrays are stored as objects keyed by index (as the hosted
// database does), empty objects are kept as a "{}" leaf, and nil produces no rows.
func flatten(base string, value any) ([]leaf, error) {
	generic, err := toGeneric(value)
	if err != nil {
		return nil, err
	}
	var out []leaf
	if err := appendLeaves(&out, domain.SplitPath(base), generic); err != nil {
		return nil, err
	}
	return out, nil
}

func appendLeaves(out *[]leaf, segs []string, v any) error {
	switch node := v.(type) {
	case nil:
		return nil
	case map[string]any:
		if len(node) == 0 {
			*out = append(*out, leaf{Path: joinSegs(segs), Value: json.RawMessage("{}")})
			return nil
		}
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if k == "" || strings.Contains(k, "/") {
				return fmt.Errorf("invalid key %q", k)
			}
			if err := appendLeaves(out, append(segs[:len(segs):len(segs)], k), node[k]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		m := make(map[string]any, len(node))
		for i, item := range node {
			m[strconv.Itoa(i)] = item
		}
		if len(m) == 0 {
			return nil
		}
		return appendLeaves(out, segs, m)
	default:
		if len(segs) == 0 {
			return fmt.Errorf("cannot store a scalar at the database root")
		}
		raw, err := json.Marshal(node)
		if err != nil {
			return fmt.Errorf("encode %s: %w", joinSegs(segs), err)
		}
		*out = append(*out, leaf{Path: joinSegs(segs), Value: raw})
		return nil
	}
}

// unflatten rebuilds the value at base from its leaf rows.
// Rows must all be at or below base, and no row may be an ancestor of another;
// Write maintains that by clearing ancestor leaves.
func unflatten(base string, rows []leaf) (any, error) {
	baseSegs := domain.SplitPath(base)
	var root any
	for _, row := range rows {
		var v any
		if err := json.Unmarshal(row.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", row.Path, err)
		}
		rel := domain.SplitPath(row.Path)[len(baseSegs):]
		if len(rel) == 0 {
			root = v
			continue
		}
		m, ok := root.(map[string]any)
		if !ok {
			m = make(map[string]any)
			root = m
		}
		for _, seg := range rel[:len(rel)-1] {
			child, ok := m[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				m[seg] = child
			}
			m = child
		}
		m[rel[len(rel)-1]] = v
	}
	return root, nil
}

// ancestors returns every proper prefix of path, shortest first, excluding the root.
func ancestors(path string) []string {
	segs := domain.SplitPath(path)
	out := make([]string, 0, len(segs))
	for i := 1; i < len(segs); i++ {
		out = append(out, joinSegs(segs[:i]))
	}
	return out
}

func toGeneric(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}

func joinSegs(segs []string) string {
	return domain.JoinPath(segs...)
}
