package pgstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leafMap(leaves []leaf) map[string]string {
	out := make(map[string]string, len(leaves))
	for _, l := range leaves {
		out[l.Path] = string(l.Value)
	}
	return out
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		value any
		want  map[string]string
	}{
		{
			name: "profile drops null email and keeps empty friends",
			base: "users/u1",
			value: map[string]any{
				"username":    "alice",
				"displayName": "Alice",
				"email":       nil,
				"friends":     map[string]any{},
			},
			want: map[string]string{
				"users/u1/displayName": `"Alice"`,
				"users/u1/friends":     `{}`,
				"users/u1/username":    `"alice"`,
			},
		},
		{
			name:  "array becomes index keyed",
			base:  "tags",
			value: []any{"x", "y"},
			want:  map[string]string{"tags/0": `"x"`, "tags/1": `"y"`},
		},
		{
			name:  "scalar below root",
			base:  "/a/b/",
			value: 42,
			want:  map[string]string{"a/b": `42`},
		},
		{
			name:  "nil writes nothing",
			base:  "a",
			value: nil,
			want:  map[string]string{},
		},
		{
			name:  "nested objects",
			base:  "",
			value: map[string]any{"a": map[string]any{"b": true, "c": "d"}},
			want:  map[string]string{"a/b": `true`, "a/c": `"d"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := flatten(tt.base, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, leafMap(got))
		})
	}
}

func TestFlatten_Rejects(t *testing.T) {
	_, err := flatten("", "scalar")
	assert.Error(t, err)

	_, err = flatten("a", map[string]any{"b/c": 1})
	assert.Error(t, err)

	_, err = flatten("a", map[string]any{"": 1})
	assert.Error(t, err)
}

func TestFlatten_SortedOutput(t *testing.T) {
	got, err := flatten("n", map[string]any{"b": 1, "a": 2, "c": 3})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "n/a", got[0].Path)
	assert.Equal(t, "n/b", got[1].Path)
	assert.Equal(t, "n/c", got[2].Path)
}

func TestUnflatten_RoundTrip(t *testing.T) {
	value := map[string]any{
		"username": "alice",
		"friends":  map[string]any{},
		"meta":     map[string]any{"age": float64(3), "ok": true},
	}
	leaves, err := flatten("users/u1", value)
	require.NoError(t, err)

	got, err := unflatten("users/u1", leaves)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestUnflatten_LeafAtBase(t *testing.T) {
	got, err := unflatten("a/b", []leaf{{Path: "a/b", Value: json.RawMessage(`"v"`)}})
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestUnflatten_BadJSON(t *testing.T) {
	_, err := unflatten("a", []leaf{{Path: "a/b", Value: json.RawMessage(`{`)}})
	assert.Error(t, err)
}

func TestAncestors(t *testing.T) {
	assert.Equal(t, []string{"a", "a/b"}, ancestors("a/b/c"))
	assert.Empty(t, ancestors("a"))
	assert.Empty(t, ancestors(""))
}

func TestSubtreeArgs(t *testing.T) {
	p, prefix := subtreeArgs("/users/")
	assert.Equal(t, "users", p)
	assert.Equal(t, "users/", prefix)

	p, prefix = subtreeArgs("/")
	assert.Empty(t, p)
	assert.Empty(t, prefix)
}
