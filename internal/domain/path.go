package domain

import "strings"

// Default roots of the profile tree and the username index.
const (
	DefaultProfilesRoot  = "users"
	DefaultNameIndexRoot = "usernameIndex"
)

// CleanPath trims surrounding slashes and collapses empty segments.
// The database root is represented by the empty string.
func CleanPath(p string) string {
	segs := SplitPath(p)
	return strings.Join(segs, "/")
}

// SplitPath returns the non-empty segments of p.
func SplitPath(p string) []string {
	raw := strings.Split(p, "/")
	segs := raw[:0]
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// JoinPath joins segments into a clean path.
func JoinPath(parts ...string) string {
	return CleanPath(strings.Join(parts, "/"))
}
