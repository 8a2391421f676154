package reconcile

import (
	"strings"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

const (
	// MaxUsernameLength caps sanitized base names. Numeric suffixes added by
	// EnsureUnique may push a final username past it.
	MaxUsernameLength = 30

	fallbackPrefix    = "user_"
	fallbackUIDPrefix = 6
	defaultBase       = "user"
)

// Sanitize lower-cases s and keeps only [a-z0-9_], truncated to MaxUsernameLength.
// An empty result means no usable name could be derived.
func Sanitize(s string) string {
	lower := strings.ToLower(s)
	var b strings.Builder
	b.Grow(min(len(lower), MaxUsernameLength))
	for i := 0; i < len(lower) && b.Len() < MaxUsernameLength; i++ {
		c := lower[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// BaseName derives the candidate username for an identity: the sanitized
// local part of its email, or "user_" plus the first six characters of its UID.
func BaseName(rec domain.IdentityRecord) string {
	if rec.Email != "" {
		local, _, _ := strings.Cut(rec.Email, "@")
		if name := Sanitize(local); name != "" {
			return name
		}
	}
	return fallbackPrefix + rec.UIDPrefix(fallbackUIDPrefix)
}
