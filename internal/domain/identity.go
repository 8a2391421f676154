// Package domain provides the data model and backend capabilities for rtdb-admin.
//
// Providers return domain types, never SDK types, so the reconciler and the
// pruner stay backend-agnostic.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/domain
package domain

import "unicode/utf8"

// IdentityRecord is one authenticated identity as issued by the identity directory.
// Email and DisplayName are empty when the directory has no value for them.
type IdentityRecord struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// IdentityPage is one page of a directory listing.
// An empty NextPageToken means the listing is exhausted.
type IdentityPage struct {
	Records       []IdentityRecord `json:"records"`
	NextPageToken string           `json:"next_page_token,omitempty"`
}

// UIDPrefix returns the first n characters (runes) of the UID, or the whole
// UID when shorter. A multi-byte character is never split.
func (r IdentityRecord) UIDPrefix(n int) string {
	if utf8.RuneCountInString(r.UID) <= n {
		return r.UID
	}
	return string([]rune(r.UID)[:n])
}
