package domain

// Profile is the minimal user profile stored under the profiles root, keyed by UID.
type Profile struct {
	Username    string         `json:"username"`
	DisplayName string         `json:"displayName"`
	Email       *string        `json:"email"`
	Friends     map[string]any `json:"friends"`
}

// NameIndexEntry maps a username back to the identity that owns it.
type NameIndexEntry struct {
	UID   string  `json:"uid"`
	Email *string `json:"email"`
}

// NewProfile builds the profile written for an orphaned identity.
// DisplayName falls back to the username; Email is nil when the identity has none.
func NewProfile(rec IdentityRecord, username string) Profile {
	displayName := rec.DisplayName
	if displayName == "" {
		displayName = username
	}
	return Profile{
		Username:    username,
		DisplayName: displayName,
		Email:       optionalString(rec.Email),
		Friends:     map[string]any{},
	}
}

// IndexEntry returns the name index entry pointing at uid.
func (p Profile) IndexEntry(uid string) NameIndexEntry {
	return NameIndexEntry{UID: uid, Email: p.Email}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
