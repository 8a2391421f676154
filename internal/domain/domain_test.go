package domain

import (
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile_Fallbacks(t *testing.T) {
	p := NewProfile(IdentityRecord{UID: "u1"}, "user_u1")

	assert.Equal(t, "user_u1", p.Username)
	assert.Equal(t, "user_u1", p.DisplayName)
	assert.Nil(t, p.Email)
	assert.NotNil(t, p.Friends)
	assert.Empty(t, p.Friends)
}

func TestNewProfile_KeepsDirectoryValues(t *testing.T) {
	p := NewProfile(IdentityRecord{UID: "u1", Email: "a.b@x.com", DisplayName: "Alice B"}, "ab")

	assert.Equal(t, "Alice B", p.DisplayName)
	require.NotNil(t, p.Email)
	assert.Equal(t, "a.b@x.com", *p.Email)

	entry := p.IndexEntry("u1")
	assert.Equal(t, "u1", entry.UID)
	assert.Equal(t, p.Email, entry.Email)
}

func TestProfile_JSONShape(t *testing.T) {
	data, err := json.Marshal(NewProfile(IdentityRecord{UID: "u2"}, "user_u2"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"username":"user_u2","displayName":"user_u2","email":null,"friends":{}}`, string(data))
}

func TestIdentityRecord_UIDPrefix(t *testing.T) {
	tests := []struct {
		uid  string
		want string
	}{
		{"abcdefgh", "abcdef"},
		{"abc", "abc"},
		{"", ""},
		{"aéééé", "aéééé"},
		{"aéééééééé", "aééééé"},
		{"日本語のユーザーです", "日本語のユー"},
	}
	for _, tt := range tests {
		got := (IdentityRecord{UID: tt.uid}).UIDPrefix(6)
		if got != tt.want {
			t.Errorf("UIDPrefix(%q) = %q, want %q", tt.uid, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("UIDPrefix(%q) = %q is not valid UTF-8", tt.uid, got)
		}
	}
}

func TestCleanPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/users", "users"},
		{"users/", "users"},
		{"//users//u1/", "users/u1"},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanPath(tt.in); got != tt.want {
			t.Errorf("CleanPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	assert.Equal(t, "usernameIndex/alice", JoinPath(DefaultNameIndexRoot, "alice"))
}
