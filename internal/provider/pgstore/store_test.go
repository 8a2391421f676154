package pgstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
	"github.com/sungjintrb/rtdb-admin/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	pool := testutil.OpenPGXPool(t, "pgstore")
	s := New(pool)
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestStore_ProfileRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	exists, err := s.Exists(ctx, "users/u1")
	require.NoError(t, err)
	assert.False(t, exists)

	profile := domain.NewProfile(domain.IdentityRecord{UID: "u1", Email: "a@x.com"}, "a")
	require.NoError(t, s.Write(ctx, "users/u1", profile))

	exists, err = s.Exists(ctx, "/users/u1/")
	require.NoError(t, err)
	assert.True(t, exists)

	var got domain.Profile
	found, err := s.Read(ctx, "users/u1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, profile, got)

	var missing domain.Profile
	found, err = s.Read(ctx, "users/u2", &missing)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_WriteReplacesSubtreeAndAncestors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Write(ctx, "a", map[string]any{"x": 1, "y": 2}))
	require.NoError(t, s.Write(ctx, "a", map[string]any{"z": 3}))

	var got map[string]any
	found, err := s.Read(ctx, "a", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]any{"z": float64(3)}, got)

	require.NoError(t, s.Write(ctx, "b", "leaf"))
	require.NoError(t, s.Write(ctx, "b/c", "child"))
	got = nil
	found, err = s.Read(ctx, "b", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]any{"c": "child"}, got)

	require.NoError(t, s.Write(ctx, "a", nil))
	exists, err := s.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_KeysAndRemove(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Write(ctx, "users/u2", map[string]any{"username": "b"}))
	require.NoError(t, s.Write(ctx, "users/u1", map[string]any{"username": "a", "friends": map[string]any{}}))
	require.NoError(t, s.Write(ctx, "usersX/u9", map[string]any{"username": "z"}))

	keys, exists, err := s.Keys(ctx, "/users")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []string{"u1", "u2"}, keys)

	keys, exists, err = s.Keys(ctx, "users/u1/username")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Empty(t, keys)

	_, exists, err = s.Keys(ctx, "nothing")
	require.NoError(t, err)
	assert.False(t, exists)

	rootKeys, _, err := s.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"users", "usersX"}, rootKeys)

	require.NoError(t, s.Remove(ctx, "users"))
	exists, err = s.Exists(ctx, "users")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = s.Exists(ctx, "usersX/u9")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_ListPage(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, rec := range []domain.IdentityRecord{
		{UID: "c", Email: "c@x.com"},
		{UID: "a", DisplayName: "A"},
		{UID: "b"},
	} {
		require.NoError(t, s.PutIdentity(ctx, rec))
	}

	page, err := s.ListPage(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "a", page.Records[0].UID)
	assert.Equal(t, "A", page.Records[0].DisplayName)
	assert.Equal(t, "b", page.Records[1].UID)
	assert.Equal(t, "b", page.NextPageToken)

	page, err = s.ListPage(ctx, 2, page.NextPageToken)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "c@x.com", page.Records[0].Email)
	assert.Empty(t, page.NextPageToken)

	_, err = s.ListPage(ctx, 0, "")
	assert.Error(t, err)
}
