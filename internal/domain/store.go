package domain

import "context"

// IdentityDirectory enumerates identities page by page.
type IdentityDirectory interface {
	// ListPage returns at most pageSize records starting at pageToken.
	// An empty pageToken starts from the beginning.
	ListPage(ctx context.Context, pageSize int, pageToken string) (*IdentityPage, error)
}

// ProfileStore is a hierarchical key-value store addressed by slash-separated paths.
type ProfileStore interface {
	// Exists reports whether any value is stored at path or below it.
	Exists(ctx context.Context, path string) (bool, error)
	// Read decodes the value at path into dst. found is false when nothing is stored there.
	Read(ctx context.Context, path string, dst any) (found bool, err error)
	// Write replaces the whole subtree at path with value.
	Write(ctx context.Context, path string, value any) error
}

// SubtreeStore lists and removes whole subtrees.
type SubtreeStore interface {
	// Keys returns the immediate child keys of path, sorted.
	// exists is false when nothing is stored at path.
	Keys(ctx context.Context, path string) (keys []string, exists bool, err error)
	// Remove deletes path and everything below it.
	Remove(ctx context.Context, path string) error
}

// Store is the full capability set a provider offers.
type Store interface {
	ProfileStore
	SubtreeStore
}
