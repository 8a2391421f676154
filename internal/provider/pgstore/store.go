// Package pgstore implements the backend capabilities on PostgreSQL.
//
// The hierarchical tree is stored as leaf rows in rtdb_nodes, one row per
// scalar (or empty object) keyed by its full slash-separated path. Subtree
// reads and deletes are prefix scans. Identities live in their own table and
// are paged with a keyset cursor on uid.
//
// Import Path: github.com/sungjintrb/rtdb-admin/internal/provider/pgstore
package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS rtdb_nodes (
	path  TEXT PRIMARY KEY,
	value JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS identities (
	uid          TEXT PRIMARY KEY,
	email        TEXT,
	display_name TEXT,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// subtreeFilter matches the node at $1 and everything below it ($2 is $1 + "/",
// or "" for the root, which matches every row).
const subtreeFilter = `(path = $1 OR starts_with(path, $2))`

// Store is a PostgreSQL-backed identity directory and hierarchical store.
type Store struct {
	pool *pgxpool.Pool
}

var (
	_ domain.IdentityDirectory = (*Store)(nil)
	_ domain.Store             = (*Store)(nil)
)

// New wraps an open pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// PutIdentity inserts or updates one identity. Used to import a directory
// snapshot into a self-hosted deployment.
func (s *Store) PutIdentity(ctx context.Context, rec domain.IdentityRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO identities (uid, email, display_name)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''))
		ON CONFLICT (uid) DO UPDATE SET email = EXCLUDED.email, display_name = EXCLUDED.display_name`,
		rec.UID, rec.Email, rec.DisplayName)
	if err != nil {
		return fmt.Errorf("put identity %s: %w", rec.UID, err)
	}
	return nil
}

func (s *Store) ListPage(ctx context.Context, pageSize int, pageToken string) (*domain.IdentityPage, error) {
	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	rows, err := s.pool.Query(ctx, `
		SELECT uid, COALESCE(email, ''), COALESCE(display_name, '')
		FROM identities
		WHERE uid > $1
		ORDER BY uid
		LIMIT $2`, pageToken, pageSize+1)
	if err != nil {
		return nil, fmt.Errorf("list identities: %w", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.IdentityRecord, error) {
		var rec domain.IdentityRecord
		err := row.Scan(&rec.UID, &rec.Email, &rec.DisplayName)
		return rec, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan identities: %w", err)
	}

	page := &domain.IdentityPage{Records: records}
	if len(records) > pageSize {
		page.Records = records[:pageSize]
		page.NextPageToken = records[pageSize-1].UID
	}
	return page, nil
}

func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	p, prefix := subtreeArgs(path)
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rtdb_nodes WHERE `+subtreeFilter+`)`, p, prefix).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", p, err)
	}
	return exists, nil
}

func (s *Store) Read(ctx context.Context, path string, dst any) (bool, error) {
	p, prefix := subtreeArgs(path)
	rows, err := s.pool.Query(ctx,
		`SELECT path, value FROM rtdb_nodes WHERE `+subtreeFilter+` ORDER BY path`, p, prefix)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", p, err)
	}
	leaves, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (leaf, error) {
		var l leaf
		err := row.Scan(&l.Path, &l.Value)
		return l, err
	})
	if err != nil {
		return false, fmt.Errorf("scan %s: %w", p, err)
	}
	if len(leaves) == 0 {
		return false, nil
	}

	value, err := unflatten(p, leaves)
	if err != nil {
		return false, err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", p, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", p, err)
	}
	return true, nil
}

// Write replaces the subtree at path in one transaction. Scalar leaves at
// ancestor paths are dropped, since a node cannot be both a value and a parent.
func (s *Store) Write(ctx context.Context, path string, value any) error {
	p, prefix := subtreeArgs(path)
	leaves, err := flatten(p, value)
	if err != nil {
		return err
	}

	paths := make([]string, len(leaves))
	values := make([]string, len(leaves))
	for i, l := range leaves {
		paths[i] = l.Path
		values[i] = string(l.Value)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM rtdb_nodes WHERE `+subtreeFilter, p, prefix); err != nil {
			return fmt.Errorf("clear %s: %w", p, err)
		}
		if anc := ancestors(p); len(anc) > 0 {
			if _, err := tx.Exec(ctx, `DELETE FROM rtdb_nodes WHERE path = ANY($1)`, anc); err != nil {
				return fmt.Errorf("clear ancestors of %s: %w", p, err)
			}
		}
		if len(leaves) == 0 {
			return nil
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO rtdb_nodes (path, value)
			SELECT p, v::jsonb FROM unnest($1::text[], $2::text[]) AS t(p, v)`,
			paths, values); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		return nil
	})
}

func (s *Store) Keys(ctx context.Context, path string) ([]string, bool, error) {
	p, prefix := subtreeArgs(path)
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT split_part(substr(path, char_length($1::text) + 1), '/', 1) AS key
		FROM rtdb_nodes
		WHERE starts_with(path, $1::text) AND path <> $1::text
		ORDER BY key`, prefix)
	if err != nil {
		return nil, false, fmt.Errorf("keys %s: %w", p, err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, false, fmt.Errorf("scan keys %s: %w", p, err)
	}
	if len(keys) > 0 {
		return keys, true, nil
	}
	exists, err := s.Exists(ctx, p)
	if err != nil {
		return nil, false, err
	}
	return nil, exists, nil
}

func (s *Store) Remove(ctx context.Context, path string) error {
	p, prefix := subtreeArgs(path)
	if _, err := s.pool.Exec(ctx, `DELETE FROM rtdb_nodes WHERE `+subtreeFilter, p, prefix); err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

func subtreeArgs(path string) (p, prefix string) {
	p = domain.CleanPath(path)
	if p == "" {
		return "", ""
	}
	return p, p + "/"
}
