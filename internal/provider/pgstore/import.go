package pgstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

// authExport is the JSON layout written by `firebase auth:export --format=JSON`.
type authExport struct {
	Users []struct {
		LocalID     string `json:"localId"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"users"`
}

// ParseAuthExport reads identity records from a Firebase auth export.
// Entries without a localId are rejected.
func ParseAuthExport(r io.Reader) ([]domain.IdentityRecord, error) {
	var export authExport
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decode auth export: %w", err)
	}
	records := make([]domain.IdentityRecord, 0, len(export.Users))
	for i, u := range export.Users {
		if u.LocalID == "" {
			return nil, fmt.Errorf("auth export entry %d has no localId", i)
		}
		records = append(records, domain.IdentityRecord{
			UID:         u.LocalID,
			Email:       u.Email,
			DisplayName: u.DisplayName,
		})
	}
	return records, nil
}

// ImportIdentities upserts records into the identities table and returns how many were written.
func (s *Store) ImportIdentities(ctx context.Context, records []domain.IdentityRecord) (int, error) {
	for i, rec := range records {
		if err := s.PutIdentity(ctx, rec); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
