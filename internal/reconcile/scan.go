package reconcile

import (
	"context"
	"fmt"
	"iter"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
	apperrors "github.com/sungjintrb/rtdb-admin/internal/pkg/errors"
)

// Identities walks the directory page by page, following continuation tokens
// until the listing is exhausted. The sequence is lazy and forward-only: each
// page is fetched when the previous one has been consumed, and ranging over it
// twice starts a new scan. A failed page fetch yields a SCAN_FAILED error and ends
// the sequence.
func Identities(ctx context.Context, dir domain.IdentityDirectory, pageSize int) iter.Seq2[domain.IdentityRecord, error] {
	return func(yield func(domain.IdentityRecord, error) bool) {
		token := ""
		for {
			page, err := dir.ListPage(ctx, pageSize, token)
			if err != nil {
				yield(domain.IdentityRecord{}, apperrors.ScanFailed(err, token))
				return
			}
			for _, rec := range page.Records {
				if !yield(rec, nil) {
					return
				}
			}
			if page.NextPageToken == "" {
				return
			}
			if page.NextPageToken == token {
				yield(domain.IdentityRecord{}, apperrors.ScanFailed(
					fmt.Errorf("directory returned page token %q twice", token), token))
				return
			}
			token = page.NextPageToken
		}
	}
}
