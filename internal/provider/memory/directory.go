package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

// Directory is an in-memory identity directory with offset page tokens.
type Directory struct {
	mu       sync.RWMutex
	records  []domain.IdentityRecord
	pages    int
	failPage func(pageToken string) error
}

var _ domain.IdentityDirectory = (*Directory)(nil)

// NewDirectory creates a Directory listing records in the given order.
func NewDirectory(records ...domain.IdentityRecord) *Directory {
	return &Directory{records: append([]domain.IdentityRecord(nil), records...)}
}

// Add appends records to the end of the listing.
func (d *Directory) Add(records ...domain.IdentityRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.records = append(d.records, records...)
}

// FailPages makes ListPage return the hook's error for matching page tokens.
func (d *Directory) FailPages(hook func(pageToken string) error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failPage = hook
}

// PageCount returns how many pages were served.
func (d *Directory) PageCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.pages
}

func (d *Directory) ListPage(_ context.Context, pageSize int, pageToken string) (*domain.IdentityPage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pageSize < 1 {
		return nil, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if d.failPage != nil {
		if err := d.failPage(pageToken); err != nil {
			return nil, err
		}
	}

	offset := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil || n < 0 || n > len(d.records) {
			return nil, fmt.Errorf("invalid page token %q", pageToken)
		}
		offset = n
	}

	end := min(offset+pageSize, len(d.records))
	page := &domain.IdentityPage{
		Records: append([]domain.IdentityRecord(nil), d.records[offset:end]...),
	}
	if end < len(d.records) {
		page.NextPageToken = strconv.Itoa(end)
	}
	d.pages++
	return page, nil
}
