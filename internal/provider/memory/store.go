// Package memory provides in-process implementations of the backend capabilities.
//
// It keeps the same hierarchical semantics as the hosted database (writes replace
// whole subtrees, nil removes) and exposes failure hooks so callers can exercise
// partial-write and scan-failure paths without a network.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/sungjintrb/rtdb-admin/internal/domain"
)

// Store is an in-memory hierarchical key-value store.
type Store struct {
	mu        sync.RWMutex
	root      map[string]any
	writes    []string
	reads     int
	failWrite func(path string) error
	failRead  func(path string) error
}

var _ domain.Store = (*Store)(nil)

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{root: make(map[string]any)}
}

// FailWrites makes Write return the hook's error for matching paths.
// A nil hook clears the failure.
func (s *Store) FailWrites(hook func(path string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrite = hook
}

// FailReads makes Exists and Read return the hook's error for matching paths.
func (s *Store) FailReads(hook func(path string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRead = hook
}

// Writes returns the paths of all successful writes, in order.
func (s *Store) Writes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.writes...)
}

// ReadCount returns the number of point reads served (Exists and Read).
func (s *Store) ReadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reads
}

// Seed writes value at path without recording it as a write.
func (s *Store) Seed(path string, value any) error {
	norm, err := normalize(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(domain.SplitPath(path), norm)
}

func (s *Store) Exists(_ context.Context, path string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readHook(path); err != nil {
		return false, err
	}
	return s.get(domain.SplitPath(path)) != nil, nil
}

func (s *Store) Read(_ context.Context, path string, dst any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.readHook(path); err != nil {
		return false, err
	}
	node := s.get(domain.SplitPath(path))
	if node == nil {
		return false, nil
	}
	data, err := json.Marshal(node)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return true, nil
}

func (s *Store) Write(_ context.Context, path string, value any) error {
	norm, err := normalize(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrite != nil {
		if err := s.failWrite(domain.CleanPath(path)); err != nil {
			return err
		}
	}
	if err := s.set(domain.SplitPath(path), norm); err != nil {
		return err
	}
	s.writes = append(s.writes, domain.CleanPath(path))
	return nil
}

func (s *Store) Keys(_ context.Context, path string) ([]string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node := s.get(domain.SplitPath(path))
	if node == nil {
		return nil, false, nil
	}
	m, ok := node.(map[string]any)
	if !ok {
		return nil, true, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, true, nil
}

func (s *Store) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(domain.SplitPath(path), nil)
}

func (s *Store) readHook(path string) error {
	s.reads++
	if s.failRead == nil {
		return nil
	}
	return s.failRead(domain.CleanPath(path))
}

func (s *Store) get(segs []string) any {
	var node any = s.root
	for _, seg := range segs {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node = m[seg]
	}
	if m, ok := node.(map[string]any); ok && len(segs) == 0 && len(m) == 0 {
		return nil
	}
	return node
}

// set replaces the node at segs; a nil value deletes it.
func (s *Store) set(segs []string, value any) error {
	if len(segs) == 0 {
		switch v := value.(type) {
		case nil:
			s.root = make(map[string]any)
		case map[string]any:
			s.root = v
		default:
			return fmt.Errorf("cannot store a scalar at the database root")
		}
		return nil
	}
	parent := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := parent[seg].(map[string]any)
		if !ok {
			if value == nil {
				return nil
			}
			child = make(map[string]any)
			parent[seg] = child
		}
		parent = child
	}
	last := segs[len(segs)-1]
	if value == nil {
		delete(parent, last)
		return nil
	}
	parent[last] = value
	return nil
}

// normalize converts value to the generic JSON shape (maps, slices, float64, ...).
func normalize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return out, nil
}
