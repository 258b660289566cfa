// Package recent keeps the most-recently-searched country names.
//
// The list holds at most MaxEntries names, never two that differ only in
// case, most recent first. It is loaded from a kv.Store once and written
// back after every change. Storage failures never fail a caller: the list in
// memory stays authoritative for the session and the failure comes back as a
// *StorageError warning.
package recent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"countrycard/internal/kv"

	"go.uber.org/zap"
)

const (
	DefaultKey = "countrySearchHistory"
	MaxEntries = 5
)

type List []string

// StorageError is a non-fatal persistence failure.
type StorageError struct {
	Op  string // "read" | "write" | "remove"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("recent searches %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is safe for concurrent use. While the persisted value cannot be
// read, writes are held back so the stored history is never replaced by a
// session-only list.
type Store struct {
	mu         sync.Mutex
	kv         kv.Store
	key        string
	items      List
	loaded     bool
	readFailed bool
	logger     *zap.Logger
}

// NewStore returns a store persisting under key (DefaultKey when empty).
func NewStore(backend kv.Store, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: backend, key: key, logger: logger}
}

// Load returns the current list, reading storage on first use. Missing,
// unreadable or corrupt stored values yield an empty list.
func (s *Store) Load(ctx context.Context) List {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return clone(s.items)
}

// At returns the i-th (0-based) entry of the current list.
func (s *Store) At(ctx context.Context, i int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	if i < 0 || i >= len(s.items) {
		return "", false
	}
	return s.items[i], true
}

// RecordSearch moves name to the front of the list, persists it and
// returns the new list. The returned list is valid even when err is
// non-nil; err is then a *StorageError and only a warning.
func (s *Store) RecordSearch(ctx context.Context, name string) (List, error) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)

	if name == "" {
		return clone(s.items), nil
	}

	if err := s.recoverLocked(ctx); err != nil {
		s.items = push(s.items, name, MaxEntries)
		return clone(s.items), err
	}

	s.items = push(s.items, name, MaxEntries)
	return clone(s.items), s.saveLocked(ctx)
}

// Clear empties the list and deletes the persisted value. A returned error
// is a *StorageError; the in-memory list is empty either way.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.loaded = true
	s.readFailed = false

	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.logger.Warn("failed to clear recent searches", zap.String("key", s.key), zap.Error(err))
		return &StorageError{Op: "remove", Key: s.key, Err: err}
	}
	return nil
}

func (s *Store) loadLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	stored, err := s.readLocked(ctx)
	if err != nil {
		s.readFailed = true
		s.logger.Warn("failed to read recent searches, starting empty",
			zap.String("key", s.key), zap.Error(err))
		return
	}
	s.items = stored
}

// recoverLocked retries a failed read and merges the stored names under the
// ones searched this session. While the read keeps failing it returns a
// read *StorageError and nothing may be written.
func (s *Store) recoverLocked(ctx context.Context) error {
	if !s.readFailed {
		return nil
	}
	stored, err := s.readLocked(ctx)
	if err != nil {
		s.logger.Warn("recent searches still unreadable, not overwriting them",
			zap.String("key", s.key), zap.Error(err))
		return &StorageError{Op: "read", Key: s.key, Err: err}
	}
	s.readFailed = false
	s.items = normalize(append(clone(s.items), stored...), MaxEntries)
	return nil
}

// readLocked returns the persisted list. Absent and corrupt values are an
// empty list; only a storage failure is an error.
func (s *Store) readLocked(ctx context.Context) (List, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Warn("ignoring corrupt recent searches",
			zap.String("key", s.key), zap.Error(err))
		return nil, nil
	}
	return normalize(stored, MaxEntries), nil
}

func (s *Store) saveLocked(ctx context.Context) error {
	b, err := json.Marshal(s.items)
	if err != nil {
		return &StorageError{Op: "write", Key: s.key, Err: err}
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		s.logger.Warn("failed to persist recent searches, keeping them for this session only",
			zap.String("key", s.key), zap.Error(err))
		return &StorageError{Op: "write", Key: s.key, Err: err}
	}
	return nil
}

// push returns list with name moved (or added) to the front, dropping any
// entry equal to it ignoring case, truncated to limit.
func push(list List, name string, limit int) List {
	out := make(List, 0, len(list)+1)
	out = append(out, name)
	for _, n := range list {
		if strings.EqualFold(n, name) {
			continue
		}
		out = append(out, n)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// normalize repairs a list read from storage: blanks and case-insensitive
// duplicates are dropped (first occurrence wins) and it is cut to limit.
func normalize(in []string, limit int) List {
	out := make(List, 0, len(in))
	for _, n := range in {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		dup := false
		for _, seen := range out {
			if strings.EqualFold(seen, n) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out
}

func clone(l List) List {
	if len(l) == 0 {
		return List{}
	}
	return append(List(nil), l...)
}
