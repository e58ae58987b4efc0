// Package memory keeps persisted units in the Go heap. It is the default
// store of an image created without WithStore, and the reference backend
// for tests.
package memory

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"largeimage/pkg/blockstore"
)

// Store maps unit keys to private copies of their encoded bytes.
type Store struct {
	mu     sync.RWMutex
	units  map[string][]byte
	closed bool
}

func New() *Store {
	return &Store{units: make(map[string][]byte)}
}

// WriteUnit stores a copy of data. Same-size rewrites, the steady state of a
// paged image, reuse the previous buffer.
func (s *Store) WriteUnit(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}
	if buf, ok := s.units[key]; ok && len(buf) == len(data) {
		copy(buf, data)
		return nil
	}
	s.units[key] = bytes.Clone(data)
	return nil
}

// ReadUnit returns a copy the caller may modify.
func (s *Store) ReadUnit(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blockstore.ErrStoreClosed
	}
	buf, ok := s.units[key]
	if !ok {
		return nil, blockstore.ErrUnitNotFound
	}
	return bytes.Clone(buf), nil
}

func (s *Store) DeleteUnit(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}
	delete(s.units, key)
	return nil
}

func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}
	maps.DeleteFunc(s.units, func(key string, _ []byte) bool {
		return strings.HasPrefix(key, prefix)
	})
	return nil
}

func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blockstore.ErrStoreClosed
	}
	keys := slices.DeleteFunc(slices.Sorted(maps.Keys(s.units)), func(key string) bool {
		return !strings.HasPrefix(key, prefix)
	})
	if len(keys) == 0 {
		return nil, nil
	}
	return keys, nil
}

// Close drops every unit.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.units = nil
	return nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}
	return nil
}

// UnitCount returns the number of stored units.
func (s *Store) UnitCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.units)
}

// TotalSize returns the bytes held by all units.
func (s *Store) TotalSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, buf := range s.units {
		total += int64(len(buf))
	}
	return total
}

var _ blockstore.Store = (*Store)(nil)
