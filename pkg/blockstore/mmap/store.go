//go:build unix

// Package mmap stores units in a single memory-mapped scratch file.
//
// Units are laid out back to back in the file. Rewriting a unit with data no
// longer than its first write reuses its extent in place, which is the steady
// state for paged images since every unit of an image encodes to the same
// size. The file grows by doubling and the OS pages it in and out, so the
// Go heap only ever holds the resident unit.
//
// The index of extents lives in memory only: the file is scratch space for
// the lifetime of the store and is not reopened after a restart.
package mmap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"largeimage/pkg/blockstore"
)

const (
	// DefaultInitialSize is the initial file size (64MB), sparse on most
	// filesystems.
	DefaultInitialSize = 64 * 1024 * 1024

	growthFactor = 2
)

// extent locates one unit inside the mapped file.
type extent struct {
	off      int64
	length   int64
	capacity int64
}

// Store is a memory-mapped implementation of blockstore.Store.
type Store struct {
	mu      sync.RWMutex
	path    string
	file    *os.File
	data    []byte
	size    int64
	next    int64
	extents map[string]extent
	closed  bool
	remove  bool
}

// Config holds configuration for the mmap store.
type Config struct {
	// Path is the backing file. Its directory is created if needed.
	Path string

	// InitialSize is the initial mapping size in bytes.
	// Default: DefaultInitialSize
	InitialSize int64

	// RemoveOnClose deletes the backing file on Close.
	RemoveOnClose bool
}

// New creates the backing file at cfg.Path, truncating any previous content,
// and maps it.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("mmap: path is required")
	}
	size := cfg.InitialSize
	if size <= 0 {
		size = DefaultInitialSize
	}
	size = roundToPage(size)

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("mmap: create directory: %w", err)
	}

	f, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("mmap: create file: %w", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: truncate file: %w", err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: %w", err)
	}

	return &Store{
		path:    cfg.Path,
		file:    f,
		data:    data,
		size:    size,
		extents: make(map[string]extent),
		remove:  cfg.RemoveOnClose,
	}, nil
}

func roundToPage(n int64) int64 {
	page := int64(os.Getpagesize())
	return (n + page - 1) / page * page
}

// errMappingLost is returned once a failed growth could not restore the
// previous mapping.
var errMappingLost = errors.New("mmap: mapping lost after a failed growth")

// grow remaps the file so that it holds at least need bytes. On failure the
// previous mapping stays usable.
func (s *Store) grow(need int64) error {
	newSize := s.size
	for newSize < need {
		newSize *= growthFactor
	}
	newSize = roundToPage(newSize)

	if err := s.file.Truncate(newSize); err != nil {
		return fmt.Errorf("mmap: grow file to %d: %w", newSize, err)
	}

	if err := unix.Munmap(s.data); err != nil {
		return fmt.Errorf("mmap: unmap for growth: %w", err)
	}
	s.data = nil

	data, err := unix.Mmap(int(s.file.Fd()), 0, int(newSize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		if old, rerr := unix.Mmap(int(s.file.Fd()), 0, int(s.size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED); rerr == nil {
			s.data = old
		}
		return fmt.Errorf("mmap: remap at %d bytes: %w", newSize, err)
	}
	s.data = data
	s.size = newSize
	return nil
}

// usable reports why the mapping cannot serve reads and writes, if it cannot.
// Callers hold s.mu.
func (s *Store) usable() error {
	if s.closed {
		return blockstore.ErrStoreClosed
	}
	if s.data == nil {
		return errMappingLost
	}
	return nil
}

// WriteUnit copies data into the unit's extent, allocating a new extent at
// the end of the file when the old one is too small.
func (s *Store) WriteUnit(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return err
	}

	n := int64(len(data))
	ext, ok := s.extents[key]
	if !ok || ext.capacity < n {
		if s.next+n > s.size {
			if err := s.grow(s.next + n); err != nil {
				return err
			}
		}
		ext = extent{off: s.next, capacity: n}
		s.next += n
	}

	copy(s.data[ext.off:ext.off+n], data)
	ext.length = n
	s.extents[key] = ext
	return nil
}

// ReadUnit copies the unit out of the mapping.
func (s *Store) ReadUnit(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.usable(); err != nil {
		return nil, err
	}

	ext, ok := s.extents[key]
	if !ok {
		return nil, blockstore.ErrUnitNotFound
	}

	out := make([]byte, ext.length)
	copy(out, s.data[ext.off:ext.off+ext.length])
	return out, nil
}

// DeleteUnit forgets key. Its extent is not reused.
func (s *Store) DeleteUnit(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	delete(s.extents, key)
	return nil
}

// DeleteByPrefix forgets every key with the given prefix.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	for key := range s.extents {
		if strings.HasPrefix(key, prefix) {
			delete(s.extents, key)
		}
	}
	if len(s.extents) == 0 {
		s.next = 0
	}
	return nil
}

// ListByPrefix lists all keys with a given prefix.
func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blockstore.ErrStoreClosed
	}

	var keys []string
	for key := range s.extents {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Sync flushes dirty pages of the mapping to the backing file.
func (s *Store) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return err
	}
	return unix.Msync(s.data, unix.MS_SYNC)
}

// Size returns the current size of the backing file in bytes.
func (s *Store) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.size
}

// Close unmaps and closes the backing file, removing it when configured.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.extents = nil

	var errs []error
	if s.data != nil {
		if err := unix.Munmap(s.data); err != nil {
			errs = append(errs, fmt.Errorf("mmap: unmap: %w", err))
		}
		s.data = nil
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("mmap: close file: %w", err))
	}
	if s.remove {
		if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("mmap: remove file: %w", err))
		}
	}
	return errors.Join(errs...)
}

// HealthCheck reports whether the mapping is still open.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.usable()
}

var _ blockstore.Store = (*Store)(nil)
