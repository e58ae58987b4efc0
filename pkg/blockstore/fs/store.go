// Package fs persists units as files below a root directory.
//
// A unit key "prefix/unit-n" becomes the file root/prefix/unit-n, so every
// image owns one directory and releasing an image removes that directory.
package fs

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"largeimage/pkg/blockstore"
)

// Config holds configuration for the filesystem store.
type Config struct {
	// Root is the directory units are written below. It is created if
	// missing.
	Root string

	// KeepFiles leaves Root in place on Close. By default the store treats
	// Root as scratch space and removes it.
	KeepFiles bool
}

// Store is a filesystem-backed implementation of blockstore.Store.
type Store struct {
	mu     sync.RWMutex
	root   string
	keep   bool
	closed bool
}

// New creates the root directory if needed and opens a store on it.
func New(cfg Config) (*Store, error) {
	if cfg.Root == "" {
		return nil, errors.New("fs: root directory is required")
	}
	root := filepath.Clean(cfg.Root)

	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("fs: create root: %w", err)
	}
	if err := checkDir(root); err != nil {
		return nil, err
	}
	return &Store{root: root, keep: cfg.KeepFiles}, nil
}

// NewWithPath opens a scratch store on root that is removed on Close.
func NewWithPath(root string) (*Store, error) {
	return New(Config{Root: root})
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("fs: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("fs: %s is not a directory", path)
	}
	return nil
}

func (s *Store) file(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

// isTemp reports whether name is an in-flight write.
func isTemp(name string) bool {
	return strings.HasPrefix(name, ".")
}

// WriteUnit writes data to a temporary file next to the unit and renames it
// into place, so readers never see a partial unit.
func (s *Store) WriteUnit(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	path := s.file(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("fs: write %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(dir, ".unit-*")
	if err != nil {
		return fmt.Errorf("fs: write %s: %w", key, err)
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), path)
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("fs: write %s: %w", key, err)
	}
	return nil
}

// ReadUnit returns the content of the unit file.
func (s *Store) ReadUnit(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blockstore.ErrStoreClosed
	}

	data, err := os.ReadFile(s.file(key))
	if errors.Is(err, iofs.ErrNotExist) {
		return nil, blockstore.ErrUnitNotFound
	}
	return data, err
}

// DeleteUnit removes the unit file, then its directory once empty.
func (s *Store) DeleteUnit(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}
	return s.remove(key)
}

func (s *Store) remove(key string) error {
	path := s.file(key)
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("fs: delete %s: %w", key, err)
	}
	if dir := filepath.Dir(path); dir != s.root {
		// Fails while other units remain.
		_ = os.Remove(dir)
	}
	return nil
}

// DeleteByPrefix removes every unit whose key starts with prefix. An image
// prefix ("name/") drops the whole directory at once.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	if strings.HasSuffix(prefix, "/") {
		if err := os.RemoveAll(s.file(prefix)); err != nil {
			return fmt.Errorf("fs: delete %s: %w", prefix, err)
		}
		return nil
	}

	keys, err := s.list(prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.remove(key); err != nil {
			return err
		}
	}
	return nil
}

// ListByPrefix returns the sorted keys of all unit files starting with prefix.
func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blockstore.ErrStoreClosed
	}
	return s.list(prefix)
}

func (s *Store) list(prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(s.root, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || isTemp(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		if key := filepath.ToSlash(rel); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fs: list %s: %w", prefix, err)
	}
	sort.Strings(keys)
	return keys, nil
}

// Close removes the root directory unless KeepFiles was set.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if s.keep {
		return nil
	}
	return os.RemoveAll(s.root)
}

// HealthCheck verifies the root directory is still there.
func (s *Store) HealthCheck(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}
	return checkDir(s.root)
}

var _ blockstore.Store = (*Store)(nil)
