// Package badger persists units in an embedded BadgerDB key-value store.
//
// Keys are the unit keys verbatim. BadgerDB keeps small values in its LSM
// tree and large ones in the value log, so units of any size are accepted.
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"

	"largeimage/internal/logger"
	"largeimage/pkg/blockstore"
)

// Config holds configuration for the BadgerDB store.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the whole database in RAM.
	InMemory bool

	// SyncWrites makes every write durable before it returns.
	SyncWrites bool

	// RemoveOnClose deletes Path after the database is closed.
	RemoveOnClose bool
}

// Store is a BadgerDB implementation of blockstore.Store.
type Store struct {
	db     *badgerdb.DB
	path   string
	remove bool

	mu     sync.RWMutex
	closed bool
}

// New opens (or creates) the database described by cfg.
func New(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badger: path is required unless in-memory")
	}

	opts := badgerdb.DefaultOptions(cfg.Path).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(badgerLogger{})
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open %q: %w", cfg.Path, err)
	}

	return &Store{
		db:     db,
		path:   cfg.Path,
		remove: cfg.RemoveOnClose && !cfg.InMemory,
	}, nil
}

// WriteUnit stores data under key in its own transaction.
func (s *Store) WriteUnit(ctx context.Context, key string, data []byte) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	// Badger keeps the value slice until the transaction commits.
	value := make([]byte, len(data))
	copy(value, data)

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("badger: write %s: %w", key, err)
	}
	return nil
}

// ReadUnit returns a copy of the value stored under key.
func (s *Store) ReadUnit(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blockstore.ErrStoreClosed
	}

	var data []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badgerdb.ErrKeyNotFound {
		return nil, blockstore.ErrUnitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("badger: read %s: %w", key, err)
	}
	return data, nil
}

// DeleteUnit removes key.
func (s *Store) DeleteUnit(ctx context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger: delete %s: %w", key, err)
	}
	return nil
}

// DeleteByPrefix drops every key starting with prefix.
func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	if err := s.db.DropPrefix([]byte(prefix)); err != nil {
		return fmt.Errorf("badger: drop prefix %q: %w", prefix, err)
	}
	return nil
}

// ListByPrefix returns the keys starting with prefix. Badger iterates in key
// order, so the result is already sorted.
func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, blockstore.ErrStoreClosed
	}

	var keys []string
	err := s.db.View(func(txn *badgerdb.Txn) error {
		p := []byte(prefix)
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = p
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: list %q: %w", prefix, err)
	}
	return keys, nil
}

// Close closes the database and removes its directory when configured.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("badger: close: %w", err)
	}
	if s.remove {
		if err := os.RemoveAll(s.path); err != nil {
			return fmt.Errorf("badger: remove %s: %w", s.path, err)
		}
	}
	return nil
}

// HealthCheck starts a read transaction to verify the database is usable.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return blockstore.ErrStoreClosed
	}

	err := s.db.View(func(txn *badgerdb.Txn) error {
		return nil
	})
	if err != nil {
		return fmt.Errorf("badger: healthcheck failed: %w", err)
	}
	return nil
}

var _ blockstore.Store = (*Store)(nil)

// badgerLogger routes BadgerDB's internal messages through the package
// logger. Badger is chatty at INFO, so its INFO becomes our DEBUG.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...any) {
	logger.Error(fmt.Sprintf(format, args...), logger.KeyBackend, "badger")
}

func (badgerLogger) Warningf(format string, args ...any) {
	logger.Warn(fmt.Sprintf(format, args...), logger.KeyBackend, "badger")
}

func (badgerLogger) Infof(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...), logger.KeyBackend, "badger")
}

func (badgerLogger) Debugf(format string, args ...any) {
	logger.Debug(fmt.Sprintf(format, args...), logger.KeyBackend, "badger")
}
