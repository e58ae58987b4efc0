// Package backend builds the block store described by a storage
// configuration.
package backend

import (
	"context"
	"fmt"

	"largeimage/internal/logger"
	"largeimage/pkg/blockstore"
	"largeimage/pkg/blockstore/badger"
	"largeimage/pkg/blockstore/compress"
	"largeimage/pkg/blockstore/fs"
	"largeimage/pkg/blockstore/memory"
	"largeimage/pkg/blockstore/mmap"
	"largeimage/pkg/blockstore/s3"
	"largeimage/pkg/config"
)

// Open creates the configured block store and checks that it is usable.
func Open(ctx context.Context, cfg config.Storage) (blockstore.Store, error) {
	store, err := open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}

	if cfg.Compression == "zstd" {
		wrapped, err := compress.New(store, cfg.CompressionLevel)
		if err != nil {
			store.Close()
			return nil, err
		}
		store = wrapped
	}

	if err := store.HealthCheck(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("%s backend unhealthy: %w", cfg.Backend, err)
	}

	logger.Info("block store ready",
		logger.KeyBackend, cfg.Backend,
		logger.KeyPath, cfg.Path,
		"compression", cfg.Compression)
	return store, nil
}

func open(ctx context.Context, cfg config.Storage) (blockstore.Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return memory.New(), nil

	case config.BackendFS:
		s, err := fs.New(fs.Config{Root: cfg.Path, KeepFiles: cfg.KeepFiles})
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendMmap:
		s, err := mmap.New(mmap.Config{Path: cfg.Path, RemoveOnClose: !cfg.KeepFiles})
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendBadger:
		s, err := badger.New(badger.Config{Path: cfg.Path, RemoveOnClose: !cfg.KeepFiles})
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendS3:
		s, err := s3.New(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}
