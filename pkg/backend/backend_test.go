package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largeimage/pkg/blockstore"
	"largeimage/pkg/blockstore/compress"
	"largeimage/pkg/config"
)

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	for _, backend := range []string{config.BackendMemory, config.BackendFS, config.BackendMmap, config.BackendBadger} {
		t.Run(backend, func(t *testing.T) {
			cfg := config.DefaultConfig().Storage
			cfg.Backend = backend
			cfg.Path = filepath.Join(t.TempDir(), "units")

			s, err := Open(ctx, cfg)
			require.NoError(t, err)

			key := blockstore.UnitKey("img", 0)
			require.NoError(t, s.WriteUnit(ctx, key, []byte{1, 2, 3}))
			got, err := s.ReadUnit(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3}, got)

			require.NoError(t, s.Close())
			if backend != config.BackendMemory {
				_, err := os.Stat(cfg.Path)
				assert.True(t, os.IsNotExist(err), "expected %s to be cleaned up, got %v", cfg.Path, err)
			}
		})
	}
}

func TestOpen_Compression(t *testing.T) {
	cfg := config.DefaultConfig().Storage
	cfg.Compression = "zstd"
	cfg.CompressionLevel = "better"

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	_, ok := s.(*compress.Store)
	assert.True(t, ok, "expected a compressing store, got %T", s)
}

func TestOpen_UnknownBackend(t *testing.T) {
	cfg := config.DefaultConfig().Storage
	cfg.Backend = "tape"

	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
