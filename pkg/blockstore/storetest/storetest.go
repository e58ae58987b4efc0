// Package storetest holds the behaviour every blockstore.Store backend must
// share. Backend packages call Run from their own tests.
package storetest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largeimage/pkg/blockstore"
)

// Factory creates an empty store for one sub-test.
type Factory func(t *testing.T) blockstore.Store

// Run executes the conformance suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("WriteAndRead", func(t *testing.T) { testWriteAndRead(t, newStore(t)) })
	t.Run("ReadMissing", func(t *testing.T) { testReadMissing(t, newStore(t)) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, newStore(t)) })
	t.Run("CallerOwnsBuffers", func(t *testing.T) { testCallerOwnsBuffers(t, newStore(t)) })
	t.Run("DeleteUnit", func(t *testing.T) { testDeleteUnit(t, newStore(t)) })
	t.Run("Prefixes", func(t *testing.T) { testPrefixes(t, newStore(t)) })
	t.Run("Concurrent", func(t *testing.T) { testConcurrent(t, newStore(t)) })
	t.Run("Closed", func(t *testing.T) { testClosed(t, newStore(t)) })
}

func testWriteAndRead(t *testing.T, s blockstore.Store) {
	defer s.Close()
	ctx := context.Background()

	data := []byte("unit payload")
	require.NoError(t, s.WriteUnit(ctx, blockstore.UnitKey("img", 0), data))

	got, err := s.ReadUnit(ctx, blockstore.UnitKey("img", 0))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.NoError(t, s.HealthCheck(ctx))
}

func testReadMissing(t *testing.T, s blockstore.Store) {
	defer s.Close()

	_, err := s.ReadUnit(context.Background(), blockstore.UnitKey("img", 9))
	assert.True(t, errors.Is(err, blockstore.ErrUnitNotFound), "got %v", err)
}

func testOverwrite(t *testing.T, s blockstore.Store) {
	defer s.Close()
	ctx := context.Background()
	key := blockstore.UnitKey("img", 1)

	require.NoError(t, s.WriteUnit(ctx, key, []byte("short")))
	long := bytes.Repeat([]byte{0xab}, 10000)
	require.NoError(t, s.WriteUnit(ctx, key, long))

	got, err := s.ReadUnit(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, long, got)

	require.NoError(t, s.WriteUnit(ctx, key, []byte("tiny")))
	got, err = s.ReadUnit(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("tiny"), got)
}

func testCallerOwnsBuffers(t *testing.T, s blockstore.Store) {
	defer s.Close()
	ctx := context.Background()
	key := blockstore.UnitKey("img", 2)

	data := []byte{1, 2, 3, 4}
	require.NoError(t, s.WriteUnit(ctx, key, data))
	data[0] = 99

	got, err := s.ReadUnit(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, got)

	got[1] = 99
	again, err := s.ReadUnit(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, again)
}

func testDeleteUnit(t *testing.T, s blockstore.Store) {
	defer s.Close()
	ctx := context.Background()
	key := blockstore.UnitKey("img", 3)

	require.NoError(t, s.WriteUnit(ctx, key, []byte("x")))
	require.NoError(t, s.DeleteUnit(ctx, key))
	require.NoError(t, s.DeleteUnit(ctx, key))

	_, err := s.ReadUnit(ctx, key)
	assert.True(t, errors.Is(err, blockstore.ErrUnitNotFound), "got %v", err)
}

func testPrefixes(t *testing.T, s blockstore.Store) {
	defer s.Close()
	ctx := context.Background()

	for n := int64(0); n < 3; n++ {
		require.NoError(t, s.WriteUnit(ctx, blockstore.UnitKey("a", n), []byte{byte(n)}))
		require.NoError(t, s.WriteUnit(ctx, blockstore.UnitKey("b", n), []byte{byte(n)}))
	}

	keys, err := s.ListByPrefix(ctx, blockstore.ImagePrefix("a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a/unit-0", "a/unit-1", "a/unit-2"}, keys)

	require.NoError(t, s.DeleteByPrefix(ctx, blockstore.ImagePrefix("a")))

	keys, err = s.ListByPrefix(ctx, blockstore.ImagePrefix("a"))
	require.NoError(t, err)
	assert.Empty(t, keys)

	keys, err = s.ListByPrefix(ctx, blockstore.ImagePrefix("b"))
	require.NoError(t, err)
	assert.Len(t, keys, 3)
}

func testConcurrent(t *testing.T, s blockstore.Store) {
	defer s.Close()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			prefix := fmt.Sprintf("w%d", w)
			for n := int64(0); n < 10; n++ {
				data := bytes.Repeat([]byte{byte(w)}, 100+int(n))
				if err := s.WriteUnit(ctx, blockstore.UnitKey(prefix, n), data); err != nil {
					errs <- err
					return
				}
				got, err := s.ReadUnit(ctx, blockstore.UnitKey(prefix, n))
				if err != nil {
					errs <- err
					return
				}
				if !bytes.Equal(got, data) {
					errs <- fmt.Errorf("worker %d unit %d: mismatched data", w, n)
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func testClosed(t *testing.T, s blockstore.Store) {
	ctx := context.Background()
	require.NoError(t, s.Close())

	err := s.WriteUnit(ctx, blockstore.UnitKey("img", 0), []byte("x"))
	assert.True(t, errors.Is(err, blockstore.ErrStoreClosed), "got %v", err)

	_, err = s.ReadUnit(ctx, blockstore.UnitKey("img", 0))
	assert.True(t, errors.Is(err, blockstore.ErrStoreClosed), "got %v", err)
}
