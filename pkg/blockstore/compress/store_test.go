package compress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"largeimage/pkg/blockstore"
	"largeimage/pkg/blockstore/memory"
	"largeimage/pkg/blockstore/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) blockstore.Store {
		s, err := New(memory.New(), "")
		require.NoError(t, err)
		return s
	})
}

func TestStore_CompressesUniformUnits(t *testing.T) {
	ctx := context.Background()
	inner := memory.New()
	s, err := New(inner, "fastest")
	require.NoError(t, err)
	defer s.Close()

	unit := make([]byte, 1<<16)
	require.NoError(t, s.WriteUnit(ctx, blockstore.UnitKey("img", 0), unit))

	assert.Less(t, inner.TotalSize(), int64(len(unit)/10))
	assert.Less(t, s.Ratio(), 0.1)

	got, err := s.ReadUnit(ctx, blockstore.UnitKey("img", 0))
	require.NoError(t, err)
	assert.Equal(t, unit, got)
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New(memory.New(), "ludicrous")
	assert.Error(t, err)
}

func TestStore_CloseReleasesCodec(t *testing.T) {
	ctx := context.Background()
	s, err := New(memory.New(), "")
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	err = s.WriteUnit(ctx, blockstore.UnitKey("img", 0), make([]byte, 64))
	assert.ErrorIs(t, err, blockstore.ErrStoreClosed)
	_, err = s.ReadUnit(ctx, blockstore.UnitKey("img", 0))
	assert.ErrorIs(t, err, blockstore.ErrStoreClosed)
	assert.Equal(t, 1.0, s.Ratio())
}
