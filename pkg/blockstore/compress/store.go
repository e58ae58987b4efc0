// Package compress wraps a blockstore.Store so units are zstd-compressed at
// rest.
//
// Freshly filled images compress to almost nothing, which makes this the
// cheapest way to page very large, mostly uniform images through a slow
// medium.
package compress

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/klauspost/compress/zstd"

	"largeimage/pkg/blockstore"
)

// Store compresses units on write and decompresses them on read.
type Store struct {
	inner blockstore.Store
	enc   *zstd.Encoder
	dec   *zstd.Decoder

	raw    atomic.Int64
	stored atomic.Int64
	closed atomic.Bool
}

// New wraps inner. Level is one of "fastest", "default", "better", "best";
// an empty string selects "default".
func New(inner blockstore.Store, level string) (*Store, error) {
	lvl := zstd.SpeedDefault
	if level != "" {
		ok, l := zstd.EncoderLevelFromString(level)
		if !ok {
			return nil, fmt.Errorf("compress: unknown zstd level %q", level)
		}
		lvl = l
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(lvl))
	if err != nil {
		return nil, fmt.Errorf("compress: create encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("compress: create decoder: %w", err)
	}

	return &Store{inner: inner, enc: enc, dec: dec}, nil
}

// WriteUnit compresses data and stores the frame in the inner store.
func (s *Store) WriteUnit(ctx context.Context, key string, data []byte) error {
	if s.closed.Load() {
		return blockstore.ErrStoreClosed
	}
	frame := s.enc.EncodeAll(data, make([]byte, 0, len(data)/4))
	s.raw.Add(int64(len(data)))
	s.stored.Add(int64(len(frame)))
	return s.inner.WriteUnit(ctx, key, frame)
}

// ReadUnit reads and decompresses the frame stored under key.
func (s *Store) ReadUnit(ctx context.Context, key string) ([]byte, error) {
	if s.closed.Load() {
		return nil, blockstore.ErrStoreClosed
	}
	frame, err := s.inner.ReadUnit(ctx, key)
	if err != nil {
		return nil, err
	}
	data, err := s.dec.DecodeAll(frame, nil)
	if err != nil {
		return nil, fmt.Errorf("compress: decode %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) DeleteUnit(ctx context.Context, key string) error {
	return s.inner.DeleteUnit(ctx, key)
}

func (s *Store) DeleteByPrefix(ctx context.Context, prefix string) error {
	return s.inner.DeleteByPrefix(ctx, prefix)
}

func (s *Store) ListByPrefix(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.ListByPrefix(ctx, prefix)
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.inner.HealthCheck(ctx)
}

// Close releases the encoder and decoder and closes the inner store.
// Closing twice is a no-op.
func (s *Store) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := s.enc.Close()
	s.dec.Close()
	return errors.Join(err, s.inner.Close())
}

// Ratio returns stored bytes over raw bytes for every write so far, or 1
// before the first write.
func (s *Store) Ratio() float64 {
	raw := s.raw.Load()
	if raw == 0 {
		return 1
	}
	return float64(s.stored.Load()) / float64(raw)
}

var _ blockstore.Store = (*Store)(nil)
