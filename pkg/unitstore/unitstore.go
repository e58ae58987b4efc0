// Package unitstore pages the units of one image through a blockstore.Store.
//
// A Store holds at most one unit in memory. Touching an index in another unit
// evicts the resident one (persisting it first if it was written to) and
// materializes the wanted unit, either by decoding it from the block store or,
// when the block store has never seen it, as a fresh zero-filled buffer.
//
// A Store is not safe for concurrent use. Read-only scans may run several
// Stores over the same block store in parallel.
package unitstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"largeimage/internal/logger"
	"largeimage/pkg/blockstore"
	"largeimage/pkg/codec"
	"largeimage/pkg/sizing"
)

// ErrReadOnly is returned by writes through a read-only Store.
var ErrReadOnly = errors.New("unit store is read-only")

// Config describes the image whose units a Store pages.
type Config struct {
	// Geometry partitions the image into units.
	Geometry sizing.Geometry

	// Blocks receives evicted units.
	Blocks blockstore.Store

	// Prefix identifies the image inside Blocks.
	Prefix string

	// Metrics is optional. nil disables collection.
	Metrics Metrics

	// ReadOnly stores never write to Blocks and leave persisted units in
	// place on Close.
	ReadOnly bool
}

// Store is a capacity-1 write-back cache of units of T.
type Store[T codec.Element] struct {
	geom     sizing.Geometry
	codec    codec.Codec[T]
	blocks   blockstore.Store
	prefix   string
	metrics  Metrics
	readOnly bool

	// buf holds the resident unit. It is allocated once at full capacity;
	// the final unit only uses its first LastLength elements.
	buf     []T
	unit    int64
	dirty   bool
	scratch []byte
}

// New creates an empty store.
func New[T codec.Element](cfg Config) (*Store[T], error) {
	if cfg.Blocks == nil {
		return nil, errors.New("unitstore: block store is required")
	}
	if cfg.Geometry.Count < 1 || cfg.Geometry.Capacity < 1 {
		return nil, fmt.Errorf("unitstore: invalid geometry %+v", cfg.Geometry)
	}
	return &Store[T]{
		geom:     cfg.Geometry,
		codec:    codec.For[T](),
		blocks:   cfg.Blocks,
		prefix:   cfg.Prefix,
		metrics:  cfg.Metrics,
		readOnly: cfg.ReadOnly,
		unit:     -1,
	}, nil
}

// Geometry returns the partition the store pages.
func (s *Store[T]) Geometry() sizing.Geometry { return s.geom }

// Prefix returns the key prefix of the image.
func (s *Store[T]) Prefix() string { return s.prefix }

// Resident reports which unit is in memory, if any, and whether it has
// unpersisted writes.
func (s *Store[T]) Resident() (unit int64, dirty bool, ok bool) {
	if s.unit < 0 {
		return -1, false, false
	}
	return s.unit, s.dirty, true
}

func (s *Store[T]) key(u int64) string {
	return blockstore.UnitKey(s.prefix, u)
}

func (s *Store[T]) unitOf(i int64) int64 {
	if i < 0 || i >= s.geom.Total {
		panic(fmt.Sprintf("unitstore: index %d out of range [0,%d)", i, s.geom.Total))
	}
	return s.geom.UnitOf(i)
}

// EnsureResident makes the unit holding index i resident.
func (s *Store[T]) EnsureResident(i int64) error {
	return s.materialize(s.unitOf(i), true)
}

// materialize makes unit u resident. With read false the unit's previous
// content is not fetched because the caller overwrites all of it.
func (s *Store[T]) materialize(u int64, read bool) error {
	if u == s.unit {
		return nil
	}

	if s.unit >= 0 {
		prev, dirty := s.unit, s.dirty
		if err := s.Flush(); err != nil {
			return err
		}
		s.unit = -1
		if s.metrics != nil {
			s.metrics.RecordEviction(dirty)
		}
		logger.Debug("unit evicted", logger.KeyImage, s.prefix, logger.KeyPrevious, prev, logger.KeyDirty, dirty)
	}

	if s.buf == nil {
		s.buf = make([]T, s.geom.Capacity)
	}
	n := s.geom.Length(u)

	if !read {
		s.unit = u
		s.dirty = false
		return nil
	}

	start := time.Now()
	data, err := s.blocks.ReadUnit(context.Background(), s.key(u))
	if errors.Is(err, blockstore.ErrUnitNotFound) {
		clear(s.buf[:n])
		s.unit = u
		s.dirty = false
		if s.metrics != nil {
			s.metrics.RecordFresh()
		}
		logger.Debug("unit materialized", logger.KeyImage, s.prefix, logger.KeyUnit, u, logger.KeyFresh, true)
		return nil
	}
	if err == nil {
		err = s.codec.Decode(s.buf[:n], data)
	}
	if s.metrics != nil {
		s.metrics.ObserveLoad(len(data), time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("unitstore: load unit %d: %w", u, err)
	}

	s.unit = u
	s.dirty = false
	logger.Debug("unit materialized", logger.KeyImage, s.prefix, logger.KeyUnit, u, logger.KeyFresh, false, logger.KeyBytes, len(data))
	return nil
}

// Read returns the element at index i.
func (s *Store[T]) Read(i int64) (T, error) {
	if err := s.EnsureResident(i); err != nil {
		var zero T
		return zero, err
	}
	return s.buf[s.geom.Offset(i)], nil
}

// Write stores v at index i.
func (s *Store[T]) Write(i int64, v T) error {
	if s.readOnly {
		return ErrReadOnly
	}
	if err := s.EnsureResident(i); err != nil {
		return err
	}
	s.buf[s.geom.Offset(i)] = v
	s.dirty = true
	return nil
}

// Flush persists the resident unit if it is dirty. On failure the unit stays
// resident and dirty.
func (s *Store[T]) Flush() error {
	if s.unit < 0 || !s.dirty {
		return nil
	}

	n := s.geom.Length(s.unit)
	size := s.codec.EncodedLen(n)
	if cap(s.scratch) < size {
		s.scratch = make([]byte, size)
	}
	s.scratch = s.scratch[:size]
	s.codec.Encode(s.scratch, s.buf[:n])

	start := time.Now()
	err := s.blocks.WriteUnit(context.Background(), s.key(s.unit), s.scratch)
	if s.metrics != nil {
		s.metrics.ObserveFlush(size, time.Since(start), err)
	}
	if err != nil {
		return fmt.Errorf("unitstore: flush unit %d: %w", s.unit, err)
	}

	s.dirty = false
	return nil
}

func (s *Store[T]) checkUnit(u int64) {
	if u < 0 || u >= s.geom.Count {
		panic(fmt.Sprintf("unitstore: unit %d out of range [0,%d)", u, s.geom.Count))
	}
}

// Unit makes unit u resident and returns its valid elements. The slice is
// only valid until the next call on the store and must not be modified.
func (s *Store[T]) Unit(u int64) ([]T, error) {
	s.checkUnit(u)
	if err := s.materialize(u, true); err != nil {
		return nil, err
	}
	return s.buf[:s.geom.Length(u)], nil
}

// MutableUnit is Unit with write access; the unit becomes dirty. With read
// false the previous content is not loaded and the returned elements are
// unspecified, for callers that overwrite all of them.
func (s *Store[T]) MutableUnit(u int64, read bool) ([]T, error) {
	if s.readOnly {
		return nil, ErrReadOnly
	}
	s.checkUnit(u)
	if err := s.materialize(u, read); err != nil {
		return nil, err
	}
	s.dirty = true
	return s.buf[:s.geom.Length(u)], nil
}

// Visit calls fn once per unit in increasing order with the unit's base index
// and its valid elements. fn must not retain or modify values.
func (s *Store[T]) Visit(fn func(base int64, values []T) error) error {
	return s.VisitUnits(0, s.geom.Count, fn)
}

// VisitUnits is Visit restricted to units [from, to).
func (s *Store[T]) VisitUnits(from, to int64, fn func(base int64, values []T) error) error {
	for u := from; u < to; u++ {
		values, err := s.Unit(u)
		if err != nil {
			return err
		}
		if err := fn(s.geom.Base(u), values); err != nil {
			return err
		}
	}
	return nil
}

// Update is Visit with write access. Every visited unit becomes dirty.
func (s *Store[T]) Update(fn func(base int64, values []T) error) error {
	return s.update(true, fn)
}

// Replace is Update for callers that overwrite every element: units are not
// read back from the block store first.
func (s *Store[T]) Replace(fn func(base int64, values []T) error) error {
	return s.update(false, fn)
}

func (s *Store[T]) update(read bool, fn func(base int64, values []T) error) error {
	for u := int64(0); u < s.geom.Count; u++ {
		values, err := s.MutableUnit(u, read)
		if err != nil {
			return err
		}
		if err := fn(s.geom.Base(u), values); err != nil {
			return err
		}
	}
	return nil
}

// Discard drops the resident unit without persisting it.
func (s *Store[T]) Discard() {
	s.unit = -1
	s.dirty = false
}

// Close releases the resident unit. A writable store also deletes every
// persisted unit of the image; a read-only store leaves them in place.
func (s *Store[T]) Close() error {
	s.Discard()
	s.buf = nil
	s.scratch = nil
	if s.readOnly {
		return nil
	}
	if err := s.blocks.DeleteByPrefix(context.Background(), blockstore.ImagePrefix(s.prefix)); err != nil {
		return fmt.Errorf("unitstore: release units of %s: %w", s.prefix, err)
	}
	return nil
}
