// Package largeimage provides images whose pixels may exceed available
// memory.
//
// A LargeImage splits its flat pixel index space into units of a
// power-of-two capacity sized from a memory budget, and keeps exactly one
// unit resident. Pixel calls page units in and out through a
// blockstore.Store as needed, so the image offers the same pixel surface as
// a fully-resident pixels.Image while holding only one unit in memory.
//
// Basic usage:
//
//	img, err := largeimage.NewByte(addressing.Shape{X: 2000, Y: 2000, Z: 2, T: 2, B: 1000},
//		largeimage.WithBudget(64<<20))
//	if err != nil {
//		return err
//	}
//	defer img.Close()
//
//	if err := img.SetPixelXYByte(1, 1500, 255); err != nil {
//		return err
//	}
//
// A LargeImage is not safe for concurrent use. ParallelVisit runs read-only
// scans over several goroutines.
package largeimage

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"largeimage/internal/logger"
	"largeimage/internal/models"
	"largeimage/pkg/addressing"
	"largeimage/pkg/blockstore"
	"largeimage/pkg/blockstore/memory"
	"largeimage/pkg/codec"
	"largeimage/pkg/pixels"
	"largeimage/pkg/sizing"
	"largeimage/pkg/unitstore"
)

var (
	// ErrNotSupported is returned by bulk array accessors, which would need
	// the whole image in memory at once.
	ErrNotSupported = errors.New("not supported on a paged image")

	// ErrInvalidHint is returned for a sizing hint below 1.
	ErrInvalidHint = sizing.ErrInvalidHint

	// ErrShapeMismatch is returned when two images of different shapes are
	// combined pixel by pixel.
	ErrShapeMismatch = errors.New("image shapes differ")

	// ErrBandOutOfRange is returned for a band index outside [0,B).
	ErrBandOutOfRange = errors.New("band out of range")
)

// LargeImage is a paged image storing pixels natively as T.
type LargeImage[T codec.Element] struct {
	pixels.Accessors

	shape addressing.Shape
	color bool
	codec codec.Codec[T]
	geom  sizing.Geometry

	blocks     blockstore.Store
	ownsBlocks bool
	metrics    unitstore.Metrics
	units      *unitstore.Store[T]
}

// Paged images of each kind.
type (
	Boolean = LargeImage[bool]
	Byte    = LargeImage[uint8]
	Int     = LargeImage[int32]
	Double  = LargeImage[float64]
)

// New creates a zero-filled image of the given shape.
func New[T codec.Element](shape addressing.Shape, opts ...Option) (*LargeImage[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	switch {
	case !o.budgetSet:
		o.budget = sizing.DefaultBudget()
	case o.budget <= 0:
		return nil, fmt.Errorf("%w: %d bytes", sizing.ErrInvalidBudget, o.budget)
	}

	c := codec.For[T]()
	capacity, err := sizing.ForImage(shape.Total(), c.Width(), o.budget, o.hint)
	if err != nil {
		return nil, err
	}
	geom, err := sizing.NewGeometry(shape.Total(), capacity)
	if err != nil {
		return nil, err
	}

	logger.Debug("unit size chosen", logger.KeyBudget, o.budget, logger.KeyHint, o.hint, logger.KeyCapacity, capacity)
	return build[T](shape, geom, o)
}

// build creates an image with a fixed geometry.
func build[T codec.Element](shape addressing.Shape, geom sizing.Geometry, o options) (*LargeImage[T], error) {
	if o.prefix == "" {
		o.prefix = uuid.NewString()
	}

	blocks, owns := o.blocks, false
	if blocks == nil {
		blocks, owns = memory.New(), true
	}

	units, err := unitstore.New[T](unitstore.Config{
		Geometry: geom,
		Blocks:   blocks,
		Prefix:   o.prefix,
		Metrics:  o.metrics,
	})
	if err != nil {
		return nil, err
	}

	l := &LargeImage[T]{
		shape:      shape,
		color:      o.color,
		codec:      codec.For[T](),
		geom:       geom,
		blocks:     blocks,
		ownsBlocks: owns,
		metrics:    o.metrics,
		units:      units,
	}
	l.Accessors = pixels.NewAccessors(l)

	logger.Debug("large image created",
		logger.KeyImage, o.prefix,
		logger.KeyKind, l.codec.Kind().String(),
		logger.KeyShape, shape.String(),
		logger.KeyTotal, geom.Total,
		logger.KeyCapacity, geom.Capacity,
		logger.KeyUnits, geom.Count)
	return l, nil
}

func NewBoolean(shape addressing.Shape, opts ...Option) (*Boolean, error) {
	return New[bool](shape, opts...)
}

func NewByte(shape addressing.Shape, opts ...Option) (*Byte, error) {
	return New[uint8](shape, opts...)
}

func NewInt(shape addressing.Shape, opts ...Option) (*Int, error) {
	return New[int32](shape, opts...)
}

func NewDouble(shape addressing.Shape, opts ...Option) (*Double, error) {
	return New[float64](shape, opts...)
}

// FromImage creates an image with the shape and color flag of src. With
// copyData the pixels of src are copied, converted to T; otherwise the image
// is zero-filled.
func FromImage[T codec.Element](src pixels.Image, copyData bool, opts ...Option) (*LargeImage[T], error) {
	opts = append([]Option{WithColor(src.Color())}, opts...)
	l, err := New[T](src.Shape(), opts...)
	if err != nil {
		return nil, err
	}
	if !copyData {
		return l, nil
	}

	err = l.units.Replace(func(base int64, values []T) error {
		for j := range values {
			v, err := l.codec.Load(src, base+int64(j))
			if err != nil {
				return err
			}
			values[j] = v
		}
		return nil
	})
	if err != nil {
		l.Close()
		return nil, fmt.Errorf("copy pixels: %w", err)
	}
	return l, nil
}

func BooleanFromImage(src pixels.Image, copyData bool, opts ...Option) (*Boolean, error) {
	return FromImage[bool](src, copyData, opts...)
}

func ByteFromImage(src pixels.Image, copyData bool, opts ...Option) (*Byte, error) {
	return FromImage[uint8](src, copyData, opts...)
}

func IntFromImage(src pixels.Image, copyData bool, opts ...Option) (*Int, error) {
	return FromImage[int32](src, copyData, opts...)
}

func DoubleFromImage(src pixels.Image, copyData bool, opts ...Option) (*Double, error) {
	return FromImage[float64](src, copyData, opts...)
}

// Clone returns a copy of other with identical unit geometry and pixels.
func Clone[T codec.Element](other *LargeImage[T]) (*LargeImage[T], error) {
	return other.Copy(true)
}

// Copy returns an image of the same shape, color flag and unit geometry.
// Without data the copy is zero-filled. The copy shares the block store when
// it was supplied with WithStore, and gets its own in-memory store otherwise.
func (l *LargeImage[T]) Copy(withData bool) (*LargeImage[T], error) {
	o := defaultOptions()
	o.color = l.color
	o.metrics = l.metrics
	if !l.ownsBlocks {
		o.blocks = l.blocks
	}

	dst, err := build[T](l.shape, l.geom, o)
	if err != nil {
		return nil, err
	}
	if !withData {
		return dst, nil
	}

	for u := int64(0); u < l.geom.Count; u++ {
		src, err := l.units.Unit(u)
		if err != nil {
			dst.Close()
			return nil, err
		}
		out, err := dst.units.MutableUnit(u, false)
		if err != nil {
			dst.Close()
			return nil, err
		}
		copy(out, src)
	}
	return dst, nil
}

func (l *LargeImage[T]) Shape() addressing.Shape { return l.shape }
func (l *LargeImage[T]) Kind() codec.Kind        { return l.codec.Kind() }
func (l *LargeImage[T]) Color() bool             { return l.color }

// SetColor marks the bands as color channels.
func (l *LargeImage[T]) SetColor(color bool) { l.color = color }

// UnitCapacity returns the number of pixels per unit.
func (l *LargeImage[T]) UnitCapacity() int64 { return l.geom.Capacity }

// UnitCount returns the number of units covering the image.
func (l *LargeImage[T]) UnitCount() int64 { return l.geom.Count }

// UnitLength returns the number of valid pixels in the last unit.
func (l *LargeImage[T]) UnitLength() int64 { return l.geom.LastLength }

// Info describes the image and its paging geometry.
func (l *LargeImage[T]) Info() models.ImageInfo {
	return models.ImageInfo{
		Key:           l.units.Prefix(),
		Kind:          l.codec.Kind().String(),
		Shape:         l.shape,
		Color:         l.color,
		Total:         l.geom.Total,
		Width:         l.codec.Width(),
		UnitCapacity:  l.geom.Capacity,
		UnitCount:     l.geom.Count,
		UnitLength:    l.geom.LastLength,
		ResidentBytes: l.geom.Capacity * l.codec.Width(),
	}
}

// Pixel returns the native value at index i.
func (l *LargeImage[T]) Pixel(i int64) (T, error) {
	return l.units.Read(i)
}

// SetPixel stores a native value at index i.
func (l *LargeImage[T]) SetPixel(i int64, v T) error {
	return l.units.Write(i, v)
}

func (l *LargeImage[T]) PixelBoolean(i int64) (bool, error) {
	v, err := l.units.Read(i)
	return l.codec.Boolean(v), err
}

func (l *LargeImage[T]) PixelByte(i int64) (uint8, error) {
	v, err := l.units.Read(i)
	return l.codec.Byte(v), err
}

func (l *LargeImage[T]) PixelInt(i int64) (int32, error) {
	v, err := l.units.Read(i)
	return l.codec.Int(v), err
}

func (l *LargeImage[T]) PixelDouble(i int64) (float64, error) {
	v, err := l.units.Read(i)
	return l.codec.Double(v), err
}

func (l *LargeImage[T]) SetPixelBoolean(i int64, v bool) error {
	return l.units.Write(i, l.codec.FromBoolean(v))
}

func (l *LargeImage[T]) SetPixelByte(i int64, v uint8) error {
	return l.units.Write(i, l.codec.FromByte(v))
}

func (l *LargeImage[T]) SetPixelInt(i int64, v int32) error {
	return l.units.Write(i, l.codec.FromInt(v))
}

func (l *LargeImage[T]) SetPixelDouble(i int64, v float64) error {
	return l.units.Write(i, l.codec.FromDouble(v))
}

// Pixels always fails: a paged image has no backing array.
func (l *LargeImage[T]) Pixels() ([]T, error) {
	return nil, fmt.Errorf("bulk pixel read: %w", ErrNotSupported)
}

// SetPixels always fails: a paged image has no backing array.
func (l *LargeImage[T]) SetPixels(values []T) error {
	return fmt.Errorf("bulk pixel write: %w", ErrNotSupported)
}

// Flush persists the resident unit if it has writes.
func (l *LargeImage[T]) Flush() error {
	return l.units.Flush()
}

// Close flushes the resident unit, then releases every persisted unit of the
// image. The block store is closed only if the image created it.
func (l *LargeImage[T]) Close() error {
	errs := []error{l.units.Flush(), l.units.Close()}
	if l.ownsBlocks {
		errs = append(errs, l.blocks.Close())
	}
	return errors.Join(errs...)
}

var _ pixels.Image = (*LargeImage[bool])(nil)
