package pixels

import (
	"fmt"

	"largeimage/pkg/addressing"
	"largeimage/pkg/codec"
)

// Resident is an image held entirely in memory as one []T.
type Resident[T codec.Element] struct {
	Accessors

	shape addressing.Shape
	color bool
	codec codec.Codec[T]
	data  []T
}

// Fully-resident images of each kind.
type (
	BooleanImage = Resident[bool]
	ByteImage    = Resident[uint8]
	IntImage     = Resident[int32]
	DoubleImage  = Resident[float64]
)

// NewResident allocates a zero-filled image.
func NewResident[T codec.Element](shape addressing.Shape, color bool) (*Resident[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	r := &Resident[T]{
		shape: shape,
		color: color,
		codec: codec.For[T](),
		data:  make([]T, shape.Total()),
	}
	r.Accessors = NewAccessors(r)
	return r, nil
}

func NewBooleanImage(shape addressing.Shape) (*BooleanImage, error) {
	return NewResident[bool](shape, false)
}

func NewByteImage(shape addressing.Shape) (*ByteImage, error) {
	return NewResident[uint8](shape, false)
}

func NewIntImage(shape addressing.Shape) (*IntImage, error) {
	return NewResident[int32](shape, false)
}

func NewDoubleImage(shape addressing.Shape) (*DoubleImage, error) {
	return NewResident[float64](shape, false)
}

func (r *Resident[T]) Shape() addressing.Shape { return r.shape }
func (r *Resident[T]) Kind() codec.Kind        { return r.codec.Kind() }
func (r *Resident[T]) Color() bool             { return r.color }

// SetColor marks the bands as color channels.
func (r *Resident[T]) SetColor(color bool) { r.color = color }

// Pixel returns the native value at index i.
func (r *Resident[T]) Pixel(i int64) T { return r.data[i] }

// SetPixel stores a native value at index i.
func (r *Resident[T]) SetPixel(i int64, v T) { r.data[i] = v }

func (r *Resident[T]) PixelBoolean(i int64) (bool, error)   { return r.codec.Boolean(r.data[i]), nil }
func (r *Resident[T]) PixelByte(i int64) (uint8, error)     { return r.codec.Byte(r.data[i]), nil }
func (r *Resident[T]) PixelInt(i int64) (int32, error)      { return r.codec.Int(r.data[i]), nil }
func (r *Resident[T]) PixelDouble(i int64) (float64, error) { return r.codec.Double(r.data[i]), nil }

func (r *Resident[T]) SetPixelBoolean(i int64, v bool) error {
	r.data[i] = r.codec.FromBoolean(v)
	return nil
}

func (r *Resident[T]) SetPixelByte(i int64, v uint8) error {
	r.data[i] = r.codec.FromByte(v)
	return nil
}

func (r *Resident[T]) SetPixelInt(i int64, v int32) error {
	r.data[i] = r.codec.FromInt(v)
	return nil
}

func (r *Resident[T]) SetPixelDouble(i int64, v float64) error {
	r.data[i] = r.codec.FromDouble(v)
	return nil
}

// Pixels returns the backing array. Writes through it change the image.
func (r *Resident[T]) Pixels() ([]T, error) {
	return r.data, nil
}

// SetPixels copies values into the image.
func (r *Resident[T]) SetPixels(values []T) error {
	if int64(len(values)) != r.shape.Total() {
		return fmt.Errorf("%w: %d values for %s", ErrSizeMismatch, len(values), r.shape)
	}
	copy(r.data, values)
	return nil
}

var _ Image = (*Resident[bool])(nil)
