// Package pixels defines the pixel contract shared by fully-resident and
// paged images, and provides the fully-resident implementation.
//
// Every image exposes a linear core: pixel i of the flat index space
// (see addressing.Shape) read or written in any of the four
// representations. The coordinate shorthands (PixelXYByte,
// SetPixelXYZTBDouble, ...) are derived from the core by Accessors.
package pixels

import (
	"errors"

	"largeimage/pkg/addressing"
	"largeimage/pkg/codec"
)

// ErrSizeMismatch is returned when a bulk array does not match the image.
var ErrSizeMismatch = errors.New("pixel array size does not match image")

// Image is the linear pixel core every image implements.
type Image interface {
	Shape() addressing.Shape
	Kind() codec.Kind

	// Color reports whether bands hold color channels.
	Color() bool

	PixelBoolean(i int64) (bool, error)
	PixelByte(i int64) (uint8, error)
	PixelInt(i int64) (int32, error)
	PixelDouble(i int64) (float64, error)

	SetPixelBoolean(i int64, v bool) error
	SetPixelByte(i int64, v uint8) error
	SetPixelInt(i int64, v int32) error
	SetPixelDouble(i int64, v float64) error
}

var _ codec.Source = Image(nil)
