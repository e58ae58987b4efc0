// Package addressing maps five-dimensional pixel coordinates to the single
// 64-bit linear index used by every image store, and back.
//
// The layout is band-interleaved: the band index varies fastest, then x, y,
// z and finally t:
//
//	index = b + B*(x + X*(y + Y*(z + Z*t)))
//
// Consecutive indices therefore stay within the bands of one spatial pixel
// before advancing in x, which keeps band-wise access local to one unit of a
// paged image.
//
// Coordinates are not range-checked. Passing a coordinate outside its axis
// extent is a programming error, exactly as it is for slices.
package addressing

import (
	"errors"
	"fmt"
)

// ErrInvalidShape is returned when a shape has a non-positive extent.
var ErrInvalidShape = errors.New("invalid shape")

// Shape holds the five axis extents of an image. All extents are >= 1.
type Shape struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
	T int `yaml:"t"`
	B int `yaml:"b"`
}

// NewShape builds and validates a shape.
func NewShape(x, y, z, t, b int) (Shape, error) {
	s := Shape{X: x, Y: y, Z: z, T: t, B: b}
	if err := s.Validate(); err != nil {
		return Shape{}, err
	}
	return s, nil
}

// Shape2D returns a single-band, single-slice, single-frame shape.
func Shape2D(x, y int) Shape {
	return Shape{X: x, Y: y, Z: 1, T: 1, B: 1}
}

// Validate checks that all extents are positive.
func (s Shape) Validate() error {
	if s.X < 1 || s.Y < 1 || s.Z < 1 || s.T < 1 || s.B < 1 {
		return fmt.Errorf("%w: %s (all extents must be >= 1)", ErrInvalidShape, s)
	}
	return nil
}

// Total returns the number of pixels, X*Y*Z*T*B.
func (s Shape) Total() int64 {
	return int64(s.X) * int64(s.Y) * int64(s.Z) * int64(s.T) * int64(s.B)
}

// String formats the shape as "(x,y,z,t,b)".
func (s Shape) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d,%d)", s.X, s.Y, s.Z, s.T, s.B)
}

// Index returns the linear index of (x,y,z,t,b).
func (s Shape) Index(x, y, z, t, b int) int64 {
	return int64(b) + int64(s.B)*(int64(x)+int64(s.X)*(int64(y)+int64(s.Y)*(int64(z)+int64(t)*int64(s.Z))))
}

// IndexXY returns the linear index of (x,y,0,0,0).
func (s Shape) IndexXY(x, y int) int64 {
	return s.Index(x, y, 0, 0, 0)
}

// IndexXYZ returns the linear index of (x,y,z,0,0).
func (s Shape) IndexXYZ(x, y, z int) int64 {
	return s.Index(x, y, z, 0, 0)
}

// IndexXYB returns the linear index of (x,y,0,0,b).
func (s Shape) IndexXYB(x, y, b int) int64 {
	return s.Index(x, y, 0, 0, b)
}

// IndexXYT returns the linear index of (x,y,0,t,0).
func (s Shape) IndexXYT(x, y, t int) int64 {
	return s.Index(x, y, 0, t, 0)
}

// IndexXYZT returns the linear index of (x,y,z,t,0).
func (s Shape) IndexXYZT(x, y, z, t int) int64 {
	return s.Index(x, y, z, t, 0)
}

// IndexXYZB returns the linear index of (x,y,z,0,b).
func (s Shape) IndexXYZB(x, y, z, b int) int64 {
	return s.Index(x, y, z, 0, b)
}

// IndexXYTB returns the linear index of (x,y,0,t,b).
func (s Shape) IndexXYTB(x, y, t, b int) int64 {
	return s.Index(x, y, 0, t, b)
}

// IndexXYZTB is Index under the name used by the other shorthands.
func (s Shape) IndexXYZTB(x, y, z, t, b int) int64 {
	return s.Index(x, y, z, t, b)
}

// Coord is a full five-dimensional pixel coordinate.
type Coord struct {
	X, Y, Z, T, B int
}

// IndexOf returns the linear index of c within s.
func (s Shape) IndexOf(c Coord) int64 {
	return s.Index(c.X, c.Y, c.Z, c.T, c.B)
}

// Coordinate is the inverse of Index: s.IndexOf(s.Coordinate(i)) == i for
// every i in [0, Total()).
func (s Shape) Coordinate(i int64) Coord {
	var c Coord
	c.B = int(i % int64(s.B))
	i /= int64(s.B)
	c.X = int(i % int64(s.X))
	i /= int64(s.X)
	c.Y = int(i % int64(s.Y))
	i /= int64(s.Y)
	c.Z = int(i % int64(s.Z))
	c.T = int(i / int64(s.Z))
	return c
}

// PixelStride is the distance in linear index between two x-neighbours.
func (s Shape) PixelStride() int64 {
	return int64(s.B)
}
