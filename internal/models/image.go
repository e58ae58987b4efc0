package models

import (
	"fmt"

	"largeimage/pkg/addressing"
)

// ImageInfo describes a paged image and how its pixels are split into units
type ImageInfo struct {
	// Key is the unit key prefix identifying the image in its block store
	Key string `yaml:"key"`

	// Kind is the native value kind (flag, byte, int, double)
	Kind string `yaml:"kind"`

	// Shape is the logical extent along x, y, z, t and band
	Shape addressing.Shape `yaml:"shape"`

	// Color reports whether the bands are color channels
	Color bool `yaml:"color"`

	// Total is the number of pixels, X*Y*Z*T*B
	Total int64 `yaml:"total"`

	// Width is the in-memory size of one pixel in bytes
	Width int64 `yaml:"width"`

	// UnitCapacity is the number of pixels per unit (a power of two)
	UnitCapacity int64 `yaml:"unit_capacity"`

	// UnitCount is the number of units covering the image
	UnitCount int64 `yaml:"unit_count"`

	// UnitLength is the number of valid pixels in the last unit
	UnitLength int64 `yaml:"unit_length"`

	// ResidentBytes is the memory held by the one resident unit
	ResidentBytes int64 `yaml:"resident_bytes"`
}

// String renders a one-line summary
func (i ImageInfo) String() string {
	return fmt.Sprintf("%s image %s: %d pixels in %d units of %d (last %d)",
		i.Kind, i.Shape, i.Total, i.UnitCount, i.UnitCapacity, i.UnitLength)
}
