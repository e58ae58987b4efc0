// Package visualization extracts 2D planes from images of any size and writes
// them as picture files for inspection.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"largeimage/pkg/addressing"
	"largeimage/pkg/pixels"
)

// Viewer reads planes of one time point and band of an image. Pixels are
// read through the double view, so flags, bytes, ints and doubles all map
// onto the full 16-bit gray range.
//
// Planes are walked in increasing index order, which keeps a paged image on
// as few unit loads as possible.
type Viewer struct {
	// img is the image slices are read from
	img   pixels.Image
	shape addressing.Shape

	// t and band select the volume slices are taken from
	t    int
	band int

	// format is the file format of saved slices, "jpg" or "png"
	format string
}

// NewViewer creates a viewer over time point 0 and band 0 of img
func NewViewer(img pixels.Image) *Viewer {
	return &Viewer{
		img:    img,
		shape:  img.Shape(),
		format: "jpg",
	}
}

// SetVolume selects the time point and band slices are taken from
func (v *Viewer) SetVolume(t, band int) error {
	if t < 0 || t >= v.shape.T {
		return fmt.Errorf("time point %d outside [0,%d)", t, v.shape.T)
	}
	if band < 0 || band >= v.shape.B {
		return fmt.Errorf("band %d outside [0,%d)", band, v.shape.B)
	}
	v.t, v.band = t, band
	return nil
}

// SetFormat selects the file format of saved slices: "jpg" or "png"
func (v *Viewer) SetFormat(format string) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		v.format = "jpg"
	case "png":
		v.format = "png"
	default:
		return fmt.Errorf("unsupported slice format %q (must be jpg or png)", format)
	}
	return nil
}

func (v *Viewer) gray(x, y, z int) (color.Gray16, error) {
	d, err := v.img.PixelDouble(v.shape.Index(x, y, z, v.t, v.band))
	if err != nil {
		return color.Gray16{}, err
	}
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, d*65535)))}, nil
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}

	var img *image.Gray16

	switch axis {
	case "x", "X":
		// Extract slice along YZ plane
		if position >= v.shape.X {
			return nil, fmt.Errorf("position %d exceeds width %d", position, v.shape.X)
		}

		img = image.NewGray16(image.Rect(0, 0, v.shape.Z, v.shape.Y))
		for z := 0; z < v.shape.Z; z++ {
			for y := 0; y < v.shape.Y; y++ {
				c, err := v.gray(position, y, z)
				if err != nil {
					return nil, err
				}
				img.SetGray16(z, y, c)
			}
		}

	case "y", "Y":
		// Extract slice along XZ plane
		if position >= v.shape.Y {
			return nil, fmt.Errorf("position %d exceeds height %d", position, v.shape.Y)
		}

		img = image.NewGray16(image.Rect(0, 0, v.shape.X, v.shape.Z))
		for z := 0; z < v.shape.Z; z++ {
			for x := 0; x < v.shape.X; x++ {
				c, err := v.gray(x, position, z)
				if err != nil {
					return nil, err
				}
				img.SetGray16(x, z, c)
			}
		}

	case "z", "Z":
		// Extract slice along XY plane
		if position >= v.shape.Z {
			return nil, fmt.Errorf("position %d exceeds depth %d", position, v.shape.Z)
		}

		img = image.NewGray16(image.Rect(0, 0, v.shape.X, v.shape.Y))
		for y := 0; y < v.shape.Y; y++ {
			for x := 0; x < v.shape.X; x++ {
				c, err := v.gray(x, y, position)
				if err != nil {
					return nil, err
				}
				img.SetGray16(x, y, c)
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// ExtractRegion extracts a 3D subregion of the selected volume in the double
// view, x fastest
func (v *Viewer) ExtractRegion(startX, startY, startZ, sizeX, sizeY, sizeZ int) ([]float64, error) {
	// Validate parameters
	if startX < 0 || startY < 0 || startZ < 0 {
		return nil, fmt.Errorf("start coordinates must be non-negative")
	}

	if sizeX <= 0 || sizeY <= 0 || sizeZ <= 0 {
		return nil, fmt.Errorf("size dimensions must be positive")
	}

	if startX+sizeX > v.shape.X || startY+sizeY > v.shape.Y || startZ+sizeZ > v.shape.Z {
		return nil, fmt.Errorf("region extends beyond volume boundaries")
	}

	region := make([]float64, 0, sizeX*sizeY*sizeZ)
	for z := startZ; z < startZ+sizeZ; z++ {
		for y := startY; y < startY+sizeY; y++ {
			for x := startX; x < startX+sizeX; x++ {
				d, err := v.img.PixelDouble(v.shape.Index(x, y, z, v.t, v.band))
				if err != nil {
					return nil, err
				}
				region = append(region, d)
			}
		}
	}

	return region, nil
}

// SaveSlice saves an extracted slice in the viewer's format
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if v.format == "png" {
		return png.Encode(file, img)
	}
	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	var maxPos int
	switch axis {
	case "x", "X":
		maxPos = v.shape.X
	case "y", "Y":
		maxPos = v.shape.Y
	case "z", "Z":
		maxPos = v.shape.Z
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	for pos := 0; pos < maxPos; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.%s", axis, pos, v.format))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
