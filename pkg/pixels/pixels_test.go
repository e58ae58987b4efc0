package pixels

import (
	"errors"
	"math"
	"testing"

	"largeimage/pkg/addressing"
	"largeimage/pkg/codec"
)

func TestNewResident_InvalidShape(t *testing.T) {
	_, err := NewByteImage(addressing.Shape{X: 0, Y: 1, Z: 1, T: 1, B: 1})
	if !errors.Is(err, addressing.ErrInvalidShape) {
		t.Errorf("Expected ErrInvalidShape, got %v", err)
	}
}

func TestResident_KindAndColor(t *testing.T) {
	shape := addressing.Shape2D(2, 2)

	cases := []struct {
		img  Image
		want codec.Kind
	}{
		{mustImage(NewBooleanImage(shape)), codec.Flag},
		{mustImage(NewByteImage(shape)), codec.Byte},
		{mustImage(NewIntImage(shape)), codec.Int},
		{mustImage(NewDoubleImage(shape)), codec.Double},
	}
	for _, c := range cases {
		if c.img.Kind() != c.want {
			t.Errorf("Expected kind %v, got %v", c.want, c.img.Kind())
		}
		if c.img.Color() {
			t.Errorf("Expected %v image not to be color", c.want)
		}
	}

	img, err := NewResident[uint8](shape, true)
	if err != nil {
		t.Fatalf("NewResident failed: %v", err)
	}
	if !img.Color() {
		t.Error("Expected color image")
	}
}

func mustImage[T codec.Element](img *Resident[T], err error) Image {
	if err != nil {
		panic(err)
	}
	return img
}

// TestAccessors_Shorthands writes through every shorthand and reads the
// linear core back.
func TestAccessors_Shorthands(t *testing.T) {
	shape := addressing.Shape{X: 4, Y: 3, Z: 3, T: 2, B: 3}
	img, err := NewIntImage(shape)
	if err != nil {
		t.Fatalf("NewIntImage failed: %v", err)
	}

	writes := []struct {
		name  string
		set   func(v int32) error
		index int64
	}{
		{"XY", func(v int32) error { return img.SetPixelXYInt(1, 2, v) }, shape.Index(1, 2, 0, 0, 0)},
		{"XYZ", func(v int32) error { return img.SetPixelXYZInt(3, 0, 2, v) }, shape.Index(3, 0, 2, 0, 0)},
		{"XYB", func(v int32) error { return img.SetPixelXYBInt(0, 1, 2, v) }, shape.Index(0, 1, 0, 0, 2)},
		{"XYT", func(v int32) error { return img.SetPixelXYTInt(2, 2, 1, v) }, shape.Index(2, 2, 0, 1, 0)},
		{"XYZT", func(v int32) error { return img.SetPixelXYZTInt(1, 1, 1, 1, v) }, shape.Index(1, 1, 1, 1, 0)},
		{"XYZB", func(v int32) error { return img.SetPixelXYZBInt(2, 0, 1, 1, v) }, shape.Index(2, 0, 1, 0, 1)},
		{"XYTB", func(v int32) error { return img.SetPixelXYTBInt(3, 2, 1, 2, v) }, shape.Index(3, 2, 0, 1, 2)},
		{"XYZTB", func(v int32) error { return img.SetPixelXYZTBInt(3, 2, 2, 1, 2, v) }, shape.Index(3, 2, 2, 1, 2)},
	}

	for n, w := range writes {
		v := int32(100 + n)
		if err := w.set(v); err != nil {
			t.Fatalf("%s: set failed: %v", w.name, err)
		}
		got, _ := img.PixelInt(w.index)
		if got != v {
			t.Errorf("%s: Expected %d at index %d, got %d", w.name, v, w.index, got)
		}
	}

	got, _ := img.PixelXYZTBInt(3, 2, 2, 1, 2)
	if got != 107 {
		t.Errorf("Expected 107, got %d", got)
	}
	got, _ = img.PixelXYInt(1, 2)
	if got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
}

func TestResident_Conversions(t *testing.T) {
	img, err := NewByteImage(addressing.Shape2D(3, 1))
	if err != nil {
		t.Fatalf("NewByteImage failed: %v", err)
	}

	img.SetPixelXYDouble(0, 0, 1.0)
	img.SetPixelXYBoolean(1, 0, true)
	img.SetPixelXYInt(2, 0, math.MinInt32)

	want := []uint8{255, 255, 0}
	got, err := img.Pixels()
	if err != nil {
		t.Fatalf("Pixels failed: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %d at %d, got %d", want[i], i, got[i])
		}
	}

	d, _ := img.PixelXYDouble(0, 0)
	if d != 1.0 {
		t.Errorf("Expected 1.0, got %f", d)
	}
	b, _ := img.PixelXYBoolean(2, 0)
	if b {
		t.Error("Expected false for a zero byte")
	}
}

func TestResident_SetPixels(t *testing.T) {
	img, err := NewDoubleImage(addressing.Shape2D(2, 2))
	if err != nil {
		t.Fatalf("NewDoubleImage failed: %v", err)
	}

	if err := img.SetPixels([]float64{1, 2, 3}); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("Expected ErrSizeMismatch, got %v", err)
	}
	if err := img.SetPixels([]float64{1, 2, 3, 4}); err != nil {
		t.Fatalf("SetPixels failed: %v", err)
	}
	if v := img.Pixel(3); v != 4 {
		t.Errorf("Expected 4, got %f", v)
	}
}
