package largeimage

import (
	"errors"
	"fmt"

	"largeimage/pkg/pixels"
)

// errStop ends a scan early without reporting an error.
var errStop = errors.New("stop scan")

// Fill sets every pixel to v.
func (l *LargeImage[T]) Fill(v T) error {
	return l.units.Replace(func(_ int64, values []T) error {
		for j := range values {
			values[j] = v
		}
		return nil
	})
}

func (l *LargeImage[T]) FillBoolean(v bool) error   { return l.Fill(l.codec.FromBoolean(v)) }
func (l *LargeImage[T]) FillByte(v uint8) error     { return l.Fill(l.codec.FromByte(v)) }
func (l *LargeImage[T]) FillInt(v int32) error      { return l.Fill(l.codec.FromInt(v)) }
func (l *LargeImage[T]) FillDouble(v float64) error { return l.Fill(l.codec.FromDouble(v)) }

// Equal reports whether other has the same kind, the same shape and the same
// native pixel values. Images of different kinds are never equal, even when
// their converted values coincide.
func (l *LargeImage[T]) Equal(other pixels.Image) (bool, error) {
	if other == nil || other.Kind() != l.Kind() || other.Shape() != l.shape {
		return false, nil
	}
	if o, ok := other.(*LargeImage[T]); ok {
		if o == l {
			return true, nil
		}
		if o.geom == l.geom {
			return l.equalUnits(o)
		}
	}

	equal := true
	err := l.units.Visit(func(base int64, values []T) error {
		for j, v := range values {
			w, err := l.codec.Load(other, base+int64(j))
			if err != nil {
				return err
			}
			if v != w {
				equal = false
				return errStop
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return false, err
	}
	return equal, nil
}

// equalUnits compares two images of identical geometry unit by unit.
func (l *LargeImage[T]) equalUnits(o *LargeImage[T]) (bool, error) {
	for u := int64(0); u < l.geom.Count; u++ {
		a, err := l.units.Unit(u)
		if err != nil {
			return false, err
		}
		b, err := o.units.Unit(u)
		if err != nil {
			return false, err
		}
		for j := range a {
			if a[j] != b[j] {
				return false, nil
			}
		}
	}
	return true, nil
}

// DifferentPixels counts the pixels whose native value differs from the
// value of other read in this image's kind.
func (l *LargeImage[T]) DifferentPixels(other pixels.Image) (int64, error) {
	if other.Shape() != l.shape {
		return 0, fmt.Errorf("%w: %s vs %s", ErrShapeMismatch, l.shape, other.Shape())
	}
	if o, ok := other.(*LargeImage[T]); ok && o == l {
		return 0, nil
	}

	var n int64
	err := l.units.Visit(func(base int64, values []T) error {
		for j, v := range values {
			w, err := l.codec.Load(other, base+int64(j))
			if err != nil {
				return err
			}
			if v != w {
				n++
			}
		}
		return nil
	})
	return n, err
}

// DifferenceRatio is DifferentPixels divided by the pixel count.
func (l *LargeImage[T]) DifferenceRatio(other pixels.Image) (float64, error) {
	n, err := l.DifferentPixels(other)
	if err != nil {
		return 0, err
	}
	return float64(n) / float64(l.geom.Total), nil
}

// Min returns the smallest native value (false < true for flags).
func (l *LargeImage[T]) Min() (T, error) {
	return l.extreme(-1, l.codec.Less)
}

// Max returns the largest native value.
func (l *LargeImage[T]) Max() (T, error) {
	return l.extreme(-1, func(a, b T) bool { return l.codec.Less(b, a) })
}

// MinDouble returns the smallest pixel in the double view.
func (l *LargeImage[T]) MinDouble() (float64, error) {
	v, err := l.Min()
	return l.codec.Double(v), err
}

// MaxDouble returns the largest pixel in the double view.
func (l *LargeImage[T]) MaxDouble() (float64, error) {
	v, err := l.Max()
	return l.codec.Double(v), err
}

// MinBand returns the smallest native value of band b.
func (l *LargeImage[T]) MinBand(b int) (T, error) {
	if err := l.checkBand(b); err != nil {
		var zero T
		return zero, err
	}
	return l.extreme(b, l.codec.Less)
}

// MaxBand returns the largest native value of band b.
func (l *LargeImage[T]) MaxBand(b int) (T, error) {
	if err := l.checkBand(b); err != nil {
		var zero T
		return zero, err
	}
	return l.extreme(b, func(a, c T) bool { return l.codec.Less(c, a) })
}

func (l *LargeImage[T]) checkBand(b int) error {
	if b < 0 || b >= l.shape.B {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrBandOutOfRange, b, l.shape.B)
	}
	return nil
}

// extreme scans for the value v with better(v, best) never true afterwards.
// A negative band scans every pixel.
func (l *LargeImage[T]) extreme(band int, better func(a, b T) bool) (T, error) {
	var best T
	first := true
	bands := int64(l.shape.B)

	err := l.units.Visit(func(base int64, values []T) error {
		start, step := int64(0), int64(1)
		if band >= 0 {
			start = (int64(band) - base%bands + bands) % bands
			step = bands
		}
		for j := start; j < int64(len(values)); j += step {
			if v := values[j]; first || better(v, best) {
				best = v
				first = false
			}
		}
		return nil
	})
	return best, err
}

// Sum returns the sum of native values as float64. Flags count as 0 and 1.
func (l *LargeImage[T]) Sum() (float64, error) {
	var sum float64
	err := l.units.Visit(func(_ int64, values []T) error {
		sum += sumNative(values)
		return nil
	})
	return sum, err
}

func sumNative[T any](values []T) float64 {
	var sum float64
	switch vs := any(values).(type) {
	case []bool:
		for _, v := range vs {
			if v {
				sum++
			}
		}
	case []uint8:
		for _, v := range vs {
			sum += float64(v)
		}
	case []int32:
		for _, v := range vs {
			sum += float64(v)
		}
	case []float64:
		for _, v := range vs {
			sum += v
		}
	}
	return sum
}

// Volume returns the sum of all pixels in the double view.
func (l *LargeImage[T]) Volume() (float64, error) {
	var sum float64
	err := l.units.Visit(func(_ int64, values []T) error {
		for _, v := range values {
			sum += l.codec.Double(v)
		}
		return nil
	})
	return sum, err
}

// DuplicateBand copies band src onto band dst for every (x,y,z,t).
func (l *LargeImage[T]) DuplicateBand(src, dst int) error {
	if err := l.checkBand(src); err != nil {
		return err
	}
	if err := l.checkBand(dst); err != nil {
		return err
	}
	if src == dst {
		return nil
	}

	bands := int64(l.shape.B)
	pixelCount := l.geom.Total / bands
	for p := int64(0); p < pixelCount; p++ {
		base := p * bands
		v, err := l.units.Read(base + int64(src))
		if err != nil {
			return err
		}
		if err := l.units.Write(base+int64(dst), v); err != nil {
			return err
		}
	}
	return nil
}
