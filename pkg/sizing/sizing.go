// Package sizing decides how many elements a paged image keeps in one unit.
//
// A unit holds a power-of-two number of elements so that the unit number and
// the offset inside a unit are a shift and a mask of the linear index. The
// capacity is the largest power of two whose footprint fits the memory
// budget, clamped so that a small image never gets a unit larger than itself.
package sizing

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
)

var (
	// ErrNegative is returned by ComputePowerOfTwo for negative input.
	ErrNegative = errors.New("negative size")

	// ErrInvalidBudget is returned when the budget cannot hold one element.
	ErrInvalidBudget = errors.New("invalid memory budget")

	// ErrInvalidWidth is returned for a non-positive element width.
	ErrInvalidWidth = errors.New("invalid element width")

	// ErrInvalidHint is returned for a sizing hint below 1.
	ErrInvalidHint = errors.New("invalid sizing hint")
)

// maxCapacity bounds a unit so that its length always fits in an int.
const maxCapacity = int64(math.MaxInt>>1) + 1

// ComputePowerOfTwo returns the exponent k of the smallest power of two that
// is >= n. Zero and one both give 0.
func ComputePowerOfTwo(n int64) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegative, n)
	}
	if n <= 1 {
		return 0, nil
	}
	return bits.Len64(uint64(n - 1)), nil
}

// Capacity returns the largest power of two c such that c*width <= budget.
//
// Parameters:
//   - width: storage footprint of one element in bytes
//   - budget: bytes one resident unit may occupy
//
// Returns:
//   - the element capacity of a unit, always a power of two
//   - a configuration error when width or budget are not positive or the
//     budget cannot hold a single element
func Capacity(width, budget int64) (int64, error) {
	if width <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	if budget <= 0 || budget < width {
		return 0, fmt.Errorf("%w: %d bytes for %d-byte elements", ErrInvalidBudget, budget, width)
	}

	c := int64(1) << (bits.Len64(uint64(budget/width)) - 1)
	if c > maxCapacity {
		c = maxCapacity
	}
	return c, nil
}

// ForImage returns the unit capacity for an image of total elements.
//
// The hint divides the budget before sizing: a hint of 10 gives units about
// ten times smaller (rounded down to a power of two). The result is clamped
// to the smallest power of two that covers total, so that an image smaller
// than the budget is stored in one unit sized to the image.
func ForImage(total, width, budget int64, hint int) (int64, error) {
	if hint < 1 {
		return 0, fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidHint, hint)
	}
	if total < 1 {
		return 0, fmt.Errorf("%w: image of %d elements", ErrNegative, total)
	}

	c, err := Capacity(width, budget/int64(hint))
	if err != nil {
		return 0, err
	}

	k, err := ComputePowerOfTwo(total)
	if err != nil {
		return 0, err
	}
	if k < 63 && int64(1)<<k < c {
		c = int64(1) << k
	}
	return c, nil
}

// Geometry is the partition of an image's linear index range into units.
type Geometry struct {
	// Total is the number of elements of the image.
	Total int64

	// Capacity is the number of elements per unit (a power of two).
	Capacity int64

	// Shift is log2(Capacity): unit = index >> Shift.
	Shift uint

	// Count is ceil(Total / Capacity).
	Count int64

	// LastLength is the number of valid elements in the final unit.
	LastLength int64
}

// NewGeometry partitions total elements into units of capacity elements.
// capacity must be a power of two.
func NewGeometry(total, capacity int64) (Geometry, error) {
	if total < 1 {
		return Geometry{}, fmt.Errorf("%w: image of %d elements", ErrNegative, total)
	}
	if capacity < 1 || capacity&(capacity-1) != 0 {
		return Geometry{}, fmt.Errorf("unit capacity %d is not a power of two", capacity)
	}

	count := (total + capacity - 1) / capacity
	return Geometry{
		Total:      total,
		Capacity:   capacity,
		Shift:      uint(bits.TrailingZeros64(uint64(capacity))),
		Count:      count,
		LastLength: total - capacity*(count-1),
	}, nil
}

// UnitOf returns the unit number holding index i.
func (g Geometry) UnitOf(i int64) int64 {
	return i >> g.Shift
}

// Offset returns the position of index i inside its unit.
func (g Geometry) Offset(i int64) int {
	return int(i & (g.Capacity - 1))
}

// Length returns the number of valid elements of unit u.
func (g Geometry) Length(u int64) int {
	if u == g.Count-1 {
		return int(g.LastLength)
	}
	return int(g.Capacity)
}

// Base returns the linear index of the first element of unit u.
func (g Geometry) Base(u int64) int64 {
	return u << g.Shift
}
