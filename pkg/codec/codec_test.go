package codec

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindWidthAndNames(t *testing.T) {
	assert.Equal(t, int64(1), Flag.Width())
	assert.Equal(t, int64(1), Byte.Width())
	assert.Equal(t, int64(4), Int.Width())
	assert.Equal(t, int64(8), Double.Width())

	for _, k := range []Kind{Flag, Byte, Int, Double} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
		assert.Equal(t, k.Width(), kindCodecWidth(k))
	}

	_, err := ParseKind("complex")
	assert.Error(t, err)
}

func kindCodecWidth(k Kind) int64 {
	switch k {
	case Flag:
		return For[bool]().Width()
	case Byte:
		return For[uint8]().Width()
	case Int:
		return For[int32]().Width()
	default:
		return For[float64]().Width()
	}
}

func TestForSelectsKind(t *testing.T) {
	assert.Equal(t, Flag, KindOf[bool]())
	assert.Equal(t, Byte, KindOf[uint8]())
	assert.Equal(t, Int, KindOf[int32]())
	assert.Equal(t, Double, KindOf[float64]())
}

// TestFlagViews checks the flag row of the conversion table.
func TestFlagViews(t *testing.T) {
	c := FlagCodec{}
	assert.Equal(t, uint8(0), c.Byte(false))
	assert.Equal(t, uint8(255), c.Byte(true))
	assert.Equal(t, int32(math.MinInt32), c.Int(false))
	assert.Equal(t, int32(math.MaxInt32), c.Int(true))
	assert.Equal(t, 0.0, c.Double(false))
	assert.Equal(t, 1.0, c.Double(true))
}

// TestByteViews checks the byte row of the conversion table.
func TestByteViews(t *testing.T) {
	c := ByteCodec{}
	assert.False(t, c.Boolean(127))
	assert.True(t, c.Boolean(128))
	assert.Equal(t, int32(math.MinInt32), c.Int(0))
	assert.Equal(t, int32(math.MaxInt32), c.Int(255))
	assert.Equal(t, 0.0, c.Double(0))
	assert.Equal(t, 1.0, c.Double(255))
	assert.InDelta(t, 51.0/255, c.Double(51), 1e-15)
}

// TestIntViews checks the int row of the conversion table.
func TestIntViews(t *testing.T) {
	c := IntCodec{}
	assert.False(t, c.Boolean(-1))
	assert.True(t, c.Boolean(0))
	assert.Equal(t, uint8(0), c.Byte(math.MinInt32))
	assert.Equal(t, uint8(255), c.Byte(math.MaxInt32))
	assert.Equal(t, 0.0, c.Double(math.MinInt32))
	assert.Equal(t, 1.0, c.Double(math.MaxInt32))
}

// TestDoubleViews checks the double row of the conversion table, including
// clamping of out-of-range values.
func TestDoubleViews(t *testing.T) {
	c := DoubleCodec{}
	assert.False(t, c.Boolean(0.49))
	assert.True(t, c.Boolean(0.5))
	assert.Equal(t, uint8(128), c.Byte(0.5))
	assert.Equal(t, uint8(0), c.Byte(-3))
	assert.Equal(t, uint8(255), c.Byte(7))
	assert.Equal(t, uint8(0), c.Byte(math.NaN()))
	assert.Equal(t, int32(math.MinInt32), c.Int(0))
	assert.Equal(t, int32(math.MaxInt32), c.Int(1))
	assert.Equal(t, int32(math.MaxInt32), c.Int(2))
	assert.Equal(t, int32(math.MinInt32), c.Int(-1))
}

// TestSameRepresentationRoundTrip writes a value in one representation and
// reads it back in the same one, for every kind.
func TestSameRepresentationRoundTrip(t *testing.T) {
	t.Run("flag", func(t *testing.T) { roundTrip(t, For[bool]()) })
	t.Run("byte", func(t *testing.T) { roundTrip(t, For[uint8]()) })
	t.Run("int", func(t *testing.T) { roundTrip(t, For[int32]()) })
	t.Run("double", func(t *testing.T) { roundTrip(t, For[float64]()) })
}

func roundTrip[T Element](t *testing.T, c Codec[T]) {
	for _, v := range []bool{false, true} {
		assert.Equal(t, v, c.Boolean(c.FromBoolean(v)), "boolean %v", v)
	}

	bytes := []uint8{0, 255}
	if c.Kind() != Flag {
		bytes = append(bytes, 1, 77, 128, 254)
	}
	for _, v := range bytes {
		assert.Equal(t, v, c.Byte(c.FromByte(v)), "byte %d", v)
	}

	ints := []int32{math.MinInt32, math.MaxInt32}
	switch c.Kind() {
	case Byte:
		ints = append(ints, byteToInt(9), byteToInt(200))
	case Int, Double:
		ints = append(ints, -1, 0, 1, 123456789, -987654321)
	}
	for _, v := range ints {
		assert.Equal(t, v, c.Int(c.FromInt(v)), "int %d", v)
	}

	doubles := []float64{0, 1}
	switch c.Kind() {
	case Byte:
		doubles = append(doubles, 17.0/255, 128.0/255)
	case Int:
		doubles = append(doubles, intToDouble(42), intToDouble(-42))
	case Double:
		doubles = append(doubles, -2.5, 0.25, math.Pi, 1e300)
	}
	for _, v := range doubles {
		assert.Equal(t, v, c.Double(c.FromDouble(v)), "double %g", v)
	}
}

// TestLoadUsesOwnView checks that Load reads a source in the codec's own
// representation.
func TestLoadUsesOwnView(t *testing.T) {
	src := fakeSource{}

	b, err := FlagCodec{}.Load(src, 0)
	require.NoError(t, err)
	assert.True(t, b)

	u, err := ByteCodec{}.Load(src, 0)
	require.NoError(t, err)
	assert.Equal(t, uint8(7), u)

	i, err := IntCodec{}.Load(src, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(-7), i)

	d, err := DoubleCodec{}.Load(src, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.7, d)
}

type fakeSource struct{}

func (fakeSource) PixelBoolean(int64) (bool, error)   { return true, nil }
func (fakeSource) PixelByte(int64) (uint8, error)     { return 7, nil }
func (fakeSource) PixelInt(int64) (int32, error)      { return -7, nil }
func (fakeSource) PixelDouble(int64) (float64, error) { return 0.7, nil }

func TestEncodeDecode(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		src := []bool{true, false, false, true, true, true, false, true, true, false, true}
		encodeDecode(t, For[bool](), src)
		assert.Equal(t, 2, FlagCodec{}.EncodedLen(len(src)))
	})
	t.Run("byte", func(t *testing.T) {
		encodeDecode(t, For[uint8](), []uint8{0, 1, 128, 255, 3})
	})
	t.Run("int", func(t *testing.T) {
		encodeDecode(t, For[int32](), []int32{math.MinInt32, -1, 0, 1, math.MaxInt32})
	})
	t.Run("double", func(t *testing.T) {
		encodeDecode(t, For[float64](), []float64{-1.5, 0, math.Inf(1), 1e-300, math.MaxFloat64})
	})
}

func encodeDecode[T Element](t *testing.T, c Codec[T], src []T) {
	buf := make([]byte, c.EncodedLen(len(src)))
	c.Encode(buf, src)

	dst := make([]T, len(src))
	require.NoError(t, c.Decode(dst, buf))
	assert.Equal(t, src, dst)

	err := c.Decode(dst, buf[:len(buf)-1])
	assert.True(t, errors.Is(err, ErrShortBuffer))
}

func TestFlagEncodeClearsStaleBits(t *testing.T) {
	buf := []byte{0xff, 0xff}
	FlagCodec{}.Encode(buf, []bool{false, true, false})
	assert.Equal(t, byte(0x02), buf[0])
	assert.Equal(t, byte(0xff), buf[1])
}

func TestLess(t *testing.T) {
	assert.True(t, FlagCodec{}.Less(false, true))
	assert.False(t, FlagCodec{}.Less(true, false))
	assert.False(t, FlagCodec{}.Less(true, true))
	assert.True(t, IntCodec{}.Less(-3, 2))
	assert.True(t, DoubleCodec{}.Less(-0.5, 0))
}

// TestEncodedLayout pins the persisted byte layout of each kind.
func TestEncodedLayout(t *testing.T) {
	flags := make([]byte, FlagCodec{}.EncodedLen(10))
	FlagCodec{}.Encode(flags, []bool{true, false, true, false, false, false, false, false, false, true})
	assert.Equal(t, []byte{0x05, 0x02}, flags)

	ints := make([]byte, IntCodec{}.EncodedLen(2))
	IntCodec{}.Encode(ints, []int32{1, -2})
	assert.Equal(t, []byte{0x01, 0, 0, 0, 0xfe, 0xff, 0xff, 0xff}, ints)

	doubles := make([]byte, DoubleCodec{}.EncodedLen(1))
	DoubleCodec{}.Encode(doubles, []float64{1})
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}, doubles)

	err := IntCodec{}.Decode(make([]int32, 2), ints[:7])
	assert.ErrorIs(t, err, ErrShortBuffer)
}

// TestConversionBoundaries checks the edges of the documented rescaling rules.
func TestConversionBoundaries(t *testing.T) {
	assert.Equal(t, uint8(0), ByteCodec{}.FromInt(math.MinInt32))
	assert.Equal(t, uint8(255), ByteCodec{}.FromInt(math.MaxInt32))
	assert.Equal(t, int32(math.MinInt32), ByteCodec{}.Int(0))
	assert.Equal(t, int32(math.MaxInt32), ByteCodec{}.Int(255))

	assert.Equal(t, int32(math.MinInt32), IntCodec{}.FromDouble(-3))
	assert.Equal(t, int32(math.MaxInt32), IntCodec{}.FromDouble(7))
	assert.Equal(t, 0.0, DoubleCodec{}.FromInt(math.MinInt32))
	assert.Equal(t, 1.0, DoubleCodec{}.FromInt(math.MaxInt32))

	assert.False(t, FlagCodec{}.FromInt(-1))
	assert.True(t, FlagCodec{}.FromInt(0))
	assert.Equal(t, uint8(0), DoubleCodec{}.Byte(math.NaN()))
}
