package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// FlagCodec stores booleans. Persisted units are bit-packed, eight pixels per
// byte, least significant bit first.
type FlagCodec struct{}

// Kind returns Flag.
func (FlagCodec) Kind() Kind { return Flag }

// Width is one byte per flag in memory; persisted flags take one bit.
func (FlagCodec) Width() int64 { return 1 }

// Less orders false before true.
func (FlagCodec) Less(a, b bool) bool { return !a && b }

// FromBoolean stores v unchanged.
func (FlagCodec) FromBoolean(v bool) bool { return v }

// FromByte sets the flag for samples of 128 and above.
func (FlagCodec) FromByte(v uint8) bool { return byteToBool(v) }

// FromInt sets the flag for non-negative samples, the upper half of the
// int32 range.
func (FlagCodec) FromInt(v int32) bool { return intToBool(v) }

// FromDouble sets the flag for values of 0.5 and above.
func (FlagCodec) FromDouble(v float64) bool { return doubleToBool(v) }

// Boolean returns v unchanged.
func (FlagCodec) Boolean(v bool) bool { return v }

// Byte maps false to 0 and true to 255.
func (FlagCodec) Byte(v bool) uint8 { return boolToByte(v) }

// Int maps false to math.MinInt32 and true to math.MaxInt32.
func (FlagCodec) Int(v bool) int32 { return boolToInt(v) }

// Double maps false to 0 and true to 1.
func (FlagCodec) Double(v bool) float64 { return boolToDouble(v) }

// Load reads pixel i of src through its boolean view.
func (FlagCodec) Load(src Source, i int64) (bool, error) {
	return src.PixelBoolean(i)
}

// EncodedLen is n bits rounded up to whole bytes.
func (FlagCodec) EncodedLen(n int) int { return (n + 7) / 8 }

// Encode packs src into dst, flag i at bit i&7 of byte i>>3. Unused high
// bits of the last byte are cleared.
func (FlagCodec) Encode(dst []byte, src []bool) {
	n := (len(src) + 7) / 8
	clear(dst[:n])
	for i, v := range src {
		if v {
			dst[i>>3] |= 1 << (i & 7)
		}
	}
}

// Decode unpacks len(dst) flags written by Encode.
func (c FlagCodec) Decode(dst []bool, src []byte) error {
	if len(src) < c.EncodedLen(len(dst)) {
		return fmt.Errorf("%w: %d bytes for %d flags", ErrShortBuffer, len(src), len(dst))
	}
	for i := range dst {
		dst[i] = src[i>>3]&(1<<(i&7)) != 0
	}
	return nil
}

// ByteCodec stores unsigned 8-bit samples.
type ByteCodec struct{}

// Kind returns Byte.
func (ByteCodec) Kind() Kind { return Byte }

// Width is one byte per sample.
func (ByteCodec) Width() int64 { return 1 }

func (ByteCodec) Less(a, b uint8) bool { return a < b }

// FromBoolean stores 255 for true and 0 for false.
func (ByteCodec) FromBoolean(v bool) uint8 { return boolToByte(v) }

// FromByte stores v unchanged.
func (ByteCodec) FromByte(v uint8) uint8 { return v }

// FromInt rescales the int32 range onto 0..255: (v-MinInt32)/16843009.
func (ByteCodec) FromInt(v int32) uint8 { return intToByte(v) }

// FromDouble stores round(v*255), clamped to 0..255.
func (ByteCodec) FromDouble(v float64) uint8 { return doubleToByte(v) }

// Boolean is true for samples of 128 and above.
func (ByteCodec) Boolean(v uint8) bool { return byteToBool(v) }

// Byte returns v unchanged.
func (ByteCodec) Byte(v uint8) uint8 { return v }

// Int stretches 0..255 over the int32 range: v*16843009 + MinInt32, so 0
// maps to math.MinInt32 and 255 to math.MaxInt32.
func (ByteCodec) Int(v uint8) int32 { return byteToInt(v) }

// Double returns v/255.
func (ByteCodec) Double(v uint8) float64 { return byteToDouble(v) }

// Load reads pixel i of src through its byte view.
func (ByteCodec) Load(src Source, i int64) (uint8, error) {
	return src.PixelByte(i)
}

// EncodedLen is one byte per sample.
func (ByteCodec) EncodedLen(n int) int { return n }

// Encode copies the samples verbatim.
func (ByteCodec) Encode(dst []byte, src []uint8) {
	copy(dst, src)
}

// Decode copies len(dst) samples out of src.
func (ByteCodec) Decode(dst []uint8, src []byte) error {
	if len(src) < len(dst) {
		return fmt.Errorf("%w: %d bytes for %d samples", ErrShortBuffer, len(src), len(dst))
	}
	copy(dst, src)
	return nil
}

// IntCodec stores signed 32-bit samples, little-endian when persisted.
type IntCodec struct{}

// Kind returns Int.
func (IntCodec) Kind() Kind { return Int }

// Width is four bytes per sample.
func (IntCodec) Width() int64 { return 4 }

func (IntCodec) Less(a, b int32) bool { return a < b }

// FromBoolean stores math.MaxInt32 for true and math.MinInt32 for false.
func (IntCodec) FromBoolean(v bool) int32 { return boolToInt(v) }

// FromByte stretches 0..255 over the int32 range: v*16843009 + MinInt32.
func (IntCodec) FromByte(v uint8) int32 { return byteToInt(v) }

// FromInt stores v unchanged.
func (IntCodec) FromInt(v int32) int32 { return v }

// FromDouble stores round(v*(2^32-1)) + MinInt32, clamped to the int32
// range, so 0 maps to math.MinInt32 and 1 to math.MaxInt32.
func (IntCodec) FromDouble(v float64) int32 { return doubleToInt(v) }

// Boolean is true for non-negative samples.
func (IntCodec) Boolean(v int32) bool { return intToBool(v) }

// Byte returns (v-MinInt32)/16843009, the inverse of FromByte.
func (IntCodec) Byte(v int32) uint8 { return intToByte(v) }

// Int returns v unchanged.
func (IntCodec) Int(v int32) int32 { return v }

// Double returns (v-MinInt32)/(2^32-1), in [0,1].
func (IntCodec) Double(v int32) float64 { return intToDouble(v) }

// Load reads pixel i of src through its int view.
func (IntCodec) Load(src Source, i int64) (int32, error) {
	return src.PixelInt(i)
}

// EncodedLen is four bytes per sample.
func (IntCodec) EncodedLen(n int) int { return 4 * n }

// Encode writes each sample as four little-endian bytes of its two's
// complement form.
func (IntCodec) Encode(dst []byte, src []int32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[4*i:], uint32(v))
	}
}

// Decode reads len(dst) little-endian samples written by Encode.
func (IntCodec) Decode(dst []int32, src []byte) error {
	if len(src) < 4*len(dst) {
		return fmt.Errorf("%w: %d bytes for %d samples", ErrShortBuffer, len(src), len(dst))
	}
	for i := range dst {
		dst[i] = int32(binary.LittleEndian.Uint32(src[4*i:]))
	}
	return nil
}

// DoubleCodec stores 64-bit real samples as IEEE 754 bits, little-endian when
// persisted.
type DoubleCodec struct{}

// Kind returns Double.
func (DoubleCodec) Kind() Kind { return Double }

// Width is eight bytes per sample.
func (DoubleCodec) Width() int64 { return 8 }

func (DoubleCodec) Less(a, b float64) bool { return a < b }

// FromBoolean stores 1 for true and 0 for false.
func (DoubleCodec) FromBoolean(v bool) float64 { return boolToDouble(v) }

// FromByte stores v/255.
func (DoubleCodec) FromByte(v uint8) float64 { return byteToDouble(v) }

// FromInt stores (v-MinInt32)/(2^32-1), mapping the int32 range onto [0,1].
func (DoubleCodec) FromInt(v int32) float64 { return intToDouble(v) }

// FromDouble stores v unchanged.
func (DoubleCodec) FromDouble(v float64) float64 { return v }

// Boolean is true for values of 0.5 and above.
func (DoubleCodec) Boolean(v float64) bool { return doubleToBool(v) }

// Byte returns round(v*255), clamped to 0..255.
func (DoubleCodec) Byte(v float64) uint8 { return doubleToByte(v) }

// Int returns round(v*(2^32-1)) + MinInt32, clamped to the int32 range.
func (DoubleCodec) Int(v float64) int32 { return doubleToInt(v) }

// Double returns v unchanged.
func (DoubleCodec) Double(v float64) float64 { return v }

// Load reads pixel i of src through its double view.
func (DoubleCodec) Load(src Source, i int64) (float64, error) {
	return src.PixelDouble(i)
}

// EncodedLen is eight bytes per sample.
func (DoubleCodec) EncodedLen(n int) int { return 8 * n }

// Encode writes the IEEE 754 bits of each sample, little-endian. NaNs keep
// their payload.
func (DoubleCodec) Encode(dst []byte, src []float64) {
	for i, v := range src {
		binary.LittleEndian.PutUint64(dst[8*i:], math.Float64bits(v))
	}
}

// Decode reads len(dst) samples written by Encode.
func (DoubleCodec) Decode(dst []float64, src []byte) error {
	if len(src) < 8*len(dst) {
		return fmt.Errorf("%w: %d bytes for %d samples", ErrShortBuffer, len(src), len(dst))
	}
	for i := range dst {
		dst[i] = math.Float64frombits(binary.LittleEndian.Uint64(src[8*i:]))
	}
	return nil
}

var (
	_ Codec[bool]    = FlagCodec{}
	_ Codec[uint8]   = ByteCodec{}
	_ Codec[int32]   = IntCodec{}
	_ Codec[float64] = DoubleCodec{}
)
