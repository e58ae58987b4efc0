// Package codec defines the four pixel value kinds and the conversions
// between them.
//
// Every image, paged or fully resident, stores one native kind and answers
// reads and writes in any of the four external representations (boolean,
// byte, int, double). The same conversion rules are used everywhere so that
// copies and comparisons between images agree bit for bit:
//
//	kind    boolean       byte               int                        double
//	flag    native        false→0, true→255  false→MinInt32, true→Max   0.0 / 1.0
//	byte    raw >= 128    native             raw*16843009 + MinInt32    raw/255
//	int     raw >= 0      (raw-Min)/16843009 native                     (raw-Min)/(2^32-1)
//	double  raw >= 0.5    round(raw*255)     round(raw*(2^32-1))+Min    native
//
// Alternate representations are computed on demand; nothing is cached.
package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShortBuffer is returned by Decode when the encoded data is too small for
// the destination unit.
var ErrShortBuffer = errors.New("encoded unit too short")

// Kind identifies the native value kind of an image.
type Kind uint8

const (
	// Flag stores one boolean per pixel.
	Flag Kind = iota + 1
	// Byte stores one unsigned 8-bit sample per pixel.
	Byte
	// Int stores one signed 32-bit sample per pixel.
	Int
	// Double stores one 64-bit real sample per pixel.
	Double
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Flag:
		return "flag"
	case Byte:
		return "byte"
	case Int:
		return "int"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Width is the in-memory footprint of one element in bytes.
func (k Kind) Width() int64 {
	switch k {
	case Flag, Byte:
		return 1
	case Int:
		return 4
	case Double:
		return 8
	default:
		return 0
	}
}

// ParseKind accepts the names printed by String, plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "flag", "bool", "boolean":
		return Flag, nil
	case "byte", "uint8":
		return Byte, nil
	case "int", "int32", "integer":
		return Int, nil
	case "double", "float64", "real":
		return Double, nil
	default:
		return 0, fmt.Errorf("unknown value kind %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Element is the closed set of native element types.
type Element interface {
	bool | uint8 | int32 | float64
}

// Source is anything that can be read pixel by pixel in all four
// representations.
type Source interface {
	PixelBoolean(i int64) (bool, error)
	PixelByte(i int64) (uint8, error)
	PixelInt(i int64) (int32, error)
	PixelDouble(i int64) (float64, error)
}

// Codec converts between the native element T and the four external
// representations, and serializes units of T for persistence.
type Codec[T Element] interface {
	Kind() Kind

	// Width is the in-memory size of one element in bytes.
	Width() int64

	// Less orders native values (false < true for flags).
	Less(a, b T) bool

	FromBoolean(v bool) T
	FromByte(v uint8) T
	FromInt(v int32) T
	FromDouble(v float64) T

	Boolean(v T) bool
	Byte(v T) uint8
	Int(v T) int32
	Double(v T) float64

	// Load reads pixel i of src in this kind's own representation.
	Load(src Source, i int64) (T, error)

	// EncodedLen is the number of bytes Encode writes for n elements.
	EncodedLen(n int) int

	// Encode writes src into dst, which must hold EncodedLen(len(src)) bytes.
	Encode(dst []byte, src []T)

	// Decode fills dst from data written by Encode.
	Decode(dst []T, src []byte) error
}

// For returns the codec of the element type T.
func For[T Element]() Codec[T] {
	var zero T
	switch any(zero).(type) {
	case bool:
		return any(FlagCodec{}).(Codec[T])
	case uint8:
		return any(ByteCodec{}).(Codec[T])
	case int32:
		return any(IntCodec{}).(Codec[T])
	default:
		return any(DoubleCodec{}).(Codec[T])
	}
}

// KindOf returns the kind stored natively as T.
func KindOf[T Element]() Kind {
	return For[T]().Kind()
}
