package codec

import (
	"math"
)

const (
	// byteToIntScale maps 0..255 onto the full int32 range: 255*16843009 = 2^32-1.
	byteToIntScale = 16843009

	// intSpan is the width of the int32 range, 2^32-1.
	intSpan = 4294967295
)

func boolToByte(v bool) uint8 {
	if v {
		return 255
	}
	return 0
}

func boolToInt(v bool) int32 {
	if v {
		return math.MaxInt32
	}
	return math.MinInt32
}

func boolToDouble(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func byteToBool(v uint8) bool {
	return v >= 128
}

func byteToInt(v uint8) int32 {
	return int32(int64(v)*byteToIntScale + math.MinInt32)
}

func byteToDouble(v uint8) float64 {
	return float64(v) / 255
}

func intToBool(v int32) bool {
	return v >= 0
}

func intToByte(v int32) uint8 {
	return uint8((int64(v) - math.MinInt32) / byteToIntScale)
}

func intToDouble(v int32) float64 {
	return float64(int64(v)-math.MinInt32) / intSpan
}

func doubleToBool(v float64) bool {
	return v >= 0.5
}

func doubleToByte(v float64) uint8 {
	r := math.Round(v * 255)
	switch {
	case math.IsNaN(r) || r <= 0:
		return 0
	case r >= 255:
		return 255
	default:
		return uint8(r)
	}
}

func doubleToInt(v float64) int32 {
	r := math.Round(v * intSpan)
	switch {
	case math.IsNaN(r) || r <= 0:
		return math.MinInt32
	case r >= intSpan:
		return math.MaxInt32
	default:
		return int32(int64(r) + math.MinInt32)
	}
}
