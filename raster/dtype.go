package raster

import (
	"fmt"
	"math"
)

// DType enumerates the value types a Raster may hold: bool plus the
// signed, unsigned, and floating-point integer widths GDAL bands
// support.
type DType int

const (
	DTypeUnknown DType = iota
	DTypeBool
	DTypeInt8
	DTypeInt16
	DTypeInt32
	DTypeInt64
	DTypeUint8
	DTypeUint16
	DTypeUint32
	DTypeUint64
	DTypeFloat32
	DTypeFloat64
)

func (d DType) String() string {
	switch d {
	case DTypeBool:
		return "bool"
	case DTypeInt8:
		return "int8"
	case DTypeInt16:
		return "int16"
	case DTypeInt32:
		return "int32"
	case DTypeInt64:
		return "int64"
	case DTypeUint8:
		return "uint8"
	case DTypeUint16:
		return "uint16"
	case DTypeUint32:
		return "uint32"
	case DTypeUint64:
		return "uint64"
	case DTypeFloat32:
		return "float32"
	case DTypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// IsFloat reports whether d is a floating-point type.
func (d DType) IsFloat() bool {
	return d == DTypeFloat32 || d == DTypeFloat64
}

// IsInteger reports whether d is a signed or unsigned integer type.
func (d DType) IsInteger() bool {
	switch d {
	case DTypeInt8, DTypeInt16, DTypeInt32, DTypeInt64,
		DTypeUint8, DTypeUint16, DTypeUint32, DTypeUint64:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether d is an unsigned integer type.
func (d DType) IsUnsigned() bool {
	switch d {
	case DTypeUint8, DTypeUint16, DTypeUint32, DTypeUint64:
		return true
	default:
		return false
	}
}

// intRange returns the representable [min, max] of an integer dtype as
// float64. Only meaningful for integer types.
func (d DType) intRange() (min, max float64) {
	switch d {
	case DTypeBool:
		return 0, 1
	case DTypeInt8:
		return -128, 127
	case DTypeInt16:
		return -32768, 32767
	case DTypeInt32:
		return -2147483648, 2147483647
	case DTypeInt64:
		return -9223372036854775808, 9223372036854775807
	case DTypeUint8:
		return 0, 255
	case DTypeUint16:
		return 0, 65535
	case DTypeUint32:
		return 0, 4294967295
	case DTypeUint64:
		return 0, 18446744073709551615
	default:
		return 0, 0
	}
}

// DefaultNoData returns the default NoData value for d: the smallest
// representable signed value for signed integers, 0 for unsigned
// integers, NaN for floats, and false for bool.
func DefaultNoData(d DType) (any, error) {
	switch d {
	case DTypeBool:
		return false, nil
	case DTypeFloat32:
		return float32(math.NaN()), nil
	case DTypeFloat64:
		return math.NaN(), nil
	case DTypeUint8, DTypeUint16, DTypeUint32, DTypeUint64:
		return 0.0, nil
	case DTypeInt8, DTypeInt16, DTypeInt32, DTypeInt64:
		min, _ := d.intRange()
		return min, nil
	default:
		return nil, fmt.Errorf("no default nodata for dtype %s", d)
	}
}
