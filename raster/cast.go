package raster

import (
	"math"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Casting controls how a value may convert into a target DType,
// mirroring numpy's casting rule precedence.
type Casting int

const (
	// CastNo requires the value to already be of the target dtype.
	CastNo Casting = iota
	// CastEquiv allows casts that do not change the value's bit
	// pattern in a meaningful way (e.g. int32 -> uint32 of the same
	// width is not equiv; only identical-kind-and-width casts are).
	CastEquiv
	// CastSafe allows casts that cannot lose precision or overflow.
	CastSafe
	// CastSameKind allows safe casts plus same-kind casts that may
	// lose precision (e.g. float64 -> float32).
	CastSameKind
	// CastUnsafe allows any cast representable in the target's value
	// space, truncating/wrapping as needed.
	CastUnsafe
)

// CanCast reports whether value can be cast into dtype under rule,
// and returns the cast value when it can.
func CanCast(value float64, dtype DType, rule Casting) (float64, bool) {
	if rule == CastUnsafe {
		return clampToDType(value, dtype), true
	}

	isNaN := math.IsNaN(value)
	if dtype.IsFloat() {
		// Any real float64 (or NaN) safely represents in float64;
		// float32 loses precision under CastSafe/CastNo but is fine
		// under CastSameKind and beyond.
		if dtype == DTypeFloat64 {
			return value, true
		}
		if isNaN {
			return value, true
		}
		if rule == CastNo || rule == CastEquiv || rule == CastSafe {
			return value, float64(float32(value)) == value
		}
		return float64(float32(value)), true
	}

	if isNaN {
		// NaN has no integer/bool representation under any rule
		// weaker than unsafe.
		return 0, false
	}

	if dtype == DTypeBool {
		if value == 0 || value == 1 {
			return value, true
		}
		if rule == CastSameKind {
			return boolOf(value), true
		}
		return 0, false
	}

	min, max := dtype.intRange()
	isIntValue := value == math.Trunc(value)
	switch rule {
	case CastNo:
		return value, isIntValue && value >= min && value <= max
	case CastEquiv, CastSafe:
		return value, isIntValue && value >= min && value <= max
	case CastSameKind:
		v := math.Trunc(value)
		return v, v >= min && v <= max
	}
	return 0, false
}

func boolOf(v float64) float64 {
	if v != 0 {
		return 1
	}
	return 0
}

func clampToDType(value float64, dtype DType) float64 {
	if dtype.IsFloat() {
		if dtype == DTypeFloat32 {
			return float64(float32(value))
		}
		return value
	}
	if dtype == DTypeBool {
		return boolOf(value)
	}
	if math.IsNaN(value) {
		return 0
	}
	min, max := dtype.intRange()
	v := math.Trunc(value)
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ValidateNoData checks that nodata is representable in dtype under
// rule, returning the (possibly cast) value.
func ValidateNoData(nodata float64, dtype DType, rule Casting) (float64, error) {
	v, ok := CanCast(nodata, dtype, rule)
	if !ok {
		return 0, pfdferrors.WithArg(pfdferrors.ErrUnsafeCast, "nodata", "value %v is not representable in dtype %s under casting rule", nodata, dtype)
	}
	return v, nil
}
