package raster

import "testing"

func TestCanCastSafe(t *testing.T) {
	cases := []struct {
		name  string
		value float64
		dtype DType
		rule  Casting
		ok    bool
	}{
		{"int fits int32 safe", 42, DTypeInt32, CastSafe, true},
		{"float not safe into int32", 1.5, DTypeInt32, CastSafe, false},
		{"float unsafe into int32 truncates", 1.5, DTypeInt32, CastUnsafe, true},
		{"out of range unsafe clamps", 1e20, DTypeInt32, CastUnsafe, true},
		{"no cast requires exact dtype match value", 1, DTypeFloat64, CastNo, true},
		{"bool same_kind from 0/1", 1, DTypeBool, CastSameKind, true},
		{"bool safe rejects 2", 2, DTypeBool, CastSafe, false},
		{"negative into uint8 unsafe clamps to 0", -5, DTypeUint8, CastUnsafe, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, ok := CanCast(c.value, c.dtype, c.rule)
			if ok != c.ok {
				t.Errorf("CanCast(%v, %s, %v) ok = %v, want %v", c.value, c.dtype, c.rule, ok, c.ok)
			}
		})
	}
}

func TestValidateNoDataRequiresCastableValue(t *testing.T) {
	if _, err := ValidateNoData(300, DTypeUint8, CastSafe); err == nil {
		t.Fatal("expected error for nodata value out of uint8 range under safe casting")
	}
	v, err := ValidateNoData(255, DTypeUint8, CastSafe)
	if err != nil || v != 255 {
		t.Fatalf("ValidateNoData(255, uint8, safe) = (%v, %v), want (255, nil)", v, err)
	}
}
