package severity

import (
	"testing"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

func TestClassificationMapping(t *testing.T) {
	want := map[int]string{1: "unburned", 2: "low", 3: "moderate", 4: "high"}
	got := Classification()
	for code, name := range want {
		if got[code] != name {
			t.Errorf("code %d: want %q, got %q", code, name, got[code])
		}
	}
}

func TestEstimateDefaultThresholds(t *testing.T) {
	dnbr, err := raster.FromArray([][]float64{
		{-1, 100, 300, 250},
		{-22, 1000, -1, 200},
		{600, 700, -1, 800},
	}, raster.DTypeFloat64, raster.FromArrayOptions{})
	if err != nil {
		t.Fatalf("building dnbr fixture: %v", err)
	}

	sev, err := Estimate(dnbr)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	want := [][]float64{
		{1, 1, 3, 2},
		{1, 4, 1, 2},
		{4, 4, 1, 4},
	}
	for r := range want {
		for c := range want[r] {
			if sev.At(r, c) != want[r][c] {
				t.Errorf("(%d,%d): want %v, got %v", r, c, want[r][c], sev.At(r, c))
			}
		}
	}
}

func TestEstimateCustomThresholds(t *testing.T) {
	dnbr, err := raster.FromArray([][]float64{
		{-1, 100, 300, 250},
		{-22, 1000, -1, 200},
		{600, 700, -1, 800},
	}, raster.DTypeFloat64, raster.FromArrayOptions{})
	if err != nil {
		t.Fatalf("building dnbr fixture: %v", err)
	}

	sev, err := Estimate(dnbr, 0, 300, 700)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	want := [][]float64{
		{1, 2, 2, 2},
		{1, 4, 1, 2},
		{3, 3, 1, 4},
	}
	for r := range want {
		for c := range want[r] {
			if sev.At(r, c) != want[r][c] {
				t.Errorf("(%d,%d): want %v, got %v", r, c, want[r][c], sev.At(r, c))
			}
		}
	}
}

func TestEstimateWithNoDataInput(t *testing.T) {
	nodata := -1.0
	dnbr, err := raster.FromArray([][]float64{
		{-1, 100, 300, 250},
		{-22, 1000, -1, 200},
		{600, 700, -1, 800},
	}, raster.DTypeFloat64, raster.FromArrayOptions{NoData: &nodata})
	if err != nil {
		t.Fatalf("building dnbr fixture: %v", err)
	}

	sev, err := Estimate(dnbr)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	want := [][]float64{
		{0, 1, 3, 2},
		{1, 4, 0, 2},
		{4, 4, 0, 4},
	}
	for r := range want {
		for c := range want[r] {
			if sev.At(r, c) != want[r][c] {
				t.Errorf("(%d,%d): want %v, got %v", r, c, want[r][c], sev.At(r, c))
			}
		}
	}
}

func TestEstimateRejectsUnsortedThresholds(t *testing.T) {
	dnbr, err := raster.FromArray([][]float64{{1, 2}, {3, 4}}, raster.DTypeFloat64, raster.FromArrayOptions{})
	if err != nil {
		t.Fatalf("building dnbr fixture: %v", err)
	}
	if _, err := Estimate(dnbr, 500, 125); err == nil {
		t.Error("expected an error for unsorted thresholds")
	}
}

func TestMaskSingleLevel(t *testing.T) {
	sev, err := raster.FromArray([][]float64{
		{-1, -1, 2, 4},
		{3, 2, 4, 2},
		{3, -1, -1, 1},
	}, raster.DTypeInt32, raster.FromArrayOptions{})
	if err != nil {
		t.Fatalf("building severity fixture: %v", err)
	}

	mask, err := Mask(sev, "moderate")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	want := [][]float64{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{1, 0, 0, 0},
	}
	for r := range want {
		for c := range want[r] {
			if mask.At(r, c) != want[r][c] {
				t.Errorf("(%d,%d): want %v, got %v", r, c, want[r][c], mask.At(r, c))
			}
		}
	}
}

func TestMaskMultipleLevels(t *testing.T) {
	sev, err := raster.FromArray([][]float64{
		{-1, -1, 2, 4},
		{3, 2, 4, 2},
		{3, -1, -1, 1},
	}, raster.DTypeInt32, raster.FromArrayOptions{})
	if err != nil {
		t.Fatalf("building severity fixture: %v", err)
	}

	mask, err := Mask(sev, "moderate", "high")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	want := [][]float64{
		{0, 0, 0, 1},
		{1, 0, 1, 0},
		{1, 0, 0, 0},
	}
	for r := range want {
		for c := range want[r] {
			if mask.At(r, c) != want[r][c] {
				t.Errorf("(%d,%d): want %v, got %v", r, c, want[r][c], mask.At(r, c))
			}
		}
	}
}

func TestMaskRejectsUnknownLevel(t *testing.T) {
	sev, err := raster.FromArray([][]float64{{1, 2}, {3, 4}}, raster.DTypeInt32, raster.FromArrayOptions{})
	if err != nil {
		t.Fatalf("building severity fixture: %v", err)
	}
	if _, err := Mask(sev, "catastrophic"); err == nil {
		t.Error("expected an error for an unrecognized level name")
	}
}
