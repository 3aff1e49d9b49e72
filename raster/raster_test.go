package raster

import (
	"math"
	"testing"

	"github.com/wildfire-hazards/pfdf-go/projection"
)

func sampleTransform() *projection.Transform {
	t, _ := projection.NewTransform(10, -10, 0, 100, projection.FromEPSG(26911))
	return t
}

func TestFromArrayAndDataMask(t *testing.T) {
	values := [][]float64{
		{1, 2, math.NaN()},
		{4, 5, 6},
	}
	nodata := math.NaN()
	r, err := FromArray(values, DTypeFloat64, FromArrayOptions{NoData: &nodata, Transform: sampleTransform()})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	mask := r.DataMask()
	if mask[0][2] {
		t.Error("expected NaN pixel to be masked as nodata")
	}
	if !mask[0][0] || !mask[1][1] {
		t.Error("expected non-NaN pixels to be data")
	}
}

func TestDataMaskAllTrueWithoutNoData(t *testing.T) {
	values := [][]float64{{1, 2}, {3, 4}}
	r, err := FromArray(values, DTypeFloat64, FromArrayOptions{})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	mask := r.DataMask()
	for _, row := range mask {
		for _, v := range row {
			if !v {
				t.Fatal("expected every pixel to be data when nodata is unset")
			}
		}
	}
}

func TestSliceUpdatesTransform(t *testing.T) {
	values := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}
	r, err := FromArray(values, DTypeFloat64, FromArrayOptions{Transform: sampleTransform()})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	sub, err := r.Slice(1, 3, 1, 3)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if sub.NRows != 2 || sub.NCols != 2 {
		t.Fatalf("expected 2x2 slice, got (%d, %d)", sub.NRows, sub.NCols)
	}
	wantLeft, wantTop := r.Transform.XY(1, 1)
	if sub.Transform.Left != wantLeft || sub.Transform.Top != wantTop {
		t.Errorf("slice transform origin = (%v, %v), want (%v, %v)", sub.Transform.Left, sub.Transform.Top, wantLeft, wantTop)
	}
	if sub.At(0, 0) != 5 {
		t.Errorf("sub.At(0,0) = %v, want 5", sub.At(0, 0))
	}
}

func TestEqualIsNaNAware(t *testing.T) {
	nodata := math.NaN()
	a, _ := FromArray([][]float64{{1, math.NaN()}}, DTypeFloat64, FromArrayOptions{NoData: &nodata})
	b, _ := FromArray([][]float64{{1, math.NaN()}}, DTypeFloat64, FromArrayOptions{NoData: &nodata})
	if !a.Equal(b) {
		t.Error("expected NaN-aware equality to hold for identical NaN-bearing rasters")
	}
}

func TestStatisticsExcludesNoData(t *testing.T) {
	nodata := -9999.0
	r, err := FromArray([][]float64{{1, 2, -9999}, {3, 4, 5}}, DTypeFloat64, FromArrayOptions{NoData: &nodata})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	stats := r.Statistics()
	if stats.Count != 5 {
		t.Fatalf("expected 5 data pixels, got %d", stats.Count)
	}
	wantMean := (1.0 + 2 + 3 + 4 + 5) / 5
	if math.Abs(stats.Mean-wantMean) > 1e-9 {
		t.Errorf("Mean = %v, want %v", stats.Mean, wantMean)
	}
	if stats.Min != 1 || stats.Max != 5 {
		t.Errorf("Min/Max = %v/%v, want 1/5", stats.Min, stats.Max)
	}
}
