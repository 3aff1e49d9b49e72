package raster

import (
	"math"
	"testing"

	"github.com/wildfire-hazards/pfdf-go/projection"
)

func TestReprojectIdentityRoundTrip(t *testing.T) {
	nodata := -1.0
	transform, _ := projection.NewTransform(10, -10, 0, 100, nil)
	r, err := FromArray([][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	}, DTypeFloat64, FromArrayOptions{NoData: &nodata, Transform: transform})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}

	out, err := r.Reproject(ReprojectOptions{Resampling: ResampleNearest})
	if err != nil {
		t.Fatalf("Reproject: %v", err)
	}
	if !r.Equal(out) {
		t.Errorf("expected identity reprojection to round-trip; got shape (%d,%d) vs (%d,%d)", out.NRows, out.NCols, r.NRows, r.NCols)
	}
}

func TestReprojectRequiresNoData(t *testing.T) {
	transform, _ := projection.NewTransform(10, -10, 0, 100, nil)
	r, err := FromArray([][]float64{{1, 2}, {3, 4}}, DTypeFloat64, FromArrayOptions{Transform: transform})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	if _, err := r.Reproject(ReprojectOptions{}); err == nil {
		t.Fatal("expected error when reprojecting a raster without nodata")
	}
}

func TestWindowAggregateStatistics(t *testing.T) {
	values := []float64{1, 2, 2, 3, 100}
	if got := maxOf(values); got != 100 {
		t.Errorf("maxOf = %v, want 100", got)
	}
	if got := minOf(values); got != 1 {
		t.Errorf("minOf = %v, want 1", got)
	}
	if got := modeOf(values); got != 2 {
		t.Errorf("modeOf = %v, want 2", got)
	}
	if got := percentile(values, 0.5); got != 2 {
		t.Errorf("percentile(0.5) = %v, want 2", got)
	}
}

func TestBilinearAveragesNeighbors(t *testing.T) {
	nodata := math.Inf(-1)
	transform, _ := projection.NewTransform(1, -1, 0, 0, nil)
	r, err := FromArray([][]float64{
		{0, 0},
		{0, 4},
	}, DTypeFloat64, FromArrayOptions{NoData: &nodata, Transform: transform})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	got := r.bilinear(1.0, 1.0)
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("bilinear at corner junction = %v, want 1.0", got)
	}
}
