package segments

import (
	"testing"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

// constantRaster builds an nrows x ncols raster of a single value, with
// no CRS/transform (matching networkFixture's flow raster).
func constantRaster(t *testing.T, nrows, ncols int, value float64, nodata *float64) *raster.Raster {
	t.Helper()
	grid := make([][]float64, nrows)
	for r := range grid {
		grid[r] = make([]float64, ncols)
		for c := range grid[r] {
			grid[r][c] = value
		}
	}
	r, err := raster.FromArray(grid, raster.DTypeFloat64, raster.FromArrayOptions{NoData: nodata})
	if err != nil {
		t.Fatalf("constantRaster: %v", err)
	}
	return r
}

func TestCatchmentSumPixelCountMatchesNPixels(t *testing.T) {
	s := buildNetwork(t)

	// The fixture's flow raster carries flow only at the 13 pixels the
	// network itself owns, so an unmasked, unweighted catchment pixel
	// count at each outlet must agree exactly with the npixels computed
	// during construction.
	sums, err := s.CatchmentSum(nil, nil, nil, false, false)
	if err != nil {
		t.Fatalf("CatchmentSum: %v", err)
	}
	want := s.NPixels(false)
	for i := range want {
		if sums[i] != want[i] {
			t.Errorf("segment %d: CatchmentSum %v != NPixels %v", s.ids[i], sums[i], want[i])
		}
	}
}

func TestCatchmentMeanUniformValue(t *testing.T) {
	s := buildNetwork(t)

	nodata := -1.0
	values := constantRaster(t, 7, 7, 3, &nodata)

	means, err := s.CatchmentMean(values, nil, nil, false, false)
	if err != nil {
		t.Fatalf("CatchmentMean: %v", err)
	}
	for i, m := range means {
		if m != 3 {
			t.Errorf("segment %d: want mean 3, got %v", s.ids[i], m)
		}
	}
}
