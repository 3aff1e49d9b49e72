package tilecache

import (
	"math"
	"testing"
)

func TestCreateMosaicFillsNoData(t *testing.T) {
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	mosaic, err := cache.CreateMosaic("dem", 4, 5, math.NaN())
	if err != nil {
		t.Fatalf("CreateMosaic: %v", err)
	}

	got, err := mosaic.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	for i, v := range got {
		if !math.IsNaN(v) {
			t.Fatalf("cell %d: want NaN fill, got %v", i, v)
		}
	}
}

func TestWriteWindowThenReadWindowRoundTrips(t *testing.T) {
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	mosaic, err := cache.CreateMosaic("dem", 6, 6, -9999)
	if err != nil {
		t.Fatalf("CreateMosaic: %v", err)
	}

	tile := []float64{1, 2, 3, 4, 5, 6}
	if err := mosaic.WriteWindow(2, 4, 1, 4, tile); err != nil {
		t.Fatalf("WriteWindow: %v", err)
	}

	got, err := mosaic.ReadWindow(2, 4, 1, 4)
	if err != nil {
		t.Fatalf("ReadWindow: %v", err)
	}
	for i := range tile {
		if got[i] != tile[i] {
			t.Errorf("cell %d: want %v, got %v", i, tile[i], got[i])
		}
	}

	outside, err := mosaic.ReadWindow(0, 1, 0, 1)
	if err != nil {
		t.Fatalf("ReadWindow outside: %v", err)
	}
	if outside[0] != -9999 {
		t.Errorf("want untouched cell to stay at nodata -9999, got %v", outside[0])
	}
}

func TestOpenMosaicReportsShapeAndNoData(t *testing.T) {
	cache, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := cache.CreateMosaic("dem", 3, 7, 0); err != nil {
		t.Fatalf("CreateMosaic: %v", err)
	}

	mosaic, err := cache.OpenMosaic("dem", 3, 7, 0)
	if err != nil {
		t.Fatalf("OpenMosaic: %v", err)
	}
	nrows, ncols := mosaic.Shape()
	if nrows != 3 || ncols != 7 {
		t.Errorf("want shape (3,7), got (%d,%d)", nrows, ncols)
	}
	if mosaic.NoData() != 0 {
		t.Errorf("want nodata 0, got %v", mosaic.NoData())
	}
}
