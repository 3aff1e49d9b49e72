package dem

import (
	"errors"
	"testing"

	"github.com/wildfire-hazards/pfdf-go/projection"
	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

func TestDatasetResolvesSupportedResolutions(t *testing.T) {
	for resolution, want := range Resolutions {
		got, err := Dataset(resolution)
		if err != nil {
			t.Fatalf("Dataset(%q): %v", resolution, err)
		}
		if got != want {
			t.Errorf("Dataset(%q) = %q, want %q", resolution, got, want)
		}
	}
}

func TestDatasetRejectsUnsupportedResolution(t *testing.T) {
	_, err := Dataset("1/27 arc-second")
	if !errors.Is(err, pfdferrors.ErrDataAPI) {
		t.Fatalf("want ErrDataAPI, got %v", err)
	}
}

func TestValidateTileCountRejectsTooMany(t *testing.T) {
	err := validateTileCount(12, DefaultMaxTiles)
	if !errors.Is(err, pfdferrors.ErrTooManyTNMProducts) {
		t.Fatalf("want ErrTooManyTNMProducts, got %v", err)
	}
}

func TestValidateTileCountRejectsZero(t *testing.T) {
	err := validateTileCount(0, DefaultMaxTiles)
	if !errors.Is(err, pfdferrors.ErrNoTNMProducts) {
		t.Fatalf("want ErrNoTNMProducts, got %v", err)
	}
}

func TestValidateTileCountAcceptsWithinLimit(t *testing.T) {
	if err := validateTileCount(3, DefaultMaxTiles); err != nil {
		t.Fatalf("validateTileCount: %v", err)
	}
}

func newTileRaster(t *testing.T, left, top float64, nrows, ncols int, dx, dy float64) *raster.Raster {
	t.Helper()
	values := make([][]float64, nrows)
	for i := range values {
		values[i] = make([]float64, ncols)
	}
	crs := projection.FromEPSG(4326)
	transform, err := projection.NewTransform(dx, dy, left, top, crs)
	if err != nil {
		t.Fatalf("NewTransform: %v", err)
	}
	nodata := -9999.0
	ras, err := raster.FromArray(values, raster.DTypeFloat64, raster.FromArrayOptions{
		NoData:    &nodata,
		CRS:       crs,
		Transform: transform,
	})
	if err != nil {
		t.Fatalf("FromArray: %v", err)
	}
	return ras
}

func TestMosaicMetadataUnionsBounds(t *testing.T) {
	topLeft := newTileRaster(t, 0, 10, 5, 5, 1, -1)
	bottomRight := newTileRaster(t, 5, 5, 5, 5, 1, -1)

	meta, err := mosaicMetadata([]*raster.Raster{topLeft, bottomRight})
	if err != nil {
		t.Fatalf("mosaicMetadata: %v", err)
	}
	if meta.NRows != 10 || meta.NCols != 10 {
		t.Fatalf("want shape (10,10), got (%d,%d)", meta.NRows, meta.NCols)
	}
	if meta.Transform.Left != 0 || meta.Transform.Top != 10 {
		t.Errorf("want mosaic origin (0,10), got (%v,%v)", meta.Transform.Left, meta.Transform.Top)
	}
}

func TestPixelWindowLocatesTileOffset(t *testing.T) {
	topLeft := newTileRaster(t, 0, 10, 5, 5, 1, -1)
	bottomRight := newTileRaster(t, 5, 5, 5, 5, 1, -1)
	meta, err := mosaicMetadata([]*raster.Raster{topLeft, bottomRight})
	if err != nil {
		t.Fatalf("mosaicMetadata: %v", err)
	}

	r0, r1, c0, c1 := pixelWindow(meta.Transform, bottomRight)
	if r0 != 5 || r1 != 10 || c0 != 5 || c1 != 10 {
		t.Errorf("want window [5:10, 5:10], got [%d:%d, %d:%d]", r0, r1, c0, c1)
	}
}
