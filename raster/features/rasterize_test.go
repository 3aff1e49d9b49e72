package features

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

func TestRasterizePointsPadsEdge(t *testing.T) {
	features := []Feature{
		{Geometry: orb.Point{5, 5}, Value: 1},
		{Geometry: orb.Point{25, 25}, Value: 1},
	}
	r, err := Rasterize(features, nil, Options{Kind: KindPoint, DType: raster.DTypeBool, Resolution: 10})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	stats := r.Statistics()
	if stats.Count == 0 {
		t.Fatal("expected at least one painted pixel")
	}
}

func TestRasterizeEmptyFeaturesErrors(t *testing.T) {
	if _, err := Rasterize(nil, nil, Options{Kind: KindPoint, DType: raster.DTypeBool}); err == nil {
		t.Fatal("expected ErrNoFeatures for an empty feature list")
	}
}

func TestFillPolygonCoversInteriorPixels(t *testing.T) {
	square := orb.Polygon{orb.Ring{
		{0, 0}, {40, 0}, {40, 40}, {0, 40}, {0, 0},
	}}
	features := []Feature{{Geometry: square, Value: 1}}
	r, err := Rasterize(features, nil, Options{Kind: KindPolygon, DType: raster.DTypeBool, Resolution: 10})
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	stats := r.Statistics()
	if stats.Count == 0 {
		t.Fatal("expected interior pixels to be painted for a simple square polygon")
	}
}

func TestValidatePolygonDTypeRejectsUnsupported(t *testing.T) {
	if err := validatePolygonDType(raster.DTypeInt64); err == nil {
		t.Fatal("expected int64 to be rejected for polygon rasterization")
	}
	if err := validatePolygonDType(raster.DTypeFloat32); err != nil {
		t.Errorf("expected float32 to be supported, got %v", err)
	}
}
