// Package features builds Rasters from vector feature files: points,
// multipoints, polygons, and multipolygons read from Shapefile,
// GeoJSON, GeoPackage, or FileGDB sources.
package features

import (
	"github.com/paulmach/orb"

	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Kind selects which geometry type a feature file is interpreted as.
type Kind int

const (
	KindPoint Kind = iota
	KindPolygon
)

// Feature pairs a geometry with the (already-resolved) scalar value it
// contributes to the raster: true/false when no field was requested, or
// the field value (post-operation, pre-cast) otherwise.
type Feature struct {
	Geometry orb.Geometry
	Value    float64
}

// Operation transforms a raw field value before casting to the output
// dtype. Returning an error makes the factory fail with
// errors.ErrGeometry; there is no separate error kind for operation
// failures.
type Operation func(value float64) (float64, error)

// polygonDTypes is the restricted dtype set from_polygons supports.
var polygonDTypes = map[raster.DType]bool{
	raster.DTypeBool:    true,
	raster.DTypeInt16:   true,
	raster.DTypeInt32:   true,
	raster.DTypeUint8:   true,
	raster.DTypeUint16:  true,
	raster.DTypeUint32:  true,
	raster.DTypeFloat32: true,
	raster.DTypeFloat64: true,
}

func validatePolygonDType(d raster.DType) error {
	if !polygonDTypes[d] {
		return pfdferrors.WithArg(pfdferrors.ErrPolygon, "dtype", "dtype %s is not supported for polygon rasterization", d)
	}
	return nil
}

// defaultFieldDType returns the default dtype for a field value: int32
// for values that look like whole numbers, float64 otherwise. Feature
// readers that know the source field's declared type (shapefile DBF,
// GeoJSON numeric literal) should prefer that type explicitly instead.
func defaultFieldDType(isInt bool) raster.DType {
	if isInt {
		return raster.DTypeInt32
	}
	return raster.DTypeFloat64
}
