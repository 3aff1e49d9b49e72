package features

import (
	"github.com/wildfire-hazards/pfdf-go/projection"
	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// FieldOptions configures how an attribute field maps to pixel values.
type FieldOptions struct {
	Field     string
	DType     raster.DType
	HasDType  bool
	NoData    *float64
	Casting   raster.Casting
	Operation Operation
}

// FromPointsOptions configures FromPoints.
type FromPointsOptions struct {
	Field      FieldOptions
	Bounds     *projection.BoundingBox
	Resolution float64
	Units      string
	Driver     string
	Layer      string
}

// FromPoints reads point/multipoint features from path and rasterizes
// them: one pixel set per point, with later points in the same pixel
// overwriting earlier ones.
func FromPoints(path string, opts FromPointsOptions) (*raster.Raster, error) {
	return parseFile(path, KindPoint, opts.Field, opts.Bounds, opts.Resolution, opts.Units, LoadOptions{Driver: opts.Driver, Field: opts.Field.Field, Layer: opts.Layer})
}

// FromPolygonsOptions configures FromPolygons.
type FromPolygonsOptions struct {
	Field      FieldOptions
	Bounds     *projection.BoundingBox
	Resolution float64
	Units      string
	Driver     string
	Layer      string
}

// FromPolygons reads polygon/multipolygon features from path and
// rasterizes them: a pixel is set if its center lies inside a polygon,
// via scanline fill.
func FromPolygons(path string, opts FromPolygonsOptions) (*raster.Raster, error) {
	return parseFile(path, KindPolygon, opts.Field, opts.Bounds, opts.Resolution, opts.Units, LoadOptions{Driver: opts.Driver, Field: opts.Field.Field, Layer: opts.Layer})
}

func parseFile(path string, kind Kind, field FieldOptions, bounds *projection.BoundingBox, resolution float64, units string, loadOpts LoadOptions) (*raster.Raster, error) {
	raw, crs, err := loadFile(path, loadOpts)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, pfdferrors.ErrNoFeatures
	}

	hasField := field.Field != ""
	dtype := field.DType
	if hasField && !field.HasDType {
		isInt := true
		for _, rf := range raw {
			if !rf.isInt {
				isInt = false
				break
			}
		}
		dtype = defaultFieldDType(isInt)
	}
	if !hasField {
		dtype = raster.DTypeBool
	}

	feats := make([]Feature, 0, len(raw))
	for _, rf := range raw {
		value := 1.0 // bool true
		if hasField {
			v, ok := rf.field.(float64)
			if !ok {
				return nil, pfdferrors.WithArg(pfdferrors.ErrMissingAPIField, "field", "feature is missing field %q", field.Field)
			}
			if field.Operation != nil {
				var err error
				v, err = field.Operation(v)
				if err != nil {
					return nil, pfdferrors.WithArg(pfdferrors.ErrGeometry, "operation", "field operation failed: %v", err)
				}
			}
			value = v
		}
		feats = append(feats, Feature{Geometry: rf.geometry, Value: value})
	}

	return Rasterize(feats, crs, Options{
		Kind:       kind,
		NoData:     field.NoData,
		DType:      dtype,
		HasField:   hasField,
		Casting:    field.Casting,
		Bounds:     bounds,
		Resolution: resolution,
		Units:      units,
	})
}
