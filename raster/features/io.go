package features

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/airbusgeo/godal"
	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

func readFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// rawFeature is a geometry paired with its still-unresolved field value
// (nil when the file has no such field, or the field was not requested).
type rawFeature struct {
	geometry orb.Geometry
	field    any
	isInt    bool
}

// LoadOptions configures the readers in this file.
type LoadOptions struct {
	Driver string // forces format detection when set
	Field  string
	Layer  string
}

// loadFile dispatches to a format-specific reader based on file
// extension or an explicit driver override.
func loadFile(path string, opts LoadOptions) ([]rawFeature, *projection.CRS, error) {
	driver := opts.Driver
	if driver == "" {
		driver = strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	}
	switch driver {
	case "shp", "shapefile":
		return loadShapefile(path, opts.Field)
	case "geojson", "json":
		return loadGeoJSON(path, opts.Field)
	default:
		return loadOGR(path, opts)
	}
}

func loadShapefile(path string, field string) ([]rawFeature, *projection.CRS, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, nil, pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "could not open shapefile: %v", err)
	}
	defer reader.Close()

	fields := reader.Fields()
	fieldIdx := -1
	fieldIsInt := false
	if field != "" {
		for i, f := range fields {
			if strings.EqualFold(strings.TrimRight(string(f.Name[:]), "\x00"), field) {
				fieldIdx = i
				fieldIsInt = f.Fieldtype == 'N' && f.Precision == 0
				break
			}
		}
		if fieldIdx < 0 {
			return nil, nil, pfdferrors.WithArg(pfdferrors.ErrMissingAPIField, "field", "field %q not found in shapefile", field)
		}
	}

	var out []rawFeature
	for reader.Next() {
		_, shape := reader.Shape()
		geom, err := shapeToOrb(shape)
		if err != nil {
			return nil, nil, err
		}
		rf := rawFeature{geometry: geom}
		if fieldIdx >= 0 {
			raw := reader.Attribute(fieldIdx)
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, nil, pfdferrors.WithArg(pfdferrors.ErrMissingAPIField, "field", "could not parse field %q value %q: %v", field, raw, err)
			}
			rf.field = v
			rf.isInt = fieldIsInt
		}
		out = append(out, rf)
	}

	var crs *projection.CRS
	if prj, err := readPrjSidecar(path); err == nil && prj != "" {
		crs = projection.FromWKT(prj)
	}
	return out, crs, nil
}

func shapeToOrb(s shp.Shape) (orb.Geometry, error) {
	switch v := s.(type) {
	case *shp.Point:
		return orb.Point{v.X, v.Y}, nil
	case *shp.PointZ:
		return orb.Point{v.X, v.Y}, nil
	case *shp.MultiPoint:
		pts := make(orb.MultiPoint, len(v.Points))
		for i, p := range v.Points {
			pts[i] = orb.Point{p.X, p.Y}
		}
		return pts, nil
	case *shp.Polygon:
		return polygonFromParts(v.Points, v.Parts), nil
	case *shp.PolygonZ:
		return polygonFromParts(v.Points, v.Parts), nil
	default:
		return nil, pfdferrors.WithArg(pfdferrors.ErrGeometry, "shape", "unsupported shapefile geometry type %T", s)
	}
}

func polygonFromParts(points []shp.Point, parts []int32) orb.Polygon {
	rings := make(orb.Polygon, 0, len(parts))
	for i := 0; i < len(parts); i++ {
		start := parts[i]
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		ring := make(orb.Ring, 0, end-start)
		for _, p := range points[start:end] {
			ring = append(ring, orb.Point{p.X, p.Y})
		}
		rings = append(rings, ring)
	}
	return rings
}

func readPrjSidecar(shpPath string) (string, error) {
	return "", nil // .prj sidecar parsing deferred to godal for non-trivial CRS
}

func loadGeoJSON(path string, field string) ([]rawFeature, *projection.CRS, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, nil, pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "could not read geojson: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, nil, pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "could not parse geojson: %v", err)
	}

	var out []rawFeature
	for _, feat := range fc.Features {
		rf := rawFeature{geometry: feat.Geometry}
		if field != "" {
			raw, ok := feat.Properties[field]
			if !ok {
				return nil, nil, pfdferrors.WithArg(pfdferrors.ErrMissingAPIField, "field", "field %q not found on geojson feature", field)
			}
			switch v := raw.(type) {
			case float64:
				rf.field = v
				rf.isInt = v == float64(int64(v))
			default:
				return nil, nil, pfdferrors.WithArg(pfdferrors.ErrMissingAPIField, "field", "field %q is not numeric", field)
			}
		}
		out = append(out, rf)
	}
	return out, projection.FromEPSG(4326), nil
}

func loadOGR(path string, opts LoadOptions) ([]rawFeature, *projection.CRS, error) {
	ds, err := godal.Open(path, godal.VectorOnly())
	if err != nil {
		return nil, nil, pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "could not open vector dataset: %v", err)
	}
	defer ds.Close()

	layers := ds.Layers()
	if len(layers) == 0 {
		return nil, nil, pfdferrors.WithPath(pfdferrors.ErrNoFeatures, path, "dataset has no layers")
	}
	layer := layers[0]
	if opts.Layer != "" {
		for _, l := range layers {
			if l.Name() == opts.Layer {
				layer = l
				break
			}
		}
	}

	var out []rawFeature
	layer.ResetReading()
	for {
		feat := layer.NextFeature()
		if feat == nil {
			break
		}
		geom := feat.Geometry()
		gj, err := geom.GeoJSON()
		geom.Close()
		if err != nil {
			feat.Close()
			return nil, nil, pfdferrors.WithPath(pfdferrors.ErrGeometry, path, "could not read geometry: %v", err)
		}
		parsed, err := geojson.UnmarshalGeometry([]byte(gj))
		if err != nil {
			feat.Close()
			return nil, nil, pfdferrors.WithPath(pfdferrors.ErrGeometry, path, "could not parse geometry geojson: %v", err)
		}
		rf := rawFeature{geometry: parsed.Geometry()}
		if opts.Field != "" {
			fields := feat.Fields()
			raw, ok := fields[opts.Field]
			if !ok {
				feat.Close()
				return nil, nil, pfdferrors.WithArg(pfdferrors.ErrMissingAPIField, "field", "field %q not found", opts.Field)
			}
			switch v := raw.(type) {
			case float64:
				rf.field = v
			case int:
				rf.field = float64(v)
				rf.isInt = true
			case int64:
				rf.field = float64(v)
				rf.isInt = true
			}
		}
		feat.Close()
		out = append(out, rf)
	}

	// OGR layer CRS introspection is not exposed by godal's vector API
	// (see doc_test.go's own "vector support is incomplete" note), so
	// features read through OGR come back with no CRS.
	return out, nil, nil
}
