package segments

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
	"github.com/wildfire-hazards/pfdf-go/raster"
)

// writeFile writes data to path, refusing to clobber an existing file
// unless overwrite is set.
func writeFile(path string, data []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "file already exists; pass overwrite to replace it")
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return pfdferrors.WithPath(pfdferrors.ErrFeatureFile, path, "could not write file: %v", err)
	}
	return nil
}

// RasterKind selects what Raster rasterizes.
type RasterKind string

const (
	RasterSegments RasterKind = "segments"
	RasterOutlets  RasterKind = "outlets"
	RasterBasins   RasterKind = "basins"
)

// Raster rasterizes the network as an integer id raster. "segments"
// paints every owned pixel with its segment's id; "outlets" paints
// only outlet pixels (every outlet, or only terminal outlets when
// terminalOnly is set); "basins" calls LocateBasins.
func (s *Segments) Raster(kind RasterKind, terminalOnly bool) (*raster.Raster, error) {
	nrows, ncols := s.Flow.NRows, s.Flow.NCols

	switch kind {
	case RasterBasins:
		return s.LocateBasins(false, 0)

	case RasterOutlets:
		grid := make([][]float64, nrows)
		for r := range grid {
			grid[r] = make([]float64, ncols)
		}
		for i, o := range s.outlet {
			if terminalOnly && s.child[i] >= 0 {
				continue
			}
			grid[o[0]][o[1]] = float64(s.ids[i])
		}
		meta, err := raster.NewMetadata(nrows, ncols,
			raster.WithDType(raster.DTypeInt32), raster.WithNoData(0),
			raster.WithCRS(s.Flow.CRS), raster.WithTransform(s.Flow.Transform))
		if err != nil {
			return nil, err
		}
		return raster.New(meta, grid, false)

	case RasterSegments:
		grid := make([][]float64, nrows)
		for r := range grid {
			grid[r] = make([]float64, ncols)
		}
		for i, pixels := range s.pixels {
			id := float64(s.ids[i])
			for _, p := range pixels {
				grid[p[0]][p[1]] = id
			}
		}
		meta, err := raster.NewMetadata(nrows, ncols,
			raster.WithDType(raster.DTypeInt32), raster.WithNoData(0),
			raster.WithCRS(s.Flow.CRS), raster.WithTransform(s.Flow.Transform))
		if err != nil {
			return nil, err
		}
		return raster.New(meta, grid, false)

	default:
		return nil, pfdferrors.WithArg(pfdferrors.ErrSegmentID, "kind", "unrecognized raster kind %q", kind)
	}
}

// GeoJSONKind selects what GeoJSON emits.
type GeoJSONKind string

const (
	GeoJSONSegments GeoJSONKind = "segments"
	GeoJSONOutlets  GeoJSONKind = "outlets"
)

// GeoJSON builds a FeatureCollection: for "segments", one LineString
// feature per segment; for "outlets", one Point feature per outlet (or
// per terminal outlet only, if terminalOnly). properties maps a field
// name to a per-segment value slice (in id/position order) attached to
// every feature; "id" is always included even if not requested.
func (s *Segments) GeoJSON(kind GeoJSONKind, properties map[string][]any, terminalOnly bool) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()

	attach := func(f *geojson.Feature, i int) error {
		f.Properties["id"] = s.ids[i]
		for name, values := range properties {
			if i >= len(values) {
				return pfdferrors.WithArg(pfdferrors.ErrSegmentID, "properties", "property %q has %d values, need %d", name, len(values), len(s.ids))
			}
			f.Properties[name] = values[i]
		}
		return nil
	}

	switch kind {
	case GeoJSONSegments:
		for i, line := range s.lines {
			f := geojson.NewFeature(orb.Geometry(line))
			if err := attach(f, i); err != nil {
				return nil, err
			}
			fc.Append(f)
		}

	case GeoJSONOutlets:
		for i, o := range s.outlet {
			if terminalOnly && s.child[i] >= 0 {
				continue
			}
			var x, y float64
			if s.Flow.Transform != nil {
				x, y = s.Flow.Transform.Center(o[0], o[1])
			} else {
				x, y = float64(o[1])+0.5, float64(o[0])+0.5
			}
			f := geojson.NewFeature(orb.Geometry(orb.Point{x, y}))
			if err := attach(f, i); err != nil {
				return nil, err
			}
			fc.Append(f)
		}

	default:
		return nil, pfdferrors.WithArg(pfdferrors.ErrSegmentID, "kind", "unrecognized geojson kind %q", kind)
	}

	return fc, nil
}

// Save writes GeoJSON(kind, properties, terminalOnly) to path. If
// overwrite is false and the file already exists, it refuses to
// clobber it.
func (s *Segments) Save(path string, kind GeoJSONKind, properties map[string][]any, terminalOnly, overwrite bool) error {
	fc, err := s.GeoJSON(kind, properties, terminalOnly)
	if err != nil {
		return err
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return writeFile(path, data, overwrite)
}
