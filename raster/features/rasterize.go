package features

import (
	"math"
	"sort"

	"github.com/paulmach/orb"

	"github.com/wildfire-hazards/pfdf-go/projection"
	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Options configures the shared rasterization pipeline used by both
// FromPoints and FromPolygons.
type Options struct {
	Kind          Kind
	NoData        *float64
	DType         raster.DType
	HasField      bool
	Casting       raster.Casting
	Bounds        *projection.BoundingBox
	Resolution    float64 // default 10
	Units         string  // default "meters"
}

// Rasterize builds a Raster from features whose Value field already
// carries the cast-ready scalar (post field-operation, pre final cast).
// It computes the minimal axis-aligned grid at the requested resolution
// that contains every selected feature, applying the point/polygon
// boundary-padding and fill rules.
func Rasterize(features []Feature, crs *projection.CRS, opts Options) (*raster.Raster, error) {
	if len(features) == 0 {
		return nil, pfdferrors.ErrNoFeatures
	}

	resolution := opts.Resolution
	if resolution == 0 {
		resolution = 10
	}
	units := opts.Units
	if units == "" {
		units = "meters"
	}

	selected := features
	if opts.Bounds != nil {
		selected = selected[:0]
		for _, f := range features {
			b := geometryBound(f.Geometry)
			if boundsIntersect(b, opts.Bounds) {
				selected = append(selected, f)
			}
		}
		if len(selected) == 0 {
			return nil, pfdferrors.ErrNoFeatures
		}
	}

	extent := geometryBound(selected[0].Geometry)
	for _, f := range selected[1:] {
		extent = extent.Union(geometryBound(f.Geometry))
	}

	unitsPerMeter, err := unitsPerMeterFactor(units)
	if err != nil {
		return nil, err
	}
	var refLat *float64
	if crs != nil {
		angular, err := crs.IsAngular()
		if err == nil && angular {
			lat := (extent.Min[1] + extent.Max[1]) / 2
			refLat = &lat
		}
	}
	xPerM, yPerM := 1.0, 1.0
	if crs.IsSet() {
		xPerM, yPerM, err = crs.UnitsPerM(refLat)
		if err != nil {
			return nil, err
		}
	}
	dx := resolution / unitsPerMeter / xPerM
	dy := resolution / unitsPerMeter / yPerM

	ncols := int(math.Ceil((extent.Max[0] - extent.Min[0]) / dx))
	nrows := int(math.Ceil((extent.Max[1] - extent.Min[1]) / dy))
	if ncols < 1 {
		ncols = 1
	}
	if nrows < 1 {
		nrows = 1
	}
	if opts.Kind == KindPoint {
		// pad by one pixel on the right and bottom so points on the
		// exact edge still land on a pixel.
		ncols++
		nrows++
	}

	transform := &projection.Transform{Dx: dx, Dy: -dy, Left: extent.Min[0], Top: extent.Max[1], CRS: crs}

	grid := make([][]float64, nrows)
	for i := range grid {
		grid[i] = make([]float64, ncols)
		for j := range grid[i] {
			grid[i][j] = math.NaN()
		}
	}
	painted := make([][]bool, nrows)
	for i := range painted {
		painted[i] = make([]bool, ncols)
	}

	switch opts.Kind {
	case KindPoint:
		rasterizePoints(selected, transform, nrows, ncols, grid, painted)
	case KindPolygon:
		if err := validatePolygonDType(opts.DType); err != nil {
			return nil, err
		}
		rasterizePolygons(selected, transform, nrows, ncols, grid, painted)
	}

	nodata := 0.0
	if opts.NoData != nil {
		nodata = *opts.NoData
	} else if !opts.HasField {
		nodata = 0 // bool false
	} else {
		def, err := raster.DefaultNoData(opts.DType)
		if err != nil {
			return nil, err
		}
		switch v := def.(type) {
		case float64:
			nodata = v
		case bool:
			if v {
				nodata = 1
			}
		}
	}

	casting := opts.Casting
	if casting == 0 {
		casting = raster.CastSafe
	}

	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			if !painted[i][j] {
				grid[i][j] = nodata
				continue
			}
			cast, ok := raster.CanCast(grid[i][j], opts.DType, casting)
			if !ok {
				return nil, pfdferrors.WithArg(pfdferrors.ErrUnsafeCast, "value", "feature value %v is not castable to dtype %s", grid[i][j], opts.DType)
			}
			grid[i][j] = cast
		}
	}

	meta, err := raster.NewMetadata(nrows, ncols, raster.WithDType(opts.DType), raster.WithNoData(nodata), raster.WithCRS(crs), raster.WithTransform(transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}

func unitsPerMeterFactor(units string) (float64, error) {
	switch units {
	case "meters", "metres", "metre", "meter":
		return 1, nil
	case "feet", "foot":
		return 1 / 0.3048, nil
	case "kilometers", "kilometres":
		return 0.001, nil
	default:
		return 0, pfdferrors.WithArg(pfdferrors.ErrShape, "units", "unsupported units %q", units)
	}
}

func geometryBound(g orb.Geometry) orb.Bound {
	return g.Bound()
}

func boundsIntersect(b orb.Bound, bounds *projection.BoundingBox) bool {
	left, right := bounds.Left, bounds.Right
	if left > right {
		left, right = right, left
	}
	bottom, top := bounds.Bottom, bounds.Top
	if bottom > top {
		bottom, top = top, bottom
	}
	return b.Max[0] >= left && b.Min[0] <= right && b.Max[1] >= bottom && b.Min[1] <= top
}

func rasterizePoints(features []Feature, t *projection.Transform, nrows, ncols int, grid [][]float64, painted [][]bool) {
	for _, f := range features {
		for _, pt := range points(f.Geometry) {
			col := int((pt[0] - t.Left) / t.Dx)
			row := int((pt[1] - t.Top) / t.Dy)
			if row < 0 || row >= nrows || col < 0 || col >= ncols {
				continue
			}
			grid[row][col] = f.Value // last point in the same pixel wins
			painted[row][col] = true
		}
	}
}

func points(g orb.Geometry) []orb.Point {
	switch v := g.(type) {
	case orb.Point:
		return []orb.Point{v}
	case orb.MultiPoint:
		return []orb.Point(v)
	default:
		return nil
	}
}

// rasterizePolygons fills each selected polygon (and multipolygon member)
// using a scanline algorithm: for each pixel row, the row's center
// latitude is intersected against every ring edge, intersections are
// sorted, and interior spans (using the even-odd rule, with holes as
// reversed-parity rings) are painted.
func rasterizePolygons(features []Feature, t *projection.Transform, nrows, ncols int, grid [][]float64, painted [][]bool) {
	for _, f := range features {
		for _, poly := range polygons(f.Geometry) {
			fillPolygon(poly, f.Value, t, nrows, ncols, grid, painted)
		}
	}
}

func polygons(g orb.Geometry) []orb.Polygon {
	switch v := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{v}
	case orb.MultiPolygon:
		return []orb.Polygon(v)
	default:
		return nil
	}
}

type edge struct {
	y0, y1, x0, x1 float64
}

func ringEdges(ring orb.Ring) []edge {
	edges := make([]edge, 0, len(ring))
	for i := 0; i < len(ring); i++ {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		edges = append(edges, edge{y0: a[1], y1: b[1], x0: a[0], x1: b[0]})
	}
	return edges
}

func fillPolygon(poly orb.Polygon, value float64, t *projection.Transform, nrows, ncols int, grid [][]float64, painted [][]bool) {
	var edges []edge
	for _, ring := range poly {
		edges = append(edges, ringEdges(ring)...)
	}

	for row := 0; row < nrows; row++ {
		_, y := t.Center(row, 0)
		var xs []float64
		for _, e := range edges {
			ylo, yhi := e.y0, e.y1
			if ylo == yhi {
				continue
			}
			if (y >= ylo && y < yhi) || (y >= yhi && y < ylo) {
				x := e.x0 + (y-e.y0)/(e.y1-e.y0)*(e.x1-e.x0)
				xs = append(xs, x)
			}
		}
		if len(xs) == 0 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xStart, xEnd := xs[i], xs[i+1]
			colStart := int(math.Ceil((xStart - t.Left) / t.Dx))
			colEnd := int(math.Floor((xEnd - t.Left) / t.Dx))
			for col := colStart; col <= colEnd; col++ {
				if col < 0 || col >= ncols {
					continue
				}
				cx, _ := t.Center(row, col)
				if cx < xStart || cx > xEnd {
					continue
				}
				grid[row][col] = value
				painted[row][col] = true
			}
		}
	}
}
