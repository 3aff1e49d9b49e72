package raster

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Fill replaces NoData pixels with value and clears the raster's
// NoData setting afterwards. value must be safely castable to dtype.
func (r *Raster) Fill(value float64) (*Raster, error) {
	cast, ok := CanCast(value, r.DType, CastSafe)
	if !ok {
		return nil, pfdferrors.WithArg(pfdferrors.ErrUnsafeCast, "value", "%v is not safely castable to dtype %s", value, r.DType)
	}

	grid := allocGrid(r.NRows, r.NCols)
	mask := r.NoDataMask()
	for i := 0; i < r.NRows; i++ {
		for j := 0; j < r.NCols; j++ {
			if mask[i][j] {
				grid[i][j] = cast
			} else {
				grid[i][j] = r.values[i][j]
			}
		}
	}

	meta := &RasterMetadata{NRows: r.NRows, NCols: r.NCols, DType: r.DType, CRS: r.CRS, Transform: r.Transform}
	return &Raster{RasterMetadata: meta, values: grid}, nil
}

// Find returns a new boolean Raster (nodata=false) marking pixels whose
// values equal any element of values. NaN matches NaN.
func (r *Raster) Find(values []float64) (*Raster, error) {
	grid := allocGrid(r.NRows, r.NCols)
	for i := 0; i < r.NRows; i++ {
		for j := 0; j < r.NCols; j++ {
			v := r.values[i][j]
			found := false
			for _, candidate := range values {
				if NaNAwareEqual(v, candidate) {
					found = true
					break
				}
			}
			if found {
				grid[i][j] = 1
			}
		}
	}
	meta, err := NewMetadata(r.NRows, r.NCols, WithDType(DTypeBool), WithNoData(0), WithCRS(r.CRS), withTransformOrNil(r.Transform))
	if err != nil {
		return nil, err
	}
	return &Raster{RasterMetadata: meta, values: grid}, nil
}

func withTransformOrNil(t *projection.Transform) NewMetadataOption {
	if t == nil {
		return func(*metadataOptions) {}
	}
	return WithTransform(t)
}

// SetRangeOptions configures SetRange.
type SetRangeOptions struct {
	Min, Max      *float64
	Fill          bool
	ExcludeBounds bool
}

// SetRange requires at least one of Min/Max. Pixels outside the range
// are, if Fill is set, replaced with NoData (which must already be
// set); ExcludeBounds is only legal together with Fill.
func (r *Raster) SetRange(opts SetRangeOptions) (*Raster, error) {
	if opts.Min == nil && opts.Max == nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "min/max", "at least one of min or max must be provided")
	}
	if opts.ExcludeBounds && !opts.Fill {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "exclude_bounds", "may only be set together with fill=true")
	}
	if opts.Fill && !r.HasNoData {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingNoData, "nodata", "raster must have nodata set to use fill=true")
	}

	inRange := func(v float64) bool {
		if math.IsNaN(v) {
			return true
		}
		if opts.Min != nil {
			if opts.ExcludeBounds && v <= *opts.Min {
				return false
			}
			if !opts.ExcludeBounds && v < *opts.Min {
				return false
			}
		}
		if opts.Max != nil {
			if opts.ExcludeBounds && v >= *opts.Max {
				return false
			}
			if !opts.ExcludeBounds && v > *opts.Max {
				return false
			}
		}
		return true
	}

	grid := allocGrid(r.NRows, r.NCols)
	for i := 0; i < r.NRows; i++ {
		for j := 0; j < r.NCols; j++ {
			v := r.values[i][j]
			if !inRange(v) {
				if opts.Fill {
					grid[i][j] = r.NoData
					continue
				}
				if opts.Min != nil && v < *opts.Min {
					v = *opts.Min
				}
				if opts.Max != nil && v > *opts.Max {
					v = *opts.Max
				}
			}
			grid[i][j] = v
		}
	}

	meta := &RasterMetadata{NRows: r.NRows, NCols: r.NCols, DType: r.DType, HasNoData: r.HasNoData, NoData: r.NoData, CRS: r.CRS, Transform: r.Transform}
	return &Raster{RasterMetadata: meta, values: grid}, nil
}

// BufferOptions configures Buffer. Distance is the default applied to
// any unset side; Left/Right/Bottom/Top override it per side.
type BufferOptions struct {
	Distance                          *float64
	Units                             string // defaults to "meters"
	Left, Right, Bottom, Top          *float64
}

// Buffer extends the grid by a whole number of pixels on each side,
// rounding the requested distance up to the next pixel. Requires
// NoData to be set.
func (r *Raster) Buffer(opts BufferOptions) (*Raster, error) {
	if !r.HasNoData {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingNoData, "nodata", "buffer requires a nodata value")
	}
	if r.Transform == nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingTransform, "transform", "buffer requires a transform")
	}

	units := opts.Units
	if units == "" {
		units = "meters"
	}
	unitsPerMeter, err := unitsPerMeterFactor(units)
	if err != nil {
		return nil, err
	}

	resolve := func(side *float64) (*float64, error) {
		if side != nil {
			return side, nil
		}
		return opts.Distance, nil
	}

	leftD, _ := resolve(opts.Left)
	rightD, _ := resolve(opts.Right)
	bottomD, _ := resolve(opts.Bottom)
	topD, _ := resolve(opts.Top)

	if leftD == nil && rightD == nil && bottomD == nil && topD == nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "distance", "at least one buffer distance must be provided")
	}

	xres, yres, err := r.Transform.Resolution(unitsPerMeter, nil)
	if err != nil {
		return nil, err
	}

	pixelsFor := func(d *float64, res float64) (int, error) {
		if d == nil {
			return 0, nil
		}
		if *d < 0 {
			return 0, pfdferrors.WithArg(pfdferrors.ErrShape, "distance", "must not be negative, got %v", *d)
		}
		if *d == 0 {
			return 0, pfdferrors.WithArg(pfdferrors.ErrShape, "distance", "must not be zero")
		}
		return int(math.Ceil(*d / res)), nil
	}

	leftPx, err := pixelsFor(leftD, xres)
	if err != nil {
		return nil, err
	}
	rightPx, err := pixelsFor(rightD, xres)
	if err != nil {
		return nil, err
	}
	bottomPx, err := pixelsFor(bottomD, yres)
	if err != nil {
		return nil, err
	}
	topPx, err := pixelsFor(topD, yres)
	if err != nil {
		return nil, err
	}

	newRows := r.NRows + topPx + bottomPx
	newCols := r.NCols + leftPx + rightPx

	grid := allocGrid(newRows, newCols)
	for i := range grid {
		for j := range grid[i] {
			grid[i][j] = r.NoData
		}
	}
	for i := 0; i < r.NRows; i++ {
		copy(grid[i+topPx][leftPx:leftPx+r.NCols], r.values[i])
	}

	newLeft, newTop := r.Transform.XY(-topPx, -leftPx)
	transform := &projection.Transform{Dx: r.Transform.Dx, Dy: r.Transform.Dy, Left: newLeft, Top: newTop, CRS: r.Transform.CRS}

	meta := &RasterMetadata{NRows: newRows, NCols: newCols, DType: r.DType, HasNoData: true, NoData: r.NoData, CRS: r.CRS, Transform: transform}
	return &Raster{RasterMetadata: meta, values: grid}, nil
}

// UnitsPerMeter returns the conversion factor from meters to units (e.g.
// 1/0.3048 for "feet"), shared by Buffer and any caller converting a
// georeferenced distance into a linear unit of its choosing.
func UnitsPerMeter(units string) (float64, error) {
	return unitsPerMeterFactor(units)
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

// Clip windows or extends the grid to bounds. Regions outside the
// original extent are filled with NoData; requires a transform, and
// NoData whenever extension beyond the original extent is required.
func (r *Raster) Clip(bounds *projection.BoundingBox) (*Raster, error) {
	if r.Transform == nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingTransform, "transform", "clip requires a transform")
	}
	matched, err := bounds.MatchCRS(r.CRS)
	if err != nil {
		return nil, err
	}

	oriented := matched.Orient(r.Transform.Quadrant())

	colOf := func(x float64) float64 { return (x - r.Transform.Left) / r.Transform.Dx }
	rowOf := func(y float64) float64 { return (y - r.Transform.Top) / r.Transform.Dy }

	c0f, c1f := colOf(oriented.Left), colOf(oriented.Right)
	r0f, r1f := rowOf(oriented.Top), rowOf(oriented.Bottom)
	if c0f > c1f {
		c0f, c1f = c1f, c0f
	}
	if r0f > r1f {
		r0f, r1f = r1f, r0f
	}

	c0 := int(math.Round(c0f))
	c1 := int(math.Round(c1f))
	r0 := int(math.Round(r0f))
	r1 := int(math.Round(r1f))

	needsExtension := r0 < 0 || c0 < 0 || r1 > r.NRows || c1 > r.NCols
	if needsExtension && !r.HasNoData {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingNoData, "nodata", "clip requires nodata when extending beyond the original extent")
	}

	newRows := r1 - r0
	newCols := c1 - c0
	if newRows <= 0 || newCols <= 0 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "bounds", "clipped shape is empty")
	}

	grid := allocGrid(newRows, newCols)
	for i := range grid {
		for j := range grid[i] {
			grid[i][j] = r.NoData
		}
	}

	for i := 0; i < newRows; i++ {
		srcRow := r0 + i
		if srcRow < 0 || srcRow >= r.NRows {
			continue
		}
		for j := 0; j < newCols; j++ {
			srcCol := c0 + j
			if srcCol < 0 || srcCol >= r.NCols {
				continue
			}
			grid[i][j] = r.values[srcRow][srcCol]
		}
	}

	newLeft, newTop := r.Transform.XY(r0, c0)
	transform := &projection.Transform{Dx: r.Transform.Dx, Dy: r.Transform.Dy, Left: newLeft, Top: newTop, CRS: r.Transform.CRS}
	meta := &RasterMetadata{NRows: newRows, NCols: newCols, DType: r.DType, HasNoData: r.HasNoData, NoData: r.NoData, CRS: r.CRS, Transform: transform}
	return &Raster{RasterMetadata: meta, values: grid}, nil
}
