package raster

import (
	"math"
	"sort"

	"github.com/alitto/pond"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Resampling selects the algorithm Reproject uses to combine source
// pixels into each destination pixel.
type Resampling int

const (
	ResampleNearest Resampling = iota
	ResampleBilinear
	ResampleCubic
	ResampleCubicSpline
	ResampleLanczos
	ResampleAverage
	ResampleMode
	ResampleMax
	ResampleMin
	ResampleMed
	ResampleQ1
	ResampleQ3
	ResampleSum
	ResampleRMS
)

// ReprojectOptions configures Reproject. Exactly one of Template or
// (CRS/Transform) should be supplied; Template, when given, supplies
// any crs/transform not explicitly overridden.
type ReprojectOptions struct {
	Template      *RasterMetadata
	CRS           *projection.CRS
	Transform     *projection.Transform
	Resampling    Resampling
	NumThreads    int
	WarpMemLimitMB int
}

// Reproject resamples r onto a new pixel grid that is an integer pixel
// translation of the template/transform's grid and fully covers r's
// extent. Requires NoData.
func (r *Raster) Reproject(opts ReprojectOptions) (*Raster, error) {
	if !r.HasNoData {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingNoData, "nodata", "reproject requires a nodata value")
	}
	if r.Transform == nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingTransform, "transform", "reproject requires a source transform")
	}

	dstCRS := opts.CRS
	dstDx, dstDy := r.Transform.Dx, r.Transform.Dy
	var originLeft, originTop float64
	haveOrigin := false

	if opts.Template != nil {
		if dstCRS == nil {
			dstCRS = opts.Template.CRS
		}
		if opts.Transform == nil && opts.Template.Transform != nil {
			dstDx, dstDy = opts.Template.Transform.Dx, opts.Template.Transform.Dy
			originLeft, originTop = opts.Template.Transform.Left, opts.Template.Transform.Top
			haveOrigin = true
		}
	}
	if opts.Transform != nil {
		dstDx, dstDy = opts.Transform.Dx, opts.Transform.Dy
		originLeft, originTop = opts.Transform.Left, opts.Transform.Top
		haveOrigin = true
	}
	if dstCRS == nil {
		dstCRS = r.CRS
	}

	// Round-trip identity: reprojecting onto r's own crs/transform
	// returns an equal raster.
	sameCRS, err := r.CRS.Compatible(dstCRS)
	if err != nil {
		return nil, err
	}
	if sameCRS && !haveOrigin {
		return r.Slice(0, r.NRows, 0, r.NCols)
	}

	bounds := r.Transform.Bounds(r.NRows, r.NCols)
	dstBounds, err := bounds.Reproject(dstCRS)
	if err != nil {
		return nil, err
	}

	if !haveOrigin {
		// derive dstDx/dstDy scale preserving source resolution in
		// destination units when no explicit template/transform grid
		// was given: align to an integer multiple of dstDx/dstDy
		// starting at the source origin.
		originLeft, originTop = dstBounds.Left, dstBounds.Top
	} else {
		// align destination origin to an integer pixel translation of
		// the template grid that still covers the source extent.
		originLeft = originLeft + math.Floor((dstBounds.Left-originLeft)/dstDx)*dstDx
		originTop = originTop + math.Floor((dstBounds.Top-originTop)/dstDy)*dstDy
	}

	ncols := int(math.Ceil((dstBounds.Right - originLeft) / dstDx))
	nrows := int(math.Ceil((dstBounds.Bottom - originTop) / dstDy))
	if ncols <= 0 || nrows <= 0 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMemory, "reproject", "computed destination shape is empty")
	}
	if int64(nrows)*int64(ncols) > 1<<30 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMemory, "reproject", "destination raster (%d x %d) is too large; narrow bounds or coarsen resolution", nrows, ncols)
	}

	dstTransform := &projection.Transform{Dx: dstDx, Dy: dstDy, Left: originLeft, Top: originTop, CRS: dstCRS}

	grid := allocGrid(nrows, ncols)

	resample := func(row0, row1 int) {
		for i := row0; i < row1; i++ {
			for j := 0; j < ncols; j++ {
				x, y := dstTransform.Center(i, j)
				grid[i][j] = r.resampleAt(x, y, dstCRS, opts.Resampling)
			}
		}
	}

	threads := opts.NumThreads
	if threads <= 1 {
		resample(0, nrows)
	} else {
		pool := pond.New(threads, 0, pond.MinWorkers(threads))
		chunk := (nrows + threads - 1) / threads
		for start := 0; start < nrows; start += chunk {
			end := start + chunk
			if end > nrows {
				end = nrows
			}
			s, e := start, end
			pool.Submit(func() { resample(s, e) })
		}
		pool.StopAndWait()
	}

	meta := &RasterMetadata{NRows: nrows, NCols: ncols, DType: r.DType, HasNoData: true, NoData: r.NoData, CRS: dstCRS, Transform: dstTransform}
	return &Raster{RasterMetadata: meta, values: grid}, nil
}

// resampleAt resamples the source raster at world coordinate (x, y)
// expressed in dstCRS.
func (r *Raster) resampleAt(x, y float64, dstCRS *projection.CRS, algo Resampling) float64 {
	srcX, srcY := x, y
	sameCRS, _ := r.CRS.Compatible(dstCRS)
	if !sameCRS {
		xs, ys, err := projection.Reproject(dstCRS, r.CRS, []float64{x}, []float64{y})
		if err != nil {
			return r.NoData
		}
		srcX, srcY = xs[0], ys[0]
	}

	col := (srcX - r.Transform.Left) / r.Transform.Dx
	row := (srcY - r.Transform.Top) / r.Transform.Dy

	switch algo {
	case ResampleNearest:
		return r.nearest(row, col)
	case ResampleBilinear:
		return r.bilinear(row, col)
	default:
		return r.windowAggregate(row, col, algo)
	}
}

func (r *Raster) nearest(row, col float64) float64 {
	ri, ci := int(math.Floor(row)), int(math.Floor(col))
	if ri < 0 || ci < 0 || ri >= r.NRows || ci >= r.NCols {
		return r.NoData
	}
	return r.values[ri][ci]
}

func (r *Raster) bilinear(row, col float64) float64 {
	r0 := int(math.Floor(row - 0.5))
	c0 := int(math.Floor(col - 0.5))
	fr := row - 0.5 - float64(r0)
	fc := col - 0.5 - float64(c0)

	get := func(i, j int) (float64, bool) {
		if i < 0 || j < 0 || i >= r.NRows || j >= r.NCols {
			return 0, false
		}
		v := r.values[i][j]
		if r.HasNoData && NaNAwareEqual(v, r.NoData) {
			return 0, false
		}
		return v, true
	}

	v00, ok00 := get(r0, c0)
	v01, ok01 := get(r0, c0+1)
	v10, ok10 := get(r0+1, c0)
	v11, ok11 := get(r0+1, c0+1)
	if !ok00 || !ok01 || !ok10 || !ok11 {
		return r.nearest(row, col)
	}
	top := v00*(1-fc) + v01*fc
	bottom := v10*(1-fc) + v11*fc
	return top*(1-fr) + bottom*fr
}

// windowAggregate covers the statistical resamplers. Each one reduces
// the non-NoData source pixels in a fixed window reaching one pixel past
// the mapped (row, col) on every side (4x4 for a fractional position,
// 3x3 for an integral one); the window does not scale with the
// destination pixel size. The cubic family is approximated by that
// window's average -- a documented simplification, see DESIGN.md.
func (r *Raster) windowAggregate(row, col float64, algo Resampling) float64 {
	r0 := int(math.Floor(row - 1))
	r1 := int(math.Ceil(row + 1))
	c0 := int(math.Floor(col - 1))
	c1 := int(math.Ceil(col + 1))

	var values []float64
	for i := r0; i <= r1; i++ {
		if i < 0 || i >= r.NRows {
			continue
		}
		for j := c0; j <= c1; j++ {
			if j < 0 || j >= r.NCols {
				continue
			}
			v := r.values[i][j]
			if r.HasNoData && NaNAwareEqual(v, r.NoData) {
				continue
			}
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return r.NoData
	}

	switch algo {
	case ResampleMax:
		return maxOf(values)
	case ResampleMin:
		return minOf(values)
	case ResampleSum:
		return sumOf(values)
	case ResampleAverage, ResampleCubic, ResampleCubicSpline, ResampleLanczos:
		return sumOf(values) / float64(len(values))
	case ResampleMode:
		return modeOf(values)
	case ResampleMed:
		return percentile(values, 0.5)
	case ResampleQ1:
		return percentile(values, 0.25)
	case ResampleQ3:
		return percentile(values, 0.75)
	case ResampleRMS:
		var sumSq float64
		for _, v := range values {
			sumSq += v * v
		}
		return math.Sqrt(sumSq / float64(len(values)))
	default:
		return sumOf(values) / float64(len(values))
	}
}

func sumOf(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func modeOf(values []float64) float64 {
	counts := make(map[float64]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	var best float64
	bestCount := -1
	for _, v := range values {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

func percentile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
