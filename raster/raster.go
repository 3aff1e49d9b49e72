package raster

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Raster is a RasterMetadata plus an owned, read-only 2-D value array.
// Values are canonicalized to float64 internally; DType governs casting
// at every boundary (factories, preprocessing, save) so callers observe
// the declared dtype's semantics without pfdf-go needing one Go type
// per numpy dtype.
type Raster struct {
	*RasterMetadata
	values [][]float64 // values[row][col], owned; treat as read-only
}

// New constructs a Raster from metadata and a value grid. The grid is
// copied unless copy is false, in which case the caller is asserting
// values will not be mutated afterwards (used by internal call sites
// that just allocated a fresh grid).
func New(meta *RasterMetadata, values [][]float64, copyValues bool) (*Raster, error) {
	if len(values) != meta.NRows {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "values", "expected %d rows, got %d", meta.NRows, len(values))
	}
	for i, row := range values {
		if len(row) != meta.NCols {
			return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "values", "row %d: expected %d cols, got %d", i, meta.NCols, len(row))
		}
	}
	v := values
	if copyValues {
		v = copyGrid(values)
	}
	return &Raster{RasterMetadata: meta, values: v}, nil
}

func copyGrid(values [][]float64) [][]float64 {
	out := make([][]float64, len(values))
	for i, row := range values {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

func allocGrid(nrows, ncols int) [][]float64 {
	out := make([][]float64, nrows)
	buf := make([]float64, nrows*ncols)
	for i := range out {
		out[i] = buf[i*ncols : (i+1)*ncols]
	}
	return out
}

// Values returns a read-only view of the value grid. Callers must not
// mutate the returned slices.
func (r *Raster) Values() [][]float64 {
	return r.values
}

// At returns the value at (row, col).
func (r *Raster) At(row, col int) float64 {
	return r.values[row][col]
}

// IsNoData reports whether the value at (row, col) equals the raster's
// nodata value (NaN-aware).
func (r *Raster) IsNoData(row, col int) bool {
	if !r.HasNoData {
		return false
	}
	return NaNAwareEqual(r.values[row][col], r.NoData)
}

// NoDataMask returns a boolean grid, true where the pixel equals nodata
// (NaN-aware). If nodata is unset, every pixel is false.
func (r *Raster) NoDataMask() [][]bool {
	mask := make([][]bool, r.NRows)
	for i := 0; i < r.NRows; i++ {
		row := make([]bool, r.NCols)
		if r.HasNoData {
			for j := 0; j < r.NCols; j++ {
				row[j] = NaNAwareEqual(r.values[i][j], r.NoData)
			}
		}
		mask[i] = row
	}
	return mask
}

// DataMask returns the logical negation of NoDataMask: true where the
// pixel holds real data. If nodata is unset, every pixel is true.
func (r *Raster) DataMask() [][]bool {
	mask := make([][]bool, r.NRows)
	for i := 0; i < r.NRows; i++ {
		row := make([]bool, r.NCols)
		if r.HasNoData {
			for j := 0; j < r.NCols; j++ {
				row[j] = !NaNAwareEqual(r.values[i][j], r.NoData)
			}
		} else {
			for j := range row {
				row[j] = true
			}
		}
		mask[i] = row
	}
	return mask
}

// Slice returns a new Raster over rows [r0,r1) and cols [c0,c1), with
// an updated transform. The resulting shape may not contain zero.
func (r *Raster) Slice(r0, r1, c0, c1 int) (*Raster, error) {
	if r0 < 0 || c0 < 0 || r1 > r.NRows || c1 > r.NCols || r0 >= r1 || c0 >= c1 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "slice", "bounds [%d:%d, %d:%d] are invalid for shape (%d, %d)", r0, r1, c0, c1, r.NRows, r.NCols)
	}
	nrows, ncols := r1-r0, c1-c0

	values := make([][]float64, nrows)
	for i := 0; i < nrows; i++ {
		values[i] = r.values[r0+i][c0:c1:c1]
	}

	var transform *projection.Transform
	if r.Transform != nil {
		left, top := r.Transform.XY(r0, c0)
		transform = &projection.Transform{Dx: r.Transform.Dx, Dy: r.Transform.Dy, Left: left, Top: top, CRS: r.Transform.CRS}
	}

	meta := &RasterMetadata{NRows: nrows, NCols: ncols, DType: r.DType, HasNoData: r.HasNoData, NoData: r.NoData, CRS: r.CRS, Transform: transform}
	return &Raster{RasterMetadata: meta, values: values}, nil
}

// Equal reports whether r and other have equal nodata (NaN-aware),
// transform, crs, and values (NaN-aware).
func (r *Raster) Equal(other *Raster) bool {
	if r == nil || other == nil {
		return r == other
	}
	if r.HasNoData != other.HasNoData {
		return false
	}
	if r.HasNoData && !NaNAwareEqual(r.NoData, other.NoData) {
		return false
	}
	if !r.Transform.Equal(other.Transform) {
		return false
	}
	if ok, err := r.CRS.Compatible(other.CRS); err != nil || !ok {
		return false
	}
	if r.NRows != other.NRows || r.NCols != other.NCols {
		return false
	}
	for i := 0; i < r.NRows; i++ {
		for j := 0; j < r.NCols; j++ {
			if !NaNAwareEqual(r.values[i][j], other.values[i][j]) {
				return false
			}
		}
	}
	return true
}

// MatchesFlow validates that other has the same shape (and, when
// georeferenced, the same crs/transform) as the flow raster a Segments
// network was built over -- the compatibility check required before
// any per-segment or catchment statistic runs.
func (r *Raster) MatchesFlow(other *Raster, name string) error {
	return r.RasterMetadata.matches(other.RasterMetadata, name, true, true)
}

// Statistics reports min/max/mean/stdev over the raster's data-mask
// pixels (§3.1 supplemented statistic).
type Statistics struct {
	Min, Max, Mean, Stdev float64
	Count                 int
}

// Statistics computes summary statistics over r's data pixels.
func (r *Raster) Statistics() Statistics {
	mask := r.DataMask()
	var sum, sumSq float64
	var count int
	min, max := math.Inf(1), math.Inf(-1)
	for i := 0; i < r.NRows; i++ {
		for j := 0; j < r.NCols; j++ {
			if !mask[i][j] {
				continue
			}
			v := r.values[i][j]
			if math.IsNaN(v) {
				continue
			}
			count++
			sum += v
			sumSq += v * v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if count == 0 {
		return Statistics{}
	}
	mean := sum / float64(count)
	variance := sumSq/float64(count) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return Statistics{Min: min, Max: max, Mean: mean, Stdev: math.Sqrt(variance), Count: count}
}
