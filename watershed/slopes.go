package watershed

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

// Slopes computes, for every pixel with a real flow direction, the
// rise/run slope along that direction: (dem[r,c]-dem[downstream]) /
// center-to-center distance. Edge pixels (DirNone) and NoData pixels
// are NaN.
func Slopes(dem, flow *raster.Raster) (*raster.Raster, error) {
	if err := dem.MatchesFlow(flow, "flow"); err != nil {
		return nil, err
	}
	nrows, ncols := dem.NRows, dem.NCols
	dx, dy := pixelSize(dem)

	grid := make([][]float64, nrows)
	for r := 0; r < nrows; r++ {
		grid[r] = make([]float64, ncols)
		for c := 0; c < ncols; c++ {
			d := Direction(flow.At(r, c))
			if d == DirNone || dem.IsNoData(r, c) {
				grid[r][c] = math.NaN()
				continue
			}
			dr, dc := offset[d][0], offset[d][1]
			nr, nc := r+dr, c+dc
			if !inBounds(nr, nc, nrows, ncols) || dem.IsNoData(nr, nc) {
				grid[r][c] = math.NaN()
				continue
			}
			rise := dem.At(r, c) - dem.At(nr, nc)
			grid[r][c] = rise / distance(d, dx, dy)
		}
	}

	meta, err := raster.NewMetadata(nrows, ncols,
		raster.WithDType(raster.DTypeFloat64), raster.WithNoData(math.NaN()),
		raster.WithCRS(dem.CRS), raster.WithTransform(dem.Transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}
