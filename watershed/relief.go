package watershed

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

// Relief computes, for every pixel, the vertical distance down from its
// ridge: the highest elevation among the contributor-free pixels reached
// by walking against flow along every upslope path (not only the path
// through the highest contributor).
func Relief(dem, flow *raster.Raster) (*raster.Raster, error) {
	if err := dem.MatchesFlow(flow, "flow"); err != nil {
		return nil, err
	}
	nrows, ncols := dem.NRows, dem.NCols
	up := upstreamIndex(flow)

	ridgeElev := make([][]float64, nrows)
	for r := range ridgeElev {
		ridgeElev[r] = make([]float64, ncols)
		for c := range ridgeElev[r] {
			ridgeElev[r][c] = math.NaN()
		}
	}

	var walk func(r, c int) float64
	walk = func(r, c int) float64 {
		if !math.IsNaN(ridgeElev[r][c]) {
			return ridgeElev[r][c]
		}
		contributors := up[[2]int{r, c}]
		if len(contributors) == 0 {
			ridgeElev[r][c] = dem.At(r, c)
			return ridgeElev[r][c]
		}
		best := math.Inf(-1)
		for _, u := range contributors {
			e := walk(u[0], u[1])
			if e > best {
				best = e
			}
		}
		ridgeElev[r][c] = best
		return best
	}

	grid := make([][]float64, nrows)
	for r := 0; r < nrows; r++ {
		grid[r] = make([]float64, ncols)
		for c := 0; c < ncols; c++ {
			if dem.IsNoData(r, c) {
				grid[r][c] = math.NaN()
				continue
			}
			grid[r][c] = walk(r, c) - dem.At(r, c)
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
