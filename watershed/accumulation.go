package watershed

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

// Accumulation computes topological-sort flow accumulation over flow:
// each pixel's value is the sum of weights over its upslope contributing
// pixels, plus its own weight. If weights is nil, every contributing
// pixel counts 1 (so the unweighted result is the upslope pixel count,
// including the pixel itself). If mask is non-nil, only pixels where
// mask is true contribute their own weight (but still pass through
// upstream sums unchanged) -- only true pixels contribute their own
// weight, masked pixels still relay what flows through them.
//
// A NoData weight poisons that pixel's own value to NaN, which then
// propagates downstream through ordinary float addition -- this mirrors
// how nodata_mask composition works everywhere else in pfdf-go rather
// than silently zeroing missing data.
func Accumulation(flow *raster.Raster, weights *raster.Raster, mask [][]bool) (*raster.Raster, error) {
	nrows, ncols := flow.NRows, flow.NCols
	if weights != nil {
		if err := flow.MatchesFlow(weights, "weights"); err != nil {
			return nil, err
		}
	}

	// indegree counts unresolved upstream contributors so Kahn's
	// algorithm can process strictly in upstream-to-downstream order.
	indegree := make([][]int, nrows)
	for r := range indegree {
		indegree[r] = make([]int, ncols)
	}
	downstream := make([][][2]int, nrows)
	for r := range downstream {
		downstream[r] = make([][2]int, ncols)
	}
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			d := Direction(flow.At(r, c))
			if d == DirNone {
				downstream[r][c] = [2]int{-1, -1}
				continue
			}
			dr, dc := offset[d][0], offset[d][1]
			nr, nc := r+dr, c+dc
			if !inBounds(nr, nc, nrows, ncols) {
				downstream[r][c] = [2]int{-1, -1}
				continue
			}
			downstream[r][c] = [2]int{nr, nc}
			indegree[nr][nc]++
		}
	}

	value := make([][]float64, nrows)
	for r := range value {
		value[r] = make([]float64, ncols)
	}

	type cell struct{ r, c int }
	var queue []cell
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			value[r][c] = selfWeight(r, c, weights, mask)
			if indegree[r][c] == 0 {
				queue = append(queue, cell{r, c})
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		next := downstream[cur.r][cur.c]
		if next[0] < 0 {
			continue
		}
		value[next[0]][next[1]] += value[cur.r][cur.c]
		indegree[next[0]][next[1]]--
		if indegree[next[0]][next[1]] == 0 {
			queue = append(queue, cell{next[0], next[1]})
		}
	}

	grid := make([][]float64, nrows)
	for r := 0; r < nrows; r++ {
		grid[r] = make([]float64, ncols)
		for c := 0; c < ncols; c++ {
			if flow.IsNoData(r, c) {
				grid[r][c] = math.NaN()
				continue
			}
			grid[r][c] = value[r][c]
		}
	}

	meta, err := raster.NewMetadata(nrows, ncols,
		raster.WithDType(raster.DTypeFloat64), raster.WithNoData(math.NaN()),
		raster.WithCRS(flow.CRS), raster.WithTransform(flow.Transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}

func selfWeight(r, c int, weights *raster.Raster, mask [][]bool) float64 {
	if mask != nil && !mask[r][c] {
		return 0
	}
	if weights == nil {
		return 1
	}
	if weights.IsNoData(r, c) {
		return math.NaN()
	}
	return weights.At(r, c)
}
