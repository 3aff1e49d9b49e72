package watershed

import (
	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Catchment returns a boolean mask of every pixel whose flow terminates
// at or passes through (row, col): the full upslope contributing area,
// found by walking the upstream contributor graph breadth-first from
// the outlet pixel.
func Catchment(flow *raster.Raster, row, col int) (*raster.Raster, error) {
	nrows, ncols := flow.NRows, flow.NCols
	if row < 0 || row >= nrows || col < 0 || col >= ncols {
		return nil, pfdferrors.WithArg(pfdferrors.ErrPixel, "row,col", "(%d, %d) is out of bounds for shape (%d, %d)", row, col, nrows, ncols)
	}

	up := upstreamIndex(flow)

	grid := make([][]float64, nrows)
	for i := range grid {
		grid[i] = make([]float64, ncols)
	}

	type cell struct{ r, c int }
	queue := []cell{{row, col}}
	grid[row][col] = 1
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, u := range up[[2]int{cur.r, cur.c}] {
			if grid[u[0]][u[1]] == 1 {
				continue
			}
			grid[u[0]][u[1]] = 1
			queue = append(queue, cell{u[0], u[1]})
		}
	}

	meta, err := raster.NewMetadata(nrows, ncols, raster.WithDType(raster.DTypeBool), raster.WithCRS(flow.CRS), raster.WithTransform(flow.Transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}
