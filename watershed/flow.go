package watershed

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Flow computes a D8 flow-direction raster from a DEM by steepest
// descent: each pixel points to the neighbour reached by the steepest
// downhill slope (rise/run, not raw elevation drop, so a distant
// diagonal drop only wins over a shallower cardinal one when its slope
// is actually greater). Ties are broken by ascending direction number.
//
// Pixels on the raster's outer ring, and any pixel whose DEM value is
// NoData, always receive DirNone (0): flow direction is only meaningful
// for the interior, matching a DEM that is itself framed by a NoData or
// otherwise untrustworthy border.
//
// A pixel with no strictly-lower neighbour is a flat or a closed pit.
// Flats are resolved by routing toward the nearest pixel (within the
// same-elevation, 8-connected plateau) that has a real descent or an
// edge-equal exit, via a breadth-first "distance to pour point" grid --
// the single-grid simplification of Garbrecht & Martz's two-grid flat
// resolution (1997). A plateau with no reachable pour point is a closed
// pit and keeps DirNone.
func Flow(dem *raster.Raster) (*raster.Raster, error) {
	nrows, ncols := dem.NRows, dem.NCols
	dx, dy := pixelSize(dem)

	dir := make([][]Direction, nrows)
	for i := range dir {
		dir[i] = make([]Direction, ncols)
	}

	isBorder := func(r, c int) bool {
		return r == 0 || r == nrows-1 || c == 0 || c == ncols-1
	}

	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			if isBorder(r, c) || dem.IsNoData(r, c) {
				continue
			}
			dir[r][c] = steepest(dem, r, c, dx, dy)
		}
	}

	resolveFlats(dem, dir, isBorder, dx, dy)

	grid := make([][]float64, nrows)
	for i := 0; i < nrows; i++ {
		grid[i] = make([]float64, ncols)
		for j := 0; j < ncols; j++ {
			grid[i][j] = float64(dir[i][j])
		}
	}
	meta, err := raster.NewMetadata(nrows, ncols,
		raster.WithDType(raster.DTypeInt8), raster.WithNoData(0),
		raster.WithCRS(dem.CRS), raster.WithTransform(dem.Transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}

// steepest returns the direction of steepest downhill slope from (r, c),
// or DirNone if no in-bounds, non-NoData neighbour is strictly lower.
func steepest(dem *raster.Raster, r, c int, dx, dy float64) Direction {
	nrows, ncols := dem.NRows, dem.NCols
	elev := dem.At(r, c)
	best := DirNone
	bestSlope := 0.0
	for _, d := range neighbors() {
		dr, dc := offset[d][0], offset[d][1]
		nr, nc := r+dr, c+dc
		if !inBounds(nr, nc, nrows, ncols) || dem.IsNoData(nr, nc) {
			continue
		}
		drop := elev - dem.At(nr, nc)
		if drop <= 0 {
			continue
		}
		slope := drop / distance(d, dx, dy)
		if slope > bestSlope {
			bestSlope = slope
			best = d
		}
	}
	return best
}

// resolveFlats assigns a direction to every interior pixel that steepest
// left at DirNone but has at least one neighbour reachable via a chain
// of equal-elevation pixels that eventually reaches a pour point (a
// pixel with a real descent, or a same-elevation border pixel -- the
// domain edge counts as a legitimate exit when there is nowhere lower).
func resolveFlats(dem *raster.Raster, dir [][]Direction, isBorder func(r, c int) bool, dx, dy float64) {
	nrows, ncols := dem.NRows, dem.NCols
	const unreached = -1
	toward := make([][]int, nrows)
	for i := range toward {
		toward[i] = make([]int, ncols)
		for j := range toward[i] {
			toward[i][j] = unreached
		}
	}

	type cell struct{ r, c int }
	var queue []cell

	isFlat := func(r, c int) bool {
		return !isBorder(r, c) && !dem.IsNoData(r, c) && dir[r][c] == DirNone
	}

	// Seed: flat pixels adjacent to a pour point (an equal-elevation
	// interior pixel with a real descent, or an equal-elevation border
	// pixel) start at distance 1; interior pour points are marked 0.
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			if !isFlat(r, c) {
				continue
			}
			elev := dem.At(r, c)
			for _, d := range neighbors() {
				dr, dc := offset[d][0], offset[d][1]
				nr, nc := r+dr, c+dc
				if !inBounds(nr, nc, nrows, ncols) {
					continue
				}
				if dem.IsNoData(nr, nc) {
					continue
				}
				nelev := dem.At(nr, nc)
				if nelev > elev {
					continue
				}
				isPour := (!isBorder(nr, nc) && !isFlat(nr, nc) && nelev == elev) ||
					(isBorder(nr, nc) && nelev == elev)
				if isPour && !isBorder(nr, nc) {
					toward[nr][nc] = 0
				}
				if isPour && toward[r][c] == unreached {
					toward[r][c] = 1
					queue = append(queue, cell{r, c})
				}
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		curDist := toward[cur.r][cur.c]
		elev := dem.At(cur.r, cur.c)
		for _, d := range neighbors() {
			dr, dc := offset[d][0], offset[d][1]
			nr, nc := cur.r+dr, cur.c+dc
			if !inBounds(nr, nc, nrows, ncols) || !isFlat(nr, nc) {
				continue
			}
			if dem.At(nr, nc) != elev {
				continue
			}
			if toward[nr][nc] != unreached {
				continue
			}
			toward[nr][nc] = curDist + 1
			queue = append(queue, cell{nr, nc})
		}
	}

	// Assign each flat pixel the ascending-numbered direction toward its
	// nearest-distance qualifying neighbour (pour point or closer flat).
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			if !isFlat(r, c) || toward[r][c] == unreached {
				continue
			}
			elev := dem.At(r, c)
			best := DirNone
			bestDist := math.MaxInt32
			for _, d := range neighbors() {
				dr, dc := offset[d][0], offset[d][1]
				nr, nc := r+dr, c+dc
				if !inBounds(nr, nc, nrows, ncols) || dem.IsNoData(nr, nc) {
					continue
				}
				nelev := dem.At(nr, nc)
				if nelev > elev {
					continue
				}
				var nd int
				switch {
				case nelev < elev:
					nd = 0
				case isBorder(nr, nc):
					nd = 0
				default:
					nd = toward[nr][nc]
					if nd == unreached {
						continue
					}
				}
				if nd < bestDist {
					bestDist = nd
					best = d
				}
			}
			dir[r][c] = best
		}
	}
}

func pixelSize(r *raster.Raster) (dx, dy float64) {
	if r.Transform == nil {
		return 1, 1
	}
	dx, dy = r.Transform.Dx, r.Transform.Dy
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}
	return dx, dy
}
