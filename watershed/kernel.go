// Package watershed implements the D8 flow-direction model: flow
// direction, slope, relief, flow accumulation, catchment delineation,
// and stream-network extraction, all operating on raster.Raster values.
package watershed

import (
	"math"

	"github.com/samber/lo"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

// Direction is a D8 flow code in the 1=E..8=NE convention. 0 means no
// flow (nodata, domain edge, or an unresolved pit).
type Direction int8

const (
	DirNone Direction = 0
	DirE    Direction = 1
	DirSE   Direction = 2
	DirS    Direction = 3
	DirSW   Direction = 4
	DirW    Direction = 5
	DirNW   Direction = 6
	DirN    Direction = 7
	DirNE   Direction = 8
)

// offset holds the (row, col) step for each direction 1..8. The row
// axis increases "north" (N = row+1, S = row-1), the opposite of the
// usual image-row convention. Index 0 is unused (DirNone).
var offset = [9][2]int{
	{0, 0},
	{0, 1},   // E
	{-1, 1},  // SE
	{-1, 0},  // S
	{-1, -1}, // SW
	{0, -1},  // W
	{1, -1},  // NW
	{1, 0},   // N
	{1, 1},   // NE
}

// Offset returns the (dr, dc) step for d. DirNone returns (0, 0).
func Offset(d Direction) (dr, dc int) {
	o := offset[d]
	return o[0], o[1]
}

// directionNames labels each direction for diagnostics; nameToDirection
// is its inverse, used by ParseDirection.
var directionNames = map[Direction]string{
	DirNone: "none",
	DirE:    "E",
	DirSE:   "SE",
	DirS:    "S",
	DirSW:   "SW",
	DirW:    "W",
	DirNW:   "NW",
	DirN:    "N",
	DirNE:   "NE",
}

var nameToDirection = lo.Invert(directionNames)

// String returns the compass abbreviation for d ("none" for DirNone).
func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "invalid"
}

// ParseDirection looks up the Direction for a compass abbreviation, as
// produced by Direction.String.
func ParseDirection(name string) (Direction, bool) {
	d, ok := nameToDirection[name]
	return d, ok
}

// opposite returns the direction pointing back from the neighbour reached
// by d to the originating cell.
func opposite(d Direction) Direction {
	if d == DirNone {
		return DirNone
	}
	return Direction((int(d)+3)%8 + 1)
}

// distance returns the center-to-center distance covered by direction d,
// in the units of dx/dy (world units if the raster is georeferenced, grid
// units otherwise).
func distance(d Direction, dx, dy float64) float64 {
	dr, dc := offset[d][0], offset[d][1]
	rx := float64(dc) * dx
	ry := float64(dr) * dy
	return math.Hypot(rx, ry)
}

// neighbors returns every direction in ascending order, 1..8.
func neighbors() []Direction {
	return []Direction{DirE, DirSE, DirS, DirSW, DirW, DirNW, DirN, DirNE}
}

func inBounds(r, c, nrows, ncols int) bool {
	return r >= 0 && r < nrows && c >= 0 && c < ncols
}

// upstreamIndex maps each pixel to the list of neighbours whose flow
// direction points into it, i.e. its direct upslope contributors. Relief
// and Catchment both walk this graph, one taking the highest ridge
// elevation over every upslope path, the other collecting every
// contributor reachable from an outlet.
func upstreamIndex(flow *raster.Raster) map[[2]int][][2]int {
	nrows, ncols := flow.NRows, flow.NCols
	up := make(map[[2]int][][2]int)
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			d := Direction(flow.At(r, c))
			if d == DirNone {
				continue
			}
			dr, dc := offset[d][0], offset[d][1]
			nr, nc := r+dr, c+dc
			if !inBounds(nr, nc, nrows, ncols) {
				continue
			}
			key := [2]int{nr, nc}
			up[key] = append(up[key], [2]int{r, c})
		}
	}
	return up
}
