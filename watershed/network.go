package watershed

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

// Reach is a maximal chain of masked pixels linked by flow direction: it
// starts at a headwater (no masked contributor) or immediately below a
// confluence (more than one masked contributor), and ends at the next
// confluence, a terminal pixel, or the edge of the mask. Pixels and Line
// are in lockstep: Line[i] is the pixel-centre world coordinate of
// Pixels[i].
type Reach struct {
	Pixels [][2]int
	Line   orb.LineString
}

// Reaches splits the masked portion of flow into single-threaded chains,
// each returned with both its pixel-index chain and its world-coordinate
// polyline.
func Reaches(flow *raster.Raster, mask [][]bool) []Reach {
	chains := reachChains(flow, mask)
	out := make([]Reach, len(chains))
	for i, pixels := range chains {
		out[i] = Reach{Pixels: pixels, Line: toLineString(flow, pixels)}
	}
	return out
}

// reachChains splits the masked portion of flow into single-threaded
// pixel-index chains. A pixel with indegree != 1 (within the mask)
// always begins a new reach; a pixel with indegree 1 is a mid-reach link
// and is only ever appended to its single predecessor's chain.
func reachChains(flow *raster.Raster, mask [][]bool) [][][2]int {
	nrows, ncols := flow.NRows, flow.NCols

	isMasked := func(r, c int) bool {
		return mask == nil || mask[r][c]
	}

	indegree := make([][]int, nrows)
	for r := range indegree {
		indegree[r] = make([]int, ncols)
	}
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			if !isMasked(r, c) {
				continue
			}
			d := Direction(flow.At(r, c))
			if d == DirNone {
				continue
			}
			dr, dc := offset[d][0], offset[d][1]
			nr, nc := r+dr, c+dc
			if !inBounds(nr, nc, nrows, ncols) || !isMasked(nr, nc) {
				continue
			}
			indegree[nr][nc]++
		}
	}

	var result [][][2]int
	for r := 0; r < nrows; r++ {
		for c := 0; c < ncols; c++ {
			if !isMasked(r, c) || indegree[r][c] == 1 {
				continue
			}
			result = append(result, walkReach(flow, mask, r, c, nrows, ncols, indegree))
		}
	}
	return result
}

// walkReach follows flow direction downstream from (r, c), appending
// pixels until it reaches a pixel that is not masked, has no further flow,
// or is itself the start of another reach (indegree != 1); that pixel is
// included as the reach's outlet, but the walk stops there.
func walkReach(flow *raster.Raster, mask [][]bool, r, c, nrows, ncols int, indegree [][]int) [][2]int {
	isMasked := func(r, c int) bool {
		return mask == nil || mask[r][c]
	}

	pixels := [][2]int{{r, c}}
	cur := [2]int{r, c}
	for {
		d := Direction(flow.At(cur[0], cur[1]))
		if d == DirNone {
			return pixels
		}
		dr, dc := offset[d][0], offset[d][1]
		nr, nc := cur[0]+dr, cur[1]+dc
		if !inBounds(nr, nc, nrows, ncols) || !isMasked(nr, nc) {
			return pixels
		}
		pixels = append(pixels, [2]int{nr, nc})
		if indegree[nr][nc] != 1 {
			return pixels
		}
		cur = [2]int{nr, nc}
	}
}

// Network extracts the stream network implied by flow, restricted to
// mask, as a set of polylines in pixel-centre world coordinates, one per
// reach between a headwater or confluence and the next confluence or
// outlet. If maxLength is positive, each reach is further split so every
// piece's length does not exceed maxLength; consecutive pieces share a
// boundary vertex, matching how the original pfdf splits an over-length
// reach into its constituent segments.
func Network(flow *raster.Raster, mask [][]bool, maxLength float64) ([]orb.LineString, error) {
	reaches := Reaches(flow, mask)
	var lines []orb.LineString
	for _, r := range reaches {
		for _, piece := range SplitReach(r, maxLength) {
			lines = append(lines, piece.Line)
		}
	}
	return lines, nil
}

func toLineString(flow *raster.Raster, pixels [][2]int) orb.LineString {
	line := make(orb.LineString, len(pixels))
	for i, p := range pixels {
		var x, y float64
		if flow.Transform != nil {
			x, y = flow.Transform.Center(p[0], p[1])
		} else {
			x, y = float64(p[1])+0.5, float64(p[0])+0.5
		}
		line[i] = orb.Point{x, y}
	}
	return line
}

// SplitReach divides a reach into consecutive pieces of at most
// maxLength (by polyline length), keeping each piece's Pixels and Line in
// lockstep and sharing a boundary pixel/vertex between consecutive
// pieces. Grounded on the original pfdf's LineString-splitting behaviour:
// a piece ends (and the next begins) exactly at the vertex where the
// running length would otherwise exceed maxLength, introducing no new
// coordinates. maxLength <= 0 disables splitting.
func SplitReach(r Reach, maxLength float64) []Reach {
	if maxLength <= 0 || len(r.Line) < 2 {
		return []Reach{r}
	}

	var pieces []Reach
	startIdx := 0
	length := 0.0
	for i := 1; i < len(r.Line); i++ {
		seg := segmentLength(r.Line[i-1], r.Line[i])
		if length+seg > maxLength && i-startIdx > 1 {
			pieces = append(pieces, sliceReach(r, startIdx, i-1))
			startIdx = i - 1
			length = 0
		}
		length += seg
	}
	if len(r.Line)-1 > startIdx {
		pieces = append(pieces, sliceReach(r, startIdx, len(r.Line)-1))
	}
	if len(pieces) == 0 {
		return []Reach{r}
	}
	return pieces
}

func sliceReach(r Reach, start, end int) Reach {
	return Reach{
		Pixels: append([][2]int(nil), r.Pixels[start:end+1]...),
		Line:   append(orb.LineString(nil), r.Line[start:end+1]...),
	}
}

func segmentLength(a, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
