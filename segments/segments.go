// Package segments builds a stream-segment network from a D8 flow
// direction raster, and exposes per-segment statistics, topology
// queries, editing operations, and drainage-basin delineation over
// it.
package segments

import (
	"github.com/paulmach/orb"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
	"github.com/wildfire-hazards/pfdf-go/raster"
	"github.com/wildfire-hazards/pfdf-go/watershed"
)

// Segments is an indexed stream-segment network: every segment has a
// stable, never-reused id, a polyline, the pixels it owns, and links to
// its single downstream child and its upstream parents. Segments are
// always kept in construction ("position") order internally; ids are a
// separate, caller-facing namespace layered on top so Remove/Keep/Split
// can renumber nothing.
type Segments struct {
	Flow *raster.Raster
	mask [][]bool

	ids     []int
	idIndex map[int]int

	pixels    [][][2]int // pixels a segment owns, headwater..outlet, never including the downstream hand-off pixel
	lines     []orb.LineString
	outlet    [][2]int
	headwater [][2]int
	exitPixel [][2]int // the pixel flow leaves this segment for: either another segment's headwater, or off-network

	child   []int // position index of the downstream segment, or -1
	parents [][]int
	npixels []float64

	nextID int
}

// New builds a Segments network from flow, restricted to mask. If
// maxLength is positive, reaches longer than maxLength are split into
// consecutive pieces sharing a boundary pixel, per
// watershed.SplitReach.
func New(flow *raster.Raster, mask [][]bool, maxLength float64) (*Segments, error) {
	reaches := watershed.Reaches(flow, mask)
	var split []watershed.Reach
	for _, r := range reaches {
		split = append(split, watershed.SplitReach(r, maxLength)...)
	}

	n := len(split)
	if n == 0 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrNoOutlet, "mask", "no stream reaches found in the given mask")
	}

	// A reach's final pixel is a genuine hand-off to a downstream
	// reach only when that pixel is itself another reach's headwater
	// (watershed.Reaches appends it so the two chains share a vertex);
	// otherwise the reach ends at the domain edge or a masked dead end
	// and every one of its pixels, including the last, belongs to it.
	headwaterOwner := make(map[[2]int]int, n)
	for i, r := range split {
		headwaterOwner[r.Pixels[0]] = i
	}

	s := &Segments{
		Flow:    flow,
		mask:    mask,
		idIndex: make(map[int]int, n),
	}

	for i, r := range split {
		last := r.Pixels[len(r.Pixels)-1]
		owner, isHandoff := headwaterOwner[last]
		isHandoff = isHandoff && owner != i

		var owned [][2]int
		if isHandoff {
			owned = append([][2]int(nil), r.Pixels[:len(r.Pixels)-1]...)
		} else {
			owned = append([][2]int(nil), r.Pixels...)
		}
		if len(owned) == 0 {
			return nil, pfdferrors.WithArg(pfdferrors.ErrSegmentID, "reach", "reach %d owns no pixels", i)
		}

		s.pixels = append(s.pixels, owned)
		s.lines = append(s.lines, r.Line)
		s.outlet = append(s.outlet, owned[len(owned)-1])
		s.headwater = append(s.headwater, owned[0])
		s.exitPixel = append(s.exitPixel, last)

		id := i + 1
		s.ids = append(s.ids, id)
		s.idIndex[id] = i
	}
	s.nextID = n + 1
	s.relink()

	if err := s.refreshNPixels(); err != nil {
		return nil, err
	}
	return s, nil
}

// relink rebuilds child/parents from the current pixels/headwater/
// exitPixel arrays: segment i's child is whichever segment's headwater
// equals i's hand-off pixel, or -1 if none does. Called after any
// structural edit (New, Split) that changes the segment set or its
// pixel ownership.
func (s *Segments) relink() {
	n := len(s.ids)
	headwaterIndex := make(map[[2]int]int, n)
	for i, h := range s.headwater {
		headwaterIndex[h] = i
	}

	s.child = make([]int, n)
	s.parents = make([][]int, n)
	for i := range s.child {
		s.child[i] = -1
	}
	for i := 0; i < n; i++ {
		if j, ok := headwaterIndex[s.exitPixel[i]]; ok && j != i {
			s.child[i] = j
			s.parents[j] = append(s.parents[j], i)
		}
	}
}

// refreshNPixels recomputes npixels by running flow accumulation over
// the network's mask and sampling it at every segment's current
// outlet. Values are unaffected by Remove/Keep (outlets don't move),
// but Split introduces new outlets that need a fresh sample.
func (s *Segments) refreshNPixels() error {
	acc, err := watershed.Accumulation(s.Flow, nil, s.mask)
	if err != nil {
		return err
	}
	s.npixels = make([]float64, len(s.outlet))
	for i, o := range s.outlet {
		s.npixels[i] = acc.At(o[0], o[1])
	}
	return nil
}

// Len returns the number of segments currently in the network.
func (s *Segments) Len() int {
	return len(s.ids)
}

// IDs returns the segment ids, in position order.
func (s *Segments) IDs() []int {
	return append([]int(nil), s.ids...)
}

// Lines returns each segment's full polyline (including the hand-off
// vertex shared with its downstream neighbour, or the domain-edge exit
// vertex for a terminal segment).
func (s *Segments) Lines() []orb.LineString {
	return append([]orb.LineString(nil), s.lines...)
}

// Pixels returns the pixel indices each segment owns, headwater to
// outlet. No pixel is owned by more than one segment.
func (s *Segments) Pixels() [][][2]int {
	out := make([][][2]int, len(s.pixels))
	for i, p := range s.pixels {
		out[i] = append([][2]int(nil), p...)
	}
	return out
}

// indexOf resolves a caller-facing id to its current position, or
// reports it no longer exists.
func (s *Segments) indexOf(id int) (int, error) {
	i, ok := s.idIndex[id]
	if !ok {
		return 0, pfdferrors.WithArg(pfdferrors.ErrSegmentID, "id", "%d is not a segment in this network", id)
	}
	return i, nil
}

// ChildID returns the id of the segment i flows into, or 0 if i is
// terminal.
func (s *Segments) ChildID(id int) (int, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return 0, err
	}
	if s.child[i] < 0 {
		return 0, nil
	}
	return s.ids[s.child[i]], nil
}

// ParentIDs returns the ids of the segments that flow directly into
// id.
func (s *Segments) ParentIDs(id int) ([]int, error) {
	i, err := s.indexOf(id)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(s.parents[i]))
	for k, p := range s.parents[i] {
		out[k] = s.ids[p]
	}
	return out, nil
}
