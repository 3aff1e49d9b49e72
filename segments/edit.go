package segments

import (
	"github.com/paulmach/orb"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Remove drops the given segments from the network. Each removed
// segment's parents are re-wired to its nearest surviving downstream
// segment (or become terminal, if every segment downstream of it was
// also removed), per invariant i3. Ids of the remaining segments are
// unchanged; removed ids are never reused.
func (s *Segments) Remove(ids []int) error {
	positions, err := s.resolvePositions(ids)
	if err != nil {
		return err
	}
	removeSet := make(map[int]bool, len(positions))
	for _, i := range positions {
		removeSet[i] = true
	}
	s.applyRemoval(removeSet)
	return nil
}

// Keep discards every segment not named by ids -- the complement of
// Remove.
func (s *Segments) Keep(ids []int) error {
	keepPositions, err := s.resolvePositions(ids)
	if err != nil {
		return err
	}
	keepSet := make(map[int]bool, len(keepPositions))
	for _, i := range keepPositions {
		keepSet[i] = true
	}
	removeSet := make(map[int]bool, len(s.ids)-len(keepPositions))
	for i := range s.ids {
		if !keepSet[i] {
			removeSet[i] = true
		}
	}
	s.applyRemoval(removeSet)
	return nil
}

func (s *Segments) applyRemoval(removeSet map[int]bool) {
	n := len(s.ids)

	// resolveChild walks past any chain of also-removed segments to
	// find the nearest surviving descendant, or -1 if the whole
	// downstream chain was removed.
	resolveChild := func(i int) int {
		c := s.child[i]
		for c >= 0 && removeSet[c] {
			c = s.child[c]
		}
		return c
	}

	oldToNew := make(map[int]int, n)
	var keptOrder []int
	for i := 0; i < n; i++ {
		if removeSet[i] {
			continue
		}
		oldToNew[i] = len(keptOrder)
		keptOrder = append(keptOrder, i)
	}
	newN := len(keptOrder)

	ids2 := make([]int, newN)
	idIndex2 := make(map[int]int, newN)
	pixels2 := make([][][2]int, newN)
	lines2 := make([]orb.LineString, newN)
	outlet2 := make([][2]int, newN)
	headwater2 := make([][2]int, newN)
	exitPixel2 := make([][2]int, newN)
	npixels2 := make([]float64, newN)
	child2 := make([]int, newN)
	parents2 := make([][]int, newN)
	for i := range child2 {
		child2[i] = -1
	}

	for newI, oldI := range keptOrder {
		ids2[newI] = s.ids[oldI]
		idIndex2[s.ids[oldI]] = newI
		pixels2[newI] = s.pixels[oldI]
		lines2[newI] = s.lines[oldI]
		outlet2[newI] = s.outlet[oldI]
		headwater2[newI] = s.headwater[oldI]
		exitPixel2[newI] = s.exitPixel[oldI]
		npixels2[newI] = s.npixels[oldI]

		resolved := resolveChild(oldI)
		if resolved < 0 {
			continue
		}
		newChild := oldToNew[resolved]
		child2[newI] = newChild
		parents2[newChild] = append(parents2[newChild], newI)
	}

	s.ids = ids2
	s.idIndex = idIndex2
	s.pixels = pixels2
	s.lines = []orb.LineString(lines2)
	s.outlet = outlet2
	s.headwater = headwater2
	s.exitPixel = exitPixel2
	s.npixels = npixels2
	s.child = child2
	s.parents = parents2
}

// Split divides segment id into two new segments at pixelIndex, an
// index into its owned pixel list (1..len(owned)-2, strictly
// interior). The upstream piece keeps id's parents and headwater; the
// downstream piece keeps id's child and outlet. Both get fresh ids,
// and the original id is retired (like any removed id, never reused).
func (s *Segments) Split(id int, pixelIndex int) (upstreamID, downstreamID int, err error) {
	i, err := s.indexOf(id)
	if err != nil {
		return 0, 0, err
	}
	owned := s.pixels[i]
	if pixelIndex < 1 || pixelIndex >= len(owned)-1 {
		return 0, 0, pfdferrors.WithArg(pfdferrors.ErrPixel, "pixel_index", "must be an interior pixel of segment %d (1..%d), got %d", id, len(owned)-2, pixelIndex)
	}

	upstreamID = s.nextID
	downstreamID = s.nextID + 1
	s.nextID += 2

	upstreamPixels := append([][2]int(nil), owned[:pixelIndex+1]...)
	downstreamPixels := append([][2]int(nil), owned[pixelIndex+1:]...)
	upstreamLine := append(orb.LineString(nil), s.lines[i][:pixelIndex+2]...)
	downstreamLine := append(orb.LineString(nil), s.lines[i][pixelIndex+1:]...)

	n := len(s.ids)
	ids2 := make([]int, 0, n+1)
	pixels2 := make([][][2]int, 0, n+1)
	lines2 := make([]orb.LineString, 0, n+1)
	outlet2 := make([][2]int, 0, n+1)
	headwater2 := make([][2]int, 0, n+1)
	exitPixel2 := make([][2]int, 0, n+1)

	for k := 0; k < n; k++ {
		if k != i {
			ids2 = append(ids2, s.ids[k])
			pixels2 = append(pixels2, s.pixels[k])
			lines2 = append(lines2, s.lines[k])
			outlet2 = append(outlet2, s.outlet[k])
			headwater2 = append(headwater2, s.headwater[k])
			exitPixel2 = append(exitPixel2, s.exitPixel[k])
			continue
		}
		ids2 = append(ids2, upstreamID, downstreamID)
		pixels2 = append(pixels2, upstreamPixels, downstreamPixels)
		lines2 = append(lines2, upstreamLine, downstreamLine)
		outlet2 = append(outlet2, upstreamPixels[len(upstreamPixels)-1], s.outlet[k])
		headwater2 = append(headwater2, s.headwater[k], downstreamPixels[0])
		exitPixel2 = append(exitPixel2, downstreamPixels[0], s.exitPixel[k])
	}

	idIndex2 := make(map[int]int, len(ids2))
	for newI, id := range ids2 {
		idIndex2[id] = newI
	}

	s.ids = ids2
	s.idIndex = idIndex2
	s.pixels = pixels2
	s.lines = lines2
	s.outlet = outlet2
	s.headwater = headwater2
	s.exitPixel = exitPixel2
	s.relink()

	if err := s.refreshNPixels(); err != nil {
		return 0, 0, err
	}
	return upstreamID, downstreamID, nil
}
