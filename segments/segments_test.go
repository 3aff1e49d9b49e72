package segments

import (
	"testing"

	"github.com/wildfire-hazards/pfdf-go/raster"
)

// networkFixture builds a 7x7 flow/mask pair with six reaches: a
// headwater fork at column 1 and another at column 4 both converging
// on a single pixel at (3,4)/(4,3), a short headwater fork at column 5
// that terminates off the domain edge at row 0 without ever joining
// anything, and a single outlet reach running off the domain edge at
// row 6.
//
// Pixel chains and flow codes were derived by hand-tracing the
// pixel-ownership ("indices") and geometry ("linestrings") fixtures
// pfdf's segment-network tests use against each other, then re-walked
// against this package's own reach-discovery order (a row-major scan
// for headwaters/confluences, not the original labeling) to get the
// exact position indices and child/parent/npixels values asserted
// below.
func networkFixture(t *testing.T) (*raster.Raster, [][]bool) {
	t.Helper()
	nodata := 0.0
	flow, err := raster.FromArray([][]float64{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 7, 0, 0, 7, 3, 0},
		{0, 7, 0, 0, 7, 3, 0},
		{0, 1, 7, 0, 6, 5, 0},
		{0, 0, 1, 7, 0, 0, 0},
		{0, 0, 0, 7, 0, 0, 0},
		{0, 0, 0, 0, 0, 0, 0},
	}, raster.DTypeInt8, raster.FromArrayOptions{NoData: &nodata})
	if err != nil {
		t.Fatalf("building flow fixture: %v", err)
	}

	at := func(r, c int) [2]int { return [2]int{r, c} }
	owned := []([2]int){
		at(1, 1), at(2, 1), at(3, 1), at(3, 2), at(4, 2),
		at(1, 4), at(2, 4),
		at(1, 5), at(2, 5),
		at(3, 5),
		at(3, 4),
		at(4, 3), at(5, 3),
	}
	mask := make([][]bool, 7)
	for r := range mask {
		mask[r] = make([]bool, 7)
	}
	for _, p := range owned {
		mask[p[0]][p[1]] = true
	}
	return flow, mask
}

func buildNetwork(t *testing.T) *Segments {
	t.Helper()
	flow, mask := networkFixture(t)
	s, err := New(flow, mask, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestNewBuildsSixSegments(t *testing.T) {
	s := buildNetwork(t)
	if s.Len() != 6 {
		t.Fatalf("want 6 segments, got %d", s.Len())
	}
	for i, id := range s.IDs() {
		if id != i+1 {
			t.Errorf("segment %d: want id %d, got %d", i, i+1, id)
		}
	}
}

func TestNewOwnedPixelCounts(t *testing.T) {
	s := buildNetwork(t)
	want := []int{5, 2, 2, 1, 1, 2}
	pixels := s.Pixels()
	for i, w := range want {
		if len(pixels[i]) != w {
			t.Errorf("segment %d: want %d owned pixels, got %d", i, w, len(pixels[i]))
		}
	}
}

func TestNewNoDoubleOwnedPixels(t *testing.T) {
	s := buildNetwork(t)
	seen := make(map[[2]int]int)
	for i, pixels := range s.Pixels() {
		for _, p := range pixels {
			if prev, ok := seen[p]; ok {
				t.Fatalf("pixel %v owned by both segment %d and %d", p, prev, i)
			}
			seen[p] = i
		}
	}
	if len(seen) != 13 {
		t.Errorf("want 13 total owned pixels, got %d", len(seen))
	}
}

func TestNewTopology(t *testing.T) {
	s := buildNetwork(t)

	wantChild := map[int]int{1: 6, 2: 4, 3: 0, 4: 6, 5: 4, 6: 0}
	for id, wantChildID := range wantChild {
		got, err := s.ChildID(id)
		if err != nil {
			t.Fatalf("ChildID(%d): %v", id, err)
		}
		if got != wantChildID {
			t.Errorf("segment %d: want child %d, got %d", id, wantChildID, got)
		}
	}

	wantParents := map[int][]int{
		1: nil, 2: nil, 3: nil, 5: nil,
		4: {2, 5},
		6: {1, 4},
	}
	for id, want := range wantParents {
		got, err := s.ParentIDs(id)
		if err != nil {
			t.Fatalf("ParentIDs(%d): %v", id, err)
		}
		if !sameSet(got, want) {
			t.Errorf("segment %d: want parents %v, got %v", id, want, got)
		}
	}
}

func TestNewNPixels(t *testing.T) {
	s := buildNetwork(t)
	want := map[int]float64{1: 5, 2: 2, 3: 2, 4: 4, 5: 1, 6: 11}
	got := s.NPixels(false)
	for i, id := range s.IDs() {
		if got[i] != want[id] {
			t.Errorf("segment %d: want npixels %v, got %v", id, want[id], got[i])
		}
	}
}

func TestIsTerminal(t *testing.T) {
	s := buildNetwork(t)
	terminal, err := s.IsTerminal(1, 2, 3, 4, 5, 6)
	if err != nil {
		t.Fatalf("IsTerminal: %v", err)
	}
	want := []bool{false, false, true, false, false, true}
	for i, id := range []int{1, 2, 3, 4, 5, 6} {
		if terminal[i] != want[i] {
			t.Errorf("segment %d: want terminal=%v, got %v", id, want[i], terminal[i])
		}
	}
}

func sameSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int)
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, c := range seen {
		if c != 0 {
			return false
		}
	}
	return true
}
