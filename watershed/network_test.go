package watershed

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestNetworkSingleReachNoSplit(t *testing.T) {
	dem := monotoneDEM(t)
	flow, err := Flow(dem)
	if err != nil {
		t.Fatalf("Flow: %v", err)
	}
	mask := [][]bool{
		{false, false, false, false, false},
		{false, true, false, false, false},
		{false, false, true, false, false},
		{false, false, false, true, false},
		{false, false, false, false, false},
	}
	lines, err := Network(flow, mask, 0)
	if err != nil {
		t.Fatalf("Network: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("want 1 reach, got %d", len(lines))
	}
	if len(lines[0]) != 3 {
		t.Fatalf("want a 3-vertex polyline, got %d vertices", len(lines[0]))
	}
	want := orb.Point{1.5, 1.5}
	if lines[0][0] != want {
		t.Errorf("first vertex: want %v, got %v", want, lines[0][0])
	}
}

func TestReachesTracksPixelsAndLineInLockstep(t *testing.T) {
	dem := monotoneDEM(t)
	flow, err := Flow(dem)
	if err != nil {
		t.Fatalf("Flow: %v", err)
	}
	mask := [][]bool{
		{false, false, false, false, false},
		{false, true, false, false, false},
		{false, false, true, false, false},
		{false, false, false, true, false},
		{false, false, false, false, false},
	}
	reaches := Reaches(flow, mask)
	if len(reaches) != 1 {
		t.Fatalf("want 1 reach, got %d", len(reaches))
	}
	r := reaches[0]
	if len(r.Pixels) != len(r.Line) {
		t.Fatalf("pixels/line length mismatch: %d vs %d", len(r.Pixels), len(r.Line))
	}
	for i, p := range r.Pixels {
		want := orb.Point{float64(p[1]) + 0.5, float64(p[0]) + 0.5}
		if r.Line[i] != want {
			t.Errorf("vertex %d: want %v, got %v", i, want, r.Line[i])
		}
	}
}

func TestSplitReachSharesBoundaryPixel(t *testing.T) {
	r := Reach{
		Pixels: [][2]int{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6}},
		Line: orb.LineString{
			{0, 0}, {0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6},
		},
	}
	pieces := SplitReach(r, 2)
	if len(pieces) != 3 {
		t.Fatalf("want 3 pieces, got %d", len(pieces))
	}
	wantPixels := [][][2]int{
		{{0, 0}, {0, 1}, {0, 2}},
		{{0, 2}, {0, 3}, {0, 4}},
		{{0, 4}, {0, 5}, {0, 6}},
	}
	wantLines := []orb.LineString{
		{{0, 0}, {0, 1}, {0, 2}},
		{{0, 2}, {0, 3}, {0, 4}},
		{{0, 4}, {0, 5}, {0, 6}},
	}
	for i, want := range wantPixels {
		if len(pieces[i].Pixels) != len(want) {
			t.Fatalf("piece %d: want %d pixels, got %d", i, len(want), len(pieces[i].Pixels))
		}
		for j := range want {
			if pieces[i].Pixels[j] != want[j] {
				t.Errorf("piece %d pixel %d: want %v, got %v", i, j, want[j], pieces[i].Pixels[j])
			}
			if pieces[i].Line[j] != wantLines[i][j] {
				t.Errorf("piece %d vertex %d: want %v, got %v", i, j, wantLines[i][j], pieces[i].Line[j])
			}
		}
	}
}

func TestSplitReachShortReachIsUnchanged(t *testing.T) {
	r := Reach{
		Pixels: [][2]int{{0, 0}, {0, 1}, {0, 2}},
		Line:   orb.LineString{{0, 0}, {0, 1}, {0, 2}},
	}
	pieces := SplitReach(r, 10)
	if len(pieces) != 1 {
		t.Fatalf("want 1 piece, got %d", len(pieces))
	}
	if len(pieces[0].Pixels) != 3 {
		t.Errorf("want 3 pixels, got %d", len(pieces[0].Pixels))
	}
}
