package segments

import (
	"math"
	"testing"
)

func TestLengthBaseUnits(t *testing.T) {
	s := buildNetwork(t)
	lengths, err := s.Length("")
	if err != nil {
		t.Fatalf("Length: %v", err)
	}
	// Segment 1 (position 0)'s full polyline runs
	// (1,1)->(2,1)->(3,1)->(3,2)->(4,2)->(4,3), including the hand-off
	// vertex shared with segment 6 -- 5 axis-aligned unit steps in the
	// fixture's untransformed grid.
	if got := lengths[0]; got != 5 {
		t.Errorf("segment 1: want length 5, got %v", got)
	}
}

func TestAreaUsesFullUnmaskedCatchment(t *testing.T) {
	s := buildNetwork(t)
	areas, err := s.Area("")
	if err != nil {
		t.Fatalf("Area: %v", err)
	}
	want := s.NPixels(false)
	for i := range want {
		// With no transform, one pixel has unit area, so Area and
		// NPixels should agree exactly for this fixture.
		if areas[i] != want[i] {
			t.Errorf("segment %d: Area %v != NPixels %v", s.ids[i], areas[i], want[i])
		}
	}
}

func TestNPixelsTerminalOnly(t *testing.T) {
	s := buildNetwork(t)
	got := s.NPixels(true)
	for i, v := range got {
		id := s.ids[i]
		isTerminal := id == 3 || id == 6
		if isTerminal && math.IsNaN(v) {
			t.Errorf("segment %d is terminal, want a real npixels value, got NaN", id)
		}
		if !isTerminal && !math.IsNaN(v) {
			t.Errorf("segment %d is not terminal, want NaN, got %v", id, v)
		}
	}
}
