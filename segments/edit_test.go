package segments

import "testing"

func TestRemoveRewiresParentsThroughRemovedSegment(t *testing.T) {
	s := buildNetwork(t)

	if err := s.Remove([]int{4}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.Len() != 5 {
		t.Fatalf("want 5 segments after removing 1, got %d", s.Len())
	}
	if _, err := s.indexOf(4); err == nil {
		t.Errorf("segment 4 should no longer resolve")
	}

	for _, id := range []int{2, 5} {
		child, err := s.ChildID(id)
		if err != nil {
			t.Fatalf("ChildID(%d): %v", id, err)
		}
		if child != 6 {
			t.Errorf("segment %d: want rewired child 6, got %d", id, child)
		}
	}
}

func TestKeepDropsEverythingElse(t *testing.T) {
	s := buildNetwork(t)

	if err := s.Keep([]int{1, 6}); err != nil {
		t.Fatalf("Keep: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("want 2 segments after Keep, got %d", s.Len())
	}
	child, err := s.ChildID(1)
	if err != nil {
		t.Fatalf("ChildID(1): %v", err)
	}
	if child != 6 {
		t.Errorf("want segment 1's child still 6, got %d", child)
	}
	parents, err := s.ParentIDs(6)
	if err != nil {
		t.Fatalf("ParentIDs(6): %v", err)
	}
	if !sameSet(parents, []int{1}) {
		t.Errorf("want segment 6's only surviving parent to be 1, got %v", parents)
	}
}

func TestSplitCreatesLinkedHalves(t *testing.T) {
	s := buildNetwork(t)

	pixelsBefore := s.Pixels()[0] // segment 1: 5 owned pixels
	if len(pixelsBefore) != 5 {
		t.Fatalf("fixture assumption broken: segment 1 has %d pixels, want 5", len(pixelsBefore))
	}

	upstreamID, downstreamID, err := s.Split(1, 2)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if s.Len() != 7 {
		t.Fatalf("want 7 segments after Split, got %d", s.Len())
	}

	child, err := s.ChildID(upstreamID)
	if err != nil {
		t.Fatalf("ChildID(upstream): %v", err)
	}
	if child != downstreamID {
		t.Errorf("upstream half should flow into downstream half, got child %d want %d", child, downstreamID)
	}

	child, err = s.ChildID(downstreamID)
	if err != nil {
		t.Fatalf("ChildID(downstream): %v", err)
	}
	if child != 6 {
		t.Errorf("downstream half should keep the original child 6, got %d", child)
	}

	upstreamIdx, err := s.indexOf(upstreamID)
	if err != nil {
		t.Fatalf("indexOf(upstream): %v", err)
	}
	downstreamIdx, err := s.indexOf(downstreamID)
	if err != nil {
		t.Fatalf("indexOf(downstream): %v", err)
	}
	if len(s.pixels[upstreamIdx]) != 3 {
		t.Errorf("want upstream half to own 3 pixels, got %d", len(s.pixels[upstreamIdx]))
	}
	if len(s.pixels[downstreamIdx]) != 2 {
		t.Errorf("want downstream half to own 2 pixels, got %d", len(s.pixels[downstreamIdx]))
	}
}

func TestSplitRejectsBoundaryIndex(t *testing.T) {
	s := buildNetwork(t)
	if _, _, err := s.Split(1, 0); err == nil {
		t.Errorf("want an error splitting at the headwater pixel")
	}
	if _, _, err := s.Split(1, 4); err == nil {
		t.Errorf("want an error splitting at the outlet pixel")
	}
}
