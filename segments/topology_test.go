package segments

import "testing"

func TestIsNested(t *testing.T) {
	s := buildNetwork(t)
	nested, err := s.IsNested(3, 6)
	if err != nil {
		t.Fatalf("IsNested: %v", err)
	}
	if nested[0] || nested[1] {
		t.Errorf("terminal segments should not be nested, got %v", nested)
	}

	nested, err = s.IsNested(1, 2)
	if err != nil {
		t.Fatalf("IsNested: %v", err)
	}
	if !nested[0] || !nested[1] {
		t.Errorf("non-terminal segments should be nested, got %v", nested)
	}
}

func TestOrphans(t *testing.T) {
	s := buildNetwork(t)
	// Segment 3 is a lone headwater-to-domain-edge reach: it never
	// receives a parent and never merges into another segment.
	got := s.Orphans()
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("want orphans [3], got %v", got)
	}
}

func TestContinuous(t *testing.T) {
	s := buildNetwork(t)

	ok, err := s.Continuous([]int{1, 6})
	if err != nil {
		t.Fatalf("Continuous: %v", err)
	}
	if !ok {
		t.Errorf("segment 1 -> 6 is directly connected, want continuous")
	}

	ok, err = s.Continuous([]int{3, 4})
	if err != nil {
		t.Fatalf("Continuous: %v", err)
	}
	if ok {
		t.Errorf("segments 3 and 4 share no edge, want not continuous")
	}

	ok, err = s.Continuous([]int{2, 5, 4})
	if err != nil {
		t.Fatalf("Continuous: %v", err)
	}
	if !ok {
		t.Errorf("2 and 5 both flow directly into 4, want continuous")
	}
}

func TestContinuousEmpty(t *testing.T) {
	s := buildNetwork(t)
	ok, err := s.Continuous(nil)
	if err != nil {
		t.Fatalf("Continuous: %v", err)
	}
	if !ok {
		t.Errorf("an empty id set is vacuously continuous")
	}
}
