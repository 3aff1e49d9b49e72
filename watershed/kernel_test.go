package watershed

import "testing"

func TestDirectionStringRoundTrips(t *testing.T) {
	for _, d := range neighbors() {
		name := d.String()
		got, ok := ParseDirection(name)
		if !ok {
			t.Fatalf("ParseDirection(%q): not found", name)
		}
		if got != d {
			t.Errorf("round trip for %v: got %v", d, got)
		}
	}
}

func TestOppositeIsInvolution(t *testing.T) {
	for _, d := range neighbors() {
		back := opposite(opposite(d))
		if back != d {
			t.Errorf("opposite(opposite(%v)) = %v, want %v", d, back, d)
		}
	}
	o := opposite(DirE)
	if o != DirW {
		t.Errorf("opposite(E): want W, got %v", o)
	}
}

func TestOffsetsAreDistinctUnitSteps(t *testing.T) {
	seen := map[[2]int]bool{}
	for _, d := range neighbors() {
		dr, dc := Offset(d)
		if dr == 0 && dc == 0 {
			t.Errorf("direction %v has a zero offset", d)
		}
		key := [2]int{dr, dc}
		if seen[key] {
			t.Errorf("direction %v duplicates an offset already seen", d)
		}
		seen[key] = true
	}
}
