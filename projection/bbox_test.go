package projection

import "testing"

func TestFromListValidation(t *testing.T) {
	if _, err := FromList([]float64{1, 2, 3}, nil); err == nil {
		t.Fatal("expected error for 3-element list")
	}
	b, err := FromList([]float64{1, 2, 3, 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.Left != 1 || b.Bottom != 2 || b.Right != 3 || b.Top != 4 {
		t.Errorf("FromList produced %+v", b)
	}
}

func TestFromDict(t *testing.T) {
	b, err := FromDict(map[string]float64{"left": 1, "bottom": 2, "right": 3, "top": 4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if b.Left != 1 || b.Bottom != 2 || b.Right != 3 || b.Top != 4 {
		t.Errorf("FromDict produced %+v", b)
	}
	if _, err := FromDict(map[string]float64{"left": 1}, nil); err == nil {
		t.Fatal("expected error for missing keys")
	}
}

func TestOrient(t *testing.T) {
	b := &BoundingBox{Left: 0, Bottom: 0, Right: 10, Top: 10}
	q1 := b.Orient(1)
	if q1.Left != 0 || q1.Right != 10 || q1.Bottom != 0 || q1.Top != 10 {
		t.Errorf("Orient(1) = %+v", q1)
	}
	q2 := b.Orient(2)
	if q2.Left != 10 || q2.Right != 0 {
		t.Errorf("Orient(2) = %+v", q2)
	}
	q3 := b.Orient(3)
	if q3.Left != 10 || q3.Right != 0 || q3.Bottom != 10 || q3.Top != 0 {
		t.Errorf("Orient(3) = %+v", q3)
	}
	q4 := b.Orient(4)
	if q4.Bottom != 10 || q4.Top != 0 {
		t.Errorf("Orient(4) = %+v", q4)
	}
}

func TestBoundingBoxTransform(t *testing.T) {
	b := &BoundingBox{Left: 0, Bottom: 0, Right: 100, Top: 200}
	tr, err := b.Transform(20, 10)
	if err != nil {
		t.Fatal(err)
	}
	if tr.Dx != 10 {
		t.Errorf("dx = %v, want 10", tr.Dx)
	}
	if tr.Dy != -10 {
		t.Errorf("dy = %v, want -10", tr.Dy)
	}
}

func TestPixelSizeMetersNoCRS(t *testing.T) {
	b := &BoundingBox{Left: 0, Bottom: 0, Right: 100, Top: 50}
	x, y, err := b.PixelSizeMeters(5, 10)
	if err != nil {
		t.Fatal(err)
	}
	if x != 10 || y != 10 {
		t.Errorf("PixelSizeMeters = (%v,%v), want (10,10)", x, y)
	}
}
