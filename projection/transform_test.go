package projection

import (
	"math"
	"testing"
)

func TestNewTransformValidation(t *testing.T) {
	cases := []struct {
		name                 string
		dx, dy, left, top    float64
		wantErr              bool
	}{
		{"valid", 10, -10, 0, 100, false},
		{"zero dx", 0, -10, 0, 100, true},
		{"zero dy", 10, 0, 0, 100, true},
		{"infinite left", 10, -10, math.Inf(1), 100, true},
		{"nan top", 10, -10, 0, math.NaN(), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := NewTransform(c.dx, c.dy, c.left, c.top, nil)
			if (err != nil) != c.wantErr {
				t.Fatalf("NewTransform(%v,%v,%v,%v) error = %v, wantErr %v", c.dx, c.dy, c.left, c.top, err, c.wantErr)
			}
		})
	}
}

func TestQuadrant(t *testing.T) {
	cases := []struct {
		dx, dy float64
		want   int
	}{
		{10, -10, 1},
		{-10, -10, 2},
		{-10, 10, 3},
		{10, 10, 4},
	}
	for _, c := range cases {
		tr, err := NewTransform(c.dx, c.dy, 0, 0, nil)
		if err != nil {
			t.Fatal(err)
		}
		if got := tr.Quadrant(); got != c.want {
			t.Errorf("Quadrant(dx=%v,dy=%v) = %d, want %d", c.dx, c.dy, got, c.want)
		}
	}
}

func TestBoundsTransformRoundTrip(t *testing.T) {
	tr, err := NewTransform(10, -10, 100, 500, nil)
	if err != nil {
		t.Fatal(err)
	}
	nrows, ncols := 20, 30
	bounds := tr.Bounds(nrows, ncols)
	back, err := bounds.Transform(nrows, ncols)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Equal(back) {
		t.Errorf("bounds(shape).transform(shape) = %+v, want %+v", back, tr)
	}
}

func TestXYAndCenter(t *testing.T) {
	tr, err := NewTransform(10, -10, 0, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	x, y := tr.XY(0, 0)
	if x != 0 || y != 100 {
		t.Errorf("XY(0,0) = (%v,%v), want (0,100)", x, y)
	}
	cx, cy := tr.Center(0, 0)
	if cx != 5 || cy != 95 {
		t.Errorf("Center(0,0) = (%v,%v), want (5,95)", cx, cy)
	}
}

func TestResolutionNoCRS(t *testing.T) {
	tr, err := NewTransform(10, -10, 0, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	xres, yres, err := tr.Resolution(1.0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if xres != 10 || yres != 10 {
		t.Errorf("Resolution = (%v,%v), want (10,10)", xres, yres)
	}
}
