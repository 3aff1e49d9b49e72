package projection

import (
	"math"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Transform is an affine map from pixel indices (row, col) to the world
// coordinates of each pixel's upper-left corner:
//
//	x = Left + col*Dx
//	y = Top + row*Dy
//
// Only scale and translation are represented; shear/rotation are not
// supported. Dx and Dy are signed and non-zero.
type Transform struct {
	Dx, Dy   float64
	Left, Top float64
	CRS      *CRS
}

// NewTransform validates and constructs a Transform.
func NewTransform(dx, dy, left, top float64, crs *CRS) (*Transform, error) {
	t := &Transform{Dx: dx, Dy: dy, Left: left, Top: top, CRS: crs}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transform) validate() error {
	for name, v := range map[string]float64{"dx": t.Dx, "dy": t.Dy, "left": t.Left, "top": t.Top} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return pfdferrors.WithArg(pfdferrors.ErrTransform, name, "must be finite, got %v", v)
		}
	}
	if t.Dx == 0 {
		return pfdferrors.WithArg(pfdferrors.ErrTransform, "dx", "must be non-zero")
	}
	if t.Dy == 0 {
		return pfdferrors.WithArg(pfdferrors.ErrTransform, "dy", "must be non-zero")
	}
	return nil
}

// Quadrant classifies the Cartesian orientation implied by the signs of
// Dx and Dy into quadrants 1-4:
//
//	1: dx>0, dy<0 (standard north-up, left-right)
//	2: dx<0, dy<0
//	3: dx<0, dy>0
//	4: dx>0, dy>0
func (t *Transform) Quadrant() int {
	switch {
	case t.Dx > 0 && t.Dy < 0:
		return 1
	case t.Dx < 0 && t.Dy < 0:
		return 2
	case t.Dx < 0 && t.Dy > 0:
		return 3
	default:
		return 4
	}
}

// XY converts a pixel index to the world coordinates of its upper-left
// corner.
func (t *Transform) XY(row, col int) (x, y float64) {
	return t.Left + float64(col)*t.Dx, t.Top + float64(row)*t.Dy
}

// Center returns the world coordinates of a pixel's center.
func (t *Transform) Center(row, col int) (x, y float64) {
	x0, y0 := t.XY(row, col)
	return x0 + t.Dx/2, y0 + t.Dy/2
}

// Bounds returns the BoundingBox implied by t over a grid of the given
// shape.
func (t *Transform) Bounds(nrows, ncols int) *BoundingBox {
	right := t.Left + float64(ncols)*t.Dx
	bottom := t.Top + float64(nrows)*t.Dy
	return &BoundingBox{Left: t.Left, Bottom: bottom, Right: right, Top: t.Top, CRS: t.CRS}
}

// Resolution returns the absolute (xres, yres) pixel resolution in the
// requested linear units. For angular CRS, y is the reference latitude
// used to convert the x-axis resolution (nil -> equator).
func (t *Transform) Resolution(unitsPerMeter float64, y *float64) (xres, yres float64, err error) {
	xPerM, yPerM, err := t.CRS.UnitsPerM(y)
	if err != nil && t.CRS.IsSet() {
		return 0, 0, err
	}
	if !t.CRS.IsSet() {
		xPerM, yPerM = 1, 1
	}
	xMeters := math.Abs(t.Dx) / xPerM
	yMeters := math.Abs(t.Dy) / yPerM
	return xMeters * unitsPerMeter, yMeters * unitsPerMeter, nil
}

// PixelArea returns the area of one pixel in the requested squared
// linear units.
func (t *Transform) PixelArea(unitsPerMeter float64, y *float64) (float64, error) {
	xres, yres, err := t.Resolution(unitsPerMeter, y)
	if err != nil {
		return 0, err
	}
	return xres * yres, nil
}

// PixelDiagonal returns the diagonal length of one pixel in the
// requested linear units.
func (t *Transform) PixelDiagonal(unitsPerMeter float64, y *float64) (float64, error) {
	xres, yres, err := t.Resolution(unitsPerMeter, y)
	if err != nil {
		return 0, err
	}
	return math.Hypot(xres, yres), nil
}

// Reproject reprojects the implied bounds into dst and re-derives dx/dy
// for the requested shape, preserving orientation.
func (t *Transform) Reproject(dst *CRS, nrows, ncols int) (*Transform, error) {
	bounds := t.Bounds(nrows, ncols)
	reprojected, err := bounds.Reproject(dst)
	if err != nil {
		return nil, err
	}
	return reprojected.Transform(nrows, ncols)
}

// Equal compares t and other component-wise. A nil CRS on either side
// is treated as a wildcard that matches any CRS.
func (t *Transform) Equal(other *Transform) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Dx != other.Dx || t.Dy != other.Dy || t.Left != other.Left || t.Top != other.Top {
		return false
	}
	if !t.CRS.IsSet() || !other.CRS.IsSet() {
		return true
	}
	ok, err := t.CRS.Compatible(other.CRS)
	return err == nil && ok
}
