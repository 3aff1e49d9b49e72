package projection

import (
	"math"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// BoundingBox is a (left, bottom, right, top) box, with no invariants
// on edge ordering at rest -- the relative order of edges encodes
// orientation. Reprojection and pixel conversion require a CRS.
type BoundingBox struct {
	Left, Bottom, Right, Top float64
	CRS                      *CRS
}

// FromList builds a BoundingBox from [left, bottom, right, top] with an
// optional trailing CRS.
func FromList(values []float64, crs *CRS) (*BoundingBox, error) {
	if len(values) != 4 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "values", "must have exactly 4 elements, got %d", len(values))
	}
	return &BoundingBox{Left: values[0], Bottom: values[1], Right: values[2], Top: values[3], CRS: crs}, nil
}

// FromDict builds a BoundingBox from a map with left/bottom/right/top
// keys.
func FromDict(values map[string]float64, crs *CRS) (*BoundingBox, error) {
	out := &BoundingBox{CRS: crs}
	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"left", &out.Left}, {"bottom", &out.Bottom}, {"right", &out.Right}, {"top", &out.Top},
	} {
		v, ok := values[field.name]
		if !ok {
			return nil, pfdferrors.WithArg(pfdferrors.ErrShape, field.name, "is missing from dict")
		}
		*field.dst = v
	}
	return out, nil
}

// MatchCRS reprojects b into other's CRS, leaving b unchanged if other
// is unset.
func (b *BoundingBox) MatchCRS(other *CRS) (*BoundingBox, error) {
	if !other.IsSet() {
		return b, nil
	}
	return b.Reproject(other)
}

// Reproject converts b's corners into dst and returns a new box.
func (b *BoundingBox) Reproject(dst *CRS) (*BoundingBox, error) {
	if !b.CRS.IsSet() {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingCRS, "b", "has no crs to reproject from")
	}
	xs := []float64{b.Left, b.Right}
	ys := []float64{b.Bottom, b.Top}
	outX, outY, err := Reproject(b.CRS, dst, xs, ys)
	if err != nil {
		return nil, err
	}
	return &BoundingBox{Left: outX[0], Bottom: outY[0], Right: outX[1], Top: outY[1], CRS: dst}, nil
}

// Orient returns a copy of b whose edges are ordered to lie in
// Cartesian quadrant q (1-4), as classified by Transform.Quadrant: q=1
// is left<right, bottom<top (standard); q=2 flips left/right; q=3 flips
// both; q=4 flips bottom/top only.
func (b *BoundingBox) Orient(q int) *BoundingBox {
	left, right := b.Left, b.Right
	bottom, top := b.Bottom, b.Top
	if left > right {
		left, right = right, left
	}
	if bottom > top {
		bottom, top = top, bottom
	}
	out := &BoundingBox{Left: left, Bottom: bottom, Right: right, Top: top, CRS: b.CRS}
	switch q {
	case 2:
		out.Left, out.Right = out.Right, out.Left
	case 3:
		out.Left, out.Right = out.Right, out.Left
		out.Bottom, out.Top = out.Top, out.Bottom
	case 4:
		out.Bottom, out.Top = out.Top, out.Bottom
	}
	return out
}

// Transform derives the affine Transform that would produce b as the
// bounds of a grid with the given shape; orientation (the sign of dx
// and dy) is inferred from the relative order of b's edges.
func (b *BoundingBox) Transform(nrows, ncols int) (*Transform, error) {
	if nrows <= 0 || ncols <= 0 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "shape", "nrows and ncols must be positive, got (%d, %d)", nrows, ncols)
	}
	dx := (b.Right - b.Left) / float64(ncols)
	dy := (b.Bottom - b.Top) / float64(nrows)
	return NewTransform(dx, dy, b.Left, b.Top, b.CRS)
}

// centerLatitude returns the midpoint latitude used as the haversine reference
// for angular CRS pixel-size computations.
func (b *BoundingBox) centerLatitude() float64 {
	return (b.Bottom + b.Top) / 2
}

// PixelSizeMeters computes the pixel size in metres that a grid of the
// given shape covering b would have: haversine-derived for angular CRS
// (using the box's center latitude), or computed directly from the
// CRS's linear unit otherwise.
func (b *BoundingBox) PixelSizeMeters(nrows, ncols int) (xMeters, yMeters float64, err error) {
	if nrows <= 0 || ncols <= 0 {
		return 0, 0, pfdferrors.WithArg(pfdferrors.ErrShape, "shape", "nrows and ncols must be positive, got (%d, %d)", nrows, ncols)
	}
	width := math.Abs(b.Right - b.Left)
	height := math.Abs(b.Top - b.Bottom)
	if !b.CRS.IsSet() {
		return width / float64(ncols), height / float64(nrows), nil
	}
	angular, err := b.CRS.IsAngular()
	if err != nil {
		return 0, 0, err
	}
	if angular {
		lat := b.centerLatitude()
		metersPerDegLon, metersPerDegLat := haversineMetersPerDegree(lat)
		xMeters = (width / float64(ncols)) * metersPerDegLon
		yMeters = (height / float64(nrows)) * metersPerDegLat
		return xMeters, yMeters, nil
	}
	xPerM, yPerM, err := b.CRS.UnitsPerM(nil)
	if err != nil {
		return 0, 0, err
	}
	xMeters = (width / float64(ncols)) / xPerM
	yMeters = (height / float64(nrows)) / yPerM
	return xMeters, yMeters, nil
}

// ToUTM reprojects b into the UTM zone containing its center.
func (b *BoundingBox) ToUTM() (*BoundingBox, error) {
	if !b.CRS.IsSet() {
		return nil, pfdferrors.WithArg(pfdferrors.ErrMissingCRS, "b", "has no crs to reproject from")
	}
	angular, err := b.CRS.IsAngular()
	if err != nil {
		return nil, err
	}
	var lon, lat float64
	if angular {
		lon = (b.Left + b.Right) / 2
		lat = b.centerLatitude()
	} else {
		wgs84 := FromEPSG(4326)
		xs, ys, err := Reproject(b.CRS, wgs84, []float64{(b.Left + b.Right) / 2}, []float64{b.centerLatitude()})
		if err != nil {
			return nil, err
		}
		lon, lat = xs[0], ys[0]
	}
	zone := UTMZone(lon, lat)
	return b.Reproject(FromEPSG(zone))
}
