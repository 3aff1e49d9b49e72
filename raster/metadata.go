package raster

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// RasterMetadata is the metadata half of a Raster: shape, dtype,
// nodata, crs, and an affine transform.
type RasterMetadata struct {
	NRows, NCols int
	DType        DType
	HasNoData    bool
	NoData       float64
	CRS          *projection.CRS
	Transform    *projection.Transform
}

// Shape returns (nrows, ncols).
func (m *RasterMetadata) Shape() (int, int) {
	return m.NRows, m.NCols
}

// Bounds returns the bounding box implied by the metadata's transform,
// or nil if no transform is set.
func (m *RasterMetadata) Bounds() *projection.BoundingBox {
	if m.Transform == nil {
		return nil
	}
	return m.Transform.Bounds(m.NRows, m.NCols)
}

// NewMetadataOption configures NewMetadata.
type NewMetadataOption func(*metadataOptions)

type metadataOptions struct {
	dtype     DType
	hasDType  bool
	nodata    float64
	hasNoData bool
	crs       *projection.CRS
	transform *projection.Transform
	bounds    *projection.BoundingBox
	casting   Casting
}

func WithDType(d DType) NewMetadataOption {
	return func(o *metadataOptions) { o.dtype = d; o.hasDType = true }
}

func WithNoData(v float64) NewMetadataOption {
	return func(o *metadataOptions) { o.nodata = v; o.hasNoData = true }
}

func WithCRS(c *projection.CRS) NewMetadataOption {
	return func(o *metadataOptions) { o.crs = c }
}

func WithTransform(t *projection.Transform) NewMetadataOption {
	return func(o *metadataOptions) { o.transform = t }
}

func WithBounds(b *projection.BoundingBox) NewMetadataOption {
	return func(o *metadataOptions) { o.bounds = b }
}

func WithCasting(c Casting) NewMetadataOption {
	return func(o *metadataOptions) { o.casting = c }
}

// NewMetadata constructs a RasterMetadata, enforcing its invariants:
//
//	(i)   nodata present => dtype present and nodata representable
//	(ii)  exactly one of transform/bounds is given
//	(iii) if both crs and a georeferenced transform/bounds are given
//	      with differing CRS, the transform/bounds are reprojected
//	      into crs first
//	(iv)  a zero-valued shape may not carry bounds
func NewMetadata(nrows, ncols int, opts ...NewMetadataOption) (*RasterMetadata, error) {
	o := &metadataOptions{casting: CastSafe}
	for _, opt := range opts {
		opt(o)
	}

	if o.transform != nil && o.bounds != nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrTransform, "bounds", "transform and bounds are mutually exclusive")
	}

	zeroShape := nrows == 0 || ncols == 0
	if zeroShape && o.bounds != nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "bounds", "may not be specified when shape contains a zero dimension")
	}

	m := &RasterMetadata{NRows: nrows, NCols: ncols, CRS: o.crs}

	if o.hasDType {
		m.DType = o.dtype
	}

	transform := o.transform
	if o.bounds != nil && !zeroShape {
		derived, err := o.bounds.Transform(nrows, ncols)
		if err != nil {
			return nil, err
		}
		transform = derived
	}

	if transform != nil && o.crs.IsSet() && transform.CRS.IsSet() {
		compatible, err := o.crs.Compatible(transform.CRS)
		if err != nil {
			return nil, err
		}
		if !compatible {
			reprojected, err := transform.Reproject(o.crs, nrows, ncols)
			if err != nil {
				return nil, err
			}
			transform = reprojected
		}
	}
	if transform != nil && !transform.CRS.IsSet() && o.crs.IsSet() {
		transform = &projection.Transform{Dx: transform.Dx, Dy: transform.Dy, Left: transform.Left, Top: transform.Top, CRS: o.crs}
	}
	m.Transform = transform

	if o.hasNoData {
		if !o.hasDType {
			return nil, pfdferrors.WithArg(pfdferrors.ErrMissingNoData, "dtype", "dtype must be set whenever nodata is provided")
		}
		value, err := ValidateNoData(o.nodata, o.dtype, o.casting)
		if err != nil {
			return nil, err
		}
		m.HasNoData = true
		m.NoData = value
	}

	return m, nil
}

// matches reports whether m and other share shape, and (when required)
// crs/transform, returning a descriptive error on mismatch. Used by
// per-segment statistic operations to validate an auxiliary raster
// against the flow raster it must align with.
func (m *RasterMetadata) matches(other *RasterMetadata, name string, checkCRS, checkTransform bool) error {
	if m.NRows != other.NRows || m.NCols != other.NCols {
		return pfdferrors.WithRaster(pfdferrors.ErrRasterShape, name, "shape", "expected (%d, %d), got (%d, %d)", m.NRows, m.NCols, other.NRows, other.NCols)
	}
	if checkCRS {
		ok, err := m.CRS.Compatible(other.CRS)
		if err != nil {
			return err
		}
		if !ok {
			return pfdferrors.WithRaster(pfdferrors.ErrRasterCRS, name, "crs", "does not match reference raster's crs")
		}
	}
	if checkTransform {
		if !m.Transform.Equal(other.Transform) {
			return pfdferrors.WithRaster(pfdferrors.ErrRasterTransform, name, "transform", "does not match reference raster's transform")
		}
	}
	return nil
}

// NaNAwareEqual reports whether a and b are equal, treating NaN == NaN
// as true.
func NaNAwareEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}
