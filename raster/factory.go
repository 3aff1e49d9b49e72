package raster

import (
	stgpsr "github.com/yuin/stagparser"

	"github.com/wildfire-hazards/pfdf-go/projection"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// FromArrayOptions configures FromArray. It collapses an optional
// keyword-argument surface into a builder struct with explicit
// Default/Set states per option, so that unset spatial options inherit
// from Spatial and explicit options override it.
//
// Casting's zero value resolves through the `default` struct tag
// rather than a hardcoded constant, the same tag-driven resolution
// used elsewhere in this module to pull defaults off struct fields.
type FromArrayOptions struct {
	NoData        *float64
	CRS           *projection.CRS
	Transform     *projection.Transform
	Bounds        *projection.BoundingBox
	Spatial       *RasterMetadata // template to inherit crs/transform from
	IsBool        bool
	EnsureNoData  bool
	DefaultNoData *float64
	Casting       Casting `default:"casting=safe"`
}

var castingNames = map[string]Casting{
	"no":        CastNo,
	"equiv":     CastEquiv,
	"safe":      CastSafe,
	"same_kind": CastSameKind,
	"unsafe":    CastUnsafe,
}

// defaultCasting resolves FromArrayOptions's zero-value Casting from
// its `default` struct tag instead of a bare constant.
func defaultCasting() Casting {
	defs, err := stgpsr.ParseStruct(&FromArrayOptions{}, "default")
	if err != nil {
		return CastSafe
	}
	for _, def := range defs["Casting"] {
		if def.Name() != "casting" {
			continue
		}
		value, ok := def.Attribute("casting")
		if !ok {
			continue
		}
		if casting, ok := castingNames[value]; ok {
			return casting
		}
	}
	return CastSafe
}

// FromArray builds a Raster directly from a value grid.
func FromArray(values [][]float64, dtype DType, opts FromArrayOptions) (*Raster, error) {
	if len(values) == 0 || len(values[0]) == 0 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrEmptyArray, "values", "must have at least one row and column")
	}
	if opts.Transform != nil && opts.Bounds != nil {
		return nil, pfdferrors.WithArg(pfdferrors.ErrTransform, "bounds", "transform and bounds are mutually exclusive")
	}

	nrows, ncols := len(values), len(values[0])

	crs := opts.CRS
	transform := opts.Transform
	bounds := opts.Bounds
	if opts.Spatial != nil {
		if crs == nil {
			crs = opts.Spatial.CRS
		}
		if transform == nil && bounds == nil {
			transform = opts.Spatial.Transform
		}
	}

	if opts.IsBool {
		dtype = DTypeBool
	}

	casting := opts.Casting
	if casting == 0 && !opts.IsBool {
		casting = defaultCasting()
	}

	metaOpts := []NewMetadataOption{WithDType(dtype), WithCasting(casting)}
	if crs != nil {
		metaOpts = append(metaOpts, WithCRS(crs))
	}
	if transform != nil {
		metaOpts = append(metaOpts, WithTransform(transform))
	} else if bounds != nil {
		metaOpts = append(metaOpts, WithBounds(bounds))
	}

	nodataSet := opts.NoData != nil
	nodataValue := 0.0
	if nodataSet {
		nodataValue = *opts.NoData
	} else if opts.EnsureNoData {
		def := opts.DefaultNoData
		var v any
		var err error
		if def != nil {
			v = *def
		} else {
			v, err = DefaultNoData(dtype)
			if err != nil {
				return nil, err
			}
		}
		nodataValue = v.(float64)
		nodataSet = true
	}
	if nodataSet {
		metaOpts = append(metaOpts, WithNoData(nodataValue))
	}

	meta, err := NewMetadata(nrows, ncols, metaOpts...)
	if err != nil {
		return nil, err
	}

	grid := allocGrid(nrows, ncols)
	for i := 0; i < nrows; i++ {
		if len(values[i]) != ncols {
			return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "values", "row %d: expected %d cols, got %d", i, ncols, len(values[i]))
		}
		for j := 0; j < ncols; j++ {
			v, ok := CanCast(values[i][j], dtype, casting)
			if !ok {
				return nil, pfdferrors.WithArg(pfdferrors.ErrUnsafeCast, "values", "value %v at (%d,%d) is not representable in dtype %s", values[i][j], i, j, dtype)
			}
			grid[i][j] = v
		}
	}

	return &Raster{RasterMetadata: meta, values: grid}, nil
}

// PyshedsCompatible is the Go analogue of adapting a foreign
// watershed-library raster object: anything that exposes its shape and
// a row-major value view.
type PyshedsCompatible interface {
	Shape() (nrows, ncols int)
	View() [][]float64
}

// FromPyshedsCompatible adapts a foreign raster-like object into an
// owned Raster.
func FromPyshedsCompatible(src PyshedsCompatible, dtype DType, opts FromArrayOptions) (*Raster, error) {
	nrows, ncols := src.Shape()
	view := src.View()
	if len(view) != nrows {
		return nil, pfdferrors.WithArg(pfdferrors.ErrShape, "src", "View() rows (%d) do not match Shape() (%d)", len(view), nrows)
	}
	_ = ncols
	return FromArray(view, dtype, opts)
}

// pyshedsGrid adapts a Raster into the minimal {Shape, View} contract so
// it can be handed to a foreign watershed library.
type pyshedsGrid struct {
	nrows, ncols int
	values       [][]float64
}

func (g *pyshedsGrid) Shape() (int, int) { return g.nrows, g.ncols }
func (g *pyshedsGrid) View() [][]float64 { return g.values }

// AsPysheds adapts r to the PyshedsCompatible interface.
func (r *Raster) AsPysheds() PyshedsCompatible {
	return &pyshedsGrid{nrows: r.NRows, ncols: r.NCols, values: r.values}
}
