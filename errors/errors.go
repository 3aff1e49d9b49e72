// Package errors defines the sentinel error kinds shared across pfdf-go's
// raster, segments, watershed, and data-acquisition packages. Callers
// distinguish kinds with errors.Is/errors.As; messages attaching the
// offending argument are built with the With* constructors below.
package errors

import "errors"

// Array/shape errors.
var (
	ErrShape      = errors.New("shape error")
	ErrDimension  = errors.New("dimension error")
	ErrEmptyArray = errors.New("empty array error")
)

// Raster metadata-compatibility errors.
var (
	ErrRasterShape     = errors.New("raster shape error")
	ErrRasterCRS       = errors.New("raster crs error")
	ErrRasterTransform = errors.New("raster transform error")
)

// Missing-metadata errors.
var (
	ErrMissingCRS       = errors.New("missing crs error")
	ErrMissingTransform = errors.New("missing transform error")
	ErrMissingNoData    = errors.New("missing nodata error")
)

// Projection errors.
var (
	ErrCRS       = errors.New("crs error")
	ErrTransform = errors.New("transform error")
)

// Vector-input errors.
var (
	ErrFeatureFile = errors.New("feature file error")
	ErrNoFeatures  = errors.New("no features error")
	ErrGeometry    = errors.New("geometry error")
	ErrPoint       = errors.New("point error")
	ErrPolygon     = errors.New("polygon error")
)

// Hazard-model errors.
var (
	ErrDurations    = errors.New("durations error")
	ErrProbability  = errors.New("probability error")
	ErrAccumulation = errors.New("accumulation error")
)

// Severity-classification errors.
var (
	ErrThresholds = errors.New("thresholds error")
	ErrLevel      = errors.New("level error")
)

// Watershed-kernel errors.
var (
	ErrPixel      = errors.New("pixel error")
	ErrNoOutlet   = errors.New("no outlet error")
	ErrMaxLength  = errors.New("max length error")
)

// Segment-network errors.
var (
	ErrSegmentID = errors.New("segment id error")
	ErrTopology  = errors.New("topology error")
)

// Acquisition-layer errors.
var (
	ErrDataAPI            = errors.New("data api error")
	ErrMissingAPIField    = errors.New("missing api field error")
	ErrNoTNMProducts      = errors.New("no tnm products error")
	ErrTooManyTNMProducts = errors.New("too many tnm products error")
	ErrInvalidLFPSJob     = errors.New("invalid lfps job error")
	ErrLFPSJobTimeout     = errors.New("lfps job timeout error")
	ErrInvalidJSON        = errors.New("invalid json error")
)

// Casting errors.
var ErrUnsafeCast = errors.New("unsafe cast error")

// ErrMemory is returned when a reprojection/clip/buffer/rasterize
// operation would allocate an unreasonably large array. The caller is
// expected to narrow bounds or coarsen resolution.
var ErrMemory = errors.New("memory error")
