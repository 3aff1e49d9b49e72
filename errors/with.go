package errors

import "fmt"

// WithArg wraps kind with a message naming the offending argument and
// the failing constraint, per the propagation policy of attaching both
// to every validation error before any side effect occurs.
func WithArg(kind error, arg string, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s (%s): %w", arg, msg, kind)
}

// WithRaster wraps kind with the mismatching raster's name and field,
// per the catchment-statistic error contract (name the raster and the
// field that failed to match).
func WithRaster(kind error, rasterName string, field string, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("raster %q field %q (%s): %w", rasterName, field, msg, kind)
}

// WithPath wraps kind with a file-scoped path, for factories that fail
// to read a file.
func WithPath(kind error, path string, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s (%s): %w", path, msg, kind)
}
