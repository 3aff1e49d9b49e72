// Package noaa documents the acquisition contract for NOAA Atlas 14
// precipitation-frequency estimates: a bounding box and duration/
// recurrence-interval selection resolve to a precipitation-depth
// raster. Wiring a live PFDS client is out of scope here; this package
// gives the core's data.RasterReader contract a named home for it.
package noaa

import (
	"context"
	"time"

	"github.com/soniakeys/meeus/v3/julian"

	"github.com/wildfire-hazards/pfdf-go/projection"
	"github.com/wildfire-hazards/pfdf-go/raster"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Statistic is a NOAA Atlas 14 precipitation-frequency statistic
// (e.g. "mean", "upper (90%)", "lower (90%)").
type Statistic string

// Series selects an Atlas 14 duration/recurrence series: Duration is a
// minutes-to-days duration label ("60-min", "24-hr"), RecurrenceYears
// the average recurrence interval (2, 5, 10, ... 1000 years).
type Series struct {
	Duration        string
	RecurrenceYears int
	Statistic       Statistic
}

// Atlas14 reads a precipitation-depth raster for Series over a
// bounding box. It implements data.RasterReader.
type Atlas14 struct {
	Series Series
}

// Read is unimplemented: querying NOAA's PFDS server and rasterizing
// its point/grid response requires a live network client, out of
// scope for this module.
func (a *Atlas14) Read(ctx context.Context, bounds *projection.BoundingBox, timeout time.Duration) (*raster.Raster, error) {
	return nil, pfdferrors.WithArg(pfdferrors.ErrDataAPI, "series", "NOAA Atlas 14 acquisition is a documented contract, not an implemented client, in this module")
}

// ObservationDate converts a PFDS metadata record's year and
// day-of-year fields into a calendar date. NOAA's Atlas 14 metadata
// reports the record's observation window this way rather than as a
// calendar date directly.
func ObservationDate(year, dayOfYear int) time.Time {
	month, day := julian.DayOfYearToCalendar(dayOfYear, julian.LeapYearGregorian(year))
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
