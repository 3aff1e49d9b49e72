// Package severity classifies burn severity from a differenced Normalized
// Burn Ratio (dNBR) raster into the four BARC4 classes, and provides
// boolean masks and the canonical class/name mapping built on top of
// that classification.
package severity

import (
	"sort"

	"github.com/samber/lo"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
	"github.com/wildfire-hazards/pfdf-go/raster"
)

// DefaultThresholds are the BARC4 dNBR cutoffs (unburned/low/moderate/high)
// used by Estimate when the caller supplies none.
var DefaultThresholds = []float64{125, 250, 500}

// levelCodes maps a canonical severity name to its raster code.
// classifications is its inverse, returned by Classification.
var levelCodes = map[string]int{
	"unburned": 1,
	"low":      2,
	"moderate": 3,
	"high":     4,
}

var classifications = lo.Invert(levelCodes)

// Classification returns the canonical severity code -> name map: 1
// unburned, 2 low, 3 moderate, 4 high.
func Classification() map[int]string {
	out := make(map[int]string, len(classifications))
	for k, v := range classifications {
		out[k] = v
	}
	return out
}

// Estimate classifies dnbr into severity codes 1-4 using thresholds
// (t1, t2, t3, ascending) via the half-open intervals (-Inf, t1], (t1,
// t2], (t2, t3], (t3, +Inf). Pixels where dnbr is NoData are 0 (severity's
// own NoData) in the output. If thresholds is omitted, DefaultThresholds
// is used.
func Estimate(dnbr *raster.Raster, thresholds ...float64) (*raster.Raster, error) {
	t := DefaultThresholds
	if len(thresholds) > 0 {
		t = thresholds
	}
	if !sort.Float64sAreSorted(t) {
		return nil, pfdferrors.WithArg(pfdferrors.ErrThresholds, "thresholds", "must be sorted in ascending order")
	}

	nrows, ncols := dnbr.NRows, dnbr.NCols
	grid := make([][]float64, nrows)
	for r := 0; r < nrows; r++ {
		grid[r] = make([]float64, ncols)
		for c := 0; c < ncols; c++ {
			if dnbr.IsNoData(r, c) {
				continue
			}
			grid[r][c] = float64(classify(dnbr.At(r, c), t))
		}
	}

	meta, err := raster.NewMetadata(nrows, ncols,
		raster.WithDType(raster.DTypeInt32), raster.WithNoData(0),
		raster.WithCRS(dnbr.CRS), raster.WithTransform(dnbr.Transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}

func classify(value float64, thresholds []float64) int {
	class := 1
	for _, t := range thresholds {
		if value > t {
			class++
			continue
		}
		break
	}
	return class
}

// Mask returns a boolean raster, true wherever sev's code matches one of
// the named levels ("unburned", "low", "moderate", "high"). An unknown
// level name is an error.
func Mask(sev *raster.Raster, levels ...string) (*raster.Raster, error) {
	codes := make(map[int]bool, len(levels))
	for _, name := range levels {
		code, ok := levelCodes[name]
		if !ok {
			return nil, pfdferrors.WithArg(pfdferrors.ErrLevel, "levels", "%q is not a recognized severity level (unburned, low, moderate, high)", name)
		}
		codes[code] = true
	}

	nrows, ncols := sev.NRows, sev.NCols
	grid := make([][]float64, nrows)
	for r := 0; r < nrows; r++ {
		grid[r] = make([]float64, ncols)
		for c := 0; c < ncols; c++ {
			if codes[int(sev.At(r, c))] {
				grid[r][c] = 1
			}
		}
	}

	meta, err := raster.NewMetadata(nrows, ncols,
		raster.WithDType(raster.DTypeBool),
		raster.WithCRS(sev.CRS), raster.WithTransform(sev.Transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}
