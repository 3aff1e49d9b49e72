package segments

import (
	"math"

	"github.com/wildfire-hazards/pfdf-go/raster"
	"github.com/wildfire-hazards/pfdf-go/watershed"
)

// CatchmentSum computes an accumulation of values (optionally weighted,
// optionally restricted to mask, optionally treating values' NoData as
// NaN rather than skipping it) and samples it at every segment's
// outlet. If terminalOnly is set, non-terminal segments report NaN.
// values may be nil, in which case every catchment pixel contributes 1
// (so the result is a catchment pixel count, weighted by weights if
// given).
func (s *Segments) CatchmentSum(values, weights *raster.Raster, mask [][]bool, omitNaN, terminalOnly bool) ([]float64, error) {
	if values != nil {
		if err := s.Flow.MatchesFlow(values, "values"); err != nil {
			return nil, err
		}
	}
	if weights != nil {
		if err := s.Flow.MatchesFlow(weights, "weights"); err != nil {
			return nil, err
		}
	}

	numerator, err := s.weightedGrid(values, weights, omitNaN)
	if err != nil {
		return nil, err
	}
	acc, err := watershed.Accumulation(s.Flow, numerator, mask)
	if err != nil {
		return nil, err
	}
	return s.sampleOutlets(acc, terminalOnly), nil
}

// CatchmentMean is CatchmentSum divided by the matching accumulation of
// weights alone (or of a uniform weight of 1, if weights is nil): the
// weighted average of values over each segment's catchment.
func (s *Segments) CatchmentMean(values, weights *raster.Raster, mask [][]bool, omitNaN, terminalOnly bool) ([]float64, error) {
	sums, err := s.CatchmentSum(values, weights, mask, omitNaN, terminalOnly)
	if err != nil {
		return nil, err
	}

	denomGrid, err := s.weightedGrid(nil, weights, false)
	if err != nil {
		return nil, err
	}
	denomAcc, err := watershed.Accumulation(s.Flow, denomGrid, mask)
	if err != nil {
		return nil, err
	}
	denoms := s.sampleOutlets(denomAcc, false)

	means := make([]float64, len(sums))
	for i := range means {
		if math.IsNaN(sums[i]) || denoms[i] == 0 {
			means[i] = math.NaN()
			continue
		}
		means[i] = sums[i] / denoms[i]
	}
	return means, nil
}

// weightedGrid builds a per-pixel values*weights raster suitable for
// watershed.Accumulation's weights argument. A nil values or weights
// raster contributes a factor of 1 at every pixel.
func (s *Segments) weightedGrid(values, weights *raster.Raster, omitNaN bool) (*raster.Raster, error) {
	nrows, ncols := s.Flow.NRows, s.Flow.NCols
	grid := make([][]float64, nrows)
	for r := 0; r < nrows; r++ {
		grid[r] = make([]float64, ncols)
		for c := 0; c < ncols; c++ {
			v := 1.0
			if values != nil {
				if values.IsNoData(r, c) {
					if omitNaN {
						v = 0
					} else {
						v = math.NaN()
					}
				} else {
					v = values.At(r, c)
				}
			}
			w := 1.0
			if weights != nil {
				if weights.IsNoData(r, c) {
					w = math.NaN()
				} else {
					w = weights.At(r, c)
				}
			}
			grid[r][c] = v * w
		}
	}
	meta, err := raster.NewMetadata(nrows, ncols,
		raster.WithDType(raster.DTypeFloat64), raster.WithNoData(math.NaN()),
		raster.WithCRS(s.Flow.CRS), raster.WithTransform(s.Flow.Transform))
	if err != nil {
		return nil, err
	}
	return raster.New(meta, grid, false)
}

func (s *Segments) sampleOutlets(acc *raster.Raster, terminalOnly bool) []float64 {
	out := make([]float64, len(s.outlet))
	for i, o := range s.outlet {
		if terminalOnly && s.child[i] >= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = acc.At(o[0], o[1])
	}
	return out
}
