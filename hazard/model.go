// Package hazard implements the Staley (2017) debris-flow likelihood and
// rainfall-accumulation solver family: a model is a per-duration table of
// four regression coefficients (B, Ct, Cf, Cs), and the harness's value is
// the broadcasting contract between segments/durations/probabilities, the
// screening rule, and the round-trip guarantee between Accumulation and
// Likelihood, not the coefficient values themselves.
package hazard

import pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"

// SupportedDurations are the rainfall-accumulation durations, in minutes,
// that every Model's coefficient vectors are indexed by, in table order.
var SupportedDurations = [3]int{15, 30, 60}

// Model holds one Staley-2017 parameter family's duration-indexed
// coefficient tables.
type Model struct {
	name          string
	b, ct, cf, cs [3]float64
}

// Name returns the model's short identifier ("M1".."M4").
func (m *Model) Name() string { return m.name }

// Parameters returns the model's coefficient vectors. With no durations
// given, all three supported durations are returned in table order
// (15, 30, 60 minutes). Otherwise each requested duration is resolved to
// its column in the table, in request order, repeats included; an
// unsupported duration is a DurationsError.
func (m *Model) Parameters(durations ...int) (B, Ct, Cf, Cs []float64, err error) {
	if len(durations) == 0 {
		return m.b[:], m.ct[:], m.cf[:], m.cs[:], nil
	}
	B = make([]float64, len(durations))
	Ct = make([]float64, len(durations))
	Cf = make([]float64, len(durations))
	Cs = make([]float64, len(durations))
	for i, d := range durations {
		col := -1
		for j, supported := range SupportedDurations {
			if supported == d {
				col = j
				break
			}
		}
		if col < 0 {
			return nil, nil, nil, nil, pfdferrors.WithArg(pfdferrors.ErrDurations, "durations", "%d minutes is not a supported duration (15, 30, 60)", d)
		}
		B[i], Ct[i], Cf[i], Cs[i] = m.b[col], m.ct[col], m.cf[col], m.cs[col]
	}
	return B, Ct, Cf, Cs, nil
}

// TODO: these are documented placeholders, not the published Staley
// (2017) regression coefficients -- wiring the real per-model tables is
// future, out-of-scope work. Column order matches SupportedDurations
// (15, 30, 60 minutes).

// M1 is the proportion-of-catchment-burned-at-moderate-or-high-severity
// terrain variable family.
var M1 = &Model{
	name: "M1",
	b:    [3]float64{-3.63, -3.61, -3.21},
	ct:   [3]float64{0.41, 0.26, 0.17},
	cf:   [3]float64{0.67, 0.39, 0.20},
	cs:   [3]float64{0.70, 0.50, 0.22},
}

// M2 is the average gradient-of-burned-terrain variable family.
var M2 = &Model{
	name: "M2",
	b:    [3]float64{-3.62, -3.61, -3.22},
	ct:   [3]float64{0.64, 0.42, 0.27},
	cf:   [3]float64{0.65, 0.38, 0.19},
	cs:   [3]float64{0.68, 0.49, 0.22},
}

// M3 is the segment-relief variable family.
var M3 = &Model{
	name: "M3",
	b:    [3]float64{-3.71, -3.79, -3.46},
	ct:   [3]float64{0.32, 0.21, 0.14},
	cf:   [3]float64{0.33, 0.19, 0.10},
	cs:   [3]float64{0.47, 0.36, 0.18},
}

// M4 is the proportion-of-catchment-burned variable family.
var M4 = &Model{
	name: "M4",
	b:    [3]float64{-3.60, -3.64, -3.30},
	ct:   [3]float64{0.51, 0.33, 0.20},
	cf:   [3]float64{0.82, 0.46, 0.24},
	cs:   [3]float64{0.27, 0.26, 0.13},
}

// Models lists every supported Model in M1..M4 order.
var Models = []*Model{M1, M2, M3, M4}
