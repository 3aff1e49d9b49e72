package hazard

import (
	"math"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

// Array is a dense, row-major tensor of broadcast results, at most rank
// 3: (segments, durations, probabilities). Accumulation and Likelihood
// drop trailing size-1 dimensions from Shape when keepdims is false, so
// Shape itself may be rank 1, 2, or 3.
type Array struct {
	Shape []int
	Data  []float64
}

// At returns the value at idx, one coordinate per entry in Shape.
func (a *Array) At(idx ...int) float64 {
	offset := 0
	stride := 1
	for axis := len(a.Shape) - 1; axis >= 0; axis-- {
		offset += idx[axis] * stride
		stride *= a.Shape[axis]
	}
	return a.Data[offset]
}

func (a *Array) squeezeTrailing() {
	shape := append([]int(nil), a.Shape...)
	for len(shape) > 1 && shape[len(shape)-1] == 1 {
		shape = shape[:len(shape)-1]
	}
	a.Shape = shape
}

// logit is the logistic link's inverse: ln(p / (1-p)).
func logit(p float64) float64 {
	return math.Log(p / (1 - p))
}

// logistic is the logistic link: 1 / (1 + exp(-x)).
func logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// broadcastLen resolves the common length of a group of vectors that
// must either agree exactly or be a length-1 scalar, per the model's
// (B, Ct, Cf, Cs) or (T, F, S) broadcasting groups. An empty vector, or
// two vectors of different lengths both greater than 1, is a ShapeError.
func broadcastLen(names []string, vectors [][]float64) (int, error) {
	n := 1
	found := false
	for i, v := range vectors {
		if len(v) == 0 {
			return 0, pfdferrors.WithArg(pfdferrors.ErrEmptyArray, names[i], "must not be empty")
		}
		if len(v) == 1 {
			continue
		}
		if !found {
			n = len(v)
			found = true
			continue
		}
		if len(v) != n {
			return 0, pfdferrors.WithArg(pfdferrors.ErrShape, names[i], "%s has %d elements, expected %d to match the other broadcast inputs", names[i], len(v), n)
		}
	}
	return n, nil
}

func valueAt(v []float64, i int) float64 {
	if len(v) == 1 {
		return v[0]
	}
	return v[i]
}

func validateProbabilities(p []float64) error {
	if len(p) == 0 {
		return pfdferrors.WithArg(pfdferrors.ErrEmptyArray, "p", "must not be empty")
	}
	for _, v := range p {
		if !(v > 0 && v < 1) {
			return pfdferrors.WithArg(pfdferrors.ErrProbability, "p", "must fall strictly within (0, 1), got %v", v)
		}
	}
	return nil
}

// Accumulation solves for the rainfall accumulation R that yields
// probability p under the model relationship
// logit(p) = B + (Ct*T + Cf*F + Cs*S) * R, so
// R = (logit(p) - B) / (Ct*T + Cf*F + Cs*S).
//
// B, Ct, Cf, Cs are the model's per-duration coefficients; T, F, S are
// per-segment terrain, fire, and soil variables. Each group broadcasts
// against the other two axes (segments, durations, probabilities), a
// length-1 vector standing in for any size on its own axis. The result
// has shape (nSegments, nDurations, nProbabilities); if keepdims is
// false, trailing size-1 axes are dropped. If screen is true, a segment
// that cannot reach probability p (a non-positive accumulation) reports
// NaN instead of a negative R.
func Accumulation(p []float64, B, Ct, Cf, Cs []float64, T, F, S []float64, keepdims, screen bool) (*Array, error) {
	if err := validateProbabilities(p); err != nil {
		return nil, err
	}
	nDurations, err := broadcastLen([]string{"B", "Ct", "Cf", "Cs"}, [][]float64{B, Ct, Cf, Cs})
	if err != nil {
		return nil, err
	}
	nSegments, err := broadcastLen([]string{"T", "F", "S"}, [][]float64{T, F, S})
	if err != nil {
		return nil, err
	}
	nProbabilities := len(p)

	data := make([]float64, nSegments*nDurations*nProbabilities)
	idx := 0
	for n := 0; n < nSegments; n++ {
		t, f, s := valueAt(T, n), valueAt(F, n), valueAt(S, n)
		for d := 0; d < nDurations; d++ {
			b, ct, cf, cs := valueAt(B, d), valueAt(Ct, d), valueAt(Cf, d), valueAt(Cs, d)
			linear := ct*t + cf*f + cs*s
			if linear == 0 {
				return nil, pfdferrors.WithArg(pfdferrors.ErrAccumulation, "Ct, Cf, Cs, T, F, S", "segment %d, duration %d: Ct*T + Cf*F + Cs*S is zero, accumulation is undefined", n, d)
			}
			for _, pr := range p {
				r := (logit(pr) - b) / linear
				if screen && r <= 0 {
					r = math.NaN()
				}
				data[idx] = r
				idx++
			}
		}
	}

	arr := &Array{Shape: []int{nSegments, nDurations, nProbabilities}, Data: data}
	if !keepdims {
		arr.squeezeTrailing()
	}
	return arr, nil
}

// Likelihood is Accumulation's inverse: given a rainfall accumulation R,
// it returns the predicted debris-flow probability
// logistic(B + (Ct*T + Cf*F + Cs*S) * R).
//
// Broadcasting and the keepdims trailing-squeeze work exactly as in
// Accumulation, with R taking the role p plays there.
func Likelihood(R []float64, B, Ct, Cf, Cs []float64, T, F, S []float64, keepdims bool) (*Array, error) {
	if len(R) == 0 {
		return nil, pfdferrors.WithArg(pfdferrors.ErrEmptyArray, "R", "must not be empty")
	}
	nDurations, err := broadcastLen([]string{"B", "Ct", "Cf", "Cs"}, [][]float64{B, Ct, Cf, Cs})
	if err != nil {
		return nil, err
	}
	nSegments, err := broadcastLen([]string{"T", "F", "S"}, [][]float64{T, F, S})
	if err != nil {
		return nil, err
	}
	nAccumulations := len(R)

	data := make([]float64, nSegments*nDurations*nAccumulations)
	idx := 0
	for n := 0; n < nSegments; n++ {
		t, f, s := valueAt(T, n), valueAt(F, n), valueAt(S, n)
		for d := 0; d < nDurations; d++ {
			b, ct, cf, cs := valueAt(B, d), valueAt(Ct, d), valueAt(Cf, d), valueAt(Cs, d)
			linear := ct*t + cf*f + cs*s
			for _, r := range R {
				data[idx] = logistic(b + linear*r)
				idx++
			}
		}
	}

	arr := &Array{Shape: []int{nSegments, nDurations, nAccumulations}, Data: data}
	if !keepdims {
		arr.squeezeTrailing()
	}
	return arr, nil
}
