package hazard

import (
	"errors"
	"math"
	"testing"

	pfdferrors "github.com/wildfire-hazards/pfdf-go/errors"
)

func TestParametersDefaultAllDurations(t *testing.T) {
	B, Ct, Cf, Cs := M1.b[:], M1.ct[:], M1.cf[:], M1.cs[:]
	gotB, gotCt, gotCf, gotCs, err := M1.Parameters()
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}
	for i := range B {
		if gotB[i] != B[i] || gotCt[i] != Ct[i] || gotCf[i] != Cf[i] || gotCs[i] != Cs[i] {
			t.Fatalf("column %d: default parameters do not match the model's own table", i)
		}
	}
}

func TestParametersResolvesRequestedDurations(t *testing.T) {
	B, Ct, Cf, Cs, err := M1.Parameters(60, 15, 60)
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}
	want := []int{2, 0, 2}
	for i, col := range want {
		if B[i] != M1.b[col] || Ct[i] != M1.ct[col] || Cf[i] != M1.cf[col] || Cs[i] != M1.cs[col] {
			t.Errorf("request %d (duration %d): want column %d's values, got B=%v Ct=%v Cf=%v Cs=%v", i, SupportedDurations[col], col, B[i], Ct[i], Cf[i], Cs[i])
		}
	}
}

func TestParametersRejectsUnsupportedDuration(t *testing.T) {
	_, _, _, _, err := M1.Parameters(45)
	if !errors.Is(err, pfdferrors.ErrDurations) {
		t.Fatalf("want ErrDurations, got %v", err)
	}
}

func TestAccumulationLikelihoodRoundTrip(t *testing.T) {
	B, Ct, Cf, Cs, err := M1.Parameters(15)
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}
	p := []float64{0.1, 0.25, 0.5, 0.75, 0.9}
	T := []float64{0.2, 0.4, 0.6}
	F := []float64{0.1, 0.3, 0.5}
	S := []float64{0.3, 0.3, 0.8}

	R, err := Accumulation(p, B, Ct, Cf, Cs, T, F, S, true, false)
	if err != nil {
		t.Fatalf("Accumulation: %v", err)
	}

	for n := 0; n < 3; n++ {
		for pi, want := range p {
			r := R.At(n, 0, pi)
			got, err := Likelihood([]float64{r}, B, Ct, Cf, Cs, []float64{T[n]}, []float64{F[n]}, []float64{S[n]}, true)
			if err != nil {
				t.Fatalf("Likelihood: %v", err)
			}
			if math.Abs(got.At(0, 0, 0)-want) > 1e-9 {
				t.Errorf("segment %d, p=%v: round trip gave %v", n, want, got.At(0, 0, 0))
			}
		}
	}
}

func TestAccumulationScreensNonPositiveResult(t *testing.T) {
	out, err := Accumulation([]float64{0.5}, []float64{10}, []float64{0}, []float64{0}, []float64{1}, []float64{0}, []float64{0}, []float64{1}, true, true)
	if err != nil {
		t.Fatalf("Accumulation: %v", err)
	}
	if !math.IsNaN(out.At(0, 0, 0)) {
		t.Errorf("want NaN when screen is on and accumulation is non-positive, got %v", out.At(0, 0, 0))
	}

	unscreened, err := Accumulation([]float64{0.5}, []float64{10}, []float64{0}, []float64{0}, []float64{1}, []float64{0}, []float64{0}, []float64{1}, true, false)
	if err != nil {
		t.Fatalf("Accumulation: %v", err)
	}
	if got := unscreened.At(0, 0, 0); got != -10 {
		t.Errorf("want unscreened accumulation -10, got %v", got)
	}
}

func TestAccumulationKeepdimsSqueezesTrailingDims(t *testing.T) {
	p := []float64{0.5}
	B, Ct, Cf, Cs, err := M1.Parameters(15, 30, 60)
	if err != nil {
		t.Fatalf("Parameters: %v", err)
	}
	T := []float64{0.2, 0.3, 0.4, 0.5, 0.6}

	kept, err := Accumulation(p, B, Ct, Cf, Cs, T, T, T, true, false)
	if err != nil {
		t.Fatalf("Accumulation(keepdims=true): %v", err)
	}
	if len(kept.Shape) != 3 || kept.Shape[0] != 5 || kept.Shape[1] != 3 || kept.Shape[2] != 1 {
		t.Fatalf("want shape [5 3 1], got %v", kept.Shape)
	}

	squeezed, err := Accumulation(p, B, Ct, Cf, Cs, T, T, T, false, false)
	if err != nil {
		t.Fatalf("Accumulation(keepdims=false): %v", err)
	}
	if len(squeezed.Shape) != 2 || squeezed.Shape[0] != 5 || squeezed.Shape[1] != 3 {
		t.Fatalf("want shape [5 3], got %v", squeezed.Shape)
	}
	for n := 0; n < 5; n++ {
		for d := 0; d < 3; d++ {
			if kept.At(n, d, 0) != squeezed.At(n, d) {
				t.Errorf("segment %d duration %d: keepdims and squeezed values disagree", n, d)
			}
		}
	}
}

func TestAccumulationRejectsMismatchedDurationCounts(t *testing.T) {
	_, err := Accumulation([]float64{0.5}, []float64{1, 2}, []float64{1, 2, 3}, []float64{1, 2}, []float64{1, 2}, []float64{1}, []float64{1}, []float64{1}, true, false)
	if !errors.Is(err, pfdferrors.ErrShape) {
		t.Fatalf("want ErrShape, got %v", err)
	}
}

func TestAccumulationRejectsOutOfRangeProbability(t *testing.T) {
	_, err := Accumulation([]float64{2}, []float64{1}, []float64{1}, []float64{1}, []float64{1}, []float64{1}, []float64{1}, []float64{1}, true, false)
	if !errors.Is(err, pfdferrors.ErrProbability) {
		t.Fatalf("want ErrProbability, got %v", err)
	}
}

func TestAccumulationRejectsZeroDenominator(t *testing.T) {
	_, err := Accumulation([]float64{0.5}, []float64{1}, []float64{0}, []float64{0}, []float64{0}, []float64{1}, []float64{1}, []float64{1}, true, false)
	if !errors.Is(err, pfdferrors.ErrAccumulation) {
		t.Fatalf("want ErrAccumulation, got %v", err)
	}
}
