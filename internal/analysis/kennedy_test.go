package analysis

import (
	"math"
	"testing"
)

// approxEqual checks relative/absolute closeness for float comparisons.
func approxEqual(got, want, tol float64) bool {
	if math.IsNaN(got) || math.IsNaN(want) {
		return false
	}
	diff := math.Abs(got - want)
	if diff <= tol {
		return true
	}
	return diff <= tol*math.Max(math.Abs(got), math.Abs(want))
}

func TestKennedyGapZeroCoefficient(t *testing.T) {
	// A zero coefficient must map to a zero gap regardless of sigma.
	for _, stderr := range []float64{0, 0.01, 0.5, 2.0} {
		if gap := KennedyGap(0, stderr); gap != 0 {
			t.Errorf("KennedyGap(0, %v) = %v, want 0", stderr, gap)
		}
	}
}

func TestKennedyGapKnownValues(t *testing.T) {
	tests := []struct {
		name   string
		beta   float64
		stderr float64
		want   float64
	}{
		{"negative_gap_no_variance", -0.05, 0, math.Expm1(-0.05)},
		{"positive_gap_no_variance", 0.10, 0, math.Expm1(0.10)},
		{"variance_correction", 0.10, 0.2, math.Expm1(0.10 - 0.02)},
		{"small_negative", -0.057179, 0.026974, -0.0559},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KennedyGap(tt.beta, tt.stderr)
			if !approxEqual(got, tt.want, 1e-3) {
				t.Errorf("KennedyGap(%v, %v) = %v, want %v", tt.beta, tt.stderr, got, tt.want)
			}
		})
	}
}

func TestKennedyGapMonotonicInBeta(t *testing.T) {
	const stderr = 0.1

	prev := math.Inf(-1)
	for beta := -0.5; beta <= 0.5; beta += 0.01 {
		gap := KennedyGap(beta, stderr)
		if beta != 0 && gap <= prev {
			t.Fatalf("gap not monotonically increasing at beta=%v: %v <= %v", beta, gap, prev)
		}
		if beta != 0 {
			prev = gap
		}
	}
}

func TestKennedyGapSign(t *testing.T) {
	// Positive beta with small variance means women's predicted salary
	// exceeds men's.
	if gap := KennedyGap(0.08, 0.01); gap <= 0 {
		t.Errorf("expected positive gap, got %v", gap)
	}
	if gap := KennedyGap(-0.08, 0.01); gap >= 0 {
		t.Errorf("expected negative gap, got %v", gap)
	}
}
