package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Classify runs the two statutory t-tests on the sex coefficient and
// classifies the outcome into the 3-level rating:
//
//  1. H0: β = 0 vs Ha: β ≠ 0, two-sided at alpha.
//  2. H0: |β| = threshold vs Ha: |β| > threshold, one-sided at alpha.
//
// Level 1 when test 1 is not significant, level 2 when test 1 is
// significant but test 2 is not, level 3 when test 2 is significant. The
// three levels partition every (β, σ, df) with df ≥ 1.
func Classify(beta, stderr float64, df int, alpha, threshold float64) (SignificanceResult, error) {
	if df < 1 {
		return SignificanceResult{}, &InsufficientDataError{
			Message: "at least one residual degree of freedom required for significance testing",
		}
	}
	if stderr < 0 || math.IsNaN(stderr) || math.IsInf(stderr, 0) {
		return SignificanceResult{}, &ConfigurationError{
			Field:   "std_error",
			Message: "standard error must be a finite non-negative number",
		}
	}
	if alpha <= 0 || alpha >= 1 {
		return SignificanceResult{}, &ConfigurationError{
			Field:   "alpha",
			Message: "significance level must lie in (0, 1)",
		}
	}
	if threshold <= 0 {
		return SignificanceResult{}, &ConfigurationError{
			Field:   "threshold",
			Message: "gap threshold must be positive",
		}
	}

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}

	// Test 1: coefficient distinguishable from zero.
	t1 := beta / stderr
	if math.IsNaN(t1) {
		// β = 0 with a zero standard error carries no evidence.
		t1 = 0
	}
	zero := TestResult{
		Statistic:     t1,
		PValue:        2 * dist.Survival(math.Abs(t1)),
		CriticalValue: dist.Quantile(1 - alpha/2),
	}
	zero.Significant = zero.PValue < alpha

	// Test 2: absolute effect above the statutory threshold.
	t2 := (math.Abs(beta) - threshold) / stderr
	if math.IsNaN(t2) {
		t2 = math.Inf(-1)
	}
	thresh := TestResult{
		Statistic:     t2,
		PValue:        dist.Survival(t2),
		CriticalValue: dist.Quantile(1 - alpha),
	}
	thresh.Significant = thresh.PValue < alpha

	level := LevelNoEffect
	switch {
	case thresh.Significant:
		level = LevelAboveThreshold
	case zero.Significant:
		level = LevelBelowThreshold
	}

	return SignificanceResult{
		ZeroEffect: zero,
		Threshold:  thresh,
		Level:      level,
		DF:         df,
		Alpha:      alpha,
		GapBound:   threshold,
	}, nil
}
