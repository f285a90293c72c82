package analysis

import "math"

// KennedyGap converts the fitted sex coefficient and its standard error
// into the bias-corrected percentage wage gap
//
//	gap = exp(β − σ²/2) − 1
//
// which removes the first-order bias of exponentiating a log-linear
// coefficient back to a percentage scale. A zero coefficient maps to a
// zero gap regardless of the variance correction. Positive means women's
// predicted salary exceeds men's under otherwise-equal covariates.
//
// Reference: Kennedy, P.E., 1981. Estimation with correctly interpreted
// dummy variables in semilogarithmic equations. The American Economic
// Review, 71(4), p.801.
func KennedyGap(beta, stderr float64) float64 {
	if beta == 0 {
		return 0
	}
	return math.Expm1(beta - stderr*stderr/2)
}
