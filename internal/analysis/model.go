package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// FitModel fits the Standard Analysis Model by ordinary least squares:
// log(salary) regressed on an intercept, the declared covariates in
// order, and the binary sex indicator (Female = 1) as the last column.
//
// Returns the coefficient vector with standard errors, the coefficient
// covariance matrix, the residual degrees of freedom n - rank(X), and R².
// A design matrix that is not of full column rank is a
// RankDeficiencyError; a duplicated or constant covariate is never
// silently dropped.
func FitModel(records []NormalizedRecord, covariates []string) (ModelResult, error) {
	n := len(records)
	p := 2 + len(covariates) // intercept + covariates + sex indicator

	// s² needs at least one residual degree of freedom.
	if n <= p {
		return ModelResult{}, &InsufficientDataError{
			Clean:   n,
			Message: fmt.Sprintf("need more than %d records to fit %d coefficients", p, p),
		}
	}

	names := make([]string, 0, p)
	names = append(names, CoefficientIntercept)
	names = append(names, covariates...)
	names = append(names, CoefficientSexFemale)

	X := mat.NewDense(n, p, nil)
	y := mat.NewDense(n, 1, nil)
	for i, rec := range records {
		X.Set(i, 0, 1)
		for j, name := range covariates {
			v, err := covariateValue(rec, name)
			if err != nil {
				return ModelResult{}, err
			}
			X.Set(i, 1+j, v)
		}
		indicator := 0.0
		if rec.Sex == SexFemale {
			indicator = 1
		}
		X.Set(i, p-1, indicator)
		y.Set(i, 0, math.Log(rec.Salary))
	}

	var qr mat.QR
	qr.Factorize(X)

	var r mat.Dense
	qr.RTo(&r)

	// Rank via the R diagonal; columns with a vanishing pivot are linear
	// combinations of the columns before them.
	maxDiag := 0.0
	for j := 0; j < p; j++ {
		if d := math.Abs(r.At(j, j)); d > maxDiag {
			maxDiag = d
		}
	}
	tol := 2.220446049250313e-16 * float64(n) * maxDiag
	rank := 0
	var collinear []string
	for j := 0; j < p; j++ {
		if math.Abs(r.At(j, j)) > tol {
			rank++
		} else {
			collinear = append(collinear, names[j])
		}
	}
	if rank < p {
		return ModelResult{}, &RankDeficiencyError{Rank: rank, Columns: collinear}
	}

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return ModelResult{}, fmt.Errorf("solve least squares: %w", err)
	}

	var fitted mat.Dense
	fitted.Mul(X, &beta)

	rss := 0.0
	mean := 0.0
	for i := 0; i < n; i++ {
		resid := y.At(i, 0) - fitted.At(i, 0)
		rss += resid * resid
		mean += y.At(i, 0)
	}
	mean /= float64(n)

	tss := 0.0
	for i := 0; i < n; i++ {
		dev := y.At(i, 0) - mean
		tss += dev * dev
	}

	df := n - rank
	s2 := rss / float64(df)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return ModelResult{}, &RankDeficiencyError{Rank: rank}
	}

	covariance := make([][]float64, p)
	for i := 0; i < p; i++ {
		covariance[i] = make([]float64, p)
		for j := 0; j < p; j++ {
			covariance[i][j] = s2 * xtxInv.At(i, j)
		}
	}

	coefficients := make([]Coefficient, p)
	for j := 0; j < p; j++ {
		coefficients[j] = Coefficient{
			Name:     names[j],
			Estimate: beta.At(j, 0),
			StdError: math.Sqrt(covariance[j][j]),
		}
	}

	rSquared := 0.0
	if tss > 0 {
		rSquared = 1 - rss/tss
		if rSquared < 0 {
			rSquared = 0
		}
		if rSquared > 1 {
			rSquared = 1
		}
	}

	return ModelResult{
		Coefficients: coefficients,
		Covariance:   covariance,
		DFResidual:   df,
		RSquared:     rSquared,
	}, nil
}

// covariateValue resolves a covariate by name: the reserved names select
// the normalized age/tenure fields, anything else the roster covariates.
func covariateValue(rec NormalizedRecord, name string) (float64, error) {
	switch name {
	case CovariateAge:
		return float64(rec.Age), nil
	case CovariateTenure:
		return float64(rec.Tenure), nil
	default:
		v, ok := rec.Covariates[name]
		if !ok {
			return 0, &ConfigurationError{
				Field:   "covariate_names",
				Message: fmt.Sprintf("record %s has no covariate %q", rec.ID, name),
			}
		}
		return v, nil
	}
}
