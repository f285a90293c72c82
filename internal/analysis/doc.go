// Package analysis implements the regulatory pay-equality analysis over
// an employee roster.
//
// Given a roster of employee records (salary, sex, age, tenure and
// further compensation-relevant attributes), the package determines
// whether women and men are paid equally for equal work using the
// Standard Analysis Model, a fixed OLS regression of log salary on the
// declared covariates with a binary sex indicator as the last
// coefficient, followed by the Kennedy bias-corrected gap estimate and
// two statutory significance tests.
//
// # Core Components
//
//   - encoding.go: Normalizer maps caller-specific sex/age/entry
//     encodings to the canonical representation, with ordered detector
//     strategies for automatic format inference
//   - plausibility.go: PlausibilityValidator gates implausible records
//     before they can enter the model
//   - prepare.go: Preparer orchestrates normalization and validation,
//     maintains the error ledger and drives the optional bounded
//     cleanup loop through the caller-supplied CleanupFunc port
//   - model.go: FitModel builds the design matrix and fits the Standard
//     Analysis Model by QR-based ordinary least squares
//   - kennedy.go: KennedyGap converts the sex coefficient into the
//     bias-corrected percentage wage gap
//   - significance.go: Classify runs the two t-tests and produces the
//     3-level rating
//   - analyzer.go: Analyzer wires the pipeline end to end and assembles
//     the immutable AnalysisResult
//
// # Usage Example
//
//	params := analysis.AnalysisParameters{
//	    ReferenceMonth: 6,
//	    ReferenceYear:  2025,
//	    FemaleSpec:     "F",
//	    MaleSpec:       "M",
//	    CovariateNames: []string{"age", "tenure", "education"},
//	}
//
//	analyzer := analysis.NewAnalyzer(params, slog.Default())
//	result, err := analyzer.Analyze(ctx, records)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Kennedy gap: %.2f%% (%s)\n",
//	    result.KennedyGap*100, result.Significance.Level)
//
// # Mathematical Foundation
//
// The Standard Analysis Model is
//
//	log(salary) = b₀ + b₁·x₁ + ... + b_k·x_k + β·female + ε
//
// fitted by ordinary least squares. The Kennedy estimator converts the
// sex coefficient β with standard error σ into the percentage gap
//
//	gap = exp(β − σ²/2) − 1
//
// and two Student-t tests with n − rank(X) degrees of freedom classify
// the result: no determinable effect, a valid effect below the statutory
// threshold, or a valid effect above it.
//
// # Error Model
//
// Per-record findings (unmappable encodings, plausibility violations)
// are accumulated in the error ledger and never abort the run unless
// they empty the clean dataset. ConfigurationError,
// InsufficientDataError and RankDeficiencyError are fatal and produce no
// partial result.
//
// # References
//
//   - Kennedy, P.E. (1981). Estimation with correctly interpreted dummy
//     variables in semilogarithmic equations
//   - Swiss federal standard analysis methodology for equal pay audits
package analysis
