package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Analyzer orchestrates a full pay-equality analysis: data preparation,
// model fitting, the Kennedy gap estimate and the significance rating.
type Analyzer struct {
	params  AnalysisParameters
	cleanup CleanupFunc
	logger  *slog.Logger

	alpha     float64
	threshold float64
}

// NewAnalyzer creates an analyzer for the given parameters.
func NewAnalyzer(params AnalysisParameters, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		params:    params,
		logger:    logger,
		alpha:     DefaultAlpha,
		threshold: DefaultGapThreshold,
	}
}

// SetCleanupFunc installs the interactive cleanup port. Without it the
// preparation is a single pass even when PromptDataCleanup is set.
func (a *Analyzer) SetCleanupFunc(cleanup CleanupFunc) {
	a.cleanup = cleanup
}

// SetSignificanceLevels overrides the test alpha and the statutory gap
// threshold. Zero values keep the defaults.
func (a *Analyzer) SetSignificanceLevels(alpha, threshold float64) {
	if alpha > 0 {
		a.alpha = alpha
	}
	if threshold > 0 {
		a.threshold = threshold
	}
}

// Analyze runs the pipeline over the raw roster and assembles the
// immutable result. Fatal errors abort before model fitting and produce
// no result.
func (a *Analyzer) Analyze(ctx context.Context, records []EmployeeRecord) (*AnalysisResult, error) {
	start := time.Now()

	a.logger.InfoContext(ctx, "starting pay-equality analysis",
		"records", len(records),
		"reference_year", a.params.ReferenceYear,
		"reference_month", a.params.ReferenceMonth,
	)

	if err := a.params.Validate(); err != nil {
		a.logger.ErrorContext(ctx, "parameter validation failed", "error", err)
		return nil, err
	}

	preparer, err := NewPreparer(a.params, a.cleanup, a.logger)
	if err != nil {
		return nil, err
	}

	clean, ledger, err := preparer.Prepare(ctx, records)
	if err != nil {
		a.logger.ErrorContext(ctx, "data preparation failed", "error", err)
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("analysis cancelled: %w", ctx.Err())
	default:
	}

	model, err := FitModel(clean, a.params.CovariateNames)
	if err != nil {
		a.logger.ErrorContext(ctx, "model fitting failed", "error", err)
		return nil, err
	}

	sex := model.SexCoefficient()
	gap := KennedyGap(sex.Estimate, sex.StdError)

	significance, err := Classify(sex.Estimate, sex.StdError, model.DFResidual, a.alpha, a.threshold)
	if err != nil {
		a.logger.ErrorContext(ctx, "significance testing failed", "error", err)
		return nil, err
	}

	result := &AnalysisResult{
		Parameters:   a.params,
		DataOriginal: copyRecords(records),
		DataClean:    clean,
		Errors:       ledger,
		Model:        model,
		KennedyGap:   gap,
		Significance: significance,
	}

	a.logger.InfoContext(ctx, "analysis completed",
		"duration", time.Since(start),
		"clean_records", len(clean),
		"findings", len(ledger),
		"df_residual", model.DFResidual,
		"kennedy_gap", gap,
		"level", int(significance.Level),
	)

	return result, nil
}

// copyRecords deep-copies the roster so the result never aliases caller
// state.
func copyRecords(records []EmployeeRecord) []EmployeeRecord {
	out := make([]EmployeeRecord, len(records))
	for i, rec := range records {
		out[i] = rec
		if rec.Covariates != nil {
			out[i].Covariates = make(map[string]float64, len(rec.Covariates))
			for k, v := range rec.Covariates {
				out[i].Covariates[k] = v
			}
		}
	}
	return out
}
