// Package services contains the application service layer between the
// HTTP transport and the analysis pipeline.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"payeqcli/internal/analysis"
	"payeqcli/internal/config"
	apierrors "payeqcli/internal/errors"
	"payeqcli/internal/report"
	"payeqcli/pkg/contracts/domain"
)

// validationAPIError flattens validator errors into the API envelope.
func validationAPIError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}
	details := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apierrors.ValidationError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed on the %q rule", fe.Tag()),
		})
	}
	return apierrors.NewValidationErrors(details)
}

// AnalysisService validates API requests, runs the analysis pipeline
// and shapes the response DTOs.
type AnalysisService struct {
	cfg      config.AnalysisConfig
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAnalysisService creates a new analysis service.
func NewAnalysisService(cfg config.AnalysisConfig, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{
		cfg:      cfg,
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "analysis_service")),
	}
}

// Run validates the request, executes the analysis and converts the
// result. Domain errors from the pipeline pass through untouched so
// the error handler can map them.
func (s *AnalysisService) Run(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, validationAPIError(err)
	}

	runID := uuid.New().String()
	logger := s.logger.With(slog.String("run_id", runID))
	logger.InfoContext(ctx, "analysis requested",
		slog.Int("records", len(req.Records)),
		slog.Int("reference_month", req.Parameters.ReferenceMonth),
		slog.Int("reference_year", req.Parameters.ReferenceYear),
	)

	params := s.toParameters(req.Parameters)
	records := toRecords(req.Records)

	analyzer := analysis.NewAnalyzer(params, logger)
	analyzer.SetSignificanceLevels(s.alpha(req.Parameters), s.gapThreshold(req.Parameters))

	result, err := analyzer.Analyze(ctx, records)
	if err != nil {
		return nil, err
	}

	resp := toResponse(result, req.Parameters)
	resp.RunID = runID
	resp.Report = report.Render(result)
	return resp, nil
}

func (s *AnalysisService) toParameters(p domain.ParametersDTO) analysis.AnalysisParameters {
	return analysis.AnalysisParameters{
		ReferenceMonth:          p.ReferenceMonth,
		ReferenceYear:           p.ReferenceYear,
		FemaleSpec:              p.FemaleSpec,
		MaleSpec:                p.MaleSpec,
		AgeSpec:                 analysis.AgeSpec(p.AgeSpec),
		EntrySpec:               analysis.EntrySpec(p.EntrySpec),
		CovariateNames:          p.CovariateNames,
		IgnorePlausibilityCheck: p.IgnorePlausibility,
		MaxCleanupRounds:        s.cfg.MaxCleanupRounds,
		Bounds: analysis.PlausibilityBounds{
			MinWorkingAge: s.cfg.AgeMin,
			MaxWorkingAge: s.cfg.AgeMax,
			SalaryMin:     s.cfg.SalaryMin,
			SalaryMax:     s.cfg.SalaryMax,
		},
	}
}

func (s *AnalysisService) alpha(p domain.ParametersDTO) float64 {
	if p.Alpha > 0 {
		return p.Alpha
	}
	return s.cfg.Alpha
}

func (s *AnalysisService) gapThreshold(p domain.ParametersDTO) float64 {
	if p.GapThreshold > 0 {
		return p.GapThreshold
	}
	return s.cfg.GapThreshold
}

func toRecords(dtos []domain.RecordDTO) []analysis.EmployeeRecord {
	records := make([]analysis.EmployeeRecord, len(dtos))
	for i, dto := range dtos {
		id := dto.ID
		if id == "" {
			id = fmt.Sprintf("%d", i+1)
		}
		records[i] = analysis.EmployeeRecord{
			ID:         id,
			Sex:        dto.Sex,
			Age:        dto.Age,
			Entry:      dto.Entry,
			Salary:     dto.Salary,
			Covariates: dto.Covariates,
		}
	}
	return records
}

func toResponse(result *analysis.AnalysisResult, params domain.ParametersDTO) *domain.AnalysisResponse {
	femaleClean, maleClean := result.CountCleanBySex()

	resp := &domain.AnalysisResponse{
		Parameters:      params,
		RecordsOriginal: len(result.DataOriginal),
		RecordsClean:    len(result.DataClean),
		FemaleClean:     femaleClean,
		MaleClean:       maleClean,
		KennedyGap:      result.KennedyGap,
	}

	for _, finding := range result.Errors {
		dto := domain.FindingDTO{
			RowID:  finding.RowID,
			Field:  finding.Field,
			Reason: string(finding.Reason),
		}
		if finding.Value != nil {
			dto.Value = fmt.Sprintf("%v", finding.Value)
		}
		resp.Findings = append(resp.Findings, dto)
	}

	resp.Model = domain.ModelDTO{
		DFResidual: result.Model.DFResidual,
		RSquared:   result.Model.RSquared,
	}
	for _, c := range result.Model.Coefficients {
		resp.Model.Coefficients = append(resp.Model.Coefficients, domain.CoefficientDTO{
			Name:     c.Name,
			Estimate: c.Estimate,
			StdError: c.StdError,
		})
	}

	sig := result.Significance
	resp.Significance = domain.SignificanceDTO{
		ZeroEffect: toTestDTO(sig.ZeroEffect),
		Threshold:  toTestDTO(sig.Threshold),
		DF:         sig.DF,
		Alpha:      sig.Alpha,
		GapBound:   sig.GapBound,
		Level:      int(sig.Level),
		LevelText:  sig.Level.String(),
	}
	return resp
}

func toTestDTO(t analysis.TestResult) domain.TestDTO {
	return domain.TestDTO{
		Statistic:   t.Statistic,
		PValue:      t.PValue,
		Critical:    t.CriticalValue,
		Significant: t.Significant,
	}
}
