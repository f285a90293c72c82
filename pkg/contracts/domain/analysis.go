// Package domain defines the request and response contracts of the
// pay-equality analysis API.
package domain

// AnalysisRequest is the body of POST /api/analysis.
type AnalysisRequest struct {
	Parameters ParametersDTO `json:"parameters" validate:"required"`
	Records    []RecordDTO   `json:"records" validate:"required,min=1,dive"`
}

// ParametersDTO carries the analysis parameters. Zero-valued optional
// fields fall back to the server defaults.
type ParametersDTO struct {
	ReferenceMonth int    `json:"reference_month" validate:"required,min=1,max=12"`
	ReferenceYear  int    `json:"reference_year" validate:"required,min=1900,max=2200"`
	FemaleSpec     string `json:"female_spec" validate:"required"`
	MaleSpec       string `json:"male_spec" validate:"required,nefield=FemaleSpec"`

	AgeSpec   string `json:"age_spec,omitempty" validate:"omitempty,oneof=birthdate birthyear age"`
	EntrySpec string `json:"entry_spec,omitempty" validate:"omitempty,oneof=entry_date entry_year years"`

	CovariateNames     []string `json:"covariate_names,omitempty"`
	IgnorePlausibility bool     `json:"ignore_plausibility,omitempty"`

	Alpha        float64 `json:"alpha,omitempty" validate:"omitempty,gt=0,lt=1"`
	GapThreshold float64 `json:"gap_threshold,omitempty" validate:"omitempty,gt=0"`
}

// RecordDTO is one employee row. Sex, age and entry stay textual so
// the encoding normalizer can interpret them.
type RecordDTO struct {
	ID         string             `json:"id,omitempty"`
	Sex        string             `json:"sex" validate:"required"`
	Age        string             `json:"age" validate:"required"`
	Entry      string             `json:"entry" validate:"required"`
	Salary     float64            `json:"salary" validate:"required,gt=0"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// AnalysisResponse is the body of a successful analysis run.
type AnalysisResponse struct {
	RunID      string        `json:"run_id"`
	Parameters ParametersDTO `json:"parameters"`

	RecordsOriginal int          `json:"records_original"`
	RecordsClean    int          `json:"records_clean"`
	FemaleClean     int          `json:"female_clean"`
	MaleClean       int          `json:"male_clean"`
	Findings        []FindingDTO `json:"findings,omitempty"`

	Model        ModelDTO        `json:"model"`
	KennedyGap   float64         `json:"kennedy_gap"`
	Significance SignificanceDTO `json:"significance"`

	Report string `json:"report,omitempty"`
}

// FindingDTO describes one excluded record.
type FindingDTO struct {
	RowID  string `json:"row_id"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

// CoefficientDTO is one fitted model coefficient.
type CoefficientDTO struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdError float64 `json:"std_error"`
}

// ModelDTO summarizes the fitted regression model.
type ModelDTO struct {
	Coefficients []CoefficientDTO `json:"coefficients"`
	DFResidual   int              `json:"df_residual"`
	RSquared     float64          `json:"r_squared"`
}

// TestDTO is the outcome of one significance test.
type TestDTO struct {
	Statistic   float64 `json:"statistic"`
	PValue      float64 `json:"p_value"`
	Critical    float64 `json:"critical"`
	Significant bool    `json:"significant"`
}

// SignificanceDTO carries the two-test classification.
type SignificanceDTO struct {
	ZeroEffect TestDTO `json:"zero_effect"`
	Threshold  TestDTO `json:"threshold"`
	DF         int     `json:"df"`
	Alpha      float64 `json:"alpha"`
	GapBound   float64 `json:"gap_bound"`
	Level      int     `json:"level"`
	LevelText  string  `json:"level_text"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
