package analysis

import (
	"strings"
	"time"
)

// Sex is the canonical sex label after encoding normalization.
type Sex string

const (
	SexFemale Sex = "Female"
	SexMale   Sex = "Male"
)

// AgeSpec identifies how the age column of the raw roster is encoded.
// The zero value requests automatic inference from the column contents.
type AgeSpec string

const (
	AgeSpecAuto      AgeSpec = ""
	AgeSpecYears     AgeSpec = "age"
	AgeSpecBirthYear AgeSpec = "birthyear"
	AgeSpecBirthDate AgeSpec = "birthdate"
)

// EntrySpec identifies how the entry/tenure column of the raw roster is
// encoded. The zero value requests automatic inference.
type EntrySpec string

const (
	EntrySpecAuto      EntrySpec = ""
	EntrySpecYears     EntrySpec = "years"
	EntrySpecEntryYear EntrySpec = "entry_year"
	EntrySpecEntryDate EntrySpec = "entry_date"
)

// EmployeeRecord is a single raw roster row. Sex, Age and Entry carry the
// caller's own encoding and are interpreted by the Normalizer; Salary and
// the covariates must already be numeric.
type EmployeeRecord struct {
	ID         string             `json:"id"`
	Sex        string             `json:"sex"`
	Age        string             `json:"age"`
	Entry      string             `json:"entry"`
	Salary     float64            `json:"salary"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// NormalizedRecord is an EmployeeRecord after encoding normalization.
// Age and Tenure are whole years as of the reference date.
type NormalizedRecord struct {
	ID         string             `json:"id"`
	Sex        Sex                `json:"sex"`
	Age        int                `json:"age"`
	Tenure     int                `json:"tenure"`
	Salary     float64            `json:"salary"`
	Covariates map[string]float64 `json:"covariates,omitempty"`
}

// ReasonCode classifies a per-record data finding.
type ReasonCode string

const (
	ReasonSexUnmapped       ReasonCode = "sex_unmapped"
	ReasonAgeUnparseable    ReasonCode = "age_unparseable"
	ReasonTenureUnparseable ReasonCode = "tenure_unparseable"
	ReasonSalaryInvalid     ReasonCode = "salary_invalid"
	ReasonCovariateMissing  ReasonCode = "covariate_missing"
	ReasonAgeImplausible    ReasonCode = "age_implausible"
	ReasonTenureImplausible ReasonCode = "tenure_implausible"
	ReasonSalaryImplausible ReasonCode = "salary_implausible"
)

// DataError is a single finding against a roster row. It references the
// offending record by row ID and never mutates the dataset.
type DataError struct {
	RowID   string     `json:"row_id"`
	Field   string     `json:"field"`
	Reason  ReasonCode `json:"reason"`
	Message string     `json:"message"`
	Value   any        `json:"value,omitempty"`
}

// Error implements the error interface.
func (de DataError) Error() string {
	return de.Message
}

// PlausibilityBounds configures the plausibility gate.
type PlausibilityBounds struct {
	MinWorkingAge int     `json:"min_working_age"`
	MaxWorkingAge int     `json:"max_working_age"`
	SalaryMin     float64 `json:"salary_min"`
	SalaryMax     float64 `json:"salary_max"`
}

// DefaultPlausibilityBounds returns the recommended default bounds.
func DefaultPlausibilityBounds() PlausibilityBounds {
	return PlausibilityBounds{
		MinWorkingAge: DefaultMinWorkingAge,
		MaxWorkingAge: DefaultMaxWorkingAge,
		SalaryMin:     DefaultSalaryMin,
		SalaryMax:     DefaultSalaryMax,
	}
}

// IsValid checks if the bounds are internally consistent.
func (pb PlausibilityBounds) IsValid() bool {
	return pb.MinWorkingAge > 0 && pb.MaxWorkingAge > pb.MinWorkingAge &&
		pb.SalaryMin > 0 && pb.SalaryMax > pb.SalaryMin
}

// AnalysisParameters configures a single analysis run. Immutable once the
// analysis begins; the Analyzer works on a value copy.
type AnalysisParameters struct {
	ReferenceMonth int    `json:"reference_month"`
	ReferenceYear  int    `json:"reference_year"`
	FemaleSpec     string `json:"female_spec"`
	MaleSpec       string `json:"male_spec"`

	AgeSpec   AgeSpec   `json:"age_spec,omitempty"`
	EntrySpec EntrySpec `json:"entry_spec,omitempty"`

	// CovariateNames lists the regression covariates in design-matrix
	// order. The reserved names "age" and "tenure" select the normalized
	// fields; any other name selects a roster covariate column.
	CovariateNames []string `json:"covariate_names,omitempty"`

	IgnorePlausibilityCheck bool `json:"ignore_plausibility_check"`
	PromptDataCleanup       bool `json:"prompt_data_cleanup"`

	// AcceptPartialOnAbort continues the analysis on the clean subset
	// when the cleanup port aborts with findings still outstanding.
	AcceptPartialOnAbort bool `json:"accept_partial_on_abort"`

	MaxCleanupRounds int                `json:"max_cleanup_rounds,omitempty"`
	Bounds           PlausibilityBounds `json:"bounds,omitempty"`
}

// ReferenceDate returns the first day of the reference month. Ages and
// tenure are floored to whole years at this date.
func (p AnalysisParameters) ReferenceDate() time.Time {
	return time.Date(p.ReferenceYear, time.Month(p.ReferenceMonth), 1, 0, 0, 0, 0, time.UTC)
}

// Validate checks the parameters and returns a ConfigurationError on the
// first violation.
func (p AnalysisParameters) Validate() error {
	if p.ReferenceMonth < 1 || p.ReferenceMonth > 12 {
		return &ConfigurationError{Field: "reference_month", Message: "reference month must be between 1 and 12"}
	}
	if p.ReferenceYear < 1 {
		return &ConfigurationError{Field: "reference_year", Message: "reference year must be a positive integer"}
	}
	if strings.TrimSpace(p.FemaleSpec) == "" || strings.TrimSpace(p.MaleSpec) == "" {
		return &ConfigurationError{Field: "sex_spec", Message: "female and male encoding specs must both be set"}
	}
	if specEqual(p.FemaleSpec, p.MaleSpec) {
		return &ConfigurationError{Field: "sex_spec", Message: "female and male encoding specs must differ"}
	}
	switch p.AgeSpec {
	case AgeSpecAuto, AgeSpecYears, AgeSpecBirthYear, AgeSpecBirthDate:
	default:
		return &ConfigurationError{Field: "age_spec", Message: "unknown age spec: " + string(p.AgeSpec)}
	}
	switch p.EntrySpec {
	case EntrySpecAuto, EntrySpecYears, EntrySpecEntryYear, EntrySpecEntryDate:
	default:
		return &ConfigurationError{Field: "entry_spec", Message: "unknown entry spec: " + string(p.EntrySpec)}
	}
	if p.MaxCleanupRounds < 0 {
		return &ConfigurationError{Field: "max_cleanup_rounds", Message: "cleanup round cap must not be negative"}
	}
	if bounds := p.bounds(); !bounds.IsValid() {
		return &ConfigurationError{Field: "bounds", Message: "plausibility bounds are inconsistent"}
	}
	for _, name := range p.CovariateNames {
		if strings.TrimSpace(name) == "" {
			return &ConfigurationError{Field: "covariate_names", Message: "covariate names must not be empty"}
		}
	}
	return nil
}

// bounds returns the configured bounds, falling back to the defaults when
// the field was left zero.
func (p AnalysisParameters) bounds() PlausibilityBounds {
	if (p.Bounds == PlausibilityBounds{}) {
		return DefaultPlausibilityBounds()
	}
	return p.Bounds
}

// cleanupRounds returns the configured cleanup round cap, falling back to
// the default when unset.
func (p AnalysisParameters) cleanupRounds() int {
	if p.MaxCleanupRounds == 0 {
		return DefaultMaxCleanupRounds
	}
	return p.MaxCleanupRounds
}

// Coefficient is a single fitted regression coefficient.
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdError float64 `json:"std_error"`
}

// ModelResult holds the fitted Standard Analysis Model. The last
// coefficient is always the sex indicator (Female = 1, Male reference).
type ModelResult struct {
	Coefficients []Coefficient `json:"coefficients"`
	Covariance   [][]float64   `json:"covariance"`
	DFResidual   int           `json:"df_residual"`
	RSquared     float64       `json:"r_squared"`
}

// SexCoefficient returns the sex indicator coefficient.
func (m ModelResult) SexCoefficient() Coefficient {
	return m.Coefficients[len(m.Coefficients)-1]
}

// EffectLevel is the 3-level classification of the significance tests.
type EffectLevel int

const (
	// LevelNoEffect means the sex coefficient is not distinguishable
	// from zero at the 5% level.
	LevelNoEffect EffectLevel = 1
	// LevelBelowThreshold means a significant effect below the
	// statutory threshold.
	LevelBelowThreshold EffectLevel = 2
	// LevelAboveThreshold means a significant effect above the
	// statutory threshold.
	LevelAboveThreshold EffectLevel = 3
)

// String returns the statutory wording for the level.
func (l EffectLevel) String() string {
	switch l {
	case LevelNoEffect:
		return "no determinable effect"
	case LevelBelowThreshold:
		return "valid but below-threshold effect"
	case LevelAboveThreshold:
		return "valid, above-threshold effect"
	default:
		return "unknown"
	}
}

// TestResult holds one hypothesis test outcome.
type TestResult struct {
	Statistic     float64 `json:"statistic"`
	PValue        float64 `json:"p_value"`
	CriticalValue float64 `json:"critical_value"`
	Significant   bool    `json:"significant"`
}

// SignificanceResult holds both statutory tests and the classification.
type SignificanceResult struct {
	ZeroEffect TestResult  `json:"zero_effect"`
	Threshold  TestResult  `json:"threshold"`
	Level      EffectLevel `json:"level"`
	DF         int         `json:"df"`
	Alpha      float64     `json:"alpha"`
	GapBound   float64     `json:"gap_bound"`
}

// AnalysisResult is the immutable output of one analysis run. It owns
// copies of the input and never aliases caller state.
type AnalysisResult struct {
	Parameters   AnalysisParameters `json:"parameters"`
	DataOriginal []EmployeeRecord   `json:"data_original"`
	DataClean    []NormalizedRecord `json:"data_clean"`
	Errors       []DataError        `json:"errors"`
	Model        ModelResult        `json:"model"`
	KennedyGap   float64            `json:"kennedy_gap"`
	Significance SignificanceResult `json:"significance"`
}

// CountOriginalBySex counts the raw roster rows whose sex value matches
// the female and male encoding specs before normalization.
func (r *AnalysisResult) CountOriginalBySex() (female, male int) {
	for _, rec := range r.DataOriginal {
		switch {
		case specEqual(rec.Sex, r.Parameters.FemaleSpec):
			female++
		case specEqual(rec.Sex, r.Parameters.MaleSpec):
			male++
		}
	}
	return female, male
}

// CountCleanBySex counts the clean records per canonical sex.
func (r *AnalysisResult) CountCleanBySex() (female, male int) {
	for _, rec := range r.DataClean {
		switch rec.Sex {
		case SexFemale:
			female++
		case SexMale:
			male++
		}
	}
	return female, male
}

// specEqual compares a raw roster value against an encoding spec. Both
// sides are trimmed and compared case-insensitively so that numeric and
// textual encodings behave the same.
func specEqual(raw, spec string) bool {
	return strings.EqualFold(strings.TrimSpace(raw), strings.TrimSpace(spec))
}

// Constants for default values
const (
	// Working-age band for the plausibility gate
	DefaultMinWorkingAge = 14
	DefaultMaxWorkingAge = 70

	// Monthly salary outlier band in currency units
	DefaultSalaryMin = 100.0
	DefaultSalaryMax = 1_000_000.0

	// Significance level for both statutory tests
	DefaultAlpha = 0.05

	// Statutory wage-gap threshold tested by the second t-test
	DefaultGapThreshold = 0.05

	// Cap on interactive cleanup rounds
	DefaultMaxCleanupRounds = 10

	// Reserved covariate names resolved from normalized fields
	CovariateAge    = "age"
	CovariateTenure = "tenure"

	// Coefficient names fixed by the model layout
	CoefficientIntercept = "intercept"
	CoefficientSexFemale = "sex_female"
)
