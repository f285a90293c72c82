package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted date encodings for birth and entry dates.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"2006/01/02",
}

// Normalizer maps user-specific sex/age/entry encodings to the canonical
// internal representation relative to the reference date.
type Normalizer struct {
	params  AnalysisParameters
	refDate time.Time

	ageSpec   AgeSpec
	entrySpec EntrySpec
}

// NewNormalizer creates a normalizer for the given parameters. When the
// age or entry spec is left unset, InferSpecs must resolve it from the
// column contents before records can be normalized.
func NewNormalizer(params AnalysisParameters) (*Normalizer, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{
		params:    params,
		refDate:   params.ReferenceDate(),
		ageSpec:   params.AgeSpec,
		entrySpec: params.EntrySpec,
	}, nil
}

// AgeSpec returns the resolved age spec.
func (n *Normalizer) AgeSpec() AgeSpec { return n.ageSpec }

// EntrySpec returns the resolved entry spec.
func (n *Normalizer) EntrySpec() EntrySpec { return n.entrySpec }

// detector is a named column-format strategy. A detector matches a column
// when every non-empty value in it satisfies the predicate; the first
// matching detector in declaration order wins.
type detector struct {
	name  string
	match func(raw string) bool
}

// ageDetectors returns the ordered age-column strategies.
func (n *Normalizer) ageDetectors() []struct {
	detector
	spec AgeSpec
} {
	refYear := n.refDate.Year()
	return []struct {
		detector
		spec AgeSpec
	}{
		{detector{"birth date", isDate}, AgeSpecBirthDate},
		{detector{"birth year", func(raw string) bool {
			v, ok := parseNumber(raw)
			return ok && isWholeNumber(v) && int(v) >= refYear-120 && int(v) <= refYear-10
		}}, AgeSpecBirthYear},
		// Anything numeric that cannot be a calendar year counts as an
		// age; the plausibility gate deals with implausible magnitudes.
		{detector{"age in years", func(raw string) bool {
			v, ok := parseNumber(raw)
			return ok && v > 0 && v < 1000
		}}, AgeSpecYears},
	}
}

// entryDetectors returns the ordered entry-column strategies.
func (n *Normalizer) entryDetectors() []struct {
	detector
	spec EntrySpec
} {
	refYear := n.refDate.Year()
	return []struct {
		detector
		spec EntrySpec
	}{
		{detector{"entry date", isDate}, EntrySpecEntryDate},
		{detector{"entry year", func(raw string) bool {
			v, ok := parseNumber(raw)
			return ok && isWholeNumber(v) && int(v) >= refYear-100 && int(v) <= refYear
		}}, EntrySpecEntryYear},
		{detector{"years of tenure", func(raw string) bool {
			v, ok := parseNumber(raw)
			return ok && v >= 0 && v < 1000
		}}, EntrySpecYears},
	}
}

// InferSpecs resolves any unset age/entry spec from the roster columns.
// Inference is all-or-nothing per column: a detector only matches when
// every non-empty value satisfies it, and no match across all detectors
// is a ConfigurationError.
func (n *Normalizer) InferSpecs(records []EmployeeRecord) error {
	if n.ageSpec == AgeSpecAuto {
		values := columnValues(records, func(r EmployeeRecord) string { return r.Age })
		if len(values) == 0 {
			return &ConfigurationError{Field: "age_spec", Message: "age column is empty, cannot infer encoding"}
		}
		matched := false
		for _, d := range n.ageDetectors() {
			if columnMatches(values, d.match) {
				n.ageSpec = d.spec
				matched = true
				break
			}
		}
		if !matched {
			return &ConfigurationError{Field: "age_spec", Message: "age column matches no known encoding (age, birth year, birth date)"}
		}
	}
	if n.entrySpec == EntrySpecAuto {
		values := columnValues(records, func(r EmployeeRecord) string { return r.Entry })
		if len(values) == 0 {
			return &ConfigurationError{Field: "entry_spec", Message: "entry column is empty, cannot infer encoding"}
		}
		matched := false
		for _, d := range n.entryDetectors() {
			if columnMatches(values, d.match) {
				n.entrySpec = d.spec
				matched = true
				break
			}
		}
		if !matched {
			return &ConfigurationError{Field: "entry_spec", Message: "entry column matches no known encoding (years, entry year, entry date)"}
		}
	}
	return nil
}

// NormalizeSex maps a raw sex value to the canonical label.
func (n *Normalizer) NormalizeSex(rowID, raw string) (Sex, error) {
	switch {
	case specEqual(raw, n.params.FemaleSpec):
		return SexFemale, nil
	case specEqual(raw, n.params.MaleSpec):
		return SexMale, nil
	default:
		return "", &EncodingError{
			RowID: rowID,
			Field: "sex",
			Value: raw,
			Spec:  fmt.Sprintf("female=%s male=%s", n.params.FemaleSpec, n.params.MaleSpec),
		}
	}
}

// NormalizeAge converts a raw age value to whole years as of the
// reference date under the resolved age spec.
func (n *Normalizer) NormalizeAge(rowID, raw string) (int, error) {
	fail := func() error {
		return &EncodingError{RowID: rowID, Field: "age", Value: raw, Spec: string(n.ageSpec)}
	}
	switch n.ageSpec {
	case AgeSpecYears:
		v, ok := parseNumber(raw)
		if !ok || v < 0 {
			return 0, fail()
		}
		return int(math.Floor(v)), nil
	case AgeSpecBirthYear:
		v, ok := parseNumber(raw)
		if !ok || !isWholeNumber(v) {
			return 0, fail()
		}
		return n.refDate.Year() - int(v), nil
	case AgeSpecBirthDate:
		d, ok := parseDate(raw)
		if !ok {
			return 0, fail()
		}
		return wholeYearsBetween(d, n.refDate), nil
	default:
		return 0, &ConfigurationError{Field: "age_spec", Message: "age spec not resolved before normalization"}
	}
}

// NormalizeTenure converts a raw entry/tenure value to whole years of
// tenure as of the reference date under the resolved entry spec.
func (n *Normalizer) NormalizeTenure(rowID, raw string) (int, error) {
	fail := func() error {
		return &EncodingError{RowID: rowID, Field: "entry", Value: raw, Spec: string(n.entrySpec)}
	}
	switch n.entrySpec {
	case EntrySpecYears:
		v, ok := parseNumber(raw)
		if !ok || v < 0 {
			return 0, fail()
		}
		return int(math.Floor(v)), nil
	case EntrySpecEntryYear:
		v, ok := parseNumber(raw)
		if !ok || !isWholeNumber(v) {
			return 0, fail()
		}
		return n.refDate.Year() - int(v), nil
	case EntrySpecEntryDate:
		d, ok := parseDate(raw)
		if !ok {
			return 0, fail()
		}
		return wholeYearsBetween(d, n.refDate), nil
	default:
		return 0, &ConfigurationError{Field: "entry_spec", Message: "entry spec not resolved before normalization"}
	}
}

// NormalizeRecord canonicalizes one roster row. All findings for the row
// are returned together; a row with any finding must not enter the clean
// dataset.
func (n *Normalizer) NormalizeRecord(rec EmployeeRecord) (NormalizedRecord, []DataError) {
	var findings []DataError

	sex, err := n.NormalizeSex(rec.ID, rec.Sex)
	if err != nil {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "sex", Reason: ReasonSexUnmapped,
			Message: err.Error(), Value: rec.Sex,
		})
	}

	age, err := n.NormalizeAge(rec.ID, rec.Age)
	if err != nil {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "age", Reason: ReasonAgeUnparseable,
			Message: err.Error(), Value: rec.Age,
		})
	}

	tenure, err := n.NormalizeTenure(rec.ID, rec.Entry)
	if err != nil {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "entry", Reason: ReasonTenureUnparseable,
			Message: err.Error(), Value: rec.Entry,
		})
	}

	// The model takes the log of salary, so a non-positive or non-finite
	// salary is a hard failure even with the plausibility gate disabled.
	if rec.Salary <= 0 || math.IsNaN(rec.Salary) || math.IsInf(rec.Salary, 0) {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "salary", Reason: ReasonSalaryInvalid,
			Message: fmt.Sprintf("row %s: salary must be a positive number", rec.ID), Value: rec.Salary,
		})
	}

	covariates := make(map[string]float64, len(rec.Covariates))
	for k, v := range rec.Covariates {
		covariates[k] = v
	}
	for _, name := range n.params.CovariateNames {
		if name == CovariateAge || name == CovariateTenure {
			continue
		}
		if _, ok := covariates[name]; !ok {
			findings = append(findings, DataError{
				RowID: rec.ID, Field: name, Reason: ReasonCovariateMissing,
				Message: fmt.Sprintf("row %s: covariate %q required by the model is missing", rec.ID, name),
			})
		}
	}

	if len(findings) > 0 {
		return NormalizedRecord{}, findings
	}

	return NormalizedRecord{
		ID:         rec.ID,
		Sex:        sex,
		Age:        age,
		Tenure:     tenure,
		Salary:     rec.Salary,
		Covariates: covariates,
	}, nil
}

// columnValues extracts the non-empty values of one raw column.
func columnValues(records []EmployeeRecord, get func(EmployeeRecord) string) []string {
	var values []string
	for _, rec := range records {
		if v := strings.TrimSpace(get(rec)); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// columnMatches reports whether every value satisfies the predicate.
func columnMatches(values []string, match func(string) bool) bool {
	for _, v := range values {
		if !match(v) {
			return false
		}
	}
	return true
}

func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func isWholeNumber(v float64) bool {
	return v == math.Trunc(v)
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, raw); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func isDate(raw string) bool {
	_, ok := parseDate(raw)
	return ok
}

// wholeYearsBetween returns the number of completed years from one date
// to another, flooring partial years.
func wholeYearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	anniversary := time.Date(from.Year()+years, from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	if anniversary.After(to) {
		years--
	}
	return years
}
