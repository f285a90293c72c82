package analysis

import "fmt"

// PlausibilityValidator checks normalized records against the
// domain-plausibility rules. The whole gate is toggleable: when ignore is
// set, every record that parsed successfully counts as plausible.
type PlausibilityValidator struct {
	bounds PlausibilityBounds
	ignore bool
}

// NewPlausibilityValidator creates a validator with the given bounds.
func NewPlausibilityValidator(bounds PlausibilityBounds, ignore bool) *PlausibilityValidator {
	return &PlausibilityValidator{bounds: bounds, ignore: ignore}
}

// Validate returns the plausibility findings for one record. An empty
// result means the record passes the gate.
func (v *PlausibilityValidator) Validate(rec NormalizedRecord) []DataError {
	if v.ignore {
		return nil
	}

	var findings []DataError

	if rec.Age < v.bounds.MinWorkingAge || rec.Age > v.bounds.MaxWorkingAge {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "age", Reason: ReasonAgeImplausible,
			Message: fmt.Sprintf("row %s: age %d outside working-age band [%d, %d]",
				rec.ID, rec.Age, v.bounds.MinWorkingAge, v.bounds.MaxWorkingAge),
			Value: rec.Age,
		})
	}

	if rec.Tenure < 0 || rec.Tenure > rec.Age-v.bounds.MinWorkingAge {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "tenure", Reason: ReasonTenureImplausible,
			Message: fmt.Sprintf("row %s: tenure %d exceeds age %d minus minimum working age %d",
				rec.ID, rec.Tenure, rec.Age, v.bounds.MinWorkingAge),
			Value: rec.Tenure,
		})
	}

	if rec.Salary < v.bounds.SalaryMin || rec.Salary > v.bounds.SalaryMax {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "salary", Reason: ReasonSalaryImplausible,
			Message: fmt.Sprintf("row %s: salary %.2f outside outlier band [%.2f, %.2f]",
				rec.ID, rec.Salary, v.bounds.SalaryMin, v.bounds.SalaryMax),
			Value: rec.Salary,
		})
	}

	if rec.Sex != SexFemale && rec.Sex != SexMale {
		findings = append(findings, DataError{
			RowID: rec.ID, Field: "sex", Reason: ReasonSexUnmapped,
			Message: fmt.Sprintf("row %s: sex %q is not a canonical value", rec.ID, rec.Sex),
			Value: string(rec.Sex),
		})
	}

	return findings
}
