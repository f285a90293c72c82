package analysis

import (
	"fmt"
	"strings"
)

// EncodingError reports a raw value that cannot be mapped under the
// active encoding spec. The record is excluded and the finding logged;
// the run only fails if the exclusions empty the dataset.
type EncodingError struct {
	RowID string
	Field string
	Value string
	Spec  string
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Spec != "" {
		return fmt.Sprintf("row %s: cannot map %s value %q under spec %q", e.RowID, e.Field, e.Value, e.Spec)
	}
	return fmt.Sprintf("row %s: cannot map %s value %q", e.RowID, e.Field, e.Value)
}

// ConfigurationError reports an encoding spec that is unset and cannot be
// inferred unambiguously, or an invalid parameter. Fatal: no partial
// analysis is produced.
type ConfigurationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Message)
}

// InsufficientDataError reports a clean dataset too small to fit the
// model. Fatal.
type InsufficientDataError struct {
	Clean    int
	Original int
	Message  string
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("insufficient data: %s (clean=%d, original=%d)", e.Message, e.Clean, e.Original)
	}
	return fmt.Sprintf("insufficient data: %d clean records of %d supplied", e.Clean, e.Original)
}

// RankDeficiencyError reports a design matrix that is not of full column
// rank. Columns names the offending/collinear covariates when they could
// be determined.
type RankDeficiencyError struct {
	Rank    int
	Columns []string
}

// Error implements the error interface.
func (e *RankDeficiencyError) Error() string {
	if len(e.Columns) > 0 {
		return fmt.Sprintf("design matrix rank deficient (rank=%d): collinear columns: %s",
			e.Rank, strings.Join(e.Columns, ", "))
	}
	return fmt.Sprintf("design matrix rank deficient (rank=%d)", e.Rank)
}
