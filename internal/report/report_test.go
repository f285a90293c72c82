package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payeqcli/internal/analysis"
)

func scenarioResult(t *testing.T) *analysis.AnalysisResult {
	t.Helper()

	params := analysis.AnalysisParameters{
		ReferenceMonth: 6,
		ReferenceYear:  2020,
		FemaleSpec:     "F",
		MaleSpec:       "M",
	}
	records := []analysis.EmployeeRecord{
		{ID: "1", Sex: "F", Age: "40", Entry: "10", Salary: 5000},
		{ID: "2", Sex: "F", Age: "40", Entry: "10", Salary: 5200},
		{ID: "3", Sex: "M", Age: "40", Entry: "10", Salary: 5500},
		{ID: "4", Sex: "M", Age: "40", Entry: "10", Salary: 5300},
		{ID: "5", Sex: "F", Age: "200", Entry: "10", Salary: 5100},
	}

	result, err := analysis.NewAnalyzer(params, nil).Analyze(context.Background(), records)
	require.NoError(t, err)
	return result
}

func TestRenderContainsAllSections(t *testing.T) {
	out := Render(scenarioResult(t))

	assert.Contains(t, out, "Reference period: 2020-06")
	assert.Contains(t, out, "Records supplied:       5")
	assert.Contains(t, out, "Records analyzed:       4")
	assert.Contains(t, out, "age_implausible")
	assert.Contains(t, out, "sex_female")
	assert.Contains(t, out, "Residual degrees of freedom: 2")
	assert.Contains(t, out, "Kennedy estimator")
	assert.Contains(t, out, "no determinable effect")
}

func TestRenderGapDirection(t *testing.T) {
	out := Render(scenarioResult(t))
	// Women earn less in the scenario roster.
	assert.Contains(t, out, "below men's")
	assert.NotContains(t, out, "above men's")
}

func TestRenderCoefficientTableOrder(t *testing.T) {
	out := Render(scenarioResult(t))

	// The sex indicator renders after the intercept, mirroring the
	// model's coefficient order.
	intercept := strings.Index(out, "intercept")
	sex := strings.Index(out, "sex_female")
	require.Greater(t, intercept, -1)
	require.Greater(t, sex, -1)
	assert.Less(t, intercept, sex)
}
