package analysis

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFourRecordScenario(t *testing.T) {
	analyzer := NewAnalyzer(testParams(), nil)

	result, err := analyzer.Analyze(context.Background(), rawRoster())
	require.NoError(t, err)

	assert.Len(t, result.DataOriginal, 4)
	assert.Len(t, result.DataClean, 4)
	assert.Empty(t, result.Errors)

	female, male := result.CountOriginalBySex()
	assert.Equal(t, 2, female)
	assert.Equal(t, 2, male)
	female, male = result.CountCleanBySex()
	assert.Equal(t, 2, female)
	assert.Equal(t, 2, male)

	assert.Equal(t, 2, result.Model.DFResidual)

	sex := result.Model.SexCoefficient()
	assert.Equal(t, CoefficientSexFemale, sex.Name)
	assert.InDelta(t, -0.0572, sex.Estimate, 1e-3)

	// Kennedy gap tracks the coefficient after the variance correction.
	assert.InDelta(t, -0.0559, result.KennedyGap, 1e-3)

	// Two residual degrees of freedom leave the effect statistically
	// indeterminate at the 5% level.
	assert.Equal(t, LevelNoEffect, result.Significance.Level)
	assert.Equal(t, 2, result.Significance.DF)
}

func TestAnalyzeImplausibleRecordExcluded(t *testing.T) {
	records := append(rawRoster(), EmployeeRecord{ID: "5", Sex: "F", Age: "200", Entry: "10", Salary: 5100})
	analyzer := NewAnalyzer(testParams(), nil)

	result, err := analyzer.Analyze(context.Background(), records)
	require.NoError(t, err)

	assert.Len(t, result.DataOriginal, 5)
	assert.Len(t, result.DataClean, 4)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "5", result.Errors[0].RowID)
	assert.Equal(t, ReasonAgeImplausible, result.Errors[0].Reason)
}

func TestAnalyzeBirthYearInference(t *testing.T) {
	params := testParams()
	records := []EmployeeRecord{
		{ID: "1", Sex: "F", Age: "1975", Entry: "10", Salary: 5000},
		{ID: "2", Sex: "F", Age: "1988", Entry: "8", Salary: 5200},
		{ID: "3", Sex: "M", Age: "1990", Entry: "3", Salary: 5500},
		{ID: "4", Sex: "M", Age: "1980", Entry: "6", Salary: 5300},
	}
	analyzer := NewAnalyzer(params, nil)

	result, err := analyzer.Analyze(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, result.DataClean, 4)
	assert.Equal(t, 45, result.DataClean[0].Age) // 2020 - 1975
	assert.Equal(t, 30, result.DataClean[2].Age) // 2020 - 1990
}

func TestAnalyzeInvalidParameters(t *testing.T) {
	params := testParams()
	params.ReferenceMonth = 0
	analyzer := NewAnalyzer(params, nil)

	_, err := analyzer.Analyze(context.Background(), rawRoster())
	var confErr *ConfigurationError
	assert.True(t, errors.As(err, &confErr))
}

func TestAnalyzeFatalErrorsProduceNoResult(t *testing.T) {
	// An emptied clean set aborts before model fitting.
	records := []EmployeeRecord{
		{ID: "1", Sex: "X", Age: "40", Entry: "10", Salary: 5000},
	}
	analyzer := NewAnalyzer(testParams(), nil)

	result, err := analyzer.Analyze(context.Background(), records)
	assert.Nil(t, result)
	var insufficient *InsufficientDataError
	assert.True(t, errors.As(err, &insufficient))
}

func TestAnalyzeResultOwnsItsData(t *testing.T) {
	records := rawRoster()
	records[0].Covariates = map[string]float64{"education": 3}
	analyzer := NewAnalyzer(testParams(), nil)

	result, err := analyzer.Analyze(context.Background(), records)
	require.NoError(t, err)

	// Mutating caller state after the run must not change the result.
	records[0].Covariates["education"] = 99
	records[1].Salary = 0
	assert.Equal(t, 3.0, result.DataOriginal[0].Covariates["education"])
	assert.Equal(t, 5200.0, result.DataOriginal[1].Salary)
}

func TestAnalyzeWithCovariates(t *testing.T) {
	params := testParams()
	params.CovariateNames = []string{"age", "tenure", "workload"}

	var records []EmployeeRecord
	ages := []string{"30", "35", "40", "45", "50", "32", "38", "44", "48", "52"}
	entries := []string{"1", "3", "2", "7", "5", "4", "8", "6", "10", "9"}
	workloads := []float64{80, 95, 70, 100, 60, 90, 85, 75, 65, 88}
	salaries := []float64{5200, 5600, 6100, 6400, 6900, 5600, 6000, 6500, 6800, 7300}
	for i := 0; i < 10; i++ {
		sex := "M"
		if i < 5 {
			sex = "F"
		}
		records = append(records, EmployeeRecord{
			ID: strconv.Itoa(i + 1), Sex: sex, Age: ages[i], Entry: entries[i], Salary: salaries[i],
			Covariates: map[string]float64{"workload": workloads[i]},
		})
	}

	analyzer := NewAnalyzer(params, nil)
	result, err := analyzer.Analyze(context.Background(), records)
	require.NoError(t, err)

	require.Len(t, result.Model.Coefficients, 5)
	assert.Equal(t, CoefficientIntercept, result.Model.Coefficients[0].Name)
	assert.Equal(t, "age", result.Model.Coefficients[1].Name)
	assert.Equal(t, "tenure", result.Model.Coefficients[2].Name)
	assert.Equal(t, "workload", result.Model.Coefficients[3].Name)
	assert.Equal(t, CoefficientSexFemale, result.Model.Coefficients[4].Name)
	assert.Equal(t, 10-5, result.Model.DFResidual)
}
