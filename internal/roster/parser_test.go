package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	csvData := `id,sex,age,entry,salary,workload,education
1,F,1980,2010,5000,80,3
2,M,1975,2005,5500,100,3
3,F,1990,2018,4800,60,2
`
	roster, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	require.Len(t, roster.Records, 3)
	assert.Equal(t, []string{"workload", "education"}, roster.Covariates)

	first := roster.Records[0]
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "F", first.Sex)
	assert.Equal(t, "1980", first.Age)
	assert.Equal(t, "2010", first.Entry)
	assert.Equal(t, 5000.0, first.Salary)
	assert.Equal(t, 80.0, first.Covariates["workload"])
	assert.Equal(t, 3.0, first.Covariates["education"])
}

func TestParseCSVHeaderSynonyms(t *testing.T) {
	csvData := `gender,birth_year,eintrittsdatum,lohn
F,1980,01.03.2010,5000
M,1975,15.06.2005,5500
`
	roster, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, roster.Records, 2)
	assert.Empty(t, roster.Covariates)

	// Rows without an ID column fall back to the sheet row number.
	assert.Equal(t, "2", roster.Records[0].ID)
	assert.Equal(t, "3", roster.Records[1].ID)
	assert.Equal(t, "01.03.2010", roster.Records[0].Entry)
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	csvData := `id,sex,age,salary
1,F,40,5000
`
	_, err := ParseCSV(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry/tenure")
}

func TestParseCSVBadSalary(t *testing.T) {
	csvData := `sex,age,entry,salary
F,40,5,n/a
`
	_, err := ParseCSV(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "salary")
}

func TestParseCSVThousandsSeparators(t *testing.T) {
	csvData := `sex,age,entry,salary
F,40,5,"12,500"
M,45,10,9'800
`
	roster, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 12500.0, roster.Records[0].Salary)
	assert.Equal(t, 9800.0, roster.Records[1].Salary)
}

func TestParseCSVSkipsBlankRows(t *testing.T) {
	csvData := `sex,age,entry,salary
F,40,5,5000
,,,
M,45,10,5500
`
	roster, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, roster.Records, 2)
}

func TestParseCSVMissingCovariateCell(t *testing.T) {
	csvData := `sex,age,entry,salary,workload
F,40,5,5000,80
M,45,10,5500,
`
	roster, err := ParseCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, roster.Records, 2)

	_, ok := roster.Records[0].Covariates["workload"]
	assert.True(t, ok)
	_, ok = roster.Records[1].Covariates["workload"]
	assert.False(t, ok, "empty covariate cells stay absent for the pipeline to judge")
}

func TestParseCSVNoDataRows(t *testing.T) {
	csvData := `sex,age,entry,salary
`
	_, err := ParseCSV(strings.NewReader(csvData))
	assert.Error(t, err)
}

func TestParseCSVDuplicateCovariateColumn(t *testing.T) {
	csvData := `sex,age,entry,salary,workload,workload
F,40,5,5000,80,80
`
	_, err := ParseCSV(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}
