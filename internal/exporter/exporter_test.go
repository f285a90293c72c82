package exporter

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"payeqcli/internal/analysis"
)

func exportResult(t *testing.T) *analysis.AnalysisResult {
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

func TestWriteCSV(t *testing.T) {
	result := exportResult(t)
	path := filepath.Join(t.TempDir(), "out", "result.csv")

	require.NoError(t, WriteCSV(result, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"coefficient", "estimate", "std_error"}, rows[0])
	assert.Equal(t, "intercept", rows[1][0])
	assert.Equal(t, "sex_female", rows[2][0])

	// One implausible record means a findings file next to the result.
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "result_findings.csv"))
}

func TestWriteCSVNoFindingsFile(t *testing.T) {
	result := exportResult(t)
	result.Errors = nil
	path := filepath.Join(t.TempDir(), "result.csv")

	require.NoError(t, WriteCSV(result, path))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(path), "result_findings.csv"))
}

func TestWriteWorkbook(t *testing.T) {
	result := exportResult(t)
	path := filepath.Join(t.TempDir(), "result.xlsx")

	require.NoError(t, WriteWorkbook(result, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Model")
	assert.Contains(t, f.GetSheetList(), "Findings")

	name, err := f.GetCellValue("Model", "A2")
	require.NoError(t, err)
	assert.Equal(t, "intercept", name)

	rowID, err := f.GetCellValue("Findings", "A2")
	require.NoError(t, err)
	assert.Equal(t, "5", rowID)
}
