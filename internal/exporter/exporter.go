// Package exporter writes analysis results to CSV and Excel files for
// archiving and downstream processing.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"payeqcli/internal/analysis"
)

// WriteCSV writes the coefficient table and the error ledger as CSV.
// The findings land in a sibling file with a _findings suffix.
func WriteCSV(result *analysis.AnalysisResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"coefficient", "estimate", "std_error"}); err != nil {
		return err
	}
	for _, c := range result.Model.Coefficients {
		record := []string{
			c.Name,
			strconv.FormatFloat(c.Estimate, 'f', -1, 64),
			strconv.FormatFloat(c.StdError, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	summary := [][]string{
		{"kennedy_gap", strconv.FormatFloat(result.KennedyGap, 'f', -1, 64), ""},
		{"df_residual", strconv.Itoa(result.Model.DFResidual), ""},
		{"r_squared", strconv.FormatFloat(result.Model.RSquared, 'f', -1, 64), ""},
		{"rating_level", strconv.Itoa(int(result.Significance.Level)), result.Significance.Level.String()},
	}
	for _, record := range summary {
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}

	if len(result.Errors) == 0 {
		return nil
	}
	return writeFindingsCSV(result.Errors, findingsPath(path))
}

func findingsPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + "_findings" + ext
}

func writeFindingsCSV(findings []analysis.DataError, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create findings file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"row_id", "field", "reason", "message"}); err != nil {
		return err
	}
	for _, finding := range findings {
		if err := w.Write([]string{finding.RowID, finding.Field, string(finding.Reason), finding.Message}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteWorkbook writes the result as an Excel workbook with a Model
// sheet and, when findings exist, a Findings sheet.
func WriteWorkbook(result *analysis.AnalysisResult, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const modelSheet = "Model"
	f.SetSheetName(f.GetSheetName(0), modelSheet)

	rows := [][]interface{}{
		{"coefficient", "estimate", "std_error"},
	}
	for _, c := range result.Model.Coefficients {
		rows = append(rows, []interface{}{c.Name, c.Estimate, c.StdError})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"kennedy_gap", result.KennedyGap},
		[]interface{}{"df_residual", result.Model.DFResidual},
		[]interface{}{"r_squared", result.Model.RSquared},
		[]interface{}{"rating_level", int(result.Significance.Level), result.Significance.Level.String()},
	)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(modelSheet, cell, &row); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		const findingsSheet = "Findings"
		if _, err := f.NewSheet(findingsSheet); err != nil {
			return err
		}
		header := []interface{}{"row_id", "field", "reason", "message"}
		if err := f.SetSheetRow(findingsSheet, "A1", &header); err != nil {
			return err
		}
		for i, finding := range result.Errors {
			row := []interface{}{finding.RowID, finding.Field, string(finding.Reason), finding.Message}
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(findingsSheet, cell, &row); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
