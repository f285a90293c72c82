// Package roster loads employee rosters from CSV and Excel files into
// the raw record form consumed by the analysis pipeline. Header matching
// is tolerant of common column-name variants; sex, age and entry values
// stay textual so the encoding normalizer can interpret them.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"payeqcli/internal/analysis"
)

// Roster is a parsed employee roster. Covariates lists the additional
// numeric columns in file order.
type Roster struct {
	Records    []analysis.EmployeeRecord
	Covariates []string
}

// Header synonyms for the required columns, matched case-insensitively
// after trimming.
var (
	idHeaders     = []string{"id", "employee_id", "staff_id", "personnel_number", "row"}
	sexHeaders    = []string{"sex", "gender", "geschlecht"}
	ageHeaders    = []string{"age", "birth_year", "birthyear", "birth_date", "birthdate", "alter", "geburtsjahr", "geburtsdatum"}
	entryHeaders  = []string{"entry", "entry_date", "entry_year", "tenure", "seniority", "service_years", "eintrittsdatum", "dienstjahre"}
	salaryHeaders = []string{"salary", "wage", "pay", "lohn", "gehalt", "monthly_salary"}
)

// LoadFile reads a roster file, dispatching on the extension. Supported
// formats are .csv and .xlsx.
func LoadFile(path string) (*Roster, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open roster file: %w", err)
		}
		defer f.Close()
		return ParseCSV(f)
	case ".xlsx":
		return ParseWorkbook(path)
	default:
		return nil, fmt.Errorf("unsupported roster format %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// ParseCSV reads a roster from CSV with a header row.
func ParseCSV(r io.Reader) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read roster csv: %w", err)
	}
	return parseRows(rows)
}

// ParseWorkbook reads a roster from the first sheet of an Excel
// workbook.
func ParseWorkbook(path string) (*Roster, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	slog.Info("loaded roster sheet", "sheet", sheet, "rows", len(rows))
	return parseRows(rows)
}

// columnMap locates the required columns and the extra covariate columns
// in a header row.
type columnMap struct {
	id, sex, age, entry, salary int
	covariates                  map[string]int // name -> column index
	order                       []string
}

func mapColumns(header []string) (*columnMap, error) {
	cm := &columnMap{id: -1, sex: -1, age: -1, entry: -1, salary: -1, covariates: make(map[string]int)}

	for j, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		switch {
		case cm.id < 0 && matchesAny(name, idHeaders):
			cm.id = j
		case cm.sex < 0 && matchesAny(name, sexHeaders):
			cm.sex = j
		case cm.age < 0 && matchesAny(name, ageHeaders):
			cm.age = j
		case cm.entry < 0 && matchesAny(name, entryHeaders):
			cm.entry = j
		case cm.salary < 0 && matchesAny(name, salaryHeaders):
			cm.salary = j
		default:
			if _, dup := cm.covariates[name]; dup {
				return nil, fmt.Errorf("duplicate column %q in roster header", name)
			}
			cm.covariates[name] = j
			cm.order = append(cm.order, name)
		}
	}

	var missing []string
	if cm.sex < 0 {
		missing = append(missing, "sex")
	}
	if cm.age < 0 {
		missing = append(missing, "age")
	}
	if cm.entry < 0 {
		missing = append(missing, "entry/tenure")
	}
	if cm.salary < 0 {
		missing = append(missing, "salary")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("roster header is missing required columns: %s", strings.Join(missing, ", "))
	}
	return cm, nil
}

func matchesAny(name string, candidates []string) bool {
	for _, c := range candidates {
		if name == c {
			return true
		}
	}
	return false
}

func parseRows(rows [][]string) (*Roster, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("roster needs a header row and at least one data row")
	}

	cm, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	roster := &Roster{Covariates: cm.order}
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rowNum := i + 2 // 1-based, after the header

		rec := analysis.EmployeeRecord{
			ID:    cellAt(row, cm.id),
			Sex:   cellAt(row, cm.sex),
			Age:   cellAt(row, cm.age),
			Entry: cellAt(row, cm.entry),
		}
		if rec.ID == "" {
			rec.ID = strconv.Itoa(rowNum)
		}

		salaryRaw := cellAt(row, cm.salary)
		salary, err := parseAmount(salaryRaw)
		if err != nil {
			return nil, fmt.Errorf("row %d: salary %q is not numeric", rowNum, salaryRaw)
		}
		rec.Salary = salary

		if len(cm.covariates) > 0 {
			rec.Covariates = make(map[string]float64, len(cm.covariates))
			for name, j := range cm.covariates {
				raw := cellAt(row, j)
				if raw == "" {
					continue // missing covariates are judged by the pipeline
				}
				v, err := parseAmount(raw)
				if err != nil {
					return nil, fmt.Errorf("row %d: covariate %q value %q is not numeric", rowNum, name, raw)
				}
				rec.Covariates[name] = v
			}
		}

		roster.Records = append(roster.Records, rec)
	}

	if len(roster.Records) == 0 {
		return nil, fmt.Errorf("roster contains no data rows")
	}
	return roster, nil
}

func cellAt(row []string, j int) string {
	if j < 0 || j >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[j])
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseAmount parses a numeric cell, tolerating thousands separators
// exported by spreadsheet tools.
func parseAmount(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	return strconv.ParseFloat(cleaned, 64)
}
