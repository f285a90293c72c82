// Command payeq-report runs a pay-equality analysis over a roster file
// and prints the text report.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"payeqcli/internal/analysis"
	"payeqcli/internal/config"
	"payeqcli/internal/exporter"
	"payeqcli/internal/infrastructure"
	"payeqcli/internal/report"
	"payeqcli/internal/roster"
)

func main() {
	in := flag.String("in", "", "roster file (.csv or .xlsx)")
	out := flag.String("out", "", "report output file (defaults to stdout)")
	export := flag.String("export", "", "export the result tables as .csv or .xlsx")
	month := flag.Int("month", 0, "reference month (1-12)")
	year := flag.Int("year", 0, "reference year")
	female := flag.String("female", "F", "value encoding female in the sex column")
	male := flag.String("male", "M", "value encoding male in the sex column")
	ageSpec := flag.String("age-spec", "", "age encoding: birthdate, birthyear or age (default: inferred)")
	entrySpec := flag.String("entry-spec", "", "entry encoding: entry_date, entry_year or years (default: inferred)")
	covariates := flag.String("covariates", "", "comma-separated regression covariates (reserved names: age, tenure)")
	ignorePlausibility := flag.Bool("ignore-plausibility", false, "skip the plausibility validation")
	cleanup := flag.Bool("cleanup", false, "prompt interactively to remove offending records")
	acceptPartial := flag.Bool("accept-partial", false, "continue on the clean subset when cleanup is aborted")
	alpha := flag.Float64("alpha", 0, "significance level for the t-tests (default 0.05)")
	threshold := flag.Float64("threshold", 0, "statutory gap threshold (default 0.05)")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn, error")
	flag.Parse()

	logger := infrastructure.MustInitializeLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: "json",
		Output: "stdout",
	})

	if *in == "" {
		fmt.Fprintln(os.Stderr, "missing -in roster file")
		flag.Usage()
		os.Exit(2)
	}

	rst, err := roster.LoadFile(*in)
	if err != nil {
		logger.Error("failed to load roster", "path", *in, "error", err)
		os.Exit(1)
	}
	logger.Info("roster loaded", "records", len(rst.Records), "covariates", rst.Covariates)

	params := analysis.AnalysisParameters{
		ReferenceMonth:          *month,
		ReferenceYear:           *year,
		FemaleSpec:              *female,
		MaleSpec:                *male,
		AgeSpec:                 analysis.AgeSpec(*ageSpec),
		EntrySpec:               analysis.EntrySpec(*entrySpec),
		IgnorePlausibilityCheck: *ignorePlausibility,
		PromptDataCleanup:       *cleanup,
		AcceptPartialOnAbort:    *acceptPartial,
	}
	if *covariates != "" {
		for _, name := range strings.Split(*covariates, ",") {
			if name = strings.TrimSpace(name); name != "" {
				params.CovariateNames = append(params.CovariateNames, name)
			}
		}
	}

	analyzer := analysis.NewAnalyzer(params, logger)
	analyzer.SetSignificanceLevels(*alpha, *threshold)
	if *cleanup {
		analyzer.SetCleanupFunc(promptCleanup(rst.Records, os.Stdin, os.Stderr))
	}

	result, err := analyzer.Analyze(context.Background(), rst.Records)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *export != "" {
		var exportErr error
		switch strings.ToLower(filepath.Ext(*export)) {
		case ".csv":
			exportErr = exporter.WriteCSV(result, *export)
		case ".xlsx":
			exportErr = exporter.WriteWorkbook(result, *export)
		default:
			exportErr = fmt.Errorf("unsupported export format %q (want .csv or .xlsx)", filepath.Ext(*export))
		}
		if exportErr != nil {
			logger.Error("failed to export result", "path", *export, "error", exportErr)
			os.Exit(1)
		}
		logger.Info("result exported", "path", *export)
	}

	text := report.Render(result)
	if *out == "" {
		fmt.Print(text)
		return
	}
	if err := os.WriteFile(*out, []byte(text), 0o644); err != nil {
		logger.Error("failed to write report", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("report written", "path", *out)
}

// promptCleanup surfaces the error ledger on the terminal and, on
// confirmation, removes the offending rows from the roster.
func promptCleanup(records []analysis.EmployeeRecord, in *os.File, out *os.File) analysis.CleanupFunc {
	reader := bufio.NewReader(in)
	current := append([]analysis.EmployeeRecord(nil), records...)

	return func(ctx context.Context, findings []analysis.DataError) ([]analysis.EmployeeRecord, error) {
		fmt.Fprintf(out, "\n%d records failed validation:\n", len(findings))
		offending := make(map[string]bool, len(findings))
		for _, f := range findings {
			offending[f.RowID] = true
			fmt.Fprintf(out, "  row %-8s %-10s %s\n", f.RowID, f.Field, f.Reason)
		}

		fmt.Fprint(out, "Remove these records and continue? [y/N] ")
		answer, err := reader.ReadString('\n')
		if err != nil {
			return nil, analysis.ErrCleanupAborted
		}
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			return nil, analysis.ErrCleanupAborted
		}

		var kept []analysis.EmployeeRecord
		for _, rec := range current {
			if !offending[rec.ID] {
				kept = append(kept, rec)
			}
		}
		current = kept
		return kept, nil
	}
}
