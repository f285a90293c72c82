// Package report renders the textual summary of a pay-equality analysis.
// It only reads the fields of the result object and never recomputes any
// statistic.
package report

import (
	"fmt"
	"strings"

	"payeqcli/internal/analysis"
)

// Render produces the fixed-width text report for one analysis result.
func Render(result *analysis.AnalysisResult) string {
	var b strings.Builder

	params := result.Parameters
	fmt.Fprintf(&b, "Pay-Equality Analysis - Standard Analysis Model\n")
	fmt.Fprintf(&b, "Reference period: %04d-%02d\n", params.ReferenceYear, params.ReferenceMonth)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 60))

	writeDataSection(&b, result)
	writeModelSection(&b, result)
	writeGapSection(&b, result)
	writeTestSection(&b, result)

	return b.String()
}

func writeDataSection(b *strings.Builder, result *analysis.AnalysisResult) {
	origF, origM := result.CountOriginalBySex()
	cleanF, cleanM := result.CountCleanBySex()

	fmt.Fprintf(b, "Data\n")
	fmt.Fprintf(b, "  Records supplied:   %5d  (female %d, male %d)\n", len(result.DataOriginal), origF, origM)
	fmt.Fprintf(b, "  Records analyzed:   %5d  (female %d, male %d)\n", len(result.DataClean), cleanF, cleanM)
	fmt.Fprintf(b, "  Validation findings:%5d\n", len(result.Errors))

	if len(result.Errors) > 0 {
		fmt.Fprintf(b, "\n  Excluded records:\n")
		for _, finding := range result.Errors {
			fmt.Fprintf(b, "    row %-8s %-10s %s\n", finding.RowID, finding.Field, finding.Reason)
		}
	}
	fmt.Fprintf(b, "\n")
}

func writeModelSection(b *strings.Builder, result *analysis.AnalysisResult) {
	fmt.Fprintf(b, "Model (response: log salary)\n")
	fmt.Fprintf(b, "  %-20s %12s %12s\n", "coefficient", "estimate", "std error")
	for _, c := range result.Model.Coefficients {
		fmt.Fprintf(b, "  %-20s %12.6f %12.6f\n", c.Name, c.Estimate, c.StdError)
	}
	fmt.Fprintf(b, "  Residual degrees of freedom: %d\n", result.Model.DFResidual)
	fmt.Fprintf(b, "  R-squared: %.4f\n\n", result.Model.RSquared)
}

func writeGapSection(b *strings.Builder, result *analysis.AnalysisResult) {
	fmt.Fprintf(b, "Adjusted pay gap (Kennedy estimator)\n")
	fmt.Fprintf(b, "  Gap: %+.2f%%", result.KennedyGap*100)
	switch {
	case result.KennedyGap > 0:
		fmt.Fprintf(b, "  (women's predicted salary above men's)\n\n")
	case result.KennedyGap < 0:
		fmt.Fprintf(b, "  (women's predicted salary below men's)\n\n")
	default:
		fmt.Fprintf(b, "\n\n")
	}
}

func writeTestSection(b *strings.Builder, result *analysis.AnalysisResult) {
	sig := result.Significance
	fmt.Fprintf(b, "Significance (Student-t, df=%d, alpha=%.0f%%)\n", sig.DF, sig.Alpha*100)
	fmt.Fprintf(b, "  %-28s %10s %10s %12s\n", "test", "statistic", "p-value", "significant")
	fmt.Fprintf(b, "  %-28s %10.4f %10.4f %12v\n", "effect vs zero (two-sided)", sig.ZeroEffect.Statistic, sig.ZeroEffect.PValue, sig.ZeroEffect.Significant)
	fmt.Fprintf(b, "  %-28s %10.4f %10.4f %12v\n", fmt.Sprintf("effect vs %.0f%% (one-sided)", sig.GapBound*100), sig.Threshold.Statistic, sig.Threshold.PValue, sig.Threshold.Significant)
	fmt.Fprintf(b, "\n  Rating: level %d - %s\n", int(sig.Level), sig.Level)
}
