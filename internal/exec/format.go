package exec

import (
	"fmt"
	"math"
	"strconv"

	"github.com/drakos74/deep-task/internal/eval"
	"github.com/drakos74/deep-task/internal/report"
)

// formatEvaluation turns an evaluation outcome into report sections :
// the overall stats, the per-class table with the macro averages
// and the row-normalized confusion matrix percentages.
func formatEvaluation(r *eval.Report) []report.Section {
	overall := report.Section{
		Title: "Testing",
		Rows: []report.Row{
			{Key: "samples", Value: strconv.Itoa(r.Samples)},
			{Key: "error rate", Value: formatFloat(r.Error)},
			{Key: "accuracy", Value: formatFloat(r.Accuracy)},
		},
	}

	perClass := report.Section{
		Title: "Results per class",
		Table: &report.Table{
			Header: []string{"class", "support", "accuracy", "error rate"},
			Rows:   make([][]string, 0, len(r.Classes)),
		},
		Rows: []report.Row{
			{Key: "macro error rate", Value: formatFloat(r.MacroError)},
			{Key: "macro accuracy", Value: formatFloat(r.MacroAccuracy)},
		},
	}
	for _, c := range r.Classes {
		perClass.Table.Rows = append(perClass.Table.Rows, []string{
			strconv.Itoa(c.Class),
			strconv.Itoa(c.Support),
			formatFloat(c.Accuracy),
			formatFloat(c.Error),
		})
	}

	classes := r.Matrix.Classes()
	confusion := report.Section{
		Title: "Confusion Matrix (%)",
		Table: &report.Table{
			Header: make([]string, classes+1),
			Rows:   make([][]string, 0, classes),
		},
	}
	confusion.Table.Header[0] = "true/predicted"
	for p := 0; p < classes; p++ {
		confusion.Table.Header[p+1] = strconv.Itoa(p)
	}
	for l := 0; l < classes; l++ {
		row := make([]string, classes+1)
		row[0] = strconv.Itoa(l)
		for p, pct := range r.Matrix.Percentages(l) {
			row[p+1] = formatPercent(pct)
		}
		confusion.Table.Rows = append(confusion.Table.Rows, row)
	}

	return []report.Section{overall, perClass, confusion}
}

// formatFloat renders a statistic, mapping the NaN of an unsupported class to a dash.
func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.5f", v)
}

func formatPercent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
