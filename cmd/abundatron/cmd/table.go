package cmd

import (
	"fmt"
	"io"
	"math"

	"abundatron/lib/batch"
	"abundatron/lib/inspect"

	"github.com/jedib0t/go-pretty/v6/table"
)

// renderSummary prints a compact human-readable recap of the batch
// after the CSV has gone to a file.
func renderSummary(w io.Writer, rows []batch.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"input", "A_LTE", "A_NLTE", "Δ", "[X/Fe] NLTE", "status"})

	for _, row := range rows {
		status := "ok"
		if row.Err != nil {
			status = row.Err.Error()
		}
		t.AppendRow(table.Row{
			formatCell(row.Input, "%g"),
			outputCell(row.Outputs, inspect.FieldALTE),
			outputCell(row.Outputs, inspect.FieldANLTE),
			outputCell(row.Outputs, inspect.FieldDelta),
			outputCell(row.Outputs, inspect.FieldXFeNLTE),
			status,
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func outputCell(outputs inspect.Result, field string) string {
	v, ok := outputs[field]
	if !ok {
		return ""
	}
	return formatCell(v, "%.3f")
}

func formatCell(v float64, format string) string {
	if math.IsNaN(v) {
		return ""
	}
	return fmt.Sprintf(format, v)
}
