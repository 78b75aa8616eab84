// Package batch drives sequential runs of INSPECT queries over a list
// of input values and flattens the outcomes into CSV-friendly rows.
// The loop is deliberately not concurrent, one polite request at a
// time is the deal with the external site.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"abundatron/lib/inspect"
)

type Mode string

const (
	// equivalent width -> abundance (A_from_e)
	ModeEW Mode = "ew"
	// LTE abundance -> NLTE abundance (nonlte_from_lte)
	ModeLTE Mode = "lte"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeEW, ModeLTE:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode %q, expected \"ew\" or \"lte\"", s)
}

// Job is one batch: a fixed element, line and atmosphere, run over a
// list of input values.
type Job struct {
	Mode    Mode
	Element string
	Line    inspect.Line
	Params  inspect.StellarParams
	Values  []float64
	// pause between requests
	Delay time.Duration
	// clamp inputs into the calculator's ranges instead of letting
	// the site reject them, nil disables clipping
	Clip *ParamRanges
	// adjustments that apply to the whole batch, e.g. clamped stellar
	// parameters, repeated into every row's notes
	Notes []string
}

// Row is one input value's outcome. Err is set when the query failed,
// the batch itself never aborts on individual failures.
type Row struct {
	Mode    Mode
	Element string
	Line    inspect.Line
	Params  inspect.StellarParams
	Input   float64
	Outputs inspect.Result
	Notes   []string
	Err     error
}

// Run executes the job sequentially. Cancelling ctx stops the batch
// between items, the rows collected so far are still returned.
func Run(ctx context.Context, client *inspect.Client, job Job) []Row {
	total := len(job.Values)
	rows := make([]Row, 0, total)

	for i, input := range job.Values {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "batch interrupted", "completed", len(rows), "total", total)
			return rows
		}

		value := input
		notes := append([]string(nil), job.Notes...)
		if job.Clip != nil {
			var valueNotes []string
			value, valueNotes = job.Clip.ClipValue(job.Mode, input)
			notes = append(notes, valueNotes...)
		}

		var outputs inspect.Result
		var err error
		switch job.Mode {
		case ModeEW:
			outputs, err = client.AbundanceFromEW(ctx, job.Element, job.Line, value, job.Params)
		case ModeLTE:
			outputs, err = client.NonLTEFromLTE(ctx, job.Element, job.Line, value, job.Params)
		default:
			err = fmt.Errorf("unknown mode %q", job.Mode)
		}

		rows = append(rows, Row{
			Mode:    job.Mode,
			Element: job.Element,
			Line:    job.Line,
			Params:  job.Params,
			Input:   input,
			Outputs: outputs,
			Notes:   notes,
			Err:     err,
		})

		progress := fmt.Sprintf("%d/%d", i+1, total)
		if err != nil {
			slog.ErrorContext(ctx, "query failed", "progress", progress, "value", input, "err", err)
		} else {
			logRow(ctx, progress, input, outputs)
		}

		if i < total-1 && job.Delay > 0 {
			select {
			case <-time.After(job.Delay):
			case <-ctx.Done():
			}
		}
	}

	return rows
}

func logRow(ctx context.Context, progress string, input float64, outputs inspect.Result) {
	attrs := []any{"progress", progress, "value", input}
	for _, field := range []string{
		inspect.FieldALTE,
		inspect.FieldANLTE,
		inspect.FieldDelta,
		inspect.FieldXFeNLTE,
	} {
		if v, ok := outputs[field]; ok {
			attrs = append(attrs, field, fmt.Sprintf("%.3f", v))
		}
	}
	slog.InfoContext(ctx, "done", attrs...)
}
