package batch

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"abundatron/lib/inspect"
)

var contextColumns = []string{
	"mode", "element", "wi", "wavelength_A",
	"Teff", "logg", "FeH", "vt", "input_value",
}

var preferredOutputColumns = []string{
	inspect.FieldEW,
	inspect.FieldALTE,
	inspect.FieldANLTE,
	inspect.FieldDelta,
	inspect.FieldXFeNLTE,
}

// WriteCSV serializes the batch. Context columns always appear; output
// columns appear when at least one row carries them, preferred ones
// first and anything unexpected sorted after; notes/error columns only
// when some row needs them.
func WriteCSV(w io.Writer, rows []Row) error {
	outputCols := outputColumns(rows)

	hasNotes := false
	hasErrors := false
	for _, row := range rows {
		if len(row.Notes) > 0 {
			hasNotes = true
		}
		if row.Err != nil {
			hasErrors = true
		}
	}

	header := append([]string{}, contextColumns...)
	header = append(header, outputCols...)
	if hasNotes {
		header = append(header, "notes")
	}
	if hasErrors {
		header = append(header, "error")
	}

	out := csv.NewWriter(w)
	if err := out.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			string(row.Mode),
			row.Element,
			strconv.Itoa(row.Line.Index),
			formatFloat(row.Line.Wavelength),
			formatFloat(row.Params.Teff),
			formatFloat(row.Params.Logg),
			formatFloat(row.Params.FeH),
			formatFloat(row.Params.Xi),
			formatFloat(row.Input),
		}
		for _, col := range outputCols {
			v, ok := row.Outputs[col]
			if !ok {
				record = append(record, "")
				continue
			}
			record = append(record, formatFloat(v))
		}
		if hasNotes {
			record = append(record, strings.Join(row.Notes, "; "))
		}
		if hasErrors {
			errStr := ""
			if row.Err != nil {
				errStr = truncate(row.Err.Error(), 300)
			}
			record = append(record, errStr)
		}

		if err := out.Write(record); err != nil {
			return err
		}
	}

	out.Flush()
	return out.Error()
}

func outputColumns(rows []Row) []string {
	present := map[string]bool{}
	for _, row := range rows {
		for field := range row.Outputs {
			present[field] = true
		}
	}

	var cols []string
	for _, col := range preferredOutputColumns {
		if present[col] {
			cols = append(cols, col)
			delete(present, col)
		}
	}

	var extra []string
	for col := range present {
		extra = append(extra, col)
	}
	sort.Strings(extra)
	return append(cols, extra...)
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	// back off to a rune boundary so the cell stays valid utf-8
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
