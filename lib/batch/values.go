package batch

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"abundatron/lib/textutil"
)

// ReadValues gathers input values from any combination of a
// comma-separated flag value, a file (first numeric token per line, so
// simple CSVs work too) and piped stdin. At least one value has to
// come out of it.
func ReadValues(commaList string, filePath string, stdin io.Reader) ([]float64, error) {
	var values []float64

	for _, field := range strings.Split(commaList, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q in --values", field)
		}
		values = append(values, v)
	}

	if filePath != "" {
		contents, err := os.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		values = append(values, scanValues(strings.NewReader(string(contents)))...)
	}

	if stdin != nil {
		values = append(values, scanValues(stdin)...)
	}

	if len(values) == 0 {
		return nil, errors.New("no input values, use --values, --values-file or pipe them via stdin")
	}
	return values, nil
}

func scanValues(r io.Reader) []float64 {
	var values []float64
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if v, ok := textutil.FirstFloat(line); ok {
			values = append(values, v)
		}
	}
	return values
}
