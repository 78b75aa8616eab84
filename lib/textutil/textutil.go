package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

var floatRegex = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`)

// FloatTokens extracts every numeric token in the line, in order.
func FloatTokens(line string) []float64 {
	matches := floatRegex.FindAllString(line, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// FirstFloat returns the first numeric token in the line, if any.
func FirstFloat(line string) (float64, bool) {
	m := floatRegex.FindString(line)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// HasFloat reports whether the line contains a numeric token.
func HasFloat(line string) bool {
	return floatRegex.MatchString(line)
}

// NormalizeName lowercases and strips all whitespace, for loose
// comparisons of user-supplied names against known ones.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.TrimSpace(name)
	return strings.Join(strings.Fields(name), "")
}
