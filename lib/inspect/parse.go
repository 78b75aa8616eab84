package inspect

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"abundatron/lib/htmlutil"
	"abundatron/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoResults means the page rendered without a results block, which
// is how the site reports inputs outside its parameter space.
var ErrNoResults = errors.New("no results block in response, input is likely outside the calculator's parameter ranges")

// Field names used in parsed results and CSV columns.
const (
	FieldEW      = "EW_mA"
	FieldALTE    = "A_LTE"
	FieldANLTE   = "A_NLTE"
	FieldDelta   = "Delta"
	FieldXFeNLTE = "XFe_NLTE"
)

// Result maps field names to parsed values. Which fields are present
// depends on the calculator and on how many numbers its output line
// carried.
type Result map[string]float64

// ParseResults extracts the numeric results out of a calculator page.
//
// The site renders results as a <pre> block along the lines of
//
//	EW  A(O) LTE  A(O) NLTE  Delta  [O/Fe] NLTE
//	65  8.778     8.582      -0.196 -0.118
//
// The heuristic matches the original format loosely on purpose: take
// the last line containing numbers and name the fields by arity.
func ParseResults(page []byte) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	pre := doc.Find("pre")
	if len(pre.Nodes) == 0 {
		return nil, ErrNoResults
	}

	lines := htmlutil.NonBlankLines(htmlutil.GetText(pre.Nodes[0]))
	if len(lines) == 0 {
		return nil, errors.New("empty results block")
	}

	valueLine := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if textutil.HasFloat(lines[i]) {
			valueLine = lines[i]
			break
		}
	}
	if valueLine == "" {
		return nil, errors.New("could not locate a numeric result line")
	}

	nums := textutil.FloatTokens(valueLine)

	headerLines := lines
	if len(headerLines) > 2 {
		headerLines = headerLines[:2]
	}
	header := strings.ToLower(strings.Join(headerLines, "\n"))

	// A_from_e yields 5 numbers: EW, A_LTE, A_NLTE, Delta, [X/Fe] NLTE.
	// nonlte_from_lte drops the leading EW. The shorter arities cover
	// slight format changes observed on the site.
	switch {
	case len(nums) >= 5 && strings.Contains(header, "ew"), len(nums) == 5:
		return Result{
			FieldEW:      nums[0],
			FieldALTE:    nums[1],
			FieldANLTE:   nums[2],
			FieldDelta:   nums[3],
			FieldXFeNLTE: nums[4],
		}, nil
	case len(nums) == 4:
		return Result{
			FieldALTE:    nums[0],
			FieldANLTE:   nums[1],
			FieldDelta:   nums[2],
			FieldXFeNLTE: nums[3],
		}, nil
	case len(nums) == 3:
		return Result{
			FieldALTE:  nums[0],
			FieldANLTE: nums[1],
			FieldDelta: nums[2],
		}, nil
	}

	return nil, fmt.Errorf("unrecognized numeric format in result line: %q", valueLine)
}
