package inspect

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strconv"

	"abundatron/lib/htmlutil"
	"abundatron/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/codes"
)

// KnownElements are the species INSPECT currently serves calculators
// for, used only for suggestions when an element lookup fails.
var KnownElements = []string{"Li", "O", "Na", "Mg", "Ti", "Fe", "Sr"}

// Line is one entry of the site's `<select name="wi">` dropdown.
type Line struct {
	// the site's internal line selector
	Index int
	// [Å], NaN when the option label was not numeric
	Wavelength float64
	Label      string
}

// Lines loads the calculator page for an element and scrapes the
// available spectral lines out of the wavelength dropdown.
func (c *Client) Lines(ctx context.Context, element string) ([]Line, error) {
	ctx, span := tracer.Start(ctx, "client:Lines")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		SetQueryParam("element_name", element).
		Get(endpointNonLTEFromLTE)
	if err != nil {
		span.SetStatus(codes.Error, "failed to fetch calculator page")
		return nil, err
	}
	if res.StatusCode() != 200 {
		span.SetStatus(codes.Error, "unexpected status")
		return nil, fmt.Errorf("fetch calculator page: unexpected status %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, err
	}

	sel := doc.Find(`select[name=wi]`)
	if len(sel.Nodes) == 0 {
		span.SetStatus(codes.Error, "missing wavelength selector")
		return nil, fmt.Errorf("no wavelength selector for element %q%s", element, suggestElement(element))
	}

	var lines []Line
	sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
		value := htmlutil.CleanLine(opt.AttrOr("value", ""))
		if value == "" {
			return
		}
		index, err := strconv.Atoi(value)
		if err != nil {
			return
		}

		label := htmlutil.CleanLine(opt.Text())
		wavelength, err := strconv.ParseFloat(label, 64)
		if err != nil {
			wavelength = math.NaN()
		}

		lines = append(lines, Line{
			Index:      index,
			Wavelength: wavelength,
			Label:      label,
		})
	})
	if len(lines) == 0 {
		span.SetStatus(codes.Error, "empty line list")
		return nil, fmt.Errorf("no spectral lines listed for element %q%s", element, suggestElement(element))
	}

	return lines, nil
}

// ResolveLine maps a wavelength onto the site's line index, preferring
// an exact match and falling back to the nearest listed wavelength.
func (c *Client) ResolveLine(ctx context.Context, element string, wavelength float64) (Line, error) {
	lines, err := c.Lines(ctx, element)
	if err != nil {
		return Line{}, err
	}

	nearest := Line{Wavelength: math.NaN()}
	nearestDist := math.Inf(1)
	for _, ln := range lines {
		if math.IsNaN(ln.Wavelength) {
			continue
		}
		dist := math.Abs(ln.Wavelength - wavelength)
		if dist < 1e-6 {
			return ln, nil
		}
		if dist < nearestDist {
			nearest = ln
			nearestDist = dist
		}
	}

	if math.IsInf(nearestDist, 1) {
		return Line{}, fmt.Errorf("element %q lists no numeric wavelengths to match %g against", element, wavelength)
	}
	return nearest, nil
}

// LineByIndex finds the dropdown entry for a known line index. An
// index missing from the list is not an error, the query may still
// work, so the caller just gets a line with an unknown wavelength.
func (c *Client) LineByIndex(ctx context.Context, element string, index int) (Line, error) {
	lines, err := c.Lines(ctx, element)
	if err != nil {
		return Line{}, err
	}
	for _, ln := range lines {
		if ln.Index == index {
			return ln, nil
		}
	}
	return Line{Index: index, Wavelength: math.NaN()}, nil
}

func suggestElement(input string) string {
	best := ""
	bestScore := 0.0
	for _, known := range KnownElements {
		score := matchr.JaroWinkler(
			textutil.NormalizeName(input),
			textutil.NormalizeName(known),
			false,
		)
		if score > bestScore {
			best = known
			bestScore = score
		}
	}
	if bestScore < 0.7 {
		return ""
	}
	return fmt.Sprintf(", did you mean %q?", best)
}
