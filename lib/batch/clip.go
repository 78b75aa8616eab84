package batch

import (
	"fmt"

	"abundatron/lib/inspect"
)

// Range is a closed interval. The zero Range means unconstrained.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) unconstrained() bool {
	return r.Min == 0 && r.Max == 0
}

func (r Range) clamp(name string, v float64) (float64, string) {
	if r.unconstrained() || (v >= r.Min && v <= r.Max) {
		return v, ""
	}
	clipped := v
	if v < r.Min {
		clipped = r.Min
	} else {
		clipped = r.Max
	}
	return clipped, fmt.Sprintf("clipped %s %g -> %g", name, v, clipped)
}

// ParamRanges are the parameter bounds a calculator enforces. They are
// approximate, INSPECT's grids differ per element, which is why they
// are config-overridable rather than hardcoded truths.
type ParamRanges struct {
	Teff Range `json:"teff"`
	Logg Range `json:"logg"`
	FeH  Range `json:"feh"`
	Xi   Range `json:"vt"`
	EW   Range `json:"ew"`
	ALTE Range `json:"a_lte"`
}

// RangesConfig maps element symbols to their bounds.
type RangesConfig map[string]ParamRanges

// DefaultRanges covers the calculators whose grid bounds are stated on
// the site. Elements not listed here run unclipped.
func DefaultRanges() RangesConfig {
	return RangesConfig{
		"O": {
			Teff: Range{Min: 5000, Max: 6500},
			Logg: Range{Min: 3.0, Max: 5.0},
			FeH:  Range{Min: -3.0, Max: 0.5},
			Xi:   Range{Min: 0.5, Max: 2.0},
		},
		"Li": {
			Teff: Range{Min: 4000, Max: 6500},
			Logg: Range{Min: 1.0, Max: 5.0},
			FeH:  Range{Min: -3.0, Max: 0.5},
			Xi:   Range{Min: 0.5, Max: 2.0},
		},
	}
}

// ClipParams clamps the stellar parameters into range, returning notes
// describing every adjustment made.
func (r *ParamRanges) ClipParams(p inspect.StellarParams) (inspect.StellarParams, []string) {
	var notes []string
	clip := func(rng Range, name string, v float64) float64 {
		clipped, note := rng.clamp(name, v)
		if note != "" {
			notes = append(notes, note)
		}
		return clipped
	}

	p.Teff = clip(r.Teff, "teff", p.Teff)
	p.Logg = clip(r.Logg, "logg", p.Logg)
	p.FeH = clip(r.FeH, "feh", p.FeH)
	p.Xi = clip(r.Xi, "vt", p.Xi)
	return p, notes
}

// ClipValue clamps a single input value according to the mode.
func (r *ParamRanges) ClipValue(mode Mode, v float64) (float64, []string) {
	rng := r.ALTE
	name := "a_lte"
	if mode == ModeEW {
		rng = r.EW
		name = "ew"
	}
	clipped, note := rng.clamp(name, v)
	if note == "" {
		return clipped, nil
	}
	return clipped, []string{note}
}
