package optimize

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/biquad"
)

// Quantize rounds every coefficient to the nearest point of a fixed-point
// grid of the given bit width. The grid is scaled so the largest
// coefficient magnitude uses the full signed range. The worst-case
// response deviation against the input model is measured on a dense grid
// and checked against the budget.
func Quantize(m *filter.Model, bits int, budget Budget) (*filter.Optimized, error) {
	if bits < 2 || bits > 32 {
		return nil, fmt.Errorf("optimize: bit width must be in [2, 32], got %d", bits)
	}

	var (
		q   *filter.Model
		err error
	)
	switch {
	case m.Family() == filter.FamilyFIR:
		taps := m.Taps()
		quantizeSlice(taps, bits, maxAbs(taps))
		q, err = filter.NewFIR(taps, m.SampleRate())
	case m.Structure() == filter.StructureCascade:
		sections := m.Sections()
		scale := gridScale(bits, maxAbsSections(sections))
		for i := range sections {
			s := &sections[i]
			s.B0 = roundTo(s.B0, scale)
			s.B1 = roundTo(s.B1, scale)
			s.B2 = roundTo(s.B2, scale)
			s.A1 = roundTo(s.A1, scale)
			s.A2 = roundTo(s.A2, scale)
		}
		q, err = filter.NewIIRCascade(sections, m.SampleRate())
	default:
		num, den := m.Num(), m.Den()
		peak := math.Max(maxAbs(num), maxAbs(den))
		scale := gridScale(bits, peak)
		for i := range num {
			num[i] = roundTo(num[i], scale)
		}
		for i := 1; i < len(den); i++ {
			den[i] = roundTo(den[i], scale)
		}
		q, err = filter.NewIIR(num, den, m.SampleRate())
	}
	if err != nil {
		return nil, err
	}

	passDelta, stopDelta := responseDelta(q, m, budget.Spec)

	return checkBudget(q, m, filter.TechniqueQuantize, budget, passDelta, stopDelta)
}

// gridScale returns the grid step multiplier mapping the peak magnitude
// onto the full signed range of the word width.
func gridScale(bits int, peak float64) float64 {
	if peak <= 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return 1
	}
	return (math.Exp2(float64(bits-1)) - 1) / peak
}

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}

func quantizeSlice(v []float64, bits int, peak float64) {
	scale := gridScale(bits, peak)
	for i := range v {
		v[i] = roundTo(v[i], scale)
	}
}

func maxAbs(v []float64) float64 {
	peak := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}
	return peak
}

func maxAbsSections(sections []biquad.Coefficients) float64 {
	peak := 0.0
	for _, s := range sections {
		for _, c := range [...]float64{s.B0, s.B1, s.B2, s.A1, s.A2} {
			if a := math.Abs(c); a > peak {
				peak = a
			}
		}
	}
	return peak
}
