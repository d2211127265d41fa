package optimize

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

// Multiplierless approximates every FIR tap by a sum of at most maxTerms
// signed powers of two, chosen greedily by minimal residual. Each tap then
// costs only shifts and adds. The realized response deviation is measured
// and checked against the budget.
func Multiplierless(m *filter.Model, maxTerms int, budget Budget) (*filter.Optimized, error) {
	if m.Family() != filter.FamilyFIR {
		return nil, ErrNotFIR
	}
	if maxTerms < 1 {
		return nil, fmt.Errorf("optimize: term limit must be >= 1, got %d", maxTerms)
	}

	taps := m.Taps()
	terms := make([][]fir.CSDTerm, len(taps))
	for i, c := range taps {
		terms[i] = csdApprox(c, maxTerms)
	}

	sa, err := filter.NewShiftAddFIR(terms, m.SampleRate())
	if err != nil {
		return nil, err
	}

	passDelta, stopDelta := responseDelta(sa, m, budget.Spec)

	return checkBudget(sa, m, filter.TechniqueMultiplierless, budget, passDelta, stopDelta)
}

// csdApprox greedily picks up to maxTerms signed powers of two whose sum
// approaches v: each step takes the power of two nearest the remaining
// residual.
func csdApprox(v float64, maxTerms int) []fir.CSDTerm {
	var terms []fir.CSDTerm

	residual := v
	for len(terms) < maxTerms && residual != 0 {
		mag := math.Abs(residual)
		exp := int(math.Round(math.Log2(mag)))

		// Log rounding is not linear-nearest; check the neighbors.
		for _, e := range [...]int{exp - 1, exp + 1} {
			if math.Abs(mag-math.Ldexp(1, e)) < math.Abs(mag-math.Ldexp(1, exp)) {
				exp = e
			}
		}

		sign := 1
		if residual < 0 {
			sign = -1
		}

		terms = append(terms, fir.CSDTerm{Sign: sign, Exp: exp})
		residual -= float64(sign) * math.Ldexp(1, exp)
	}

	return terms
}
