package optimize

import (
	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/internal/polyroot"
)

// BiquadCascade factors a direct-form IIR transfer function into cascaded
// second-order sections: the pole pair closest to the unit circle is
// paired with the nearest zero pair, and sections run in ascending pole
// radius order. Lossless up to floating round-off, so only the budget's
// operation bound applies. A model already in cascade form passes through
// unchanged.
func BiquadCascade(m *filter.Model, budget Budget) (*filter.Optimized, error) {
	if m.Family() != filter.FamilyIIR {
		return nil, ErrNotIIR
	}

	out := m
	if m.Structure() != filter.StructureCascade {
		sections, err := polyroot.SplitSections(m.Num(), m.Den())
		if err != nil {
			return nil, err
		}

		out, err = filter.NewIIRCascade(sections, m.SampleRate())
		if err != nil {
			return nil, err
		}
	}

	return checkBudget(out, m, filter.TechniqueBiquadCascade, budget, 0, 0)
}
