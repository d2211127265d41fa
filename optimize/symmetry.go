package optimize

import (
	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

// symmetryTol is the absolute tap tolerance for linear-phase detection.
const symmetryTol = 1e-12

// Symmetry folds a palindromic (linear-phase) FIR tap sequence so each
// symmetric pair costs a single multiply. The transform is lossless; the
// folded output matches the direct form up to floating round-off, so only
// the budget's operation bound applies.
func Symmetry(m *filter.Model, budget Budget) (*filter.Optimized, error) {
	if m.Family() != filter.FamilyFIR {
		return nil, ErrNotFIR
	}

	taps := m.Taps()
	if !fir.IsSymmetric(taps, symmetryTol) {
		return nil, ErrNotSymmetric
	}

	folded, err := filter.NewFoldedFIR(taps, m.SampleRate())
	if err != nil {
		return nil, err
	}

	return checkBudget(folded, m, filter.TechniqueSymmetry, budget, 0, 0)
}
