package optimize

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-filterdesign/filter"
)

// Prune zeroes FIR taps whose magnitude falls below a relative threshold
// of the largest tap and trims zero runs at both ends. The deviation the
// dropped taps cause is measured and checked against the budget.
func Prune(m *filter.Model, relThreshold float64, budget Budget) (*filter.Optimized, error) {
	if m.Family() != filter.FamilyFIR {
		return nil, ErrNotFIR
	}
	if !(relThreshold >= 0 && relThreshold < 1) {
		return nil, fmt.Errorf("optimize: prune threshold must be in [0, 1), got %g", relThreshold)
	}

	taps := m.Taps()
	thr := relThreshold * maxAbs(taps)
	for i, c := range taps {
		if math.Abs(c) < thr {
			taps[i] = 0
		}
	}

	lo, hi := 0, len(taps)
	for lo < hi && taps[lo] == 0 {
		lo++
	}
	for hi > lo && taps[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, ErrEmptyResult
	}

	pruned, err := filter.NewFIR(taps[lo:hi], m.SampleRate())
	if err != nil {
		return nil, err
	}

	passDelta, stopDelta := responseDelta(pruned, m, budget.Spec)

	return checkBudget(pruned, m, filter.TechniquePrune, budget, passDelta, stopDelta)
}
