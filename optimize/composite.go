package optimize

import (
	"errors"

	"github.com/cwbudde/algo-filterdesign/filter"
)

// ErrNoSteps is returned when a composite optimization has no techniques.
var ErrNoSteps = errors.New("optimize: composite needs at least one technique")

// Composite applies an ordered technique list, threading the budget
// through every step and failing eagerly on the first violation. The
// result's provenance points at the original model and its realized
// deviation is measured end to end.
func Composite(m *filter.Model, steps []filter.Technique, budget Budget, opts ...Option) (*filter.Optimized, error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}

	cur := m
	for _, t := range steps {
		if t == filter.TechniqueComposite {
			return nil, errors.New("optimize: composite cannot nest")
		}

		res, err := Apply(cur, t, budget, opts...)
		if err != nil {
			return nil, err
		}
		cur = res.Model
	}

	passDelta, stopDelta := responseDelta(cur, m, budget.Spec)

	return checkBudget(cur, m, filter.TechniqueComposite, budget, passDelta, stopDelta)
}
