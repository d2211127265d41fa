package optimize

import (
	"fmt"

	"github.com/cwbudde/algo-filterdesign/filter"
)

// Option configures technique parameters for [Apply].
type Option func(*config)

type config struct {
	bits           int
	maxTerms       int
	pruneThreshold float64
	steps          []filter.Technique
}

func defaultConfig() config {
	return config{
		bits:           16,
		maxTerms:       3,
		pruneThreshold: 1e-4,
	}
}

// WithBits sets the fixed-point word width for [filter.TechniqueQuantize].
func WithBits(bits int) Option {
	return func(c *config) { c.bits = bits }
}

// WithMaxTerms sets the per-coefficient signed power-of-two term limit for
// [filter.TechniqueMultiplierless].
func WithMaxTerms(k int) Option {
	return func(c *config) { c.maxTerms = k }
}

// WithPruneThreshold sets the relative magnitude threshold for
// [filter.TechniquePrune].
func WithPruneThreshold(rel float64) Option {
	return func(c *config) { c.pruneThreshold = rel }
}

// WithSteps sets the ordered technique list for [filter.TechniqueComposite].
func WithSteps(steps ...filter.Technique) Option {
	return func(c *config) { c.steps = steps }
}

// Apply dispatches one optimization technique on the model under the
// budget. Technique parameters come from the options; each technique is
// also available as a standalone function.
func Apply(m *filter.Model, t filter.Technique, budget Budget, opts ...Option) (*filter.Optimized, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	switch t {
	case filter.TechniqueSymmetry:
		return Symmetry(m, budget)
	case filter.TechniqueQuantize:
		return Quantize(m, cfg.bits, budget)
	case filter.TechniqueBiquadCascade:
		return BiquadCascade(m, budget)
	case filter.TechniqueMultiplierless:
		return Multiplierless(m, cfg.maxTerms, budget)
	case filter.TechniquePrune:
		return Prune(m, cfg.pruneThreshold, budget)
	case filter.TechniqueComposite:
		return Composite(m, cfg.steps, budget, opts...)
	default:
		return nil, fmt.Errorf("optimize: unknown technique %s", t)
	}
}
