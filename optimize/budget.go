package optimize

import (
	"math"

	"github.com/cwbudde/algo-filterdesign/design"
	"github.com/cwbudde/algo-filterdesign/filter"
)

// deltaGridPoints is the density of the deviation measurement grid.
const deltaGridPoints = 1024

// silenceFloor is the linear magnitude below which two responses count as
// equally silent; dB differences between near-zero magnitudes carry no
// information.
const silenceFloor = 1e-12

// Budget bounds the degradation or cost an optimization may introduce.
// Zero-valued fields are unconstrained. When Spec is set, deviations are
// classified into passband and stopband using its band edges; without a
// spec every frequency counts against the passband bound.
type Budget struct {
	Spec *design.Spec

	MaxPassbandDeltaDB float64
	MaxStopbandDeltaDB float64
	MaxOperationCount  int
}

// Unbounded is the permissive budget.
var Unbounded = Budget{}

// responseDelta measures the worst-case magnitude response change of a
// model against its reference on a dense grid over [0, Nyquist].
func responseDelta(m, ref *filter.Model, spec *design.Spec) (passDelta, stopDelta float64) {
	ny := ref.SampleRate() / 2

	probe := func(f float64) {
		a := magnitudeAt(m, f)
		b := magnitudeAt(ref, f)
		if a < silenceFloor && b < silenceFloor {
			return
		}
		if a < silenceFloor {
			a = silenceFloor
		}
		if b < silenceFloor {
			b = silenceFloor
		}

		d := math.Abs(20 * math.Log10(a/b))
		switch {
		case spec == nil || spec.InPassband(f):
			if d > passDelta {
				passDelta = d
			}
		case spec.InStopband(f):
			if d > stopDelta {
				stopDelta = d
			}
		}
	}

	for i := 0; i <= deltaGridPoints; i++ {
		probe(ny * float64(i) / deltaGridPoints)
	}
	if spec != nil {
		for _, f := range spec.PassEdges {
			probe(f)
		}
		for _, f := range spec.StopEdges {
			probe(f)
		}
	}

	return passDelta, stopDelta
}

func magnitudeAt(m *filter.Model, f float64) float64 {
	h := m.Response(f)
	return math.Hypot(real(h), imag(h))
}

// checkBudget validates realized figures against the budget and wraps the
// model into the result on success.
func checkBudget(m, ref *filter.Model, t filter.Technique, b Budget, passDelta, stopDelta float64) (*filter.Optimized, error) {
	ops := m.OperationCount()

	exceeded := (b.MaxPassbandDeltaDB > 0 && passDelta > b.MaxPassbandDeltaDB) ||
		(b.MaxStopbandDeltaDB > 0 && stopDelta > b.MaxStopbandDeltaDB) ||
		(b.MaxOperationCount > 0 && ops > b.MaxOperationCount)
	if exceeded {
		return nil, &BudgetExceededError{
			Technique:       t,
			PassbandDeltaDB: passDelta,
			StopbandDeltaDB: stopDelta,
			OperationCount:  ops,
			Budget:          b,
		}
	}

	return &filter.Optimized{
		Model:           m,
		Technique:       t,
		Reference:       ref,
		PassbandDeltaDB: passDelta,
		StopbandDeltaDB: stopDelta,
		OperationCount:  ops,
	}, nil
}
