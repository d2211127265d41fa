package filter

import (
	"github.com/cwbudde/algo-filterdesign/filter/biquad"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

// Runner is a stateful realization of a model. The evaluator times its
// ProcessBlock loop; everything else about a model stays immutable.
type Runner interface {
	ProcessBlock(buf []float64)
	Reset()
}

// Realize constructs a fresh runtime filter for the model's structure.
// Each call returns an independent instance with cleared state.
func (m *Model) Realize() Runner {
	switch {
	case m.family == FamilyFIR && m.structure == StructureFolded:
		return fir.NewFolded(m.taps)
	case m.family == FamilyFIR && m.structure == StructureShiftAdd:
		return fir.NewShiftAdd(m.csd)
	case m.family == FamilyFIR:
		return fir.New(m.taps)
	case m.structure == StructureCascade:
		return biquad.NewChain(m.sections)
	default:
		return newDirectIIR(m.num, m.den)
	}
}

// directIIR runs a transfer function in direct form II transposed without
// factoring it into sections. It exists so un-optimized IIR models can be
// timed as designed; cascaded models use [biquad.Chain].
type directIIR struct {
	num, den []float64 // den[0] == 1
	state    []float64
}

func newDirectIIR(num, den []float64) *directIIR {
	n := len(num)
	if len(den) > n {
		n = len(den)
	}
	return &directIIR{
		num:   append([]float64(nil), num...),
		den:   append([]float64(nil), den...),
		state: make([]float64, n-1),
	}
}

func (f *directIIR) processSample(x float64) float64 {
	y := f.num[0] * x
	if len(f.state) > 0 {
		y += f.state[0]
	}

	for i := range f.state {
		var s float64
		if i+1 < len(f.state) {
			s = f.state[i+1]
		}
		if i+1 < len(f.num) {
			s += f.num[i+1] * x
		}
		if i+1 < len(f.den) {
			s -= f.den[i+1] * y
		}
		f.state[i] = s
	}

	return y
}

func (f *directIIR) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.processSample(x)
	}
}

func (f *directIIR) Reset() {
	for i := range f.state {
		f.state[i] = 0
	}
}
