package fir

import "math"

// CSDTerm is one signed power-of-two term of a multiplierless coefficient:
// Sign * 2^Exp.
type CSDTerm struct {
	Sign int // +1 or -1
	Exp  int
}

// CSDValue returns the real value represented by a term list.
func CSDValue(terms []CSDTerm) float64 {
	v := 0.0
	for _, t := range terms {
		v += float64(t.Sign) * math.Ldexp(1, t.Exp)
	}
	return v
}

// ShiftAddFilter is a multiplierless FIR filter: every coefficient is a
// sum of signed powers of two, so each tap costs only shifts and adds.
type ShiftAddFilter struct {
	taps  [][]CSDTerm
	delay []float64
	pos   int
}

// NewShiftAdd creates a shift-add filter from per-tap term lists.
// An empty term list represents a zero tap.
func NewShiftAdd(taps [][]CSDTerm) *ShiftAddFilter {
	copied := make([][]CSDTerm, len(taps))
	for i, t := range taps {
		copied[i] = append([]CSDTerm(nil), t...)
	}
	return &ShiftAddFilter{
		taps:  copied,
		delay: make([]float64, len(taps)),
	}
}

// ProcessSample filters one input sample. Each signed power-of-two term
// contributes one scaled addition; no general multiplies occur.
func (f *ShiftAddFilter) ProcessSample(x float64) float64 {
	n := len(f.taps)
	f.delay[f.pos] = x

	var y float64
	p := f.pos
	for k := range n {
		v := f.delay[p]
		for _, t := range f.taps[k] {
			if t.Sign >= 0 {
				y += math.Ldexp(v, t.Exp)
			} else {
				y -= math.Ldexp(v, t.Exp)
			}
		}
		p--
		if p < 0 {
			p = n - 1
		}
	}

	f.pos++
	if f.pos >= n {
		f.pos = 0
	}
	return y
}

// ProcessBlock filters a block of samples in-place.
func (f *ShiftAddFilter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the delay line to zero.
func (f *ShiftAddFilter) Reset() {
	for i := range f.delay {
		f.delay[i] = 0
	}
	f.pos = 0
}

// Order returns the filter order (tap count - 1).
func (f *ShiftAddFilter) Order() int {
	return len(f.taps) - 1
}

// Coefficients returns the real-valued taps the term lists represent.
func (f *ShiftAddFilter) Coefficients() []float64 {
	out := make([]float64, len(f.taps))
	for i, t := range f.taps {
		out[i] = CSDValue(t)
	}
	return out
}

// OperationCount returns the shift-add count per output sample: one
// addition per signed power-of-two term. Zero taps cost nothing.
func (f *ShiftAddFilter) OperationCount() int {
	ops := 0
	for _, t := range f.taps {
		ops += len(t)
	}
	return ops
}
