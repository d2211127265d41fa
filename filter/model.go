package filter

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-filterdesign/filter/biquad"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

// Errors returned by model constructors.
var (
	ErrEmptyCoefficients = errors.New("filter: coefficient sequence is empty")
	ErrInvalidSampleRate = errors.New("filter: sample rate must be positive and finite")
	ErrZeroLeadingDen    = errors.New("filter: denominator leading coefficient is zero")
)

// Model is an immutable designed filter. FIR models carry a tap sequence;
// IIR models carry numerator/denominator polynomials (denominator leading
// coefficient normalized to 1) and, when designed or factored as a
// cascade, the equivalent second-order sections.
type Model struct {
	family     Family
	structure  Structure
	sampleRate float64

	taps []float64       // FIR
	csd  [][]fir.CSDTerm // FIR, StructureShiftAdd only

	num, den []float64             // IIR transfer function
	sections []biquad.Coefficients // IIR cascade form
}

// NewFIR creates a direct-form FIR model from a tap sequence.
// The taps are copied.
func NewFIR(taps []float64, sampleRate float64) (*Model, error) {
	if len(taps) == 0 {
		return nil, ErrEmptyCoefficients
	}
	if !validSampleRate(sampleRate) {
		return nil, ErrInvalidSampleRate
	}
	return &Model{
		family:     FamilyFIR,
		structure:  StructureDirect,
		sampleRate: sampleRate,
		taps:       copyFloats(taps),
	}, nil
}

// NewFoldedFIR creates a symmetry-folded FIR model. The taps are the full
// (palindromic) sequence; the folded realization is chosen at run time.
func NewFoldedFIR(taps []float64, sampleRate float64) (*Model, error) {
	m, err := NewFIR(taps, sampleRate)
	if err != nil {
		return nil, err
	}
	m.structure = StructureFolded
	return m, nil
}

// NewShiftAddFIR creates a multiplierless FIR model from per-tap signed
// power-of-two term lists. The real-valued taps are derived from the terms.
func NewShiftAddFIR(terms [][]fir.CSDTerm, sampleRate float64) (*Model, error) {
	if len(terms) == 0 {
		return nil, ErrEmptyCoefficients
	}
	if !validSampleRate(sampleRate) {
		return nil, ErrInvalidSampleRate
	}
	taps := make([]float64, len(terms))
	csd := make([][]fir.CSDTerm, len(terms))
	for i, t := range terms {
		csd[i] = append([]fir.CSDTerm(nil), t...)
		taps[i] = fir.CSDValue(t)
	}
	return &Model{
		family:     FamilyFIR,
		structure:  StructureShiftAdd,
		sampleRate: sampleRate,
		taps:       taps,
		csd:        csd,
	}, nil
}

// NewIIR creates a direct-form IIR model from numerator and denominator
// polynomials in ascending powers of z^-1. The denominator is normalized
// so den[0] == 1.
func NewIIR(num, den []float64, sampleRate float64) (*Model, error) {
	if len(num) == 0 || len(den) == 0 {
		return nil, ErrEmptyCoefficients
	}
	if !validSampleRate(sampleRate) {
		return nil, ErrInvalidSampleRate
	}
	if den[0] == 0 || math.IsNaN(den[0]) || math.IsInf(den[0], 0) {
		return nil, ErrZeroLeadingDen
	}

	n := copyFloats(num)
	d := copyFloats(den)
	if d[0] != 1 {
		lead := d[0]
		for i := range n {
			n[i] /= lead
		}
		for i := range d {
			d[i] /= lead
		}
	}

	return &Model{
		family:     FamilyIIR,
		structure:  StructureDirect,
		sampleRate: sampleRate,
		num:        n,
		den:        d,
	}, nil
}

// NewIIRCascade creates an IIR model from second-order sections. The
// expanded numerator/denominator polynomials are derived by polynomial
// multiplication of the sections so the transfer-function view stays
// available.
func NewIIRCascade(sections []biquad.Coefficients, sampleRate float64) (*Model, error) {
	if len(sections) == 0 {
		return nil, ErrEmptyCoefficients
	}
	if !validSampleRate(sampleRate) {
		return nil, ErrInvalidSampleRate
	}

	num := []float64{1}
	den := []float64{1}
	for i := range sections {
		s := sections[i]
		if s.FirstOrder() {
			num = polyMul(num, []float64{s.B0, s.B1})
			den = polyMul(den, []float64{1, s.A1})
		} else {
			num = polyMul(num, []float64{s.B0, s.B1, s.B2})
			den = polyMul(den, []float64{1, s.A1, s.A2})
		}
	}

	return &Model{
		family:     FamilyIIR,
		structure:  StructureCascade,
		sampleRate: sampleRate,
		num:        num,
		den:        den,
		sections:   append([]biquad.Coefficients(nil), sections...),
	}, nil
}

// Family returns the filter family.
func (m *Model) Family() Family { return m.family }

// Structure returns the arithmetic realization of the model.
func (m *Model) Structure() Structure { return m.structure }

// SampleRate returns the design sample rate in Hz.
func (m *Model) SampleRate() float64 { return m.sampleRate }

// Order returns the filter order: tap count minus one for FIR, the larger
// polynomial degree for IIR.
func (m *Model) Order() int {
	if m.family == FamilyFIR {
		return len(m.taps) - 1
	}
	nd := len(m.den) - 1
	if nn := len(m.num) - 1; nn > nd {
		return nn
	}
	return nd
}

// Taps returns a copy of the FIR tap sequence, or nil for IIR models.
func (m *Model) Taps() []float64 {
	if m.family != FamilyFIR {
		return nil
	}
	return copyFloats(m.taps)
}

// CSDTerms returns a copy of the per-tap shift-add terms, or nil when the
// model is not multiplierless.
func (m *Model) CSDTerms() [][]fir.CSDTerm {
	if m.csd == nil {
		return nil
	}
	out := make([][]fir.CSDTerm, len(m.csd))
	for i, t := range m.csd {
		out[i] = append([]fir.CSDTerm(nil), t...)
	}
	return out
}

// Num returns a copy of the IIR numerator polynomial, or nil for FIR.
func (m *Model) Num() []float64 { return copyFloats(m.num) }

// Den returns a copy of the IIR denominator polynomial, or nil for FIR.
func (m *Model) Den() []float64 { return copyFloats(m.den) }

// Sections returns a copy of the second-order sections, or nil when the
// model is not in cascade form.
func (m *Model) Sections() []biquad.Coefficients {
	if m.sections == nil {
		return nil
	}
	return append([]biquad.Coefficients(nil), m.sections...)
}

// Response computes the complex frequency response at the given frequency.
func (m *Model) Response(freqHz float64) complex128 {
	if m.family == FamilyFIR {
		return fir.Response(m.taps, freqHz, m.sampleRate)
	}
	if m.structure == StructureCascade {
		h := complex(1, 0)
		for i := range m.sections {
			h *= m.sections[i].Response(freqHz, m.sampleRate)
		}
		return h
	}
	den := fir.Response(m.den, freqHz, m.sampleRate)
	if den == 0 {
		return complex(math.Inf(1), 0)
	}
	return fir.Response(m.num, freqHz, m.sampleRate) / den
}

// MagnitudeDB returns the magnitude response in dB at the given frequency.
func (m *Model) MagnitudeDB(freqHz float64) float64 {
	return 20 * math.Log10(cmplx.Abs(m.Response(freqHz)))
}

// OperationCount returns the multiply+add count per output sample implied
// by the model's structure.
func (m *Model) OperationCount() int {
	switch {
	case m.family == FamilyFIR && m.structure == StructureFolded:
		n := len(m.taps)
		return (n+1)/2 + n - 1
	case m.family == FamilyFIR && m.structure == StructureShiftAdd:
		ops := 0
		for _, t := range m.csd {
			ops += len(t)
		}
		return ops
	case m.family == FamilyFIR:
		nz := 0
		for _, c := range m.taps {
			if c != 0 {
				nz++
			}
		}
		if nz == 0 {
			return 0
		}
		return 2*nz - 1
	case m.structure == StructureCascade:
		ops := 0
		for i := range m.sections {
			ops += m.sections[i].OperationCount()
		}
		return ops
	default:
		muls := len(m.num) + len(m.den) - 1 // den[0] is 1, no multiply
		return muls + muls - 1
	}
}

// StateBytes returns the delay-line memory footprint of the realized
// filter in bytes.
func (m *Model) StateBytes() int {
	const wordSize = 8
	if m.family == FamilyFIR {
		return wordSize * len(m.taps)
	}
	if m.structure == StructureCascade {
		return wordSize * 2 * len(m.sections)
	}
	n := len(m.num)
	if len(m.den) > n {
		n = len(m.den)
	}
	return wordSize * 2 * n
}

func (m *Model) String() string {
	return fmt.Sprintf("%s %s order=%d fs=%g", m.family, m.structure, m.Order(), m.sampleRate)
}

func validSampleRate(sr float64) bool {
	return sr > 0 && !math.IsNaN(sr) && !math.IsInf(sr, 0)
}

func copyFloats(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// polyMul multiplies two polynomials given in ascending power order.
func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}
