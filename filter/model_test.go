package filter

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-filterdesign/filter/biquad"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

func TestNewFIR_Validation(t *testing.T) {
	if _, err := NewFIR(nil, 48000); !errors.Is(err, ErrEmptyCoefficients) {
		t.Fatalf("empty taps: err = %v, want ErrEmptyCoefficients", err)
	}
	if _, err := NewFIR([]float64{1}, 0); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("zero rate: err = %v, want ErrInvalidSampleRate", err)
	}
	if _, err := NewFIR([]float64{1}, math.Inf(1)); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("inf rate: err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestNewFIR_Basics(t *testing.T) {
	taps := []float64{0.25, 0.5, 0.25}
	m, err := NewFIR(taps, 8000)
	if err != nil {
		t.Fatalf("NewFIR: %v", err)
	}

	if m.Family() != FamilyFIR || m.Structure() != StructureDirect {
		t.Fatalf("family/structure = %s/%s", m.Family(), m.Structure())
	}
	if m.Order() != 2 {
		t.Fatalf("Order = %d, want 2", m.Order())
	}
	if m.Num() != nil || m.Den() != nil {
		t.Fatal("FIR model exposes IIR polynomials")
	}

	taps[0] = 99
	if m.Taps()[0] != 0.25 {
		t.Fatal("taps aliased to caller slice")
	}
}

func TestNewIIR_NormalizesDenominator(t *testing.T) {
	m, err := NewIIR([]float64{2, 4}, []float64{2, 1}, 48000)
	if err != nil {
		t.Fatalf("NewIIR: %v", err)
	}

	num, den := m.Num(), m.Den()
	if den[0] != 1 {
		t.Fatalf("den[0] = %v, want 1", den[0])
	}
	if num[0] != 1 || num[1] != 2 || den[1] != 0.5 {
		t.Fatalf("normalized polys = %v / %v", num, den)
	}
}

func TestNewIIR_ZeroLeadingDen(t *testing.T) {
	if _, err := NewIIR([]float64{1}, []float64{0, 1}, 48000); !errors.Is(err, ErrZeroLeadingDen) {
		t.Fatalf("err = %v, want ErrZeroLeadingDen", err)
	}
}

func TestNewIIRCascade_ExpandsPolynomials(t *testing.T) {
	sections := []biquad.Coefficients{
		{B0: 1, B1: 0.5, B2: 0.25, A1: -0.4, A2: 0.2},
		{B0: 0.5, B1: 0.1, B2: 0, A1: 0.3, A2: 0.1},
	}

	m, err := NewIIRCascade(sections, 48000)
	if err != nil {
		t.Fatalf("NewIIRCascade: %v", err)
	}
	if m.Structure() != StructureCascade {
		t.Fatalf("structure = %s, want Cascade", m.Structure())
	}

	// The expanded transfer function must agree with the section product.
	const fs = 48000.0
	for _, f := range []float64{0, 500, 3000, 15000} {
		want := sections[0].Response(f, fs) * sections[1].Response(f, fs)

		den := fir.Response(m.Den(), f, fs)
		got := fir.Response(m.Num(), f, fs) / den
		if cmplx.Abs(got-want) > 1e-12 {
			t.Fatalf("f=%g: expanded %v, sections %v", f, got, want)
		}
	}
}

func TestNewShiftAddFIR_DerivesTaps(t *testing.T) {
	terms := [][]fir.CSDTerm{
		{{Sign: 1, Exp: -1}},
		{{Sign: 1, Exp: 0}, {Sign: -1, Exp: -2}},
	}

	m, err := NewShiftAddFIR(terms, 48000)
	if err != nil {
		t.Fatalf("NewShiftAddFIR: %v", err)
	}
	if m.Structure() != StructureShiftAdd {
		t.Fatalf("structure = %s, want ShiftAdd", m.Structure())
	}

	taps := m.Taps()
	if taps[0] != 0.5 || taps[1] != 0.75 {
		t.Fatalf("derived taps = %v, want [0.5 0.75]", taps)
	}
}

func TestModel_OperationCount(t *testing.T) {
	direct, _ := NewFIR([]float64{0.25, 0, 0.5, 0.25}, 8000)
	if got := direct.OperationCount(); got != 5 {
		t.Fatalf("direct FIR ops = %d, want 5", got)
	}

	folded, _ := NewFoldedFIR([]float64{0.25, 0.5, 0.25}, 8000)
	if got := folded.OperationCount(); got != 4 {
		t.Fatalf("folded FIR ops = %d, want 4", got)
	}

	cascade, _ := NewIIRCascade([]biquad.Coefficients{
		{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.6, A2: 0.25},
		{B0: 0.5, B1: 0.5, A1: -0.3},
	}, 8000)
	if got := cascade.OperationCount(); got != 14 {
		t.Fatalf("cascade ops = %d, want 14", got)
	}

	// Monic all-pole sections skip the output multiply and the zero taps.
	allPole, _ := NewIIRCascade([]biquad.Coefficients{
		{B0: 1, A1: -0.5, A2: 0.25},
		{B0: 1, A1: -0.3},
	}, 8000)
	if got := allPole.OperationCount(); got != 6 {
		t.Fatalf("all-pole cascade ops = %d, want 6", got)
	}
}

func TestModel_StateBytes(t *testing.T) {
	firModel, _ := NewFIR(make([]float64, 10), 8000)
	if got := firModel.StateBytes(); got != 80 {
		t.Fatalf("FIR StateBytes = %d, want 80", got)
	}

	cascade, _ := NewIIRCascade([]biquad.Coefficients{
		{B0: 1, A1: -0.5}, {B0: 1, A1: -0.3},
	}, 8000)
	if got := cascade.StateBytes(); got != 32 {
		t.Fatalf("cascade StateBytes = %d, want 32", got)
	}
}

func TestModel_ResponseLowpassShape(t *testing.T) {
	m, _ := NewFIR([]float64{0.25, 0.5, 0.25}, 8000)

	if dc := cmplx.Abs(m.Response(0)); math.Abs(dc-1) > 1e-12 {
		t.Fatalf("|H(0)| = %v, want 1", dc)
	}
	if ny := cmplx.Abs(m.Response(4000)); ny > 1e-12 {
		t.Fatalf("|H(Nyquist)| = %v, want 0", ny)
	}
}
