package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestResponse_DCGain(t *testing.T) {
	// H(1) = (b0+b1+b2) / (1+a1+a2).
	c := Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.5, A2: 0.3}
	want := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)

	got := c.Response(0, 48000)
	if math.Abs(real(got)-want) > 1e-12 || math.Abs(imag(got)) > 1e-12 {
		t.Fatalf("H(0) = %v, want %v", got, want)
	}
}

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	c := Coefficients{B0: 0.3, B1: -0.2, B2: 0.1, A1: -0.6, A2: 0.25}
	const fs = 48000.0

	for _, f := range []float64{0, 100, 1000, 5000, 12000, 23999} {
		want := cmplx.Abs(c.Response(f, fs))
		got := math.Sqrt(c.MagnitudeSquared(f, fs))
		if math.Abs(got-want) > 1e-10*math.Max(1, want) {
			t.Fatalf("f=%g: closed form %v, complex %v", f, got, want)
		}
	}
}

func TestChainResponse_ProductOfSections(t *testing.T) {
	chain := NewChain(chainCoeffs, WithGain(0.5))
	const fs = 48000.0

	for _, f := range []float64{0, 440, 2000, 10000} {
		want := complex(0.5, 0) *
			chainCoeffs[0].Response(f, fs) *
			chainCoeffs[1].Response(f, fs)
		got := chain.Response(f, fs)
		if cmplx.Abs(got-want) > 1e-12 {
			t.Fatalf("f=%g: got %v, want %v", f, got, want)
		}
	}
}

func TestImpulseResponse_FirstSamples(t *testing.T) {
	c := Coefficients{B0: 0.5, B1: 0.2, B2: 0.1, A1: -0.3, A2: 0.05}
	s := NewSection(c)

	ir := s.ImpulseResponse(4)

	// h[0] = b0, h[1] = b1 - a1*h[0].
	if math.Abs(ir[0]-c.B0) > 1e-15 {
		t.Fatalf("h[0] = %v, want %v", ir[0], c.B0)
	}
	want1 := c.B1 - c.A1*c.B0
	if math.Abs(ir[1]-want1) > 1e-15 {
		t.Fatalf("h[1] = %v, want %v", ir[1], want1)
	}
}

func TestImpulseResponse_PreservesState(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.5, A1: -0.4})
	s.ProcessSample(1)
	before := s.State()

	s.ImpulseResponse(16)

	if got := s.State(); got != before {
		t.Fatalf("state changed: %v -> %v", before, got)
	}
}
