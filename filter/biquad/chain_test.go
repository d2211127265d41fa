package biquad

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-filterdesign/internal/testutil"
)

var chainCoeffs = []Coefficients{
	{B0: 0.3, B1: 0.6, B2: 0.3, A1: -0.4, A2: 0.2},
	{B0: 0.5, B1: -0.2, B2: 0.1, A1: 0.1, A2: 0.3},
}

func TestChain_MatchesSequentialSections(t *testing.T) {
	input := testutil.DeterministicNoise(3, 1.0, 256)

	s0 := NewSection(chainCoeffs[0])
	s1 := NewSection(chainCoeffs[1])
	want := append([]float64(nil), input...)
	s0.ProcessBlock(want)
	s1.ProcessBlock(want)

	chain := NewChain(chainCoeffs)
	got := append([]float64(nil), input...)
	chain.ProcessBlock(got)

	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestChain_Gain(t *testing.T) {
	chain := NewChain([]Coefficients{passthrough}, WithGain(0.5))

	if got := chain.ProcessSample(2); got != 1 {
		t.Fatalf("gained sample = %v, want 1", got)
	}
	if got := chain.Gain(); got != 0.5 {
		t.Fatalf("Gain = %v, want 0.5", got)
	}
}

func TestChain_Order(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 1, A1: -0.5},           // first order
		{B0: 1, A1: -0.4, A2: 0.2},  // second order
	}
	if got := NewChain(coeffs).Order(); got != 3 {
		t.Fatalf("Order = %d, want 3", got)
	}
}

func TestChain_OperationCount(t *testing.T) {
	chain := NewChain(chainCoeffs)
	if got := chain.OperationCount(); got != 18 {
		t.Fatalf("OperationCount = %d, want 18", got)
	}

	gained := NewChain(chainCoeffs, WithGain(2))
	if got := gained.OperationCount(); got != 19 {
		t.Fatalf("gained OperationCount = %d, want 19", got)
	}
}

func TestChain_Reset(t *testing.T) {
	chain := NewChain(chainCoeffs)

	first := chain.ProcessSample(1)
	chain.ProcessSample(0.5)

	chain.Reset()
	if got := chain.ProcessSample(1); math.Abs(got-first) > 1e-15 {
		t.Fatalf("after Reset: got %v, want %v", got, first)
	}
}

func TestChain_StateRoundTrip(t *testing.T) {
	chain := NewChain(chainCoeffs)
	chain.ProcessSample(1)
	chain.ProcessSample(-0.5)

	saved := chain.State()
	next := chain.ProcessSample(0.25)

	chain.SetState(saved)
	if got := chain.ProcessSample(0.25); got != next {
		t.Fatalf("replayed sample = %v, want %v", got, next)
	}
}
