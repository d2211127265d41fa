package filter

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-filterdesign/filter/biquad"
	"github.com/cwbudde/algo-filterdesign/internal/testutil"
)

func TestRealize_DirectFIRMatchesTaps(t *testing.T) {
	taps := []float64{0.5, -0.25, 0.125}
	m, _ := NewFIR(taps, 8000)

	buf := testutil.Impulse(len(taps), 0)
	m.Realize().ProcessBlock(buf)

	testutil.RequireSliceNearlyEqual(t, buf, taps, 1e-15)
}

func TestRealize_FoldedMatchesDirect(t *testing.T) {
	taps := []float64{0.1, 0.2, 0.4, 0.2, 0.1}
	direct, _ := NewFIR(taps, 8000)
	folded, _ := NewFoldedFIR(taps, 8000)

	input := testutil.DeterministicNoise(11, 1.0, 128)
	a := append([]float64(nil), input...)
	b := append([]float64(nil), input...)
	direct.Realize().ProcessBlock(a)
	folded.Realize().ProcessBlock(b)

	testutil.RequireSliceNearlyEqual(t, b, a, 1e-12)
}

func TestRealize_DirectIIRMatchesBiquad(t *testing.T) {
	// A single second-order transfer function run in direct form must match
	// the same coefficients run as a biquad section.
	c := biquad.Coefficients{B0: 0.3, B1: 0.5, B2: 0.2, A1: -0.6, A2: 0.25}
	m, err := NewIIR(
		[]float64{c.B0, c.B1, c.B2},
		[]float64{1, c.A1, c.A2},
		8000)
	if err != nil {
		t.Fatalf("NewIIR: %v", err)
	}

	got := testutil.Impulse(64, 0)
	m.Realize().ProcessBlock(got)

	want := biquad.NewSection(c).ImpulseResponse(64)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)
}

func TestRealize_IndependentInstances(t *testing.T) {
	m, _ := NewFIR([]float64{0.5, 0.5}, 8000)

	r1 := m.Realize()
	r2 := m.Realize()

	warm := []float64{1, 1, 1}
	r1.ProcessBlock(warm)

	// r2 must start from cleared state regardless of r1's history.
	fresh := []float64{1}
	r2.ProcessBlock(fresh)
	if math.Abs(fresh[0]-0.5) > 1e-15 {
		t.Fatalf("fresh runner output = %v, want 0.5", fresh[0])
	}
}

func TestDirectIIR_Reset(t *testing.T) {
	m, _ := NewIIR([]float64{1}, []float64{1, -0.5}, 8000)
	r := m.Realize()

	first := []float64{1}
	r.ProcessBlock(first)
	r.ProcessBlock([]float64{0})

	r.Reset()
	again := []float64{1}
	r.ProcessBlock(again)
	if again[0] != first[0] {
		t.Fatalf("after Reset: got %v, want %v", again[0], first[0])
	}
}
