package biquad

import (
	"math"
	"testing"
)

// passthrough is the identity section.
var passthrough = Coefficients{B0: 1}

func TestSection_Passthrough(t *testing.T) {
	s := NewSection(passthrough)
	for _, x := range []float64{1, -0.5, 0.25, 0} {
		if got := s.ProcessSample(x); got != x {
			t.Fatalf("passthrough: got %v, want %v", got, x)
		}
	}
}

func TestSection_MatchesDifferenceEquation(t *testing.T) {
	c := Coefficients{B0: 0.2, B1: 0.4, B2: 0.2, A1: -0.6, A2: 0.3}
	s := NewSection(c)

	input := []float64{1, 0.5, -0.25, 0, 0.75, -1, 0.3, 0.1}

	// Direct form I reference: y[n] = sum b_k x[n-k] - sum a_k y[n-k].
	var x1, x2, y1, y2 float64
	for i, x := range input {
		want := c.B0*x + c.B1*x1 + c.B2*x2 - c.A1*y1 - c.A2*y2
		x2, x1 = x1, x
		y2, y1 = y1, want

		got := s.ProcessSample(x)
		if math.Abs(got-want) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got, want)
		}
	}
}

func TestSection_ProcessBlockMatchesPerSample(t *testing.T) {
	c := Coefficients{B0: 0.5, B1: 0.3, B2: 0.1, A1: -0.2, A2: 0.05}

	input := []float64{1, -1, 0.5, 0.25, -0.75, 0.1, 0.9, -0.4}

	perSample := NewSection(c)
	want := make([]float64, len(input))
	for i, x := range input {
		want[i] = perSample.ProcessSample(x)
	}

	block := NewSection(c)
	got := append([]float64(nil), input...)
	block.ProcessBlock(got)

	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Fatalf("sample %d: block %v, per-sample %v", i, got[i], want[i])
		}
	}
}

func TestSection_ResetAndState(t *testing.T) {
	s := NewSection(Coefficients{B0: 0.5, B1: 0.25, A1: -0.5})

	s.ProcessSample(1)
	s.ProcessSample(-1)
	saved := s.State()

	s.Reset()
	if got := s.State(); got != [2]float64{} {
		t.Fatalf("state after Reset = %v, want zeros", got)
	}

	s.SetState(saved)
	if got := s.State(); got != saved {
		t.Fatalf("state after SetState = %v, want %v", got, saved)
	}
}

func TestCoefficients_FirstOrder(t *testing.T) {
	fo := Coefficients{B0: 0.5, B1: 0.5, A1: -0.3}
	if !fo.FirstOrder() {
		t.Fatal("expected first-order section")
	}

	full := Coefficients{B0: 1, B2: 0.1, A2: 0.2}
	if full.FirstOrder() {
		t.Fatal("expected full biquad")
	}
}

func TestCoefficients_OperationCount(t *testing.T) {
	cases := []struct {
		name string
		c    Coefficients
		want int
	}{
		{"dense biquad", Coefficients{B0: 0.3, B1: 0.6, B2: 0.3, A1: -0.4, A2: 0.2}, 9},
		{"dense first-order", Coefficients{B0: 0.5, B1: 0.5, A1: -0.3}, 5},
		{"monic biquad", Coefficients{B0: 1, B1: 0.4, B2: 0.2, A1: -0.6, A2: 0.25}, 8},
		{"monic first-order", Coefficients{B0: 1, B1: 0.5, A1: -0.3}, 4},
		{"monic all-pole", Coefficients{B0: 1, A1: -0.5, A2: 0.25}, 4},
		{"scaled all-pole", Coefficients{B0: 0.5, A1: -0.5, A2: 0.25}, 5},
		{"passthrough", passthrough, 0},
	}
	for _, tc := range cases {
		if got := tc.c.OperationCount(); got != tc.want {
			t.Fatalf("%s: OperationCount = %d, want %d", tc.name, got, tc.want)
		}
	}
}
