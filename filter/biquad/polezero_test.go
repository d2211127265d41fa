package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestPoles_RealPair(t *testing.T) {
	// (1 - 0.5 z^-1)(1 - 0.25 z^-1) = 1 - 0.75 z^-1 + 0.125 z^-2.
	c := Coefficients{B0: 1, A1: -0.75, A2: 0.125}

	p := c.Poles()
	got := []float64{real(p[0]), real(p[1])}
	if got[0] < got[1] {
		got[0], got[1] = got[1], got[0]
	}
	if math.Abs(got[0]-0.5) > 1e-12 || math.Abs(got[1]-0.25) > 1e-12 {
		t.Fatalf("poles = %v, want 0.5 and 0.25", p)
	}
}

func TestPoles_ConjugatePair(t *testing.T) {
	// Poles at r*e^{+-j theta} give a1 = -2r cos(theta), a2 = r^2.
	r, theta := 0.9, math.Pi/3
	c := Coefficients{B0: 1, A1: -2 * r * math.Cos(theta), A2: r * r}

	p := c.Poles()
	if cmplx.Abs(p[0]-cmplx.Conj(p[1])) > 1e-12 {
		t.Fatalf("poles not conjugate: %v", p)
	}
	if math.Abs(cmplx.Abs(p[0])-r) > 1e-12 {
		t.Fatalf("pole radius = %v, want %v", cmplx.Abs(p[0]), r)
	}
}

func TestZeros_NotchAtNyquist(t *testing.T) {
	// 1 + 2 z^-1 + z^-2 has a double zero at z = -1.
	c := Coefficients{B0: 1, B1: 2, B2: 1}

	z := c.Zeros()
	for _, root := range z {
		if cmplx.Abs(root-complex(-1, 0)) > 1e-9 {
			t.Fatalf("zeros = %v, want double root at -1", z)
		}
	}
}

func TestCascadePoles(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 1, A1: -0.5},                  // first order, pole 0.5
		{B0: 1, A1: -1.2, A2: 0.72},        // conjugate pair
	}

	poles := Poles(coeffs)
	if len(poles) != 3 {
		t.Fatalf("pole count = %d, want 3", len(poles))
	}

	foundReal := false
	for _, p := range poles {
		if cmplx.Abs(p-complex(0.5, 0)) < 1e-12 {
			foundReal = true
		}
	}
	if !foundReal {
		t.Fatalf("first-order pole 0.5 missing from %v", poles)
	}
}

func TestPoleZeroPairs(t *testing.T) {
	coeffs := []Coefficients{
		{B0: 1, B1: 0.5, A1: -0.3, A2: 0.1},
		{B0: 0.5, A1: 0.2},
	}

	pairs := PoleZeroPairs(coeffs)
	if len(pairs) != len(coeffs) {
		t.Fatalf("pair count = %d, want %d", len(pairs), len(coeffs))
	}
}
