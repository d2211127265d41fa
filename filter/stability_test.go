package filter

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-filterdesign/filter/biquad"
)

func TestStable_FIRAlways(t *testing.T) {
	m, _ := NewFIR([]float64{1, -2, 1}, 8000)

	stable, _, err := m.Stable()
	if err != nil {
		t.Fatalf("Stable: %v", err)
	}
	if !stable {
		t.Fatal("FIR model reported unstable")
	}

	poles, err := m.Poles()
	if err != nil || poles != nil {
		t.Fatalf("FIR Poles = %v, %v; want nil, nil", poles, err)
	}
}

func TestStable_CascadeInside(t *testing.T) {
	m, _ := NewIIRCascade([]biquad.Coefficients{
		{B0: 1, A1: -1.2, A2: 0.72}, // |p| = sqrt(0.72)
		{B0: 1, A1: -0.5},
	}, 8000)

	stable, worst, err := m.Stable()
	if err != nil {
		t.Fatalf("Stable: %v", err)
	}
	if !stable {
		t.Fatal("stable cascade reported unstable")
	}
	if r := cmplx.Abs(worst); math.Abs(r-math.Sqrt(0.72)) > 1e-9 {
		t.Fatalf("worst pole radius = %v, want %v", r, math.Sqrt(0.72))
	}
}

func TestStable_DirectOutside(t *testing.T) {
	// den = 1 - 1.5 z^-1 puts the pole at z = 1.5.
	m, _ := NewIIR([]float64{1}, []float64{1, -1.5}, 8000)

	stable, worst, err := m.Stable()
	if err != nil {
		t.Fatalf("Stable: %v", err)
	}
	if stable {
		t.Fatal("unstable model reported stable")
	}
	if cmplx.Abs(worst-complex(1.5, 0)) > 1e-9 {
		t.Fatalf("worst pole = %v, want 1.5", worst)
	}
}

func TestStable_OnUnitCircleIsUnstable(t *testing.T) {
	// Pole exactly on the unit circle (an integrator) is not strictly stable.
	m, _ := NewIIR([]float64{1}, []float64{1, -1}, 8000)

	stable, _, err := m.Stable()
	if err != nil {
		t.Fatalf("Stable: %v", err)
	}
	if stable {
		t.Fatal("marginally stable pole accepted")
	}
}
