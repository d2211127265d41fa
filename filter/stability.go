package filter

import (
	"math/cmplx"

	"github.com/cwbudde/algo-filterdesign/filter/biquad"
	"github.com/cwbudde/algo-filterdesign/internal/polyroot"
)

// Poles returns the z-plane poles of an IIR model. FIR models have no
// poles (all at the origin) and return nil.
func (m *Model) Poles() ([]complex128, error) {
	if m.family != FamilyIIR {
		return nil, nil
	}
	if m.structure == StructureCascade {
		return biquad.Poles(m.sections), nil
	}
	return polyroot.ZRoots(m.den)
}

// Stable reports whether every pole lies strictly inside the unit circle,
// and returns the pole of largest magnitude. FIR models are always stable.
func (m *Model) Stable() (bool, complex128, error) {
	poles, err := m.Poles()
	if err != nil {
		return false, 0, err
	}

	var worst complex128
	worstAbs := 0.0
	for _, p := range poles {
		if a := cmplx.Abs(p); a > worstAbs {
			worstAbs = a
			worst = p
		}
	}

	return worstAbs < 1, worst, nil
}
