package design

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-filterdesign/filter"
)

const (
	// DefaultMaxFIROrder bounds the windowed/equiripple order search when
	// the spec leaves MaxOrder at zero.
	DefaultMaxFIROrder = 4096

	// DefaultMaxIIROrder bounds the prototype order when the spec leaves
	// MaxOrder at zero.
	DefaultMaxIIROrder = 40

	// verifyGridPoints is the density of the response grid used to check a
	// candidate design against the spec.
	verifyGridPoints = 1024

	// specSlackDB absorbs round-off when comparing measured figures against
	// the spec.
	specSlackDB = 1e-9
)

// Design produces a filter model satisfying the spec, or fails with
// *InfeasibleSpecError when no design within the order bound does.
// IIR models are returned in cascaded second-order-section form.
func Design(s Spec) (*filter.Model, error) {
	if s.Family == filter.FamilyIIR {
		return designIIR(s)
	}
	if s.Method == MethodEquiripple {
		return designEquiripple(s)
	}
	return designWindowed(s)
}

type responseFunc func(freqHz float64) complex128

// measureBands evaluates the worst-case passband deviation and the minimum
// stopband attenuation of a response on a dense grid over [0, Nyquist].
// Band edges are always included in the grid so narrow bands cannot fall
// between grid points.
func measureBands(s *Spec, h responseFunc) (rippleDB, attenuationDB float64) {
	attenuationDB = math.Inf(1)

	probe := func(f float64) {
		mag := cmplx.Abs(h(f))
		db := 20 * math.Log10(mag)

		if s.InPassband(f) {
			if dev := math.Abs(db); dev > rippleDB {
				rippleDB = dev
			}
		}
		if s.InStopband(f) {
			if att := -db; att < attenuationDB {
				attenuationDB = att
			}
		}
	}

	ny := s.Nyquist()
	for i := 0; i <= verifyGridPoints; i++ {
		probe(ny * float64(i) / verifyGridPoints)
	}
	for _, f := range s.PassEdges {
		probe(f)
	}
	for _, f := range s.StopEdges {
		probe(f)
	}

	return rippleDB, attenuationDB
}

// meetsSpec reports whether measured figures satisfy the spec.
func meetsSpec(s *Spec, rippleDB, attenuationDB float64) bool {
	return rippleDB <= s.RippleDB+specSlackDB &&
		attenuationDB >= s.AttenuationDB-specSlackDB
}

func (s *Spec) maxFIROrder() int {
	if s.MaxOrder > 0 {
		return s.MaxOrder
	}
	return DefaultMaxFIROrder
}

func (s *Spec) maxIIROrder() int {
	if s.MaxOrder > 0 {
		return s.MaxOrder
	}
	return DefaultMaxIIROrder
}
