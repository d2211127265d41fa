package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/window"
)

// Kind identifies the band shape of a filter.
type Kind int

const (
	Lowpass Kind = iota
	Highpass
	Bandpass
	Bandstop

	kindCount // sentinel for validation
)

var kindNames = [kindCount]string{"Lowpass", "Highpass", "Bandpass", "Bandstop"}

// String returns the name of the kind.
func (k Kind) String() string {
	if k >= 0 && k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// edgesPerBand returns how many band boundaries the kind has (one for
// low/high-pass, two for band-pass/stop). Each boundary carries one
// passband edge and one stopband edge.
func (k Kind) edgesPerBand() int {
	if k == Bandpass || k == Bandstop {
		return 2
	}
	return 1
}

// Method selects the FIR design algorithm.
type Method int

const (
	// MethodWindowed designs by truncating and windowing the ideal
	// impulse response.
	MethodWindowed Method = iota
	// MethodEquiripple designs by Remez exchange (Parks-McClellan).
	MethodEquiripple

	methodCount // sentinel for validation
)

var methodNames = [methodCount]string{"Windowed", "Equiripple"}

// String returns the name of the method.
func (m Method) String() string {
	if m >= 0 && m < methodCount {
		return methodNames[m]
	}
	return fmt.Sprintf("Method(%d)", m)
}

// Valid reports whether m is a known method.
func (m Method) Valid() bool {
	return m >= 0 && m < methodCount
}

// Prototype selects the analog prototype for IIR designs.
type Prototype int

const (
	// Butterworth is maximally flat in the passband.
	Butterworth Prototype = iota
	// ChebyshevI is equiripple in the passband, monotone in the stopband.
	ChebyshevI
	// ChebyshevII is monotone in the passband, equiripple in the stopband.
	ChebyshevII
	// Elliptic is equiripple in both bands (sharpest transition).
	Elliptic

	prototypeCount // sentinel for validation
)

var prototypeNames = [prototypeCount]string{
	"Butterworth", "ChebyshevI", "ChebyshevII", "Elliptic",
}

// String returns the name of the prototype.
func (p Prototype) String() string {
	if p >= 0 && p < prototypeCount {
		return prototypeNames[p]
	}
	return fmt.Sprintf("Prototype(%d)", p)
}

// Valid reports whether p is a known prototype.
func (p Prototype) Valid() bool {
	return p >= 0 && p < prototypeCount
}

// Request is the raw design input. Band boundaries can be given either as
// explicit passband/stopband edge pairs, or as cutoff frequencies plus a
// shared transition width (the edges are then derived, with the cutoff on
// the passband side).
type Request struct {
	Kind       Kind
	Family     filter.Family
	SampleRate float64

	// Cutoff holds the band cutoff frequencies in Hz: one for low/high-pass,
	// two (lower, upper) for band-pass/stop. Used together with TransitionHz
	// when PassbandEdges/StopbandEdges are not given.
	Cutoff       []float64
	TransitionHz float64

	// PassbandEdges and StopbandEdges give the band boundaries explicitly,
	// overriding Cutoff/TransitionHz. One edge each for low/high-pass, two
	// each for band-pass/stop.
	PassbandEdges []float64
	StopbandEdges []float64

	PassbandRippleDB      float64
	StopbandAttenuationDB float64

	// MaxOrder bounds the design search. Zero means the package default.
	MaxOrder int

	Method    Method      // FIR only
	Window    window.Type // FIR windowed method only
	Prototype Prototype   // IIR only
}

// NewRequest returns a request with the package defaults filled in:
// windowed-sinc FIR design with a Hamming window, Butterworth prototype
// for IIR.
func NewRequest(kind Kind, family filter.Family, sampleRate float64) Request {
	return Request{
		Kind:       kind,
		Family:     family,
		SampleRate: sampleRate,
		Method:     MethodWindowed,
		Window:     window.TypeHamming,
		Prototype:  Butterworth,
	}
}

// Spec is the validated, canonical design specification. PassEdges and
// StopEdges each hold one frequency per band boundary, so a lowpass spec
// has PassEdges=[fp] and StopEdges=[fs] with fp < fs, a highpass the same
// with fs < fp, and band-pass/stop two entries each.
type Spec struct {
	Kind       Kind
	Family     filter.Family
	SampleRate float64

	PassEdges []float64
	StopEdges []float64

	RippleDB      float64
	AttenuationDB float64
	MaxOrder      int

	Method    Method
	Window    window.Type
	Prototype Prototype
}

// Parse validates a request into a canonical spec. It fails with
// *InvalidSpecError on the first violated constraint and never repairs
// the request.
func Parse(req Request) (Spec, error) {
	var s Spec

	if !req.Kind.Valid() {
		return s, &InvalidSpecError{Field: "Kind", Reason: req.Kind.String()}
	}
	if !req.Family.Valid() {
		return s, &InvalidSpecError{Field: "Family", Reason: req.Family.String()}
	}
	if !(req.SampleRate > 0) || math.IsInf(req.SampleRate, 0) {
		return s, &InvalidSpecError{
			Field:  "SampleRate",
			Reason: fmt.Sprintf("must be positive and finite, got %g", req.SampleRate),
		}
	}
	if !isFiniteNonNeg(req.PassbandRippleDB) {
		return s, &InvalidSpecError{
			Field:  "PassbandRippleDB",
			Reason: fmt.Sprintf("must be non-negative and finite, got %g", req.PassbandRippleDB),
		}
	}
	if !isFiniteNonNeg(req.StopbandAttenuationDB) {
		return s, &InvalidSpecError{
			Field:  "StopbandAttenuationDB",
			Reason: fmt.Sprintf("must be non-negative and finite, got %g", req.StopbandAttenuationDB),
		}
	}
	if req.MaxOrder < 0 {
		return s, &InvalidSpecError{
			Field:  "MaxOrder",
			Reason: fmt.Sprintf("must be >= 0, got %d", req.MaxOrder),
		}
	}
	if req.Family == filter.FamilyFIR && !req.Method.Valid() {
		return s, &InvalidSpecError{Field: "Method", Reason: req.Method.String()}
	}
	if req.Family == filter.FamilyFIR && req.Method == MethodWindowed && !req.Window.Valid() {
		return s, &InvalidSpecError{Field: "Window", Reason: req.Window.String()}
	}
	if req.Family == filter.FamilyIIR {
		if !req.Prototype.Valid() {
			return s, &InvalidSpecError{Field: "Prototype", Reason: req.Prototype.String()}
		}
		if requiresRipple(req.Prototype) && req.PassbandRippleDB == 0 {
			return s, &InvalidSpecError{
				Field:  "PassbandRippleDB",
				Reason: fmt.Sprintf("%s prototype needs a positive passband ripple", req.Prototype),
			}
		}
		if req.Prototype == Elliptic && req.StopbandAttenuationDB <= req.PassbandRippleDB {
			return s, &InvalidSpecError{
				Field:  "StopbandAttenuationDB",
				Reason: "elliptic prototype needs attenuation above the passband ripple",
			}
		}
	}

	pass, stop, err := resolveEdges(req)
	if err != nil {
		return s, err
	}
	if err := checkEdges(req.Kind, pass, stop, req.SampleRate/2); err != nil {
		return s, err
	}

	return Spec{
		Kind:          req.Kind,
		Family:        req.Family,
		SampleRate:    req.SampleRate,
		PassEdges:     pass,
		StopEdges:     stop,
		RippleDB:      req.PassbandRippleDB,
		AttenuationDB: req.StopbandAttenuationDB,
		MaxOrder:      req.MaxOrder,
		Method:        req.Method,
		Window:        req.Window,
		Prototype:     req.Prototype,
	}, nil
}

func requiresRipple(p Prototype) bool {
	return p == ChebyshevI || p == Elliptic
}

func isFiniteNonNeg(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// resolveEdges derives canonical passband/stopband edges from whichever
// form the request used.
func resolveEdges(req Request) ([]float64, []float64, error) {
	n := req.Kind.edgesPerBand()

	if len(req.PassbandEdges) > 0 || len(req.StopbandEdges) > 0 {
		if len(req.PassbandEdges) != n || len(req.StopbandEdges) != n {
			return nil, nil, &InvalidSpecError{
				Field: "PassbandEdges",
				Reason: fmt.Sprintf("%s needs %d passband and %d stopband edges, got %d and %d",
					req.Kind, n, n, len(req.PassbandEdges), len(req.StopbandEdges)),
			}
		}
		return append([]float64(nil), req.PassbandEdges...),
			append([]float64(nil), req.StopbandEdges...), nil
	}

	if len(req.Cutoff) != n {
		return nil, nil, &InvalidSpecError{
			Field:  "Cutoff",
			Reason: fmt.Sprintf("%s needs %d cutoff frequencies, got %d", req.Kind, n, len(req.Cutoff)),
		}
	}
	tw := req.TransitionHz
	if !(tw > 0) || math.IsInf(tw, 0) {
		return nil, nil, &InvalidSpecError{
			Field:  "TransitionHz",
			Reason: fmt.Sprintf("must be positive and finite, got %g", tw),
		}
	}

	switch req.Kind {
	case Lowpass:
		return []float64{req.Cutoff[0]}, []float64{req.Cutoff[0] + tw}, nil
	case Highpass:
		return []float64{req.Cutoff[0]}, []float64{req.Cutoff[0] - tw}, nil
	case Bandpass:
		return []float64{req.Cutoff[0], req.Cutoff[1]},
			[]float64{req.Cutoff[0] - tw, req.Cutoff[1] + tw}, nil
	default: // Bandstop
		return []float64{req.Cutoff[0], req.Cutoff[1]},
			[]float64{req.Cutoff[0] + tw, req.Cutoff[1] - tw}, nil
	}
}

// checkEdges verifies every edge lies in (0, nyquist) and the edges are
// strictly ordered the way the kind requires.
func checkEdges(kind Kind, pass, stop []float64, nyquist float64) error {
	for _, f := range pass {
		if !(f > 0 && f < nyquist) {
			return &InvalidSpecError{
				Field:  "PassbandEdges",
				Reason: fmt.Sprintf("edge %g Hz outside (0, %g)", f, nyquist),
			}
		}
	}
	for _, f := range stop {
		if !(f > 0 && f < nyquist) {
			return &InvalidSpecError{
				Field:  "StopbandEdges",
				Reason: fmt.Sprintf("edge %g Hz outside (0, %g)", f, nyquist),
			}
		}
	}

	var ordered []float64
	switch kind {
	case Lowpass:
		ordered = []float64{pass[0], stop[0]}
	case Highpass:
		ordered = []float64{stop[0], pass[0]}
	case Bandpass:
		ordered = []float64{stop[0], pass[0], pass[1], stop[1]}
	default: // Bandstop
		ordered = []float64{pass[0], stop[0], stop[1], pass[1]}
	}
	for i := 1; i < len(ordered); i++ {
		if !(ordered[i] > ordered[i-1]) {
			return &InvalidSpecError{
				Field:  "BandEdges",
				Reason: fmt.Sprintf("edges must be strictly increasing for %s, got %v", kind, ordered),
			}
		}
	}

	return nil
}

// Nyquist returns half the sample rate.
func (s *Spec) Nyquist() float64 { return s.SampleRate / 2 }

// InPassband reports whether the frequency lies inside a passband.
func (s *Spec) InPassband(f float64) bool {
	switch s.Kind {
	case Lowpass:
		return f <= s.PassEdges[0]
	case Highpass:
		return f >= s.PassEdges[0]
	case Bandpass:
		return f >= s.PassEdges[0] && f <= s.PassEdges[1]
	default: // Bandstop
		return f <= s.PassEdges[0] || f >= s.PassEdges[1]
	}
}

// InStopband reports whether the frequency lies inside a stopband.
func (s *Spec) InStopband(f float64) bool {
	switch s.Kind {
	case Lowpass:
		return f >= s.StopEdges[0]
	case Highpass:
		return f <= s.StopEdges[0]
	case Bandpass:
		return f <= s.StopEdges[0] || f >= s.StopEdges[1]
	default: // Bandstop
		return f >= s.StopEdges[0] && f <= s.StopEdges[1]
	}
}

// TransitionWidth returns the narrowest transition band in Hz.
func (s *Spec) TransitionWidth() float64 {
	w := math.Abs(s.StopEdges[0] - s.PassEdges[0])
	if len(s.PassEdges) == 2 {
		if w2 := math.Abs(s.StopEdges[1] - s.PassEdges[1]); w2 < w {
			w = w2
		}
	}
	return w
}
