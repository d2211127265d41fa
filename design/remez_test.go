package design

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

func equirippleSpec(t *testing.T, kind Kind) Spec {
	t.Helper()

	req := NewRequest(kind, filter.FamilyFIR, 8000)
	req.Method = MethodEquiripple
	req.PassbandRippleDB = 1
	req.StopbandAttenuationDB = 40
	req.TransitionHz = 500
	switch kind {
	case Lowpass, Highpass:
		req.Cutoff = []float64{1000}
	default:
		req.Cutoff = []float64{1000, 2500}
	}
	if kind == Highpass {
		req.Cutoff = []float64{2000}
	}

	s, err := Parse(req)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestDesignEquiripple_Lowpass(t *testing.T) {
	s := equirippleSpec(t, Lowpass)

	m, err := Design(s)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}

	taps := m.Taps()
	if len(taps)%2 != 1 {
		t.Fatalf("tap count = %d, want odd", len(taps))
	}
	if !fir.IsSymmetric(taps, 1e-9) {
		t.Fatal("equiripple design lost linear phase")
	}

	ripple, att := measureBands(&s, m.Response)
	if !meetsSpec(&s, ripple, att) {
		t.Fatalf("design misses spec: ripple %.4f dB, attenuation %.2f dB", ripple, att)
	}
}

func TestDesignEquiripple_InfeasibleOrder(t *testing.T) {
	s := equirippleSpec(t, Lowpass)
	s.MaxOrder = 6

	_, err := Design(s)

	var infErr *InfeasibleSpecError
	if !errors.As(err, &infErr) {
		t.Fatalf("err = %v, want *InfeasibleSpecError", err)
	}
	if infErr.MaxOrder != 6 {
		t.Fatalf("MaxOrder = %d, want 6", infErr.MaxOrder)
	}
}

func TestDesignEquiripple_Highpass(t *testing.T) {
	s := equirippleSpec(t, Highpass)

	m, err := Design(s)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}

	ripple, att := measureBands(&s, m.Response)
	if !meetsSpec(&s, ripple, att) {
		t.Fatalf("design misses spec: ripple %.4f dB, attenuation %.2f dB", ripple, att)
	}
}

func TestBandDeltas(t *testing.T) {
	// 1 dB ripple: delta_p = (r-1)/(r+1) with r = 10^(1/20).
	s := Spec{RippleDB: 1, AttenuationDB: 40}
	dp, ds := bandDeltas(&s)
	if dp <= 0 || dp >= 0.06 {
		t.Fatalf("passband delta = %v, want about 0.0575", dp)
	}
	if ds <= 0.0099 || ds >= 0.0101 {
		t.Fatalf("stopband delta = %v, want 0.01", ds)
	}

	// Both unspecified falls back to a nominal tolerance.
	var zero Spec
	dp0, ds0 := bandDeltas(&zero)
	if dp0 != 0.01 || ds0 != 0.01 {
		t.Fatalf("default deltas = %v, %v, want 0.01, 0.01", dp0, ds0)
	}
}

func TestEstimateEquirippleLength_GrowsWithTightSpec(t *testing.T) {
	loose := equirippleSpec(t, Lowpass)

	tight := loose
	tight.AttenuationDB = 80

	if estimateEquirippleLength(&tight) < estimateEquirippleLength(&loose) {
		t.Fatal("length estimate shrank with tighter attenuation")
	}
}
