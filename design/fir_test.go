package design

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
	"github.com/cwbudde/algo-filterdesign/internal/testutil"
	"github.com/cwbudde/algo-filterdesign/window"
)

func lowpassFIRSpec(t *testing.T) Spec {
	t.Helper()

	req := NewRequest(Lowpass, filter.FamilyFIR, 8000)
	req.Cutoff = []float64{1000}
	req.TransitionHz = 500
	req.PassbandRippleDB = 1
	req.StopbandAttenuationDB = 40

	s, err := Parse(req)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestDesignWindowed_Lowpass(t *testing.T) {
	s := lowpassFIRSpec(t)

	m, err := Design(s)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}

	if m.Family() != filter.FamilyFIR {
		t.Fatalf("family = %s, want FIR", m.Family())
	}

	taps := m.Taps()
	testutil.RequireFinite(t, taps)
	if len(taps)%2 != 1 {
		t.Fatalf("tap count = %d, want odd", len(taps))
	}
	if !fir.IsSymmetric(taps, 1e-12) {
		t.Fatal("windowed design lost linear phase")
	}

	ripple, att := measureBands(&s, m.Response)
	if ripple > s.RippleDB+specSlackDB {
		t.Fatalf("passband ripple %.4f dB exceeds %.4f dB", ripple, s.RippleDB)
	}
	if att < s.AttenuationDB-specSlackDB {
		t.Fatalf("stopband attenuation %.2f dB below %.2f dB", att, s.AttenuationDB)
	}
}

func TestDesignWindowed_HighpassNyquistGain(t *testing.T) {
	req := NewRequest(Highpass, filter.FamilyFIR, 8000)
	req.Cutoff = []float64{2000}
	req.TransitionHz = 500
	req.PassbandRippleDB = 1
	req.StopbandAttenuationDB = 40

	s, err := Parse(req)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	m, err := Design(s)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}

	gain := cmplx.Abs(m.Response(4000))
	if db := 20 * math.Log10(gain); math.Abs(db) > s.RippleDB {
		t.Fatalf("|H(Nyquist)| = %.4f dB, want within +-%.1f dB", db, s.RippleDB)
	}
	if att := -20 * math.Log10(cmplx.Abs(m.Response(500))); att < s.AttenuationDB {
		t.Fatalf("deep stopband attenuation %.1f dB below spec", att)
	}
}

func TestDesignWindowed_Bandpass(t *testing.T) {
	req := NewRequest(Bandpass, filter.FamilyFIR, 48000)
	req.Cutoff = []float64{3000, 9000}
	req.TransitionHz = 1000
	req.PassbandRippleDB = 1
	req.StopbandAttenuationDB = 40
	req.Window = window.TypeKaiser

	s, err := Parse(req)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	m, err := Design(s)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}

	ripple, att := measureBands(&s, m.Response)
	if !meetsSpec(&s, ripple, att) {
		t.Fatalf("design misses spec: ripple %.4f dB, attenuation %.2f dB", ripple, att)
	}
}

func TestDesignWindowed_InfeasibleOrder(t *testing.T) {
	s := lowpassFIRSpec(t)
	s.MaxOrder = 10

	_, err := Design(s)

	var infErr *InfeasibleSpecError
	if !errors.As(err, &infErr) {
		t.Fatalf("err = %v, want *InfeasibleSpecError", err)
	}
	if infErr.MaxOrder != 10 {
		t.Fatalf("MaxOrder = %d, want 10", infErr.MaxOrder)
	}
	if infErr.AchievedAttenuationDB >= 40 {
		t.Fatalf("achieved attenuation %.1f dB should fall short of 40 dB",
			infErr.AchievedAttenuationDB)
	}
}

func TestEstimateWindowedLength_OddAndMonotone(t *testing.T) {
	s := lowpassFIRSpec(t)

	n1 := estimateWindowedLength(&s)
	if n1%2 != 1 {
		t.Fatalf("estimate %d not odd", n1)
	}

	// A tighter attenuation must never shorten the estimate.
	s.AttenuationDB = 80
	if n2 := estimateWindowedLength(&s); n2 < n1 {
		t.Fatalf("estimate shrank with tighter spec: %d -> %d", n1, n2)
	}
}

func TestIdealLowpass_DCGain(t *testing.T) {
	taps := idealLowpass(1000, 8000, 101)
	window.Apply(window.TypeRectangular, taps)

	sum := 0.0
	for _, c := range taps {
		sum += c
	}
	// The truncated sinc sums close to unity DC gain.
	if math.Abs(sum-1) > 0.05 {
		t.Fatalf("DC gain = %v, want about 1", sum)
	}
}

func TestSpectralInvert(t *testing.T) {
	taps := []float64{0.1, 0.2, 0.4, 0.2, 0.1}
	inv := spectralInvert(append([]float64(nil), taps...))

	// Lowpass and its inversion must sum to a pure delay: delta at center.
	for i := range taps {
		sum := taps[i] + inv[i]
		want := 0.0
		if i == 2 {
			want = 1
		}
		if math.Abs(sum-want) > 1e-12 {
			t.Fatalf("index %d: lp+hp = %v, want %v", i, sum, want)
		}
	}
}
