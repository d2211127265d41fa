package design

import (
	"math"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
	"github.com/cwbudde/algo-filterdesign/window"
)

// designWindowed designs an FIR filter by truncating the ideal impulse
// response and applying the spec's window. The length starts at the Kaiser
// estimate and grows in steps of two (lengths stay odd so highpass and
// bandstop spectral inversion is exact) until the measured response meets
// the spec or the order bound is hit.
func designWindowed(s Spec) (*filter.Model, error) {
	maxOrder := s.maxFIROrder()

	length := estimateWindowedLength(&s)
	if length-1 > maxOrder {
		length = oddCap(maxOrder + 1)
	}

	for {
		taps := windowedTaps(&s, length)
		ripple, att := measureBands(&s, func(f float64) complex128 {
			return fir.Response(taps, f, s.SampleRate)
		})

		if meetsSpec(&s, ripple, att) {
			return filter.NewFIR(taps, s.SampleRate)
		}
		if length+2-1 > maxOrder {
			return nil, &InfeasibleSpecError{
				MaxOrder:              maxOrder,
				AchievedRippleDB:      ripple,
				AchievedAttenuationDB: att,
			}
		}
		length += 2
	}
}

// estimateWindowedLength returns the Kaiser length estimate for the spec's
// attenuation and transition width, forced odd.
func estimateWindowedLength(s *Spec) int {
	dw := 2 * math.Pi * s.TransitionWidth() / s.SampleRate
	a := s.AttenuationDB

	n := (a - 7.95) / (2.285 * dw)
	if a <= 21 {
		n = 5.79 / dw
	}

	length := int(math.Ceil(n)) + 1
	if length < 3 {
		length = 3
	}
	if length%2 == 0 {
		length++
	}
	return length
}

func oddCap(length int) int {
	if length < 3 {
		return 3
	}
	if length%2 == 0 {
		return length - 1
	}
	return length
}

// windowedTaps builds the windowed ideal impulse response for the spec at
// the given odd length. Band cutoffs sit in the middle of each transition
// band.
func windowedTaps(s *Spec, length int) []float64 {
	var taps []float64

	switch s.Kind {
	case Lowpass:
		fc := (s.PassEdges[0] + s.StopEdges[0]) / 2
		taps = idealLowpass(fc, s.SampleRate, length)
	case Highpass:
		fc := (s.StopEdges[0] + s.PassEdges[0]) / 2
		taps = spectralInvert(idealLowpass(fc, s.SampleRate, length))
	case Bandpass:
		lo := (s.StopEdges[0] + s.PassEdges[0]) / 2
		hi := (s.PassEdges[1] + s.StopEdges[1]) / 2
		taps = subtractTaps(
			idealLowpass(hi, s.SampleRate, length),
			idealLowpass(lo, s.SampleRate, length))
	default: // Bandstop
		lo := (s.PassEdges[0] + s.StopEdges[0]) / 2
		hi := (s.StopEdges[1] + s.PassEdges[1]) / 2
		taps = spectralInvert(subtractTaps(
			idealLowpass(hi, s.SampleRate, length),
			idealLowpass(lo, s.SampleRate, length)))
	}

	applyWindow(s, taps)

	return taps
}

// idealLowpass returns the truncated ideal lowpass impulse response
// centered on the middle tap.
func idealLowpass(fc, sampleRate float64, length int) []float64 {
	ratio := 2 * fc / sampleRate
	mid := float64(length-1) / 2

	taps := make([]float64, length)
	for k := range taps {
		taps[k] = ratio * sinc(ratio*(float64(k)-mid))
	}
	return taps
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// spectralInvert turns a lowpass response into its complement
// (delta minus the response). Exact only for odd lengths.
func spectralInvert(taps []float64) []float64 {
	for i := range taps {
		taps[i] = -taps[i]
	}
	taps[(len(taps)-1)/2]++
	return taps
}

func subtractTaps(a, b []float64) []float64 {
	for i := range a {
		a[i] -= b[i]
	}
	return a
}

// applyWindow multiplies the taps by the spec's window in place. Kaiser
// gets its shape parameter from the spec's stopband attenuation.
func applyWindow(s *Spec, taps []float64) {
	opts := []window.Option(nil)
	if s.Window == window.TypeKaiser {
		opts = append(opts, window.WithBeta(window.KaiserBeta(s.AttenuationDB)))
	}
	window.Apply(s.Window, taps, opts...)
}
