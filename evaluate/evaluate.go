package evaluate

import (
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-filterdesign/design"
	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

// Option configures an evaluation.
type Option func(*config)

type config struct {
	gridPoints int
	trials     int
	bufferSize int
}

func defaultConfig() config {
	return config{
		gridPoints: 1024,
		trials:     9,
		bufferSize: 8192,
	}
}

// WithGridPoints sets the frequency grid density.
func WithGridPoints(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.gridPoints = n
		}
	}
}

// WithTrials sets the number of timing trials (the median is reported).
// Zero disables the empirical timing and memory measurement.
func WithTrials(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.trials = n
		}
	}
}

// WithBufferSize sets the synthetic input buffer length for timing runs.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}

// Evaluate measures a model against the spec's bands. When reference is
// non-nil it is evaluated the same way and the metric deltas are reported
// in Metrics.Relative. A nil spec skips the band conformance metrics.
func Evaluate(m, reference *filter.Model, spec *design.Spec, opts ...Option) (Metrics, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	metrics, err := evaluateOne(m, spec, &cfg)
	if err != nil {
		return Metrics{}, err
	}

	if reference != nil {
		ref, err := evaluateOne(reference, spec, &cfg)
		if err != nil {
			return Metrics{}, err
		}
		metrics.Relative = &Degradation{
			ExecutionTime:          metrics.ExecutionTime - ref.ExecutionTime,
			PeakMemoryBytes:        metrics.PeakMemoryBytes - ref.PeakMemoryBytes,
			OperationCount:         metrics.OperationCount - ref.OperationCount,
			PassbandDeviationDB:    metrics.MaxPassbandDeviationDB - ref.MaxPassbandDeviationDB,
			StopbandAttenuationDB:  metrics.MinStopbandAttenuationDB - ref.MinStopbandAttenuationDB,
			GroupDelayErrorSamples: metrics.MaxGroupDelayErrorSamples - ref.MaxGroupDelayErrorSamples,
		}
	}

	return metrics, nil
}

func evaluateOne(m *filter.Model, spec *design.Spec, cfg *config) (Metrics, error) {
	stable, worst, err := m.Stable()
	if err != nil {
		return Metrics{}, err
	}
	if !stable {
		return Metrics{}, &NumericalInstabilityError{Pole: worst}
	}

	var metrics Metrics
	metrics.OperationCount = m.OperationCount()

	if spec != nil {
		ripple, att := bandMetrics(m, spec, cfg.gridPoints)
		metrics.MaxPassbandDeviationDB = ripple
		metrics.MinStopbandAttenuationDB = att
		metrics.MaxGroupDelayErrorSamples = groupDelayError(m, spec, cfg.gridPoints)
	}

	if cfg.trials > 0 {
		elapsed, allocBytes := measureRuntime(m, cfg.bufferSize, cfg.trials)
		metrics.ExecutionTime = elapsed
		metrics.PeakMemoryBytes = m.StateBytes() + allocBytes
	} else {
		metrics.PeakMemoryBytes = m.StateBytes()
	}

	return metrics, nil
}

// bandMetrics measures passband deviation and stopband attenuation over a
// dense grid. FIR magnitudes come from one zero-padded FFT of the taps;
// IIR magnitudes from the closed-form cascade response. Band edges are
// probed exactly on top of the grid.
func bandMetrics(m *filter.Model, spec *design.Spec, gridPoints int) (rippleDB, attenuationDB float64) {
	attenuationDB = math.Inf(1)

	accum := func(f, mag float64) {
		db := magDB(mag)
		if spec.InPassband(f) {
			if dev := math.Abs(db); dev > rippleDB {
				rippleDB = dev
			}
		}
		if spec.InStopband(f) {
			if att := -db; att < attenuationDB {
				attenuationDB = att
			}
		}
	}

	if m.Family() == filter.FamilyFIR {
		freqs, mags := firMagnitudeGrid(m.Taps(), m.SampleRate(), gridPoints)
		for i, f := range freqs {
			accum(f, mags[i])
		}
	} else {
		ny := m.SampleRate() / 2
		for i := 0; i <= gridPoints; i++ {
			f := ny * float64(i) / float64(gridPoints)
			accum(f, cmplx.Abs(m.Response(f)))
		}
	}

	for _, f := range spec.PassEdges {
		accum(f, cmplx.Abs(m.Response(f)))
	}
	for _, f := range spec.StopEdges {
		accum(f, cmplx.Abs(m.Response(f)))
	}

	return rippleDB, attenuationDB
}

// firMagnitudeGrid evaluates the FIR magnitude response at gridPoints+1
// frequencies in [0, Nyquist] via one zero-padded forward FFT.
func firMagnitudeGrid(taps []float64, sampleRate float64, gridPoints int) ([]float64, []float64) {
	fftSize := nextPow2(2 * gridPoints)
	if need := nextPow2(2 * len(taps)); need > fftSize {
		fftSize = need
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return firMagnitudeGridDirect(taps, sampleRate, gridPoints)
	}

	in := make([]complex128, fftSize)
	for i, c := range taps {
		in[i] = complex(c, 0)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, in); err != nil {
		return firMagnitudeGridDirect(taps, sampleRate, gridPoints)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := range bins {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}

	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	freqs := make([]float64, bins)
	for i := range freqs {
		freqs[i] = sampleRate * float64(i) / float64(fftSize)
	}

	return freqs, mags
}

// firMagnitudeGridDirect is the non-FFT fallback for plan sizes the FFT
// backend rejects.
func firMagnitudeGridDirect(taps []float64, sampleRate float64, gridPoints int) ([]float64, []float64) {
	ny := sampleRate / 2
	freqs := make([]float64, gridPoints+1)
	mags := make([]float64, gridPoints+1)
	for i := range freqs {
		f := ny * float64(i) / float64(gridPoints)
		freqs[i] = f
		mags[i] = cmplx.Abs(fir.Response(taps, f, sampleRate))
	}
	return freqs, mags
}

func nextPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

// groupDelayError measures the worst deviation of the passband group
// delay from a constant. Symmetric FIR filters are exactly linear phase,
// so their error is analytically zero; everything else is measured by
// phase differentiation over each contiguous passband run.
func groupDelayError(m *filter.Model, spec *design.Spec, gridPoints int) float64 {
	if m.Family() == filter.FamilyFIR && fir.IsSymmetric(m.Taps(), 1e-9) {
		return 0
	}

	ny := m.SampleRate() / 2
	df := ny / float64(gridPoints)
	dw := 2 * math.Pi * df / m.SampleRate()

	var delays []float64
	prevPhase := math.NaN()

	for i := 0; i <= gridPoints; i++ {
		f := df * float64(i)
		if !spec.InPassband(f) {
			prevPhase = math.NaN()
			continue
		}

		phase := cmplx.Phase(m.Response(f))
		if !math.IsNaN(prevPhase) {
			dphi := phase - prevPhase
			// Unwrap across the principal value seam.
			for dphi > math.Pi {
				dphi -= 2 * math.Pi
			}
			for dphi < -math.Pi {
				dphi += 2 * math.Pi
			}
			delays = append(delays, -dphi/dw)
		}
		prevPhase = phase
	}

	if len(delays) == 0 {
		return 0
	}

	// The constant delay minimizing the worst error is the midrange, so
	// the error is half the spread.
	lo, hi := delays[0], delays[0]
	for _, d := range delays[1:] {
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	return (hi - lo) / 2
}
