// Command filterinfo designs a filter, optionally applies an optimization
// technique, and tabulates the evaluation metrics of both.
//
// Usage:
//
//	filterinfo [flags]
//
// Examples:
//
//	filterinfo -kind lowpass -family fir -rate 8000 -cutoff 1000 -transition 500 -ripple 1 -atten 40
//	filterinfo -kind lowpass -family fir -rate 8000 -cutoff 1000 -transition 500 -atten 60 -optimize symmetry
//	filterinfo -kind bandpass -family iir -prototype elliptic -rate 48000 -cutoff 2000,6000 -transition 400 -ripple 0.5 -atten 60
//	filterinfo -kind lowpass -family fir -rate 8000 -cutoff 1000 -transition 500 -atten 40 -optimize quantize -bits 8
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-filterdesign/design"
	"github.com/cwbudde/algo-filterdesign/evaluate"
	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/optimize"
	"github.com/cwbudde/algo-filterdesign/window"
)

var kinds = map[string]design.Kind{
	"lowpass":  design.Lowpass,
	"highpass": design.Highpass,
	"bandpass": design.Bandpass,
	"bandstop": design.Bandstop,
}

var families = map[string]filter.Family{
	"fir": filter.FamilyFIR,
	"iir": filter.FamilyIIR,
}

var methods = map[string]design.Method{
	"windowed":   design.MethodWindowed,
	"equiripple": design.MethodEquiripple,
}

var windows = map[string]window.Type{
	"rectangular": window.TypeRectangular,
	"hann":        window.TypeHann,
	"hamming":     window.TypeHamming,
	"blackman":    window.TypeBlackman,
	"kaiser":      window.TypeKaiser,
}

var prototypes = map[string]design.Prototype{
	"butterworth": design.Butterworth,
	"cheby1":      design.ChebyshevI,
	"cheby2":      design.ChebyshevII,
	"elliptic":    design.Elliptic,
}

var techniques = map[string]filter.Technique{
	"symmetry":       filter.TechniqueSymmetry,
	"quantize":       filter.TechniqueQuantize,
	"cascade":        filter.TechniqueBiquadCascade,
	"multiplierless": filter.TechniqueMultiplierless,
	"prune":          filter.TechniquePrune,
}

func main() {
	kindName := flag.String("kind", "lowpass", "filter kind: lowpass, highpass, bandpass, bandstop")
	familyName := flag.String("family", "fir", "filter family: fir, iir")
	rate := flag.Float64("rate", 48000, "sample rate in Hz")
	cutoff := flag.String("cutoff", "", "cutoff frequencies in Hz (comma separated for band filters)")
	transition := flag.Float64("transition", 0, "transition band width in Hz")
	ripple := flag.Float64("ripple", 0.5, "passband ripple in dB")
	atten := flag.Float64("atten", 60, "stopband attenuation in dB")
	maxOrder := flag.Int("maxorder", 0, "order bound (0 = package default)")
	methodName := flag.String("method", "windowed", "FIR method: windowed, equiripple")
	windowName := flag.String("window", "hamming", "window for the windowed method")
	protoName := flag.String("prototype", "butterworth", "IIR prototype: butterworth, cheby1, cheby2, elliptic")

	techName := flag.String("optimize", "", "optimization technique: symmetry, quantize, cascade, multiplierless, prune (comma separated for a composite)")
	bits := flag.Int("bits", 16, "fixed-point word width for quantize")
	terms := flag.Int("terms", 3, "max signed power-of-two terms per tap for multiplierless")
	threshold := flag.Float64("threshold", 1e-4, "relative tap threshold for prune")
	budgetPass := flag.Float64("budget-pass", 0, "max added passband deviation in dB (0 = unbounded)")
	budgetStop := flag.Float64("budget-stop", 0, "max added stopband deviation in dB (0 = unbounded)")

	trials := flag.Int("trials", 9, "timing trials (median reported, 0 disables timing)")
	buffer := flag.Int("buffer", 8192, "timing buffer length in samples")
	flag.Parse()

	spec, err := parseSpec(*kindName, *familyName, *rate, *cutoff, *transition,
		*ripple, *atten, *maxOrder, *methodName, *windowName, *protoName)
	if err != nil {
		fatal(err)
	}

	model, err := design.Design(spec)
	if err != nil {
		fatal(err)
	}

	evalOpts := []evaluate.Option{
		evaluate.WithTrials(*trials),
		evaluate.WithBufferSize(*buffer),
	}

	optimized := pickOptimized(model, &spec, *techName, *bits, *terms, *threshold, *budgetPass, *budgetStop)
	if optimized == nil {
		metrics, err := evaluate.Evaluate(model, nil, &spec, evalOpts...)
		if err != nil {
			fatal(err)
		}
		printSingle(model, metrics)
		return
	}

	metrics, err := evaluate.Evaluate(optimized.Model, model, &spec, evalOpts...)
	if err != nil {
		fatal(err)
	}
	printComparison(model, optimized, metrics)
}

func parseSpec(kindName, familyName string, rate float64, cutoff string, transition,
	ripple, atten float64, maxOrder int, methodName, windowName, protoName string,
) (design.Spec, error) {
	kind, ok := kinds[kindName]
	if !ok {
		return design.Spec{}, fmt.Errorf("unknown kind %q", kindName)
	}
	family, ok := families[familyName]
	if !ok {
		return design.Spec{}, fmt.Errorf("unknown family %q", familyName)
	}
	method, ok := methods[methodName]
	if !ok {
		return design.Spec{}, fmt.Errorf("unknown method %q", methodName)
	}
	win, ok := windows[windowName]
	if !ok {
		return design.Spec{}, fmt.Errorf("unknown window %q", windowName)
	}
	proto, ok := prototypes[protoName]
	if !ok {
		return design.Spec{}, fmt.Errorf("unknown prototype %q", protoName)
	}

	var freqs []float64
	for _, part := range strings.Split(cutoff, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return design.Spec{}, fmt.Errorf("bad cutoff %q: %w", part, err)
		}
		freqs = append(freqs, f)
	}

	req := design.NewRequest(kind, family, rate)
	req.Cutoff = freqs
	req.TransitionHz = transition
	req.PassbandRippleDB = ripple
	req.StopbandAttenuationDB = atten
	req.MaxOrder = maxOrder
	req.Method = method
	req.Window = win
	req.Prototype = proto

	return design.Parse(req)
}

func pickOptimized(model *filter.Model, spec *design.Spec, techName string,
	bits, terms int, threshold, budgetPass, budgetStop float64,
) *filter.Optimized {
	if techName == "" {
		return nil
	}

	budget := optimize.Budget{
		Spec:               spec,
		MaxPassbandDeltaDB: budgetPass,
		MaxStopbandDeltaDB: budgetStop,
	}
	opts := []optimize.Option{
		optimize.WithBits(bits),
		optimize.WithMaxTerms(terms),
		optimize.WithPruneThreshold(threshold),
	}

	names := strings.Split(techName, ",")
	var steps []filter.Technique
	for _, name := range names {
		t, ok := techniques[strings.TrimSpace(name)]
		if !ok {
			fatal(fmt.Errorf("unknown technique %q", name))
		}
		steps = append(steps, t)
	}

	var (
		opt *filter.Optimized
		err error
	)
	if len(steps) == 1 {
		opt, err = optimize.Apply(model, steps[0], budget, opts...)
	} else {
		opt, err = optimize.Composite(model, steps, budget, opts...)
	}
	if err != nil {
		fatal(err)
	}
	return opt
}

func printSingle(model *filter.Model, m evaluate.Metrics) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "model\t%s\n", model)
	fmt.Fprintf(w, "operations/sample\t%d\n", m.OperationCount)
	fmt.Fprintf(w, "state memory\t%d B\n", m.PeakMemoryBytes)
	fmt.Fprintf(w, "passband deviation\t%.4f dB\n", m.MaxPassbandDeviationDB)
	fmt.Fprintf(w, "stopband attenuation\t%.2f dB\n", m.MinStopbandAttenuationDB)
	fmt.Fprintf(w, "group delay error\t%.4f samples\n", m.MaxGroupDelayErrorSamples)
	if m.ExecutionTime > 0 {
		fmt.Fprintf(w, "execution time\t%s\n", m.ExecutionTime)
	}
	w.Flush()
}

func printComparison(ref *filter.Model, opt *filter.Optimized, m evaluate.Metrics) {
	d := m.Relative

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "\treference\toptimized (%s)\tdelta\n", opt.Technique)
	fmt.Fprintf(w, "model\t%s\t%s\t\n", ref, opt.Model)
	fmt.Fprintf(w, "operations/sample\t%d\t%d\t%+d\n",
		m.OperationCount-d.OperationCount, m.OperationCount, d.OperationCount)
	fmt.Fprintf(w, "state memory\t%d B\t%d B\t%+d B\n",
		m.PeakMemoryBytes-d.PeakMemoryBytes, m.PeakMemoryBytes, d.PeakMemoryBytes)
	fmt.Fprintf(w, "passband deviation\t%.4f dB\t%.4f dB\t%+.4f dB\n",
		m.MaxPassbandDeviationDB-d.PassbandDeviationDB, m.MaxPassbandDeviationDB, d.PassbandDeviationDB)
	fmt.Fprintf(w, "stopband attenuation\t%.2f dB\t%.2f dB\t%+.2f dB\n",
		m.MinStopbandAttenuationDB-d.StopbandAttenuationDB, m.MinStopbandAttenuationDB, d.StopbandAttenuationDB)
	fmt.Fprintf(w, "group delay error\t%.4f\t%.4f\t%+.4f\n",
		m.MaxGroupDelayErrorSamples-d.GroupDelayErrorSamples, m.MaxGroupDelayErrorSamples, d.GroupDelayErrorSamples)
	if m.ExecutionTime > 0 {
		fmt.Fprintf(w, "execution time\t%s\t%s\t%s\n",
			m.ExecutionTime-d.ExecutionTime, m.ExecutionTime, d.ExecutionTime)
	}
	w.Flush()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
