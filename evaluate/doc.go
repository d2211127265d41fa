// Package evaluate measures filter models: frequency-domain conformance
// (passband deviation, stopband attenuation, group delay flatness), the
// structural operation count, and empirical execution time and memory of
// running the realized filter over a synthetic buffer.
//
// Unstable IIR models abort evaluation with *NumericalInstabilityError;
// no partial metrics are reported. The empirical timing measurement is
// the only nondeterministic step and is isolated on a locked OS thread.
package evaluate
