package evaluate

import "time"

// Metrics is the complete evaluation result for one model.
type Metrics struct {
	// ExecutionTime is the median wall time of filtering the synthetic
	// buffer once. Zero when timing is disabled.
	ExecutionTime time.Duration

	// PeakMemoryBytes is the realized filter's state footprint plus the
	// allocation delta observed while realizing it.
	PeakMemoryBytes int

	// OperationCount is the per-sample multiply+add cost implied by the
	// model's structure.
	OperationCount int

	MaxPassbandDeviationDB    float64
	MinStopbandAttenuationDB  float64
	MaxGroupDelayErrorSamples float64

	// Relative compares against the reference model when one was given.
	Relative *Degradation
}

// Degradation is the metric delta of a model against its reference
// (model minus reference; positive means worse for every field except
// stopband attenuation, where negative means worse).
type Degradation struct {
	ExecutionTime   time.Duration
	PeakMemoryBytes int
	OperationCount  int

	PassbandDeviationDB    float64
	StopbandAttenuationDB  float64
	GroupDelayErrorSamples float64
}
