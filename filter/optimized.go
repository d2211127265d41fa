package filter

import "fmt"

// Optimized is the result of applying an optimization technique to a
// designed model. It carries the transformed model, the technique that
// produced it, the un-optimized reference, and the realized figures the
// optimizer measured while transforming.
type Optimized struct {
	Model     *Model
	Technique Technique

	// Reference is the model the optimization started from.
	Reference *Model

	// PassbandDeltaDB and StopbandDeltaDB are the worst-case magnitude
	// response changes relative to the reference, measured on a dense
	// frequency grid. Zero for lossless techniques.
	PassbandDeltaDB float64
	StopbandDeltaDB float64

	// OperationCount is the per-sample cost of the transformed model.
	OperationCount int
}

func (o *Optimized) String() string {
	return fmt.Sprintf("%s(%s) ops=%d dPass=%.4gdB dStop=%.4gdB",
		o.Technique, o.Model, o.OperationCount, o.PassbandDeltaDB, o.StopbandDeltaDB)
}
