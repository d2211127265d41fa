package evaluate

import (
	"fmt"
	"math/cmplx"
)

// NumericalInstabilityError reports an IIR model with a pole on or outside
// the unit circle. Evaluation aborts instead of reporting misleading
// finite metrics.
type NumericalInstabilityError struct {
	Pole complex128
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("evaluate: unstable filter: pole at %v (|p| = %.6g)",
		e.Pole, cmplx.Abs(e.Pole))
}
