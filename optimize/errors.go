package optimize

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-filterdesign/filter"
)

// Errors returned by the optimization techniques.
var (
	ErrNotFIR       = errors.New("optimize: technique requires an FIR model")
	ErrNotIIR       = errors.New("optimize: technique requires an IIR model")
	ErrNotSymmetric = errors.New("optimize: taps are not symmetric")
	ErrEmptyResult  = errors.New("optimize: transform left no coefficients")
)

// BudgetExceededError reports an optimization that would degrade the
// response or cost beyond the caller's budget. The transform refuses
// instead of silently degrading.
type BudgetExceededError struct {
	Technique filter.Technique

	PassbandDeltaDB float64
	StopbandDeltaDB float64
	OperationCount  int

	Budget Budget
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf(
		"optimize: %s exceeds budget (dPass=%.4g dB, dStop=%.4g dB, ops=%d)",
		e.Technique, e.PassbandDeltaDB, e.StopbandDeltaDB, e.OperationCount)
}
