// Package optimize transforms designed filter models into cheaper
// equivalents: symmetry folding, fixed-point coefficient quantization,
// biquad cascade factorization, multiplierless (shift-add) approximation
// and tap pruning.
//
// Lossy techniques measure the response deviation they introduce against
// the input model; every technique, the lossless ones included, refuses
// with *BudgetExceededError rather than exceed the caller's [Budget].
// Inputs are never mutated; every technique returns a new
// [filter.Optimized] carrying the transformed model, its provenance and
// the realized figures.
package optimize
