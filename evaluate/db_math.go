//go:build !fastmath

package evaluate

import "math"

// magDB converts a linear magnitude to dB using standard library math.
func magDB(mag float64) float64 {
	return 20 * math.Log10(mag)
}
