//go:build fastmath

package evaluate

import "github.com/meko-christian/algo-approx"

// ln10 is the natural logarithm of 10, used for log base conversion.
const ln10 = 2.302585092994045684017991454684

// magDB converts a linear magnitude to dB using fast approximation.
// Uses the identity: log10(x) = ln(x) / ln(10)
func magDB(mag float64) float64 {
	return 20 * approx.FastLog(mag) / ln10
}
