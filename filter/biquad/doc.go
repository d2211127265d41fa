// Package biquad implements second-order IIR filter sections and cascades.
//
// A biquad realizes the transfer function
//
//	H(z) = (B0 + B1*z^-1 + B2*z^-2) / (1 + A1*z^-1 + A2*z^-2)
//
// using Direct Form II Transposed. Higher-order filters are built as a
// [Chain] of sections, which keeps coefficient sensitivity low and makes
// per-section stability easy to verify from the pole locations.
package biquad
