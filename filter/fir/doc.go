// Package fir implements direct-form FIR filtering plus the two reduced-cost
// realizations produced by the optimizer: a folded form that exploits
// linear-phase coefficient symmetry, and a multiplierless shift-add form
// whose coefficients are sums of signed powers of two.
package fir
