// Package ellipticmath provides the Landen/Jacobi elliptic function
// machinery behind the elliptic (Cauer) analog prototype.
package ellipticmath

import (
	"math"
	"math/cmplx"
)

// Landen computes the descending Landen sequence of moduli for k. A tol
// below 1 is a convergence threshold on the modulus; a tol of 1 or more
// is a fixed iteration count.
func Landen(k, tol float64) []float64 {
	if k == 0 || k == 1 {
		return []float64{k}
	}

	step := func() float64 {
		t := k / (1 + math.Sqrt((1-k)*(1+k)))
		return t * t
	}

	var v []float64
	if tol < 1 {
		for k > tol {
			k = step()
			v = append(v, k)
		}
		return v
	}

	for range int(tol) {
		k = step()
		v = append(v, k)
	}
	return v
}

// LandenK evaluates K(k) = (pi/2) * prod(1 + v[i]) over a Landen
// sequence.
func LandenK(v []float64) float64 {
	prod := 1.0
	for _, x := range v {
		prod *= 1 + x
	}
	return prod * math.Pi / 2
}

// EllipK computes the complete elliptic integrals K(k) and K'(k). Moduli
// within 1e-6 of either endpoint switch to the logarithmic series, where
// the Landen product loses accuracy.
func EllipK(k, tol float64) (float64, float64) {
	const kmin = 1e-6
	kmax := math.Sqrt(1 - kmin*kmin)

	var K float64
	switch {
	case k == 1:
		K = math.Inf(1)
	case k > kmax:
		kp := math.Sqrt((1 - k) * (1 + k))
		L := -math.Log(kp / 4)
		K = L + (L-1)*kp*kp/4
	default:
		K = LandenK(Landen(k, tol))
	}

	var Kp float64
	switch {
	case k == 0:
		Kp = math.Inf(1)
	case k < kmin:
		L := -math.Log(k / 4)
		Kp = L + (L-1)*k*k/4
	default:
		kp := math.Sqrt((1 - k) * (1 + k))
		Kp = LandenK(Landen(kp, tol))
	}

	return K, Kp
}

// CDE computes the Jacobi cd function at a complex argument (in units of
// K(k)) by ascending back through the Landen sequence.
func CDE(u complex128, k, tol float64) complex128 {
	v := Landen(k, tol)

	w := cmplx.Cos(u * math.Pi / 2)
	for i := len(v) - 1; i >= 0; i-- {
		vi := complex(v[i], 0)
		w = (1 + vi) * w / (1 + vi*w*w)
	}
	return w
}

// SNE computes the Jacobi sn function for a slice of real arguments (in
// units of K(k)).
func SNE(u []float64, k, tol float64) []float64 {
	v := Landen(k, tol)

	w := make([]float64, len(u))
	for i, x := range u {
		w[i] = math.Sin(x * math.Pi / 2)
	}
	for i := len(v) - 1; i >= 0; i-- {
		for j, x := range w {
			w[j] = (1 + v[i]) * x / (1 + v[i]*x*x)
		}
	}
	return w
}
