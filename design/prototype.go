package design

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-filterdesign/internal/ellipticmath"
)

const (
	ellipticTol       = 2.2e-16
	ellipticEpsilon   = 2.220446049250313e-16
	arcJacSNMaxIter   = 10
	arcJacImagCheck   = 1e-7
	ellipticSeriesLen = 7
)

// zpk is a filter in zero-pole-gain form, analog (s-plane) or digital
// (z-plane) depending on context.
type zpk struct {
	z, p []complex128
	k    float64
}

// analogPrototype returns the unit-cutoff analog lowpass prototype for the
// spec's prototype family at the given order. Chebyshev I and elliptic
// prototypes place the passband edge at 1; Chebyshev II places the
// stopband edge at 1; Butterworth places the -3 dB point at 1.
func analogPrototype(p Prototype, order int, rippleDB, attenuationDB float64) (zpk, bool) {
	switch p {
	case Butterworth:
		return butterworthPrototype(order), true
	case ChebyshevI:
		return chebyshev1Prototype(order, rippleDB)
	case ChebyshevII:
		return chebyshev2Prototype(order, attenuationDB)
	default:
		return ellipticPrototype(order, rippleDB, attenuationDB)
	}
}

func butterworthPrototype(order int) zpk {
	poles := make([]complex128, order)
	for i := range poles {
		theta := math.Pi * float64(2*i+order+1) / float64(2*order)
		poles[i] = cmplx.Exp(complex(0, theta))
	}
	return zpk{p: poles, k: 1}
}

func chebyshev1Prototype(order int, rippleDB float64) (zpk, bool) {
	if rippleDB <= 0 {
		return zpk{}, false
	}

	eps := math.Sqrt(math.Pow(10, rippleDB/10) - 1)
	mu := math.Asinh(1/eps) / float64(order)
	sh, ch := math.Sinh(mu), math.Cosh(mu)

	poles := make([]complex128, order)
	for i := range poles {
		theta := math.Pi * float64(2*i+1) / float64(2*order)
		poles[i] = complex(-sh*math.Sin(theta), ch*math.Cos(theta))
	}

	gain := real(complexProductNeg(poles))
	if order%2 == 0 {
		gain /= math.Sqrt(1 + eps*eps)
	}
	if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return zpk{}, false
	}

	return zpk{p: poles, k: gain}, true
}

func chebyshev2Prototype(order int, attenuationDB float64) (zpk, bool) {
	if attenuationDB <= 0 {
		return zpk{}, false
	}

	eps := 1 / math.Sqrt(math.Pow(10, attenuationDB/10)-1)
	mu := math.Asinh(1/eps) / float64(order)
	sh, ch := math.Sinh(mu), math.Cosh(mu)

	// Purely imaginary zeros at the stopband ripple frequencies; the real
	// pole of an odd order has no matching zero.
	zeros := make([]complex128, 0, order)
	poles := make([]complex128, 0, order)
	for i := range order {
		theta := math.Pi * float64(2*i+1) / float64(2*order)

		s := math.Sin(theta)
		if math.Abs(math.Cos(theta)) > ellipticEpsilon {
			zeros = append(zeros, complex(0, 1/math.Cos(theta)))
		}

		// Chebyshev I pole for the inverse response, then invert.
		p := complex(-sh*s, ch*math.Cos(theta))
		poles = append(poles, 1/p)
	}

	num := complexProductNeg(poles)
	den := complexProductNeg(zeros)
	if den == 0 {
		return zpk{}, false
	}

	gain := real(num / den)
	if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return zpk{}, false
	}

	return zpk{z: zeros, p: poles, k: gain}, true
}

// ellipticPrototype places poles and zeros via Jacobi elliptic functions
// (Cauer design). Passband edge at 1 with the given ripple; equiripple
// stopband with the given attenuation.
func ellipticPrototype(order int, rippleDB, stopbandDB float64) (zpk, bool) {
	if order <= 0 || rippleDB <= 0 || stopbandDB <= rippleDB {
		return zpk{}, false
	}

	epsSq := dbToMinusOne(rippleDB)
	stopSq := dbToMinusOne(stopbandDB)
	if epsSq <= 0 || stopSq <= 0 {
		return zpk{}, false
	}

	ck1Sq := epsSq / stopSq
	if !(ck1Sq > 0 && ck1Sq < 1) {
		return zpk{}, false
	}

	if order == 1 {
		p := -math.Sqrt(1.0 / epsSq)
		return zpk{p: []complex128{complex(p, 0)}, k: -p}, true
	}

	m := ellipdegParam(order, ck1Sq, ellipticTol)
	if !(m > 0 && m < 1) {
		return zpk{}, false
	}

	kmod := math.Sqrt(m)
	capk, _ := ellipticmath.EllipK(kmod, ellipticTol)
	ck1 := math.Sqrt(ck1Sq)

	val0, _ := ellipticmath.EllipK(ck1, ellipticTol)
	if capk == 0 || val0 == 0 || math.IsNaN(capk) || math.IsNaN(val0) || math.IsInf(capk, 0) || math.IsInf(val0, 0) {
		return zpk{}, false
	}

	start := 1 - order%2
	svals := make([]float64, 0, (order+1)/2)
	cvals := make([]float64, 0, (order+1)/2)
	dvals := make([]float64, 0, (order+1)/2)
	zerosBase := make([]complex128, 0, order)

	for j := start; j < order; j += 2 {
		u := float64(j) * capk / float64(order)

		sn, cn, dn, ok := jacobiSCDFloat(u, kmod, ellipticTol)
		if !ok {
			return zpk{}, false
		}

		svals = append(svals, sn)
		cvals = append(cvals, cn)

		dvals = append(dvals, dn)
		if math.Abs(sn) > ellipticEpsilon {
			zerosBase = append(zerosBase, complex(0, 1)/(complex(kmod*sn, 0)))
		}
	}

	eps := math.Sqrt(epsSq)

	r := arcJacSC1(1.0/eps, ck1Sq, ellipticTol)
	if !(r > 0) || math.IsNaN(r) || math.IsInf(r, 0) {
		return zpk{}, false
	}

	v0 := capk * r / (float64(order) * val0)

	sv, cv, dv, ok := jacobiSCDFloat(v0, math.Sqrt(1.0-m), ellipticTol)
	if !ok {
		return zpk{}, false
	}

	polesBase := make([]complex128, len(svals))
	for i := range svals {
		den := 1.0 - (dvals[i]*sv)*(dvals[i]*sv)
		if math.Abs(den) <= ellipticEpsilon {
			return zpk{}, false
		}

		num := complex(cvals[i]*dvals[i]*sv*cv, svals[i]*dv)
		polesBase[i] = -num / complex(den, 0)
	}

	poles := make([]complex128, 0, order)
	if order%2 == 1 {
		norm2 := 0.0
		for _, p := range polesBase {
			norm2 += real(p * cmplx.Conj(p))
		}

		thr := ellipticEpsilon * math.Sqrt(norm2)

		poles = append(poles, polesBase...)
		for _, p := range polesBase {
			if math.Abs(imag(p)) > thr {
				poles = append(poles, cmplx.Conj(p))
			}
		}
	} else {
		poles = append(poles, polesBase...)
		for _, p := range polesBase {
			poles = append(poles, cmplx.Conj(p))
		}
	}

	zeros := make([]complex128, 0, len(zerosBase)*2)
	for _, z := range zerosBase {
		zeros = append(zeros, z, cmplx.Conj(z))
	}

	prodP := complexProductNeg(poles)

	prodZ := complex(1, 0)
	if len(zeros) > 0 {
		prodZ = complexProductNeg(zeros)
	}

	if prodZ == 0 {
		return zpk{}, false
	}

	gain := real(prodP / prodZ)
	if order%2 == 0 {
		gain /= math.Sqrt(1.0 + epsSq)
	}

	if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return zpk{}, false
	}

	return zpk{z: zeros, p: poles, k: gain}, true
}

// estimateIIROrder returns the analytic minimum prototype order for the
// given analog passband/stopband edge frequencies (rad/s) and tolerances.
// A zero passband ripple is treated as the half-power (3.01 dB) budget.
func estimateIIROrder(p Prototype, wp, ws, rippleDB, attenuationDB float64) int {
	if rippleDB <= 0 {
		rippleDB = 10 * math.Log10(2)
	}
	if attenuationDB <= 0 {
		attenuationDB = rippleDB
	}

	gp := math.Pow(10, rippleDB/10) - 1
	gs := math.Pow(10, attenuationDB/10) - 1
	sel := ws / wp
	if !(sel > 1) || gp <= 0 {
		return 1
	}

	var n float64
	switch p {
	case Butterworth:
		n = math.Log(gs/gp) / (2 * math.Log(sel))
	case ChebyshevI, ChebyshevII:
		n = math.Acosh(math.Sqrt(gs/gp)) / math.Acosh(sel)
	default: // Elliptic
		k := 1 / sel
		k1 := math.Sqrt(gp / gs)
		kk, _ := ellipticmath.EllipK(k, ellipticTol)
		kkp, _ := ellipticmath.EllipK(math.Sqrt(1-k*k), ellipticTol)
		k1k, _ := ellipticmath.EllipK(k1, ellipticTol)
		k1kp, _ := ellipticmath.EllipK(math.Sqrt(1-k1*k1), ellipticTol)
		if kkp == 0 || k1k == 0 {
			return 1
		}
		n = (kk * k1kp) / (kkp * k1k)
	}

	order := int(math.Ceil(n - 1e-9))
	if order < 1 {
		order = 1
	}
	return order
}

func dbToMinusOne(db float64) float64 {
	return math.Expm1(math.Ln10 * db / 10.0)
}

func complexProductNeg(v []complex128) complex128 {
	out := complex(1, 0)
	for _, x := range v {
		out *= -x
	}

	return out
}

func jacobiSCDFloat(uAbs, k, tol float64) (float64, float64, float64, bool) {
	if !(k >= 0 && k < 1) {
		return 0, 0, 0, false
	}

	K, _ := ellipticmath.EllipK(k, tol)
	if K == 0 || math.IsNaN(K) || math.IsInf(K, 0) {
		return 0, 0, 0, false
	}

	uNorm := uAbs / K

	sn := ellipticmath.SNE([]float64{uNorm}, k, tol)[0]
	if math.IsNaN(sn) || math.IsInf(sn, 0) {
		return 0, 0, 0, false
	}

	dn2 := 1.0 - k*k*sn*sn
	if dn2 < -1e-12 {
		return 0, 0, 0, false
	}

	if dn2 < 0 {
		dn2 = 0
	}

	dn := math.Sqrt(dn2)
	cd := real(ellipticmath.CDE(complex(uNorm, 0), k, tol))
	cn := cd * dn

	return sn, cn, dn, true
}

func arcJacSC1(w, m, tol float64) float64 {
	z := arcJacSN(complex(0, w), m, tol)
	if math.Abs(real(z)) > arcJacImagCheck*math.Max(1.0, math.Abs(imag(z))) {
		return math.NaN()
	}

	return imag(z)
}

func jacobiComplement(k complex128) complex128 {
	return cmplx.Sqrt((1.0 - k) * (1.0 + k))
}

func arcJacSN(w complex128, m, _ float64) complex128 {
	if m < 0 || m > 1 {
		return complex(math.NaN(), math.NaN())
	}

	k := complex(math.Sqrt(m), 0)
	if real(k) == 1 {
		return cmplx.Atanh(w)
	}

	ks := []complex128{k}
	for range arcJacSNMaxIter - 1 {
		kn := ks[len(ks)-1]
		if cmplx.Abs(kn) == 0 {
			break
		}

		kp := jacobiComplement(kn)
		ks = append(ks, (1.0-kp)/(1.0+kp))
	}

	K := 1.0
	for i := 1; i < len(ks); i++ {
		K *= real(1.0 + ks[i])
	}

	K *= math.Pi * 0.5

	wn := w

	for i := range len(ks) - 1 {
		kn := ks[i]
		knext := ks[i+1]

		den := (1.0 + knext) * (1.0 + jacobiComplement(kn*wn))
		if den == 0 {
			return complex(math.NaN(), math.NaN())
		}

		wn = 2.0 * wn / den
	}

	u := (2.0 / math.Pi) * cmplx.Asin(wn)

	return complex(K, 0) * u
}

func ellipdegParam(n int, m1, tol float64) float64 {
	if n <= 0 || !(m1 > 0 && m1 < 1) {
		return math.NaN()
	}

	k1 := math.Sqrt(m1)
	K1, _ := ellipticmath.EllipK(k1, tol)

	K1p, _ := ellipticmath.EllipK(math.Sqrt(1.0-m1), tol)
	if K1 <= 0 || K1p <= 0 || math.IsNaN(K1) || math.IsNaN(K1p) || math.IsInf(K1, 0) || math.IsInf(K1p, 0) {
		return math.NaN()
	}

	q1 := math.Exp(-math.Pi * K1p / K1)
	q := math.Pow(q1, 1.0/float64(n))

	num := 0.0
	for mnum := range ellipticSeriesLen {
		num += math.Pow(q, float64(mnum*(mnum+1)))
	}

	den := 1.0
	for mnum := 1; mnum < ellipticSeriesLen; mnum++ {
		den += 2.0 * math.Pow(q, float64(mnum*mnum))
	}

	return 16.0 * q * math.Pow(num/den, 4.0)
}
