package design

import (
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/biquad"
)

// designIIR maps the analog prototype through the band transform and the
// bilinear transform into cascaded second-order sections. The prototype
// order starts at the analytic estimate and grows until the measured
// response meets the spec or the order bound is hit.
func designIIR(s Spec) (*filter.Model, error) {
	maxOrder := s.maxIIROrder()

	order := estimateIIROrder(s.Prototype, 1, lpSelectivity(&s), s.RippleDB, s.AttenuationDB)
	if order > maxOrder {
		order = maxOrder
	}

	var lastRipple, lastAtt float64
	for {
		sections, ok := buildIIR(&s, order)
		if ok {
			ripple, att := measureBands(&s, func(f float64) complex128 {
				h := complex(1, 0)
				for i := range sections {
					h *= sections[i].Response(f, s.SampleRate)
				}
				return h
			})
			lastRipple, lastAtt = ripple, att

			if meetsSpec(&s, ripple, att) {
				return filter.NewIIRCascade(sections, s.SampleRate)
			}
		}

		if order+1 > maxOrder {
			return nil, &InfeasibleSpecError{
				MaxOrder:              maxOrder,
				AchievedRippleDB:      lastRipple,
				AchievedAttenuationDB: lastAtt,
			}
		}
		order++
	}
}

// DesignIIROrder designs an IIR cascade at an exact prototype order,
// skipping the order search. The spec's ripple and attenuation still shape
// the prototype; whether the response meets them is up to the caller.
func DesignIIROrder(s Spec, order int) (*filter.Model, error) {
	if order < 1 {
		return nil, &InvalidSpecError{Field: "order", Reason: "must be >= 1"}
	}

	sections, ok := buildIIR(&s, order)
	if !ok {
		return nil, &InfeasibleSpecError{MaxOrder: order}
	}

	return filter.NewIIRCascade(sections, s.SampleRate)
}

// warp prewarps a digital frequency onto the analog axis for the bilinear
// transform.
func (s *Spec) warp(f float64) float64 {
	return math.Tan(math.Pi * f / s.SampleRate)
}

// lpSelectivity returns the stopband edge of the lowpass-equivalent
// prototype problem (passband edge normalized to 1).
func lpSelectivity(s *Spec) float64 {
	switch s.Kind {
	case Lowpass:
		return s.warp(s.StopEdges[0]) / s.warp(s.PassEdges[0])
	case Highpass:
		return s.warp(s.PassEdges[0]) / s.warp(s.StopEdges[0])
	case Bandpass:
		w1, w2 := s.warp(s.PassEdges[0]), s.warp(s.PassEdges[1])
		w0sq, bw := w1*w2, w2-w1
		sel := math.Inf(1)
		for _, e := range s.StopEdges {
			w := s.warp(e)
			if v := math.Abs((w*w - w0sq) / (bw * w)); v < sel {
				sel = v
			}
		}
		return sel
	default: // Bandstop
		w1, w2 := s.warp(s.PassEdges[0]), s.warp(s.PassEdges[1])
		w0sq, bw := w1*w2, w2-w1
		sel := math.Inf(1)
		for _, e := range s.StopEdges {
			w := s.warp(e)
			if v := math.Abs((bw * w) / (w0sq - w*w)); v < sel {
				sel = v
			}
		}
		return sel
	}
}

// buildIIR designs the cascade for one candidate order. It fails (ok
// false) when the prototype or a transform degenerates numerically or the
// resulting sections are not strictly stable.
func buildIIR(s *Spec, order int) ([]biquad.Coefficients, bool) {
	proto, ok := analogPrototype(s.Prototype, order, s.RippleDB, s.AttenuationDB)
	if !ok {
		return nil, false
	}

	var f zpk
	switch s.Kind {
	case Lowpass:
		f = lpScale(proto, lpCutoff(s, order, false))
	case Highpass:
		f, ok = lpToHP(proto, lpCutoff(s, order, true))
	case Bandpass:
		w0, bw := bandParams(s, order)
		f, ok = lpToBP(proto, w0, bw)
	default: // Bandstop
		w0, bw := bandParams(s, order)
		f, ok = lpToBS(proto, w0, bw)
	}
	if !ok {
		return nil, false
	}

	dig, ok := bilinearZPK(f)
	if !ok {
		return nil, false
	}

	sections := zpkToSections(dig)
	if len(sections) == 0 {
		return nil, false
	}

	for _, p := range biquad.Poles(sections) {
		if cmplx.Abs(p) >= 1 {
			return nil, false
		}
	}

	normalizeCascadeAt(sections, referenceFreq(s), s.SampleRate)

	return sections, true
}

// lpCutoff returns the analog cutoff the prototype is scaled to for
// low/high-pass designs. Chebyshev I and elliptic anchor the passband
// edge, Chebyshev II the stopband edge, Butterworth matches the passband
// ripple exactly at the passband edge.
func lpCutoff(s *Spec, order int, highpass bool) float64 {
	wp := s.warp(s.PassEdges[0])
	ws := s.warp(s.StopEdges[0])

	switch s.Prototype {
	case ChebyshevII:
		return ws
	case Butterworth:
		lam := butterworthEdge(s.RippleDB, order)
		if highpass {
			return wp * lam
		}
		return wp / lam
	default:
		return wp
	}
}

// butterworthEdge returns the prototype frequency where a Butterworth
// response of the given order reaches the passband ripple.
func butterworthEdge(rippleDB float64, order int) float64 {
	if rippleDB <= 0 {
		rippleDB = 10 * math.Log10(2)
	}
	gp := math.Pow(10, rippleDB/10) - 1
	return math.Pow(gp, 1/(2*float64(order)))
}

// bandParams returns the analog center frequency and effective bandwidth
// for band-pass/stop transforms, anchored per prototype like lpCutoff.
func bandParams(s *Spec, order int) (w0, bw float64) {
	w1, w2 := s.warp(s.PassEdges[0]), s.warp(s.PassEdges[1])
	w0 = math.Sqrt(w1 * w2)
	bw = w2 - w1

	switch s.Prototype {
	case ChebyshevII:
		// Anchor the stopband edges on the prototype's unit stopband edge:
		// the tighter edge wins for bandpass, the wider for bandstop.
		if s.Kind == Bandstop {
			eff := 0.0
			for _, e := range s.StopEdges {
				w := s.warp(e)
				if v := math.Abs((w0*w0 - w*w) / w); v > eff {
					eff = v
				}
			}
			return w0, eff
		}
		eff := math.Inf(1)
		for _, e := range s.StopEdges {
			w := s.warp(e)
			if v := math.Abs((w*w - w0*w0) / w); v < eff {
				eff = v
			}
		}
		return w0, eff
	case Butterworth:
		lam := butterworthEdge(s.RippleDB, order)
		if s.Kind == Bandstop {
			return w0, bw * lam
		}
		return w0, bw / lam
	default:
		return w0, bw
	}
}

// referenceFreq returns the digital frequency the cascade gain is
// normalized at.
func referenceFreq(s *Spec) float64 {
	switch s.Kind {
	case Highpass:
		return s.SampleRate / 2
	case Bandpass:
		return math.Sqrt(s.PassEdges[0] * s.PassEdges[1])
	default:
		return 0
	}
}

// lpScale scales a unit-cutoff lowpass to the cutoff wc (rad/s).
func lpScale(f zpk, wc float64) zpk {
	out := zpk{
		z: make([]complex128, len(f.z)),
		p: make([]complex128, len(f.p)),
	}
	for i, z := range f.z {
		out.z[i] = z * complex(wc, 0)
	}
	for i, p := range f.p {
		out.p[i] = p * complex(wc, 0)
	}
	out.k = f.k * math.Pow(wc, float64(len(f.p)-len(f.z)))
	return out
}

// lpToHP applies the s -> wc/s transform.
func lpToHP(f zpk, wc float64) (zpk, bool) {
	degree := len(f.p) - len(f.z)
	if degree < 0 {
		return zpk{}, false
	}

	c := complex(wc, 0)

	zh := make([]complex128, 0, len(f.z)+degree)
	for _, zr := range f.z {
		if zr == 0 {
			return zpk{}, false
		}
		zh = append(zh, c/zr)
	}
	for range degree {
		zh = append(zh, 0)
	}

	ph := make([]complex128, 0, len(f.p))
	for _, pr := range f.p {
		if pr == 0 {
			return zpk{}, false
		}
		ph = append(ph, c/pr)
	}

	kh := f.k
	if len(f.z) > 0 {
		kh *= real(complexProductNeg(f.z))
	}
	if len(f.p) > 0 {
		den := real(complexProductNeg(f.p))
		if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
			return zpk{}, false
		}
		kh /= den
	}

	if kh == 0 || math.IsNaN(kh) || math.IsInf(kh, 0) {
		return zpk{}, false
	}

	return zpk{z: zh, p: ph, k: kh}, true
}

// lpToBP applies the s -> (s^2 + w0^2)/(bw*s) transform. Every prototype
// root splits into a pair; the transfer degree doubles.
func lpToBP(f zpk, w0, bw float64) (zpk, bool) {
	degree := len(f.p) - len(f.z)
	if degree < 0 || bw <= 0 || w0 <= 0 {
		return zpk{}, false
	}

	split := func(roots []complex128) []complex128 {
		out := make([]complex128, 0, 2*len(roots))
		for _, r := range roots {
			h := r * complex(bw/2, 0)
			d := cmplx.Sqrt(h*h - complex(w0*w0, 0))
			out = append(out, h+d, h-d)
		}
		return out
	}

	zb := split(f.z)
	for range degree {
		zb = append(zb, 0)
	}
	pb := split(f.p)

	kb := f.k * math.Pow(bw, float64(degree))
	if kb == 0 || math.IsNaN(kb) || math.IsInf(kb, 0) {
		return zpk{}, false
	}

	return zpk{z: zb, p: pb, k: kb}, true
}

// lpToBS applies the s -> bw*s/(s^2 + w0^2) transform.
func lpToBS(f zpk, w0, bw float64) (zpk, bool) {
	degree := len(f.p) - len(f.z)
	if degree < 0 || bw <= 0 || w0 <= 0 {
		return zpk{}, false
	}

	split := func(roots []complex128) ([]complex128, bool) {
		out := make([]complex128, 0, 2*len(roots))
		for _, r := range roots {
			if r == 0 {
				return nil, false
			}
			h := complex(bw/2, 0) / r
			d := cmplx.Sqrt(h*h - complex(w0*w0, 0))
			out = append(out, h+d, h-d)
		}
		return out, true
	}

	zb, ok := split(f.z)
	if !ok {
		return zpk{}, false
	}
	for range degree {
		zb = append(zb, complex(0, w0), complex(0, -w0))
	}

	pb, ok := split(f.p)
	if !ok {
		return zpk{}, false
	}

	kb := f.k
	if len(f.z) > 0 {
		kb *= real(complexProductNeg(f.z))
	}
	if len(f.p) > 0 {
		den := real(complexProductNeg(f.p))
		if den == 0 || math.IsNaN(den) || math.IsInf(den, 0) {
			return zpk{}, false
		}
		kb /= den
	}

	if kb == 0 || math.IsNaN(kb) || math.IsInf(kb, 0) {
		return zpk{}, false
	}

	return zpk{z: zb, p: pb, k: kb}, true
}

// bilinearZPK maps an analog (prewarped) filter onto the z-plane via
// s = (z-1)/(z+1). Excess poles contribute zeros at z = -1.
func bilinearZPK(f zpk) (zpk, bool) {
	degree := len(f.p) - len(f.z)
	if degree < 0 {
		return zpk{}, false
	}

	zd := make([]complex128, 0, len(f.z)+degree)
	for _, zr := range f.z {
		den := 1 - zr
		if den == 0 {
			return zpk{}, false
		}
		zd = append(zd, (1+zr)/den)
	}
	for range degree {
		zd = append(zd, -1)
	}

	pd := make([]complex128, 0, len(f.p))
	for _, pr := range f.p {
		den := 1 - pr
		if den == 0 {
			return zpk{}, false
		}
		pd = append(pd, (1+pr)/den)
	}

	num := complexProductOneMinus(f.z)
	den := complexProductOneMinus(f.p)
	if den == 0 {
		return zpk{}, false
	}

	kd := f.k * real(num/den)
	if kd == 0 || math.IsNaN(kd) || math.IsInf(kd, 0) {
		return zpk{}, false
	}

	return zpk{z: zd, p: pd, k: kd}, true
}

func complexProductOneMinus(v []complex128) complex128 {
	out := complex(1, 0)
	for _, x := range v {
		out *= 1 - x
	}
	return out
}

// zpkToSections groups digital poles and zeros into conjugate pairs and
// expands each pairing into one biquad. Pole groups are ordered with the
// most resonant (largest imaginary part) first so they get the remaining
// complex zero pairs.
func zpkToSections(f zpk) []biquad.Coefficients {
	if len(f.p) == 0 {
		return nil
	}

	pGroups := groupRoots(f.p)
	zGroups := groupRoots(f.z)

	if len(pGroups) == 0 {
		return nil
	}

	sort.Slice(pGroups, func(i, j int) bool {
		if len(pGroups[i]) != len(pGroups[j]) {
			return len(pGroups[i]) > len(pGroups[j])
		}
		return groupImagAbs(pGroups[i]) > groupImagAbs(pGroups[j])
	})

	var zComplex, zSingle [][]complex128
	for _, g := range zGroups {
		if len(g) == 2 {
			zComplex = append(zComplex, g)
		} else {
			zSingle = append(zSingle, g)
		}
	}

	out := make([]biquad.Coefficients, 0, len(pGroups))
	for _, pg := range pGroups {
		var zg []complex128

		if len(pg) == 2 {
			if len(zComplex) > 0 {
				zg = zComplex[0]
				zComplex = zComplex[1:]
			} else if len(zSingle) > 0 {
				zg = zSingle[0]
				zSingle = zSingle[1:]
			}
		} else {
			if len(zSingle) > 0 {
				zg = zSingle[0]
				zSingle = zSingle[1:]
			} else if len(zComplex) > 0 {
				zg = zComplex[0]
				zComplex = zComplex[1:]
			}
		}

		b1, b2 := quadFromRoots(zg)
		a1, a2 := quadFromRoots(pg)
		out = append(out, biquad.Coefficients{
			B0: 1, B1: b1, B2: b2,
			A1: a1, A2: a2,
		})
	}

	if len(out) > 0 && !math.IsNaN(f.k) && !math.IsInf(f.k, 0) && f.k != 0 {
		out[0].B0 *= f.k
		out[0].B1 *= f.k
		out[0].B2 *= f.k
	}

	return out
}

const groupRootTol = 1e-9

func groupRoots(roots []complex128) [][]complex128 {
	if len(roots) == 0 {
		return nil
	}

	sortedRoots := append([]complex128(nil), roots...)
	sort.Slice(sortedRoots, func(i, j int) bool {
		ii := imag(sortedRoots[i])
		jj := imag(sortedRoots[j])
		if ii != jj {
			return ii > jj
		}
		return real(sortedRoots[i]) < real(sortedRoots[j])
	})

	used := make([]bool, len(sortedRoots))
	groups := make([][]complex128, 0, (len(sortedRoots)+1)/2)
	reals := make([]complex128, 0, len(sortedRoots))

	for i, r := range sortedRoots {
		if used[i] {
			continue
		}

		if math.Abs(imag(r)) <= groupRootTol {
			used[i] = true
			reals = append(reals, complex(real(r), 0))
			continue
		}

		target := cmplx.Conj(r)
		best := -1
		bestDist := math.MaxFloat64

		for j, rr := range sortedRoots {
			if i == j || used[j] {
				continue
			}

			d := cmplx.Abs(rr - target)
			if d < bestDist {
				bestDist = d
				best = j
			}
		}

		used[i] = true
		if best != -1 && bestDist <= 1e-4 {
			used[best] = true
			groups = append(groups, []complex128{r, sortedRoots[best]})
		} else {
			groups = append(groups, []complex128{r})
		}
	}

	sort.Slice(reals, func(i, j int) bool { return real(reals[i]) < real(reals[j]) })

	for i := 0; i+1 < len(reals); i += 2 {
		groups = append(groups, []complex128{reals[i], reals[i+1]})
	}
	if len(reals)%2 == 1 {
		groups = append(groups, []complex128{reals[len(reals)-1]})
	}

	return groups
}

func groupImagAbs(g []complex128) float64 {
	maxImag := 0.0
	for _, r := range g {
		if a := math.Abs(imag(r)); a > maxImag {
			maxImag = a
		}
	}
	return maxImag
}

func quadFromRoots(group []complex128) (float64, float64) {
	switch len(group) {
	case 0:
		return 0, 0
	case 1:
		return -real(group[0]), 0
	default:
		r1, r2 := group[0], group[1]
		return -real(r1 + r2), real(r1 * r2)
	}
}

// normalizeCascadeAt scales the cascade so its magnitude at the reference
// frequency is exactly unity, absorbing accumulated round-off from the
// transform chain.
func normalizeCascadeAt(sections []biquad.Coefficients, freqHz, sampleRate float64) {
	if len(sections) == 0 {
		return
	}

	h := complex(1, 0)
	for i := range sections {
		h *= sections[i].Response(freqHz, sampleRate)
	}

	gain := cmplx.Abs(h)
	if gain == 0 || math.IsNaN(gain) || math.IsInf(gain, 0) {
		return
	}

	sections[0].B0 /= gain
	sections[0].B1 /= gain
	sections[0].B2 /= gain
}
