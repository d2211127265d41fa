// Package polyroot provides polynomial root-finding and second-order
// section factorisation utilities shared by the filter design and
// optimization packages.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-filterdesign/filter/biquad"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (leading coefficient zero, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// ZRoots finds the z-plane roots of a polynomial in z^-1 given in
// ascending power order: c[0] + c[1]*z^-1 + ... + c[n]*z^-n. Multiplying
// through by z^n turns the ascending z^-1 coefficients directly into
// descending z coefficients, so the roots of that polynomial are the
// z-plane roots. Trailing zero coefficients reduce the degree (they only
// add roots at the origin, which carry no information for a causal
// filter).
func ZRoots(c []float64) ([]complex128, error) {
	n := len(c)
	for n > 1 && c[n-1] == 0 {
		n--
	}
	if n < 2 {
		return nil, nil
	}

	coeff := make([]complex128, n)
	for i := range n {
		coeff[i] = complex(c[i], 0)
	}

	return DurandKerner(coeff)
}

// SplitSections factors a digital transfer function (numerator num and
// denominator den, both in ascending powers of z^-1, den[0] != 0) into
// cascaded biquad sections. Pole conjugate pairs are matched with the
// nearest available zero pair -- the pair closest to the unit circle
// first, to keep the most sensitive section's zeros nearby -- and the
// resulting sections are ordered by ascending pole radius so the
// highest-Q section runs last. The overall gain is applied to the first
// section.
func SplitSections(num, den []float64) ([]biquad.Coefficients, error) {
	if len(den) == 0 || den[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}
	if len(num) == 0 {
		return nil, ErrDegeneratePolynomial
	}

	// A leading numerator zero is a pure delay factor; trim it so the
	// root solver sees a non-degenerate leading coefficient.
	trimmed := num
	shift := 0
	for len(trimmed) > 1 && trimmed[0] == 0 {
		trimmed = trimmed[1:]
		shift++
	}
	if trimmed[0] == 0 {
		return nil, ErrDegeneratePolynomial
	}

	poles, err := ZRoots(den)
	if err != nil {
		return nil, err
	}

	zeros, err := ZRoots(trimmed)
	if err != nil {
		return nil, err
	}

	scale := trimmed[0] / den[0]

	poleGroups, err := GroupConjugates(poles)
	if err != nil {
		return nil, err
	}

	zeroGroups, err := GroupConjugates(zeros)
	if err != nil {
		return nil, err
	}

	// Most sensitive pole group (closest to the unit circle) picks its
	// zero group first.
	sort.SliceStable(poleGroups, func(i, j int) bool {
		return groupRadius(poleGroups[i]) > groupRadius(poleGroups[j])
	})

	sections := make([]biquad.Coefficients, 0, len(poleGroups)+len(zeroGroups))
	for _, pg := range poleGroups {
		var zg []complex128
		zg, zeroGroups = takeNearestGroup(zeroGroups, pg)

		a0, a1, a2 := quadCoeffs(pg)
		b0, b1, b2 := quadCoeffs(zg)
		if a0 == 0 {
			return nil, ErrDegeneratePolynomial
		}

		sections = append(sections, biquad.Coefficients{
			B0: b0 / a0,
			B1: b1 / a0,
			B2: b2 / a0,
			A1: a1 / a0,
			A2: a2 / a0,
		})
	}

	// Leftover zero groups (numerator degree exceeds the pole pairing)
	// become pole-free sections.
	for _, zg := range zeroGroups {
		b0, b1, b2 := quadCoeffs(zg)
		sections = append(sections, biquad.Coefficients{B0: b0, B1: b1, B2: b2})
	}

	if len(sections) == 0 {
		return nil, ErrDegeneratePolynomial
	}

	// Lowest-radius pole section first: early sections attenuate before
	// the near-unit-circle resonances can overflow.
	for i, j := 0, len(sections)-1; i < j; i, j = i+1, j-1 {
		sections[i], sections[j] = sections[j], sections[i]
	}

	first := &sections[0]
	first.B0 *= scale
	first.B1 *= scale
	first.B2 *= scale

	// Re-apply the trimmed delay factors: each z^-1 shifts a numerator
	// with a free high-order slot.
	for ; shift > 0; shift-- {
		placed := false
		for i := range sections {
			if sections[i].B2 == 0 {
				sections[i].B2 = sections[i].B1
				sections[i].B1 = sections[i].B0
				sections[i].B0 = 0
				placed = true
				break
			}
		}
		if !placed {
			return nil, ErrDegeneratePolynomial
		}
	}

	return sections, nil
}

// GroupConjugates groups complex roots into conjugate pairs and couples
// the remaining real roots pairwise. For each unused complex root, the
// closest match to the expected conjugate is selected and validated
// within ConjugateTol. A trailing unmatched real root forms a group of
// one (a first-order factor).
func GroupConjugates(roots []complex128) ([][]complex128, error) {
	used := make([]bool, len(roots))
	groups := make([][]complex128, 0, (len(roots)+1)/2)
	reals := make([]complex128, 0, len(roots))

	for i := range roots {
		if used[i] {
			continue
		}

		root := roots[i]
		if math.Abs(imag(root)) <= realRootTol*math.Max(1, cmplx.Abs(root)) {
			used[i] = true
			reals = append(reals, complex(real(root), 0))
			continue
		}

		conj := complex(real(root), -imag(root))
		best := -1
		bestDist := math.MaxFloat64

		for j := range roots {
			if i == j || used[j] {
				continue
			}

			d := cmplx.Abs(roots[j] - conj)
			if d < bestDist {
				bestDist = d
				best = j
			}
		}

		if best == -1 || !IsConjugate(root, roots[best], ConjugateTol) {
			return nil, ErrDegeneratePolynomial
		}

		used[i] = true
		used[best] = true
		groups = append(groups, []complex128{root, roots[best]})
	}

	sort.Slice(reals, func(i, j int) bool { return real(reals[i]) < real(reals[j]) })
	for i := 0; i+1 < len(reals); i += 2 {
		groups = append(groups, []complex128{reals[i], reals[i+1]})
	}
	if len(reals)%2 == 1 {
		groups = append(groups, []complex128{reals[len(reals)-1]})
	}

	return groups, nil
}

// quadCoeffs expands a root group into second-order polynomial
// coefficients in ascending powers of z^-1: (1 - r1 z^-1)(1 - r2 z^-1).
func quadCoeffs(group []complex128) (float64, float64, float64) {
	switch len(group) {
	case 0:
		return 1, 0, 0
	case 1:
		return 1, -real(group[0]), 0
	default:
		r1, r2 := group[0], group[1]
		return 1, -real(r1 + r2), real(r1 * r2)
	}
}

// groupRadius returns the largest root magnitude in a group.
func groupRadius(group []complex128) float64 {
	r := 0.0
	for _, x := range group {
		if a := cmplx.Abs(x); a > r {
			r = a
		}
	}
	return r
}

// takeNearestGroup removes and returns the zero group whose centroid is
// closest to the pole group's centroid.
func takeNearestGroup(zeroGroups [][]complex128, poleGroup []complex128) ([]complex128, [][]complex128) {
	if len(zeroGroups) == 0 {
		return nil, nil
	}

	pc := groupCentroid(poleGroup)
	best := 0
	bestDist := math.MaxFloat64
	for i, zg := range zeroGroups {
		d := cmplx.Abs(groupCentroid(zg) - pc)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	zg := zeroGroups[best]
	rest := append(zeroGroups[:best:best], zeroGroups[best+1:]...)
	return zg, rest
}

func groupCentroid(group []complex128) complex128 {
	if len(group) == 0 {
		return 0
	}
	var sum complex128
	for _, x := range group {
		sum += x
	}
	return sum / complex(float64(len(group)), 0)
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in
// descending power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 500
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			f := PolyEval(norm, roots[i])
			delta := f / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}

const (
	// ConjugateTol is the relative tolerance for conjugate pair matching.
	ConjugateTol = 1e-7

	// realRootTol decides when a nominally complex root is treated as real.
	realRootTol = 1e-9
)

// IsConjugate checks whether a and b are complex conjugates within tolerance.
func IsConjugate(a, b complex128, tol float64) bool {
	if math.Abs(real(a)-real(b)) > tol*math.Max(1, math.Abs(real(a))) {
		return false
	}

	if math.Abs(imag(a)+imag(b)) > tol*math.Max(1, math.Abs(imag(a))) {
		return false
	}

	return true
}
