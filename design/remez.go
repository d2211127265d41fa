package design

import (
	"math"

	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/filter/fir"
)

const (
	remezGridDensity = 16
	remezMaxIter     = 40
	remezConvergeTol = 1e-6
)

// designEquiripple designs a linear-phase FIR filter by Remez exchange.
// As with the windowed path, the length grows from an analytic estimate
// until the measured response meets the spec or the order bound is hit.
func designEquiripple(s Spec) (*filter.Model, error) {
	maxOrder := s.maxFIROrder()
	bands := remezBands(&s)

	length := estimateEquirippleLength(&s)
	if length-1 > maxOrder {
		length = oddCap(maxOrder + 1)
	}

	var lastRipple, lastAtt float64
	for {
		taps, ok := remezExchange(bands, length)
		if ok {
			ripple, att := measureBands(&s, func(f float64) complex128 {
				return fir.Response(taps, f, s.SampleRate)
			})
			lastRipple, lastAtt = ripple, att

			if meetsSpec(&s, ripple, att) {
				return filter.NewFIR(taps, s.SampleRate)
			}
		}

		if length+2-1 > maxOrder {
			return nil, &InfeasibleSpecError{
				MaxOrder:              maxOrder,
				AchievedRippleDB:      lastRipple,
				AchievedAttenuationDB: lastAtt,
			}
		}
		length += 2
	}
}

// estimateEquirippleLength returns the Herrmann-Rabiner length estimate,
// forced odd.
func estimateEquirippleLength(s *Spec) int {
	dp, ds := bandDeltas(s)
	df := s.TransitionWidth() / s.SampleRate

	n := (-20*math.Log10(math.Sqrt(dp*ds)) - 13) / (14.6 * df)

	length := int(math.Ceil(n)) + 1
	if length < 3 {
		length = 3
	}
	if length%2 == 0 {
		length++
	}
	return length
}

// bandDeltas converts the spec's dB tolerances into linear ripple deltas.
// A zero tolerance on one side borrows the other side's delta so the
// weighting stays finite.
func bandDeltas(s *Spec) (dp, ds float64) {
	if s.RippleDB > 0 {
		r := math.Pow(10, s.RippleDB/20)
		dp = (r - 1) / (r + 1)
	}
	if s.AttenuationDB > 0 {
		ds = math.Pow(10, -s.AttenuationDB/20)
	}
	if dp == 0 && ds == 0 {
		dp, ds = 0.01, 0.01
	}
	if dp == 0 {
		dp = ds
	}
	if ds == 0 {
		ds = dp
	}
	return dp, ds
}

// remezBand is one approximation band in normalized frequency [0, 0.5].
type remezBand struct {
	lo, hi float64
	des    float64 // desired magnitude
	wt     float64 // error weight
}

// remezBands maps the spec onto approximation bands with weights inverse
// to the band's ripple delta.
func remezBands(s *Spec) []remezBand {
	dp, ds := bandDeltas(s)
	wp, ws := 1/dp, 1/ds

	norm := func(f float64) float64 { return f / s.SampleRate }

	switch s.Kind {
	case Lowpass:
		return []remezBand{
			{lo: 0, hi: norm(s.PassEdges[0]), des: 1, wt: wp},
			{lo: norm(s.StopEdges[0]), hi: 0.5, des: 0, wt: ws},
		}
	case Highpass:
		return []remezBand{
			{lo: 0, hi: norm(s.StopEdges[0]), des: 0, wt: ws},
			{lo: norm(s.PassEdges[0]), hi: 0.5, des: 1, wt: wp},
		}
	case Bandpass:
		return []remezBand{
			{lo: 0, hi: norm(s.StopEdges[0]), des: 0, wt: ws},
			{lo: norm(s.PassEdges[0]), hi: norm(s.PassEdges[1]), des: 1, wt: wp},
			{lo: norm(s.StopEdges[1]), hi: 0.5, des: 0, wt: ws},
		}
	default: // Bandstop
		return []remezBand{
			{lo: 0, hi: norm(s.PassEdges[0]), des: 1, wt: wp},
			{lo: norm(s.StopEdges[0]), hi: norm(s.StopEdges[1]), des: 0, wt: ws},
			{lo: norm(s.PassEdges[1]), hi: 0.5, des: 1, wt: wp},
		}
	}
}

// remezExchange runs the Parks-McClellan exchange for a type I (odd
// length, symmetric) filter. It returns the taps and whether the exchange
// converged to a valid alternation set. The initial extremal guess and
// all grid construction are deterministic.
func remezExchange(bands []remezBand, length int) ([]float64, bool) {
	m := (length - 1) / 2
	r := m + 2

	grid, des, wt := remezGrid(bands, r)
	if len(grid) < r {
		return nil, false
	}

	// Initial extremals: evenly spaced over the grid.
	ext := make([]int, r)
	step := float64(len(grid)-1) / float64(r-1)
	for i := range ext {
		ext[i] = int(math.Round(float64(i) * step))
	}

	var x, c, bw []float64
	converged := false

	for range remezMaxIter {
		delta := remezDelta(grid, des, wt, ext)
		if math.IsNaN(delta) || math.IsInf(delta, 0) {
			return nil, false
		}

		// Interpolation points: all extremals but the last, with the
		// alternating deviation folded into the ordinates.
		x = x[:0]
		c = c[:0]
		sign := 1.0
		for _, e := range ext[:r-1] {
			x = append(x, chebX(grid[e]))
			c = append(c, des[e]-sign*delta/wt[e])
			sign = -sign
		}
		bw = baryWeights(x)

		errAt := func(j int) float64 {
			a := baryEval(x, c, bw, chebX(grid[j]))
			return wt[j] * (a - des[j])
		}

		next, ok := pickExtremals(grid, errAt, r)
		if !ok {
			return nil, false
		}

		// Equiripple check: all extremal error magnitudes equal.
		minE, maxE := math.Inf(1), 0.0
		for _, e := range next {
			a := math.Abs(errAt(e))
			if a < minE {
				minE = a
			}
			if a > maxE {
				maxE = a
			}
		}
		same := equalInts(ext, next)
		copy(ext, next)

		if same || (maxE > 0 && (maxE-minE)/maxE < remezConvergeTol) {
			converged = true
			break
		}
	}

	if !converged {
		return nil, false
	}

	// Sample the final approximation at n uniformly spaced frequencies and
	// inverse-transform to type I taps.
	taps := make([]float64, length)
	amp := make([]float64, m+1)
	for i := 0; i <= m; i++ {
		amp[i] = baryEval(x, c, bw, chebX(float64(i)/float64(length)))
	}
	for k := range length {
		v := amp[0]
		for i := 1; i <= m; i++ {
			v += 2 * amp[i] * math.Cos(2*math.Pi*float64(i)*float64(k-m)/float64(length))
		}
		taps[k] = v / float64(length)
	}

	return taps, true
}

// remezGrid builds the dense frequency grid with per-point desired values
// and weights. Grid density scales with the number of extremals.
func remezGrid(bands []remezBand, r int) (grid, des, wt []float64) {
	total := 0.0
	for _, b := range bands {
		total += b.hi - b.lo
	}

	points := remezGridDensity * r
	for _, b := range bands {
		n := int(math.Ceil(float64(points) * (b.hi - b.lo) / total))
		if n < 2 {
			n = 2
		}
		for i := 0; i < n; i++ {
			f := b.lo + (b.hi-b.lo)*float64(i)/float64(n-1)
			grid = append(grid, f)
			des = append(des, b.des)
			wt = append(wt, b.wt)
		}
	}
	return grid, des, wt
}

// chebX maps normalized frequency onto the Chebyshev abscissa.
func chebX(f float64) float64 {
	return math.Cos(2 * math.Pi * f)
}

// remezDelta computes the alternating deviation for the current extremal
// set via the barycentric form.
func remezDelta(grid, des, wt []float64, ext []int) float64 {
	x := make([]float64, len(ext))
	for i, e := range ext {
		x[i] = chebX(grid[e])
	}
	a := baryWeights(x)

	num, den := 0.0, 0.0
	sign := 1.0
	for i, e := range ext {
		num += a[i] * des[e]
		den += sign * a[i] / wt[e]
		sign = -sign
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

// baryWeights computes barycentric weights for the abscissas. Magnitudes
// are tracked in log space to keep high orders from overflowing; a common
// scale factor cancels in every ratio the weights are used in.
func baryWeights(x []float64) []float64 {
	n := len(x)
	logs := make([]float64, n)
	signs := make([]float64, n)

	mean := 0.0
	for k := range x {
		s := 1.0
		sum := 0.0
		for j := range x {
			if j == k {
				continue
			}
			d := x[k] - x[j]
			if d < 0 {
				s = -s
				d = -d
			}
			sum += math.Log(d)
		}
		logs[k] = -sum
		signs[k] = s
		mean += logs[k]
	}
	mean /= float64(n)

	w := make([]float64, n)
	for k := range w {
		w[k] = signs[k] * math.Exp(logs[k]-mean)
	}
	return w
}

// baryEval evaluates the barycentric interpolant at xv.
func baryEval(x, c, w []float64, xv float64) float64 {
	num, den := 0.0, 0.0
	for k := range x {
		d := xv - x[k]
		if math.Abs(d) < 1e-14 {
			return c[k]
		}
		t := w[k] / d
		num += t * c[k]
		den += t
	}
	return num / den
}

// pickExtremals selects r alternating local maxima of |err| over the grid.
// Candidates are local maxima plus band boundary points; same-sign runs
// keep their largest member, and surplus candidates are shed from
// whichever end has the smaller error.
func pickExtremals(grid []float64, errAt func(int) float64, r int) ([]int, bool) {
	n := len(grid)
	e := make([]float64, n)
	for j := range e {
		e[j] = errAt(j)
	}

	var cand []int
	for j := range n {
		left := j == 0 || math.Abs(e[j]) >= math.Abs(e[j-1])
		right := j == n-1 || math.Abs(e[j]) >= math.Abs(e[j+1])
		// Band boundaries count as candidates: a grid spacing jump marks
		// the gap between two approximation bands.
		boundary := j == 0 || j == n-1 ||
			grid[j]-grid[j-1] > 1.5*(grid[minInt(j+1, n-1)]-grid[j]) ||
			(j+1 < n && grid[j+1]-grid[j] > 1.5*(grid[j]-grid[j-1]))
		if (left && right) || boundary {
			cand = append(cand, j)
		}
	}

	// Enforce alternation: within a same-sign run keep the largest error.
	var alt []int
	for _, j := range cand {
		if len(alt) == 0 {
			alt = append(alt, j)
			continue
		}
		last := alt[len(alt)-1]
		if signOf(e[j]) == signOf(e[last]) {
			if math.Abs(e[j]) > math.Abs(e[last]) {
				alt[len(alt)-1] = j
			}
			continue
		}
		alt = append(alt, j)
	}

	if len(alt) < r {
		return nil, false
	}
	for len(alt) > r {
		if math.Abs(e[alt[0]]) < math.Abs(e[alt[len(alt)-1]]) {
			alt = alt[1:]
		} else {
			alt = alt[:len(alt)-1]
		}
	}
	return alt, true
}

func signOf(v float64) int {
	if v < 0 {
		return -1
	}
	return 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
