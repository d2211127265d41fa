package fir

// FoldedFilter is a linear-phase FIR filter that exploits coefficient
// symmetry: taps h[k] == h[N-1-k] are folded so each pair costs one
// multiply instead of two. The output is identical to the direct form up
// to floating-point round-off.
type FoldedFilter struct {
	half   []float64 // h[0] .. h[(N-1)/2]
	length int       // full tap count N
	delay  []float64
	pos    int
}

// NewFolded creates a folded filter from the full symmetric tap sequence.
// The caller is responsible for verifying symmetry (see [IsSymmetric]);
// for non-symmetric input the output silently differs from direct form.
func NewFolded(coeffs []float64) *FoldedFilter {
	n := len(coeffs)
	m := (n + 1) / 2
	half := make([]float64, m)
	copy(half, coeffs[:m])
	return &FoldedFilter{
		half:   half,
		length: n,
		delay:  make([]float64, n),
	}
}

// ProcessSample filters one input sample:
//
//	y[n] = sum_{k=0}^{m-1} h[k] * (x[n-k] + x[n-(N-1-k)])
//
// with the center tap of an odd-length filter counted once.
func (f *FoldedFilter) ProcessSample(x float64) float64 {
	n := f.length
	f.delay[f.pos] = x

	var y float64
	front := f.pos
	back := f.pos + 1 // index of x[n-(N-1)]
	if back >= n {
		back = 0
	}

	pairs := n / 2
	for k := 0; k < pairs; k++ {
		y += f.half[k] * (f.delay[front] + f.delay[back])
		front--
		if front < 0 {
			front = n - 1
		}
		back++
		if back >= n {
			back = 0
		}
	}
	if n%2 == 1 {
		y += f.half[pairs] * f.delay[front]
	}

	f.pos++
	if f.pos >= n {
		f.pos = 0
	}
	return y
}

// ProcessBlock filters a block of samples in-place.
func (f *FoldedFilter) ProcessBlock(buf []float64) {
	for i, x := range buf {
		buf[i] = f.ProcessSample(x)
	}
}

// Reset clears the delay line to zero.
func (f *FoldedFilter) Reset() {
	for i := range f.delay {
		f.delay[i] = 0
	}
	f.pos = 0
}

// Order returns the filter order (N - 1).
func (f *FoldedFilter) Order() int {
	return f.length - 1
}

// OperationCount returns the multiply+add count per output sample:
// (N+1)/2 multiplies plus N-1 additions.
func (f *FoldedFilter) OperationCount() int {
	if f.length == 0 {
		return 0
	}
	return (f.length+1)/2 + f.length - 1
}
