package biquad

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// FirstOrder reports whether the section degenerates to first order
// (B2 and A2 both zero).
func (c *Coefficients) FirstOrder() bool {
	return c.B2 == 0 && c.A2 == 0
}

// OperationCount returns the multiply+add count per output sample for a
// Direct Form II Transposed realization of this section. Zero
// coefficients cost nothing, and neither does a unit B0: a monic section
// computes y = x + d0 without the output multiply. A dense biquad counts
// 9, a dense first-order section 5, and a cascade of monic sections
// matches the direct form it factors.
func (c *Coefficients) OperationCount() int {
	muls := 0
	if c.B0 != 0 && c.B0 != 1 {
		muls++
	}
	for _, v := range [...]float64{c.B1, c.B2, c.A1, c.A2} {
		if v != 0 {
			muls++
		}
	}

	d1Terms := nonzero(c.B2) + nonzero(c.A2)
	d0Terms := nonzero(c.B1) + nonzero(c.A1) + min(d1Terms, 1)
	yTerms := nonzero(c.B0) + min(d0Terms, 1)

	adds := max(yTerms-1, 0) + max(d0Terms-1, 0) + max(d1Terms-1, 0)
	return muls + adds
}

func nonzero(v float64) int {
	if v != 0 {
		return 1
	}
	return 0
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form II Transposed processing.
type Section struct {
	Coefficients

	d0, d1 float64
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float64) float64 {
	y := s.B0*x + s.d0
	s.d0 = s.B1*x - s.A1*y + s.d1
	s.d1 = s.B2*x - s.A2*y

	return y
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float64) {
	b0, b1, b2 := s.B0, s.B1, s.B2
	a1, a2 := s.A1, s.A2
	d0, d1 := s.d0, s.d1

	for i, x := range buf {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	s.d0, s.d1 = d0, d1
}

// Reset clears the delay line to zero.
func (s *Section) Reset() {
	s.d0 = 0
	s.d1 = 0
}

// State returns the current delay-line state [d0, d1].
func (s *Section) State() [2]float64 {
	return [2]float64{s.d0, s.d1}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [2]float64) {
	s.d0 = state[0]
	s.d1 = state[1]
}
