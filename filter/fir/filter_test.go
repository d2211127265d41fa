package fir

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-filterdesign/internal/testutil"
)

// directConvolve is the textbook reference the filter is checked against.
func directConvolve(coeffs, input []float64) []float64 {
	out := make([]float64, len(input))
	for n := range input {
		for k, c := range coeffs {
			if n-k < 0 {
				break
			}
			out[n] += c * input[n-k]
		}
	}
	return out
}

func TestFilter_MatchesDirectConvolution(t *testing.T) {
	coeffs := []float64{0.25, 0.5, 0.25, -0.125, 0.0625}
	input := []float64{1, 0, -0.5, 0.25, 2, -1, 0.75, 0.1, -0.3, 0.9}

	f := New(coeffs)
	got := make([]float64, len(input))
	copy(got, input)
	f.ProcessBlock(got)

	want := directConvolve(coeffs, input)
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFilter_ImpulseReproducesCoefficients(t *testing.T) {
	coeffs := []float64{0.5, -0.25, 0.125, 0.0625}
	f := New(coeffs)

	for k, want := range coeffs {
		x := 0.0
		if k == 0 {
			x = 1
		}
		got := f.ProcessSample(x)
		if got != want {
			t.Fatalf("impulse response sample %d: got %v, want %v", k, got, want)
		}
	}
}

func TestFilter_Reset(t *testing.T) {
	f := New([]float64{0.5, 0.5})

	first := f.ProcessSample(1)
	f.ProcessSample(0)

	f.Reset()
	if got := f.ProcessSample(1); got != first {
		t.Fatalf("after Reset: got %v, want %v", got, first)
	}
}

func TestFilter_Order(t *testing.T) {
	if got := New(make([]float64, 7)).Order(); got != 6 {
		t.Fatalf("Order = %d, want 6", got)
	}
}

func TestFilter_OperationCountSkipsZeroTaps(t *testing.T) {
	f := New([]float64{0.5, 0, 0, 0.25, 0})
	if got := f.OperationCount(); got != 3 {
		t.Fatalf("OperationCount = %d, want 3", got)
	}

	zero := New([]float64{0, 0})
	if got := zero.OperationCount(); got != 0 {
		t.Fatalf("all-zero OperationCount = %d, want 0", got)
	}
}

func TestResponse_DCEqualsTapSum(t *testing.T) {
	coeffs := []float64{0.1, 0.2, 0.4, 0.2, 0.1}

	h := Response(coeffs, 0, 48000)
	if math.Abs(real(h)-1.0) > 1e-12 || math.Abs(imag(h)) > 1e-12 {
		t.Fatalf("H(0) = %v, want 1", h)
	}

	// A constant input settles to the same DC gain once the delay line fills.
	f := New(coeffs)
	buf := testutil.DC(0.5, 32)
	f.ProcessBlock(buf)
	if got := buf[len(buf)-1]; math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("steady-state DC output = %v, want 0.5", got)
	}
}

func TestResponse_MovingAverageNull(t *testing.T) {
	// A 2-tap average nulls at Nyquist.
	h := Response([]float64{0.5, 0.5}, 24000, 48000)
	if cmplx.Abs(h) > 1e-12 {
		t.Fatalf("|H(Nyquist)| = %v, want 0", cmplx.Abs(h))
	}
}

func TestIsSymmetric(t *testing.T) {
	tests := []struct {
		name   string
		coeffs []float64
		want   bool
	}{
		{"odd symmetric", []float64{0.1, 0.2, 0.5, 0.2, 0.1}, true},
		{"even symmetric", []float64{0.1, 0.4, 0.4, 0.1}, true},
		{"asymmetric", []float64{0.1, 0.2, 0.5, 0.3, 0.1}, false},
		{"single tap", []float64{1}, true},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		if got := IsSymmetric(tt.coeffs, 1e-12); got != tt.want {
			t.Fatalf("%s: IsSymmetric = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilter_CoefficientsCopied(t *testing.T) {
	coeffs := []float64{1, 2, 3}
	f := New(coeffs)
	coeffs[0] = 99

	if got := f.Coefficients()[0]; got != 1 {
		t.Fatalf("coefficients aliased: got %v, want 1", got)
	}
}
