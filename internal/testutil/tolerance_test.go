package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	got, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.1, 3})
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}
	if math.Abs(got-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", got)
	}

	got, err = MaxAbsDiff([]float64{1, -2}, []float64{1, -2})
	if err != nil {
		t.Fatalf("MaxAbsDiff: %v", err)
	}
	if got != 0 {
		t.Fatalf("identical slices: MaxAbsDiff = %v, want 0", got)
	}
}

func TestMaxAbsDiff_LengthMismatch(t *testing.T) {
	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}
