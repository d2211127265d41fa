package optimize

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-filterdesign/design"
	"github.com/cwbudde/algo-filterdesign/filter"
	"github.com/cwbudde/algo-filterdesign/internal/testutil"
)

// designLowpass returns the reference FIR model used across the
// optimization tests, together with its spec.
func designLowpass(t *testing.T) (*filter.Model, design.Spec) {
	t.Helper()

	req := design.NewRequest(design.Lowpass, filter.FamilyFIR, 8000)
	req.Cutoff = []float64{1000}
	req.TransitionHz = 500
	req.PassbandRippleDB = 1
	req.StopbandAttenuationDB = 40

	s, err := design.Parse(req)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m, err := design.Design(s)
	if err != nil {
		t.Fatalf("Design: %v", err)
	}
	return m, s
}

func TestSymmetry_FoldsDesignedFilter(t *testing.T) {
	m, _ := designLowpass(t)

	opt, err := Symmetry(m, Unbounded)
	if err != nil {
		t.Fatalf("Symmetry: %v", err)
	}

	if opt.Technique != filter.TechniqueSymmetry {
		t.Fatalf("technique = %s, want Symmetry", opt.Technique)
	}
	if opt.Model.Structure() != filter.StructureFolded {
		t.Fatalf("structure = %s, want Folded", opt.Model.Structure())
	}
	if opt.Reference != m {
		t.Fatal("provenance does not point at the input model")
	}
	if opt.OperationCount >= m.OperationCount() {
		t.Fatalf("folded ops %d not below direct ops %d",
			opt.OperationCount, m.OperationCount())
	}
	if opt.PassbandDeltaDB != 0 || opt.StopbandDeltaDB != 0 {
		t.Fatalf("lossless fold reports deltas %v / %v",
			opt.PassbandDeltaDB, opt.StopbandDeltaDB)
	}

	// The folded realization reproduces the direct output.
	input := testutil.DeterministicNoise(5, 1.0, 512)
	a := append([]float64(nil), input...)
	b := append([]float64(nil), input...)
	m.Realize().ProcessBlock(a)
	opt.Model.Realize().ProcessBlock(b)
	testutil.RequireSliceNearlyEqual(t, b, a, 1e-12)
}

func TestSymmetry_RejectsAsymmetric(t *testing.T) {
	m, err := filter.NewFIR([]float64{0.1, 0.5, 0.3}, 8000)
	if err != nil {
		t.Fatalf("NewFIR: %v", err)
	}

	if _, err := Symmetry(m, Unbounded); !errors.Is(err, ErrNotSymmetric) {
		t.Fatalf("err = %v, want ErrNotSymmetric", err)
	}
}

func TestSymmetry_RejectsIIR(t *testing.T) {
	m, err := filter.NewIIR([]float64{1}, []float64{1, -0.5}, 8000)
	if err != nil {
		t.Fatalf("NewIIR: %v", err)
	}

	if _, err := Symmetry(m, Unbounded); !errors.Is(err, ErrNotFIR) {
		t.Fatalf("err = %v, want ErrNotFIR", err)
	}
}

func TestSymmetry_HonorsOperationBudget(t *testing.T) {
	m, _ := designLowpass(t)

	_, err := Symmetry(m, Budget{MaxOperationCount: 1})

	var budgetErr *BudgetExceededError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("err = %v, want *BudgetExceededError", err)
	}
	if budgetErr.Technique != filter.TechniqueSymmetry {
		t.Fatalf("technique = %s, want Symmetry", budgetErr.Technique)
	}
	if budgetErr.PassbandDeltaDB != 0 || budgetErr.StopbandDeltaDB != 0 {
		t.Fatalf("lossless fold reports deltas %v / %v",
			budgetErr.PassbandDeltaDB, budgetErr.StopbandDeltaDB)
	}
}
