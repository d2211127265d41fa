package filter

import "fmt"

// Family identifies the filter realization family.
type Family int

const (
	// FamilyFIR is a finite impulse response filter (feedforward only).
	FamilyFIR Family = iota
	// FamilyIIR is an infinite impulse response filter (with feedback).
	FamilyIIR

	familyCount // sentinel for validation
)

var familyNames = [familyCount]string{"FIR", "IIR"}

// String returns the name of the family.
func (f Family) String() string {
	if f >= 0 && f < familyCount {
		return familyNames[f]
	}
	return fmt.Sprintf("Family(%d)", f)
}

// Valid reports whether f is a known family.
func (f Family) Valid() bool {
	return f >= 0 && f < familyCount
}

// Structure identifies how a model's arithmetic is realized.
type Structure int

const (
	// StructureDirect is a direct-form tap or transfer-function evaluation.
	StructureDirect Structure = iota
	// StructureFolded folds symmetric FIR taps to halve the multiply count.
	StructureFolded
	// StructureShiftAdd replaces multiplies by signed power-of-two additions.
	StructureShiftAdd
	// StructureCascade realizes an IIR filter as second-order sections.
	StructureCascade

	structureCount // sentinel for validation
)

var structureNames = [structureCount]string{
	"Direct", "Folded", "ShiftAdd", "Cascade",
}

// String returns the name of the structure.
func (s Structure) String() string {
	if s >= 0 && s < structureCount {
		return structureNames[s]
	}
	return fmt.Sprintf("Structure(%d)", s)
}

// Technique identifies an optimization transform.
type Technique int

const (
	// TechniqueSymmetry folds linear-phase FIR taps (lossless).
	TechniqueSymmetry Technique = iota
	// TechniqueQuantize rounds coefficients to a fixed-point grid.
	TechniqueQuantize
	// TechniqueBiquadCascade factors an IIR transfer function into
	// second-order sections (lossless up to round-off).
	TechniqueBiquadCascade
	// TechniqueMultiplierless approximates coefficients by sums of
	// signed powers of two.
	TechniqueMultiplierless
	// TechniquePrune drops taps below a relative magnitude threshold.
	TechniquePrune
	// TechniqueComposite is an ordered combination of techniques.
	TechniqueComposite

	techniqueCount // sentinel for validation
)

var techniqueNames = [techniqueCount]string{
	"Symmetry", "Quantize", "BiquadCascade", "Multiplierless", "Prune", "Composite",
}

// String returns the name of the technique.
func (t Technique) String() string {
	if t >= 0 && t < techniqueCount {
		return techniqueNames[t]
	}
	return fmt.Sprintf("Technique(%d)", t)
}

// Valid reports whether t is a known technique.
func (t Technique) Valid() bool {
	return t >= 0 && t < techniqueCount
}
