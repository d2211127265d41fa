package design

import "fmt"

// InvalidSpecError reports a request that violates a structural constraint.
// The request is never silently repaired.
type InvalidSpecError struct {
	Field  string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("design: invalid spec: %s: %s", e.Field, e.Reason)
}

// InfeasibleSpecError reports a spec that no filter within the order bound
// can satisfy. It carries the figures the best attempt achieved so the
// caller can decide whether to relax the spec.
type InfeasibleSpecError struct {
	MaxOrder int

	// AchievedRippleDB and AchievedAttenuationDB describe the response of
	// the best design within MaxOrder.
	AchievedRippleDB      float64
	AchievedAttenuationDB float64
}

func (e *InfeasibleSpecError) Error() string {
	return fmt.Sprintf(
		"design: spec infeasible within order %d (achieved ripple %.3f dB, attenuation %.1f dB)",
		e.MaxOrder, e.AchievedRippleDB, e.AchievedAttenuationDB)
}
