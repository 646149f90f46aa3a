package solver

import (
	"fmt"
	"strings"

	"github.com/notargets/BEMKernel/green"
)

// Result holds the coefficients of one solved problem, keyed by DOF name
// and listed in the body's declaration order in DOFNames.
//
// For a radiation problem with unit velocity amplitude of the radiating DOF,
// AddedMasses and RadiationDampings give one row of the added mass and
// damping matrices. For a diffraction problem Forces is the force due to the
// diffracted wave and FroudeKrylovForces the force due to the undisturbed
// incident wave, per unit wave amplitude.
type Result struct {
	Problem  *Problem
	DOFNames []string

	AddedMasses       map[string]float64
	RadiationDampings map[string]float64

	Forces             map[string]complex128
	FroudeKrylovForces map[string]complex128

	// Kept only when details are requested
	Sources   []complex128 // panel source strengths σ
	Potential []complex128 // potential at panel centers

	Condition float64 // condition estimate of the solved system
	Residual  float64 // relative residual ||D·σ - b|| / ||b||

	greenOpts green.Options
}

// KeptDetails reports whether Sources and Potential were retained.
func (r *Result) KeptDetails() bool { return r.Sources != nil }

// ExcitationForces returns the total wave excitation, diffraction plus
// Froude-Krylov, for a diffraction result.
func (r *Result) ExcitationForces() map[string]complex128 {
	if r.Problem.Kind != Diffraction {
		return nil
	}
	out := make(map[string]complex128, len(r.Forces))
	for name, f := range r.Forces {
		out[name] = f + r.FroudeKrylovForces[name]
	}
	return out
}

func (r *Result) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Result of %v\n", r.Problem))
	for _, name := range r.DOFNames {
		switch r.Problem.Kind {
		case Radiation:
			sb.WriteString(fmt.Sprintf("  %-12s added mass %12.6g  damping %12.6g\n",
				name, r.AddedMasses[name], r.RadiationDampings[name]))
		case Diffraction:
			sb.WriteString(fmt.Sprintf("  %-12s force %v\n", name, r.Forces[name]))
		}
	}
	return sb.String()
}
