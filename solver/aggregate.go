package solver

import (
	"fmt"
	"math"
	"sort"
)

// RadiationMatrices are added mass and damping indexed
// [frequency][measured DOF][radiating DOF], frequencies ascending and DOFs
// in the body's declaration order. Entries of radiating DOFs that were not
// solved at a frequency are NaN.
type RadiationMatrices struct {
	Omegas    []float64
	DOFNames  []string
	AddedMass [][][]float64
	Damping   [][][]float64
}

// AssembleRadiationResults groups single-DOF radiation results of one body
// by frequency. All results must share the body and the environment
// other than ω.
func AssembleRadiationResults(results []*Result) (*RadiationMatrices, error) {
	if len(results) == 0 {
		return nil, configErrorf("results", "nothing to assemble")
	}
	ref := results[0].Problem
	names := results[0].DOFNames
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	byOmega := make(map[float64][]*Result)
	for k, r := range results {
		p := r.Problem
		switch {
		case p.Kind != Radiation:
			return nil, configErrorf(fmt.Sprintf("results[%d]", k), "%v is not a radiation problem", p)
		case p.Body != ref.Body:
			return nil, configErrorf(fmt.Sprintf("results[%d]", k), "body %q differs from %q", p.Body.Name, ref.Body.Name)
		case !sameNames(r.DOFNames, names):
			return nil, configErrorf(fmt.Sprintf("results[%d]", k), "DOFs %v differ from %v", r.DOFNames, names)
		case p.Rho != ref.Rho || p.Gravity != ref.Gravity || p.Depth != ref.Depth || p.FreeSurface != ref.FreeSurface:
			return nil, configErrorf(fmt.Sprintf("results[%d]", k), "environment of %v differs from %v", p, ref)
		}
		byOmega[p.Omega] = append(byOmega[p.Omega], r)
	}

	out := &RadiationMatrices{DOFNames: append([]string(nil), names...)}
	for w := range byOmega {
		out.Omegas = append(out.Omegas, w)
	}
	sort.Float64s(out.Omegas)
	n := len(names)
	for _, w := range out.Omegas {
		am, bd := nanMatrix(n), nanMatrix(n)
		for _, r := range byOmega[w] {
			j := index[r.Problem.RadiatingDOF]
			if !math.IsNaN(am[0][j]) {
				return nil, configErrorf("results", "DOF %s radiated twice at ω=%g", r.Problem.RadiatingDOF, w)
			}
			for i, name := range names {
				am[i][j] = r.AddedMasses[name]
				bd[i][j] = r.RadiationDampings[name]
			}
		}
		out.AddedMass = append(out.AddedMass, am)
		out.Damping = append(out.Damping, bd)
	}
	return out, nil
}

func sameNames(a, b []string) bool {
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

func nanMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = math.NaN()
		}
	}
	return m
}
