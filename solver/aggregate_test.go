package solver

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleRadiationResults(t *testing.T) {
	b := sphereBody(t, true)
	var problems []*Problem
	for _, omega := range []float64{1, 0.5} {
		for _, dof := range []string{"Heave", "Surge"} {
			p, err := NewRadiationProblem(b, dof, WithOmega(omega))
			require.NoError(t, err)
			problems = append(problems, p)
		}
	}
	s := newSolver(t)
	results, err := s.SolveAll(context.Background(), problems, 2, false)
	require.NoError(t, err)

	rm, err := AssembleRadiationResults(results)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1}, rm.Omegas)
	assert.Equal(t, []string{"Surge", "Heave"}, rm.DOFNames)
	require.Len(t, rm.AddedMass, 2)
	require.Len(t, rm.AddedMass[1], 2)
	// [ω=1][Heave][Heave]
	assert.Equal(t, results[0].AddedMasses["Heave"], rm.AddedMass[1][1][1])
	assert.Equal(t, results[0].RadiationDampings["Surge"], rm.Damping[1][0][1])
	// [ω=0.5][Heave][Surge]
	assert.Equal(t, results[3].AddedMasses["Heave"], rm.AddedMass[0][1][0])
	for _, am := range rm.AddedMass {
		for i := range am {
			assert.Greater(t, am[i][i], 0.0)
		}
	}

	// a missing radiating DOF leaves a NaN column
	rm, err = AssembleRadiationResults(results[:1])
	require.NoError(t, err)
	assert.True(t, math.IsNaN(rm.AddedMass[0][0][0]))
	assert.False(t, math.IsNaN(rm.AddedMass[0][0][1]))
}

func TestAssembleRadiationResultsMismatch(t *testing.T) {
	s := newSolver(t)
	b := sphereBody(t, true)
	heave := solveRadiation(t, s, b, "Heave")
	other := solveRadiation(t, s, sphereBody(t, true), "Heave")
	dense := solveRadiation(t, s, b, "Surge", WithRho(1025))

	p, err := NewDiffractionProblem(b, 0)
	require.NoError(t, err)
	diff, err := s.Solve(p, false)
	require.NoError(t, err)

	for name, rs := range map[string][]*Result{
		"empty":       nil,
		"body":        {heave, other},
		"environment": {heave, dense},
		"diffraction": {heave, diff},
		"duplicate":   {heave, heave},
	} {
		_, err := AssembleRadiationResults(rs)
		assert.True(t, errors.Is(err, ErrConfiguration), name)
	}
}
