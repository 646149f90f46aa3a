package solver

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/notargets/BEMKernel/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeSurfaceElevation(t *testing.T) {
	p, err := NewRadiationProblem(sphereBody(t, true), "Heave")
	require.NoError(t, err)
	r, err := newSolver(t).Solve(p, true)
	require.NoError(t, err)

	points := []mesh.Vec3{{X: -50, Y: -50, Z: 0}, {X: -25, Y: -50, Z: 0}, {X: 0, Y: -50, Z: 0}, {X: -25, Y: -25, Z: 0}, {X: 0, Y: -25, Z: 0}}
	want := []complex128{
		complex(-4.244e-3, -4.49e-4),
		complex(-7.86e-4, 4.754e-3),
		complex(2.158e-3, 4.617e-3),
		complex(5.61e-3, -2.114e-3),
		complex(9.38e-4, -6.913e-3),
	}
	eta, err := FreeSurfaceElevation(r, points)
	require.NoError(t, err)
	require.Len(t, eta, len(points))
	for k := range points {
		assert.Less(t, cmplx.Abs(eta[k]-want[k]), 0.02*cmplx.Abs(want[k]), "at %v: %v", points[k], eta[k])
	}
	ref := complex(-4.3408e-3, -4.7428e-4)
	assert.Less(t, cmplx.Abs(eta[0]-ref), 0.05*cmplx.Abs(ref))
}

func TestFreeSurfaceElevationDecays(t *testing.T) {
	p, err := NewRadiationProblem(sphereBody(t, true), "Heave")
	require.NoError(t, err)
	r, err := newSolver(t).Solve(p, true)
	require.NoError(t, err)
	var points []mesh.Vec3
	for _, R := range []float64{5, 20, 80, 320} {
		points = append(points, mesh.Vec3{X: R, Y: 0, Z: 0})
	}
	points = append(points, mesh.Vec3{X: 0.2, Y: 0.1, Z: 0})
	eta, err := FreeSurfaceElevation(r, points)
	require.NoError(t, err)
	for k, e := range eta {
		assert.False(t, cmplx.IsNaN(e) || cmplx.IsInf(e), "point %v", points[k])
	}
	for k := 1; k < 4; k++ {
		assert.Less(t, cmplx.Abs(eta[k]), cmplx.Abs(eta[k-1]), "R=%g", points[k].X)
	}
	// cylindrical spreading, |η|·√R tends to a constant
	a, b := cmplx.Abs(eta[2])*math.Sqrt(80), cmplx.Abs(eta[3])*math.Sqrt(320)
	assert.InEpsilon(t, a, b, 0.05)
}

func TestFreeSurfaceElevationNeedsDetails(t *testing.T) {
	s := newSolver(t)
	b := sphereBody(t, true)
	r := solveRadiation(t, s, b, "Heave")
	_, err := FreeSurfaceElevation(r, []mesh.Vec3{{X: 10, Y: 0, Z: 0}})
	assert.True(t, errors.Is(err, ErrMissingDetails))

	p, err := NewRadiationProblem(b, "Heave", WithoutFreeSurface())
	require.NoError(t, err)
	r, err = s.Solve(p, true)
	require.NoError(t, err)
	_, err = FreeSurfaceElevation(r, []mesh.Vec3{{X: 10, Y: 0, Z: 0}})
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestDiffractedAndIncidentWaves(t *testing.T) {
	p, err := NewDiffractionProblem(sphereBody(t, true), math.Pi/4, WithDepth(20))
	require.NoError(t, err)
	r, err := newSolver(t).Solve(p, true)
	require.NoError(t, err)
	points, err := FreeSurfaceGrid(40, 40, 2, 2)
	require.NoError(t, err)
	incident, err := IncidentWaveElevation(p, points)
	require.NoError(t, err)
	diffracted, err := FreeSurfaceElevation(r, points)
	require.NoError(t, err)
	for k := range points {
		assert.InDelta(t, 1, cmplx.Abs(incident[k]), 1e-12)
		// a small body barely disturbs a long wave
		assert.Less(t, cmplx.Abs(diffracted[k]), 0.2)
	}
	_, err = IncidentWaveElevation(&Problem{Kind: Radiation}, points)
	assert.Error(t, err)
}

func TestFreeSurfaceGrid(t *testing.T) {
	pts, err := FreeSurfaceGrid(10, 40, 3, 5)
	require.NoError(t, err)
	require.Len(t, pts, 15)
	assert.Equal(t, mesh.Vec3{X: -20, Y: -5, Z: 0}, pts[0])
	assert.Equal(t, mesh.Vec3{X: -10, Y: -5, Z: 0}, pts[1])
	assert.Equal(t, mesh.Vec3{X: 20, Y: 5, Z: 0}, pts[14])

	_, err = FreeSurfaceGrid(10, 40, 1, 5)
	assert.True(t, errors.Is(err, ErrConfiguration))
	_, err = FreeSurfaceGrid(0, 40, 3, 5)
	assert.True(t, errors.Is(err, ErrConfiguration))
}
