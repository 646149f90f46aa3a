package utils

import (
	"math"
	"testing"

	"github.com/notargets/BEMKernel/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSphere(t *testing.T) {
	center := mesh.Vec3{X: 0.5, Y: -1, Z: -3}
	m, err := Sphere(SphereParams{Radius: 1, Center: center, NTheta: 12, NPhi: 24})
	require.NoError(t, err)
	assert.Equal(t, 12*24, m.Len())
	assert.InDelta(t, 4*math.Pi/3, m.Volume(), 0.05*4*math.Pi/3)
	for i := 0; i < m.Len(); i++ {
		p := m.Panel(i)
		assert.Greater(t, p.Normal.Dot(p.Center.Sub(center)), 0.9, "panel %d", i)
	}
	// pole panels are triangles
	assert.Len(t, m.Panel(0).Vertices, 3)
	assert.Len(t, m.Panel(m.Len()-1).Vertices, 3)
}

func TestClippedSphere(t *testing.T) {
	m, err := Sphere(SphereParams{Radius: 1, NTheta: 6, NPhi: 12, Clip: true})
	require.NoError(t, err)
	for i := 0; i < m.Len(); i++ {
		for _, v := range m.Panel(i).Vertices {
			assert.LessOrEqual(t, v.Z, 1e-12)
		}
	}
	assert.InDelta(t, 2*math.Pi/3, m.Volume(), 0.08*2*math.Pi/3)

	_, err = Sphere(SphereParams{Radius: 1, Center: mesh.Vec3{X: 0, Y: 0, Z: -2}, NTheta: 4, NPhi: 8, Clip: true})
	assert.Error(t, err)
	_, err = Sphere(SphereParams{Radius: 1, NTheta: 4, NPhi: 2})
	assert.Error(t, err)
}

func TestSymmetricSphere(t *testing.T) {
	sp := SphereParams{Radius: 1, NTheta: 6, NPhi: 12, Clip: true}
	full, err := Sphere(sp)
	require.NoError(t, err)
	sym, err := SymmetricSphere(sp)
	require.NoError(t, err)
	require.NotNil(t, sym.Symmetry())
	assert.Equal(t, full.Len(), sym.Len())
	assert.Equal(t, full.Len()/2, sym.Symmetry().Half)
	assert.InDelta(t, full.Volume(), sym.Volume(), 1e-12)
	for i := 0; i < sym.Symmetry().Half; i++ {
		p, q := sym.Panel(i), sym.Panel(sym.Symmetry().Mirror(i))
		assert.InDelta(t, p.Center.Y, -q.Center.Y, 1e-12)
		assert.InDelta(t, p.Normal.Y, -q.Normal.Y, 1e-12)
		assert.InDelta(t, p.Area, q.Area, 1e-15)
	}
	assert.NotEqual(t, full.Hash(), sym.Hash())

	sp.NPhi = 11
	_, err = SymmetricSphere(sp)
	assert.Error(t, err)
}

func TestHorizontalCylinder(t *testing.T) {
	cp := CylinderParams{Length: 4, Radius: 0.5, Center: mesh.Vec3{X: 0, Y: 0, Z: -2}, NX: 8, NTheta: 24}
	m, err := HorizontalCylinder(cp)
	require.NoError(t, err)
	assert.Equal(t, 8*24+2*24, m.Len())
	exact := math.Pi * 0.25 * 4
	assert.InDelta(t, exact, m.Volume(), 0.03*exact)
	for i := 0; i < m.Len(); i++ {
		p := m.Panel(i)
		d := p.Center.Sub(cp.Center)
		if math.Abs(math.Abs(d.X)-2) < 1e-12 {
			assert.InDelta(t, math.Copysign(1, d.X), p.Normal.X, 1e-12, "cap panel %d", i)
			continue
		}
		d.X = 0
		assert.Greater(t, p.Normal.Dot(d), 0.0, "hull panel %d", i)
	}

	cp.Clip = true
	_, err = HorizontalCylinder(cp)
	assert.Error(t, err)
	cp.Center = mesh.Vec3{}
	m, err = HorizontalCylinder(cp)
	require.NoError(t, err)
	assert.InDelta(t, exact/2, m.Volume(), 0.03*exact/2)
}
