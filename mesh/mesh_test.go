package mesh

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSquare is the square [0,1]x[0,1] at height z, normal +z.
func unitSquare(t *testing.T, z float64) Panel {
	p, err := NewPanel(Vec3{0, 0, z}, Vec3{1, 0, z}, Vec3{1, 1, z}, Vec3{0, 1, z})
	require.NoError(t, err)
	return p
}

func components(v Vec3) []float64 {
	c := v.Components()
	return c[:]
}

func TestNewPanel(t *testing.T) {
	p := unitSquare(t, -1)
	assert.InDelta(t, 1.0, p.Area, 1e-15)
	assert.Equal(t, Vec3{0, 0, 1}, p.Normal)
	assert.InDeltaSlice(t, []float64{0.5, 0.5, -1}, components(p.Center), 1e-15)
	assert.InDelta(t, math.Sqrt(0.5), p.Radius(), 1e-15)

	// a triangle stored as a quad
	tri, err := NewPanel(Vec3{0, 0, 0}, Vec3{0, 0, 0}, Vec3{3, 0, 0}, Vec3{0, 3, 0})
	require.NoError(t, err)
	assert.Len(t, tri.Vertices, 3)
	assert.InDelta(t, 4.5, tri.Area, 1e-14)
	assert.InDeltaSlice(t, []float64{1, 1, 0}, components(tri.Center), 1e-14)

	_, err = NewPanel(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{2, 0, 0})
	assert.True(t, errors.Is(err, ErrGeometry))
	_, err = NewPanel(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 0, 0})
	assert.True(t, errors.Is(err, ErrGeometry))
}

func TestNewMeshValidation(t *testing.T) {
	good := unitSquare(t, -1)
	_, err := NewMesh(nil)
	assert.True(t, errors.Is(err, ErrGeometry))

	cases := map[string]Panel{
		"zero area":    {Center: Vec3{0, 0, -1}, Normal: Vec3{0, 0, 1}, Area: 0},
		"long normal":  {Center: Vec3{0, 0, -1}, Normal: Vec3{0, 0, 2}, Area: 1},
		"nan center":   {Center: Vec3{math.NaN(), 0, -1}, Normal: Vec3{0, 0, 1}, Area: 1},
		"two vertices": {Center: Vec3{0, 0, -1}, Normal: Vec3{0, 0, 1}, Area: 1, Vertices: []Vec3{{0, 0, -1}, {1, 0, -1}}},
		"flipped": {Center: good.Center, Normal: Vec3{0, 0, -1}, Area: 1,
			Vertices: good.Vertices},
	}
	for name, bad := range cases {
		_, err := NewMesh([]Panel{good, bad})
		require.Error(t, err, name)
		var ge *GeometryError
		require.True(t, errors.As(err, &ge), name)
		assert.Equal(t, 1, ge.Panel, name)
		assert.True(t, errors.Is(err, ErrGeometry), name)
	}

	// panels without vertices are accepted
	m, err := NewMesh([]Panel{{Center: Vec3{0, 0, -1}, Normal: Vec3{0, 0, 1}, Area: 0.5}})
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.5/math.Pi), m.Panel(0).Radius(), 1e-15)
}

func TestNewMeshFromFaces(t *testing.T) {
	verts := []Vec3{{0, 0, -1}, {1, 0, -1}, {1, 1, -1}, {0, 1, -1}, {2, 0, -1}}
	m, err := NewMeshFromFaces(verts, [][]int{{0, 1, 2, 3}, {1, 4, 2, 2}})
	require.NoError(t, err)
	assert.Equal(t, 2, m.Len())
	assert.InDeltaSlice(t, []float64{1, 0.5}, m.Areas(), 1e-15)

	_, err = NewMeshFromFaces(verts, [][]int{{0, 1, 7}})
	var ge *GeometryError
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, 0, ge.Panel)

	_, err = NewMeshFromFaces(verts, [][]int{{0, 1, 2}, {0, 1, 4}})
	require.True(t, errors.As(err, &ge))
	assert.Equal(t, 1, ge.Panel)
}

func TestMeshIsACopy(t *testing.T) {
	p := unitSquare(t, -1)
	panels := []Panel{p}
	m, err := NewMesh(panels)
	require.NoError(t, err)
	h := m.Hash()
	panels[0].Vertices[0] = Vec3{9, 9, 9}
	assert.Equal(t, Vec3{0, 0, -1}, m.Panel(0).Vertices[0])
	assert.Equal(t, h, m.Hash())

	// panels handed out do not alias the mesh
	q := m.Panel(0)
	q.Vertices[0] = Vec3{7, 7, 7}
	assert.Equal(t, Vec3{0, 0, -1}, m.Panel(0).Vertices[0])
	assert.Equal(t, h, m.Hash())
}

func TestHash(t *testing.T) {
	a, err := NewMesh([]Panel{unitSquare(t, -1)})
	require.NoError(t, err)
	b, err := NewMesh([]Panel{unitSquare(t, -1)})
	require.NoError(t, err)
	c, err := NewMesh([]Panel{unitSquare(t, -1.5)})
	require.NoError(t, err)
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())
	assert.Len(t, a.Hash().String(), 16)
	assert.Equal(t, c.Hash(), a.Translate(Vec3{0, 0, -0.5}).Hash())
}

func TestVolumeOfCube(t *testing.T) {
	// unit cube [0,1]^2 x [-1,0]
	v := []Vec3{
		{0, 0, -1}, {1, 0, -1}, {1, 1, -1}, {0, 1, -1},
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
	}
	faces := [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7},
	}
	m, err := NewMeshFromFaces(v, faces)
	require.NoError(t, err)
	assert.InDelta(t, 1, m.Volume(), 1e-14)
	moved := m.Translate(Vec3{3, 0, -2})
	assert.InDelta(t, 1, moved.Volume(), 1e-14)
	assert.InDeltaSlice(t, []float64{3.5, 0.5, -3}, components(moved.Panel(0).Center), 1e-14)
	for i := 0; i < m.Len(); i++ {
		c := m.Panel(i).Center.Sub(Vec3{0.5, 0.5, -0.5})
		assert.InDelta(t, 0.5, c.Dot(m.Panel(i).Normal), 1e-14, "face %d", i)
	}
}

func TestJoin(t *testing.T) {
	a, err := NewMesh([]Panel{unitSquare(t, -1), unitSquare(t, -2)})
	require.NoError(t, err)
	b, err := NewMesh([]Panel{unitSquare(t, -3)})
	require.NoError(t, err)
	j, ranges := Join(a, b)
	assert.Equal(t, 3, j.Len())
	assert.Equal(t, []Range{{0, 2}, {2, 3}}, ranges)
	assert.Equal(t, 1, ranges[1].Len())
	assert.Equal(t, -3.0, j.Panel(2).Center.Z)
}

func TestSymmetric(t *testing.T) {
	p, err := NewPanel(Vec3{0, 0.5, -1}, Vec3{1, 0.5, -1}, Vec3{1, 1.5, -1.5}, Vec3{0, 1.5, -1.5})
	require.NoError(t, err)
	half, err := NewMesh([]Panel{p})
	require.NoError(t, err)
	m, err := Symmetric(half, XOZ)
	require.NoError(t, err)
	require.Equal(t, 2, m.Len())
	s := m.Symmetry()
	require.NotNil(t, s)
	assert.Equal(t, 1, s.Half)
	assert.Equal(t, 1, s.Mirror(0))
	assert.Equal(t, 0, s.Mirror(1))

	q := m.Panel(1)
	assert.InDelta(t, -p.Center.Y, q.Center.Y, 1e-15)
	assert.InDelta(t, -p.Normal.Y, q.Normal.Y, 1e-15)
	assert.InDelta(t, p.Normal.Z, q.Normal.Z, 1e-15)
	// the mirrored polygon is still consistent with its normal
	_, err = NewMesh([]Panel{q})
	assert.NoError(t, err)

	flat := m.Flatten()
	assert.Nil(t, flat.Symmetry())
	assert.NotEqual(t, m.Hash(), flat.Hash())
	assert.Equal(t, m.Panel(1), flat.Panel(1))

	_, err = Symmetric(half, Plane{Normal: Vec3{0, 0, 1}})
	assert.True(t, errors.Is(err, ErrGeometry))
	_, err = Symmetric(half, Plane{Normal: Vec3{0, 2, 0}})
	assert.True(t, errors.Is(err, ErrGeometry))

	assert.NotNil(t, m.Translate(Vec3{1, 0, -1}).Symmetry())
	assert.Nil(t, m.Translate(Vec3{0, 1, 0}).Symmetry())
}

func TestPlaneReflection(t *testing.T) {
	pl := Plane{Normal: Vec3{1, 0, 0}, Offset: 2}
	assert.Equal(t, Vec3{5, 1, -1}, pl.ReflectPoint(Vec3{-1, 1, -1}))
	assert.Equal(t, Vec3{-1, 1, 0}, pl.ReflectDirection(Vec3{1, 1, 0}))
}

func TestMirror(t *testing.T) {
	m, err := NewMesh([]Panel{unitSquare(t, -1)})
	require.NoError(t, err)
	img := m.Mirror(YOZ)
	assert.Nil(t, img.Symmetry())
	q := img.Panel(0)
	assert.InDelta(t, -0.5, q.Center.X, 1e-15)
	assert.InDelta(t, 0.5, q.Center.Y, 1e-15)
	assert.InDelta(t, 1, q.Normal.Z, 1e-15)
	assert.Equal(t, m.Panel(0).Area, q.Area)
	_, err = NewMesh([]Panel{q})
	assert.NoError(t, err)
	assert.NotEqual(t, m.Hash(), img.Hash())
}
