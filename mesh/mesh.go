package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Hash is a value-based digest of the panel content of a mesh. Two meshes
// with identical panels hash identically regardless of object identity.
type Hash [blake2b.Size256]byte

func (h Hash) String() string { return fmt.Sprintf("%x", h[:8]) }

// Range is a half-open interval of panel indices [Start, End).
type Range struct {
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }

// Mesh is an immutable, ordered set of panels.
type Mesh struct {
	panels   []Panel
	hash     Hash
	symmetry *Reflection
}

// NewMesh validates the panels and returns an immutable mesh owning a copy.
func NewMesh(panels []Panel) (*Mesh, error) {
	if len(panels) == 0 {
		return nil, geometryErrorf(-1, "mesh has no panels")
	}
	pp := make([]Panel, len(panels))
	for i, p := range panels {
		if err := p.validate(i); err != nil {
			return nil, err
		}
		p.Vertices = append([]Vec3(nil), p.Vertices...)
		pp[i] = p
	}
	m := &Mesh{panels: pp}
	m.hash = m.computeHash()
	return m, nil
}

// NewMeshFromFaces builds panels from a vertex table and faces given as
// indices into it. Faces with a repeated last index are triangles.
func NewMeshFromFaces(vertices []Vec3, faces [][]int) (*Mesh, error) {
	panels := make([]Panel, len(faces))
	for i, f := range faces {
		verts := make([]Vec3, len(f))
		for k, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, geometryErrorf(i, "vertex index %d out of range", idx)
			}
			verts[k] = vertices[idx]
		}
		p, err := NewPanel(verts...)
		if err != nil {
			var ge *GeometryError
			if errors.As(err, &ge) {
				return nil, &GeometryError{Panel: i, Reason: ge.Reason}
			}
			return nil, err
		}
		panels[i] = p
	}
	return NewMesh(panels)
}

func (m *Mesh) Len() int { return len(m.panels) }

// Panel returns a copy of panel i.
func (m *Mesh) Panel(i int) Panel {
	p := m.panels[i]
	p.Vertices = append([]Vec3(nil), p.Vertices...)
	return p
}

func (m *Mesh) Hash() Hash { return m.hash }

// Symmetry returns the reflection descriptor, or nil for an unreflected mesh.
func (m *Mesh) Symmetry() *Reflection { return m.symmetry }

func (m *Mesh) Centers() []Vec3 {
	c := make([]Vec3, len(m.panels))
	for i, p := range m.panels {
		c[i] = p.Center
	}
	return c
}

func (m *Mesh) Normals() []Vec3 {
	n := make([]Vec3, len(m.panels))
	for i, p := range m.panels {
		n[i] = p.Normal
	}
	return n
}

func (m *Mesh) Areas() []float64 {
	a := make([]float64, len(m.panels))
	for i, p := range m.panels {
		a[i] = p.Area
	}
	return a
}

// Volume estimates the enclosed volume by the divergence theorem using the
// vertical component, Σ z·n_z·A. For a body clipped by the free surface the
// missing waterplane lid contributes nothing at z = 0.
func (m *Mesh) Volume() float64 {
	var v float64
	for _, p := range m.panels {
		v += p.Center.Z * p.Normal.Z * p.Area
	}
	return math.Abs(v)
}

// Translate returns a copy of the mesh moved by d. The symmetry descriptor is
// kept only if the translation lies in the mirror plane.
func (m *Mesh) Translate(d Vec3) *Mesh {
	pp := make([]Panel, len(m.panels))
	for i, p := range m.panels {
		q := Panel{Center: p.Center.Add(d), Normal: p.Normal, Area: p.Area}
		if len(p.Vertices) > 0 {
			q.Vertices = make([]Vec3, len(p.Vertices))
			for k, v := range p.Vertices {
				q.Vertices[k] = v.Add(d)
			}
		}
		pp[i] = q
	}
	out := &Mesh{panels: pp}
	if m.symmetry != nil && math.Abs(d.Dot(m.symmetry.Plane.Normal)) < 1e-12 {
		s := *m.symmetry
		out.symmetry = &s
	}
	out.hash = out.computeHash()
	return out
}

// Join concatenates meshes into one flat arena. The returned ranges record
// which panels came from which input.
func Join(meshes ...*Mesh) (*Mesh, []Range) {
	var (
		pp     []Panel
		ranges = make([]Range, len(meshes))
	)
	for k, m := range meshes {
		ranges[k].Start = len(pp)
		pp = append(pp, m.panels...)
		ranges[k].End = len(pp)
	}
	out := &Mesh{panels: pp}
	out.hash = out.computeHash()
	return out, ranges
}

func (m *Mesh) computeHash() Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	var buf [8]byte
	put := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	putVec := func(v Vec3) {
		put(v.X)
		put(v.Y)
		put(v.Z)
	}
	for _, p := range m.panels {
		putVec(p.Center)
		putVec(p.Normal)
		put(p.Area)
		put(float64(len(p.Vertices)))
		for _, v := range p.Vertices {
			putVec(v)
		}
	}
	if m.symmetry != nil {
		putVec(m.symmetry.Plane.Normal)
		put(m.symmetry.Plane.Offset)
		put(float64(m.symmetry.Half))
	}
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// String returns a short summary of the mesh
func (m *Mesh) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Mesh %s: %d panels", m.hash, len(m.panels)))
	if m.symmetry != nil {
		sb.WriteString(fmt.Sprintf(", mirrored about %v (half = %d)", m.symmetry.Plane.Normal, m.symmetry.Half))
	}
	zmin, zmax := math.Inf(1), math.Inf(-1)
	for _, p := range m.panels {
		zmin = math.Min(zmin, p.Center.Z)
		zmax = math.Max(zmax, p.Center.Z)
	}
	sb.WriteString(fmt.Sprintf(", centers z in [%.4f, %.4f]", zmin, zmax))
	return sb.String()
}
