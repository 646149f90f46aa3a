package body

import (
	"errors"
	"fmt"

	"github.com/notargets/BEMKernel/mesh"
)

// ErrDOF is matched by every invalid DOF declaration.
var ErrDOF = errors.New("body: invalid degree of freedom")

// DOF is a named generalized motion stored as the normal component of its
// velocity field on every panel.
type DOF struct {
	Name   string
	Normal []float64
}

// Body is a mesh plus its degrees of freedom in declaration order. Bodies
// are assembled by the caller before solving and never mutated by the solver.
type Body struct {
	Name string
	Mesh *mesh.Mesh

	dofs    []DOF
	byName  map[string]int
	ranges  []mesh.Range // provenance of panels for joined bodies
	members []string
}

func New(name string, m *mesh.Mesh) *Body {
	return &Body{
		Name:   name,
		Mesh:   m,
		byName: make(map[string]int),
		ranges: []mesh.Range{{Start: 0, End: m.Len()}},
	}
}

// AddDOF declares a DOF from a per-panel normal velocity field.
func (b *Body) AddDOF(name string, normal []float64) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrDOF)
	}
	if _, ok := b.byName[name]; ok {
		return fmt.Errorf("%w: %q declared twice", ErrDOF, name)
	}
	if len(normal) != b.Mesh.Len() {
		return fmt.Errorf("%w: %q has %d values for %d panels", ErrDOF, name, len(normal), b.Mesh.Len())
	}
	b.byName[name] = len(b.dofs)
	b.dofs = append(b.dofs, DOF{Name: name, Normal: append([]float64(nil), normal...)})
	return nil
}

// AddVectorDOF declares a DOF from a 3-vector velocity per panel, projected
// onto the panel normals.
func (b *Body) AddVectorDOF(name string, velocity []mesh.Vec3) error {
	if len(velocity) != b.Mesh.Len() {
		return fmt.Errorf("%w: %q has %d vectors for %d panels", ErrDOF, name, len(velocity), b.Mesh.Len())
	}
	normal := make([]float64, len(velocity))
	for i, v := range velocity {
		normal[i] = v.Dot(b.Mesh.Panel(i).Normal)
	}
	return b.AddDOF(name, normal)
}

// AddTranslationDOF declares a rigid translation along direction.
func (b *Body) AddTranslationDOF(name string, direction mesh.Vec3) error {
	d := direction.Unit()
	if d == (mesh.Vec3{}) {
		return fmt.Errorf("%w: %q has a zero direction", ErrDOF, name)
	}
	v := make([]mesh.Vec3, b.Mesh.Len())
	for i := range v {
		v[i] = d
	}
	return b.AddVectorDOF(name, v)
}

// AddRotationDOF declares a rigid rotation about the axis through point.
func (b *Body) AddRotationDOF(name string, point, axis mesh.Vec3) error {
	a := axis.Unit()
	if a == (mesh.Vec3{}) {
		return fmt.Errorf("%w: %q has a zero axis", ErrDOF, name)
	}
	v := make([]mesh.Vec3, b.Mesh.Len())
	for i := range v {
		v[i] = a.Cross(b.Mesh.Panel(i).Center.Sub(point))
	}
	return b.AddVectorDOF(name, v)
}

// AddRigidBodyDOFs declares the six rigid-body motions, Surge, Sway, Heave
// and Roll, Pitch, Yaw about axes through center.
func (b *Body) AddRigidBodyDOFs(center mesh.Vec3) error {
	axes := []mesh.Vec3{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	for k, name := range []string{"Surge", "Sway", "Heave"} {
		if err := b.AddTranslationDOF(name, axes[k]); err != nil {
			return err
		}
	}
	for k, name := range []string{"Roll", "Pitch", "Yaw"} {
		if err := b.AddRotationDOF(name, center, axes[k]); err != nil {
			return err
		}
	}
	return nil
}

// DOF looks up a DOF by name
func (b *Body) DOF(name string) (DOF, bool) {
	i, ok := b.byName[name]
	if !ok {
		return DOF{}, false
	}
	return b.dofs[i].clone(), true
}

// DOFs returns copies of the DOFs in declaration order.
func (b *Body) DOFs() []DOF {
	out := make([]DOF, len(b.dofs))
	for i, d := range b.dofs {
		out[i] = d.clone()
	}
	return out
}

func (d DOF) clone() DOF {
	return DOF{Name: d.Name, Normal: append([]float64(nil), d.Normal...)}
}

func (b *Body) DOFNames() []string {
	names := make([]string, len(b.dofs))
	for i, d := range b.dofs {
		names[i] = d.Name
	}
	return names
}

func (b *Body) NumPanels() int { return b.Mesh.Len() }

// Members names the sub-bodies of a joined body, in arena order.
func (b *Body) Members() []string {
	if len(b.members) == 0 {
		return []string{b.Name}
	}
	return b.members
}

// IndicesOfBody returns the panel range owned by the k-th sub-body.
func (b *Body) IndicesOfBody(k int) mesh.Range { return b.ranges[k] }

func (b *Body) String() string {
	return fmt.Sprintf("Body %q: %d panels, DOFs %v", b.Name, b.Mesh.Len(), b.DOFNames())
}
