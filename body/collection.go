package body

import (
	"fmt"
	"strings"

	"github.com/notargets/BEMKernel/mesh"
)

// Join merges bodies into one flat panel arena. Each DOF is renamed
// "<body>_<dof>" and zero-padded on the panels of the other bodies. The
// panel range of every member is kept so that results can be traced back.
func Join(bodies ...*Body) (*Body, error) {
	if len(bodies) == 0 {
		return nil, fmt.Errorf("%w: nothing to join", ErrDOF)
	}
	meshes := make([]*mesh.Mesh, len(bodies))
	names := make([]string, len(bodies))
	for k, b := range bodies {
		meshes[k] = b.Mesh
		names[k] = b.Name
	}
	m, ranges := mesh.Join(meshes...)
	out := New(fmt.Sprintf("Collection[%s]", strings.Join(names, ", ")), m)
	out.ranges = ranges
	out.members = names
	for k, b := range bodies {
		for _, d := range b.dofs {
			field := make([]float64, m.Len())
			copy(field[ranges[k].Start:ranges[k].End], d.Normal)
			if err := out.AddDOF(b.Name+"_"+d.Name, field); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Mirror builds the reflection-symmetric body made of half and its image
// through plane. DOFs are declared afterwards on the full body, since a
// field on the half does not determine its parity across the plane.
func Mirror(name string, half *mesh.Mesh, plane mesh.Plane) (*Body, error) {
	m, err := mesh.Symmetric(half, plane)
	if err != nil {
		return nil, err
	}
	b := New(name, m)
	n := half.Len()
	b.ranges = []mesh.Range{{Start: 0, End: n}, {Start: n, End: 2 * n}}
	b.members = []string{name + "_half", name + "_mirror"}
	return b, nil
}
