package mesh

import "math"

// Plane is the mirror plane {p : p·Normal = Offset}.
type Plane struct {
	Normal Vec3
	Offset float64
}

var (
	XOZ = Plane{Normal: Vec3{0, 1, 0}} // y -> -y
	YOZ = Plane{Normal: Vec3{1, 0, 0}} // x -> -x
)

// ReflectPoint mirrors a point through the plane
func (pl Plane) ReflectPoint(p Vec3) Vec3 {
	return p.Sub(pl.Normal.Scale(2 * (p.Dot(pl.Normal) - pl.Offset)))
}

// ReflectDirection mirrors a free vector through the plane
func (pl Plane) ReflectDirection(v Vec3) Vec3 {
	return v.Sub(pl.Normal.Scale(2 * v.Dot(pl.Normal)))
}

// Reflection describes a mesh whose panels [Half, 2·Half) are the mirror
// images of panels [0, Half), in the same order.
type Reflection struct {
	Plane Plane
	Half  int
}

// Mirror returns the index of the mirror image of panel i.
func (r *Reflection) Mirror(i int) int {
	if i < r.Half {
		return i + r.Half
	}
	return i - r.Half
}

// ReflectPanel mirrors a panel. Vertex order is reversed so that the polygon
// orientation still agrees with the reflected normal.
func (pl Plane) ReflectPanel(p Panel) Panel {
	q := Panel{
		Center: pl.ReflectPoint(p.Center),
		Normal: pl.ReflectDirection(p.Normal),
		Area:   p.Area,
	}
	if n := len(p.Vertices); n > 0 {
		q.Vertices = make([]Vec3, n)
		for k, v := range p.Vertices {
			q.Vertices[n-1-k] = pl.ReflectPoint(v)
		}
	}
	return q
}

// Symmetric builds the reflection-symmetric mesh made of half and its mirror
// image. The returned mesh carries the Reflection descriptor that lets the
// assembler compute only the independent half of the influence coefficients.
func Symmetric(half *Mesh, plane Plane) (*Mesh, error) {
	if math.Abs(plane.Normal.Norm()-1) > normalTolerance {
		return nil, geometryErrorf(-1, "mirror plane normal is not unit length")
	}
	if math.Abs(plane.Normal.Z) > normalTolerance {
		return nil, geometryErrorf(-1, "mirror plane must be vertical, normal %v", plane.Normal)
	}
	n := half.Len()
	pp := make([]Panel, 2*n)
	copy(pp, half.panels)
	for i, p := range half.panels {
		pp[n+i] = plane.ReflectPanel(p)
	}
	m := &Mesh{
		panels:   pp,
		symmetry: &Reflection{Plane: plane, Half: n},
	}
	m.hash = m.computeHash()
	return m, nil
}

// Flatten returns the same panels without the symmetry descriptor.
func (m *Mesh) Flatten() *Mesh {
	out := &Mesh{panels: m.panels}
	out.hash = out.computeHash()
	return out
}

// Mirror returns the image of m through plane as a plain mesh.
func (m *Mesh) Mirror(plane Plane) *Mesh {
	pp := make([]Panel, len(m.panels))
	for i, p := range m.panels {
		pp[i] = plane.ReflectPanel(p)
	}
	out := &Mesh{panels: pp}
	out.hash = out.computeHash()
	return out
}
