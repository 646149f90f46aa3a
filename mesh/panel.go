package mesh

import (
	"math"
)

const (
	normalTolerance = 1e-6
)

// Panel is a planar element of the wetted surface. Normal points out of the
// body into the fluid. Vertices are optional; when present the Rankine part
// of the kernel is integrated exactly over the polygon they describe.
type Panel struct {
	Center   Vec3
	Normal   Vec3
	Area     float64
	Vertices []Vec3
}

// Radius is the distance from the center to the farthest vertex, or the
// radius of the disk of equal area when no vertices are stored.
func (p Panel) Radius() float64 {
	if len(p.Vertices) == 0 {
		return math.Sqrt(p.Area / math.Pi)
	}
	var r float64
	for _, v := range p.Vertices {
		r = math.Max(r, v.Sub(p.Center).Norm())
	}
	return r
}

func (p Panel) validate(i int) error {
	if !p.Center.IsFinite() || !p.Normal.IsFinite() {
		return geometryErrorf(i, "non-finite center or normal")
	}
	if math.IsNaN(p.Area) || math.IsInf(p.Area, 0) || p.Area <= 0 {
		return geometryErrorf(i, "area must be positive and finite, got %g", p.Area)
	}
	if math.Abs(p.Normal.Norm()-1) > normalTolerance {
		return geometryErrorf(i, "normal is not unit length (|n| = %g)", p.Normal.Norm())
	}
	if len(p.Vertices) == 0 {
		return nil
	}
	if len(p.Vertices) < 3 {
		return geometryErrorf(i, "a panel needs at least 3 vertices, got %d", len(p.Vertices))
	}
	for _, v := range p.Vertices {
		if !v.IsFinite() {
			return geometryErrorf(i, "non-finite vertex")
		}
	}
	if polygonAreaVector(p.Vertices).Dot(p.Normal) <= 0 {
		return geometryErrorf(i, "vertex ordering disagrees with the declared normal")
	}
	return nil
}

// NewPanel derives the center, unit normal and area of a planar polygon
// whose vertices are ordered counter-clockwise when seen from the fluid.
// Consecutive duplicate vertices (triangles stored as quads) are collapsed.
func NewPanel(vertices ...Vec3) (Panel, error) {
	verts := make([]Vec3, 0, len(vertices))
	for i, v := range vertices {
		if i > 0 && v == verts[len(verts)-1] {
			continue
		}
		verts = append(verts, v)
	}
	if len(verts) > 1 && verts[0] == verts[len(verts)-1] {
		verts = verts[:len(verts)-1]
	}
	if len(verts) < 3 {
		return Panel{}, geometryErrorf(-1, "degenerate polygon with %d distinct vertices", len(verts))
	}
	av := polygonAreaVector(verts)
	area := av.Norm()
	if area == 0 || math.IsNaN(area) {
		return Panel{}, geometryErrorf(-1, "polygon has zero area")
	}
	// Area weighted centroid of the fan triangles
	var (
		center  Vec3
		fanArea float64
	)
	for k := 1; k+1 < len(verts); k++ {
		a := verts[k].Sub(verts[0]).Cross(verts[k+1].Sub(verts[0])).Norm() / 2
		c := verts[0].Add(verts[k]).Add(verts[k+1]).Scale(1. / 3.)
		center = center.Add(c.Scale(a))
		fanArea += a
	}
	return Panel{
		Center:   center.Scale(1 / fanArea),
		Normal:   av.Scale(1 / area),
		Area:     area,
		Vertices: verts,
	}, nil
}

// polygonAreaVector returns A·n for a planar polygon.
func polygonAreaVector(verts []Vec3) Vec3 {
	var av Vec3
	for k := 1; k+1 < len(verts); k++ {
		av = av.Add(verts[k].Sub(verts[0]).Cross(verts[k+1].Sub(verts[0])))
	}
	return av.Scale(0.5)
}
