package green

import (
	"math"

	"github.com/notargets/BEMKernel/mesh"
)

// RankineIntegral returns ∫_p 1/|x-ξ| dS(ξ) over a panel and its gradient
// with respect to x.
//
// With vertices the integral is exact for a planar polygon: a sum of edge
// logarithms minus |Z|·Ω, Z the signed height of x above the panel plane and
// Ω the solid angle the polygon subtends at x. Points closer to the plane
// than 1e-6 panel radii are considered in it, so that the normal gradient of
// a panel on itself is zero and the jump is left to the caller. Without
// vertices the panel is lumped at its center, and the self term uses the
// disk of equal area.
func RankineIntegral(x mesh.Vec3, p mesh.Panel) (float64, mesh.Vec3) {
	if len(p.Vertices) == 0 {
		return lumpedRankine(x, p)
	}
	var (
		radius = p.Radius()
		n      = p.Normal
		Z      = x.Sub(p.Center).Dot(n)
		value  float64
		omega  float64
		grad   mesh.Vec3
		nv     = len(p.Vertices)
	)
	if math.Abs(Z) < 1e-6*radius {
		Z = 0
	}
	for k := 0; k < nv; k++ {
		a, b := p.Vertices[k], p.Vertices[(k+1)%nv]
		d := b.Sub(a).Norm()
		if d < 1e-3*radius {
			continue
		}
		t := b.Sub(a).Scale(1 / d)
		m := n.Cross(t) // in-plane, towards the inside
		gy := x.Sub(a).Dot(m)
		ra, rb := x.Sub(a).Norm(), x.Sub(b).Norm()
		den := math.Max(ra+rb-d, 1e-300)
		l := math.Log((ra + rb + d) / den)
		omega += 2 * math.Atan2(2*gy*d, (ra+rb)*(ra+rb)-d*d+2*math.Abs(Z)*(ra+rb))
		value += gy * l
		grad = grad.Add(m.Scale(l))
	}
	value -= math.Abs(Z) * omega
	switch {
	case Z > 0:
		grad = grad.Sub(n.Scale(omega))
	case Z < 0:
		grad = grad.Add(n.Scale(omega))
	}
	return value, grad
}

func lumpedRankine(x mesh.Vec3, p mesh.Panel) (float64, mesh.Vec3) {
	d := x.Sub(p.Center)
	r := d.Norm()
	a := math.Sqrt(p.Area / math.Pi)
	if r < 1e-9*a {
		return 2 * math.Pi * a, mesh.Vec3{}
	}
	return p.Area / r, d.Scale(-p.Area / (r * r * r))
}

// reflectZ mirrors a panel through the horizontal plane z = c, used for the
// free-surface (c = 0) and sea-bottom (c = -h) images.
func reflectZ(p mesh.Panel, c float64) mesh.Panel {
	plane := mesh.Plane{Normal: mesh.Vec3{X: 0, Y: 0, Z: 1}, Offset: c}
	return plane.ReflectPanel(p)
}
