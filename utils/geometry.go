package utils

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/mesh"
)

// SphereParams describes a sphere mesh made of NTheta rings of NPhi panels.
// With Clip set only the part below z = 0 is meshed.
type SphereParams struct {
	Radius float64
	Center mesh.Vec3
	NTheta int // rings from the bottom pole
	NPhi   int // panels per ring
	Clip   bool
}

func (sp SphereParams) validate() error {
	if sp.Radius <= 0 || sp.NTheta < 1 || sp.NPhi < 3 {
		return fmt.Errorf("sphere: invalid parameters %+v", sp)
	}
	if sp.Clip && sp.Center.Z <= -sp.Radius {
		return fmt.Errorf("sphere: clipped sphere lies entirely below z = 0")
	}
	return nil
}

func (sp SphereParams) thetaMax() float64 {
	if !sp.Clip || sp.Center.Z >= sp.Radius {
		return math.Pi
	}
	return math.Acos(sp.Center.Z / sp.Radius)
}

// point returns the surface point at polar angle θ (from the bottom pole)
// and azimuth φ. Points on the axis are exact so that pole panels collapse
// to triangles.
func (sp SphereParams) point(theta, phi float64) mesh.Vec3 {
	s := math.Sin(theta)
	if math.Abs(s) < 1e-12 {
		s = 0
	}
	ring := sp.Radius * s
	return mesh.Vec3{X: sp.Center.X + ring*math.Cos(phi), Y: sp.Center.Y + ring*math.Sin(phi), Z: sp.Center.Z - sp.Radius*math.Cos(theta)}

}

// panels meshes azimuths [0, phiSpan) with nphi panels per ring, normals
// pointing out of the sphere.
func (sp SphereParams) panels(nphi int, phiSpan float64) ([]mesh.Panel, error) {
	tmax := sp.thetaMax()
	pp := make([]mesh.Panel, 0, sp.NTheta*nphi)
	for i := 0; i < sp.NTheta; i++ {
		t1, t2 := tmax*float64(i)/float64(sp.NTheta), tmax*float64(i+1)/float64(sp.NTheta)
		for j := 0; j < nphi; j++ {
			p1, p2 := phiSpan*float64(j)/float64(nphi), phiSpan*float64(j+1)/float64(nphi)
			p, err := mesh.NewPanel(sp.point(t1, p1), sp.point(t1, p2), sp.point(t2, p2), sp.point(t2, p1))
			if err != nil {
				return nil, fmt.Errorf("sphere panel (%d, %d): %w", i, j, err)
			}
			pp = append(pp, p)
		}
	}
	return pp, nil
}

// Sphere returns the full (or clipped) sphere mesh.
func Sphere(sp SphereParams) (*mesh.Mesh, error) {
	if err := sp.validate(); err != nil {
		return nil, err
	}
	pp, err := sp.panels(sp.NPhi, 2*math.Pi)
	if err != nil {
		return nil, err
	}
	return mesh.NewMesh(pp)
}

// SymmetricSphere returns the same sphere built as the half y >= 0 and its
// mirror image in the plane y = Center.Y. NPhi must be even.
func SymmetricSphere(sp SphereParams) (*mesh.Mesh, error) {
	if err := sp.validate(); err != nil {
		return nil, err
	}
	if sp.NPhi%2 != 0 {
		return nil, fmt.Errorf("sphere: symmetric mesh needs an even NPhi, got %d", sp.NPhi)
	}
	pp, err := sp.panels(sp.NPhi/2, math.Pi)
	if err != nil {
		return nil, err
	}
	half, err := mesh.NewMesh(pp)
	if err != nil {
		return nil, err
	}
	return mesh.Symmetric(half, mesh.Plane{Normal: mesh.Vec3{X: 0, Y: 1, Z: 0}, Offset: sp.Center.Y})
}

// CylinderParams describes a horizontal circular cylinder with its axis
// along x, closed by flat end caps. With Clip set the axis must lie on
// z = 0 and only the lower half is meshed.
type CylinderParams struct {
	Length, Radius float64
	Center         mesh.Vec3
	NX             int // panels along the axis
	NTheta         int // panels around the circumference
	Clip           bool
}

// HorizontalCylinder returns the cylinder mesh.
func HorizontalCylinder(cp CylinderParams) (*mesh.Mesh, error) {
	if cp.Length <= 0 || cp.Radius <= 0 || cp.NX < 1 || cp.NTheta < 3 {
		return nil, fmt.Errorf("cylinder: invalid parameters %+v", cp)
	}
	if cp.Clip && cp.Center.Z != 0 {
		return nil, fmt.Errorf("cylinder: clipped cylinder needs its axis on z = 0")
	}
	span := 2 * math.Pi
	if cp.Clip {
		span = math.Pi
	}
	// θ is measured from the bottom, (y, z) = (R sinθ, -R cosθ), and runs
	// from -span/2 to span/2.
	at := func(x, theta float64) mesh.Vec3 {
		return mesh.Vec3{X: cp.Center.X + x, Y: cp.Center.Y + cp.Radius*math.Sin(theta), Z: cp.Center.Z - cp.Radius*math.Cos(theta)}

	}
	var (
		pp   []mesh.Panel
		x0   = -cp.Length / 2
		dx   = cp.Length / float64(cp.NX)
		dth  = span / float64(cp.NTheta)
		th0  = -span / 2
		axis = func(x float64) mesh.Vec3 { return cp.Center.Add(mesh.Vec3{X: x, Y: 0, Z: 0}) }
	)
	for i := 0; i < cp.NX; i++ {
		xa, xb := x0+float64(i)*dx, x0+float64(i+1)*dx
		for j := 0; j < cp.NTheta; j++ {
			ta, tb := th0+float64(j)*dth, th0+float64(j+1)*dth
			p, err := mesh.NewPanel(at(xa, ta), at(xa, tb), at(xb, tb), at(xb, ta))
			if err != nil {
				return nil, fmt.Errorf("cylinder hull panel (%d, %d): %w", i, j, err)
			}
			pp = append(pp, p)
		}
	}
	for j := 0; j < cp.NTheta; j++ {
		ta, tb := th0+float64(j)*dth, th0+float64(j+1)*dth
		back, err := mesh.NewPanel(axis(x0), at(x0, tb), at(x0, ta))
		if err != nil {
			return nil, fmt.Errorf("cylinder cap panel %d: %w", j, err)
		}
		front, err := mesh.NewPanel(axis(-x0), at(-x0, ta), at(-x0, tb))
		if err != nil {
			return nil, fmt.Errorf("cylinder cap panel %d: %w", j, err)
		}
		pp = append(pp, back, front)
	}
	return mesh.NewMesh(pp)
}
