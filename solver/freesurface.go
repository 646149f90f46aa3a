package solver

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/green"
	"github.com/notargets/BEMKernel/mesh"
	"gonum.org/v1/gonum/floats"
)

// FreeSurfaceElevation returns η = (iω/g)·φ(x, y, 0) at every point, using
// the source strengths kept in r. Only the horizontal coordinates of the
// points are used. For a diffraction result this is the diffracted wave;
// IncidentWaveElevation gives the undisturbed one.
func FreeSurfaceElevation(r *Result, points []mesh.Vec3) ([]complex128, error) {
	if r == nil || !r.KeptDetails() {
		return nil, ErrMissingDetails
	}
	p := r.Problem
	if !p.FreeSurface {
		return nil, configErrorf("free surface", "problem %v has no free surface", p)
	}
	ev, err := green.NewEvaluator(p.Environment(), r.greenOpts)
	if err != nil {
		return nil, wrapNumerical(p.String(), err)
	}
	m := p.Body.Mesh
	sources := make([]green.Source, m.Len())
	for j := range sources {
		sources[j] = ev.NewSource(m.Panel(j))
	}
	var (
		eta   = make([]complex128, len(points))
		scale = complex(0, p.Omega/p.Gravity) * complex(-1/(4*math.Pi), 0)
	)
	for k, pt := range points {
		x := mesh.Vec3{X: pt.X, Y: pt.Y}
		var phi complex128
		for j, s := range sources {
			v, _, err := ev.Influence(x, s)
			if err != nil {
				return nil, wrapNumerical(p.String(), err)
			}
			phi += v * r.Sources[j]
		}
		eta[k] = scale * phi
	}
	return eta, nil
}

// IncidentWaveElevation returns the unit-amplitude incident wave of a
// diffraction problem at the points.
func IncidentWaveElevation(p *Problem, points []mesh.Vec3) ([]complex128, error) {
	if p.Kind != Diffraction {
		return nil, configErrorf("kind", "%v has no incident wave", p)
	}
	w, err := newIncidentWave(p, green.DefaultOptions())
	if err != nil {
		return nil, wrapNumerical(p.String(), err)
	}
	eta := make([]complex128, len(points))
	for k, pt := range points {
		eta[k] = w.elevation(pt.X, pt.Y)
	}
	return eta, nil
}

// FreeSurfaceGrid returns nl×nw evenly spaced points on z = 0 covering
// [-length/2, length/2] × [-width/2, width/2], row by row along x.
func FreeSurfaceGrid(width, length float64, nw, nl int) ([]mesh.Vec3, error) {
	if !(width > 0) || !(length > 0) || nw < 2 || nl < 2 {
		return nil, fmt.Errorf("%w: free surface grid %gx%g with %dx%d points", ErrConfiguration, length, width, nl, nw)
	}
	xs := floats.Span(make([]float64, nl), -length/2, length/2)
	ys := floats.Span(make([]float64, nw), -width/2, width/2)
	pts := make([]mesh.Vec3, 0, nl*nw)
	for _, y := range ys {
		for _, x := range xs {
			pts = append(pts, mesh.Vec3{X: x, Y: y, Z: 0})
		}
	}
	return pts, nil
}
