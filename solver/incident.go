package solver

import (
	"math"
	"math/cmplx"

	"github.com/notargets/BEMKernel/green"
	"github.com/notargets/BEMKernel/mesh"
)

// incidentWave is the potential of a unit-amplitude regular wave
//
//	φ0 = -i·g/ω · Z(z) · e^{ik(x cosβ + y sinβ)}
//
// with Z = e^{kz} in deep water and cosh(k(z+h))/cosh(kh) otherwise.
type incidentWave struct {
	omega, g, h float64
	k           float64
	cb, sb      float64
}

func newIncidentWave(p *Problem, opts green.Options) (incidentWave, error) {
	k, err := green.WaveNumber(p.Omega, p.Gravity, p.Depth, opts.Tolerance, opts.MaxIterations)
	if err != nil {
		return incidentWave{}, err
	}
	return incidentWave{
		omega: p.Omega, g: p.Gravity, h: p.Depth, k: k,
		cb: math.Cos(p.Heading), sb: math.Sin(p.Heading),
	}, nil
}

// vertical returns Z(z) and dZ/dz.
func (w incidentWave) vertical(z float64) (float64, float64) {
	if math.IsInf(w.h, 1) {
		e := math.Exp(w.k * z)
		return e, w.k * e
	}
	// cosh(k(z+h))/cosh(kh) without overflow for large kh
	norm := 1 + math.Exp(-2*w.k*w.h)
	ep, em := math.Exp(w.k*z), math.Exp(-w.k*(z+2*w.h))
	return (ep + em) / norm, w.k * (ep - em) / norm
}

func (w incidentWave) potential(x mesh.Vec3) (complex128, [3]complex128) {
	Z, dZ := w.vertical(x.Z)
	phase := cmplx.Exp(complex(0, w.k*(x.X*w.cb+x.Y*w.sb)))
	amp := complex(0, -w.g/w.omega) * phase
	phi := amp * complex(Z, 0)
	ik := complex(0, w.k)
	return phi, [3]complex128{
		ik * complex(w.cb, 0) * phi,
		ik * complex(w.sb, 0) * phi,
		amp * complex(dZ, 0),
	}
}

// elevation is (iω/g)·φ0 at z = 0, a unit-amplitude wave.
func (w incidentWave) elevation(x, y float64) complex128 {
	return cmplx.Exp(complex(0, w.k*(x*w.cb+y*w.sb)))
}
