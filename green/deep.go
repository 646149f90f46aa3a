package green

import (
	"math"
	"math/cmplx"

	"github.com/notargets/BEMKernel/mesh"
)

// deepWave evaluates the deep-water wave part
//
//	2K·PV∫ e^{k(z+ζ)} J0(kR)/(k-K) dk + 2πiK·e^{K(z+ζ)}·J0(KR)
//
// The principal value is rewritten as (2/π)∫_0^{π/2} Re[e^w(E1(w) + iπ)] dθ
// with w = K(z+ζ + iR·cosθ). The θ integral is mapped by θ = π/2·(1-t²)
// to cluster nodes at θ = π/2, where w is smallest.
func (ev *Evaluator) deepWave(x, xi mesh.Vec3, K float64) (complex128, [3]complex128) {
	var (
		dx, dy       = x.X - xi.X, x.Y - xi.Y
		R            = math.Hypot(dx, dy)
		v            = math.Min(x.Z+xi.Z, -1e-12)
		re, dRe, dVe float64
	)
	for q, t := range ev.thetaT {
		w := ev.thetaW[q] * math.Pi * t
		c := math.Cos(0.5 * math.Pi * (1 - t*t))
		zeta := complex(K*v, K*R*c)
		ez := cmplx.Exp(zeta)
		J := ExpE1(zeta) + complex(0, math.Pi)*ez
		dJ := J - 1/zeta
		re += w * real(J)
		dVe += w * K * real(dJ)
		dRe += w * K * c * real(complex(0, 1)*dJ)
	}
	var (
		f    = 4 * K / math.Pi
		amp  = 2 * math.Pi * K * math.Exp(K*v)
		j0   = math.J0(K * R)
		j1   = math.J1(K * R)
		g    = complex(f*re, amp*j0)
		gR   = complex(f*dRe, -amp*K*j1)
		gZ   = complex(f*dVe, amp*K*j0)
		grad [3]complex128
	)
	grad[0], grad[1] = horizontal(gR, dx, dy, R)
	grad[2] = gZ
	return g, grad
}
