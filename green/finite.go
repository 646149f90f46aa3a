package green

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/mesh"
)

// finiteDepthNearWave evaluates the finite-depth wave part for R < h/2 as
// the deep-water principal value plus a correction
//
//	PV∫ [2f(k) - 2f∞(k)] J0(kR) dk
//	2f  = (k+K)(e^{kv} + e^{k(a-b-2h)} + e^{k(b-a-2h)} + e^{-k(a+b+2h)}) / Δ(k)
//	2f∞ = (k+K) e^{kv} / (k-K),   Δ(k) = (k-K) - (k+K)e^{-2kh}
//
// with a = z+h, b = ζ+h, v = z+ζ. The difference decays like e^{-k(2h-|a-b|)}
// so a finite interval suffices. Its poles at k0 and K are subtracted and
// integrated analytically. The imaginary part is the k0 residue.
func (ev *Evaluator) finiteDepthNearWave(x, xi mesh.Vec3) (complex128, [3]complex128) {
	var (
		h      = ev.env.Depth
		K, k0  = ev.K, ev.k0
		dx, dy = x.X - xi.X, x.Y - xi.Y
		R      = math.Hypot(dx, dy)
		a, b   = x.Z + h, xi.Z + h
		v      = math.Min(x.Z+xi.Z, -1e-12)
	)
	exps := func(k float64) (sum, dsum float64) {
		e1 := math.Exp(k * v)
		e2 := math.Exp(k * (a - b - 2*h))
		e3 := math.Exp(k * (b - a - 2*h))
		e4 := math.Exp(-k * (a + b + 2*h))
		return e1 + e2 + e3 + e4, k * (e1 + e2 - e3 - e4)
	}
	delta := func(k float64) float64 { return (k - K) - (k+K)*math.Exp(-2*k*h) }

	// residues of 2f at k0 and of 2f∞ at K, for the value and its z derivative
	e0, de0 := exps(k0)
	dDelta := 1 - math.Exp(-2*k0*h) + 2*h*(k0+K)*math.Exp(-2*k0*h)
	rho0, rho0z := (k0+K)*e0/dDelta, (k0+K)*de0/dDelta
	rhoK := 2 * K * math.Exp(K*v)
	rhoKz := K * rhoK

	var (
		j0k0, j1k0 = math.J0(k0 * R), math.J1(k0 * R)
		j0K, j1K   = math.J0(K * R), math.J1(K * R)
		// [value, d/dR, d/dz] residues of the integrands
		r0 = [3]float64{rho0 * j0k0, -rho0 * k0 * j1k0, rho0z * j0k0}
		rK = [3]float64{rhoK * j0K, -rhoK * K * j1K, rhoKz * j0K}
	)
	integrand := func(k float64) (out [3]float64) {
		s, ds := exps(k)
		ev1 := math.Exp(k * v)
		kk := k + K
		F := kk*s/delta(k) - kk*ev1/(k-K)
		Fz := kk*ds/delta(k) - kk*k*ev1/(k-K)
		j0, j1 := math.J0(k*R), math.J1(k*R)
		vals := [3]float64{F * j0, -F * k * j1, Fz * j0}
		for c := range out {
			out[c] = vals[c] - r0[c]/(k-k0) + rK[c]/(k-K)
		}
		return
	}

	var (
		kPole = 2 * math.Max(k0, K)
		kEnd  = kPole + 40/(2*h-math.Abs(a-b))
		nTail = 8 + int(2*(kEnd-kPole)*R/math.Pi)
		I     [3]float64
	)
	ev.accumulate(&I, integrand, 0, kPole, 4)
	ev.accumulate(&I, integrand, kPole, kEnd, nTail)
	l0, lK := math.Log((kEnd-k0)/k0), math.Log((kEnd-K)/K)
	for c := range I {
		I[c] += r0[c]*l0 - rK[c]*lK
	}

	deep, dGrad := ev.deepWave(x, xi, K)
	g := complex(real(deep)+I[0], math.Pi*r0[0])
	gR := complex(I[1], math.Pi*r0[1])
	var grad [3]complex128
	grad[0], grad[1] = horizontal(gR, dx, dy, R)
	grad[0] += complex(real(dGrad[0]), 0)
	grad[1] += complex(real(dGrad[1]), 0)
	grad[2] = complex(real(dGrad[2])+I[2], math.Pi*r0[2])
	return g, grad
}

// accumulate adds ∫_lo^hi f over n equal sub-intervals of Gauss-Legendre.
func (ev *Evaluator) accumulate(I *[3]float64, f func(float64) [3]float64, lo, hi float64, n int) {
	L := (hi - lo) / float64(n)
	for m := 0; m < n; m++ {
		mid := lo + (float64(m)+0.5)*L
		for q, xq := range ev.gx {
			w := 0.5 * L * ev.gw[q]
			vals := f(mid + 0.5*L*xq)
			for c := range I {
				I[c] += w * vals[c]
			}
		}
	}
}

// eigenfunctionWave evaluates John's series for R ≥ h/2
//
//	G = C0·ch(a)ch(b)·(-Y0(k0R) + iJ0(k0R)) + Σ Cn cos(kn a)cos(kn b) K0(kn R)
//
// and removes the Rankine terms 1/r, 1/r1, 1/r2 that are integrated over the
// panel elsewhere. The series stops when a term falls below the tolerance;
// running out of terms is an error.
func (ev *Evaluator) eigenfunctionWave(x, xi mesh.Vec3) (complex128, [3]complex128, error) {
	var (
		h      = ev.env.Depth
		K, k0  = ev.K, ev.k0
		dx, dy = x.X - xi.X, x.Y - xi.Y
		R      = math.Hypot(dx, dy)
		a, b   = x.Z + h, xi.Z + h
		norm   = 1 + math.Exp(-2*k0*h)
		ch     = func(u float64) float64 { return (math.Exp(k0*(u-h)) + math.Exp(-k0*(u+h))) / norm }
		sh     = func(u float64) float64 { return (math.Exp(k0*(u-h)) - math.Exp(-k0*(u+h))) / norm }
		C0     = 2 * math.Pi * k0 * k0 / ((k0*k0-K*K)*h + K)
		bessel = complex(-math.Y0(k0*R), math.J0(k0*R))
		dbess  = complex(k0*math.Y1(k0*R), -k0*math.J1(k0*R))
		g      = complex(C0*ch(a)*ch(b), 0) * bessel
		gR     = complex(C0*ch(a)*ch(b), 0) * dbess
		gZ     = complex(C0*k0*sh(a)*ch(b), 0) * bessel
	)
	converged := false
	var last float64
	for n, kn := range ev.kn {
		Cn := 4 * (kn*kn + K*K) / ((kn*kn+K*K)*h - K)
		ca, cb := math.Cos(kn*a), math.Cos(kn*b)
		k0n, k1n := BesselK0(kn*R), BesselK1(kn*R)
		t, tR, tZ := Cn*ca*cb*k0n, -Cn*ca*cb*kn*k1n, -Cn*kn*math.Sin(kn*a)*cb*k0n
		g += complex(t, 0)
		gR += complex(tR, 0)
		gZ += complex(tZ, 0)
		last = math.Abs(t) + math.Abs(tR) + math.Abs(tZ)
		if n > 0 && last < ev.opts.Tolerance*math.Max(1, math.Abs(real(g))) {
			converged = true
			break
		}
	}
	if !converged {
		return 0, [3]complex128{}, &NumericalError{
			Op:         fmt.Sprintf("eigenfunction series (R=%g, h=%g)", R, h),
			Iterations: len(ev.kn),
			Residual:   last,
			Err:        ErrSeriesCap,
		}
	}

	// Rankine terms and their images
	zz := x.Z - xi.Z
	for _, dz := range []float64{zz, x.Z + xi.Z, x.Z + xi.Z + 2*h} {
		r := math.Hypot(R, dz)
		r3 := r * r * r
		g -= complex(1/r, 0)
		gR += complex(R/r3, 0)
		gZ += complex(dz/r3, 0)
	}
	var grad [3]complex128
	grad[0], grad[1] = horizontal(gR, dx, dy, R)
	grad[2] = gZ
	return g, grad, nil
}
