package green

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/mesh"
	"gonum.org/v1/gonum/integrate/quad"
)

// Environment is the part of a problem the kernel depends on. Depth is
// math.Inf(1) for deep water. Without a free surface the kernel reduces to
// the Rankine source and, for finite depth, its image in the sea bottom.
type Environment struct {
	Omega       float64
	Gravity     float64
	Depth       float64
	FreeSurface bool
}

// Wavenumber returns the deep-water wavenumber ω²/g.
func (e Environment) Wavenumber() float64 { return e.Omega * e.Omega / e.Gravity }

func (e Environment) Deep() bool { return math.IsInf(e.Depth, 1) }

// Options tunes the numerical routines of the kernel.
type Options struct {
	Tolerance     float64 // root finding and series truncation
	MaxIterations int     // cap on Newton steps and on series terms
	ThetaPoints   int     // Gauss points of the deep-water wave integral
	KPoints       int     // Gauss points per sub-interval of the finite-depth integral
}

func DefaultOptions() Options {
	return Options{
		Tolerance:     1e-10,
		MaxIterations: 200,
		ThetaPoints:   64,
		KPoints:       16,
	}
}

// farFieldRatio is R/h beyond which the eigenfunction series is used.
const farFieldRatio = 0.5

// deepLimit is the k0·h beyond which the bottom is not felt.
const deepLimit = 25.0

// Evaluator computes the free-surface Green's function
//
//	G(x, ξ) = 1/r + 1/r1 [+ 1/r2] + wave part
//
// for one environment. It holds only precomputed constants (dispersion
// roots, quadrature nodes) and is safe for concurrent use.
type Evaluator struct {
	env  Environment
	opts Options
	K    float64   // ω²/g
	k0   float64   // propagating root
	kn   []float64 // evanescent roots, finite depth only

	thetaT, thetaW []float64 // nodes on [0, 1] for θ = π/2·(1 - t²)
	gx, gw         []float64 // nodes on [-1, 1]
}

// NewEvaluator solves the dispersion relation and prepares quadrature
// nodes. Root-finding failures are returned as *NumericalError.
func NewEvaluator(env Environment, opts Options) (*Evaluator, error) {
	if opts.Tolerance <= 0 || opts.MaxIterations <= 0 || opts.ThetaPoints <= 0 || opts.KPoints <= 0 {
		return nil, fmt.Errorf("green: invalid options %+v", opts)
	}
	ev := &Evaluator{env: env, opts: opts, K: env.Wavenumber()}
	ev.thetaT = make([]float64, opts.ThetaPoints)
	ev.thetaW = make([]float64, opts.ThetaPoints)
	quad.Legendre{}.FixedLocations(ev.thetaT, ev.thetaW, 0, 1)
	ev.gx = make([]float64, opts.KPoints)
	ev.gw = make([]float64, opts.KPoints)
	quad.Legendre{}.FixedLocations(ev.gx, ev.gw, -1, 1)

	if !env.FreeSurface {
		return ev, nil
	}
	k0, err := WaveNumber(env.Omega, env.Gravity, env.Depth, opts.Tolerance, opts.MaxIterations)
	if err != nil {
		return nil, err
	}
	ev.k0 = k0
	if ev.feelsBottom() {
		ev.kn = make([]float64, opts.MaxIterations)
		for n := range ev.kn {
			if ev.kn[n], err = EvanescentRoot(n+1, ev.K, env.Depth, opts.Tolerance, opts.MaxIterations); err != nil {
				return nil, err
			}
		}
	}
	return ev, nil
}

func (ev *Evaluator) Environment() Environment { return ev.env }

// PropagatingWavenumber is the root k0 of the dispersion relation.
func (ev *Evaluator) PropagatingWavenumber() float64 { return ev.k0 }

func (ev *Evaluator) feelsBottom() bool {
	return ev.env.FreeSurface && !ev.env.Deep() && ev.k0*ev.env.Depth < deepLimit
}

// Source is a panel prepared for repeated influence evaluations, with its
// free-surface and sea-bottom images.
type Source struct {
	mesh.Panel
	images []mesh.Panel
}

func (ev *Evaluator) NewSource(p mesh.Panel) Source {
	s := Source{Panel: p}
	if ev.env.FreeSurface {
		s.images = append(s.images, reflectZ(p, 0))
	}
	if !ev.env.Deep() && (!ev.env.FreeSurface || ev.feelsBottom()) {
		s.images = append(s.images, reflectZ(p, -ev.env.Depth))
	}
	return s
}

// Influence returns ∫_s G(x, ξ) dS(ξ) and its gradient with respect to x.
// The Rankine part and its images are integrated exactly over the panel;
// the regular wave part is lumped at the panel center.
func (ev *Evaluator) Influence(x mesh.Vec3, s Source) (complex128, [3]complex128, error) {
	v, g := RankineIntegral(x, s.Panel)
	for _, img := range s.images {
		vi, gi := RankineIntegral(x, img)
		v += vi
		g = g.Add(gi)
	}
	val := complex(v, 0)
	grad := [3]complex128{complex(g.X, 0), complex(g.Y, 0), complex(g.Z, 0)}
	if !ev.env.FreeSurface {
		return val, grad, nil
	}
	w, wg, err := ev.Wave(x, s.Center)
	if err != nil {
		return 0, grad, err
	}
	a := complex(s.Area, 0)
	val += w * a
	for k := range grad {
		grad[k] += wg[k] * a
	}
	return val, grad, nil
}

// Wave returns the wave part of G at (x, ξ) and its gradient with respect
// to x. Both points must lie below the free surface and above the bottom;
// z + ζ is clipped to a tiny negative value so that points on the free
// surface can be evaluated.
func (ev *Evaluator) Wave(x, xi mesh.Vec3) (complex128, [3]complex128, error) {
	switch {
	case !ev.env.FreeSurface:
		return 0, [3]complex128{}, nil
	case !ev.feelsBottom():
		g, gr := ev.deepWave(x, xi, ev.K)
		return g, gr, nil
	}
	dx, dy := x.X-xi.X, x.Y-xi.Y
	if math.Hypot(dx, dy) >= farFieldRatio*ev.env.Depth {
		return ev.eigenfunctionWave(x, xi)
	}
	g, gr := ev.finiteDepthNearWave(x, xi)
	return g, gr, nil
}

// horizontal turns a radial derivative into x and y components.
func horizontal(dR complex128, dx, dy, R float64) (complex128, complex128) {
	if R < 1e-12 {
		return 0, 0
	}
	return dR * complex(dx/R, 0), dR * complex(dy/R, 0)
}
