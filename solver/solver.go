package solver

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/cmplx"
	"os"
	"runtime"
	"time"

	"github.com/notargets/BEMKernel/influence"
	"golang.org/x/sync/errgroup"
)

// Solver solves problems against a shared cache of influence matrices, so
// that every DOF of a body at one frequency reuses a single assembly. A
// Solver is safe for concurrent use.
type Solver struct {
	Config Config
	Cache  *influence.Cache
	Logger *log.Logger // nil keeps the solver silent
}

func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		Config: cfg,
		Cache: influence.NewCache(cfg.CacheEntries, influence.Options{
			Green:   cfg.Green,
			Workers: cfg.Workers,
		}),
	}
	if cfg.Verbose {
		s.Logger = log.New(os.Stderr, "bem: ", log.LstdFlags)
	}
	return s, nil
}

func (s *Solver) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// Solve is SolveContext without cancellation.
func (s *Solver) Solve(p *Problem, keepDetails bool) (*Result, error) {
	return s.SolveContext(context.Background(), p, keepDetails)
}

// SolveContext assembles (or fetches) the influence matrices of the body,
// solves D·σ = b for the boundary condition of the problem and integrates
// the pressure over every DOF of the body. With keepDetails the source
// strengths and panel potentials are kept for free-surface queries.
func (s *Solver) SolveContext(ctx context.Context, p *Problem, keepDetails bool) (*Result, error) {
	if p == nil {
		return nil, configErrorf("problem", "nil problem")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var (
		b     = p.Body
		m     = b.Mesh
		n     = m.Len()
		start = time.Now()
	)
	s.logf("Solving %v on %d panels", p, n)
	builds := s.Cache.Builds()
	entry, err := s.Cache.Get(ctx, m, p.Environment())
	if err != nil {
		return nil, wrapNumerical(p.String(), err)
	}
	if s.Cache.Builds() != builds {
		s.logf("Assembled influence matrices %v in %v", entry.Key, time.Since(start))
	}
	cond := entry.LU.Cond()
	if math.IsNaN(cond) || cond > s.Config.MaxCondition {
		return nil, &NumericalInstabilityError{Problem: p.String(), Condition: cond}
	}

	rhs := make([]complex128, n)
	var wave incidentWave
	switch p.Kind {
	case Radiation:
		dof, _ := b.DOF(p.RadiatingDOF)
		for i, v := range dof.Normal {
			rhs[i] = complex(v, 0)
		}
	case Diffraction:
		if wave, err = newIncidentWave(p, s.Config.Green); err != nil {
			return nil, wrapNumerical(p.String(), err)
		}
		for i := 0; i < n; i++ {
			pn := m.Panel(i)
			_, grad := wave.potential(pn.Center)
			rhs[i] = -(grad[0]*complex(pn.Normal.X, 0) + grad[1]*complex(pn.Normal.Y, 0) + grad[2]*complex(pn.Normal.Z, 0))
		}
	default:
		return nil, configErrorf("kind", "unknown problem kind %v", p.Kind)
	}

	sigma, err := entry.LU.Solve(rhs)
	if err != nil {
		return nil, &NumericalInstabilityError{Problem: p.String(), Condition: cond, Cause: err}
	}
	residual := relativeResidual(entry.Matrices, sigma, rhs)
	if math.IsNaN(residual) || residual > s.Config.MaxResidual {
		return nil, &NumericalInstabilityError{Problem: p.String(), Condition: cond, Residual: residual}
	}
	phi := influence.MulVec(entry.S, sigma)

	r := &Result{
		Problem:   p,
		DOFNames:  b.DOFNames(),
		Condition: cond,
		Residual:  residual,
		greenOpts: s.Config.Green,
	}
	iwr := complex(0, -p.Omega*p.Rho)
	switch p.Kind {
	case Radiation:
		r.AddedMasses = make(map[string]float64, len(r.DOFNames))
		r.RadiationDampings = make(map[string]float64, len(r.DOFNames))
		for _, d := range b.DOFs() {
			c := integrate(m.Areas(), d.Normal, phi)
			r.AddedMasses[d.Name] = -p.Rho * real(c)
			r.RadiationDampings[d.Name] = -p.Rho * p.Omega * imag(c)
		}
	case Diffraction:
		phi0 := make([]complex128, n)
		for i := 0; i < n; i++ {
			phi0[i], _ = wave.potential(m.Panel(i).Center)
		}
		r.Forces = make(map[string]complex128, len(r.DOFNames))
		r.FroudeKrylovForces = make(map[string]complex128, len(r.DOFNames))
		for _, d := range b.DOFs() {
			r.Forces[d.Name] = iwr * integrate(m.Areas(), d.Normal, phi)
			r.FroudeKrylovForces[d.Name] = iwr * integrate(m.Areas(), d.Normal, phi0)
		}
	}
	if keepDetails {
		r.Sources, r.Potential = sigma, phi
	}
	s.logf("Solved %v in %v (condition %.3g, residual %.3g)", p, time.Since(start), cond, residual)
	return r, nil
}

// integrate returns Σ φ_i·n_i·A_i.
func integrate(areas, normal []float64, phi []complex128) complex128 {
	var c complex128
	for i, a := range areas {
		c += phi[i] * complex(normal[i]*a, 0)
	}
	return c
}

func relativeResidual(mats *influence.Matrices, sigma, rhs []complex128) float64 {
	r := influence.MulVec(mats.D, sigma)
	var num, den float64
	for i := range r {
		num += sqAbs(r[i] - rhs[i])
		den += sqAbs(rhs[i])
	}
	if den == 0 {
		return math.Sqrt(num)
	}
	return math.Sqrt(num / den)
}

func sqAbs(z complex128) float64 {
	a := cmplx.Abs(z)
	return a * a
}

// SolveAll solves independent problems concurrently, at most workers at a
// time (GOMAXPROCS when workers <= 0). Results are returned in the order
// of problems; the first failure cancels the remaining solves.
func (s *Solver) SolveAll(ctx context.Context, problems []*Problem, workers int, keepDetails bool) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(problems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, p := range problems {
		i, p := i, p
		g.Go(func() error {
			r, err := s.SolveContext(gctx, p, keepDetails)
			if err != nil {
				return fmt.Errorf("problem %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
