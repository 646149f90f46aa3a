package solver

import (
	"fmt"
	"math"

	"github.com/notargets/BEMKernel/body"
	"github.com/notargets/BEMKernel/green"
	"github.com/notargets/BEMKernel/mesh"
)

// Kind selects the boundary condition of a problem.
type Kind uint8

const (
	Radiation   Kind = iota // body oscillating in one DOF in calm water
	Diffraction             // fixed body in a regular incident wave
)

func (k Kind) String() string {
	switch k {
	case Radiation:
		return "Radiation"
	case Diffraction:
		return "Diffraction"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Problem is one linear potential-flow boundary value problem. Problems are
// validated at construction and not modified afterwards.
type Problem struct {
	Body *body.Body
	Kind Kind

	RadiatingDOF string  // Radiation only
	Heading      float64 // Diffraction only, direction of propagation in radians from +x

	Omega       float64 // angular frequency, rad/s
	Rho         float64 // water density, kg/m³
	Gravity     float64 // m/s²
	Depth       float64 // math.Inf(1) for deep water
	FreeSurface bool    // false for a body in unbounded fluid
}

// Option sets an environment parameter of a Problem.
type Option func(*Problem)

func WithOmega(omega float64) Option { return func(p *Problem) { p.Omega = omega } }

func WithRho(rho float64) Option { return func(p *Problem) { p.Rho = rho } }

func WithGravity(g float64) Option { return func(p *Problem) { p.Gravity = g } }

// WithDepth sets a finite water depth; math.Inf(1) restores deep water.
func WithDepth(h float64) Option { return func(p *Problem) { p.Depth = h } }

// WithoutFreeSurface removes the free surface, leaving the body in
// unbounded fluid (or above the sea bottom for a finite depth).
func WithoutFreeSurface() Option { return func(p *Problem) { p.FreeSurface = false } }

func newProblem(b *body.Body, kind Kind, opts []Option) *Problem {
	p := &Problem{
		Body:        b,
		Kind:        kind,
		Omega:       1,
		Rho:         1000,
		Gravity:     9.81,
		Depth:       math.Inf(1),
		FreeSurface: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewRadiationProblem sets up the radiation of dof. An empty dof selects the
// first DOF declared on the body.
func NewRadiationProblem(b *body.Body, dof string, opts ...Option) (*Problem, error) {
	p := newProblem(b, Radiation, opts)
	if dof == "" && b != nil {
		if names := b.DOFNames(); len(names) > 0 {
			dof = names[0]
		}
	}
	p.RadiatingDOF = dof
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// NewDiffractionProblem sets up the diffraction of a wave travelling in
// direction heading (radians).
func NewDiffractionProblem(b *body.Body, heading float64, opts ...Option) (*Problem, error) {
	p := newProblem(b, Diffraction, opts)
	p.Heading = heading
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the environment, the boundary condition and the geometry
// of p. Problems built as struct literals are validated again by the solver.
func (p *Problem) Validate() error {
	if err := p.validateEnvironment(); err != nil {
		return err
	}
	switch p.Kind {
	case Radiation:
		if p.RadiatingDOF == "" {
			return &ConfigurationError{Field: "dof", Reason: fmt.Sprintf("body %q has no DOF", p.Body.Name), Err: ErrUnknownDOF}
		}
		if _, ok := p.Body.DOF(p.RadiatingDOF); !ok {
			return &ConfigurationError{Field: "dof", Reason: fmt.Sprintf("%q is not a DOF of body %q", p.RadiatingDOF, p.Body.Name), Err: ErrUnknownDOF}
		}
	case Diffraction:
		if math.IsNaN(p.Heading) || math.IsInf(p.Heading, 0) {
			return configErrorf("heading", "must be finite, got %g", p.Heading)
		}
		if !p.FreeSurface {
			return configErrorf("free surface", "diffraction needs a free surface")
		}
	default:
		return configErrorf("kind", "unknown problem kind %v", p.Kind)
	}
	return p.validateGeometry()
}

func positive(field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return configErrorf(field, "must be positive and finite, got %g", v)
	}
	return nil
}

func (p *Problem) validateEnvironment() error {
	if p.Body == nil || p.Body.Mesh == nil {
		return configErrorf("body", "a body with a mesh is required")
	}
	if err := positive("omega", p.Omega); err != nil {
		return err
	}
	if err := positive("rho", p.Rho); err != nil {
		return err
	}
	if err := positive("gravity", p.Gravity); err != nil {
		return err
	}
	if !(p.Depth > 0) {
		return configErrorf("depth", "must be positive or +Inf, got %g", p.Depth)
	}
	return nil
}

// validateGeometry checks that every panel lies in the fluid domain.
func (p *Problem) validateGeometry() error {
	m := p.Body.Mesh
	for i := 0; i < m.Len(); i++ {
		pn := m.Panel(i)
		tol := 1e-6 * math.Max(1, pn.Radius())
		if p.FreeSurface && pn.Center.Z > tol {
			return &mesh.GeometryError{Panel: i, Reason: fmt.Sprintf("center z = %g is above the free surface", pn.Center.Z)}
		}
		if !p.Deep() && pn.Center.Z < -p.Depth-tol {
			return &mesh.GeometryError{Panel: i, Reason: fmt.Sprintf("center z = %g is below the sea bottom at %g", pn.Center.Z, -p.Depth)}
		}
	}
	return nil
}

func (p *Problem) Deep() bool { return math.IsInf(p.Depth, 1) }

// Wavenumber is the deep-water wavenumber ω²/g.
func (p *Problem) Wavenumber() float64 { return p.Omega * p.Omega / p.Gravity }

// Environment is the part of the problem the influence matrices depend on.
func (p *Problem) Environment() green.Environment {
	return green.Environment{Omega: p.Omega, Gravity: p.Gravity, Depth: p.Depth, FreeSurface: p.FreeSurface}
}

func (p *Problem) String() string {
	var payload string
	switch p.Kind {
	case Radiation:
		payload = fmt.Sprintf("dof=%s", p.RadiatingDOF)
	case Diffraction:
		payload = fmt.Sprintf("heading=%.4g", p.Heading)
	}
	return fmt.Sprintf("%v(body=%s, ω=%.4g, h=%g, %s)", p.Kind, p.Body.Name, p.Omega, p.Depth, payload)
}
