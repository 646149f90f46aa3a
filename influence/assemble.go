package influence

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/notargets/BEMKernel/green"
	"github.com/notargets/BEMKernel/mesh"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Options controls matrix assembly.
type Options struct {
	Green   green.Options
	Workers int // concurrent rows, <= 0 means GOMAXPROCS
}

func DefaultOptions() Options {
	return Options{Green: green.DefaultOptions()}
}

// Matrices holds the discrete operators of one mesh in one environment.
// Row i is the collocation point at the center of panel i, column j the
// constant-strength source distribution on panel j:
//
//	S[i][j] = -1/4π ∫_j G(x_i, ξ) dS
//	D[i][j] = ½δ_ij - 1/4π ∫_j n_i·∇G(x_i, ξ) dS
//
// so that φ = S·σ and ∂φ/∂n = D·σ on the body.
type Matrices struct {
	S, D *mat.CDense
}

func (m *Matrices) Size() int {
	n, _ := m.S.Dims()
	return n
}

// Assemble computes S and D for m. When the mesh carries a reflection
// descriptor only the rows of the first half are evaluated and the
// remaining rows are filled from S[m(i)][m(j)] = S[i][j].
func Assemble(ctx context.Context, m *mesh.Mesh, env green.Environment, opts Options) (*Matrices, error) {
	ev, err := green.NewEvaluator(env, opts.Green)
	if err != nil {
		return nil, err
	}
	n := m.Len()
	if n == 0 {
		return nil, fmt.Errorf("influence: empty mesh: %w", mesh.ErrGeometry)
	}
	sources := make([]green.Source, n)
	for j := range sources {
		sources[j] = ev.NewSource(m.Panel(j))
	}
	var (
		S    = mat.NewCDense(n, n, nil)
		D    = mat.NewCDense(n, n, nil)
		rs   = S.RawCMatrix()
		rd   = D.RawCMatrix()
		sym  = m.Symmetry()
		rows = n
	)
	if sym != nil {
		rows = sym.Half
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < rows; i++ {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := m.Panel(i)
			return assembleRow(ev, sources, i, p.Center, p.Normal,
				rs.Data[i*rs.Stride:i*rs.Stride+n], rd.Data[i*rd.Stride:i*rd.Stride+n])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if sym != nil {
		for i := 0; i < rows; i++ {
			mi := sym.Mirror(i)
			for j := 0; j < n; j++ {
				mj := sym.Mirror(j)
				rs.Data[mi*rs.Stride+mj] = rs.Data[i*rs.Stride+j]
				rd.Data[mi*rd.Stride+mj] = rd.Data[i*rd.Stride+j]
			}
		}
	}
	return &Matrices{S: S, D: D}, nil
}

func assembleRow(ev *green.Evaluator, sources []green.Source, i int, x, normal mesh.Vec3, srow, drow []complex128) error {
	const c = -1 / (4 * math.Pi)
	for j, s := range sources {
		v, grad, err := ev.Influence(x, s)
		if err != nil {
			return fmt.Errorf("influence of panel %d on panel %d: %w", j, i, err)
		}
		dn := grad[0]*complex(normal.X, 0) + grad[1]*complex(normal.Y, 0) + grad[2]*complex(normal.Z, 0)
		srow[j] = c * v
		drow[j] = c * dn
	}
	drow[i] += 0.5
	return nil
}

// MulVec returns a·x for a complex matrix.
func MulVec(a *mat.CDense, x []complex128) []complex128 {
	r, c := a.Dims()
	if len(x) != c {
		panic(mat.ErrShape)
	}
	raw := a.RawCMatrix()
	y := make([]complex128, r)
	for i := range y {
		row := raw.Data[i*raw.Stride : i*raw.Stride+c]
		var sum complex128
		for j, v := range row {
			sum += v * x[j]
		}
		y[i] = sum
	}
	return y
}
