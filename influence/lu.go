package influence

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Factorization is the LU decomposition of a complex n×n matrix A = Ar + iAi
// through its real embedding
//
//	| Ar  -Ai |
//	| Ai   Ar |
type Factorization struct {
	n  int
	lu mat.LU
}

func Factorize(a *mat.CDense) (*Factorization, error) {
	r, c := a.Dims()
	if r != c {
		return nil, mat.ErrShape
	}
	n := r
	emb := mat.NewDense(2*n, 2*n, nil)
	raw := a.RawCMatrix()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := raw.Data[i*raw.Stride+j]
			emb.Set(i, j, real(v))
			emb.Set(i, j+n, -imag(v))
			emb.Set(i+n, j, imag(v))
			emb.Set(i+n, j+n, real(v))
		}
	}
	f := &Factorization{n: n}
	f.lu.Factorize(emb)
	return f, nil
}

// Cond returns the condition number estimate of the factorized matrix.
func (f *Factorization) Cond() float64 { return f.lu.Cond() }

// Solve returns x with A·x = b. An ill-conditioned matrix still yields a
// solution; callers judge it through Cond. Exact singularity is an error.
func (f *Factorization) Solve(b []complex128) ([]complex128, error) {
	if len(b) != f.n {
		return nil, fmt.Errorf("influence: right-hand side has %d entries, want %d: %w", len(b), f.n, mat.ErrShape)
	}
	rhs := mat.NewVecDense(2*f.n, nil)
	for i, v := range b {
		rhs.SetVec(i, real(v))
		rhs.SetVec(i+f.n, imag(v))
	}
	var x mat.VecDense
	if err := f.lu.SolveVecTo(&x, false, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, err
		}
	}
	out := make([]complex128, f.n)
	for i := range out {
		out[i] = complex(x.AtVec(i), x.AtVec(i+f.n))
	}
	return out, nil
}
