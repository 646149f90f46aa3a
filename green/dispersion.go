package green

import (
	"fmt"
	"math"
)

// WaveNumber returns the positive real root k0 of ω² = g·k·tanh(k·h). For
// h = +Inf it is the deep-water wavenumber ω²/g. The root lies in
// [K, K/tanh(K·h)] with K = ω²/g; Newton steps that leave the bracket are
// replaced by bisection.
func WaveNumber(omega, g, h, tol float64, maxIter int) (float64, error) {
	K := omega * omega / g
	if math.IsInf(h, 1) {
		return K, nil
	}
	lo, hi := K, K/math.Tanh(K*h)
	if hi-lo <= tol*K {
		return hi, nil
	}
	f := func(k float64) (float64, float64) {
		th := math.Tanh(k * h)
		return k*th - K, th + k*h*(1-th*th)
	}
	k := 0.5 * (lo + hi)
	for it := 0; it < maxIter; it++ {
		fk, dfk := f(k)
		if fk > 0 {
			hi = k
		} else {
			lo = k
		}
		next := k - fk/dfk
		if next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-k) <= tol*k {
			return next, nil
		}
		k = next
	}
	fk, _ := f(k)
	return 0, &NumericalError{
		Op:         fmt.Sprintf("dispersion root k0 (omega=%g, h=%g)", omega, h),
		Iterations: maxIter,
		Residual:   math.Abs(fk),
		Err:        ErrNoConvergence,
	}
}

// EvanescentRoot returns the n-th positive root (n ≥ 1) of
// ω² = -g·k·tan(k·h), found in ((n-½)π/h, nπ/h).
func EvanescentRoot(n int, K, h, tol float64, maxIter int) (float64, error) {
	var (
		lo = (float64(n) - 0.5) * math.Pi
		hi = float64(n) * math.Pi
		Kh = K * h
	)
	// u·tan(u) + Kh increases monotonically from -∞ to Kh on the bracket
	f := func(u float64) (float64, float64) {
		t := math.Tan(u)
		return u*t + Kh, t + u*(1+t*t)
	}
	u := hi - 0.5*math.Pi*Kh/(Kh+hi)
	for it := 0; it < maxIter; it++ {
		fu, dfu := f(u)
		if fu > 0 {
			hi = u
		} else {
			lo = u
		}
		next := u - fu/dfu
		if next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		if math.Abs(next-u) <= tol*u {
			return next / h, nil
		}
		u = next
	}
	fu, _ := f(u)
	return 0, &NumericalError{
		Op:         fmt.Sprintf("evanescent root k%d (K=%g, h=%g)", n, K, h),
		Iterations: maxIter,
		Residual:   math.Abs(fu),
		Err:        ErrNoConvergence,
	}
}
