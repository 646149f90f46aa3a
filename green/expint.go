package green

import (
	"math"
	"math/cmplx"
)

const eulerGamma = 0.57721566490153286061

// ExpE1 returns exp(z)·E1(z) for complex z off the negative real axis (on
// the axis the value from above, Im z = +0, is returned). Scaling by exp(z)
// keeps the result representable for any |z|.
//
//	|z| > 40                    asymptotic expansion
//	|z| < 2 or near the cut     power series
//	otherwise                   continued fraction (modified Lentz)
func ExpE1(z complex128) complex128 {
	az := cmplx.Abs(z)
	switch {
	case az > 40:
		return expE1Asymptotic(z)
	case az < 2 || (real(z) < 0 && math.Abs(imag(z)) < 3):
		return cmplx.Exp(z) * e1Series(z)
	default:
		return expE1ContinuedFraction(z)
	}
}

// E1 is the exponential integral of complex argument
func E1(z complex128) complex128 {
	if cmplx.Abs(z) < 2 || (real(z) < 0 && math.Abs(imag(z)) < 3) {
		return e1Series(z)
	}
	return cmplx.Exp(-z) * ExpE1(z)
}

func e1Series(z complex128) complex128 {
	var (
		sum  complex128
		term = complex(1, 0)
	)
	for n := 1; n < 2000; n++ {
		term *= -z / complex(float64(n), 0)
		d := term / complex(float64(n), 0)
		sum += d
		if n > 2 && cmplx.Abs(d) < 1e-17*cmplx.Abs(sum) {
			break
		}
	}
	return -eulerGamma - cmplx.Log(z) - sum
}

func expE1ContinuedFraction(z complex128) complex128 {
	const tiny = 1e-300
	var (
		b = z + 1
		c = complex(1/tiny, 0)
		d = 1 / b
		h = d
	)
	for i := 1; i < 5000; i++ {
		an := complex(-float64(i*i), 0)
		b += 2
		d = 1 / (an*d + b)
		c = b + an/c
		del := c * d
		h *= del
		if cmplx.Abs(del-1) < 1e-16 {
			break
		}
	}
	return h
}

func expE1Asymptotic(z complex128) complex128 {
	var (
		sum  complex128
		term = 1 / z
	)
	for n := 1; n < 60; n++ {
		sum += term
		next := -term * complex(float64(n), 0) / z
		if cmplx.Abs(next) > cmplx.Abs(term) || cmplx.Abs(next) < 1e-17*cmplx.Abs(sum) {
			break
		}
		term = next
	}
	return sum
}
