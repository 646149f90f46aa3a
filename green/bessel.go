package green

import "math"

// Modified Bessel functions of the second kind, Abramowitz & Stegun 9.8.
// Relative accuracy is about 1e-7, well inside what the kernel needs.

func besselI0(x float64) float64 {
	t := x / 3.75
	t *= t
	return 1 + t*(3.5156229+t*(3.0899424+t*(1.2067492+t*(0.2659732+t*(0.0360768+t*0.0045813)))))
}

func besselI1(x float64) float64 {
	t := x / 3.75
	t *= t
	return x * (0.5 + t*(0.87890594+t*(0.51498869+t*(0.15084934+t*(0.02658733+t*(0.00301532+t*0.00032411))))))
}

// BesselK0 for x > 0
func BesselK0(x float64) float64 {
	if x <= 2 {
		y := x * x / 4
		return -math.Log(x/2)*besselI0(x) + (-0.57721566 + y*(0.42278420+y*(0.23069756+
			y*(0.03488590+y*(0.00262698+y*(0.00010750+y*0.00000740))))))
	}
	y := 2 / x
	return math.Exp(-x) / math.Sqrt(x) * (1.25331414 + y*(-0.07832358+y*(0.02189568+
		y*(-0.01062446+y*(0.00587872+y*(-0.00251540+y*0.00053208))))))
}

// BesselK1 for x > 0
func BesselK1(x float64) float64 {
	if x <= 2 {
		y := x * x / 4
		return math.Log(x/2)*besselI1(x) + (1/x)*(1+y*(0.15443144+y*(-0.67278579+
			y*(-0.18156897+y*(-0.01919402+y*(-0.00110404+y*(-0.00004686)))))))
	}
	y := 2 / x
	return math.Exp(-x) / math.Sqrt(x) * (1.25331414 + y*(0.23498619+y*(-0.03655620+
		y*(0.01504268+y*(-0.00780353+y*(0.00325614+y*(-0.00068245)))))))
}
