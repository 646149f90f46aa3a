package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Vec3 is a point or direction in the body-fixed frame, z pointing up with
// the still-water level at z = 0. It shares its layout with r3.Vec.
type Vec3 r3.Vec

func (a Vec3) Add(b Vec3) Vec3 { return Vec3(r3.Add(r3.Vec(a), r3.Vec(b))) }

func (a Vec3) Sub(b Vec3) Vec3 { return Vec3(r3.Sub(r3.Vec(a), r3.Vec(b))) }

func (a Vec3) Scale(s float64) Vec3 { return Vec3(r3.Scale(s, r3.Vec(a))) }

func (a Vec3) Dot(b Vec3) float64 { return r3.Dot(r3.Vec(a), r3.Vec(b)) }

func (a Vec3) Cross(b Vec3) Vec3 { return Vec3(r3.Cross(r3.Vec(a), r3.Vec(b))) }

func (a Vec3) Norm() float64 { return r3.Norm(r3.Vec(a)) }

// Unit returns a scaled to unit length, or the zero vector if a is zero.
func (a Vec3) Unit() Vec3 {
	if a == (Vec3{}) {
		return Vec3{}
	}
	return Vec3(r3.Unit(r3.Vec(a)))
}

// Components returns x, y and z in order.
func (a Vec3) Components() [3]float64 { return [3]float64{a.X, a.Y, a.Z} }

// IsFinite reports whether no component is NaN or ±Inf
func (a Vec3) IsFinite() bool {
	for _, v := range a.Components() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
