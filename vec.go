package symsdf

import (
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Vec2 is a 2 element float64 vector for shape parameters in the XY plane.
type Vec2 = r2.Vec

// Vec3 is a 3 element float64 vector for shape parameters.
// Shape parameters are kept in float64 regardless of the precision
// downstream evaluators run at; see [github.com/soypat/symsdf/expreval].
type Vec3 = r3.Vec

// Vec4 is a 4 element float64 vector. Useful for working with rows of the
// homogeneous matrices consumed by [Transform].
type Vec4 struct {
	X, Y, Z, W float64
}

// Array returns the vector components in x,y,z,w order.
func (v Vec4) Array() [4]float64 {
	return [4]float64{v.X, v.Y, v.Z, v.W}
}
