package expr

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Affine is a 4x4 homogeneous transformation matrix in row-major order for
// use with [Tree.RemapAffine]. The zero value is the zero matrix; build
// transformations with [Identity], [Translating], [Scaling], [Rotating] or
// [NewAffine].
type Affine struct {
	m [16]float64
}

// NewAffine returns an Affine with elements taken from a in row-major order.
func NewAffine(a [16]float64) Affine { return Affine{m: a} }

// Identity returns the identity transformation.
func Identity() Affine {
	return Affine{m: [16]float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}}
}

// Translating returns the transformation moving positions by v.
func Translating(v r3.Vec) Affine {
	return Affine{m: [16]float64{
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	}}
}

// Scaling returns the transformation scaling positions around the origin
// by factor v, element-wise.
func Scaling(v r3.Vec) Affine {
	return Affine{m: [16]float64{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}}
}

// Rotating returns the transformation rotating positions by radians angle
// around the line through the origin with direction axis, which must be
// non-zero.
func Rotating(radians float64, axis r3.Vec) Affine {
	n := r3.Unit(axis)
	s, c := math.Sincos(radians)
	k := 1 - c
	x, y, z := n.X, n.Y, n.Z
	return Affine{m: [16]float64{
		k*x*x + c, k*x*y - s*z, k*x*z + s*y, 0,
		k*x*y + s*z, k*y*y + c, k*y*z - s*x, 0,
		k*x*z - s*y, k*y*z + s*x, k*z*z + c, 0,
		0, 0, 0, 1,
	}}
}

// Mul multiplies a by b and returns the result, the equivalent of combining
// both transformations into one with b applied first.
func (a Affine) Mul(b Affine) Affine {
	var out Affine
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a.m[4*i+k] * b.m[4*k+j]
			}
			out.m[4*i+j] = sum
		}
	}
	return out
}

// MulPosition applies the transformation to position v and returns the result.
func (a Affine) MulPosition(v r3.Vec) r3.Vec {
	m := &a.m
	w := 1 / (m[12]*v.X + m[13]*v.Y + m[14]*v.Z + m[15])
	return r3.Vec{
		X: (m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3]) * w,
		Y: (m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7]) * w,
		Z: (m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11]) * w,
	}
}

// Array returns the matrix elements in row-major order.
func (a Affine) Array() [16]float64 { return a.m }

// Determinant returns the determinant of the matrix.
func (a Affine) Determinant() float64 {
	m := &a.m
	return m[0]*m[5]*m[10]*m[15] - m[0]*m[5]*m[11]*m[14] +
		m[0]*m[6]*m[11]*m[13] - m[0]*m[6]*m[9]*m[15] +
		m[0]*m[7]*m[9]*m[14] - m[0]*m[7]*m[10]*m[13] -
		m[1]*m[6]*m[11]*m[12] + m[1]*m[6]*m[8]*m[15] -
		m[1]*m[7]*m[8]*m[14] + m[1]*m[7]*m[10]*m[12] -
		m[1]*m[4]*m[10]*m[15] + m[1]*m[4]*m[11]*m[14] +
		m[2]*m[7]*m[8]*m[13] - m[2]*m[7]*m[9]*m[12] +
		m[2]*m[4]*m[9]*m[15] - m[2]*m[4]*m[11]*m[13] +
		m[2]*m[5]*m[11]*m[12] - m[2]*m[5]*m[8]*m[15] -
		m[3]*m[4]*m[9]*m[14] + m[3]*m[4]*m[10]*m[13] -
		m[3]*m[5]*m[10]*m[12] + m[3]*m[5]*m[8]*m[14] -
		m[3]*m[6]*m[8]*m[13] + m[3]*m[6]*m[9]*m[12]
}

// Inverse returns the inverse of the transformation such that
// a.Inverse().Mul(a) is the identity. A singular matrix has no inverse:
// the result holds non-finite elements which propagate through evaluation.
func (a Affine) Inverse() Affine {
	d := 1 / a.Determinant()
	m := &a.m
	var out Affine
	out.m[0] = (m[6]*m[11]*m[13] - m[7]*m[10]*m[13] + m[7]*m[9]*m[14] - m[5]*m[11]*m[14] - m[6]*m[9]*m[15] + m[5]*m[10]*m[15]) * d
	out.m[1] = (m[3]*m[10]*m[13] - m[2]*m[11]*m[13] - m[3]*m[9]*m[14] + m[1]*m[11]*m[14] + m[2]*m[9]*m[15] - m[1]*m[10]*m[15]) * d
	out.m[2] = (m[2]*m[7]*m[13] - m[3]*m[6]*m[13] + m[3]*m[5]*m[14] - m[1]*m[7]*m[14] - m[2]*m[5]*m[15] + m[1]*m[6]*m[15]) * d
	out.m[3] = (m[3]*m[6]*m[9] - m[2]*m[7]*m[9] - m[3]*m[5]*m[10] + m[1]*m[7]*m[10] + m[2]*m[5]*m[11] - m[1]*m[6]*m[11]) * d
	out.m[4] = (m[7]*m[10]*m[12] - m[6]*m[11]*m[12] - m[7]*m[8]*m[14] + m[4]*m[11]*m[14] + m[6]*m[8]*m[15] - m[4]*m[10]*m[15]) * d
	out.m[5] = (m[2]*m[11]*m[12] - m[3]*m[10]*m[12] + m[3]*m[8]*m[14] - m[0]*m[11]*m[14] - m[2]*m[8]*m[15] + m[0]*m[10]*m[15]) * d
	out.m[6] = (m[3]*m[6]*m[12] - m[2]*m[7]*m[12] - m[3]*m[4]*m[14] + m[0]*m[7]*m[14] + m[2]*m[4]*m[15] - m[0]*m[6]*m[15]) * d
	out.m[7] = (m[2]*m[7]*m[8] - m[3]*m[6]*m[8] + m[3]*m[4]*m[10] - m[0]*m[7]*m[10] - m[2]*m[4]*m[11] + m[0]*m[6]*m[11]) * d
	out.m[8] = (m[5]*m[11]*m[12] - m[7]*m[9]*m[12] + m[7]*m[8]*m[13] - m[4]*m[11]*m[13] - m[5]*m[8]*m[15] + m[4]*m[9]*m[15]) * d
	out.m[9] = (m[3]*m[9]*m[12] - m[1]*m[11]*m[12] - m[3]*m[8]*m[13] + m[0]*m[11]*m[13] + m[1]*m[8]*m[15] - m[0]*m[9]*m[15]) * d
	out.m[10] = (m[1]*m[7]*m[12] - m[3]*m[5]*m[12] + m[3]*m[4]*m[13] - m[0]*m[7]*m[13] - m[1]*m[4]*m[15] + m[0]*m[5]*m[15]) * d
	out.m[11] = (m[3]*m[5]*m[8] - m[1]*m[7]*m[8] - m[3]*m[4]*m[9] + m[0]*m[7]*m[9] + m[1]*m[4]*m[11] - m[0]*m[5]*m[11]) * d
	out.m[12] = (m[6]*m[9]*m[12] - m[5]*m[10]*m[12] - m[6]*m[8]*m[13] + m[4]*m[10]*m[13] + m[5]*m[8]*m[14] - m[4]*m[9]*m[14]) * d
	out.m[13] = (m[1]*m[10]*m[12] - m[2]*m[9]*m[12] + m[2]*m[8]*m[13] - m[0]*m[10]*m[13] - m[1]*m[8]*m[14] + m[0]*m[9]*m[14]) * d
	out.m[14] = (m[2]*m[5]*m[12] - m[1]*m[6]*m[12] - m[2]*m[4]*m[13] + m[0]*m[6]*m[13] + m[1]*m[4]*m[14] - m[0]*m[5]*m[14]) * d
	out.m[15] = (m[1]*m[6]*m[8] - m[2]*m[5]*m[8] + m[2]*m[4]*m[9] - m[0]*m[6]*m[9] - m[1]*m[4]*m[10] + m[0]*m[5]*m[10]) * d
	return out
}
