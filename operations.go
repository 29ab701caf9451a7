package symsdf

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/soypat/symsdf/expr"
)

// Union merges the shapes in Input. An empty Input is the empty solid and
// converts to the constant +Inf expression, the identity element of min,
// so unions of unions compose without special cases.
//
// The min composition is the usual conservative CSG bound: the result is
// an exact distance outside the union but may underestimate inside
// overlapping regions.
type Union struct {
	Input []expr.Tree
}

// Tree reduces Input with pairwise min.
func (u Union) Tree() expr.Tree {
	if len(u.Input) == 0 {
		return expr.Const(math.Inf(1))
	}
	return reduceBalanced(u.Input, expr.Tree.Min)
}

// Intersection intersects the shapes in Input. An empty Input is the full
// solid and converts to the constant -Inf expression, the identity element
// of max. Same distance caveat as [Union]: max is exact inside, an
// overestimate outside.
type Intersection struct {
	Input []expr.Tree
}

// Tree reduces Input with pairwise max.
func (n Intersection) Tree() expr.Tree {
	if len(n.Input) == 0 {
		return expr.Const(math.Inf(-1))
	}
	return reduceBalanced(n.Input, expr.Tree.Max)
}

// reduceBalanced combines s by splitting at the midpoint and recursing on
// the halves so the result nests ceil(log2(n)) combine levels deep instead
// of the n-1 of a left fold. Deep chains degrade downstream evaluators.
// Odd lengths leave the smaller half on the left.
func reduceBalanced(s []expr.Tree, combine func(expr.Tree, expr.Tree) expr.Tree) expr.Tree {
	n := len(s)
	if n == 1 {
		return s[0]
	}
	return combine(reduceBalanced(s[:n/2], combine), reduceBalanced(s[n/2:], combine))
}

// Inverse flips the sign of the field, swapping inside and outside.
type Inverse struct {
	Shape expr.Tree
}

// Tree negates the shape expression.
func (i Inverse) Tree() expr.Tree { return i.Shape.Neg() }

// Difference removes Cutout from Shape.
type Difference struct {
	Shape  expr.Tree
	Cutout expr.Tree
}

// Tree returns max(shape, -cutout).
func (d Difference) Tree() expr.Tree { return d.Shape.Max(d.Cutout.Neg()) }

// Xor keeps the regions covered by exactly one of A and B. Unlike [Union]
// and [Intersection] the composition is exact everywhere when both inputs
// are exact distance fields.
type Xor struct {
	A expr.Tree
	B expr.Tree
}

// Tree returns max(min(a,b), -max(a,b)).
func (x Xor) Tree() expr.Tree {
	return x.A.Min(x.B).Max(x.A.Max(x.B).Neg())
}

// Round offsets the surface of Shape outward by Radius, rounding convex
// corners of hard-edged shapes. Negative values shrink the shape instead.
type Round struct {
	Shape  expr.Tree
	Radius float64
}

// Tree subtracts Radius from the shape expression.
func (r Round) Tree() expr.Tree { return r.Shape.SubScalar(r.Radius) }

// Onion replaces the solid with a shell of half-thickness Thickness about
// its surface.
type Onion struct {
	Shape     expr.Tree
	Thickness float64
}

// Tree returns |shape| - thickness.
func (o Onion) Tree() expr.Tree { return o.Shape.Abs().SubScalar(o.Thickness) }

// Repeat tiles Shape with period Cell on each axis. Copies are centered on
// integer multiples of Cell, so the prototype cell spans [-Cell/2, Cell/2).
// A zero Cell component leaves that axis unrepeated; the coordinate passes
// through unchanged.
//
// The field is only correct when the shape fits inside one cell: distances
// never account for neighboring copies.
type Repeat struct {
	Shape expr.Tree
	Cell  Vec3
}

// Tree substitutes (Xi+hi) mod ci - hi on each axis, hi = ci/2.
func (r Repeat) Tree() expr.Tree {
	x, y, z := expr.Axes()
	return r.Shape.RemapXYZ(
		repeatAxis(x, r.Cell.X),
		repeatAxis(y, r.Cell.Y),
		repeatAxis(z, r.Cell.Z),
	)
}

func repeatAxis(v expr.Tree, period float64) expr.Tree {
	if period == 0 {
		return v
	}
	h := period / 2
	return v.AddScalar(h).ModScalar(period).SubScalar(h)
}

// Twist rotates each XZ slice of Shape around the Y axis by the angle K*y.
// The remap is not an isometry so the result is not a true distance field:
// gradient magnitude grows with K and with distance from the axis, and
// sphere tracers must shorten their steps accordingly.
type Twist struct {
	Shape expr.Tree
	K     float64 // Rotation in radians per unit of height.
}

// Tree substitutes the rotated coordinates into the shape expression.
func (t Twist) Tree() expr.Tree {
	x, y, z := expr.Axes()
	angle := y.MulScalar(t.K)
	sin, cos := angle.Sin(), angle.Cos()
	rx := x.Mul(cos).Sub(z.Mul(sin))
	rz := x.Mul(sin).Add(z.Mul(cos))
	return t.Shape.RemapXYZ(rx, y, rz)
}

// Move displaces Shape by Offset. Like all transforms here it substitutes
// the inverse map into the coordinates: evaluating the result at p samples
// the original shape at p-Offset, which is what makes the shape appear
// moved in world space.
type Move struct {
	Shape  expr.Tree
	Offset Vec3
}

// Tree applies the translation by -Offset to the coordinates.
func (m Move) Tree() expr.Tree {
	return m.Shape.RemapAffine(expr.Translating(r3.Scale(-1, m.Offset)))
}

// Scale scales Shape about the origin, componentwise by Scale. The inverse
// map divides each coordinate by its factor. Non-uniform factors place the
// zero-set correctly but do not preserve Euclidean distance; magnitudes
// are stretched by up to the largest factor. A zero component divides by
// zero and degenerates the field to non-finite values; [Validate] flags it.
type Scale struct {
	Shape expr.Tree
	Scale Vec3
}

// Tree remaps coordinates through diag(1/sx, 1/sy, 1/sz).
func (s Scale) Tree() expr.Tree {
	inv := Vec3{X: 1 / s.Scale.X, Y: 1 / s.Scale.Y, Z: 1 / s.Scale.Z}
	return s.Shape.RemapAffine(expr.Scaling(inv))
}

// Rotate rotates Shape by Radians around the Axis direction through the
// origin. Rotations are isometries, so unlike [Twist] and non-uniform
// [Scale] the result remains an exact distance field when Shape is one.
type Rotate struct {
	Shape   expr.Tree
	Radians float64
	Axis    Vec3
}

// Tree substitutes the opposite rotation, which is the inverse map.
func (r Rotate) Tree() expr.Tree {
	return r.Shape.RemapAffine(expr.Rotating(-r.Radians, r.Axis))
}

// Transform applies the affine transform M to Shape by substituting the
// inverse matrix into the coordinates. A singular M has no inverse and
// degenerates the coefficients to non-finite values; [Validate] reports
// matrices with vanishing determinant.
type Transform struct {
	Shape expr.Tree
	M     expr.Affine
}

// Tree remaps coordinates through the inverse of M.
func (t Transform) Tree() expr.Tree { return t.Shape.RemapAffine(t.M.Inverse()) }

// AffineFromRows assembles the [Transform] matrix from its four rows.
func AffineFromRows(row0, row1, row2, row3 Vec4) expr.Affine {
	return expr.NewAffine([16]float64{
		row0.X, row0.Y, row0.Z, row0.W,
		row1.X, row1.Y, row1.Z, row1.W,
		row2.X, row2.Y, row2.Z, row2.W,
		row3.X, row3.Y, row3.Z, row3.W,
	})
}

// Symmetry mirrors Shape across the selected axis planes by evaluating it
// at the absolute value of the chosen coordinates. The positive half of
// the shape is kept and reflected onto the negative side.
type Symmetry struct {
	Shape   expr.Tree
	X, Y, Z bool
}

// Tree substitutes |Xi| for each mirrored axis.
func (s Symmetry) Tree() expr.Tree {
	x, y, z := expr.Axes()
	if s.X {
		x = x.Abs()
	}
	if s.Y {
		y = y.Abs()
	}
	if s.Z {
		z = z.Abs()
	}
	return s.Shape.RemapXYZ(x, y, z)
}

// Elongate stretches Shape by sweeping it along the window [-H/2, H/2] on
// each axis. The shape is sampled through the absolute coordinates, so as
// with [Symmetry] the positive half is kept and mirrored onto the negative
// side; for shapes symmetric about the origin planes a zero component
// leaves that axis unchanged.
type Elongate struct {
	Shape expr.Tree
	H     Vec3
}

// Tree evaluates the shape at max(|p|-h/2, 0) and restores the interior
// distance with the signed max term.
func (e Elongate) Tree() expr.Tree {
	x, y, z := expr.Axes()
	zero := expr.Const(0)
	qx := x.Abs().SubScalar(e.H.X / 2)
	qy := y.Abs().SubScalar(e.H.Y / 2)
	qz := z.Abs().SubScalar(e.H.Z / 2)
	d := e.Shape.RemapXYZ(qx.Max(zero), qy.Max(zero), qz.Max(zero))
	return d.Add(qx.Max(qy.Max(qz)).Min(zero))
}
