package symsdf

import "github.com/soypat/symsdf/expr"

// Circle is a circle of radius Radius centered at Center in the XY plane.
// The resulting expression does not reference the Z variable, so it may be
// evaluated as a 2D field or treated as an infinite cylinder along Z in 3D.
type Circle struct {
	Center Vec2
	Radius float64
}

// Tree returns the exact distance expression sqrt((X-cx)^2+(Y-cy)^2) - r.
func (c Circle) Tree() expr.Tree {
	x, y, _ := expr.Axes()
	dx := x.SubScalar(c.Center.X)
	dy := y.SubScalar(c.Center.Y)
	return dx.Square().Add(dy.Square()).Sqrt().SubScalar(c.Radius)
}

// Rect is an axis-aligned rectangle in the XY plane given by its center and
// the half-size on each axis. Like [Circle] its expression ignores Z.
type Rect struct {
	Center   Vec2
	HalfSize Vec2
}

// Tree returns the usual box distance expression: exact Euclidean distance
// outside the rectangle, signed max of the axis distances inside.
func (r Rect) Tree() expr.Tree {
	x, y, _ := expr.Axes()
	dx := x.SubScalar(r.Center.X).Abs().SubScalar(r.HalfSize.X)
	dy := y.SubScalar(r.Center.Y).Abs().SubScalar(r.HalfSize.Y)
	zero := expr.Const(0)
	outside := dx.Max(zero).Square().Add(dy.Max(zero).Square()).Sqrt()
	return outside.Add(dx.Max(dy).Min(zero))
}
