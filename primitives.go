package symsdf

import "github.com/soypat/symsdf/expr"

// Sphere is a sphere of radius Radius centered at Center.
type Sphere struct {
	Center Vec3
	Radius float64
}

// Tree returns the exact distance expression sqrt(sum (Xi-ci)^2) - r.
func (s Sphere) Tree() expr.Tree {
	x, y, z := expr.Axes()
	dx := x.SubScalar(s.Center.X)
	dy := y.SubScalar(s.Center.Y)
	dz := z.SubScalar(s.Center.Z)
	return dx.Square().Add(dy.Square()).Add(dz.Square()).Sqrt().SubScalar(s.Radius)
}

// Cuboid is an axis-aligned box given by its center and the half-size on
// each axis.
type Cuboid struct {
	Center   Vec3
	HalfSize Vec3
}

// Tree returns the 3D extension of the [Rect] expression: exact distance
// outside the box, signed max of the three axis distances inside.
func (c Cuboid) Tree() expr.Tree {
	x, y, z := expr.Axes()
	dx := x.SubScalar(c.Center.X).Abs().SubScalar(c.HalfSize.X)
	dy := y.SubScalar(c.Center.Y).Abs().SubScalar(c.HalfSize.Y)
	dz := z.SubScalar(c.Center.Z).Abs().SubScalar(c.HalfSize.Z)
	zero := expr.Const(0)
	outside := dx.Max(zero).Square().
		Add(dy.Max(zero).Square()).
		Add(dz.Max(zero).Square()).Sqrt()
	return outside.Add(dx.Max(dy.Max(dz)).Min(zero))
}

// Cylinder is a finite cylinder aligned with the Y axis, centered at Center
// with radius Radius and total height 2*HalfHeight.
type Cylinder struct {
	Center     Vec3
	Radius     float64
	HalfHeight float64
}

// Tree composes the radial distance in the XZ plane with the axial distance
// along Y using the same outside/inside split as [Cuboid].
func (c Cylinder) Tree() expr.Tree {
	x, y, z := expr.Axes()
	px := x.SubScalar(c.Center.X)
	py := y.SubScalar(c.Center.Y)
	pz := z.SubScalar(c.Center.Z)
	dr := px.Square().Add(pz.Square()).Sqrt().SubScalar(c.Radius)
	dy := py.Abs().SubScalar(c.HalfHeight)
	zero := expr.Const(0)
	outside := dr.Max(zero).Square().Add(dy.Max(zero).Square()).Sqrt()
	return outside.Add(dr.Max(dy).Min(zero))
}

// Torus is a torus aligned with the Y axis. MajorRadius is the distance
// from Center to the middle of the tube and TubeRadius the radius of the
// tube itself. A solid (self-intersecting) torus results when
// TubeRadius >= MajorRadius; [Validate] reports it.
type Torus struct {
	Center      Vec3
	MajorRadius float64
	TubeRadius  float64
}

// Tree returns the exact torus distance: distance from the tube's center
// circle minus the tube radius.
func (t Torus) Tree() expr.Tree {
	x, y, z := expr.Axes()
	px := x.SubScalar(t.Center.X)
	py := y.SubScalar(t.Center.Y)
	pz := z.SubScalar(t.Center.Z)
	ring := px.Square().Add(pz.Square()).Sqrt().SubScalar(t.MajorRadius)
	return ring.Square().Add(py.Square()).Sqrt().SubScalar(t.TubeRadius)
}
