package lattice

import (
	"math"

	"github.com/soypat/symsdf"
	"github.com/soypat/symsdf/expr"
)

// Triply periodic minimal surface fields for infill and heat exchanger
// geometry. All records here convert to level-set approximations, not exact
// distance fields: the 1/k normalization bounds the gradient magnitude by
// sqrt(3) so the fields stay usable with Lipschitz-aware evaluators after
// scaling steps accordingly. Solid walls are obtained by composing with
// [symsdf.Onion]; clipping to a finite part with [symsdf.Intersection].

// Compile-time check the lattice records are catalog compatible.
var _ = []symsdf.Shape{Gyroid{}, SchwarzP{}}

// Gyroid is the gyroid surface field with cubic unit cell of side Period.
// The zero-set divides space into two congruent labyrinths; thickened with
// [symsdf.Onion] it yields the common gyroid infill wall.
type Gyroid struct {
	Period float64
}

// Tree returns (sin x'cos y' + sin y'cos z' + sin z'cos x')/k with
// x' = kx and k = 2*pi/Period. A zero Period degenerates the field to NaN.
func (g Gyroid) Tree() expr.Tree {
	k := 2 * math.Pi / g.Period
	x, y, z := expr.Axes()
	xk, yk, zk := x.MulScalar(k), y.MulScalar(k), z.MulScalar(k)
	field := xk.Sin().Mul(yk.Cos()).
		Add(yk.Sin().Mul(zk.Cos())).
		Add(zk.Sin().Mul(xk.Cos()))
	return field.DivScalar(k)
}

// SchwarzP is the Schwarz primitive surface field with cubic unit cell of
// side Period. Its zero-set is the classic cubic plumbing of straight
// tubes along the axes.
type SchwarzP struct {
	Period float64
}

// Tree returns (cos x' + cos y' + cos z')/k with x' = kx and k = 2*pi/Period.
func (s SchwarzP) Tree() expr.Tree {
	k := 2 * math.Pi / s.Period
	x, y, z := expr.Axes()
	field := x.MulScalar(k).Cos().
		Add(y.MulScalar(k).Cos()).
		Add(z.MulScalar(k).Cos())
	return field.DivScalar(k)
}
