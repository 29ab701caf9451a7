package symsdf

import (
	"errors"
	"fmt"
	"math"

	"github.com/soypat/symsdf/expr"
)

// epstol is the determinant magnitude below which a [Transform] matrix is
// reported as singular by [Validate].
const epstol = 1e-12

// Validate inspects the parameters of a catalog record and returns all
// defects found joined into one error, or nil. Tree never calls it:
// conversions are total and degenerate records still convert to valid
// trees. Callers for whom degenerate geometry is a mistake check here
// before converting.
//
// Tree-valued fields are only checked against the zero value (which would
// panic on conversion); Validate does not recurse into expressions.
// Shape implementations from other packages are not inspected and pass.
func Validate(s Shape) error {
	var v validator
	switch s := s.(type) {
	case Circle:
		v.finiteVec2("circle center", s.Center)
		v.positive("circle radius", s.Radius)
	case Rect:
		v.finiteVec2("rect center", s.Center)
		v.positive("rect half width", s.HalfSize.X)
		v.positive("rect half height", s.HalfSize.Y)
	case Sphere:
		v.finiteVec3("sphere center", s.Center)
		v.positive("sphere radius", s.Radius)
	case Cuboid:
		v.finiteVec3("cuboid center", s.Center)
		v.positive("cuboid half size x", s.HalfSize.X)
		v.positive("cuboid half size y", s.HalfSize.Y)
		v.positive("cuboid half size z", s.HalfSize.Z)
	case Cylinder:
		v.finiteVec3("cylinder center", s.Center)
		v.positive("cylinder radius", s.Radius)
		v.positive("cylinder half height", s.HalfHeight)
	case Torus:
		v.finiteVec3("torus center", s.Center)
		v.positive("torus major radius", s.MajorRadius)
		v.positive("torus tube radius", s.TubeRadius)
		if s.TubeRadius >= s.MajorRadius {
			v.shapeErrorf("too large torus tube radius")
		}
	case Union:
		v.trees("union input", s.Input)
	case Intersection:
		v.trees("intersection input", s.Input)
	case Inverse:
		v.tree("inverse shape", s.Shape)
	case Difference:
		v.tree("difference shape", s.Shape)
		v.tree("difference cutout", s.Cutout)
	case Xor:
		v.tree("xor operand", s.A)
		v.tree("xor operand", s.B)
	case Round:
		v.tree("round shape", s.Shape)
		v.finite("round radius", s.Radius)
	case Onion:
		v.tree("onion shape", s.Shape)
		v.positive("onion thickness", s.Thickness)
	case Repeat:
		v.tree("repeat shape", s.Shape)
		v.nonNegative("repeat cell x", s.Cell.X)
		v.nonNegative("repeat cell y", s.Cell.Y)
		v.nonNegative("repeat cell z", s.Cell.Z)
	case Twist:
		v.tree("twist shape", s.Shape)
		v.finite("twist factor", s.K)
	case Move:
		v.tree("move shape", s.Shape)
		v.finiteVec3("move offset", s.Offset)
	case Scale:
		v.tree("scale shape", s.Shape)
		v.nonZero("scale factor x", s.Scale.X)
		v.nonZero("scale factor y", s.Scale.Y)
		v.nonZero("scale factor z", s.Scale.Z)
	case Rotate:
		v.tree("rotate shape", s.Shape)
		v.finite("rotate angle", s.Radians)
		v.finiteVec3("rotate axis", s.Axis)
		if s.Axis == (Vec3{}) {
			v.shapeErrorf("null rotation axis")
		}
	case Transform:
		v.tree("transform shape", s.Shape)
		det := s.M.Determinant()
		if math.Abs(det) < epstol || math.IsNaN(det) {
			v.shapeErrorf("singular transform matrix")
		}
	case Symmetry:
		v.tree("symmetry shape", s.Shape)
		if !s.X && !s.Y && !s.Z {
			v.shapeErrorf("ineffective symmetry")
		}
	case Elongate:
		v.tree("elongate shape", s.Shape)
		v.nonNegative("elongate direction x", s.H.X)
		v.nonNegative("elongate direction y", s.H.Y)
		v.nonNegative("elongate direction z", s.H.Z)
	}
	return errors.Join(v.errs...)
}

// validator accumulates findings so one Validate call reports every defect
// of a record, not just the first.
type validator struct {
	errs []error
}

func (v *validator) shapeErrorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func (v *validator) positive(what string, x float64) {
	if x <= 0 || math.IsNaN(x) {
		v.shapeErrorf("zero or negative %s", what)
	} else if math.IsInf(x, 0) {
		v.shapeErrorf("non-finite %s", what)
	}
}

func (v *validator) nonNegative(what string, x float64) {
	if x < 0 || math.IsNaN(x) {
		v.shapeErrorf("negative %s", what)
	} else if math.IsInf(x, 0) {
		v.shapeErrorf("non-finite %s", what)
	}
}

func (v *validator) nonZero(what string, x float64) {
	if x == 0 {
		v.shapeErrorf("zero %s", what)
	} else {
		v.finite(what, x)
	}
}

func (v *validator) finite(what string, x float64) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		v.shapeErrorf("non-finite %s", what)
	}
}

func (v *validator) finiteVec2(what string, x Vec2) {
	v.finite(what, x.X)
	v.finite(what, x.Y)
}

func (v *validator) finiteVec3(what string, x Vec3) {
	v.finite(what, x.X)
	v.finite(what, x.Y)
	v.finite(what, x.Z)
}

func (v *validator) tree(what string, t expr.Tree) {
	if t == (expr.Tree{}) {
		v.shapeErrorf("zero value %s tree", what)
	}
}

func (v *validator) trees(what string, ts []expr.Tree) {
	for i, t := range ts {
		if t == (expr.Tree{}) {
			v.shapeErrorf("zero value %s tree at index %d", what, i)
		}
	}
}
