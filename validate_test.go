package symsdf_test

import (
	"math"
	"strings"
	"testing"

	"github.com/soypat/symsdf"
	"github.com/soypat/symsdf/expr"
)

func TestValidateOK(t *testing.T) {
	tree := expr.Const(1)
	good := []symsdf.Shape{
		symsdf.Circle{Radius: 1},
		symsdf.Rect{HalfSize: symsdf.Vec2{X: 1, Y: 2}},
		symsdf.Sphere{Center: symsdf.Vec3{X: -3}, Radius: 0.5},
		symsdf.Cuboid{HalfSize: symsdf.Vec3{X: 1, Y: 1, Z: 1}},
		symsdf.Cylinder{Radius: 1, HalfHeight: 2},
		symsdf.Torus{MajorRadius: 3, TubeRadius: 1},
		symsdf.Union{},
		symsdf.Union{Input: []expr.Tree{tree, tree}},
		symsdf.Intersection{Input: []expr.Tree{tree}},
		symsdf.Inverse{Shape: tree},
		symsdf.Difference{Shape: tree, Cutout: tree},
		symsdf.Xor{A: tree, B: tree},
		symsdf.Round{Shape: tree, Radius: -0.5}, // negative round shrinks, still valid
		symsdf.Onion{Shape: tree, Thickness: 0.1},
		symsdf.Repeat{Shape: tree, Cell: symsdf.Vec3{X: 4}}, // zero period means no repetition
		symsdf.Twist{Shape: tree},
		symsdf.Move{Shape: tree, Offset: symsdf.Vec3{X: 1}},
		symsdf.Scale{Shape: tree, Scale: symsdf.Vec3{X: 1, Y: -2, Z: 0.5}},
		symsdf.Rotate{Shape: tree, Radians: math.Pi, Axis: symsdf.Vec3{Z: 1}},
		symsdf.Transform{Shape: tree, M: expr.Identity()},
		symsdf.Symmetry{Shape: tree, Y: true},
		symsdf.Elongate{Shape: tree, H: symsdf.Vec3{X: 2}},
		customShape{},
	}
	for _, s := range good {
		if err := symsdf.Validate(s); err != nil {
			t.Errorf("%T: unexpected validation error: %s", s, err)
		}
	}
}

func TestValidateFindings(t *testing.T) {
	tree := expr.Const(1)
	var zero expr.Tree
	inf := math.Inf(1)
	nan := math.NaN()
	singular := expr.NewAffine([16]float64{
		1, 0, 0, 0,
		2, 0, 0, 0, // linearly dependent rows
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
	tests := []struct {
		shape symsdf.Shape
		want  string
	}{
		{symsdf.Circle{Radius: 0}, "zero or negative circle radius"},
		{symsdf.Circle{Radius: inf}, "non-finite circle radius"},
		{symsdf.Circle{Center: symsdf.Vec2{X: nan}, Radius: 1}, "non-finite circle center"},
		{symsdf.Rect{HalfSize: symsdf.Vec2{X: 1, Y: -1}}, "zero or negative rect half height"},
		{symsdf.Sphere{Radius: -1}, "zero or negative sphere radius"},
		{symsdf.Sphere{Radius: nan}, "zero or negative sphere radius"},
		{symsdf.Cuboid{HalfSize: symsdf.Vec3{X: 1, Y: 1}}, "zero or negative cuboid half size z"},
		{symsdf.Cylinder{Radius: 1}, "zero or negative cylinder half height"},
		{symsdf.Torus{MajorRadius: 1, TubeRadius: 2}, "too large torus tube radius"},
		{symsdf.Union{Input: []expr.Tree{tree, zero}}, "zero value union input tree at index 1"},
		{symsdf.Intersection{Input: []expr.Tree{zero}}, "zero value intersection input tree at index 0"},
		{symsdf.Inverse{}, "zero value inverse shape tree"},
		{symsdf.Difference{Shape: tree}, "zero value difference cutout tree"},
		{symsdf.Xor{A: tree}, "zero value xor operand tree"},
		{symsdf.Round{Shape: tree, Radius: nan}, "non-finite round radius"},
		{symsdf.Onion{Shape: tree}, "zero or negative onion thickness"},
		{symsdf.Repeat{Shape: tree, Cell: symsdf.Vec3{X: -4}}, "negative repeat cell x"},
		{symsdf.Repeat{Shape: tree, Cell: symsdf.Vec3{Y: inf}}, "non-finite repeat cell y"},
		{symsdf.Twist{Shape: tree, K: inf}, "non-finite twist factor"},
		{symsdf.Move{Shape: tree, Offset: symsdf.Vec3{Z: nan}}, "non-finite move offset"},
		{symsdf.Scale{Shape: tree, Scale: symsdf.Vec3{X: 1, Y: 1}}, "zero scale factor z"},
		{symsdf.Rotate{Shape: tree, Radians: 1}, "null rotation axis"},
		{symsdf.Transform{Shape: tree, M: singular}, "singular transform matrix"},
		{symsdf.Transform{Shape: tree}, "singular transform matrix"}, // zero value matrix
		{symsdf.Symmetry{Shape: tree}, "ineffective symmetry"},
		{symsdf.Elongate{Shape: tree, H: symsdf.Vec3{Y: -1}}, "negative elongate direction y"},
	}
	for _, tc := range tests {
		err := symsdf.Validate(tc.shape)
		if err == nil {
			t.Errorf("%T %+v: no validation error, want %q", tc.shape, tc.shape, tc.want)
			continue
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%T: error %q does not mention %q", tc.shape, err, tc.want)
		}
	}
}

// A single Validate call reports every defect of the record.
func TestValidateJoinsFindings(t *testing.T) {
	err := symsdf.Validate(symsdf.Cylinder{Radius: -1})
	if err == nil {
		t.Fatal("no error for degenerate cylinder")
	}
	msg := err.Error()
	for _, want := range []string{
		"zero or negative cylinder radius",
		"zero or negative cylinder half height",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("joined error %q missing %q", msg, want)
		}
	}
}

// Degenerate records still convert: Tree is total.
func TestDegenerateRecordsStillConvert(t *testing.T) {
	bad := []symsdf.Shape{
		symsdf.Sphere{Radius: -1},
		symsdf.Circle{Radius: 0},
		symsdf.Torus{MajorRadius: 1, TubeRadius: 2},
		symsdf.Scale{Shape: expr.Const(1), Scale: symsdf.Vec3{}},
		symsdf.Repeat{Shape: expr.Const(1)},
	}
	for _, s := range bad {
		tree := s.Tree() // must not panic
		if tree == (expr.Tree{}) {
			t.Errorf("%T: degenerate record produced zero tree", s)
		}
	}
}
