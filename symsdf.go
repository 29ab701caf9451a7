package symsdf

import (
	"reflect"

	"github.com/soypat/symsdf/expr"
)

// Shape is the sole capability shared by all records in the catalog:
// conversion into a signed distance expression over the X, Y, Z variables
// of the [expr] algebra. Tree is total; it never fails for finite
// parameters and well formed argument trees. Degenerate parameters such as
// negative radii still produce valid trees whose zero-set may be empty.
// Use [Validate] upstream when degenerate records should be an error.
type Shape interface {
	Tree() expr.Tree
}

// ShapeInfo is the human readable metadata of a catalog entry, for
// downstream UIs and tooling.
type ShapeInfo struct {
	Name string // Exported Go type name of the record.
	Doc  string // One line description.
}

// catalog lists every shape record of this package in declaration order
// with its one line description.
var catalog = [...]struct {
	typ reflect.Type
	doc string
}{
	{reflect.TypeOf(Circle{}), "2D circle"},
	{reflect.TypeOf(Rect{}), "Axis-aligned rectangle"},
	{reflect.TypeOf(Sphere{}), "3D sphere"},
	{reflect.TypeOf(Cuboid{}), "Axis-aligned box"},
	{reflect.TypeOf(Cylinder{}), "Finite cylinder aligned with the Y axis"},
	{reflect.TypeOf(Torus{}), "Torus aligned with the Y axis"},
	{reflect.TypeOf(Union{}), "Take the union of a set of shapes"},
	{reflect.TypeOf(Intersection{}), "Take the intersection of a set of shapes"},
	{reflect.TypeOf(Inverse{}), "Computes the inverse of a shape"},
	{reflect.TypeOf(Difference{}), "Take the difference of two shapes"},
	{reflect.TypeOf(Xor{}), "Take the exclusive difference of two shapes"},
	{reflect.TypeOf(Round{}), "Uniformly round (or offset) a shape"},
	{reflect.TypeOf(Onion{}), "Form a shell of constant thickness around a shape"},
	{reflect.TypeOf(Repeat{}), "Repeat a shape with the given periodicity"},
	{reflect.TypeOf(Twist{}), "Twist a shape around the Y axis"},
	{reflect.TypeOf(Move{}), "Move a shape"},
	{reflect.TypeOf(Scale{}), "Non-uniform scaling"},
	{reflect.TypeOf(Rotate{}), "Rotate a shape around an axis through the origin"},
	{reflect.TypeOf(Transform{}), "Apply an affine transform to a shape"},
	{reflect.TypeOf(Symmetry{}), "Mirror a shape across the selected axis planes"},
	{reflect.TypeOf(Elongate{}), "Stretch a shape away from the origin planes"},
}

// Compile-time check that every record in the catalog converts to a tree.
var _ = []Shape{
	Circle{}, Rect{}, Sphere{}, Cuboid{}, Cylinder{}, Torus{},
	Union{}, Intersection{}, Inverse{}, Difference{}, Xor{},
	Round{}, Onion{}, Repeat{}, Twist{},
	Move{}, Scale{}, Rotate{}, Transform{}, Symmetry{}, Elongate{},
}

// Catalog returns metadata for every shape record declared in this package,
// 2D primitives first, transforms last.
func Catalog() []ShapeInfo {
	infos := make([]ShapeInfo, len(catalog))
	for i, c := range catalog {
		infos[i] = ShapeInfo{Name: c.typ.Name(), Doc: c.doc}
	}
	return infos
}

// Describe returns the metadata of the dynamic type of s. The boolean is
// false for Shape implementations declared outside this package.
func Describe(s Shape) (ShapeInfo, bool) {
	t := reflect.TypeOf(s)
	for _, c := range catalog {
		if c.typ == t {
			return ShapeInfo{Name: c.typ.Name(), Doc: c.doc}, true
		}
	}
	return ShapeInfo{}, false
}
