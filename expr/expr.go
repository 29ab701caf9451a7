package expr

import "strconv"

// Op identifies the operation performed by a node of an expression [Tree].
type Op uint8

const (
	opInvalid Op = iota

	// OpAxisX, OpAxisY and OpAxisZ are the coordinate variables returned by [Axes].
	OpAxisX
	OpAxisY
	OpAxisZ
	// OpConst is a floating point constant and has no operands.
	OpConst

	// Binary operations. Both operands are used.

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
	OpMod

	// Unary operations. Only the first operand is used.

	OpNeg
	OpAbs
	OpSquare
	OpSqrt
	OpSin
	OpCos

	maxOp
)

var opNames = [maxOp]string{
	OpAxisX: "x", OpAxisY: "y", OpAxisZ: "z",
	OpConst: "const",
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div",
	OpMin: "min", OpMax: "max", OpMod: "mod",
	OpNeg: "neg", OpAbs: "abs", OpSquare: "square", OpSqrt: "sqrt",
	OpSin: "sin", OpCos: "cos",
}

// String returns the lowercase name of the operation.
func (op Op) String() string {
	if op >= maxOp || opNames[op] == "" {
		return "invalid"
	}
	return opNames[op]
}

// Tree is a handle to an immutable symbolic expression over the three
// coordinate variables returned by [Axes]. Expressions represent signed
// distance fields symbolically: evaluating the expression at a position in
// space yields the distance to the surface of a solid at that position.
//
// Tree values are cheap to copy and subexpressions are shared freely since
// nodes are never modified after creation, which also makes concurrent use
// of trees safe. The zero value of Tree is not a valid expression; Tree
// methods panic when handed one.
type Tree struct {
	n *node
}

type node struct {
	op   Op
	c    float64 // Payload for OpConst nodes.
	l, r *node
}

// Coordinate variables are singletons so that substitution and flattening
// can key on node identity.
var (
	axisX = &node{op: OpAxisX}
	axisY = &node{op: OpAxisY}
	axisZ = &node{op: OpAxisZ}
)

// Axes returns the coordinate variables from which SDF expressions are built.
// Repeated calls to Axes return identical variables.
func Axes() (x, y, z Tree) {
	return Tree{n: axisX}, Tree{n: axisY}, Tree{n: axisZ}
}

// Const returns the expression holding the constant value v.
func Const(v float64) Tree {
	return Tree{n: &node{op: OpConst, c: v}}
}

func (t Tree) binary(op Op, u Tree) Tree {
	if t.n == nil || u.n == nil {
		panic("operation on zero-value expr.Tree")
	}
	return Tree{n: &node{op: op, l: t.n, r: u.n}}
}

func (t Tree) unary(op Op) Tree {
	if t.n == nil {
		panic("operation on zero-value expr.Tree")
	}
	return Tree{n: &node{op: op, l: t.n}}
}

// Add returns the expression t+u.
func (t Tree) Add(u Tree) Tree { return t.binary(OpAdd, u) }

// Sub returns the expression t-u.
func (t Tree) Sub(u Tree) Tree { return t.binary(OpSub, u) }

// Mul returns the expression t*u.
func (t Tree) Mul(u Tree) Tree { return t.binary(OpMul, u) }

// Div returns the expression t/u. Division by zero follows IEEE rules
// during evaluation.
func (t Tree) Div(u Tree) Tree { return t.binary(OpDiv, u) }

// AddScalar returns the expression t+c.
func (t Tree) AddScalar(c float64) Tree { return t.binary(OpAdd, Const(c)) }

// SubScalar returns the expression t-c.
func (t Tree) SubScalar(c float64) Tree { return t.binary(OpSub, Const(c)) }

// MulScalar returns the expression t*c.
func (t Tree) MulScalar(c float64) Tree { return t.binary(OpMul, Const(c)) }

// DivScalar returns the expression t/c.
func (t Tree) DivScalar(c float64) Tree { return t.binary(OpDiv, Const(c)) }

// Min returns the expression selecting the lesser of t and u. The minimum
// of two distance fields is the union of their solids.
func (t Tree) Min(u Tree) Tree { return t.binary(OpMin, u) }

// Max returns the expression selecting the greater of t and u. The maximum
// of two distance fields is the intersection of their solids.
func (t Tree) Max(u Tree) Tree { return t.binary(OpMax, u) }

// Mod returns the expression t mod u with the positive-period convention:
// the result lies in [0,u) for positive u regardless of the sign of t.
func (t Tree) Mod(u Tree) Tree { return t.binary(OpMod, u) }

// ModScalar returns the expression t mod c. See [Tree.Mod].
func (t Tree) ModScalar(c float64) Tree { return t.binary(OpMod, Const(c)) }

// Neg returns the expression -t. Negating an SDF swaps its inside with
// its outside.
func (t Tree) Neg() Tree { return t.unary(OpNeg) }

// Abs returns the expression |t|.
func (t Tree) Abs() Tree { return t.unary(OpAbs) }

// Square returns the expression t*t.
func (t Tree) Square() Tree { return t.unary(OpSquare) }

// Sqrt returns the square root expression of t.
func (t Tree) Sqrt() Tree { return t.unary(OpSqrt) }

// Sin returns the sine expression of t. t is in radians.
func (t Tree) Sin() Tree { return t.unary(OpSin) }

// Cos returns the cosine expression of t. t is in radians.
func (t Tree) Cos() Tree { return t.unary(OpCos) }

// RemapXYZ returns the expression t with every use of the coordinate
// variables substituted simultaneously: x replaces the X variable, y
// replaces Y and z replaces Z. Coordinate variables appearing inside the
// replacement expressions refer to the outer coordinates and are not
// substituted again. Remapping coordinates is how spatial deformations of
// distance fields are expressed symbolically.
func (t Tree) RemapXYZ(x, y, z Tree) Tree {
	if t.n == nil || x.n == nil || y.n == nil || z.n == nil {
		panic("operation on zero-value expr.Tree")
	}
	memo := map[*node]*node{axisX: x.n, axisY: y.n, axisZ: z.n}
	return Tree{n: remap(t.n, memo)}
}

// remap rebuilds n bottom-up applying the substitutions in memo, keyed by
// original node. Untouched subexpressions are returned as-is so sharing is
// preserved and each unique node is visited once.
func remap(n *node, memo map[*node]*node) *node {
	if sub, ok := memo[n]; ok {
		return sub
	}
	out := n
	switch {
	case n.r != nil:
		l, r := remap(n.l, memo), remap(n.r, memo)
		if l != n.l || r != n.r {
			out = &node{op: n.op, l: l, r: r}
		}
	case n.l != nil:
		if l := remap(n.l, memo); l != n.l {
			out = &node{op: n.op, l: l}
		}
	}
	memo[n] = out
	return out
}

// RemapAffine returns the expression t with coordinates transformed by a,
// equivalent to [Tree.RemapXYZ] with the linear combinations found in the
// rows of a. The bottom row of a is ignored; a is assumed affine.
//
// To transform the solid of an SDF expression by a matrix substitute the
// inverse: the field receives untransformed positions and must map them
// back into the space the shape was defined in.
func (t Tree) RemapAffine(a Affine) Tree {
	x, y, z := Axes()
	tx := linearComb(a.m[0], a.m[1], a.m[2], a.m[3], x, y, z)
	ty := linearComb(a.m[4], a.m[5], a.m[6], a.m[7], x, y, z)
	tz := linearComb(a.m[8], a.m[9], a.m[10], a.m[11], x, y, z)
	return t.RemapXYZ(tx, ty, tz)
}

// linearComb builds cx*x + cy*y + cz*z + off eliding zero terms and unit
// coefficients to keep expressions small.
func linearComb(cx, cy, cz, off float64, x, y, z Tree) Tree {
	var acc Tree
	term := func(c float64, axis Tree) {
		if c == 0 {
			return
		}
		u := axis
		if c != 1 {
			u = axis.MulScalar(c)
		}
		if acc.n == nil {
			acc = u
		} else {
			acc = acc.Add(u)
		}
	}
	term(cx, x)
	term(cy, y)
	term(cz, z)
	switch {
	case acc.n == nil:
		acc = Const(off)
	case off != 0:
		acc = acc.AddScalar(off)
	}
	return acc
}

// Depth returns the number of levels in the expression. Coordinate
// variables and constants have depth 1.
func (t Tree) Depth() int {
	if t.n == nil {
		return 0
	}
	return depth(t.n, make(map[*node]int))
}

func depth(n *node, memo map[*node]int) int {
	if d, ok := memo[n]; ok {
		return d
	}
	d := 1
	if n.l != nil {
		d += depth(n.l, memo)
		if n.r != nil {
			if dr := 1 + depth(n.r, memo); dr > d {
				d = dr
			}
		}
	}
	memo[n] = d
	return d
}

// Count returns the number of unique nodes in the expression. Shared
// subexpressions are counted once.
func (t Tree) Count() int {
	if t.n == nil {
		return 0
	}
	seen := make(map[*node]struct{})
	var walk func(n *node)
	walk = func(n *node) {
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if n.l != nil {
			walk(n.l)
			if n.r != nil {
				walk(n.r)
			}
		}
	}
	walk(t.n)
	return len(seen)
}

// Node is one operation of a flattened expression as produced by [Tree.Flatten].
type Node struct {
	Op Op
	// C is the constant payload, meaningful only when Op is [OpConst].
	C float64
	// L and R index the operands of Op within the flattened expression.
	// Unused operands are -1.
	L, R int32
}

// Flatten returns the expression as a flat program in dependency order:
// operands always precede the nodes that use them and the root of the
// expression is the last element. Shared subexpressions appear exactly
// once. Evaluators run the returned program front to back.
func (t Tree) Flatten() []Node {
	if t.n == nil {
		panic("Flatten of zero-value expr.Tree")
	}
	idx := make(map[*node]int32)
	prog := make([]Node, 0, 16)
	var emit func(n *node) int32
	emit = func(n *node) int32 {
		if i, ok := idx[n]; ok {
			return i
		}
		nd := Node{Op: n.op, C: n.c, L: -1, R: -1}
		if n.l != nil {
			nd.L = emit(n.l)
			if n.r != nil {
				nd.R = emit(n.r)
			}
		}
		i := int32(len(prog))
		prog = append(prog, nd)
		idx[n] = i
		return i
	}
	emit(t.n)
	return prog
}

// String formats the expression in prefix notation. Shared subexpressions
// are printed in full at each use.
func (t Tree) String() string {
	if t.n == nil {
		return "<zero Tree>"
	}
	return string(appendExpr(nil, t.n))
}

func appendExpr(b []byte, n *node) []byte {
	switch {
	case n.op == OpConst:
		return strconv.AppendFloat(b, n.c, 'g', -1, 64)
	case n.l == nil:
		return append(b, n.op.String()...)
	}
	b = append(b, '(')
	b = append(b, n.op.String()...)
	b = append(b, ' ')
	b = appendExpr(b, n.l)
	if n.r != nil {
		b = append(b, ' ')
		b = appendExpr(b, n.r)
	}
	return append(b, ')')
}
