package expreval

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/symsdf/expr"
)

// Tape is an expression compiled to a flat program for evaluation at
// numeric positions. Instructions write to value slots, one slot per unique
// expression node. A Tape is immutable once compiled: concurrent
// evaluations are safe as long as each goroutine brings its own buffers
// and pool.
//
// Tape implements [SDF3]. Expressions of 2D shapes are evaluated on the
// z=0 plane through [Tape.XY].
type Tape struct {
	prog []instr
}

type instr struct {
	op   expr.Op
	c    float32 // Constant payload, narrowed at compile.
	l, r int32
}

// Compile lowers an expression to a Tape. Expressions built with the expr
// package always compile; the error reports malformed programs only.
func Compile(tree expr.Tree) (*Tape, error) {
	nodes := tree.Flatten()
	prog := make([]instr, len(nodes))
	for i, nd := range nodes {
		if nd.L >= int32(i) || nd.R >= int32(i) {
			return nil, fmt.Errorf("node %d (%s) references operand ahead of itself", i, nd.Op)
		}
		ins := instr{op: nd.Op, l: nd.L, r: nd.R}
		var bad bool
		switch nd.Op {
		case expr.OpAxisX, expr.OpAxisY, expr.OpAxisZ:
		case expr.OpConst:
			ins.c = float32(nd.C)
		case expr.OpAdd, expr.OpSub, expr.OpMul, expr.OpDiv,
			expr.OpMin, expr.OpMax, expr.OpMod:
			bad = nd.L < 0 || nd.R < 0
		case expr.OpNeg, expr.OpAbs, expr.OpSquare, expr.OpSqrt,
			expr.OpSin, expr.OpCos:
			bad = nd.L < 0
		default:
			return nil, fmt.Errorf("unknown operation %q at node %d", nd.Op, i)
		}
		if bad {
			return nil, fmt.Errorf("missing operand for %s at node %d", nd.Op, i)
		}
		prog[i] = ins
	}
	return &Tape{prog: prog}, nil
}

// Len returns the number of instructions in the tape, which is also the
// scratch slot count of a single evaluation.
func (tp *Tape) Len() int { return len(tp.prog) }

// Evaluate implements [SDF3]. A [VecPool] reachable through userData is
// used for the slot scratch buffer; without one Evaluate allocates.
func (tp *Tape) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	slots, release := tp.acquireSlots(userData, len(tp.prog))
	defer release()
	for i, p := range pos {
		dist[i] = tp.evalPoint(p, slots)
	}
	return nil
}

func (tp *Tape) acquireSlots(userData any, n int) (slots []float32, release func()) {
	vp, err := GetVecPool(userData)
	if err != nil {
		return make([]float32, n), func() {}
	}
	slots = vp.Float.Acquire(n)
	return slots, func() { vp.Float.Release(slots) }
}

func (tp *Tape) evalPoint(p ms3.Vec, slots []float32) float32 {
	for i, ins := range tp.prog {
		var v float32
		switch ins.op {
		case expr.OpAxisX:
			v = p.X
		case expr.OpAxisY:
			v = p.Y
		case expr.OpAxisZ:
			v = p.Z
		case expr.OpConst:
			v = ins.c
		case expr.OpAdd:
			v = slots[ins.l] + slots[ins.r]
		case expr.OpSub:
			v = slots[ins.l] - slots[ins.r]
		case expr.OpMul:
			v = slots[ins.l] * slots[ins.r]
		case expr.OpDiv:
			v = slots[ins.l] / slots[ins.r]
		case expr.OpMin:
			v = math32.Min(slots[ins.l], slots[ins.r])
		case expr.OpMax:
			v = math32.Max(slots[ins.l], slots[ins.r])
		case expr.OpMod:
			v = mod(slots[ins.l], slots[ins.r])
		case expr.OpNeg:
			v = -slots[ins.l]
		case expr.OpAbs:
			v = math32.Abs(slots[ins.l])
		case expr.OpSquare:
			v = slots[ins.l] * slots[ins.l]
		case expr.OpSqrt:
			v = math32.Sqrt(slots[ins.l])
		case expr.OpSin:
			v = math32.Sin(slots[ins.l])
		case expr.OpCos:
			v = math32.Cos(slots[ins.l])
		}
		slots[i] = v
	}
	return slots[len(tp.prog)-1]
}

// mod is the positive-period modulo matching [expr.Tree.Mod] semantics:
// the result lies in [0,period) for positive periods.
func mod(x, period float32) float32 {
	r := math32.Mod(x, period)
	if r != 0 && (r < 0) != (period < 0) {
		r += period
	}
	return r
}

// XY returns a 2D view of the tape evaluating positions on the z=0 plane,
// for expressions of 2D shapes.
func (tp *Tape) XY() SDF2 { return tapeXY{tp: tp} }

type tapeXY struct {
	tp *Tape
}

// Evaluate implements [SDF2].
func (t2 tapeXY) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	var pos3 []ms3.Vec
	if vp, err := GetVecPool(userData); err == nil {
		pos3 = vp.V3.Acquire(len(pos))
		defer vp.V3.Release(pos3)
	} else {
		pos3 = make([]ms3.Vec, len(pos))
	}
	for i, p := range pos {
		pos3[i] = ms3.Vec{X: p.X, Y: p.Y}
	}
	return t2.tp.Evaluate(pos3, dist, userData)
}
