package expreval

import (
	"errors"

	"github.com/chewxy/math32"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/symsdf/expr"
)

// Gradients evaluates the field and its spatial gradient at each position
// by forward-mode differentiation of the tape, storing gradients in grad
// and distances in dist. dist may be nil when only gradients are wanted.
// At non-differentiable points (min/max creases, abs at zero) the gradient
// of the active branch is taken. Away from creases the gradient of an exact
// SDF has unit length; operations documented as not Lipschitz-1, such as
// twist deformations, exceed it.
func (tp *Tape) Gradients(pos, grad []ms3.Vec, dist []float32, userData any) error {
	switch {
	case len(pos) == 0:
		return errEmptyBuffers
	case len(pos) != len(grad):
		return errors.New("position and gradient buffer length mismatch")
	case dist != nil && len(dist) != len(pos):
		return errMismatchBufferLength
	}
	n := len(tp.prog)
	var buf []float32
	if vp, err := GetVecPool(userData); err == nil {
		buf = vp.Float.Acquire(4 * n)
		defer vp.Float.Release(buf)
	} else {
		buf = make([]float32, 4*n)
	}
	v, dx, dy, dz := buf[:n], buf[n:2*n], buf[2*n:3*n], buf[3*n:]
	last := n - 1
	for i, p := range pos {
		tp.gradPoint(p, v, dx, dy, dz)
		grad[i] = ms3.Vec{X: dx[last], Y: dy[last], Z: dz[last]}
		if dist != nil {
			dist[i] = v[last]
		}
	}
	return nil
}

// gradPoint runs the tape at p carrying a dual number per slot: the value
// and its three partial derivatives.
func (tp *Tape) gradPoint(p ms3.Vec, v, dx, dy, dz []float32) {
	for i, ins := range tp.prog {
		l, r := ins.l, ins.r
		var val, gx, gy, gz float32
		switch ins.op {
		case expr.OpAxisX:
			val, gx = p.X, 1
		case expr.OpAxisY:
			val, gy = p.Y, 1
		case expr.OpAxisZ:
			val, gz = p.Z, 1
		case expr.OpConst:
			val = ins.c
		case expr.OpAdd:
			val = v[l] + v[r]
			gx, gy, gz = dx[l]+dx[r], dy[l]+dy[r], dz[l]+dz[r]
		case expr.OpSub:
			val = v[l] - v[r]
			gx, gy, gz = dx[l]-dx[r], dy[l]-dy[r], dz[l]-dz[r]
		case expr.OpMul:
			val = v[l] * v[r]
			gx = dx[l]*v[r] + v[l]*dx[r]
			gy = dy[l]*v[r] + v[l]*dy[r]
			gz = dz[l]*v[r] + v[l]*dz[r]
		case expr.OpDiv:
			val = v[l] / v[r]
			inv := 1 / (v[r] * v[r])
			gx = (dx[l]*v[r] - v[l]*dx[r]) * inv
			gy = (dy[l]*v[r] - v[l]*dy[r]) * inv
			gz = (dz[l]*v[r] - v[l]*dz[r]) * inv
		case expr.OpMin:
			if v[l] <= v[r] {
				val, gx, gy, gz = v[l], dx[l], dy[l], dz[l]
			} else {
				val, gx, gy, gz = v[r], dx[r], dy[r], dz[r]
			}
		case expr.OpMax:
			if v[l] >= v[r] {
				val, gx, gy, gz = v[l], dx[l], dy[l], dz[l]
			} else {
				val, gx, gy, gz = v[r], dx[r], dy[r], dz[r]
			}
		case expr.OpMod:
			// The period is treated as locally constant.
			val = mod(v[l], v[r])
			gx, gy, gz = dx[l], dy[l], dz[l]
		case expr.OpNeg:
			val, gx, gy, gz = -v[l], -dx[l], -dy[l], -dz[l]
		case expr.OpAbs:
			if v[l] < 0 {
				val, gx, gy, gz = -v[l], -dx[l], -dy[l], -dz[l]
			} else {
				val, gx, gy, gz = v[l], dx[l], dy[l], dz[l]
			}
		case expr.OpSquare:
			val = v[l] * v[l]
			k := 2 * v[l]
			gx, gy, gz = k*dx[l], k*dy[l], k*dz[l]
		case expr.OpSqrt:
			val = math32.Sqrt(v[l])
			k := 0.5 / val
			gx, gy, gz = k*dx[l], k*dy[l], k*dz[l]
		case expr.OpSin:
			s, c := math32.Sincos(v[l])
			val = s
			gx, gy, gz = c*dx[l], c*dy[l], c*dz[l]
		case expr.OpCos:
			s, c := math32.Sincos(v[l])
			val = c
			gx, gy, gz = -s*dx[l], -s*dy[l], -s*dz[l]
		}
		v[i], dx[i], dy[i], dz[i] = val, gx, gy, gz
	}
}
