package expreval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/symsdf/expr"
)

// NewCPUSDF3 compiles tree into a [Tape] and returns a CPU evaluator for it
// carrying its own scratch pool.
func NewCPUSDF3(tree expr.Tree) (*SDF3CPU, error) {
	tape, err := Compile(tree)
	if err != nil {
		return nil, err
	}
	return &SDF3CPU{SDF: tape}, nil
}

// NewCPUSDF2 is [NewCPUSDF3] for expressions of 2D shapes, evaluated on the
// z=0 plane.
func NewCPUSDF2(tree expr.Tree) (*SDF2CPU, error) {
	tape, err := Compile(tree)
	if err != nil {
		return nil, err
	}
	return &SDF2CPU{SDF: tape.XY()}, nil
}

// SDF3CPU wraps an [SDF3] with a scratch [VecPool] supplied to evaluations
// whose callers bring no userData of their own, and checks buffers were
// returned to the pool after every evaluation.
type SDF3CPU struct {
	SDF SDF3
	vp  VecPool
}

// Evaluate implements [SDF3].
func (sdf *SDF3CPU) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if userData == nil {
		userData = &sdf.vp
	}
	err := sdf.SDF.Evaluate(pos, dist, userData)
	err2 := sdf.vp.AssertAllReleased()
	if err != nil {
		if err2 != nil {
			return fmt.Errorf("VecPool leak (%s) with SDF error (%s)", err2, err)
		}
		return err
	}
	return err2
}

// VecPool exposes the evaluator's pool for callers wishing to pass their own
// userData in evaluations.
func (sdf *SDF3CPU) VecPool() *VecPool { return &sdf.vp }

// SDF2CPU wraps an [SDF2] the way [SDF3CPU] wraps an [SDF3].
type SDF2CPU struct {
	SDF SDF2
	vp  VecPool
}

// Evaluate implements [SDF2].
func (sdf *SDF2CPU) Evaluate(pos []ms2.Vec, dist []float32, userData any) error {
	if userData == nil {
		userData = &sdf.vp
	}
	err := sdf.SDF.Evaluate(pos, dist, userData)
	err2 := sdf.vp.AssertAllReleased()
	if err != nil {
		if err2 != nil {
			return fmt.Errorf("VecPool leak (%s) with SDF error (%s)", err2, err)
		}
		return err
	}
	return err2
}

// VecPool exposes the evaluator's pool for callers wishing to pass their own
// userData in evaluations.
func (sdf *SDF2CPU) VecPool() *VecPool { return &sdf.vp }

// GetVecPool asserts userData as a [VecPool] or as a type exposing one
// through a VecPool method. If the assertion fails an error describing the
// mismatch is returned.
func GetVecPool(userData any) (*VecPool, error) {
	vp, ok := userData.(*VecPool)
	if !ok {
		vper, ok := userData.(interface{ VecPool() *VecPool })
		if !ok {
			return nil, fmt.Errorf("want userData of type *expreval.VecPool for CPU evaluations, got %T", userData)
		}
		vp = vper.VecPool()
		if vp == nil {
			return nil, fmt.Errorf("nil return value from VecPool method of %T", userData)
		}
	}
	return vp, nil
}

// VecPool serves as a pool of position and distance slices for evaluating
// expressions on the CPU while reducing garbage generation. The zero value
// is ready for use. VecPool is not safe for concurrent use.
type VecPool struct {
	V3    bufPool[ms3.Vec]
	V2    bufPool[ms2.Vec]
	Float bufPool[float32]
}

// AssertAllReleased checks all buffers have been returned to the pool.
// Should be called after an evaluation run to find buffer leaks.
func (vp *VecPool) AssertAllReleased() error {
	err := vp.Float.assertAllReleased()
	if err != nil {
		return err
	}
	err = vp.V2.assertAllReleased()
	if err != nil {
		return err
	}
	return vp.V3.assertAllReleased()
}

type bufPool[T any] struct {
	ins      [][]T
	acquired []bool
}

// Acquire returns a buffer of length minLength. The buffer belongs to the
// caller until handed back with [bufPool.Release].
func (bp *bufPool[T]) Acquire(minLength int) []T {
	for i, locked := range bp.acquired {
		if !locked && cap(bp.ins[i]) >= minLength {
			bp.acquired[i] = true
			return bp.ins[i][:minLength]
		}
	}
	newSlice := make([]T, minLength)
	bp.ins = append(bp.ins, newSlice)
	bp.acquired = append(bp.acquired, true)
	return newSlice
}

// Release returns a buffer obtained with [bufPool.Acquire] to the pool.
func (bp *bufPool[T]) Release(buf []T) error {
	if len(buf) == 0 {
		return errors.New("release of empty resource")
	}
	for i, instance := range bp.ins {
		if len(instance) > 0 && &instance[0] == &buf[0] {
			if !bp.acquired[i] {
				return errors.New("release of unacquired resource")
			}
			bp.acquired[i] = false
			return nil
		}
	}
	return errors.New("release of nonexistent resource")
}

func (bp *bufPool[T]) assertAllReleased() error {
	for _, locked := range bp.acquired {
		if locked {
			return fmt.Errorf("locked %T resource in bufPool, buffer leak?", *new(T))
		}
	}
	return nil
}
