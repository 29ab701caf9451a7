package expreval

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
)

// SDF3 implements a 3D signed distance field in vectorized form.
type SDF3 interface {
	// Evaluate evaluates the signed distance field over pos positions.
	// dist and pos must be of same length. Resulting distances are stored
	// in dist.
	//
	// userData facilitates getting data to the evaluators for use in
	// processing, such as [VecPool].
	Evaluate(pos []ms3.Vec, dist []float32, userData any) error
}

// SDF2 implements a 2D signed distance field in vectorized form.
type SDF2 interface {
	// Evaluate evaluates the signed distance field over pos positions.
	// dist and pos must be of same length. Resulting distances are stored
	// in dist.
	//
	// userData facilitates getting data to the evaluators for use in
	// processing, such as [VecPool].
	Evaluate(pos []ms2.Vec, dist []float32, userData any) error
}

var (
	errEmptyBuffers         = errors.New("empty buffers")
	errMismatchBufferLength = errors.New("position and distance buffer length mismatch")
)

// NormalsCentralDiff approximates the spatial gradient of the field at each
// position with central differences, stored in normals. On the surface of a
// solid the gradient is the outwards normal. The returned normals are not
// normalized (converted to unit length). A [VecPool] must be reachable
// through userData for scratch buffers.
func NormalsCentralDiff(s SDF3, pos []ms3.Vec, normals []ms3.Vec, step float32, userData any) error {
	step *= 0.5
	if step <= 0 {
		return errors.New("invalid step")
	} else if s == nil {
		return errors.New("nil SDF3")
	} else if len(pos) != len(normals) {
		return errors.New("length of position must match length of normals")
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	vp, err := GetVecPool(userData)
	if err != nil {
		return fmt.Errorf("VecPool required for normal calculation: %w", err)
	}
	d1 := vp.Float.Acquire(len(pos))
	d2 := vp.Float.Acquire(len(pos))
	auxPos := vp.V3.Acquire(len(pos))
	defer vp.Float.Release(d1)
	defer vp.Float.Release(d2)
	defer vp.V3.Release(auxPos)
	steps := [3]ms3.Vec{{X: step}, {Y: step}, {Z: step}}
	for dim, h := range steps {
		for i, p := range pos {
			auxPos[i] = ms3.Add(p, h)
		}
		err = s.Evaluate(auxPos, d1, userData)
		if err != nil {
			return err
		}
		for i, p := range pos {
			auxPos[i] = ms3.Sub(p, h)
		}
		err = s.Evaluate(auxPos, d2, userData)
		if err != nil {
			return err
		}
		switch dim {
		case 0:
			for i, d := range d1 {
				normals[i].X = d - d2[i]
			}
		case 1:
			for i, d := range d1 {
				normals[i].Y = d - d2[i]
			}
		case 2:
			for i, d := range d1 {
				normals[i].Z = d - d2[i]
			}
		}
	}
	return nil
}
