package volume

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// spatialTol bounds the per-component deviation tolerated when comparing
// geometries and when checking direction orthonormality.
const spatialTol = 1e-6

// IdentityDirection is the direction matrix of an axis-aligned grid
var IdentityDirection = [9]float64{
	1, 0, 0,
	0, 1, 0,
	0, 0, 1,
}

// Spatial locates a voxel grid in physical space. Direction holds a
// row-major 3x3 matrix of axis direction cosines; the physical point of a
// continuous index x is origin + direction * (spacing .* x).
type Spatial struct {
	Spacing   [3]float64 // Physical step per voxel along each axis (mm)
	Origin    [3]float64 // Physical position of voxel (0, 0, 0)
	Direction [9]float64 // Row-major direction cosine matrix
}

// DefaultSpatial returns unit spacing at the physical origin with an
// identity direction matrix.
func DefaultSpatial() Spatial {
	return Spatial{
		Spacing:   [3]float64{1, 1, 1},
		Direction: IdentityDirection,
	}
}

// directionMatrix returns the direction cosines as a dense 3x3 matrix
func (s Spatial) directionMatrix() *mat.Dense {
	d := make([]float64, 9)
	copy(d, s.Direction[:])
	return mat.NewDense(3, 3, d)
}

// Validate checks that every spacing is positive and finite and that the
// direction matrix is orthonormal.
func (s Spatial) Validate() error {
	for a := 0; a < 3; a++ {
		sp := s.Spacing[a]
		if !(sp > 0) || math.IsInf(sp, 0) {
			return fmt.Errorf("%w: spacing[%d] = %g", ErrInvalidGrid, a, sp)
		}
	}

	// D * D^T must be the identity for the inverse mapping to be the transpose
	d := s.directionMatrix()
	var prod mat.Dense
	prod.Mul(d, d.T())
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			if r == c {
				want = 1.0
			}
			if math.Abs(prod.At(r, c)-want) > spatialTol {
				return fmt.Errorf("%w: direction cosines are not orthonormal", ErrInvalidGrid)
			}
		}
	}
	return nil
}

// ContinuousIndexToPhysical maps a continuous voxel index to a physical
// point.
func (s Spatial) ContinuousIndexToPhysical(idx [3]float64) [3]float64 {
	v := mat.NewVecDense(3, []float64{
		idx[0] * s.Spacing[0],
		idx[1] * s.Spacing[1],
		idx[2] * s.Spacing[2],
	})
	var p mat.VecDense
	p.MulVec(s.directionMatrix(), v)
	return [3]float64{
		s.Origin[0] + p.AtVec(0),
		s.Origin[1] + p.AtVec(1),
		s.Origin[2] + p.AtVec(2),
	}
}

// PhysicalToContinuousIndex maps a physical point to a continuous voxel
// index. The direction matrix must be orthonormal, so its inverse is its
// transpose.
func (s Spatial) PhysicalToContinuousIndex(p [3]float64) [3]float64 {
	v := mat.NewVecDense(3, []float64{
		p[0] - s.Origin[0],
		p[1] - s.Origin[1],
		p[2] - s.Origin[2],
	})
	var q mat.VecDense
	q.MulVec(s.directionMatrix().T(), v)
	return [3]float64{
		q.AtVec(0) / s.Spacing[0],
		q.AtVec(1) / s.Spacing[1],
		q.AtVec(2) / s.Spacing[2],
	}
}

// ApproxEqual reports whether two geometries agree within tol per component.
func (s Spatial) ApproxEqual(o Spatial, tol float64) bool {
	for a := 0; a < 3; a++ {
		if math.Abs(s.Spacing[a]-o.Spacing[a]) > tol {
			return false
		}
		if math.Abs(s.Origin[a]-o.Origin[a]) > tol {
			return false
		}
	}
	for i := range s.Direction {
		if math.Abs(s.Direction[i]-o.Direction[i]) > tol {
			return false
		}
	}
	return true
}
