package geometry

import "fmt"

// Angle is an integer voxel offset between a center voxel and a neighbour
type Angle [3]int

// GenerateAngles enumerates the unique neighbour offsets with components up
// to maxDistance, restricted to a canonical half-space so that v and -v are
// never both produced. For maxDistance 1 this yields the 13 directions of
// the 26-connected neighbourhood.
//
// Offsets that cannot pair two voxels inside a region of boundingSize are
// pruned: an offset whose magnitude reaches the region size on any axis
// would always step outside the region. The enumeration order is fixed, so
// identical inputs produce identical output.
func GenerateAngles(boundingSize [3]int, maxDistance int) ([]Angle, error) {
	if maxDistance < 1 {
		return nil, fmt.Errorf("%w: max distance %d", ErrInvalidGeometry, maxDistance)
	}
	for a := 0; a < 3; a++ {
		if boundingSize[a] <= 0 {
			return nil, fmt.Errorf("%w: bounding size %v", ErrInvalidGeometry, boundingSize)
		}
	}

	var angles []Angle
	emit := func(v Angle) {
		if fits(boundingSize, v) {
			angles = append(angles, v)
		}
	}

	// The first non-zero component is always positive, which picks exactly
	// one of each (v, -v) pair
	for d := 1; d <= maxDistance; d++ {
		emit(Angle{0, 0, d})
		for j := -maxDistance; j <= maxDistance; j++ {
			emit(Angle{0, d, j})
			for i := -maxDistance; i <= maxDistance; i++ {
				emit(Angle{d, j, i})
			}
		}
	}
	return angles, nil
}

// fits reports whether the offset can pair two voxels inside a region of
// the given size on every axis
func fits(size [3]int, v Angle) bool {
	for a := 0; a < 3; a++ {
		n := v[a]
		if n < 0 {
			n = -n
		}
		if size[a]-n <= 0 {
			return false
		}
	}
	return true
}
