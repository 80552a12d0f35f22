package volume

import "fmt"

// BoundingBox is an inclusive voxel-index range on a grid
type BoundingBox struct {
	Lower [3]int // Smallest contained index per axis
	Upper [3]int // Largest contained index per axis
}

// Size returns the number of voxels spanned along each axis.
func (b BoundingBox) Size() [3]int {
	return [3]int{
		b.Upper[0] - b.Lower[0] + 1,
		b.Upper[1] - b.Lower[1] + 1,
		b.Upper[2] - b.Lower[2] + 1,
	}
}

// Validate checks that the box is non-degenerate and lies inside a grid of
// the given dimensions.
func (b BoundingBox) Validate(dims [3]int) error {
	for a := 0; a < 3; a++ {
		if b.Lower[a] > b.Upper[a] {
			return fmt.Errorf("%w: axis %d lower %d above upper %d", ErrInvalidBox, a, b.Lower[a], b.Upper[a])
		}
		if b.Lower[a] < 0 || b.Upper[a] >= dims[a] {
			return fmt.Errorf("%w: axis %d range [%d, %d] outside grid of size %d",
				ErrInvalidBox, a, b.Lower[a], b.Upper[a], dims[a])
		}
	}
	return nil
}

// Contains reports whether the voxel index lies inside the box.
func (b BoundingBox) Contains(i, j, k int) bool {
	return i >= b.Lower[0] && i <= b.Upper[0] &&
		j >= b.Lower[1] && j <= b.Upper[1] &&
		k >= b.Lower[2] && k <= b.Upper[2]
}
