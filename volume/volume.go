// Package volume defines the voxel-grid data model shared by the geometry,
// filtering and wavelet packages: scalar volumes, labelled masks and their
// physical-space geometry.
package volume

import "fmt"

// Grid couples voxel dimensions with physical-space geometry. Voxels are
// addressed as (i, j, k) with k varying fastest in memory.
type Grid struct {
	Dims    [3]int
	Spatial Spatial
}

// NumVoxels returns the total voxel count.
func (g Grid) NumVoxels() int {
	return g.Dims[0] * g.Dims[1] * g.Dims[2]
}

// Index returns the flat offset of voxel (i, j, k).
func (g Grid) Index(i, j, k int) int {
	return (i*g.Dims[1]+j)*g.Dims[2] + k
}

// InBounds reports whether (i, j, k) lies inside the grid.
func (g Grid) InBounds(i, j, k int) bool {
	return i >= 0 && i < g.Dims[0] &&
		j >= 0 && j < g.Dims[1] &&
		k >= 0 && k < g.Dims[2]
}

// Validate checks dimension positivity and the spatial invariants.
func (g Grid) Validate() error {
	for a := 0; a < 3; a++ {
		if g.Dims[a] <= 0 {
			return fmt.Errorf("%w: dims[%d] = %d", ErrInvalidGrid, a, g.Dims[a])
		}
	}
	return g.Spatial.Validate()
}

// Same reports whether two grids have identical dimensions and matching
// geometry within a small tolerance.
func (g Grid) Same(o Grid) bool {
	return g.Dims == o.Dims && g.Spatial.ApproxEqual(o.Spatial, spatialTol)
}

// LineStride returns the flat offset of the first voxel and the stride
// between consecutive voxels of the line that runs along axis, crossing the
// other two axes at (a, b). The cross coordinates follow axis order: for
// axis 0 the pair is (j, k), for axis 1 it is (i, k) and for axis 2 it is
// (i, j).
func (g Grid) LineStride(axis, a, b int) (start, stride int) {
	switch axis {
	case 0:
		return g.Index(0, a, b), g.Dims[1] * g.Dims[2]
	case 1:
		return g.Index(a, 0, b), g.Dims[2]
	default:
		return g.Index(a, b, 0), 1
	}
}

// Volume is a scalar 3-D image
type Volume struct {
	Grid
	Data []float64
}

// New allocates a zero-filled volume on the given grid.
func New(dims [3]int, sp Spatial) (*Volume, error) {
	g := Grid{Dims: dims, Spatial: sp}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Volume{Grid: g, Data: make([]float64, g.NumVoxels())}, nil
}

// FromData wraps an existing voxel buffer without copying it.
func FromData(dims [3]int, sp Spatial, data []float64) (*Volume, error) {
	g := Grid{Dims: dims, Spatial: sp}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(data) != g.NumVoxels() {
		return nil, fmt.Errorf("%w: have %d values, grid needs %d", ErrShapeMismatch, len(data), g.NumVoxels())
	}
	return &Volume{Grid: g, Data: data}, nil
}

// At returns the voxel value at (i, j, k).
func (v *Volume) At(i, j, k int) float64 {
	return v.Data[v.Index(i, j, k)]
}

// SetAt stores a voxel value at (i, j, k).
func (v *Volume) SetAt(i, j, k int, val float64) {
	v.Data[v.Index(i, j, k)] = val
}

// Clone returns a deep copy.
func (v *Volume) Clone() *Volume {
	out := &Volume{Grid: v.Grid, Data: make([]float64, len(v.Data))}
	copy(out.Data, v.Data)
	return out
}

// Line copies the voxels along axis crossing (a, b) into dst, allocating a
// buffer when dst is too small. See Grid.LineStride for the cross coordinate
// convention.
func (v *Volume) Line(axis, a, b int, dst []float64) []float64 {
	n := v.Dims[axis]
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	start, stride := v.LineStride(axis, a, b)
	for x := 0; x < n; x++ {
		dst[x] = v.Data[start+x*stride]
	}
	return dst
}

// SetLine writes the voxels along axis crossing (a, b) from src.
func (v *Volume) SetLine(axis, a, b int, src []float64) {
	start, stride := v.LineStride(axis, a, b)
	for x := 0; x < v.Dims[axis]; x++ {
		v.Data[start+x*stride] = src[x]
	}
}

// Mask is a labelled segmentation on a voxel grid. Zero marks background.
type Mask struct {
	Grid
	Labels []int32
}

// NewMask allocates a background-only mask on the given grid.
func NewMask(dims [3]int, sp Spatial) (*Mask, error) {
	g := Grid{Dims: dims, Spatial: sp}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Mask{Grid: g, Labels: make([]int32, g.NumVoxels())}, nil
}

// MaskFromLabels wraps an existing label buffer without copying it.
func MaskFromLabels(dims [3]int, sp Spatial, labels []int32) (*Mask, error) {
	g := Grid{Dims: dims, Spatial: sp}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if len(labels) != g.NumVoxels() {
		return nil, fmt.Errorf("%w: have %d labels, grid needs %d", ErrShapeMismatch, len(labels), g.NumVoxels())
	}
	return &Mask{Grid: g, Labels: labels}, nil
}

// At returns the label at (i, j, k).
func (m *Mask) At(i, j, k int) int32 {
	return m.Labels[m.Index(i, j, k)]
}

// SetAt stores a label at (i, j, k).
func (m *Mask) SetAt(i, j, k int, label int32) {
	m.Labels[m.Index(i, j, k)] = label
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	out := &Mask{Grid: m.Grid, Labels: make([]int32, len(m.Labels))}
	copy(out.Labels, m.Labels)
	return out
}

// SameGrid reports whether the mask shares the image grid.
func (m *Mask) SameGrid(v *Volume) bool {
	return m.Grid.Same(v.Grid)
}
