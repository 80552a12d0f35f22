package filtering

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/cocosip/go-radiomics/geometry"
	"github.com/cocosip/go-radiomics/volume"
)

// NativeEngine implements Engine with plain scans over the voxel buffers.
// It executes the NearestNeighbor and Linear kernels; BSpline and Gaussian
// resampling need an external engine.
type NativeEngine struct{}

var _ Engine = NativeEngine{}
var _ geometry.RegionAnalyzer = NativeEngine{}

// RegionBoundingBox scans the mask for the tight bounding box of label
func (NativeEngine) RegionBoundingBox(mask *volume.Mask, label int32) (volume.BoundingBox, error) {
	if mask == nil {
		return volume.BoundingBox{}, fmt.Errorf("mask cannot be nil")
	}

	box := volume.BoundingBox{
		Lower: mask.Dims,
		Upper: [3]int{-1, -1, -1},
	}
	idx := 0
	for i := 0; i < mask.Dims[0]; i++ {
		for j := 0; j < mask.Dims[1]; j++ {
			for k := 0; k < mask.Dims[2]; k++ {
				if mask.Labels[idx] == label {
					box.Lower[0] = min(box.Lower[0], i)
					box.Lower[1] = min(box.Lower[1], j)
					box.Lower[2] = min(box.Lower[2], k)
					box.Upper[0] = max(box.Upper[0], i)
					box.Upper[1] = max(box.Upper[1], j)
					box.Upper[2] = max(box.Upper[2], k)
				}
				idx++
			}
		}
	}
	if box.Upper[0] < 0 {
		return volume.BoundingBox{}, fmt.Errorf("%w: label %d", ErrLabelNotFound, label)
	}
	return box, nil
}

// RegionStatistics summarizes the image voxels carrying label in mask
func (NativeEngine) RegionStatistics(img *volume.Volume, mask *volume.Mask, label int32) (RegionStats, error) {
	if img == nil || mask == nil {
		return RegionStats{}, fmt.Errorf("image and mask cannot be nil")
	}
	if !mask.SameGrid(img) {
		return RegionStats{}, volume.ErrGridMismatch
	}

	values := make([]float64, 0, 1024)
	for idx, lbl := range mask.Labels {
		if lbl == label {
			values = append(values, img.Data[idx])
		}
	}
	if len(values) == 0 {
		return RegionStats{}, fmt.Errorf("%w: label %d", ErrLabelNotFound, label)
	}

	stats := RegionStats{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  stat.Mean(values, nil),
	}
	if len(values) > 1 {
		stats.Variance = stat.Variance(values, nil)
	}
	return stats, nil
}

// Crop removes lower and upper margin voxels per axis
func (NativeEngine) Crop(img *volume.Volume, lower, upper [3]int) (*volume.Volume, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	box, err := marginsToBox(img.Dims, lower, upper)
	if err != nil {
		return nil, err
	}
	return cropVolume(img, box), nil
}

// CropMask removes lower and upper margin voxels per axis
func (NativeEngine) CropMask(mask *volume.Mask, lower, upper [3]int) (*volume.Mask, error) {
	if mask == nil {
		return nil, fmt.Errorf("mask cannot be nil")
	}
	box, err := marginsToBox(mask.Dims, lower, upper)
	if err != nil {
		return nil, err
	}
	return cropMask(mask, box), nil
}

// Resample produces the image on the plan's grid. CropOnly plans are
// executed as exact block copies regardless of the interpolator; true
// resampling supports the NearestNeighbor and Linear kernels. Target
// voxels outside the source read as 0.
func (NativeEngine) Resample(img *volume.Volume, plan *geometry.ResamplePlan, ip Interpolator) (*volume.Volume, error) {
	if img == nil || plan == nil {
		return nil, fmt.Errorf("image and plan cannot be nil")
	}
	if plan.CropOnly {
		box, err := planCropBox(img.Grid, plan)
		if err != nil {
			return nil, err
		}
		return cropVolume(img, box), nil
	}

	switch ip {
	case NearestNeighbor, Linear:
	default:
		return nil, fmt.Errorf("native engine cannot execute %s: %w", ip, ErrUnsupportedInterpolator)
	}

	outSp := volume.Spatial{Spacing: plan.Spacing, Origin: plan.Origin, Direction: plan.Direction}
	out, err := volume.New(plan.Size, outSp)
	if err != nil {
		return nil, err
	}

	tr := newIndexTransform(img.Spatial, outSp)
	idx := 0
	for i := 0; i < plan.Size[0]; i++ {
		for j := 0; j < plan.Size[1]; j++ {
			for k := 0; k < plan.Size[2]; k++ {
				x, y, z := tr.apply(float64(i), float64(j), float64(k))
				if ip == NearestNeighbor {
					out.Data[idx] = sampleNearest(img, x, y, z)
				} else {
					out.Data[idx] = sampleTrilinear(img, x, y, z)
				}
				idx++
			}
		}
	}
	return out, nil
}

// ResampleMask produces the mask on the plan's grid, always by nearest
// neighbor so label values stay exact
func (NativeEngine) ResampleMask(mask *volume.Mask, plan *geometry.ResamplePlan) (*volume.Mask, error) {
	if mask == nil || plan == nil {
		return nil, fmt.Errorf("mask and plan cannot be nil")
	}
	if plan.CropOnly {
		box, err := planCropBox(mask.Grid, plan)
		if err != nil {
			return nil, err
		}
		return cropMask(mask, box), nil
	}

	outSp := volume.Spatial{Spacing: plan.Spacing, Origin: plan.Origin, Direction: plan.Direction}
	out, err := volume.NewMask(plan.Size, outSp)
	if err != nil {
		return nil, err
	}

	tr := newIndexTransform(mask.Spatial, outSp)
	idx := 0
	for i := 0; i < plan.Size[0]; i++ {
		for j := 0; j < plan.Size[1]; j++ {
			for k := 0; k < plan.Size[2]; k++ {
				x, y, z := tr.apply(float64(i), float64(j), float64(k))
				si := int(math.Floor(x + 0.5))
				sj := int(math.Floor(y + 0.5))
				sk := int(math.Floor(z + 0.5))
				if mask.InBounds(si, sj, sk) {
					out.Labels[idx] = mask.At(si, sj, sk)
				}
				idx++
			}
		}
	}
	return out, nil
}

// marginsToBox converts two-sided crop margins into the inclusive box they
// leave behind
func marginsToBox(dims, lower, upper [3]int) (volume.BoundingBox, error) {
	var box volume.BoundingBox
	for a := 0; a < 3; a++ {
		if lower[a] < 0 || upper[a] < 0 {
			return box, fmt.Errorf("%w: negative margins (%v, %v)", volume.ErrInvalidBox, lower, upper)
		}
		box.Lower[a] = lower[a]
		box.Upper[a] = dims[a] - upper[a] - 1
	}
	if err := box.Validate(dims); err != nil {
		return box, err
	}
	return box, nil
}

// planCropBox recovers the source block described by a CropOnly plan from
// its physical origin
func planCropBox(g volume.Grid, plan *geometry.ResamplePlan) (volume.BoundingBox, error) {
	idx := g.Spatial.PhysicalToContinuousIndex(plan.Origin)
	var box volume.BoundingBox
	for a := 0; a < 3; a++ {
		box.Lower[a] = int(math.Round(idx[a]))
		box.Upper[a] = box.Lower[a] + plan.Size[a] - 1
	}
	if err := box.Validate(g.Dims); err != nil {
		return box, fmt.Errorf("crop plan does not fit the source grid: %w", err)
	}
	return box, nil
}

// cropSpatial keeps spacing and direction and moves the origin to the
// box's lower corner
func cropSpatial(sp volume.Spatial, box volume.BoundingBox) volume.Spatial {
	out := sp
	out.Origin = sp.ContinuousIndexToPhysical([3]float64{
		float64(box.Lower[0]), float64(box.Lower[1]), float64(box.Lower[2]),
	})
	return out
}

func cropVolume(img *volume.Volume, box volume.BoundingBox) *volume.Volume {
	size := box.Size()
	out := &volume.Volume{
		Grid: volume.Grid{Dims: size, Spatial: cropSpatial(img.Spatial, box)},
		Data: make([]float64, size[0]*size[1]*size[2]),
	}
	idx := 0
	for i := box.Lower[0]; i <= box.Upper[0]; i++ {
		for j := box.Lower[1]; j <= box.Upper[1]; j++ {
			src := img.Grid.Index(i, j, box.Lower[2])
			copy(out.Data[idx:idx+size[2]], img.Data[src:src+size[2]])
			idx += size[2]
		}
	}
	return out
}

func cropMask(mask *volume.Mask, box volume.BoundingBox) *volume.Mask {
	size := box.Size()
	out := &volume.Mask{
		Grid:   volume.Grid{Dims: size, Spatial: cropSpatial(mask.Spatial, box)},
		Labels: make([]int32, size[0]*size[1]*size[2]),
	}
	idx := 0
	for i := box.Lower[0]; i <= box.Upper[0]; i++ {
		for j := box.Lower[1]; j <= box.Upper[1]; j++ {
			src := mask.Grid.Index(i, j, box.Lower[2])
			copy(out.Labels[idx:idx+size[2]], mask.Labels[src:src+size[2]])
			idx += size[2]
		}
	}
	return out
}

// indexTransform maps continuous target indices to continuous source
// indices. With orthonormal directions the mapping is affine, so the
// per-voxel cost is nine multiplies.
type indexTransform struct {
	m [3][3]float64
	o [3]float64
}

func newIndexTransform(src, dst volume.Spatial) indexTransform {
	srcDir := mat.NewDense(3, 3, append([]float64(nil), src.Direction[:]...))
	dstDir := mat.NewDense(3, 3, append([]float64(nil), dst.Direction[:]...))

	var rot mat.Dense
	rot.Mul(srcDir.T(), dstDir)

	var off mat.VecDense
	off.MulVec(srcDir.T(), mat.NewVecDense(3, []float64{
		dst.Origin[0] - src.Origin[0],
		dst.Origin[1] - src.Origin[1],
		dst.Origin[2] - src.Origin[2],
	}))

	var tr indexTransform
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			tr.m[r][c] = rot.At(r, c) * dst.Spacing[c] / src.Spacing[r]
		}
		tr.o[r] = off.AtVec(r) / src.Spacing[r]
	}
	return tr
}

func (tr indexTransform) apply(i, j, k float64) (x, y, z float64) {
	x = tr.m[0][0]*i + tr.m[0][1]*j + tr.m[0][2]*k + tr.o[0]
	y = tr.m[1][0]*i + tr.m[1][1]*j + tr.m[1][2]*k + tr.o[1]
	z = tr.m[2][0]*i + tr.m[2][1]*j + tr.m[2][2]*k + tr.o[2]
	return x, y, z
}

// sampleNearest reads the voxel whose center is closest to the continuous
// index, or 0 outside the grid
func sampleNearest(img *volume.Volume, x, y, z float64) float64 {
	i := int(math.Floor(x + 0.5))
	j := int(math.Floor(y + 0.5))
	k := int(math.Floor(z + 0.5))
	if !img.InBounds(i, j, k) {
		return 0
	}
	return img.At(i, j, k)
}

// sampleTrilinear blends the eight voxel centers around the continuous
// index. Points beyond half a voxel outside the outermost centers read as
// 0; nearer the border the stencil clamps, which extrapolates the edge
// value.
func sampleTrilinear(img *volume.Volume, x, y, z float64) float64 {
	nx, ny, nz := img.Dims[0], img.Dims[1], img.Dims[2]
	if x < -0.5 || y < -0.5 || z < -0.5 ||
		x > float64(nx)-0.5 || y > float64(ny)-0.5 || z > float64(nz)-0.5 {
		return 0
	}

	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	wx, wy, wz := x-fx, y-fy, z-fz

	i0, i1 := clampIndex(int(fx), nx), clampIndex(int(fx)+1, nx)
	j0, j1 := clampIndex(int(fy), ny), clampIndex(int(fy)+1, ny)
	k0, k1 := clampIndex(int(fz), nz), clampIndex(int(fz)+1, nz)

	c00 := img.At(i0, j0, k0)*(1-wx) + img.At(i1, j0, k0)*wx
	c01 := img.At(i0, j0, k1)*(1-wx) + img.At(i1, j0, k1)*wx
	c10 := img.At(i0, j1, k0)*(1-wx) + img.At(i1, j1, k0)*wx
	c11 := img.At(i0, j1, k1)*(1-wx) + img.At(i1, j1, k1)*wx

	c0 := c00*(1-wy) + c10*wy
	c1 := c01*(1-wy) + c11*wy
	return c0*(1-wz) + c1*wz
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
