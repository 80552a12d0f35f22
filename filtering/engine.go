// Package filtering executes the voxel-level work that geometry plans
// delegate: locating labels, region statistics, cropping and resampling.
// The Engine interface is the boundary; NativeEngine is the in-module
// reference implementation covering the nearest and linear kernels.
package filtering

import (
	"github.com/cocosip/go-radiomics/geometry"
	"github.com/cocosip/go-radiomics/volume"
)

// RegionStats summarizes the image intensities inside a labelled region.
// Variance is the unbiased sample variance, 0 for a single-voxel region.
type RegionStats struct {
	Count    int
	Min      float64
	Max      float64
	Mean     float64
	Variance float64
}

// Engine is the voxel-level capability set used around geometry plans
type Engine interface {
	geometry.RegionAnalyzer

	// RegionStatistics summarizes the image voxels carrying label in mask
	RegionStatistics(img *volume.Volume, mask *volume.Mask, label int32) (RegionStats, error)

	// Crop removes lower and upper margin voxels per axis, re-deriving the
	// origin so physical positions are preserved
	Crop(img *volume.Volume, lower, upper [3]int) (*volume.Volume, error)

	// CropMask is Crop for label masks
	CropMask(mask *volume.Mask, lower, upper [3]int) (*volume.Mask, error)

	// Resample produces the image on the plan's grid with the given
	// interpolator
	Resample(img *volume.Volume, plan *geometry.ResamplePlan, ip Interpolator) (*volume.Volume, error)

	// ResampleMask produces the mask on the plan's grid. Masks always use
	// nearest neighbor so label values stay exact.
	ResampleMask(mask *volume.Mask, plan *geometry.ResamplePlan) (*volume.Mask, error)
}
