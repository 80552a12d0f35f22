package geometry

// ResamplePlan describes the output grid of a resample around a labelled
// region. The plan is pure geometry: executing it against voxel data is the
// job of a resampling engine.
type ResamplePlan struct {
	Spacing   [3]float64 // target spacing in mm per axis
	Size      [3]int     // output dimensions per axis
	Origin    [3]float64 // physical position of output voxel (0, 0, 0)
	Direction [9]float64 // row-major direction cosines, copied from the input

	// CropOnly is set when the image already has the target spacing. The
	// output grid then aligns exactly with a sub-block of the input and the
	// engine may copy voxels instead of interpolating.
	CropOnly bool
}
