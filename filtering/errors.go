package filtering

import "errors"

var (
	// ErrUnsupportedInterpolator is returned for interpolator names outside
	// the closed set, and by engines asked to execute a kernel they do not
	// implement
	ErrUnsupportedInterpolator = errors.New("unsupported interpolator")

	// ErrLabelNotFound is returned when a mask contains no voxel with the
	// requested label
	ErrLabelNotFound = errors.New("label not found in mask")
)
