package wavelet

import "errors"

var (
	// ErrUnknownKernel is returned when a wavelet name is not in the registry
	ErrUnknownKernel = errors.New("unknown wavelet kernel")

	// ErrInvalidShape is returned when a signal or volume has dimensions the
	// transform cannot handle
	ErrInvalidShape = errors.New("invalid shape")

	// ErrInvalidLevel is returned for non-positive level counts or negative
	// start levels
	ErrInvalidLevel = errors.New("invalid decomposition level")

	// ErrInvalidPadMode is returned when a pad mode name is not recognized
	ErrInvalidPadMode = errors.New("invalid pad mode")
)
