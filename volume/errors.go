package volume

import "errors"

var (
	// ErrInvalidGrid is returned when dimensions, spacing or direction cosines are degenerate
	ErrInvalidGrid = errors.New("invalid grid geometry")

	// ErrShapeMismatch is returned when a data buffer does not match the grid dimensions
	ErrShapeMismatch = errors.New("data length does not match grid dimensions")

	// ErrGridMismatch is returned when an image and mask are not defined on the same grid
	ErrGridMismatch = errors.New("image and mask grids do not match")

	// ErrInvalidBox is returned when a bounding box is degenerate or outside the grid
	ErrInvalidBox = errors.New("invalid bounding box")
)
