package intensity

import "errors"

var (
	// ErrInvalidRange is returned when an operation needs an intensity range
	// it cannot work with, such as a non-positive maximum or a lower bound
	// above the upper bound
	ErrInvalidRange = errors.New("invalid intensity range")

	// ErrInvalidBinWidth is returned when a histogram bin width is not
	// strictly positive
	ErrInvalidBinWidth = errors.New("invalid bin width")

	// ErrEmptyRegion is returned when there are no values to operate on
	ErrEmptyRegion = errors.New("no values in region")
)
