package dicomvol

import "errors"

var (
	// ErrNoFrames is returned when pixel data holds no frames to stack
	ErrNoFrames = errors.New("pixel data contains no frames")

	// ErrEncapsulated is returned for compressed pixel data, which must be
	// decoded to native frames before stacking
	ErrEncapsulated = errors.New("pixel data is encapsulated")

	// ErrUnsupportedFormat is returned for pixel formats outside single
	// sample 8 or 16 bit grayscale
	ErrUnsupportedFormat = errors.New("unsupported pixel format")

	// ErrFrameSize is returned when frame bytes do not match the frame
	// geometry, or a volume does not match the destination frames
	ErrFrameSize = errors.New("frame size mismatch")
)
