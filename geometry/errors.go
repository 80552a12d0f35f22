package geometry

import "errors"

var (
	// ErrInvalidGeometry is returned for degenerate bounding boxes, spacings
	// or distances that no plan can be built from
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrNoAnalyzer is returned when a planner is built without a region analyzer
	ErrNoAnalyzer = errors.New("no region analyzer configured")
)
