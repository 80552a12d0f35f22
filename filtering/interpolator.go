package filtering

import (
	"fmt"
	"strings"
)

// Interpolator selects the pixel kernel used when resampling an image.
// The set is closed: a name that does not map to a known interpolator is
// rejected, never silently replaced with a default.
type Interpolator int

const (
	// NearestNeighbor copies the closest source voxel
	NearestNeighbor Interpolator = iota
	// Linear blends the eight surrounding voxels
	Linear
	// BSpline is cubic B-spline interpolation
	BSpline
	// Gaussian is Gaussian-weighted interpolation
	Gaussian
)

func (ip Interpolator) String() string {
	switch ip {
	case NearestNeighbor:
		return "nearestneighbor"
	case Linear:
		return "linear"
	case BSpline:
		return "bspline"
	case Gaussian:
		return "gaussian"
	}
	return fmt.Sprintf("Interpolator(%d)", int(ip))
}

// ParseInterpolator maps a configuration name to an Interpolator. Matching
// is case-insensitive and accepts the "sitk" prefix that ITK-derived
// parameter files carry.
func ParseInterpolator(name string) (Interpolator, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "sitk")
	switch n {
	case "nearestneighbor", "nearest":
		return NearestNeighbor, nil
	case "linear":
		return Linear, nil
	case "bspline":
		return BSpline, nil
	case "gaussian":
		return Gaussian, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedInterpolator, name)
}
