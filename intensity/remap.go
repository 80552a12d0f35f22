package intensity

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cocosip/go-radiomics/volume"
)

// positiveMax returns the maximum voxel value, which every remap uses as
// its rescaling reference and therefore must be strictly positive
func positiveMax(img *volume.Volume) (float64, error) {
	if img == nil {
		return 0, fmt.Errorf("image cannot be nil")
	}
	if len(img.Data) == 0 {
		return 0, ErrEmptyRegion
	}
	m := floats.Max(img.Data)
	if !(m > 0) {
		return 0, fmt.Errorf("%w: maximum intensity %g is not positive", ErrInvalidRange, m)
	}
	return m, nil
}

// Square returns the squared intensities rescaled so the maximum of the
// result equals the maximum of the input. Negative values come out
// positive.
func Square(img *volume.Volume) (*volume.Volume, error) {
	max, err := positiveMax(img)
	if err != nil {
		return nil, err
	}
	coeff := 1 / math.Sqrt(max)

	out := img.Clone()
	for i, v := range out.Data {
		f := coeff * v
		out.Data[i] = f * f
	}
	return out, nil
}

// SquareRoot returns the square root of the absolute intensities, rescaled
// to the input range and keeping the sign of each value
func SquareRoot(img *volume.Volume) (*volume.Volume, error) {
	max, err := positiveMax(img)
	if err != nil {
		return nil, err
	}

	out := img.Clone()
	for i, v := range out.Data {
		switch {
		case v > 0:
			out.Data[i] = math.Sqrt(v * max)
		case v < 0:
			out.Data[i] = -math.Sqrt(-v * max)
		}
	}
	return out, nil
}

// Logarithm returns log(|x|+1) with the sign of x, rescaled so the maximum
// of the result equals the maximum of the input
func Logarithm(img *volume.Volume) (*volume.Volume, error) {
	max, err := positiveMax(img)
	if err != nil {
		return nil, err
	}

	out := img.Clone()
	for i, v := range out.Data {
		switch {
		case v > 0:
			out.Data[i] = math.Log(v + 1)
		case v < 0:
			out.Data[i] = -math.Log(-(v - 1))
		}
	}

	// The transform is monotone, so the new maximum is the transformed old
	// maximum and is positive whenever the old one was
	scale := max / floats.Max(out.Data)
	for i := range out.Data {
		out.Data[i] *= scale
	}
	return out, nil
}

// Exponential returns exp(c*x) with c chosen so the maximum of the result
// equals the maximum of the input
func Exponential(img *volume.Volume) (*volume.Volume, error) {
	max, err := positiveMax(img)
	if err != nil {
		return nil, err
	}
	coeff := math.Log(max) / max

	out := img.Clone()
	for i, v := range out.Data {
		out.Data[i] = math.Exp(coeff * v)
	}
	return out, nil
}
