package intensity

import (
	"fmt"

	"github.com/cocosip/go-radiomics/volume"
)

// Threshold keeps intensities inside [lower, upper] and replaces every
// other voxel with outside
func Threshold(img *volume.Volume, lower, upper, outside float64) (*volume.Volume, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if lower > upper {
		return nil, fmt.Errorf("%w: lower %g above upper %g", ErrInvalidRange, lower, upper)
	}

	out := img.Clone()
	for i, v := range out.Data {
		if v < lower || v > upper {
			out.Data[i] = outside
		}
	}
	return out, nil
}

// BinaryThreshold builds a mask on the image grid: voxels with intensity
// inside [lower, upper] get the inside label, all others the outside label
func BinaryThreshold(img *volume.Volume, lower, upper float64, inside, outside int32) (*volume.Mask, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if lower > upper {
		return nil, fmt.Errorf("%w: lower %g above upper %g", ErrInvalidRange, lower, upper)
	}

	mask, err := volume.NewMask(img.Dims, img.Spatial)
	if err != nil {
		return nil, err
	}
	for i, v := range img.Data {
		if v >= lower && v <= upper {
			mask.Labels[i] = inside
		} else {
			mask.Labels[i] = outside
		}
	}
	return mask, nil
}
