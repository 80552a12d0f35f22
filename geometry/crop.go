package geometry

import (
	"fmt"

	"github.com/cocosip/go-radiomics/volume"
)

// PlanCrop returns the voxel counts to remove from the lower and upper side
// of every axis so that the remaining block is exactly box. On each axis
// lower[a] + box size + upper[a] equals volumeSize[a]. Applying the margins
// to an image and its mask keeps the pair aligned.
func PlanCrop(volumeSize [3]int, box volume.BoundingBox) (lower, upper [3]int, err error) {
	if err := box.Validate(volumeSize); err != nil {
		return lower, upper, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	for a := 0; a < 3; a++ {
		lower[a] = box.Lower[a]
		upper[a] = volumeSize[a] - box.Upper[a] - 1
	}
	return lower, upper, nil
}
