package dicomvol

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cocosip/go-radiomics/volume"
)

// orientationTol bounds how far the stored direction cosines may be from
// unit length and orthogonality before the orientation is rejected rather
// than corrected.
const orientationTol = 1e-3

// SpatialFromAttributes derives the volume grid geometry from the standard
// DICOM attributes: Image Position (Patient) of the first frame, the Image
// Orientation (Patient) row and column cosines, Pixel Spacing as (row,
// column) and the spacing between slices. The slice axis direction is the
// cross product of the row and column directions.
//
// Stored cosines are rounded decimal strings, so small deviations from an
// orthonormal frame are corrected by renormalizing; deviations beyond
// orientationTol are rejected.
func SpatialFromAttributes(position [3]float64, orientation [6]float64, pixelSpacing [2]float64, sliceSpacing float64) (volume.Spatial, error) {
	row := append([]float64(nil), orientation[:3]...) // direction of increasing column index
	col := append([]float64(nil), orientation[3:]...) // direction of increasing row index

	for _, v := range [][]float64{row, col} {
		n := floats.Norm(v, 2)
		if math.Abs(n-1) > orientationTol {
			return volume.Spatial{}, fmt.Errorf("%w: orientation cosines %v are not unit length", volume.ErrInvalidGrid, v)
		}
		floats.Scale(1/n, v)
	}

	proj := floats.Dot(row, col)
	if math.Abs(proj) > orientationTol {
		return volume.Spatial{}, fmt.Errorf("%w: row and column directions are not orthogonal", volume.ErrInvalidGrid)
	}
	floats.AddScaled(col, -proj, row)
	floats.Scale(1/floats.Norm(col, 2), col)

	normal := cross(row, col)

	sp := volume.Spatial{
		Spacing: [3]float64{sliceSpacing, pixelSpacing[0], pixelSpacing[1]},
		Origin:  position,
	}
	for r := 0; r < 3; r++ {
		sp.Direction[r*3+0] = normal[r]
		sp.Direction[r*3+1] = col[r]
		sp.Direction[r*3+2] = row[r]
	}
	if err := sp.Validate(); err != nil {
		return volume.Spatial{}, err
	}
	return sp, nil
}

func cross(a, b []float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
