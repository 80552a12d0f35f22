// Package intensity transforms voxel values: fixed bin width histograms and
// discretization for texture matrices, thresholding, and the global intensity
// remaps (square, square root, logarithm, exponential).
package intensity

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cocosip/go-radiomics/volume"
)

// binEdges builds the fixed width bin edges for values. The first edge is
// the largest multiple of binWidth at or below the minimum value, and edges
// step by binWidth until the maximum value is covered. A flat region whose
// value sits exactly on a bin edge gets a single half-open unit bin around
// that value.
func binEdges(values []float64, binWidth float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, ErrEmptyRegion
	}
	if !(binWidth > 0) || math.IsInf(binWidth, 0) {
		return nil, ErrInvalidBinWidth
	}

	lo := floats.Min(values)
	hi := floats.Max(values)

	low := lo - floorMod(lo, binWidth)
	high := hi + binWidth

	n := int(math.Ceil((high - low) / binWidth))
	edges := make([]float64, n)
	for i := range edges {
		edges[i] = low + float64(i)*binWidth
	}
	if len(edges) == 1 {
		edges = []float64{lo - 0.5, lo + 0.5}
	}
	return edges, nil
}

// Histogram counts values into fixed width bins and returns the counts with
// the bin edges. Bins are half-open except the last, which also contains
// values equal to its upper edge, so the maximum value is always counted.
func Histogram(values []float64, binWidth float64) (counts, edges []float64, err error) {
	edges, err = binEdges(values, binWidth)
	if err != nil {
		return nil, nil, err
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// Nudge the top divider so the maximum value falls inside the last bin
	dividers := append([]float64(nil), edges...)
	dividers[len(dividers)-1] = math.Nextafter(dividers[len(dividers)-1], math.Inf(1))

	counts = stat.Histogram(nil, dividers, sorted, nil)
	return counts, edges, nil
}

// Discretize rewrites the gray levels inside the labelled region as 1-based
// fixed width bin numbers, leaving voxels outside the region untouched. It
// returns the rewritten copy of the image together with the region histogram
// counts and the bin edges, whose top edge is raised by one so the region
// maximum lands in the highest bin instead of opening a new one.
func Discretize(img *volume.Volume, mask *volume.Mask, label int32, binWidth float64) (*volume.Volume, []float64, []float64, error) {
	if img == nil || mask == nil {
		return nil, nil, nil, fmt.Errorf("image and mask cannot be nil")
	}
	if !mask.SameGrid(img) {
		return nil, nil, nil, volume.ErrGridMismatch
	}

	values := make([]float64, 0, len(img.Data))
	for i, l := range mask.Labels {
		if l == label {
			values = append(values, img.Data[i])
		}
	}
	if len(values) == 0 {
		return nil, nil, nil, fmt.Errorf("%w: no voxels carry label %d", ErrEmptyRegion, label)
	}

	counts, edges, err := Histogram(values, binWidth)
	if err != nil {
		return nil, nil, nil, err
	}
	edges[len(edges)-1]++

	out := img.Clone()
	for i, l := range mask.Labels {
		if l == label {
			out.Data[i] = float64(upperBound(edges, img.Data[i]))
		}
	}
	return out, counts, edges, nil
}

// DiscretizeValues maps every value to its 1-based fixed width bin number.
// The returned edges are the histogram edges with the top edge raised by one
// so the maximum value lands in the highest bin instead of opening a new one.
func DiscretizeValues(values []float64, binWidth float64) (bins []int, edges []float64, err error) {
	edges, err = binEdges(values, binWidth)
	if err != nil {
		return nil, nil, err
	}
	edges[len(edges)-1]++

	bins = make([]int, len(values))
	for i, v := range values {
		bins[i] = upperBound(edges, v)
	}
	return bins, edges, nil
}

// floorMod is the remainder with the sign of the divisor, so the lower
// histogram bound rounds toward negative infinity for negative minima
func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// upperBound returns the index of the first edge strictly greater than v,
// which for edges[i-1] <= v < edges[i] is the 1-based bin number i
func upperBound(edges []float64, v float64) int {
	return sort.Search(len(edges), func(i int) bool { return edges[i] > v })
}
