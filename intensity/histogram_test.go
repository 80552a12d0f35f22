package intensity

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/cocosip/go-radiomics/volume"
)

func lineMask(t *testing.T, img *volume.Volume, labels ...int32) *volume.Mask {
	t.Helper()
	mask, err := volume.NewMask(img.Dims, img.Spatial)
	if err != nil {
		t.Fatalf("failed to create mask: %v", err)
	}
	copy(mask.Labels, labels)
	return mask
}

func TestHistogram(t *testing.T) {
	cases := []struct {
		name       string
		values     []float64
		binWidth   float64
		wantCounts []float64
		wantEdges  []float64
	}{
		{
			name:       "aligned range",
			values:     []float64{0, 10, 25, 26, 50},
			binWidth:   25,
			wantCounts: []float64{2, 3},
			wantEdges:  []float64{0, 25, 50},
		},
		{
			name:       "negative minimum rounds down",
			values:     []float64{-7.5, 100},
			binWidth:   25,
			wantCounts: []float64{1, 0, 0, 0, 1},
			wantEdges:  []float64{-25, 0, 25, 50, 75, 100},
		},
		{
			name:       "flat region on a bin edge",
			values:     []float64{50, 50, 50},
			binWidth:   25,
			wantCounts: []float64{3},
			wantEdges:  []float64{49.5, 50.5},
		},
		{
			name:       "flat region off the edge grid",
			values:     []float64{60},
			binWidth:   25,
			wantCounts: []float64{1},
			wantEdges:  []float64{50, 75},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			counts, edges, err := Histogram(tc.values, tc.binWidth)
			if err != nil {
				t.Fatalf("failed to build histogram: %v", err)
			}
			if !floats.Equal(counts, tc.wantCounts) {
				t.Errorf("got counts %v, want %v", counts, tc.wantCounts)
			}
			if !floats.EqualApprox(edges, tc.wantEdges, 1e-12) {
				t.Errorf("got edges %v, want %v", edges, tc.wantEdges)
			}
		})
	}
}

// TestHistogramCountsEveryValue guards the maximum-inclusion rule: no value
// may fall off the top of the edge range.
func TestHistogramCountsEveryValue(t *testing.T) {
	values := make([]float64, 101)
	for i := range values {
		values[i] = -13.7 + 3.1*float64(i)
	}

	counts, edges, err := Histogram(values, 7)
	if err != nil {
		t.Fatalf("failed to build histogram: %v", err)
	}
	if got := floats.Sum(counts); got != float64(len(values)) {
		t.Errorf("counted %g values, want %d", got, len(values))
	}
	if edges[0] > floats.Min(values) {
		t.Errorf("first edge %g above minimum %g", edges[0], floats.Min(values))
	}
	if edges[len(edges)-1] < floats.Max(values) {
		t.Errorf("last edge %g below maximum %g", edges[len(edges)-1], floats.Max(values))
	}
	for i := 1; i < len(edges); i++ {
		if step := edges[i] - edges[i-1]; !scalar.EqualWithinAbs(step, 7, 1e-9) {
			t.Fatalf("edge step %g at %d, want 7", step, i)
		}
	}
}

func TestHistogramRejectsBadInput(t *testing.T) {
	if _, _, err := Histogram(nil, 25); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("expected ErrEmptyRegion, got %v", err)
	}
	for _, w := range []float64{0, -1} {
		if _, _, err := Histogram([]float64{1, 2}, w); !errors.Is(err, ErrInvalidBinWidth) {
			t.Errorf("expected ErrInvalidBinWidth for width %g, got %v", w, err)
		}
	}
}

func TestDiscretize(t *testing.T) {
	img := lineVolume(t, 0, 10, 25, 26, 50, -99)
	mask := lineMask(t, img, 1, 1, 1, 1, 1, 2)

	out, counts, edges, err := Discretize(img, mask, 1, 25)
	if err != nil {
		t.Fatalf("failed to discretize: %v", err)
	}

	// Labelled voxels carry their 1-based bin numbers, the label 2 voxel
	// keeps its gray level
	want := []float64{1, 1, 2, 2, 2, -99}
	if !floats.Equal(out.Data, want) {
		t.Errorf("got %v, want %v", out.Data, want)
	}
	if !floats.Equal(counts, []float64{2, 3}) {
		t.Errorf("got counts %v, want [2 3]", counts)
	}
	// The top edge is raised so the region maximum stays in the highest bin
	if !floats.EqualApprox(edges, []float64{0, 25, 51}, 1e-12) {
		t.Errorf("got edges %v, want [0 25 51]", edges)
	}

	if img.Data[2] != 25 {
		t.Error("input volume was modified")
	}
	if out.Spatial != img.Spatial || out.Dims != img.Dims {
		t.Error("output geometry differs from input")
	}
}

func TestDiscretizeRegionMaximumInTopBin(t *testing.T) {
	img := lineVolume(t, 3.2, -1.5, 40, 17.8, 39.999, 500)
	mask := lineMask(t, img, 1, 1, 1, 1, 1, 0)

	out, counts, edges, err := Discretize(img, mask, 1, 5)
	if err != nil {
		t.Fatalf("failed to discretize: %v", err)
	}

	// Only the region's own range drives the edges: 10 edges from -5 to 40
	if len(edges) != 10 {
		t.Fatalf("got %d edges, want 10", len(edges))
	}
	if got := floats.Sum(counts); got != 5 {
		t.Errorf("counted %g region voxels, want 5", got)
	}
	top := float64(len(edges) - 1)
	if out.Data[2] != top {
		t.Errorf("region maximum binned to %g, want top bin %g", out.Data[2], top)
	}
	if out.Data[5] != 500 {
		t.Errorf("unlabelled voxel rewritten to %g", out.Data[5])
	}
}

func TestDiscretizeRejectsBadInput(t *testing.T) {
	img := lineVolume(t, 1, 2, 3)
	mask := lineMask(t, img, 1, 1, 0)

	if _, _, _, err := Discretize(nil, mask, 1, 25); err == nil {
		t.Error("expected error for nil image")
	}
	if _, _, _, err := Discretize(img, nil, 1, 25); err == nil {
		t.Error("expected error for nil mask")
	}
	if _, _, _, err := Discretize(img, mask, 7, 25); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("expected ErrEmptyRegion for absent label, got %v", err)
	}
	if _, _, _, err := Discretize(img, mask, 1, 0); !errors.Is(err, ErrInvalidBinWidth) {
		t.Errorf("expected ErrInvalidBinWidth, got %v", err)
	}

	other := lineVolume(t, 1, 2, 3, 4)
	if _, _, _, err := Discretize(other, mask, 1, 25); !errors.Is(err, volume.ErrGridMismatch) {
		t.Errorf("expected ErrGridMismatch, got %v", err)
	}
}

func TestDiscretizeValues(t *testing.T) {
	bins, edges, err := DiscretizeValues([]float64{0, 10, 25, 26, 50}, 25)
	if err != nil {
		t.Fatalf("failed to discretize: %v", err)
	}
	wantBins := []int{1, 1, 2, 2, 2}
	for i, b := range bins {
		if b != wantBins[i] {
			t.Errorf("bin[%d] = %d, want %d", i, b, wantBins[i])
		}
	}
	// The top edge is raised so the maximum stays in the highest bin
	if !floats.EqualApprox(edges, []float64{0, 25, 51}, 1e-12) {
		t.Errorf("got edges %v, want [0 25 51]", edges)
	}
}

func TestDiscretizeValuesFlatRegion(t *testing.T) {
	bins, _, err := DiscretizeValues([]float64{50, 50}, 25)
	if err != nil {
		t.Fatalf("failed to discretize: %v", err)
	}
	for i, b := range bins {
		if b != 1 {
			t.Errorf("bin[%d] = %d, want 1", i, b)
		}
	}
}

func TestDiscretizeValuesMaximumInTopBin(t *testing.T) {
	values := []float64{3.2, -1.5, 40, 17.8, 39.999, 0}
	bins, edges, err := DiscretizeValues(values, 5)
	if err != nil {
		t.Fatalf("failed to discretize: %v", err)
	}
	top := len(edges) - 1
	for i, v := range values {
		if bins[i] < 1 || bins[i] > top {
			t.Errorf("bin[%d] = %d outside [1, %d]", i, bins[i], top)
		}
		if v == floats.Max(values) && bins[i] != top {
			t.Errorf("maximum value binned to %d, want top bin %d", bins[i], top)
		}
	}
}

func TestDiscretizeValuesRejectsBadInput(t *testing.T) {
	if _, _, err := DiscretizeValues(nil, 25); !errors.Is(err, ErrEmptyRegion) {
		t.Errorf("expected ErrEmptyRegion, got %v", err)
	}
	if _, _, err := DiscretizeValues([]float64{1}, 0); !errors.Is(err, ErrInvalidBinWidth) {
		t.Errorf("expected ErrInvalidBinWidth, got %v", err)
	}
}
