// Package geometry plans the output grids used to crop and resample an
// image and mask pair around a labelled region of interest. Plans are pure
// geometry: locating the region in voxel data is delegated to a
// RegionAnalyzer and executing a plan is the job of a resampling engine.
package geometry

import (
	"fmt"
	"math"

	"github.com/cocosip/go-radiomics/diag"
	"github.com/cocosip/go-radiomics/volume"
)

// RegionAnalyzer locates a labelled region inside a mask
type RegionAnalyzer interface {
	// RegionBoundingBox returns the tight inclusive bounding box of the
	// voxels carrying label
	RegionBoundingBox(mask *volume.Mask, label int32) (volume.BoundingBox, error)
}

// Planner derives resample and crop geometry around a labelled region
type Planner struct {
	analyzer RegionAnalyzer
	log      diag.Logger
}

// PlannerOption configures a Planner
type PlannerOption func(*Planner)

// WithLogger routes planner diagnostics to log
func WithLogger(log diag.Logger) PlannerOption {
	return func(p *Planner) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPlanner returns a Planner that locates regions through analyzer
func NewPlanner(analyzer RegionAnalyzer, opts ...PlannerOption) (*Planner, error) {
	if analyzer == nil {
		return nil, ErrNoAnalyzer
	}
	p := &Planner{analyzer: analyzer, log: diag.NullLogger{}}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// PlanResample computes the output grid for resampling img and mask onto
// targetSpacing, cropped to the region carrying label plus padDistance
// voxels of margin per side. A nil img or mask returns (nil, nil): a
// missing input is not an error, there is simply no plan to make.
//
// When the image spacing already equals targetSpacing the plan is marked
// CropOnly and its grid is the plain crop of the region's bounding box, so
// an engine may copy voxels instead of interpolating.
//
// The lower output bound rounds down and the upper bound rounds up, each
// with a half voxel guard, so the new grid never cuts into the region even
// when upsampling. Axes where the region spans a single slice keep the
// source spacing. Bounds are clamped to the resampled extent of the source
// volume.
func (p *Planner) PlanResample(img *volume.Volume, mask *volume.Mask, label int32, targetSpacing [3]float64, padDistance int) (*ResamplePlan, error) {
	if img == nil || mask == nil {
		return nil, nil
	}
	if err := img.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("invalid image grid: %w", err)
	}
	if !mask.SameGrid(img) {
		return nil, volume.ErrGridMismatch
	}
	for a := 0; a < 3; a++ {
		if !(targetSpacing[a] > 0) {
			return nil, fmt.Errorf("%w: target spacing %v", ErrInvalidGeometry, targetSpacing)
		}
	}
	if padDistance < 0 {
		return nil, fmt.Errorf("%w: negative pad distance %d", ErrInvalidGeometry, padDistance)
	}

	oldSpacing := img.Spatial.Spacing

	// Equal spacing needs no interpolation, only the crop around the region
	if targetSpacing == oldSpacing {
		return p.cropOnlyPlan(img, mask, label)
	}

	box, err := p.regionBox(mask, label)
	if err != nil {
		return nil, err
	}
	boxSize := box.Size()

	// A single-slice axis keeps its spacing so a flat dimension is never
	// interpolated
	spacing := targetSpacing
	for a := 0; a < 3; a++ {
		if boxSize[a] != 1 {
			continue
		}
		if spacing[a] != oldSpacing[a] {
			p.log.Warnf("region spans one slice on axis %d, keeping spacing %g", a, oldSpacing[a])
		}
		spacing[a] = oldSpacing[a]
	}

	var (
		size      [3]int
		originIdx [3]float64
	)
	for a := 0; a < 3; a++ {
		ratio := oldSpacing[a] / spacing[a]

		// Round the lower bound down and the upper bound up, each guarded
		// by the half voxel between a voxel center and its edge
		lo := math.Floor((float64(box.Lower[a])-0.5)*ratio - float64(padDistance))
		hi := math.Ceil((float64(box.Lower[a]+boxSize[a])-0.5)*ratio + float64(padDistance))

		maxHi := math.Ceil(float64(img.Dims[a])*ratio) - 1
		if lo < 0 {
			lo = 0
		}
		if hi > maxHi {
			hi = maxHi
		}

		size[a] = int(hi) - int(lo) + 1

		// Half the relative spacing difference keeps the voxel-center
		// convention consistent between the grids
		originIdx[a] = 0.5*(spacing[a]-oldSpacing[a])/oldSpacing[a] + lo/ratio
	}

	plan := &ResamplePlan{
		Spacing:   spacing,
		Size:      size,
		Origin:    img.Spatial.ContinuousIndexToPhysical(originIdx),
		Direction: img.Spatial.Direction,
	}
	p.log.Debugf("applying resampling: spacing %v, size %v", plan.Spacing, plan.Size)
	return plan, nil
}

// cropOnlyPlan is the equal-spacing shortcut: the output grid is the
// region's bounding box on the unchanged voxel lattice
func (p *Planner) cropOnlyPlan(img *volume.Volume, mask *volume.Mask, label int32) (*ResamplePlan, error) {
	box, err := p.regionBox(mask, label)
	if err != nil {
		return nil, err
	}

	size := box.Size()
	p.log.Debugf("spacing unchanged, cropping to size %v", size)

	lower := [3]float64{float64(box.Lower[0]), float64(box.Lower[1]), float64(box.Lower[2])}
	return &ResamplePlan{
		Spacing:   img.Spatial.Spacing,
		Size:      size,
		Origin:    img.Spatial.ContinuousIndexToPhysical(lower),
		Direction: img.Spatial.Direction,
		CropOnly:  true,
	}, nil
}

// regionBox fetches the label's bounding box and rejects degenerate results
// before any grid arithmetic runs on them
func (p *Planner) regionBox(mask *volume.Mask, label int32) (volume.BoundingBox, error) {
	box, err := p.analyzer.RegionBoundingBox(mask, label)
	if err != nil {
		return box, err
	}
	if err := box.Validate(mask.Dims); err != nil {
		return box, fmt.Errorf("%w: %v", ErrInvalidGeometry, err)
	}
	return box, nil
}
