// Package settings holds the extraction settings shared by the image
// preparation steps, with the conventional defaults and strict validation
// against the closed interpolator, kernel and pad mode sets.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cocosip/go-radiomics/filtering"
	"github.com/cocosip/go-radiomics/wavelet"
)

// ErrInvalidSettings is returned when a settings value is out of range
var ErrInvalidSettings = errors.New("invalid settings")

// WaveletSettings configures the stationary wavelet decomposition
type WaveletSettings struct {
	// Kernel names the registered wavelet kernel
	Kernel string `yaml:"kernel"`

	// Levels is the number of decomposition levels to emit
	Levels int `yaml:"levels"`

	// StartLevel is the number of low-pass cascades run before the first
	// emitted level
	StartLevel int `yaml:"startLevel"`

	// PadMode selects how odd axes are padded to even length
	PadMode string `yaml:"padMode"`
}

// Settings are the extraction settings for preparing an image and mask pair
type Settings struct {
	// Label selects the mask region to work on
	Label int32 `yaml:"label"`

	// BinWidth is the fixed intensity bin width for discretization
	BinWidth float64 `yaml:"binWidth"`

	// ResampledSpacing is the target voxel spacing in mm. Empty disables
	// resampling; when set, all three components must be positive.
	ResampledSpacing []float64 `yaml:"resampledSpacing"`

	// PadDistance is the margin in voxels kept around the region when
	// resampling
	PadDistance int `yaml:"padDistance"`

	// Interpolator names the resampling kernel
	Interpolator string `yaml:"interpolator"`

	// Wavelet configures the wavelet decomposition
	Wavelet WaveletSettings `yaml:"wavelet"`
}

// Default returns the conventional extraction settings
func Default() *Settings {
	s := &Settings{
		Label:        1,
		BinWidth:     25,
		PadDistance:  5,
		Interpolator: "bspline",
	}
	s.Wavelet.Kernel = "coif1"
	s.Wavelet.Levels = 1
	s.Wavelet.StartLevel = 0
	s.Wavelet.PadMode = "zero"
	return s
}

// Parse reads YAML settings over the defaults, so absent fields keep their
// default values. Unknown fields and out of range values are rejected.
func Parse(data []byte) (*Settings, error) {
	s := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks ranges and resolves every enum-valued setting against the
// package that owns it, so a bad name fails here rather than mid-pipeline
func (s *Settings) Validate() error {
	if s.Label <= 0 {
		return fmt.Errorf("%w: label %d must be positive", ErrInvalidSettings, s.Label)
	}
	if !(s.BinWidth > 0) {
		return fmt.Errorf("%w: bin width %g must be positive", ErrInvalidSettings, s.BinWidth)
	}
	if n := len(s.ResampledSpacing); n != 0 && n != 3 {
		return fmt.Errorf("%w: resampled spacing needs 3 components, got %d", ErrInvalidSettings, n)
	}
	for _, v := range s.ResampledSpacing {
		if !(v > 0) {
			return fmt.Errorf("%w: resampled spacing component %g must be positive", ErrInvalidSettings, v)
		}
	}
	if s.PadDistance < 0 {
		return fmt.Errorf("%w: negative pad distance %d", ErrInvalidSettings, s.PadDistance)
	}
	if _, err := filtering.ParseInterpolator(s.Interpolator); err != nil {
		return err
	}
	if _, err := wavelet.GetKernel(s.Wavelet.Kernel); err != nil {
		return err
	}
	if s.Wavelet.Levels < 1 {
		return fmt.Errorf("%w: wavelet levels %d must be at least 1", ErrInvalidSettings, s.Wavelet.Levels)
	}
	if s.Wavelet.StartLevel < 0 {
		return fmt.Errorf("%w: negative wavelet start level %d", ErrInvalidSettings, s.Wavelet.StartLevel)
	}
	if _, err := wavelet.ParsePadMode(s.Wavelet.PadMode); err != nil {
		return err
	}
	return nil
}

// ResamplingEnabled reports whether a target spacing is configured
func (s *Settings) ResamplingEnabled() bool {
	return len(s.ResampledSpacing) == 3
}

// TargetSpacing returns the configured spacing as a fixed array, and false
// when resampling is disabled
func (s *Settings) TargetSpacing() ([3]float64, bool) {
	if !s.ResamplingEnabled() {
		return [3]float64{}, false
	}
	return [3]float64{s.ResampledSpacing[0], s.ResampledSpacing[1], s.ResampledSpacing[2]}, true
}

// ResolveInterpolator maps the configured interpolator name to its enum
// value
func (s *Settings) ResolveInterpolator() (filtering.Interpolator, error) {
	return filtering.ParseInterpolator(s.Interpolator)
}

// Decomposer builds the wavelet decomposer described by the wavelet
// settings. Additional options are applied after the configured pad mode.
func (s *Settings) Decomposer(opts ...wavelet.DecomposerOption) (*wavelet.Decomposer, error) {
	mode, err := wavelet.ParsePadMode(s.Wavelet.PadMode)
	if err != nil {
		return nil, err
	}
	opts = append([]wavelet.DecomposerOption{wavelet.WithPadMode(mode)}, opts...)
	return wavelet.NewDecomposer(s.Wavelet.Kernel, opts...)
}
