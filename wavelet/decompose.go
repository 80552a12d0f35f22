package wavelet

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cocosip/go-radiomics/diag"
	"github.com/cocosip/go-radiomics/volume"
)

// PadMode selects the fill for the slice appended to odd-length axes
// before a decomposition
type PadMode int

const (
	// PadZero appends a zero-filled slice
	PadZero PadMode = iota
	// PadEdge repeats the last slice
	PadEdge
)

// ParsePadMode maps a configuration name to a PadMode
func ParsePadMode(name string) (PadMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "zero":
		return PadZero, nil
	case "edge":
		return PadEdge, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPadMode, name)
}

func (m PadMode) String() string {
	switch m {
	case PadZero:
		return "zero"
	case PadEdge:
		return "edge"
	}
	return fmt.Sprintf("PadMode(%d)", int(m))
}

// Decomposer performs recursive three-axis stationary wavelet
// decompositions with a fixed kernel
type Decomposer struct {
	kernel      *Kernel
	padMode     PadMode
	parallelism int
	log         diag.Logger
}

// DecomposerOption configures a Decomposer
type DecomposerOption func(*Decomposer)

// WithPadMode selects the fill used when an odd axis is padded
func WithPadMode(mode PadMode) DecomposerOption {
	return func(d *Decomposer) { d.padMode = mode }
}

// WithParallelism caps the goroutines used within one axis pass. Values
// below 1 restore the default of one per CPU.
func WithParallelism(n int) DecomposerOption {
	return func(d *Decomposer) {
		if n < 1 {
			n = runtime.GOMAXPROCS(0)
		}
		d.parallelism = n
	}
}

// WithLogger routes decomposition diagnostics to log
func WithLogger(log diag.Logger) DecomposerOption {
	return func(d *Decomposer) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDecomposer returns a Decomposer for the named kernel. Unknown names
// are rejected with ErrUnknownKernel, never substituted.
func NewDecomposer(kernelName string, opts ...DecomposerOption) (*Decomposer, error) {
	k, err := GetKernel(kernelName)
	if err != nil {
		return nil, err
	}
	d := &Decomposer{
		kernel:      k,
		padMode:     PadZero,
		parallelism: runtime.GOMAXPROCS(0),
		log:         diag.NullLogger{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Kernel returns the kernel the decomposer was built with
func (d *Decomposer) Kernel() *Kernel { return d.kernel }

// Decompose splits vol into an approximation and per-level detail
// sub-bands. One level applies a stationary split along each axis in
// (i, j, k) order, producing eight same-shaped volumes: the seven detail
// combinations become the level's SubbandSet and the all low-pass volume
// feeds the next level. startLevel full levels run first without being
// recorded, then levels recorded levels follow. The returned approximation
// is the final all low-pass volume.
//
// Odd axes are first padded by one trailing slice (fill per the pad mode)
// and every output is cropped back to the input shape, so all returned
// volumes share the input's grid and spatial metadata. Coefficients next
// to the end of a padded axis are boundary approximations: their support
// includes the pad fill instead of true data.
//
// The input volume is never modified.
func (d *Decomposer) Decompose(vol *volume.Volume, levels, startLevel int) (*volume.Volume, []SubbandSet, error) {
	if vol == nil {
		return nil, nil, fmt.Errorf("%w: nil volume", ErrInvalidShape)
	}
	for a := 0; a < 3; a++ {
		if vol.Dims[a] <= 0 {
			return nil, nil, fmt.Errorf("%w: dims %v", ErrInvalidShape, vol.Dims)
		}
	}
	if len(vol.Data) != vol.NumVoxels() {
		return nil, nil, fmt.Errorf("%w: %d values for dims %v", ErrInvalidShape, len(vol.Data), vol.Dims)
	}
	if levels < 1 {
		return nil, nil, fmt.Errorf("%w: levels %d", ErrInvalidLevel, levels)
	}
	if startLevel < 0 {
		return nil, nil, fmt.Errorf("%w: start level %d", ErrInvalidLevel, startLevel)
	}

	orig := vol.Grid
	data := d.padToEven(vol)

	d.log.Debugf("decomposing %v volume with %s kernel, %d level(s) from start level %d",
		data.Dims, d.kernel.name, levels, startLevel)

	// split defers error handling so one level reads as the plain
	// eight-way cascade; terr keeps the first failure
	var terr error
	split := func(v *volume.Volume, axis int) (hi, lo *volume.Volume) {
		if terr != nil {
			return nil, nil
		}
		hi, lo, terr = d.transformAxis(v, axis)
		return hi, lo
	}

	// Advance to the requested start resolution along the low chain only
	for lv := 0; lv < startLevel; lv++ {
		_, l := split(data, 0)
		_, ll := split(l, 1)
		_, lll := split(ll, 2)
		if terr != nil {
			return nil, nil, terr
		}
		data = lll
	}

	sets := make([]SubbandSet, 0, levels)
	for lv := 0; lv < levels; lv++ {
		h, l := split(data, 0)

		hh, hl := split(h, 1)
		lh, ll := split(l, 1)

		hhh, hhl := split(hh, 2)
		hlh, hll := split(hl, 2)
		lhh, lhl := split(lh, 2)
		llh, lll := split(ll, 2)
		if terr != nil {
			return nil, nil, terr
		}

		set := SubbandSet{Level: startLevel + lv + 1}
		details := [7]*volume.Volume{hhh, hhl, hlh, hll, lhh, lhl, llh}
		for idx, code := range DetailCodes() {
			set.Subbands[idx] = Subband{Code: code, Volume: d.cropTo(details[idx], orig)}
		}
		sets = append(sets, set)

		data = lll
	}

	return d.cropTo(data, orig), sets, nil
}

// transformAxis splits v along one axis into its detail (hi) and
// approximation (lo) volumes, transforming lines in parallel
func (d *Decomposer) transformAxis(v *volume.Volume, axis int) (hi, lo *volume.Volume, err error) {
	if err := d.kernel.checkLine(v.Dims[axis]); err != nil {
		return nil, nil, err
	}

	hi = &volume.Volume{Grid: v.Grid, Data: make([]float64, len(v.Data))}
	lo = &volume.Volume{Grid: v.Grid, Data: make([]float64, len(v.Data))}

	var na, nb int
	switch axis {
	case 0:
		na, nb = v.Dims[1], v.Dims[2]
	case 1:
		na, nb = v.Dims[0], v.Dims[2]
	default:
		na, nb = v.Dims[0], v.Dims[1]
	}

	var g errgroup.Group
	g.SetLimit(d.parallelism)
	for a := 0; a < na; a++ {
		g.Go(func() error {
			n := v.Dims[axis]
			line := make([]float64, n)
			approx := make([]float64, n)
			detail := make([]float64, n)
			for b := 0; b < nb; b++ {
				line = v.Line(axis, a, b, line)
				d.kernel.forwardInto(line, approx, detail)
				hi.SetLine(axis, a, b, detail)
				lo.SetLine(axis, a, b, approx)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return hi, lo, nil
}

// padToEven returns v extended by one trailing slice on every odd axis, or
// v itself when all axes are already even
func (d *Decomposer) padToEven(v *volume.Volume) *volume.Volume {
	dims := v.Dims
	padded := false
	for a := 0; a < 3; a++ {
		if dims[a]%2 != 0 {
			dims[a]++
			padded = true
		}
	}
	if !padded {
		return v
	}

	out := &volume.Volume{
		Grid: volume.Grid{Dims: dims, Spatial: v.Spatial},
		Data: make([]float64, dims[0]*dims[1]*dims[2]),
	}

	if d.padMode == PadZero {
		// Copy the original block row by row; appended slices stay zero
		for i := 0; i < v.Dims[0]; i++ {
			for j := 0; j < v.Dims[1]; j++ {
				src := v.Grid.Index(i, j, 0)
				dst := out.Grid.Index(i, j, 0)
				copy(out.Data[dst:dst+v.Dims[2]], v.Data[src:src+v.Dims[2]])
			}
		}
		return out
	}

	// Edge mode clamps reads to the last source slice per axis
	for i := 0; i < dims[0]; i++ {
		si := min(i, v.Dims[0]-1)
		for j := 0; j < dims[1]; j++ {
			sj := min(j, v.Dims[1]-1)
			for k := 0; k < dims[2]; k++ {
				sk := min(k, v.Dims[2]-1)
				out.Data[out.Grid.Index(i, j, k)] = v.At(si, sj, sk)
			}
		}
	}
	return out
}

// cropTo cuts the leading corner of v back to grid g. Volumes that already
// match keep their buffer.
func (d *Decomposer) cropTo(v *volume.Volume, g volume.Grid) *volume.Volume {
	if v.Dims == g.Dims {
		v.Spatial = g.Spatial
		return v
	}
	out := &volume.Volume{Grid: g, Data: make([]float64, g.NumVoxels())}
	for i := 0; i < g.Dims[0]; i++ {
		for j := 0; j < g.Dims[1]; j++ {
			src := v.Grid.Index(i, j, 0)
			dst := g.Index(i, j, 0)
			copy(out.Data[dst:dst+g.Dims[2]], v.Data[src:src+g.Dims[2]])
		}
	}
	return out
}
