package wavelet

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/cocosip/go-radiomics/diag"
	"github.com/cocosip/go-radiomics/volume"
)

func randomVolume(tb testing.TB, dims [3]int, seed uint64) *volume.Volume {
	tb.Helper()
	v, err := volume.New(dims, volume.DefaultSpatial())
	if err != nil {
		tb.Fatal(err)
	}
	r := rand.New(rand.NewPCG(seed, 0))
	for i := range v.Data {
		v.Data[i] = r.Float64()*200 - 100
	}
	return v
}

// sameData fails unless two volumes are bitwise identical
func sameData(t *testing.T, name string, a, b *volume.Volume) {
	t.Helper()
	if a.Dims != b.Dims {
		t.Fatalf("%s: dims %v vs %v", name, a.Dims, b.Dims)
	}
	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("%s: voxel %d differs: %g vs %g", name, i, a.Data[i], b.Data[i])
		}
	}
}

func TestDecomposeZeroVolume(t *testing.T) {
	d, err := NewDecomposer("coif1")
	if err != nil {
		t.Fatal(err)
	}
	vol, err := volume.New([3]int{4, 4, 4}, volume.DefaultSpatial())
	if err != nil {
		t.Fatal(err)
	}

	approx, sets, err := d.Decompose(vol, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d levels, want 1", len(sets))
	}

	check := func(name string, v *volume.Volume) {
		if v.Dims != vol.Dims {
			t.Fatalf("%s: dims %v, want %v", name, v.Dims, vol.Dims)
		}
		for i, x := range v.Data {
			if x != 0 {
				t.Fatalf("%s: voxel %d = %g, want 0", name, i, x)
			}
		}
	}
	check("approximation", approx)
	for _, sb := range sets[0].Subbands {
		check(sb.Code.String(), sb.Volume)
	}
}

// TestDecomposeShapeAndMetadata decomposes an odd-shaped volume and checks
// that every output is cropped back to the input shape and carries the
// input's spatial metadata
func TestDecomposeShapeAndMetadata(t *testing.T) {
	sp := volume.Spatial{
		Spacing:   [3]float64{2, 0.5, 1.25},
		Origin:    [3]float64{-10, 4, 7},
		Direction: volume.IdentityDirection,
	}
	vol, err := volume.New([3]int{5, 6, 7}, sp)
	if err != nil {
		t.Fatal(err)
	}
	r := rand.New(rand.NewPCG(11, 0))
	for i := range vol.Data {
		vol.Data[i] = r.Float64() * 100
	}

	d, err := NewDecomposer("db2")
	if err != nil {
		t.Fatal(err)
	}
	approx, sets, err := d.Decompose(vol, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	if approx.Dims != vol.Dims {
		t.Errorf("approximation dims = %v, want %v", approx.Dims, vol.Dims)
	}
	if approx.Spatial != sp {
		t.Errorf("approximation spatial = %+v, want input metadata", approx.Spatial)
	}

	if sets[0].Level != 1 {
		t.Errorf("Level = %d, want 1", sets[0].Level)
	}
	wantCodes := DetailCodes()
	for idx, sb := range sets[0].Subbands {
		if sb.Code != wantCodes[idx] {
			t.Errorf("subband %d has code %s, want %s", idx, sb.Code, wantCodes[idx])
		}
		if sb.Volume.Dims != vol.Dims {
			t.Errorf("%s dims = %v, want %v", sb.Code, sb.Volume.Dims, vol.Dims)
		}
		if sb.Volume.Spatial != sp {
			t.Errorf("%s spatial differs from input", sb.Code)
		}
	}
}

func TestDecomposeInputUnchanged(t *testing.T) {
	vol := randomVolume(t, [3]int{5, 4, 6}, 2)
	before := make([]float64, len(vol.Data))
	copy(before, vol.Data)

	d, err := NewDecomposer("sym5")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := d.Decompose(vol, 2, 0); err != nil {
		t.Fatal(err)
	}

	for i := range before {
		if vol.Data[i] != before[i] {
			t.Fatalf("input voxel %d changed from %g to %g", i, before[i], vol.Data[i])
		}
	}
}

// TestDecomposeEnergy checks that one full level doubles the energy per
// axis pass: the eight bands together carry eight times the input energy.
// Even dimensions keep padding out of the balance.
func TestDecomposeEnergy(t *testing.T) {
	vol := randomVolume(t, [3]int{6, 6, 6}, 42)

	d, err := NewDecomposer("db3")
	if err != nil {
		t.Fatal(err)
	}
	approx, sets, err := d.Decompose(vol, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	eIn := floats.Dot(vol.Data, vol.Data)
	eOut := floats.Dot(approx.Data, approx.Data)
	for _, sb := range sets[0].Subbands {
		eOut += floats.Dot(sb.Volume.Data, sb.Volume.Data)
	}
	if math.Abs(eOut-8*eIn) > 1e-8*eIn {
		t.Fatalf("band energy = %g, want %g", eOut, 8*eIn)
	}
}

// TestDecomposeConstantEdgePad pads an odd constant volume with edge
// replication, which keeps it constant: details vanish and the
// approximation is the input scaled by sqrt(2) per axis
func TestDecomposeConstantEdgePad(t *testing.T) {
	const c = 2.0

	vol, err := volume.New([3]int{5, 5, 5}, volume.DefaultSpatial())
	if err != nil {
		t.Fatal(err)
	}
	for i := range vol.Data {
		vol.Data[i] = c
	}

	d, err := NewDecomposer("haar", WithPadMode(PadEdge))
	if err != nil {
		t.Fatal(err)
	}
	approx, sets, err := d.Decompose(vol, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	want := c * 2 * math.Sqrt2 // sqrt(2)^3
	for i, x := range approx.Data {
		if math.Abs(x-want) > 1e-9 {
			t.Fatalf("approximation voxel %d = %g, want %g", i, x, want)
		}
	}
	for _, sb := range sets[0].Subbands {
		for i, x := range sb.Volume.Data {
			if math.Abs(x) > 1e-9 {
				t.Fatalf("%s voxel %d = %g, want 0", sb.Code, i, x)
			}
		}
	}
}

// TestDecomposeStartLevel checks that skipping recorded levels is
// equivalent to recording and discarding them
func TestDecomposeStartLevel(t *testing.T) {
	vol := randomVolume(t, [3]int{8, 8, 8}, 1)

	d, err := NewDecomposer("db2")
	if err != nil {
		t.Fatal(err)
	}

	fullApprox, fullSets, err := d.Decompose(vol, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	skipApprox, skipSets, err := d.Decompose(vol, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	if len(fullSets) != 2 || len(skipSets) != 1 {
		t.Fatalf("got %d and %d levels, want 2 and 1", len(fullSets), len(skipSets))
	}
	if fullSets[1].Level != 2 || skipSets[0].Level != 2 {
		t.Fatalf("levels = %d and %d, want 2 and 2", fullSets[1].Level, skipSets[0].Level)
	}

	sameData(t, "approximation", fullApprox, skipApprox)
	for idx := range skipSets[0].Subbands {
		sameData(t, skipSets[0].Subbands[idx].Code.String(),
			fullSets[1].Subbands[idx].Volume, skipSets[0].Subbands[idx].Volume)
	}
}

// TestDecomposeParallelDeterministic checks that the line batching leaves
// no trace in the output
func TestDecomposeParallelDeterministic(t *testing.T) {
	vol := randomVolume(t, [3]int{7, 8, 9}, 3)

	serial, err := NewDecomposer("sym4", WithParallelism(1))
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := NewDecomposer("sym4", WithParallelism(8))
	if err != nil {
		t.Fatal(err)
	}

	sApprox, sSets, err := serial.Decompose(vol, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	pApprox, pSets, err := parallel.Decompose(vol, 1, 0)
	if err != nil {
		t.Fatal(err)
	}

	sameData(t, "approximation", sApprox, pApprox)
	for idx := range sSets[0].Subbands {
		sameData(t, sSets[0].Subbands[idx].Code.String(),
			sSets[0].Subbands[idx].Volume, pSets[0].Subbands[idx].Volume)
	}
}

// TestDecomposeDiagnostics routes progress through a caller-supplied sink
func TestDecomposeDiagnostics(t *testing.T) {
	var messages []string
	d, err := NewDecomposer("haar", WithLogger(diag.Func(func(msg string) {
		messages = append(messages, msg)
	})))
	if err != nil {
		t.Fatal(err)
	}

	vol := randomVolume(t, [3]int{4, 4, 4}, 5)
	if _, _, err := d.Decompose(vol, 1, 0); err != nil {
		t.Fatal(err)
	}

	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if !strings.HasPrefix(messages[0], "debug: ") {
		t.Errorf("message %q has no level prefix", messages[0])
	}
}

func TestDecomposeRejectsBadInput(t *testing.T) {
	if _, err := NewDecomposer("nonexistent"); !errors.Is(err, ErrUnknownKernel) {
		t.Fatalf("error %v is not ErrUnknownKernel", err)
	}

	d, err := NewDecomposer("haar")
	if err != nil {
		t.Fatal(err)
	}
	vol := randomVolume(t, [3]int{4, 4, 4}, 9)

	if _, _, err := d.Decompose(nil, 1, 0); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("nil volume: error %v is not ErrInvalidShape", err)
	}
	if _, _, err := d.Decompose(vol, 0, 0); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("zero levels: error %v is not ErrInvalidLevel", err)
	}
	if _, _, err := d.Decompose(vol, 1, -1); !errors.Is(err, ErrInvalidLevel) {
		t.Errorf("negative start level: error %v is not ErrInvalidLevel", err)
	}

	flat := &volume.Volume{Grid: volume.Grid{Dims: [3]int{0, 4, 4}}}
	if _, _, err := d.Decompose(flat, 1, 0); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("zero axis: error %v is not ErrInvalidShape", err)
	}

	short := &volume.Volume{
		Grid: volume.Grid{Dims: [3]int{4, 4, 4}},
		Data: make([]float64, 10),
	}
	if _, _, err := d.Decompose(short, 1, 0); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("short buffer: error %v is not ErrInvalidShape", err)
	}
}

func TestParsePadMode(t *testing.T) {
	tests := []struct {
		in   string
		want PadMode
		ok   bool
	}{
		{"zero", PadZero, true},
		{"edge", PadEdge, true},
		{" Edge ", PadEdge, true},
		{"wrap", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, err := ParsePadMode(tt.in)
		if tt.ok {
			if err != nil || got != tt.want {
				t.Errorf("ParsePadMode(%q) = (%v, %v), want %v", tt.in, got, err, tt.want)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidPadMode) {
			t.Errorf("ParsePadMode(%q): error %v is not ErrInvalidPadMode", tt.in, err)
		}
	}

	if PadZero.String() != "zero" || PadEdge.String() != "edge" {
		t.Errorf("String() = %q, %q", PadZero, PadEdge)
	}
}

func BenchmarkDecompose(b *testing.B) {
	vol := randomVolume(b, [3]int{32, 32, 32}, 42)
	d, err := NewDecomposer("coif1")
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := d.Decompose(vol, 1, 0); err != nil {
			b.Fatal(err)
		}
	}
}
