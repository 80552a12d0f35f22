// Package dicomvol bridges DICOM pixel data to the float64 volumes the
// rest of the module operates on: stacking native frames into a Volume,
// writing a Volume back out as frames, and deriving grid geometry from the
// standard position, orientation and spacing attributes.
package dicomvol

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/cocosip/go-radiomics/volume"
)

// StackFrames reads every native frame of pd into a float64 volume on the
// given grid geometry. Axis 0 is the frame index, axis 1 the image row and
// axis 2 the image column. Samples are single channel 8 or 16 bit, little
// endian, signed when PixelRepresentation is 1.
func StackFrames(pd imagetypes.PixelData, sp volume.Spatial) (*volume.Volume, error) {
	if pd == nil {
		return nil, fmt.Errorf("source pixel data cannot be nil")
	}
	if pd.IsEncapsulated() {
		return nil, fmt.Errorf("%w: decode to native frames first", ErrEncapsulated)
	}
	info := pd.GetFrameInfo()
	if info == nil {
		return nil, fmt.Errorf("failed to get frame info from source pixel data")
	}
	if err := checkFormat(info); err != nil {
		return nil, err
	}
	frames := pd.FrameCount()
	if frames == 0 {
		return nil, ErrNoFrames
	}

	w, h := int(info.Width), int(info.Height)
	img, err := volume.New([3]int{frames, h, w}, sp)
	if err != nil {
		return nil, err
	}

	bytesPer := int(info.BitsAllocated) / 8
	signed := info.PixelRepresentation != 0
	want := w * h * bytesPer

	for f := 0; f < frames; f++ {
		data, err := pd.GetFrame(f)
		if err != nil {
			return nil, fmt.Errorf("failed to get frame %d: %w", f, err)
		}
		if len(data) != want {
			return nil, fmt.Errorf("%w: frame %d has %d bytes, want %d", ErrFrameSize, f, len(data), want)
		}
		decodeSamples(img.Data[f*h*w:(f+1)*h*w], data, bytesPer, signed)
	}
	return img, nil
}

// WriteFrames appends one frame per volume slice to pd, in the sample
// format announced by the destination's frame info. Values are rounded
// half away from zero and clamped to the sample range.
func WriteFrames(img *volume.Volume, pd imagetypes.PixelData) error {
	if img == nil || pd == nil {
		return fmt.Errorf("image and destination pixel data cannot be nil")
	}
	info := pd.GetFrameInfo()
	if info == nil {
		return fmt.Errorf("failed to get frame info from destination pixel data")
	}
	if err := checkFormat(info); err != nil {
		return err
	}

	w, h := int(info.Width), int(info.Height)
	if img.Dims[1] != h || img.Dims[2] != w {
		return fmt.Errorf("%w: volume slices are %dx%d, frames are %dx%d",
			ErrFrameSize, img.Dims[1], img.Dims[2], h, w)
	}

	bytesPer := int(info.BitsAllocated) / 8
	signed := info.PixelRepresentation != 0

	for f := 0; f < img.Dims[0]; f++ {
		frame := make([]byte, w*h*bytesPer)
		encodeSamples(frame, img.Data[f*h*w:(f+1)*h*w], bytesPer, signed)
		if err := pd.AddFrame(frame); err != nil {
			return fmt.Errorf("failed to add frame %d: %w", f, err)
		}
	}
	return nil
}

func checkFormat(info *imagetypes.FrameInfo) error {
	if int(info.SamplesPerPixel) != 1 {
		return fmt.Errorf("%w: %d samples per pixel, want 1", ErrUnsupportedFormat, int(info.SamplesPerPixel))
	}
	switch info.BitsAllocated {
	case 8, 16:
	default:
		return fmt.Errorf("%w: %d bits allocated", ErrUnsupportedFormat, int(info.BitsAllocated))
	}
	if info.Width == 0 || info.Height == 0 {
		return fmt.Errorf("%w: frame geometry %dx%d", ErrUnsupportedFormat, int(info.Width), int(info.Height))
	}
	return nil
}

func decodeSamples(dst []float64, src []byte, bytesPer int, signed bool) {
	switch {
	case bytesPer == 1 && !signed:
		for i := range dst {
			dst[i] = float64(src[i])
		}
	case bytesPer == 1 && signed:
		for i := range dst {
			dst[i] = float64(int8(src[i]))
		}
	case bytesPer == 2 && !signed:
		for i := range dst {
			dst[i] = float64(binary.LittleEndian.Uint16(src[2*i:]))
		}
	default:
		for i := range dst {
			dst[i] = float64(int16(binary.LittleEndian.Uint16(src[2*i:])))
		}
	}
}

func encodeSamples(dst []byte, src []float64, bytesPer int, signed bool) {
	switch {
	case bytesPer == 1 && !signed:
		for i, v := range src {
			dst[i] = byte(clampRound(v, 0, math.MaxUint8))
		}
	case bytesPer == 1 && signed:
		for i, v := range src {
			dst[i] = byte(int8(clampRound(v, math.MinInt8, math.MaxInt8)))
		}
	case bytesPer == 2 && !signed:
		for i, v := range src {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(clampRound(v, 0, math.MaxUint16)))
		}
	default:
		for i, v := range src {
			binary.LittleEndian.PutUint16(dst[2*i:], uint16(int16(clampRound(v, math.MinInt16, math.MaxInt16))))
		}
	}
}

// clampRound rounds half away from zero and clamps to [lo, hi]. NaN maps
// to lo.
func clampRound(v, lo, hi float64) int {
	r := math.Round(v)
	if math.IsNaN(r) || r < lo {
		return int(lo)
	}
	if r > hi {
		return int(hi)
	}
	return int(r)
}
