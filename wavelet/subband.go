package wavelet

import "github.com/cocosip/go-radiomics/volume"

// Band selects one half of a single-axis split
type Band int

const (
	// Low is the approximation half of a split
	Low Band = iota
	// High is the detail half of a split
	High
)

func (b Band) letter() byte {
	if b == High {
		return 'H'
	}
	return 'L'
}

// SubbandCode identifies one of the eight volumes produced by a full
// three-axis decomposition level, one band choice per axis in (i, j, k)
// order
type SubbandCode struct {
	I, J, K Band
}

// String returns the three-letter label, axis i first: "HLH" is high-pass
// along i and k, low-pass along j
func (c SubbandCode) String() string {
	return string([]byte{c.I.letter(), c.J.letter(), c.K.letter()})
}

// Approximation is the all low-pass code. It never appears in a SubbandSet:
// that volume feeds the next level, or is returned as the final
// approximation.
var Approximation = SubbandCode{Low, Low, Low}

// DetailCodes returns the seven detail codes in canonical order
func DetailCodes() [7]SubbandCode {
	return [7]SubbandCode{
		{High, High, High},
		{High, High, Low},
		{High, Low, High},
		{High, Low, Low},
		{Low, High, High},
		{Low, High, Low},
		{Low, Low, High},
	}
}

// Subband is one detail volume of a decomposition level
type Subband struct {
	Code   SubbandCode
	Volume *volume.Volume
}

// SubbandSet carries the seven detail volumes of one decomposition level,
// ordered as DetailCodes
type SubbandSet struct {
	Level    int // decomposition depth of this set, counting from 1
	Subbands [7]Subband
}

// Get returns the detail volume for code, or nil when code is not in the
// set (the approximation never is)
func (s *SubbandSet) Get(code SubbandCode) *volume.Volume {
	for _, sb := range s.Subbands {
		if sb.Code == code {
			return sb.Volume
		}
	}
	return nil
}
