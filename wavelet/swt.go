package wavelet

import "fmt"

// Forward applies one level of the stationary wavelet transform to line.
// Both outputs have the input's length; nothing is down-sampled, which
// makes the transform translation covariant. Boundaries wrap circularly,
// so the line length must be even (volumes are padded to even before their
// lines reach this point).
//
//	approx[i] = sum_t decLow[t]  * line[(i+t) mod n]
//	detail[i] = sum_t decHigh[t] * line[(i+t) mod n]
func (k *Kernel) Forward(line []float64) (approx, detail []float64, err error) {
	if err := k.checkLine(len(line)); err != nil {
		return nil, nil, err
	}
	approx = make([]float64, len(line))
	detail = make([]float64, len(line))
	k.forwardInto(line, approx, detail)
	return approx, detail, nil
}

// Inverse reconstructs the line whose Forward produced approx and detail:
//
//	line[i] = (sum_t decLow[t]*approx[(i-t) mod n] + decHigh[t]*detail[(i-t) mod n]) / 2
//
// The halving compensates for the redundancy of the undecimated analysis;
// power complementarity of the banks makes the roundtrip exact.
func (k *Kernel) Inverse(approx, detail []float64) ([]float64, error) {
	if len(approx) != len(detail) {
		return nil, fmt.Errorf("%w: approximation length %d, detail length %d",
			ErrInvalidShape, len(approx), len(detail))
	}
	if err := k.checkLine(len(approx)); err != nil {
		return nil, err
	}

	n := len(approx)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var x float64
		for t := 0; t < len(k.decLow); t++ {
			idx := (i - t) % n
			if idx < 0 {
				idx += n
			}
			x += k.decLow[t]*approx[idx] + k.decHigh[t]*detail[idx]
		}
		out[i] = 0.5 * x
	}
	return out, nil
}

// forwardInto is Forward with caller-owned outputs and no validation, for
// the per-line hot loop of the decomposer
func (k *Kernel) forwardInto(line, approx, detail []float64) {
	n := len(line)
	for i := 0; i < n; i++ {
		var a, d float64
		for t := 0; t < len(k.decLow); t++ {
			v := line[(i+t)%n]
			a += k.decLow[t] * v
			d += k.decHigh[t] * v
		}
		approx[i] = a
		detail[i] = d
	}
}

// checkLine validates a line length for the circular transform
func (k *Kernel) checkLine(n int) error {
	if n < 2 {
		return fmt.Errorf("%w: line of length %d", ErrInvalidShape, n)
	}
	if n%2 != 0 {
		return fmt.Errorf("%w: line length %d is odd", ErrInvalidShape, n)
	}
	return nil
}
