// Package wavelet implements the stationary (undecimated) wavelet transform
// used to split volumes into approximation and detail sub-bands.
package wavelet

// Kernel holds the analysis and synthesis filter banks of an orthogonal
// wavelet. Every registered kernel is derived from its scaling filter
// through the quadrature mirror construction, which gives the banks the
// power complementarity that Inverse relies on for perfect reconstruction.
type Kernel struct {
	name    string
	decLow  []float64 // analysis low-pass
	decHigh []float64 // analysis high-pass
	recLow  []float64 // synthesis low-pass
	recHigh []float64 // synthesis high-pass
}

// Name returns the primary registered name
func (k *Kernel) Name() string { return k.name }

// Len returns the filter length
func (k *Kernel) Len() int { return len(k.decLow) }

// newOrthogonalKernel derives all four banks from the analysis low-pass
// filter:
//
//	recLow[i]  = decLow[n-1-i]
//	recHigh[i] = (-1)^i * decLow[i]
//	decHigh[i] = recHigh[n-1-i]
func newOrthogonalKernel(name string, decLow []float64) *Kernel {
	n := len(decLow)
	k := &Kernel{
		name:    name,
		decLow:  decLow,
		decHigh: make([]float64, n),
		recLow:  make([]float64, n),
		recHigh: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		k.recLow[i] = decLow[n-1-i]
		if i%2 == 0 {
			k.recHigh[i] = decLow[i]
		} else {
			k.recHigh[i] = -decLow[i]
		}
	}
	for i := 0; i < n; i++ {
		k.decHigh[i] = k.recHigh[n-1-i]
	}
	return k
}

// Analysis low-pass filters in the PyWavelets convention (reversed scaling
// filter; each sums to sqrt 2). Values match PyWavelets to full double
// precision so decompositions agree with pywt.swt.
func init() {
	Register(newOrthogonalKernel("haar", []float64{
		0.7071067811865476, 0.7071067811865476,
	}), "db1")
	Register(newOrthogonalKernel("db2", []float64{
		-0.12940952255092145, 0.22414386804185735, 0.8365163037378079,
		0.48296291314469025,
	}))
	Register(newOrthogonalKernel("db3", []float64{
		0.035226291882100656, -0.08544127388224149, -0.13501102001039084,
		0.4598775021193313, 0.8068915093133388, 0.3326705529509569,
	}))
	Register(newOrthogonalKernel("db4", []float64{
		-0.010597401784997278, 0.032883011666982945, 0.030841381835986965,
		-0.18703481171888114, -0.02798376941698385, 0.6308807679295904,
		0.7148465705525415, 0.23037781330885523,
	}))
	Register(newOrthogonalKernel("sym4", []float64{
		-0.07576571478927333, -0.02963552764599851, 0.49761866763201545,
		0.8037387518059161, 0.29785779560527736, -0.09921954357684722,
		-0.012603967262037833, 0.0322231006040427,
	}))
	Register(newOrthogonalKernel("sym5", []float64{
		0.027333068345077982, 0.029519490925774643, -0.039134249302383094,
		0.1993975339773936, 0.7234076904024206, 0.6339789634582119,
		0.01660210576452232, -0.17532808990845047, -0.021101834024758855,
		0.019538882735286728,
	}))
	Register(newOrthogonalKernel("coif1", []float64{
		-0.01565572813546454, -0.0727326195128539, 0.38486484686420286,
		0.8525720202122554, 0.3378976624578092, -0.0727326195128539,
	}))
	Register(newOrthogonalKernel("coif2", []float64{
		-0.0007205494453645122, -0.0018232088707029932, 0.0056114348193944995,
		0.023680171946334084, -0.0594344186464569, -0.0764885990783064,
		0.41700518442169254, 0.8127236354455423, 0.3861100668211622,
		-0.06737255472196302, -0.04146493678175915, 0.016387336463522112,
	}))
}
