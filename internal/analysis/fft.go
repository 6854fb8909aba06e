package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// Spectrum is the one-sided amplitude spectrum of a sampled series.
type Spectrum struct {
	Freqs []float64 // Hz
	Power []float64
}

// NewSpectrum removes the mean, applies a Hann window and transforms the
// series sampled every dt seconds. Any length is accepted.
func NewSpectrum(series []float64, dt float64) Spectrum {
	n := len(series)
	if n < 2 || dt <= 0 {
		return Spectrum{}
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range series {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * w
	}

	ps := PowerSpectrum(windowed)
	freqs := make([]float64, len(ps))
	for k := range freqs {
		freqs[k] = float64(k) / (float64(n) * dt)
	}
	return Spectrum{Freqs: freqs, Power: ps}
}

// Peak returns the strongest non-DC bin.
func (s Spectrum) Peak() (freq, power float64) {
	for k := 1; k < len(s.Power); k++ {
		if s.Power[k] > power {
			freq, power = s.Freqs[k], s.Power[k]
		}
	}
	return freq, power
}

// DominantFrequency is the peak frequency of the series in Hz, 0 when the
// series is flat.
func DominantFrequency(series []float64, dt float64) (freq, power float64) {
	return NewSpectrum(series, dt).Peak()
}

// PowerSpectrum returns the magnitudes of the first half of the DFT.
func PowerSpectrum(data []float64) []float64 {
	bins := fft.FFTReal(data)
	ps := make([]float64, len(bins)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(bins[i])
	}

	return ps
}
