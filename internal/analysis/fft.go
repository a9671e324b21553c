package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude spectrum of a real-valued
// buffer, zero-padded to the next power of two before transforming.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	if n == 0 {
		n = 1
	}
	padded := make([]complex128, n)
	for i, v := range data {
		padded[i] = complex(v, 0)
	}
	spectrum := fft.FFT(padded)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency of the largest non-DC bin in
// data's power spectrum.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 {
		return 0
	}
	n := len(ps) * 2
	maxIdx, maxVal := 1, ps[1]
	for i := 2; i < len(ps); i++ {
		if ps[i] > maxVal {
			maxVal = ps[i]
			maxIdx = i
		}
	}
	return float64(maxIdx) * sampleRate / float64(n)
}

// CutoffFrequency estimates a low-pass filter's -3dB point by
// scanning its power spectrum for the first bin below the DC bin's
// magnitude divided by sqrt(2); it returns the Nyquist frequency when
// no bin falls below that threshold. The CLI's cutoff_hz sweep metric
// uses it to measure a filter's rolloff.
func CutoffFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) == 0 {
		return 0
	}
	n := len(ps) * 2
	threshold := ps[0] / math.Sqrt2
	for i := 1; i < len(ps); i++ {
		if ps[i] < threshold {
			return float64(i) * sampleRate / float64(n)
		}
	}
	return sampleRate / 2
}

// THD estimates total harmonic distortion at fundamentalHz: the ratio
// of the RMS sum of its harmonic bins to the fundamental bin's own
// magnitude, used to characterize a diode rectifier's output.
func THD(data []float64, sampleRate, fundamentalHz float64) float64 {
	ps := PowerSpectrum(data)
	n := len(ps) * 2
	if n == 0 {
		return 0
	}
	binHz := sampleRate / float64(n)
	fundBin := int(fundamentalHz/binHz + 0.5)
	if fundBin <= 0 || fundBin >= len(ps) || ps[fundBin] == 0 {
		return 0
	}
	var harmonicSum float64
	for h := 2; h*fundBin < len(ps); h++ {
		harmonicSum += ps[h*fundBin] * ps[h*fundBin]
	}
	return math.Sqrt(harmonicSum) / ps[fundBin]
}
