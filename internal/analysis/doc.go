// Package analysis provides spectral diagnostics over a finished
// Process output buffer.
//
//   - [PowerSpectrum]: magnitude spectrum via FFT, zero-padded to a power of two
//   - [DominantFrequency]: frequency of the largest non-DC bin
//   - [CutoffFrequency]: -3dB rolloff point of a low-pass buffer
//   - [THD]: total harmonic distortion relative to a known fundamental
//
// # Characterizing a filter
//
//	cutoff := analysis.CutoffFrequency(vout, sampleRate)
//	thd := analysis.THD(vout, sampleRate, fundamentalHz)
package analysis
