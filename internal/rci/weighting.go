// Package rci computes the Ride Comfort Index of raw accelerometer windows.
//
// Each window holds X, Y and Z acceleration samples in g taken at
// SampleRate. Every axis is frequency weighted after ISO 2631-1, the 95th
// percentile of the weighted magnitude is taken per axis, and the index is
// the scaled vector sum of the three percentiles.
package rci

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// SampleRate is the accelerometer sampling rate in Hz
const SampleRate = 1000.0

// WeightFunc returns the gain applied at a frequency in Hz
type WeightFunc func(freq float64) float64

// WeightWk is the ISO 2631-1 Wk weighting for vertical vibration, as a
// piecewise-linear approximation: 0 below 0.4 Hz, rising 0.4·f up to 2 Hz,
// 1 up to 100 Hz and 0 above.
func WeightWk(freq float64) float64 {
	switch {
	case freq < 0.4:
		return 0
	case freq <= 2:
		return 0.4 * freq
	case freq <= 100:
		return 1
	default:
		return 0
	}
}

// WeightWd is the ISO 2631-1 Wd weighting for horizontal vibration. It uses
// the same approximation as WeightWk.
func WeightWd(freq float64) float64 {
	return WeightWk(freq)
}

// fftFreq returns the signed frequency in Hz of coefficient i of an n-point
// transform
func fftFreq(i, n int, sampleRate float64) float64 {
	if i < (n+1)/2 {
		return float64(i) * sampleRate / float64(n)
	}
	return float64(i-n) * sampleRate / float64(n)
}

// Weighted applies weight to samples in the frequency domain and returns the
// magnitude of the weighted signal in the time domain
func Weighted(samples []float64, sampleRate float64, weight WeightFunc) []float64 {
	n := len(samples)
	if n == 0 {
		return nil
	}

	seq := make([]complex128, n)
	for i, v := range samples {
		seq[i] = complex(v, 0)
	}

	fft := fourier.NewCmplxFFT(n)
	coeff := fft.Coefficients(nil, seq)
	for i := range coeff {
		coeff[i] *= complex(weight(math.Abs(fftFreq(i, n, sampleRate))), 0)
	}

	// Sequence is unnormalised
	out := fft.Sequence(nil, coeff)
	magnitude := make([]float64, n)
	for i, c := range out {
		magnitude[i] = cmplx.Abs(c) / float64(n)
	}
	return magnitude
}
