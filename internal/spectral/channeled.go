package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

const (
	resampleCount     = 512
	paddedCount       = 4096
	minChannelSamples = 16
)

// EstimateOPD recovers the optical path difference, in nanometers, from a
// measured channeled spectrum. A retarder between crossed polarizers passes
// T(σ) ≈ ½(1-cos(2π·OPD·σ)) in wavenumber σ=1/λ, so the fringe spacing is a
// single tone whose frequency is the OPD: the spectrum is resampled onto a
// uniform wavenumber grid and the dominant FFT peak is located, refined by
// parabolic interpolation.
//
// Wavelengths must be strictly monotonic; at least minChannelSamples points
// spanning more than one fringe are needed for a usable peak.
func EstimateOPD(wavelengthsNm, transmission []float64) (float64, error) {
	if len(wavelengthsNm) != len(transmission) {
		return 0, fmt.Errorf("wavelengths and transmission differ in length: %d vs %d",
			len(wavelengthsNm), len(transmission))
	}
	if len(wavelengthsNm) < minChannelSamples {
		return 0, fmt.Errorf("need at least %d spectrum samples, got %d", minChannelSamples, len(wavelengthsNm))
	}

	sigma, values, err := toWavenumbers(wavelengthsNm, transmission)
	if err != nil {
		return 0, err
	}

	grid := floats.Span(make([]float64, resampleCount), sigma[0], sigma[len(sigma)-1])
	signal := make([]float64, paddedCount)
	resampleLinear(sigma, values, grid, signal[:resampleCount])

	mean := floats.Sum(signal[:resampleCount]) / resampleCount
	for i := 0; i < resampleCount; i++ {
		signal[i] -= mean
	}

	spectrum := fft.FFTReal(signal)
	peak, magnitude := dominantBin(spectrum)
	if magnitude <= 1e-9*resampleCount {
		return 0, fmt.Errorf("no interference fringes in the spectrum")
	}

	deltaSigma := (grid[len(grid)-1] - grid[0]) / (resampleCount - 1)
	return peak / (paddedCount * deltaSigma), nil
}

// toWavenumbers converts a monotonic wavelength grid into an ascending
// wavenumber grid with its values.
func toWavenumbers(wavelengthsNm, transmission []float64) (sigma, values []float64, err error) {
	n := len(wavelengthsNm)
	sigma = make([]float64, n)
	values = make([]float64, n)

	ascending := wavelengthsNm[0] < wavelengthsNm[n-1]
	for i := 0; i < n; i++ {
		src := i
		if ascending {
			// Ascending wavelength means descending wavenumber; flip.
			src = n - 1 - i
		}
		w := wavelengthsNm[src]
		if w <= 0 {
			return nil, nil, fmt.Errorf("non-positive wavelength %g", w)
		}
		sigma[i] = 1 / w
		values[i] = transmission[src]
	}
	for i := 1; i < n; i++ {
		if sigma[i] <= sigma[i-1] {
			return nil, nil, fmt.Errorf("wavelengths are not strictly monotonic")
		}
	}
	return sigma, values, nil
}

// resampleLinear interpolates (xs, ys) onto the target grid. Grid points are
// within [xs[0], xs[last]] by construction.
func resampleLinear(xs, ys, grid, out []float64) {
	j := 0
	for i, x := range grid {
		for j < len(xs)-2 && xs[j+1] < x {
			j++
		}
		span := xs[j+1] - xs[j]
		frac := (x - xs[j]) / span
		out[i] = ys[j] + frac*(ys[j+1]-ys[j])
	}
}

// dominantBin returns the interpolated position and magnitude of the largest
// non-DC peak in the first half of the spectrum.
func dominantBin(spectrum []complex128) (float64, float64) {
	best := 1
	bestMag := 0.0
	for k := 1; k <= len(spectrum)/2; k++ {
		if m := cmplx.Abs(spectrum[k]); m > bestMag {
			best = k
			bestMag = m
		}
	}

	pos := float64(best)
	if best > 1 && best < len(spectrum)/2 {
		m0 := cmplx.Abs(spectrum[best-1])
		m2 := cmplx.Abs(spectrum[best+1])
		denom := m0 - 2*bestMag + m2
		if math.Abs(denom) > 1e-12 {
			shift := 0.5 * (m0 - m2) / denom
			if shift > 0.5 {
				shift = 0.5
			}
			if shift < -0.5 {
				shift = -0.5
			}
			pos += shift
		}
	}
	return pos, bestMag
}
