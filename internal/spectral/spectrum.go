package spectral

import "gonum.org/v1/gonum/floats"

// Visible spectrum bounds used by the sampling and CIE helpers.
const (
	VisibleMinNm = 380.0
	VisibleMaxNm = 780.0
)

// DefaultSamples is the 5 nm grid over the visible range.
const DefaultSamples = 81

// SampleSpectrum evaluates the stage transmission of a sample across an
// evenly spaced wavelength grid. It returns the grid and the transmission at
// each point; n < 2 falls back to DefaultSamples.
func SampleSpectrum(thicknessUm, deltaN float64, stage Stage, fromNm, toNm float64, n int) (wavelengths, transmission []float64) {
	if n < 2 {
		n = DefaultSamples
	}
	wavelengths = floats.Span(make([]float64, n), fromNm, toNm)
	transmission = make([]float64, n)
	for i, w := range wavelengths {
		transmission[i] = Transmission(stage, RetardationDeg(thicknessUm, deltaN, w))
	}
	return wavelengths, transmission
}

// VisibleSpectrum samples the full visible range on the default grid.
func VisibleSpectrum(thicknessUm, deltaN float64, stage Stage) (wavelengths, transmission []float64) {
	return SampleSpectrum(thicknessUm, deltaN, stage, VisibleMinNm, VisibleMaxNm, DefaultSamples)
}
