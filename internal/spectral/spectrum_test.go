package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleSpectrum(t *testing.T) {
	wavelengths, transmission := VisibleSpectrum(1, 0.55, CrossedStage())

	assert.Len(t, wavelengths, DefaultSamples)
	assert.Len(t, transmission, DefaultSamples)
	assert.InDelta(t, VisibleMinNm, wavelengths[0], 1e-9)
	assert.InDelta(t, VisibleMaxNm, wavelengths[len(wavelengths)-1], 1e-9)
	assert.InDelta(t, 385, wavelengths[1], 1e-9, "81 samples give a 5 nm grid")

	for _, i := range []int{0, 34, 80} {
		want := Transmission(CrossedStage(), RetardationDeg(1, 0.55, wavelengths[i]))
		assert.InDelta(t, want, transmission[i], 1e-12)
	}
}

func TestSampleSpectrum_CountFallback(t *testing.T) {
	wavelengths, _ := SampleSpectrum(1, 0.55, CrossedStage(), VisibleMinNm, VisibleMaxNm, 1)
	assert.Len(t, wavelengths, DefaultSamples)

	wavelengths, _ = SampleSpectrum(1, 0.55, CrossedStage(), VisibleMinNm, VisibleMaxNm, 2)
	assert.Equal(t, []float64{VisibleMinNm, VisibleMaxNm}, wavelengths)
}
