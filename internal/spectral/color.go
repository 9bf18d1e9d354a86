package spectral

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/floats"
)

// fastWavelengthsNm are the three probe wavelengths of the quick color mode,
// mapped straight onto the R, G and B channels.
var fastWavelengthsNm = [3]float64{650, 550, 450}

// ColorResult pairs the perceived interference color with the overall
// transmitted intensity, as a fraction of the incident light.
type ColorResult struct {
	Color     colorful.Color
	Intensity float64
}

// Hex returns the sRGB hex code of the color.
func (r ColorResult) Hex() string { return r.Color.Hex() }

// SolveRGB estimates the interference color by sampling the transmission at
// one red, one green and one blue wavelength. Cheap enough for every frame
// of a thickness drag; hues between the probes are approximate. Intensity is
// the mean transmission of the three probes.
func SolveRGB(thicknessUm, deltaN float64, stage Stage) ColorResult {
	var ch [3]float64
	for i, w := range fastWavelengthsNm {
		ch[i] = clampUnit(Transmission(stage, RetardationDeg(thicknessUm, deltaN, w)))
	}
	return ColorResult{
		Color:     colorful.LinearRgb(ch[0], ch[1], ch[2]).Clamped(),
		Intensity: (ch[0] + ch[1] + ch[2]) / 3,
	}
}

// SolveRGBHighPrecision integrates the transmitted spectrum against the CIE
// 1931 color matching functions under an equal-energy illuminant and maps
// the result through sRGB. This is the Michel-Lévy reference rendering.
// Intensity is the relative luminance Y of the transmitted spectrum.
func SolveRGBHighPrecision(thicknessUm, deltaN float64, stage Stage) ColorResult {
	wavelengths, transmission := VisibleSpectrum(thicknessUm, deltaN, stage)

	n := len(wavelengths)
	xs := make([]float64, n)
	ys := make([]float64, n)
	zs := make([]float64, n)
	norm := make([]float64, n)
	for i, w := range wavelengths {
		t := clampUnit(transmission[i])
		xs[i] = t * cmfX(w)
		ys[i] = t * cmfY(w)
		zs[i] = t * cmfZ(w)
		norm[i] = cmfY(w)
	}

	yTotal := floats.Sum(norm)
	if yTotal == 0 {
		return ColorResult{}
	}
	x := floats.Sum(xs) / yTotal
	y := floats.Sum(ys) / yTotal
	z := floats.Sum(zs) / yTotal
	return ColorResult{
		Color:     colorful.Xyz(x, y, z).Clamped(),
		Intensity: y,
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// The CIE 1931 2° observer, as the piecewise-Gaussian fit by Wyman, Sloan
// and Shirley (JCGT 2013). Plenty for a display color.
func cmfGauss(w, mu, sigmaLo, sigmaHi float64) float64 {
	sigma := sigmaLo
	if w >= mu {
		sigma = sigmaHi
	}
	t := (w - mu) / sigma
	return math.Exp(-0.5 * t * t)
}

func cmfX(w float64) float64 {
	return 1.056*cmfGauss(w, 599.8, 37.9, 31.0) +
		0.362*cmfGauss(w, 442.0, 16.0, 26.7) -
		0.065*cmfGauss(w, 501.1, 20.4, 26.2)
}

func cmfY(w float64) float64 {
	return 0.821*cmfGauss(w, 568.8, 46.9, 40.5) +
		0.286*cmfGauss(w, 530.9, 16.3, 31.1)
}

func cmfZ(w float64) float64 {
	return 1.217*cmfGauss(w, 437.0, 11.8, 36.0) +
		0.681*cmfGauss(w, 459.0, 26.0, 13.8)
}
