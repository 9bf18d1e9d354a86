package spectral

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// blueReferenceNm anchors the relative scattering scale at a typical
// sky-blue wavelength.
const blueReferenceNm = 450.0

// RelativeScattering returns the Rayleigh scattering strength of a
// wavelength relative to 450 nm: the famous 1/λ⁴ law that makes the sky
// blue and sunsets red.
func RelativeScattering(wavelengthNm float64) float64 {
	r := blueReferenceNm / wavelengthNm
	return r * r * r * r
}

// WavelengthColor approximates the display color of monochromatic light,
// with intensity rolled off toward the invisible ends of the spectrum.
// Wavelengths outside 380-750 nm return black.
func WavelengthColor(wavelengthNm float64) colorful.Color {
	w := wavelengthNm
	var r, g, b float64
	switch {
	case w >= 380 && w < 440:
		r = -(w - 440) / (440 - 380)
		b = 1
	case w >= 440 && w < 490:
		g = (w - 440) / (490 - 440)
		b = 1
	case w >= 490 && w < 510:
		g = 1
		b = -(w - 510) / (510 - 490)
	case w >= 510 && w < 580:
		r = (w - 510) / (580 - 510)
		g = 1
	case w >= 580 && w < 645:
		r = 1
		g = -(w - 645) / (645 - 580)
	case w >= 645 && w <= 750:
		r = 1
	default:
		return colorful.Color{}
	}

	intensity := 1.0
	switch {
	case w < 420:
		intensity = 0.3 + 0.7*(w-380)/(420-380)
	case w > 700:
		intensity = 0.3 + 0.7*(750-w)/(750-700)
	}

	const gamma = 0.8
	shade := func(c float64) float64 {
		if c == 0 {
			return 0
		}
		return math.Pow(intensity*c, gamma)
	}
	return colorful.Color{R: shade(r), G: shade(g), B: shade(b)}
}
