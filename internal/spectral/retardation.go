// Package spectral computes wavelength-dependent retardation and the
// interference colors a birefringent sample shows between polarizers. It
// covers both the quick three-wavelength RGB estimate used while dragging a
// slider and the full CIE integration used for the reference view.
package spectral

import "math"

// Stage describes the polariscope around the sample: the entry polarizer,
// the sample's fast axis, and the analyzer, all in degrees.
type Stage struct {
	PolarizerDeg float64 `json:"polarizerDeg"`
	FastAxisDeg  float64 `json:"fastAxisDeg"`
	AnalyzerDeg  float64 `json:"analyzerDeg"`
}

// CrossedStage is the classic dark-field arrangement: crossed polarizers
// with the sample at 45°, where retardation shows up at full contrast.
func CrossedStage() Stage {
	return Stage{PolarizerDeg: 0, FastAxisDeg: 45, AnalyzerDeg: 90}
}

// ParallelStage is the complementary bright-field arrangement.
func ParallelStage() Stage {
	return Stage{PolarizerDeg: 0, FastAxisDeg: 45, AnalyzerDeg: 0}
}

// OPDNm returns the optical path difference in nanometers for a sample of
// the given thickness (µm) and birefringence. The sign of the birefringence
// only selects the fast axis, so the magnitude is used.
func OPDNm(thicknessUm, deltaN float64) float64 {
	return thicknessUm * 1000 * math.Abs(deltaN)
}

// InterferenceOrder expresses an optical path difference in fringe orders,
// counted at the conventional 550 nm reference.
func InterferenceOrder(opdNm float64) float64 {
	return opdNm / 550
}

// RetardationDeg returns the phase retardation in degrees that a sample of
// the given thickness (µm) and birefringence imposes at one wavelength.
func RetardationDeg(thicknessUm, deltaN, wavelengthNm float64) float64 {
	return 360 * OPDNm(thicknessUm, deltaN) / wavelengthNm
}

// Transmission returns the fraction of light a polarizer/sample/analyzer
// train passes for the given retardation:
//
//	T = cos²(a-p) - sin(2(f-p))·sin(2(f-a))·sin²(δ/2)
//
// With δ=0 this reduces to Malus' law between the two polarizers.
func Transmission(stage Stage, retardationDeg float64) float64 {
	p := stage.PolarizerDeg * math.Pi / 180
	f := stage.FastAxisDeg * math.Pi / 180
	a := stage.AnalyzerDeg * math.Pi / 180
	half := retardationDeg / 2 * math.Pi / 180

	cos := math.Cos(a - p)
	sinHalf := math.Sin(half)
	return cos*cos - math.Sin(2*(f-p))*math.Sin(2*(f-a))*sinHalf*sinHalf
}
