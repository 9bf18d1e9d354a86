package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolarBench/internal/optics"
	"github.com/piwi3910/PolarBench/internal/spectral"
	"github.com/piwi3910/PolarBench/internal/ui/widgets"
)

// Series colors for the classic-optics demo charts.
var (
	colorSeriesS   = color.NRGBA{R: 80, G: 160, B: 255, A: 255}
	colorSeriesP   = color.NRGBA{R: 255, G: 140, B: 70, A: 255}
	colorSeriesAvg = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
)

// interfacePair names one medium boundary for the reflection demo.
type interfacePair struct {
	name   string
	n1, n2 float64
}

var interfacePairs = []interfacePair{
	{"Air to Glass", optics.IndexAir, optics.IndexGlass},
	{"Air to Water", optics.IndexAir, optics.IndexWater},
	{"Air to Diamond", optics.IndexAir, optics.IndexDiamond},
	{"Glass to Air", optics.IndexGlass, optics.IndexAir},
	{"Water to Air", optics.IndexWater, optics.IndexAir},
}

// fresnelCurves samples Rs, Rp and the unpolarized reflectance over the full
// incidence range and marks the Brewster and, when present, critical angle.
func fresnelCurves(n1, n2 float64) ([]float64, []widgets.CurveSeries, []widgets.CurveMarker) {
	const samples = 181
	xs := make([]float64, samples)
	rs := make([]float64, samples)
	rp := make([]float64, samples)
	avg := make([]float64, samples)
	for i := 0; i < samples; i++ {
		deg := float64(i) * 90 / (samples - 1)
		f := optics.Fresnel(n1, n2, deg)
		xs[i] = deg
		rs[i] = f.ReflectanceS
		rp[i] = f.ReflectanceP
		avg[i] = f.Reflectance()
	}

	series := []widgets.CurveSeries{
		{Name: "Rs", Color: colorSeriesS, Ys: rs},
		{Name: "Rp", Color: colorSeriesP, Ys: rp},
		{Name: "R", Color: colorSeriesAvg, Ys: avg},
	}
	markers := []widgets.CurveMarker{
		{X: optics.BrewsterAngle(n1, n2), Label: "Brewster"},
	}
	if crit, ok := optics.CriticalAngle(n1, n2); ok {
		markers = append(markers, widgets.CurveMarker{X: crit, Label: "critical"})
	}
	return xs, series, markers
}

func fresnelCaption(n1, n2 float64) string {
	s := fmt.Sprintf("n₁ = %.3f, n₂ = %.3f, Brewster %.1f°", n1, n2, optics.BrewsterAngle(n1, n2))
	if crit, ok := optics.CriticalAngle(n1, n2); ok {
		s += fmt.Sprintf(", critical %.1f°", crit)
	}
	return s
}

func (a *App) buildFresnelCard() fyne.CanvasObject {
	pair := interfacePairs[0]
	xs, series, markers := fresnelCurves(pair.n1, pair.n2)
	chart := widgets.NewCurveChart(xs, series, "°", 640, 220)
	chart.SetData(xs, series, markers)
	caption := widget.NewLabel(fresnelCaption(pair.n1, pair.n2))

	names := make([]string, len(interfacePairs))
	for i, p := range interfacePairs {
		names[i] = p.name
	}
	pairSelect := widget.NewSelect(names, func(name string) {
		for _, p := range interfacePairs {
			if p.name == name {
				pair = p
				break
			}
		}
		xs, series, markers := fresnelCurves(pair.n1, pair.n2)
		chart.SetData(xs, series, markers)
		caption.SetText(fresnelCaption(pair.n1, pair.n2))
	})
	pairSelect.SetSelected(pair.name)

	return widget.NewCard("Reflection at an Interface", "Fresnel reflectance against angle of incidence",
		container.NewVBox(pairSelect, chart, caption))
}

// analyzerSweep samples the intensity behind an analyzer as its axis rotates
// through 180°, for plane-polarized light whose plane was rotated by a chiral
// solution. Malus' law peaks where the analyzer meets the rotated plane.
func analyzerSweep(rotationDeg float64) ([]float64, []widgets.CurveSeries) {
	const samples = 181
	xs := make([]float64, samples)
	ys := make([]float64, samples)
	for i := 0; i < samples; i++ {
		deg := float64(i)
		xs[i] = deg
		ys[i] = optics.MalusIntensity(1, deg-rotationDeg)
	}
	return xs, []widgets.CurveSeries{{Name: "I/I₀", Color: colorSeriesP, Ys: ys}}
}

func (a *App) buildRotationCard() fyne.CanvasObject {
	substance := optics.Substances[0]
	pathDm := 1.0
	concentration := 0.2

	chart := widgets.NewCurveChart(nil, nil, "°", 640, 220)
	caption := widget.NewLabel("")

	update := func() {
		alpha := optics.RotationAngle(substance.SpecificRotation, pathDm, concentration)
		xs, series := analyzerSweep(alpha)
		markers := []widgets.CurveMarker{{X: optics.RotatedAxis(0, alpha), Label: "max"}}
		chart.SetData(xs, series, markers)
		caption.SetText(fmt.Sprintf("α = %.1f°, analyzer null at %.1f°",
			alpha, optics.RotatedAxis(0, alpha+90)))
	}

	names := make([]string, len(optics.Substances))
	for i, s := range optics.Substances {
		names[i] = s.Name
	}
	substanceSelect := widget.NewSelect(names, func(name string) {
		substance = optics.GetSubstance(name)
		update()
	})

	pathLabel := widget.NewLabel(fmt.Sprintf("%.1f dm", pathDm))
	pathSlider := widget.NewSlider(0.5, 5)
	pathSlider.Step = 0.5
	pathSlider.SetValue(pathDm)
	pathSlider.OnChanged = func(v float64) {
		pathDm = v
		pathLabel.SetText(fmt.Sprintf("%.1f dm", v))
		update()
	}

	concLabel := widget.NewLabel(fmt.Sprintf("%.2f g/mL", concentration))
	concSlider := widget.NewSlider(0.01, 1)
	concSlider.Step = 0.01
	concSlider.SetValue(concentration)
	concSlider.OnChanged = func(v float64) {
		concentration = v
		concLabel.SetText(fmt.Sprintf("%.2f g/mL", v))
		update()
	}

	substanceSelect.SetSelected(substance.Name)
	update()

	controls := container.NewGridWithColumns(2,
		widget.NewLabel("Substance"), substanceSelect,
		widget.NewLabel("Path length"), container.NewBorder(nil, nil, nil, pathLabel, pathSlider),
		widget.NewLabel("Concentration"), container.NewBorder(nil, nil, nil, concLabel, concSlider),
	)
	return widget.NewCard("Optical Rotation", "Analyzer sweep behind a chiral solution",
		container.NewVBox(controls, chart, caption))
}

// scatteringSpectrum samples the Rayleigh 1/λ⁴ law across the visible band,
// normalized so the violet end plots at full scale.
func scatteringSpectrum() ([]float64, []float64) {
	const fromNm, toNm, stepNm = 380.0, 750.0, 5.0
	peak := spectral.RelativeScattering(fromNm)
	var wavelengths, strengths []float64
	for nm := fromNm; nm <= toNm; nm += stepNm {
		wavelengths = append(wavelengths, nm)
		strengths = append(strengths, spectral.RelativeScattering(nm)/peak)
	}
	return wavelengths, strengths
}

func (a *App) buildScatteringCard() fyne.CanvasObject {
	wavelengths, strengths := scatteringSpectrum()
	chart := widgets.NewSpectrumChart(wavelengths, strengths, 640, 220)
	caption := widget.NewLabel(fmt.Sprintf(
		"450 nm light scatters %.1f× more strongly than 650 nm",
		spectral.RelativeScattering(450)/spectral.RelativeScattering(650)))
	return widget.NewCard("Rayleigh Scattering", "Why the sky is blue",
		container.NewVBox(chart, caption))
}
