package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/piwi3910/PolarBench/internal/spectral"
)

// Chart colors.
var (
	colorChartBg   = color.NRGBA{R: 24, G: 24, B: 30, A: 255}
	colorChartAxis = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	colorChartGrid = color.NRGBA{R: 70, G: 70, B: 80, A: 160}
	colorChartText = color.NRGBA{R: 190, G: 190, B: 190, A: 255}
)

// SpectrumChart is a custom Fyne widget that plots a transmission spectrum,
// with each segment tinted the perceived color of its wavelength.
type SpectrumChart struct {
	widget.BaseWidget
	wavelengthsNm []float64
	transmission  []float64
	maxWidth      float32
	maxHeight     float32
}

// NewSpectrumChart creates a spectrum chart widget for parallel
// wavelength/transmission slices.
func NewSpectrumChart(wavelengthsNm, transmission []float64, maxW, maxH float32) *SpectrumChart {
	sc := &SpectrumChart{
		wavelengthsNm: wavelengthsNm,
		transmission:  transmission,
		maxWidth:      maxW,
		maxHeight:     maxH,
	}
	sc.ExtendBaseWidget(sc)
	return sc
}

// SetData swaps in a new spectrum and redraws.
func (sc *SpectrumChart) SetData(wavelengthsNm, transmission []float64) {
	sc.wavelengthsNm = wavelengthsNm
	sc.transmission = transmission
	sc.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (sc *SpectrumChart) CreateRenderer() fyne.WidgetRenderer {
	return newSpectrumChartRenderer(sc)
}

type spectrumChartRenderer struct {
	sc      *SpectrumChart
	objects []fyne.CanvasObject
}

func newSpectrumChartRenderer(sc *SpectrumChart) *spectrumChartRenderer {
	r := &spectrumChartRenderer{sc: sc}
	r.rebuild()
	return r
}

// Chart margins in pixels, leaving room for the axis labels.
const (
	chartMarginLeft   = float32(28)
	chartMarginBottom = float32(18)
	chartMarginTop    = float32(8)
	chartMarginRight  = float32(8)
)

func (r *spectrumChartRenderer) rebuild() {
	r.objects = nil

	sc := r.sc
	plotW := sc.maxWidth - chartMarginLeft - chartMarginRight
	plotH := sc.maxHeight - chartMarginTop - chartMarginBottom
	if plotW <= 0 || plotH <= 0 {
		return
	}

	// Plot background
	bg := canvas.NewRectangle(colorChartBg)
	bg.Resize(fyne.NewSize(plotW, plotH))
	bg.Move(fyne.NewPos(chartMarginLeft, chartMarginTop))
	r.objects = append(r.objects, bg)

	// Axis frame
	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor = colorChartAxis
	frame.StrokeWidth = 1
	frame.Resize(fyne.NewSize(plotW, plotH))
	frame.Move(fyne.NewPos(chartMarginLeft, chartMarginTop))
	r.objects = append(r.objects, frame)

	// Horizontal grid lines at 25% transmission steps with y labels
	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 1} {
		y := chartMarginTop + plotH*(1-float32(frac))
		if frac > 0 && frac < 1 {
			grid := canvas.NewLine(colorChartGrid)
			grid.StrokeWidth = 1
			grid.Position1 = fyne.NewPos(chartMarginLeft, y)
			grid.Position2 = fyne.NewPos(chartMarginLeft+plotW, y)
			r.objects = append(r.objects, grid)
		}
		label := canvas.NewText(fmt.Sprintf("%.0f", frac*100), colorChartText)
		label.TextSize = 8
		label.Move(fyne.NewPos(4, y-6))
		r.objects = append(r.objects, label)
	}

	if len(sc.wavelengthsNm) < 2 || len(sc.transmission) != len(sc.wavelengthsNm) {
		empty := canvas.NewText("no spectrum", colorChartText)
		empty.TextSize = 10
		empty.Move(fyne.NewPos(chartMarginLeft+plotW/2-30, chartMarginTop+plotH/2))
		r.objects = append(r.objects, empty)
		return
	}

	fromNm := sc.wavelengthsNm[0]
	toNm := sc.wavelengthsNm[len(sc.wavelengthsNm)-1]
	span := toNm - fromNm
	if span <= 0 {
		span = 1
	}

	toX := func(nm float64) float32 {
		return chartMarginLeft + plotW*float32((nm-fromNm)/span)
	}
	toY := func(t float64) float32 {
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		return chartMarginTop + plotH*(1-float32(t))
	}

	// Wavelength tick labels every 100 nm
	for nm := 100 * (int(fromNm)/100 + 1); float64(nm) < toNm; nm += 100 {
		x := toX(float64(nm))
		tick := canvas.NewLine(colorChartGrid)
		tick.StrokeWidth = 1
		tick.Position1 = fyne.NewPos(x, chartMarginTop)
		tick.Position2 = fyne.NewPos(x, chartMarginTop+plotH)
		r.objects = append(r.objects, tick)

		label := canvas.NewText(fmt.Sprintf("%d", nm), colorChartText)
		label.TextSize = 8
		label.Move(fyne.NewPos(x-9, chartMarginTop+plotH+3))
		r.objects = append(r.objects, label)
	}

	// Spectrum polyline, each segment tinted its wavelength color
	for i := 1; i < len(sc.wavelengthsNm); i++ {
		mid := (sc.wavelengthsNm[i-1] + sc.wavelengthsNm[i]) / 2
		red, green, blue := spectral.WavelengthColor(mid).RGB255()

		line := canvas.NewLine(color.NRGBA{R: red, G: green, B: blue, A: 255})
		line.StrokeWidth = 2
		line.Position1 = fyne.NewPos(toX(sc.wavelengthsNm[i-1]), toY(sc.transmission[i-1]))
		line.Position2 = fyne.NewPos(toX(sc.wavelengthsNm[i]), toY(sc.transmission[i]))
		r.objects = append(r.objects, line)
	}
}

func (r *spectrumChartRenderer) Layout(size fyne.Size)        {}
func (r *spectrumChartRenderer) Refresh()                     { r.rebuild() }
func (r *spectrumChartRenderer) Destroy()                     {}
func (r *spectrumChartRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *spectrumChartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.sc.maxWidth, r.sc.maxHeight)
}

// ColorSwatch renders a filled rectangle showing a computed interference
// color next to its hex code.
func ColorSwatch(c colorful.Color, size float32) fyne.CanvasObject {
	red, green, blue := c.RGB255()
	swatch := canvas.NewRectangle(color.NRGBA{R: red, G: green, B: blue, A: 255})
	swatch.SetMinSize(fyne.NewSize(size, size))

	hex := widget.NewLabel(c.Hex())
	hex.TextStyle = fyne.TextStyle{Monospace: true}

	return container.NewHBox(swatch, hex)
}

// RenderSpectrumPanel builds the complete polariscope readout for one
// sample: the visible-spectrum plot and the derived retardation figures.
func RenderSpectrumPanel(thicknessUm, deltaN float64, stage spectral.Stage) fyne.CanvasObject {
	wavelengths, transmission := spectral.VisibleSpectrum(thicknessUm, deltaN, stage)
	chart := NewSpectrumChart(wavelengths, transmission, 640, 240)

	opd := spectral.OPDNm(thicknessUm, deltaN)
	caption := widget.NewLabel(fmt.Sprintf(
		"OPD %.0f nm — order %.2f — retardation at 550 nm: %.0f°",
		opd, spectral.InterferenceOrder(opd),
		spectral.RetardationDeg(thicknessUm, deltaN, 550),
	))

	return container.NewVBox(chart, caption)
}
