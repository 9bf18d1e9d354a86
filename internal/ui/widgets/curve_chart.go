package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// CurveSeries is one named polyline on a CurveChart. Ys runs parallel to the
// chart's shared x grid and is expected in [0,1].
type CurveSeries struct {
	Name  string
	Color color.NRGBA
	Ys    []float64
}

// CurveMarker draws a labeled vertical line at one x position.
type CurveMarker struct {
	X     float64
	Label string
}

// CurveChart plots one or more normalized curves over a shared x axis. It
// backs the interface-reflection and polarimeter demos, where the y axis is
// always a power fraction.
type CurveChart struct {
	widget.BaseWidget
	xs        []float64
	series    []CurveSeries
	markers   []CurveMarker
	xUnit     string
	maxWidth  float32
	maxHeight float32
}

// NewCurveChart creates a curve chart over the shared x grid xs.
func NewCurveChart(xs []float64, series []CurveSeries, xUnit string, maxW, maxH float32) *CurveChart {
	cc := &CurveChart{
		xs:        xs,
		series:    series,
		xUnit:     xUnit,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	cc.ExtendBaseWidget(cc)
	return cc
}

// SetData swaps in new curves and markers and redraws.
func (cc *CurveChart) SetData(xs []float64, series []CurveSeries, markers []CurveMarker) {
	cc.xs = xs
	cc.series = series
	cc.markers = markers
	cc.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (cc *CurveChart) CreateRenderer() fyne.WidgetRenderer {
	return newCurveChartRenderer(cc)
}

type curveChartRenderer struct {
	cc      *CurveChart
	objects []fyne.CanvasObject
}

func newCurveChartRenderer(cc *CurveChart) *curveChartRenderer {
	r := &curveChartRenderer{cc: cc}
	r.rebuild()
	return r
}

func (r *curveChartRenderer) rebuild() {
	r.objects = nil

	cc := r.cc
	plotW := cc.maxWidth - chartMarginLeft - chartMarginRight
	plotH := cc.maxHeight - chartMarginTop - chartMarginBottom
	if plotW <= 0 || plotH <= 0 {
		return
	}

	bg := canvas.NewRectangle(colorChartBg)
	bg.Resize(fyne.NewSize(plotW, plotH))
	bg.Move(fyne.NewPos(chartMarginLeft, chartMarginTop))
	r.objects = append(r.objects, bg)

	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor = colorChartAxis
	frame.StrokeWidth = 1
	frame.Resize(fyne.NewSize(plotW, plotH))
	frame.Move(fyne.NewPos(chartMarginLeft, chartMarginTop))
	r.objects = append(r.objects, frame)

	// Horizontal grid at 25% steps with y labels
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

	if len(cc.xs) < 2 {
		empty := canvas.NewText("no data", colorChartText)
		empty.TextSize = 10
		empty.Move(fyne.NewPos(chartMarginLeft+plotW/2-20, chartMarginTop+plotH/2))
		r.objects = append(r.objects, empty)
		return
	}

	fromX := cc.xs[0]
	toXVal := cc.xs[len(cc.xs)-1]
	span := toXVal - fromX
	if span <= 0 {
		span = 1
	}

	toX := func(x float64) float32 {
		return chartMarginLeft + plotW*float32((x-fromX)/span)
	}
	toY := func(y float64) float32 {
		if y < 0 {
			y = 0
		}
		if y > 1 {
			y = 1
		}
		return chartMarginTop + plotH*(1-float32(y))
	}

	// x tick labels at quarter spans
	for _, frac := range []float64{0, 0.25, 0.5, 0.75, 1} {
		xv := fromX + span*frac
		x := toX(xv)
		if frac > 0 && frac < 1 {
			tick := canvas.NewLine(colorChartGrid)
			tick.StrokeWidth = 1
			tick.Position1 = fyne.NewPos(x, chartMarginTop)
			tick.Position2 = fyne.NewPos(x, chartMarginTop+plotH)
			r.objects = append(r.objects, tick)
		}
		label := canvas.NewText(fmt.Sprintf("%.0f%s", xv, cc.xUnit), colorChartText)
		label.TextSize = 8
		label.Move(fyne.NewPos(x-9, chartMarginTop+plotH+3))
		r.objects = append(r.objects, label)
	}

	// Labeled vertical markers
	for _, m := range cc.markers {
		if m.X < fromX || m.X > toXVal {
			continue
		}
		x := toX(m.X)
		line := canvas.NewLine(colorChartText)
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(x, chartMarginTop)
		line.Position2 = fyne.NewPos(x, chartMarginTop+plotH)
		r.objects = append(r.objects, line)

		label := canvas.NewText(m.Label, colorChartText)
		label.TextSize = 8
		label.Move(fyne.NewPos(x+2, chartMarginTop+2))
		r.objects = append(r.objects, label)
	}

	// Curves with a stacked legend in the top-right corner
	legendY := chartMarginTop + 4
	for _, s := range cc.series {
		if len(s.Ys) != len(cc.xs) {
			continue
		}
		for i := 1; i < len(cc.xs); i++ {
			line := canvas.NewLine(s.Color)
			line.StrokeWidth = 2
			line.Position1 = fyne.NewPos(toX(cc.xs[i-1]), toY(s.Ys[i-1]))
			line.Position2 = fyne.NewPos(toX(cc.xs[i]), toY(s.Ys[i]))
			r.objects = append(r.objects, line)
		}
		if s.Name != "" {
			label := canvas.NewText(s.Name, s.Color)
			label.TextSize = 9
			label.Move(fyne.NewPos(chartMarginLeft+plotW-54, legendY))
			r.objects = append(r.objects, label)
			legendY += 12
		}
	}
}

func (r *curveChartRenderer) Layout(size fyne.Size)        {}
func (r *curveChartRenderer) Refresh()                     { r.rebuild() }
func (r *curveChartRenderer) Destroy()                     {}
func (r *curveChartRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *curveChartRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.cc.maxWidth, r.cc.maxHeight)
}
