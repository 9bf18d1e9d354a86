package widgets

import (
	"fmt"
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolarBench/internal/engine"
	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/spectral"
)

// Component colors keyed by kind for visual distinction on the bench.
var kindColors = map[model.Kind]color.NRGBA{
	model.KindEmitter:            {R: 244, G: 67, B: 54, A: 230},   // red
	model.KindPolarizer:          {R: 33, G: 150, B: 243, A: 230},  // blue
	model.KindMirror:             {R: 189, G: 189, B: 189, A: 230}, // silver
	model.KindSplitter:           {R: 156, G: 39, B: 176, A: 230},  // purple
	model.KindRotator:            {R: 0, G: 188, B: 212, A: 230},   // cyan
	model.KindQuarterWavePlate:   {R: 255, G: 193, B: 7, A: 230},   // amber
	model.KindHalfWavePlate:      {R: 255, G: 152, B: 0, A: 230},   // orange
	model.KindPhaseShifter:       {R: 121, G: 85, B: 72, A: 230},   // brown
	model.KindCircularFilter:     {R: 233, G: 30, B: 99, A: 230},   // pink
	model.KindBeamCombiner:       {R: 103, G: 58, B: 183, A: 230},  // deep purple
	model.KindIsolator:           {R: 96, G: 125, B: 139, A: 230},  // blue grey
	model.KindSensor:             {R: 76, G: 175, B: 80, A: 230},   // green
	model.KindCoincidenceCounter: {R: 139, G: 195, B: 74, A: 230},  // light green
}

// kindGlyphs are the short codes drawn next to component circles.
var kindGlyphs = map[model.Kind]string{
	model.KindEmitter:            "EM",
	model.KindPolarizer:          "POL",
	model.KindMirror:             "MIR",
	model.KindSplitter:           "BS",
	model.KindRotator:            "ROT",
	model.KindQuarterWavePlate:   "QWP",
	model.KindHalfWavePlate:      "HWP",
	model.KindPhaseShifter:       "PH",
	model.KindCircularFilter:     "CF",
	model.KindBeamCombiner:       "BC",
	model.KindIsolator:           "ISO",
	model.KindSensor:             "SEN",
	model.KindCoincidenceCounter: "CC",
}

// orientedKinds have a meaningful axis angle drawn as a tick through the circle.
var orientedKinds = map[model.Kind]bool{
	model.KindPolarizer:        true,
	model.KindMirror:           true,
	model.KindSplitter:         true,
	model.KindRotator:          true,
	model.KindQuarterWavePlate: true,
	model.KindHalfWavePlate:    true,
	model.KindPhaseShifter:     true,
	model.KindIsolator:         true,
}

// BenchCanvas renders a bench layout with its traced beams. Bench
// coordinates grow upward, canvas coordinates grow downward, so all
// positions are flipped vertically.
type BenchCanvas struct {
	widget.BaseWidget
	spec      level.BoardSpec
	trace     *engine.TraceResult
	maxWidth  float32
	maxHeight float32
}

func NewBenchCanvas(spec level.BoardSpec, trace *engine.TraceResult, maxW, maxH float32) *BenchCanvas {
	bc := &BenchCanvas{
		spec:      spec,
		trace:     trace,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	bc.ExtendBaseWidget(bc)
	return bc
}

func (bc *BenchCanvas) CreateRenderer() fyne.WidgetRenderer {
	return newBenchCanvasRenderer(bc)
}

type benchCanvasRenderer struct {
	bc      *BenchCanvas
	objects []fyne.CanvasObject
}

func newBenchCanvasRenderer(bc *BenchCanvas) *benchCanvasRenderer {
	r := &benchCanvasRenderer{bc: bc}
	r.rebuild()
	return r
}

func (r *benchCanvasRenderer) boardSize() (float32, float32) {
	w := float32(r.bc.spec.Width)
	h := float32(r.bc.spec.Height)
	if w <= 0 {
		w = float32(model.DefaultBoardSize)
	}
	if h <= 0 {
		h = float32(model.DefaultBoardSize)
	}
	return w, h
}

func (r *benchCanvasRenderer) scale() float32 {
	boardW, boardH := r.boardSize()
	scaleX := r.bc.maxWidth / boardW
	scaleY := r.bc.maxHeight / boardH
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	if scale <= 0 {
		scale = 1
	}
	return scale
}

func (r *benchCanvasRenderer) rebuild() {
	r.objects = nil

	boardW, boardH := r.boardSize()
	scale := r.scale()
	canvasW := boardW * scale
	canvasH := boardH * scale

	// point maps bench coordinates onto the canvas, flipping y.
	point := func(x, y float64) (float32, float32) {
		return float32(x) * scale, canvasH - float32(y)*scale
	}

	// Bench background
	bg := canvas.NewRectangle(color.NRGBA{R: 30, G: 30, B: 38, A: 255})
	bg.Resize(fyne.NewSize(canvasW, canvasH))
	bg.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, bg)

	// Bench border
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	border.StrokeWidth = 2
	border.Resize(fyne.NewSize(canvasW, canvasH))
	border.Move(fyne.NewPos(0, 0))
	r.objects = append(r.objects, border)

	// Traced beams, colored by wavelength, line width and opacity following
	// the remaining intensity.
	if r.bc.trace != nil {
		for _, b := range r.bc.trace.Beams {
			red, green, blue := spectral.WavelengthColor(b.WavelengthNm).RGB255()
			alpha := uint8(60 + 1.95*b.IntensityPct())

			line := canvas.NewLine(color.NRGBA{R: red, G: green, B: blue, A: alpha})
			line.StrokeWidth = float32(1 + 2*b.IntensityPct()/100)
			x1, y1 := point(b.FromX, b.FromY)
			x2, y2 := point(b.ToX, b.ToY)
			line.Position1 = fyne.NewPos(x1, y1)
			line.Position2 = fyne.NewPos(x2, y2)
			r.objects = append(r.objects, line)
		}
	}

	radius := float32(math.Max(6, float64(2.5*scale)))

	for _, s := range r.bc.spec.Components {
		cx, cy := point(s.X, s.Y)
		col, ok := kindColors[s.Kind]
		if !ok {
			col = color.NRGBA{R: 120, G: 120, B: 120, A: 230}
		}

		// Detector activation ring
		if state, active := r.detectorState(s.ID); active {
			ringCol := color.NRGBA{R: 244, G: 67, B: 54, A: 200}
			if state.Activated {
				ringCol = color.NRGBA{R: 76, G: 255, B: 80, A: 220}
			}
			ring := canvas.NewCircle(color.Transparent)
			ring.StrokeColor = ringCol
			ring.StrokeWidth = 2
			ring.Resize(fyne.NewSize(2*(radius+3), 2*(radius+3)))
			ring.Move(fyne.NewPos(cx-radius-3, cy-radius-3))
			r.objects = append(r.objects, ring)
		}

		circle := canvas.NewCircle(col)
		circle.Resize(fyne.NewSize(2*radius, 2*radius))
		circle.Move(fyne.NewPos(cx-radius, cy-radius))
		r.objects = append(r.objects, circle)

		// Axis tick for oriented components; the canvas flip negates the angle.
		if orientedKinds[s.Kind] {
			rad := s.AngleDeg * math.Pi / 180
			dx := float32(math.Cos(rad)) * radius
			dy := -float32(math.Sin(rad)) * radius
			tick := canvas.NewLine(color.NRGBA{R: 255, G: 255, B: 255, A: 230})
			tick.StrokeWidth = 2
			tick.Position1 = fyne.NewPos(cx-dx, cy-dy)
			tick.Position2 = fyne.NewPos(cx+dx, cy+dy)
			r.objects = append(r.objects, tick)
		}

		glyph := canvas.NewText(kindGlyphs[s.Kind], color.White)
		glyph.TextSize = 9
		glyph.TextStyle = fyne.TextStyle{Bold: true}
		glyph.Move(fyne.NewPos(cx+radius+2, cy-radius))
		r.objects = append(r.objects, glyph)

		id := canvas.NewText(s.ID, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
		id.TextSize = 8
		id.Move(fyne.NewPos(cx+radius+2, cy))
		r.objects = append(r.objects, id)
	}
}

// detectorState looks up a component's sensor reading; ok is false for
// non-detector components.
func (r *benchCanvasRenderer) detectorState(id string) (model.SensorState, bool) {
	if r.bc.trace == nil {
		return model.SensorState{}, false
	}
	state, ok := r.bc.trace.Sensors[id]
	return state, ok
}

func (r *benchCanvasRenderer) Layout(size fyne.Size)        {}
func (r *benchCanvasRenderer) Refresh()                     { r.rebuild() }
func (r *benchCanvasRenderer) Destroy()                     {}
func (r *benchCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *benchCanvasRenderer) MinSize() fyne.Size {
	boardW, boardH := r.boardSize()
	scale := r.scale()
	return fyne.NewSize(boardW*scale, boardH*scale)
}

// RenderBenchView creates the full bench panel: the canvas plus a trace
// summary line and the power budget.
func RenderBenchView(spec level.BoardSpec, trace *engine.TraceResult, budget engine.PowerBudget) fyne.CanvasObject {
	if len(spec.Components) == 0 {
		return widget.NewLabel("Empty bench. Add components or load a level to begin.")
	}

	var items []fyne.CanvasObject

	benchCanvas := NewBenchCanvas(spec, trace, 700, 500)
	items = append(items, benchCanvas)

	if trace != nil {
		active := 0
		for _, s := range trace.Sensors {
			if s.Activated {
				active++
			}
		}
		summary := widget.NewLabel(fmt.Sprintf(
			"%d beam segments — %d/%d detectors active — %d beams spawned",
			len(trace.Beams), active, len(trace.Sensors), trace.BeamsCreated,
		))
		summary.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, summary)

		power := widget.NewLabel(fmt.Sprintf(
			"Power: %.1f%% emitted | %.1f%% detected | %.1f%% exited | %.1f%% absorbed",
			budget.EmittedPct, budget.DetectedPct, budget.ExitedPct, budget.BlockedPct,
		))
		items = append(items, power)

		if trace.GuardTerminated > 0 {
			warning := widget.NewLabel(fmt.Sprintf(
				"WARNING: %d beams lost to the propagation guard (looping bench?)",
				trace.GuardTerminated,
			))
			warning.Importance = widget.DangerImportance
			items = append(items, warning)
		}
	}

	return container.NewVScroll(container.NewVBox(items...))
}
