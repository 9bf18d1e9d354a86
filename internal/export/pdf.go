// Package export renders traced benches and spectral analyses to PDF,
// Excel, and DXF files, plus QR-coded bench cards for sharing layouts.
package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/PolarBench/internal/engine"
	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/optics"
	"github.com/piwi3910/PolarBench/internal/spectral"
)

// BenchReport bundles a bench layout with its traced result for export.
type BenchReport struct {
	Name  string
	Spec  level.BoardSpec
	Trace engine.TraceResult
}

// SpectralReport holds the polariscope parameters for the spectral page.
type SpectralReport struct {
	Material    spectral.Material
	ThicknessUm float64
	Crossed     bool
}

// Stage returns the polarizer arrangement the report describes.
func (r SpectralReport) Stage() spectral.Stage {
	if r.Crossed {
		return spectral.CrossedStage()
	}
	return spectral.ParallelStage()
}

// kindGlyphs are the short codes drawn inside component circles.
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

// orientedKinds have a meaningful axis angle drawn as a tick through the
// component circle.
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

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 15.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a lab report for a traced bench. The bench is
// rendered on the first page as a scaled diagram, the sensor readings on
// a results page, and, when lab is non-nil, the retarder analysis with
// its transmission spectrum on a final page.
func ExportPDF(path string, bench BenchReport, lab *SpectralReport) error {
	if len(bench.Spec.Components) == 0 {
		return fmt.Errorf("no components to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderBenchPage(pdf, bench)

	pdf.AddPage()
	renderResultsPage(pdf, bench)

	if lab != nil {
		pdf.AddPage()
		renderSpectralPage(pdf, *lab)
	}

	return pdf.OutputFileAndClose(path)
}

// boardMap scales bench coordinates onto the page. Bench y grows upward,
// page y grows downward, so the mapping flips the vertical axis.
type boardMap struct {
	scale   float64
	offsetX float64
	offsetY float64
	boardH  float64
}

func (m boardMap) point(x, y float64) (float64, float64) {
	return m.offsetX + x*m.scale, m.offsetY + (m.boardH-y)*m.scale
}

// renderBenchPage draws the bench diagram on the current PDF page.
func renderBenchPage(pdf *fpdf.Fpdf, bench BenchReport) {
	width, height := bench.Spec.Width, bench.Spec.Height
	if width <= 0 {
		width = model.DefaultBoardSize
	}
	if height <= 0 {
		height = model.DefaultBoardSize
	}

	name := bench.Name
	if name == "" {
		name = "Untitled bench"
	}

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Bench: %s (%g x %g)", name, width, height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Components: %d | Beam segments: %d | Sensors active: %d/%d",
		len(bench.Spec.Components), len(bench.Trace.Beams),
		countActiveSensors(bench.Trace), len(bench.Trace.Sensors))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Calculate drawing area
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/width, drawHeight/height)
	canvasW := width * scale
	canvasH := height * scale

	// Center the drawing horizontally
	m := boardMap{
		scale:   scale,
		offsetX: marginLeft + (drawWidth-canvasW)/2,
		offsetY: drawAreaTop,
		boardH:  height,
	}

	// Bench background
	pdf.SetFillColor(50, 50, 58)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(m.offsetX, m.offsetY, canvasW, canvasH, "FD")

	drawBeams(pdf, bench.Trace.Beams, m)
	drawComponents(pdf, bench.Spec.Components, m)
	drawDimensionAnnotations(pdf, width, height, m, canvasW, canvasH)
	drawEmitterLegend(pdf, bench, m.offsetY+canvasH+5)
}

// drawBeams renders traced beam segments colored by wavelength, with the
// line width following the remaining intensity.
func drawBeams(pdf *fpdf.Fpdf, beams []model.Beam, m boardMap) {
	for _, b := range beams {
		r, g, bl := spectral.WavelengthColor(b.WavelengthNm).RGB255()
		pdf.SetDrawColor(int(r), int(g), int(bl))
		pdf.SetLineWidth(0.2 + 0.5*b.IntensityPct()/100)

		x1, y1 := m.point(b.FromX, b.FromY)
		x2, y2 := m.point(b.ToX, b.ToY)
		pdf.Line(x1, y1, x2, y2)
	}
}

// drawComponents renders each component as a circle with its kind glyph,
// an axis tick where the kind has one, and the component ID underneath.
func drawComponents(pdf *fpdf.Fpdf, comps []level.ComponentSpec, m boardMap) {
	radius := math.Max(2.2, 2.5*model.MinComponentSpacing*m.scale)

	for _, s := range comps {
		cx, cy := m.point(s.X, s.Y)

		pdf.SetFillColor(235, 235, 240)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Circle(cx, cy, radius, "FD")

		if orientedKinds[s.Kind] {
			rad := s.AngleDeg * math.Pi / 180
			dx := math.Cos(rad) * radius * 1.5
			dy := -math.Sin(rad) * radius * 1.5
			pdf.SetDrawColor(80, 80, 200)
			pdf.SetLineWidth(0.25)
			pdf.Line(cx-dx, cy-dy, cx+dx, cy+dy)
		}
		if s.Kind == model.KindEmitter {
			rad := s.DirectionDeg * math.Pi / 180
			dx := math.Cos(rad) * radius * 2
			dy := -math.Sin(rad) * radius * 2
			pdf.SetDrawColor(200, 60, 60)
			pdf.SetLineWidth(0.35)
			pdf.Line(cx, cy, cx+dx, cy+dy)
		}

		// Kind glyph centered in the circle
		glyph := kindGlyphs[s.Kind]
		pdf.SetFont("Helvetica", "B", 5.5)
		pdf.SetTextColor(0, 0, 0)
		glyphW := pdf.GetStringWidth(glyph)
		pdf.SetXY(cx-glyphW/2, cy-1.5)
		pdf.CellFormat(glyphW, 3, glyph, "", 0, "C", false, 0, "")

		// Component ID below the circle
		pdf.SetFont("Helvetica", "", 5)
		pdf.SetTextColor(90, 90, 90)
		idW := pdf.GetStringWidth(s.ID)
		pdf.SetXY(cx-idW/2, cy+radius+0.5)
		pdf.CellFormat(idW, 3, s.ID, "", 0, "C", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
}

// drawDimensionAnnotations adds width and height labels outside the board rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, width, height float64, m boardMap, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the board)
	widthLabel := fmt.Sprintf("%.0f", width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(m.offsetX+(canvasW-wLabelW)/2, m.offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (to the left of the board, rotated)
	heightLabel := fmt.Sprintf("%.0f", height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, m.offsetX-3, m.offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(m.offsetX-3-hLabelW/2, m.offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawEmitterLegend renders a compact legend of emitters and their beam
// segment counts at the bottom of the bench page.
func drawEmitterLegend(pdf *fpdf.Fpdf, bench BenchReport, startY float64) {
	segments := make(map[string]int)
	for _, b := range bench.Trace.Beams {
		segments[b.EmitterID]++
	}

	var emitters []level.ComponentSpec
	for _, s := range bench.Spec.Components {
		if s.Kind == model.KindEmitter {
			emitters = append(emitters, s)
		}
	}
	if len(emitters) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Emitters:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, e := range emitters {
		label := fmt.Sprintf("%s (%.0f nm, %d segments)", e.ID, e.WavelengthNm, segments[e.ID])
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		// Wavelength color swatch
		r, g, b := spectral.WavelengthColor(e.WavelengthNm).RGB255()
		pdf.SetFillColor(int(r), int(g), int(b))
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderResultsPage draws the sensor readings table and trace statistics.
func renderResultsPage(pdf *fpdf.Fpdf, bench BenchReport) {
	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Trace Results", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	// Overall statistics
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Components", fmt.Sprintf("%d", len(bench.Spec.Components))},
		{"Beam segments traced", fmt.Sprintf("%d", len(bench.Trace.Beams))},
		{"Beams spawned", fmt.Sprintf("%d", bench.Trace.BeamsCreated)},
		{"Sensors active", fmt.Sprintf("%d / %d", countActiveSensors(bench.Trace), len(bench.Trace.Sensors))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	// Sensor breakdown table
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Sensor Readings", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{45, 20, 28, 25, 35, 20, 25}
	headers := []string{"Sensor", "Active", "Intensity", "Angle", "State", "Beams", "Phase"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	ids := make([]string, 0, len(bench.Trace.Sensors))
	for id := range bench.Trace.Sensors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pdf.SetFont("Helvetica", "", 9)
	for i, id := range ids {
		state := bench.Trace.Sensors[id]
		xPos = marginLeft
		rowData := []string{
			id,
			activeLabel(state.Activated),
			fmt.Sprintf("%.1f%%", state.IntensityPct),
			formatOptionalDeg(state.AngleDeg),
			stateLabel(state.StateKind),
			fmt.Sprintf("%d", state.BeamCount),
			formatOptionalDeg(state.RelPhaseDeg),
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// Guard warning
	if bench.Trace.GuardTerminated > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(260, 7, "WARNING: Trace hit the beam segment limit", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(260, 5, "The layout probably feeds a splitter back into itself; readings past the limit are dropped.", "", 0, "L", false, 0, "")
	}

	drawFooter(pdf)
}

// renderSpectralPage draws the retarder analysis with its transmission spectrum.
func renderSpectralPage(pdf *fpdf.Fpdf, lab SpectralReport) {
	deltaN := lab.Material.Birefringence()
	stage := lab.Stage()

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Spectral Analysis: %s", lab.Material.Name)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, title, "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	arrangement := "Parallel polarizers (bright field)"
	if lab.Crossed {
		arrangement = "Crossed polarizers (dark field)"
	}

	opd := spectral.OPDNm(lab.ThicknessUm, deltaN)
	items := []struct {
		label string
		value string
	}{
		{"Material", lab.Material.Name},
		{"Ordinary index", fmt.Sprintf("%.4f", lab.Material.IndexOrdinary)},
		{"Extraordinary index", fmt.Sprintf("%.4f", lab.Material.IndexExtraordinary)},
		{"Birefringence", fmt.Sprintf("%+.4f", deltaN)},
		{"Thickness", fmt.Sprintf("%.1f um", lab.ThicknessUm)},
		{"Optical path difference", fmt.Sprintf("%.1f nm", opd)},
		{"Interference order", fmt.Sprintf("%.2f", spectral.InterferenceOrder(opd))},
		{"Arrangement", arrangement},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(70, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	// Perceived color swatches, quick estimate next to the CIE reference
	swatchY := marginTop + 18
	drawColorSwatch(pdf, 180, swatchY, "Fast estimate",
		spectral.SolveRGB(lab.ThicknessUm, deltaN, stage))
	drawColorSwatch(pdf, 180, swatchY+18, "CIE integration",
		spectral.SolveRGBHighPrecision(lab.ThicknessUm, deltaN, stage))

	// Transmission spectrum chart
	y += 8
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Transmission Spectrum", "", 0, "L", false, 0, "")
	y += 9

	chartX := marginLeft
	chartW := pageWidth - marginLeft - marginRight
	chartH := pageHeight - y - marginBottom - 10
	drawSpectrumChart(pdf, chartX, y, chartW, chartH, lab.ThicknessUm, deltaN, stage)

	drawFooter(pdf)
}

// drawColorSwatch renders a labeled rectangle filled with the solved color,
// annotated with its hex code and transmitted intensity.
func drawColorSwatch(pdf *fpdf.Fpdf, x, y float64, label string, res spectral.ColorResult) {
	r, g, b := res.Color.RGB255()

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x, y)
	pdf.CellFormat(40, 4, label, "", 0, "L", false, 0, "")

	pdf.SetFillColor(int(r), int(g), int(b))
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y+5, 30, 10, "FD")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(x+32, y+8)
	pdf.CellFormat(30, 4, fmt.Sprintf("%s %.0f%%", res.Hex(), res.Intensity*100), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
}

// drawSpectrumChart renders the visible transmission spectrum as a bar per
// sampled wavelength, each bar tinted with its perceptual color.
func drawSpectrumChart(pdf *fpdf.Fpdf, x, y, w, h float64, thicknessUm, deltaN float64, stage spectral.Stage) {
	wavelengths, transmission := spectral.VisibleSpectrum(thicknessUm, deltaN, stage)

	pdf.SetFillColor(20, 20, 24)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x, y, w, h, "FD")

	barW := w / float64(len(wavelengths))
	for i, wl := range wavelengths {
		t := clamp01(transmission[i])
		if t <= 0 {
			continue
		}
		r, g, b := spectral.WavelengthColor(wl).RGB255()
		pdf.SetFillColor(int(r), int(g), int(b))
		barH := t * h
		pdf.Rect(x+float64(i)*barW, y+h-barH, barW, barH, "F")
	}

	// Axis labels
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	first := fmt.Sprintf("%.0f nm", wavelengths[0])
	last := fmt.Sprintf("%.0f nm", wavelengths[len(wavelengths)-1])
	pdf.SetXY(x, y+h+1)
	pdf.CellFormat(20, 4, first, "", 0, "L", false, 0, "")
	lastW := pdf.GetStringWidth(last)
	pdf.SetXY(x+w-lastW, y+h+1)
	pdf.CellFormat(lastW, 4, last, "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawFooter renders the generator line at the bottom of the page.
func drawFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by PolarBench - Polarization Optics Workbench", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// countActiveSensors returns how many sensors the trace activated.
func countActiveSensors(trace engine.TraceResult) int {
	total := 0
	for _, s := range trace.Sensors {
		if s.Activated {
			total++
		}
	}
	return total
}

func activeLabel(activated bool) string {
	if activated {
		return "yes"
	}
	return "no"
}

func stateLabel(kind optics.StateKind) string {
	if kind == optics.StateNone {
		return "-"
	}
	return kind.String()
}

// formatOptionalDeg renders an optional angle, "-" when absent.
func formatOptionalDeg(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f\xb0", *v)
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
