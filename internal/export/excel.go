package export

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/spectral"
)

// Excel sheet names.
const (
	summarySheet  = "Summary"
	sensorsSheet  = "Sensors"
	spectrumSheet = "Spectrum"
)

// cellWriter writes cells to one sheet, keeping the first error so the
// callers do not have to check every SetCellValue.
type cellWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *cellWriter) set(cell string, value any) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
}

// ExportExcel writes a traced bench to an .xlsx workbook with a Summary
// and a Sensors sheet. When lab is non-nil the retarder parameters join
// the summary and the sampled transmission spectrum gets its own sheet.
func ExportExcel(path string, bench BenchReport, lab *SpectralReport) error {
	if len(bench.Spec.Components) == 0 {
		return fmt.Errorf("no components to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, bench, lab); err != nil {
		return err
	}
	if err := writeSensorsSheet(f, bench); err != nil {
		return err
	}
	if lab != nil {
		if err := writeSpectrumSheet(f, *lab); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

// writeSummarySheet fills the label/value overview of the bench and, when
// present, the retarder analysis.
func writeSummarySheet(f *excelize.File, bench BenchReport, lab *SpectralReport) error {
	name := bench.Name
	if name == "" {
		name = "Untitled bench"
	}
	width, height := bench.Spec.Width, bench.Spec.Height
	if width <= 0 {
		width = model.DefaultBoardSize
	}
	if height <= 0 {
		height = model.DefaultBoardSize
	}

	type summaryRow struct {
		label string
		value any
	}
	rows := []summaryRow{
		{"Bench", name},
		{"Board", fmt.Sprintf("%g x %g", width, height)},
		{"Components", len(bench.Spec.Components)},
		{"Beam segments traced", len(bench.Trace.Beams)},
		{"Beams spawned", bench.Trace.BeamsCreated},
		{"Sensors active", fmt.Sprintf("%d / %d", countActiveSensors(bench.Trace), len(bench.Trace.Sensors))},
		{"Guard terminated", bench.Trace.GuardTerminated},
	}

	if lab != nil {
		deltaN := lab.Material.Birefringence()
		opd := spectral.OPDNm(lab.ThicknessUm, deltaN)
		arrangement := "parallel polarizers"
		if lab.Crossed {
			arrangement = "crossed polarizers"
		}
		rows = append(rows,
			summaryRow{"", ""},
			summaryRow{"Material", lab.Material.Name},
			summaryRow{"Ordinary index", lab.Material.IndexOrdinary},
			summaryRow{"Extraordinary index", lab.Material.IndexExtraordinary},
			summaryRow{"Birefringence", deltaN},
			summaryRow{"Thickness (um)", lab.ThicknessUm},
			summaryRow{"Optical path difference (nm)", opd},
			summaryRow{"Interference order", spectral.InterferenceOrder(opd)},
			summaryRow{"Arrangement", arrangement},
		)
		solved := spectral.SolveRGBHighPrecision(lab.ThicknessUm, deltaN, lab.Stage())
		rows = append(rows,
			summaryRow{"Perceived color", solved.Hex()},
			summaryRow{"Transmitted intensity", solved.Intensity},
		)
	}

	w := &cellWriter{f: f, sheet: summarySheet}
	for i, row := range rows {
		w.set(fmt.Sprintf("A%d", i+1), row.label)
		w.set(fmt.Sprintf("B%d", i+1), row.value)
	}
	if w.err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", w.err)
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "B", "B", 24)
}

// writeSensorsSheet fills one row per sensor reading, sorted by sensor ID.
func writeSensorsSheet(f *excelize.File, bench BenchReport) error {
	if _, err := f.NewSheet(sensorsSheet); err != nil {
		return fmt.Errorf("failed to add sensors sheet: %w", err)
	}

	w := &cellWriter{f: f, sheet: sensorsSheet}
	headers := []string{"Sensor", "Active", "Intensity %", "Angle (deg)", "State", "Beams", "Phase (deg)"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		w.set(cell, h)
	}

	ids := make([]string, 0, len(bench.Trace.Sensors))
	for id := range bench.Trace.Sensors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for i, id := range ids {
		state := bench.Trace.Sensors[id]
		row := i + 2
		w.set(fmt.Sprintf("A%d", row), id)
		w.set(fmt.Sprintf("B%d", row), state.Activated)
		w.set(fmt.Sprintf("C%d", row), state.IntensityPct)
		w.set(fmt.Sprintf("D%d", row), optionalDegCell(state.AngleDeg))
		w.set(fmt.Sprintf("E%d", row), stateLabel(state.StateKind))
		w.set(fmt.Sprintf("F%d", row), state.BeamCount)
		w.set(fmt.Sprintf("G%d", row), optionalDegCell(state.RelPhaseDeg))
	}
	if w.err != nil {
		return fmt.Errorf("failed to write sensors sheet: %w", w.err)
	}

	return f.SetColWidth(sensorsSheet, "A", "G", 14)
}

// writeSpectrumSheet fills the sampled visible spectrum, one wavelength
// per row with its retardation and transmission.
func writeSpectrumSheet(f *excelize.File, lab SpectralReport) error {
	if _, err := f.NewSheet(spectrumSheet); err != nil {
		return fmt.Errorf("failed to add spectrum sheet: %w", err)
	}

	deltaN := lab.Material.Birefringence()
	stage := lab.Stage()
	wavelengths, transmission := spectral.VisibleSpectrum(lab.ThicknessUm, deltaN, stage)

	w := &cellWriter{f: f, sheet: spectrumSheet}
	w.set("A1", "Wavelength (nm)")
	w.set("B1", "Retardation (deg)")
	w.set("C1", "Transmission")

	for i, wl := range wavelengths {
		row := i + 2
		w.set(fmt.Sprintf("A%d", row), wl)
		w.set(fmt.Sprintf("B%d", row), spectral.RetardationDeg(lab.ThicknessUm, deltaN, wl))
		w.set(fmt.Sprintf("C%d", row), transmission[i])
	}
	if w.err != nil {
		return fmt.Errorf("failed to write spectrum sheet: %w", w.err)
	}

	return f.SetColWidth(spectrumSheet, "A", "C", 18)
}

// optionalDegCell converts an optional angle into a cell value, keeping
// numbers numeric so spreadsheets can chart them.
func optionalDegCell(v *float64) any {
	if v == nil {
		return "-"
	}
	return *v
}
