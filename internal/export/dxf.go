package export

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
)

// DXF layer names for geometry that is not a component. CAD tools can
// switch these off independently.
const (
	beamLayer  = "BEAMS"
	frameLayer = "BOARD"
)

// DXF drawing dimensions in board units.
const (
	componentRadius = 1.0
	labelOffset     = 1.2
	labelHeight     = 1.5
)

// ExportDXF writes a bench layout as a DXF drawing. Each component
// becomes a circle with a text label on a layer named after its kind,
// traced beams land on the BEAMS layer, and the board outline on BOARD.
// The result round-trips through ImportDXF and opens in CAD tools.
func ExportDXF(path string, spec level.BoardSpec, beams []model.Beam) error {
	if len(spec.Components) == 0 {
		return fmt.Errorf("no components to export")
	}

	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = model.DefaultBoardSize
	}
	if height <= 0 {
		height = model.DefaultBoardSize
	}

	d := dxf.NewDrawing()

	if err := drawBoardOutline(d, width, height); err != nil {
		return err
	}

	byKind := make(map[model.Kind][]level.ComponentSpec)
	for _, s := range spec.Components {
		byKind[s.Kind] = append(byKind[s.Kind], s)
	}

	// One layer per kind present, in the canonical kind order so repeated
	// exports produce identical layer tables.
	for _, kind := range model.Kinds {
		comps := byKind[kind]
		if len(comps) == 0 {
			continue
		}
		if _, err := d.AddLayer(layerName(kind), dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer for %s: %w", kind, err)
		}
		for _, s := range comps {
			if _, err := d.Circle(s.X, s.Y, 0, componentRadius); err != nil {
				return fmt.Errorf("failed to draw component %q: %w", s.ID, err)
			}
			if _, err := d.Text(s.ID, s.X+labelOffset, s.Y+labelOffset, 0, labelHeight); err != nil {
				return fmt.Errorf("failed to label component %q: %w", s.ID, err)
			}
		}
	}

	if len(beams) > 0 {
		if _, err := d.AddLayer(beamLayer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add beam layer: %w", err)
		}
		for _, b := range beams {
			if _, err := d.Line(b.FromX, b.FromY, 0, b.ToX, b.ToY, 0); err != nil {
				return fmt.Errorf("failed to draw beam segment: %w", err)
			}
		}
	}

	return d.SaveAs(path)
}

// drawBoardOutline draws the bench boundary as four lines on its own layer.
func drawBoardOutline(d *drawing.Drawing, width, height float64) error {
	if _, err := d.AddLayer(frameLayer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add board layer: %w", err)
	}

	edges := [][4]float64{
		{0, 0, width, 0},
		{width, 0, width, height},
		{width, height, 0, height},
		{0, height, 0, 0},
	}
	for _, e := range edges {
		if _, err := d.Line(e[0], e[1], 0, e[2], e[3], 0); err != nil {
			return fmt.Errorf("failed to draw board outline: %w", err)
		}
	}
	return nil
}

// layerName returns the DXF layer a component kind is drawn on.
func layerName(kind model.Kind) string {
	return strings.ToUpper(string(kind))
}
