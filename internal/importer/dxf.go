// Package importer reads bench layouts from DXF drawings and measured
// spectra from CSV or Excel files.
package importer

import (
	"fmt"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/prescription"
)

// ImportResult holds the outcome of a DXF bench import.
type ImportResult struct {
	Spec     level.BoardSpec
	Errors   []string
	Warnings []string
	// Ignored counts circle/point entities on layers that do not name a
	// component kind.
	Ignored int
}

// ImportDXF reads a bench layout from a DXF drawing. A circle or point
// on a layer named after a component kind (EMITTER, POLARIZER, ...)
// becomes that component at the entity position; other geometry such as
// text labels, beam lines, and frames is skipped. Components get
// generated IDs and default parameters, so the imported bench is a
// starting layout, not a full prescription.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	spec := level.BoardSpec{Width: model.DefaultBoardSize, Height: model.DefaultBoardSize}
	counts := map[model.Kind]int{}

	for _, ent := range entities {
		var x, y float64
		switch e := ent.(type) {
		case *entity.Circle:
			x, y = e.Center[0], e.Center[1]
		case *entity.Point:
			x, y = e.Coord[0], e.Coord[1]
		default:
			// Labels, beams, frames.
			continue
		}

		layerName := ""
		if l := ent.Layer(); l != nil {
			layerName = l.Name()
		}
		kind, ok := kindForLayer(layerName)
		if !ok {
			result.Ignored++
			continue
		}

		counts[kind]++
		s := level.ComponentSpec{
			ID:   fmt.Sprintf("%s-%d", kind, counts[kind]),
			Kind: kind,
			X:    x,
			Y:    y,
		}
		if kind == model.KindEmitter {
			s.Intensity = 1
			s.WavelengthNm = 633
		}
		spec.Components = append(spec.Components, s)
	}

	if len(spec.Components) == 0 {
		result.Errors = append(result.Errors, "No components found in DXF file")
		return result
	}

	if overlaps := prescription.CheckOverlaps(spec); len(overlaps) > 0 {
		result.Warnings = append(result.Warnings, prescription.FormatOverlapWarnings(overlaps)...)
	}
	if result.Ignored > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Ignored %d entities on unknown layers", result.Ignored))
	}

	result.Spec = spec
	return result
}

// kindForLayer maps a DXF layer name to a component kind. Matching is
// case-insensitive and accepts underscores in place of hyphens, since
// some CAD tools rewrite layer names.
func kindForLayer(name string) (model.Kind, bool) {
	normalized := model.Kind(strings.ToLower(strings.ReplaceAll(name, "_", "-")))
	for _, known := range model.Kinds {
		if normalized == known {
			return known, true
		}
	}
	return "", false
}
