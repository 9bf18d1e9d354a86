package importer

import (
	"path/filepath"
	"testing"

	"github.com/yofu/dxf"

	"github.com/piwi3910/PolarBench/internal/model"
)

// writeBenchDXF draws a minimal bench layout the way a CAD tool would:
// one circle per component on a layer named after its kind.
func writeBenchDXF(t *testing.T, layers map[string][][2]float64) string {
	t.Helper()
	d := dxf.NewDrawing()
	for layer, positions := range layers {
		if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			t.Fatalf("cannot add layer %s: %v", layer, err)
		}
		for _, p := range positions {
			if _, err := d.Circle(p[0], p[1], 0, 1.0); err != nil {
				t.Fatalf("cannot draw circle on %s: %v", layer, err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "bench.dxf")
	if err := d.SaveAs(path); err != nil {
		t.Fatalf("cannot save test drawing: %v", err)
	}
	return path
}

func TestImportDXF_BasicBench(t *testing.T) {
	path := writeBenchDXF(t, map[string][][2]float64{
		"EMITTER":   {{10, 50}},
		"POLARIZER": {{40, 50}, {60, 50}},
		"SENSOR":    {{90, 50}},
	})

	result := ImportDXF(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Spec.Components) != 4 {
		t.Fatalf("expected 4 components, got %d", len(result.Spec.Components))
	}

	kinds := map[model.Kind]int{}
	for _, s := range result.Spec.Components {
		kinds[s.Kind]++
		if s.ID == "" {
			t.Errorf("component at (%g,%g) has no generated ID", s.X, s.Y)
		}
	}
	if kinds[model.KindEmitter] != 1 || kinds[model.KindPolarizer] != 2 || kinds[model.KindSensor] != 1 {
		t.Errorf("unexpected kind counts: %v", kinds)
	}
}

func TestImportDXF_EmitterDefaults(t *testing.T) {
	path := writeBenchDXF(t, map[string][][2]float64{
		"EMITTER": {{10, 50}},
	})

	result := ImportDXF(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	e := result.Spec.Components[0]
	if e.Intensity != 1 {
		t.Errorf("expected default intensity 1, got %g", e.Intensity)
	}
	if e.WavelengthNm != 633 {
		t.Errorf("expected default wavelength 633, got %g", e.WavelengthNm)
	}
}

func TestImportDXF_UnknownLayersIgnored(t *testing.T) {
	path := writeBenchDXF(t, map[string][][2]float64{
		"EMITTER":     {{10, 50}},
		"ANNOTATIONS": {{50, 50}, {60, 60}},
	})

	result := ImportDXF(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Spec.Components) != 1 {
		t.Errorf("expected 1 component, got %d", len(result.Spec.Components))
	}
	if result.Ignored != 2 {
		t.Errorf("expected 2 ignored entities, got %d", result.Ignored)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning about ignored entities")
	}
}

func TestImportDXF_UnderscoreLayerNames(t *testing.T) {
	path := writeBenchDXF(t, map[string][][2]float64{
		"QUARTER_WAVE_PLATE": {{50, 50}},
	})

	result := ImportDXF(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Spec.Components) != 1 || result.Spec.Components[0].Kind != model.KindQuarterWavePlate {
		t.Errorf("underscore layer name not recognized: %+v", result.Spec.Components)
	}
}

func TestImportDXF_OverlapWarning(t *testing.T) {
	path := writeBenchDXF(t, map[string][][2]float64{
		"POLARIZER": {{50, 50}, {50.1, 50}},
	})

	result := ImportDXF(path)
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected an overlap warning for coincident components")
	}
}

func TestImportDXF_NoComponents(t *testing.T) {
	path := writeBenchDXF(t, map[string][][2]float64{
		"ANNOTATIONS": {{50, 50}},
	})

	result := ImportDXF(path)
	if len(result.Errors) == 0 {
		t.Fatal("expected error for drawing without components")
	}
}

func TestImportDXF_MissingFile(t *testing.T) {
	result := ImportDXF(filepath.Join(t.TempDir(), "nope.dxf"))
	if len(result.Errors) == 0 {
		t.Fatal("expected error for missing file")
	}
}
