package ui

import (
	"math"
	"testing"

	"github.com/piwi3910/PolarBench/internal/optics"
)

func TestFresnelCurves(t *testing.T) {
	xs, series, markers := fresnelCurves(optics.IndexAir, optics.IndexGlass)
	if len(series) != 3 {
		t.Fatalf("expected Rs, Rp and R series, got %d", len(series))
	}
	for _, s := range series {
		if len(s.Ys) != len(xs) {
			t.Errorf("series %s: %d points for %d x samples", s.Name, len(s.Ys), len(xs))
		}
	}

	// Rp dips to zero at the Brewster marker.
	if len(markers) != 1 {
		t.Fatalf("air to glass has no critical angle, expected 1 marker, got %d", len(markers))
	}
	brewster := markers[0].X
	rp := series[1].Ys
	minRp := rp[0]
	minDeg := xs[0]
	for i, v := range rp {
		if v < minRp {
			minRp = v
			minDeg = xs[i]
		}
	}
	if minRp > 1e-3 {
		t.Errorf("Rp minimum %.4f, want near zero", minRp)
	}
	if math.Abs(minDeg-brewster) > 1 {
		t.Errorf("Rp minimum at %.1f°, Brewster marker at %.1f°", minDeg, brewster)
	}
}

func TestFresnelCurves_CriticalAngleMarker(t *testing.T) {
	_, _, markers := fresnelCurves(optics.IndexGlass, optics.IndexAir)
	if len(markers) != 2 {
		t.Fatalf("glass to air should mark Brewster and critical angles, got %d markers", len(markers))
	}
	if math.Abs(markers[1].X-41.8) > 0.1 {
		t.Errorf("critical angle marker at %.2f°, want 41.81°", markers[1].X)
	}
}

func TestAnalyzerSweep(t *testing.T) {
	xs, series := analyzerSweep(30)
	if len(series) != 1 {
		t.Fatalf("expected one intensity series, got %d", len(series))
	}
	ys := series[0].Ys

	// Malus peak follows the rotated plane, null 90° away.
	for i, deg := range xs {
		switch deg {
		case 30:
			if math.Abs(ys[i]-1) > 1e-9 {
				t.Errorf("intensity at the rotated plane = %.4f, want 1", ys[i])
			}
		case 120:
			if ys[i] > 1e-9 {
				t.Errorf("intensity at the crossed position = %.4f, want 0", ys[i])
			}
		}
	}
}

func TestScatteringSpectrum(t *testing.T) {
	wavelengths, strengths := scatteringSpectrum()
	if len(wavelengths) != len(strengths) {
		t.Fatalf("parallel slices differ: %d vs %d", len(wavelengths), len(strengths))
	}

	// Normalized to the violet end and strictly falling toward red.
	if math.Abs(strengths[0]-1) > 1e-9 {
		t.Errorf("violet end = %.4f, want 1", strengths[0])
	}
	for i := 1; i < len(strengths); i++ {
		if strengths[i] >= strengths[i-1] {
			t.Errorf("scattering not falling at %.0f nm", wavelengths[i])
		}
	}
}
