package prescription

import (
	"strings"
	"testing"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
)

func TestCheckOverlaps_CleanBoard(t *testing.T) {
	overlaps := CheckOverlaps(malusSpec())
	if len(overlaps) != 0 {
		t.Errorf("catalog board should have no overlaps, got %v", overlaps)
	}
}

func TestCheckOverlaps_ReportsClosePair(t *testing.T) {
	spec := level.BoardSpec{
		Width:  100,
		Height: 100,
		Components: []level.ComponentSpec{
			{ID: "a", Kind: model.KindPolarizer, X: 40, Y: 50},
			{ID: "b", Kind: model.KindMirror, X: 40.2, Y: 50},
			{ID: "c", Kind: model.KindSensor, X: 90, Y: 50},
		},
	}

	overlaps := CheckOverlaps(spec)
	if len(overlaps) != 1 {
		t.Fatalf("expected 1 overlap, got %d", len(overlaps))
	}

	o := overlaps[0]
	if o.AID != "a" || o.BID != "b" {
		t.Errorf("expected pair a/b, got %s/%s", o.AID, o.BID)
	}
	if o.Distance < 0.19 || o.Distance > 0.21 {
		t.Errorf("expected distance about 0.2, got %g", o.Distance)
	}
}

func TestCheckOverlaps_AllPairsReported(t *testing.T) {
	spec := level.BoardSpec{
		Width:  100,
		Height: 100,
		Components: []level.ComponentSpec{
			{ID: "a", Kind: model.KindPolarizer, X: 50, Y: 50},
			{ID: "b", Kind: model.KindMirror, X: 50, Y: 50},
			{ID: "c", Kind: model.KindRotator, X: 50, Y: 50},
		},
	}

	overlaps := CheckOverlaps(spec)
	if len(overlaps) != 3 {
		t.Errorf("three stacked components form 3 pairs, got %d", len(overlaps))
	}
}

func TestFormatOverlapWarnings(t *testing.T) {
	overlaps := []Overlap{
		{AID: "a", BID: "b", AKind: model.KindPolarizer, BKind: model.KindMirror, Distance: 0.2},
	}

	warnings := FormatOverlapWarnings(overlaps)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if !strings.Contains(warnings[0], `polarizer "a"`) || !strings.Contains(warnings[0], `mirror "b"`) {
		t.Errorf("warning should name both components: %s", warnings[0])
	}
	if !strings.Contains(warnings[0], "minimum spacing") {
		t.Errorf("warning should mention the spacing rule: %s", warnings[0])
	}
}
