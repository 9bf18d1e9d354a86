package prescription

import (
	"strings"
	"testing"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
)

func malusSpec() level.BoardSpec {
	l, ok := level.ByID("align-the-analyzer")
	if !ok {
		panic("catalog is missing align-the-analyzer")
	}
	return l.Board
}

func TestGenerate_Header(t *testing.T) {
	text := Generate(malusSpec())

	if !strings.HasPrefix(text, "# PolarBench prescription\n") {
		t.Errorf("missing title line:\n%s", text)
	}
	if !strings.Contains(text, "board w=100 h=100\n") {
		t.Errorf("missing board directive:\n%s", text)
	}
}

func TestGenerate_ComponentLines(t *testing.T) {
	text := Generate(malusSpec())

	if !strings.Contains(text, "id=laser x=10 y=50 angle=0 dir=0 intensity=1 wavelength=633 locked") {
		t.Errorf("emitter line wrong:\n%s", text)
	}
	if !strings.Contains(text, "id=analyzer x=40 y=50 angle=90") {
		t.Errorf("polarizer line wrong:\n%s", text)
	}
	if !strings.Contains(text, "id=detector x=80 y=50 threshold=40 tol=10 locked") {
		t.Errorf("sensor line wrong:\n%s", text)
	}
}

func TestGenerate_Footer(t *testing.T) {
	text := Generate(malusSpec())

	if !strings.Contains(text, "# emitters: 1, sensors: 1, components: 3\n") {
		t.Errorf("footer counts wrong:\n%s", text)
	}
}

func TestGenerate_EmptySpec(t *testing.T) {
	text := Generate(level.BoardSpec{})

	if !strings.Contains(text, "board w=100 h=100") {
		t.Errorf("empty spec should fall back to the default board size:\n%s", text)
	}
	if !strings.Contains(text, "# emitters: 0, sensors: 0, components: 0") {
		t.Errorf("footer for empty spec wrong:\n%s", text)
	}
}

func TestGenerate_SensorGoals(t *testing.T) {
	req := 60.0
	spec := level.BoardSpec{
		Width:  100,
		Height: 100,
		Components: []level.ComponentSpec{
			{
				ID: "probe", Kind: model.KindSensor, X: 50, Y: 50,
				ThresholdPct:      25,
				RequiredAngleDeg:  &req,
				AngleToleranceDeg: 5,
				RequiredState:     "circular-l",
			},
		},
	}
	text := Generate(spec)

	if !strings.Contains(text, "threshold=25 reqangle=60 tol=5 state=circular-l") {
		t.Errorf("sensor requirements missing:\n%s", text)
	}
}

func TestGenerate_CounterLine(t *testing.T) {
	spec := level.BoardSpec{
		Width:  100,
		Height: 100,
		Components: []level.ComponentSpec{
			{
				ID: "cc", Kind: model.KindCoincidenceCounter, X: 50, Y: 50,
				RequiredCount:     2,
				RequiredPhaseDeg:  180,
				PhaseToleranceDeg: 15,
				Forward:           true,
			},
		},
	}
	text := Generate(spec)

	if !strings.Contains(text, "count=2 phase=180 phasetol=15 forward") {
		t.Errorf("counter line wrong:\n%s", text)
	}
}

// A prescription must survive parse and regenerate unchanged, and the
// parsed layout must still build a working board.
func TestRoundTrip_CatalogBoards(t *testing.T) {
	for _, l := range level.Catalog() {
		text := Generate(l.Board)

		spec, warnings := Parse(text)
		if len(warnings) != 0 {
			t.Errorf("%s: unexpected warnings: %v", l.ID, warnings)
		}
		if len(spec.Components) != len(l.Board.Components) {
			t.Errorf("%s: expected %d components, got %d",
				l.ID, len(l.Board.Components), len(spec.Components))
		}

		again := Generate(spec)
		if again != text {
			t.Errorf("%s: prescription is not stable across a round trip:\n--- first\n%s\n--- second\n%s",
				l.ID, text, again)
		}

		if _, err := spec.Build(); err != nil {
			t.Errorf("%s: parsed spec should build: %v", l.ID, err)
		}
	}
}
