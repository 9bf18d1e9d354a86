package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/prescription"
)

func buildCardTestBenches() []BenchCard {
	cards := make([]BenchCard, 0, len(level.Catalog()))
	for _, l := range level.Catalog() {
		cards = append(cards, NewBenchCard(l.Title, l.Board))
	}
	return cards
}

func TestNewBenchCard_Counts(t *testing.T) {
	spec := level.BoardSpec{
		Components: []level.ComponentSpec{
			{ID: "laser", Kind: "emitter", X: 10, Y: 50, Intensity: 1, WavelengthNm: 633},
			{ID: "pol", Kind: "polarizer", X: 40, Y: 50},
			{ID: "det", Kind: "sensor", X: 70, Y: 50},
			{ID: "cc", Kind: "coincidence-counter", X: 70, Y: 80, RequiredCount: 2},
		},
	}
	card := NewBenchCard("Counts", spec)

	if card.Components != 4 {
		t.Errorf("expected 4 components, got %d", card.Components)
	}
	if card.Emitters != 1 {
		t.Errorf("expected 1 emitter, got %d", card.Emitters)
	}
	if card.Sensors != 2 {
		t.Errorf("expected 2 sensors (sensor + counter), got %d", card.Sensors)
	}
	if !strings.Contains(card.Prescription, "laser") {
		t.Error("prescription payload does not mention the emitter")
	}
}

func TestNewBenchCard_PrescriptionRoundTrips(t *testing.T) {
	for _, l := range level.Catalog() {
		card := NewBenchCard(l.Title, l.Board)
		spec, warnings := prescription.Parse(card.Prescription)
		if len(warnings) > 0 {
			t.Errorf("level %s: card payload does not parse cleanly: %v", l.ID, warnings)
		}
		if len(spec.Components) != len(l.Board.Components) {
			t.Errorf("level %s: payload round-trips %d of %d components",
				l.ID, len(spec.Components), len(l.Board.Components))
		}
	}
}

func TestExportBenchCards_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.pdf")

	err := ExportBenchCards(path, buildCardTestBenches())
	if err != nil {
		t.Fatalf("ExportBenchCards returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("PDF file is empty")
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportBenchCards_Empty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportBenchCards(path, nil)
	if err == nil {
		t.Fatal("expected error for empty card list, got nil")
	}
}

func TestExportBenchCards_MultiplePages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "many.pdf")

	// More cards than fit on one label sheet forces a page break.
	base := buildCardTestBenches()
	cards := make([]BenchCard, 0, cardsPerPage+5)
	for len(cards) < cardsPerPage+5 {
		cards = append(cards, base[len(cards)%len(base)])
	}

	err := ExportBenchCards(path, cards)
	if err != nil {
		t.Fatalf("ExportBenchCards returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}
