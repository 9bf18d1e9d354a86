package prescription

import (
	"fmt"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
)

// Overlap is a pair of components closer than the board's minimum
// spacing.
type Overlap struct {
	AID      string
	BID      string
	AKind    model.Kind
	BKind    model.Kind
	Distance float64
}

// CheckOverlaps reports every component pair closer than
// model.MinComponentSpacing. Board construction rejects the first such
// pair it sees; this pre-flight form collects all of them so an
// importer or editor can show them together.
func CheckOverlaps(spec level.BoardSpec) []Overlap {
	var overlaps []Overlap
	for i := 0; i < len(spec.Components); i++ {
		for j := i + 1; j < len(spec.Components); j++ {
			a, b := spec.Components[i], spec.Components[j]
			d := model.Distance(model.Point{X: a.X, Y: a.Y}, model.Point{X: b.X, Y: b.Y})
			if d < model.MinComponentSpacing {
				overlaps = append(overlaps, Overlap{
					AID:      a.ID,
					BID:      b.ID,
					AKind:    a.Kind,
					BKind:    b.Kind,
					Distance: d,
				})
			}
		}
	}
	return overlaps
}

// FormatOverlapWarnings produces human-readable warning messages from
// overlap data.
func FormatOverlapWarnings(overlaps []Overlap) []string {
	var warnings []string
	for _, o := range overlaps {
		warnings = append(warnings, fmt.Sprintf(
			"%s %q and %s %q are %.2f apart, minimum spacing is %g",
			o.AKind, o.AID, o.BKind, o.BID, o.Distance, model.MinComponentSpacing))
	}
	return warnings
}
