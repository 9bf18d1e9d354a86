// Package prescription renders a bench layout as a shareable plain-text
// prescription and reads it back. The text form is what QR labels and
// the clipboard carry: a board directive, one numbered line per
// component, and informational comments the parser ignores.
package prescription

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
)

// Generate renders the bench layout as a plain-text prescription. The
// output round-trips through Parse.
func Generate(spec level.BoardSpec) string {
	var b strings.Builder

	writeHeader(&b, spec)
	for i, c := range spec.Components {
		writeComponent(&b, c, i+1)
	}
	writeFooter(&b, spec)
	return b.String()
}

func writeHeader(b *strings.Builder, spec level.BoardSpec) {
	w, h := spec.Width, spec.Height
	if w <= 0 {
		w = model.DefaultBoardSize
	}
	if h <= 0 {
		h = model.DefaultBoardSize
	}

	b.WriteString("# PolarBench prescription\n")
	fmt.Fprintf(b, "board w=%s h=%s\n", format(w), format(h))
	b.WriteString("\n")
}

func writeFooter(b *strings.Builder, spec level.BoardSpec) {
	emitters, sensors := 0, 0
	for _, c := range spec.Components {
		switch c.Kind {
		case model.KindEmitter:
			emitters++
		case model.KindSensor, model.KindCoincidenceCounter:
			sensors++
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "# emitters: %d, sensors: %d, components: %d\n",
		emitters, sensors, len(spec.Components))
}

func writeComponent(b *strings.Builder, s level.ComponentSpec, num int) {
	fmt.Fprintf(b, "%3d  %-20s id=%s x=%s y=%s",
		num, s.Kind, s.ID, format(s.X), format(s.Y))

	switch s.Kind {
	case model.KindEmitter:
		fmt.Fprintf(b, " angle=%s dir=%s intensity=%s wavelength=%s",
			format(s.AngleDeg), format(s.DirectionDeg),
			format(s.Intensity), format(s.WavelengthNm))
	case model.KindPolarizer, model.KindMirror, model.KindSplitter,
		model.KindRotator, model.KindQuarterWavePlate,
		model.KindHalfWavePlate, model.KindPhaseShifter:
		fmt.Fprintf(b, " angle=%s", format(s.AngleDeg))
	case model.KindCircularFilter:
		hand := s.Handedness
		if hand == "" {
			hand = "left"
		}
		fmt.Fprintf(b, " hand=%s", hand)
	case model.KindBeamCombiner:
		fmt.Fprintf(b, " dir=%s", format(s.DirectionDeg))
	case model.KindIsolator:
		fmt.Fprintf(b, " dir=%s angle=%s", format(s.DirectionDeg), format(s.AngleDeg))
	case model.KindSensor:
		fmt.Fprintf(b, " threshold=%s", format(s.ThresholdPct))
		if s.RequiredAngleDeg != nil {
			fmt.Fprintf(b, " reqangle=%s", format(*s.RequiredAngleDeg))
		}
		if s.AngleToleranceDeg != 0 {
			fmt.Fprintf(b, " tol=%s", format(s.AngleToleranceDeg))
		}
		if s.RequiredState != "" {
			fmt.Fprintf(b, " state=%s", s.RequiredState)
		}
	case model.KindCoincidenceCounter:
		fmt.Fprintf(b, " count=%d phase=%s", s.RequiredCount, format(s.RequiredPhaseDeg))
		if s.PhaseToleranceDeg != 0 {
			fmt.Fprintf(b, " phasetol=%s", format(s.PhaseToleranceDeg))
		}
		if s.Forward {
			b.WriteString(" forward")
		}
	}

	if s.Locked {
		b.WriteString(" locked")
	}
	b.WriteString("\n")
}

// format renders a value without trailing zeros so prescriptions stay
// short enough for QR payloads.
func format(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
