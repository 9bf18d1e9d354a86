package prescription

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
)

var knownKinds = func() map[model.Kind]bool {
	m := make(map[model.Kind]bool, len(model.Kinds))
	for _, k := range model.Kinds {
		m[k] = true
	}
	return m
}()

// Parse reads a prescription back into a bench layout. Parsing is
// tolerant: a malformed line is reported as a warning and skipped, so
// one bad line does not lose the rest of the bench.
func Parse(text string) (level.BoardSpec, []string) {
	var spec level.BoardSpec
	var warnings []string

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := raw
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if fields[0] == "board" {
			warnings = append(warnings, parseBoard(&spec, fields[1:], lineNo)...)
			continue
		}

		if _, err := strconv.Atoi(fields[0]); err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: unrecognized line %q", lineNo, line))
			continue
		}
		if len(fields) < 2 {
			warnings = append(warnings, fmt.Sprintf("line %d: component line has no kind", lineNo))
			continue
		}

		comp, warns := parseComponent(fields[1:], lineNo)
		warnings = append(warnings, warns...)
		if comp != nil {
			if comp.ID == "" {
				comp.ID = fmt.Sprintf("c%d", len(spec.Components)+1)
			}
			spec.Components = append(spec.Components, *comp)
		}
	}

	if spec.Width <= 0 {
		spec.Width = model.DefaultBoardSize
	}
	if spec.Height <= 0 {
		spec.Height = model.DefaultBoardSize
	}
	return spec, warnings
}

func parseBoard(spec *level.BoardSpec, fields []string, lineNo int) []string {
	var warnings []string
	for _, f := range fields {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: bad board field %q", lineNo, f))
			continue
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: bad board value %q", lineNo, f))
			continue
		}
		switch key {
		case "w":
			spec.Width = v
		case "h":
			spec.Height = v
		default:
			warnings = append(warnings, fmt.Sprintf("line %d: unknown board field %q", lineNo, key))
		}
	}
	return warnings
}

func parseComponent(fields []string, lineNo int) (*level.ComponentSpec, []string) {
	var warnings []string

	kind := model.Kind(fields[0])
	if !knownKinds[kind] {
		return nil, []string{fmt.Sprintf("line %d: unknown component kind %q", lineNo, fields[0])}
	}

	s := level.ComponentSpec{Kind: kind}
	for _, f := range fields[1:] {
		switch f {
		case "locked":
			s.Locked = true
			continue
		case "forward":
			s.Forward = true
			continue
		}

		key, val, ok := strings.Cut(f, "=")
		if !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: bad field %q", lineNo, f))
			continue
		}

		switch key {
		case "id":
			s.ID = val
		case "hand":
			s.Handedness = val
		case "state":
			s.RequiredState = val
		case "count":
			n, err := strconv.Atoi(val)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("line %d: bad count %q", lineNo, val))
				continue
			}
			s.RequiredCount = n
		default:
			v, err := strconv.ParseFloat(val, 64)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("line %d: bad value %q", lineNo, f))
				continue
			}
			switch key {
			case "x":
				s.X = v
			case "y":
				s.Y = v
			case "angle":
				s.AngleDeg = v
			case "dir":
				s.DirectionDeg = v
			case "intensity":
				s.Intensity = v
			case "wavelength":
				s.WavelengthNm = v
			case "threshold":
				s.ThresholdPct = v
			case "reqangle":
				s.RequiredAngleDeg = &v
			case "tol":
				s.AngleToleranceDeg = v
			case "phase":
				s.RequiredPhaseDeg = v
			case "phasetol":
				s.PhaseToleranceDeg = v
			default:
				warnings = append(warnings, fmt.Sprintf("line %d: unknown field %q", lineNo, key))
			}
		}
	}
	return &s, warnings
}
