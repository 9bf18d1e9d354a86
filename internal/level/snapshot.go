package level

import (
	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/optics"
)

// SpecFromBoard captures a live board as a serializable spec, the inverse of
// BoardSpec.Build. Workspace saves and bench templates go through here.
func SpecFromBoard(board *model.Board) BoardSpec {
	spec := BoardSpec{Width: board.Width, Height: board.Height}
	for _, c := range board.Components() {
		spec.Components = append(spec.Components, specFromComponent(c))
	}
	return spec
}

func specFromComponent(c model.Component) ComponentSpec {
	p := c.Position()
	s := ComponentSpec{
		ID:     c.ID(),
		Kind:   c.Kind(),
		X:      p.X,
		Y:      p.Y,
		Locked: c.IsLocked(),
	}

	switch t := c.(type) {
	case *model.Emitter:
		s.AngleDeg = t.PolarizationDeg
		s.DirectionDeg = t.DirectionDeg
		s.Intensity = t.Intensity
		s.WavelengthNm = t.WavelengthNm
	case *model.Polarizer:
		s.AngleDeg = t.AxisDeg
	case *model.Mirror:
		s.AngleDeg = t.SurfaceDeg
	case *model.Splitter:
		s.AngleDeg = t.CrystalAxisDeg
	case *model.Rotator:
		s.AngleDeg = t.AngleDeg
	case *model.QuarterWavePlate:
		s.AngleDeg = t.FastAxisDeg
	case *model.HalfWavePlate:
		s.AngleDeg = t.FastAxisDeg
	case *model.PhaseShifter:
		s.AngleDeg = t.PhaseDeg
	case *model.CircularFilter:
		s.Handedness = t.Handedness.String()
	case *model.BeamCombiner:
		s.DirectionDeg = t.OutputDirDeg
	case *model.Isolator:
		s.DirectionDeg = t.AllowedDirDeg
		s.AngleDeg = t.AxisDeg
	case *model.Sensor:
		s.ThresholdPct = t.ThresholdPct
		s.AngleToleranceDeg = t.AngleToleranceDeg
		if t.RequiredAngleDeg != nil {
			a := *t.RequiredAngleDeg
			s.RequiredAngleDeg = &a
		}
		if t.RequiredState != optics.StateNone {
			s.RequiredState = t.RequiredState.String()
		}
	case *model.CoincidenceCounter:
		s.RequiredCount = t.RequiredCount
		s.RequiredPhaseDeg = t.RequiredPhaseDeg
		s.PhaseToleranceDeg = t.PhaseToleranceDeg
		s.Forward = t.Forward
	}
	return s
}
