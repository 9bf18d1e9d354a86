package engine

import (
	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/optics"
)

// PassMatrix returns the Jones matrix applied by a pass-through component,
// or ok=false for kinds with directional, branching, or terminal contracts.
func PassMatrix(c model.Component) (optics.Mat, bool) {
	switch v := c.(type) {
	case *model.Polarizer:
		return optics.PolarizerMatrix(v.AxisDeg), true
	case *model.Rotator:
		return optics.RotatorMatrix(v.AngleDeg), true
	case *model.QuarterWavePlate:
		return optics.QuarterWaveMatrix(v.FastAxisDeg), true
	case *model.HalfWavePlate:
		return optics.HalfWaveMatrix(v.FastAxisDeg), true
	case *model.PhaseShifter:
		return optics.PhaseMatrix(v.PhaseDeg), true
	case *model.CircularFilter:
		return optics.CircularProjector(v.Handedness), true
	default:
		return optics.Mat{}, false
	}
}

// MirrorReflect returns the outgoing travel direction for a beam reflecting
// off a mirror surface: out = (2·surface - in) mod 360. The default 45°
// surface maps cardinal directions onto cardinal directions.
func MirrorReflect(surfaceDeg, inDirDeg float64) float64 {
	return optics.NormalizeDirection(2*surfaceDeg - inDirDeg)
}

// IsolatorMatrix returns the forward transform of an optical isolator: an
// input polarizer, a Faraday rotation, and an output polarizer rotated by
// the same Faraday angle.
func IsolatorMatrix(axisDeg, faradayDeg float64) optics.Mat {
	return optics.Train(
		optics.PolarizerMatrix(axisDeg),
		optics.RotatorMatrix(faradayDeg),
		optics.PolarizerMatrix(axisDeg+faradayDeg),
	)
}

// SplitComponents projects v onto a splitter's crystal axes: the ordinary
// component along the axis and the extraordinary component perpendicular to
// it. The two carry the full input energy between them.
func SplitComponents(crystalAxisDeg float64, v optics.Vec) (ordinary, extraordinary optics.Vec) {
	ordinary = optics.Apply(optics.PolarizerMatrix(crystalAxisDeg), v)
	extraordinary = optics.Apply(optics.PolarizerMatrix(crystalAxisDeg+90), v)
	return ordinary, extraordinary
}

// IsMergeNode reports whether same-pass arrivals at this kind buffer for
// coherent combination instead of passing straight through.
func IsMergeNode(k model.Kind) bool {
	switch k {
	case model.KindSensor, model.KindCoincidenceCounter, model.KindBeamCombiner:
		return true
	default:
		return false
	}
}
