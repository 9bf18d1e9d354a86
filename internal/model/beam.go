package model

import "github.com/piwi3910/PolarBench/internal/optics"

// TerminationReason records why the tracer stopped a beam.
type TerminationReason string

const (
	TermDetector TerminationReason = "detector" // reached a sensor or counter
	TermAbsorbed TerminationReason = "absorbed" // intensity fell below epsilon
	TermExited   TerminationReason = "exited"   // left the board
	TermGuard    TerminationReason = "guard"    // step or branch budget exhausted
	TermOpaque   TerminationReason = "opaque"   // hit the back of an emitter
)

// Beam is one traced coherent ray segment. Beams are recomputed from scratch
// on every propagation pass and never persisted.
type Beam struct {
	FromX        float64           `json:"fromX"`
	FromY        float64           `json:"fromY"`
	ToX          float64           `json:"toX"`
	ToY          float64           `json:"toY"`
	DirectionDeg float64           `json:"directionDeg"`
	Jones        optics.Vec        `json:"-"`
	WavelengthNm float64           `json:"wavelengthNm"`
	EmitterID    string            `json:"emitterId"`
	Terminal     TerminationReason `json:"terminal,omitempty"`
}

// IntensityPct returns the carried intensity as a percentage of one emitter
// unit, in [0,100] for any physical configuration.
func (b Beam) IntensityPct() float64 {
	return 100 * optics.Intensity(b.Jones)
}

// State classifies the carried polarization.
func (b Beam) State() optics.State {
	return optics.Classify(b.Jones)
}

// SensorState is the per-detector outcome of one propagation pass.
type SensorState struct {
	ComponentID  string           `json:"componentId"`
	Activated    bool             `json:"activated"`
	IntensityPct float64          `json:"intensityPct"`
	AngleDeg     *float64         `json:"angleDeg,omitempty"` // nil unless the light is linear
	StateKind    optics.StateKind `json:"stateKind"`
	BeamCount    int              `json:"beamCount"`
	RelPhaseDeg  *float64         `json:"relPhaseDeg,omitempty"` // nil until two beams arrive
	Forwarded    bool             `json:"forwarded,omitempty"`   // the received light was re-emitted downstream
}
