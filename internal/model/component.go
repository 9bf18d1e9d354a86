package model

import (
	"github.com/google/uuid"

	"github.com/piwi3910/PolarBench/internal/optics"
)

// Kind identifies an optical component variant.
type Kind string

const (
	KindEmitter            Kind = "emitter"
	KindPolarizer          Kind = "polarizer"
	KindMirror             Kind = "mirror"
	KindSplitter           Kind = "splitter"
	KindRotator            Kind = "rotator"
	KindQuarterWavePlate   Kind = "quarter-wave-plate"
	KindHalfWavePlate      Kind = "half-wave-plate"
	KindPhaseShifter       Kind = "phase-shifter"
	KindCircularFilter     Kind = "circular-filter"
	KindBeamCombiner       Kind = "beam-combiner"
	KindIsolator           Kind = "isolator"
	KindSensor             Kind = "sensor"
	KindCoincidenceCounter Kind = "coincidence-counter"
)

// Kinds lists every component variant in palette order.
var Kinds = []Kind{
	KindEmitter, KindPolarizer, KindMirror, KindSplitter, KindRotator,
	KindQuarterWavePlate, KindHalfWavePlate, KindPhaseShifter,
	KindCircularFilter, KindBeamCombiner, KindIsolator, KindSensor,
	KindCoincidenceCounter,
}

// Point is a position on the board, continuous coordinates in [0,100].
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Component is implemented by every optical element that can sit on a board.
// Components are read-only inputs to a propagation pass; editors mutate them
// between passes, never during one.
type Component interface {
	ID() string
	Kind() Kind
	Position() Point
	IsLocked() bool
	Clone() Component
}

// Adjustable is implemented by components whose primary angle a user (or the
// auto-solver) may turn when the component is not locked.
type Adjustable interface {
	Component
	PrimaryAngle() float64
	SetPrimaryAngle(deg float64)
}

func newID() string {
	return uuid.New().String()[:8]
}

// Base carries the fields shared by every component kind.
type Base struct {
	CompID string  `json:"id" yaml:"id"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Locked bool    `json:"locked,omitempty" yaml:"locked,omitempty"`
}

func (b Base) ID() string      { return b.CompID }
func (b Base) Position() Point { return Point{X: b.X, Y: b.Y} }
func (b Base) IsLocked() bool  { return b.Locked }

// Emitter produces one fully polarized beam per propagation pass.
type Emitter struct {
	Base            `yaml:",inline"`
	PolarizationDeg float64 `json:"polarizationDeg" yaml:"polarizationDeg"`
	DirectionDeg    float64 `json:"directionDeg" yaml:"directionDeg"`
	Intensity       float64 `json:"intensity" yaml:"intensity"`
	WavelengthNm    float64 `json:"wavelengthNm" yaml:"wavelengthNm"`
}

// NewEmitter returns an emitter at (x,y) polarized at polDeg, firing along
// dirDeg, at full intensity and the 633 nm HeNe teaching wavelength.
func NewEmitter(x, y, polDeg, dirDeg float64) *Emitter {
	return &Emitter{
		Base:            Base{CompID: newID(), X: x, Y: y},
		PolarizationDeg: optics.NormalizeAxis(polDeg),
		DirectionDeg:    optics.NormalizeDirection(dirDeg),
		Intensity:       1.0,
		WavelengthNm:    633,
	}
}

func (e *Emitter) Kind() Kind            { return KindEmitter }
func (e *Emitter) Clone() Component      { c := *e; return &c }
func (e *Emitter) PrimaryAngle() float64 { return e.PolarizationDeg }
func (e *Emitter) SetPrimaryAngle(deg float64) {
	e.PolarizationDeg = optics.NormalizeAxis(deg)
}

// Polarizer passes the projection of a beam onto its transmission axis.
type Polarizer struct {
	Base    `yaml:",inline"`
	AxisDeg float64 `json:"axisDeg" yaml:"axisDeg"`
}

func NewPolarizer(x, y, axisDeg float64) *Polarizer {
	return &Polarizer{
		Base:    Base{CompID: newID(), X: x, Y: y},
		AxisDeg: optics.NormalizeAxis(axisDeg),
	}
}

func (p *Polarizer) Kind() Kind            { return KindPolarizer }
func (p *Polarizer) Clone() Component      { c := *p; return &c }
func (p *Polarizer) PrimaryAngle() float64 { return p.AxisDeg }
func (p *Polarizer) SetPrimaryAngle(deg float64) {
	p.AxisDeg = optics.NormalizeAxis(deg)
}

// Mirror reflects the propagation direction about its surface:
// out = (2·surface - in) mod 360. The default 45° surface turns cardinal
// beams by a quarter turn.
type Mirror struct {
	Base       `yaml:",inline"`
	SurfaceDeg float64 `json:"surfaceDeg" yaml:"surfaceDeg"`
}

func NewMirror(x, y, surfaceDeg float64) *Mirror {
	return &Mirror{
		Base:       Base{CompID: newID(), X: x, Y: y},
		SurfaceDeg: optics.NormalizeAxis(surfaceDeg),
	}
}

func (m *Mirror) Kind() Kind            { return KindMirror }
func (m *Mirror) Clone() Component      { c := *m; return &c }
func (m *Mirror) PrimaryAngle() float64 { return m.SurfaceDeg }
func (m *Mirror) SetPrimaryAngle(deg float64) {
	m.SurfaceDeg = optics.NormalizeAxis(deg)
}

// Splitter is a birefringent beam splitter. The projection onto the crystal
// axis continues straight (ordinary ray); the orthogonal projection deflects
// a quarter turn counter-clockwise (extraordinary ray).
type Splitter struct {
	Base           `yaml:",inline"`
	CrystalAxisDeg float64 `json:"crystalAxisDeg" yaml:"crystalAxisDeg"`
}

func NewSplitter(x, y, crystalAxisDeg float64) *Splitter {
	return &Splitter{
		Base:           Base{CompID: newID(), X: x, Y: y},
		CrystalAxisDeg: optics.NormalizeAxis(crystalAxisDeg),
	}
}

func (s *Splitter) Kind() Kind            { return KindSplitter }
func (s *Splitter) Clone() Component      { c := *s; return &c }
func (s *Splitter) PrimaryAngle() float64 { return s.CrystalAxisDeg }
func (s *Splitter) SetPrimaryAngle(deg float64) {
	s.CrystalAxisDeg = optics.NormalizeAxis(deg)
}

// Rotator turns the polarization plane by a fixed angle (optical activity).
type Rotator struct {
	Base     `yaml:",inline"`
	AngleDeg float64 `json:"angleDeg" yaml:"angleDeg"`
}

func NewRotator(x, y, angleDeg float64) *Rotator {
	return &Rotator{
		Base:     Base{CompID: newID(), X: x, Y: y},
		AngleDeg: angleDeg,
	}
}

func (r *Rotator) Kind() Kind                  { return KindRotator }
func (r *Rotator) Clone() Component            { c := *r; return &c }
func (r *Rotator) PrimaryAngle() float64       { return r.AngleDeg }
func (r *Rotator) SetPrimaryAngle(deg float64) { r.AngleDeg = deg }

// QuarterWavePlate retards the slow axis by 90° relative to the fast axis.
type QuarterWavePlate struct {
	Base        `yaml:",inline"`
	FastAxisDeg float64 `json:"fastAxisDeg" yaml:"fastAxisDeg"`
}

func NewQuarterWavePlate(x, y, fastAxisDeg float64) *QuarterWavePlate {
	return &QuarterWavePlate{
		Base:        Base{CompID: newID(), X: x, Y: y},
		FastAxisDeg: optics.NormalizeAxis(fastAxisDeg),
	}
}

func (q *QuarterWavePlate) Kind() Kind            { return KindQuarterWavePlate }
func (q *QuarterWavePlate) Clone() Component      { c := *q; return &c }
func (q *QuarterWavePlate) PrimaryAngle() float64 { return q.FastAxisDeg }
func (q *QuarterWavePlate) SetPrimaryAngle(deg float64) {
	q.FastAxisDeg = optics.NormalizeAxis(deg)
}

// HalfWavePlate mirrors linear polarization about its fast axis.
type HalfWavePlate struct {
	Base        `yaml:",inline"`
	FastAxisDeg float64 `json:"fastAxisDeg" yaml:"fastAxisDeg"`
}

func NewHalfWavePlate(x, y, fastAxisDeg float64) *HalfWavePlate {
	return &HalfWavePlate{
		Base:        Base{CompID: newID(), X: x, Y: y},
		FastAxisDeg: optics.NormalizeAxis(fastAxisDeg),
	}
}

func (h *HalfWavePlate) Kind() Kind            { return KindHalfWavePlate }
func (h *HalfWavePlate) Clone() Component      { c := *h; return &c }
func (h *HalfWavePlate) PrimaryAngle() float64 { return h.FastAxisDeg }
func (h *HalfWavePlate) SetPrimaryAngle(deg float64) {
	h.FastAxisDeg = optics.NormalizeAxis(deg)
}

// PhaseShifter advances the global phase of a passing beam. It changes
// nothing measurable on its own but shifts interference downstream.
type PhaseShifter struct {
	Base     `yaml:",inline"`
	PhaseDeg float64 `json:"phaseDeg" yaml:"phaseDeg"`
}

func NewPhaseShifter(x, y, phaseDeg float64) *PhaseShifter {
	return &PhaseShifter{
		Base:     Base{CompID: newID(), X: x, Y: y},
		PhaseDeg: optics.NormalizeDirection(phaseDeg),
	}
}

func (p *PhaseShifter) Kind() Kind            { return KindPhaseShifter }
func (p *PhaseShifter) Clone() Component      { c := *p; return &c }
func (p *PhaseShifter) PrimaryAngle() float64 { return p.PhaseDeg }
func (p *PhaseShifter) SetPrimaryAngle(deg float64) {
	p.PhaseDeg = optics.NormalizeDirection(deg)
}

// CircularFilter projects onto one circular polarization sense.
type CircularFilter struct {
	Base       `yaml:",inline"`
	Handedness optics.Handedness `json:"handedness" yaml:"handedness"`
}

func NewCircularFilter(x, y float64, h optics.Handedness) *CircularFilter {
	return &CircularFilter{
		Base:       Base{CompID: newID(), X: x, Y: y},
		Handedness: h,
	}
}

func (c *CircularFilter) Kind() Kind       { return KindCircularFilter }
func (c *CircularFilter) Clone() Component { cc := *c; return &cc }

// BeamCombiner coherently sums every beam arriving in the same propagation
// wave and emits the sum along its output direction.
type BeamCombiner struct {
	Base         `yaml:",inline"`
	OutputDirDeg float64 `json:"outputDirDeg" yaml:"outputDirDeg"`
}

func NewBeamCombiner(x, y, outputDirDeg float64) *BeamCombiner {
	return &BeamCombiner{
		Base:         Base{CompID: newID(), X: x, Y: y},
		OutputDirDeg: optics.NormalizeDirection(outputDirDeg),
	}
}

func (b *BeamCombiner) Kind() Kind       { return KindBeamCombiner }
func (b *BeamCombiner) Clone() Component { c := *b; return &c }

// Isolator passes light one way through a Faraday-rotation-plus-polarizer
// train and blocks the reverse direction completely. Blocked beams continue
// as explicit zero-intensity beams so coincidence counters can still see
// them arrive.
type Isolator struct {
	Base          `yaml:",inline"`
	AllowedDirDeg float64 `json:"allowedDirDeg" yaml:"allowedDirDeg"`
	AxisDeg       float64 `json:"axisDeg" yaml:"axisDeg"`
	FaradayDeg    float64 `json:"faradayDeg" yaml:"faradayDeg"`
}

func NewIsolator(x, y, allowedDirDeg float64) *Isolator {
	return &Isolator{
		Base:          Base{CompID: newID(), X: x, Y: y},
		AllowedDirDeg: optics.NormalizeDirection(allowedDirDeg),
		AxisDeg:       0,
		FaradayDeg:    45,
	}
}

func (i *Isolator) Kind() Kind       { return KindIsolator }
func (i *Isolator) Clone() Component { c := *i; return &c }

// Sensor terminates beams and reports whether the received light satisfies
// its intensity, angle, and polarization-kind requirements.
type Sensor struct {
	Base              `yaml:",inline"`
	ThresholdPct      float64          `json:"thresholdPct" yaml:"thresholdPct"`
	RequiredAngleDeg  *float64         `json:"requiredAngleDeg,omitempty" yaml:"requiredAngleDeg,omitempty"`
	AngleToleranceDeg float64          `json:"angleToleranceDeg,omitempty" yaml:"angleToleranceDeg,omitempty"`
	RequiredState     optics.StateKind `json:"requiredState,omitempty" yaml:"requiredState,omitempty"`
}

func NewSensor(x, y, thresholdPct float64) *Sensor {
	return &Sensor{
		Base:              Base{CompID: newID(), X: x, Y: y},
		ThresholdPct:      thresholdPct,
		AngleToleranceDeg: 10,
	}
}

func (s *Sensor) Kind() Kind { return KindSensor }
func (s *Sensor) Clone() Component {
	c := *s
	if s.RequiredAngleDeg != nil {
		a := *s.RequiredAngleDeg
		c.RequiredAngleDeg = &a
	}
	return &c
}

// CoincidenceCounter activates only when the configured number of beams
// arrive together with the required relative phase. When Forward is set and
// the criteria are met it emits the coherent sum along the common direction.
type CoincidenceCounter struct {
	Base              `yaml:",inline"`
	RequiredCount     int     `json:"requiredCount" yaml:"requiredCount"`
	RequiredPhaseDeg  float64 `json:"requiredPhaseDeg" yaml:"requiredPhaseDeg"`
	PhaseToleranceDeg float64 `json:"phaseToleranceDeg" yaml:"phaseToleranceDeg"`
	Forward           bool    `json:"forward,omitempty" yaml:"forward,omitempty"`
}

func NewCoincidenceCounter(x, y float64, requiredCount int) *CoincidenceCounter {
	return &CoincidenceCounter{
		Base:              Base{CompID: newID(), X: x, Y: y},
		RequiredCount:     requiredCount,
		PhaseToleranceDeg: 15,
	}
}

func (c *CoincidenceCounter) Kind() Kind       { return KindCoincidenceCounter }
func (c *CoincidenceCounter) Clone() Component { cc := *c; return &cc }
