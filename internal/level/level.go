// Package level defines puzzle levels: a board layout, the success criteria
// read off the sensors, and a built-in teaching catalog. Levels load from
// YAML files or come compiled in.
package level

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/optics"
)

// Level is one puzzle: a preset board, the dials the player may turn (the
// unlocked components), and the sensor criteria that count as solved.
type Level struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Difficulty  int         `json:"difficulty" yaml:"difficulty"`
	Par         int         `json:"par,omitempty" yaml:"par,omitempty"`
	Board       BoardSpec   `json:"board" yaml:"board"`
	Criteria    []Criterion `json:"criteria" yaml:"criteria"`
}

// BoardSpec describes the component arrangement of a level.
type BoardSpec struct {
	Width      float64         `json:"width,omitempty" yaml:"width,omitempty"`
	Height     float64         `json:"height,omitempty" yaml:"height,omitempty"`
	Components []ComponentSpec `json:"components" yaml:"components"`
}

// ComponentSpec is the flat YAML form of one component. AngleDeg carries the
// kind's primary angle (polarizer axis, mirror surface, phase shift, ...);
// DirectionDeg carries propagation directions (emitter, combiner output,
// isolator pass direction). Fields that do not apply to a kind are ignored.
type ComponentSpec struct {
	ID       string     `json:"id" yaml:"id"`
	Kind     model.Kind `json:"kind" yaml:"kind"`
	X        float64    `json:"x" yaml:"x"`
	Y        float64    `json:"y" yaml:"y"`
	AngleDeg float64    `json:"angleDeg,omitempty" yaml:"angleDeg,omitempty"`
	Locked   bool       `json:"locked,omitempty" yaml:"locked,omitempty"`

	DirectionDeg float64 `json:"directionDeg,omitempty" yaml:"directionDeg,omitempty"`
	Intensity    float64 `json:"intensity,omitempty" yaml:"intensity,omitempty"`
	WavelengthNm float64 `json:"wavelengthNm,omitempty" yaml:"wavelengthNm,omitempty"`

	Handedness string `json:"handedness,omitempty" yaml:"handedness,omitempty"`

	ThresholdPct      float64  `json:"thresholdPct,omitempty" yaml:"thresholdPct,omitempty"`
	RequiredAngleDeg  *float64 `json:"requiredAngleDeg,omitempty" yaml:"requiredAngleDeg,omitempty"`
	AngleToleranceDeg float64  `json:"angleToleranceDeg,omitempty" yaml:"angleToleranceDeg,omitempty"`
	RequiredState     string   `json:"requiredState,omitempty" yaml:"requiredState,omitempty"`

	RequiredCount     int     `json:"requiredCount,omitempty" yaml:"requiredCount,omitempty"`
	RequiredPhaseDeg  float64 `json:"requiredPhaseDeg,omitempty" yaml:"requiredPhaseDeg,omitempty"`
	PhaseToleranceDeg float64 `json:"phaseToleranceDeg,omitempty" yaml:"phaseToleranceDeg,omitempty"`
	Forward           bool    `json:"forward,omitempty" yaml:"forward,omitempty"`
}

// Criterion is one success condition, checked against the sensor state the
// propagation pass produced for SensorID.
type Criterion struct {
	SensorID          string   `json:"sensorId" yaml:"sensorId"`
	MustActivate      *bool    `json:"mustActivate,omitempty" yaml:"mustActivate,omitempty"`
	MinIntensityPct   float64  `json:"minIntensityPct,omitempty" yaml:"minIntensityPct,omitempty"`
	RequiredAngleDeg  *float64 `json:"requiredAngleDeg,omitempty" yaml:"requiredAngleDeg,omitempty"`
	AngleToleranceDeg float64  `json:"angleToleranceDeg,omitempty" yaml:"angleToleranceDeg,omitempty"`
}

func (c Criterion) mustActivate() bool {
	return c.MustActivate == nil || *c.MustActivate
}

// Load reads and validates a level definition from a YAML file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level file %s: %w", path, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level file %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes a YAML level definition, applies defaults, and validates it.
func Parse(data []byte) (*Level, error) {
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse level YAML: %w", err)
	}
	l.applyDefaults()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// applyDefaults fills the optional fields older or terser level files omit.
func (l *Level) applyDefaults() {
	if l.Board.Width == 0 {
		l.Board.Width = model.DefaultBoardSize
	}
	if l.Board.Height == 0 {
		l.Board.Height = model.DefaultBoardSize
	}
	if l.Difficulty == 0 {
		l.Difficulty = 1
	}
	for i := range l.Board.Components {
		s := &l.Board.Components[i]
		switch s.Kind {
		case model.KindEmitter:
			if s.Intensity == 0 {
				s.Intensity = 1
			}
			if s.WavelengthNm == 0 {
				s.WavelengthNm = 633
			}
		case model.KindSensor:
			if s.AngleToleranceDeg == 0 {
				s.AngleToleranceDeg = 10
			}
		case model.KindCoincidenceCounter:
			if s.PhaseToleranceDeg == 0 {
				s.PhaseToleranceDeg = 15
			}
		}
	}
	for i := range l.Criteria {
		c := &l.Criteria[i]
		if c.MustActivate == nil {
			t := true
			c.MustActivate = &t
		}
		if c.AngleToleranceDeg == 0 {
			c.AngleToleranceDeg = 10
		}
	}
}

// Validate checks the level definition, including that the board builds and
// that every criterion references a detector on it.
func (l *Level) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("level id is required")
	}
	if l.Title == "" {
		return fmt.Errorf("level %s: title is required", l.ID)
	}
	if l.Difficulty < 1 || l.Difficulty > 5 {
		return fmt.Errorf("level %s: difficulty must be between 1 and 5, got %d", l.ID, l.Difficulty)
	}
	if l.Par < 0 {
		return fmt.Errorf("level %s: par cannot be negative", l.ID)
	}
	if len(l.Board.Components) == 0 {
		return fmt.Errorf("level %s: at least one component is required", l.ID)
	}
	for i, s := range l.Board.Components {
		if s.ID == "" {
			return fmt.Errorf("level %s: component %d has no id", l.ID, i)
		}
	}
	if len(l.Criteria) == 0 {
		return fmt.Errorf("level %s: at least one criterion is required", l.ID)
	}

	board, err := l.BuildBoard()
	if err != nil {
		return fmt.Errorf("level %s: %w", l.ID, err)
	}
	if len(board.Emitters()) == 0 {
		return fmt.Errorf("level %s: no emitter on the board", l.ID)
	}
	for i, c := range l.Criteria {
		comp, ok := board.Component(c.SensorID)
		if !ok {
			return fmt.Errorf("level %s: criterion %d references unknown component %q", l.ID, i, c.SensorID)
		}
		switch comp.Kind() {
		case model.KindSensor, model.KindCoincidenceCounter:
		default:
			return fmt.Errorf("level %s: criterion %d: component %q is a %s, not a detector", l.ID, i, c.SensorID, comp.Kind())
		}
		if c.MinIntensityPct < 0 || c.MinIntensityPct > 100 {
			return fmt.Errorf("level %s: criterion %d: minIntensityPct must be in [0,100], got %g", l.ID, i, c.MinIntensityPct)
		}
	}
	return nil
}

// BuildBoard instantiates the level's components onto a fresh board.
func (l *Level) BuildBoard() (*model.Board, error) {
	return l.Board.Build()
}

// Build instantiates the spec's components onto a fresh board.
func (b BoardSpec) Build() (*model.Board, error) {
	comps := make([]model.Component, 0, len(b.Components))
	for _, s := range b.Components {
		c, err := s.build()
		if err != nil {
			return nil, fmt.Errorf("component %q: %w", s.ID, err)
		}
		comps = append(comps, c)
	}
	return model.NewBoard(b.Width, b.Height, comps...)
}

func (s ComponentSpec) build() (model.Component, error) {
	base := model.Base{CompID: s.ID, X: s.X, Y: s.Y, Locked: s.Locked}
	switch s.Kind {
	case model.KindEmitter:
		return &model.Emitter{
			Base:            base,
			PolarizationDeg: optics.NormalizeAxis(s.AngleDeg),
			DirectionDeg:    optics.NormalizeDirection(s.DirectionDeg),
			Intensity:       s.Intensity,
			WavelengthNm:    s.WavelengthNm,
		}, nil
	case model.KindPolarizer:
		return &model.Polarizer{Base: base, AxisDeg: optics.NormalizeAxis(s.AngleDeg)}, nil
	case model.KindMirror:
		return &model.Mirror{Base: base, SurfaceDeg: optics.NormalizeAxis(s.AngleDeg)}, nil
	case model.KindSplitter:
		return &model.Splitter{Base: base, CrystalAxisDeg: optics.NormalizeAxis(s.AngleDeg)}, nil
	case model.KindRotator:
		return &model.Rotator{Base: base, AngleDeg: s.AngleDeg}, nil
	case model.KindQuarterWavePlate:
		return &model.QuarterWavePlate{Base: base, FastAxisDeg: optics.NormalizeAxis(s.AngleDeg)}, nil
	case model.KindHalfWavePlate:
		return &model.HalfWavePlate{Base: base, FastAxisDeg: optics.NormalizeAxis(s.AngleDeg)}, nil
	case model.KindPhaseShifter:
		return &model.PhaseShifter{Base: base, PhaseDeg: optics.NormalizeDirection(s.AngleDeg)}, nil
	case model.KindCircularFilter:
		h, err := parseHandedness(s.Handedness)
		if err != nil {
			return nil, err
		}
		return &model.CircularFilter{Base: base, Handedness: h}, nil
	case model.KindBeamCombiner:
		return &model.BeamCombiner{Base: base, OutputDirDeg: optics.NormalizeDirection(s.DirectionDeg)}, nil
	case model.KindIsolator:
		iso := &model.Isolator{
			Base:          base,
			AllowedDirDeg: optics.NormalizeDirection(s.DirectionDeg),
			AxisDeg:       optics.NormalizeAxis(s.AngleDeg),
			FaradayDeg:    45,
		}
		return iso, nil
	case model.KindSensor:
		sn := &model.Sensor{
			Base:              base,
			ThresholdPct:      s.ThresholdPct,
			AngleToleranceDeg: s.AngleToleranceDeg,
		}
		if s.RequiredAngleDeg != nil {
			a := *s.RequiredAngleDeg
			sn.RequiredAngleDeg = &a
		}
		if s.RequiredState != "" {
			k, err := parseStateKind(s.RequiredState)
			if err != nil {
				return nil, err
			}
			sn.RequiredState = k
		}
		return sn, nil
	case model.KindCoincidenceCounter:
		return &model.CoincidenceCounter{
			Base:              base,
			RequiredCount:     s.RequiredCount,
			RequiredPhaseDeg:  s.RequiredPhaseDeg,
			PhaseToleranceDeg: s.PhaseToleranceDeg,
			Forward:           s.Forward,
		}, nil
	default:
		return nil, fmt.Errorf("unknown component kind %q", s.Kind)
	}
}

func parseHandedness(s string) (optics.Handedness, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return optics.LeftHanded, nil
	case "right":
		return optics.RightHanded, nil
	default:
		return optics.LeftHanded, fmt.Errorf("handedness must be left or right, got %q", s)
	}
}

func parseStateKind(s string) (optics.StateKind, error) {
	switch strings.ToLower(s) {
	case "linear":
		return optics.StateLinear, nil
	case "circular-l":
		return optics.StateCircularLeft, nil
	case "circular-r":
		return optics.StateCircularRight, nil
	case "elliptical":
		return optics.StateElliptical, nil
	default:
		return optics.StateNone, fmt.Errorf("unknown required state %q", s)
	}
}
