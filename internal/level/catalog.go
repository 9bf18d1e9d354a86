package level

import "github.com/piwi3910/PolarBench/internal/model"

// Catalog returns the built-in teaching levels in play order. Each call
// returns fresh values, so callers may mutate them freely.
func Catalog() []*Level {
	return []*Level{
		newMalusLevel(),
		newMediatorLevel(),
		newOneWayLevel(),
		newCircularGateLevel(),
		newMachZehnderLevel(),
	}
}

// ByID finds a built-in level.
func ByID(id string) (*Level, bool) {
	for _, l := range Catalog() {
		if l.ID == id {
			return l, true
		}
	}
	return nil, false
}

func floatPtr(v float64) *float64 { return &v }

func newMalusLevel() *Level {
	l := &Level{
		ID:          "align-the-analyzer",
		Title:       "Align the Analyzer",
		Description: "The laser is polarized horizontally and the analyzer stands crossed. Turn the analyzer until the detector reads diagonal light.",
		Difficulty:  1,
		Par:         1,
		Board: BoardSpec{
			Components: []ComponentSpec{
				{ID: "laser", Kind: model.KindEmitter, X: 10, Y: 50, AngleDeg: 0, DirectionDeg: 0, Locked: true},
				{ID: "analyzer", Kind: model.KindPolarizer, X: 40, Y: 50, AngleDeg: 90},
				{ID: "detector", Kind: model.KindSensor, X: 80, Y: 50, ThresholdPct: 40, Locked: true},
			},
		},
		Criteria: []Criterion{
			{SensorID: "detector", MinIntensityPct: 40, RequiredAngleDeg: floatPtr(45)},
		},
	}
	l.applyDefaults()
	return l
}

func newMediatorLevel() *Level {
	l := &Level{
		ID:          "the-mediator",
		Title:       "The Mediator",
		Description: "Crossed polarizers pass nothing, yet a third one between them can open the path. Find the mediator angle.",
		Difficulty:  2,
		Par:         1,
		Board: BoardSpec{
			Components: []ComponentSpec{
				{ID: "laser", Kind: model.KindEmitter, X: 10, Y: 50, AngleDeg: 0, DirectionDeg: 0, Locked: true},
				{ID: "mediator", Kind: model.KindPolarizer, X: 45, Y: 50, AngleDeg: 0},
				{ID: "analyzer", Kind: model.KindPolarizer, X: 70, Y: 50, AngleDeg: 90, Locked: true},
				{ID: "detector", Kind: model.KindSensor, X: 90, Y: 50, ThresholdPct: 10, Locked: true},
			},
		},
		Criteria: []Criterion{
			{SensorID: "detector", MinIntensityPct: 10},
		},
	}
	l.applyDefaults()
	return l
}

func newOneWayLevel() *Level {
	l := &Level{
		ID:          "one-way-street",
		Title:       "One-Way Street",
		Description: "The isolator only passes light moving right. Steer the beam up to the detector with the mirror.",
		Difficulty:  2,
		Par:         1,
		Board: BoardSpec{
			Components: []ComponentSpec{
				{ID: "laser", Kind: model.KindEmitter, X: 10, Y: 50, AngleDeg: 0, DirectionDeg: 0, Locked: true},
				{ID: "valve", Kind: model.KindIsolator, X: 35, Y: 50, DirectionDeg: 0, Locked: true},
				{ID: "steer", Kind: model.KindMirror, X: 60, Y: 50, AngleDeg: 0},
				{ID: "detector", Kind: model.KindSensor, X: 60, Y: 80, ThresholdPct: 30, Locked: true},
			},
		},
		Criteria: []Criterion{
			{SensorID: "detector", MinIntensityPct: 30},
		},
	}
	l.applyDefaults()
	return l
}

func newCircularGateLevel() *Level {
	l := &Level{
		ID:          "circular-handshake",
		Title:       "Circular Handshake",
		Description: "The gate only admits left-circular light. Turn the laser's polarization so the quarter-wave plate produces the sense the gate wants.",
		Difficulty:  3,
		Par:         1,
		Board: BoardSpec{
			Components: []ComponentSpec{
				{ID: "laser", Kind: model.KindEmitter, X: 10, Y: 50, AngleDeg: 45, DirectionDeg: 0},
				{ID: "plate", Kind: model.KindQuarterWavePlate, X: 35, Y: 50, AngleDeg: 0, Locked: true},
				{ID: "gate", Kind: model.KindCircularFilter, X: 60, Y: 50, Handedness: "left", Locked: true},
				{ID: "detector", Kind: model.KindSensor, X: 85, Y: 50, ThresholdPct: 50, RequiredState: "circular-l", Locked: true},
			},
		},
		Criteria: []Criterion{
			{SensorID: "detector", MinIntensityPct: 50},
		},
	}
	l.applyDefaults()
	return l
}

func newMachZehnderLevel() *Level {
	l := &Level{
		ID:          "balanced-paths",
		Title:       "Balanced Paths",
		Description: "Two arms of an interferometer meet again at the combiner. Tune the phase shifter until the paths interfere constructively.",
		Difficulty:  4,
		Par:         1,
		Board: BoardSpec{
			Components: []ComponentSpec{
				{ID: "laser", Kind: model.KindEmitter, X: 10, Y: 50, AngleDeg: 45, DirectionDeg: 0, Locked: true},
				{ID: "split", Kind: model.KindSplitter, X: 30, Y: 50, AngleDeg: 0, Locked: true},
				{ID: "fold-low", Kind: model.KindMirror, X: 60, Y: 50, AngleDeg: 45, Locked: true},
				{ID: "fold-high", Kind: model.KindMirror, X: 30, Y: 70, AngleDeg: 45, Locked: true},
				{ID: "phase", Kind: model.KindPhaseShifter, X: 45, Y: 70, AngleDeg: 180},
				{ID: "combine", Kind: model.KindBeamCombiner, X: 60, Y: 70, DirectionDeg: 0, Locked: true},
				{ID: "analyzer", Kind: model.KindPolarizer, X: 70, Y: 70, AngleDeg: 45, Locked: true},
				{ID: "detector", Kind: model.KindSensor, X: 85, Y: 70, ThresholdPct: 90, Locked: true},
			},
		},
		Criteria: []Criterion{
			{SensorID: "detector", MinIntensityPct: 90},
		},
	}
	l.applyDefaults()
	return l
}
