package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/optics"
)

func mustBoard(t *testing.T, comps ...model.Component) *model.Board {
	t.Helper()
	b, err := model.NewBoard(model.DefaultBoardSize, model.DefaultBoardSize, comps...)
	require.NoError(t, err)
	return b
}

func sensorOf(t *testing.T, res *TraceResult, id string) model.SensorState {
	t.Helper()
	st, ok := res.Sensors[id]
	require.True(t, ok, "no state recorded for detector %s", id)
	return st
}

func f64(v float64) *float64 { return &v }

// ─── Straight-Line Propagation ────────────────────────────────────

func TestTrace_MalusChain(t *testing.T) {
	tests := []struct {
		name        string
		axisDeg     float64
		wantPct     float64
		wantArrives bool
	}{
		{"parallel axis", 0, 100, true},
		{"30 degrees", 30, 75, true},
		{"45 degrees", 45, 50, true},
		{"60 degrees", 60, 25, true},
		{"crossed axis", 90, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sensor := model.NewSensor(70, 50, 1)
			board := mustBoard(t,
				model.NewEmitter(10, 50, 0, 0),
				model.NewPolarizer(40, 50, tc.axisDeg),
				sensor,
			)

			res := NewTracer().Trace(board)
			st := sensorOf(t, res, sensor.ID())

			assert.InDelta(t, tc.wantPct, st.IntensityPct, 1e-9)
			if tc.wantArrives {
				assert.Equal(t, 1, st.BeamCount)
				require.NotNil(t, st.AngleDeg)
				assert.InDelta(t, tc.axisDeg, *st.AngleDeg, 1e-9)
			} else {
				assert.Equal(t, 0, st.BeamCount)
				assert.Nil(t, st.AngleDeg)
			}
		})
	}
}

func TestTrace_ThreePolarizerParadox(t *testing.T) {
	// Crossed polarizers block everything; a 45° mediator between them
	// restores an eighth of the light.
	darkSensor := model.NewSensor(70, 50, 1)
	dark := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		model.NewPolarizer(40, 50, 90),
		darkSensor,
	)
	res := NewTracer().Trace(dark)
	assert.Zero(t, sensorOf(t, res, darkSensor.ID()).IntensityPct)

	litSensor := model.NewSensor(70, 50, 1)
	lit := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		model.NewPolarizer(30, 50, 45),
		model.NewPolarizer(50, 50, 90),
		litSensor,
	)
	res = NewTracer().Trace(lit)
	st := sensorOf(t, res, litSensor.ID())
	assert.InDelta(t, 12.5, st.IntensityPct, 1e-9)
	require.NotNil(t, st.AngleDeg)
	assert.InDelta(t, 90, *st.AngleDeg, 1e-9)
}

func TestTrace_RecordsSegments(t *testing.T) {
	sensor := model.NewSensor(70, 50, 1)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		model.NewPolarizer(40, 50, 45),
		sensor,
	)

	res := NewTracer().Trace(board)

	require.Len(t, res.Beams, 2)
	first, second := res.Beams[0], res.Beams[1]

	assert.Equal(t, model.TerminationReason(""), first.Terminal)
	assert.InDelta(t, 10.0, first.FromX, 1e-9)
	assert.InDelta(t, 40.0, first.ToX, 1e-9)
	assert.InDelta(t, 100.0, first.IntensityPct(), 1e-9)

	assert.Equal(t, model.TermDetector, second.Terminal)
	assert.InDelta(t, 40.0, second.FromX, 1e-9)
	assert.InDelta(t, 70.0, second.ToX, 1e-9)
	assert.InDelta(t, 50.0, second.IntensityPct(), 1e-9)
	assert.Equal(t, 633.0, second.WavelengthNm)
	assert.NotEmpty(t, second.EmitterID)
}

func TestTrace_BeamExitsBoard(t *testing.T) {
	board := mustBoard(t, model.NewEmitter(50, 50, 0, 45))

	res := NewTracer().Trace(board)

	require.Len(t, res.Beams, 1)
	beam := res.Beams[0]
	assert.Equal(t, model.TermExited, beam.Terminal)
	assert.InDelta(t, 100.0, beam.ToX, 1e-9)
	assert.InDelta(t, 100.0, beam.ToY, 1e-9)
}

func TestTrace_EmitterIsOpaque(t *testing.T) {
	sensor := model.NewSensor(80, 50, 1)
	blocker := model.NewEmitter(50, 50, 0, 90)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		blocker,
		sensor,
	)

	res := NewTracer().Trace(board)

	var opaque *model.Beam
	for i := range res.Beams {
		if res.Beams[i].Terminal == model.TermOpaque {
			opaque = &res.Beams[i]
		}
	}
	require.NotNil(t, opaque, "expected a beam stopped by the emitter housing")
	assert.InDelta(t, 50.0, opaque.ToX, 1e-9)
	assert.InDelta(t, 50.0, opaque.ToY, 1e-9)
	assert.Zero(t, sensorOf(t, res, sensor.ID()).BeamCount)
}

func TestTrace_EmptyBoard(t *testing.T) {
	res := NewTracer().Trace(model.NewDefaultBoard())

	assert.Empty(t, res.Beams)
	assert.Empty(t, res.Sensors)
	assert.Zero(t, res.BeamsCreated)
}

// ─── Mirrors and Splitters ────────────────────────────────────

func TestTrace_MirrorReflectsOffAxis(t *testing.T) {
	// A 30° surface turns a horizontal beam to 60°; the hit test has to cope
	// with the non-cardinal ray.
	sensor := model.NewSensor(50, 50+20*math.Sin(math.Pi/3), 1)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		model.NewMirror(40, 50, 30),
		sensor,
	)

	res := NewTracer().Trace(board)

	st := sensorOf(t, res, sensor.ID())
	assert.Equal(t, 1, st.BeamCount)
	assert.InDelta(t, 100.0, st.IntensityPct, 1e-9)

	require.Len(t, res.Beams, 2)
	assert.InDelta(t, 60.0, res.Beams[1].DirectionDeg, 1e-9)
}

func TestTrace_SplitterConservesIntensity(t *testing.T) {
	tests := []struct {
		name         string
		polDeg       float64
		wantStraight float64
		wantUp       float64
	}{
		{"aligned with axis", 0, 100, 0},
		{"30 degrees", 30, 75, 25},
		{"diagonal", 45, 50, 50},
		{"60 degrees", 60, 25, 75},
		{"orthogonal to axis", 90, 0, 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			straight := model.NewSensor(80, 50, 0)
			up := model.NewSensor(50, 80, 0)
			board := mustBoard(t,
				model.NewEmitter(10, 50, tc.polDeg, 0),
				model.NewSplitter(50, 50, 0),
				straight, up,
			)

			res := NewTracer().Trace(board)
			stStraight := sensorOf(t, res, straight.ID())
			stUp := sensorOf(t, res, up.ID())

			assert.InDelta(t, tc.wantStraight, stStraight.IntensityPct, 1e-9)
			assert.InDelta(t, tc.wantUp, stUp.IntensityPct, 1e-9)
			assert.InDelta(t, 100.0, stStraight.IntensityPct+stUp.IntensityPct, 1e-9)

			if tc.wantStraight == 0 {
				assert.Zero(t, stStraight.BeamCount, "empty branch should not emit a beam")
			}
			if tc.wantUp == 0 {
				assert.Zero(t, stUp.BeamCount, "empty branch should not emit a beam")
			}
		})
	}
}

// ─── Interference ────────────────────────────────────

// buildMachZehnder wires the standard two-arm interferometer: a polarizing
// splitter separates H and V, mirrors fold the arms onto a combiner, and a
// 45° analyzer in front of the sensor turns the recombined state back into
// a visible fringe.
func buildMachZehnder(t *testing.T, phaseDeg float64) (*model.Board, *model.Sensor) {
	t.Helper()
	sensor := model.NewSensor(85, 70, 1)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 45, 0),
		model.NewSplitter(30, 50, 0),
		model.NewMirror(60, 50, 45),
		model.NewMirror(30, 70, 45),
		model.NewPhaseShifter(45, 70, phaseDeg),
		model.NewBeamCombiner(60, 70, 0),
		model.NewPolarizer(70, 70, 45),
		sensor,
	)
	return board, sensor
}

func TestTrace_MachZehnderFringe(t *testing.T) {
	tests := []struct {
		name     string
		phaseDeg float64
		wantPct  float64
	}{
		{"constructive", 0, 100},
		{"quadrature", 90, 50},
		{"destructive", 180, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			board, sensor := buildMachZehnder(t, tc.phaseDeg)
			res := NewTracer().Trace(board)
			st := sensorOf(t, res, sensor.ID())

			assert.InDelta(t, tc.wantPct, st.IntensityPct, 1e-9)
			if tc.wantPct == 0 {
				assert.Zero(t, st.BeamCount)
			}
		})
	}
}

func TestTrace_MergeOrderIndependence(t *testing.T) {
	// Three beams with distinct polarizations and phases converge on one
	// sensor. Reordering the component declarations must not change the
	// coherent sum, the classification, or the relative phase.
	build := func() ([]model.Component, *model.Sensor) {
		sensor := model.NewSensor(50, 50, 0)
		comps := []model.Component{
			model.NewEmitter(50, 10, 0, 90),
			model.NewPhaseShifter(50, 30, 70),
			model.NewEmitter(10, 50, 30, 0),
			model.NewEmitter(90, 50, 60, 180),
			sensor,
		}
		return comps, sensor
	}

	trace := func(order []int) model.SensorState {
		comps, sensor := build()
		ordered := make([]model.Component, 0, len(comps))
		for _, idx := range order {
			ordered = append(ordered, comps[idx])
		}
		res := NewTracer().Trace(mustBoard(t, ordered...))
		return sensorOf(t, res, sensor.ID())
	}

	ref := trace([]int{0, 1, 2, 3, 4})
	orders := [][]int{
		{4, 3, 2, 1, 0},
		{2, 4, 0, 3, 1},
		{3, 0, 4, 1, 2},
	}
	for _, order := range orders {
		st := trace(order)
		assert.Equal(t, ref.BeamCount, st.BeamCount)
		assert.Equal(t, ref.StateKind, st.StateKind)
		assert.InDelta(t, ref.IntensityPct, st.IntensityPct, 1e-9)
		require.NotNil(t, st.RelPhaseDeg)
		require.NotNil(t, ref.RelPhaseDeg)
		assert.InDelta(t, *ref.RelPhaseDeg, *st.RelPhaseDeg, 1e-9)
	}
	assert.Equal(t, 3, ref.BeamCount)
	assert.InDelta(t, 70.0, *ref.RelPhaseDeg, 1e-9)
}

// ─── Circular Polarization ────────────────────────────────────

func TestTrace_CircularFilterChain(t *testing.T) {
	tests := []struct {
		name     string
		polDeg   float64
		hand     optics.Handedness
		wantPass bool
	}{
		{"135 through left filter", 135, optics.LeftHanded, true},
		{"45 through left filter", 45, optics.LeftHanded, false},
		{"45 through right filter", 45, optics.RightHanded, true},
		{"135 through right filter", 135, optics.RightHanded, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sensor := model.NewSensor(75, 50, 50)
			board := mustBoard(t,
				model.NewEmitter(10, 50, tc.polDeg, 0),
				model.NewQuarterWavePlate(30, 50, 0),
				model.NewCircularFilter(50, 50, tc.hand),
				sensor,
			)

			res := NewTracer().Trace(board)
			st := sensorOf(t, res, sensor.ID())

			if !tc.wantPass {
				assert.Zero(t, st.BeamCount)
				assert.False(t, st.Activated)
				return
			}
			assert.True(t, st.Activated)
			assert.InDelta(t, 100.0, st.IntensityPct, 1e-9)
			want := optics.StateCircularLeft
			if tc.hand == optics.RightHanded {
				want = optics.StateCircularRight
			}
			assert.Equal(t, want, st.StateKind)
		})
	}
}

// ─── Sensor Criteria ────────────────────────────────────

func TestTrace_SensorCriteria(t *testing.T) {
	tests := []struct {
		name       string
		middle     model.Component
		configure  func(*model.Sensor)
		wantActive bool
	}{
		{
			name:   "angle within tolerance",
			middle: model.NewRotator(40, 50, 30),
			configure: func(s *model.Sensor) {
				s.ThresholdPct = 10
				s.RequiredAngleDeg = f64(75)
			},
			wantActive: true,
		},
		{
			name: "angle outside tolerance",
			configure: func(s *model.Sensor) {
				s.ThresholdPct = 10
				s.RequiredAngleDeg = f64(30)
			},
			wantActive: false,
		},
		{
			name:   "below threshold",
			middle: model.NewPolarizer(40, 50, 105),
			configure: func(s *model.Sensor) {
				s.ThresholdPct = 30
			},
			wantActive: false,
		},
		{
			name:   "required circular state met",
			middle: model.NewQuarterWavePlate(40, 50, 0),
			configure: func(s *model.Sensor) {
				s.ThresholdPct = 50
				s.RequiredState = optics.StateCircularRight
			},
			wantActive: true,
		},
		{
			name:   "required circular state not met",
			middle: model.NewQuarterWavePlate(40, 50, 0),
			configure: func(s *model.Sensor) {
				s.ThresholdPct = 50
				s.RequiredState = optics.StateCircularLeft
			},
			wantActive: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sensor := model.NewSensor(70, 50, 0)
			tc.configure(sensor)
			comps := []model.Component{model.NewEmitter(10, 50, 45, 0)}
			if tc.middle != nil {
				comps = append(comps, tc.middle)
			}
			comps = append(comps, sensor)

			res := NewTracer().Trace(mustBoard(t, comps...))
			st := sensorOf(t, res, sensor.ID())

			assert.Equal(t, tc.wantActive, st.Activated)
		})
	}
}

// ─── Coincidence Counters ────────────────────────────────────

func TestTrace_CoincidenceCounter(t *testing.T) {
	tests := []struct {
		name          string
		shiftDeg      float64
		requiredPhase float64
		wantActive    bool
	}{
		{"in phase", 0, 0, true},
		{"quadrature rejected", 90, 0, false},
		{"antiphase required and met", 180, 180, true},
		{"antiphase required, in phase delivered", 0, 180, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			counter := model.NewCoincidenceCounter(50, 50, 2)
			counter.RequiredPhaseDeg = tc.requiredPhase
			board := mustBoard(t,
				model.NewEmitter(10, 50, 0, 0),
				model.NewEmitter(50, 10, 0, 90),
				model.NewPhaseShifter(50, 30, tc.shiftDeg),
				counter,
			)

			res := NewTracer().Trace(board)
			st := sensorOf(t, res, counter.ID())

			assert.Equal(t, 2, st.BeamCount)
			require.NotNil(t, st.RelPhaseDeg)
			assert.InDelta(t, tc.shiftDeg, *st.RelPhaseDeg, 1e-9)
			assert.Equal(t, tc.wantActive, st.Activated)
		})
	}
}

func TestTrace_CoincidenceCounterCountMismatch(t *testing.T) {
	counter := model.NewCoincidenceCounter(50, 50, 2)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		counter,
	)

	res := NewTracer().Trace(board)
	st := sensorOf(t, res, counter.ID())

	assert.Equal(t, 1, st.BeamCount)
	assert.False(t, st.Activated)
}

func TestTrace_ForwardingCounterGatesBeam(t *testing.T) {
	counter := model.NewCoincidenceCounter(40, 50, 1)
	counter.Forward = true
	sensor := model.NewSensor(70, 50, 50)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		counter,
		sensor,
	)

	res := NewTracer().Trace(board)

	assert.True(t, sensorOf(t, res, counter.ID()).Activated)
	st := sensorOf(t, res, sensor.ID())
	assert.True(t, st.Activated)
	assert.InDelta(t, 100.0, st.IntensityPct, 1e-9)
}

func TestTrace_NonForwardingCounterAbsorbs(t *testing.T) {
	counter := model.NewCoincidenceCounter(40, 50, 1)
	sensor := model.NewSensor(70, 50, 1)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		counter,
		sensor,
	)

	res := NewTracer().Trace(board)

	assert.True(t, sensorOf(t, res, counter.ID()).Activated)
	assert.Zero(t, sensorOf(t, res, sensor.ID()).BeamCount)
}

func TestTrace_ForwardingCounterNeedsCommonDirection(t *testing.T) {
	// Two beams meeting at right angles satisfy the count but share no
	// direction, so nothing is forwarded even though the counter activates.
	counter := model.NewCoincidenceCounter(50, 50, 2)
	counter.Forward = true
	sensor := model.NewSensor(80, 50, 1)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		model.NewEmitter(50, 10, 0, 90),
		counter,
		sensor,
	)

	res := NewTracer().Trace(board)

	assert.True(t, sensorOf(t, res, counter.ID()).Activated)
	assert.Zero(t, sensorOf(t, res, sensor.ID()).BeamCount)
}

// ─── Isolators ────────────────────────────────────

func TestTrace_IsolatorForwardPass(t *testing.T) {
	sensor := model.NewSensor(70, 50, 10)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		model.NewIsolator(40, 50, 0),
		sensor,
	)

	res := NewTracer().Trace(board)
	st := sensorOf(t, res, sensor.ID())

	assert.True(t, st.Activated)
	assert.InDelta(t, 100.0, st.IntensityPct, 1e-9)
	require.NotNil(t, st.AngleDeg)
	assert.InDelta(t, 45.0, *st.AngleDeg, 1e-9)
}

func TestTrace_IsolatorBlocksReverse(t *testing.T) {
	// The blocked beam keeps propagating at zero intensity: the sensor sees
	// it arrive but cannot be activated by it.
	sensor := model.NewSensor(10, 50, 1)
	board := mustBoard(t,
		model.NewEmitter(70, 50, 0, 180),
		model.NewIsolator(40, 50, 0),
		sensor,
	)

	res := NewTracer().Trace(board)
	st := sensorOf(t, res, sensor.ID())

	assert.Equal(t, 1, st.BeamCount, "blocked beam should still arrive")
	assert.Zero(t, st.IntensityPct)
	assert.False(t, st.Activated)
	assert.Equal(t, optics.StateNone, st.StateKind)
}

// ─── Budgets and Guards ────────────────────────────────────

func TestTrace_StepGuardStopsLongChains(t *testing.T) {
	settings := DefaultTraceSettings()
	settings.MaxStepsPerBeam = 3
	sensor := model.NewSensor(85, 50, 1)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 0, 0),
		model.NewPolarizer(25, 50, 0),
		model.NewPolarizer(40, 50, 0),
		model.NewPolarizer(55, 50, 0),
		model.NewPolarizer(70, 50, 0),
		sensor,
	)

	res := NewTracerWithSettings(settings).Trace(board)

	assert.Equal(t, 1, res.GuardTerminated)
	assert.Zero(t, sensorOf(t, res, sensor.ID()).BeamCount)
	require.NotEmpty(t, res.Beams)
	last := res.Beams[len(res.Beams)-1]
	assert.Equal(t, model.TermGuard, last.Terminal)
	assert.InDelta(t, 70.0, last.ToX, 1e-9)
}

func TestTrace_BeamBudgetDropsBranches(t *testing.T) {
	settings := DefaultTraceSettings()
	settings.MaxBeams = 2
	straight := model.NewSensor(80, 50, 25)
	up := model.NewSensor(50, 80, 1)
	board := mustBoard(t,
		model.NewEmitter(10, 50, 45, 0),
		model.NewSplitter(50, 50, 0),
		straight, up,
	)

	res := NewTracerWithSettings(settings).Trace(board)

	assert.Equal(t, 2, res.BeamsCreated)
	assert.Equal(t, 1, res.GuardTerminated)
	assert.True(t, sensorOf(t, res, straight.ID()).Activated)
	assert.Zero(t, sensorOf(t, res, up.ID()).BeamCount)
}
