package engine

import (
	"log"
	"math"

	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/optics"
)

// TraceSettings bound one propagation pass. The defaults comfortably cover
// every teaching board while keeping looped topologies (Sagnac-style rings)
// finite.
type TraceSettings struct {
	MaxStepsPerBeam int     // component hops before a beam counts as lost
	MaxBeams        int     // total beams created per pass (seeds + branches)
	HitEpsilon      float64 // perpendicular distance for a ray to hit a component
	AbsorbEpsilon   float64 // intensity below which a beam is absorbed
}

// DefaultTraceSettings returns the bounds used by the interactive app.
func DefaultTraceSettings() TraceSettings {
	return TraceSettings{
		MaxStepsPerBeam: 64,
		MaxBeams:        256,
		HitEpsilon:      0.25,
		AbsorbEpsilon:   1e-9,
	}
}

// TraceResult is the complete outcome of one propagation pass.
type TraceResult struct {
	Beams           []model.Beam                 `json:"beams"`
	Sensors         map[string]model.SensorState `json:"sensors"`
	GuardTerminated int                          `json:"guardTerminated"`
	BeamsCreated    int                          `json:"beamsCreated"`
}

// Tracer propagates beams across board snapshots. It is stateless between
// calls; one Tracer can serve any number of boards.
type Tracer struct {
	settings TraceSettings
}

// NewTracer returns a tracer with default settings.
func NewTracer() *Tracer {
	return &Tracer{settings: DefaultTraceSettings()}
}

// NewTracerWithSettings returns a tracer with explicit bounds.
func NewTracerWithSettings(s TraceSettings) *Tracer {
	return &Tracer{settings: s}
}

// flight is one in-flight beam between component hits.
type flight struct {
	x, y         float64
	dirDeg       float64
	jones        optics.Vec
	wavelengthNm float64
	emitterID    string
	steps        int
	explicitZero bool // blocked-isolator product: carries presence, no energy
}

// arrival is a beam buffered at a merge node.
type arrival struct {
	jones        optics.Vec
	dirDeg       float64
	wavelengthNm float64
	emitterID    string
	steps        int
	explicitZero bool
}

type mergeBuffer struct {
	arrivals  []arrival
	fired     bool
	forwarded bool
}

// pass carries the working state of a single Trace invocation.
type pass struct {
	set     TraceSettings
	board   *model.Board
	res     *TraceResult
	buffers map[string]*mergeBuffer
	created int
	guarded int
}

// Trace seeds one beam per emitter and propagates until every beam has
// terminated. Beams reaching a sensor, coincidence counter, or beam combiner
// buffer there; once the board is quiescent the pending merge nodes fire
// simultaneously, each coherently summing its buffered Jones vectors, and
// propagation resumes with their outputs. Every merge node fires at most
// once per pass.
func (t *Tracer) Trace(board *model.Board) *TraceResult {
	p := &pass{
		set:     t.settings,
		board:   board,
		res:     &TraceResult{Sensors: make(map[string]model.SensorState)},
		buffers: make(map[string]*mergeBuffer),
	}

	flights := p.seed()
	for {
		for len(flights) > 0 {
			var next []flight
			for _, f := range flights {
				next = append(next, p.step(f)...)
			}
			flights = next
		}
		flights = p.fireMergeNodes()
		if len(flights) == 0 {
			break
		}
	}
	p.finalizeDetectors()

	p.res.BeamsCreated = p.created
	p.res.GuardTerminated = p.guarded
	if p.guarded > 0 {
		log.Printf("engine: %d beam(s) terminated by the cycle guard", p.guarded)
	}
	return p.res
}

func (p *pass) seed() []flight {
	var flights []flight
	for _, e := range p.board.Emitters() {
		intensity := math.Min(math.Max(e.Intensity, 0), 1)
		flights = append(flights, flight{
			x:            e.X,
			y:            e.Y,
			dirDeg:       e.DirectionDeg,
			jones:        optics.Scale(optics.LinearVec(e.PolarizationDeg), math.Sqrt(intensity)),
			wavelengthNm: e.WavelengthNm,
			emitterID:    e.ID(),
		})
		p.created++
	}
	return flights
}

// step advances one flight to its next component or off the board, applies
// the component contract, and returns the continuing flights.
func (p *pass) step(f flight) []flight {
	if !f.explicitZero && optics.Intensity(f.jones) < p.set.AbsorbEpsilon {
		return nil
	}

	comp, hit := p.nextHit(f)
	if !hit {
		ex, ey := p.edgeExit(f)
		p.record(f, ex, ey, model.TermExited)
		return nil
	}

	pos := comp.Position()
	f.steps++
	if f.steps > p.set.MaxStepsPerBeam {
		p.record(f, pos.X, pos.Y, model.TermGuard)
		p.guarded++
		return nil
	}

	if IsMergeNode(comp.Kind()) {
		term := model.TermDetector
		if comp.Kind() == model.KindBeamCombiner {
			term = ""
		}
		p.record(f, pos.X, pos.Y, term)
		p.buffer(comp.ID(), arrival{
			jones:        f.jones,
			dirDeg:       f.dirDeg,
			wavelengthNm: f.wavelengthNm,
			emitterID:    f.emitterID,
			steps:        f.steps,
			explicitZero: f.explicitZero,
		})
		return nil
	}

	switch c := comp.(type) {
	case *model.Emitter:
		p.record(f, pos.X, pos.Y, model.TermOpaque)
		return nil

	case *model.Mirror:
		p.record(f, pos.X, pos.Y, "")
		f.x, f.y = pos.X, pos.Y
		f.dirDeg = MirrorReflect(c.SurfaceDeg, f.dirDeg)
		return []flight{f}

	case *model.Splitter:
		ord, ext := SplitComponents(c.CrystalAxisDeg, f.jones)
		var out []flight
		if optics.Intensity(ord) >= p.set.AbsorbEpsilon {
			g := f
			g.x, g.y = pos.X, pos.Y
			g.jones = ord
			if p.admit() {
				out = append(out, g)
			}
		}
		if optics.Intensity(ext) >= p.set.AbsorbEpsilon {
			g := f
			g.x, g.y = pos.X, pos.Y
			g.jones = ext
			g.dirDeg = optics.NormalizeDirection(f.dirDeg + 90)
			if p.admit() {
				out = append(out, g)
			}
		}
		term := model.TerminationReason("")
		if len(out) == 0 {
			term = model.TermAbsorbed
		}
		p.record(f, pos.X, pos.Y, term)
		return out

	case *model.Isolator:
		p.record(f, pos.X, pos.Y, "")
		f.x, f.y = pos.X, pos.Y
		if directionsEqual(f.dirDeg, c.AllowedDirDeg) {
			f.jones = optics.Apply(IsolatorMatrix(c.AxisDeg, c.FaradayDeg), f.jones)
		} else {
			f.jones = optics.Vec{}
			f.explicitZero = true
		}
		return []flight{f}

	default:
		m, ok := PassMatrix(comp)
		if !ok {
			// Unknown contract: absorb rather than guess.
			p.record(f, pos.X, pos.Y, model.TermAbsorbed)
			return nil
		}
		p.record(f, pos.X, pos.Y, "")
		f.x, f.y = pos.X, pos.Y
		f.jones = optics.Apply(m, f.jones)
		return []flight{f}
	}
}

// admit counts a newly created beam against the pass budget.
func (p *pass) admit() bool {
	if p.created >= p.set.MaxBeams {
		p.guarded++
		return false
	}
	p.created++
	return true
}

func (p *pass) buffer(id string, a arrival) {
	buf := p.buffers[id]
	if buf == nil {
		buf = &mergeBuffer{}
		p.buffers[id] = buf
	}
	buf.arrivals = append(buf.arrivals, a)
}

// fireMergeNodes fires every pending, unfired combiner and forwarding
// counter simultaneously and returns their output flights. Arrivals landing
// at an already-fired node stay in its buffer for reporting but emit nothing.
func (p *pass) fireMergeNodes() []flight {
	var out []flight
	for _, comp := range p.board.Components() {
		buf := p.buffers[comp.ID()]
		if buf == nil || buf.fired || len(buf.arrivals) == 0 {
			continue
		}
		switch c := comp.(type) {
		case *model.BeamCombiner:
			buf.fired = true
			f, ok := mergeArrivals(buf.arrivals, c.OutputDirDeg)
			if ok && p.admit() {
				pos := c.Position()
				f.x, f.y = pos.X, pos.Y
				out = append(out, f)
			}
		case *model.CoincidenceCounter:
			if !c.Forward {
				continue
			}
			buf.fired = true
			if !counterSatisfied(c, buf.arrivals) {
				continue
			}
			dir, ok := commonDirection(buf.arrivals)
			if !ok {
				continue
			}
			f, ok := mergeArrivals(buf.arrivals, dir)
			if ok && p.admit() {
				buf.forwarded = true
				pos := c.Position()
				f.x, f.y = pos.X, pos.Y
				out = append(out, f)
			}
		}
	}
	return out
}

// mergeArrivals coherently sums buffered arrivals into one outgoing flight.
// Summation is commutative, so the result is independent of arrival order.
func mergeArrivals(arrivals []arrival, outDirDeg float64) (flight, bool) {
	if len(arrivals) == 0 {
		return flight{}, false
	}
	var sum optics.Vec
	steps := 0
	zero := true
	wavelength := arrivals[0].wavelengthNm
	emitter := arrivals[0].emitterID
	for _, a := range arrivals {
		sum = optics.Add(sum, a.jones)
		if a.steps > steps {
			steps = a.steps
		}
		if !a.explicitZero {
			zero = false
		}
	}
	return flight{
		dirDeg:       optics.NormalizeDirection(outDirDeg),
		jones:        sum,
		wavelengthNm: wavelength,
		emitterID:    emitter,
		steps:        steps,
		explicitZero: zero,
	}, true
}

// commonDirection returns the direction shared by every arrival, or ok=false
// when they disagree and no forwarding direction is defined.
func commonDirection(arrivals []arrival) (float64, bool) {
	if len(arrivals) == 0 {
		return 0, false
	}
	dir := arrivals[0].dirDeg
	for _, a := range arrivals[1:] {
		if !directionsEqual(a.dirDeg, dir) {
			return 0, false
		}
	}
	return dir, true
}

func directionsEqual(a, b float64) bool {
	d := math.Abs(optics.NormalizeDirection(a) - optics.NormalizeDirection(b))
	return d < 1e-6 || d > 360-1e-6
}

// record appends one traced segment from the flight origin to (x,y).
func (p *pass) record(f flight, x, y float64, term model.TerminationReason) {
	p.res.Beams = append(p.res.Beams, model.Beam{
		FromX:        f.x,
		FromY:        f.y,
		ToX:          x,
		ToY:          y,
		DirectionDeg: f.dirDeg,
		Jones:        f.jones,
		WavelengthNm: f.wavelengthNm,
		EmitterID:    f.emitterID,
		Terminal:     term,
	})
}

// nextHit finds the nearest component strictly ahead of the flight whose
// center lies within HitEpsilon of the ray.
func (p *pass) nextHit(f flight) (model.Component, bool) {
	rad := f.dirDeg * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	var best model.Component
	bestDist := math.Inf(1)
	for _, c := range p.board.Components() {
		pos := c.Position()
		vx, vy := pos.X-f.x, pos.Y-f.y
		forward := vx*dx + vy*dy
		if forward <= p.set.HitEpsilon {
			continue
		}
		perp := math.Abs(vx*dy - vy*dx)
		if perp > p.set.HitEpsilon {
			continue
		}
		if forward < bestDist {
			best = c
			bestDist = forward
		}
	}
	return best, best != nil
}

// edgeExit returns the point where the flight's ray leaves the board.
func (p *pass) edgeExit(f flight) (float64, float64) {
	rad := f.dirDeg * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)

	tMax := math.Inf(1)
	if dx > 1e-12 {
		tMax = math.Min(tMax, (p.board.Width-f.x)/dx)
	} else if dx < -1e-12 {
		tMax = math.Min(tMax, -f.x/dx)
	}
	if dy > 1e-12 {
		tMax = math.Min(tMax, (p.board.Height-f.y)/dy)
	} else if dy < -1e-12 {
		tMax = math.Min(tMax, -f.y/dy)
	}
	if math.IsInf(tMax, 1) {
		// Degenerate direction; terminate in place.
		return f.x, f.y
	}
	return f.x + tMax*dx, f.y + tMax*dy
}

// finalizeDetectors converts every detector's buffered arrivals into its
// SensorState. Detectors with no arrivals still report a baseline state.
func (p *pass) finalizeDetectors() {
	for _, d := range p.board.Detectors() {
		st := model.SensorState{ComponentID: d.ID()}
		if buf := p.buffers[d.ID()]; buf != nil {
			st.BeamCount = len(buf.arrivals)
			st.Forwarded = buf.forwarded
			var sum optics.Vec
			for _, a := range buf.arrivals {
				sum = optics.Add(sum, a.jones)
			}
			st.IntensityPct = 100 * optics.Intensity(sum)
			state := optics.Classify(sum)
			st.StateKind = state.Kind
			if state.Kind == optics.StateLinear {
				angle := state.AngleDeg
				st.AngleDeg = &angle
			}
			if rel, ok := relativePhase(buf.arrivals); ok {
				st.RelPhaseDeg = &rel
			}
		}

		switch c := d.(type) {
		case *model.Sensor:
			st.Activated = sensorSatisfied(c, st)
		case *model.CoincidenceCounter:
			if buf := p.buffers[d.ID()]; buf != nil {
				st.Activated = counterSatisfied(c, buf.arrivals)
			}
		}
		p.res.Sensors[d.ID()] = st
	}
}

// relativePhase returns the largest pairwise absolute phase difference of
// the arrivals, in [0,180]. Using the absolute value keeps the result
// independent of arrival order.
func relativePhase(arrivals []arrival) (float64, bool) {
	if len(arrivals) < 2 {
		return 0, false
	}
	found := false
	maxAbs := 0.0
	for i := 0; i < len(arrivals); i++ {
		for j := i + 1; j < len(arrivals); j++ {
			d, ok := optics.PhaseDifferenceDeg(arrivals[i].jones, arrivals[j].jones)
			if !ok {
				continue
			}
			found = true
			if a := math.Abs(d); a > maxAbs {
				maxAbs = a
			}
		}
	}
	return maxAbs, found
}

func sensorSatisfied(s *model.Sensor, st model.SensorState) bool {
	if st.BeamCount == 0 {
		return false
	}
	if st.IntensityPct < s.ThresholdPct {
		return false
	}
	if s.RequiredAngleDeg != nil {
		if st.AngleDeg == nil {
			return false
		}
		if axisDistance(*st.AngleDeg, *s.RequiredAngleDeg) > s.AngleToleranceDeg {
			return false
		}
	}
	if s.RequiredState != optics.StateNone && st.StateKind != s.RequiredState {
		return false
	}
	return true
}

func counterSatisfied(c *model.CoincidenceCounter, arrivals []arrival) bool {
	if len(arrivals) != c.RequiredCount {
		return false
	}
	if c.RequiredCount < 2 {
		return len(arrivals) == c.RequiredCount
	}
	rel, ok := relativePhase(arrivals)
	if !ok {
		return false
	}
	required := math.Abs(normalizeHalf(c.RequiredPhaseDeg))
	return math.Abs(rel-required) <= c.PhaseToleranceDeg
}

// axisDistance returns the angular distance between two polarization axes,
// respecting their 180° periodicity.
func axisDistance(a, b float64) float64 {
	d := math.Abs(optics.NormalizeAxis(a) - optics.NormalizeAxis(b))
	if d > 90 {
		d = 180 - d
	}
	return d
}

// normalizeHalf maps an angle onto [-180,180).
func normalizeHalf(deg float64) float64 {
	a := math.Mod(deg+180, 360)
	if a < 0 {
		a += 360
	}
	return a - 180
}
