package engine

import "github.com/piwi3910/PolarBench/internal/model"

// Simulator owns the propagation loop for one board. It recomputes lazily:
// callers mark the board dirty after edits and pull the result from Tick or
// Result. The simulator is deliberately free of any display-refresh coupling
// so a game loop, a timer, and a synchronous test can drive it identically.
type Simulator struct {
	tracer  *Tracer
	board   *model.Board
	result  *TraceResult
	dirty   bool
	elapsed float64
}

// NewSimulator returns a simulator for the given board snapshot using
// default trace settings.
func NewSimulator(board *model.Board) *Simulator {
	return &Simulator{
		tracer: NewTracer(),
		board:  board,
		dirty:  board != nil,
	}
}

// SetBoard swaps in a new board snapshot and invalidates the current result.
func (s *Simulator) SetBoard(board *model.Board) {
	s.board = board
	s.dirty = true
}

// SetSettings swaps the tracer for one with the given bounds and marks the
// current result stale.
func (s *Simulator) SetSettings(ts TraceSettings) {
	s.tracer = NewTracerWithSettings(ts)
	s.dirty = true
}

// Board returns the current snapshot.
func (s *Simulator) Board() *model.Board {
	return s.board
}

// Invalidate marks the current result stale, forcing a recomputation on the
// next Tick or Result call. Editors call this after mutating component
// parameters between passes.
func (s *Simulator) Invalidate() {
	s.dirty = true
}

// Tick advances the simulation clock by dt seconds and returns the current
// trace, recomputing it first when stale. A stale result is simply replaced;
// there is nothing to cancel because a pass is synchronous and bounded.
func (s *Simulator) Tick(dt float64) *TraceResult {
	s.elapsed += dt
	return s.Result()
}

// Result returns the current trace, recomputing it when stale.
func (s *Simulator) Result() *TraceResult {
	if s.dirty && s.board != nil {
		s.result = s.tracer.Trace(s.board)
		s.dirty = false
	}
	return s.result
}

// Elapsed returns the accumulated tick time in seconds.
func (s *Simulator) Elapsed() float64 {
	return s.elapsed
}
