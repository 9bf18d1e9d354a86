package engine

import (
	"math/rand"
	"sort"

	"github.com/piwi3910/PolarBench/internal/model"
)

// Objective scores one traced arrangement; higher is better. Level packs
// build objectives from their detector criteria, tools can pass ad-hoc ones.
type Objective func(*TraceResult) float64

// SolverConfig holds parameters for the evolutionary angle search.
type SolverConfig struct {
	PopulationSize int
	Generations    int
	MutationRate   float64
	TournamentSize int
	EliteCount     int
	AngleStepDeg   float64
	Target         float64
	Seed           int64
}

// DefaultSolverConfig returns sensible default parameters.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		PopulationSize: 40,
		Generations:    80,
		MutationRate:   0.2,
		TournamentSize: 3,
		EliteCount:     2,
		AngleStepDeg:   5,
		Target:         1.0,
		Seed:           42,
	}
}

// SolveResult is the best arrangement the solver found.
type SolveResult struct {
	Angles  map[string]float64 `json:"angles"`
	Fitness float64            `json:"fitness"`
	Solved  bool               `json:"solved"`
	Board   *model.Board       `json:"-"`
}

// candidate is one arrangement: an angle per free component, in id order.
type candidate struct {
	angles  []float64
	fitness float64
}

type angleSolver struct {
	config    SolverConfig
	ids       []string
	scratch   *model.Board
	tracer    *Tracer
	objective Objective
	rng       *rand.Rand
}

func newAngleSolver(board *model.Board, objective Objective, config SolverConfig) *angleSolver {
	free := board.Adjustables()
	ids := make([]string, 0, len(free))
	for _, adj := range free {
		ids = append(ids, adj.ID())
	}
	sort.Strings(ids)

	return &angleSolver{
		config:    config,
		ids:       ids,
		scratch:   board.Clone(),
		tracer:    NewTracer(),
		objective: objective,
		rng:       rand.New(rand.NewSource(config.Seed)),
	}
}

// AutoSolve searches the free components' angles for an arrangement that
// maximizes the objective. Locked components never move. The search stops
// early once a candidate reaches config.Target.
func AutoSolve(board *model.Board, objective Objective, config SolverConfig) SolveResult {
	if board == nil || objective == nil {
		return SolveResult{Angles: map[string]float64{}}
	}

	s := newAngleSolver(board, objective, config)
	best := s.optimize()

	out := SolveResult{
		Angles:  make(map[string]float64, len(s.ids)),
		Fitness: best.fitness,
		Solved:  best.fitness >= config.Target,
		Board:   board.Clone(),
	}
	for i, id := range s.ids {
		out.Angles[id] = best.angles[i]
		adjustableByID(out.Board, id).SetPrimaryAngle(best.angles[i])
	}
	return out
}

// adjustableByID resolves an ID collected from Board.Adjustables, so the
// lookup and the assertion cannot fail.
func adjustableByID(b *model.Board, id string) model.Adjustable {
	c, _ := b.Component(id)
	return c.(model.Adjustable)
}

func (s *angleSolver) optimize() candidate {
	if len(s.ids) == 0 {
		return candidate{fitness: s.evaluate(nil)}
	}

	population := s.initPopulation()
	for i := range population {
		population[i].fitness = s.evaluate(population[i].angles)
	}

	for gen := 0; gen < s.config.Generations; gen++ {
		sort.Slice(population, func(i, j int) bool {
			return population[i].fitness > population[j].fitness
		})
		if population[0].fitness >= s.config.Target {
			return population[0]
		}

		newPop := make([]candidate, 0, s.config.PopulationSize)

		eliteCount := s.config.EliteCount
		if eliteCount > len(population) {
			eliteCount = len(population)
		}
		for i := 0; i < eliteCount; i++ {
			newPop = append(newPop, s.copyCandidate(population[i]))
		}

		for len(newPop) < s.config.PopulationSize {
			parent1 := s.tournamentSelect(population)
			parent2 := s.tournamentSelect(population)

			child := s.crossover(parent1, parent2)
			s.mutate(&child)

			child.fitness = s.evaluate(child.angles)
			newPop = append(newPop, child)
		}

		population = newPop
	}

	sort.Slice(population, func(i, j int) bool {
		return population[i].fitness > population[j].fitness
	})
	return population[0]
}

// initPopulation seeds random candidates plus one carrying the board's
// current angles so the search never regresses below the user's own attempt.
func (s *angleSolver) initPopulation() []candidate {
	n := len(s.ids)
	population := make([]candidate, s.config.PopulationSize)

	for i := range population {
		angles := make([]float64, n)
		for j := range angles {
			angles[j] = s.randomAngle()
		}
		population[i] = candidate{angles: angles}
	}

	if s.config.PopulationSize > 0 {
		current := make([]float64, n)
		for j, id := range s.ids {
			current[j] = adjustableByID(s.scratch, id).PrimaryAngle()
		}
		population[0] = candidate{angles: current}
	}

	return population
}

// evaluate applies the angles to the scratch board and scores one trace.
func (s *angleSolver) evaluate(angles []float64) float64 {
	for i, id := range s.ids {
		adjustableByID(s.scratch, id).SetPrimaryAngle(angles[i])
	}
	return s.objective(s.tracer.Trace(s.scratch))
}

func (s *angleSolver) tournamentSelect(population []candidate) candidate {
	best := population[s.rng.Intn(len(population))]
	for i := 1; i < s.config.TournamentSize; i++ {
		contender := population[s.rng.Intn(len(population))]
		if contender.fitness > best.fitness {
			best = contender
		}
	}
	return s.copyCandidate(best)
}

// crossover picks each angle from either parent uniformly.
func (s *angleSolver) crossover(parent1, parent2 candidate) candidate {
	n := len(parent1.angles)
	child := candidate{angles: make([]float64, n)}
	for i := 0; i < n; i++ {
		if s.rng.Float64() < 0.5 {
			child.angles[i] = parent1.angles[i]
		} else {
			child.angles[i] = parent2.angles[i]
		}
	}
	return child
}

// mutate nudges one angle by a few steps and, less often, re-randomizes one.
func (s *angleSolver) mutate(c *candidate) {
	n := len(c.angles)
	if n == 0 {
		return
	}

	if s.rng.Float64() < s.config.MutationRate {
		i := s.rng.Intn(n)
		steps := float64(s.rng.Intn(3) + 1)
		if s.rng.Float64() < 0.5 {
			steps = -steps
		}
		c.angles[i] = s.snap(c.angles[i] + steps*s.config.AngleStepDeg)
	}

	if s.rng.Float64() < s.config.MutationRate*0.5 {
		i := s.rng.Intn(n)
		c.angles[i] = s.randomAngle()
	}
}

func (s *angleSolver) copyCandidate(c candidate) candidate {
	angles := make([]float64, len(c.angles))
	copy(angles, c.angles)
	return candidate{angles: angles, fitness: c.fitness}
}

func (s *angleSolver) randomAngle() float64 {
	return s.snap(s.rng.Float64() * 360)
}

func (s *angleSolver) snap(angle float64) float64 {
	step := s.config.AngleStepDeg
	if step <= 0 {
		return angle
	}
	snapped := float64(int(angle/step+0.5)) * step
	for snapped < 0 {
		snapped += 360
	}
	for snapped >= 360 {
		snapped -= 360
	}
	return snapped
}

// DetectorObjective scores the fraction of detectors that report activated,
// the stock objective for boards whose goal is simply to light every sensor.
func DetectorObjective(res *TraceResult) float64 {
	if res == nil || len(res.Sensors) == 0 {
		return 0
	}
	active := 0
	for _, state := range res.Sensors {
		if state.Activated {
			active++
		}
	}
	return float64(active) / float64(len(res.Sensors))
}
