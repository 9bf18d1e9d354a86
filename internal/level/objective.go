package level

import (
	"math"

	"github.com/piwi3910/PolarBench/internal/engine"
)

// Objective converts a level's criteria into a fitness function for the
// angle solver. A configuration that satisfies every criterion scores 1;
// unsatisfied criteria earn partial credit for light reaching the detector
// so the search has a gradient to climb.
func Objective(l *Level) engine.Objective {
	return func(res *engine.TraceResult) float64 {
		if res == nil || len(l.Criteria) == 0 {
			return 0
		}
		total := 0.0
		for _, c := range l.Criteria {
			ok, _ := c.check(res.Sensors)
			if ok {
				total++
				continue
			}
			if st, present := res.Sensors[c.SensorID]; present {
				total += 0.5 * math.Min(1, st.IntensityPct/100)
			}
		}
		return total / float64(len(l.Criteria))
	}
}

// Solve searches the level's unlocked angles for a solving configuration.
// It is the hint engine behind the UI and the solvability check used when
// designing levels.
func Solve(l *Level, config engine.SolverConfig) (engine.SolveResult, error) {
	board, err := l.BuildBoard()
	if err != nil {
		return engine.SolveResult{}, err
	}
	return engine.AutoSolve(board, Objective(l), config), nil
}
