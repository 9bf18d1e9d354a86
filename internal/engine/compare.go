package engine

import (
	"fmt"

	"github.com/piwi3910/PolarBench/internal/model"
)

// Scenario is a named board variant traced side by side with others.
type Scenario struct {
	Name  string
	Board *model.Board
}

// ScenarioResult captures the headline numbers of one traced variant.
type ScenarioResult struct {
	ScenarioName    string  `json:"scenarioName"`
	ActiveDetectors int     `json:"activeDetectors"`
	TotalDetectors  int     `json:"totalDetectors"`
	DetectedPct     float64 `json:"detectedPct"`
	ExitedPct       float64 `json:"exitedPct"`
	BeamCount       int     `json:"beamCount"`
	GuardTerminated int     `json:"guardTerminated"`
}

// CompareScenarios traces each variant and returns one summary row per
// scenario, in input order.
func CompareScenarios(tracer *Tracer, scenarios []Scenario) []ScenarioResult {
	if tracer == nil {
		tracer = NewTracer()
	}
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		res := tracer.Trace(sc.Board)
		budget := ComputePowerBudget(sc.Board, res)
		row := ScenarioResult{
			ScenarioName:    sc.Name,
			TotalDetectors:  len(sc.Board.Detectors()),
			DetectedPct:     budget.DetectedPct,
			ExitedPct:       budget.ExitedPct,
			BeamCount:       res.BeamsCreated,
			GuardTerminated: res.GuardTerminated,
		}
		for _, state := range res.Sensors {
			if state.Activated {
				row.ActiveDetectors++
			}
		}
		results = append(results, row)
	}
	return results
}

// BuildAngleScenarios clones the board once per angle with the named
// component's primary angle replaced, so a single dial can be swept without
// touching the original. The component must exist, be adjustable and be
// unlocked.
func BuildAngleScenarios(board *model.Board, componentID string, angles []float64) ([]Scenario, error) {
	if board == nil {
		return nil, fmt.Errorf("nil board")
	}
	base, ok := board.Component(componentID)
	if !ok {
		return nil, fmt.Errorf("component %q not found", componentID)
	}
	if _, ok := base.(model.Adjustable); !ok {
		return nil, fmt.Errorf("component %q (%s) has no adjustable angle", componentID, base.Kind())
	}
	if base.IsLocked() {
		return nil, fmt.Errorf("component %q is locked", componentID)
	}

	scenarios := make([]Scenario, 0, len(angles))
	for _, angle := range angles {
		variant := board.Clone()
		comp, _ := variant.Component(componentID)
		comp.(model.Adjustable).SetPrimaryAngle(angle)
		scenarios = append(scenarios, Scenario{
			Name:  fmt.Sprintf("%s @ %.1f deg", base.Kind(), angle),
			Board: variant,
		})
	}
	return scenarios, nil
}
