package level

import (
	"fmt"
	"math"

	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/optics"
)

// CriterionReport is the outcome of one criterion check. Detail is empty
// when the criterion is satisfied and a short shortfall description when not.
type CriterionReport struct {
	SensorID  string `json:"sensorId"`
	Satisfied bool   `json:"satisfied"`
	Detail    string `json:"detail,omitempty"`
}

// Report is the outcome of evaluating a level against one propagation pass.
type Report struct {
	LevelID  string            `json:"levelId"`
	Solved   bool              `json:"solved"`
	Criteria []CriterionReport `json:"criteria"`
}

// Evaluate checks every criterion of the level against the sensor states a
// propagation pass produced. The level counts as solved when all criteria
// are satisfied.
func Evaluate(l *Level, sensors map[string]model.SensorState) Report {
	rep := Report{LevelID: l.ID, Solved: len(l.Criteria) > 0}
	for _, c := range l.Criteria {
		ok, detail := c.check(sensors)
		if !ok {
			rep.Solved = false
		}
		rep.Criteria = append(rep.Criteria, CriterionReport{
			SensorID:  c.SensorID,
			Satisfied: ok,
			Detail:    detail,
		})
	}
	return rep
}

func (c Criterion) check(sensors map[string]model.SensorState) (bool, string) {
	st, ok := sensors[c.SensorID]
	if !ok {
		return false, "no reading"
	}
	if c.mustActivate() && !st.Activated {
		return false, "detector not activated"
	}
	if st.IntensityPct+1e-9 < c.MinIntensityPct {
		return false, fmt.Sprintf("intensity %.1f%% below required %.1f%%", st.IntensityPct, c.MinIntensityPct)
	}
	if c.RequiredAngleDeg != nil {
		if st.AngleDeg == nil {
			return false, "light is not linearly polarized"
		}
		if d := axisDistance(*st.AngleDeg, *c.RequiredAngleDeg); d > c.AngleToleranceDeg {
			return false, fmt.Sprintf("angle %.1f deg is %.1f deg from required %.1f deg",
				*st.AngleDeg, d, *c.RequiredAngleDeg)
		}
	}
	return true, ""
}

// axisDistance is the separation of two polarization axes on the half circle,
// in [0,90].
func axisDistance(a, b float64) float64 {
	d := math.Abs(optics.NormalizeAxis(a) - optics.NormalizeAxis(b))
	if d > 90 {
		d = 180 - d
	}
	return d
}
