package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PolarBench/internal/model"
)

func TestBuildAngleScenarios(t *testing.T) {
	board, mediator, _ := makeParadoxBoard(t, 0, false)

	scenarios, err := BuildAngleScenarios(board, mediator.ID(), []float64{0, 45, 90})
	require.NoError(t, err)
	require.Len(t, scenarios, 3)
	assert.Contains(t, scenarios[1].Name, "45.0")
	assert.Contains(t, scenarios[1].Name, string(model.KindPolarizer))

	// Variants carry the swept angle; the input board is untouched.
	comp, ok := scenarios[1].Board.Component(mediator.ID())
	require.True(t, ok)
	assert.Equal(t, 45.0, comp.(*model.Polarizer).AxisDeg)
	assert.Equal(t, 0.0, mediator.AxisDeg)
}

func TestBuildAngleScenarios_Errors(t *testing.T) {
	board, _, sensor := makeParadoxBoard(t, 0, false)
	lockedBoard, locked, _ := makeParadoxBoard(t, 0, true)

	_, err := BuildAngleScenarios(nil, "any", []float64{0})
	assert.Error(t, err)

	_, err = BuildAngleScenarios(board, "missing", []float64{0})
	assert.ErrorContains(t, err, "not found")

	_, err = BuildAngleScenarios(board, sensor.ID(), []float64{0})
	assert.ErrorContains(t, err, "no adjustable angle")

	_, err = BuildAngleScenarios(lockedBoard, locked.ID(), []float64{0})
	assert.ErrorContains(t, err, "locked")
}

func TestCompareScenarios_MediatorSweep(t *testing.T) {
	board, mediator, _ := makeParadoxBoard(t, 0, false)
	scenarios, err := BuildAngleScenarios(board, mediator.ID(), []float64{0, 45, 90})
	require.NoError(t, err)

	rows := CompareScenarios(nil, scenarios)
	require.Len(t, rows, 3)

	assert.Zero(t, rows[0].ActiveDetectors)
	assert.Equal(t, 1, rows[1].ActiveDetectors)
	assert.Zero(t, rows[2].ActiveDetectors)

	assert.InDelta(t, 0.0, rows[0].DetectedPct, 1e-9)
	assert.InDelta(t, 12.5, rows[1].DetectedPct, 1e-9)
	assert.InDelta(t, 0.0, rows[2].DetectedPct, 1e-9)

	for _, row := range rows {
		assert.Equal(t, 1, row.TotalDetectors)
		assert.Equal(t, 1, row.BeamCount)
		assert.Zero(t, row.GuardTerminated)
	}
}
