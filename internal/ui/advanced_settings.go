package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// showAdvancedSettingsDialog opens a dialog with the propagation and solver
// parameters that are not shown in the main settings dialog.
func (a *App) showAdvancedSettingsDialog() {
	ts := a.traceSettings
	sc := a.solverConfig

	// Helper to create a bound float entry
	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%g", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(fmt.Sprintf("%d", *val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	// --- Propagation Bounds ---
	traceSection := widget.NewCard("Propagation Bounds",
		"Guard limits for the beam tracer; loops and runaway splits terminate here",
		container.NewGridWithColumns(2,
			widget.NewLabel("Max Steps per Beam"), intEntry(&ts.MaxStepsPerBeam),
			widget.NewLabel("Max Beams per Pass"), intEntry(&ts.MaxBeams),
			widget.NewLabel("Hit Epsilon (board units)"), floatEntry(&ts.HitEpsilon),
			widget.NewLabel("Absorb Epsilon (intensity)"), floatEntry(&ts.AbsorbEpsilon),
		))

	// --- Auto-Solve ---
	solverSection := widget.NewCard("Auto-Solve",
		"Genetic search over the unlocked component angles",
		container.NewGridWithColumns(2,
			widget.NewLabel("Population Size"), intEntry(&sc.PopulationSize),
			widget.NewLabel("Generations"), intEntry(&sc.Generations),
			widget.NewLabel("Mutation Rate"), floatEntry(&sc.MutationRate),
			widget.NewLabel("Tournament Size"), intEntry(&sc.TournamentSize),
			widget.NewLabel("Elite Count"), intEntry(&sc.EliteCount),
			widget.NewLabel("Angle Snap (deg, 0=free)"), floatEntry(&sc.AngleStepDeg),
			widget.NewLabel("Target Fitness"), floatEntry(&sc.Target),
		))

	content := container.NewVScroll(container.NewVBox(
		traceSection,
		solverSection,
	))

	d := dialog.NewCustomConfirm("Advanced Settings", "Apply", "Cancel", content,
		func(ok bool) {
			if !ok {
				return
			}
			a.traceSettings = ts
			a.solverConfig = sc
			a.sim.SetSettings(ts)
			a.retrace()
		},
		a.window,
	)
	d.Resize(fyne.NewSize(560, 520))
	d.Show()
}
