package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/quasilyte/gdata/v2"

	"github.com/piwi3910/PolarBench/internal/engine"
	"github.com/piwi3910/PolarBench/internal/export"
	"github.com/piwi3910/PolarBench/internal/importer"
	"github.com/piwi3910/PolarBench/internal/level"
	"github.com/piwi3910/PolarBench/internal/model"
	"github.com/piwi3910/PolarBench/internal/prescription"
	"github.com/piwi3910/PolarBench/internal/project"
	"github.com/piwi3910/PolarBench/internal/spectral"
	"github.com/piwi3910/PolarBench/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	tabs    *container.AppTabs

	config    model.AppConfig
	materials []spectral.Material // user materials layered over the built-ins
	templates project.TemplateStore
	progress  *project.ProgressManager

	benchName   string
	spec        level.BoardSpec
	sim         *engine.Simulator
	trace       *engine.TraceResult
	budget      engine.PowerBudget
	buildErr    error
	history     *History
	activeLevel *level.Level
	adjustments int

	traceSettings engine.TraceSettings
	solverConfig  engine.SolverConfig

	// Spectral lab state
	labMaterial  spectral.Material
	labThickness float64
	labCrossed   bool

	// UI references for dynamic updates
	componentContainer *fyne.Container
	benchContainer     *fyne.Container
	levelContainer     *fyne.Container
	levelStatus        *widget.Label
	resultContainer    *fyne.Container
	labContainer       *fyne.Container
}

func NewApp(fyneApp fyne.App, window fyne.Window) *App {
	config, err := project.LoadAppConfig(project.DefaultConfigPath())
	if err != nil {
		config = model.DefaultAppConfig()
	}

	materials, err := project.LoadUserMaterials(project.DefaultMaterialsPath())
	if err != nil {
		materials = nil
	}

	templates, err := project.LoadTemplates(project.DefaultTemplatesPath())
	if err != nil {
		templates = project.NewTemplateStore()
	}

	var progress *project.ProgressManager
	if store, err := gdata.Open(gdata.Config{AppName: "polarbench"}); err == nil {
		progress = project.NewProgressManager(store)
	} else {
		progress = project.NewProgressManager(nil)
	}

	return &App{
		fyneApp:       fyneApp,
		window:        window,
		config:        config,
		materials:     materials,
		templates:     templates,
		progress:      progress,
		benchName:     "Untitled Bench",
		spec:          level.BoardSpec{Width: model.DefaultBoardSize, Height: model.DefaultBoardSize},
		sim:           engine.NewSimulator(nil),
		history:       NewHistory(),
		traceSettings: engine.DefaultTraceSettings(),
		solverConfig:  engine.DefaultSolverConfig(),
		labMaterial:   project.FindMaterial(config.DefaultMaterial, materials),
		labThickness:  25,
		labCrossed:    true,
	}
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	// File Menu
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Bench", func() {
			a.newBench()
		}),
		fyne.NewMenuItem("Open Workspace...", func() {
			a.openWorkspace()
		}),
		a.recentWorkspacesItem(),
		fyne.NewMenuItem("Save Workspace...", func() {
			a.saveWorkspace()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Bench from DXF...", func() {
			a.importDXF()
		}),
		fyne.NewMenuItem("Import Spectrum from CSV...", func() {
			a.importSpectrum(false)
		}),
		fyne.NewMenuItem("Import Spectrum from Excel...", func() {
			a.importSpectrum(true)
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Lab Report (PDF)...", func() {
			a.exportPDF()
		}),
		fyne.NewMenuItem("Export Workbook (Excel)...", func() {
			a.exportExcel()
		}),
		fyne.NewMenuItem("Export Drawing (DXF)...", func() {
			a.exportDXF()
		}),
		fyne.NewMenuItem("Export Bench Cards...", func() {
			a.exportBenchCards()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	// Edit Menu
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", func() {
			a.undo()
		}),
		fyne.NewMenuItem("Redo", func() {
			a.redo()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Bench", func() {
			a.pushHistory("Clear bench")
			a.spec.Components = nil
			a.activeLevel = nil
			a.retrace()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Copy Bench Prescription", func() {
			a.showPrescriptionDialog()
		}),
		fyne.NewMenuItem("Load Prescription...", func() {
			a.showLoadPrescriptionDialog()
		}),
		fyne.NewMenuItem("Check Spacing", func() {
			a.checkSpacing()
		}),
	)

	// Tools Menu
	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Run Trace", func() {
			a.retrace()
			a.tabs.SelectIndex(3) // Switch to Results tab
		}),
		fyne.NewMenuItem("Auto-Solve Bench", func() {
			a.runAutoSolve()
		}),
		fyne.NewMenuItem("Compare Angles...", func() {
			a.showCompareAnglesDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Material Library...", func() {
			a.showMaterialLibraryDialog()
		}),
		fyne.NewMenuItem("Bench Templates...", func() {
			a.showTemplateManagerDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", func() {
			a.showSettingsDialog()
		}),
		fyne.NewMenuItem("Advanced Settings...", func() {
			a.showAdvancedSettingsDialog()
		}),
		fyne.NewMenuItem("Import / Export Data...", func() {
			a.showImportExportDialog()
		}),
	)

	// Help Menu
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	mainMenu := fyne.NewMainMenu(
		fileMenu,
		editMenu,
		toolsMenu,
		helpMenu,
	)
	a.window.SetMainMenu(mainMenu)
}

func (a *App) recentWorkspacesItem() *fyne.MenuItem {
	item := fyne.NewMenuItem("Open Recent", nil)
	if len(a.config.RecentWorkspaces) == 0 {
		item.Disabled = true
		return item
	}
	children := make([]*fyne.MenuItem, 0, len(a.config.RecentWorkspaces))
	for _, path := range a.config.RecentWorkspaces {
		p := path // capture
		children = append(children, fyne.NewMenuItem(p, func() {
			a.loadWorkspaceFile(p)
		}))
	}
	item.ChildMenu = fyne.NewMenu("", children...)
	return item
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PolarBench",
		"PolarBench — Interactive Polarization Optics Bench\n\n"+
			"A cross-platform desktop application for building virtual\n"+
			"optical benches, tracing polarized light with Jones calculus,\n"+
			"and exploring interference colors between crossed polarizers.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	benchTab := container.NewTabItem("Bench", a.buildBenchPanel())
	levelsTab := container.NewTabItem("Levels", a.buildLevelsPanel())
	labTab := container.NewTabItem("Spectral Lab", a.buildLabPanel())
	resultsTab := container.NewTabItem("Results", a.buildResultsPanel())

	a.tabs = container.NewAppTabs(benchTab, levelsTab, labTab, resultsTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	a.retrace()
	a.refreshLab()
	return a.tabs
}

// ─── Bench Panel ───────────────────────────────────────────

func (a *App) buildBenchPanel() fyne.CanvasObject {
	a.componentContainer = container.NewVBox()
	a.benchContainer = container.NewStack()

	addBtn := widget.NewButtonWithIcon("Add Component", theme.ContentAddIcon(), func() {
		a.showAddComponentDialog()
	})
	undoBtn := newIconButtonWithTooltip(theme.NavigateBackIcon(), "Undo", func() {
		a.undo()
	})
	redoBtn := newIconButtonWithTooltip(theme.NavigateNextIcon(), "Redo", func() {
		a.redo()
	})

	left := container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Components", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			undoBtn,
			redoBtn,
			addBtn,
		),
		nil, nil, nil,
		container.NewVScroll(a.componentContainer),
	)

	split := container.NewHSplit(left, container.NewVScroll(a.benchContainer))
	split.SetOffset(0.38)
	return split
}

func (a *App) refreshComponentList() {
	if a.componentContainer == nil {
		return
	}
	a.componentContainer.RemoveAll()

	if len(a.spec.Components) == 0 {
		a.componentContainer.Add(widget.NewLabel("Empty bench. Click 'Add Component' to begin."))
		return
	}

	header := container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("ID", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Kind", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Position", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Angle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
	)
	a.componentContainer.Add(header)
	a.componentContainer.Add(widget.NewSeparator())

	for i := range a.spec.Components {
		idx := i // capture
		s := a.spec.Components[idx]
		angleText := fmt.Sprintf("%.1f°", s.AngleDeg)
		if s.Locked {
			angleText += " 🔒"
		}
		row := container.NewGridWithColumns(6,
			widget.NewLabel(s.ID),
			widget.NewLabel(kindLabel(s.Kind)),
			widget.NewLabel(fmt.Sprintf("(%.1f, %.1f)", s.X, s.Y)),
			widget.NewLabel(angleText),
			widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
				a.showEditComponentDialog(idx)
			}),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.pushHistory("Delete " + a.spec.Components[idx].ID)
				a.spec.Components = append(a.spec.Components[:idx], a.spec.Components[idx+1:]...)
				a.retrace()
			}),
		)
		a.componentContainer.Add(row)
	}
}

func (a *App) refreshBenchView() {
	if a.benchContainer == nil {
		return
	}
	a.benchContainer.RemoveAll()
	switch {
	case a.buildErr != nil:
		a.benchContainer.Add(widget.NewLabel("Bench invalid: " + a.buildErr.Error()))
	case a.trace == nil:
		a.benchContainer.Add(widget.NewLabel("Empty bench. Add an emitter to start tracing."))
	default:
		a.benchContainer.Add(widgets.RenderBenchView(a.spec, a.trace, a.budget))
	}
	a.benchContainer.Refresh()
}

// kindLabel maps a component kind to its palette display name.
func kindLabel(k model.Kind) string {
	words := strings.Split(string(k), "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// angleCaption names what the primary angle means for each kind, so the
// edit dialog reads naturally.
func angleCaption(k model.Kind) string {
	switch k {
	case model.KindPolarizer:
		return "Axis (deg)"
	case model.KindMirror:
		return "Surface (deg)"
	case model.KindSplitter:
		return "Surface (deg)"
	case model.KindRotator:
		return "Rotation (deg)"
	case model.KindQuarterWavePlate, model.KindHalfWavePlate:
		return "Fast Axis (deg)"
	case model.KindPhaseShifter:
		return "Phase Shift (deg)"
	default:
		return "Angle (deg)"
	}
}

func (a *App) newComponentID(kind model.Kind) string {
	count := 0
	for _, s := range a.spec.Components {
		if s.Kind == kind {
			count++
		}
	}
	return fmt.Sprintf("%s-%d", kind, count+1)
}

func (a *App) showAddComponentDialog() {
	kindNames := make([]string, len(model.Kinds))
	for i, k := range model.Kinds {
		kindNames[i] = kindLabel(k)
	}

	idEntry := widget.NewEntry()
	xEntry := widget.NewEntry()
	xEntry.SetText(fmt.Sprintf("%.1f", a.spec.Width/2))
	yEntry := widget.NewEntry()
	yEntry.SetText(fmt.Sprintf("%.1f", a.spec.Height/2))
	angleEntry := widget.NewEntry()
	angleEntry.SetText("0")
	dirEntry := widget.NewEntry()
	dirEntry.SetText("0")

	selected := model.Kinds[0]
	kindSelect := widget.NewSelect(kindNames, func(name string) {
		for _, k := range model.Kinds {
			if kindLabel(k) == name {
				selected = k
				break
			}
		}
		idEntry.SetText(a.newComponentID(selected))
	})
	kindSelect.SetSelected(kindNames[0])

	form := dialog.NewForm("Add Component", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Kind", kindSelect),
			widget.NewFormItem("ID", idEntry),
			widget.NewFormItem("X", xEntry),
			widget.NewFormItem("Y", yEntry),
			widget.NewFormItem("Angle (deg)", angleEntry),
			widget.NewFormItem("Direction (deg)", dirEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			x, _ := strconv.ParseFloat(xEntry.Text, 64)
			y, _ := strconv.ParseFloat(yEntry.Text, 64)
			angle, _ := strconv.ParseFloat(angleEntry.Text, 64)
			dir, _ := strconv.ParseFloat(dirEntry.Text, 64)
			id := strings.TrimSpace(idEntry.Text)
			if id == "" {
				dialog.ShowError(fmt.Errorf("component ID must not be empty"), a.window)
				return
			}

			s := level.ComponentSpec{
				ID:           id,
				Kind:         selected,
				X:            x,
				Y:            y,
				AngleDeg:     angle,
				DirectionDeg: dir,
			}
			// Kind defaults the board builder would otherwise reject or
			// zero out in confusing ways.
			switch selected {
			case model.KindEmitter:
				s.Intensity = 1.0
				s.WavelengthNm = a.config.DefaultWavelengthNm
			case model.KindCircularFilter:
				s.Handedness = "left"
			case model.KindSensor:
				s.ThresholdPct = 1
			case model.KindCoincidenceCounter:
				s.RequiredCount = 2
			}

			a.pushHistory("Add " + id)
			a.spec.Components = append(a.spec.Components, s)
			a.retrace()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 400))
	form.Show()
}

func (a *App) showEditComponentDialog(idx int) {
	s := a.spec.Components[idx]

	xEntry := widget.NewEntry()
	xEntry.SetText(fmt.Sprintf("%.1f", s.X))
	yEntry := widget.NewEntry()
	yEntry.SetText(fmt.Sprintf("%.1f", s.Y))
	angleEntry := widget.NewEntry()
	angleEntry.SetText(fmt.Sprintf("%.1f", s.AngleDeg))
	lockedCheck := widget.NewCheck("", nil)
	lockedCheck.Checked = s.Locked

	items := []*widget.FormItem{
		widget.NewFormItem("X", xEntry),
		widget.NewFormItem("Y", yEntry),
		widget.NewFormItem(angleCaption(s.Kind), angleEntry),
		widget.NewFormItem("Locked", lockedCheck),
	}

	// Kind-specific extras. Entries are declared up front so the confirm
	// closure can read whichever ones apply.
	dirEntry := widget.NewEntry()
	dirEntry.SetText(fmt.Sprintf("%.1f", s.DirectionDeg))
	intensityEntry := widget.NewEntry()
	intensityEntry.SetText(fmt.Sprintf("%.2f", s.Intensity))
	wavelengthEntry := widget.NewEntry()
	wavelengthEntry.SetText(fmt.Sprintf("%.0f", s.WavelengthNm))
	thresholdEntry := widget.NewEntry()
	thresholdEntry.SetText(fmt.Sprintf("%.1f", s.ThresholdPct))
	countEntry := widget.NewEntry()
	countEntry.SetText(fmt.Sprintf("%d", s.RequiredCount))
	handedSelect := widget.NewSelect([]string{"left", "right"}, nil)
	if s.Handedness != "" {
		handedSelect.SetSelected(s.Handedness)
	} else {
		handedSelect.SetSelected("left")
	}

	switch s.Kind {
	case model.KindEmitter:
		items = append(items,
			widget.NewFormItem("Direction (deg)", dirEntry),
			widget.NewFormItem("Intensity (0-1)", intensityEntry),
			widget.NewFormItem("Wavelength (nm)", wavelengthEntry),
		)
	case model.KindBeamCombiner, model.KindIsolator:
		items = append(items, widget.NewFormItem("Direction (deg)", dirEntry))
	case model.KindCircularFilter:
		items = append(items, widget.NewFormItem("Handedness", handedSelect))
	case model.KindSensor:
		items = append(items, widget.NewFormItem("Threshold (%)", thresholdEntry))
	case model.KindCoincidenceCounter:
		items = append(items, widget.NewFormItem("Required Beams", countEntry))
	}

	form := dialog.NewForm("Edit "+s.ID, "Save", "Cancel", items,
		func(ok bool) {
			if !ok {
				return
			}
			a.pushHistory("Edit " + s.ID)

			c := &a.spec.Components[idx]
			if v, err := strconv.ParseFloat(xEntry.Text, 64); err == nil {
				c.X = v
			}
			if v, err := strconv.ParseFloat(yEntry.Text, 64); err == nil {
				c.Y = v
			}
			if v, err := strconv.ParseFloat(angleEntry.Text, 64); err == nil {
				c.AngleDeg = v
			}
			c.Locked = lockedCheck.Checked

			switch s.Kind {
			case model.KindEmitter:
				if v, err := strconv.ParseFloat(dirEntry.Text, 64); err == nil {
					c.DirectionDeg = v
				}
				if v, err := strconv.ParseFloat(intensityEntry.Text, 64); err == nil {
					c.Intensity = v
				}
				if v, err := strconv.ParseFloat(wavelengthEntry.Text, 64); err == nil {
					c.WavelengthNm = v
				}
			case model.KindBeamCombiner, model.KindIsolator:
				if v, err := strconv.ParseFloat(dirEntry.Text, 64); err == nil {
					c.DirectionDeg = v
				}
			case model.KindCircularFilter:
				c.Handedness = handedSelect.Selected
			case model.KindSensor:
				if v, err := strconv.ParseFloat(thresholdEntry.Text, 64); err == nil {
					c.ThresholdPct = v
				}
			case model.KindCoincidenceCounter:
				if v, err := strconv.Atoi(countEntry.Text); err == nil {
					c.RequiredCount = v
				}
			}

			if a.activeLevel != nil {
				a.adjustments++
			}
			a.retrace()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 420))
	form.Show()
}

// ─── Levels Panel ──────────────────────────────────────────

func (a *App) buildLevelsPanel() fyne.CanvasObject {
	a.levelStatus = widget.NewLabel("No level loaded.")
	a.levelStatus.Wrapping = fyne.TextWrapWord
	a.levelContainer = container.NewVBox()
	a.refreshLevelList()

	return container.NewBorder(
		widget.NewCard("Progress", "", a.levelStatus),
		nil, nil, nil,
		container.NewVScroll(a.levelContainer),
	)
}

func (a *App) refreshLevelList() {
	if a.levelContainer == nil {
		return
	}
	a.levelContainer.RemoveAll()

	for _, l := range level.Catalog() {
		lvl := l // capture
		title := fmt.Sprintf("%s  %s", lvl.Title, strings.Repeat("★", lvl.Difficulty))
		status := ""
		if a.progress.IsSolved(lvl.ID) {
			status = "Solved"
			if rec, ok := a.progress.Record(lvl.ID); ok {
				status = fmt.Sprintf("Solved in %d adjustments", rec.Adjustments)
			}
		}
		loadBtn := widget.NewButton("Load", func() {
			a.loadLevel(lvl)
		})
		card := widget.NewCard(title, status, container.NewBorder(
			nil, nil, nil, loadBtn,
			widget.NewLabel(lvl.Description),
		))
		a.levelContainer.Add(card)
	}
	a.levelContainer.Refresh()
}

func (a *App) loadLevel(l *level.Level) {
	a.spec = level.BoardSpec{
		Width:      l.Board.Width,
		Height:     l.Board.Height,
		Components: copyComponents(l.Board.Components),
	}
	a.activeLevel = l
	a.benchName = l.Title
	a.adjustments = 0
	a.history.Clear()
	a.retrace()
	a.tabs.SelectIndex(0)
}

func (a *App) refreshLevelStatus() {
	if a.levelStatus == nil {
		return
	}
	total := len(level.Catalog())
	summary := fmt.Sprintf("%d of %d levels solved.", a.progress.SolvedCount(), total)

	if a.activeLevel == nil || a.trace == nil {
		a.levelStatus.SetText(summary)
		return
	}

	rep := level.Evaluate(a.activeLevel, a.trace.Sensors)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s (%d adjustments)\n", summary, a.activeLevel.Title, a.adjustments)
	for _, cr := range rep.Criteria {
		line := "✗ " + cr.SensorID + ": " + cr.Detail
		if cr.Satisfied {
			line = "✓ " + cr.SensorID
		}
		fmt.Fprintf(&b, "  %s\n", line)
	}
	if rep.Solved {
		b.WriteString("\nSolved!")
		if !a.progress.IsSolved(a.activeLevel.ID) || a.bestAdjustments() > a.adjustments {
			a.progress.MarkSolved(a.activeLevel.ID, a.adjustments)
			if err := a.progress.Save(); err != nil {
				fmt.Printf("Failed to save progress: %v\n", err)
			}
			a.refreshLevelList()
		}
	}
	a.levelStatus.SetText(b.String())
}

func (a *App) bestAdjustments() int {
	rec, ok := a.progress.Record(a.activeLevel.ID)
	if !ok {
		return math.MaxInt
	}
	return rec.Adjustments
}

// ─── Spectral Lab Panel ────────────────────────────────────

func (a *App) buildLabPanel() fyne.CanvasObject {
	a.labContainer = container.NewVBox()

	names := a.materialNames()
	materialSelect := widget.NewSelect(names, func(name string) {
		a.labMaterial = project.FindMaterial(name, a.materials)
		a.refreshLab()
	})
	materialSelect.SetSelected(a.labMaterial.Name)

	thicknessLabel := widget.NewLabel(fmt.Sprintf("%.0f µm", a.labThickness))
	thicknessSlider := widget.NewSlider(1, 200)
	thicknessSlider.SetValue(a.labThickness)
	thicknessSlider.OnChanged = func(v float64) {
		a.labThickness = v
		thicknessLabel.SetText(fmt.Sprintf("%.0f µm", v))
		a.refreshLab()
	}

	stageRadio := widget.NewRadioGroup([]string{"Crossed Polarizers", "Parallel Polarizers"}, func(sel string) {
		a.labCrossed = sel != "Parallel Polarizers"
		a.refreshLab()
	})
	stageRadio.SetSelected("Crossed Polarizers")
	stageRadio.Horizontal = true

	controls := widget.NewCard("Sample", "", container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Material"), materialSelect,
			widget.NewLabel("Thickness"), container.NewBorder(nil, nil, nil, thicknessLabel, thicknessSlider),
		),
		stageRadio,
	))

	return container.NewVScroll(container.NewVBox(
		controls,
		a.labContainer,
		a.buildFresnelCard(),
		a.buildRotationCard(),
		a.buildScatteringCard(),
	))
}

func (a *App) materialNames() []string {
	names := make([]string, 0, len(spectral.Materials)+len(a.materials))
	for _, m := range spectral.Materials {
		names = append(names, m.Name)
	}
	for _, m := range a.materials {
		names = append(names, m.Name)
	}
	return names
}

func (a *App) refreshLab() {
	if a.labContainer == nil {
		return
	}
	deltaN := math.Abs(a.labMaterial.Birefringence())
	stage := spectral.CrossedStage()
	if !a.labCrossed {
		stage = spectral.ParallelStage()
	}

	var res spectral.ColorResult
	if a.config.ColorMode == "cie" {
		res = spectral.SolveRGBHighPrecision(a.labThickness, deltaN, stage)
	} else {
		res = spectral.SolveRGB(a.labThickness, deltaN, stage)
	}

	a.labContainer.RemoveAll()
	a.labContainer.Add(widget.NewCard("Interference Color", "", container.NewVBox(
		widgets.ColorSwatch(res.Color, 72),
		widget.NewLabel(fmt.Sprintf("%s: Δn = %.4f, transmitted %.0f%%",
			a.labMaterial.Name, deltaN, res.Intensity*100)),
	)))
	a.labContainer.Add(widget.NewCard("Spectrum", "",
		widgets.RenderSpectrumPanel(a.labThickness, deltaN, stage)))
	a.labContainer.Refresh()
}

// ─── Results Panel ─────────────────────────────────────────

func (a *App) buildResultsPanel() fyne.CanvasObject {
	a.resultContainer = container.NewVBox()
	return container.NewVScroll(a.resultContainer)
}

func (a *App) refreshResults() {
	if a.resultContainer == nil {
		return
	}
	a.resultContainer.RemoveAll()

	if a.trace == nil {
		a.resultContainer.Add(widget.NewLabel("No trace yet. Build a bench first."))
		a.resultContainer.Refresh()
		return
	}

	summary := fmt.Sprintf(
		"Beams created: %d    Guard terminated: %d\n"+
			"Detected: %.1f%%    Exited: %.1f%%    Blocked: %.1f%%",
		a.trace.BeamsCreated, a.trace.GuardTerminated,
		a.budget.DetectedPct, a.budget.ExitedPct, a.budget.BlockedPct,
	)
	a.resultContainer.Add(widget.NewCard("Power Budget", "", widget.NewLabel(summary)))

	if len(a.trace.Sensors) == 0 {
		a.resultContainer.Add(widget.NewLabel("The bench has no detectors."))
		a.resultContainer.Refresh()
		return
	}

	grid := container.NewGridWithColumns(6,
		widget.NewLabelWithStyle("Detector", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Active", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Intensity", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Angle", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("State", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Beams", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)
	for _, id := range sortedSensorIDs(a.trace.Sensors) {
		st := a.trace.Sensors[id]
		active := "no"
		if st.Activated {
			active = "YES"
		}
		angle := "-"
		if st.AngleDeg != nil {
			angle = fmt.Sprintf("%.1f°", *st.AngleDeg)
		}
		beams := fmt.Sprintf("%d", st.BeamCount)
		if st.RelPhaseDeg != nil {
			beams += fmt.Sprintf(" (Δφ %.0f°)", *st.RelPhaseDeg)
		}
		grid.Add(widget.NewLabel(id))
		grid.Add(widget.NewLabel(active))
		grid.Add(widget.NewLabel(fmt.Sprintf("%.1f%%", st.IntensityPct)))
		grid.Add(widget.NewLabel(angle))
		grid.Add(widget.NewLabel(st.StateKind.String()))
		grid.Add(widget.NewLabel(beams))
	}
	a.resultContainer.Add(widget.NewCard("Detectors", "", grid))
	a.resultContainer.Refresh()
}

func sortedSensorIDs(sensors map[string]model.SensorState) []string {
	ids := make([]string, 0, len(sensors))
	for id := range sensors {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return ids
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) pushHistory(label string) {
	a.history.Push(MakeSnapshot(a.spec.Components, label))
}

func (a *App) undo() {
	snap, ok := a.history.Undo(MakeSnapshot(a.spec.Components, ""))
	if !ok {
		return
	}
	a.spec.Components = snap.Components
	a.retrace()
}

func (a *App) redo() {
	snap, ok := a.history.Redo(MakeSnapshot(a.spec.Components, ""))
	if !ok {
		return
	}
	a.spec.Components = snap.Components
	a.retrace()
}

// retrace rebuilds the board from the editable spec, reruns the
// propagation pass and refreshes every view that shows its output.
func (a *App) retrace() {
	if len(a.spec.Components) == 0 {
		a.buildErr = nil
		a.trace = nil
		a.budget = engine.PowerBudget{}
	} else {
		board, err := a.spec.Build()
		a.buildErr = err
		if err != nil {
			a.trace = nil
			a.budget = engine.PowerBudget{}
		} else {
			a.sim.SetBoard(board)
			a.trace = a.sim.Result()
			a.budget = engine.ComputePowerBudget(board, a.trace)
		}
	}
	a.refreshComponentList()
	a.refreshBenchView()
	a.refreshResults()
	a.refreshLevelStatus()
}

func (a *App) newBench() {
	a.benchName = "Untitled Bench"
	a.spec = level.BoardSpec{Width: model.DefaultBoardSize, Height: model.DefaultBoardSize}
	a.activeLevel = nil
	a.adjustments = 0
	a.history.Clear()
	a.retrace()
}

func (a *App) runAutoSolve() {
	board, err := a.spec.Build()
	if err != nil {
		dialog.ShowError(fmt.Errorf("bench invalid: %w", err), a.window)
		return
	}

	objective := engine.DetectorObjective
	if a.activeLevel != nil {
		objective = level.Objective(a.activeLevel)
	}

	res := engine.AutoSolve(board, objective, a.solverConfig)
	if len(res.Angles) == 0 {
		dialog.ShowInformation("Auto-Solve", "No unlocked adjustable components to turn.", a.window)
		return
	}

	a.pushHistory("Auto-solve")
	for i := range a.spec.Components {
		if angle, ok := res.Angles[a.spec.Components[i].ID]; ok {
			a.spec.Components[i].AngleDeg = angle
		}
	}
	a.retrace()

	msg := fmt.Sprintf("Best fitness %.3f.", res.Fitness)
	if res.Solved {
		msg = "Target reached. " + msg
	}
	dialog.ShowInformation("Auto-Solve", msg, a.window)
}

func (a *App) checkSpacing() {
	overlaps := prescription.CheckOverlaps(a.spec)
	if len(overlaps) == 0 {
		dialog.ShowInformation("Check Spacing", "All components are well separated.", a.window)
		return
	}
	warnings := prescription.FormatOverlapWarnings(overlaps)
	dialog.ShowInformation("Check Spacing", strings.Join(warnings, "\n"), a.window)
}

func (a *App) showPrescriptionDialog() {
	text := prescription.Generate(a.spec)
	entry := widget.NewMultiLineEntry()
	entry.SetText(text)
	entry.TextStyle = fyne.TextStyle{Monospace: true}

	copyBtn := widget.NewButtonWithIcon("Copy to Clipboard", theme.ContentCopyIcon(), func() {
		a.window.Clipboard().SetContent(text)
	})

	content := container.NewBorder(nil, copyBtn, nil, nil, container.NewVScroll(entry))
	d := dialog.NewCustom("Bench Prescription", "Close", content, a.window)
	d.Resize(fyne.NewSize(560, 420))
	d.Show()
}

func (a *App) showLoadPrescriptionDialog() {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("Paste a bench prescription here...")
	entry.TextStyle = fyne.TextStyle{Monospace: true}

	d := dialog.NewCustomConfirm("Load Prescription", "Load", "Cancel",
		container.NewVScroll(entry),
		func(ok bool) {
			if !ok {
				return
			}
			spec, errs := prescription.Parse(entry.Text)
			if len(errs) > 0 {
				dialog.ShowError(fmt.Errorf("prescription errors:\n%s", strings.Join(errs, "\n")), a.window)
			}
			if len(spec.Components) == 0 {
				return
			}
			a.pushHistory("Load prescription")
			a.spec = spec
			a.activeLevel = nil
			a.retrace()
		},
		a.window,
	)
	d.Resize(fyne.NewSize(560, 420))
	d.Show()
}

func (a *App) showCompareAnglesDialog() {
	board, err := a.spec.Build()
	if err != nil {
		dialog.ShowError(fmt.Errorf("bench invalid: %w", err), a.window)
		return
	}

	var ids []string
	for _, s := range a.spec.Components {
		if !s.Locked && s.Kind != model.KindEmitter && s.Kind != model.KindSensor {
			ids = append(ids, s.ID)
		}
	}
	if len(ids) == 0 {
		dialog.ShowInformation("Compare Angles", "No unlocked components to sweep.", a.window)
		return
	}

	idSelect := widget.NewSelect(ids, nil)
	idSelect.SetSelected(ids[0])

	form := dialog.NewForm("Compare Angles", "Run", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Component", idSelect)},
		func(ok bool) {
			if !ok {
				return
			}
			angles := []float64{0, 15, 30, 45, 60, 75, 90}
			scenarios, err := engine.BuildAngleScenarios(board, idSelect.Selected, angles)
			if err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			results := engine.CompareScenarios(engine.NewTracerWithSettings(a.traceSettings), scenarios)

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%-10s %8s %10s %8s\n", "Scenario", "Active", "Detected", "Beams"))
			for _, r := range results {
				b.WriteString(fmt.Sprintf("%-10s %5d/%-2d %9.1f%% %8d\n",
					r.ScenarioName, r.ActiveDetectors, r.TotalDetectors, r.DetectedPct, r.BeamCount))
			}
			out := widget.NewLabel(b.String())
			out.TextStyle = fyne.TextStyle{Monospace: true}
			d := dialog.NewCustom("Angle Sweep: "+idSelect.Selected, "Close", out, a.window)
			d.Show()
		},
		a.window,
	)
	form.Show()
}

// ─── Workspace Persistence ─────────────────────────────────

func (a *App) saveWorkspace() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()

		ws := project.NewWorkspace(a.benchName, a.spec)
		ws.MaterialName = a.labMaterial.Name
		ws.WavelengthNm = a.config.DefaultWavelengthNm
		ws.ThicknessUm = a.labThickness
		if err := project.SaveWorkspace(path, ws); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.config.AddRecentWorkspace(path)
		_ = a.saveConfig()
		a.SetupMenus() // refresh the recent list
	}, a.window)
	d.SetFileName(strings.ReplaceAll(a.benchName, " ", "_") + ".pbench")
	d.Show()
}

func (a *App) openWorkspace() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.loadWorkspaceFile(reader.URI().Path())
	}, a.window)
	d.Show()
}

func (a *App) loadWorkspaceFile(path string) {
	ws, err := project.LoadWorkspace(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.benchName = ws.Name
	a.spec = ws.Board
	a.activeLevel = nil
	a.adjustments = 0
	a.history.Clear()
	if ws.MaterialName != "" {
		a.labMaterial = project.FindMaterial(ws.MaterialName, a.materials)
	}
	if ws.ThicknessUm > 0 {
		a.labThickness = ws.ThicknessUm
	}
	a.config.AddRecentWorkspace(path)
	_ = a.saveConfig()
	a.SetupMenus()
	a.retrace()
	a.refreshLab()
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importDXF() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		result := importer.ImportDXF(reader.URI().Path())
		if len(result.Errors) > 0 {
			dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s",
				strings.Join(result.Errors, "\n")), a.window)
			return
		}
		if len(result.Warnings) > 0 {
			fmt.Printf("Import warnings: %v\n", result.Warnings)
		}

		a.pushHistory("Import DXF")
		a.spec = result.Spec
		a.activeLevel = nil
		a.benchName = "Imported Bench"
		a.retrace()

		msg := fmt.Sprintf("Imported %d components.", len(result.Spec.Components))
		if result.Ignored > 0 {
			msg += fmt.Sprintf("\n%d entities on unknown layers were skipped.", result.Ignored)
		}
		dialog.ShowInformation("Import Complete", msg, a.window)
	}, a.window)
}

func (a *App) importSpectrum(fromExcel bool) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		var result importer.SpectrumImportResult
		if fromExcel {
			result = importer.ImportSpectrumExcel(reader.URI().Path())
		} else {
			result = importer.ImportSpectrumCSV(reader.URI().Path())
		}
		if len(result.Errors) > 0 {
			dialog.ShowError(fmt.Errorf("errors encountered during import:\n\n%s",
				strings.Join(result.Errors, "\n")), a.window)
			return
		}
		a.showImportedSpectrum(result)
	}, a.window)
}

// showImportedSpectrum plots a measured transmission spectrum and, when the
// channeled fringes allow it, the optical path difference estimated from
// their spacing.
func (a *App) showImportedSpectrum(result importer.SpectrumImportResult) {
	chart := widgets.NewSpectrumChart(result.WavelengthsNm, result.Transmission, 640, 240)

	caption := fmt.Sprintf("%d samples", len(result.WavelengthsNm))
	if opd, err := spectral.EstimateOPD(result.WavelengthsNm, result.Transmission); err == nil {
		caption += fmt.Sprintf("\nEstimated OPD from channeled spectrum: %.0f nm", opd)
	}
	if len(result.Warnings) > 0 {
		caption += "\n" + strings.Join(result.Warnings, "\n")
	}

	content := container.NewVBox(chart, widget.NewLabel(caption))
	d := dialog.NewCustom("Imported Spectrum", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 380))
	d.Show()
}

// ─── Export Functions ───────────────────────────────────────

func (a *App) benchReport() (export.BenchReport, *export.SpectralReport, error) {
	if len(a.spec.Components) == 0 {
		return export.BenchReport{}, nil, fmt.Errorf("the bench is empty")
	}
	if a.trace == nil {
		if a.buildErr != nil {
			return export.BenchReport{}, nil, fmt.Errorf("bench invalid: %w", a.buildErr)
		}
		return export.BenchReport{}, nil, fmt.Errorf("no trace available")
	}
	bench := export.BenchReport{
		Name:  a.benchName,
		Spec:  a.spec,
		Trace: *a.trace,
	}
	lab := &export.SpectralReport{
		Material:    a.labMaterial,
		ThicknessUm: a.labThickness,
		Crossed:     a.labCrossed,
	}
	return bench, lab, nil
}

func (a *App) exportPDF() {
	bench, lab, err := a.benchReport()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.saveExport("lab_report.pdf", func(path string) error {
		return export.ExportPDF(path, bench, lab)
	})
}

func (a *App) exportExcel() {
	bench, lab, err := a.benchReport()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.saveExport("bench.xlsx", func(path string) error {
		return export.ExportExcel(path, bench, lab)
	})
}

func (a *App) exportDXF() {
	if len(a.spec.Components) == 0 {
		dialog.ShowError(fmt.Errorf("the bench is empty"), a.window)
		return
	}
	var beams []model.Beam
	if a.trace != nil {
		beams = a.trace.Beams
	}
	a.saveExport("bench.dxf", func(path string) error {
		return export.ExportDXF(path, a.spec, beams)
	})
}

func (a *App) exportBenchCards() {
	cards := []export.BenchCard{export.NewBenchCard(a.benchName, a.spec)}
	for _, l := range level.Catalog() {
		cards = append(cards, export.NewBenchCard(l.Title, l.Board))
	}
	a.saveExport("bench_cards.pdf", func(path string) error {
		return export.ExportBenchCards(path, cards)
	})
}

func (a *App) saveExport(defaultName string, write func(path string) error) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName(defaultName)
	d.Show()
}
