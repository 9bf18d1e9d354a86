package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolarBench/internal/project"
)

// showTemplateManagerDialog opens the bench-template manager where users can
// view, apply, create, delete, import, and export bench templates.
func (a *App) showTemplateManagerDialog() {
	w := fyne.CurrentApp().NewWindow("Bench Templates")
	w.Resize(fyne.NewSize(700, 500))

	var listWidget *widget.List
	var selectedIdx int = -1
	var detailContainer *fyne.Container

	templates := a.allTemplates()

	detailContainer = container.NewVBox(
		widget.NewLabel("Select a template to view details."),
	)

	showDetail := func(t project.BenchTemplate) {
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabelWithStyle(t.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		detailContainer.Add(widget.NewLabel(t.Description))
		detailContainer.Add(widget.NewLabel(fmt.Sprintf("Board %g × %g, %d components",
			t.Board.Width, t.Board.Height, len(t.Board.Components))))
		for _, s := range t.Board.Components {
			detailContainer.Add(widget.NewLabel(fmt.Sprintf("  %s  %s  (%.1f, %.1f)  %.1f°",
				s.ID, kindLabel(s.Kind), s.X, s.Y, s.AngleDeg)))
		}
		detailContainer.Refresh()
	}

	listWidget = widget.NewList(
		func() int {
			return len(templates)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(
				widget.NewIcon(theme.DocumentIcon()),
				widget.NewLabel("Template Name"),
				layout.NewSpacer(),
				widget.NewLabel("(built-in)"),
			)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			box := obj.(*fyne.Container)
			nameLabel := box.Objects[1].(*widget.Label)
			tagLabel := box.Objects[3].(*widget.Label)
			t := templates[id]
			nameLabel.SetText(t.Name)
			if t.Builtin {
				tagLabel.SetText("(built-in)")
			} else {
				tagLabel.SetText("(custom)")
			}
		},
	)

	listWidget.OnSelected = func(id widget.ListItemID) {
		selectedIdx = id
		showDetail(templates[id])
	}

	refresh := func() {
		templates = a.allTemplates()
		listWidget.Refresh()
		listWidget.UnselectAll()
		selectedIdx = -1
		detailContainer.RemoveAll()
		detailContainer.Add(widget.NewLabel("Select a template to view details."))
		detailContainer.Refresh()
	}

	// Action buttons
	applyBtn := widget.NewButtonWithIcon("Apply to Bench", theme.MediaPlayIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(templates) {
			dialog.ShowInformation("No Selection", "Select a template to apply.", w)
			return
		}
		t := templates[selectedIdx]
		a.pushHistory("Apply template " + t.Name)
		a.benchName = t.Name
		a.spec = t.Board
		a.spec.Components = copyComponents(t.Board.Components)
		a.activeLevel = nil
		a.retrace()
		w.Close()
	})

	saveCurrentBtn := widget.NewButtonWithIcon("Save Current Bench", theme.ContentAddIcon(), func() {
		a.showSaveTemplateDialog(w, refresh)
	})

	importBtn := widget.NewButtonWithIcon("Import", theme.FolderOpenIcon(), func() {
		a.importTemplates(w, refresh)
	})

	exportBtn := widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), func() {
		a.exportTemplates(w)
	})

	deleteBtn := widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		if selectedIdx < 0 || selectedIdx >= len(templates) {
			dialog.ShowInformation("No Selection", "Select a template to delete.", w)
			return
		}
		t := templates[selectedIdx]
		if t.Builtin {
			dialog.ShowInformation("Cannot Delete", "Built-in templates cannot be deleted.", w)
			return
		}
		dialog.ShowConfirm("Delete Template",
			fmt.Sprintf("Delete template %q?", t.Name),
			func(ok bool) {
				if !ok {
					return
				}
				a.templates.Remove(t.ID)
				a.saveTemplates()
				refresh()
			}, w)
	})

	toolbar := container.NewHBox(applyBtn, saveCurrentBtn, layout.NewSpacer(), importBtn, exportBtn, deleteBtn)

	split := container.NewHSplit(listWidget, container.NewVScroll(detailContainer))
	split.SetOffset(0.4)

	w.SetContent(container.NewBorder(toolbar, nil, nil, nil, split))
	w.Show()
}

// allTemplates lists the built-in templates followed by the user's own.
func (a *App) allTemplates() []project.BenchTemplate {
	out := project.BuiltinTemplates()
	out = append(out, a.templates.Templates...)
	return out
}

func (a *App) showSaveTemplateDialog(w fyne.Window, onDone func()) {
	if len(a.spec.Components) == 0 {
		dialog.ShowInformation("Empty Bench", "Build a bench before saving it as a template.", w)
		return
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(a.benchName)
	descEntry := widget.NewEntry()
	descEntry.SetPlaceHolder("Optional description")

	form := dialog.NewForm("Save Template", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Description", descEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			if nameEntry.Text == "" {
				dialog.ShowError(fmt.Errorf("template name must not be empty"), w)
				return
			}
			board := a.spec
			board.Components = copyComponents(a.spec.Components)
			a.templates.Add(project.NewBenchTemplate(nameEntry.Text, descEntry.Text, board))
			a.saveTemplates()
			onDone()
		},
		w,
	)
	form.Resize(fyne.NewSize(420, 240))
	form.Show()
}

func (a *App) importTemplates(w fyne.Window, onDone func()) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		imported, err := project.LoadTemplates(reader.URI().Path())
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		added := 0
		for _, t := range imported.Templates {
			if a.templates.FindByID(t.ID) == nil {
				a.templates.Add(t)
				added++
			}
		}
		a.saveTemplates()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("Imported %d templates.", added), w)
	}, w)
	d.Show()
}

func (a *App) exportTemplates(w fyne.Window) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.SaveTemplates(writer.URI().Path(), a.templates); err != nil {
			dialog.ShowError(err, w)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Templates exported to %s", writer.URI().Path()), w)
		}
	}, w)
	d.SetFileName("bench-templates.json")
	d.Show()
}

// saveTemplates persists the user template store to disk.
func (a *App) saveTemplates() {
	if err := project.SaveTemplates(project.DefaultTemplatesPath(), a.templates); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save templates: %w", err), a.window)
	}
}
