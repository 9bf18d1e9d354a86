package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/PolarBench/internal/project"
	"github.com/piwi3910/PolarBench/internal/spectral"
)

// ─── Material Library Dialog ───────────────────────────────

func (a *App) showMaterialLibraryDialog() {
	materialList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		materialList.RemoveAll()

		header := container.NewGridWithColumns(6,
			widget.NewLabelWithStyle("Name", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("n_o", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("n_e", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Δn", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		materialList.Add(header)
		materialList.Add(widget.NewSeparator())

		// Built-ins are read-only reference rows.
		for _, m := range spectral.Materials {
			materialList.Add(container.NewGridWithColumns(6,
				widget.NewLabel(m.Name),
				widget.NewLabel(fmt.Sprintf("%.4f", m.IndexOrdinary)),
				widget.NewLabel(fmt.Sprintf("%.4f", m.IndexExtraordinary)),
				widget.NewLabel(fmt.Sprintf("%+.4f", m.Birefringence())),
				widget.NewLabel("built-in"),
				widget.NewLabel(""),
			))
		}

		if len(a.materials) == 0 {
			materialList.Add(widget.NewLabel("No user materials yet."))
			return
		}
		materialList.Add(widget.NewSeparator())

		for i := range a.materials {
			idx := i // capture
			m := a.materials[idx]
			row := container.NewGridWithColumns(6,
				widget.NewLabel(m.Name),
				widget.NewLabel(fmt.Sprintf("%.4f", m.IndexOrdinary)),
				widget.NewLabel(fmt.Sprintf("%.4f", m.IndexExtraordinary)),
				widget.NewLabel(fmt.Sprintf("%+.4f", m.Birefringence())),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showEditMaterialDialog(idx, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.materials = append(a.materials[:idx], a.materials[idx+1:]...)
					a.saveMaterials()
					refreshList()
				}),
			)
			materialList.Add(row)
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Material", theme.ContentAddIcon(), func() {
		a.showAddMaterialDialog(refreshList)
	})

	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importMaterials(refreshList)
	})

	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportMaterials()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(materialList),
	)

	d := dialog.NewCustom("Material Library", "Close", content, a.window)
	d.Resize(fyne.NewSize(640, 480))
	d.Show()
}

func (a *App) showAddMaterialDialog(onDone func()) {
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Material name")
	nameEntry.SetText("New Material")

	noEntry := widget.NewEntry()
	noEntry.SetText("1.5000")

	neEntry := widget.NewEntry()
	neEntry.SetText("1.5100")

	form := dialog.NewForm("Add Material", "Add", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Ordinary Index (n_o)", noEntry),
			widget.NewFormItem("Extraordinary Index (n_e)", neEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			no, _ := strconv.ParseFloat(noEntry.Text, 64)
			ne, _ := strconv.ParseFloat(neEntry.Text, 64)
			if nameEntry.Text == "" || no < 1 || ne < 1 {
				dialog.ShowError(fmt.Errorf("name must be set and both indices must be >= 1"), a.window)
				return
			}

			a.materials = append(a.materials, spectral.Material{
				Name:               nameEntry.Text,
				IndexOrdinary:      no,
				IndexExtraordinary: ne,
			})
			a.saveMaterials()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 300))
	form.Show()
}

func (a *App) showEditMaterialDialog(idx int, onDone func()) {
	m := a.materials[idx]

	nameEntry := widget.NewEntry()
	nameEntry.SetText(m.Name)

	noEntry := widget.NewEntry()
	noEntry.SetText(fmt.Sprintf("%.4f", m.IndexOrdinary))

	neEntry := widget.NewEntry()
	neEntry.SetText(fmt.Sprintf("%.4f", m.IndexExtraordinary))

	form := dialog.NewForm("Edit Material", "Save", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Name", nameEntry),
			widget.NewFormItem("Ordinary Index (n_o)", noEntry),
			widget.NewFormItem("Extraordinary Index (n_e)", neEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			a.materials[idx].Name = nameEntry.Text
			a.materials[idx].IndexOrdinary, _ = strconv.ParseFloat(noEntry.Text, 64)
			a.materials[idx].IndexExtraordinary, _ = strconv.ParseFloat(neEntry.Text, 64)
			a.saveMaterials()
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(420, 300))
	form.Show()
}

// ─── Import / Export ───────────────────────────────────────

func (a *App) importMaterials(onDone func()) {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		merged, err := project.ImportMaterialLibrary(reader.URI().Path(), a.materials)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}

		a.materials = merged
		a.saveMaterials()
		onDone()
		dialog.ShowInformation("Import Complete",
			fmt.Sprintf("The library now contains %d user materials.", len(a.materials)),
			a.window)
	}, a.window)
}

func (a *App) exportMaterials() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.SaveUserMaterials(writer.URI().Path(), a.materials); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Materials exported to %s", writer.URI().Path()),
				a.window)
		}
	}, a.window)
	d.SetFileName("materials.json")
	d.Show()
}

// saveMaterials persists the user material library to disk.
func (a *App) saveMaterials() {
	if err := project.SaveUserMaterials(project.DefaultMaterialsPath(), a.materials); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save materials: %w", err), a.window)
	}
}
