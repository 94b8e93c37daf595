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
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
)

// ─── Panel Catalog Dialog ──────────────────────────────────

func (a *App) showCatalogDialog() {
	panelList := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		panelList.RemoveAll()

		header := container.NewGridWithColumns(6,
			widget.NewLabelWithStyle("Panel", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Width", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Height", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("Power", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
			widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{}),
		)
		panelList.Add(header)
		panelList.Add(widget.NewSeparator())

		for i := range a.catalog.Panels {
			idx := i
			d := a.catalog.Panels[idx]
			row := container.NewGridWithColumns(6,
				widget.NewLabel(d.Label),
				widget.NewLabel(fmt.Sprintf("%.3f m", d.WidthMeters)),
				widget.NewLabel(fmt.Sprintf("%.3f m", d.HeightMeters)),
				widget.NewLabel(fmt.Sprintf("%.0f W", d.Wattage)),
				widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() {
					a.showPanelDefinitionDialog(&d, refreshList)
				}),
				widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
					a.deletePanelDefinition(idx, refreshList)
				}),
			)
			panelList.Add(row)
		}
	}

	refreshList()

	addBtn := widget.NewButtonWithIcon("Add Panel Type", theme.ContentAddIcon(), func() {
		a.showPanelDefinitionDialog(nil, refreshList)
	})

	importBtn := widget.NewButtonWithIcon("Import...", theme.FolderOpenIcon(), func() {
		a.importCatalog()
	})

	exportBtn := widget.NewButtonWithIcon("Export...", theme.DocumentSaveIcon(), func() {
		a.exportCatalog()
	})

	toolbar := container.NewHBox(addBtn, layout.NewSpacer(), importBtn, exportBtn)

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(panelList),
	)

	d := dialog.NewCustom("Panel Catalog", "Close", content, a.window)
	d.Resize(fyne.NewSize(700, 450))
	d.Show()
}

// showPanelDefinitionDialog edits def, or adds a new panel type when def is nil.
func (a *App) showPanelDefinitionDialog(def *model.PanelDefinition, onDone func()) {
	title, confirm := "Add Panel Type", "Add"
	current := model.PanelDefinition{WidthMeters: 1.0, HeightMeters: 1.7, Wattage: 400}
	if def != nil {
		title, confirm = "Edit Panel Type", "Save"
		current = *def
	}

	typeEntry := widget.NewEntry()
	typeEntry.SetPlaceHolder("Short key, e.g. mono-400")
	typeEntry.SetText(current.Type)
	if def != nil {
		typeEntry.Disable()
	}

	labelEntry := widget.NewEntry()
	labelEntry.SetText(current.Label)

	widthEntry := widget.NewEntry()
	widthEntry.SetText(strconv.FormatFloat(current.WidthMeters, 'f', -1, 64))

	heightEntry := widget.NewEntry()
	heightEntry.SetText(strconv.FormatFloat(current.HeightMeters, 'f', -1, 64))

	wattEntry := widget.NewEntry()
	wattEntry.SetText(strconv.FormatFloat(current.Wattage, 'f', -1, 64))

	form := dialog.NewForm(title, confirm, "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Type", typeEntry),
			widget.NewFormItem("Label", labelEntry),
			widget.NewFormItem("Width (m)", widthEntry),
			widget.NewFormItem("Height (m)", heightEntry),
			widget.NewFormItem("Power (W)", wattEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			w, _ := strconv.ParseFloat(widthEntry.Text, 64)
			h, _ := strconv.ParseFloat(heightEntry.Text, 64)
			watt, _ := strconv.ParseFloat(wattEntry.Text, 64)

			updated := model.PanelDefinition{
				Type:         typeEntry.Text,
				Label:        labelEntry.Text,
				WidthMeters:  w,
				HeightMeters: h,
				Wattage:      watt,
			}
			if updated.Label == "" {
				updated.Label = updated.Type
			}
			if !updated.Valid() {
				dialog.ShowError(fmt.Errorf("type is required and width and height must be > 0"), a.window)
				return
			}
			if def == nil {
				if _, exists := a.catalog.Lookup(updated.Type); exists {
					dialog.ShowError(fmt.Errorf("panel type %q already exists", updated.Type), a.window)
					return
				}
			}

			catalog := a.catalogCopy()
			catalog.Upsert(updated)
			if err := a.setCatalog(catalog); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save panel catalog: %w", err), a.window)
				return
			}
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 360))
	form.Show()
}

func (a *App) deletePanelDefinition(idx int, onDone func()) {
	if len(a.catalog.Panels) <= 1 {
		dialog.ShowInformation("Panel Catalog", "The catalog needs at least one panel type.", a.window)
		return
	}
	def := a.catalog.Panels[idx]
	dialog.ShowConfirm("Delete Panel Type",
		fmt.Sprintf("Delete %q? Roofs using it fall back to the default panel.", def.Label),
		func(ok bool) {
			if !ok {
				return
			}
			catalog := a.catalogCopy()
			catalog.Panels = append(catalog.Panels[:idx:idx], catalog.Panels[idx+1:]...)
			if err := a.setCatalog(catalog); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			onDone()
		},
		a.window,
	)
}

func (a *App) exportCatalog() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if err := project.SaveCatalog(writer.URI().Path(), a.catalog); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Panel catalog exported to %s", writer.URI().Path()),
				a.window)
		}
	}, a.window)
	d.SetFileName("panels.toml")
	d.Show()
}
