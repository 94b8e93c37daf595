package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// showAdvancedSettingsDialog edits the project's layout guard rails and the
// project name.
func (a *App) showAdvancedSettingsDialog() {
	s := a.project.Settings
	name := a.project.Name

	floatEntry := func(val *float64) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.FormatFloat(*val, 'f', -1, 64))
		e.OnChanged = func(text string) {
			if v, err := strconv.ParseFloat(text, 64); err == nil {
				*val = v
			}
		}
		return e
	}

	intEntry := func(val *int) *widget.Entry {
		e := widget.NewEntry()
		e.SetText(strconv.Itoa(*val))
		e.OnChanged = func(text string) {
			if v, err := strconv.Atoi(text); err == nil {
				*val = v
			}
		}
		return e
	}

	nameEntry := widget.NewEntry()
	nameEntry.SetText(name)
	nameEntry.OnChanged = func(text string) { name = text }

	projectSection := widget.NewCard("Project", "",
		container.NewGridWithColumns(2,
			widget.NewLabel("Name"), nameEntry,
		))

	guardSection := widget.NewCard("Layout Guard Rails",
		"Limits that keep steep tilts and very large roofs from stalling the layout",
		container.NewGridWithColumns(2,
			widget.NewLabel("Min Footprint Ratio (0-1]"), floatEntry(&s.MinFootprintRatio),
			widget.NewLabel("Max Grid Candidates"), intEntry(&s.MaxCandidates),
		))

	saveDefault := widget.NewCheck("Use as default for new projects", nil)

	content := container.NewVBox(projectSection, guardSection, saveDefault)

	d := dialog.NewCustomConfirm("Layout Settings", "Apply", "Cancel", content, func(ok bool) {
		if !ok {
			return
		}
		if s.MinFootprintRatio <= 0 || s.MinFootprintRatio > 1 || s.MaxCandidates <= 0 {
			dialog.ShowError(fmt.Errorf("footprint ratio must be in (0, 1] and max candidates > 0"), a.window)
			return
		}
		if name != "" {
			a.project.Name = name
		}
		if s != a.project.Settings {
			a.applyLayoutSettings(s)
		}
		if saveDefault.Checked {
			a.config.MinFootprintRatio = s.MinFootprintRatio
			a.config.MaxCandidates = s.MaxCandidates
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
			}
		}
		a.refreshAll()
	}, a.window)
	d.Resize(fyne.NewSize(520, 360))
	d.Show()
}

// applyLayoutSettings swaps the project's guard rails and relays out every roof.
func (a *App) applyLayoutSettings(s model.LayoutSettings) {
	a.project.Settings = s
	if err := a.rebuildController(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.syncAll()
	a.logger.Info("layout settings changed", "min_footprint_ratio", s.MinFootprintRatio, "max_candidates", s.MaxCandidates)
}
