package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/piwi3910/PanelPlan/internal/project"
)

// showSettingsDialog displays the application preferences editor.
func (a *App) showSettingsDialog() {
	cfg := a.config

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

	stringEntry := func(val *string, placeholder string) *widget.Entry {
		e := widget.NewEntry()
		e.SetPlaceHolder(placeholder)
		e.SetText(*val)
		e.OnChanged = func(text string) { *val = text }
		return e
	}

	panelSelect := widget.NewSelect(a.catalog.Types(), func(selected string) {
		cfg.DefaultPanelType = selected
	})
	panelSelect.SetSelected(cfg.DefaultPanelType)

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, func(selected string) {
		cfg.Theme = selected
	})
	themeSelect.SetSelected(cfg.Theme)

	formItems := []*widget.FormItem{
		widget.NewFormItem("Theme", themeSelect),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Default Panel Type", panelSelect),
		widget.NewFormItem("Default Tilt (°)", floatEntry(&cfg.DefaultTiltAngle)),
		widget.NewFormItem("Default Orientation (°)", floatEntry(&cfg.DefaultOrientationAngle)),
		widget.NewFormItem("", widget.NewSeparator()),
		widget.NewFormItem("Panel Catalog File", stringEntry(&cfg.CatalogPath, project.DefaultCatalogPath())),
		widget.NewFormItem("Roof Database", stringEntry(&cfg.DatabasePath, project.DefaultDatabasePath())),
		widget.NewFormItem("API Listen Address", stringEntry(&cfg.ServerAddr, "127.0.0.1:8420")),
	}

	d := dialog.NewForm("Preferences", "Save", "Cancel", formItems,
		func(ok bool) {
			if !ok {
				return
			}
			if cfg.DefaultTiltAngle < 0 || cfg.DefaultTiltAngle > 90 {
				dialog.ShowError(fmt.Errorf("default tilt must be between 0 and 90 degrees"), a.window)
				return
			}
			catalogChanged := cfg.CatalogPath != a.config.CatalogPath
			a.config = cfg
			if err := a.saveConfig(); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save settings: %w", err), a.window)
				return
			}
			a.applyTheme(cfg.Theme)
			if catalogChanged {
				a.reloadCatalog()
			}
			dialog.ShowInformation("Settings Saved", "Preferences have been saved.", a.window)
		},
		a.window,
	)
	d.Resize(fyne.NewSize(520, 480))
	d.Show()
}

// reloadCatalog reads the catalog named by the config and relays out every roof.
func (a *App) reloadCatalog() {
	catalog, err := project.LoadCatalogFromConfig(a.config)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to load panel catalog: %w", err), a.window)
		return
	}
	a.catalog = catalog
	a.ctrl.SetCatalog(catalog)
	a.syncAll()
}

// showImportExportDialog displays the backup dialog.
func (a *App) showImportExportDialog() {
	exportBtn := widget.NewButton("Export All Data...", func() {
		d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			defer writer.Close()
			path := writer.URI().Path()
			if err := project.ExportAllData(path, a.config, a.catalog); err != nil {
				dialog.ShowError(err, a.window)
			} else {
				dialog.ShowInformation("Export Complete",
					fmt.Sprintf("Preferences and panel catalog exported to:\n%s", path), a.window)
			}
		}, a.window)
		d.SetFileName("panelplan-backup.json")
		d.Show()
	})

	importBtn := widget.NewButton("Import All Data...", func() {
		dialog.ShowConfirm("Import Data",
			"Importing data will replace your preferences and panel catalog.\n\nAre you sure you want to continue?",
			func(ok bool) {
				if !ok {
					return
				}
				d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
					if err != nil || reader == nil {
						return
					}
					defer reader.Close()
					backup, err := project.ImportAllData(reader.URI().Path())
					if err != nil {
						dialog.ShowError(err, a.window)
						return
					}
					a.config = backup.Config
					if err := a.saveConfig(); err != nil {
						dialog.ShowError(fmt.Errorf("failed to save imported settings: %w", err), a.window)
						return
					}
					if err := a.setCatalog(backup.Catalog); err != nil {
						dialog.ShowError(fmt.Errorf("failed to restore panel catalog: %w", err), a.window)
						return
					}
					a.applyTheme(a.config.Theme)
					dialog.ShowInformation("Import Complete",
						fmt.Sprintf("Data imported successfully from backup created at %s.", backup.CreatedAt), a.window)
				}, a.window)
				d.Show()
			},
			a.window,
		)
	})

	content := container.NewVBox(
		widget.NewLabel("Export preferences and the panel catalog to a backup file,\nor import from a previously exported backup."),
		widget.NewSeparator(),
		exportBtn,
		widget.NewSeparator(),
		importBtn,
	)

	d := dialog.NewCustom("Import / Export Data", "Close", content, a.window)
	d.Resize(fyne.NewSize(450, 250))
	d.Show()
}

// saveConfig persists the current app config to disk.
func (a *App) saveConfig() error {
	return project.SaveAppConfig(a.configPath, a.config)
}
