package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/piwi3910/PanelPlan/internal/export"
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/importer"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/piwi3910/PanelPlan/internal/store"
)

const storeTimeout = 5 * time.Second

// ─── Projects ──────────────────────────────────────────────

func (a *App) saveProject(saveAs bool) {
	if a.projectPath != "" && !saveAs {
		a.writeProject(a.projectPath)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		a.writeProject(project.EnsureExtension(writer.URI().Path()))
	}, a.window)
	d.SetFileName(a.project.Name + project.Extension)
	d.Show()
}

func (a *App) writeProject(path string) {
	if err := project.Save(path, a.project); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.projectPath = path
	a.rememberProject(path)
	a.setStatus("Saved " + path)
	a.logger.Info("project saved", "path", path, "roofs", len(a.project.Roofs))
}

func (a *App) openProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.loadProjectFile(reader.URI().Path())
	}, a.window)
	d.Show()
}

func (a *App) loadProjectFile(path string) {
	proj, err := project.Load(path)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if err := a.setProject(proj, path); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if len(proj.Roofs) > 0 {
		a.canvas.SetAnchor(geo.Centroid(proj.Roofs[0].Path))
	}
	a.rememberProject(path)
	a.setStatus(fmt.Sprintf("Opened %s: %d panels on %d roofs.", filepath.Base(path), a.project.TotalPanels(), len(a.project.Roofs)))
}

// rememberProject adds path to the recent projects list and persists it.
func (a *App) rememberProject(path string) {
	a.config.AddRecentProject(path, maxRecentProjects)
	if err := a.saveConfig(); err != nil {
		a.logger.Warn("saving recent projects", "err", err)
	}
}

// ─── Import Functions ──────────────────────────────────────

// importDXF asks for the drawing's geographic anchor and unit, then adds the
// largest closed shape as a roof and the shapes inside it as obstacles.
func (a *App) importDXF() {
	anchor := a.canvas.Anchor()
	latEntry := widget.NewEntry()
	latEntry.SetText(strconv.FormatFloat(anchor.Lat, 'f', 6, 64))
	lngEntry := widget.NewEntry()
	lngEntry.SetText(strconv.FormatFloat(anchor.Lng, 'f', 6, 64))
	unitSelect := widget.NewSelect([]string{"Meters", "Centimeters", "Millimeters"}, nil)
	unitSelect.SetSelected("Meters")

	form := dialog.NewForm("Import Roof from DXF", "Choose File...", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Origin Latitude", latEntry),
			widget.NewFormItem("Origin Longitude", lngEntry),
			widget.NewFormItem("Drawing Unit", unitSelect),
		},
		func(ok bool) {
			if !ok {
				return
			}
			lat, err1 := strconv.ParseFloat(latEntry.Text, 64)
			lng, err2 := strconv.ParseFloat(lngEntry.Text, 64)
			if err1 != nil || err2 != nil {
				dialog.ShowError(fmt.Errorf("origin latitude and longitude must be numbers"), a.window)
				return
			}
			scale := 1.0
			switch unitSelect.Selected {
			case "Centimeters":
				scale = 0.01
			case "Millimeters":
				scale = 0.001
			}
			origin := model.GeoPoint{Lat: lat, Lng: lng}
			dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err != nil || reader == nil {
					return
				}
				defer reader.Close()
				a.handleDXFImport(importer.ImportRoofDXF(reader.URI().Path(), origin, scale), reader.URI().Name())
			}, a.window)
		},
		a.window,
	)
	form.Resize(fyne.NewSize(400, 260))
	form.Show()
}

func (a *App) handleDXFImport(result importer.RoofImportResult, fileName string) {
	if len(result.Errors) > 0 {
		dialog.ShowError(fmt.Errorf("%s", strings.Join(result.Errors, "\n")), a.window)
		return
	}
	for _, w := range result.Warnings {
		a.logger.Warn("dxf import", "file", fileName, "warning", w)
	}
	if result.Roof == nil {
		return
	}
	roof := *result.Roof
	roof.Name = strings.TrimSuffix(fileName, filepath.Ext(fileName))
	a.config.ApplyToRoof(&roof)
	if len(a.project.Roofs) == 0 {
		a.canvas.SetAnchor(geo.Centroid(roof.Path))
	}
	a.edit("Import DXF", func() {
		a.project.Roofs = append(a.project.Roofs, roof)
		a.selected = roof.ID
	})

	msg := fmt.Sprintf("Imported %s with %d obstacles: %d panels fit.",
		roof.Name, len(roof.ExclusionZones), a.project.Roof(roof.ID).PanelCount)
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\n\n%d shapes were skipped.", len(result.Warnings))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

// importCatalog merges panel types from a CSV or Excel sheet into the catalog.
func (a *App) importCatalog() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		var result importer.ImportResult
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx", ".xlsm":
			result = importer.ImportExcel(path)
		default:
			result = importer.ImportCSV(path)
		}
		a.handleImportResult(result)
	}, a.window)
}

func (a *App) handleImportResult(result importer.ImportResult) {
	if len(result.Errors) > 0 {
		errorMsg := "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		dialog.ShowError(fmt.Errorf("%s", errorMsg), a.window)
	}
	for _, w := range result.Warnings {
		a.logger.Warn("catalog import", "warning", w)
	}
	if len(result.Panels) == 0 {
		return
	}

	catalog := a.catalogCopy()
	for _, def := range result.Panels {
		catalog.Upsert(def)
	}
	if err := a.setCatalog(catalog); err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	msg := fmt.Sprintf("Successfully imported %d panel types.", len(result.Panels))
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\n\nHowever, %d rows had errors and were skipped.", len(result.Errors))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}

// catalogCopy returns a catalog that can be edited without touching the
// one in use.
func (a *App) catalogCopy() model.PanelCatalog {
	return model.PanelCatalog{Panels: append([]model.PanelDefinition(nil), a.catalog.Panels...)}
}

// setCatalog validates, persists and applies a new panel catalog.
func (a *App) setCatalog(catalog model.PanelCatalog) error {
	if err := project.ValidateCatalog(catalog); err != nil {
		return err
	}
	path := project.ResolveCatalogPath(a.config)
	if err := project.SaveCatalog(path, catalog); err != nil {
		return err
	}
	a.catalog = catalog
	a.ctrl.SetCatalog(catalog)
	a.syncAll()
	a.logger.Info("panel catalog saved", "path", path, "types", len(catalog.Panels))
	return nil
}

// ─── Exports ───────────────────────────────────────────────

// exportFile asks for a destination and runs write on it.
func (a *App) exportFile(defaultName, ext string, write func(path string) error) {
	if len(a.project.Roofs) == 0 {
		dialog.ShowInformation("Nothing to export", "Draw or import a roof first.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if !strings.EqualFold(filepath.Ext(path), ext) {
			path += ext
		}
		if err := write(path); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("exported", "path", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(defaultName + ext)
	d.Show()
}

func (a *App) exportPDF() {
	a.exportFile(a.project.Name, ".pdf", func(path string) error {
		return export.ExportPDF(path, a.project.Name, a.layouts())
	})
}

func (a *App) exportLabels() {
	a.exportFile(a.project.Name+"-labels", ".pdf", func(path string) error {
		return export.ExportLabels(path, a.layouts())
	})
}

func (a *App) exportXLSX() {
	a.exportFile(a.project.Name, ".xlsx", func(path string) error {
		return export.ExportXLSX(path, a.layouts())
	})
}

func (a *App) exportDXF() {
	roof := a.project.Roof(a.selected)
	if roof == nil {
		dialog.ShowInformation("No roof selected", "Select the roof to export.", a.window)
		return
	}
	id := roof.ID
	a.exportFile(roof.Name, ".dxf", func(path string) error {
		for _, l := range a.layouts() {
			if l.Roof.ID == id {
				return export.ExportDXF(path, l)
			}
		}
		return fmt.Errorf("roof %s no longer exists", id)
	})
}

// ─── Roof Database ─────────────────────────────────────────

func (a *App) openStore(ctx context.Context) (*store.SQLiteStore, error) {
	path := project.ResolveDatabasePath(a.config)
	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open roof database %s: %w", path, err)
	}
	return st, nil
}

func (a *App) storeSelectedRoof() {
	roof := a.project.Roof(a.selected)
	if roof == nil {
		dialog.ShowInformation("No roof selected", "Select the roof to save.", a.window)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	st, err := a.openStore(ctx)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	defer st.Close()

	id, err := st.Save(ctx, roof.Record())
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.setStatus(fmt.Sprintf("Saved %s as #%d (%d panels).", roof.Name, id, roof.PanelCount))
}

func (a *App) showStoredRoofs() {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	st, err := a.openStore(ctx)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	defer st.Close()

	roofs, err := st.List(ctx)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if len(roofs) == 0 {
		dialog.ShowInformation("Roof Database", "No roofs saved yet.", a.window)
		return
	}

	options := make([]string, len(roofs))
	for i, r := range roofs {
		options[i] = fmt.Sprintf("#%d %s (%d panels, %s)", r.ID, r.Record.Name, r.Record.PanelCount, r.SavedAt.Format("2006-01-02"))
	}
	choice := widget.NewSelect(options, nil)
	choice.SetSelectedIndex(0)

	dialog.ShowForm("Load Roof from Database", "Load", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Roof", choice)},
		func(ok bool) {
			idx := choice.SelectedIndex()
			if !ok || idx < 0 {
				return
			}
			roof := roofs[idx].Record.ToRoofArea()
			if len(a.project.Roofs) == 0 && roof.Path.IsPolygon() {
				a.canvas.SetAnchor(geo.Centroid(roof.Path))
			}
			a.edit("Load Roof", func() {
				a.project.Roofs = append(a.project.Roofs, roof)
				a.selected = roof.ID
			})
		},
		a.window,
	)
}
