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
	"github.com/piwi3910/PanelPlan/internal/engine"
	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/ui/widgets"
)

// ─── Roof Panel ────────────────────────────────────────────

func (a *App) buildRoofPanel() fyne.CanvasObject {
	a.roofList = widget.NewList(
		func() int { return len(a.project.Roofs) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(a.project.Roofs) {
				return
			}
			r := a.project.Roofs[id]
			obj.(*widget.Label).SetText(fmt.Sprintf("%s (%d panels)", r.Name, r.PanelCount))
		},
	)
	a.roofList.OnSelected = func(id widget.ListItemID) {
		if id < len(a.project.Roofs) {
			a.selectRoof(a.project.Roofs[id].ID)
		}
	}

	a.editorContainer = container.NewVBox()

	addBtn := widget.NewButtonWithIcon("Draw Roof", theme.ContentAddIcon(), func() {
		a.startDraw(false)
	})

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Roofs", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			addBtn,
		),
		nil, nil, nil,
		container.NewVSplit(a.roofList, container.NewVScroll(a.editorContainer)),
	)
}

func (a *App) refreshRoofList() {
	if a.roofList == nil {
		return
	}
	a.roofList.Refresh()
	for i, r := range a.project.Roofs {
		if r.ID == a.selected {
			a.roofList.Select(i)
			return
		}
	}
	a.roofList.UnselectAll()
}

func (a *App) selectRoof(id string) {
	if id == a.selected {
		return
	}
	a.selected = id
	a.refreshAll()
}

// refreshEditor rebuilds the property editor for the selected roof.
func (a *App) refreshEditor() {
	if a.editorContainer == nil {
		return
	}
	a.editorContainer.RemoveAll()

	roof := a.project.Roof(a.selected)
	if roof == nil {
		a.editorContainer.Add(widget.NewLabel("Select a roof to edit its panels."))
		a.editorContainer.Refresh()
		return
	}
	id := roof.ID

	nameEntry := widget.NewEntry()
	nameEntry.SetText(roof.Name)
	nameEntry.OnSubmitted = func(text string) {
		if text == "" {
			return
		}
		a.edit("Rename Roof", func() { a.project.Roof(id).Name = text })
	}

	types := a.catalog.Types()
	labels := make([]string, len(types))
	current := ""
	for i, t := range types {
		def, _ := a.catalog.Lookup(t)
		labels[i] = def.Label
		if t == roof.PanelType {
			current = def.Label
		}
	}
	panelSelect := widget.NewSelect(labels, nil)
	if current != "" {
		panelSelect.SetSelected(current)
	}
	panelSelect.OnChanged = func(label string) {
		for i, l := range labels {
			if l == label && types[i] != a.project.Roof(id).PanelType {
				panelType := types[i]
				a.edit("Change Panel Type", func() { a.project.Roof(id).PanelType = panelType })
				return
			}
		}
	}

	tiltLabel := widget.NewLabel(fmt.Sprintf("%.0f°", roof.TiltAngle))
	tilt := widget.NewSlider(0, 90)
	tilt.Step = 1
	tilt.SetValue(roof.TiltAngle)
	tilt.OnChanged = func(v float64) { tiltLabel.SetText(fmt.Sprintf("%.0f°", v)) }
	tilt.OnChangeEnded = func(v float64) {
		if v == a.project.Roof(id).TiltAngle {
			return
		}
		a.edit("Change Tilt", func() {
			r := a.project.Roof(id)
			r.TiltAngle = v
			r.Normalize()
		})
	}

	orientLabel := widget.NewLabel(orientationText(roof.OrientationAngle))
	orient := widget.NewSlider(0, 359)
	orient.Step = 1
	orient.SetValue(roof.OrientationAngle)
	orient.OnChanged = func(v float64) { orientLabel.SetText(orientationText(v)) }
	orient.OnChangeEnded = func(v float64) {
		if v == a.project.Roof(id).OrientationAngle {
			return
		}
		a.edit("Change Orientation", func() {
			r := a.project.Roof(id)
			r.OrientationAngle = v
			r.Normalize()
		})
	}

	snapBtn := widget.NewButtonWithIcon("Snap to Edge", theme.ViewRestoreIcon(), func() {
		a.canvas.SetMode(widgets.ModeSnap)
		a.setStatus("Tap near the roof edge the panel rows should follow.")
	})

	form := widget.NewForm(
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("Panel", panelSelect),
		widget.NewFormItem("Tilt", container.NewBorder(nil, nil, nil, tiltLabel, tilt)),
		widget.NewFormItem("Orientation", container.NewBorder(nil, nil, nil, orientLabel, orient)),
		widget.NewFormItem("", snapBtn),
	)

	result, _ := a.ctrl.Result(id)
	stats := widget.NewLabel(fmt.Sprintf(
		"%d of %d panels placed (%d removed)",
		len(a.ctrl.Panels(id)), result.Count(), result.Count()-len(a.ctrl.Panels(id)),
	))
	if result.Truncated {
		stats.SetText("Roof too large for the current layout settings. No panels placed.")
		stats.Importance = widget.DangerImportance
	}

	a.editorContainer.Add(form)
	a.editorContainer.Add(stats)
	a.editorContainer.Add(widget.NewSeparator())
	a.editorContainer.Add(a.buildZoneList(roof))
	a.editorContainer.Add(widget.NewSeparator())
	a.editorContainer.Add(container.NewHBox(
		widget.NewButtonWithIcon("Compare", theme.ListIcon(), a.showCompareDialog),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("Delete Roof", theme.DeleteIcon(), a.deleteSelectedRoof),
	))
	a.editorContainer.Refresh()
}

func (a *App) buildZoneList(roof *model.RoofArea) fyne.CanvasObject {
	id := roof.ID
	box := container.NewVBox(container.NewHBox(
		widget.NewLabelWithStyle("Exclusion Zones", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		layout.NewSpacer(),
		widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { a.startDraw(true) }),
	))
	if len(roof.ExclusionZones) == 0 {
		box.Add(widget.NewLabel("No obstacles marked."))
		return box
	}
	for _, z := range roof.ExclusionZones {
		zoneID := z.ID
		box.Add(container.NewHBox(
			widget.NewLabel(fmt.Sprintf("%s (%.1f m²)", z.Name, geo.Area(z.Path))),
			layout.NewSpacer(),
			widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
				a.edit("Delete Exclusion Zone", func() { a.project.Roof(id).RemoveExclusionZone(zoneID) })
			}),
		))
	}
	return box
}

func orientationText(deg float64) string {
	return fmt.Sprintf("%.0f° %s", deg, estimate.Compass(deg))
}

// ─── Drawing ───────────────────────────────────────────────

// startDraw switches the canvas to outline drawing. A roof drawn on an empty
// project first needs a geographic anchor.
func (a *App) startDraw(zone bool) {
	if zone && a.project.Roof(a.selected) == nil {
		dialog.ShowInformation("No roof selected", "Select the roof the obstacle sits on first.", a.window)
		return
	}
	begin := func() {
		a.drawingZone = zone
		a.canvas.ClearDraft()
		a.canvas.SetMode(widgets.ModeDraw)
		if zone {
			a.setStatus("Tap the corners of the obstacle, then press Finish.")
		} else {
			a.setStatus("Tap the corners of the roof, then press Finish.")
		}
	}
	if !zone && len(a.project.Roofs) == 0 {
		a.showAnchorDialog(begin)
		return
	}
	begin()
}

func (a *App) showAnchorDialog(onDone func()) {
	anchor := a.canvas.Anchor()
	latEntry := widget.NewEntry()
	latEntry.SetText(strconv.FormatFloat(anchor.Lat, 'f', 6, 64))
	lngEntry := widget.NewEntry()
	lngEntry.SetText(strconv.FormatFloat(anchor.Lng, 'f', 6, 64))

	form := dialog.NewForm("Roof Location", "Draw", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Latitude", latEntry),
			widget.NewFormItem("Longitude", lngEntry),
		},
		func(ok bool) {
			if !ok {
				return
			}
			lat, err1 := strconv.ParseFloat(latEntry.Text, 64)
			lng, err2 := strconv.ParseFloat(lngEntry.Text, 64)
			if err1 != nil || err2 != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
				dialog.ShowError(fmt.Errorf("latitude must be within ±90 and longitude within ±180"), a.window)
				return
			}
			a.canvas.SetAnchor(model.GeoPoint{Lat: lat, Lng: lng})
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(360, 220))
	form.Show()
}

// finishDraw turns the draft into a roof or an exclusion zone.
func (a *App) finishDraw() {
	if a.canvas.Mode() != widgets.ModeDraw {
		return
	}
	draft := a.canvas.Draft()
	if !draft.IsPolygon() {
		dialog.ShowInformation("Not enough points", "An outline needs at least three points.", a.window)
		return
	}

	if a.drawingZone {
		roof := a.project.Roof(a.selected)
		if roof == nil {
			a.cancelDraw()
			return
		}
		id := roof.ID
		name := fmt.Sprintf("Obstacle %d", len(roof.ExclusionZones)+1)
		a.edit("Add Exclusion Zone", func() { a.project.Roof(id).AddExclusionZone(name, draft) })
	} else {
		roof := model.NewRoofArea(fmt.Sprintf("Roof %d", len(a.project.Roofs)+1), draft)
		a.config.ApplyToRoof(&roof)
		a.edit("Add Roof", func() {
			a.project.Roofs = append(a.project.Roofs, roof)
			a.selected = roof.ID
		})
	}
	a.cancelDraw()
	a.setStatus(fmt.Sprintf("%d panels on %d roofs.", a.project.TotalPanels(), len(a.project.Roofs)))
}

func (a *App) cancelDraw() {
	a.drawingZone = false
	a.canvas.ClearDraft()
	a.canvas.SetMode(widgets.ModeSelect)
	a.setStatus("Tap a panel to remove it, or a roof to select it.")
}

// snapOrientation aligns the selected roof's panel rows with the edge
// nearest to click.
func (a *App) snapOrientation(click model.GeoPoint) {
	a.canvas.SetMode(widgets.ModeSelect)
	roof := a.project.Roof(a.selected)
	if roof == nil {
		return
	}
	snap, ok := geo.NearestEdgeHeading(roof.Path, click)
	if !ok {
		return
	}
	id := roof.ID
	a.edit("Snap Orientation", func() {
		r := a.project.Roof(id)
		r.OrientationAngle = snap.Heading
		r.Normalize()
	})
	a.setStatus(fmt.Sprintf("Panel rows aligned with edge %d (%s).", snap.Index+1, orientationText(snap.Heading)))
}

func (a *App) deleteSelectedRoof() {
	roof := a.project.Roof(a.selected)
	if roof == nil {
		return
	}
	id, name := roof.ID, roof.Name
	dialog.ShowConfirm("Delete Roof", fmt.Sprintf("Delete %q and its panels?", name), func(ok bool) {
		if !ok {
			return
		}
		a.edit("Delete Roof", func() { a.project.RemoveRoof(id) })
	}, a.window)
}

// ─── Scenario Comparison ───────────────────────────────────

func (a *App) showCompareDialog() {
	roof := a.project.Roof(a.selected)
	if roof == nil {
		dialog.ShowInformation("No roof selected", "Select a roof to compare layouts for.", a.window)
		return
	}
	scenarios := engine.BuildDefaultScenarios(*roof, a.catalog)
	results := engine.CompareScenarios(scenarios, *roof, a.catalog, a.project.Settings)

	d := dialog.NewCustom("Compare Scenarios: "+roof.Name, "Close", widgets.RenderComparison(results), a.window)
	d.Resize(fyne.NewSize(640, 360))
	d.Show()
}
