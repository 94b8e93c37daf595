package widgets

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/piwi3910/PanelPlan/internal/engine"
	"github.com/piwi3910/PanelPlan/internal/estimate"
)

// RenderEstimate creates a scrollable breakdown of a project estimate.
func RenderEstimate(p estimate.Project) fyne.CanvasObject {
	if len(p.Roofs) == 0 {
		return widget.NewLabel("No roofs yet. Draw a roof or import a DXF outline.")
	}

	var items []fyne.CanvasObject
	for _, s := range p.Roofs {
		header := widget.NewLabel(fmt.Sprintf("%s: %d panels, %.2f kWp", s.RoofName, s.PanelCount, s.TotalWattage/1000))
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header)
		for _, line := range roofLines(s) {
			items = append(items, widget.NewLabel(line))
		}
		items = append(items, widget.NewSeparator())
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Total: %d panels, %.2f kWp on %.1f m² of roof",
		p.TotalPanels, p.TotalWattage/1000, p.TotalSloped,
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary)

	return container.NewVScroll(container.NewVBox(items...))
}

// roofLines formats the per-roof detail lines.
func roofLines(s estimate.Summary) []string {
	return []string{
		fmt.Sprintf("  Panel: %s (%.0f W)", s.PanelLabel, s.PanelWattage),
		fmt.Sprintf("  Tilt %.1f°, facing %.0f° %s", s.TiltAngle, s.OrientationAngle, estimate.Compass(s.OrientationAngle)),
		fmt.Sprintf("  Area: %.1f m² plan, %.1f m² sloped", s.Area2D, s.SlopedArea),
		fmt.Sprintf("  Coverage: %.1f%%", s.Coverage),
	}
}

// RenderComparison lists scenario results, marking the one with the most panels.
func RenderComparison(results []engine.ComparisonResult) fyne.CanvasObject {
	if len(results) == 0 {
		return widget.NewLabel("Nothing to compare.")
	}

	best := 0
	for i, r := range results {
		if r.PanelCount > results[best].PanelCount {
			best = i
		}
	}

	grid := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Scenario", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Panel", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Panels", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("kWp", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Coverage", fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
	)
	for i, r := range results {
		style := fyne.TextStyle{Bold: i == best}
		grid.Add(widget.NewLabelWithStyle(r.Scenario.Name, fyne.TextAlignLeading, style))
		grid.Add(widget.NewLabelWithStyle(r.Definition.Label, fyne.TextAlignLeading, style))
		grid.Add(widget.NewLabelWithStyle(fmt.Sprintf("%d", r.PanelCount), fyne.TextAlignTrailing, style))
		grid.Add(widget.NewLabelWithStyle(fmt.Sprintf("%.2f", r.TotalWattage/1000), fyne.TextAlignTrailing, style))
		grid.Add(widget.NewLabelWithStyle(fmt.Sprintf("%.1f%%", r.CoveragePercent), fyne.TextAlignTrailing, style))
	}
	return container.NewVScroll(grid)
}
