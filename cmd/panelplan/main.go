// PanelPlan: Solar Panel Layout Planner
//
// A cross-platform desktop application for drawing roof outlines on a
// map-style canvas, laying out solar panels on them and exporting the
// result as PDF, DXF or a spreadsheet.
//
// Build:
//   go build -o panelplan ./cmd/panelplan
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o panelplan.exe ./cmd/panelplan
//   GOOS=darwin  GOARCH=amd64 go build -o panelplan-darwin ./cmd/panelplan
//
// Using fyne-cross (recommended for proper packaging):
//   go install github.com/fyne-io/fyne-cross@latest
//   fyne-cross windows -arch=amd64
//   fyne-cross darwin  -arch=amd64,arm64

package main

import (
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/charmbracelet/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/PanelPlan/internal/ui"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          "panelplan",
	})
	if os.Getenv("PANELPLAN_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	}

	application := app.NewWithID("com.piwi3910.panelplan")
	window := application.NewWindow("PanelPlan - Solar Panel Layout Planner")

	appUI, err := ui.NewApp(application, window, logger)
	if err != nil {
		logger.Fatal("starting PanelPlan", "err", err)
	}
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1280, 800))
	window.CenterOnScreen()
	window.ShowAndRun()
}
