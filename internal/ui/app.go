package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"
	"github.com/piwi3910/PanelPlan/internal/controller"
	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/piwi3910/PanelPlan/internal/export"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/piwi3910/PanelPlan/internal/ui/widgets"
)

const maxRecentProjects = 10

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	logger     *log.Logger
	config     model.AppConfig
	configPath string
	catalog    model.PanelCatalog

	project     model.Project
	projectPath string
	selected    string // id of the roof being edited
	drawingZone bool   // the draft outline becomes an exclusion zone
	synced      map[string]bool
	syncing     bool

	history *History
	ctrl    *controller.Controller
	canvas  *widgets.RoofCanvas

	// UI references for dynamic updates
	roofList          *widget.List
	editorContainer   *fyne.Container
	estimateContainer *fyne.Container
	statusLabel       *widget.Label
	undoBtn           fyne.Disableable
	redoBtn           fyne.Disableable
}

// NewApp loads the configuration and panel catalog and wires the layout
// controller to the roof canvas. A nil logger falls back to the default.
func NewApp(application fyne.App, window fyne.Window, logger *log.Logger) (*App, error) {
	return newApp(application, window, logger, project.DefaultConfigPath())
}

func newApp(application fyne.App, window fyne.Window, logger *log.Logger, configPath string) (*App, error) {
	if logger == nil {
		logger = log.Default()
	}
	a := &App{
		app:        application,
		window:     window,
		logger:     logger,
		configPath: configPath,
		history:    NewHistory(),
	}

	cfg, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		logger.Warn("using default settings", "path", a.configPath, "err", err)
		cfg = model.DefaultAppConfig()
	}
	a.config = cfg

	catalog, err := project.LoadCatalogFromConfig(cfg)
	if err != nil {
		logger.Warn("using built-in panel catalog", "err", err)
		catalog = model.DefaultPanelCatalog()
	}
	a.catalog = catalog

	a.project = model.NewProject()
	a.config.ApplyToSettings(&a.project.Settings)

	a.canvas = widgets.NewRoofCanvas(model.GeoPoint{})
	a.canvas.OnRoofSelected = a.selectRoof
	a.canvas.OnDraftChanged = func(draft model.Path) {
		a.setStatus(fmt.Sprintf("%d points. Press Finish to close the outline.", len(draft)))
	}
	a.canvas.OnSnap = a.snapOrientation

	if err := a.rebuildController(); err != nil {
		return nil, err
	}
	a.applyTheme(cfg.Theme)
	return a, nil
}

// rebuildController replaces the layout controller, for instance after the
// project's guard rails changed. Every roof is recomputed on the next sync.
func (a *App) rebuildController() error {
	if a.ctrl != nil {
		a.ctrl.Reset()
	}
	ctrl, err := controller.New(a.canvas, a.catalog, a.project.Settings, a.logger)
	if err != nil {
		return fmt.Errorf("create layout controller: %w", err)
	}
	ctrl.OnCountChange = a.countChanged
	a.ctrl = ctrl
	a.synced = nil
	return nil
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", a.newProject),
		fyne.NewMenuItem("Open Project...", a.openProject),
		fyne.NewMenuItem("Save Project", func() { a.saveProject(false) }),
		fyne.NewMenuItem("Save Project As...", func() { a.saveProject(true) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Roof from DXF...", a.importDXF),
		fyne.NewMenuItem("Import Panels from CSV/Excel...", a.importCatalog),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF Report...", a.exportPDF),
		fyne.NewMenuItem("Export Roof Labels...", a.exportLabels),
		fyne.NewMenuItem("Export Panel Schedule (XLSX)...", a.exportXLSX),
		fyne.NewMenuItem("Export Roof Layout (DXF)...", a.exportDXF),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", a.undo),
		fyne.NewMenuItem("Redo", a.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Draw Roof", func() { a.startDraw(false) }),
		fyne.NewMenuItem("Draw Exclusion Zone", func() { a.startDraw(true) }),
		fyne.NewMenuItem("Delete Roof", a.deleteSelectedRoof),
	)

	toolsMenu := fyne.NewMenu("Tools",
		fyne.NewMenuItem("Compare Scenarios...", a.showCompareDialog),
		fyne.NewMenuItem("Copy Estimate", a.copyEstimate),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Roof to Database", a.storeSelectedRoof),
		fyne.NewMenuItem("Load Roof from Database...", a.showStoredRoofs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Panel Catalog...", a.showCatalogDialog),
		fyne.NewMenuItem("Layout Settings...", a.showAdvancedSettingsDialog),
		fyne.NewMenuItem("Preferences...", a.showSettingsDialog),
		fyne.NewMenuItem("Import / Export Data...", a.showImportExportDialog),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, toolsMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PanelPlan",
		"PanelPlan - Solar Panel Layout Planner\n\n"+
			"Draw roof outlines, mark obstacles and let PanelPlan\n"+
			"fit the largest grid of panels onto every roof.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	undo := newIconButtonWithTooltip(theme.ContentUndoIcon(), "Undo", a.undo)
	redo := newIconButtonWithTooltip(theme.ContentRedoIcon(), "Redo", a.redo)
	a.undoBtn, a.redoBtn = undo, redo

	toolbar := container.NewHBox(
		newIconButtonWithTooltip(theme.DocumentCreateIcon(), "New project", a.newProject),
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open project", a.openProject),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save project", func() { a.saveProject(false) }),
		widget.NewSeparator(),
		undo, redo,
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.ContentAddIcon(), "Draw roof", func() { a.startDraw(false) }),
		newIconButtonWithTooltip(theme.ConfirmIcon(), "Finish outline", a.finishDraw),
		newIconButtonWithTooltip(theme.CancelIcon(), "Cancel drawing", a.cancelDraw),
		layout.NewSpacer(),
		newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export PDF report", a.exportPDF),
	)

	a.statusLabel = widget.NewLabel("Draw a roof to begin.")

	sidebar := container.NewVSplit(a.buildRoofPanel(), a.buildEstimatePanel())
	sidebar.Offset = 0.6

	split := container.NewHSplit(a.canvas, sidebar)
	split.Offset = 0.68

	a.refreshAll()
	return container.NewBorder(toolbar, a.statusLabel, nil, nil, split)
}

// ─── Estimate Panel ────────────────────────────────────────

func (a *App) buildEstimatePanel() fyne.CanvasObject {
	a.estimateContainer = container.NewStack()
	return widget.NewCard("Estimate", "", a.estimateContainer)
}

func (a *App) refreshEstimate() {
	if a.estimateContainer == nil {
		return
	}
	a.estimateContainer.RemoveAll()
	a.estimateContainer.Add(widgets.RenderEstimate(a.estimate()))
	a.estimateContainer.Refresh()
}

// estimate summarizes the project using the visible panel counts.
func (a *App) estimate() estimate.Project {
	counts := make(map[string]int, len(a.project.Roofs))
	for _, r := range a.project.Roofs {
		counts[r.ID] = len(a.ctrl.Panels(r.ID))
	}
	return estimate.ForProject(a.project, a.catalog, counts)
}

func (a *App) copyEstimate() {
	a.app.Clipboard().SetContent(a.estimate().Text())
	a.setStatus("Estimate copied to the clipboard.")
}

// layouts pairs every roof with its resolved panel and visible panels.
func (a *App) layouts() []export.RoofLayout {
	out := make([]export.RoofLayout, 0, len(a.project.Roofs))
	for _, r := range a.project.Roofs {
		def, _ := a.catalog.Resolve(r.PanelType)
		out = append(out, export.RoofLayout{Roof: r, Definition: def, Panels: a.ctrl.Panels(r.ID)})
	}
	return out
}

// ─── State ─────────────────────────────────────────────────

// syncAll brings every roof's layout up to date, forgets roofs that no
// longer exist and repaints.
func (a *App) syncAll() {
	a.syncing = true
	present := make(map[string]bool, len(a.project.Roofs))
	for i := range a.project.Roofs {
		present[a.project.Roofs[i].ID] = true
		a.ctrl.Sync(&a.project.Roofs[i])
	}
	for id := range a.synced {
		if !present[id] {
			a.ctrl.Delete(id)
		}
	}
	a.synced = present
	a.syncing = false

	if a.project.Roof(a.selected) == nil {
		a.selected = ""
		if len(a.project.Roofs) > 0 {
			a.selected = a.project.Roofs[0].ID
		}
	}
	a.refreshAll()
}

func (a *App) countChanged(roofID string, count int) {
	if r := a.project.Roof(roofID); r != nil {
		r.PanelCount = count
	}
	if a.syncing {
		return
	}
	a.refreshAll()
}

func (a *App) refreshAll() {
	a.canvas.SetRoofs(a.project.Roofs, a.selected)
	a.refreshRoofList()
	a.refreshEditor()
	a.refreshEstimate()
	a.refreshUndo()
	a.window.SetTitle(a.title())
}

func (a *App) title() string {
	return fmt.Sprintf("PanelPlan - %s (%d panels)", a.project.Name, a.project.TotalPanels())
}

func (a *App) setStatus(text string) {
	if a.statusLabel != nil {
		a.statusLabel.SetText(text)
	}
}

// edit records an undo snapshot, applies fn and resyncs.
func (a *App) edit(label string, fn func()) {
	a.history.Push(MakeSnapshot(a.project.Roofs, label))
	fn()
	a.syncAll()
	a.logger.Debug("edit", "action", label, "roofs", len(a.project.Roofs))
}

func (a *App) undo() {
	s, ok := a.history.Undo(MakeSnapshot(a.project.Roofs, "current"))
	if !ok {
		return
	}
	a.project.Roofs = s.Roofs
	a.syncAll()
	a.setStatus("Undid " + s.Label)
}

func (a *App) redo() {
	s, ok := a.history.Redo(MakeSnapshot(a.project.Roofs, "current"))
	if !ok {
		return
	}
	a.project.Roofs = s.Roofs
	a.syncAll()
	a.setStatus("Redone")
}

func (a *App) refreshUndo() {
	if a.undoBtn == nil {
		return
	}
	if a.history.CanUndo() {
		a.undoBtn.Enable()
	} else {
		a.undoBtn.Disable()
	}
	if a.history.CanRedo() {
		a.redoBtn.Enable()
	} else {
		a.redoBtn.Disable()
	}
}

// setProject replaces the open project and recomputes every layout.
func (a *App) setProject(p model.Project, path string) error {
	a.project = p
	a.projectPath = path
	a.selected = ""
	a.history.Clear()
	a.canvas.ClearDraft()
	a.canvas.SetMode(widgets.ModeSelect)
	if err := a.rebuildController(); err != nil {
		return err
	}
	a.syncAll()
	return nil
}

func (a *App) newProject() {
	p := model.NewProject()
	a.config.ApplyToSettings(&p.Settings)
	if err := a.setProject(p, ""); err != nil {
		dialog.ShowError(err, a.window)
	}
	a.setStatus("Draw a roof to begin.")
}

// applyTheme switches between the light, dark and system variants.
func (a *App) applyTheme(name string) {
	switch name {
	case "light":
		a.app.Settings().SetTheme(NewPanelPlanThemeWithVariant(theme.VariantLight))
	case "dark":
		a.app.Settings().SetTheme(NewPanelPlanThemeWithVariant(theme.VariantDark))
	default:
		a.app.Settings().SetTheme(NewPanelPlanThemeWithVariant(a.app.Settings().ThemeVariant()))
	}
}
