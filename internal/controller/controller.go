// Package controller keeps the panels drawn on a rendering surface in step
// with the roofs they belong to.
//
// A Controller recomputes a roof's layout only when one of its layout inputs
// changes: the path, the exclusion zones, the panel type or the definition it
// resolves to, the orientation, or the tilt. Each such change bumps the roof's
// version. The derived PanelCount is never an input.
//
// Manually removed panels live in a per-roof override set that belongs to the
// current version only. The next recompute clears it and the removed panels
// come back.
//
// A Controller is not safe for concurrent use. Drive it from one goroutine,
// typically the UI thread.
package controller

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/PanelPlan/internal/engine"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// ErrSurfaceUnavailable is returned by New when no rendering surface is supplied.
var ErrSurfaceUnavailable = errors.New("controller: rendering surface unavailable")

// Surface draws panels. onTap is invoked when the user taps the drawn panel.
type Surface interface {
	DrawPanel(roofID string, index int, p model.Panel, onTap func()) (PanelHandle, error)
}

// Controller owns layout state and rendered panels for a set of roofs.
type Controller struct {
	// OnCountChange, when set, is called whenever a roof's visible panel
	// count changes, including after a manual removal.
	OnCountChange func(roofID string, count int)

	surface  Surface
	catalog  model.PanelCatalog
	engine   *engine.Engine
	registry *Registry
	roofs    map[string]*roofState
	logger   *log.Logger
}

type roofState struct {
	version   int
	snap      snapshot
	result    engine.LayoutResult
	overrides map[int]bool
}

func (s *roofState) visible() []model.Panel {
	out := make([]model.Panel, 0, len(s.result.Panels)-len(s.overrides))
	for _, p := range s.result.Panels {
		if !s.overrides[p.Index] {
			out = append(out, p)
		}
	}
	return out
}

// New creates a controller drawing on surface. A nil logger falls back to
// the default logger.
func New(surface Surface, catalog model.PanelCatalog, settings model.LayoutSettings, logger *log.Logger) (*Controller, error) {
	if surface == nil {
		return nil, ErrSurfaceUnavailable
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		surface:  surface,
		catalog:  catalog,
		engine:   engine.New(settings),
		registry: NewRegistry(),
		roofs:    make(map[string]*roofState),
		logger:   logger,
	}, nil
}

// Catalog returns the panel catalog used to resolve panel types.
func (c *Controller) Catalog() model.PanelCatalog {
	return c.catalog
}

// SetCatalog swaps the panel catalog. Roofs whose definition changes are
// recomputed on their next Sync.
func (c *Controller) SetCatalog(catalog model.PanelCatalog) {
	c.catalog = catalog
}

// Sync brings the roof's rendered layout up to date and writes the derived
// panel count back into roof. It reports whether a recompute happened.
func (c *Controller) Sync(roof *model.RoofArea) bool {
	if roof == nil {
		return false
	}
	def, ok := c.catalog.Resolve(roof.PanelType)
	if !ok {
		c.logger.Warn("no panel definition available", "roof", roof.ID, "panel_type", roof.PanelType)
	}
	snap := takeSnapshot(roof, def)

	st, exists := c.roofs[roof.ID]
	if exists && st.snap.equal(snap) {
		roof.PanelCount = len(st.result.Panels) - len(st.overrides)
		return false
	}
	if !exists {
		st = &roofState{}
		c.roofs[roof.ID] = st
	}

	st.version++
	st.snap = snap
	st.overrides = nil
	st.result = c.engine.Compute(*roof, def, snap.orientation, snap.tilt)
	if st.result.Truncated {
		c.logger.Warn("layout grid too large, no panels placed", "roof", roof.ID, "max_candidates", c.engine.Settings.MaxCandidates)
	}

	c.render(roof.ID, st)
	roof.PanelCount = len(st.result.Panels)

	c.logger.Debug("layout recomputed",
		"roof", roof.ID,
		"version", st.version,
		"panels", len(st.result.Panels),
		"candidates", st.result.Candidates,
		"rejected_boundary", st.result.RejectedBoundary,
		"rejected_exclusion", st.result.RejectedExclusion,
	)
	c.notify(roof.ID, roof.PanelCount)
	return true
}

// render tears down the roof's old panels and draws the current set.
func (c *Controller) render(roofID string, st *roofState) {
	c.registry.DestroyAll(roofID)

	handles := make(map[int]PanelHandle, len(st.result.Panels))
	for _, p := range st.result.Panels {
		index := p.Index
		h, err := c.surface.DrawPanel(roofID, index, p, func() { c.RemovePanel(roofID, index) })
		if err != nil {
			c.logger.Error("drawing panel", "roof", roofID, "index", index, "err", err)
			continue
		}
		handles[index] = h
	}
	c.registry.Replace(roofID, handles)
}

// RemovePanel hides one panel of the current layout until the next
// recompute. It returns false if the panel is unknown or already hidden.
func (c *Controller) RemovePanel(roofID string, index int) bool {
	st, ok := c.roofs[roofID]
	if !ok || index < 0 || index >= len(st.result.Panels) || st.overrides[index] {
		return false
	}
	if st.overrides == nil {
		st.overrides = make(map[int]bool)
	}
	st.overrides[index] = true
	c.registry.Destroy(roofID, index)

	count := len(st.result.Panels) - len(st.overrides)
	c.logger.Debug("panel removed", "roof", roofID, "index", index, "remaining", count)
	c.notify(roofID, count)
	return true
}

// Delete destroys the roof's rendered panels and forgets its state.
func (c *Controller) Delete(roofID string) {
	n := c.registry.DestroyAll(roofID)
	delete(c.roofs, roofID)
	c.logger.Debug("roof deleted", "roof", roofID, "panels", n)
}

// Reset deletes every roof.
func (c *Controller) Reset() {
	for _, id := range c.registry.Roofs() {
		c.registry.DestroyAll(id)
	}
	c.roofs = make(map[string]*roofState)
}

// Panels returns the visible panels of the roof in grid order.
func (c *Controller) Panels(roofID string) []model.Panel {
	st, ok := c.roofs[roofID]
	if !ok {
		return nil
	}
	return st.visible()
}

// Result returns the last layout computed for the roof, before overrides.
func (c *Controller) Result(roofID string) (engine.LayoutResult, bool) {
	st, ok := c.roofs[roofID]
	if !ok {
		return engine.LayoutResult{}, false
	}
	return st.result, true
}

// Version returns the roof's layout version, or 0 if it was never synced.
func (c *Controller) Version(roofID string) int {
	if st, ok := c.roofs[roofID]; ok {
		return st.version
	}
	return 0
}

// Rendered returns the number of live panel handles for the roof.
func (c *Controller) Rendered(roofID string) int {
	return c.registry.Len(roofID)
}

func (c *Controller) notify(roofID string, count int) {
	if c.OnCountChange != nil {
		c.OnCountChange(roofID, count)
	}
}
