package model

import "math"

// PanelDefinition describes the physical dimensions of one panel type.
type PanelDefinition struct {
	Type         string  `json:"type" toml:"type"`
	Label        string  `json:"label" toml:"label"`
	WidthMeters  float64 `json:"width_m" toml:"width_m"`
	HeightMeters float64 `json:"height_m" toml:"height_m"`
	Wattage      float64 `json:"wattage" toml:"wattage"`
}

// Valid reports whether the definition has positive dimensions.
func (d PanelDefinition) Valid() bool {
	return d.Type != "" && d.WidthMeters > 0 && d.HeightMeters > 0 &&
		!math.IsInf(d.WidthMeters, 0) && !math.IsInf(d.HeightMeters, 0)
}

// Area returns the physical panel surface in square meters.
func (d PanelDefinition) Area() float64 {
	return d.WidthMeters * d.HeightMeters
}

// PanelCatalog is the static table of panel types, in display order.
type PanelCatalog struct {
	Panels []PanelDefinition `json:"panels" toml:"panel"`
}

// DefaultPanelType is used when a roof has no panel type selected.
const DefaultPanelType = "standard"

// DefaultPanelCatalog returns the built-in panel types.
func DefaultPanelCatalog() PanelCatalog {
	return PanelCatalog{
		Panels: []PanelDefinition{
			{Type: "standard", Label: "Standard 60-cell (1.0 x 1.6 m)", WidthMeters: 1.0, HeightMeters: 1.6, Wattage: 330},
			{Type: "large", Label: "Large 72-cell (1.0 x 2.0 m)", WidthMeters: 1.0, HeightMeters: 2.0, Wattage: 400},
			{Type: "compact", Label: "Compact 48-cell (0.8 x 1.3 m)", WidthMeters: 0.8, HeightMeters: 1.3, Wattage: 220},
			{Type: "bifacial", Label: "Bifacial 108-cell (1.13 x 1.72 m)", WidthMeters: 1.134, HeightMeters: 1.722, Wattage: 420},
		},
	}
}

// Lookup returns the definition for a panel type.
func (c PanelCatalog) Lookup(panelType string) (PanelDefinition, bool) {
	for _, d := range c.Panels {
		if d.Type == panelType {
			return d, true
		}
	}
	return PanelDefinition{}, false
}

// Resolve returns the definition for a panel type, falling back to the
// default type and then to the first catalog entry.
func (c PanelCatalog) Resolve(panelType string) (PanelDefinition, bool) {
	if d, ok := c.Lookup(panelType); ok {
		return d, true
	}
	if d, ok := c.Lookup(DefaultPanelType); ok {
		return d, true
	}
	if len(c.Panels) > 0 {
		return c.Panels[0], true
	}
	return PanelDefinition{}, false
}

// Types returns the panel type keys for UI dropdowns.
func (c PanelCatalog) Types() []string {
	types := make([]string, len(c.Panels))
	for i, d := range c.Panels {
		types[i] = d.Type
	}
	return types
}

// Upsert replaces the definition with the same type or appends it.
func (c *PanelCatalog) Upsert(def PanelDefinition) {
	for i := range c.Panels {
		if c.Panels[i].Type == def.Type {
			c.Panels[i] = def
			return
		}
	}
	c.Panels = append(c.Panels, def)
}
