// Package ui provides the PanelPlan application UI components.
//
// This file defines a compact Fyne theme.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// PanelPlanTheme wraps the default Fyne theme with compact sizing overrides
// so the roof canvas keeps most of the window.
type PanelPlanTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
}

// NewPanelPlanTheme creates a new PanelPlanTheme with the system default variant.
func NewPanelPlanTheme() *PanelPlanTheme {
	return &PanelPlanTheme{
		base:    theme.DefaultTheme(),
		variant: 0, // system default
	}
}

// NewPanelPlanThemeWithVariant creates a PanelPlanTheme with a specific light/dark variant.
func NewPanelPlanThemeWithVariant(variant fyne.ThemeVariant) *PanelPlanTheme {
	return &PanelPlanTheme{
		base:    theme.DefaultTheme(),
		variant: variant,
	}
}

// SetVariant updates the theme variant (light/dark/system).
func (t *PanelPlanTheme) SetVariant(variant fyne.ThemeVariant) {
	t.variant = variant
}

// primaryColor is the accent used for selections and focused controls.
var primaryColor = color.NRGBA{R: 33, G: 150, B: 243, A: 255}

// Color uses the stored variant and the roof-selection blue as primary color.
func (t *PanelPlanTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNamePrimary {
		return primaryColor
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *PanelPlanTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *PanelPlanTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *PanelPlanTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
