package engine

import (
	"math"

	"github.com/piwi3910/PanelPlan/internal/model"
)

// EffectiveHeight returns the horizontal footprint of a panel of physical
// height h tilted by tilt degrees, using the default footprint floor.
func EffectiveHeight(h, tilt float64) float64 {
	return effectiveHeight(h, tilt, model.DefaultMinFootprintRatio)
}

// effectiveHeight projects h onto the ground plane. The tilt is clamped to
// [0, 90] and the result never drops below h*minRatio, so near-vertical
// panels keep a finite row pitch.
func effectiveHeight(h, tilt, minRatio float64) float64 {
	if h <= 0 || math.IsNaN(h) {
		return 0
	}
	t := model.ClampTilt(tilt)
	return math.Max(h*math.Cos(t*math.Pi/180), h*minRatio)
}

// sanitize fills unset or out-of-range guard rails with their defaults.
func sanitize(s model.LayoutSettings) model.LayoutSettings {
	if math.IsNaN(s.MinFootprintRatio) || s.MinFootprintRatio <= 0 {
		s.MinFootprintRatio = model.DefaultMinFootprintRatio
	}
	if s.MinFootprintRatio > 1 {
		s.MinFootprintRatio = 1
	}
	if s.MaxCandidates <= 0 {
		s.MaxCandidates = model.DefaultMaxCandidates
	}
	return s
}
