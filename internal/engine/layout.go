// Package engine computes the panel grid for a roof polygon.
package engine

import (
	"math"

	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// gridEpsilon absorbs floating error when the diagonal is an exact multiple
// of the step.
const gridEpsilon = 1e-9

// Engine lays panels out on roofs using a fixed set of guard rails.
type Engine struct {
	Settings model.LayoutSettings
}

func New(settings model.LayoutSettings) *Engine {
	return &Engine{Settings: sanitize(settings)}
}

// LayoutResult is the panel list plus the counters behind it.
type LayoutResult struct {
	Panels            []model.Panel `json:"panels"`
	EffectiveHeight   float64       `json:"effective_height"`
	Candidates        int           `json:"candidates"`
	RejectedBoundary  int           `json:"rejected_boundary"`
	RejectedExclusion int           `json:"rejected_exclusion"`
	Truncated         bool          `json:"truncated"` // grid exceeded MaxCandidates and was not evaluated
}

// Count returns the number of placed panels.
func (r LayoutResult) Count() int {
	return len(r.Panels)
}

// ComputeLayout lays out def on roof with the default guard rails, aligned to
// orientation and spaced for tilt. The roof's own angles are ignored.
func ComputeLayout(roof model.RoofArea, def model.PanelDefinition, orientation, tilt float64) []model.Panel {
	return New(model.DefaultLayoutSettings()).Compute(roof, def, orientation, tilt).Panels
}

// Layout lays out def on roof using the roof's orientation and tilt.
func (e *Engine) Layout(roof model.RoofArea, def model.PanelDefinition) LayoutResult {
	return e.Compute(roof, def, roof.OrientationAngle, roof.TiltAngle)
}

// Compute walks a row-major grid of candidate centers anchored at the
// south-west corner of the roof's bounding box and keeps every candidate
// whose center and four corners are inside the roof and outside every
// exclusion zone. Rows advance along orientation+90 by the effective height,
// columns along orientation by the panel width. The output order is the grid
// order, so identical inputs always give identical panel lists.
func (e *Engine) Compute(roof model.RoofArea, def model.PanelDefinition, orientation, tilt float64) LayoutResult {
	settings := sanitize(e.Settings)
	result := LayoutResult{Panels: []model.Panel{}}

	if !roof.Path.IsPolygon() {
		return result
	}
	width := def.WidthMeters
	heightEff := effectiveHeight(def.HeightMeters, tilt, settings.MinFootprintRatio)
	if !(width > 0) || !(heightEff > 0) || math.IsInf(width, 0) || math.IsInf(heightEff, 0) {
		return result
	}
	result.EffectiveHeight = heightEff

	sw, ne := geo.Bounds(roof.Path)
	diagonal := geo.Distance(sw, ne)

	rowsF := gridSteps(diagonal, heightEff)
	colsF := gridSteps(diagonal, width)
	if rowsF*colsF > float64(settings.MaxCandidates) {
		result.Truncated = true
		return result
	}
	rows, cols := int(rowsF), int(colsF)

	o := model.NormalizeHeading(orientation)
	across := o + 90
	halfW, halfH := width/2, heightEff/2

	for i := 0; i < rows; i++ {
		dRow := -diagonal + float64(i)*heightEff
		rowStart := geo.Offset(sw, dRow, across)
		for j := 0; j < cols; j++ {
			dCol := -diagonal + float64(j)*width
			center := geo.Offset(rowStart, dCol, o)
			result.Candidates++

			panel := model.Panel{
				Center: center,
				Corners: [4]model.GeoPoint{
					shift(center, -halfW, -halfH, o),
					shift(center, halfW, -halfH, o),
					shift(center, halfW, halfH, o),
					shift(center, -halfW, halfH, o),
				},
			}
			samples := panel.SamplePoints()

			if !geo.ContainsAll(samples, roof.Path) {
				result.RejectedBoundary++
				continue
			}
			if Excluded(samples, roof.ExclusionZones) {
				result.RejectedExclusion++
				continue
			}
			panel.Index = len(result.Panels)
			result.Panels = append(result.Panels, panel)
		}
	}
	return result
}

// gridSteps returns how many positions -diagonal + k*step stay within
// [-diagonal, +diagonal].
func gridSteps(diagonal, step float64) float64 {
	if diagonal <= 0 {
		return 1
	}
	return math.Floor(2*diagonal/step+gridEpsilon) + 1
}

// shift moves p by along meters on heading o and across meters on o+90.
func shift(p model.GeoPoint, along, across, o float64) model.GeoPoint {
	return geo.Offset(geo.Offset(p, along, o), across, o+90)
}
