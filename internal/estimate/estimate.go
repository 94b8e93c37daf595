// Package estimate derives the figures handed to the cost estimator from a
// roof and its layout.
package estimate

import (
	"fmt"
	"math"
	"strings"

	"github.com/piwi3910/PanelPlan/internal/engine"
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// Summary holds the numbers for a single roof.
type Summary struct {
	RoofID           string  `json:"roof_id"`
	RoofName         string  `json:"roof_name"`
	PanelType        string  `json:"panel_type"`
	PanelLabel       string  `json:"panel_label"`
	PanelCount       int     `json:"panel_count"`
	PanelWattage     float64 `json:"panel_wattage"`
	TotalWattage     float64 `json:"total_wattage"`
	TiltAngle        float64 `json:"tilt_angle"`
	OrientationAngle float64 `json:"orientation_angle"`
	Area2D           float64 `json:"area_2d"`     // m², plan view
	SlopedArea       float64 `json:"sloped_area"` // m², along the roof surface
	PanelFootprint   float64 `json:"panel_footprint"`
	PanelArea        float64 `json:"panel_area"` // m², physical panel surface
	Coverage         float64 `json:"coverage"`   // percent of plan area under panels
}

// SlopedArea converts a plan-view area to the area along a surface tilted
// by tilt degrees. Tilts of 90 degrees and above return area unchanged.
func SlopedArea(area, tilt float64) float64 {
	t := model.ClampTilt(tilt)
	if t >= 90 {
		return area
	}
	return area / math.Cos(t*math.Pi/180)
}

// ForRoof builds a summary from a roof and its resolved panel definition.
// count is the visible panel count.
func ForRoof(roof model.RoofArea, def model.PanelDefinition, count int) Summary {
	area := geo.Area(roof.Path)
	footprint := def.WidthMeters * engine.EffectiveHeight(def.HeightMeters, roof.TiltAngle)

	s := Summary{
		RoofID:           roof.ID,
		RoofName:         roof.Name,
		PanelType:        def.Type,
		PanelLabel:       def.Label,
		PanelCount:       count,
		PanelWattage:     def.Wattage,
		TotalWattage:     float64(count) * def.Wattage,
		TiltAngle:        model.ClampTilt(roof.TiltAngle),
		OrientationAngle: model.NormalizeHeading(roof.OrientationAngle),
		Area2D:           area,
		SlopedArea:       SlopedArea(area, roof.TiltAngle),
		PanelFootprint:   footprint,
		PanelArea:        float64(count) * def.Area(),
	}
	if area > 0 {
		s.Coverage = float64(count) * footprint / area * 100
	}
	return s
}

// Project aggregates summaries across roofs.
type Project struct {
	Name         string    `json:"name"`
	Roofs        []Summary `json:"roofs"`
	TotalPanels  int       `json:"total_panels"`
	TotalWattage float64   `json:"total_wattage"`
	TotalArea2D  float64   `json:"total_area_2d"`
	TotalSloped  float64   `json:"total_sloped_area"`
}

// ForProject summarizes every roof. counts maps roof id to its visible panel
// count; roofs missing from counts use their stored PanelCount.
func ForProject(p model.Project, catalog model.PanelCatalog, counts map[string]int) Project {
	out := Project{Name: p.Name, Roofs: make([]Summary, 0, len(p.Roofs))}
	for _, roof := range p.Roofs {
		def, _ := catalog.Resolve(roof.PanelType)
		count, ok := counts[roof.ID]
		if !ok {
			count = roof.PanelCount
		}
		s := ForRoof(roof, def, count)
		out.Roofs = append(out.Roofs, s)
		out.TotalPanels += s.PanelCount
		out.TotalWattage += s.TotalWattage
		out.TotalArea2D += s.Area2D
		out.TotalSloped += s.SlopedArea
	}
	return out
}

// Text renders the summary as the plain-text block sent to the estimator.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Roof: %s\n", s.RoofName)
	fmt.Fprintf(&b, "Panel type: %s\n", panelName(s.PanelType, s.PanelLabel))
	fmt.Fprintf(&b, "Panel count: %d\n", s.PanelCount)
	fmt.Fprintf(&b, "System size: %.2f kW\n", s.TotalWattage/1000)
	fmt.Fprintf(&b, "Tilt: %.1f°\n", s.TiltAngle)
	fmt.Fprintf(&b, "Orientation: %.1f° (%s)\n", s.OrientationAngle, Compass(s.OrientationAngle))
	fmt.Fprintf(&b, "Roof area (plan): %.2f m²\n", s.Area2D)
	fmt.Fprintf(&b, "Roof area (sloped): %.2f m²\n", s.SlopedArea)
	fmt.Fprintf(&b, "Panel coverage: %.1f%%\n", s.Coverage)
	return b.String()
}

// Text renders every roof followed by the project totals.
func (p Project) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Project: %s\n\n", p.Name)
	for _, r := range p.Roofs {
		b.WriteString(r.Text())
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Total panels: %d\n", p.TotalPanels)
	fmt.Fprintf(&b, "Total system size: %.2f kW\n", p.TotalWattage/1000)
	fmt.Fprintf(&b, "Total roof area (sloped): %.2f m²\n", p.TotalSloped)
	return b.String()
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// Compass names the nearest of the eight principal compass points.
func Compass(heading float64) string {
	h := model.NormalizeHeading(heading)
	return compassPoints[int(math.Floor((h+22.5)/45))%8]
}

func panelName(panelType, label string) string {
	if label == "" {
		return panelType
	}
	return label
}
