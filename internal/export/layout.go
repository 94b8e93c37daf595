// Package export writes roof layouts to PDF reports, QR label sheets, XLSX
// panel schedules and DXF drawings.
package export

import (
	"math"

	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// RoofLayout is one roof together with the panels shown on it.
type RoofLayout struct {
	Roof       model.RoofArea
	Definition model.PanelDefinition
	Panels     []model.Panel
}

// Summary returns the estimate figures for the layout.
func (l RoofLayout) Summary() estimate.Summary {
	return estimate.ForRoof(l.Roof, l.Definition, len(l.Panels))
}

// localLayout is a RoofLayout projected to east/north meters with the origin
// at the south-west corner of the roof's bounding box.
type localLayout struct {
	Origin model.GeoPoint
	Roof   [][2]float64
	Zones  [][][2]float64
	Panels [][][2]float64
	Width  float64
	Height float64
}

func localize(l RoofLayout) localLayout {
	sw, ne := geo.Bounds(l.Roof.Path)
	out := localLayout{
		Origin: sw,
		Roof:   geo.PathToLocal(sw, l.Roof.Path),
	}
	out.Width, out.Height = geo.ToLocal(sw, ne)
	for _, z := range l.Roof.ExclusionZones {
		out.Zones = append(out.Zones, geo.PathToLocal(sw, z.Path))
	}
	for _, p := range l.Panels {
		out.Panels = append(out.Panels, geo.PathToLocal(sw, p.Outline()))
	}
	return out
}

// totals sums panels and watts over every layout.
func totals(layouts []RoofLayout) (panels int, watts float64) {
	for _, l := range layouts {
		panels += len(l.Panels)
		watts += float64(len(l.Panels)) * l.Definition.Wattage
	}
	return panels, watts
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
