package engine

import (
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// Excluded reports whether any sample point falls inside any exclusion zone.
// Zones with fewer than three vertices never exclude anything.
func Excluded(samples []model.GeoPoint, zones []model.ExclusionZone) bool {
	for _, z := range zones {
		if !z.Path.IsPolygon() {
			continue
		}
		for _, p := range samples {
			if geo.ContainsLocation(p, z.Path) {
				return true
			}
		}
	}
	return false
}
