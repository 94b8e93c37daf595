package geo

import (
	"math"

	"github.com/piwi3910/PanelPlan/internal/model"
)

// EdgeSnap describes the polygon edge closest to a clicked point.
type EdgeSnap struct {
	Heading   float64 // bearing from EdgeStart to EdgeEnd, [0, 360)
	EdgeStart model.GeoPoint
	EdgeEnd   model.GeoPoint
	Index     int // index of EdgeStart; the edge runs to (Index+1) mod n
}

// NearestEdgeHeading finds the polygon edge nearest to click, including the
// closing edge from the last vertex back to the first. Distances are squared
// planar (lng, lat) distances to the clamped projection on each segment.
// Ties keep the lowest edge index. ok is false when polygon has fewer than
// two vertices.
func NearestEdgeHeading(polygon []model.GeoPoint, click model.GeoPoint) (EdgeSnap, bool) {
	n := len(polygon)
	if n < 2 {
		return EdgeSnap{}, false
	}

	best := -1
	bestDist := math.Inf(1)
	for i := 0; i < n; i++ {
		d := segmentDistSq(click, polygon[i], polygon[(i+1)%n])
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return EdgeSnap{}, false
	}

	start, end := polygon[best], polygon[(best+1)%n]
	return EdgeSnap{
		Heading:   Heading(start, end),
		EdgeStart: start,
		EdgeEnd:   end,
		Index:     best,
	}, true
}

func segmentDistSq(p, a, b model.GeoPoint) float64 {
	dx, dy := b.Lng-a.Lng, b.Lat-a.Lat
	lenSq := dx*dx + dy*dy

	t := 0.0
	if lenSq > 0 {
		t = ((p.Lng-a.Lng)*dx + (p.Lat-a.Lat)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}
	px, py := a.Lng+t*dx, a.Lat+t*dy
	ex, ey := p.Lng-px, p.Lat-py
	return ex*ex + ey*ey
}
