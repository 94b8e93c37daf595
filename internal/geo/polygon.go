package geo

import "github.com/piwi3910/PanelPlan/internal/model"

// ContainsLocation reports whether point lies inside polygon using even-odd
// ray casting over (lng, lat) treated as planar coordinates. Polygons with
// fewer than three vertices contain nothing. Self-intersecting polygons get
// the plain even-odd answer.
func ContainsLocation(point model.GeoPoint, polygon []model.GeoPoint) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := polygon[i].Lng, polygon[i].Lat
		xj, yj := polygon[j].Lng, polygon[j].Lat

		if (yi > point.Lat) != (yj > point.Lat) &&
			point.Lng < (xj-xi)*(point.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// ContainsAll reports whether every point lies inside polygon.
func ContainsAll(points []model.GeoPoint, polygon []model.GeoPoint) bool {
	for _, p := range points {
		if !ContainsLocation(p, polygon) {
			return false
		}
	}
	return true
}

// Centroid returns the vertex average of a path. It is only meant for
// labelling and QR anchors, not for area-weighted work.
func Centroid(path []model.GeoPoint) model.GeoPoint {
	if len(path) == 0 {
		return model.GeoPoint{}
	}
	var c model.GeoPoint
	for _, p := range path {
		c.Lat += p.Lat
		c.Lng += p.Lng
	}
	c.Lat /= float64(len(path))
	c.Lng /= float64(len(path))
	return c
}
