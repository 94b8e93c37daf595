package geo

import (
	"math"

	"github.com/piwi3910/PanelPlan/internal/model"
)

// metersPerDegreeLat is the length of one degree of latitude on the mean sphere.
var metersPerDegreeLat = EarthRadius * math.Pi / 180

// ToLocal projects p into east/north meters relative to origin using an
// equirectangular approximation. Accurate to well under a centimeter over a
// building-sized area.
func ToLocal(origin, p model.GeoPoint) (x, y float64) {
	x = (p.Lng - origin.Lng) * metersPerDegreeLat * math.Cos(toRad(origin.Lat))
	y = (p.Lat - origin.Lat) * metersPerDegreeLat
	return x, y
}

// FromLocal is the inverse of ToLocal.
func FromLocal(origin model.GeoPoint, x, y float64) model.GeoPoint {
	p := model.GeoPoint{Lat: origin.Lat + y/metersPerDegreeLat, Lng: origin.Lng}
	if c := math.Cos(toRad(origin.Lat)); c > 1e-12 {
		p.Lng += x / (metersPerDegreeLat * c)
	}
	return p
}

// PathToLocal projects every point of path relative to origin.
func PathToLocal(origin model.GeoPoint, path []model.GeoPoint) [][2]float64 {
	out := make([][2]float64, len(path))
	for i, p := range path {
		x, y := ToLocal(origin, p)
		out[i] = [2]float64{x, y}
	}
	return out
}

// PathFromLocal converts local east/north meter coordinates back to a path.
func PathFromLocal(origin model.GeoPoint, pts [][2]float64) model.Path {
	out := make(model.Path, len(pts))
	for i, pt := range pts {
		out[i] = FromLocal(origin, pt[0], pt[1])
	}
	return out
}
