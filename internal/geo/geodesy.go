// Package geo provides the building-scale geodesy used by the layout engine:
// great-circle distance, bearings, destination points, local planar
// projection and polygon predicates over geographic coordinates.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// EarthRadius is the mean Earth radius in meters.
const EarthRadius = 6371008.8

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

func latLng(p model.GeoPoint) s2.LatLng {
	return s2.LatLngFromDegrees(p.Lat, p.Lng)
}

// Distance returns the great-circle distance between two points in meters.
func Distance(p1, p2 model.GeoPoint) float64 {
	return latLng(p1).Distance(latLng(p2)).Radians() * EarthRadius
}

// Heading returns the initial bearing from one point to another in degrees
// clockwise from north, normalized to [0, 360).
func Heading(from, to model.GeoPoint) float64 {
	lat1, lat2 := toRad(from.Lat), toRad(to.Lat)
	dLng := toRad(to.Lng - from.Lng)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	if x == 0 && y == 0 {
		return 0
	}
	return model.NormalizeHeading(toDeg(math.Atan2(y, x)))
}

// Offset returns the point reached by travelling distance meters from origin
// along the given heading on a great circle.
func Offset(from model.GeoPoint, distance, heading float64) model.GeoPoint {
	if distance == 0 {
		return from
	}
	delta := distance / EarthRadius
	theta := toRad(heading)
	lat1, lng1 := toRad(from.Lat), toRad(from.Lng)

	sinLat2 := math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta)
	sinLat2 = math.Max(-1, math.Min(1, sinLat2))
	lat2 := math.Asin(sinLat2)
	lng2 := lng1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*sinLat2,
	)

	return model.GeoPoint{Lat: toDeg(lat2), Lng: normalizeLng(toDeg(lng2))}
}

func normalizeLng(lng float64) float64 {
	if lng >= -180 && lng <= 180 {
		return lng
	}
	return math.Mod(math.Mod(lng+180, 360)+360, 360) - 180
}

// Area returns the approximate area of a polygon in square meters.
// Paths with fewer than three points have zero area. The projection is
// centered on the bounding box corner so the result does not depend on
// which vertex comes first.
func Area(path []model.GeoPoint) float64 {
	if len(path) < 3 {
		return 0
	}
	origin, _ := Bounds(path)
	sum := 0.0
	for i := range path {
		x1, y1 := ToLocal(origin, path[i])
		x2, y2 := ToLocal(origin, path[(i+1)%len(path)])
		sum += x1*y2 - x2*y1
	}
	return math.Abs(sum) / 2
}

// Bounds returns the south-west and north-east corners of the bounding box.
// An empty path yields two zero points.
func Bounds(path []model.GeoPoint) (sw, ne model.GeoPoint) {
	if len(path) == 0 {
		return
	}
	sw, ne = path[0], path[0]
	for _, p := range path[1:] {
		sw.Lat = math.Min(sw.Lat, p.Lat)
		sw.Lng = math.Min(sw.Lng, p.Lng)
		ne.Lat = math.Max(ne.Lat, p.Lat)
		ne.Lng = math.Max(ne.Lng, p.Lng)
	}
	return sw, ne
}
