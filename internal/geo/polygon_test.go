package geo

import (
	"testing"

	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/stretchr/testify/assert"
)

func unitSquare() []model.GeoPoint {
	return []model.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 0}}
}

func TestContainsLocationSquare(t *testing.T) {
	sq := unitSquare()
	assert.True(t, ContainsLocation(model.GeoPoint{Lat: 0.5, Lng: 0.5}, sq))
	assert.False(t, ContainsLocation(model.GeoPoint{Lat: 1.5, Lng: 0.5}, sq))
	assert.False(t, ContainsLocation(model.GeoPoint{Lat: 0.5, Lng: -0.1}, sq))
}

func TestContainsLocationConcave(t *testing.T) {
	// L-shape with the upper-right quadrant cut out.
	l := []model.GeoPoint{
		{Lat: 0, Lng: 0}, {Lat: 0, Lng: 2}, {Lat: 1, Lng: 2},
		{Lat: 1, Lng: 1}, {Lat: 2, Lng: 1}, {Lat: 2, Lng: 0},
	}
	assert.True(t, ContainsLocation(model.GeoPoint{Lat: 0.5, Lng: 1.5}, l))
	assert.True(t, ContainsLocation(model.GeoPoint{Lat: 1.5, Lng: 0.5}, l))
	assert.False(t, ContainsLocation(model.GeoPoint{Lat: 1.5, Lng: 1.5}, l))
}

func TestContainsLocationDegenerate(t *testing.T) {
	p := model.GeoPoint{Lat: 0, Lng: 0}
	assert.False(t, ContainsLocation(p, nil))
	assert.False(t, ContainsLocation(p, unitSquare()[:2]))
}

func TestContainsLocationSelfIntersectingEvenOdd(t *testing.T) {
	// Bow tie: the lobes between the crossing diagonals and the horizontal
	// edges are inside, the side wedges are not.
	bow := []model.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}, {Lat: 1, Lng: 0}, {Lat: 0, Lng: 1}}
	assert.True(t, ContainsLocation(model.GeoPoint{Lat: 0.1, Lng: 0.5}, bow))
	assert.True(t, ContainsLocation(model.GeoPoint{Lat: 0.9, Lng: 0.5}, bow))
	assert.False(t, ContainsLocation(model.GeoPoint{Lat: 0.5, Lng: 0.1}, bow))
}

func TestContainsLocationDeterministic(t *testing.T) {
	p := model.GeoPoint{Lat: 0.3, Lng: 0.7}
	first := ContainsLocation(p, unitSquare())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ContainsLocation(p, unitSquare()))
	}
}

func TestContainsAll(t *testing.T) {
	sq := unitSquare()
	assert.True(t, ContainsAll([]model.GeoPoint{{Lat: 0.2, Lng: 0.2}, {Lat: 0.8, Lng: 0.8}}, sq))
	assert.False(t, ContainsAll([]model.GeoPoint{{Lat: 0.2, Lng: 0.2}, {Lat: 1.8, Lng: 0.8}}, sq))
	assert.True(t, ContainsAll(nil, sq))
}

func TestCentroid(t *testing.T) {
	assert.Equal(t, model.GeoPoint{Lat: 0.5, Lng: 0.5}, Centroid(unitSquare()))
	assert.Equal(t, model.GeoPoint{}, Centroid(nil))
}
