package geo

import (
	"math/rand"
	"testing"

	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNearestEdgeHeadingPicksClosestEdge(t *testing.T) {
	sq := localSquare(berlin, 10)

	snap, ok := NearestEdgeHeading(sq, FromLocal(berlin, 5, -1))
	require.True(t, ok)
	assert.Equal(t, 0, snap.Index)
	assert.InDelta(t, 90, snap.Heading, 0.01)
	assert.Equal(t, sq[0], snap.EdgeStart)
	assert.Equal(t, sq[1], snap.EdgeEnd)

	snap, ok = NearestEdgeHeading(sq, FromLocal(berlin, 11, 5))
	require.True(t, ok)
	assert.Equal(t, 1, snap.Index)
	assert.InDelta(t, 0, snap.Heading, 0.01)
}

func TestNearestEdgeHeadingWrapsClosingEdge(t *testing.T) {
	sq := localSquare(berlin, 10)
	snap, ok := NearestEdgeHeading(sq, FromLocal(berlin, -1, 5))
	require.True(t, ok)
	assert.Equal(t, 3, snap.Index)
	assert.Equal(t, sq[3], snap.EdgeStart)
	assert.Equal(t, sq[0], snap.EdgeEnd)
	assert.InDelta(t, 180, snap.Heading, 0.01)
}

func TestNearestEdgeHeadingTiesKeepLowestIndex(t *testing.T) {
	pts := []model.GeoPoint{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1}}
	// The shared vertex (0,1) is equidistant from edges 0 and 1.
	snap, ok := NearestEdgeHeading(pts, model.GeoPoint{Lat: -0.1, Lng: 1.1})
	require.True(t, ok)
	assert.Equal(t, 0, snap.Index)
}

func TestNearestEdgeHeadingDegenerate(t *testing.T) {
	_, ok := NearestEdgeHeading(nil, berlin)
	assert.False(t, ok)
	_, ok = NearestEdgeHeading([]model.GeoPoint{berlin}, berlin)
	assert.False(t, ok)

	snap, ok := NearestEdgeHeading([]model.GeoPoint{berlin, berlin}, berlin)
	require.True(t, ok)
	assert.Equal(t, 0, snap.Index)
}

func TestNearestEdgeHeadingIsNearestForRandomClicks(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	poly := []model.GeoPoint{
		FromLocal(berlin, 0, 0), FromLocal(berlin, 14, 2), FromLocal(berlin, 12, 11),
		FromLocal(berlin, 5, 15), FromLocal(berlin, -3, 6),
	}

	for i := 0; i < 200; i++ {
		click := FromLocal(berlin, rng.Float64()*24-5, rng.Float64()*24-5)
		snap, ok := NearestEdgeHeading(poly, click)
		require.True(t, ok)

		chosen := segmentDistSq(click, snap.EdgeStart, snap.EdgeEnd)
		for j := range poly {
			other := segmentDistSq(click, poly[j], poly[(j+1)%len(poly)])
			assert.LessOrEqual(t, chosen, other)
		}
		assert.GreaterOrEqual(t, snap.Heading, 0.0)
		assert.Less(t, snap.Heading, 360.0)
	}
}

func TestNearestEdgeHeadingPointOnEdgeReturnsThatEdge(t *testing.T) {
	poly := []model.GeoPoint{
		FromLocal(berlin, 0, 0), FromLocal(berlin, 14, 2), FromLocal(berlin, 12, 11), FromLocal(berlin, -3, 6),
	}
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		mid := model.GeoPoint{Lat: (a.Lat + b.Lat) / 2, Lng: (a.Lng + b.Lng) / 2}

		snap, ok := NearestEdgeHeading(poly, mid)
		require.True(t, ok)
		assert.Equal(t, i, snap.Index)
		assert.InDelta(t, Heading(a, b), snap.Heading, 1e-9)
	}
}
