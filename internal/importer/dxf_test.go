package importer

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
)

var testAnchor = model.GeoPoint{Lat: 52.0, Lng: 4.0}

// writeRectangles saves each rectangle {x0, y0, x1, y1} as four LINE entities.
func writeRectangles(t *testing.T, rects ...[4]float64) string {
	t.Helper()
	d := dxf.NewDrawing()
	for _, r := range rects {
		corners := [][2]float64{{r[0], r[1]}, {r[2], r[1]}, {r[2], r[3]}, {r[0], r[3]}}
		for i := range corners {
			a, b := corners[i], corners[(i+1)%4]
			_, err := d.Line(a[0], a[1], 0, b[0], b[1], 0)
			require.NoError(t, err)
		}
	}
	path := filepath.Join(t.TempDir(), "roof.dxf")
	require.NoError(t, d.SaveAs(path))
	return path
}

func TestImportRoofDXF_RoofAndObstacle(t *testing.T) {
	path := writeRectangles(t,
		[4]float64{5, 5, 7, 7},
		[4]float64{0, 0, 20, 10},
		[4]float64{30, 0, 32, 2},
	)

	result := ImportRoofDXF(path, testAnchor, 1)

	require.Empty(t, result.Errors)
	require.NotNil(t, result.Roof)
	assert.Len(t, result.Roof.Path, 4)
	assert.InDelta(t, 200, geo.Area(result.Roof.Path), 1)
	require.Len(t, result.Roof.ExclusionZones, 1)
	assert.InDelta(t, 4, geo.Area(result.Roof.ExclusionZones[0].Path), 0.1)
	assert.Len(t, result.Warnings, 1)
	assert.Equal(t, model.DefaultPanelType, result.Roof.PanelType)

	// The drawing origin sits on the anchor.
	x, y := geo.ToLocal(testAnchor, result.Roof.Path[0])
	assert.InDelta(t, 0, x, 1e-6)
	assert.InDelta(t, 0, y, 1e-6)
}

func TestImportRoofDXF_MillimeterScale(t *testing.T) {
	path := writeRectangles(t, [4]float64{0, 0, 20000, 10000})

	result := ImportRoofDXF(path, testAnchor, 0.001)

	require.Empty(t, result.Errors)
	require.NotNil(t, result.Roof)
	assert.InDelta(t, 200, geo.Area(result.Roof.Path), 1)
}

func TestImportRoofDXF_TinyShapeRejected(t *testing.T) {
	path := writeRectangles(t, [4]float64{0, 0, 20, 10})

	result := ImportRoofDXF(path, testAnchor, 0.001)

	assert.Nil(t, result.Roof)
	assert.NotEmpty(t, result.Errors)
}

func TestImportRoofDXF_InvalidScale(t *testing.T) {
	result := ImportRoofDXF("unused.dxf", testAnchor, 0)
	assert.Nil(t, result.Roof)
	assert.NotEmpty(t, result.Errors)
}

func TestImportRoofDXF_FileNotFound(t *testing.T) {
	result := ImportRoofDXF("/nonexistent/roof.dxf", testAnchor, 1)
	assert.Nil(t, result.Roof)
	assert.NotEmpty(t, result.Errors)
}

func TestChainSegments_DropsOpenChains(t *testing.T) {
	segs := []segment{
		{start: point{0, 0}, end: point{1, 0}},
		{start: point{1, 1}, end: point{1, 0}},
		{start: point{1, 1}, end: point{0, 1}},
		{start: point{0, 1}, end: point{0, 0}},
		{start: point{5, 5}, end: point{6, 5}},
	}

	outlines := chainSegments(segs, 1e-6)

	require.Len(t, outlines, 1)
	assert.Len(t, outlines[0], 4)
	assert.InDelta(t, 1, outlineArea(outlines[0]), 1e-9)
}

func TestBulgeArcPoints_Semicircle(t *testing.T) {
	pts := bulgeArcPoints(point{0, 0}, point{2, 0}, 1, 8)

	require.Len(t, pts, 9)
	for _, p := range pts {
		assert.InDelta(t, 1, (p.X-1)*(p.X-1)+p.Y*p.Y, 1e-9)
	}
}
