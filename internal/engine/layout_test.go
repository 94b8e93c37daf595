package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var origin = model.GeoPoint{Lat: 48.1374, Lng: 11.5755}

func defaultTestSettings() model.LayoutSettings {
	return model.DefaultLayoutSettings()
}

func standardPanel() model.PanelDefinition {
	return model.PanelDefinition{Type: "standard", Label: "Standard", WidthMeters: 1.0, HeightMeters: 1.6, Wattage: 330}
}

// localRect builds a path from east/north meter coordinates around origin.
func localRect(x0, y0, x1, y1 float64) model.Path {
	return model.Path{
		geo.FromLocal(origin, x0, y0),
		geo.FromLocal(origin, x1, y0),
		geo.FromLocal(origin, x1, y1),
		geo.FromLocal(origin, x0, y1),
	}
}

func squareRoof() model.RoofArea {
	roof := model.NewRoofArea("Test roof", localRect(0, 0, 10, 10))
	roof.PanelType = "standard"
	roof.TiltAngle = 30
	roof.OrientationAngle = 0
	return roof
}

func TestLayout_SquareRoofScenario(t *testing.T) {
	roof := squareRoof()
	result := New(defaultTestSettings()).Layout(roof, standardPanel())

	// floor(10/1.0) * floor(10/1.386) = 70 before boundary losses.
	assert.InDelta(t, 1.6*math.Cos(math.Pi/6), result.EffectiveHeight, 1e-9)
	assert.Greater(t, result.Count(), 45)
	assert.LessOrEqual(t, result.Count(), 70)
	assert.False(t, result.Truncated)
	assert.Equal(t, result.Candidates, result.Count()+result.RejectedBoundary+result.RejectedExclusion)
}

func TestComputeLayout_MatchesEngine(t *testing.T) {
	roof := squareRoof()
	panels := ComputeLayout(roof, standardPanel(), 0, 30)
	result := New(defaultTestSettings()).Layout(roof, standardPanel())
	assert.Equal(t, result.Panels, panels)
}

func TestLayout_PanelsContainedInRoof(t *testing.T) {
	roof := model.NewRoofArea("L", model.Path{
		geo.FromLocal(origin, 0, 0), geo.FromLocal(origin, 12, 0), geo.FromLocal(origin, 12, 5),
		geo.FromLocal(origin, 5, 5), geo.FromLocal(origin, 5, 11), geo.FromLocal(origin, 0, 11),
	})

	for _, orientation := range []float64{0, 30, 90, 145, 200} {
		panels := ComputeLayout(roof, standardPanel(), orientation, 20)
		require.NotEmpty(t, panels, "orientation %v", orientation)
		for _, p := range panels {
			for _, s := range p.SamplePoints() {
				assert.True(t, geo.ContainsLocation(s, roof.Path), "orientation %v panel %d", orientation, p.Index)
			}
		}
	}
}

func TestLayout_ExclusionZoneRespected(t *testing.T) {
	roof := squareRoof()
	without := ComputeLayout(roof, standardPanel(), 0, 30)

	roof.AddExclusionZone("Chimney", localRect(3, 3, 6, 6))
	result := New(defaultTestSettings()).Layout(roof, standardPanel())

	assert.Less(t, result.Count(), len(without))
	assert.Greater(t, result.RejectedExclusion, 0)
	for _, p := range result.Panels {
		assert.False(t, Excluded(p.SamplePoints(), roof.ExclusionZones), "panel %d touches the zone", p.Index)
	}
}

func TestLayout_ExclusionCoveringRoofYieldsNothing(t *testing.T) {
	roof := squareRoof()
	roof.AddExclusionZone("Everything", roof.Path)

	panels := ComputeLayout(roof, standardPanel(), 0, 30)
	assert.Empty(t, panels)
}

func TestLayout_TwoPointPathYieldsNothing(t *testing.T) {
	roof := model.NewRoofArea("Line", localRect(0, 0, 10, 10)[:2])
	result := New(defaultTestSettings()).Layout(roof, standardPanel())
	assert.Equal(t, 0, result.Count())
	assert.NotNil(t, result.Panels)
}

func TestLayout_InvalidPanelYieldsNothing(t *testing.T) {
	roof := squareRoof()
	assert.Empty(t, ComputeLayout(roof, model.PanelDefinition{WidthMeters: 0, HeightMeters: 1.6}, 0, 30))
	assert.Empty(t, ComputeLayout(roof, model.PanelDefinition{WidthMeters: 1, HeightMeters: -1}, 0, 30))
	assert.Empty(t, ComputeLayout(roof, model.PanelDefinition{WidthMeters: math.NaN(), HeightMeters: 1}, 0, 30))
}

func TestLayout_Deterministic(t *testing.T) {
	roof := squareRoof()
	roof.AddExclusionZone("Vent", localRect(1, 7, 2.5, 8.5))
	eng := New(defaultTestSettings())

	first := eng.Layout(roof, standardPanel())
	for i := 0; i < 3; i++ {
		again := eng.Layout(roof.Clone(), standardPanel())
		assert.Equal(t, first, again)
	}
}

func TestLayout_IndicesFollowGridOrder(t *testing.T) {
	panels := ComputeLayout(squareRoof(), standardPanel(), 0, 30)
	for i, p := range panels {
		assert.Equal(t, i, p.Index)
	}
}

func TestLayout_PanelDimensions(t *testing.T) {
	panels := ComputeLayout(squareRoof(), standardPanel(), 37, 30)
	require.NotEmpty(t, panels)

	p := panels[0]
	heightEff := EffectiveHeight(1.6, 30)
	assert.InDelta(t, 1.0, geo.Distance(p.Corners[0], p.Corners[1]), 1e-6)
	assert.InDelta(t, heightEff, geo.Distance(p.Corners[1], p.Corners[2]), 1e-6)
	assert.InDelta(t, 37, geo.Heading(p.Corners[0], p.Corners[1]), 1e-3)
	assert.InDelta(t, 1.0*heightEff, geo.Area(p.Outline()), 1e-4)
}

func TestLayout_TruncatesOversizedGrid(t *testing.T) {
	settings := defaultTestSettings()
	settings.MaxCandidates = 10

	result := New(settings).Layout(squareRoof(), standardPanel())
	assert.True(t, result.Truncated)
	assert.Empty(t, result.Panels)
	assert.Equal(t, 0, result.Candidates)
}

func TestLayout_VerticalTiltStillTerminates(t *testing.T) {
	roof := squareRoof()
	result := New(defaultTestSettings()).Compute(roof, standardPanel(), 0, 90)
	assert.InDelta(t, 1.6*model.DefaultMinFootprintRatio, result.EffectiveHeight, 1e-12)
	assert.False(t, result.Truncated)
	assert.Greater(t, result.Count(), 0)
}

func TestNew_SanitizesSettings(t *testing.T) {
	eng := New(model.LayoutSettings{MinFootprintRatio: -1, MaxCandidates: 0})
	assert.Equal(t, model.DefaultLayoutSettings(), eng.Settings)

	eng = New(model.LayoutSettings{MinFootprintRatio: 3, MaxCandidates: 5})
	assert.Equal(t, 1.0, eng.Settings.MinFootprintRatio)
	assert.Equal(t, 5, eng.Settings.MaxCandidates)
}
