package engine

import (
	"fmt"

	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
)

// ComparisonScenario defines a named panel configuration to compare.
type ComparisonScenario struct {
	Name             string
	PanelType        string
	OrientationAngle float64
	TiltAngle        float64
}

// ComparisonResult holds the layout and computed statistics for a single
// scenario.
type ComparisonResult struct {
	Scenario        ComparisonScenario
	Definition      model.PanelDefinition
	Result          LayoutResult
	PanelCount      int
	TotalWattage    float64
	CoveragePercent float64 // panel footprint over roof area
}

// CompareScenarios lays out the roof once per scenario and returns the
// results in scenario order. Scenarios whose panel type is not in the catalog
// fall back to the catalog default.
func CompareScenarios(scenarios []ComparisonScenario, roof model.RoofArea, catalog model.PanelCatalog, settings model.LayoutSettings) []ComparisonResult {
	eng := New(settings)
	roofArea := geo.Area(roof.Path)
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		def, ok := catalog.Resolve(scenario.PanelType)
		var result LayoutResult
		if ok {
			result = eng.Compute(roof, def, scenario.OrientationAngle, scenario.TiltAngle)
		} else {
			result = LayoutResult{Panels: []model.Panel{}}
		}

		count := result.Count()
		coverage := 0.0
		if roofArea > 0 {
			coverage = float64(count) * def.WidthMeters * result.EffectiveHeight / roofArea * 100
		}

		results = append(results, ComparisonResult{
			Scenario:        scenario,
			Definition:      def,
			Result:          result,
			PanelCount:      count,
			TotalWattage:    float64(count) * def.Wattage,
			CoveragePercent: coverage,
		})
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives to the roof's current
// configuration: the perpendicular orientation, flat mounting, and every
// other panel type in the catalog.
func BuildDefaultScenarios(roof model.RoofArea, catalog model.PanelCatalog) []ComparisonScenario {
	current := ComparisonScenario{
		Name:             "Current Settings",
		PanelType:        roof.PanelType,
		OrientationAngle: model.NormalizeHeading(roof.OrientationAngle),
		TiltAngle:        model.ClampTilt(roof.TiltAngle),
	}
	if def, ok := catalog.Resolve(roof.PanelType); ok {
		current.PanelType = def.Type
	}
	scenarios := []ComparisonScenario{current}

	rotated := current
	rotated.OrientationAngle = model.NormalizeHeading(current.OrientationAngle + 90)
	rotated.Name = fmt.Sprintf("Rotated %.0f°", rotated.OrientationAngle)
	scenarios = append(scenarios, rotated)

	if current.TiltAngle > 0 {
		flat := current
		flat.TiltAngle = 0
		flat.Name = "Flat Mounting"
		scenarios = append(scenarios, flat)
	}

	for _, def := range catalog.Panels {
		if def.Type == current.PanelType {
			continue
		}
		alt := current
		alt.PanelType = def.Type
		alt.Name = fmt.Sprintf("Panel: %s", def.Label)
		if def.Label == "" {
			alt.Name = fmt.Sprintf("Panel: %s", def.Type)
		}
		scenarios = append(scenarios, alt)
	}

	return scenarios
}
