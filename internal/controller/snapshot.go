package controller

import "github.com/piwi3910/PanelPlan/internal/model"

// snapshot is a value copy of the inputs that drive a layout. PanelCount is
// derived and deliberately absent.
type snapshot struct {
	path        model.Path
	zones       []model.Path
	panelType   string
	definition  model.PanelDefinition
	orientation float64
	tilt        float64
}

func takeSnapshot(roof *model.RoofArea, def model.PanelDefinition) snapshot {
	zones := make([]model.Path, len(roof.ExclusionZones))
	for i, z := range roof.ExclusionZones {
		zones[i] = z.Path.Clone()
	}
	return snapshot{
		path:        roof.Path.Clone(),
		zones:       zones,
		panelType:   roof.PanelType,
		definition:  def,
		orientation: model.NormalizeHeading(roof.OrientationAngle),
		tilt:        model.ClampTilt(roof.TiltAngle),
	}
}

func (s snapshot) equal(o snapshot) bool {
	if s.panelType != o.panelType || s.definition != o.definition ||
		s.orientation != o.orientation || s.tilt != o.tilt {
		return false
	}
	if !s.path.Equal(o.path) || len(s.zones) != len(o.zones) {
		return false
	}
	for i := range s.zones {
		if !s.zones[i].Equal(o.zones[i]) {
			return false
		}
	}
	return true
}
