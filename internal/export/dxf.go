package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// DXF layer names.
const (
	LayerRoof      = "ROOF"
	LayerObstacles = "OBSTACLES"
	LayerPanels    = "PANELS"
)

// ExportDXF writes a roof layout as a DXF drawing in meters. The origin is
// the south-west corner of the roof's bounding box, X points east and Y
// points north. Each outline is drawn as closed LINE segments on its own layer.
func ExportDXF(path string, l RoofLayout) error {
	if !l.Roof.Path.IsPolygon() {
		return fmt.Errorf("roof %q has fewer than 3 vertices", l.Roof.Name)
	}
	local := localize(l)

	d := dxf.NewDrawing()
	layers := []struct {
		name  string
		color color.ColorNumber
	}{
		{LayerRoof, color.White},
		{LayerObstacles, color.Red},
		{LayerPanels, color.Cyan},
	}
	for _, layer := range layers {
		if _, err := d.AddLayer(layer.name, layer.color, dxf.DefaultLineType, false); err != nil {
			return fmt.Errorf("add layer %s: %w", layer.name, err)
		}
	}

	if err := drawOutlines(d, LayerRoof, [][][2]float64{local.Roof}); err != nil {
		return err
	}
	if err := drawOutlines(d, LayerObstacles, local.Zones); err != nil {
		return err
	}
	if err := drawOutlines(d, LayerPanels, local.Panels); err != nil {
		return err
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("save drawing: %w", err)
	}
	return nil
}

func drawOutlines(d *drawing.Drawing, layer string, outlines [][][2]float64) error {
	if len(outlines) == 0 {
		return nil
	}
	if err := d.ChangeLayer(layer); err != nil {
		return fmt.Errorf("change layer %s: %w", layer, err)
	}
	for _, o := range outlines {
		for i := range o {
			a, b := o[i], o[(i+1)%len(o)]
			if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
				return fmt.Errorf("draw line on %s: %w", layer, err)
			}
		}
	}
	return nil
}
