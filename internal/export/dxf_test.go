package export

import (
	"path/filepath"
	"testing"

	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

func TestExportDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.dxf")
	l := buildLayout(t, "South")

	require.NoError(t, ExportDXF(path, l))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	lines := 0
	for _, e := range d.Entities() {
		if _, ok := e.(*entity.Line); ok {
			lines++
		}
	}
	// Roof and chimney are rectangles, every panel is four lines.
	assert.Equal(t, 8+4*len(l.Panels), lines)
}

func TestExportDXF_DegenerateRoof(t *testing.T) {
	roof := model.NewRoofArea("Empty", nil)
	assert.Error(t, ExportDXF(filepath.Join(t.TempDir(), "bad.dxf"), RoofLayout{Roof: roof}))
}
