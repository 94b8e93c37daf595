package export

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	a := buildLayout(t, "South")
	b := buildLayout(t, "North")

	require.NoError(t, ExportXLSX(path, []RoofLayout{a, b}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{summarySheet, panelsSheet}, f.GetSheetList())

	summary, err := f.GetRows(summarySheet)
	require.NoError(t, err)
	require.Len(t, summary, 4)
	assert.Equal(t, "Roof", summary[0][0])
	assert.Equal(t, "South", summary[1][0])
	assert.Equal(t, strconv.Itoa(len(a.Panels)), summary[1][6])
	assert.Equal(t, "Total", summary[3][0])
	assert.Equal(t, strconv.Itoa(len(a.Panels)+len(b.Panels)), summary[3][6])

	panels, err := f.GetRows(panelsSheet)
	require.NoError(t, err)
	assert.Len(t, panels, 1+len(a.Panels)+len(b.Panels))
	assert.Equal(t, "1", panels[1][1])
	assert.Len(t, panels[1], 12)
}

func TestExportXLSX_NoRoofs(t *testing.T) {
	assert.Error(t, ExportXLSX(filepath.Join(t.TempDir(), "empty.xlsx"), nil))
}
