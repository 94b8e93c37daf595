package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/piwi3910/PanelPlan/internal/geo"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"github.com/yofu/dxf"
)

var origin = model.GeoPoint{Lat: 52.0, Lng: 4.0}

// testEnv is a temp directory holding a config, a catalog location, a
// database location and one project with a single 20 x 10 m roof.
type testEnv struct {
	dir         string
	configPath  string
	catalogPath string
	projectPath string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:         dir,
		configPath:  filepath.Join(dir, "config.json"),
		catalogPath: filepath.Join(dir, "panels.toml"),
		projectPath: filepath.Join(dir, "house.panelplan"),
	}

	cfg := model.DefaultAppConfig()
	cfg.CatalogPath = env.catalogPath
	cfg.DatabasePath = filepath.Join(dir, "roofs.db")
	require.NoError(t, project.SaveAppConfig(env.configPath, cfg))

	proj := model.NewProject()
	proj.Name = "House"
	roof := model.NewRoofArea("South", geo.PathFromLocal(origin, [][2]float64{{0, 0}, {20, 0}, {20, 10}, {0, 10}}))
	roof.PanelType = "standard"
	roof.TiltAngle = 30
	roof.OrientationAngle = 90
	roof.AddExclusionZone("Chimney", geo.PathFromLocal(origin, [][2]float64{{8, 4}, {10, 4}, {10, 6}, {8, 6}}))
	proj.Roofs = append(proj.Roofs, roof)
	require.NoError(t, project.Save(env.projectPath, proj))

	return env
}

func (e testEnv) path(name string) string {
	return filepath.Join(e.dir, name)
}

// run executes the CLI with args and returns stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", e.configPath}, args...))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLayoutCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "layout", env.projectPath)

	require.NoError(t, err)
	assert.Contains(t, out, "House")
	assert.Contains(t, out, "South")
	assert.Contains(t, out, "Total")
}

func TestLayoutCommand_JSONAndOutput(t *testing.T) {
	env := newTestEnv(t)
	saved := env.path("counted.panelplan")

	out, err := env.run(t, "layout", env.projectPath, "--json")
	require.NoError(t, err)

	var layouts []roofLayoutJSON
	require.NoError(t, json.Unmarshal([]byte(out), &layouts))
	require.Len(t, layouts, 1)
	assert.Equal(t, "standard", layouts[0].PanelType)
	assert.Positive(t, layouts[0].PanelCount)
	assert.Len(t, layouts[0].Panels, layouts[0].PanelCount)

	_, err = env.run(t, "layout", env.projectPath, "-o", saved)
	require.NoError(t, err)
	proj, err := project.Load(saved)
	require.NoError(t, err)
	assert.Equal(t, layouts[0].PanelCount, proj.Roofs[0].PanelCount)
}

func TestLayoutCommand_MissingProject(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "layout", env.path("missing.panelplan"))
	assert.Error(t, err)
}

func TestSummaryCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "summary", env.projectPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Project: House")

	out, err = env.run(t, "summary", env.projectPath, "--json")
	require.NoError(t, err)
	var sum estimate.Project
	require.NoError(t, json.Unmarshal([]byte(out), &sum))
	assert.Positive(t, sum.TotalPanels)
	assert.InDelta(t, float64(sum.TotalPanels)*330, sum.TotalWattage, 1e-6)
}

func TestCompareCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "compare", env.projectPath, "--roof", "South")

	require.NoError(t, err)
	assert.Contains(t, out, "Current")
	assert.Contains(t, out, "Flat Mounting")

	_, err = env.run(t, "compare", env.projectPath, "--roof", "Garage")
	assert.Error(t, err)
}

func TestReportCommand(t *testing.T) {
	env := newTestEnv(t)
	labels := env.path("labels.pdf")

	_, err := env.run(t, "report", env.projectPath, "--labels", labels)

	require.NoError(t, err)
	assert.FileExists(t, env.path("house.pdf"))
	assert.FileExists(t, labels)
}

func TestExportCommand(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "export", env.projectPath)
	require.NoError(t, err)
	f, err := excelize.OpenFile(env.path("house.xlsx"))
	require.NoError(t, err)
	f.Close()

	_, err = env.run(t, "export", env.projectPath, "-f", "dxf", "-r", "South")
	require.NoError(t, err)
	_, err = dxf.Open(env.path("house.dxf"))
	require.NoError(t, err)

	_, err = env.run(t, "export", env.projectPath, "-f", "svg")
	assert.Error(t, err)
}

func TestImportDXFCommand(t *testing.T) {
	env := newTestEnv(t)

	d := dxf.NewDrawing()
	rects := [][4]float64{{0, 0, 12000, 8000}, {2000, 2000, 3000, 3000}}
	for _, r := range rects {
		corners := [][2]float64{{r[0], r[1]}, {r[2], r[1]}, {r[2], r[3]}, {r[0], r[3]}}
		for i := range corners {
			a, b := corners[i], corners[(i+1)%4]
			_, err := d.Line(a[0], a[1], 0, b[0], b[1], 0)
			require.NoError(t, err)
		}
	}
	drawing := env.path("garage.dxf")
	require.NoError(t, d.SaveAs(drawing))

	target := env.path("garage.panelplan")
	out, err := env.run(t, "import-dxf", drawing,
		"--lat", "52", "--lng", "4", "--scale", "0.001", "--name", "Garage", "-o", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Garage")

	proj, err := project.Load(target)
	require.NoError(t, err)
	require.Len(t, proj.Roofs, 1)
	assert.Equal(t, "Garage", proj.Roofs[0].Name)
	assert.Len(t, proj.Roofs[0].ExclusionZones, 1)
	assert.Positive(t, proj.Roofs[0].PanelCount)

	// A second import appends to the existing project.
	_, err = env.run(t, "import-dxf", drawing, "--lat", "52", "--lng", "4", "--scale", "0.001", "-o", target)
	require.NoError(t, err)
	proj, err = project.Load(target)
	require.NoError(t, err)
	assert.Len(t, proj.Roofs, 2)
}

func TestCatalogCommands(t *testing.T) {
	env := newTestEnv(t)
	sheet := env.path("panels.csv")
	require.NoError(t, os.WriteFile(sheet, []byte("Type,Label,Width,Height,Wattage\nmono-450,Mono 450,1134,1762,450\n"), 0644))

	out, err := env.run(t, "catalog", "import", sheet)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 panel types")

	catalog, err := project.LoadCatalog(env.catalogPath)
	require.NoError(t, err)
	def, ok := catalog.Lookup("mono-450")
	require.True(t, ok)
	assert.InDelta(t, 1.762, def.HeightMeters, 1e-9)
	_, ok = catalog.Lookup("standard")
	assert.True(t, ok, "merge keeps the existing types")

	out, err = env.run(t, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "mono-450")

	_, err = env.run(t, "catalog", "import", sheet, "--replace")
	require.NoError(t, err)
	catalog, err = project.LoadCatalog(env.catalogPath)
	require.NoError(t, err)
	assert.Len(t, catalog.Panels, 1)
}

func TestBackupRestoreCommands(t *testing.T) {
	env := newTestEnv(t)
	backup := env.path("backup.json")

	_, err := env.run(t, "catalog", "backup", backup)
	require.NoError(t, err)
	require.NoError(t, os.Remove(env.configPath))

	_, err = env.run(t, "catalog", "restore", backup)
	require.NoError(t, err)

	cfg, err := project.LoadAppConfig(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, env.catalogPath, cfg.CatalogPath)
	assert.FileExists(t, env.catalogPath)
}

func TestSaveAndRoofsCommands(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "save", env.projectPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved South as #1")

	out, err = env.run(t, "roofs")
	require.NoError(t, err)
	assert.Contains(t, out, "South")

	out, err = env.run(t, "roofs", "--delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted roof #1")

	_, err = env.run(t, "roofs", "--delete", "1")
	assert.Error(t, err)
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "/tmp/house.pdf", withExt("/tmp/house.panelplan", ".pdf"))
	assert.Equal(t, "roof.xlsx", withExt("roof", ".xlsx"))
}
