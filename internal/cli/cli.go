// Package cli implements the panelplan command-line interface.
//
// Commands read a saved project (.panelplan), lay out every roof with the
// configured panel catalog and print, export or serve the result. All
// commands support --verbose (-v) for debug logging and --config to point
// at a non-default application config.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/piwi3910/PanelPlan/internal/engine"
	"github.com/piwi3910/PanelPlan/internal/export"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/spf13/cobra"
)

const appName = "panelplan-cli"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string
}

// New creates a CLI whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		ConfigPath: project.DefaultConfigPath(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "PanelPlan lays out solar panels on roof polygons",
		Long:         `PanelPlan computes solar panel layouts for roof outlines drawn on a map, respecting obstacles, panel orientation and tilt spacing.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", c.ConfigPath, "application config file")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.summaryCommand())
	root.AddCommand(c.compareCommand())
	root.AddCommand(c.reportCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importDXFCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.saveCommand())
	root.AddCommand(c.roofsCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// Execute runs the CLI against os.Args.
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}

// env is the configuration every command starts from.
type env struct {
	config  model.AppConfig
	catalog model.PanelCatalog
}

func (c *CLI) loadEnv() (env, error) {
	cfg, err := project.LoadAppConfig(c.ConfigPath)
	if err != nil {
		return env{}, fmt.Errorf("load config: %w", err)
	}
	catalog, err := project.LoadCatalogFromConfig(cfg)
	if err != nil {
		return env{}, fmt.Errorf("load catalog: %w", err)
	}
	c.Logger.Debug("environment loaded", "config", c.ConfigPath, "panel_types", len(catalog.Panels))
	return env{config: cfg, catalog: catalog}, nil
}

// loadProject reads a project and lays out each of its roofs. Stored panel
// counts are replaced by the computed ones.
func (c *CLI) loadProject(path string, catalog model.PanelCatalog) (model.Project, []export.RoofLayout, error) {
	proj, err := project.Load(path)
	if err != nil {
		return model.Project{}, nil, err
	}
	if len(proj.Roofs) == 0 {
		return model.Project{}, nil, fmt.Errorf("project %s has no roofs", path)
	}

	p := newProgress(c.Logger)
	layouts := layoutProject(&proj, catalog)
	p.done(fmt.Sprintf("Laid out %d roofs", len(layouts)))
	return proj, layouts, nil
}

// layoutProject computes every roof of proj and stores the counts on it.
func layoutProject(proj *model.Project, catalog model.PanelCatalog) []export.RoofLayout {
	eng := engine.New(proj.Settings)
	layouts := make([]export.RoofLayout, len(proj.Roofs))
	for i := range proj.Roofs {
		roof := &proj.Roofs[i]
		def, _ := catalog.Resolve(roof.PanelType)
		res := eng.Layout(*roof, def)
		roof.PanelCount = res.Count()
		layouts[i] = export.RoofLayout{Roof: roof.Clone(), Definition: def, Panels: res.Panels}
	}
	return layouts
}

// findRoof returns the roof whose id or name matches key.
func findRoof(proj model.Project, key string) (model.RoofArea, bool) {
	for _, r := range proj.Roofs {
		if r.ID == key || r.Name == key {
			return r, true
		}
	}
	return model.RoofArea{}, false
}
