package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/piwi3910/PanelPlan/internal/importer"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/spf13/cobra"
)

type importDXFOptions struct {
	lat, lng  float64
	unitScale float64
	name      string
	output    string
}

// importDXFCommand creates the import-dxf command.
func (c *CLI) importDXFCommand() *cobra.Command {
	opts := importDXFOptions{unitScale: 1}

	cmd := &cobra.Command{
		Use:   "import-dxf [roof.dxf]",
		Short: "Add a roof traced in a DXF drawing to a project",
		Long: `Add a roof traced in a DXF drawing to a project.

The drawing origin is placed at --lat/--lng with X pointing east and Y north.
The largest closed shape becomes the roof; closed shapes inside it become
exclusion zones. The roof is appended to --output, which is created when it
does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImportDXF(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude of the drawing origin")
	cmd.Flags().Float64Var(&opts.lng, "lng", 0, "longitude of the drawing origin")
	cmd.Flags().Float64Var(&opts.unitScale, "scale", opts.unitScale, "meters per drawing unit (0.001 for mm drawings)")
	cmd.Flags().StringVar(&opts.name, "name", "", "roof name (default: DXF Roof)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "project file to add the roof to")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func (c *CLI) runImportDXF(w io.Writer, input string, opts importDXFOptions) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}

	res := importer.ImportRoofDXF(input, model.GeoPoint{Lat: opts.lat, Lng: opts.lng}, opts.unitScale)
	for _, warning := range res.Warnings {
		printWarning(w, "%s", warning)
	}
	if res.Roof == nil {
		return fmt.Errorf("import %s: %v", input, res.Errors)
	}

	roof := *res.Roof
	if opts.name != "" {
		roof.Name = opts.name
	}
	e.config.ApplyToRoof(&roof)

	proj, err := project.Load(opts.output)
	if errors.Is(err, os.ErrNotExist) {
		proj = model.NewProject()
		proj.Name = roof.Name
		e.config.ApplyToSettings(&proj.Settings)
	} else if err != nil {
		return err
	}
	proj.Roofs = append(proj.Roofs, roof)
	layoutProject(&proj, e.catalog)

	if err := project.Save(opts.output, proj); err != nil {
		return err
	}

	c.Logger.Debug("roof imported", "roof", roof.ID, "zones", len(roof.ExclusionZones))
	printSuccess(w, "Imported %s with %d exclusion zones (%d panels)",
		roof.Name, len(roof.ExclusionZones), proj.Roofs[len(proj.Roofs)-1].PanelCount)
	printFile(w, opts.output)
	return nil
}
