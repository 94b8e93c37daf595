package cli

import (
	"fmt"
	"io"

	"github.com/piwi3910/PanelPlan/internal/engine"
	"github.com/spf13/cobra"
)

// compareCommand creates the compare command.
func (c *CLI) compareCommand() *cobra.Command {
	var roofKey string

	cmd := &cobra.Command{
		Use:   "compare [project.panelplan]",
		Short: "Compare layout scenarios for one roof",
		Long: `Compare layout scenarios for one roof: the current settings, the
perpendicular orientation, flat mounting and every other panel type in the
catalog.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd.OutOrStdout(), args[0], roofKey)
		},
	}

	cmd.Flags().StringVarP(&roofKey, "roof", "r", "", "roof id or name (default: first roof)")

	return cmd
}

func (c *CLI) runCompare(w io.Writer, input, roofKey string) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	proj, _, err := c.loadProject(input, e.catalog)
	if err != nil {
		return err
	}

	roof := proj.Roofs[0]
	if roofKey != "" {
		var ok bool
		if roof, ok = findRoof(proj, roofKey); !ok {
			return fmt.Errorf("roof %q not found", roofKey)
		}
	}

	results := engine.CompareScenarios(engine.BuildDefaultScenarios(roof, e.catalog), roof, e.catalog, proj.Settings)

	rows := make([][]string, len(results))
	for i, r := range results {
		rows[i] = []string{
			r.Scenario.Name,
			r.Definition.Type,
			fmt.Sprintf("%.0f°", r.Scenario.OrientationAngle),
			fmt.Sprintf("%.0f°", r.Scenario.TiltAngle),
			fmt.Sprint(r.PanelCount),
			fmt.Sprintf("%.2f", r.TotalWattage/1000),
			fmt.Sprintf("%.1f%%", r.CoveragePercent),
		}
	}

	printTitle(w, "Scenarios for "+roof.Name)
	fmt.Fprintln(w, renderTable([]string{"Scenario", "Panel", "Orient", "Tilt", "Panels", "kWp", "Coverage"}, rows))
	return nil
}
