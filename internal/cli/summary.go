package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/spf13/cobra"
)

// summaryCommand creates the summary command.
func (c *CLI) summaryCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary [project.panelplan]",
		Short: "Print the estimate summary of a project",
		Long: `Print the estimate summary of a project: panels, system size and
roof area per roof and in total. Panel counts are recomputed first.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSummary(cmd.OutOrStdout(), args[0], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	return cmd
}

func (c *CLI) runSummary(w io.Writer, input string, asJSON bool) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	proj, _, err := c.loadProject(input, e.catalog)
	if err != nil {
		return err
	}

	sum := estimate.ForProject(proj, e.catalog, nil)
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return fmt.Errorf("encode summary: %w", err)
		}
		return nil
	}
	fmt.Fprint(w, sum.Text())
	return nil
}
