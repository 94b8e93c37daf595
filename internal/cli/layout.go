package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/piwi3910/PanelPlan/internal/estimate"
	"github.com/piwi3910/PanelPlan/internal/export"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/spf13/cobra"
)

// roofLayoutJSON is the machine-readable layout of one roof.
type roofLayoutJSON struct {
	RoofID     string        `json:"roof_id"`
	RoofName   string        `json:"roof_name"`
	PanelType  string        `json:"panel_type"`
	PanelCount int           `json:"panel_count"`
	Panels     []model.Panel `json:"panels"`
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [project.panelplan]",
		Short: "Compute the panel layout of every roof in a project",
		Long: `Compute the panel layout of every roof in a project.

Prints the panel count per roof. With --json the full panel list (centers and
corners) is written instead. With --output the project is saved again with
the recomputed panel counts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], asJSON, output)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print panels as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "save the project with updated panel counts")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, w io.Writer, input string, asJSON bool, output string) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	proj, layouts, err := c.loadProject(input, e.catalog)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if asJSON {
		out := make([]roofLayoutJSON, len(layouts))
		for i, l := range layouts {
			out[i] = roofLayoutJSON{
				RoofID:     l.Roof.ID,
				RoofName:   l.Roof.Name,
				PanelType:  l.Definition.Type,
				PanelCount: len(l.Panels),
				Panels:     l.Panels,
			}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode layout: %w", err)
		}
	} else {
		printLayouts(w, proj.Name, layouts)
	}

	if output != "" {
		if err := project.Save(output, proj); err != nil {
			return err
		}
		printSuccess(w, "Project saved")
		printFile(w, output)
	}
	return nil
}

func printLayouts(w io.Writer, name string, layouts []export.RoofLayout) {
	printTitle(w, name)
	total := 0
	for _, l := range layouts {
		total += len(l.Panels)
		printKV(w, l.Roof.Name, fmt.Sprintf("%d × %s (%.0f° tilt, facing %s)",
			len(l.Panels), l.Definition.Label, l.Roof.TiltAngle, estimate.Compass(l.Roof.OrientationAngle)))
	}
	printKV(w, "Total", total)
}
