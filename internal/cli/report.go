package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PanelPlan/internal/export"
	"github.com/spf13/cobra"
)

// reportCommand creates the report command.
func (c *CLI) reportCommand() *cobra.Command {
	var (
		output string
		labels string
	)

	cmd := &cobra.Command{
		Use:   "report [project.panelplan]",
		Short: "Render a PDF layout report",
		Long: `Render a PDF layout report with one page per roof and a summary page.
Each roof page carries a QR code of the roof record. With --labels a sheet
of QR roof labels is written as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReport(cmd.OutOrStdout(), args[0], output, labels)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.pdf)")
	cmd.Flags().StringVar(&labels, "labels", "", "also write a QR label sheet to this file")

	return cmd
}

func (c *CLI) runReport(w io.Writer, input, output, labels string) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	proj, layouts, err := c.loadProject(input, e.catalog)
	if err != nil {
		return err
	}

	if output == "" {
		output = withExt(input, ".pdf")
	}
	if err := export.ExportPDF(output, proj.Name, layouts); err != nil {
		return fmt.Errorf("write report %s: %w", output, err)
	}
	printSuccess(w, "Report written")
	printFile(w, output)

	if labels != "" {
		if err := export.ExportLabels(labels, layouts); err != nil {
			return fmt.Errorf("write labels %s: %w", labels, err)
		}
		printFile(w, labels)
	}
	return nil
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		format  string
		output  string
		roofKey string
	)

	cmd := &cobra.Command{
		Use:   "export [project.panelplan]",
		Short: "Export layouts as an XLSX schedule or a DXF drawing",
		Long: `Export layouts as an XLSX panel schedule (all roofs) or a DXF drawing
(one roof, in meters from the south-west corner of its bounding box).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExport(cmd.OutOrStdout(), args[0], format, output, roofKey)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "output format: xlsx, dxf")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&roofKey, "roof", "r", "", "roof id or name for DXF (default: first roof)")

	return cmd
}

func (c *CLI) runExport(w io.Writer, input, format, output, roofKey string) error {
	format = strings.ToLower(format)
	if format != "xlsx" && format != "dxf" {
		return fmt.Errorf("unsupported format %q (want xlsx or dxf)", format)
	}

	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	_, layouts, err := c.loadProject(input, e.catalog)
	if err != nil {
		return err
	}

	if output == "" {
		output = withExt(input, "."+format)
	}

	switch format {
	case "xlsx":
		err = export.ExportXLSX(output, layouts)
	case "dxf":
		layout := layouts[0]
		if roofKey != "" {
			found := false
			for _, l := range layouts {
				if l.Roof.ID == roofKey || l.Roof.Name == roofKey {
					layout, found = l, true
					break
				}
			}
			if !found {
				return fmt.Errorf("roof %q not found", roofKey)
			}
		}
		err = export.ExportDXF(output, layout)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", output, err)
	}

	printSuccess(w, "Exported %s", strings.ToUpper(format))
	printFile(w, output)
	return nil
}

// withExt replaces the extension of path.
func withExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
