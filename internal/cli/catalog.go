package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/piwi3910/PanelPlan/internal/importer"
	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/spf13/cobra"
)

// catalogCommand creates the catalog command and its subcommands.
func (c *CLI) catalogCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and edit the panel catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the panel types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCatalogList(cmd.OutOrStdout())
		},
	})

	var replace bool
	importCmd := &cobra.Command{
		Use:   "import [panels.csv|panels.xlsx]",
		Short: "Merge panel types from a CSV or Excel sheet into the catalog",
		Long: `Merge panel types from a CSV or Excel sheet into the catalog.

Columns are matched by header (type, label, width, height, wattage and common
aliases). Dimensions above 10 are read as millimeters. Imported types replace
existing ones with the same key; with --replace the catalog is rebuilt from
the sheet alone.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCatalogImport(cmd.OutOrStdout(), args[0], replace)
		},
	}
	importCmd.Flags().BoolVar(&replace, "replace", false, "replace the catalog instead of merging")
	cmd.AddCommand(importCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "backup [backup.json]",
		Short: "Write the config and catalog to a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := c.loadEnv()
			if err != nil {
				return err
			}
			if err := project.ExportAllData(args[0], e.config, e.catalog); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Backup written")
			printFile(cmd.OutOrStdout(), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "restore [backup.json]",
		Short: "Restore the config and catalog from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRestore(cmd.OutOrStdout(), args[0])
		},
	})

	return cmd
}

func (c *CLI) runCatalogList(w io.Writer) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}

	rows := make([][]string, len(e.catalog.Panels))
	for i, d := range e.catalog.Panels {
		rows[i] = []string{
			d.Type,
			d.Label,
			fmt.Sprintf("%.3f", d.WidthMeters),
			fmt.Sprintf("%.3f", d.HeightMeters),
			fmt.Sprintf("%.0f", d.Wattage),
		}
	}
	printTitle(w, "Panel catalog")
	fmt.Fprintln(w, styleDim.Render(project.ResolveCatalogPath(e.config)))
	fmt.Fprintln(w, renderTable([]string{"Type", "Label", "Width (m)", "Height (m)", "Watts"}, rows))
	return nil
}

func (c *CLI) runCatalogImport(w io.Writer, input string, replace bool) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}

	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(input)) {
	case ".xlsx", ".xlsm":
		res = importer.ImportExcel(input)
	default:
		res = importer.ImportCSV(input)
	}
	for _, warning := range res.Warnings {
		c.Logger.Debug(warning)
	}
	for _, msg := range res.Errors {
		printWarning(w, "%s", msg)
	}
	if len(res.Panels) == 0 {
		return fmt.Errorf("no panel types imported from %s", input)
	}

	catalog := e.catalog
	if replace {
		catalog = model.PanelCatalog{}
	}
	for _, d := range res.Panels {
		catalog.Upsert(d)
	}
	if err := project.ValidateCatalog(catalog); err != nil {
		return err
	}

	path := project.ResolveCatalogPath(e.config)
	if err := project.SaveCatalog(path, catalog); err != nil {
		return err
	}
	printSuccess(w, "Imported %d panel types (%d in catalog)", len(res.Panels), len(catalog.Panels))
	printFile(w, path)
	return nil
}

func (c *CLI) runRestore(w io.Writer, input string) error {
	backup, err := project.ImportAllData(input)
	if err != nil {
		return err
	}
	if err := project.SaveAppConfig(c.ConfigPath, backup.Config); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	path := project.ResolveCatalogPath(backup.Config)
	if err := project.SaveCatalog(path, backup.Catalog); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	printSuccess(w, "Restored backup from %s", backup.CreatedAt)
	printFile(w, c.ConfigPath)
	printFile(w, path)
	return nil
}
