package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/project"
	"github.com/piwi3910/PanelPlan/internal/store"
	"github.com/spf13/cobra"
)

func (c *CLI) openStore(ctx context.Context, cfg model.AppConfig) (*store.SQLiteStore, error) {
	path := project.ResolveDatabasePath(cfg)
	st, err := store.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	c.Logger.Debug("store opened", "path", path)
	return st, nil
}

// saveCommand creates the save command.
func (c *CLI) saveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [project.panelplan]",
		Short: "Store every roof of a project in the roof database",
		Long: `Store every roof of a project in the roof database. Panel counts are
recomputed before saving.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSave(cmd.Context(), cmd.OutOrStdout(), args[0])
		},
	}
}

func (c *CLI) runSave(ctx context.Context, w io.Writer, input string) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	proj, _, err := c.loadProject(input, e.catalog)
	if err != nil {
		return err
	}

	st, err := c.openStore(ctx, e.config)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, roof := range proj.Roofs {
		id, err := st.Save(ctx, roof.Record())
		if err != nil {
			return fmt.Errorf("save roof %q: %w", roof.Name, err)
		}
		printSuccess(w, "Saved %s as #%d (%d panels)", roof.Name, id, roof.PanelCount)
	}
	return nil
}

// roofsCommand creates the roofs command listing stored records.
func (c *CLI) roofsCommand() *cobra.Command {
	var remove int64

	cmd := &cobra.Command{
		Use:   "roofs",
		Short: "List roofs stored in the roof database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoofs(cmd.Context(), cmd.OutOrStdout(), remove)
		},
	}

	cmd.Flags().Int64Var(&remove, "delete", 0, "delete the stored roof with this id")

	return cmd
}

func (c *CLI) runRoofs(ctx context.Context, w io.Writer, remove int64) error {
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	st, err := c.openStore(ctx, e.config)
	if err != nil {
		return err
	}
	defer st.Close()

	if remove != 0 {
		if err := st.Delete(ctx, remove); err != nil {
			return err
		}
		printSuccess(w, "Deleted roof #%d", remove)
		return nil
	}

	roofs, err := st.List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, len(roofs))
	for i, r := range roofs {
		rows[i] = []string{
			fmt.Sprint(r.ID),
			r.Record.Name,
			r.Record.PanelType,
			fmt.Sprint(r.Record.PanelCount),
			r.SavedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	printTitle(w, "Stored roofs")
	fmt.Fprintln(w, renderTable([]string{"ID", "Name", "Panel", "Panels", "Saved"}, rows))
	return nil
}
