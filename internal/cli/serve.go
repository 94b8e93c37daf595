package cli

import (
	"context"

	"github.com/piwi3910/PanelPlan/internal/model"
	"github.com/piwi3910/PanelPlan/internal/server"
	"github.com/spf13/cobra"
)

// serveCommand creates the serve command running the layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noStore bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints: GET /health, GET /v1/panels, POST /v1/layout, POST /v1/summary and,
unless --no-store is given, /v1/roofs backed by the roof database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noStore)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server_addr)")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "disable the /v1/roofs endpoints")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noStore bool) error {
	logger := loggerFromContext(ctx)
	e, err := c.loadEnv()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = e.config.ServerAddr
	}

	settings := model.DefaultLayoutSettings()
	e.config.ApplyToSettings(&settings)

	var roofs server.RoofStore
	if !noStore {
		st, err := c.openStore(ctx, e.config)
		if err != nil {
			return err
		}
		defer st.Close()
		roofs = st
	}

	return server.New(e.catalog, settings, roofs, logger).ListenAndServe(ctx, addr)
}
