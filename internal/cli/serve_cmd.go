package cli

import (
	"fmt"

	"github.com/jamesfeng2009/forecastdesk/internal/httpapi"
	"github.com/spf13/cobra"
)

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the entry points over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Sessions == nil {
				return fmt.Errorf("serve: no session factory configured")
			}
			srv := httpapi.NewServer(a.Sessions,
				httpapi.WithLogger(a.Logger),
				httpapi.WithMaxSessions(a.MaxSessions),
				httpapi.WithSessionIdleTimeout(a.SessionIdle),
			)
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", a.HTTPAddr, "Listen address")
	return cmd
}
