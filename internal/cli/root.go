// Package cli is the command-line surface of forecastdesk.
package cli

import (
	"time"

	"github.com/jamesfeng2009/forecastdesk/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds what the commands run against. Session serves the one-shot
// commands; Sessions opens a session per HTTP client for serve.
type App struct {
	Session  app.Session
	Sessions app.SessionFactory
	Logger   *zap.Logger
	HTTPAddr string
	// MaxSessions and SessionIdle bound the serve session registry.
	MaxSessions int
	SessionIdle time.Duration
	// Pretty selects the styled renderer by default; the --pretty flag
	// overrides it.
	Pretty bool
}

// NewRootCmd creates the top-level "forecastdesk" command and registers all
// subcommands against the provided App.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "forecastdesk",
		Short:         "Turn order descriptions into forecast orders",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&a.Pretty, "pretty", a.Pretty, "Render results as styled boxes instead of JSON")

	root.AddCommand(
		newSubmitCmd(a),
		newSubmitJSONCmd(a),
		newBuildCmd(a),
		newDraftCmd(a),
		newTrackCmd(a),
		newWaybillCmd(a),
		newOptionsCmd(a),
		newServeCmd(a),
	)
	return root
}
