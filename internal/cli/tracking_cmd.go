package cli

import (
	"github.com/spf13/cobra"
)

func newTrackCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "track NUMBER",
		Short: "Show the tracking itinerary of a waybill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeEnvelope(cmd, a, a.Session.QueryStatus(cmd.Context(), args[0]))
		},
	}
}

func newWaybillCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "waybill CUSTOMERNUMBER...",
		Short: "Look up the waybills assigned to customer references",
		Example: `  forecastdesk waybill T620200611-1001
  forecastdesk waybill '{"customernumber":["T1","T2"]}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input any = args
			if len(args) == 1 {
				// A single argument may be a JSON list or object.
				input = args[0]
				if !looksLikeJSON(args[0]) {
					input = args
				}
			}
			return writeEnvelope(cmd, a, a.Session.GetWaybillNumbers(cmd.Context(), input))
		},
	}
}

func looksLikeJSON(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n':
			continue
		case '[', '{':
			return true
		default:
			return false
		}
	}
	return false
}
