package cli

import (
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/backend"
	"github.com/spf13/cobra"
)

func newOptionsCmd(a *App) *cobra.Command {
	names := make([]string, len(backend.Dictionaries))
	for i, d := range backend.Dictionaries {
		names[i] = string(d)
	}
	return &cobra.Command{
		Use:       "options DICTIONARY",
		Short:     "List a reference dictionary (" + strings.Join(names, ", ") + ")",
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeEnvelope(cmd, a, a.Session.ListOptions(cmd.Context(), args[0]))
		},
	}
}
