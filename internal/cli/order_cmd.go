package cli

import (
	"github.com/spf13/cobra"
)

func newSubmitCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submit [TEXT...]",
		Short: "Extract an order from text and submit it",
		Long: `Extract an order from a free-form description and submit it.
The text is taken from the arguments, or from stdin when none are given.`,
		Example: `  forecastdesk submit "从深圳到洛杉矶；customernumber1=T1；consignee_countrycode=US；收件人=John；收件地址=1 Main St；城市=LA；邮编=90001；省州=CA"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeEnvelope(cmd, a, a.Session.SubmitFromText(cmd.Context(), text))
		},
	}
}

func newSubmitJSONCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "submit-json [JSON]",
		Short: "Submit an order given as a JSON object",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeEnvelope(cmd, a, a.Session.SubmitOrderJSON(cmd.Context(), raw))
		},
	}
}

func newBuildCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "build [JSON]",
		Short: "Build and validate the request payload without submitting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			return writeEnvelope(cmd, a, a.Session.BuildPayload(cmd.Context(), raw))
		},
	}
}
