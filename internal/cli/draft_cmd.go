package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/app"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/spf13/cobra"
)

const draftHelp = `Enter order details line by line. Commands:
  :submit          submit the draft
  :status          show the draft
  :reset           discard the draft
  :last            show the last submitted order
  :track [NUMBER]  track a waybill, or the last order
  :quit            leave`

func newDraftCmd(a *App) *cobra.Command {
	var auto bool

	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Build an order across several lines of input",
		Long:  draftHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := cmd.ErrOrStderr()
			fmt.Fprintln(prompt, draftHelp)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(prompt, "draft> ")
				if !scanner.Scan() {
					break
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				env, quit := runDraftLine(cmd, a, line, auto)
				if quit {
					return nil
				}
				if err := writeEnvelope(cmd, a, env); err != nil {
					var ee *EnvelopeError
					if !errors.As(err, &ee) {
						return err
					}
				}
			}
			fmt.Fprintln(prompt)
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVar(&auto, "auto", false, "Submit as soon as every required field is present")
	return cmd
}

func runDraftLine(cmd *cobra.Command, a *App, line string, auto bool) (contract.Envelope, bool) {
	ctx := cmd.Context()
	if !strings.HasPrefix(line, ":") {
		return a.Session.AccumulateDraft(ctx, line, app.DraftOptions{AutoSubmit: auto}), false
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	switch name {
	case "submit":
		return a.Session.SubmitDraft(ctx), false
	case "status":
		return a.Session.DraftStatus(ctx), false
	case "reset":
		return a.Session.ResetDraft(ctx), false
	case "last":
		return a.Session.LastOrderReference(ctx), false
	case "track":
		if arg = strings.TrimSpace(arg); arg == "" {
			return a.Session.QueryLastOrderStatus(ctx), false
		}
		return a.Session.QueryStatus(ctx, arg), false
	case "quit", "q", "exit":
		return contract.Envelope{}, true
	default:
		// Unknown commands are read as order text so that values starting
		// with a colon still reach the draft.
		return a.Session.AccumulateDraft(ctx, line, app.DraftOptions{AutoSubmit: auto}), false
	}
}
