package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jamesfeng2009/forecastdesk/internal/cli/formatter"
	"github.com/jamesfeng2009/forecastdesk/internal/contract"
	"github.com/jamesfeng2009/forecastdesk/internal/domain"
	"github.com/spf13/cobra"
)

// EnvelopeError is returned by a command whose entry point reported an
// error. The envelope itself has already been written to stdout.
type EnvelopeError struct {
	Kind    domain.ErrorKind
	Message string
}

func (e *EnvelopeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func writeEnvelope(cmd *cobra.Command, a *App, env contract.Envelope) error {
	out := cmd.OutOrStdout()
	if a.Pretty {
		fmt.Fprint(out, formatter.FormatEnvelope(env))
	} else {
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("encoding result: %w", err)
		}
	}
	if env.OK() {
		return nil
	}
	return &EnvelopeError{Kind: env.Error.Kind, Message: env.Error.Message}
}

// readInput joins args, or reads all of stdin when there are none.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(raw), nil
}
