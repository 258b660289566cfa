package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"countrycard/internal/app"
	"countrycard/internal/card"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var lookupJSON bool

const msgSessionOnly = "Recent searches are kept for this session only."

// lookupCmd looks a country up once and prints its card
var lookupCmd = &cobra.Command{
	Use:   "lookup [country name]",
	Short: "Look up a country by name",
	Long: `Fetches the country from the REST Countries API, prints its card and
adds the matched name to the recent searches.

Example:
  countrycard lookup france
  countrycard lookup united kingdom --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "print the card fields as JSON")
}

func runLookup(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := env.service.Lookup(ctx, strings.Join(args, " "))
	if err != nil {
		return lookupFailure(cmd, env, err)
	}

	if lookupJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Card); err != nil {
			return err
		}
		warnStorage(cmd, env.renderer, res)
		return nil
	}
	printResult(cmd, env.renderer, res)
	return nil
}

// printResult writes the card and the recent bar to stdout and a storage
// warning, if any, to stderr.
func printResult(cmd *cobra.Command, r *card.Renderer, res *app.LookupResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Render(res.Card))
	if s := r.RenderRecent(res.Recent); s != "" {
		fmt.Fprintln(out, s)
	}
	warnStorage(cmd, r, res)
}

func warnStorage(cmd *cobra.Command, r *card.Renderer, res *app.LookupResult) {
	if res.StorageWarning != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), r.RenderWarning(msgSessionOnly))
	}
}

// errReported means the message was already shown; main only sets the exit
// status.
var errReported = errors.New("reported")

func lookupFailure(cmd *cobra.Command, env *environment, err error) error {
	msg := app.UserMessage(err)
	fmt.Fprintln(cmd.ErrOrStderr(), env.renderer.RenderError(msg))
	logger.Debug("lookup failed", zap.Error(err))
	return errReported
}
