package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent searches",
	Long: `Lists up to five recently looked-up countries, most recent first.

Example:
  countrycard recent
  countrycard recent pick 2
  countrycard recent clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		list := env.service.Recent.Load(cmd.Context())
		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No recent searches.")
			return nil
		}
		for i, name := range list {
			fmt.Fprintf(out, "%d. %s\n", i+1, name)
		}
		return nil
	},
}

var recentClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.service.Recent.Clear(cmd.Context()); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), env.renderer.RenderWarning("Recent searches could not be removed from storage."))
			return errReported
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Recent searches cleared.")
		return nil
	},
}

var recentPickCmd = &cobra.Command{
	Use:   "pick <n>",
	Short: "Look up the n-th recent search again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid position %q: expected a number from 1", args[0])
		}

		env, err := newEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()

		ctx, cancel := commandContext(cmd)
		defer cancel()

		res, err := env.service.LookupRecent(ctx, n)
		if err != nil {
			return lookupFailure(cmd, env, err)
		}
		printResult(cmd, env.renderer, res)
		return nil
	},
}

func init() {
	recentCmd.AddCommand(recentClearCmd, recentPickCmd)
}
