package main

import (
	"context"
	"errors"

	"countrycard/internal/app"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Start the interactive prompt",
	Args:    cobra.NoArgs,
	RunE:    runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	env, err := newEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	err = app.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), env.service, env.renderer)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
