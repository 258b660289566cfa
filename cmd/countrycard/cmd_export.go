package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [country name]",
	Short: "Look up a country and save its card as a Word document",
	Long: `Looks the country up like "lookup" and writes the card to a .docx file.
The file is named after the country unless --out is given.

Example:
  countrycard export japan
  countrycard export new zealand --out nz.docx`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		path := exportOut
		if path == "" {
			path = docxName(res.Card.CommonName)
		}
		if err := env.service.ExportCard(path, res); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s card to %s\n", res.Card.CommonName, path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: <country>.docx)")
}

// docxName turns a country name into a file name: lower case, spaces to
// dashes, path separators dropped.
func docxName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return -1
		case ' ':
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "country"
	}
	return name + ".docx"
}
