package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mapwire/internal/diagnostic"
	"mapwire/internal/gen"
)

func checkCmd(a *app) *cobra.Command {
	var proxies []string

	c := &cobra.Command{
		Use:   "check [patterns]",
		Short: "Fail when generated files are missing or out of date",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.generate(args, proxies)
			if err != nil {
				return err
			}

			stale, err := gen.Stale(files)
			if err != nil {
				return err
			}

			var diags diagnostic.Diagnostics
			for _, f := range stale {
				diags.AddError(diagnostic.CodeStaleFile, "generated file is out of date; run mapwire gen", f.Path(), "")
			}

			if err := diags.Err(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d generated files up to date\n", len(files))

			return nil
		},
	}

	c.Flags().StringSliceVar(&proxies, "proxy", nil, "interface (import/path.Name) expected to have an adapter")

	return c
}
