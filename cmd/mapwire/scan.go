package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func scanCmd(a *app) *cobra.Command {
	var dump bool

	c := &cobra.Command{
		Use:   "scan [patterns]",
		Short: "List the profiles and capability types of candidate packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.load(a.patterns(args))
			if err != nil {
				return err
			}

			candidates, err := res.Candidates()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if dump {
				spew.Fdump(out, candidates)
				return nil
			}

			if len(candidates) == 0 {
				fmt.Fprintln(out, "no candidate packages")
				return nil
			}

			for _, pkg := range candidates {
				fmt.Fprintf(out, "%s (%d types, registered %s)\n", pkg.Path, len(pkg.Types), a.config.CandidateLifetime)

				for _, name := range pkg.Types {
					fmt.Fprintf(out, "  %s\n", name)
				}

				for _, iface := range pkg.Interfaces {
					if desc, err := iface.Describe(pkg); err == nil {
						fmt.Fprintf(out, "  proxy %s (%d methods)\n", iface.Name, len(desc.Methods()))
					}
				}
			}

			return nil
		},
	}

	c.Flags().BoolVar(&dump, "dump", false, "dump the loaded packages with go-spew")

	return c
}
