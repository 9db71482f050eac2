package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mapwire/internal/common"
	"mapwire/proxy"
)

func describeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <import/path.Interface>",
		Short: "Show which mapper call each interface method forwards to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := common.SplitQualifiedName(args[0])
			if path == "" {
				return fmt.Errorf("%q is not of the form import/path.Interface", args[0])
			}

			res, err := a.load([]string{path})
			if err != nil {
				return err
			}

			pkg, iface, ok := res.LookupInterface(args[0])
			if !ok {
				return fmt.Errorf("interface %s not found", args[0])
			}

			desc, err := iface.Describe(pkg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATTERN\tSHAPE\tMETHOD")

			for p := range proxy.Pattern(proxy.PatternTotal) {
				method := "-"
				if m := desc.Method(p); m != nil {
					method = m.Signature.String()
				}

				fmt.Fprintf(w, "%s\t%s\t%s\n", p, p.Shape(), method)
			}

			return w.Flush()
		},
	}
}
