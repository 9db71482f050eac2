package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mapwire/internal/common"
	"mapwire/internal/gen"
)

func genCmd(a *app) *cobra.Command {
	var proxies []string

	c := &cobra.Command{
		Use:   "gen [patterns]",
		Short: "Write assembly catalogs and proxy adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := a.generate(args, proxies)
			if err != nil {
				return err
			}

			written, err := gen.WriteFiles(files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(written) == 0 {
				fmt.Fprintf(out, "%d generated files up to date\n", len(files))
				return nil
			}

			for _, f := range written {
				fmt.Fprintf(out, "wrote %s\n", f.Path())
			}

			return nil
		},
	}

	c.Flags().StringSliceVar(&proxies, "proxy", nil, "interface (import/path.Name) to generate an adapter for; adds to the config")

	return c
}

// generate renders every generated file for patterns in memory. Packages
// declaring a proxy interface are loaded along with patterns.
func (a *app) generate(args, proxies []string) ([]gen.GeneratedFile, error) {
	names := append(slices.Clone(a.config.Proxies), proxies...)
	patterns := slices.Clone(a.patterns(args))

	for _, name := range names {
		if path, _ := common.SplitQualifiedName(name); path != "" && !slices.Contains(patterns, path) {
			patterns = append(patterns, path)
		}
	}

	res, err := a.load(patterns)
	if err != nil {
		return nil, err
	}

	files, err := gen.NewGenerator(a.config.GeneratorConfig(), a.logger).Generate(res, names)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("files generated", zap.Int("files", len(files)))

	return files, nil
}
