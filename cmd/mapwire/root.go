package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mapwire/internal/analyze"
	"mapwire/internal/config"
	"mapwire/internal/logging"
)

// app is the state shared by the subcommands.
type app struct {
	configPath string
	debug      bool
	logger     *zap.Logger
	config     *config.File
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:          "mapwire",
		Short:        "Generate assembly catalogs and mapper proxies",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", config.DefaultFile, "configuration file")
	cmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		scanCmd(a),
		genCmd(a),
		describeCmd(a),
		checkCmd(a),
	)

	return cmd
}

// setup applies the environment, builds the logger and loads the configuration.
func (a *app) setup(cmd *cobra.Command) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}

	if env.ConfigPath != "" && !cmd.Flags().Changed("config") {
		a.configPath = env.ConfigPath
	}

	a.debug = a.debug || env.Debug

	a.logger, err = logging.New(a.debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	a.config, err = config.LoadFile(a.configPath)

	switch {
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") && env.ConfigPath == "":
		a.logger.Debug("no config file; using defaults", zap.String("path", a.configPath))
		a.config = config.Default()
	case err != nil:
		return err
	}

	diags := config.Validate(a.config)
	for _, w := range diags.Warnings {
		a.logger.Warn(w.String())
	}

	return diags.Err()
}

// patterns returns args, or the configured packages when args is empty.
func (a *app) patterns(args []string) []string {
	if len(args) > 0 {
		return args
	}

	return a.config.Packages
}

// load loads patterns and drops excluded packages.
func (a *app) load(patterns []string) (*analyze.Result, error) {
	analyzer := analyze.NewAnalyzer(
		analyze.WithLogger(a.logger),
		analyze.WithBuildTags(a.config.BuildTags...),
	)

	res, err := analyzer.LoadPackages(patterns...)
	if err != nil {
		return nil, err
	}

	kept := res.Packages[:0]

	for _, pkg := range res.Packages {
		if a.config.Excluded(pkg.Path) {
			a.logger.Debug("package excluded", zap.String("package", pkg.Path))
			continue
		}

		kept = append(kept, pkg)
	}

	res.Packages = kept

	return res, nil
}
