// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dalzilio/ldd"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// app holds the global flags and the engine shared by the subcommands.
type app struct {
	configPath  string
	step        int
	cachediff   int
	compression string
	metricsFile string
	verbose     bool

	log    *slog.Logger
	engine *ldd.Engine
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "ldd",
		Short:         "Build and inspect list decision diagrams",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.writeMetrics()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML file with the engine configuration")
	flags.IntVar(&a.step, "ldd64-step", 0, "initial Fibonacci step of the node table")
	flags.IntVar(&a.cachediff, "ldd64-cache", 0, "difference between the steps of the cache and of the node table")
	flags.StringVar(&a.compression, "compression", "none", "compression of diagram files (none, lz4 or zstd)")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write the engine metrics to this file, in the Prometheus text format")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log engine events")

	root.AddCommand(
		newCyclersCmd(a),
		newInfoCmd(a),
		newEnumCmd(a),
		newDotCmd(a),
	)
	return root
}

// setup creates the logger and the engine from the configuration file and the
// command line flags, which take precedence.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	var opts []ldd.Option
	if a.configPath != "" {
		f, err := os.Open(a.configPath)
		if err != nil {
			return err
		}
		defer f.Close()
		c, err := ldd.LoadConfig(f)
		if err != nil {
			return fmt.Errorf("%s: %w", a.configPath, err)
		}
		opts = append(opts, c.Options()...)
	}
	if cmd.Flags().Changed("ldd64-step") {
		opts = append(opts, ldd.Nodestep(a.step))
	}
	if cmd.Flags().Changed("ldd64-cache") {
		opts = append(opts, ldd.Cachediff(a.cachediff))
	}
	opts = append(opts, ldd.Logger(a.log))
	e, err := ldd.New(opts...)
	if err != nil {
		return err
	}
	a.engine = e
	return nil
}

func (a *app) persistOptions() ([]ldd.PersistOption, error) {
	c, err := ldd.ParseCompression(a.compression)
	if err != nil {
		return nil, err
	}
	return []ldd.PersistOption{ldd.WithCompression(c)}, nil
}

func (a *app) writeMetrics() error {
	if a.metricsFile == "" || a.engine == nil {
		return nil
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(ldd.NewCollector(a.engine, "ldd"))
	if err := prometheus.WriteToTextfile(a.metricsFile, reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	a.log.Debug("metrics written", "file", a.metricsFile)
	return nil
}
