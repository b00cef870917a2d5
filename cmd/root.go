// Package cmd implements the seo-inspector command line.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seo-optimizer/inspector/config"
	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/probe"
	"github.com/seo-optimizer/inspector/source"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

var (
	// cfgFile holds the path to the optional YAML configuration file.
	cfgFile string

	// debug forces debug logging for all commands
	debug bool

	rootCmd = &cobra.Command{
		Use:           "seo-inspector",
		Short:         "On-page SEO inspector",
		Long:          `Inspects a web page for on-page SEO signals and keyword density, as a one-shot CLI or an HTTP service.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (optional)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "seo-inspector version %s\n", Version)
		},
	})
	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(analyzeCommand())
	rootCmd.AddCommand(keywordsCommand())
}

// deps are the collaborators every command needs.
type deps struct {
	cfg     *config.Config
	logger  logging.Logger
	fetcher source.Fetcher
	prober  *probe.Prober
}

func newDeps() (*deps, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if debug {
		cfg.LogLevel = "debug"
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.DevMode,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}

	fetcher, err := source.New(source.Config{
		Backend:   cfg.FetchBackend,
		Timeout:   cfg.FetchTimeout,
		UserAgent: cfg.UserAgent,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &deps{
		cfg:     cfg,
		logger:  logger,
		fetcher: fetcher,
		prober:  probe.New(nil, cfg.ProbeTimeout, cfg.UserAgent, logger),
	}, nil
}
