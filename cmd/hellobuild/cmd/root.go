package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
	"github.com/cloudnautic/hellobuild/internal/service/builder"
	"github.com/cloudnautic/hellobuild/internal/version"
)

var (
	// configPath to the project settings YAML file.
	configPath string

	// logLevel selects the minimum level for console logging.
	logLevel string

	// jobs bounds parallel compilation; zero means one worker per CPU.
	jobs int

	// rootCmd represents the base command; invoked bare it builds the project.
	rootCmd = &cobra.Command{
		Use:   "hellobuild",
		Short: "Build, test and package the hello project",
		Long: "hellobuild is the build orchestrator for the hello project: it compiles " +
			"C sources incrementally, links the binary and exposes the full artifact " +
			"lifecycle (run, test, clean, release, install) as subcommands. " +
			"Without a subcommand it performs a build.",
		Args: cobra.NoArgs,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			return builder.Run(ctx, &builder.Options{ConfigPath: configPath, Jobs: jobs})
		},
	}
)

// Execute runs the hellobuild CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context cancelled on the standard termination signals.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVarP(&jobs, "jobs", "j", 0, "parallel compile jobs (0 means one per CPU)")
}
