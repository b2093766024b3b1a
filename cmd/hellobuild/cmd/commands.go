package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cloudnautic/hellobuild/internal/service/builder"
	"github.com/cloudnautic/hellobuild/internal/service/installer"
	"github.com/cloudnautic/hellobuild/internal/service/packager"
	"github.com/cloudnautic/hellobuild/internal/service/runner"
	"github.com/cloudnautic/hellobuild/internal/service/toolrunner"
	"github.com/cloudnautic/hellobuild/internal/service/watcher"
)

// testName overrides the configured one-argument verification value.
var testName string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile changed sources and link the binary",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return builder.Run(ctx, &builder.Options{ConfigPath: configPath, Jobs: jobs})
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and execute the binary",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		code, err := runner.Run(ctx, &runner.Options{ConfigPath: configPath, Jobs: jobs})
		if err != nil {
			return err
		}

		// The action's exit status is the binary's own exit status.
		if code != 0 {
			os.Exit(code)
		}

		return nil
	},
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Build and verify the binary's output",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return runner.Test(ctx, &runner.Options{ConfigPath: configPath, Jobs: jobs, TestName: testName})
	},
}

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Reformat sources if the formatter is available",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return toolrunner.Format(ctx, &toolrunner.Options{ConfigPath: configPath})
	},
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Analyze sources if the linter is available",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return toolrunner.Lint(ctx, &toolrunner.Options{ConfigPath: configPath})
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove object artifacts, keeping the binary",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return builder.RunClean(ctx, &builder.Options{ConfigPath: configPath})
	},
}

var distcleanCmd = &cobra.Command{
	Use:   "distclean",
	Short: "Remove all build and release artifacts",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return builder.RunDistclean(ctx, &builder.Options{ConfigPath: configPath})
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Clean rebuild and package a versioned archive",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return packager.Run(ctx, &packager.Options{ConfigPath: configPath, Jobs: jobs})
	},
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Build and install the binary under the configured prefix",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return installer.Install(ctx, &installer.Options{ConfigPath: configPath, Jobs: jobs})
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the installed binary",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return installer.Uninstall(ctx, &installer.Options{ConfigPath: configPath})
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild whenever sources or headers change",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signalContext()
		defer stop()

		return watcher.Run(ctx, &watcher.Options{ConfigPath: configPath, Jobs: jobs})
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	testCmd.Flags().StringVar(&testName, "name", "", "argument for the one-argument verification case")

	rootCmd.AddCommand(
		buildCmd,
		runCmd,
		testCmd,
		formatCmd,
		lintCmd,
		cleanCmd,
		distcleanCmd,
		releaseCmd,
		installCmd,
		uninstallCmd,
		watchCmd,
	)
}
