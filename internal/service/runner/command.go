package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
	"github.com/cloudnautic/hellobuild/internal/service/builder"
	"github.com/cloudnautic/hellobuild/internal/verify"
)

// Options are inputs accepted by the run and test entry points.
type Options struct {
	// ConfigPath is the optional path to the project settings YAML file.
	ConfigPath string
	// Jobs bounds parallel compilation for the implied build.
	Jobs int
	// TestName overrides the configured one-argument verification value.
	TestName string
}

// Run builds the project and executes the binary with no arguments,
// inheriting standard streams. It returns the binary's own exit status.
func Run(ctx context.Context, opts *Options) (int, error) {
	ctx = logger.WithName(ctx, "runner")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return 1, fmt.Errorf("load configuration: %w", err)
	}

	binPath, err := builder.Build(ctx, cfg, opts.Jobs)
	if err != nil {
		return 1, err
	}

	logger.InfoKV(ctx, "Running binary", "path", binPath)

	cmd := exec.CommandContext(ctx, binPath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err = cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}

		return 1, fmt.Errorf("run %s: %w", binPath, err)
	}

	return 0, nil
}

// Test builds the project and runs the black-box verification sequence
// against the produced binary, propagating its pass/fail signal.
func Test(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "runner")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	binPath, err := builder.Build(ctx, cfg, opts.Jobs)
	if err != nil {
		return err
	}

	testName := cfg.TestName
	if opts.TestName != "" {
		testName = opts.TestName
	}

	return verify.Run(ctx, &verify.Options{
		BinaryPath: binPath,
		TestName:   testName,
	})
}
