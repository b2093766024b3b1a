package builder

import (
	"context"
	"fmt"

	"github.com/cloudnautic/hellobuild/internal/config"
)

// Options are inputs accepted by the build entry points.
type Options struct {
	// ConfigPath is the optional path to the project settings YAML file.
	ConfigPath string
	// Jobs bounds parallel compilation; zero means one worker per CPU.
	Jobs int
}

// Run loads the configuration and performs an incremental build.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if _, err = Build(ctx, cfg, opts.Jobs); err != nil {
		return err
	}

	return nil
}

// RunClean loads the configuration and removes object artifacts.
func RunClean(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	return Clean(ctx, cfg)
}

// RunDistclean loads the configuration and removes all derived artifacts.
func RunDistclean(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	return Distclean(ctx, cfg)
}
