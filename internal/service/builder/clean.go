package builder

import (
	"context"
	"fmt"
	"os"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
)

// Clean removes object files, depfiles and the object manifest while
// keeping the linked binary. The next build recompiles everything.
func Clean(ctx context.Context, cfg *config.Config) error {
	ctx = logger.WithName(ctx, "builder")

	if err := os.RemoveAll(objectDir(cfg)); err != nil {
		return fmt.Errorf("remove object directory: %w", err)
	}

	if err := os.Remove(manifestPath(cfg)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove object manifest: %w", err)
	}

	logger.InfoKV(ctx, "Removed object artifacts", "dir", objectDir(cfg))

	return nil
}

// Distclean removes every derived artifact: the whole build directory and
// all release archives.
func Distclean(ctx context.Context, cfg *config.Config) error {
	ctx = logger.WithName(ctx, "builder")

	if err := os.RemoveAll(cfg.BuildDir); err != nil {
		return fmt.Errorf("remove build directory: %w", err)
	}

	if err := os.RemoveAll(cfg.DistDir); err != nil {
		return fmt.Errorf("remove dist directory: %w", err)
	}

	logger.InfoKV(ctx, "Removed all derived artifacts", "build_dir", cfg.BuildDir, "dist_dir", cfg.DistDir)

	return nil
}
