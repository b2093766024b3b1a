package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"
	"github.com/mitchellh/go-ps"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
	"github.com/cloudnautic/hellobuild/internal/service/builder"
)

// errTargetRunning indicates the installed binary is currently executing.
var errTargetRunning = errors.New("target binary is currently running")

// Options are inputs accepted by the install and uninstall entry points.
type Options struct {
	// ConfigPath is the optional path to the project settings YAML file.
	ConfigPath string
	// Jobs bounds parallel compilation for the implied build.
	Jobs int
}

// Install builds the project and places the binary at
// <destdir><prefix>/bin/<app> with executable permissions. The copy is
// applied atomically and verified against the built binary's checksum.
// Installation is refused while a process with the target's name runs.
func Install(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "installer")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	binPath, err := builder.Build(ctx, cfg, opts.Jobs)
	if err != nil {
		return err
	}

	if err = installBinary(ctx, cfg, binPath); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Installed binary", "path", TargetPath(cfg))

	return nil
}

// Uninstall removes the binary from its composed installation path.
// A missing installed copy is not an error.
func Uninstall(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "installer")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	target := TargetPath(cfg)

	if err = os.Remove(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.InfoKV(ctx, "Nothing installed", "path", target)
			return nil
		}

		return fmt.Errorf("remove %s: %w", target, err)
	}

	logger.InfoKV(ctx, "Removed installed binary", "path", target)

	return nil
}

// TargetPath composes staging root, installation prefix and binary name.
func TargetPath(cfg *config.Config) string {
	return filepath.Join(cfg.DestDir, cfg.Prefix, "bin", cfg.BinaryName())
}

// installBinary applies the built binary onto the target path using an
// atomic, checksum-verified replacement.
func installBinary(ctx context.Context, cfg *config.Config, binPath string) error {
	target := TargetPath(cfg)

	running, err := isProcessRunning(cfg.BinaryName())
	if err != nil {
		return fmt.Errorf("inspect processes: %w", err)
	}

	if running {
		return fmt.Errorf("%s: %w", cfg.BinaryName(), errTargetRunning)
	}

	if err = os.MkdirAll(filepath.Dir(target), builder.DefaultFileMode); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}

	data, err := os.ReadFile(filepath.Clean(binPath))
	if err != nil {
		return fmt.Errorf("read built binary: %w", err)
	}

	checksum, err := builder.FileChecksum(binPath)
	if err != nil {
		return err
	}

	if _, err = os.Stat(target); err != nil && errors.Is(err, os.ErrNotExist) {
		if _, err = os.Create(target); err != nil {
			return fmt.Errorf("create target: %w", err)
		}
	}

	logger.Debugf(ctx, "applying install to %s", target)

	applyOptions := goupdate.Options{
		TargetPath: target,
		TargetMode: builder.DefaultFileMode,
		Checksum:   checksum,
		Hash:       builder.DefaultChecksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(data), applyOptions); err != nil {
		return fmt.Errorf("apply install: %w", err)
	}

	// go-update leaves the previous copy behind on some platforms.
	oldTarget := target + ".old"
	if _, err = os.Stat(oldTarget); err == nil {
		_ = os.Remove(oldTarget)
	}

	return nil
}

// isProcessRunning reports whether another process with the given
// executable name exists.
func isProcessRunning(name string) (bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return false, err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == name {
			return true, nil
		}
	}

	return false, nil
}
