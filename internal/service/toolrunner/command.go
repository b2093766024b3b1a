package toolrunner

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
)

// Options are inputs accepted by the format and lint entry points.
type Options struct {
	// ConfigPath is the optional path to the project settings YAML file.
	ConfigPath string
}

// Format reformats all sources and headers in place with the configured
// formatter. A missing formatter degrades to a logged no-op: these are
// developer-convenience actions, not release gates.
func Format(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "format")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	tool, available := lookupTool(ctx, cfg.Formatter)
	if !available {
		return nil
	}

	files, err := projectFiles(cfg)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		logger.Infof(ctx, "nothing to format under %s and %s", cfg.SourceDir, cfg.IncludeDir)
		return nil
	}

	// clang-format convention: -i rewrites files in place.
	args := append([]string{"-i"}, files...)

	return runTool(ctx, tool, args)
}

// Lint runs the configured static analyzer over all sources. A missing
// linter degrades to a logged no-op; a present linter's failure is
// propagated.
func Lint(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "lint")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	tool, available := lookupTool(ctx, cfg.Linter)
	if !available {
		return nil
	}

	sources, err := filepath.Glob(filepath.Join(cfg.SourceDir, "*.c"))
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}

	if len(sources) == 0 {
		logger.Infof(ctx, "no sources to lint in %s", cfg.SourceDir)
		return nil
	}

	sort.Strings(sources)

	// clang-tidy convention: compile flags follow the "--" separator.
	args := append([]string{}, sources...)
	args = append(args, "--")
	args = append(args, cfg.CFlags...)
	args = append(args, "-I", cfg.IncludeDir)

	return runTool(ctx, tool, args)
}

// lookupTool resolves the tool on PATH, logging a notice when absent.
func lookupTool(ctx context.Context, name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		logger.Infof(ctx, "%s not found, skipping", name)
		return "", false
	}

	return path, true
}

// runTool executes the tool and surfaces its diagnostics on failure.
func runTool(ctx context.Context, tool string, args []string) error {
	output, err := exec.CommandContext(ctx, tool, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w\n%s", filepath.Base(tool), err, strings.TrimSpace(string(output)))
	}

	if len(output) > 0 {
		logger.Infof(ctx, "%s", strings.TrimSpace(string(output)))
	}

	logger.Infof(ctx, "%s completed", filepath.Base(tool))

	return nil
}

// projectFiles lists sources and headers in a deterministic order.
func projectFiles(cfg *config.Config) ([]string, error) {
	sources, err := filepath.Glob(filepath.Join(cfg.SourceDir, "*.c"))
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	headers, err := filepath.Glob(filepath.Join(cfg.IncludeDir, "*.h"))
	if err != nil {
		return nil, fmt.Errorf("list headers: %w", err)
	}

	files := append(sources, headers...)
	sort.Strings(files)

	return files, nil
}
