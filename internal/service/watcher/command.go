package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
	"github.com/cloudnautic/hellobuild/internal/service/builder"
)

// DefaultDebounce coalesces rapid editor-save bursts into one rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Options are inputs accepted by the watch entry point.
type Options struct {
	// ConfigPath is the optional path to the project settings YAML file.
	ConfigPath string
	// Jobs bounds parallel compilation for triggered rebuilds.
	Jobs int
	// Debounce overrides the rebuild coalescing window.
	Debounce time.Duration
}

// Run builds once, then watches the source and include directories and
// rebuilds on every relevant change until the context is cancelled.
// Rebuild failures are logged and never terminate the watch.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "watcher")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	rebuild(ctx, cfg, opts.Jobs)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}

	defer func() {
		_ = watcher.Close()
	}()

	if err = watcher.Add(cfg.SourceDir); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.SourceDir, err)
	}

	// The include directory is optional for header-less projects.
	if _, statErr := os.Stat(cfg.IncludeDir); statErr == nil {
		if err = watcher.Add(cfg.IncludeDir); err != nil {
			return fmt.Errorf("watch %s: %w", cfg.IncludeDir, err)
		}
	}

	logger.InfoKV(ctx, "Watching for changes",
		"source_dir", cfg.SourceDir, "include_dir", cfg.IncludeDir, "debounce", debounce.String())

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Context canceled, exiting")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if isRelevant(event) {
				logger.Debugf(ctx, "change detected: %s", event.Name)
				timer.Reset(debounce)
			}

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.ErrorKV(ctx, "Watch error", "error", watchErr)

		case <-timer.C:
			rebuild(ctx, cfg, opts.Jobs)
		}
	}
}

// rebuild performs one incremental build, logging instead of failing.
func rebuild(ctx context.Context, cfg *config.Config, jobs int) {
	binPath, err := builder.Build(ctx, cfg, jobs)
	if err != nil {
		logger.ErrorKV(ctx, "Build failed", "error", err)
		return
	}

	logger.InfoKV(ctx, "Build succeeded", "path", binPath)
}

// isRelevant filters events down to source and header mutations.
func isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}

	ext := filepath.Ext(event.Name)

	return ext == ".c" || ext == ".h"
}
