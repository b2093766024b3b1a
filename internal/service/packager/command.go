package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
	"github.com/cloudnautic/hellobuild/internal/service/builder"
	"github.com/cloudnautic/hellobuild/internal/version"
)

// Options are inputs accepted by the release entry point.
type Options struct {
	// ConfigPath is the optional path to the project settings YAML file.
	ConfigPath string
	// Jobs bounds parallel compilation for the clean rebuild.
	Jobs int
}

// Description is the release manifest written next to the archive. It
// records the version and a checksum for every packaged file.
type Description struct {
	// VersionNumber is the semantic version of this release.
	VersionNumber string `yaml:"version"`
	// Platform tags the target operating system and architecture.
	Platform string `yaml:"platform"`
	// Files maps packaged filenames to their base64-encoded checksums.
	Files map[string]string `yaml:"files"`
}

// Run executes the release workflow: a full clean rebuild, a versioned
// platform-tagged archive under the dist directory and a YAML manifest
// describing its contents.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "packager")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// A release never reuses stale objects.
	if err = builder.Clean(ctx, cfg); err != nil {
		return err
	}

	binPath, err := builder.Build(ctx, cfg, opts.Jobs)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(cfg.DistDir, builder.DefaultFileMode); err != nil {
		return fmt.Errorf("create dist directory: %w", err)
	}

	platform := fmt.Sprintf("%s-%s", runtime.GOOS, runtime.GOARCH)
	stem := fmt.Sprintf("%s-%s-%s", cfg.AppName, version.Short(), platform)
	archivePath := filepath.Join(cfg.DistDir, stem+"."+cfg.ArchiveFormat)

	if err = createArchive(archivePath, cfg.ArchiveFormat, []string{binPath}); err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	logger.InfoKV(ctx, "Created release archive", "path", archivePath)

	manifestPath := filepath.Join(cfg.DistDir, fmt.Sprintf("%s-%s.yaml", cfg.AppName, version.Short()))
	if err = writeDescription(manifestPath, platform, []string{binPath, archivePath}); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Saved release manifest", "path", manifestPath)

	return nil
}

// writeDescription checksums the release files and persists the manifest.
func writeDescription(path, platform string, files []string) error {
	desc := &Description{
		VersionNumber: version.Short(),
		Platform:      platform,
		Files:         make(map[string]string, len(files)),
	}

	sort.Strings(files)

	for _, file := range files {
		checksum, err := builder.FileChecksum(file)
		if err != nil {
			return fmt.Errorf("checksum %s: %w", file, err)
		}

		desc.Files[filepath.Base(file)] = builder.EncodeChecksum(checksum)
	}

	contents, err := yaml.Marshal(desc)
	if err != nil {
		return fmt.Errorf("marshal release manifest: %w", err)
	}

	if err = os.WriteFile(path, contents, 0o644); err != nil {
		return fmt.Errorf("write release manifest: %w", err)
	}

	return nil
}
