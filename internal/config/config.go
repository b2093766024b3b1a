package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the project parameters shared by every hellobuild action.
type Config struct {
	// AppName is the name of the binary produced by the build.
	AppName string `yaml:"app_name"`
	// Compiler is the C compiler executable to invoke.
	Compiler string `yaml:"compiler"`
	// CFlags are flags passed to every compile step.
	CFlags []string `yaml:"cflags"`
	// LDFlags are flags passed to the link step.
	LDFlags []string `yaml:"ldflags"`
	// SourceDir is the directory holding the .c translation units.
	SourceDir string `yaml:"source_dir"`
	// IncludeDir is the directory holding project headers.
	IncludeDir string `yaml:"include_dir"`
	// BuildDir is where all derived artifacts (objects, binary) are placed.
	BuildDir string `yaml:"build_dir"`
	// DistDir is where release archives are placed.
	DistDir string `yaml:"dist_dir"`
	// Prefix is the installation prefix; the binary installs under <prefix>/bin.
	Prefix string `yaml:"prefix"`
	// DestDir is an optional staging root prepended to Prefix during install.
	// It is meant for packaged installs and is empty by default.
	DestDir string `yaml:"destdir"`
	// Formatter is the source formatter executable (best-effort).
	Formatter string `yaml:"formatter"`
	// Linter is the static analyzer executable (best-effort).
	Linter string `yaml:"linter"`
	// ArchiveFormat selects the release archive container, tar.gz or tar.xz.
	ArchiveFormat string `yaml:"archive_format"`
	// TestName is the fixed argument used by the one-argument verification case.
	TestName string `yaml:"test_name"`
}

const (
	// DefaultConfigFilename is the default filename for project settings.
	DefaultConfigFilename = "hellobuild.yaml"

	// DefaultAppName is the binary name built when none is configured.
	DefaultAppName = "hello"

	// DefaultPrefix is the installation prefix used when none is configured.
	DefaultPrefix = "/usr/local"

	// DefaultFilePermissions is the file permission used for written config files.
	DefaultFilePermissions = 0o600

	// ArchiveFormatTarGz produces .tar.gz release archives.
	ArchiveFormatTarGz = "tar.gz"
	// ArchiveFormatTarXz produces .tar.xz release archives.
	ArchiveFormatTarXz = "tar.xz"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAppNameRequired is returned when the application name is empty.
	errAppNameRequired = errors.New("application name must not be empty")
	// errBadArchiveFormat is returned for unsupported archive containers.
	errBadArchiveFormat = errors.New("archive format must be tar.gz or tar.xz")
	// errRelativePrefix is returned when the install prefix is not absolute.
	errRelativePrefix = errors.New("install prefix must be an absolute path")
)

// Default returns a configuration populated with conventional values.
// A missing config file is not an error; the defaults describe a small
// C project laid out as src/ + include/ with artifacts under build/.
func Default() *Config {
	return &Config{
		AppName:       DefaultAppName,
		Compiler:      defaultCompiler(),
		CFlags:        []string{"-Wall", "-Wextra", "-O2", "-std=c11"},
		LDFlags:       nil,
		SourceDir:     "src",
		IncludeDir:    "include",
		BuildDir:      "build",
		DistDir:       "dist",
		Prefix:        DefaultPrefix,
		DestDir:       "",
		Formatter:     "clang-format",
		Linter:        "clang-tidy",
		ArchiveFormat: ArchiveFormatTarGz,
		TestName:      "Cloudnautic",
	}
}

// Load reads configuration from the provided path, applies defaults for
// unset fields and validates the result. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	cfg := Default()

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided configuration for required fields,
// filling conventional defaults where a field was left empty.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.AppName == "" {
		return errAppNameRequired
	}

	if cfg.Compiler == "" {
		cfg.Compiler = defaultCompiler()
	}

	if cfg.SourceDir == "" {
		cfg.SourceDir = "src"
	}

	if cfg.IncludeDir == "" {
		cfg.IncludeDir = "include"
	}

	if cfg.BuildDir == "" {
		cfg.BuildDir = "build"
	}

	if cfg.DistDir == "" {
		cfg.DistDir = "dist"
	}

	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	if !filepath.IsAbs(cfg.Prefix) {
		return fmt.Errorf("%s: %w", cfg.Prefix, errRelativePrefix)
	}

	if cfg.ArchiveFormat == "" {
		cfg.ArchiveFormat = ArchiveFormatTarGz
	}

	if cfg.ArchiveFormat != ArchiveFormatTarGz && cfg.ArchiveFormat != ArchiveFormatTarXz {
		return fmt.Errorf("%s: %w", cfg.ArchiveFormat, errBadArchiveFormat)
	}

	if cfg.TestName == "" {
		cfg.TestName = "Cloudnautic"
	}

	return nil
}

// BinaryName returns the platform-aware name of the built binary.
func (c *Config) BinaryName() string {
	if runtime.GOOS == "windows" {
		return c.AppName + ".exe"
	}

	return c.AppName
}

// defaultCompiler honors the conventional CC environment variable.
func defaultCompiler() string {
	if cc := os.Getenv("CC"); cc != "" {
		return cc
	}

	return "cc"
}
