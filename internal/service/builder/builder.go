package builder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/cloudnautic/hellobuild/internal/config"
	"github.com/cloudnautic/hellobuild/internal/logger"
)

// ErrNoSources is returned when the source directory holds no translation
// units. An empty source set is treated as a configuration error; no
// zero-input link is ever attempted.
var ErrNoSources = errors.New("no C source files found")

// Build compiles stale translation units, relinks when needed and returns
// the path of the produced binary. Sources whose recorded prerequisites
// are unchanged since the previous build are not recompiled.
func Build(ctx context.Context, cfg *config.Config, jobs int) (string, error) {
	ctx = logger.WithName(ctx, "builder")

	sources, err := discoverSources(cfg)
	if err != nil {
		return "", err
	}

	for _, dir := range []string{objectDir(cfg), binaryDir(cfg)} {
		if err = os.MkdirAll(dir, DefaultFileMode); err != nil {
			return "", fmt.Errorf("create build directory: %w", err)
		}
	}

	man, err := loadManifest(manifestPath(cfg))
	if err != nil {
		return "", err
	}

	pruneVanishedObjects(man, cfg, sources)

	// The include directory is a compile input too: re-pointing it at
	// different headers must invalidate every object.
	flagsSum := hashStrings(append([]string{cfg.Compiler, cfg.IncludeDir}, cfg.CFlags...)...)

	stale := make([]string, 0, len(sources))

	for _, src := range sources {
		if needsCompile(ctx, man, cfg, src, flagsSum) {
			stale = append(stale, src)
		}
	}

	compileErr := compileAll(ctx, cfg, man, stale, flagsSum, jobs)

	// Persist what compiled successfully even when a unit failed, so the
	// next invocation only redoes the broken ones.
	if err = man.save(manifestPath(cfg)); err != nil {
		return "", err
	}

	if compileErr != nil {
		return "", compileErr
	}

	binPath := BinaryPath(cfg)

	relinked, err := linkIfNeeded(ctx, cfg, man, sources, len(stale) > 0)
	if err != nil {
		return "", err
	}

	if relinked {
		if err = man.save(manifestPath(cfg)); err != nil {
			return "", err
		}

		logger.InfoKV(ctx, "Linked binary", "path", binPath)
	} else {
		logger.InfoKV(ctx, "Binary is up to date", "path", binPath)
	}

	return binPath, nil
}

// BinaryPath returns where the build places the linked binary.
func BinaryPath(cfg *config.Config) string {
	return filepath.Join(binaryDir(cfg), cfg.BinaryName())
}

// discoverSources lists the .c files of the project in sorted order.
func discoverSources(cfg *config.Config) ([]string, error) {
	sources, err := filepath.Glob(filepath.Join(cfg.SourceDir, "*.c"))
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, cfg.SourceDir)
	}

	sort.Strings(sources)

	return sources, nil
}

// needsCompile reports whether the object derived from src is stale.
func needsCompile(ctx context.Context, man *manifest, cfg *config.Config, src, flagsSum string) bool {
	obj := objectPath(cfg, src)

	record, ok := man.Objects[obj]
	if !ok {
		return true
	}

	if _, err := os.Stat(obj); err != nil {
		return true
	}

	if record.Flags != flagsSum {
		logger.Debugf(ctx, "compile flags changed for %s", src)
		return true
	}

	for dep, recorded := range record.Deps {
		current, err := fileChecksumString(dep)
		if err != nil || current != recorded {
			logger.Debugf(ctx, "prerequisite %s of %s changed", dep, src)
			return true
		}
	}

	return false
}

// compileAll compiles the stale sources with a bounded worker pool.
// All compilations finish (or are cancelled) before the caller links;
// the first failure wins and cancels the remaining work.
func compileAll(ctx context.Context, cfg *config.Config, man *manifest, stale []string, flagsSum string, jobs int) error {
	if len(stale) == 0 {
		return nil
	}

	if jobs < 1 {
		jobs = runtime.NumCPU()
	}

	if jobs > len(stale) {
		jobs = len(stale)
	}

	logger.InfoKV(ctx, "Compiling sources", "count", len(stale), "jobs", jobs)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	queue := make(chan string)

	for i := 0; i < jobs; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for src := range queue {
				if ctx.Err() != nil {
					continue
				}

				record, err := compileOne(ctx, cfg, src, flagsSum)
				if err != nil {
					once.Do(func() {
						firstErr = err

						cancel()
					})

					continue
				}

				mu.Lock()
				man.Objects[objectPath(cfg, src)] = record
				mu.Unlock()
			}
		}()
	}

	for _, src := range stale {
		queue <- src
	}

	close(queue)
	wg.Wait()

	return firstErr
}

// compileOne runs the compiler for a single translation unit and returns
// the dependency record derived from the emitted depfile.
func compileOne(ctx context.Context, cfg *config.Config, src, flagsSum string) (*objectRecord, error) {
	obj := objectPath(cfg, src)
	dep := depfilePath(cfg, src)

	args := make([]string, 0, len(cfg.CFlags)+8)
	args = append(args, cfg.CFlags...)
	args = append(args, "-I", cfg.IncludeDir, "-MMD", "-MF", dep, "-c", src, "-o", obj)

	output, err := exec.CommandContext(ctx, cfg.Compiler, args...).CombinedOutput()
	if err != nil {
		// The compiler's own diagnostics are the user-visible message.
		return nil, fmt.Errorf("compile %s: %w\n%s", src, err, strings.TrimSpace(string(output)))
	}

	if len(output) > 0 {
		logger.Warnf(ctx, "%s", strings.TrimSpace(string(output)))
	}

	logger.Infof(ctx, "compiled %s", src)

	return newObjectRecord(src, dep, flagsSum)
}

// newObjectRecord checksums every prerequisite listed in the depfile.
func newObjectRecord(src, depfile, flagsSum string) (*objectRecord, error) {
	record := &objectRecord{
		Source: src,
		Flags:  flagsSum,
		Deps:   make(map[string]string, defaultMapCapacity),
	}

	contents, err := os.ReadFile(filepath.Clean(depfile))
	if err != nil {
		return nil, fmt.Errorf("read depfile for %s: %w", src, err)
	}

	prerequisites := parseDepfile(contents)
	if len(prerequisites) == 0 {
		prerequisites = []string{src}
	}

	for _, prerequisite := range prerequisites {
		sum, err := fileChecksumString(prerequisite)
		if err != nil {
			return nil, fmt.Errorf("checksum %s: %w", prerequisite, err)
		}

		record.Deps[prerequisite] = sum
	}

	return record, nil
}

// linkIfNeeded relinks the binary when any link input changed and reports
// whether it did. A build with unchanged sources and flags performs no
// work here, which keeps repeated builds byte-identical.
func linkIfNeeded(ctx context.Context, cfg *config.Config, man *manifest, sources []string, compiled bool) (bool, error) {
	binPath := BinaryPath(cfg)

	objects := make([]string, 0, len(sources))
	for _, src := range sources {
		objects = append(objects, objectPath(cfg, src))
	}

	linkSum, err := linkChecksum(cfg, objects)
	if err != nil {
		return false, err
	}

	if !compiled && man.Link == linkSum {
		if _, err = os.Stat(binPath); err == nil {
			return false, nil
		}
	}

	args := make([]string, 0, len(objects)+len(cfg.LDFlags)+2)
	args = append(args, objects...)
	args = append(args, "-o", binPath)
	args = append(args, cfg.LDFlags...)

	output, err := exec.CommandContext(ctx, cfg.Compiler, args...).CombinedOutput()
	if err != nil {
		return false, fmt.Errorf("link %s: %w\n%s", binPath, err, strings.TrimSpace(string(output)))
	}

	if len(output) > 0 {
		logger.Warnf(ctx, "%s", strings.TrimSpace(string(output)))
	}

	man.Link = linkSum

	return true, nil
}

// linkChecksum fingerprints everything the link step depends on.
func linkChecksum(cfg *config.Config, objects []string) (string, error) {
	parts := make([]string, 0, len(objects)*2+len(cfg.LDFlags)+2)
	parts = append(parts, cfg.Compiler, cfg.BinaryName())
	parts = append(parts, cfg.LDFlags...)

	for _, obj := range objects {
		sum, err := fileChecksumString(obj)
		if err != nil {
			return "", fmt.Errorf("checksum %s: %w", obj, err)
		}

		parts = append(parts, obj, sum)
	}

	return hashStrings(parts...), nil
}

// pruneVanishedObjects drops manifest records whose source no longer exists.
func pruneVanishedObjects(man *manifest, cfg *config.Config, sources []string) {
	known := make(map[string]struct{}, len(sources))
	for _, src := range sources {
		known[objectPath(cfg, src)] = struct{}{}
	}

	for obj := range man.Objects {
		if _, ok := known[obj]; !ok {
			_ = os.Remove(obj)
			_ = os.Remove(strings.TrimSuffix(obj, ".o") + ".d")

			delete(man.Objects, obj)
		}
	}
}

func objectDir(cfg *config.Config) string {
	return filepath.Join(cfg.BuildDir, "obj")
}

func binaryDir(cfg *config.Config) string {
	return filepath.Join(cfg.BuildDir, "bin")
}

func manifestPath(cfg *config.Config) string {
	return filepath.Join(cfg.BuildDir, manifestFilename)
}

func objectPath(cfg *config.Config, src string) string {
	base := strings.TrimSuffix(filepath.Base(src), ".c")
	return filepath.Join(objectDir(cfg), base+".o")
}

func depfilePath(cfg *config.Config, src string) string {
	base := strings.TrimSuffix(filepath.Base(src), ".c")
	return filepath.Join(objectDir(cfg), base+".d")
}
