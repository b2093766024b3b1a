package toolrunner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudnautic/hellobuild/internal/config"
)

// recordingTool logs its arguments so tests can assert the invocation.
const recordingTool = `#!/bin/sh
echo "$@" >> "@LOG@"
exit 0
`

func writeProject(t *testing.T) (string, *config.Config) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "include"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.c"), []byte("int main(void){return 0;}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "include", "hello.h"), []byte("void greet(void);\n"), 0o644))

	cfg := config.Default()
	cfg.SourceDir = filepath.Join(dir, "src")
	cfg.IncludeDir = filepath.Join(dir, "include")

	return dir, cfg
}

func saveConfig(t *testing.T, dir string, cfg *config.Config) string {
	t.Helper()

	path := filepath.Join(dir, "hellobuild.yaml")
	require.NoError(t, config.Save(path, cfg))

	return path
}

// TestFormatMissingToolIsNoOp succeeds trivially when the formatter is absent.
func TestFormatMissingToolIsNoOp(t *testing.T) {
	t.Parallel()

	dir, cfg := writeProject(t)
	cfg.Formatter = "definitely-not-a-real-formatter"

	err := Format(context.Background(), &Options{ConfigPath: saveConfig(t, dir, cfg)})
	require.NoError(t, err)
}

// TestLintMissingToolIsNoOp succeeds trivially when the linter is absent.
func TestLintMissingToolIsNoOp(t *testing.T) {
	t.Parallel()

	dir, cfg := writeProject(t)
	cfg.Linter = "definitely-not-a-real-linter"

	err := Lint(context.Background(), &Options{ConfigPath: saveConfig(t, dir, cfg)})
	require.NoError(t, err)
}

// TestFormatEmptyProjectIsNoOp succeeds without invoking the formatter when
// there is nothing to reformat.
func TestFormatEmptyProjectIsNoOp(t *testing.T) {
	t.Parallel()

	dir, cfg := writeProject(t)
	require.NoError(t, os.Remove(filepath.Join(cfg.SourceDir, "main.c")))
	require.NoError(t, os.Remove(filepath.Join(cfg.IncludeDir, "hello.h")))

	log := filepath.Join(dir, "tool.log")
	tool := filepath.Join(dir, "fakefmt")
	script := strings.ReplaceAll(recordingTool, "@LOG@", log)
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))

	cfg.Formatter = tool

	require.NoError(t, Format(context.Background(), &Options{ConfigPath: saveConfig(t, dir, cfg)}))
	require.NoFileExists(t, log)
}

// TestFormatInvokesToolOverProjectFiles passes sources and headers to the tool.
func TestFormatInvokesToolOverProjectFiles(t *testing.T) {
	t.Parallel()

	dir, cfg := writeProject(t)

	log := filepath.Join(dir, "tool.log")
	tool := filepath.Join(dir, "fakefmt")
	script := strings.ReplaceAll(recordingTool, "@LOG@", log)
	require.NoError(t, os.WriteFile(tool, []byte(script), 0o755))

	cfg.Formatter = tool

	require.NoError(t, Format(context.Background(), &Options{ConfigPath: saveConfig(t, dir, cfg)}))

	recorded, err := os.ReadFile(log)
	require.NoError(t, err)
	require.Contains(t, string(recorded), "-i")
	require.Contains(t, string(recorded), "main.c")
	require.Contains(t, string(recorded), "hello.h")
}
