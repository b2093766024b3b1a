package packager

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/cloudnautic/hellobuild/internal/config"
)

func writeBinary(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "hello")
	require.NoError(t, os.WriteFile(path, []byte("binary payload"), 0o755))

	return path
}

// TestCreateArchiveTarGz packs and reads back a gzip-compressed tarball.
func TestCreateArchiveTarGz(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := writeBinary(t, dir)
	archive := filepath.Join(dir, "hello-1.0.0.tar.gz")

	require.NoError(t, createArchive(archive, config.ArchiveFormatTarGz, []string{bin}))

	file, err := os.Open(archive)
	require.NoError(t, err)

	defer file.Close()

	gz, err := gzip.NewReader(file)
	require.NoError(t, err)

	assertSingleEntry(t, tar.NewReader(gz), "hello", "binary payload")
}

// TestCreateArchiveTarXz packs and reads back an xz-compressed tarball.
func TestCreateArchiveTarXz(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := writeBinary(t, dir)
	archive := filepath.Join(dir, "hello-1.0.0.tar.xz")

	require.NoError(t, createArchive(archive, config.ArchiveFormatTarXz, []string{bin}))

	file, err := os.Open(archive)
	require.NoError(t, err)

	defer file.Close()

	xzr, err := xz.NewReader(file)
	require.NoError(t, err)

	assertSingleEntry(t, tar.NewReader(xzr), "hello", "binary payload")
}

// TestCreateArchiveRejectsUnknownFormat fails fast for unsupported containers.
func TestCreateArchiveRejectsUnknownFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := writeBinary(t, dir)

	err := createArchive(filepath.Join(dir, "out.zip"), "zip", []string{bin})
	require.Error(t, err)
}

// TestWriteDescription records version and checksums for every file.
func TestWriteDescription(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bin := writeBinary(t, dir)
	path := filepath.Join(dir, "hello-1.0.0.yaml")

	require.NoError(t, writeDescription(path, "linux-amd64", []string{bin}))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "version:")
	require.Contains(t, string(contents), "platform: linux-amd64")
	require.Contains(t, string(contents), "hello:")
}

func assertSingleEntry(t *testing.T, reader *tar.Reader, name, contents string) {
	t.Helper()

	header, err := reader.Next()
	require.NoError(t, err)
	require.Equal(t, name, header.Name)
	require.EqualValues(t, 0o755, header.Mode&0o777)

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, contents, string(data))

	_, err = reader.Next()
	require.ErrorIs(t, err, io.EOF)
}
