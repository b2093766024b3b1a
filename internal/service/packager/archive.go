package packager

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"

	"github.com/cloudnautic/hellobuild/internal/config"
)

// createArchive bundles the given files into a tar container compressed
// per the configured format. Entries are stored under their base names
// with the executable mode preserved.
func createArchive(path, format string, files []string) error {
	out, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}

	compressor, err := newCompressor(out, format)
	if err != nil {
		_ = out.Close()
		return err
	}

	writer := tar.NewWriter(compressor)

	for _, file := range files {
		if err = addFile(writer, file); err != nil {
			_ = writer.Close()
			_ = compressor.Close()
			_ = out.Close()

			return err
		}
	}

	// Close order matters: tar trailer, compressor frame, then the file.
	if err = writer.Close(); err != nil {
		_ = compressor.Close()
		_ = out.Close()

		return err
	}

	if err = compressor.Close(); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// newCompressor wraps the output in the configured compression stream.
func newCompressor(out io.Writer, format string) (io.WriteCloser, error) {
	switch format {
	case config.ArchiveFormatTarGz:
		return gzip.NewWriter(out), nil
	case config.ArchiveFormatTarXz:
		return xz.NewWriter(out)
	default:
		return nil, fmt.Errorf("unsupported archive format %q", format)
	}
}

// addFile streams a single file into the tar archive.
func addFile(writer *tar.Writer, path string) error {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}

	header.Name = filepath.Base(path)

	if err = writer.WriteHeader(header); err != nil {
		return err
	}

	if _, err = io.Copy(writer, file); err != nil {
		return err
	}

	return nil
}
