package builder

import (
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// manifestFilename stores per-object dependency checksums inside the build directory.
	manifestFilename = "objects.yaml"

	// DefaultFileMode is used for produced binaries and installed artifacts.
	DefaultFileMode os.FileMode = 0o755

	// DefaultChecksumFunction is used to fingerprint sources, headers and artifacts.
	DefaultChecksumFunction crypto.Hash = crypto.SHA512

	// defaultMapCapacity is the default initial capacity for maps and slices.
	defaultMapCapacity = 16
)

var errHashUnavailable = errors.New("hash function unavailable")

// objectRecord captures everything a single object file was derived from.
// The object is stale whenever any recorded prerequisite checksum differs
// from the file currently on disk.
type objectRecord struct {
	// Source is the translation unit the object was compiled from.
	Source string `yaml:"source"`
	// Flags fingerprints the compiler and compile flags used.
	Flags string `yaml:"flags"`
	// Deps maps every prerequisite reported by the compiler's depfile
	// (the source itself and all transitively included headers) to its
	// base64-encoded checksum at compile time.
	Deps map[string]string `yaml:"deps"`
}

// manifest is the on-disk incremental-build state, one record per object.
type manifest struct {
	// Objects maps object file paths to their derivation records.
	Objects map[string]*objectRecord `yaml:"objects"`
	// Link fingerprints the inputs of the last successful link step.
	Link string `yaml:"link,omitempty"`
}

// newManifest produces an empty manifest.
func newManifest() *manifest {
	return &manifest{
		Objects: make(map[string]*objectRecord, defaultMapCapacity),
	}
}

// loadManifest reads the manifest from disk. A missing file yields an
// empty manifest, which forces a full rebuild.
func loadManifest(path string) (*manifest, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newManifest(), nil
		}

		return nil, fmt.Errorf("read object manifest: %w", err)
	}

	m := newManifest()
	if err = yaml.Unmarshal(contents, m); err != nil {
		// A corrupt manifest is not fatal: drop it and rebuild everything.
		return newManifest(), nil
	}

	if m.Objects == nil {
		m.Objects = make(map[string]*objectRecord, defaultMapCapacity)
	}

	return m, nil
}

// save writes the manifest next to the objects it describes.
func (m *manifest) save(path string) error {
	contents, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal object manifest: %w", err)
	}

	if err = os.WriteFile(filepath.Clean(path), contents, 0o644); err != nil {
		return fmt.Errorf("write object manifest: %w", err)
	}

	return nil
}

// FileChecksum returns checksum bytes for a file using DefaultChecksumFunction.
func FileChecksum(path string) ([]byte, error) {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	if !DefaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := DefaultChecksumFunction.New()
	if _, err = hasher.Write(contents); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}

// EncodeChecksum renders checksum bytes the way the manifests store them.
func EncodeChecksum(sum []byte) string {
	return base64.StdEncoding.EncodeToString(sum)
}

// fileChecksumString combines FileChecksum and EncodeChecksum.
func fileChecksumString(path string) (string, error) {
	sum, err := FileChecksum(path)
	if err != nil {
		return "", err
	}

	return EncodeChecksum(sum), nil
}

// hashStrings fingerprints an ordered list of strings. Each part is
// length-prefixed so that concatenation cannot produce collisions.
func hashStrings(parts ...string) string {
	hasher := DefaultChecksumFunction.New()

	for _, part := range parts {
		_, _ = fmt.Fprintf(hasher, "%d:", len(part))
		_, _ = hasher.Write([]byte(part))
	}

	return EncodeChecksum(hasher.Sum(nil))
}
