// Package packager implements the release action: a clean rebuild
// followed by a versioned, platform-tagged archive and a YAML manifest
// with checksums of the packaged files.
package packager
