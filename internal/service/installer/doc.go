// Package installer implements the install and uninstall actions. The
// install path composes an optional staging root (destdir) with the
// configured prefix, and replacement of an existing install is atomic and
// checksum-verified.
package installer
