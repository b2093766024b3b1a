// Package version exposes build metadata injected via ldflags and a cobra
// subcommand for printing it. The semantic version also names release
// archives produced by the packager.
package version
