// Package runner implements the run and test actions: both perform an
// incremental build first, then either execute the binary directly or
// drive the verification sequence against it.
package runner
