// Package toolrunner implements the best-effort format and lint actions.
// Tool availability is a capability check, not a hard dependency: when the
// configured formatter or linter is not on PATH the action logs a notice
// and succeeds trivially.
package toolrunner
