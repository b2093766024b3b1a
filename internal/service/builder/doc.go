// Package builder turns a set of C translation units into a linked binary
// and manages the lifecycle of derived artifacts.
//
// Incremental rebuilds are driven by an on-disk object manifest: every
// compile records the checksums of the prerequisites the compiler itself
// reported via its depfile (-MMD), and a later build recompiles a unit
// only when one of those checksums no longer matches. The link step is
// fingerprinted the same way, so a build with no changes performs no work
// and leaves the binary byte-identical.
package builder
