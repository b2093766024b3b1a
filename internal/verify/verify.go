package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/cloudnautic/hellobuild/internal/greet"
	"github.com/cloudnautic/hellobuild/internal/logger"
)

var (
	// errNotExecutable is returned when the binary exists but cannot be run.
	errNotExecutable = errors.New("binary is not executable")
	// errOutputMismatch is returned when captured output differs from the expectation.
	errOutputMismatch = errors.New("output mismatch")
)

// Options control the verification sequence.
type Options struct {
	// BinaryPath is the binary under test.
	BinaryPath string
	// TestName is the fixed argument for the one-argument case.
	TestName string
}

// Run executes the black-box verification sequence against the binary:
// existence and executability, the no-argument greeting, then the
// one-argument greeting. The sequence is linear; the first failing
// assertion aborts with an expected/actual message.
//
// Exactly one trailing newline is stripped from captured output before
// every comparison; expectations are stated without it. This
// normalization is part of the contract and applied uniformly.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "verify")

	if err := checkExecutable(opts.BinaryPath); err != nil {
		return err
	}

	if err := runCase(ctx, opts.BinaryPath, nil, greet.Greet("")); err != nil {
		return err
	}

	if err := runCase(ctx, opts.BinaryPath, []string{opts.TestName}, greet.Greet(opts.TestName)); err != nil {
		return err
	}

	logger.InfoKV(ctx, "All verification cases passed", "binary", opts.BinaryPath)

	return nil
}

// checkExecutable asserts the binary exists and carries an execute bit.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat binary: %w", err)
	}

	// Windows has no execute bit; existence is enough there.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%s: %w", path, errNotExecutable)
	}

	return nil
}

// runCase invokes the binary and compares its standard output with want.
func runCase(ctx context.Context, binary string, args []string, want string) error {
	output, err := exec.CommandContext(ctx, binary, args...).Output()
	if err != nil {
		return fmt.Errorf("run %s %s: %w", binary, strings.Join(args, " "), err)
	}

	got := trimTrailingNewline(string(output))
	if got != want {
		return fmt.Errorf("args %q: expected %q, actual %q: %w", args, want, got, errOutputMismatch)
	}

	logger.Debugf(ctx, "case %q ok", args)

	return nil
}

// trimTrailingNewline strips exactly one trailing line ending.
func trimTrailingNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
