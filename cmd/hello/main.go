// Command hello prints a deterministic greeting. With no argument it
// greets the world; with one argument it greets that name verbatim.
// The only flag is --version; extra arguments are ignored and the exit
// status is always zero.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cloudnautic/hellobuild/internal/greet"
	"github.com/cloudnautic/hellobuild/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run handles --version before the positional-argument path; everything
// else is passed to the greeting verbatim.
func run(args []string, out io.Writer) int {
	if len(args) > 0 && args[0] == "--version" {
		_, _ = fmt.Fprintln(out, version.Full())
		return 0
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	_, _ = fmt.Fprintln(out, greet.Greet(name))

	return 0
}
