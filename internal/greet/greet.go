// Package greet formats the demo program's greeting.
package greet

import "fmt"

// DefaultName is substituted when no name is supplied.
const DefaultName = "World"

// Greet returns the greeting line for name. An empty name falls back to
// DefaultName; anything else is used verbatim, without trimming or
// validation. This operation cannot fail.
func Greet(name string) string {
	if name == "" {
		name = DefaultName
	}

	return fmt.Sprintf("Hello, %s!", name)
}
