package greet

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGreet checks default substitution and verbatim name handling.
func TestGreet(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Hello, World!", Greet(""))
	require.Equal(t, "Hello, Cloudnautic!", Greet("Cloudnautic"))

	// Names are used verbatim: no trimming, no normalization.
	require.Equal(t, "Hello,  spaced !", Greet(" spaced "))
	require.Equal(t, "Hello, two\nlines!", Greet("two\nlines"))
	require.Equal(t, "Hello, world!", Greet("world"))
}

// TestGreetIsDeterministic ensures repeated invocations yield identical output.
func TestGreetIsDeterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 3; i++ {
		require.Equal(t, "Hello, World!", Greet(""))
	}
}
